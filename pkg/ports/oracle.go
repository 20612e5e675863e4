package ports

import (
	"context"

	"github.com/peopleops/intake/pkg/domain"
)

// RuleOracle evaluates natural-language step-visibility rules against the
// accumulated response context. It is an out-of-process collaborator (an
// LLM call in production) and is treated as untrusted: batch in, batch
// out, one verdict per requested step.
//
// A rule referencing a semantic tag absent from responseContext must yield
// a false verdict, never an error; an unanswered question is
// indistinguishable from "not applicable yet". Transport and parse
// failures are returned as errors and the caller retries the whole batch.
// Completeness of the verdict set is enforced by the sequencer, not here.
type RuleOracle interface {
	EvaluateRules(ctx context.Context, responseContext map[string]string, rules []domain.RuleQuery) ([]domain.RuleVerdict, error)
}
