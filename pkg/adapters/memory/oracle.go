package memory

import (
	"context"
	"sync"

	"github.com/peopleops/intake/pkg/domain"
)

// ScriptedOracle is a deterministic ports.RuleOracle for tests: verdicts
// are scripted per step ID instead of evaluated by a model. Steps with no
// scripted verdict fail, mirroring the unanswered-dependency policy. It
// can also be scripted to fail outright or to omit verdicts, to exercise
// the protocol-violation paths.
type ScriptedOracle struct {
	mu       sync.Mutex
	verdicts map[string]bool
	omit     map[string]bool
	err      error
	calls    []OracleCall
}

// OracleCall records one batched invocation for assertions.
type OracleCall struct {
	ResponseContext map[string]string
	Rules           []domain.RuleQuery
}

// NewScriptedOracle creates an oracle that answers from the given map.
func NewScriptedOracle(verdicts map[string]bool) *ScriptedOracle {
	if verdicts == nil {
		verdicts = make(map[string]bool)
	}
	return &ScriptedOracle{
		verdicts: verdicts,
		omit:     make(map[string]bool),
	}
}

// Script sets the verdict for a step.
func (o *ScriptedOracle) Script(stepID string, passed bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.verdicts[stepID] = passed
}

// Omit makes the oracle drop the verdict for a step from its response,
// simulating a protocol violation.
func (o *ScriptedOracle) Omit(stepID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.omit[stepID] = true
}

// Fail makes every subsequent call return err (nil restores normal
// operation), simulating a transient oracle failure.
func (o *ScriptedOracle) Fail(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

// Calls returns the recorded invocations.
func (o *ScriptedOracle) Calls() []OracleCall {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]OracleCall, len(o.calls))
	copy(out, o.calls)
	return out
}

// EvaluateRules implements ports.RuleOracle.
func (o *ScriptedOracle) EvaluateRules(ctx context.Context, responseContext map[string]string, rules []domain.RuleQuery) ([]domain.RuleVerdict, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.calls = append(o.calls, OracleCall{ResponseContext: responseContext, Rules: rules})

	if o.err != nil {
		return nil, o.err
	}

	verdicts := make([]domain.RuleVerdict, 0, len(rules))
	for _, rule := range rules {
		if o.omit[rule.StepID] {
			continue
		}
		verdicts = append(verdicts, domain.RuleVerdict{
			StepID:       rule.StepID,
			IsRulePassed: o.verdicts[rule.StepID],
		})
	}
	return verdicts, nil
}
