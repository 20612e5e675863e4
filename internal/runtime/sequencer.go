package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/peopleops/intake/pkg/domain"
)

// sequenceResult is the outcome of one sequencing pass.
//
// next == nil means the wizard is complete: either no candidate remained
// or every remaining candidate's rule failed. That is a legitimate
// outcome, not an error. session is always a value the caller may persist;
// the input session is never mutated in place.
type sequenceResult struct {
	next        *domain.Step
	ruleResults map[string]bool
	session     *domain.WizardSession
}

// determineNextStep computes the next presentable step for the session.
//
// Candidates are every step sorted strictly after the current one. Steps
// without a rule pass implicitly; rule-bearing steps are evaluated by the
// oracle in a single batched call. The first candidate in ascending sort
// order with a true verdict wins: sort order is the single source of
// sequencing truth, rules only gate.
func (e *Engine) determineNextStep(ctx context.Context, cfg *domain.WizardConfig, sess *domain.WizardSession) (sequenceResult, error) {
	if cfg == nil || sess == nil || sess.CurrentStepID == "" {
		return sequenceResult{}, fmt.Errorf("%w: sequencer needs a bound config, session, and current step", domain.ErrMissingPrecondition)
	}

	current, ok := cfg.StepByID(sess.CurrentStepID)
	if !ok {
		return sequenceResult{}, fmt.Errorf("%w: current step %q is not in config %q",
			domain.ErrMissingPrecondition, sess.CurrentStepID, cfg.WizardID)
	}

	candidates := cfg.StepsAfter(current.Sort)
	if len(candidates) == 0 {
		return sequenceResult{ruleResults: map[string]bool{}, session: sess}, nil
	}

	// Seed implicit passes; collect the rule-bearing steps for one batch.
	ruleResults := make(map[string]bool, len(candidates))
	var queries []domain.RuleQuery
	for _, step := range candidates {
		if !step.HasRule() {
			ruleResults[step.StepID] = true
			continue
		}
		queries = append(queries, domain.RuleQuery{
			StepID:      step.StepID,
			Rule:        step.Rule,
			RuleContext: step.RuleContext,
		})
	}

	if len(queries) > 0 {
		verdicts, err := e.evaluateBatch(ctx, sess.ResponseContext(), queries)
		if err != nil {
			return sequenceResult{}, err
		}
		// Oracle verdicts apply only to the steps that were queried;
		// implicit passes are never overridden.
		for stepID, passed := range verdicts {
			ruleResults[stepID] = passed
		}
	}

	for _, step := range candidates {
		if !ruleResults[step.StepID] {
			continue
		}
		next := step
		updated := sess.Clone()
		updated.CurrentStepID = next.StepID
		updated.UpdatedAt = e.now()
		return sequenceResult{next: &next, ruleResults: ruleResults, session: updated}, nil
	}

	// Every remaining step was conditionally inapplicable to this user.
	return sequenceResult{ruleResults: ruleResults, session: sess}, nil
}

// evaluateBatch invokes the oracle once for the whole batch and validates
// the protocol: exactly one verdict per requested step ID. Verdicts are
// staged and only returned once the whole set checks out, so a failed call
// can never be partially applied.
func (e *Engine) evaluateBatch(ctx context.Context, responseContext map[string]string, queries []domain.RuleQuery) (map[string]bool, error) {
	start := e.now()
	verdicts, err := e.oracle.EvaluateRules(ctx, responseContext, queries)
	elapsed := e.now().Sub(start)
	if err != nil {
		var protoErr *domain.OracleProtocolError
		if errors.As(err, &protoErr) {
			e.metrics.ObserveOracle("protocol", elapsed)
			return nil, err
		}
		e.metrics.ObserveOracle("error", elapsed)
		return nil, fmt.Errorf("%w: %v", domain.ErrOracleUnavailable, err)
	}

	requested := make(map[string]bool, len(queries))
	for _, q := range queries {
		requested[q.StepID] = true
	}

	staged := make(map[string]bool, len(queries))
	for _, v := range verdicts {
		if !requested[v.StepID] {
			e.logger.Debug("ignoring oracle verdict for unrequested step", "step_id", v.StepID)
			continue
		}
		staged[v.StepID] = v.IsRulePassed
	}

	var missing []string
	for _, q := range queries {
		if _, ok := staged[q.StepID]; !ok {
			missing = append(missing, q.StepID)
		}
	}
	if len(missing) > 0 {
		e.metrics.ObserveOracle("protocol", elapsed)
		return nil, &domain.OracleProtocolError{Missing: missing}
	}

	e.metrics.ObserveOracle("ok", elapsed)
	return staged, nil
}
