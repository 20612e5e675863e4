package runtime

import "github.com/peopleops/intake/pkg/domain"

// buildStepPayload projects a step into its renderable payload: the step,
// its elements ascending by element sort order, and a session snapshot.
// Pure function of (config, step, session).
func buildStepPayload(cfg *domain.WizardConfig, step domain.Step, sess *domain.WizardSession) domain.StepPayload {
	return domain.StepPayload{
		Step:     step,
		Elements: cfg.ElementsForStep(step.StepID),
		Session:  sess,
	}
}
