package runtime

import (
	"fmt"
	"time"

	"github.com/peopleops/intake/pkg/domain"
)

// enrichResponses validates the step guard and appends the enriched batch
// to the session (which must be a clone owned by the caller).
//
// Each raw input is enriched with the semantic tag resolved from the
// config by question ID; the tag is never trusted from external input.
// Responses are applied in the order submitted.
func enrichResponses(cfg *domain.WizardConfig, sess *domain.WizardSession, stepID string, inputs []domain.InputResponse, now time.Time) error {
	if cfg == nil || sess == nil {
		return fmt.Errorf("%w: cannot process responses without a session and config", domain.ErrMissingPrecondition)
	}
	if stepID == "" {
		return fmt.Errorf("%w: stepId is required when submitting responses", domain.ErrMissingPrecondition)
	}
	if stepID != sess.CurrentStepID {
		return &domain.StepMismatchError{Submitted: stepID, Current: sess.CurrentStepID}
	}

	enriched := make([]domain.Response, 0, len(inputs))
	for _, input := range inputs {
		tag, ok := cfg.SemanticTagForQuestion(input.QuestionID)
		if !ok {
			return &domain.UnknownQuestionError{QuestionID: input.QuestionID}
		}
		enriched = append(enriched, domain.Response{
			QuestionID:  input.QuestionID,
			SemanticTag: tag,
			Value:       input.Value,
			AnsweredAt:  now,
		})
	}

	sess.Responses = append(sess.Responses, enriched...)
	sess.UpdatedAt = now
	return nil
}
