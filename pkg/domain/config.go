package domain

import (
	"fmt"
	"sort"
	"strings"
)

// WizardConfig is the immutable definition of an intake flow. It is loaded
// and validated once per wizard ID and may be shared across sessions; no
// session-specific mutation ever touches it.
type WizardConfig struct {
	WizardID   string    `json:"wizardId" yaml:"wizardId"`
	WizardName string    `json:"wizardName" yaml:"wizardName"`
	Steps      []Step    `json:"steps" yaml:"steps"`
	Elements   []Element `json:"elements" yaml:"elements"`
}

// Validate checks the structural invariants of the config: at least one
// step, unique step IDs, unique sort orders, unique element IDs, and every
// element referencing an existing step. It returns all violations joined
// into a single error.
func (c *WizardConfig) Validate() error {
	var problems []string

	if c.WizardID == "" {
		problems = append(problems, "wizardId is required")
	}
	if len(c.Steps) == 0 {
		problems = append(problems, "config must have at least one step")
	}

	stepIDs := make(map[string]bool, len(c.Steps))
	sorts := make(map[int]string, len(c.Steps))
	for _, step := range c.Steps {
		if stepIDs[step.StepID] {
			problems = append(problems, fmt.Sprintf("duplicate stepId %q", step.StepID))
		}
		stepIDs[step.StepID] = true

		if other, taken := sorts[step.Sort]; taken {
			problems = append(problems, fmt.Sprintf("steps %q and %q share sort order %d", other, step.StepID, step.Sort))
		}
		sorts[step.Sort] = step.StepID
	}

	elementIDs := make(map[string]bool, len(c.Elements))
	for _, el := range c.Elements {
		if elementIDs[el.ElementID] {
			problems = append(problems, fmt.Sprintf("duplicate elementId %q", el.ElementID))
		}
		elementIDs[el.ElementID] = true

		if !stepIDs[el.StepID] {
			problems = append(problems, fmt.Sprintf("element %q references non-existent step %q", el.ElementID, el.StepID))
		}

		if el.Type == ElementQuestion {
			attrs, err := el.QuestionAttrs()
			if err != nil {
				problems = append(problems, err.Error())
			} else if attrs.QuestionID == "" || attrs.SemanticTag == "" {
				problems = append(problems, fmt.Sprintf("question element %q needs questionId and semanticTag", el.ElementID))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid wizard config %q: %s", c.WizardID, strings.Join(problems, "; "))
	}
	return nil
}

// FirstStep returns the step with the lowest sort order.
func (c *WizardConfig) FirstStep() (Step, bool) {
	if len(c.Steps) == 0 {
		return Step{}, false
	}
	first := c.Steps[0]
	for _, step := range c.Steps[1:] {
		if step.Sort < first.Sort {
			first = step
		}
	}
	return first, true
}

// StepByID looks up a step by its identifier.
func (c *WizardConfig) StepByID(stepID string) (Step, bool) {
	for _, step := range c.Steps {
		if step.StepID == stepID {
			return step, true
		}
	}
	return Step{}, false
}

// StepsAfter returns every step whose sort order is strictly greater than
// the given sort, ascending. This is the sequencer's candidate set.
func (c *WizardConfig) StepsAfter(sortOrder int) []Step {
	var candidates []Step
	for _, step := range c.Steps {
		if step.Sort > sortOrder {
			candidates = append(candidates, step)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Sort < candidates[j].Sort
	})
	return candidates
}

// ElementsForStep returns the elements bound to a step, ascending by the
// element's own sort order.
func (c *WizardConfig) ElementsForStep(stepID string) []Element {
	elements := make([]Element, 0)
	for _, el := range c.Elements {
		if el.StepID == stepID {
			elements = append(elements, el)
		}
	}
	sort.Slice(elements, func(i, j int) bool {
		return elements[i].Sort < elements[j].Sort
	})
	return elements
}

// SemanticTagForQuestion resolves a question ID to its semantic tag.
// Semantic tags are always resolved from config, never trusted from input.
func (c *WizardConfig) SemanticTagForQuestion(questionID string) (string, bool) {
	for _, el := range c.Elements {
		if el.Type != ElementQuestion {
			continue
		}
		attrs, err := el.QuestionAttrs()
		if err != nil {
			continue
		}
		if attrs.QuestionID == questionID {
			return attrs.SemanticTag, true
		}
	}
	return "", false
}
