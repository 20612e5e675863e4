package domain

// TerminalStepID is the sentinel step identifier signalling, across the
// whole system, that no more input is expected.
const TerminalStepID = "complete"

// StepPayload is the externally visible projection of the current step:
// the step itself, its elements in render order, and a snapshot of the
// session (nil before a session exists).
type StepPayload struct {
	Step     Step           `json:"step"`
	Elements []Element      `json:"elements"`
	Session  *WizardSession `json:"session"`
}

// Terminal reports whether this payload is the completion sentinel.
func (p StepPayload) Terminal() bool {
	return p.Step.StepID == TerminalStepID
}

// TerminalPayload synthesizes the fixed completion payload.
func TerminalPayload(session *WizardSession) StepPayload {
	return StepPayload{
		Step: Step{
			StepID:      TerminalStepID,
			Sort:        999,
			Name:        "complete",
			Title:       "Wizard Complete",
			SemanticTag: "WIZARD:COMPLETE",
		},
		Elements: []Element{},
		Session:  session,
	}
}
