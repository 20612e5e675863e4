package domain

import "time"

// SessionStatus is the lifecycle state of a wizard session.
type SessionStatus string

const (
	StatusInProgress SessionStatus = "in-progress"
	StatusReview     SessionStatus = "review"
	StatusCompleted  SessionStatus = "completed"
	StatusAbandoned  SessionStatus = "abandoned"
)

// Finished reports whether the session accepts no further responses.
func (s SessionStatus) Finished() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// InputResponse is the minimal external submission: a question ID and a
// raw value. No semantics attached; enrichment happens against the config.
type InputResponse struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
}

// Response is an enriched, persisted answer. Once appended to a session it
// is immutable.
type Response struct {
	QuestionID  string    `json:"questionId"`
	SemanticTag string    `json:"semanticTag"`
	Value       string    `json:"value"`
	AnsweredAt  time.Time `json:"answeredAt"`
}

// WizardSession is one principal's in-flight or completed run through a
// wizard config. Responses are append-only in answer order.
type WizardSession struct {
	SessionID     string        `json:"sessionId"`
	WizardID      string        `json:"wizardId"`
	EmployeeID    string        `json:"employeeId"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	CurrentStepID string        `json:"currentStepId"`
	Status        SessionStatus `json:"status"`
	Responses     []Response    `json:"responses"`
}

// NewSession creates an in-progress session positioned at firstStepID.
func NewSession(sessionID, wizardID, employeeID, firstStepID string, now time.Time) *WizardSession {
	return &WizardSession{
		SessionID:     sessionID,
		WizardID:      wizardID,
		EmployeeID:    employeeID,
		CreatedAt:     now,
		UpdatedAt:     now,
		CurrentStepID: firstStepID,
		Status:        StatusInProgress,
		Responses:     []Response{},
	}
}

// Clone returns a deep copy. Every state transition operates on a clone so
// the stored session is never aliased by in-flight computation.
func (s *WizardSession) Clone() *WizardSession {
	if s == nil {
		return nil
	}
	next := *s
	next.Responses = make([]Response, len(s.Responses))
	copy(next.Responses, s.Responses)
	return &next
}

// ResponseContext flattens the response history into a semantic-tag keyed
// map. Later answers to the same tag win: the context is last-write-wins,
// not a list. This is the evidence handed to the rule oracle.
func (s *WizardSession) ResponseContext() map[string]string {
	ctx := make(map[string]string, len(s.Responses))
	for _, r := range s.Responses {
		ctx[r.SemanticTag] = r.Value
	}
	return ctx
}
