package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionNotFound is returned when a thread ID has no persisted session.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownWizard is returned when a wizard ID cannot be resolved to a
// validated config. Fatal at load time, before any session mutation.
var ErrUnknownWizard = errors.New("unknown wizard")

// ErrSessionFinished is returned when a respond action targets a session
// that is already completed or abandoned. Callers must start a new flow.
var ErrSessionFinished = errors.New("session is finished")

// ErrMissingPrecondition signals a caller/wiring bug: the sequencer or
// controller was invoked without a bound config, session, or current step.
// Never retried.
var ErrMissingPrecondition = errors.New("missing precondition")

// ErrOracleUnavailable is returned when the rule oracle cannot be reached
// or keeps failing at the transport level. The pending step is unchanged
// and the whole action may be retried.
var ErrOracleUnavailable = errors.New("rule oracle unavailable")

// StepMismatchError is returned when a response batch declares a step that
// is not the session's current step. Fatal to that request; the caller
// must resynchronize via resume rather than retry blindly.
type StepMismatchError struct {
	Submitted string
	Current   string
}

func (e *StepMismatchError) Error() string {
	return fmt.Sprintf("step mismatch: received %q but current step is %q", e.Submitted, e.Current)
}

// UnknownQuestionError is returned when a submitted question ID cannot be
// resolved to a semantic tag in the bound config. Indicates config/UI
// version skew.
type UnknownQuestionError struct {
	QuestionID string
}

func (e *UnknownQuestionError) Error() string {
	return fmt.Sprintf("no semantic tag found for questionId %q", e.QuestionID)
}

// OracleProtocolError is returned when the rule oracle's response set
// violates its contract (a requested step ID is missing, or the output is
// malformed). The whole batch is treated as failed; no verdicts from the
// offending call are ever applied. Distinct from a genuine false verdict.
type OracleProtocolError struct {
	Missing []string
	Reason  string
}

func (e *OracleProtocolError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("oracle protocol violation: no verdict for step(s) %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("oracle protocol violation: %s", e.Reason)
}
