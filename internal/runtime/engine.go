package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/peopleops/intake/internal/logging"
	"github.com/peopleops/intake/pkg/domain"
	"github.com/peopleops/intake/pkg/observability"
	"github.com/peopleops/intake/pkg/ports"
	"github.com/peopleops/intake/pkg/session"
)

// Engine is the flow controller: it routes the three external actions
// (init, respond, resume) to the sequencer and owns all session mutation.
// Each invocation runs to completion under the thread's session lock;
// there is no intra-session parallelism.
type Engine struct {
	registry ports.ConfigRegistry
	sessions *session.Manager
	oracle   ports.RuleOracle

	logger  *slog.Logger
	metrics *observability.Metrics
	now     func() time.Time
	newID   func() string
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *observability.Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator overrides session ID generation (tests).
func WithIDGenerator(gen func() string) EngineOption {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// NewEngine wires the flow controller. The oracle is injected explicitly;
// there are no package-level model clients.
func NewEngine(registry ports.ConfigRegistry, sessions *session.Manager, oracle ports.RuleOracle, opts ...EngineOption) *Engine {
	e := &Engine{
		registry: registry,
		sessions: sessions,
		oracle:   oracle,
		logger:   logging.NewNop(),
		now:      time.Now,
		newID: func() string {
			return "sess-" + uuid.NewString()
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Init creates a new session for the thread, positioned at the wizard's
// first step by sort order. Re-invoking init on a thread whose session is
// still in progress is idempotent: the pending step is re-presented
// unchanged rather than the flow restarting underneath the user. A
// finished session is replaced by a fresh one.
func (e *Engine) Init(ctx context.Context, threadID, wizardID, employeeID string) (domain.StepPayload, error) {
	var payload domain.StepPayload

	err := e.sessions.WithLock(ctx, threadID, func(ctx context.Context) error {
		existing, err := e.sessions.Store().Load(ctx, threadID)
		if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check for existing session: %w", err)
		}
		if err == nil && !existing.Status.Finished() {
			e.logger.Info("init on live session, re-presenting current step",
				"thread_id", threadID, "session_id", existing.SessionID)
			payload, err = e.renderCurrent(ctx, existing)
			return err
		}

		cfg, err := e.registry.Get(ctx, wizardID)
		if err != nil {
			return err
		}

		first, ok := cfg.FirstStep()
		if !ok {
			return fmt.Errorf("%w: config %q has no steps", domain.ErrMissingPrecondition, wizardID)
		}

		sess := domain.NewSession(e.newID(), wizardID, employeeID, first.StepID, e.now())
		if err := e.sessions.Store().Save(ctx, threadID, sess); err != nil {
			return fmt.Errorf("failed to persist new session: %w", err)
		}

		e.logger.Info("wizard session initialized",
			"thread_id", threadID,
			"session_id", sess.SessionID,
			"wizard_id", wizardID,
			"first_step", first.StepID,
		)

		payload = buildStepPayload(cfg, first, sess)
		return nil
	})

	return payload, err
}

// Respond applies a response batch to the thread's pending step and
// advances the flow. The declared stepID must equal the session's current
// step; any mismatch fails without mutating the session. If no further
// step is eligible the session completes and the terminal sentinel payload
// is returned.
func (e *Engine) Respond(ctx context.Context, threadID, stepID string, inputs []domain.InputResponse) (domain.StepPayload, error) {
	var payload domain.StepPayload

	err := e.sessions.WithLock(ctx, threadID, func(ctx context.Context) error {
		stored, err := e.sessions.Store().Load(ctx, threadID)
		if err != nil {
			return err
		}
		if stored.Status.Finished() {
			return fmt.Errorf("%w: session %s is %s", domain.ErrSessionFinished, stored.SessionID, stored.Status)
		}

		cfg, err := e.registry.Get(ctx, stored.WizardID)
		if err != nil {
			return err
		}

		// All mutation below happens on a clone; the stored session is
		// only replaced by a single atomic Save after everything succeeded.
		sess := stored.Clone()
		if err := enrichResponses(cfg, sess, stepID, inputs, e.now()); err != nil {
			e.metrics.ObserveTransition(cfg.WizardID, observability.OutcomeRejected)
			return err
		}

		result, err := e.determineNextStep(ctx, cfg, sess)
		if err != nil {
			e.metrics.ObserveTransition(cfg.WizardID, observability.OutcomeRejected)
			return err
		}

		e.logger.Debug("sequenced next step",
			"thread_id", threadID,
			"rule_results", result.ruleResults,
			"complete", result.next == nil,
		)

		if result.next == nil {
			final := result.session.Clone()
			final.Status = domain.StatusCompleted
			final.UpdatedAt = e.now()
			if err := e.sessions.Store().Save(ctx, threadID, final); err != nil {
				return fmt.Errorf("failed to persist completed session: %w", err)
			}
			e.metrics.ObserveTransition(cfg.WizardID, observability.OutcomeCompleted)
			e.logger.Info("wizard completed", "thread_id", threadID, "session_id", final.SessionID)
			payload = domain.TerminalPayload(final)
			return nil
		}

		if err := e.sessions.Store().Save(ctx, threadID, result.session); err != nil {
			return fmt.Errorf("failed to persist session transition: %w", err)
		}
		e.metrics.ObserveTransition(cfg.WizardID, observability.OutcomeAdvanced)
		payload = buildStepPayload(cfg, *result.next, result.session)
		return nil
	})

	return payload, err
}

// Resume re-presents the step currently awaiting input without re-running
// sequencing or mutating any state. Pure read; calling it any number of
// times yields the same payload.
func (e *Engine) Resume(ctx context.Context, threadID string) (domain.StepPayload, error) {
	var payload domain.StepPayload

	err := e.sessions.WithLock(ctx, threadID, func(ctx context.Context) error {
		sess, err := e.sessions.Store().Load(ctx, threadID)
		if err != nil {
			return err
		}
		payload, err = e.renderCurrent(ctx, sess)
		return err
	})

	return payload, err
}

// renderCurrent projects the session's pending step, or the terminal
// sentinel when the session has already finished.
func (e *Engine) renderCurrent(ctx context.Context, sess *domain.WizardSession) (domain.StepPayload, error) {
	if sess.Status.Finished() {
		return domain.TerminalPayload(sess), nil
	}

	cfg, err := e.registry.Get(ctx, sess.WizardID)
	if err != nil {
		return domain.StepPayload{}, err
	}

	step, ok := cfg.StepByID(sess.CurrentStepID)
	if !ok {
		return domain.StepPayload{}, fmt.Errorf("%w: session %s points at step %q which is not in config %q",
			domain.ErrMissingPrecondition, sess.SessionID, sess.CurrentStepID, sess.WizardID)
	}

	return buildStepPayload(cfg, step, sess), nil
}

// Wizards lists the IDs of every registered wizard config.
func (e *Engine) Wizards(ctx context.Context) ([]string, error) {
	return e.registry.List(ctx)
}

// Registry exposes the config registry for catalog queries.
func (e *Engine) Registry() ports.ConfigRegistry {
	return e.registry
}

// Sessions exposes the session manager for administrative operations.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}
