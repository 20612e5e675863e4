package intake

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/peopleops/intake/internal/logging"
	"github.com/peopleops/intake/internal/runtime"
	"github.com/peopleops/intake/pkg/adapters/memory"
	"github.com/peopleops/intake/pkg/domain"
	"github.com/peopleops/intake/pkg/observability"
	"github.com/peopleops/intake/pkg/ports"
	"github.com/peopleops/intake/pkg/session"
)

// Engine is the high-level entry point for the intake library. It wraps
// the internal flow controller and wires sessions, configs, and the rule
// oracle together.
type Engine struct {
	runtime  *runtime.Engine
	sessions *session.Manager

	store    ports.SessionStore
	registry ports.ConfigRegistry
	oracle   ports.RuleOracle
	locker   ports.DistributedLocker
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    func() time.Time
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore injects a session store. Defaults to the in-memory store.
func WithStore(store ports.SessionStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithRegistry injects a config registry. Required unless configs are
// added through a memory registry beforehand.
func WithRegistry(registry ports.ConfigRegistry) Option {
	return func(e *Engine) {
		e.registry = registry
	}
}

// WithOracle injects the rule oracle used for conditional steps.
func WithOracle(oracle ports.RuleOracle) Option {
	return func(e *Engine) {
		e.oracle = oracle
	}
}

// WithLocker enables distributed locking for multi-instance deployments.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.clock = now
	}
}

// New initializes an intake Engine. A registry and an oracle must be
// provided; the session store defaults to in-memory.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.registry == nil {
		return nil, fmt.Errorf("a config registry is required (use WithRegistry)")
	}
	if e.oracle == nil {
		return nil, fmt.Errorf("a rule oracle is required (use WithOracle)")
	}
	if e.store == nil {
		e.store = memory.NewStore()
	}

	sessionOpts := []session.Option{session.WithLogger(e.logger)}
	if e.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(e.locker))
	}
	e.sessions = session.NewManager(e.store, sessionOpts...)

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(e.logger),
		runtime.WithMetrics(e.metrics),
	}
	if e.clock != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithClock(e.clock))
	}

	e.runtime = runtime.NewEngine(e.registry, e.sessions, e.oracle, runtimeOpts...)
	return e, nil
}

// Init starts a wizard session for the thread, positioned at the first
// step. Re-invoking on a live session re-presents the pending step; a
// finished session is replaced by a fresh one.
func (e *Engine) Init(ctx context.Context, threadID, wizardID, employeeID string) (domain.StepPayload, error) {
	return e.runtime.Init(ctx, threadID, wizardID, employeeID)
}

// Respond submits answers for the pending step and advances the flow.
func (e *Engine) Respond(ctx context.Context, threadID, stepID string, inputs []domain.InputResponse) (domain.StepPayload, error) {
	return e.runtime.Respond(ctx, threadID, stepID, inputs)
}

// Resume re-presents the pending step without mutating any state.
func (e *Engine) Resume(ctx context.Context, threadID string) (domain.StepPayload, error) {
	return e.runtime.Resume(ctx, threadID)
}

// Wizards lists the IDs of every registered wizard config.
func (e *Engine) Wizards(ctx context.Context) ([]string, error) {
	return e.runtime.Wizards(ctx)
}

// Registry returns the config registry backing the engine.
func (e *Engine) Registry() ports.ConfigRegistry {
	return e.registry
}

// Sessions returns the session manager for administrative operations.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}
