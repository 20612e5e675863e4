package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/peopleops/intake/internal/runtime"
	"github.com/peopleops/intake/pkg/adapters/memory"
	"github.com/peopleops/intake/pkg/domain"
	"github.com/peopleops/intake/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// branchingConfig has two oracle-gated steps between two unconditional
// ones, so tests can exercise skipping, batching, and completion.
func branchingConfig() *domain.WizardConfig {
	return &domain.WizardConfig{
		WizardID:   "onboarding",
		WizardName: "Onboarding",
		Steps: []domain.Step{
			{StepID: "step-role", Sort: 10, Name: "role", Title: "Your Role", SemanticTag: "ONBOARD:STEP:ROLE"},
			{StepID: "step-equipment", Sort: 20, Name: "equipment", Title: "Equipment", SemanticTag: "ONBOARD:STEP:EQUIPMENT",
				Rule: "Show when the role needs hardware"},
			{StepID: "step-access", Sort: 30, Name: "access", Title: "System Access", SemanticTag: "ONBOARD:STEP:ACCESS",
				Rule: "Show when the role needs production access"},
			{StepID: "step-confirm", Sort: 40, Name: "confirm", Title: "Confirm", SemanticTag: "ONBOARD:STEP:CONFIRM"},
		},
		Elements: []domain.Element{
			{ElementID: "el-role", StepID: "step-role", Type: domain.ElementQuestion, Sort: 10, IsVisible: true,
				Attributes: map[string]any{
					"componentTypeKey": "select",
					"questionId":       "q-role",
					"semanticTag":      "ONBOARD:QUESTION:ROLE",
					"questionText":     "What is your role?",
				}},
		},
	}
}

type fixture struct {
	engine *runtime.Engine
	store  *memory.Store
	oracle *memory.ScriptedOracle
	now    time.Time
}

func newFixture(t *testing.T, oracle *memory.ScriptedOracle) *fixture {
	t.Helper()

	registry := memory.NewRegistry()
	require.NoError(t, registry.Add(branchingConfig()))

	store := memory.NewStore()
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	engine := runtime.NewEngine(registry, session.NewManager(store), oracle,
		runtime.WithClock(func() time.Time { return now }),
		runtime.WithIDGenerator(func() string { return "sess-fixed" }),
	)
	return &fixture{engine: engine, store: store, oracle: oracle, now: now}
}

func (f *fixture) start(t *testing.T) domain.StepPayload {
	t.Helper()
	payload, err := f.engine.Init(context.Background(), "thread-1", "onboarding", "emp-42")
	require.NoError(t, err)
	return payload
}

func (f *fixture) stored(t *testing.T) *domain.WizardSession {
	t.Helper()
	sess, err := f.store.Load(context.Background(), "thread-1")
	require.NoError(t, err)
	return sess
}

func TestInit_PresentsLowestSortStep(t *testing.T) {
	f := newFixture(t, memory.NewScriptedOracle(nil))

	payload := f.start(t)
	assert.Equal(t, "step-role", payload.Step.StepID)
	assert.Equal(t, "sess-fixed", payload.Session.SessionID)
	assert.Equal(t, "step-role", f.stored(t).CurrentStepID)
}

func TestInit_UnknownWizard(t *testing.T) {
	f := newFixture(t, memory.NewScriptedOracle(nil))

	_, err := f.engine.Init(context.Background(), "thread-1", "no-such-wizard", "emp-42")
	assert.ErrorIs(t, err, domain.ErrUnknownWizard)
}

func TestRespond_FirstPassingCandidateBySortWins(t *testing.T) {
	oracle := memory.NewScriptedOracle(map[string]bool{
		"step-equipment": false,
		"step-access":    true,
	})
	f := newFixture(t, oracle)
	f.start(t)

	payload, err := f.engine.Respond(context.Background(), "thread-1", "step-role", []domain.InputResponse{
		{QuestionID: "q-role", Value: "sre"},
	})
	require.NoError(t, err)
	assert.Equal(t, "step-access", payload.Step.StepID, "a failed rule skips the step, the next passing step wins")
}

func TestRespond_RulesOnlyGateNeverReorder(t *testing.T) {
	oracle := memory.NewScriptedOracle(map[string]bool{
		"step-equipment": true,
		"step-access":    true,
	})
	f := newFixture(t, oracle)
	f.start(t)

	payload, err := f.engine.Respond(context.Background(), "thread-1", "step-role", nil)
	require.NoError(t, err)
	assert.Equal(t, "step-equipment", payload.Step.StepID, "when both pass, the lower sort wins")
}

func TestRespond_BatchesOracleOncePerTransition(t *testing.T) {
	oracle := memory.NewScriptedOracle(map[string]bool{"step-equipment": true})
	f := newFixture(t, oracle)
	f.start(t)

	_, err := f.engine.Respond(context.Background(), "thread-1", "step-role", []domain.InputResponse{
		{QuestionID: "q-role", Value: "engineer"},
	})
	require.NoError(t, err)

	calls := oracle.Calls()
	require.Len(t, calls, 1, "all candidate rules are evaluated in one call")

	// Only rule-bearing candidates reach the oracle; step-confirm has no
	// rule and passes implicitly.
	ruleSteps := make([]string, 0, len(calls[0].Rules))
	for _, rule := range calls[0].Rules {
		ruleSteps = append(ruleSteps, rule.StepID)
	}
	assert.ElementsMatch(t, []string{"step-equipment", "step-access"}, ruleSteps)

	// The oracle sees the just-submitted answer keyed by semantic tag.
	assert.Equal(t, "engineer", calls[0].ResponseContext["ONBOARD:QUESTION:ROLE"])
}

func TestRespond_StepMismatchLeavesSessionUntouched(t *testing.T) {
	f := newFixture(t, memory.NewScriptedOracle(nil))
	f.start(t)
	before := f.stored(t)

	_, err := f.engine.Respond(context.Background(), "thread-1", "step-confirm", []domain.InputResponse{
		{QuestionID: "q-role", Value: "engineer"},
	})

	var mismatch *domain.StepMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "step-confirm", mismatch.Submitted)
	assert.Equal(t, "step-role", mismatch.Current)
	assert.Equal(t, before, f.stored(t), "a rejected batch must not mutate the session")
	assert.Empty(t, f.oracle.Calls(), "sequencing must not run on a rejected batch")
}

func TestRespond_UnknownQuestionLeavesSessionUntouched(t *testing.T) {
	f := newFixture(t, memory.NewScriptedOracle(nil))
	f.start(t)
	before := f.stored(t)

	_, err := f.engine.Respond(context.Background(), "thread-1", "step-role", []domain.InputResponse{
		{QuestionID: "q-unknown", Value: "x"},
	})

	var unknown *domain.UnknownQuestionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "q-unknown", unknown.QuestionID)
	assert.Equal(t, before, f.stored(t))
}

func TestRespond_OracleOmissionFailsWholeBatch(t *testing.T) {
	oracle := memory.NewScriptedOracle(map[string]bool{
		"step-equipment": true,
		"step-access":    true,
	})
	oracle.Omit("step-access")
	f := newFixture(t, oracle)
	f.start(t)
	before := f.stored(t)

	_, err := f.engine.Respond(context.Background(), "thread-1", "step-role", []domain.InputResponse{
		{QuestionID: "q-role", Value: "engineer"},
	})

	var protoErr *domain.OracleProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Contains(t, protoErr.Missing, "step-access")
	assert.Equal(t, before, f.stored(t), "no verdict from a violating call may be applied")
}

func TestRespond_OracleFailureLeavesSessionUntouched(t *testing.T) {
	oracle := memory.NewScriptedOracle(nil)
	oracle.Fail(assert.AnError)
	f := newFixture(t, oracle)
	f.start(t)
	before := f.stored(t)

	_, err := f.engine.Respond(context.Background(), "thread-1", "step-role", []domain.InputResponse{
		{QuestionID: "q-role", Value: "engineer"},
	})

	require.ErrorIs(t, err, domain.ErrOracleUnavailable)
	assert.Equal(t, before, f.stored(t))

	// The action is retryable once the oracle recovers.
	oracle.Fail(nil)
	oracle.Script("step-equipment", true)
	payload, err := f.engine.Respond(context.Background(), "thread-1", "step-role", []domain.InputResponse{
		{QuestionID: "q-role", Value: "engineer"},
	})
	require.NoError(t, err)
	assert.Equal(t, "step-equipment", payload.Step.StepID)
}

func TestRespond_AllRemainingRulesFalseCompletes(t *testing.T) {
	// Both gated steps fail and step-confirm is answered away first.
	oracle := memory.NewScriptedOracle(map[string]bool{
		"step-equipment": false,
		"step-access":    false,
	})
	f := newFixture(t, oracle)
	f.start(t)

	payload, err := f.engine.Respond(context.Background(), "thread-1", "step-role", nil)
	require.NoError(t, err)
	assert.Equal(t, "step-confirm", payload.Step.StepID)

	payload, err = f.engine.Respond(context.Background(), "thread-1", "step-confirm", nil)
	require.NoError(t, err)
	assert.True(t, payload.Terminal())
	assert.Equal(t, domain.TerminalStepID, payload.Step.StepID)
	assert.Equal(t, 999, payload.Step.Sort)
	assert.Equal(t, "WIZARD:COMPLETE", payload.Step.SemanticTag)
	assert.Empty(t, payload.Elements)
	assert.Equal(t, domain.StatusCompleted, f.stored(t).Status)
}

func TestRespond_UnansweredDependencyIsFalseNotError(t *testing.T) {
	// Nothing scripted: the oracle answers false for every queried rule,
	// mirroring a model that cannot affirm a rule about missing answers.
	f := newFixture(t, memory.NewScriptedOracle(nil))
	f.start(t)

	payload, err := f.engine.Respond(context.Background(), "thread-1", "step-role", nil)
	require.NoError(t, err)
	assert.Equal(t, "step-confirm", payload.Step.StepID, "unanswered dependencies suppress steps, they never error")
}

func TestRespond_FinishedSessionRejected(t *testing.T) {
	oracle := memory.NewScriptedOracle(nil)
	f := newFixture(t, oracle)
	f.start(t)

	_, err := f.engine.Respond(context.Background(), "thread-1", "step-role", nil)
	require.NoError(t, err)
	payload, err := f.engine.Respond(context.Background(), "thread-1", "step-confirm", nil)
	require.NoError(t, err)
	require.True(t, payload.Terminal())

	_, err = f.engine.Respond(context.Background(), "thread-1", "step-confirm", nil)
	assert.ErrorIs(t, err, domain.ErrSessionFinished)
}

func TestRespond_EmptyStepID(t *testing.T) {
	f := newFixture(t, memory.NewScriptedOracle(nil))
	f.start(t)

	_, err := f.engine.Respond(context.Background(), "thread-1", "", nil)
	assert.ErrorIs(t, err, domain.ErrMissingPrecondition)
}

func TestRespond_UnknownThread(t *testing.T) {
	f := newFixture(t, memory.NewScriptedOracle(nil))

	_, err := f.engine.Respond(context.Background(), "no-such-thread", "step-role", nil)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestResume_ReflectsPendingStep(t *testing.T) {
	oracle := memory.NewScriptedOracle(map[string]bool{"step-equipment": true})
	f := newFixture(t, oracle)
	f.start(t)

	_, err := f.engine.Respond(context.Background(), "thread-1", "step-role", []domain.InputResponse{
		{QuestionID: "q-role", Value: "engineer"},
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		payload, err := f.engine.Resume(context.Background(), "thread-1")
		require.NoError(t, err)
		assert.Equal(t, "step-equipment", payload.Step.StepID)
	}
	require.Len(t, oracle.Calls(), 1, "resume must not re-run sequencing")
}

func TestResume_CompletedSessionYieldsTerminalPayload(t *testing.T) {
	f := newFixture(t, memory.NewScriptedOracle(nil))
	f.start(t)

	_, err := f.engine.Respond(context.Background(), "thread-1", "step-role", nil)
	require.NoError(t, err)
	_, err = f.engine.Respond(context.Background(), "thread-1", "step-confirm", nil)
	require.NoError(t, err)

	payload, err := f.engine.Resume(context.Background(), "thread-1")
	require.NoError(t, err)
	assert.True(t, payload.Terminal())
}

func TestResponseContext_LastWriteWins(t *testing.T) {
	oracle := memory.NewScriptedOracle(map[string]bool{
		"step-equipment": true,
		"step-access":    true,
	})
	f := newFixture(t, oracle)
	f.start(t)

	_, err := f.engine.Respond(context.Background(), "thread-1", "step-role", []domain.InputResponse{
		{QuestionID: "q-role", Value: "analyst"},
		{QuestionID: "q-role", Value: "engineer"},
	})
	require.NoError(t, err)

	sess := f.stored(t)
	require.Len(t, sess.Responses, 2, "history keeps every answer")
	assert.Equal(t, "engineer", sess.ResponseContext()["ONBOARD:QUESTION:ROLE"], "the context keeps only the latest")
}
