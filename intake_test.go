package intake_test

import (
	"context"
	"testing"
	"time"

	"github.com/peopleops/intake"
	"github.com/peopleops/intake/pkg/adapters/memory"
	"github.com/peopleops/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaveIntakeConfig() *domain.WizardConfig {
	return &domain.WizardConfig{
		WizardID:   "leave-intake",
		WizardName: "Leave Intake",
		Steps: []domain.Step{
			{StepID: "step-leave-type", Sort: 10, Name: "leave-type", Title: "Leave Type", SemanticTag: "INTAKE:STEP:LEAVE_TYPE"},
			{StepID: "step-medical-docs", Sort: 20, Name: "medical-docs", Title: "Medical Documentation", SemanticTag: "INTAKE:STEP:MEDICAL_DOCS",
				Rule: "Show when the selected leave type is medical", RuleContext: "Medical leave requires a provider certificate"},
			{StepID: "step-leave-dates", Sort: 30, Name: "leave-dates", Title: "Leave Dates", SemanticTag: "INTAKE:STEP:LEAVE_DATES"},
		},
		Elements: []domain.Element{
			{ElementID: "el-leave-type", StepID: "step-leave-type", Type: domain.ElementQuestion, Sort: 10, IsVisible: true,
				Attributes: map[string]any{
					"componentTypeKey": "radio",
					"questionId":       "q-leave-type",
					"semanticTag":      "INTAKE:QUESTION:LEAVE_TYPE",
					"questionText":     "Which type of leave do you need?",
				}},
			{ElementID: "el-leave-intro", StepID: "step-leave-type", Type: domain.ElementInfo, Sort: 5, IsVisible: true,
				Attributes: map[string]any{
					"componentTypeKey": "card",
					"infoId":           "info-intro",
					"title":            "Before you start",
					"content":          "Answers can be changed until the wizard completes.",
				}},
		},
	}
}

func newEngine(t *testing.T, oracle *memory.ScriptedOracle) *intake.Engine {
	t.Helper()

	registry := memory.NewRegistry()
	require.NoError(t, registry.Add(leaveIntakeConfig()))

	eng, err := intake.New(
		intake.WithRegistry(registry),
		intake.WithOracle(oracle),
	)
	require.NoError(t, err)
	return eng
}

func TestNew_RequiresRegistryAndOracle(t *testing.T) {
	_, err := intake.New()
	require.Error(t, err)

	_, err = intake.New(intake.WithRegistry(memory.NewRegistry()))
	require.Error(t, err)
}

func TestEngine_FullFlow(t *testing.T) {
	oracle := memory.NewScriptedOracle(map[string]bool{"step-medical-docs": true})
	eng := newEngine(t, oracle)
	ctx := context.Background()

	payload, err := eng.Init(ctx, "thread-1", "leave-intake", "emp-42")
	require.NoError(t, err)
	assert.Equal(t, "step-leave-type", payload.Step.StepID)
	require.Len(t, payload.Elements, 2)
	assert.Equal(t, "el-leave-intro", payload.Elements[0].ElementID, "elements must come back in sort order")

	payload, err = eng.Respond(ctx, "thread-1", "step-leave-type", []domain.InputResponse{
		{QuestionID: "q-leave-type", Value: "medical"},
	})
	require.NoError(t, err)
	assert.Equal(t, "step-medical-docs", payload.Step.StepID)
	require.NotNil(t, payload.Session)
	require.Len(t, payload.Session.Responses, 1)
	assert.Equal(t, "INTAKE:QUESTION:LEAVE_TYPE", payload.Session.Responses[0].SemanticTag)

	payload, err = eng.Respond(ctx, "thread-1", "step-medical-docs", nil)
	require.NoError(t, err)
	assert.Equal(t, "step-leave-dates", payload.Step.StepID)

	payload, err = eng.Respond(ctx, "thread-1", "step-leave-dates", nil)
	require.NoError(t, err)
	assert.True(t, payload.Terminal())
	assert.Equal(t, domain.StatusCompleted, payload.Session.Status)
}

func TestEngine_InitIsIdempotentOnLiveSession(t *testing.T) {
	eng := newEngine(t, memory.NewScriptedOracle(nil))
	ctx := context.Background()

	first, err := eng.Init(ctx, "thread-1", "leave-intake", "emp-42")
	require.NoError(t, err)

	again, err := eng.Init(ctx, "thread-1", "leave-intake", "emp-42")
	require.NoError(t, err)
	assert.Equal(t, first.Step.StepID, again.Step.StepID)
	assert.Equal(t, first.Session.SessionID, again.Session.SessionID, "init on a live session must not restart the flow")
}

func TestEngine_InitReplacesFinishedSession(t *testing.T) {
	oracle := memory.NewScriptedOracle(map[string]bool{"step-medical-docs": false})
	eng := newEngine(t, oracle)
	ctx := context.Background()

	first, err := eng.Init(ctx, "thread-1", "leave-intake", "emp-42")
	require.NoError(t, err)

	_, err = eng.Respond(ctx, "thread-1", "step-leave-type", []domain.InputResponse{
		{QuestionID: "q-leave-type", Value: "parental"},
	})
	require.NoError(t, err)
	payload, err := eng.Respond(ctx, "thread-1", "step-leave-dates", nil)
	require.NoError(t, err)
	require.True(t, payload.Terminal())

	fresh, err := eng.Init(ctx, "thread-1", "leave-intake", "emp-42")
	require.NoError(t, err)
	assert.Equal(t, "step-leave-type", fresh.Step.StepID)
	assert.NotEqual(t, first.Session.SessionID, fresh.Session.SessionID)
	assert.Empty(t, fresh.Session.Responses)
}

func TestEngine_ResumeIsPureRead(t *testing.T) {
	eng := newEngine(t, memory.NewScriptedOracle(nil))
	ctx := context.Background()

	_, err := eng.Init(ctx, "thread-1", "leave-intake", "emp-42")
	require.NoError(t, err)

	var last time.Time
	for i := 0; i < 3; i++ {
		payload, err := eng.Resume(ctx, "thread-1")
		require.NoError(t, err)
		assert.Equal(t, "step-leave-type", payload.Step.StepID)
		if i > 0 {
			assert.Equal(t, last, payload.Session.UpdatedAt, "resume must not touch the session")
		}
		last = payload.Session.UpdatedAt
	}
}

func TestEngine_ResumeUnknownThread(t *testing.T) {
	eng := newEngine(t, memory.NewScriptedOracle(nil))

	_, err := eng.Resume(context.Background(), "no-such-thread")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestEngine_Wizards(t *testing.T) {
	eng := newEngine(t, memory.NewScriptedOracle(nil))

	ids, err := eng.Wizards(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"leave-intake"}, ids)
}
