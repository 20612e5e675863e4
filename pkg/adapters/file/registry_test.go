package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/peopleops/intake/pkg/adapters/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validWizardYAML = `wizardId: leave-intake
wizardName: Leave Intake
steps:
  - stepId: step-leave-type
    sort: 10
    name: leave-type
    title: What kind of leave?
    semanticTag: "INTAKE:STEP:LEAVE_TYPE"
  - stepId: step-leave-dates
    sort: 20
    name: leave-dates
    title: When will you be away?
    semanticTag: "INTAKE:STEP:LEAVE_DATES"
elements:
  - elementId: el-leave-type
    stepId: step-leave-type
    type: question
    sort: 10
    isVisible: true
    attributes:
      componentTypeKey: radio
      questionId: q-leave-type
      semanticTag: "INTAKE:QUESTION:LEAVE_TYPE"
      questionText: Which type of leave do you need?
      options:
        - optionId: opt-medical
          sort: 10
          label: Medical
          value: medical
        - optionId: opt-parental
          sort: 20
          label: Parental
          value: parental
`

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestFileRegistry_LoadsAndResolves(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "leave-intake.yaml", validWizardYAML)

	reg, err := file.NewRegistry(dir)
	require.NoError(t, err)

	ctx := context.Background()
	cfg, err := reg.Get(ctx, "leave-intake")
	require.NoError(t, err)
	assert.Equal(t, "Leave Intake", cfg.WizardName)
	require.Len(t, cfg.Steps, 2)

	attrs, err := cfg.Elements[0].QuestionAttrs()
	require.NoError(t, err)
	assert.Equal(t, "q-leave-type", attrs.QuestionID)
	assert.Equal(t, "INTAKE:QUESTION:LEAVE_TYPE", attrs.SemanticTag)
	require.Len(t, attrs.Options, 2)
	assert.Equal(t, "medical", attrs.Options[0].Value)

	ids, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"leave-intake"}, ids)
}

func TestFileRegistry_RejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "broken.yaml", `wizardId: broken
wizardName: Broken
steps: []
`)

	_, err := file.NewRegistry(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one step")
}

func TestFileRegistry_RejectsDuplicateWizardID(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "a.yaml", validWizardYAML)
	writeConfig(t, dir, "b.yaml", validWizardYAML)

	_, err := file.NewRegistry(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate wizard")
}

func TestFileRegistry_EmptyDirFails(t *testing.T) {
	_, err := file.NewRegistry(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no wizard configs")
}
