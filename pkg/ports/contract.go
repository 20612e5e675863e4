package ports

import (
	"context"
	"testing"
	"time"

	"github.com/peopleops/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract verifies that a SessionStore implementation
// adheres to the interface contract. Every adapter test suite should call
// this against a fresh store.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	threadID := "contract-test-thread-" + time.Now().Format("20060102150405")
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	t.Run("Save and Load", func(t *testing.T) {
		session := domain.NewSession("sess-1", "leave-intake", "emp-42", "step-leave-type", now)
		session.Responses = append(session.Responses, domain.Response{
			QuestionID:  "q-leave-type",
			SemanticTag: "INTAKE:QUESTION:LEAVE_TYPE",
			Value:       "medical",
			AnsweredAt:  now,
		})

		err := store.Save(ctx, threadID, session)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, threadID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, session.SessionID, loaded.SessionID)
		assert.Equal(t, session.CurrentStepID, loaded.CurrentStepID)
		assert.Equal(t, domain.StatusInProgress, loaded.Status)
		require.Len(t, loaded.Responses, 1)
		assert.Equal(t, "medical", loaded.Responses[0].Value)
	})

	t.Run("Load Is Isolated From Caller Mutation", func(t *testing.T) {
		loaded, err := store.Load(ctx, threadID)
		require.NoError(t, err)

		loaded.CurrentStepID = "mutated"
		loaded.Responses = append(loaded.Responses, domain.Response{QuestionID: "q-extra"})

		again, err := store.Load(ctx, threadID)
		require.NoError(t, err)
		assert.Equal(t, "step-leave-type", again.CurrentStepID, "store must not alias returned sessions")
		assert.Len(t, again.Responses, 1)
	})

	t.Run("Save Overwrites Whole Document", func(t *testing.T) {
		session, err := store.Load(ctx, threadID)
		require.NoError(t, err)

		session.CurrentStepID = "step-leave-dates"
		session.Status = domain.StatusCompleted
		require.NoError(t, store.Save(ctx, threadID, session))

		loaded, err := store.Load(ctx, threadID)
		require.NoError(t, err)
		assert.Equal(t, "step-leave-dates", loaded.CurrentStepID)
		assert.Equal(t, domain.StatusCompleted, loaded.Status)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+threadID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, threadID, domain.NewSession("sess-1", "leave-intake", "emp-42", "step-leave-type", now)))

		require.NoError(t, store.Delete(ctx, threadID))

		_, err := store.Load(ctx, threadID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := threadID + "-1"
		id2 := threadID + "-2"
		_ = store.Save(ctx, id1, domain.NewSession("s1", "leave-intake", "emp-1", "step-leave-type", now))
		_ = store.Save(ctx, id2, domain.NewSession("s2", "leave-intake", "emp-2", "step-leave-type", now))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		threads, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, threads, id1)
		assert.Contains(t, threads, id2)
	})
}
