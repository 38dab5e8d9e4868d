package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID, "start")
		state.Variables["foo"] = "bar"
		state.Variables["CITY"] = "Pune"
		state.Transcript = append(state.Transcript, domain.TranscriptEntry{
			Direction: domain.DirectionUser,
			Kind:      domain.EntryText,
			Text:      "hello",
			At:        time.Now().UTC().Truncate(time.Second),
		})
		state.History = append(state.History, "start")

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.CurrentNodeID, loaded.CurrentNodeID)
		assert.Equal(t, "bar", loaded.Variables["foo"])
		assert.Equal(t, "Pune", loaded.Variables["CITY"])
		require.Len(t, loaded.Transcript, 1)
		assert.Equal(t, "hello", loaded.Transcript[0].Text)
		assert.True(t, state.Transcript[0].At.Equal(loaded.Transcript[0].At))
		assert.Equal(t, []string{"start"}, loaded.History)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		// Setup
		err := store.Save(ctx, sessionID, domain.NewState(sessionID, "start"))
		require.NoError(t, err)

		// Delete
		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		// Verify gone
		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		// Setup: Create 2 sessions
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1, "start"))
		_ = store.Save(ctx, id2, domain.NewState(id2, "start"))

		// Ensure cleanup
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		// List
		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
