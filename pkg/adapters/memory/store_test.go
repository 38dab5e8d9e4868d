package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/chatsim/pkg/adapters/memory"
	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	s := domain.NewState("s1", "start")
	s.Variables["k"] = "v"
	require.NoError(t, store.Save(ctx, "s1", s))

	s.Variables["k"] = "mutated"
	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "v", loaded.Variables["k"])

	loaded.Variables["k"] = "mutated again"
	again, _ := store.Load(ctx, "s1")
	assert.Equal(t, "v", again.Variables["k"])
}
