package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/chatsim/pkg/adapters/memory"
	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_LockEntriesAreReleased(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("session-%d", i%5)
			_, _, err := mgr.LoadOrStart(ctx, id, "start", nil)
			assert.NoError(t, err)
			_, err = mgr.Update(ctx, id, func(_ context.Context, s *domain.State) error {
				s.History = append(s.History, "start")
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		require.NoError(t, mgr.Delete(ctx, fmt.Sprintf("session-%d", i)))
	}

	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	assert.Empty(t, mgr.locks, "every lock entry is dropped once its last holder leaves")
}

func TestManager_LockReleasedOnError(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	boom := errors.New("boom")

	err := mgr.WithLock(context.Background(), "s1", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)

	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	assert.Empty(t, mgr.locks)
}
