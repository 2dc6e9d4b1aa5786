package users

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/credstore/internal/common"
)

func TestSerializedService_ConcurrentRegisterSameUsername(t *testing.T) {
	svc, repo := newTestService(t)
	locked := NewSerializedService(svc)
	ctx := context.Background()

	const workers = 8

	var wg sync.WaitGroup
	successes := make(chan *User, workers)
	failures := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := locked.Register(ctx, "alice", "secret1")
			if err != nil {
				failures <- err
				return
			}
			successes <- u
		}()
	}
	wg.Wait()
	close(successes)
	close(failures)

	assert.Len(t, successes, 1, "exactly one concurrent create may win")
	for err := range failures {
		assert.ErrorIs(t, err, common.ErrorUsernameExists)
	}

	nID, nName := repo.Counts()
	assert.Equal(t, 1, nID)
	assert.Equal(t, 1, nName)
}

func TestSerializedService_LoginNeverSucceedsAfterUnregister(t *testing.T) {
	svc, _ := newTestService(t)
	locked := NewSerializedService(svc)
	ctx := context.Background()

	_, err := locked.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	id, err := locked.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)

	var loginErrs []error
	var mu sync.Mutex

	go func() {
		defer wg.Done()
		for i := 0; i < 5; i++ {
			_, err := locked.Login(ctx, "alice", "secret1")
			mu.Lock()
			loginErrs = append(loginErrs, err)
			mu.Unlock()
		}
	}()
	var unregErr error
	go func() {
		defer wg.Done()
		unregErr = locked.Unregister(ctx, id)
	}()
	wg.Wait()

	require.NoError(t, unregErr)

	// every login either succeeded before the delete or failed cleanly
	// after it; no partial state is ever observed
	for _, err := range loginErrs {
		if err != nil {
			assert.True(t, errors.Is(err, common.ErrorUnauthorized), "unexpected error: %v", err)
		}
	}

	_, err = locked.Login(ctx, "alice", "secret1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}
