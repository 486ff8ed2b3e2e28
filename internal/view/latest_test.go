package view

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/hr-console/internal/logger"
)

func TestLatest_NewerKeyWins(t *testing.T) {
	slowStarted := make(chan struct{})
	l := NewLatest("preview", func(ctx context.Context, key string) (string, error) {
		if key == "slow" {
			close(slowStarted)
			<-ctx.Done()
			return "stale", nil
		}
		return "value-" + key, nil
	}, logger.NewNoOpLogger())

	slowDone := make(chan error, 1)
	go func() {
		_, err := l.Load(context.Background(), "slow")
		slowDone <- err
	}()
	<-slowStarted

	v, err := l.Load(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "value-2", v)

	select {
	case err := <-slowDone:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("superseded lookup did not return")
	}

	snap := l.Snapshot()
	assert.Equal(t, "2", snap.Key)
	assert.True(t, snap.HasValue)
	assert.Equal(t, "value-2", snap.Value)
	assert.False(t, snap.Loading)
}

func TestLatest_EmptyKeyClears(t *testing.T) {
	calls := 0
	l := NewLatest("preview", func(ctx context.Context, key string) (string, error) {
		calls++
		return key, nil
	}, logger.NewNoOpLogger())

	_, err := l.Load(context.Background(), "1")
	require.NoError(t, err)
	_, err = l.Load(context.Background(), "")
	require.NoError(t, err)

	snap := l.Snapshot()
	assert.False(t, snap.HasValue)
	assert.Equal(t, "", snap.Key)
	assert.Equal(t, 1, calls)
}
