package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/match-metrics/internal/platform/cache"
	"github.com/riskibarqy/match-metrics/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarmupService_PrimesCache(t *testing.T) {
	t.Parallel()

	store := cache.NewStore(time.Minute)
	svc := newService(newReader(t, confrontations()), store)
	warmup := NewWarmupService(svc, WarmupOptions{LeagueIDs: []int64{140, premierLeague}, Workers: 2}, logging.NewNop())

	result := warmup.Run(context.Background())
	assert.Equal(t, 2, result.SuccessCount)
	assert.Zero(t, result.FailedCount)
	require.Len(t, result.Outcomes, 2)
	assert.Equal(t, premierLeague, result.Outcomes[0].LeagueID)
	assert.Equal(t, 4, store.Len())
}

func TestWarmupService_FailuresDoNotAbortBatch(t *testing.T) {
	t.Parallel()

	reader := &stubSnapshotReader{err: errors.New("store down")}
	warmup := NewWarmupService(newService(reader, nil), WarmupOptions{LeagueIDs: []int64{39, 61, 78}}, nil)

	result := warmup.Run(context.Background())
	assert.Equal(t, 3, result.FailedCount)
	assert.Equal(t, int32(3), reader.calls.Load())
	for _, item := range result.Outcomes {
		assert.Error(t, item.Err)
	}
}

func TestWarmupService_StartStopsWithContext(t *testing.T) {
	t.Parallel()

	reader := newReader(t, confrontations())
	warmup := NewWarmupService(newService(reader, nil), WarmupOptions{LeagueIDs: []int64{premierLeague}}, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		warmup.Start(ctx, time.Hour)
		close(done)
	}()

	require.Eventually(t, func() bool { return reader.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("warmup did not stop after cancel")
	}
}
