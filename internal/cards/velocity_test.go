// internal/cards/velocity_test.go
package cards

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discard-copilot/internal/common/errors"
)

func testVelocityStore(t *testing.T) *RedisVelocityStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisVelocityStore(client)
}

func TestVelocityUsageStartsAtZero(t *testing.T) {
	store := testVelocityStore(t)

	usage, err := store.Usage(context.Background(), "card-1")
	require.NoError(t, err)
	assert.Zero(t, usage.DailySpentCents)
	assert.Zero(t, usage.MonthlySpentCents)
}

func TestRecordSpendAccumulates(t *testing.T) {
	store := testVelocityStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordSpend(ctx, "card-1", 5000))
	require.NoError(t, store.RecordSpend(ctx, "card-1", 2500))

	usage, err := store.Usage(ctx, "card-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7500), usage.DailySpentCents)
	assert.Equal(t, int64(7500), usage.MonthlySpentCents)
}

func TestRecordSpendIsPerCard(t *testing.T) {
	store := testVelocityStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordSpend(ctx, "card-1", 5000))

	usage, err := store.Usage(ctx, "card-2")
	require.NoError(t, err)
	assert.Zero(t, usage.DailySpentCents)
}

func TestUsageSurfacesRedisOutage(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisVelocityStore(client)

	now := time.Now().UTC()
	mock.ExpectGet(fmt.Sprintf("vel:day:card-1:%s", now.Format("2006-01-02"))).
		SetErr(fmt.Errorf("connection refused"))
	mock.ExpectGet(fmt.Sprintf("vel:month:card-1:%s", now.Format("2006-01"))).
		SetErr(fmt.Errorf("connection refused"))

	_, err := store.Usage(context.Background(), "card-1")
	require.Error(t, err)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeRedisUnavailable, stdErr.Code)
}
