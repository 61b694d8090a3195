// internal/cards/velocity.go
package cards

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"discard-copilot/internal/common/errors"
	"discard-copilot/internal/models"
)

// VelocityStore tracks rolling spend against a card's daily and monthly
// windows.
type VelocityStore interface {
	Usage(ctx context.Context, cardID string) (*models.VelocityUsage, error)
	RecordSpend(ctx context.Context, cardID string, amountCents int64) error
}

// RedisVelocityStore keeps the counters in Redis with window-aligned TTLs,
// so stale windows clean themselves up.
type RedisVelocityStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisVelocityStore(client *redis.Client) *RedisVelocityStore {
	return &RedisVelocityStore{client: client, now: time.Now}
}

func (s *RedisVelocityStore) dayKey(cardID string, now time.Time) string {
	return fmt.Sprintf("vel:day:%s:%s", cardID, now.UTC().Format("2006-01-02"))
}

func (s *RedisVelocityStore) monthKey(cardID string, now time.Time) string {
	return fmt.Sprintf("vel:month:%s:%s", cardID, now.UTC().Format("2006-01"))
}

// Usage reads both window counters. Missing keys read as zero.
func (s *RedisVelocityStore) Usage(ctx context.Context, cardID string) (*models.VelocityUsage, error) {
	now := s.now()

	pipe := s.client.Pipeline()
	day := pipe.Get(ctx, s.dayKey(cardID, now))
	month := pipe.Get(ctx, s.monthKey(cardID, now))
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, errors.NewRedisUnavailableError(err)
	}

	usage := &models.VelocityUsage{}
	if v, err := day.Int64(); err == nil {
		usage.DailySpentCents = v
	}
	if v, err := month.Int64(); err == nil {
		usage.MonthlySpentCents = v
	}
	return usage, nil
}

// RecordSpend adds to both windows. TTLs are generous upper bounds on the
// window length; the date-stamped keys make precision unnecessary.
func (s *RedisVelocityStore) RecordSpend(ctx context.Context, cardID string, amountCents int64) error {
	now := s.now()

	pipe := s.client.TxPipeline()
	pipe.IncrBy(ctx, s.dayKey(cardID, now), amountCents)
	pipe.Expire(ctx, s.dayKey(cardID, now), 25*time.Hour)
	pipe.IncrBy(ctx, s.monthKey(cardID, now), amountCents)
	pipe.Expire(ctx, s.monthKey(cardID, now), 32*24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.NewRedisUnavailableError(err)
	}
	return nil
}
