// internal/plan/builder/cache.go
package builder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"discard-copilot/internal/common/errors"
	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/models"
)

// PlanCache holds structured plans in Redis until they are approved or
// expire. The TTL mirrors the plan's own expiry so Redis does the
// housekeeping.
type PlanCache struct {
	client *redis.Client
	log    logger.Logger
}

func NewPlanCache(client *redis.Client, log logger.Logger) *PlanCache {
	return &PlanCache{client: client, log: log}
}

func planKey(planID string) string {
	return fmt.Sprintf("splan:%s", planID)
}

// Put stores a structured plan with a TTL matching its expiry.
func (c *PlanCache) Put(ctx context.Context, plan *models.StructuredPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshal structured plan: %w", err)
	}

	ttl := time.Until(plan.ExpiresAt)
	if ttl <= 0 {
		return errors.NewPlanExpiredError(plan.PlanID, plan.ExpiresAt)
	}

	if err := c.client.Set(ctx, planKey(plan.PlanID), data, ttl).Err(); err != nil {
		return errors.NewRedisUnavailableError(err)
	}
	return nil
}

// Get returns a structured plan without consuming it. Missing keys and
// expired plans both surface as PLAN_NOT_FOUND / PLAN_EXPIRED.
func (c *PlanCache) Get(ctx context.Context, planID string) (*models.StructuredPlan, error) {
	data, err := c.client.Get(ctx, planKey(planID)).Bytes()
	if err == redis.Nil {
		return nil, errors.NewPlanNotFoundError(planID)
	}
	if err != nil {
		return nil, errors.NewRedisUnavailableError(err)
	}
	return c.decode(planID, data)
}

// Consume atomically fetches and removes a structured plan. A plan can be
// approved exactly once; a second Consume sees PLAN_NOT_FOUND.
func (c *PlanCache) Consume(ctx context.Context, planID string) (*models.StructuredPlan, error) {
	data, err := c.client.GetDel(ctx, planKey(planID)).Bytes()
	if err == redis.Nil {
		return nil, errors.NewPlanNotFoundError(planID)
	}
	if err != nil {
		return nil, errors.NewRedisUnavailableError(err)
	}
	return c.decode(planID, data)
}

func (c *PlanCache) decode(planID string, data []byte) (*models.StructuredPlan, error) {
	var plan models.StructuredPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("unmarshal structured plan %s: %w", planID, err)
	}
	// Redis TTLs are best effort; enforce the expiry on read as well.
	if plan.IsExpired(time.Now().UTC()) {
		return nil, errors.NewPlanExpiredError(planID, plan.ExpiresAt)
	}
	return &plan, nil
}
