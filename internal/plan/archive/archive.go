// internal/plan/archive/archive.go
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"discard-copilot/internal/common/errors"
	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/models"
)

// Archive persists terminal plans to Postgres for session history. Live
// plans stay in the engine's memory; only finished ones land here.
type Archive struct {
	db  *sql.DB
	log logger.Logger
}

func New(db *sql.DB, log logger.Logger) *Archive {
	return &Archive{db: db, log: log}
}

// ArchivedPlan is one row of session history.
type ArchivedPlan struct {
	PlanID         string             `json:"planId"`
	SessionID      string             `json:"sessionId"`
	UserID         string             `json:"userId"`
	Action         string             `json:"action"`
	Status         models.PlanStatus  `json:"status"`
	TotalSteps     int                `json:"totalSteps"`
	CompletedSteps int                `json:"completedSteps"`
	Steps          []*models.PlanStep `json:"steps,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	ArchivedAt     time.Time          `json:"archivedAt"`
}

const insertPlanQuery = `
	INSERT INTO plan_archive
		(plan_id, session_id, user_id, action, status, total_steps, completed_steps, steps, created_at, archived_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (plan_id) DO NOTHING`

// StorePlan writes a terminal plan. Calling it with a non-terminal plan is
// a programming error and is rejected.
func (a *Archive) StorePlan(ctx context.Context, plan *models.ExecutionPlan) error {
	if !plan.Status.IsTerminal() {
		return errors.NewPlanTerminalError(plan.PlanID, string(plan.Status))
	}

	steps, err := json.Marshal(plan.Steps)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}

	_, err = a.db.ExecContext(ctx, insertPlanQuery,
		plan.PlanID,
		plan.SessionID,
		plan.UserID,
		string(plan.OriginalIntent.Action),
		string(plan.Status),
		plan.TotalSteps,
		plan.CompletedSteps,
		steps,
		plan.CreatedAt,
		time.Now().UTC(),
	)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}

	a.log.Info("Plan archived", map[string]interface{}{
		"planId": plan.PlanID, "status": string(plan.Status),
	})
	return nil
}

const sessionHistoryQuery = `
	SELECT plan_id, session_id, user_id, action, status, total_steps, completed_steps, created_at, archived_at
	FROM plan_archive
	WHERE session_id = $1
	ORDER BY created_at DESC
	LIMIT $2`

// SessionHistory returns the most recent archived plans for a session,
// newest first. Step payloads are omitted; fetch a single plan for those.
func (a *Archive) SessionHistory(ctx context.Context, sessionID string, limit int) ([]ArchivedPlan, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := a.db.QueryContext(ctx, sessionHistoryQuery, sessionID, limit)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("session history", err)
	}
	defer rows.Close()

	var history []ArchivedPlan
	for rows.Next() {
		var p ArchivedPlan
		if err := rows.Scan(
			&p.PlanID, &p.SessionID, &p.UserID, &p.Action, &p.Status,
			&p.TotalSteps, &p.CompletedSteps, &p.CreatedAt, &p.ArchivedAt,
		); err != nil {
			return nil, errors.NewQueryExecutionFailedError("session history scan", err)
		}
		history = append(history, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("session history rows", err)
	}
	return history, nil
}

const getPlanQuery = `
	SELECT plan_id, session_id, user_id, action, status, total_steps, completed_steps, steps, created_at, archived_at
	FROM plan_archive
	WHERE plan_id = $1`

// GetPlan returns one archived plan including its step payloads.
func (a *Archive) GetPlan(ctx context.Context, planID string) (*ArchivedPlan, error) {
	var p ArchivedPlan
	var steps []byte

	err := a.db.QueryRowContext(ctx, getPlanQuery, planID).Scan(
		&p.PlanID, &p.SessionID, &p.UserID, &p.Action, &p.Status,
		&p.TotalSteps, &p.CompletedSteps, &steps, &p.CreatedAt, &p.ArchivedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewPlanNotFoundError(planID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get archived plan", err)
	}

	if len(steps) > 0 {
		if err := json.Unmarshal(steps, &p.Steps); err != nil {
			return nil, errors.NewQueryExecutionFailedError("decode archived steps", err)
		}
	}
	return &p, nil
}
