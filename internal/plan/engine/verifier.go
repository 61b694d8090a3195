// internal/plan/engine/verifier.go
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	commonhttp "discard-copilot/internal/common/http"
	"discard-copilot/internal/models"
)

// Verifier is the soul-verification gate consulted before any step flagged
// RequiresSoulVerification executes. A nil error approves the step.
type Verifier interface {
	Verify(ctx context.Context, plan *models.ExecutionPlan, step *models.PlanStep) error
}

// ==========================
// STUB VERIFIER
// ==========================

// StubVerifier approves every step after a fixed delay. It stands in for
// the real verification service in development and tests.
type StubVerifier struct {
	Delay time.Duration
}

func (v *StubVerifier) Verify(ctx context.Context, _ *models.ExecutionPlan, _ *models.PlanStep) error {
	if v.Delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(v.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ==========================
// REMOTE VERIFIER
// ==========================

// RemoteVerifier POSTs the step to an external verification service and
// approves when it answers approved=true.
type RemoteVerifier struct {
	URL    string
	Client *commonhttp.Client
}

func NewRemoteVerifier(url string, timeout time.Duration) *RemoteVerifier {
	return &RemoteVerifier{URL: url, Client: commonhttp.NewClient(timeout)}
}

type verifyRequest struct {
	PlanID     string                 `json:"planId"`
	StepID     string                 `json:"stepId"`
	Action     string                 `json:"action"`
	Parameters map[string]interface{} `json:"parameters"`
	UserID     string                 `json:"userId"`
}

type verifyResponse struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

func (v *RemoteVerifier) Verify(ctx context.Context, plan *models.ExecutionPlan, step *models.PlanStep) error {
	body, err := json.Marshal(verifyRequest{
		PlanID:     plan.PlanID,
		StepID:     step.StepID,
		Action:     step.Action,
		Parameters: step.Parameters,
		UserID:     plan.UserID,
	})
	if err != nil {
		return fmt.Errorf("marshal verify request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, v.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.Client.DoWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("verification service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("verification service returned %d", resp.StatusCode)
	}

	var vr verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return fmt.Errorf("decode verify response: %w", err)
	}
	if !vr.Approved {
		if vr.Reason == "" {
			vr.Reason = "rejected without reason"
		}
		return fmt.Errorf("verification rejected: %s", vr.Reason)
	}
	return nil
}
