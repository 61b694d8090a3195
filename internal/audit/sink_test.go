// internal/audit/sink_test.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/models"
)

type fakeIndexer struct {
	indices []string
	bodies  [][]byte
	err     error
}

func (f *fakeIndexer) Index(_ context.Context, index string, body []byte) error {
	if f.err != nil {
		return f.err
	}
	f.indices = append(f.indices, index)
	f.bodies = append(f.bodies, body)
	return nil
}

type recordingSink struct {
	events []*models.PlanExecutionEvent
}

func (r *recordingSink) Publish(_ context.Context, event *models.PlanExecutionEvent) {
	r.events = append(r.events, event)
}

func testEvent() *models.PlanExecutionEvent {
	return &models.PlanExecutionEvent{
		EventID:   "event-1",
		PlanID:    "plan-1",
		StepID:    "step-1",
		EventType: models.EventStepCompleted,
		Message:   "Completed fund_card",
		Timestamp: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}
}

func TestSinkIndexesIntoDailyIndex(t *testing.T) {
	indexer := &fakeIndexer{}
	sink := NewSink(indexer, "copilot-events", nil, logger.NewNoOpLogger())

	sink.Publish(context.Background(), testEvent())

	require.Len(t, indexer.indices, 1)
	assert.Equal(t, "copilot-events-2026.08.31", indexer.indices[0])

	var decoded models.PlanExecutionEvent
	require.NoError(t, json.Unmarshal(indexer.bodies[0], &decoded))
	assert.Equal(t, "event-1", decoded.EventID)
	assert.Equal(t, models.EventStepCompleted, decoded.EventType)
}

func TestSinkForwardsToInnerSink(t *testing.T) {
	inner := &recordingSink{}
	sink := NewSink(&fakeIndexer{}, "copilot-events", inner, logger.NewNoOpLogger())

	sink.Publish(context.Background(), testEvent())

	require.Len(t, inner.events, 1)
	assert.Equal(t, "event-1", inner.events[0].EventID)
}

func TestSinkSwallowsIndexFailures(t *testing.T) {
	inner := &recordingSink{}
	sink := NewSink(&fakeIndexer{err: fmt.Errorf("cluster red")}, "copilot-events", inner, logger.NewNoOpLogger())

	// Publish must not panic or block delivery to the inner sink.
	sink.Publish(context.Background(), testEvent())
	require.Len(t, inner.events, 1)
}
