// internal/audit/sink.go
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"discard-copilot/internal/common/errors"
	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/plan/engine"
	"discard-copilot/internal/models"
)

// Indexer is the minimal document-indexing surface the sink needs.
type Indexer interface {
	Index(ctx context.Context, index string, body []byte) error
}

// Sink decorates an event sink with an Elasticsearch audit trail. Every
// event is indexed into a daily index; indexing failures are logged and
// never affect plan execution.
type Sink struct {
	next    engine.EventSink
	indexer Indexer
	prefix  string
	log     logger.Logger
}

// NewSink wraps next with auditing. next may be nil when only the audit
// trail is wanted.
func NewSink(indexer Indexer, indexPrefix string, next engine.EventSink, log logger.Logger) *Sink {
	return &Sink{next: next, indexer: indexer, prefix: indexPrefix, log: log}
}

func (s *Sink) Publish(ctx context.Context, event *models.PlanExecutionEvent) {
	if s.next != nil {
		s.next.Publish(ctx, event)
	}

	body, err := json.Marshal(event)
	if err != nil {
		s.log.Error("Failed to encode audit event", map[string]interface{}{
			"eventId": event.EventID, "error": err.Error(),
		})
		return
	}

	index := s.indexName(event)
	if err := s.indexer.Index(ctx, index, body); err != nil {
		auditErr := errors.NewAuditIndexFailedError(index, err)
		s.log.Error("Failed to index audit event", map[string]interface{}{
			"eventId":   event.EventID,
			"planId":    event.PlanID,
			"index":     index,
			"errorCode": string(auditErr.Code),
			"error":     err.Error(),
		})
	}
}

// indexName derives the daily index from the event timestamp, e.g.
// copilot-events-2026.08.31.
func (s *Sink) indexName(event *models.PlanExecutionEvent) string {
	return fmt.Sprintf("%s-%s", s.prefix, event.Timestamp.UTC().Format("2006.01.02"))
}

// ==========================
// ELASTICSEARCH INDEXER
// ==========================

// ESIndexer indexes documents through the official client.
type ESIndexer struct {
	client *elasticsearch.Client
}

func NewESIndexer(client *elasticsearch.Client) *ESIndexer {
	return &ESIndexer{client: client}
}

func (i *ESIndexer) Index(ctx context.Context, index string, body []byte) error {
	res, err := i.client.Index(
		index,
		bytes.NewReader(body),
		i.client.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index request failed: %s", res.Status())
	}
	return nil
}
