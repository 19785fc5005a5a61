package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"gorm.io/gorm"

	"github.com/revendedor/painel-backend/pkg/db/models"
	"github.com/revendedor/painel-backend/pkg/outbox"
	"github.com/revendedor/painel-backend/pkg/pubsub"
)

const (
	resultPublished = "published"
	resultRetry     = "retry"
	resultTerminal  = "terminal"
)

// errNoPublisher marks a topic with no publisher; retrying cannot fix it.
var errNoPublisher = errors.New("publisher not configured")

// verdict is what a publish attempt means for the row.
type verdict struct {
	result string
	reason string // terminal only
	retry  time.Time
	err    error
}

// handleEvent publishes one row and records its verdict. Only bookkeeping
// failures are returned; they abort the batch transaction.
func (s *Service) handleEvent(ctx context.Context, tx *gorm.DB, event models.OutboxEvent, now time.Time) error {
	envelope, err := outbox.DecodeEnvelope(event.Payload)
	var v verdict
	if err != nil {
		v = verdict{result: resultTerminal, reason: "malformed_payload", err: fmt.Errorf("decode envelope: %w", err)}
	} else {
		v = s.judge(event, s.publish(ctx, event, envelope), now)
	}

	logCtx := s.logg.WithFields(ctx, s.eventFields(event, envelope, v))
	if v.err != nil {
		logCtx = s.logg.WithField(logCtx, "error", v.err.Error())
	}

	var markErr error
	switch v.result {
	case resultPublished:
		markErr = s.repo.MarkPublishedTx(tx, event.ID)
		s.logg.Info(logCtx, "outbox event published")
	case resultRetry:
		s.logg.Warn(logCtx, "outbox publish failed")
		markErr = s.repo.MarkFailedTx(tx, event.ID, v.err, v.retry)
	default:
		s.logg.Warn(logCtx, "outbox event will not be retried")
		markErr = s.repo.MarkTerminalTx(tx, event.ID, v.err, s.maxAttempts)
	}
	if markErr != nil {
		return fmt.Errorf("mark %s %s: %w", v.result, event.ID, markErr)
	}
	s.metrics.Inc(string(event.EventType), v.result)
	return nil
}

func (s *Service) judge(event models.OutboxEvent, err error, now time.Time) verdict {
	if err == nil {
		return verdict{result: resultPublished}
	}
	if errors.Is(err, errNoPublisher) || pubsub.IsPermanent(err) {
		return verdict{result: resultTerminal, reason: "non_retryable", err: err}
	}
	attempt := event.AttemptCount + 1
	if attempt >= s.maxAttempts {
		return verdict{result: resultTerminal, reason: "max_attempts", err: fmt.Errorf("max publish attempts reached: %w", err)}
	}
	return verdict{result: resultRetry, retry: now.Add(retryDelay(attempt)), err: err}
}

func (s *Service) publish(ctx context.Context, event models.OutboxEvent, envelope outbox.PayloadEnvelope) error {
	pub := s.publisherFactory(s.topic)
	if pub == nil {
		return fmt.Errorf("%w for topic %s", errNoPublisher, s.topic)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	result := pub.Publish(ctx, &gcppubsub.Message{Data: event.Payload, Attributes: messageAttributes(event, envelope)})
	if result == nil {
		return fmt.Errorf("%w: nil result for topic %s", errNoPublisher, s.topic)
	}
	_, err := result.Get(ctx)
	return err
}

// messageAttributes lets subscribers filter on event type and order id
// without decoding the payload.
func messageAttributes(event models.OutboxEvent, envelope outbox.PayloadEnvelope) map[string]string {
	eventID := firstNonEmpty(envelope.EventID, event.ID.String())
	return map[string]string{
		"event_id":       eventID,
		"event_type":     string(event.EventType),
		"aggregate_type": string(event.AggregateType),
		"aggregate_id":   strconv.FormatInt(event.AggregateID, 10),
		"created_at":     event.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (s *Service) eventFields(event models.OutboxEvent, envelope outbox.PayloadEnvelope, v verdict) map[string]any {
	fields := map[string]any{
		"outbox_id":      event.ID.String(),
		"event_type":     event.EventType,
		"aggregate_type": event.AggregateType,
		"order_id":       event.AggregateID,
		"attempt_count":  event.AttemptCount,
		"topic":          s.topic,
		"result":         v.result,
	}
	if envelope.EventID != "" {
		fields["event_id"] = envelope.EventID
		fields["occurred_at"] = envelope.OccurredAt.Format(time.RFC3339Nano)
	}
	if v.reason != "" {
		fields["terminal_reason"] = v.reason
	}
	if !v.retry.IsZero() {
		fields["attempt_count"] = event.AttemptCount + 1
		fields["next_attempt_at"] = v.retry.UTC().Format(time.RFC3339Nano)
	}
	if event.LastError != nil {
		fields["last_error"] = *event.LastError
	}
	return fields
}
