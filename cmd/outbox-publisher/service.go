package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/revendedor/painel-backend/pkg/config"
	"github.com/revendedor/painel-backend/pkg/db/models"
	"github.com/revendedor/painel-backend/pkg/logger"
	"github.com/revendedor/painel-backend/pkg/metrics"
)

const (
	defaultBatchSize   = 50
	defaultMaxAttempts = 10
	publishTimeout     = 15 * time.Second

	// poll loop backoff after a failed batch transaction
	maxBackoff   = 10 * time.Second
	jitterWindow = 250 * time.Millisecond

	// per-event redelivery schedule
	retryBaseDelay = 2 * time.Second
	maxRetryDelay  = 5 * time.Minute
)

type dbClient interface {
	Ping(context.Context) error
	WithTx(context.Context, func(tx *gorm.DB) error) error
}

type pubSubClient interface {
	Ping(context.Context) error
	Publisher(name string) *gcppubsub.Publisher
	OrdersTopic() string
}

type outboxRepository interface {
	FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int, now time.Time) ([]models.OutboxEvent, error)
	MarkPublishedTx(tx *gorm.DB, id uuid.UUID) error
	MarkFailedTx(tx *gorm.DB, id uuid.UUID, err error, nextAttemptAt time.Time) error
	MarkTerminalTx(tx *gorm.DB, id uuid.UUID, err error, maxAttempts int) error
}

type ServiceParams struct {
	Config           *config.Config
	Logger           *logger.Logger
	DB               dbClient
	PubSub           pubSubClient
	Repository       outboxRepository
	PublisherFactory publisherFactory
	Metrics          *metrics.OutboxMetrics
	Now              func() time.Time
}

// Service relays committed outbox rows to the orders topic. Each poll claims
// a batch inside one transaction and records a verdict for every row before
// committing.
type Service struct {
	logg             *logger.Logger
	db               dbClient
	repo             outboxRepository
	pubsub           pubSubClient
	publisherFactory publisherFactory
	metrics          *metrics.OutboxMetrics
	now              func() time.Time

	topic        string
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	switch {
	case params.Config == nil:
		return nil, errors.New("config is required")
	case params.Logger == nil:
		return nil, errors.New("logger is required")
	case params.DB == nil:
		return nil, errors.New("database client is required")
	case params.PubSub == nil:
		return nil, errors.New("pubsub client is required")
	case params.Repository == nil:
		return nil, errors.New("outbox repository is required")
	}

	topic := firstNonEmpty(params.PubSub.OrdersTopic(), params.Config.PubSub.OrdersTopic)
	if topic == "" {
		return nil, errors.New("orders topic is required")
	}

	svc := &Service{
		logg:             params.Logger,
		db:               params.DB,
		repo:             params.Repository,
		pubsub:           params.PubSub,
		publisherFactory: params.PublisherFactory,
		metrics:          params.Metrics,
		now:              params.Now,
		topic:            topic,
		batchSize:        positiveOr(params.Config.Outbox.BatchSize, defaultBatchSize),
		maxAttempts:      positiveOr(params.Config.Outbox.MaxAttempts, defaultMaxAttempts),
		pollInterval:     params.Config.Outbox.PollInterval(),
	}
	if svc.publisherFactory == nil {
		svc.publisherFactory = gcpPublisherFactory(params.PubSub)
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

// Run polls until ctx is canceled. A non-empty batch is followed immediately
// by the next poll; an empty one waits for the poll interval.
func (s *Service) Run(ctx context.Context) error {
	if err := s.ping(ctx, "database", s.db.Ping); err != nil {
		return err
	}
	if err := s.ping(ctx, "pubsub", s.pubsub.Ping); err != nil {
		return err
	}

	wait := s.pollInterval
	for ctx.Err() == nil {
		processed, err := s.processBatch(ctx)
		if err != nil {
			s.logg.Error(ctx, "outbox publisher batch error", err)
			wait = nextBackoff(wait, s.pollInterval, maxBackoff)
		} else {
			wait = s.pollInterval
			if processed {
				continue
			}
		}
		if sleep(ctx, wait+jitter()) != nil {
			break
		}
	}
	s.logg.Info(ctx, "outbox publisher context canceled")
	return ctx.Err()
}

func (s *Service) ping(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		s.logg.Error(ctx, name+" ping failed", err)
		return fmt.Errorf("%s ping failed: %w", name, err)
	}
	return nil
}

// processBatch reports whether any row was claimed.
func (s *Service) processBatch(ctx context.Context) (bool, error) {
	var claimed int
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		now := s.now()
		events, err := s.repo.FetchUnpublishedForPublish(tx, s.batchSize, s.maxAttempts, now)
		if err != nil {
			return err
		}
		claimed = len(events)
		for _, event := range events {
			if err := s.handleEvent(ctx, tx, event, now); err != nil {
				return err
			}
		}
		return nil
	})
	return claimed > 0, err
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func nextBackoff(current, base, limit time.Duration) time.Duration {
	if current <= 0 {
		current = base
	}
	return min(current*2, limit)
}

// retryDelay doubles per attempt from retryBaseDelay, capped at maxRetryDelay.
func retryDelay(attempt int) time.Duration {
	delay := retryBaseDelay
	for ; attempt > 1 && delay < maxRetryDelay; attempt-- {
		delay *= 2
	}
	return min(delay, maxRetryDelay)
}

func jitter() time.Duration {
	return rand.N(jitterWindow)
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
