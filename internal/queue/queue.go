// Package queue publishes reward events to RabbitMQ once a request has committed.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/multiyield-labs/multiyield-engine/internal/config"
)

const (
	exchangeKind     = "topic"
	routingKeyPrefix = "reward."
	eventContentType = "application/json"
)

//go:generate mockery --name=EventPublisher --output=../../tests/mocks --outpkg=mocks --filename=mock_event_publisher.go
type EventPublisher interface {
	PublishRewardEvents(ctx context.Context, events []RewardEvent) error
	Shutdown()
}

type QueueManager struct {
	cfg  *config.QueueConfig
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewQueueManager connects to the broker and declares the reward exchange.
func NewQueueManager(cfg *config.QueueConfig) (*QueueManager, error) {
	dialURL, err := brokerURL(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := amqp.Dial(dialURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to queue: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open queue channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	return &QueueManager{cfg: cfg, conn: conn, ch: ch}, nil
}

func brokerURL(cfg *config.QueueConfig) (string, error) {
	u, err := url.Parse(cfg.Url)
	if err != nil {
		return "", fmt.Errorf("invalid queue url: %w", err)
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	return u.String(), nil
}

// PublishRewardEvents publishes events in order and stops at the first failure.
func (qm *QueueManager) PublishRewardEvents(ctx context.Context, events []RewardEvent) error {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	for _, ev := range events {
		body, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to encode reward event: %w", err)
		}

		pubCtx, cancel := context.WithTimeout(ctx, qm.cfg.PublishTimeout)
		err = qm.ch.PublishWithContext(pubCtx, qm.cfg.Exchange, RoutingKey(ev), false, false, amqp.Publishing{
			ContentType:  eventContentType,
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.EventID,
			Timestamp:    time.Unix(ev.Timestamp, 0),
			Body:         body,
		})
		cancel()
		if err != nil {
			return fmt.Errorf("failed to publish reward event %s: %w", ev.EventID, err)
		}

		log.Ctx(ctx).Debug().
			Str("event_id", ev.EventID).
			Str("routing_key", RoutingKey(ev)).
			Msg("published reward event")
	}
	return nil
}

// Shutdown gracefully stops the interaction with the queue, ensuring all resources are properly released.
func (qm *QueueManager) Shutdown() {
	log.Info().Msg("Shutting down queue manager")

	qm.mu.Lock()
	defer qm.mu.Unlock()

	if err := qm.ch.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close queue channel")
	}
	if err := qm.conn.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close queue connection")
	}
}

// NoopPublisher drops every event. Used when no queue is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishRewardEvents(context.Context, []RewardEvent) error {
	return nil
}

func (NoopPublisher) Shutdown() {}

// New returns a publisher for cfg, or a NoopPublisher when cfg is nil.
func New(cfg *config.QueueConfig) (EventPublisher, error) {
	if cfg == nil {
		return NoopPublisher{}, nil
	}
	return NewQueueManager(cfg)
}
