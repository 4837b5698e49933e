package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
)

// Cart event types and their topics.
const (
	EventCartUpdated = "cart.updated"
	EventCartCleared = "cart.cleared"
)

var (
	TopicCartUpdated = pkgkafka.Topic("cart", "updated")
	TopicCartCleared = pkgkafka.Topic("cart", "cleared")
)

const (
	AggregateTypeCart = "cart"
	SourceStorefront  = "storefront"
)

// CartUpdatedData is the payload of cart.updated.
type CartUpdatedData struct {
	SessionID  string            `json:"session_id"`
	Items      []domain.CartItem `json:"items"`
	ItemCount  int               `json:"item_count"`
	TotalValue string            `json:"total_value"`
	Version    int               `json:"version"`
}

// CartClearedData is the payload of cart.cleared.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// Publisher is the part of pkg/kafka.Producer used here.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes cart events.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a cart event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// PublishCartUpdated publishes the cart's new contents.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	data := CartUpdatedData{
		SessionID:  cart.SessionID,
		Items:      cart.Items,
		ItemCount:  cart.ItemCount(),
		TotalValue: cart.TotalValue().StringFixed(2),
		Version:    cart.Version,
	}

	if err := p.publish(ctx, TopicCartUpdated, EventCartUpdated, cart.SessionID, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", cart.SessionID),
		slog.Int("item_count", data.ItemCount),
	)
	return nil
}

// PublishCartCleared publishes that the session's cart was emptied.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	return p.publish(ctx, TopicCartCleared, EventCartCleared, sessionID, CartClearedData{SessionID: sessionID})
}

func (p *Producer) publish(ctx context.Context, topic, eventType, sessionID string, data any) error {
	event, err := pkgkafka.NewEvent(eventType, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	event.WithSession(sessionID)
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}
	return nil
}

// Noop discards events. It is used when Kafka is disabled.
type Noop struct{}

func (Noop) PublishCartUpdated(context.Context, *domain.Cart) error { return nil }
func (Noop) PublishCartCleared(context.Context, string) error { return nil }
