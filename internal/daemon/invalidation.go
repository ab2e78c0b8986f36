package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/megamenu/internal/config"
)

// Invalidator is the slice of the provider the bus needs.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// InvalidationEvent is broadcast when a replica's menu changed (upload or a
// refresh that observed new content) so every replica evicts its cache
// together instead of serving mixed menus until TTLs expire.
type InvalidationEvent struct {
	ID        string    `json:"id"`
	Origin    string    `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason"`
}

// InvalidationBus connects the provider to a NATS subject for distributed
// cache invalidation.
type InvalidationBus struct {
	conn     *nats.Conn
	subject  string
	originID string
	sub      *nats.Subscription
	target   Invalidator
}

// NewInvalidationBus connects to NATS and subscribes to the invalidation
// subject.
func NewInvalidationBus(cfg config.NATSConfig, target Invalidator) (*InvalidationBus, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("invalidation bus is disabled")
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name("megamenu"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	bus := &InvalidationBus{
		conn:     conn,
		subject:  cfg.Subject,
		originID: uuid.NewString(),
		target:   target,
	}

	sub, err := conn.Subscribe(cfg.Subject, bus.handle)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", cfg.Subject, err)
	}
	bus.sub = sub

	slog.Info("Invalidation bus connected", "url", cfg.URL, "subject", cfg.Subject)
	return bus, nil
}

// Publish broadcasts an invalidation event to other replicas.
func (b *InvalidationBus) Publish(reason string) error {
	event := InvalidationEvent{
		ID:        uuid.NewString(),
		Origin:    b.originID,
		Timestamp: time.Now().UTC(),
		Reason:    reason,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal invalidation event: %w", err)
	}
	if err := b.conn.Publish(b.subject, payload); err != nil {
		return fmt.Errorf("publish invalidation event: %w", err)
	}
	slog.Debug("Published invalidation event", "id", event.ID, "reason", reason)
	return nil
}

// handle evicts the local cache when another replica broadcasts a change.
func (b *InvalidationBus) handle(msg *nats.Msg) {
	var event InvalidationEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		slog.Warn("Dropping malformed invalidation event", "error", err)
		return
	}
	if event.Origin == b.originID {
		// Our own broadcast; the local cache was already evicted.
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.target.Invalidate(ctx); err != nil {
		slog.Warn("Cache eviction on invalidation event failed", "error", err)
		return
	}
	slog.Info("Menu cache invalidated by remote event", "id", event.ID, "origin", event.Origin, "reason", event.Reason)
}

// Close unsubscribes and drains the connection.
func (b *InvalidationBus) Close() {
	if b.sub != nil {
		_ = b.sub.Unsubscribe()
	}
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
	}
}
