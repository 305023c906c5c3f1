// Package notify provides the Redis-backed stage-change notifier. Every
// stage write publishes the tenant's channel; subscribers reload the stage
// set and reconcile. Payloads carry no data, only the change signal, so a
// missed message can always be repaired by the next reload.
package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"flowboard_backend/platform/config"
	"flowboard_backend/platform/logger"

	"github.com/google/uuid"
)

const channelPrefix = "board.stages."

// Notifier publishes and subscribes to per-tenant stage-change signals.
type Notifier struct {
	client *redis.Client
	log    *logger.Logger
}

// New creates a notifier from the configured Redis URL.
func New(cfg config.RedisConfig, log *logger.Logger) (*Notifier, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	return &Notifier{client: redis.NewClient(opt), log: log}, nil
}

// NewWithClient creates a notifier around an existing Redis client.
func NewWithClient(client *redis.Client, log *logger.Logger) *Notifier {
	return &Notifier{client: client, log: log}
}

// Close releases the underlying Redis connection.
func (n *Notifier) Close() error {
	return n.client.Close()
}

// Publish signals that the tenant's stage set changed.
func (n *Notifier) Publish(ctx context.Context, tenantID uuid.UUID) error {
	if err := n.client.Publish(ctx, channelPrefix+tenantID.String(), "changed").Err(); err != nil {
		return fmt.Errorf("publish stage change: %w", err)
	}
	return nil
}

// Subscribe invokes onChange for every stage-change signal of the tenant
// until the context is canceled or the returned unsubscribe function is
// called. onChange runs on the subscription goroutine.
func (n *Notifier) Subscribe(ctx context.Context, tenantID uuid.UUID, onChange func()) (func(), error) {
	channel := channelPrefix + tenantID.String()
	sub := n.client.Subscribe(ctx, channel)

	// Force the subscription handshake so a Publish immediately after
	// Subscribe returns is never lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.Channel():
				if !ok {
					return
				}
				onChange()
			}
		}
	}()

	return func() {
		if err := sub.Close(); err != nil && n.log != nil {
			n.log.Warn("close stage subscription", "tenant_id", tenantID.String(), "error", err)
		}
	}, nil
}
