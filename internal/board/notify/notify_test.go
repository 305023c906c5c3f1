package notify

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func testNotifier(t *testing.T) *Notifier {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewWithClient(client, nil)
}

func TestPublishReachesSubscriber(t *testing.T) {
	n := testNotifier(t)
	tenantID := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan struct{}, 1)
	unsubscribe, err := n.Subscribe(ctx, tenantID, func() {
		received <- struct{}{}
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsubscribe()

	if err := n.Publish(ctx, tenantID); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal")
	}
}

func TestSubscriptionIsTenantScoped(t *testing.T) {
	n := testNotifier(t)
	watched := uuid.New()
	other := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan struct{}, 1)
	unsubscribe, err := n.Subscribe(ctx, watched, func() {
		received <- struct{}{}
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsubscribe()

	if err := n.Publish(ctx, other); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case <-received:
		t.Fatal("signal leaked across tenants")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	n := testNotifier(t)
	tenantID := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan struct{}, 4)
	unsubscribe, err := n.Subscribe(ctx, tenantID, func() {
		received <- struct{}{}
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	unsubscribe()
	time.Sleep(50 * time.Millisecond)

	if err := n.Publish(ctx, tenantID); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case <-received:
		t.Fatal("received a signal after unsubscribe")
	case <-time.After(200 * time.Millisecond):
	}
}
