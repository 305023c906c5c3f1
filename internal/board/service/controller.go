package service

import (
	"context"

	"github.com/google/uuid"
)

// StartSession attaches the tenant's live stage subscription. The first
// snapshot of an empty tenant seeds the default topology. Change signals
// received while a multi-write mutation is in flight are ignored: the
// intermediate states are individually observable but are not valid end
// states. Calling StartSession for an already-subscribed tenant is a no-op.
func (s *Service) StartSession(ctx context.Context, tenantID uuid.UUID) error {
	sess := s.sessions.get(tenantID)

	sess.mu.Lock()
	alreadyStarted := sess.unsubscribe != nil
	sess.mu.Unlock()
	if alreadyStarted {
		return nil
	}

	// First snapshot; seeds the topology when the tenant has none.
	if _, err := s.ensureStages(ctx, tenantID); err != nil {
		return err
	}

	if s.notifier == nil {
		return nil
	}

	unsubscribe, err := s.notifier.Subscribe(ctx, tenantID, func() {
		s.handleChangeSignal(tenantID)
	})
	if err != nil {
		return err
	}

	sess.mu.Lock()
	if sess.unsubscribe != nil {
		// Raced with another StartSession; keep the first subscription.
		sess.mu.Unlock()
		unsubscribe()
		return nil
	}
	sess.unsubscribe = unsubscribe
	sess.mu.Unlock()
	return nil
}

// StopSession detaches the tenant's live subscription.
func (s *Service) StopSession(tenantID uuid.UUID) {
	sess := s.sessions.get(tenantID)
	sess.mu.Lock()
	unsubscribe := sess.unsubscribe
	sess.unsubscribe = nil
	sess.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// handleChangeSignal reconciles a stage-change signal into local state and
// notifies in-process listeners (SSE). An active mutation guard means the
// signal reflects our own intermediate write; it is dropped.
func (s *Service) handleChangeSignal(tenantID uuid.UUID) {
	sess := s.sessions.get(tenantID)
	if sess.isMutating() {
		s.log.Debug("ignoring stage snapshot during mutation", "tenant_id", tenantID.String())
		return
	}

	ctx := context.Background()
	if _, err := s.ensureStages(ctx, tenantID); err != nil {
		s.log.Warn("reload stages on change signal", "tenant_id", tenantID.String(), "error", err)
		return
	}
	s.publishBoardOnly(ctx, tenantID, "stages")
}
