package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"flowboard_backend/internal/events"
	"flowboard_backend/internal/notification/email"
	"flowboard_backend/platform/logger"
)

type fakeMailer struct {
	sentTo   []string
	sentData []email.ProjectCompletedData
}

func (m *fakeMailer) SendProjectCompletedEmail(_ context.Context, toEmail string, data email.ProjectCompletedData) error {
	m.sentTo = append(m.sentTo, toEmail)
	m.sentData = append(m.sentData, data)
	return nil
}

type fakeOwners struct {
	email string
	err   error
}

func (o *fakeOwners) OwnerEmail(context.Context, uuid.UUID) (string, error) {
	return o.email, o.err
}

type fakeProjects struct {
	name string
	err  error
}

func (p *fakeProjects) ProjectName(context.Context, uuid.UUID, uuid.UUID) (string, error) {
	return p.name, p.err
}

func TestTerminalStageEventMailsOwner(t *testing.T) {
	mailer := &fakeMailer{}
	mod := NewModule(mailer, &fakeOwners{email: "owner@example.com"}, &fakeProjects{name: "Website relaunch"}, logger.New("development"))

	event := events.ProjectReachedTerminalStage{
		BaseEvent: events.NewBaseEvent(),
		ProjectID: uuid.New(),
		TenantID:  uuid.New(),
		StageID:   "completed-1234",
		Status:    "Completed",
	}
	if err := mod.Handle(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(mailer.sentTo) != 1 {
		t.Fatalf("expected one email, got %d", len(mailer.sentTo))
	}
	if mailer.sentTo[0] != "owner@example.com" {
		t.Fatalf("unexpected recipient %s", mailer.sentTo[0])
	}
	if mailer.sentData[0].ProjectName != "Website relaunch" {
		t.Fatalf("unexpected project name %s", mailer.sentData[0].ProjectName)
	}
	if mailer.sentData[0].Status != "Completed" {
		t.Fatalf("unexpected status %s", mailer.sentData[0].Status)
	}
}

func TestTerminalStageEventFallsBackToProjectID(t *testing.T) {
	mailer := &fakeMailer{}
	projectID := uuid.New()
	mod := NewModule(mailer, &fakeOwners{email: "owner@example.com"}, &fakeProjects{err: errors.New("gone")}, logger.New("development"))

	event := events.ProjectReachedTerminalStage{
		BaseEvent: events.NewBaseEvent(),
		ProjectID: projectID,
		TenantID:  uuid.New(),
		StageID:   "finished-recurring",
		Status:    "Finished",
	}
	if err := mod.Handle(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(mailer.sentData) != 1 || mailer.sentData[0].ProjectName != projectID.String() {
		t.Fatalf("expected project id fallback, got %+v", mailer.sentData)
	}
}

func TestOwnerLookupFailureIsNotFatal(t *testing.T) {
	mailer := &fakeMailer{}
	mod := NewModule(mailer, &fakeOwners{err: errors.New("db down")}, nil, logger.New("development"))

	event := events.ProjectReachedTerminalStage{
		BaseEvent: events.NewBaseEvent(),
		ProjectID: uuid.New(),
		TenantID:  uuid.New(),
	}
	if err := mod.Handle(context.Background(), event); err != nil {
		t.Fatalf("handle should swallow lookup errors: %v", err)
	}
	if len(mailer.sentTo) != 0 {
		t.Fatal("no email expected when owner lookup fails")
	}
}

func TestNilMailerSkipsEmail(t *testing.T) {
	mod := NewModule(nil, nil, nil, logger.New("development"))

	event := events.ProjectReachedTerminalStage{
		BaseEvent: events.NewBaseEvent(),
		ProjectID: uuid.New(),
		TenantID:  uuid.New(),
	}
	if err := mod.Handle(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}
}

func TestBoardChangedIsBroadcastOnly(t *testing.T) {
	mailer := &fakeMailer{}
	mod := NewModule(mailer, &fakeOwners{email: "owner@example.com"}, nil, logger.New("development"))

	event := events.BoardChanged{
		BaseEvent: events.NewBaseEvent(),
		TenantID:  uuid.New(),
		Reason:    "stages",
	}
	if err := mod.Handle(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(mailer.sentTo) != 0 {
		t.Fatal("board changes must not trigger email")
	}
}
