package leads

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/growthops/lead-intake/internal/leadstore"
	"github.com/growthops/lead-intake/internal/requestmeta"
)

type fakeStore struct {
	attempts []leadstore.Record
	saved    []leadstore.Record
	failures int
	err      error
}

func (f *fakeStore) Save(ctx context.Context, rec leadstore.Record) error {
	f.attempts = append(f.attempts, rec)
	if f.failures > 0 {
		f.failures--
		return f.err
	}
	f.saved = append(f.saved, rec)
	return nil
}

type fakeNotifier struct {
	calls []Lead
	err   error
	done  chan struct{}
}

func (f *fakeNotifier) NotifyLead(ctx context.Context, lead Lead) error {
	f.calls = append(f.calls, lead)
	if f.done != nil {
		close(f.done)
	}
	return f.err
}

func sampleMeta() requestmeta.Meta {
	return requestmeta.Meta{
		IP:         "203.0.113.9",
		Country:    "US",
		UserAgent:  "Mozilla/5.0",
		Device:     "Desktop (Chrome)",
		ReceivedAt: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
	}
}

func newTestService(store leadstore.Store, notifier Notifier) *Service {
	return NewService(newTestValidator(), store, notifier, nil, nil, Options{AwaitNotify: true})
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	lead, fieldErrs, err := svc.Submit(context.Background(), map[string]any{"email": "bad"}, sampleMeta())
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if lead != nil {
		t.Fatal("expected no lead for invalid input")
	}
	if len(fieldErrs) == 0 {
		t.Fatal("expected field errors")
	}
	if len(store.attempts) != 0 {
		t.Fatal("store must not be touched for invalid input")
	}
	if len(notifier.calls) != 0 {
		t.Fatal("notifier must not be called for invalid input")
	}
}

func TestSubmitPersistsAndNotifies(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	lead, fieldErrs, err := svc.Submit(context.Background(), validSubmission(), sampleMeta())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if len(fieldErrs) != 0 {
		t.Fatalf("unexpected field errors: %v", fieldErrs)
	}
	if !leadIDPattern.MatchString(lead.ID) {
		t.Fatalf("unexpected id format %q", lead.ID)
	}

	if len(store.saved) != 1 {
		t.Fatalf("expected exactly one store write, got %d", len(store.saved))
	}
	rec := store.saved[0]
	if rec.ID != lead.ID || rec.Email != "jane@acme.example" || rec.Company != "Acme Robotics" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if !rec.CreatedAt.Equal(sampleMeta().ReceivedAt) {
		t.Fatalf("expected record stamped with receipt time, got %s", rec.CreatedAt)
	}

	var persisted Lead
	if err := json.Unmarshal(rec.Payload, &persisted); err != nil {
		t.Fatalf("payload is not a JSON lead: %v", err)
	}
	if persisted.ID != lead.ID || persisted.IP != "203.0.113.9" || persisted.Country != "US" {
		t.Fatalf("unexpected persisted lead %+v", persisted)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.calls))
	}
	if notifier.calls[0].ID != lead.ID {
		t.Fatalf("notifier saw wrong lead %q", notifier.calls[0].ID)
	}
}

func TestSubmitDefaultsMetadataToUnknown(t *testing.T) {
	svc := newTestService(nil, nil)

	lead, _, err := svc.Submit(context.Background(), validSubmission(), requestmeta.Meta{})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if lead.IP != "unknown" || lead.Country != "unknown" || lead.UserAgent != "unknown" || lead.Device != "unknown" {
		t.Fatalf("expected unknown defaults, got %+v", lead)
	}
	if lead.ReceivedAt.IsZero() {
		t.Fatal("expected receipt time stamped when metadata omits it")
	}
}

func TestSubmitRegeneratesIDOnCollision(t *testing.T) {
	store := &fakeStore{failures: 1, err: leadstore.ErrDuplicateID}
	svc := newTestService(store, nil)

	lead, _, err := svc.Submit(context.Background(), validSubmission(), sampleMeta())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if len(store.attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(store.attempts))
	}
	if store.attempts[0].ID == store.attempts[1].ID {
		t.Fatal("expected a fresh id after collision")
	}
	if lead.ID != store.attempts[1].ID {
		t.Fatalf("returned lead carries stale id %q", lead.ID)
	}

	var persisted Lead
	if err := json.Unmarshal(store.attempts[1].Payload, &persisted); err != nil {
		t.Fatalf("payload is not a JSON lead: %v", err)
	}
	if persisted.ID != lead.ID {
		t.Fatalf("regenerated payload still carries id %q", persisted.ID)
	}
}

func TestSubmitGivesUpAfterRepeatedCollisions(t *testing.T) {
	store := &fakeStore{failures: maxIDAttempts, err: leadstore.ErrDuplicateID}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	_, _, err := svc.Submit(context.Background(), validSubmission(), sampleMeta())
	if !errors.Is(err, ErrIDExhausted) {
		t.Fatalf("expected ErrIDExhausted, got %v", err)
	}
	if len(store.attempts) != maxIDAttempts {
		t.Fatalf("expected %d attempts, got %d", maxIDAttempts, len(store.attempts))
	}
	if len(notifier.calls) != 0 {
		t.Fatal("notifier must not run when persistence fails")
	}
}

func TestSubmitSurfacesStoreErrors(t *testing.T) {
	store := &fakeStore{failures: 1, err: errors.New("connection refused")}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	_, _, err := svc.Submit(context.Background(), validSubmission(), sampleMeta())
	if err == nil {
		t.Fatal("expected error from failing store")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if len(notifier.calls) != 0 {
		t.Fatal("notifier must not run when persistence fails")
	}
}

func TestSubmitWithoutStoreSkipsPersistence(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(nil, notifier)

	lead, _, err := svc.Submit(context.Background(), validSubmission(), sampleMeta())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if lead.ID == "" {
		t.Fatal("expected id even without a store")
	}
	if len(notifier.calls) != 1 {
		t.Fatal("expected notification without a store")
	}
}

func TestSubmitAbsorbsNotifierFailure(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{err: errors.New("provider down")}
	svc := newTestService(store, notifier)

	lead, fieldErrs, err := svc.Submit(context.Background(), validSubmission(), sampleMeta())
	if err != nil || len(fieldErrs) != 0 {
		t.Fatalf("notifier failure must not surface, got err=%v fieldErrs=%v", err, fieldErrs)
	}
	if lead == nil || len(store.saved) != 1 {
		t.Fatal("expected lead accepted despite notifier failure")
	}
}

func TestSubmitDetachedNotification(t *testing.T) {
	notifier := &fakeNotifier{done: make(chan struct{})}
	svc := NewService(newTestValidator(), nil, notifier, nil, nil, Options{})

	if _, _, err := svc.Submit(context.Background(), validSubmission(), sampleMeta()); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	select {
	case <-notifier.done:
	case <-time.After(2 * time.Second):
		t.Fatal("detached notification never ran")
	}
}
