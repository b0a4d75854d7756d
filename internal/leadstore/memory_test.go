package leadstore

import (
	"context"
	"errors"
	"testing"
)

func TestInMemoryStoreSaveAndGet(t *testing.T) {
	store := NewInMemoryStore()
	rec := testRecord("lead_1700000000000_0a1b2c3d")

	if err := store.Save(context.Background(), rec); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, ok := store.Get(rec.ID)
	if !ok {
		t.Fatal("expected record to be present")
	}
	if string(got.Payload) != string(rec.Payload) {
		t.Fatalf("unexpected payload %s", got.Payload)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", store.Len())
	}
}

func TestInMemoryStoreWriteOnce(t *testing.T) {
	store := NewInMemoryStore()
	rec := testRecord("lead_1700000000000_deadbeef")

	if err := store.Save(context.Background(), rec); err != nil {
		t.Fatalf("first Save returned error: %v", err)
	}
	if err := store.Save(context.Background(), rec); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 record after duplicate, got %d", store.Len())
	}
}

func TestInMemoryStoreCopiesPayload(t *testing.T) {
	store := NewInMemoryStore()
	payload := []byte(`{"id":"x"}`)
	rec := Record{ID: "lead_1_00000000", Payload: payload}

	if err := store.Save(context.Background(), rec); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	payload[2] = 'X'

	got, _ := store.Get(rec.ID)
	if string(got.Payload) != `{"id":"x"}` {
		t.Fatalf("stored payload aliases caller slice: %s", got.Payload)
	}
}
