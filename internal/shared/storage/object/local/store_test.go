package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"agreements-backend/internal/shared/storage/object"
)

func TestPutThenOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	payload := []byte("%PDF-1.7 fake agreement")
	n, err := store.Put(ctx, "agreements/2026/tutoring.pdf", "application/pdf", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != int64(len(payload)) {
		t.Fatalf("expected %d bytes written, got %d", len(payload), n)
	}

	body, err := store.Open(ctx, "agreements/2026/tutoring.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer body.Close()

	got, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: got %q", got)
	}
}

func TestOpenMissingKeyReturnsNotFound(t *testing.T) {
	store := New(t.TempDir())

	_, err := store.Open(context.Background(), "missing/agreement.pdf")
	if !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPutRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())

	_, err := store.Put(context.Background(), "../escape.pdf", "application/pdf", bytes.NewReader([]byte("x")))
	if err == nil {
		t.Fatalf("expected error for traversal key")
	}
}
