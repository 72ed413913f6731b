package llamacloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agreements-backend/internal/agreements"
)

func testShape() agreements.FieldShape {
	return agreements.FieldShape{
		Name: "test",
		Fields: []agreements.FieldSpec{
			{Name: "document_title", Type: agreements.FieldString, Description: "Title printed on the first page"},
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient("test-key", "openai-gpt-5")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.apiURL = srv.URL
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient("", "openai-gpt-5"); err == nil {
		t.Fatalf("expected error for missing api key")
	}
	if _, err := NewClient("key", ""); err == nil {
		t.Fatalf("expected error for missing model")
	}
}

func TestExtractSendsSchemaAndPageRange(t *testing.T) {
	var got extractRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(extractResponse{
			Data: map[string]any{"document_title": "Tutoring Agreement"},
		})
	})

	data, err := client.Extract(context.Background(), testShape(), "2-2", []byte("%PDF"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if data["document_title"] != "Tutoring Agreement" {
		t.Fatalf("unexpected data: %v", data)
	}
	if got.Config.PageRange != "2-2" {
		t.Fatalf("expected page range forwarded, got %q", got.Config.PageRange)
	}
	if got.Config.ExtractionMode != "PREMIUM" {
		t.Fatalf("expected premium mode, got %q", got.Config.ExtractionMode)
	}
	if got.DataSchema == nil {
		t.Fatalf("expected data schema in request")
	}
	if got.File == "" || got.FileType != "application/pdf" {
		t.Fatalf("expected base64 file payload, got type %q", got.FileType)
	}
}

func TestExtractSurfacesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "schema rejected", "type": "invalid_request"},
		})
	})

	_, err := client.Extract(context.Background(), testShape(), "1-1", []byte("%PDF"))
	if err == nil || !strings.Contains(err.Error(), "schema rejected") {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestExtractRejectsNonOKStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})

	_, err := client.Extract(context.Background(), testShape(), "1-1", []byte("%PDF"))
	if err == nil || !strings.Contains(err.Error(), "status 502") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestExtractRejectsMissingData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{})
	})

	_, err := client.Extract(context.Background(), testShape(), "1-1", []byte("%PDF"))
	if err == nil || !strings.Contains(err.Error(), "missing data") {
		t.Fatalf("expected missing data error, got %v", err)
	}
}
