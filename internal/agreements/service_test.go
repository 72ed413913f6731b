package agreements

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"agreements-backend/internal/shared/storage/object"
)

type fakeStore struct {
	objects map[string][]byte
}

func (f *fakeStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	data, ok := f.objects[storageKey]
	if !ok {
		return nil, object.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStore) Put(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[storageKey] = data
	return int64(len(data)), nil
}

func tuitionBackend() *fakeBackend {
	return &fakeBackend{
		results: []map[string]any{
			{
				"document_title": "Enrollment & Tuition Agreement",
				"doc_id":         "DOC-1",
				"student":        map[string]any{"first_name": "Jane", "last_name": "Doe"},
				"parent_guardian": map[string]any{
					"full_name": "John Doe",
					"email":     "john@example.com",
				},
				"student_program": map[string]any{
					"campus":        "Downtown",
					"current_grade": 10.0,
				},
				"services": []any{
					map[string]any{"service_name": "One to One", "cost_per_unit": 100.0, "units": 9.5, "tuition": 950.0},
				},
				"total_tuition":            950.0,
				"one_to_one_sessions":      9.0,
				"homework_studio_sessions": 0.0,
				"scheduled_start_date":     "08/25/25",
			},
			{
				"payment": map[string]any{
					"single_payment": map[string]any{"amount": 950.0, "due_date": "09/01/25"},
				},
			},
		},
	}
}

func newTestService(backend ExtractionBackend) (*Service, *MemoryRepo, *fakeStore) {
	repo := NewMemoryRepo()
	store := &fakeStore{objects: map[string][]byte{
		"agreements/2025/jane-doe.pdf": []byte("%PDF-1.7 test"),
	}}
	svc := &Service{
		Repo:      repo,
		Store:     store,
		Extractor: NewExtractor(backend, fakeText{text: "Enrollment & Tuition Agreement"}),
	}
	return svc, repo, store
}

func TestProcessDocumentPersistsExtractedRecord(t *testing.T) {
	svc, repo, _ := newTestService(tuitionBackend())

	rec, err := svc.ProcessDocument(context.Background(), "agreements/2025/jane-doe.pdf")
	if err != nil {
		t.Fatalf("ProcessDocument: %v", err)
	}
	if rec.S3Path != "agreements/2025/jane-doe.pdf" {
		t.Fatalf("unexpected path %q", rec.S3Path)
	}
	if rec.IsHumanApproved {
		t.Fatalf("extracted records must start unapproved")
	}
	if !rec.IsValid {
		t.Fatalf("consistent record should be valid")
	}

	stored, err := repo.GetByPath(context.Background(), rec.S3Path)
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if stored.DocumentID == nil || *stored.DocumentID != "DOC-1" {
		t.Fatalf("document id not stored: %v", stored.DocumentID)
	}
	if len(stored.ServicesList) != 1 {
		t.Fatalf("expected one service line, got %d", len(stored.ServicesList))
	}
}

func TestProcessDocumentMissingObject(t *testing.T) {
	svc, _, _ := newTestService(tuitionBackend())

	_, err := svc.ProcessDocument(context.Background(), "agreements/nope.pdf")
	if !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected object.ErrNotFound, got %v", err)
	}
}

func TestSaveSubmissionMarksApproved(t *testing.T) {
	svc, repo, _ := newTestService(tuitionBackend())

	rec, err := svc.SaveSubmission(context.Background(), "agreements/2025/jane-doe.pdf", RawRecord{
		"document_title":            "Enrollment & Tuition Agreement",
		"student_first_name":        "Jane",
		"student_last_name":         "Doe",
		"parent_guardian_full_name": "John Doe",
		"parent_guardian_email":     "john@example.com",
		"student_campus":            "Downtown",
		"current_grade":             10,
		"document_id":               "DOC-1",
		"payment_amount":            950.0,
		"services_list": []any{
			map[string]any{"service_name": "One to One", "cost_per_unit": 100.0, "units": 9.5, "tuition": 950.0},
		},
	})
	if err != nil {
		t.Fatalf("SaveSubmission: %v", err)
	}
	if !rec.IsHumanApproved {
		t.Fatalf("user submissions must be approved")
	}

	stored, err := repo.GetByPath(context.Background(), rec.S3Path)
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if !stored.IsHumanApproved {
		t.Fatalf("approval flag not persisted")
	}
}

func TestReviewApprovesExistingRecord(t *testing.T) {
	svc, repo, _ := newTestService(tuitionBackend())

	if _, err := svc.ProcessDocument(context.Background(), "agreements/2025/jane-doe.pdf"); err != nil {
		t.Fatalf("ProcessDocument: %v", err)
	}

	_, err := svc.Review(context.Background(), "agreements/2025/jane-doe.pdf", RawRecord{
		"document_title":            "Enrollment & Tuition Agreement",
		"student_first_name":        "Jane",
		"student_last_name":         "Doe",
		"parent_guardian_full_name": "John Doe",
		"parent_guardian_email":     "john@example.com",
		"student_campus":            "Downtown",
		"current_grade":             10,
		"document_id":               "DOC-1",
		"payment_amount":            950.0,
		"services_list": []any{
			map[string]any{"service_name": "One to One", "cost_per_unit": 100.0, "units": 9.5, "tuition": 950.0},
		},
	})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}

	stored, err := repo.GetByPath(context.Background(), "agreements/2025/jane-doe.pdf")
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if !stored.IsHumanApproved {
		t.Fatalf("review must approve the stored record")
	}
}

func TestSaveSubmissionValidationFailure(t *testing.T) {
	svc, repo, _ := newTestService(tuitionBackend())

	_, err := svc.SaveSubmission(context.Background(), "agreements/2025/bad.pdf", RawRecord{
		"document_title": "Enrollment & Tuition Agreement",
	})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(valErr.Fields) == 0 {
		t.Fatalf("expected collected field errors")
	}

	if _, err := repo.GetByPath(context.Background(), "agreements/2025/bad.pdf"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("invalid record must not be persisted, got %v", err)
	}
}

func TestListPathsNewestFirst(t *testing.T) {
	svc, _, store := newTestService(tuitionBackend())
	store.objects["agreements/2025/second.pdf"] = []byte("%PDF-1.7 test")

	save := func(path string) {
		t.Helper()
		_, err := svc.SaveSubmission(context.Background(), path, RawRecord{
			"document_title":            "Enrollment & Tuition Agreement",
			"student_first_name":        "Jane",
			"student_last_name":         "Doe",
			"parent_guardian_full_name": "John Doe",
			"parent_guardian_email":     "john@example.com",
			"student_campus":            "Downtown",
			"current_grade":             10,
			"document_id":               "DOC-1",
			"payment_amount":            950.0,
			"services_list": []any{
				map[string]any{"service_name": "One to One", "cost_per_unit": 100.0, "units": 9.5, "tuition": 950.0},
			},
		})
		if err != nil {
			t.Fatalf("SaveSubmission(%s): %v", path, err)
		}
	}
	save("agreements/2025/jane-doe.pdf")
	save("agreements/2025/second.pdf")

	paths, err := svc.ListPaths(context.Background())
	if err != nil {
		t.Fatalf("ListPaths: %v", err)
	}
	if len(paths) != 2 || paths[0] != "agreements/2025/second.pdf" {
		t.Fatalf("expected newest first, got %v", paths)
	}
}
