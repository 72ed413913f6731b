package agreements

import (
	"context"
	"errors"
	"testing"
)

type fakeText struct {
	text string
	err  error
}

func (f fakeText) FirstPageText(document []byte) (string, error) {
	return f.text, f.err
}

type fakeBackend struct {
	results []map[string]any
	failOn  int
	calls   []string
}

func (f *fakeBackend) Extract(ctx context.Context, shape FieldShape, pageRange string, document []byte) (map[string]any, error) {
	call := len(f.calls)
	f.calls = append(f.calls, pageRange)
	if f.failOn > 0 && call+1 == f.failOn {
		return nil, errors.New("backend exploded")
	}
	if call < len(f.results) {
		return f.results[call], nil
	}
	return map[string]any{}, nil
}

func TestExtractorMergesStepsInOrder(t *testing.T) {
	backend := &fakeBackend{
		results: []map[string]any{
			{"document_title": "Enrollment & Tuition Agreement", "total_tuition": 950.0},
			{"payment": map[string]any{"single_payment": map[string]any{"amount": 950.0}}},
		},
	}
	ex := NewExtractor(backend, fakeText{text: "Enrollment & Tuition Agreement\nStudent"})

	rec, title, err := ex.Run(context.Background(), []byte("%PDF"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if title != TitleEnrollmentTuition {
		t.Fatalf("expected tuition title, got %q", title)
	}
	if len(backend.calls) != 2 || backend.calls[0] != "1-1" || backend.calls[1] != "2-2" {
		t.Fatalf("unexpected step page ranges: %v", backend.calls)
	}
	if rec["total_tuition"] != 950.0 {
		t.Fatalf("first step data missing: %v", rec)
	}
	if _, ok := rec["payment"].(map[string]any); !ok {
		t.Fatalf("second step data missing: %v", rec)
	}
}

func TestExtractorAppliesPostProcessor(t *testing.T) {
	backend := &fakeBackend{
		results: []map[string]any{
			{
				"document_title": "Tutoring Agreement",
				"services": map[string]any{
					"service_name": "Chemistry",
					"units":        8.0,
					"tuition":      800.0,
				},
			},
		},
	}
	ex := NewExtractor(backend, fakeText{text: "Tutoring Agreement"})

	rec, _, err := ex.Run(context.Background(), []byte("%PDF"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := rec["services"].([]any); !ok {
		t.Fatalf("post-processor should listify services, got %T", rec["services"])
	}
	if rec["one_to_one_sessions"] != 8.0 {
		t.Fatalf("post-processor should derive sessions, got %v", rec["one_to_one_sessions"])
	}
}

func TestExtractorStepFailureAbortsRun(t *testing.T) {
	backend := &fakeBackend{
		results: []map[string]any{
			{"document_title": "Enrollment & Tuition Agreement"},
		},
		failOn: 2,
	}
	ex := NewExtractor(backend, fakeText{text: "Enrollment & Tuition Agreement"})

	_, _, err := ex.Run(context.Background(), []byte("%PDF"))
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if stepErr.Step != 2 || stepErr.PageRange != "2-2" {
		t.Fatalf("unexpected step error: %+v", stepErr)
	}
}

func TestExtractorUnknownTitle(t *testing.T) {
	ex := NewExtractor(&fakeBackend{}, fakeText{text: "Purchase Order"})
	if _, _, err := ex.Run(context.Background(), []byte("%PDF")); !errors.Is(err, ErrUnknownDocumentTitle) {
		t.Fatalf("expected ErrUnknownDocumentTitle, got %v", err)
	}
}
