package agreements

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"agreements-backend/internal/queue"
	"agreements-backend/internal/shared/metrics"
	"agreements-backend/internal/shared/storage/object"
	"agreements-backend/internal/shared/telemetry"
)

// Service contains business logic for agreements: extraction runs, user
// submissions, review approvals, and reads.
type Service struct {
	Repo      AgreementsRepo
	Store     object.Store
	Extractor *Extractor
	JobQueue  queue.Client
}

// ProcessDocument fetches the document, runs the extraction plan for its
// title, normalizes and validates the result, and upserts the record keyed by
// its storage path.
func (s *Service) ProcessDocument(ctx context.Context, s3Path string) (AgreementRecord, error) {
	metrics.IncExtractionStarted()
	started := time.Now()

	document, err := object.ReadAll(ctx, s.Store, s3Path)
	if err != nil {
		metrics.IncExtractionFailed()
		return AgreementRecord{}, err
	}

	raw, title, err := s.Extractor.Run(ctx, document)
	if err != nil {
		metrics.IncExtractionFailed()
		telemetry.Error("extraction run failed", map[string]any{
			"s3Path": s3Path,
			"error":  err.Error(),
		})
		return AgreementRecord{}, err
	}

	raw["s3_path"] = s3Path
	raw["input_format"] = FormatExtracted

	rec, err := s.persist(ctx, raw, s.Repo.Upsert)
	if err != nil {
		metrics.IncExtractionFailed()
		return AgreementRecord{}, err
	}

	metrics.IncExtractionCompleted()
	metrics.ObserveExtractionDurationMs(float64(time.Since(started).Milliseconds()))
	telemetry.Info("document processed", map[string]any{
		"s3Path":        s3Path,
		"documentTitle": title.String(),
		"isValid":       rec.IsValid,
	})
	return rec, nil
}

// EnqueueExtraction hands a document off to the worker queue instead of
// extracting inline.
func (s *Service) EnqueueExtraction(ctx context.Context, s3Path string) (string, error) {
	if s.JobQueue == nil {
		return "", errors.New("job queue not configured")
	}
	requestID := uuid.NewString()
	msg := queue.Message{
		S3Path:     s3Path,
		RequestID:  requestID,
		EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
		Version:    1,
	}
	if err := s.JobQueue.Send(ctx, msg); err != nil {
		return "", err
	}
	telemetry.Info("extraction enqueued", map[string]any{
		"s3Path":    s3Path,
		"requestId": requestID,
	})
	return requestID, nil
}

// SaveSubmission persists a user-edited flat record. A user submission is by
// definition human approved.
func (s *Service) SaveSubmission(ctx context.Context, s3Path string, raw RawRecord) (AgreementRecord, error) {
	raw["s3_path"] = s3Path
	raw["input_format"] = FormatUserSave
	raw["is_human_approved"] = true
	return s.persist(ctx, raw, s.Repo.Upsert)
}

// Review persists a reviewed record, marking any existing row human approved
// even when the payload omits the flag.
func (s *Service) Review(ctx context.Context, s3Path string, raw RawRecord) (AgreementRecord, error) {
	raw["s3_path"] = s3Path
	raw["input_format"] = FormatUserSave
	return s.persist(ctx, raw, s.Repo.UpsertReviewed)
}

func (s *Service) persist(ctx context.Context, raw RawRecord, upsert func(context.Context, AgreementRecord) (int64, error)) (AgreementRecord, error) {
	flat, err := Normalize(raw)
	if err != nil {
		return AgreementRecord{}, err
	}
	rec, fieldErrs := Validate(flat)
	if len(fieldErrs) > 0 {
		return AgreementRecord{}, &ValidationError{Fields: fieldErrs}
	}

	if _, err := upsert(ctx, rec); err != nil {
		return AgreementRecord{}, err
	}
	metrics.IncUpsert()
	if !rec.IsValid {
		metrics.IncValidationSoftFail()
	}
	return rec, nil
}

// ListPaths returns the storage paths of every stored agreement.
func (s *Service) ListPaths(ctx context.Context) ([]string, error) {
	return s.Repo.ListPaths(ctx)
}

// GetByPath returns one agreement with its service lines.
func (s *Service) GetByPath(ctx context.Context, s3Path string) (AgreementRecord, error) {
	return s.Repo.GetByPath(ctx, s3Path)
}

// FetchDocument returns the raw document bytes for a storage path.
func (s *Service) FetchDocument(ctx context.Context, s3Path string) ([]byte, error) {
	return object.ReadAll(ctx, s.Store, s3Path)
}
