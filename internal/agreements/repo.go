package agreements

import "context"

// AgreementsRepo defines persistence operations for agreements. Upserts key
// on s3_path and replace the record's service lines wholesale.
type AgreementsRepo interface {
	// Upsert writes the record, honoring its IsHumanApproved value.
	Upsert(ctx context.Context, rec AgreementRecord) (int64, error)
	// UpsertReviewed writes the record and marks it human approved, whatever
	// the incoming value says. Used by the review surface.
	UpsertReviewed(ctx context.Context, rec AgreementRecord) (int64, error)
	GetByPath(ctx context.Context, s3Path string) (AgreementRecord, error)
	ListPaths(ctx context.Context) ([]string, error)
}
