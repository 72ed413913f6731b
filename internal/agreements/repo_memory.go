package agreements

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory AgreementsRepo for tests and local runs.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	byPath map[string]memoryEntry
}

type memoryEntry struct {
	id  int64
	seq int64
	rec AgreementRecord
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byPath: map[string]memoryEntry{}}
}

func (r *MemoryRepo) Upsert(ctx context.Context, rec AgreementRecord) (int64, error) {
	return r.upsert(rec, false)
}

func (r *MemoryRepo) UpsertReviewed(ctx context.Context, rec AgreementRecord) (int64, error) {
	return r.upsert(rec, true)
}

func (r *MemoryRepo) upsert(rec AgreementRecord, forceApproved bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.byPath[rec.S3Path]
	if !exists {
		r.nextID++
		entry = memoryEntry{id: r.nextID, seq: r.nextID}
	} else if forceApproved {
		rec.IsHumanApproved = true
	}
	entry.rec = rec
	r.byPath[rec.S3Path] = entry
	return entry.id, nil
}

func (r *MemoryRepo) GetByPath(ctx context.Context, s3Path string) (AgreementRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.byPath[s3Path]
	if !ok {
		return AgreementRecord{}, ErrNotFound
	}
	return entry.rec, nil
}

func (r *MemoryRepo) ListPaths(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]memoryEntry, 0, len(r.byPath))
	for _, entry := range r.byPath {
		entries = append(entries, entry)
	}
	// Newest first, matching the Postgres ordering.
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq > entries[j].seq })
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, entry.rec.S3Path)
	}
	return paths, nil
}

var _ AgreementsRepo = (*MemoryRepo)(nil)
