package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	formstate "github.com/goliatone/go-formstate"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and examples. It keys records
// by Ref.Identifier(), rejects saves whose ETag is stale, and stamps every
// save with a fresh snapshot ID and ETag.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	now     func() time.Time
}

type memoryRecord struct {
	data formstate.Record
	meta Meta
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: map[string]memoryRecord{},
		now:     time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, ref Ref) (formstate.Record, Meta, bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return nil, Meta{}, false, err
	}

	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, Meta{}, false, nil
	}
	return formstate.CloneRecord(record.data), cloneMeta(record.meta), true, nil
}

func (s *MemoryStore) Save(_ context.Context, ref Ref, data formstate.Record, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, exists := s.records[key]
	if exists && meta.ETag != "" && meta.ETag != current.meta.ETag {
		return cloneMeta(current.meta), fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, current.meta.ETag)
	}

	saved := mergeMeta(current.meta, meta)
	saved.SnapshotID = uuid.NewString()
	saved.ETag = uuid.NewString()
	saved.UpdatedAt = s.now()
	if s.records == nil {
		s.records = map[string]memoryRecord{}
	}
	s.records[key] = memoryRecord{data: formstate.CloneRecord(data), meta: cloneMeta(saved)}
	return cloneMeta(saved), nil
}
