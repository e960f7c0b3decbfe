package record

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"paynroll/internal/notification/models"
	id "paynroll/pkg/domain"
	"paynroll/pkg/platform/sentinel"
)

// MemoryStore keeps notification records in memory for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[id.NotificationID]*models.Record
}

// NewMemory constructs an empty in-memory notification store.
func NewMemory() *MemoryStore {
	return &MemoryStore{records: make(map[id.NotificationID]*models.Record)}
}

// Append inserts a record. Records are never updated except for the read flag.
func (s *MemoryStore) Append(_ context.Context, r *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[r.NotificationID]; ok {
		return fmt.Errorf("notification id already exists: %w", sentinel.ErrConflict)
	}
	cp := *r
	s.records[r.NotificationID] = &cp
	return nil
}

// ListByAdmission returns the admission's records, newest first.
func (s *MemoryStore) ListByAdmission(_ context.Context, admissionID id.AdmissionID) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Record
	for _, r := range s.records {
		if r.AdmissionID == admissionID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// MarkRead flips the read flag on one record.
func (s *MemoryStore) MarkRead(_ context.Context, notificationID id.NotificationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[notificationID]
	if !ok {
		return fmt.Errorf("notification not found: %w", sentinel.ErrNotFound)
	}
	r.IsRead = true
	return nil
}
