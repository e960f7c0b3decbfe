package applicant

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"paynroll/internal/applicant/models"
	id "paynroll/pkg/domain"
	"paynroll/pkg/platform/sentinel"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return ErrNotFound when the requested record does not exist
// - Return ErrConflict when a uniqueness guarantee rejects the write
// - Return nil for successful operations

// MemoryStore keeps applicant records in memory for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[id.AdmissionID]*models.Applicant
}

// NewMemory constructs an empty in-memory applicant store.
func NewMemory() *MemoryStore {
	return &MemoryStore{records: make(map[id.AdmissionID]*models.Applicant)}
}

// Create inserts a record if neither its admission ID nor its email
// (case-insensitive) is already taken.
func (s *MemoryStore) Create(_ context.Context, a *models.Applicant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[a.AdmissionID]; ok {
		return fmt.Errorf("admission id already exists: %w", sentinel.ErrConflict)
	}
	email := strings.ToLower(a.Email)
	for _, existing := range s.records {
		if strings.ToLower(existing.Email) == email {
			return fmt.Errorf("email already registered: %w", sentinel.ErrConflict)
		}
	}

	cp := *a
	s.records[a.AdmissionID] = &cp
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, admissionID id.AdmissionID) (*models.Applicant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.records[admissionID]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, fmt.Errorf("applicant not found: %w", sentinel.ErrNotFound)
}

// FindByEmail looks a record up case-insensitively.
func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*models.Applicant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(email)
	for _, a := range s.records {
		if strings.ToLower(a.Email) == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("applicant not found: %w", sentinel.ErrNotFound)
}

// UpdateStatusReturning sets the status and returns the updated record in
// one step, mirroring the atomic UPDATE...RETURNING of the postgres store.
func (s *MemoryStore) UpdateStatusReturning(_ context.Context, admissionID id.AdmissionID, status models.Status, now time.Time) (*models.Applicant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.records[admissionID]
	if !ok {
		return nil, fmt.Errorf("applicant not found: %w", sentinel.ErrNotFound)
	}
	a.Status = status
	a.UpdatedAt = now
	cp := *a
	return &cp, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func (s *MemoryStore) CountByStatus(_ context.Context, status models.Status) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, a := range s.records {
		if a.Status == status {
			count++
		}
	}
	return count, nil
}

// List returns all records ordered by creation time. Order is "asc" for
// oldest first, anything else for newest first.
func (s *MemoryStore) List(_ context.Context, order string) ([]*models.Applicant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Applicant, 0, len(s.records))
	for _, a := range s.records {
		cp := *a
		out = append(out, &cp)
	}
	asc := order == "asc"
	sort.Slice(out, func(i, j int) bool {
		if asc {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ListByCourse returns all records whose preferred course matches exactly.
func (s *MemoryStore) ListByCourse(_ context.Context, course string) ([]*models.Applicant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Applicant
	for _, a := range s.records {
		if a.PreferredCourse == course {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
