package audit

import (
	"context"
	"sync"

	id "paynroll/pkg/domain"
)

// MemoryStore keeps audit events in memory for tests/dev.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryStore) ListByAdmission(_ context.Context, admissionID id.AdmissionID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.AdmissionID == admissionID {
			out = append(out, e)
		}
	}
	return out, nil
}
