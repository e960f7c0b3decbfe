// Package challenge provides storage for outstanding verification codes.
package challenge

import (
	"context"
	"fmt"
	"sync"

	"paynroll/internal/verification/models"
	"paynroll/pkg/platform/sentinel"
)

// MemoryStore is an in-memory challenge store for tests and local
// development. One challenge per email; Put replaces.
type MemoryStore struct {
	mu         sync.RWMutex
	challenges map[string]*models.Challenge
}

func NewMemory() *MemoryStore {
	return &MemoryStore{challenges: make(map[string]*models.Challenge)}
}

func (s *MemoryStore) Put(_ context.Context, c *models.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	s.challenges[c.Email] = &cp
	return nil
}

func (s *MemoryStore) Get(_ context.Context, email string) (*models.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.challenges[email]
	if !ok {
		return nil, fmt.Errorf("challenge for %q: %w", email, sentinel.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.challenges, email)
	return nil
}
