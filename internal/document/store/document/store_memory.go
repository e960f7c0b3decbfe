// Package document provides storage for upload artifacts.
package document

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"paynroll/internal/document/models"
	id "paynroll/pkg/domain"
	"paynroll/pkg/platform/sentinel"
)

// MemoryStore is an in-memory artifact store for tests and local
// development.
type MemoryStore struct {
	mu        sync.RWMutex
	artifacts map[id.UploadID]*models.Artifact
}

func NewMemory() *MemoryStore {
	return &MemoryStore{artifacts: make(map[id.UploadID]*models.Artifact)}
}

func (s *MemoryStore) Insert(_ context.Context, a *models.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.artifacts[a.UploadID]; exists {
		return fmt.Errorf("upload id %s already exists: %w", a.UploadID, sentinel.ErrConflict)
	}
	cp := *a
	s.artifacts[a.UploadID] = &cp
	return nil
}

func (s *MemoryStore) ListByAdmission(_ context.Context, admissionID id.AdmissionID) ([]*models.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Artifact
	for _, a := range s.artifacts {
		if a.AdmissionID == admissionID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) Current(_ context.Context, admissionID id.AdmissionID, docType models.DocumentType) (*models.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*models.Artifact
	for _, a := range s.artifacts {
		if a.AdmissionID == admissionID && a.DocumentType == docType {
			matches = append(matches, a)
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no %s for %s: %w", docType, admissionID, sentinel.ErrNotFound)
	}
	sortNewestFirst(matches)
	cp := *matches[0]
	return &cp, nil
}

func (s *MemoryStore) FindByUploadID(_ context.Context, uploadID id.UploadID) (*models.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.artifacts[uploadID]
	if !ok {
		return nil, fmt.Errorf("upload %s: %w", uploadID, sentinel.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

// sortNewestFirst orders by upload time, breaking ties on upload ID so
// same-instant uploads still resolve deterministically.
func sortNewestFirst(artifacts []*models.Artifact) {
	sort.Slice(artifacts, func(i, j int) bool {
		if !artifacts[i].UploadedAt.Equal(artifacts[j].UploadedAt) {
			return artifacts[i].UploadedAt.After(artifacts[j].UploadedAt)
		}
		return artifacts[i].UploadID > artifacts[j].UploadID
	})
}
