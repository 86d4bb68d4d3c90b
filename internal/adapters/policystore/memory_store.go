package policystore

import (
	"context"
	"sync"
	"treatment-site-service/internal/domain"
)

// MemoryStore keeps the encoded policy in process memory.
type MemoryStore struct {
	mu        sync.Mutex
	durations []byte
	paused    []byte
	saveErr   error
	saves     int
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) LoadPolicy(ctx context.Context) (domain.Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decodePolicy(s.durations, s.paused)
}

func (s *MemoryStore) SavePolicy(ctx context.Context, p domain.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	durations, paused, err := encodePolicy(p)
	if err != nil {
		return err
	}
	s.durations, s.paused = durations, paused
	s.saves++
	return nil
}

// FailSaves makes later saves return err; nil restores normal behavior.
func (s *MemoryStore) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
