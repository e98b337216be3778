package http

import (
	"sync"
	"time"

	"sentrade/internal/pipeline"
)

// ResultStore holds the latest completed run for the handlers. Reads
// vastly outnumber writes; a write happens once per pipeline run.
type ResultStore struct {
	mu        sync.RWMutex
	result    *pipeline.Result
	updatedAt time.Time
}

// NewResultStore creates an empty store.
func NewResultStore() *ResultStore {
	return &ResultStore{}
}

// Set publishes a completed run.
func (s *ResultStore) Set(result *pipeline.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
	s.updatedAt = time.Now()
}

// Get returns the latest run, or false when no run has completed yet.
func (s *ResultStore) Get() (*pipeline.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.result != nil
}

// UpdatedAt returns when the latest run was published.
func (s *ResultStore) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}
