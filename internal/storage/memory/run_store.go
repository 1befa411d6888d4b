package memory

import (
	"context"
	"sort"
	"sync"

	"retail-sales-lab/internal/storage"
)

// RunStore is an in-memory implementation of storage.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	data map[string]*storage.RunRecord // keyed by run_id
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		data: make(map[string]*storage.RunRecord),
	}
}

// Record inserts or replaces the run.
func (s *RunStore) Record(_ context.Context, run *storage.RunRecord) error {
	if run == nil || run.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	runCopy := *run
	s.data[run.RunID] = &runCopy
	return nil
}

// Get returns a run by ID. Returns ErrNotFound if not exists.
func (s *RunStore) Get(_ context.Context, runID string) (*storage.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	runCopy := *run
	return &runCopy, nil
}

// Latest returns the most recently finished successful run.
func (s *RunStore) Latest(ctx context.Context) (*storage.RunRecord, error) {
	runs, _ := s.List(ctx)
	for i := len(runs) - 1; i >= 0; i-- {
		if runs[i].Status == storage.RunStatusSucceeded {
			return runs[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

// List returns all runs ordered by FinishedAt ASC, then RunID.
func (s *RunStore) List(_ context.Context) ([]*storage.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*storage.RunRecord, 0, len(s.data))
	for _, run := range s.data {
		runCopy := *run
		result = append(result, &runCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].FinishedAt.Equal(result[j].FinishedAt) {
			return result[i].FinishedAt.Before(result[j].FinishedAt)
		}
		return result[i].RunID < result[j].RunID
	})
	return result, nil
}

var _ storage.RunStore = (*RunStore)(nil)
