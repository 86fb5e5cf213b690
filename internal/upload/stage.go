package upload

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Stage keeps batches in memory between preview and submit.
// Batches expire ttl after creation.
type Stage struct {
	mu      sync.Mutex
	batches map[string]*Batch
	ttl     time.Duration
	now     func() time.Time
}

// NewStage creates an empty staging area.
func NewStage(ttl time.Duration) *Stage {
	return &Stage{
		batches: make(map[string]*Batch),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores a batch under its id. The caller must not modify it afterwards.
func (s *Stage) Put(b *Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[b.ID] = b
}

// Get returns a copy of a live batch. Staged batches are only modified
// under the stage lock, so callers never share them.
func (s *Stage) Get(id string) (*Batch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[id]
	if !ok || s.expired(b) {
		return nil, false
	}
	return b.clone(), true
}

// RemoveFile removes one file from a staged batch and returns a copy of the
// batch. The returned bool is false when the batch or the file does not exist.
func (s *Stage) RemoveFile(batchID, fileID string) (*Batch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[batchID]
	if !ok || s.expired(b) {
		return nil, false
	}
	removed := b.Remove(fileID)
	return b.clone(), removed
}

// Take removes a batch from the stage and hands it to the caller, who owns it
// from then on. Put returns it to the stage.
func (s *Stage) Take(id string) (*Batch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[id]
	if !ok {
		return nil, false
	}
	delete(s.batches, id)
	if s.expired(b) {
		return nil, false
	}
	return b, true
}

// Len returns the number of staged batches, expired ones included.
func (s *Stage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

// Sweep drops expired batches and returns how many were removed.
func (s *Stage) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, b := range s.batches {
		if s.expired(b) {
			delete(s.batches, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired batches every interval until ctx is done.
func (s *Stage) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				slog.Debug("dropped expired upload batches", "count", n)
			}
		}
	}
}

func (s *Stage) expired(b *Batch) bool {
	return s.ttl > 0 && s.now().Sub(b.CreatedAt) > s.ttl
}
