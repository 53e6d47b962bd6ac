// Package checkpoint persists subscription cursors.
package checkpoint

import (
	"context"
	"sync"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/model"
	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/port"
)

// MemoryStore is a map-backed checkpoint store for LOCAL runs and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	checkpoints map[string]model.Checkpoint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		checkpoints: make(map[string]model.Checkpoint),
	}
}

func key(topicID model.TopicID, subscription string) string {
	return topicID.String() + "/" + subscription
}

func (s *MemoryStore) Load(ctx context.Context, topicID model.TopicID, subscription string) (model.Checkpoint, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp, ok := s.checkpoints[key(topicID, subscription)]
	return cp, ok, nil
}

func (s *MemoryStore) Save(ctx context.Context, checkpoint model.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(checkpoint.TopicID, checkpoint.Subscription)
	if existing, ok := s.checkpoints[k]; ok && existing.LastSequence > checkpoint.LastSequence {
		return nil
	}
	s.checkpoints[k] = checkpoint
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

var _ port.CheckpointStore = (*MemoryStore)(nil)
