package port

import (
	"context"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/model"
)

// CheckpointStore persists subscription cursors so a restarted relay resumes
// instead of replaying the topic.
type CheckpointStore interface {
	// Load returns the checkpoint for (topic, subscription), reporting
	// whether one exists.
	Load(ctx context.Context, topicID model.TopicID, subscription string) (model.Checkpoint, bool, error)
	// Save upserts a checkpoint. Implementations must never move
	// LastSequence backwards.
	Save(ctx context.Context, checkpoint model.Checkpoint) error
	Close() error
}
