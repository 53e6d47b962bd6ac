package checkpoint

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/model"
	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/port"
	"github.com/trinnode/AfriHealthv2-sub003/pkg/errors"
)

// FirestoreStore keeps one document per (topic, subscription).
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStore(ctx context.Context, projectID, collection string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.WrapStorageError(err, "failed to create firestore client")
	}
	return &FirestoreStore{
		client:     client,
		collection: collection,
	}, nil
}

func docID(topicID model.TopicID, subscription string) string {
	return fmt.Sprintf("%s_%s", topicID, subscription)
}

func (s *FirestoreStore) Load(ctx context.Context, topicID model.TopicID, subscription string) (model.Checkpoint, bool, error) {
	doc, err := s.client.Collection(s.collection).Doc(docID(topicID, subscription)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.Checkpoint{}, false, nil
		}
		return model.Checkpoint{}, false, errors.WrapStorageError(err, "failed to load checkpoint")
	}

	data := doc.Data()
	cp := model.Checkpoint{
		TopicID:      topicID,
		Subscription: subscription,
	}
	if v, ok := data["last_sequence"].(int64); ok {
		cp.LastSequence = uint64(v)
	}
	if v, ok := data["updated_at"].(time.Time); ok {
		cp.UpdatedAt = v
	}
	return cp, true, nil
}

func (s *FirestoreStore) Save(ctx context.Context, checkpoint model.Checkpoint) error {
	existing, found, err := s.Load(ctx, checkpoint.TopicID, checkpoint.Subscription)
	if err != nil {
		return err
	}
	if found && existing.LastSequence > checkpoint.LastSequence {
		return nil
	}

	ref := s.client.Collection(s.collection).Doc(docID(checkpoint.TopicID, checkpoint.Subscription))
	_, err = ref.Set(ctx, map[string]interface{}{
		"topic_id":      checkpoint.TopicID.String(),
		"subscription":  checkpoint.Subscription,
		"last_sequence": int64(checkpoint.LastSequence),
		"updated_at":    checkpoint.UpdatedAt,
	}, firestore.MergeAll)
	if err != nil {
		return errors.WrapStorageError(err, "failed to save checkpoint")
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

var _ port.CheckpointStore = (*FirestoreStore)(nil)
