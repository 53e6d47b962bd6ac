package port

import (
	"context"
	"time"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/model"
)

// SubmitReceipt is returned by the consensus service once a message has been
// durably appended to a topic.
type SubmitReceipt struct {
	// TransactionID correlates the submission with mirror records.
	TransactionID  string
	TopicID        model.TopicID
	SequenceNumber uint64
}

// ConsensusClient submits opaque payloads to consensus topics. The wire
// format past this boundary belongs to the external service.
type ConsensusClient interface {
	SubmitMessage(ctx context.Context, topicID model.TopicID, payload []byte) (SubmitReceipt, error)
	Close() error
}

// MessageQuery selects a slice of a topic's message stream.
type MessageQuery struct {
	TopicID model.TopicID
	// AfterSequence filters to sequence numbers strictly greater; 0 = unset.
	AfterSequence uint64
	// Since filters to consensus timestamps at or after; zero = unset.
	// Ignored when AfterSequence is set.
	Since time.Time
	// Limit bounds the result count; 0 = adapter default.
	Limit int
}

// MirrorClient reads historical and near-real-time topic contents from a
// read-optimized mirror, in ascending sequence order.
type MirrorClient interface {
	TopicMessages(ctx context.Context, query MessageQuery) ([]model.TopicMessage, error)
}
