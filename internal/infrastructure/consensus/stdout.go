package consensus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/model"
	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/port"
)

// StdoutClient logs submissions instead of sending them, handing out
// synthetic sequence numbers. Used for dry runs against real mirror config.
type StdoutClient struct {
	logger *slog.Logger

	mu   sync.Mutex
	seqs map[model.TopicID]uint64
}

func NewStdoutClient(logger *slog.Logger) *StdoutClient {
	return &StdoutClient{
		logger: logger,
		seqs:   make(map[model.TopicID]uint64),
	}
}

func (c *StdoutClient) SubmitMessage(ctx context.Context, topicID model.TopicID, payload []byte) (port.SubmitReceipt, error) {
	c.mu.Lock()
	c.seqs[topicID]++
	seq := c.seqs[topicID]
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "Message published to STDOUT (dry run)",
		slog.String("topic_id", topicID.String()),
		slog.Uint64("sequence_number", seq),
		slog.String("payload", string(payload)),
	)

	return port.SubmitReceipt{
		TransactionID:  uuid.New().String(),
		TopicID:        topicID,
		SequenceNumber: seq,
	}, nil
}

func (c *StdoutClient) Close() error {
	return nil
}

var _ port.ConsensusClient = (*StdoutClient)(nil)
