package consensus

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/model"
	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/port"
)

// Network is an in-memory consensus service plus mirror, used for LOCAL runs
// and tests. Each topic is an ordered log; sequence numbers start at 1.
type Network struct {
	mu   sync.Mutex
	logs map[model.TopicID][]model.TopicMessage
	now  func() time.Time
}

func NewNetwork() *Network {
	return &Network{
		logs: make(map[model.TopicID][]model.TopicMessage),
		now:  time.Now,
	}
}

// SetClock overrides the consensus timestamp source (tests only).
func (n *Network) SetClock(now func() time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.now = now
}

func (n *Network) SubmitMessage(ctx context.Context, topicID model.TopicID, payload []byte) (port.SubmitReceipt, error) {
	if err := ctx.Err(); err != nil {
		return port.SubmitReceipt{}, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	data := make([]byte, len(payload))
	copy(data, payload)

	seq := uint64(len(n.logs[topicID]) + 1)
	n.logs[topicID] = append(n.logs[topicID], model.TopicMessage{
		TopicID:            topicID,
		SequenceNumber:     seq,
		ConsensusTimestamp: n.now(),
		Payload:            data,
	})

	return port.SubmitReceipt{
		TransactionID:  uuid.New().String(),
		TopicID:        topicID,
		SequenceNumber: seq,
	}, nil
}

func (n *Network) TopicMessages(ctx context.Context, query port.MessageQuery) ([]model.TopicMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	var result []model.TopicMessage
	for _, msg := range n.logs[query.TopicID] {
		if query.AfterSequence > 0 && msg.SequenceNumber <= query.AfterSequence {
			continue
		}
		if query.AfterSequence == 0 && !query.Since.IsZero() && msg.ConsensusTimestamp.Before(query.Since) {
			continue
		}
		result = append(result, msg)
		if query.Limit > 0 && len(result) >= query.Limit {
			break
		}
	}
	return result, nil
}

func (n *Network) Close() error {
	return nil
}

var (
	_ port.ConsensusClient = (*Network)(nil)
	_ port.MirrorClient    = (*Network)(nil)
)
