package events

import (
	"time"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/model"
)

// Envelope is a decoded record together with its consensus coordinates,
// as delivered to subscription handlers.
type Envelope struct {
	Topic              model.Topic
	SequenceNumber     uint64
	ConsensusTimestamp time.Time
	Record             Event
	Raw                []byte
}
