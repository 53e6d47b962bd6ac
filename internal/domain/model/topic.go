package model

import "time"

// TopicID is the consensus-service identifier of a channel (e.g. "0.0.48321").
type TopicID string

func (id TopicID) String() string {
	return string(id)
}

// Topic pairs a logical channel name with its consensus topic id.
// Created once at startup and immutable afterwards.
type Topic struct {
	Name string
	ID   TopicID
}

// TopicMessage is one entry of a consensus topic as reported by a mirror node.
type TopicMessage struct {
	TopicID            TopicID
	SequenceNumber     uint64
	ConsensusTimestamp time.Time
	Payload            []byte
}

// Checkpoint records the highest sequence number a subscription has
// dispatched for a topic. LastSequence is non-decreasing.
type Checkpoint struct {
	TopicID      TopicID
	Subscription string
	LastSequence uint64
	UpdatedAt    time.Time
}
