package relay

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/events"
	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/model"
	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/port"
	"github.com/trinnode/AfriHealthv2-sub003/internal/topics"
)

// Poller delivers topic messages from the mirror to subscription handlers
// in ascending sequence order, at most once per subscription cursor.
type Poller struct {
	registry    *topics.Registry
	mirror      port.MirrorClient
	checkpoints port.CheckpointStore
	serializer  events.EventSerializer
	logger      *slog.Logger

	defaultInterval time.Duration
	defaultPageSize int
}

func NewPoller(
	registry *topics.Registry,
	mirror port.MirrorClient,
	checkpoints port.CheckpointStore,
	serializer events.EventSerializer,
	interval time.Duration,
	pageSize int,
	logger *slog.Logger,
) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Poller{
		registry:        registry,
		mirror:          mirror,
		checkpoints:     checkpoints,
		serializer:      serializer,
		logger:          logger,
		defaultInterval: interval,
		defaultPageSize: pageSize,
	}
}

type SubscribeOptions struct {
	// Subscription names the checkpoint; defaults to "default".
	Subscription string
	// SinceTime bounds the initial catch-up when no checkpoint exists.
	// Zero means the start of the topic.
	SinceTime time.Time
	// PollInterval and PageSize override the poller defaults when set.
	PollInterval time.Duration
	PageSize     int
}

// Subscription is the handle for one running poll loop.
type Subscription struct {
	Topic model.Topic

	name   string
	cancel context.CancelFunc
	done   chan struct{}
	cursor atomic.Uint64
}

// Cursor returns the highest sequence number dispatched so far.
func (s *Subscription) Cursor() uint64 {
	return s.cursor.Load()
}

// Done is closed once the poll loop has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Stop cancels the poll loop and waits for it to exit.
func (s *Subscription) Stop() {
	s.cancel()
	<-s.done
}

// Subscribe starts a poll loop for the named channel. The handler sees each
// message once, in sequence order; the loop runs until Stop or context
// cancellation.
func (p *Poller) Subscribe(ctx context.Context, topicName string, handler port.RecordHandler, opts SubscribeOptions) (*Subscription, error) {
	topic, err := p.registry.Resolve(topicName)
	if err != nil {
		return nil, err
	}

	if opts.Subscription == "" {
		opts.Subscription = "default"
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = p.defaultInterval
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = p.defaultPageSize
	}

	sub := &Subscription{
		Topic: topic,
		name:  opts.Subscription,
		done:  make(chan struct{}),
	}

	// A stored checkpoint wins over SinceTime: the subscription resumes
	// where it left off instead of replaying.
	since := opts.SinceTime
	if cp, ok, err := p.checkpoints.Load(ctx, topic.ID, opts.Subscription); err != nil {
		return nil, err
	} else if ok {
		sub.cursor.Store(cp.LastSequence)
		since = time.Time{}
	}

	runCtx, cancel := context.WithCancel(ctx)
	sub.cancel = cancel

	go p.run(runCtx, sub, handler, since, interval, pageSize)

	p.logger.Info("Subscription started",
		"topic", topic.Name,
		"topic_id", topic.ID.String(),
		"subscription", opts.Subscription,
		"cursor", sub.cursor.Load(),
	)

	return sub, nil
}

func (p *Poller) run(ctx context.Context, sub *Subscription, handler port.RecordHandler, since time.Time, interval time.Duration, pageSize int) {
	defer close(sub.done)

	// Initial catch-up: drain full pages back to back, yielding between
	// pages only to the context.
	for ctx.Err() == nil {
		n, err := p.poll(ctx, sub, handler, since, pageSize)
		if err != nil || n < pageSize {
			break
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Subscription stopped",
				"topic", sub.Topic.Name,
				"subscription", sub.name,
				"cursor", sub.cursor.Load(),
			)
			return
		case <-ticker.C:
			// One page per tick bounds the work between scheduler turns;
			// a backlog drains across consecutive ticks.
			if _, err := p.poll(ctx, sub, handler, since, pageSize); err != nil && ctx.Err() == nil {
				// Transport trouble is absorbed; the next tick retries.
				p.logger.Warn("Poll cycle failed",
					"topic", sub.Topic.Name,
					"subscription", sub.name,
					"error", err,
				)
			}
		}
	}
}

// poll fetches one page after the cursor and dispatches it in order,
// returning how many messages the mirror handed back.
func (p *Poller) poll(ctx context.Context, sub *Subscription, handler port.RecordHandler, since time.Time, pageSize int) (int, error) {
	query := port.MessageQuery{
		TopicID: sub.Topic.ID,
		Limit:   pageSize,
	}
	if cursor := sub.cursor.Load(); cursor > 0 {
		query.AfterSequence = cursor
	} else if !since.IsZero() {
		query.Since = since
	}

	messages, err := p.mirror.TopicMessages(ctx, query)
	if err != nil {
		return 0, err
	}

	advanced := false
	for _, msg := range messages {
		if msg.SequenceNumber <= sub.cursor.Load() {
			// Already dispatched under this cursor.
			continue
		}

		record, err := events.DecodeRecord(p.serializer, msg.Payload)
		if err != nil {
			// A poison message must not wedge the subscription: skip it
			// and move the cursor past it.
			p.logger.Warn("Skipping undecodable message",
				"topic", sub.Topic.Name,
				"sequence_number", msg.SequenceNumber,
				"error", err,
			)
			sub.cursor.Store(msg.SequenceNumber)
			advanced = true
			continue
		}

		envelope := &events.Envelope{
			Topic:              sub.Topic,
			SequenceNumber:     msg.SequenceNumber,
			ConsensusTimestamp: msg.ConsensusTimestamp,
			Record:             record,
			Raw:                msg.Payload,
		}
		if err := handler(ctx, envelope); err != nil {
			p.logger.Error("Handler failed for message",
				"topic", sub.Topic.Name,
				"sequence_number", msg.SequenceNumber,
				"event_id", record.GetEventID(),
				"error", err,
			)
		}

		sub.cursor.Store(msg.SequenceNumber)
		advanced = true
	}

	if advanced {
		checkpoint := model.Checkpoint{
			TopicID:      sub.Topic.ID,
			Subscription: sub.name,
			LastSequence: sub.cursor.Load(),
			UpdatedAt:    time.Now(),
		}
		if err := p.checkpoints.Save(ctx, checkpoint); err != nil {
			// The cursor stays correct in memory; persistence catches up
			// on the next successful save.
			p.logger.Warn("Failed to persist checkpoint",
				"topic", sub.Topic.Name,
				"subscription", sub.name,
				"error", err,
			)
		}
	}

	return len(messages), nil
}
