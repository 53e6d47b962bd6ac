package container

import (
	"context"
	"log/slog"

	appEvents "github.com/trinnode/AfriHealthv2-sub003/internal/application/events"
	appHandlers "github.com/trinnode/AfriHealthv2-sub003/internal/application/handlers"
	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/events"
	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/port"
	"github.com/trinnode/AfriHealthv2-sub003/internal/infrastructure/checkpoint"
	"github.com/trinnode/AfriHealthv2-sub003/internal/infrastructure/consensus"
	"github.com/trinnode/AfriHealthv2-sub003/internal/infrastructure/mirror"
	"github.com/trinnode/AfriHealthv2-sub003/internal/relay"
	"github.com/trinnode/AfriHealthv2-sub003/internal/topics"
	"github.com/trinnode/AfriHealthv2-sub003/pkg/config"
	"github.com/trinnode/AfriHealthv2-sub003/pkg/errors"
	"github.com/trinnode/AfriHealthv2-sub003/pkg/logger"
)

type Container struct {
	Config *config.Config
	Logger *slog.Logger

	Registry    *topics.Registry
	Serializer  events.EventSerializer
	Consensus   port.ConsensusClient
	Mirror      port.MirrorClient
	Checkpoints port.CheckpointStore

	Publisher     *relay.Publisher
	Poller        *relay.Poller
	RecordService *appEvents.RecordService
	Dispatch      *appHandlers.DispatchService
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Container, error) {
	log.Info("Initializing container", "env", cfg.Env)

	registry, err := topics.FromConfig(cfg.Topics)
	if err != nil {
		return nil, errors.WrapConfigurationError(err, "invalid topic configuration")
	}

	serializer := events.NewJSONEventSerializer()

	consensusClient, mirrorClient, err := buildTransport(cfg, log)
	if err != nil {
		return nil, err
	}

	checkpoints, err := buildCheckpoints(ctx, cfg)
	if err != nil {
		return nil, err
	}

	publisher := relay.NewPublisher(
		registry,
		consensusClient,
		serializer,
		cfg.Relay.MaxPayloadBytes,
		logger.Component(log, "publisher"),
	)

	poller := relay.NewPoller(
		registry,
		mirrorClient,
		checkpoints,
		serializer,
		cfg.Relay.PollInterval,
		cfg.Relay.PageSize,
		logger.Component(log, "poller"),
	)

	recordService := appEvents.NewRecordService(publisher, logger.Component(log, "records"))
	dispatch := appHandlers.NewDispatchService(logger.Component(log, "dispatch"))

	log.Info("Container initialized successfully")

	return &Container{
		Config:        cfg,
		Logger:        log,
		Registry:      registry,
		Serializer:    serializer,
		Consensus:     consensusClient,
		Mirror:        mirrorClient,
		Checkpoints:   checkpoints,
		Publisher:     publisher,
		Poller:        poller,
		RecordService: recordService,
		Dispatch:      dispatch,
	}, nil
}

func buildTransport(cfg *config.Config, log *slog.Logger) (port.ConsensusClient, port.MirrorClient, error) {
	if cfg.Env == config.EnvLocal {
		// One in-memory network serves both sides.
		network := consensus.NewNetwork()
		return network, network, nil
	}

	mirrorClient, err := mirror.NewClient(cfg.Mirror, logger.Component(log, "mirror"))
	if err != nil {
		return nil, nil, err
	}

	if cfg.Hedera.DryRun {
		return consensus.NewStdoutClient(logger.Component(log, "consensus")), mirrorClient, nil
	}

	hederaClient, err := consensus.NewHederaClient(cfg.Hedera, logger.Component(log, "consensus"))
	if err != nil {
		return nil, nil, err
	}
	return hederaClient, mirrorClient, nil
}

func buildCheckpoints(ctx context.Context, cfg *config.Config) (port.CheckpointStore, error) {
	switch cfg.Checkpoint.Backend {
	case config.CheckpointMemory:
		return checkpoint.NewMemoryStore(), nil

	case config.CheckpointPostgres:
		store, err := checkpoint.NewPostgresStore(cfg.Checkpoint.PostgresDSN, cfg.Checkpoint.PostgresTable)
		if err != nil {
			return nil, err
		}
		if err := store.Init(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil

	case config.CheckpointFirestore:
		return checkpoint.NewFirestoreStore(ctx, cfg.Checkpoint.FirestoreProjectID, cfg.Checkpoint.FirestoreCollection)

	default:
		return nil, errors.NewConfigurationError("unknown checkpoint backend").
			WithContext("backend", cfg.Checkpoint.Backend)
	}
}

func (c *Container) Close() error {
	c.Logger.Info("Closing container resources")

	var firstErr error
	if c.Checkpoints != nil {
		if err := c.Checkpoints.Close(); err != nil {
			c.Logger.Error("Failed to close checkpoint store", "error", err)
			firstErr = err
		}
	}
	if c.Consensus != nil {
		if err := c.Consensus.Close(); err != nil {
			c.Logger.Error("Failed to close consensus client", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	c.Logger.Info("Container resources closed")
	return firstErr
}
