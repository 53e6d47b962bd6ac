package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Environment string

const (
	EnvLocal      Environment = "LOCAL"
	EnvDev        Environment = "DEV"
	EnvProduction Environment = "PROD"
)

// Checkpoint backends
const (
	CheckpointMemory    = "memory"
	CheckpointPostgres  = "postgres"
	CheckpointFirestore = "firestore"
)

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	Port    int
	GinMode string
}

// HederaConfig holds the consensus network credentials.
type HederaConfig struct {
	Network     string // mainnet, testnet, previewnet
	OperatorID  string // e.g. 0.0.12345
	OperatorKey string
	DryRun      bool // log submissions instead of sending them
}

type MirrorConfig struct {
	BaseURL  string
	RetryMax int
}

type RelayConfig struct {
	PollInterval    time.Duration
	PageSize        int
	MaxPayloadBytes int
	Subscription    string   // checkpoint name for this process
	SubscribeTopics []string // topic names the dispatcher consumes
}

type CheckpointConfig struct {
	Backend             string
	PostgresDSN         string
	PostgresTable       string
	FirestoreProjectID  string
	FirestoreCollection string
}

type Config struct {
	Env        Environment
	Logging    LoggingConfig
	Server     ServerConfig
	Hedera     HederaConfig
	Mirror     MirrorConfig
	Relay      RelayConfig
	Checkpoint CheckpointConfig
	// Topics maps logical channel names to consensus topic ids (0.0.x).
	Topics map[string]string
}

func LoadLoggingConfig() LoggingConfig {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	format := os.Getenv("LOG_FORMAT")
	if format == "" {
		format = "json"
	}
	return LoggingConfig{
		Level:  level,
		Format: format,
	}
}

func LoadServerConfig() ServerConfig {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}
	return ServerConfig{
		Port:    port,
		GinMode: getEnv("GIN_MODE", "release"),
	}
}

func LoadHederaConfig() HederaConfig {
	dryRun, err := strconv.ParseBool(os.Getenv("HEDERA_DRY_RUN"))
	if err != nil {
		dryRun = false
	}
	return HederaConfig{
		Network:     getEnv("HEDERA_NETWORK", "testnet"),
		OperatorID:  os.Getenv("HEDERA_OPERATOR_ID"),
		OperatorKey: os.Getenv("HEDERA_OPERATOR_KEY"),
		DryRun:      dryRun,
	}
}

func LoadMirrorConfig() MirrorConfig {
	retryMax, err := strconv.Atoi(os.Getenv("MIRROR_RETRY_MAX"))
	if err != nil {
		retryMax = 2
	}
	return MirrorConfig{
		BaseURL:  getEnv("MIRROR_BASE_URL", "https://testnet.mirrornode.hedera.com"),
		RetryMax: retryMax,
	}
}

func LoadRelayConfig() RelayConfig {
	pollSeconds, err := strconv.Atoi(os.Getenv("POLL_INTERVAL_SECONDS"))
	if err != nil || pollSeconds <= 0 {
		pollSeconds = 5
	}
	pageSize, err := strconv.Atoi(os.Getenv("POLL_PAGE_SIZE"))
	if err != nil || pageSize <= 0 {
		pageSize = 100
	}
	// HCS carries at most 1024 bytes per single-chunk message.
	maxPayload, err := strconv.Atoi(os.Getenv("MAX_PAYLOAD_BYTES"))
	if err != nil || maxPayload <= 0 {
		maxPayload = 1024
	}

	var subscribe []string
	for _, name := range strings.Split(os.Getenv("SUBSCRIBE_TOPICS"), ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			subscribe = append(subscribe, name)
		}
	}

	return RelayConfig{
		PollInterval:    time.Duration(pollSeconds) * time.Second,
		PageSize:        pageSize,
		MaxPayloadBytes: maxPayload,
		Subscription:    getEnv("SUBSCRIPTION_NAME", "relay"),
		SubscribeTopics: subscribe,
	}
}

func LoadCheckpointConfig(env Environment) CheckpointConfig {
	backend := os.Getenv("CHECKPOINT_BACKEND")
	if backend == "" {
		if env == EnvLocal {
			backend = CheckpointMemory
		} else {
			backend = CheckpointPostgres
		}
	}
	return CheckpointConfig{
		Backend:             backend,
		PostgresDSN:         os.Getenv("POSTGRES_DSN"),
		PostgresTable:       getEnv("CHECKPOINT_TABLE", "relay_checkpoints"),
		FirestoreProjectID:  os.Getenv("FIRESTORE_PROJECT_ID"),
		FirestoreCollection: getEnv("FIRESTORE_COLLECTION", "relay_checkpoints"),
	}
}

// LoadTopics reads TOPIC_<NAME>=<topic id> entries from the environment.
// The logical channel name is the lowercased remainder of the variable name.
func LoadTopics(env Environment) map[string]string {
	topics := make(map[string]string)
	for _, entry := range os.Environ() {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || value == "" {
			continue
		}
		name, ok := strings.CutPrefix(key, "TOPIC_")
		if !ok || name == "" {
			continue
		}
		topics[strings.ToLower(name)] = value
	}

	// Local runs get the standard channels against the in-memory network.
	if env == EnvLocal && len(topics) == 0 {
		topics["consent"] = "0.0.1001"
		topics["billing"] = "0.0.1002"
		topics["claims"] = "0.0.1003"
	}

	return topics
}

func LoadConfig(logger *slog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using environment variables")
	}

	env := Environment(getEnv("APP_ENV", "LOCAL"))

	config := &Config{
		Env:        env,
		Logging:    LoadLoggingConfig(),
		Server:     LoadServerConfig(),
		Hedera:     LoadHederaConfig(),
		Mirror:     LoadMirrorConfig(),
		Relay:      LoadRelayConfig(),
		Checkpoint: LoadCheckpointConfig(env),
		Topics:     LoadTopics(env),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
