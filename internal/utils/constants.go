package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

const (
	// DefaultRequestTimeout bounds a single simplification request
	DefaultRequestTimeout = 60 * time.Second

	// PublishTimeout bounds publishing one event after a request succeeded
	PublishTimeout = 5 * time.Second

	// StoreTimeout bounds a single artifact store operation
	StoreTimeout = 10 * time.Second

	// ShutdownTimeout is how long the server waits for in-flight requests
	ShutdownTimeout = 15 * time.Second
)

// =============================================================================
// Storage Backend Constants
// =============================================================================

// StorageBackend represents where simplified artifacts are kept
type StorageBackend string

const (
	// StorageBackendMemory keeps artifacts in process memory (default)
	StorageBackendMemory StorageBackend = "memory"

	// StorageBackendBadger keeps artifacts in an embedded badger database
	StorageBackendBadger StorageBackend = "badger"

	// StorageBackendRedis keeps artifacts in Redis, shared between replicas
	StorageBackendRedis StorageBackend = "redis"
)

// =============================================================================
// Events Type Constants
// =============================================================================

// EventsType represents the type of event publisher
type EventsType string

const (
	// EventsTypeNone disables publishing (default)
	EventsTypeNone EventsType = "none"

	// EventsTypeMemory buffers events in memory (for testing)
	EventsTypeMemory EventsType = "memory"

	// EventsTypeNATS publishes with core NATS
	EventsTypeNATS EventsType = "nats"

	// EventsTypeRedis appends to Redis Streams
	EventsTypeRedis EventsType = "redis"

	// EventsTypeKafka writes to Apache Kafka
	EventsTypeKafka EventsType = "kafka"
)
