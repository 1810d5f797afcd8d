package events

import (
	"fmt"
	"strings"

	"github.com/soltixdb/rdplines/internal/config"
	"github.com/soltixdb/rdplines/internal/utils"
)

// NewPublisher creates a Publisher based on configuration. An empty type
// disables publishing.
func NewPublisher(cfg config.EventsConfig) (Publisher, error) {
	switch utils.EventsType(strings.ToLower(cfg.Type)) {
	case "", utils.EventsTypeNone:
		return NoopPublisher{}, nil

	case utils.EventsTypeMemory:
		return NewMemoryPublisher(0), nil

	case utils.EventsTypeNATS:
		return newNATSPublisher(cfg.URL)

	case utils.EventsTypeRedis:
		return newRedisPublisher(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisStream,
		})

	case utils.EventsTypeKafka:
		return newKafkaPublisher(KafkaConfig{Brokers: cfg.KafkaBrokers})

	default:
		return nil, fmt.Errorf("unsupported events type: %s (supported: none, memory, nats, redis, kafka)", cfg.Type)
	}
}
