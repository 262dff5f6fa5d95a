// FilePath: internal/notify/notify.redis.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/waterlab/sensorlog/internal/config"
	"github.com/waterlab/sensorlog/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// publisher is the subset of *redis.Client used for notifications
type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisNotifier publishes every stored reading to a redis channel so live
// dashboards can follow new data without polling.
type RedisNotifier struct {
	client  *redis.Client
	pub     publisher
	channel string
}

// NewRedisNotifier creates a notifier; no connection is made until first use
func NewRedisNotifier(cfg config.RedisConfig) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisNotifier{client: client, pub: client, channel: cfg.Channel}
}

// Ping checks the redis connection
func (n *RedisNotifier) Ping(ctx context.Context) error {
	return n.client.Ping(ctx).Err()
}

// NotifyReading publishes reading as JSON and returns the number of
// subscribers that received it.
func (n *RedisNotifier) NotifyReading(ctx context.Context, reading models.SensorReading) (int64, error) {
	payload, err := json.Marshal(reading)
	if err != nil {
		return 0, fmt.Errorf("marshal reading: %w", err)
	}
	receivers, err := n.pub.Publish(ctx, n.channel, payload).Result()
	if err != nil {
		return 0, fmt.Errorf("publish to %s: %w", n.channel, err)
	}
	nuts.L.Debugf("[Notify] Reading for %s published to %d subscribers", reading.Location, receivers)
	return receivers, nil
}

func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
