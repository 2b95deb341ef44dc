package auditlog

import (
	"context"
	"dock-rebalance-service/internal/domain"
	"dock-rebalance-service/internal/platform/obs"
	"dock-rebalance-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultKey = "portops:dock-reassignment-log"

// RedisStore keeps the audit log as a Redis list, one JSON record per element,
// in append order.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

func NewRedisStore(client redis.UniversalClient, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{client: client, key: key}
}

// DialRedis connects using a redis:// URL and verifies the connection.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("dial redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("dial redis: ping: %w: %w", ports.ErrUpstreamUnavailable, err)
	}
	return client, nil
}

type record struct {
	ID           string    `json:"id"`
	VvnID        string    `json:"vvnId"`
	VesselName   string    `json:"vesselName"`
	OriginalDock string    `json:"originalDock"`
	UpdatedDock  string    `json:"updatedDock"`
	OfficerID    string    `json:"officerId"`
	Timestamp    time.Time `json:"timestamp"`
}

func (s *RedisStore) Append(
	ctx context.Context,
	entry domain.DockReassignmentLog,
) (_ domain.DockReassignmentLog, err error) {
	defer obs.Time(ctx, "audit.redis.Append")(&err)

	if s.client == nil {
		return domain.DockReassignmentLog{}, errors.New("redis audit store: client is nil")
	}
	if err := entry.Validate(); err != nil {
		return domain.DockReassignmentLog{}, fmt.Errorf("append reassignment log: %w", err)
	}

	entry.ID = uuid.NewString()
	entry.Timestamp = entry.Timestamp.UTC()

	b, err := json.Marshal(record(entry))
	if err != nil {
		return domain.DockReassignmentLog{}, fmt.Errorf("append reassignment log: marshal: %w", err)
	}

	if err := s.client.RPush(ctx, s.key, b).Err(); err != nil {
		return domain.DockReassignmentLog{}, fmt.Errorf("append reassignment log: rpush: %w: %w", ports.ErrUpstreamUnavailable, err)
	}

	return entry, nil
}

func (s *RedisStore) ListAll(ctx context.Context) (_ []domain.DockReassignmentLog, err error) {
	defer obs.Time(ctx, "audit.redis.ListAll")(&err)

	if s.client == nil {
		return nil, errors.New("redis audit store: client is nil")
	}

	raw, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list reassignment log: lrange: %w: %w", ports.ErrUpstreamUnavailable, err)
	}

	out := make([]domain.DockReassignmentLog, 0, len(raw))
	for i, item := range raw {
		var r record
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			return nil, fmt.Errorf("list reassignment log: decode element %d: %w", i, err)
		}
		out = append(out, domain.DockReassignmentLog(r))
	}

	return out, nil
}

// PingContext reports whether the Redis backend is reachable.
func (s *RedisStore) PingContext(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
