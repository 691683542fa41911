package dataset

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/xwing-api/internal/entities/xwing"
	"github.com/KirkDiggler/xwing-api/internal/errors"
	"github.com/KirkDiggler/xwing-api/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/xwing-api/internal/redis"
)

// KeyPrefix starts every cached data set key
const KeyPrefix = "dataset:xwing:"

const (
	defaultTTL = 24 * time.Hour

	// Error messages
	errSourceEmpty = "source cannot be empty"
	errDatasetNil  = "dataset cannot be nil"
)

// RedisConfig contains configuration for the Redis data set repository
type RedisConfig struct {
	Client redisclient.Client
	// Clock stamps stored entries; defaults to the real clock
	Clock clock.Clock
	// TTL is how long a cached copy is served; defaults to 24h
	TTL time.Duration
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	if cfg.TTL < 0 {
		return errors.InvalidArgument("ttl cannot be negative")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	ttl    time.Duration
}

// NewRedis creates a new Redis-backed data set repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
		ttl:    ttl,
	}, nil
}

// datasetData is the storage structure written to Redis
type datasetData struct {
	Source   string          `json:"source"`
	StoredAt int64           `json:"stored_at"`
	Dataset  json.RawMessage `json:"dataset"`
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.Source == "" {
		return nil, errors.InvalidArgument(errSourceEmpty)
	}

	key := GetKey(input.Source)
	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("dataset for %s not cached", input.Source).WithMeta("key", key)
		}
		return nil, errors.Wrapf(err, "failed to get cached dataset for %s", input.Source)
	}

	var data datasetData
	if err := json.Unmarshal([]byte(result), &data); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal cached dataset")
	}

	var dataset xwing.Dataset
	if err := json.Unmarshal(data.Dataset, &dataset); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal cached dataset")
	}

	return &GetOutput{
		Dataset:  &dataset,
		StoredAt: time.Unix(data.StoredAt, 0),
	}, nil
}

func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("source", input.Source, vb)
	if input.Dataset == nil {
		vb.Field("dataset", errDatasetNil)
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(input.Dataset)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal dataset")
	}

	now := r.clock.Now()
	jsonData, err := json.Marshal(datasetData{
		Source:   input.Source,
		StoredAt: now.Unix(),
		Dataset:  raw,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal dataset entry")
	}

	key := GetKey(input.Source)
	if err := r.client.Set(ctx, key, jsonData, r.ttl).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to cache dataset for %s", input.Source)
	}

	return &PutOutput{
		Key:       key,
		ExpiresAt: now.Add(r.ttl),
	}, nil
}

// GetKey returns the Redis key for a data set source
// Exposed for testing purposes
func GetKey(source string) string {
	return KeyPrefix + source
}
