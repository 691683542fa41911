package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KirkDiggler/xwing-api/internal/clients/xwingdata"
	"github.com/KirkDiggler/xwing-api/internal/config"
	"github.com/KirkDiggler/xwing-api/internal/markup"
	"github.com/KirkDiggler/xwing-api/internal/orchestrators/cardlookup"
	"github.com/KirkDiggler/xwing-api/internal/pkg/clock"
	"github.com/KirkDiggler/xwing-api/internal/pkg/idgen"
	"github.com/KirkDiggler/xwing-api/internal/redis"
	"github.com/KirkDiggler/xwing-api/internal/repositories/dataset"
)

// datasetFlags maps config keys to the flags of commands that load cards
var datasetFlags = map[string]string{
	config.KeyDatasetURL:       "dataset-url",
	config.KeyDatasetPath:      "dataset-path",
	config.KeyDatasetTimeout:   "dataset-timeout",
	config.KeyRedisEndpoint:    "redis-endpoint",
	config.KeyRedisTTL:         "redis-ttl",
	config.KeyLookupMaxResults: "max-results",
}

func addDatasetFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("dataset-url", "", "URL of the card data set")
	flags.String("dataset-path", "", "local card data set file, used instead of --dataset-url")
	flags.Duration("dataset-timeout", 30*time.Second, "data set download timeout")
	flags.String("redis-endpoint", "", "redis address for caching the data set, empty disables the cache")
	flags.Duration("redis-ttl", 24*time.Hour, "how long a cached data set is kept")
	flags.Int("max-results", 10, "most cards one lookup renders")
}

// loadConfig binds the command's flags and loads the validated config
func loadConfig(cmd *cobra.Command, keys ...map[string]string) (*config.Config, error) {
	for _, k := range keys {
		if err := bindFlags(cmd.Flags(), k); err != nil {
			return nil, err
		}
	}
	return config.Load(v)
}

// newLookupService wires the data set client, the optional redis cache and
// the orchestrator. The returned func releases the redis connection.
func newLookupService(cfg *config.Config, printer markup.Printer, log *zap.Logger) (cardlookup.Service, func(), error) {
	cleanup := func() {}

	dataClient, err := newDataClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	var repo dataset.Repository
	if cfg.Redis.Endpoint != "" {
		client, err := redis.NewClient(cfg.Redis.Endpoint, nil)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() {
			_ = client.Close() // nolint:errcheck // safe to ignore in cleanup
		}

		repo, err = dataset.NewRedis(&dataset.RedisConfig{
			Client: client,
			Clock:  clock.New(),
			TTL:    cfg.Redis.TTL,
		})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		log.Info("dataset cache enabled", zap.String("endpoint", cfg.Redis.Endpoint))
	}

	svc, err := cardlookup.NewOrchestrator(&cardlookup.Config{
		DataClient:  dataClient,
		DatasetRepo: repo,
		Printer:     printer,
		Logger:      log,
		IDGenerator: idgen.NewUUID("lookup"),
		MaxResults:  cfg.Lookup.MaxResults,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return svc, cleanup, nil
}

func newDataClient(cfg *config.Config, log *zap.Logger) (xwingdata.Client, error) {
	if cfg.Dataset.Path != "" {
		return xwingdata.NewFile(&xwingdata.FileConfig{
			Path:   cfg.Dataset.Path,
			Logger: log,
		})
	}

	return xwingdata.NewHTTP(&xwingdata.HTTPConfig{
		URL:       cfg.Dataset.URL,
		Timeout:   cfg.Dataset.Timeout,
		RateLimit: cfg.Dataset.RateLimit,
		Logger:    log,
	})
}
