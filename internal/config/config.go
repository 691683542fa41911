// Package config loads server and CLI settings from an optional
// xwing-api.yaml, XWING_API_* environment variables and command flags.
package config

import (
	stderrors "errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/KirkDiggler/xwing-api/internal/errors"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. XWING_API_GRPC_PORT
	EnvPrefix = "XWING_API"
	// FileName is the config file looked up in the working directory
	FileName = "xwing-api"
)

// Keys shared by flags, env vars and the config file
const (
	KeyGRPCPort         = "grpc.port"
	KeyLogLevel         = "log.level"
	KeyLogDevelopment   = "log.development"
	KeyDatasetURL       = "dataset.url"
	KeyDatasetPath      = "dataset.path"
	KeyDatasetTimeout   = "dataset.timeout"
	KeyDatasetRateLimit = "dataset.rate_limit"
	KeyRedisEndpoint    = "redis.endpoint"
	KeyRedisTTL         = "redis.ttl"
	KeyLookupMaxResults = "lookup.max_results"
	KeyChatRateLimit    = "chat.rate_limit"
	KeyChatBurst        = "chat.burst"
)

const (
	maxLookupMaxResults  = 50
	defaultGRPCPort      = 50051
	defaultDatasetTTL    = 24 * time.Hour
	defaultChatRateLimit = 10.0
	defaultChatBurst     = 20
)

// Config is the full set of settings
type Config struct {
	GRPC    GRPCConfig    `mapstructure:"grpc"`
	Log     LogConfig     `mapstructure:"log"`
	Dataset DatasetConfig `mapstructure:"dataset"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Lookup  LookupConfig  `mapstructure:"lookup"`
	Chat    ChatConfig    `mapstructure:"chat"`
}

// GRPCConfig configures the gRPC listener
type GRPCConfig struct {
	Port int `mapstructure:"port"`
}

// LogConfig configures zap
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// DatasetConfig selects where cards come from. Path wins over URL.
type DatasetConfig struct {
	URL       string        `mapstructure:"url"`
	Path      string        `mapstructure:"path"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit time.Duration `mapstructure:"rate_limit"`
}

// RedisConfig enables the data set cache when Endpoint is set
type RedisConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LookupConfig tunes lookups
type LookupConfig struct {
	MaxResults int `mapstructure:"max_results"`
}

// ChatConfig rate limits chat lookups
type ChatConfig struct {
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
}

// SetDefaults registers every key so env vars resolve during Unmarshal
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyGRPCPort, defaultGRPCPort)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogDevelopment, false)
	v.SetDefault(KeyDatasetURL, "")
	v.SetDefault(KeyDatasetPath, "")
	v.SetDefault(KeyDatasetTimeout, 30*time.Second)
	v.SetDefault(KeyDatasetRateLimit, time.Second)
	v.SetDefault(KeyRedisEndpoint, "")
	v.SetDefault(KeyRedisTTL, defaultDatasetTTL)
	v.SetDefault(KeyLookupMaxResults, 10)
	v.SetDefault(KeyChatRateLimit, defaultChatRateLimit)
	v.SetDefault(KeyChatBurst, defaultChatBurst)
}

// Read registers defaults and the env binding on v, then reads the config
// file. A missing config file is fine unless one was named explicitly.
func Read(v *viper.Viper) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.ConfigFileUsed() == "" {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/xwing-api")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read config file")
		}
	}
	return nil
}

// Load reads v as Read does and decodes the validated result. Flags must
// already be bound to v.
func Load(v *viper.Viper) (*Config, error) {
	if err := Read(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and that a data source is configured
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRange(KeyGRPCPort, c.GRPC.Port, 1, 65535, vb)
	if c.Dataset.URL == "" && c.Dataset.Path == "" {
		vb.Fieldf("dataset", "one of %s or %s is required", KeyDatasetURL, KeyDatasetPath)
	}
	if c.Dataset.Timeout < 0 {
		vb.Field(KeyDatasetTimeout, "must not be negative")
	}
	if c.Dataset.RateLimit < 0 {
		vb.Field(KeyDatasetRateLimit, "must not be negative")
	}
	if c.Redis.TTL < 0 {
		vb.Field(KeyRedisTTL, "must not be negative")
	}
	errors.ValidateRange(KeyLookupMaxResults, c.Lookup.MaxResults, 1, maxLookupMaxResults, vb)
	if c.Chat.RateLimit <= 0 {
		vb.Field(KeyChatRateLimit, "must be positive")
	}
	if c.Chat.Burst < 1 {
		vb.Field(KeyChatBurst, "must be at least 1")
	}

	return vb.Build()
}
