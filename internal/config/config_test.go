package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/xwing-api/internal/config"
	"github.com/KirkDiggler/xwing-api/internal/errors"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	// keep the developer's own xwing-api.yaml out of the test
	s.T().Chdir(s.dir)
	s.T().Setenv("HOME", s.dir)
}

func (s *ConfigTestSuite) writeFile(body string) string {
	path := filepath.Join(s.dir, "xwing-api.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(body), 0o600))
	return path
}

func (s *ConfigTestSuite) TestDefaultsWithEnvDataSource() {
	s.T().Setenv("XWING_API_DATASET_PATH", "/data/cards.json")

	cfg, err := config.Load(viper.New())
	s.Require().NoError(err)
	s.Equal(50051, cfg.GRPC.Port)
	s.Equal("info", cfg.Log.Level)
	s.Equal("/data/cards.json", cfg.Dataset.Path)
	s.Equal(30*time.Second, cfg.Dataset.Timeout)
	s.Equal(24*time.Hour, cfg.Redis.TTL)
	s.Equal(10, cfg.Lookup.MaxResults)
	s.Equal(20, cfg.Chat.Burst)
	s.Empty(cfg.Redis.Endpoint)
}

func (s *ConfigTestSuite) TestConfigFile() {
	s.writeFile(`
grpc:
  port: 6000
log:
  level: debug
  development: true
dataset:
  url: https://example.com/data.json
  timeout: 5s
redis:
  endpoint: localhost:6379
  ttl: 1h
lookup:
  max_results: 20
`)

	cfg, err := config.Load(viper.New())
	s.Require().NoError(err)
	s.Equal(6000, cfg.GRPC.Port)
	s.True(cfg.Log.Development)
	s.Equal("https://example.com/data.json", cfg.Dataset.URL)
	s.Equal(5*time.Second, cfg.Dataset.Timeout)
	s.Equal("localhost:6379", cfg.Redis.Endpoint)
	s.Equal(time.Hour, cfg.Redis.TTL)
	s.Equal(20, cfg.Lookup.MaxResults)
}

func (s *ConfigTestSuite) TestPrecedence() {
	s.writeFile("grpc:\n  port: 6000\ndataset:\n  path: cards.json\n")
	s.T().Setenv("XWING_API_GRPC_PORT", "7000")

	cfg, err := config.Load(viper.New())
	s.Require().NoError(err)
	s.Equal(7000, cfg.GRPC.Port, "env beats file")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int(config.KeyGRPCPort, 0, "")
	s.Require().NoError(flags.Parse([]string{"--grpc.port=8000"}))

	v := viper.New()
	s.Require().NoError(v.BindPFlags(flags))
	cfg, err = config.Load(v)
	s.Require().NoError(err)
	s.Equal(8000, cfg.GRPC.Port, "flag beats env")
}

func (s *ConfigTestSuite) TestExplicitMissingFile() {
	v := viper.New()
	v.SetConfigFile(filepath.Join(s.dir, "missing.yaml"))

	_, err := config.Load(v)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ConfigTestSuite) TestValidation() {
	testCases := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{name: "no data source", env: map[string]string{}, field: "dataset"},
		{name: "bad port", env: map[string]string{"XWING_API_DATASET_PATH": "x", "XWING_API_GRPC_PORT": "0"}, field: config.KeyGRPCPort},
		{name: "too many results", env: map[string]string{"XWING_API_DATASET_PATH": "x", "XWING_API_LOOKUP_MAX_RESULTS": "500"}, field: config.KeyLookupMaxResults},
		{name: "zero burst", env: map[string]string{"XWING_API_DATASET_PATH": "x", "XWING_API_CHAT_BURST": "0"}, field: config.KeyChatBurst},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			for k, v := range tc.env {
				s.T().Setenv(k, v)
			}

			_, err := config.Load(viper.New())
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))

			fields, ok := errors.GetMeta(err)["validation_errors"].(map[string][]string)
			s.Require().True(ok)
			s.Contains(fields, tc.field)
		})
	}
}
