// Package main is the entry point for the xwing-api server and CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/KirkDiggler/xwing-api/cmd/server/client"
	"github.com/KirkDiggler/xwing-api/internal/config"
	"github.com/KirkDiggler/xwing-api/internal/pkg/logger"
)

var (
	v          = viper.New()
	configFile string
	appLogger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "xwing-api",
	Short: "X-Wing card lookup service",
	Long: `xwing-api answers X-Wing Miniatures card lookups.

It serves chat front ends over gRPC, and can also look cards up locally or
query a running server.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func main() {
	err := rootCmd.Execute()
	_ = appLogger.Sync() // nolint:errcheck // stderr sync fails on some terminals
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./xwing-api.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-development", false, "human readable logs")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(client.ClientCmd)
}

// setup binds the running command's flags, reads the config file and
// builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	if err := bindFlags(cmd.Flags(), map[string]string{
		config.KeyLogLevel:       "log-level",
		config.KeyLogDevelopment: "log-development",
	}); err != nil {
		return err
	}
	if err := config.Read(v); err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:       v.GetString(config.KeyLogLevel),
		Development: v.GetBool(config.KeyLogDevelopment),
	})
	if err != nil {
		return err
	}
	appLogger = log
	return nil
}

// bindFlags binds config keys to the named flags of the command being run.
// Flags another command does not define are skipped.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}
