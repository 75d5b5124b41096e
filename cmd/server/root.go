package main

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	config "github.com/maheshrc27/threads-gateway/configs"
	"github.com/maheshrc27/threads-gateway/internal/logutil"
	"github.com/maheshrc27/threads-gateway/internal/threads"
)

var (
	envFile  string
	port     string
	logLevel string
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "threads-gateway",
		Short:         "OAuth and publishing gateway for Threads",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading configuration")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
	cmd.PersistentFlags().StringVar(&port, "port", "", "Port to listen on; overrides PORT")

	serveCmd := newServeCommand()
	cmd.RunE = serveCmd.RunE
	cmd.AddCommand(serveCmd)
	cmd.AddCommand(newAuthorizeURLCommand())
	return cmd
}

// loadConfig reads the env file (if any), the environment and the flag overrides.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		slog.Debug("env file not found, using process environment", "path", envFile)
	}

	cfg := config.LoadConfig()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if port != "" {
		cfg.Port = port
	}
	logutil.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newThreadsClient(cfg *config.Config) *threads.Client {
	return threads.NewClient(threads.Options{
		GraphURL:   cfg.Threads.GraphURL,
		TokenURL:   cfg.Threads.TokenURL,
		RefreshURL: cfg.Threads.RefreshURL,
		Timeout:    cfg.RequestTimeout,
	})
}
