package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/peopleops/intake"
	"github.com/peopleops/intake/internal/logging"
	"github.com/peopleops/intake/pkg/adapters/file"
	"github.com/peopleops/intake/pkg/adapters/openai"
	redisadapter "github.com/peopleops/intake/pkg/adapters/redis"
	"github.com/peopleops/intake/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// Environment variables consumed by the CLI.
const (
	envOpenAIKey     = "INTAKE_OPENAI_API_KEY"
	envOpenAIBaseURL = "INTAKE_OPENAI_BASE_URL"
	envOpenAIModel   = "INTAKE_OPENAI_MODEL"
	envRedisAddr     = "INTAKE_REDIS_ADDR"
)

func createLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}
	return logging.New(level)
}

func sessionPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("sessions")
	if path == "" {
		path = filepath.Join(".intake", "sessions")
	}
	return path
}

// buildOracle constructs the OpenAI-backed rule oracle from environment
// configuration.
func buildOracle(logger *slog.Logger) (ports.RuleOracle, error) {
	apiKey := os.Getenv(envOpenAIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%s must be set (conditional steps are evaluated by a language model)", envOpenAIKey)
	}

	return openai.New(openai.Config{
		APIKey:  apiKey,
		BaseURL: os.Getenv(envOpenAIBaseURL),
		Model:   os.Getenv(envOpenAIModel),
	}, openai.WithLogger(logger))
}

// buildEngine wires registry, store, oracle, and optional distributed
// locking. With INTAKE_REDIS_ADDR set, sessions and locks live in Redis;
// otherwise sessions are JSON files under the sessions directory.
func buildEngine(cmd *cobra.Command, logger *slog.Logger, extra ...intake.Option) (*intake.Engine, error) {
	configDir, _ := cmd.Flags().GetString("configs")
	registry, err := file.NewRegistry(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load wizard configs: %w", err)
	}

	oracle, err := buildOracle(logger)
	if err != nil {
		return nil, err
	}

	opts := []intake.Option{
		intake.WithRegistry(registry),
		intake.WithOracle(oracle),
		intake.WithLogger(logger),
	}

	if addr := os.Getenv(envRedisAddr); addr != "" {
		client := backend.NewClient(&backend.Options{Addr: addr})
		opts = append(opts,
			intake.WithStore(redisadapter.NewFromClient(client)),
			intake.WithLocker(redisadapter.NewLocker(client, "intake:")),
		)
		logger.Info("using redis session store", "addr", addr)
	} else {
		opts = append(opts, intake.WithStore(file.NewStore(sessionPath(cmd))))
	}

	opts = append(opts, extra...)
	return intake.New(opts...)
}
