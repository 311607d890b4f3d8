package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables recognized as fallbacks for unset config fields.
const (
	EnvEndpointURL = "BENCHMARK_ENDPOINT_URL"
	EnvAPIKey      = "BENCHMARK_API_KEY"
	EnvModel       = "BENCHMARK_MODEL"
	EnvBatchSize   = "BATCH_SIZE"

	EnvEvalEndpointURL = "EVAL_ENDPOINT_URL"
	EnvEvalAPIKey      = "EVAL_API_KEY"
	EnvEvalModel       = "EVAL_MODEL"
	EnvEvalBatchSize   = "EVAL_BATCH_SIZE"
	EnvEvalMaxRetries  = "EVAL_MAX_RETRIES"
	EnvEvalDelayMS     = "EVAL_REQUEST_DELAY_MS"
)

// LoadDotenv loads a .env file from the working directory when present, so
// endpoint URLs and keys can live outside the config file and the shell
// environment. Missing .env is not an error.
func LoadDotenv() {
	if _, err := os.Stat(".env"); err != nil {
		slog.Debug(".env file not found, relying on the environment")
		return
	}
	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load .env file", "error", err)
		return
	}
	slog.Debug(".env file loaded")
}

// applyEnv fills unset config fields from the environment.
func (c *RunConfig) applyEnv() {
	setString(&c.Executor.EndpointURL, EnvEndpointURL)
	setString(&c.Executor.APIKey, EnvAPIKey)
	setString(&c.Executor.Model, EnvModel)
	setInt(&c.Executor.BatchSize, EnvBatchSize)

	setString(&c.Evaluator.EndpointURL, EnvEvalEndpointURL)
	setString(&c.Evaluator.APIKey, EnvEvalAPIKey)
	setString(&c.Evaluator.Model, EnvEvalModel)
	setInt(&c.Evaluator.BatchSize, EnvEvalBatchSize)
	setInt(&c.Evaluator.MaxRetries, EnvEvalMaxRetries)
	setInt(&c.Evaluator.RequestDelayMS, EnvEvalDelayMS)
}

func setString(dst *string, key string) {
	if *dst != "" {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if *dst != 0 {
		return
	}
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("ignoring non-numeric environment value", "var", key, "value", v)
		return
	}
	*dst = n
}
