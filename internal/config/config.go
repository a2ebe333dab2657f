// Package config resolves process configuration from .env and the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"rfemassist/internal/store"
)

const (
	DefaultModel        = "gemini-2.5-flash"
	DefaultOutputDir    = "out"
	DefaultSpotMaterial = "C30/37"
	DefaultPort         = ":8080"
)

type Config struct {
	APIKey string
	Model  string

	MaxAttempts int
	RetryBase   time.Duration
	RunID       string

	LLMRPS   float64
	LLMBurst int

	SpotMaterial string
	Instruction  string
	Port         string

	Store store.Config
}

// Load reads .env when present and then the environment. A missing API key
// is logged, not fatal, so offline runs still start.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from an environment lookup.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := &Config{
		APIKey:       firstNonEmpty(env("GEMINI_API_KEY"), env("GOOGLE_API_KEY")),
		Model:        firstNonEmpty(env("RFEM_MODEL"), DefaultModel),
		MaxAttempts:  intOr(env("RFEM_MAX_ATTEMPTS"), 5),
		RetryBase:    durationOr(env("RFEM_RETRY_BASE"), 2*time.Second),
		RunID:        firstNonEmpty(env("RFEM_RUN_ID"), "default"),
		LLMRPS:       floatOr(env("LLM_RPS"), 0),
		LLMBurst:     intOr(env("LLM_BURST"), 1),
		SpotMaterial: firstNonEmpty(env("RFEM_SPOT_MATERIAL"), DefaultSpotMaterial),
		Port:         normalizePort(firstNonEmpty(env("PORT"), DefaultPort)),
		Store: store.Config{
			Backend:     firstNonEmpty(env("RFEM_STORE"), store.BackendDisk),
			Root:        firstNonEmpty(env("RFEM_OUTPUT_DIR"), DefaultOutputDir),
			PostgresDSN: env("RFEM_PG_DSN"),
			S3: store.S3Config{
				Endpoint:  firstNonEmpty(env("RFEM_S3_ENDPOINT"), env("MINIO_ENDPOINT")),
				Region:    firstNonEmpty(env("RFEM_S3_REGION"), "us-east-1"),
				AccessKey: firstNonEmpty(env("RFEM_S3_ACCESS_KEY"), env("MINIO_ROOT_USER")),
				SecretKey: firstNonEmpty(env("RFEM_S3_SECRET_KEY"), env("MINIO_ROOT_PASSWORD")),
				Bucket:    firstNonEmpty(env("RFEM_S3_BUCKET"), "rfem-scripts"),
				UseSSL:    boolOr(env("RFEM_S3_USE_SSL"), false),
			},
		},
	}
	if boolOr(env("RFEM_CACHE"), false) {
		c := store.DefaultCacheConfig()
		cfg.Store.Cache = &c
	}
	if path := env("RFEM_INSTRUCTION_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read instruction file: %w", err)
		}
		cfg.Instruction = strings.TrimSpace(string(raw))
	}
	if cfg.APIKey == "" {
		log.Printf("config: GEMINI_API_KEY is not set; only offline runs will work")
	}
	return cfg, nil
}

func normalizePort(p string) string {
	if strings.HasPrefix(p, ":") {
		return p
	}
	return ":" + p
}

func intOr(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("config: ignoring invalid integer %q", raw)
		return def
	}
	return v
}

func floatOr(raw string, def float64) float64 {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		log.Printf("config: ignoring invalid number %q", raw)
		return def
	}
	return v
}

func boolOr(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

// durationOr accepts Go durations ("2s") and bare seconds ("2").
func durationOr(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
		return d
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil && secs >= 0 {
		return time.Duration(secs * float64(time.Second))
	}
	log.Printf("config: ignoring invalid duration %q", raw)
	return def
}

func FirstNonEmpty(values ...string) string { return firstNonEmpty(values...) }

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
