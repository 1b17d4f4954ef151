// Package config loads the service configuration from the environment and
// validates it fail-fast at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr string

	// GeminiAPIKey authenticates every model call.
	GeminiAPIKey string

	// Model assignments. The interview model carries the conversation; the
	// classifier model screens utterances; the search model answers
	// web_search queries.
	InterviewModel  string
	ClassifierModel string
	SearchModel     string

	// Interview pacing.
	InterviewDuration time.Duration
	WarningThreshold  time.Duration
	GuardrailWindow   int
	MaxTurnSteps      int
	EndCallDelay      time.Duration

	// InputDocumentsDir holds the job description, resume, and other files
	// the agent may read.
	InputDocumentsDir string

	// PostgresDSN is the checkpoint and summary database. Empty disables
	// persistence.
	PostgresDSN string

	// WebSocket transport.
	WSWriteTimeout       time.Duration
	WSPingInterval       time.Duration
	WSMaxMessageBytes    int64
	WSMaxSessionDuration time.Duration
	TurnTimeout          time.Duration

	ShutdownGracePeriod time.Duration
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:                 envOr("HRSCREEN_ADDR", ":8080"),
		GeminiAPIKey:         strings.TrimSpace(os.Getenv("HRSCREEN_GEMINI_API_KEY")),
		InterviewModel:       envOr("HRSCREEN_INTERVIEW_MODEL", "gemini-2.5-flash"),
		ClassifierModel:      envOr("HRSCREEN_CLASSIFIER_MODEL", "gemini-2.5-flash-lite"),
		SearchModel:          envOr("HRSCREEN_SEARCH_MODEL", "gemini-2.0-flash"),
		InterviewDuration:    envDurationOr("HRSCREEN_INTERVIEW_DURATION", 15*time.Minute),
		WarningThreshold:     envDurationOr("HRSCREEN_WARNING_THRESHOLD", 5*time.Minute),
		GuardrailWindow:      envIntOr("HRSCREEN_GUARDRAIL_WINDOW", 15),
		MaxTurnSteps:         envIntOr("HRSCREEN_MAX_TURN_STEPS", 25),
		EndCallDelay:         envDurationOr("HRSCREEN_END_CALL_DELAY", 15*time.Second),
		InputDocumentsDir:    envOr("HRSCREEN_INPUT_DOCUMENTS_DIR", "./input_documents"),
		PostgresDSN:          strings.TrimSpace(os.Getenv("HRSCREEN_POSTGRES_DSN")),
		WSWriteTimeout:       envDurationOr("HRSCREEN_WS_WRITE_TIMEOUT", 5*time.Second),
		WSPingInterval:       envDurationOr("HRSCREEN_WS_PING_INTERVAL", 20*time.Second),
		WSMaxMessageBytes:    envInt64Or("HRSCREEN_WS_MAX_MESSAGE_BYTES", 64*1024),
		WSMaxSessionDuration: envDurationOr("HRSCREEN_WS_MAX_DURATION", 2*time.Hour),
		TurnTimeout:          envDurationOr("HRSCREEN_TURN_TIMEOUT", 60*time.Second),
		ShutdownGracePeriod:  envDurationOr("HRSCREEN_SHUTDOWN_GRACE_PERIOD", 30*time.Second),
	}

	if cfg.GeminiAPIKey == "" {
		return Config{}, fmt.Errorf("HRSCREEN_GEMINI_API_KEY must be set")
	}
	if cfg.InterviewDuration <= 0 {
		return Config{}, fmt.Errorf("HRSCREEN_INTERVIEW_DURATION must be > 0")
	}
	if cfg.WarningThreshold <= 0 {
		return Config{}, fmt.Errorf("HRSCREEN_WARNING_THRESHOLD must be > 0")
	}
	if cfg.WarningThreshold >= cfg.InterviewDuration {
		return Config{}, fmt.Errorf("HRSCREEN_WARNING_THRESHOLD must be < HRSCREEN_INTERVIEW_DURATION")
	}
	if cfg.GuardrailWindow <= 0 {
		return Config{}, fmt.Errorf("HRSCREEN_GUARDRAIL_WINDOW must be > 0")
	}
	if cfg.MaxTurnSteps <= 0 {
		return Config{}, fmt.Errorf("HRSCREEN_MAX_TURN_STEPS must be > 0")
	}
	if cfg.EndCallDelay <= 0 {
		return Config{}, fmt.Errorf("HRSCREEN_END_CALL_DELAY must be > 0")
	}
	if strings.TrimSpace(cfg.InputDocumentsDir) == "" {
		return Config{}, fmt.Errorf("HRSCREEN_INPUT_DOCUMENTS_DIR must not be empty")
	}
	if cfg.WSWriteTimeout <= 0 {
		return Config{}, fmt.Errorf("HRSCREEN_WS_WRITE_TIMEOUT must be > 0")
	}
	if cfg.WSPingInterval <= 0 {
		return Config{}, fmt.Errorf("HRSCREEN_WS_PING_INTERVAL must be > 0")
	}
	if cfg.WSMaxMessageBytes <= 0 {
		return Config{}, fmt.Errorf("HRSCREEN_WS_MAX_MESSAGE_BYTES must be > 0")
	}
	if cfg.WSMaxSessionDuration <= 0 {
		return Config{}, fmt.Errorf("HRSCREEN_WS_MAX_DURATION must be > 0")
	}
	if cfg.TurnTimeout <= 0 {
		return Config{}, fmt.Errorf("HRSCREEN_TURN_TIMEOUT must be > 0")
	}
	if cfg.ShutdownGracePeriod <= 0 {
		return Config{}, fmt.Errorf("HRSCREEN_SHUTDOWN_GRACE_PERIOD must be > 0")
	}

	return cfg, nil
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envIntOr(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func envInt64Or(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envDurationOr(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
