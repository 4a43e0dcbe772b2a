package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by VERITY_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("VERITY_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func AnthropicAPIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

// ResearchProvider returns the configured deep-research provider.
// Defaults to "openai" if not set.
// Valid values: openai, anthropic, mock
func ResearchProvider() string {
	p := os.Getenv("RESEARCH_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

// ResearchAPIKey returns the API key for the configured research provider.
func ResearchAPIKey() string {
	switch ResearchProvider() {
	case "anthropic":
		return AnthropicAPIKey()
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// EmbeddingProvider returns the configured embedding provider.
// Defaults to "openai" if not set.
// Valid values: openai, mock
func EmbeddingProvider() string {
	p := os.Getenv("EMBEDDING_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

// EmbeddingAPIKey returns the API key for the configured embedding provider.
func EmbeddingAPIKey() string {
	switch EmbeddingProvider() {
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// RequireCitations controls whether the trust gate refuses answers that
// lack authoritative citations. Defaults to true; set to "false" or "0"
// to accept uncited answers.
func RequireCitations() bool {
	switch strings.ToLower(os.Getenv("REQUIRE_CITATIONS")) {
	case "false", "0", "no":
		return false
	}
	return true
}

// AuthorityDomains returns extra trusted domains as a comma-separated
// list of bare host names (no scheme). These extend the built-in set.
func AuthorityDomains() []string {
	raw := os.Getenv("AUTHORITY_DOMAINS")
	if raw == "" {
		return nil
	}
	var domains []string
	for _, d := range strings.Split(raw, ",") {
		d = strings.TrimSpace(d)
		if d != "" {
			domains = append(domains, d)
		}
	}
	return domains
}

// ResearchTimeout returns the per-call timeout for single research
// queries. Defaults to 300 seconds.
func ResearchTimeout() time.Duration {
	secs, err := strconv.Atoi(os.Getenv("RESEARCH_TIMEOUT_SECONDS"))
	if err != nil || secs <= 0 {
		return 300 * time.Second
	}
	return time.Duration(secs) * time.Second
}

// EvaluationTimeout returns the timeout for the controls-evaluation
// research stage, which runs longer than a single query.
// Defaults to 600 seconds.
func EvaluationTimeout() time.Duration {
	secs, err := strconv.Atoi(os.Getenv("EVALUATION_TIMEOUT_SECONDS"))
	if err != nil || secs <= 0 {
		return 600 * time.Second
	}
	return time.Duration(secs) * time.Second
}

// APIKey returns the key clients must present on authenticated routes.
// Empty disables authentication (local development).
func APIKey() string {
	return os.Getenv("API_KEY")
}

func MigrationsPath() string {
	p := os.Getenv("MIGRATIONS_PATH")
	if p == "" {
		return "migrations"
	}
	return p
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
