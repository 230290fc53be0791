package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseDriver         string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	EventsChannel          string
	SessionCookieName      string
	SessionPrefix          string
	SessionTTL             time.Duration
	SessionCookieSecure    bool
	JWTSecret              string
	JWTTTL                 time.Duration
	AuthRateLimit          int
	AuthRateWindow         time.Duration
	InterviewTimeLimit     time.Duration
	InterviewQuestionCount int
	AIProvider             string
	AIModel                string
	AIBaseURL              string
	AIMaxTokens            int
	AITemperature          float32
	OpenAIAPIKey           string
	GeminiAPIKey           string
	AnthropicAPIKey        string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// AIAPIKey returns the API key of the configured AI provider.
func (c Config) AIAPIKey() string {
	switch c.AIProvider {
	case "gemini":
		return c.GeminiAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TRAINER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Interview Trainer API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("events.channel", "trainer:interviews")
	v.SetDefault("session.cookie_name", "trainer_session")
	v.SetDefault("session.prefix", "trainer:session")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("jwt.ttl", "1h")
	v.SetDefault("auth.rate_limit", 10)
	v.SetDefault("auth.rate_window", "1m")
	v.SetDefault("interview.time_limit", "30m")
	v.SetDefault("interview.question_count", 5)
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.max_tokens", 512)
	v.SetDefault("ai.temperature", 0.7)

	sessionTTL, err := parseDuration(v, "session.ttl")
	if err != nil {
		return Config{}, err
	}
	jwtTTL, err := parseDuration(v, "jwt.ttl")
	if err != nil {
		return Config{}, err
	}
	rateWindow, err := parseDuration(v, "auth.rate_window")
	if err != nil {
		return Config{}, err
	}
	timeLimit, err := parseDuration(v, "interview.time_limit")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseDriver:         strings.ToLower(v.GetString("database.driver")),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		EventsChannel:          v.GetString("events.channel"),
		SessionCookieName:      v.GetString("session.cookie_name"),
		SessionPrefix:          v.GetString("session.prefix"),
		SessionTTL:             sessionTTL,
		SessionCookieSecure:    v.GetBool("session.cookie_secure"),
		JWTSecret:              v.GetString("jwt.secret"),
		JWTTTL:                 jwtTTL,
		AuthRateLimit:          v.GetInt("auth.rate_limit"),
		AuthRateWindow:         rateWindow,
		InterviewTimeLimit:     timeLimit,
		InterviewQuestionCount: v.GetInt("interview.question_count"),
		AIProvider:             strings.ToLower(v.GetString("ai.provider")),
		AIModel:                v.GetString("ai.model"),
		AIBaseURL:              v.GetString("ai.base_url"),
		AIMaxTokens:            v.GetInt("ai.max_tokens"),
		AITemperature:          float32(v.GetFloat64("ai.temperature")),
		OpenAIAPIKey:           v.GetString("openai_api_key"),
		GeminiAPIKey:           v.GetString("gemini_api_key"),
		AnthropicAPIKey:        v.GetString("anthropic_api_key"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.InterviewQuestionCount <= 0 {
		cfg.InterviewQuestionCount = 5
	}

	if cfg.AuthRateLimit <= 0 {
		cfg.AuthRateLimit = 10
	}

	if cfg.SessionCookieName == "" {
		cfg.SessionCookieName = "trainer_session"
	}

	switch cfg.AIProvider {
	case "openai", "gemini", "anthropic":
	default:
		return Config{}, fmt.Errorf("unsupported ai provider %q", cfg.AIProvider)
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	duration, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return duration, nil
}
