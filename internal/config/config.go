package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port      string
	PublicURL string
	ViewURL   string
	WebDir    string

	SitesDir     string
	GeneratedDir string
	StatsFile    string

	SerpAPIKey    string
	GoogleMapsKey string

	LLMAPIKey  string
	LLMModel   string
	LLMBaseURL string

	RetellAPIKey      string
	RetellAgentID     string
	RetellPhoneNumber string

	TelegramToken string
	AdminChatID   int64

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	MasterCode string
	VerifyTTL  time.Duration

	JWTSecret            string
	TokenTTL             time.Duration
	OperatorEmail        string
	OperatorPasswordHash string

	RateLimitGenerate  RateLimitConfig
	CampaignDelay      time.Duration
	CampaignMaxRunning int
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		PublicURL: strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:8080"), "/"),
		WebDir:    getEnv("WEB_DIR", "web"),

		SitesDir:     getEnv("SITES_DIR", "demos"),
		GeneratedDir: getEnv("GENERATED_DIR", "generated_sites"),
		StatsFile:    getEnv("STATS_FILE", "stats.json"),

		SerpAPIKey:    os.Getenv("SERP_API_KEY"),
		GoogleMapsKey: os.Getenv("GOOGLE_MAPS_KEY"),

		LLMAPIKey:  os.Getenv("OPENAI_API_KEY"),
		LLMModel:   getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMBaseURL: os.Getenv("LLM_BASE_URL"),

		RetellAPIKey:      os.Getenv("RETELL_API_KEY"),
		RetellAgentID:     os.Getenv("RETELL_AGENT_ID"),
		RetellPhoneNumber: os.Getenv("RETELL_PHONE_NUMBER"),

		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: getEnv("SMTP_FROM", "no-reply@webdone.ro"),

		MasterCode: getEnv("MASTER_CODE", "111111"),
		VerifyTTL:  parseDuration(getEnv("VERIFY_TTL", "10m"), 10*time.Minute),

		JWTSecret:            getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:             parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		OperatorEmail:        os.Getenv("OPERATOR_EMAIL"),
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),

		CampaignDelay:      parseDuration(getEnv("CAMPAIGN_DELAY", "5s"), 5*time.Second),
		CampaignMaxRunning: parseInt(getEnv("CAMPAIGN_MAX_RUNNING", "2"), 2),
	}

	cfg.ViewURL = getEnv("VIEW_URL", cfg.PublicURL+"/view")
	cfg.SMTPPort = parseInt(getEnv("SMTP_PORT", "587"), 587)

	if raw := os.Getenv("ADMIN_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_CHAT_ID value: %w", err)
		}
		cfg.AdminChatID = id
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_GENERATE", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_GENERATE value: %w", err)
	}
	cfg.RateLimitGenerate = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(input string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
