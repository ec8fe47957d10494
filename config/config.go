package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Proxies whose X-Forwarded-For / X-Real-IP headers are honoured; empty trusts none.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES"`

	// Google Calendar.
	ServiceAccountCredentials string        `mapstructure:"GOOGLE_SERVICE_ACCOUNT_CREDENTIALS"`
	CalendarID                string        `mapstructure:"CALENDAR_ID"`
	ProviderTimezone          string        `mapstructure:"PROVIDER_TIMEZONE"`
	CalendarTimeout           time.Duration `mapstructure:"CALENDAR_TIMEOUT"`
	EventSummaryPrefix        string        `mapstructure:"EVENT_SUMMARY_PREFIX"`

	// Weekly working hours override, e.g. "mon=15:30-19:30,sun=closed".
	WeeklyPolicy string `mapstructure:"WEEKLY_POLICY"`

	// Confirmation email.
	SendGridAPIKey string `mapstructure:"SENDGRID_API_KEY"`
	MailFrom       string `mapstructure:"MAIL_FROM"`
	MailFromName   string `mapstructure:"MAIL_FROM_NAME"`
	ProviderName   string `mapstructure:"PROVIDER_NAME"`
	EmailDelivery  string `mapstructure:"EMAIL_DELIVERY"`

	// Double-booking guard: "none", "recheck" or "hold".
	BookingGuard string        `mapstructure:"BOOKING_GUARD"`
	HoldTTL      time.Duration `mapstructure:"HOLD_TTL"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisHoldDB   int    `mapstructure:"REDIS_HOLD_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Optional booking archive.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`
}

const (
	EmailDeliveryInline = "inline"
	EmailDeliveryQueue  = "queue"

	GuardNone    = "none"
	GuardRecheck = "recheck"
	GuardHold    = "hold"
)

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	// empty keeps the mode default: debug in development, info in production
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("TRUSTED_PROXIES", []string{})
	v.SetDefault("GOOGLE_SERVICE_ACCOUNT_CREDENTIALS", "")
	v.SetDefault("CALENDAR_ID", "")
	v.SetDefault("PROVIDER_TIMEZONE", "Europe/Rome")
	v.SetDefault("CALENDAR_TIMEOUT", 5*time.Second)
	v.SetDefault("EVENT_SUMMARY_PREFIX", "DA CONFERMARE")
	v.SetDefault("WEEKLY_POLICY", "")
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("MAIL_FROM", "")
	v.SetDefault("MAIL_FROM_NAME", "")
	v.SetDefault("PROVIDER_NAME", "")
	v.SetDefault("EMAIL_DELIVERY", EmailDeliveryInline)
	v.SetDefault("BOOKING_GUARD", GuardRecheck)
	v.SetDefault("HOLD_TTL", 2*time.Minute)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_HOLD_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATABASE_NAME", "massobook")
}

// Load reads configuration from an optional config.yaml (in "." or "./config"),
// then environment variables, then defaults.
func Load(v *viper.Viper) (Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	// Automatically use environment variables where available.
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig populates AppConfig from the global viper instance.
func LoadConfig() {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
