package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const maxNotifyRetries = 10

// Config holds application configuration values.
type Config struct {
	AppPort      string
	DatabaseURL  string
	JWTSecret    string
	TokenExpires time.Duration

	AdminEmail    string
	AdminPassword string

	RecipientEmail string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPass       string
	SMTPFrom       string

	SMSProvider   string
	DLTAPIKey     string
	DLTTemplateID string
	DLTEntityID   string
	DLTSenderID   string
	DLTAPIURL     string

	TelegramBotToken  string
	TelegramAdminChat string

	OTPTTL     time.Duration
	OTPDevMode bool

	UploadDir   string
	StaticDir   string
	CORSOrigins string

	NotifyTimeout time.Duration
	NotifyRetries int

	LogLevel string
	LogDev   bool
	LogFile  string
}

// SMTPConfigured reports whether enough SMTP settings exist to send mail.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPPort != 0 && c.SMTPUser != "" && c.SMTPPass != ""
}

// Load reads environment variables (and a .env file when present) and returns
// a populated Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:      getEnv("APP_PORT", getEnv("PORT", "3000")),
		DatabaseURL:  getEnv("DATABASE_URL", "database.sqlite"),
		JWTSecret:    getEnv("JWT_SECRET", "zylm-energy-secret-key"),
		TokenExpires: getEnvDuration("JWT_TTL_HOURS", 24) * time.Hour,

		AdminEmail:    strings.ToLower(getEnv("ADMIN_EMAIL", "admin@zylm.in")),
		AdminPassword: getEnv("ADMIN_PASSWORD", "Admin123!"),

		RecipientEmail: getEnv("RECIPIENT_EMAIL", "info@zylm.in"),
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnvInt("SMTP_PORT", 0),
		SMTPUser:       getEnv("SMTP_USER", ""),
		SMTPPass:       getEnv("SMTP_PASS", ""),
		SMTPFrom:       getEnv("SMTP_FROM", ""),

		SMSProvider:   strings.ToLower(getEnv("SMS_PROVIDER", "log")),
		DLTAPIKey:     getEnv("DLT_API_KEY", ""),
		DLTTemplateID: getEnv("DLT_TEMPLATE_ID", ""),
		DLTEntityID:   getEnv("DLT_ENTITY_ID", ""),
		DLTSenderID:   getEnv("DLT_SENDER_ID", "ZYLMEN"),
		DLTAPIURL:     getEnv("DLT_API_URL", "https://api.example.com/sms/send"),

		TelegramBotToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAdminChat: getEnv("TELEGRAM_ADMIN_CHAT_ID", ""),

		OTPTTL:     getEnvDuration("OTP_TTL_MINUTES", 5) * time.Minute,
		OTPDevMode: getEnvBool("OTP_DEV_MODE", false),

		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		StaticDir:   getEnv("STATIC_DIR", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		NotifyTimeout: getEnvDuration("NOTIFY_TIMEOUT_SECONDS", 10) * time.Second,
		NotifyRetries: getEnvInt("NOTIFY_RETRIES", 2),

		LogLevel: getEnv("LOG_LEVEL", ""),
		LogDev:   getEnvBool("LOG_DEV", false),
		LogFile:  getEnv("LOG_FILE", ""),
	}

	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUser
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("APP_PORT must be set")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must be set")
	}
	if c.OTPTTL <= 0 {
		return errors.New("OTP_TTL_MINUTES must be positive")
	}
	if c.NotifyTimeout <= 0 {
		return errors.New("NOTIFY_TIMEOUT_SECONDS must be positive")
	}
	if c.NotifyRetries < 0 || c.NotifyRetries > maxNotifyRetries {
		return fmt.Errorf("NOTIFY_RETRIES must be between 0 and %d", maxNotifyRetries)
	}
	switch c.SMSProvider {
	case "log", "dlt":
	default:
		return errors.New("SMS_PROVIDER must be one of: log, dlt")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback))
}
