package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"APP_PORT", "PORT", "DATABASE_URL", "OTP_TTL_MINUTES", "OTP_DEV_MODE", "SMS_PROVIDER", "ADMIN_EMAIL"} {
		t.Setenv(key, "")
	}
	t.Setenv("APP_PORT", "3000")
	t.Setenv("DATABASE_URL", "database.sqlite")
	t.Setenv("OTP_TTL_MINUTES", "5")
	t.Setenv("OTP_DEV_MODE", "false")
	t.Setenv("SMS_PROVIDER", "log")
	t.Setenv("ADMIN_EMAIL", "Admin@Zylm.in")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.False(t, cfg.OTPDevMode)
	assert.Equal(t, "log", cfg.SMSProvider)
	assert.Equal(t, "admin@zylm.in", cfg.AdminEmail)
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "database.sqlite")
	t.Setenv("OTP_TTL_MINUTES", "10")
	t.Setenv("OTP_DEV_MODE", "true")
	t.Setenv("SMS_PROVIDER", "DLT")
	t.Setenv("SMTP_HOST", "smtp.example.org")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_USER", "mailer@zylm.in")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("SMTP_FROM", "")
	t.Setenv("NOTIFY_TIMEOUT_SECONDS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.True(t, cfg.OTPDevMode)
	assert.Equal(t, "dlt", cfg.SMSProvider)
	assert.True(t, cfg.SMTPConfigured())
	assert.Equal(t, "mailer@zylm.in", cfg.SMTPFrom)
	assert.Equal(t, 3*time.Second, cfg.NotifyTimeout)
}

func TestValidate(t *testing.T) {
	valid := Config{AppPort: "3000", JWTSecret: "s", DatabaseURL: "db.sqlite", OTPTTL: time.Minute, SMSProvider: "log", NotifyTimeout: time.Second, NotifyRetries: 2}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no port", func(c *Config) { c.AppPort = "" }},
		{"no secret", func(c *Config) { c.JWTSecret = "" }},
		{"no database", func(c *Config) { c.DatabaseURL = "" }},
		{"zero ttl", func(c *Config) { c.OTPTTL = 0 }},
		{"unknown provider", func(c *Config) { c.SMSProvider = "pigeon" }},
		{"zero notify timeout", func(c *Config) { c.NotifyTimeout = 0 }},
		{"negative retries", func(c *Config) { c.NotifyRetries = -1 }},
		{"too many retries", func(c *Config) { c.NotifyRetries = 11 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoad_RejectsNegativeNotifySettings(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SMS_PROVIDER", "log")
	t.Setenv("OTP_TTL_MINUTES", "5")

	t.Setenv("NOTIFY_TIMEOUT_SECONDS", "10")
	t.Setenv("NOTIFY_RETRIES", "-1")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTIFY_RETRIES")

	t.Setenv("NOTIFY_RETRIES", "2")
	t.Setenv("NOTIFY_TIMEOUT_SECONDS", "-5")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTIFY_TIMEOUT_SECONDS")
}

// chdir changes the working directory for the duration of the test,
// restoring the previous one on cleanup (equivalent to Go 1.24's t.Chdir).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
