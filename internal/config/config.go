package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ProjectID       string        `mapstructure:"PROJECTID"`
	Region          string        `mapstructure:"REGION"`
	LogLevel        string        `mapstructure:"LOGLEVEL"`
	Port            string        `mapstructure:"PORT"`
	BaseURL         string        `mapstructure:"BASEURL"`
	TimeZone        string        `mapstructure:"TIMEZONE"`
	KMSKeyName      string        `mapstructure:"KMSKEYNAME"`
	VertexModel     string        `mapstructure:"VERTEXMODEL"`
	AITTL           time.Duration `mapstructure:"AITTL"`
	RedisAddr       string        `mapstructure:"REDISADDR"`
	RedisPassword   string        `mapstructure:"REDISPASSWORD"`
	CacheTTL        time.Duration `mapstructure:"CACHETTL"`
	SendGridAPIKey  string        `mapstructure:"SENDGRIDAPIKEY"`
	MailFrom        string        `mapstructure:"MAILFROM"`
	SigningSecret   string        `mapstructure:"SIGNINGSECRET"`
	VerificationTTL time.Duration `mapstructure:"VERIFICATIONTTL"`
}

var defaults = map[string]any{
	"PROJECTID":       "",
	"REGION":          "us-central1",
	"LOGLEVEL":        "info",
	"PORT":            "8080",
	"BASEURL":         "http://localhost:8080",
	"TIMEZONE":        "UTC",
	"KMSKEYNAME":      "",
	"VERTEXMODEL":     "gemini-2.0-flash",
	"AITTL":           "24h",
	"REDISADDR":       "",
	"REDISPASSWORD":   "",
	"CACHETTL":        "15m",
	"SENDGRIDAPIKEY":  "",
	"MAILFROM":        "no-reply@activities.local",
	"SIGNINGSECRET":   "verification-signing-key",
	"VERIFICATIONTTL": "168h",
}

// New reads configuration from the environment. Every key needs a default so
// that viper's AutomaticEnv picks it up during Unmarshal.
func New() *Config {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := new(Config)
	_ = v.Unmarshal(cfg)
	return cfg
}

// Location resolves TimeZone, falling back to UTC when it is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
