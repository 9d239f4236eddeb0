package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string

	JWTAccessSecret  []byte
	JWTRefreshSecret []byte

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	Cloudinary Cloudinary

	SendgridAPIKey string
	MailFrom       string

	RateLimitRPS int
}

type Cloudinary struct {
	CloudName string
	APIKey    string
	APISecret string
}

func (c Cloudinary) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "lms"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret:  []byte(os.Getenv("ACCESS_TOKEN_SECRET")),
		JWTRefreshSecret: []byte(os.Getenv("REFRESH_TOKEN_SECRET")),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "courses"),

		Cloudinary: Cloudinary{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},

		SendgridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       EnvDefault("MAIL_FROM", "no-reply@lms.local"),

		RateLimitRPS: EnvIntDefault("RATE_LIMIT_RPS", 20),
	}
}

// Validate fails the process on settings the service cannot start without.
func (c Config) Validate() {
	MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	MustNonEmptyBytes(c.JWTAccessSecret, "ACCESS_TOKEN_SECRET")
	MustNonEmptyBytes(c.JWTRefreshSecret, "REFRESH_TOKEN_SECRET")
	MustDiffer(c.JWTAccessSecret, c.JWTRefreshSecret, "ACCESS_TOKEN_SECRET", "REFRESH_TOKEN_SECRET")
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
