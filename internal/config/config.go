package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the application reads from the environment.
type Config struct {
	DatabaseURL  string
	Port         string
	CacheTTL     time.Duration // Lifetime of memoized store responses
	FetchTimeout time.Duration // Upper bound on a single database fetch
	SMTP         SMTP
}

// SMTP holds the mail-submission settings for the download and contact forms.
type SMTP struct {
	Server         string
	Port           int
	SenderEmail    string
	SenderPassword string
	AdminEmail     string
}

// Configured reports whether the mail side-channel can be used at all.
// Without these three values every delivery attempt is rejected up front.
func (s SMTP) Configured() bool {
	return s.SenderEmail != "" && s.SenderPassword != "" && s.AdminEmail != ""
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() Config {
	_ = godotenv.Load()

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getenv("DB_USUARIO", "postgres"),
		getenv("DB_SENHA", "postgres"),
		getenv("DB_HOST", "localhost"),
		getenv("DB_PORT", "5432"),
		getenv("DB_BANCO", "cei"),
	)

	return Config{
		DatabaseURL:  dbURL,
		Port:         getenv("PORT", "8080"),
		CacheTTL:     getduration("CACHE_TTL", time.Hour),
		FetchTimeout: getduration("FETCH_TIMEOUT", 10*time.Second),
		SMTP: SMTP{
			Server:         getenv("SMTP_SERVER", "smtp.gmail.com"),
			Port:           getint("SMTP_PORT", 587),
			SenderEmail:    os.Getenv("SENDER_EMAIL"),
			SenderPassword: os.Getenv("SENDER_PASSWORD"),
			AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
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

func getduration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
