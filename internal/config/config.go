package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses the AI request timeout

	"github.com/giorgimart/cityvibe/internal/ai"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Required variables are enforced by must()
// and missing values cause the program to exit with a fatal log message;
// the AI and check-in knobs fall back to sensible defaults.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing

	// AI carries the chat-completion gateway parameters used by the mood
	// suggestion endpoint.
	AI ai.Config

	// CheckinAwardFromEvent switches the check-in award from the fixed
	// 50-credit constant to the event's stored credit value. Off by
	// default to preserve the original behavior.
	CheckinAwardFromEvent bool
}

// Load reads configuration values from environment variables and returns
// a Config.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		AI: ai.Config{
			BaseURL: envStr("AI_BASE_URL", "https://ai.gateway.lovable.dev"),
			APIKey:  must("AI_API_KEY"),
			Model:   envStr("AI_MODEL", "google/gemini-2.5-flash"),
			Timeout: envDur("AI_TIMEOUT", 8*time.Second),
		},
		CheckinAwardFromEvent: envBool("CHECKIN_AWARD_FROM_EVENT", false),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
