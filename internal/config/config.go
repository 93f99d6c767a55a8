package config

import (
	"os"
	"strconv"
)

// CRMConfig holds the remote case-management API settings.
type CRMConfig struct {
	APIBaseURL   string
	AuthEndpoint string
	ClientID     string
	ClientSecret string
	// Token, when set, skips the client-credentials exchange.
	Token      string
	TimeoutSec int
}

// AppConfig is the centralized configuration struct for the CLI. It is
// populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	CRM CRMConfig
	// TaxonomyFile optionally overrides the embedded category taxonomy.
	TaxonomyFile string
	// LogRequests enables one-line JSON logs of outbound HTTP requests.
	LogRequests bool
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		CRM: CRMConfig{
			APIBaseURL:   getEnv("CRM_API_URL", ""),
			AuthEndpoint: getEnv("CRM_AUTH_ENDPOINT", ""),
			ClientID:     getEnv("CRM_CLIENT_ID", ""),
			ClientSecret: getEnv("CRM_CLIENT_SECRET", ""),
			Token:        getEnv("CRM_TOKEN", ""),
			TimeoutSec:   getEnvInt("CRM_TIMEOUT_SEC", 30),
		},
		TaxonomyFile: getEnv("CATEGORY_TAXONOMY_FILE", ""),
		LogRequests:  getEnvBool("CRM_HTTP_LOG", false),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
