package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// External tabular store (Airtable) credentials. AirtableBaseID may
	// carry a combined "base/table" value; see SplitBaseID.
	AirtableBaseID    string
	AirtableTableName string
	AirtableAPIKey    string

	// SendGrid operator notification configuration
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	NotifyEmail       string

	CORSAllowedOrigins []string

	// AllowForceError gates the x-force-error diagnostic header. It must
	// never be enabled in a deployed configuration.
	AllowForceError bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		AirtableBaseID:    getEnv("AIRTABLE_BASE_ID", ""),
		AirtableTableName: getEnv("AIRTABLE_TABLE_NAME", ""),
		AirtableAPIKey:    getEnv("AIRTABLE_API_KEY", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Toda"),
		NotifyEmail:       getEnv("NOTIFY_EMAIL", ""),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),

		AllowForceError: getEnvAsBool("ALLOW_FORCE_ERROR", false),
	}
}

// IsProduction reports whether the configuration targets production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// SplitBaseID resolves a combined "base/table" base identifier. The table
// portion is used only when no explicit table name was configured.
func (c *Config) SplitBaseID() (baseID, tableName string) {
	baseID = strings.TrimSpace(c.AirtableBaseID)
	tableName = strings.TrimSpace(c.AirtableTableName)

	if base, table, found := strings.Cut(baseID, "/"); found {
		baseID = strings.TrimSpace(base)
		if tableName == "" {
			tableName = strings.TrimSpace(table)
		}
	}
	return baseID, tableName
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList retrieves a comma-separated environment variable as a slice
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
