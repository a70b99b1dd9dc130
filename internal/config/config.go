package config

import (
	"os"
	"strconv"
	"time"
)

// NodeFeatures gates tenant-scoped resources. Disabled features hide their
// routes entirely; the permission table is unaffected.
type NodeFeatures struct {
	DeleteNode    bool
	SSO           bool
	DirectorySync bool
	Webhook       bool
	APIKey        bool
	AuditLog      bool
}

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string

	InvitationValidity time.Duration
	NodeFeatures       NodeFeatures
}

func Load() *Config {
	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "nodeadmin"),
		DBPassword:    getEnv("DB_PASSWORD", "nodepassword"),
		DBName:        getEnv("DB_NAME", "node_admin"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),

		InvitationValidity: time.Duration(getEnvInt("INVITATION_VALIDITY_HOURS", 168)) * time.Hour,
		NodeFeatures: NodeFeatures{
			DeleteNode:    getEnvBool("FEATURE_NODE_DELETE", true),
			SSO:           getEnvBool("FEATURE_NODE_SSO", false),
			DirectorySync: getEnvBool("FEATURE_NODE_DSYNC", false),
			Webhook:       getEnvBool("FEATURE_NODE_WEBHOOK", true),
			APIKey:        getEnvBool("FEATURE_NODE_API_KEY", true),
			AuditLog:      getEnvBool("FEATURE_NODE_AUDIT_LOG", true),
		},
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
