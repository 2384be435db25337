package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvConfigFile = "ALERT_RISK_CONFIG"
	EnvVerbose    = "ALERT_RISK_VERBOSE"
	EnvNoColor    = "ALERT_RISK_NO_COLOR"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files (./.env when none
// are given) without overriding variables already set. A missing file is
// reported but harmless.
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}

func GetEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func GetEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// ApplyEnv overrides logging settings from the environment.
func (c *Config) ApplyEnv() {
	c.Logging.Verbose = GetEnvBool(EnvVerbose, c.Logging.Verbose)
	c.Logging.NoColor = GetEnvBool(EnvNoColor, c.Logging.NoColor)
}
