package config

import "os"

// Environment variables read by the bootstrap code
const (
	EnvConfigPath = "CLOUD_FILEMANAGER_CONFIG"
	EnvDropboxKey = "DROPBOX_API_KEY"
)

// DefaultConfigFile is used when neither a flag nor EnvConfigPath names a file
const DefaultConfigFile = "conf.yml"

// DefaultPath returns the configuration path from the environment, or DefaultConfigFile
func DefaultPath() string {
	return getEnvWithDefault(EnvConfigPath, DefaultConfigFile)
}

func getEnvWithDefault(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
