package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment. A
// .env file in the working directory is loaded first when present; a
// missing file is not an error, existing environment variables win over
// the file's contents.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("PAPERSYNC_SERVER_ADDR"); v != "" {
		cfg.ServerEndpointAddr = v
	}
	if v := os.Getenv("PAPERSYNC_DATABASE"); v != "" {
		cfg.DatabasePath = v
	}
	if v := envSeconds("PAPERSYNC_ONLINE_CHECK_INTERVAL"); v > 0 {
		cfg.OnlineCheckInterval = v
	}
	if v := envSeconds("PAPERSYNC_REQUEST_TIMEOUT"); v > 0 {
		cfg.RequestTimeout = v
	}
	if v := os.Getenv("PAPERSYNC_MAX_DELETE_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxDeleteAttempts = n
		}
	}
}

func envSeconds(name string) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
