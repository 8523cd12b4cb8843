package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkarpov/papersync/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Interval
// fields are integer seconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	ServerEndpointAddr  string `json:"server_endpoint_addr"`
	DatabasePath        string `json:"database_path"`
	OnlineCheckInterval int    `json:"online_check_interval"`
	RequestTimeout      int    `json:"request_timeout"`
	MaxDeleteAttempts   int    `json:"max_delete_attempts"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// the -c or -config flags. If no file is named, nothing is loaded. Read or
// unmarshal errors panic (caller may recover if desired), matching the
// fail-fast behavior of the other config stages.
func parseJson(cfg *Config) {
	path := flagx.ConfigFileFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.OnlineCheckInterval > 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval) * time.Second
	}
	if jc.RequestTimeout > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout) * time.Second
	}
	if jc.MaxDeleteAttempts > 0 {
		cfg.MaxDeleteAttempts = jc.MaxDeleteAttempts
	}
}
