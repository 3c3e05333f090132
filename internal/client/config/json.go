package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/uniyatwon/yatwon/internal/flagx"
	"github.com/uniyatwon/yatwon/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "90s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	APIBaseURL        string          `json:"api_base_url"`
	SessionDBPath     string          `json:"session_db_path"`
	PushDeviceToken   string          `json:"push_device_token"`
	NotiCheckInterval *timex.Duration `json:"noti_check_interval"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Only fields present in the file override earlier values. Read or
// unmarshal errors panic; configuration happens before anything worth
// recovering is running.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.SessionDBPath != "" {
		cfg.SessionDBPath = jc.SessionDBPath
	}
	if jc.PushDeviceToken != "" {
		cfg.PushDeviceToken = jc.PushDeviceToken
	}
	if jc.NotiCheckInterval != nil {
		cfg.NotiCheckInterval = time.Duration(jc.NotiCheckInterval.Duration)
	}
}
