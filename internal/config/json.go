package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON-friendly field
// types (durations as "5m"-style strings).
type StructuredJSONConfig struct {
	App struct {
		Version string `json:"version"`
	} `json:"app,omitempty"`

	Cache struct {
		MaxSizeBytes  int64    `json:"max_size_bytes"`
		MaxEntryAge   Duration `json:"max_entry_age"`
		PersistToDisk *bool    `json:"persist_to_disk"`
	} `json:"cache,omitempty"`

	Queue struct {
		BatchSize         int      `json:"batch_size"`
		RetryCap          int      `json:"retry_cap"`
		Strategy          string   `json:"sync_strategy"`
		ScheduledInterval Duration `json:"scheduled_interval"`
	} `json:"queue,omitempty"`

	Network struct {
		ProbeURL      string   `json:"probe_url"`
		ProbeInterval Duration `json:"probe_interval"`
		ProbeTimeout  Duration `json:"probe_timeout"`
	} `json:"network,omitempty"`

	Remote struct {
		BaseURL        string   `json:"base_url"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"remote,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Version: jsonCfg.App.Version,
		},
		Cache: Cache{
			MaxSizeBytes:  jsonCfg.Cache.MaxSizeBytes,
			MaxEntryAge:   time.Duration(jsonCfg.Cache.MaxEntryAge),
			PersistToDisk: jsonCfg.Cache.PersistToDisk,
		},
		Queue: Queue{
			BatchSize:         jsonCfg.Queue.BatchSize,
			RetryCap:          jsonCfg.Queue.RetryCap,
			Strategy:          jsonCfg.Queue.Strategy,
			ScheduledInterval: time.Duration(jsonCfg.Queue.ScheduledInterval),
		},
		Network: Network{
			ProbeURL:      jsonCfg.Network.ProbeURL,
			ProbeInterval: time.Duration(jsonCfg.Network.ProbeInterval),
			ProbeTimeout:  time.Duration(jsonCfg.Network.ProbeTimeout),
		},
		Remote: Remote{
			BaseURL:        jsonCfg.Remote.BaseURL,
			RequestTimeout: time.Duration(jsonCfg.Remote.RequestTimeout),
		},
		Storage: Storage{
			DB: DB{DSN: jsonCfg.Storage.DB.DSN},
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
