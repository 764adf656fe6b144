package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// OracleSettings parameterizes the external verification collaborator.
// Loaded from oracle.yml when present; every field has a sane default.
type OracleSettings struct {
	Account        string        `yaml:"account"` // address the worker fulfills under
	Method         string        `yaml:"method"`
	JSONPath       string        `yaml:"json_path"`
	DisputeTimeout time.Duration `yaml:"dispute_timeout"`
	HTTPTimeout    time.Duration `yaml:"http_timeout"`
	QueueSize      int           `yaml:"queue_size"`
}

func defaultOracleSettings() OracleSettings {
	return OracleSettings{
		Account:        GetEnv("ORACLE_ACCOUNT", "0x0000000000000000000000000000000000000001"),
		Method:         "GET",
		JSONPath:       "data.valid",
		DisputeTimeout: time.Hour,
		HTTPTimeout:    15 * time.Second,
		QueueSize:      64,
	}
}

func LoadOracleSettings(path string) (OracleSettings, error) {
	settings := defaultOracleSettings()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return settings, err
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, err
	}
	return settings, nil
}
