package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/nodevault/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// tell an absent key from an explicit zero value.
type JsonConfig struct {
	DataDir           *string `json:"data_dir"`
	AuthFile          *string `json:"auth_file"`
	DatabaseFile      *string `json:"database_file"`
	MinPasswordLength *int    `json:"min_password_length"`
	Iterations        *int    `json:"iterations"`
	LogLevel          *string `json:"log_level"`
}

// parseJson overlays cfg with the keys present in the file named by -c or
// -config. Without either flag it does nothing.
func parseJson(cfg *Config) error {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&cfg.DataDir, jc.DataDir)
	setIf(&cfg.AuthFile, jc.AuthFile)
	setIf(&cfg.DatabaseFile, jc.DatabaseFile)
	setIf(&cfg.MinPasswordLength, jc.MinPasswordLength)
	setIf(&cfg.Iterations, jc.Iterations)
	setIf(&cfg.LogLevel, jc.LogLevel)
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
