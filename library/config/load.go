// Package config loads the yaml settings file into the shared go-config store.
package config

import (
	"path/filepath"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/twitter-clone/library/log"
)

// Default values for optional settings.
const (
	DefaultURLPrefix               = "/api/v1"
	DefaultDBDriver                = "sqlite"
	DefaultDBDSN                   = "file:twitter.db?_busy_timeout=5000"
	DefaultRequestTimeoutMs        = 10000
	DefaultPrincipalCacheTTLSecond = 30
	DefaultMaxOpenConns            = 50
)

// LoadFromFile loads settings from cfgPath, panics on failure.
func LoadFromFile(cfgPath string) {
	gconfig.Shared.Set("cfg_dir", filepath.Dir(cfgPath))
	if err := gconfig.Shared.LoadFromFile(cfgPath); err != nil {
		log.Logger.Panic("load configuration",
			zap.Error(err),
			zap.String("config", cfgPath))
	}

	log.Logger.Info("load configuration",
		zap.String("config", cfgPath))
}

// GetStringOr returns the configured string for key, or def when unset.
func GetStringOr(key, def string) string {
	if v := gconfig.Shared.GetString(key); v != "" {
		return v
	}

	return def
}

// GetIntOr returns the configured int for key, or def when unset or non-positive.
func GetIntOr(key string, def int) int {
	if v := gconfig.Shared.GetInt(key); v > 0 {
		return v
	}

	return def
}
