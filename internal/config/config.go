// Package config loads skillshub settings from ~/.skillshub/config.yaml
// and SKILLSHUB_* environment variables via viper. Settings are optional;
// every getter has a sensible zero default.
//
// Recognized keys:
//
//	github.token   GitHub API token (also GITHUB_TOKEN)
//	concurrency    parallel fetches during batch operations
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/EYH0602/skillshub/internal/paths"
)

var v *viper.Viper

// Initialize loads the config file if present and binds the environment.
// Must run before any getter; the root command calls it in init.
func Initialize() error {
	nv := viper.New()
	nv.SetConfigName("config")
	nv.SetConfigType("yaml")

	home, err := paths.Home()
	if err == nil {
		nv.AddConfigPath(home)
	}

	nv.SetEnvPrefix("SKILLSHUB")
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	nv.AutomaticEnv()

	nv.SetDefault("concurrency", 4)

	if err := nv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	v = nv
	return nil
}

// GetString returns a string setting, or "" when unset or uninitialized.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool returns a bool setting, or false when unset or uninitialized.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt returns an int setting, or 0 when unset or uninitialized.
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetDuration returns a duration setting, or 0 when unset or uninitialized.
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// GitHubToken returns the configured GitHub token, falling back to the
// conventional GITHUB_TOKEN environment variable.
func GitHubToken() string {
	if tok := GetString("github.token"); tok != "" {
		return tok
	}
	return os.Getenv("GITHUB_TOKEN")
}

// Concurrency returns the bounded fan-out width for batch operations.
func Concurrency() int {
	n := GetInt("concurrency")
	if n <= 0 {
		return 4
	}
	return n
}
