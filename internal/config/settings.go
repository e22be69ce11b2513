// ABOUTME: Environment-driven runtime settings loaded through viper.
// ABOUTME: Covers API key override, API base URL, media poll interval, and logging.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultAPIBase is the production REST endpoint.
const DefaultAPIBase = "https://api.typefully.com/v2"

// DefaultPollInterval is the wait between media status checks.
const DefaultPollInterval = 2 * time.Second

// Settings are read once per process from TYPEFULLY_* environment variables.
type Settings struct {
	APIKey       string
	APIBase      string
	PollInterval time.Duration
	LogLevel     string
	LogFormat    string
}

// LoadSettings reads TYPEFULLY_API_KEY, TYPEFULLY_API_BASE,
// TYPEFULLY_MEDIA_POLL_INTERVAL_MS, TYPEFULLY_LOG_LEVEL and TYPEFULLY_LOG_FORMAT.
// Empty variables count as unset.
func LoadSettings() Settings {
	v := viper.New()
	v.SetEnvPrefix("TYPEFULLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("api_base", DefaultAPIBase)
	v.SetDefault("media_poll_interval_ms", int(DefaultPollInterval/time.Millisecond))
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")

	s := Settings{
		APIKey:    strings.TrimSpace(v.GetString("api_key")),
		APIBase:   strings.TrimRight(strings.TrimSpace(v.GetString("api_base")), "/"),
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
	}
	if s.APIBase == "" {
		s.APIBase = DefaultAPIBase
	}

	s.PollInterval = DefaultPollInterval
	if ms := v.GetInt("media_poll_interval_ms"); ms > 0 {
		s.PollInterval = time.Duration(ms) * time.Millisecond
	}
	return s
}
