package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"notion-mirror/core/calendar"
	"notion-mirror/core/logger"
	"notion-mirror/core/notion"
	"notion-mirror/core/server"
	"notion-mirror/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the report archive (S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Notion holds configuration for the Notion API client.
	Notion notion.Config `mapstructure:"notion"`
	// Calendar holds configuration for the Google Calendar source.
	Calendar calendar.Config `mapstructure:"calendar"`
	// Sync holds settings for the reconciliation runs.
	Sync Sync `mapstructure:"sync"`
}

// Sync groups the settings that shape a reconciliation run.
type Sync struct {
	// Timezone is the IANA zone used to anchor all-day events and to compute
	// run windows. Timed events carry their own instants; this only affects
	// date arithmetic.
	Timezone string `mapstructure:"timezone" default:"UTC"`
	// LookaheadDays bounds the rolling window: it ends this many days after
	// the current day.
	LookaheadDays int `mapstructure:"lookahead_days" default:"40"`
	// Calendars is a comma-separated allowlist of calendar IDs or summaries.
	// Empty means every calendar the account can see.
	Calendars string `mapstructure:"calendars" default:""`
	// RollingSchedule is the cron expression for the periodic rolling sync.
	RollingSchedule string `mapstructure:"rolling_schedule" default:"*/15 * * * *"`
	// FullSchedule is the cron expression for the monthly full resync.
	FullSchedule string `mapstructure:"full_schedule" default:"0 3 1 * *"`
	// ArchiveReports enables uploading run reports to object storage.
	ArchiveReports bool `mapstructure:"archive_reports" default:"false"`
}

// CalendarList splits the allowlist into trimmed, non-empty entries.
func (s Sync) CalendarList() []string {
	var list []string
	for _, part := range strings.Split(s.Calendars, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}

// Location resolves the configured timezone.
func (s Sync) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// Validate checks the settings a sync run cannot do without.
func (c *Config) Validate() error {
	if c.Notion.Token == "" {
		return errors.New("notion.token is required")
	}
	if c.Notion.DatabaseID == "" {
		return errors.New("notion.database_id is required")
	}
	if !c.Calendar.HasCredentials() {
		return errors.New("either calendar.credentials_file or calendar.token_file is required")
	}
	if _, err := c.Sync.Location(); err != nil {
		return fmt.Errorf("sync.timezone is invalid: %w", err)
	}
	if c.Sync.LookaheadDays <= 0 {
		return errors.New("sync.lookahead_days must be positive")
	}
	return nil
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	// We construct the path to .env
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
