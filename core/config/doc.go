// Package config provides configuration management for the mirror service.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Notion: integration token, target database and API version
//   - Calendar: Google Calendar credentials
//   - Sync: timezone, rolling window length, calendar allowlist and cron schedules
//   - Storage: S3/MinIO credentials and bucket for archived run reports
//   - Log: Logging level and format
//
// Defaults come from `default` struct tags; environment variables override
// them using underscore-joined keys (e.g. NOTION_DATABASE_ID -> notion.database_id).
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
