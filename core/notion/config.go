package notion

// Config holds configuration for the Notion API client.
type Config struct {
	// Token is the integration token used as the bearer credential.
	Token string `mapstructure:"token" default:""`
	// DatabaseID identifies the database that mirrors the calendar.
	DatabaseID string `mapstructure:"database_id" default:""`
	// Version is the value of the Notion-Version header sent with every request.
	Version string `mapstructure:"version" default:"2022-06-28"`
	// BaseURL is the API root. Only overridden in tests.
	BaseURL string `mapstructure:"base_url" default:"https://api.notion.com/v1"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
