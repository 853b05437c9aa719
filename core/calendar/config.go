package calendar

// Config holds configuration for the Google Calendar source.
type Config struct {
	// CredentialsFile points at a service account key file. When set it
	// takes precedence over the token-file mode.
	CredentialsFile string `mapstructure:"credentials_file" default:""`
	// TokenFile points at a pre-provisioned OAuth2 token in JSON form, as
	// written by an external authorization step.
	TokenFile string `mapstructure:"token_file" default:""`
	// ClientID identifies the OAuth2 application that issued the token file.
	ClientID string `mapstructure:"client_id" default:""`
	// ClientSecret is the secret of that application.
	ClientSecret string `mapstructure:"client_secret" default:""`
}

// HasCredentials reports whether one of the credential modes is configured.
func (c Config) HasCredentials() bool {
	return c.CredentialsFile != "" || c.TokenFile != ""
}
