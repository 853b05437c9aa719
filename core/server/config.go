package server

// Config holds configuration for the HTTP trigger server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	// When empty, the trigger endpoints are left unprotected.
	ApiKey string `mapstructure:"api_key" default:""`
}

// RequireAuth reports whether the API-key middleware should be mounted.
func (c Config) RequireAuth() bool {
	return c.ApiKey != ""
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return ":" + c.Port
}
