// Package server holds the HTTP trigger-server configuration.
//
// While the serve command handles the actual server startup, this package
// defines the configuration structure for it: the listen port and the
// optional API key protecting the sync trigger endpoints.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings and by the serve command to decide whether the auth middleware
// is mounted.
package server
