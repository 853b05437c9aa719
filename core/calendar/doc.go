// Package calendar provides the event source side of the mirror.
//
// It defines the provider-independent Event model plus the Source interface
// the reconciler consumes, and implements Source on top of the Google
// Calendar API.
//
// # Credentials
//
// Two non-interactive credential modes are supported:
//   - A service account key file (credentials_file), or
//   - A pre-provisioned OAuth2 token file (token_file) together with the
//     client id/secret of the application that issued it.
//
// There is no interactive authorization flow in this service; tokens are
// expected to be provisioned by an external step.
//
// # Event windows
//
// Events are listed per calendar for a half-open time window with recurring
// events expanded (SingleEvents) and cancelled occurrences excluded. Paging
// follows NextPageToken until the listing is complete.
package calendar
