// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the
// sync handlers.
//
// # Components
//
//   - Auth: Validates the X-API-Key header on mutating endpoints. When no
//     key is configured the check is disabled entirely.
//   - RayID: Assigns a unique request ID (RayID) to every incoming request,
//     injecting it into the request context and response headers so log
//     lines from one request can be correlated.
//
// Both are registered globally during application setup; the health check
// route is mounted before them and stays unauthenticated.
package middleware
