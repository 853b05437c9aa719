// Package notion is a hand-rolled client for the subset of the Notion API
// this service needs: database queries, page creation and updates, archiving,
// and schema introspection.
//
// # Client
//
// The Client speaks plain HTTP/JSON against the v1 API. Every request carries
// the bearer token and the Notion-Version header. Paginated queries follow
// start_cursor until the API reports has_more=false, so callers always receive
// the complete result set.
//
// # Retry
//
// Rate limiting (429) and server errors (5xx) are retried exactly once after a
// fixed one second pause. A second failure of the same class is returned as an
// *APIError with Attempts set to 2. Any other non-2xx status fails immediately
// without a retry, as do transport-level errors.
//
// # Property values
//
// Value is a small tagged union over the property types the mirror writes:
// title, rich_text, date, select, multi_select and url. Its MarshalJSON
// produces the exact wire shapes, including the explicit empty forms the API
// needs to clear a field ("rich_text": [] and "url": null).
//
// # Testing
//
// The Store interface abstracts the client so the reconciler can be tested
// against the testify mock in core/notion/mocks. The Client itself is tested
// against httptest servers.
package notion
