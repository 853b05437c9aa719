package notion

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError describes a non-2xx response from the Notion API. Attempts records
// how many requests were spent on the call, so a transient failure that
// exhausted its retry reports 2.
type APIError struct {
	Status   int
	Code     string
	Message  string
	Attempts int
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notion: %s (status %d, code %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("notion: request failed with status %d", e.Status)
}

// Transient reports whether the status belongs to the retryable class
// (rate limiting or server-side errors). When a transient APIError escapes
// the client, its single retry has already been spent.
func (e *APIError) Transient() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// newAPIError parses the error body the API returns alongside non-2xx
// statuses. Bodies that are not the documented error object are tolerated.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
	}

	return apiErr
}
