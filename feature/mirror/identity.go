package mirror

import (
	"fmt"
	"strings"

	"notion-mirror/core/calendar"
)

// providerSuffix is the iCalendar UID suffix Google appends to event UIDs.
const providerSuffix = "@google.com"

// EventIdentity derives the stable identity a calendar event is tracked
// under in the mirror database.
//
// The provider UID is preferred, with the provider suffix stripped
// case-insensitively so spelling variants of the same UID collapse onto one
// identity. Events without a usable UID fall back to a weak composite of
// start instant and title; that fallback can collide for simultaneous
// equally named events, which the reconciler logs when it happens.
func EventIdentity(ev calendar.Event) string {
	id := strings.TrimSpace(ev.ProviderID)
	if n := len(id) - len(providerSuffix); n >= 0 && strings.EqualFold(id[n:], providerSuffix) {
		id = id[:n]
	}
	if id != "" {
		return id
	}
	return fmt.Sprintf("%d::%s", ev.Start.UnixMilli(), ev.Title)
}
