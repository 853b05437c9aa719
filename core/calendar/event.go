package calendar

import (
	"context"
	"time"
)

// Info identifies one calendar of the connected account.
type Info struct {
	ID      string
	Summary string
}

// Event is the provider-independent shape of one calendar event.
type Event struct {
	// ProviderID is the stable identifier the provider assigns to the event
	// (the iCalendar UID for Google). It may be empty.
	ProviderID  string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	// AllDay marks date-only events. Start then points at midnight of the
	// event day in the configured timezone and End is not meaningful.
	AllDay    bool
	Attendees []string
	// Calendar is the display name of the calendar the event came from.
	Calendar string
	// HTMLLink is the provider's browser link to the event, when present.
	HTMLLink string
}

// Source lists calendars and their events for a time window.
type Source interface {
	// Calendars returns the calendars visible to the connected account.
	Calendars(ctx context.Context) ([]Info, error)
	// Events returns the events of one calendar whose start falls inside
	// the half-open window [from, to).
	Events(ctx context.Context, cal Info, from, to time.Time) ([]Event, error)
}
