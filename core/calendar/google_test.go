package calendar_test

import (
	"testing"
	"time"

	"notion-mirror/core/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
)

func TestConvertEvent_Timed(t *testing.T) {
	item := &gcal.Event{
		Id:      "evt-raw-1",
		ICalUID: "abc123@google.com",
		Summary: "Team Standup",
		Start:   &gcal.EventDateTime{DateTime: "2024-05-02T09:00:00Z"},
		End:     &gcal.EventDateTime{DateTime: "2024-05-02T10:00:00Z"},
		Attendees: []*gcal.EventAttendee{
			{Email: "a@example.com"},
			{Email: "b@example.com"},
			{Email: ""},
		},
		Location:    "Room 4",
		Description: "Daily sync.",
		HtmlLink:    "https://calendar.google.com/event?eid=1",
	}

	ev, ok := calendar.ConvertEvent(item, "Work", time.UTC)
	require.True(t, ok)

	assert.Equal(t, "abc123@google.com", ev.ProviderID)
	assert.Equal(t, "Team Standup", ev.Title)
	assert.Equal(t, time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC), ev.Start)
	assert.Equal(t, time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC), ev.End)
	assert.False(t, ev.AllDay)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, ev.Attendees)
	assert.Equal(t, "Work", ev.Calendar)
	assert.Equal(t, "Room 4", ev.Location)
	assert.Equal(t, "https://calendar.google.com/event?eid=1", ev.HTMLLink)
}

func TestConvertEvent_AllDay(t *testing.T) {
	zone, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	item := &gcal.Event{
		ICalUID: "holiday@google.com",
		Summary: "Holiday",
		Start:   &gcal.EventDateTime{Date: "2024-05-01"},
		End:     &gcal.EventDateTime{Date: "2024-05-02"},
	}

	ev, ok := calendar.ConvertEvent(item, "Private", zone)
	require.True(t, ok)

	assert.True(t, ev.AllDay)
	// Date-only events are anchored at local midnight of the configured zone
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, zone), ev.Start)
}

func TestConvertEvent_FallsBackToEventID(t *testing.T) {
	item := &gcal.Event{
		Id:      "opaque-id-9",
		Summary: "Imported",
		Start:   &gcal.EventDateTime{DateTime: "2024-05-02T09:00:00Z"},
		End:     &gcal.EventDateTime{DateTime: "2024-05-02T09:30:00Z"},
	}

	ev, ok := calendar.ConvertEvent(item, "Work", time.UTC)
	require.True(t, ok)
	assert.Equal(t, "opaque-id-9", ev.ProviderID)
}

func TestConvertEvent_MissingEndDefaultsToStart(t *testing.T) {
	item := &gcal.Event{
		ICalUID: "x@google.com",
		Start:   &gcal.EventDateTime{DateTime: "2024-05-02T09:00:00Z"},
	}

	ev, ok := calendar.ConvertEvent(item, "Work", time.UTC)
	require.True(t, ok)
	assert.Equal(t, ev.Start, ev.End)
}

func TestConvertEvent_Skipped(t *testing.T) {
	tests := []struct {
		name string
		item *gcal.Event
	}{
		{"Nil", nil},
		{"Cancelled", &gcal.Event{Status: "cancelled", Start: &gcal.EventDateTime{DateTime: "2024-05-02T09:00:00Z"}}},
		{"NoStart", &gcal.Event{Summary: "broken"}},
		{"EmptyStart", &gcal.Event{Start: &gcal.EventDateTime{}}},
		{"UnparseableStart", &gcal.Event{Start: &gcal.EventDateTime{DateTime: "not-a-time"}}},
		{"UnparseableDate", &gcal.Event{Start: &gcal.EventDateTime{Date: "05/01/2024"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := calendar.ConvertEvent(tt.item, "Work", time.UTC)
			assert.False(t, ok)
		})
	}
}

func TestConfig_HasCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  calendar.Config
		want bool
	}{
		{"CredentialsFile", calendar.Config{CredentialsFile: "sa.json"}, true},
		{"TokenFile", calendar.Config{TokenFile: "token.json"}, true},
		{"None", calendar.Config{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.HasCredentials())
		})
	}
}
