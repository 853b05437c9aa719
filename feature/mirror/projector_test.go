package mirror_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"notion-mirror/core/calendar"
	"notion-mirror/core/notion"
	"notion-mirror/feature/mirror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjector_Project(t *testing.T) {
	names := mirror.DefaultPropertyNames()

	t.Run("TimedEvent", func(t *testing.T) {
		p := mirror.NewProjector(names, time.UTC)

		props := p.Project(calendar.Event{
			ProviderID:  "abc123@google.com",
			Title:       "Team Sync",
			Description: "Weekly alignment",
			Location:    "HQ / Room 2",
			Start:       time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
			End:         time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			Attendees:   []string{"ana@example.com", "ben@example.com"},
			Calendar:    "Work",
			HTMLLink:    "https://calendar.google.com/event?eid=abc",
		})

		assert.Equal(t, notion.Title("Team Sync"), props["Name"])
		assert.Equal(t, notion.Date(notion.DateValue{
			Start: "2024-05-01T09:00:00.000Z",
			End:   "2024-05-01T10:00:00.000Z",
		}), props["Date"])
		assert.Equal(t, notion.MultiSelect("ana@example.com", "ben@example.com"), props["Attendees"])
		assert.Equal(t, notion.RichText("HQ / Room 2"), props["Location"])
		assert.Equal(t, notion.RichText("Weekly alignment"), props["Description"])
		assert.Equal(t, notion.URL("https://calendar.google.com/event?eid=abc"), props["URL"])
		assert.Equal(t, notion.Select("Work"), props["Calendar"])
		assert.Equal(t, notion.RichText("abc123"), props["EventId"])
	})

	t.Run("TimedEventNormalizesToUTC", func(t *testing.T) {
		berlin, err := time.LoadLocation("Europe/Berlin")
		require.NoError(t, err)
		p := mirror.NewProjector(names, berlin)

		props := p.Project(calendar.Event{
			ProviderID: "abc123@google.com",
			Title:      "Team Sync",
			Start:      time.Date(2024, 5, 1, 11, 0, 0, 0, berlin),
			End:        time.Date(2024, 5, 1, 12, 30, 0, 0, berlin),
		})

		assert.Equal(t, notion.Date(notion.DateValue{
			Start: "2024-05-01T09:00:00.000Z",
			End:   "2024-05-01T10:30:00.000Z",
		}), props["Date"])
	})

	t.Run("AllDayEvent", func(t *testing.T) {
		berlin, err := time.LoadLocation("Europe/Berlin")
		require.NoError(t, err)
		p := mirror.NewProjector(names, berlin)

		// Midnight Berlin arrives as 22:00 UTC of the previous day; the
		// projected date must stay the calendar-local one.
		props := p.Project(calendar.Event{
			ProviderID: "holiday-1@google.com",
			Title:      "Holiday",
			Start:      time.Date(2024, 4, 30, 22, 0, 0, 0, time.UTC),
			AllDay:     true,
		})

		assert.Equal(t, notion.Date(notion.DateValue{Start: "2024-05-01"}), props["Date"])
	})

	t.Run("EmptyFieldsStayExplicit", func(t *testing.T) {
		p := mirror.NewProjector(names, time.UTC)

		props := p.Project(calendar.Event{
			ProviderID: "holiday-1@google.com",
			Title:      "Holiday",
			Start:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			AllDay:     true,
		})

		assert.Equal(t, notion.RichText(""), props["Location"])
		assert.Equal(t, notion.RichText(""), props["Description"])
		assert.Equal(t, notion.URL(""), props["URL"])
		assert.Equal(t, notion.MultiSelect(), props["Attendees"])
	})

	t.Run("BlankTitleGetsPlaceholder", func(t *testing.T) {
		p := mirror.NewProjector(names, time.UTC)

		for _, title := range []string{"", "   ", "\t\n"} {
			props := p.Project(calendar.Event{
				ProviderID: "x@google.com",
				Title:      title,
				Start:      time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
				End:        time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			})
			assert.Equal(t, notion.Title("(no title)"), props["Name"])
		}
	})

	t.Run("LongDescriptionTruncated", func(t *testing.T) {
		p := mirror.NewProjector(names, time.UTC)

		props := p.Project(calendar.Event{
			ProviderID:  "x@google.com",
			Title:       "Notes",
			Description: strings.Repeat("ü", 1900) + "TAIL",
			Start:       time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
			End:         time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		})

		assert.Equal(t, notion.RichText(strings.Repeat("ü", 1900)+"…"), props["Description"])
	})

	t.Run("DescriptionAtLimitUntouched", func(t *testing.T) {
		p := mirror.NewProjector(names, time.UTC)
		text := strings.Repeat("a", 1900)

		props := p.Project(calendar.Event{
			ProviderID:  "x@google.com",
			Title:       "Notes",
			Description: text,
			Start:       time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
			End:         time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		})

		assert.Equal(t, notion.RichText(text), props["Description"])
	})

	t.Run("AttendeesCapped", func(t *testing.T) {
		p := mirror.NewProjector(names, time.UTC)

		guests := make([]string, 55)
		for i := range guests {
			guests[i] = fmt.Sprintf("guest-%02d@example.com", i)
		}

		props := p.Project(calendar.Event{
			ProviderID: "x@google.com",
			Title:      "All hands",
			Start:      time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
			End:        time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			Attendees:  guests,
		})

		require.Len(t, props["Attendees"].MultiSelect, 50)
		assert.Equal(t, "guest-00@example.com", props["Attendees"].MultiSelect[0])
		assert.Equal(t, "guest-49@example.com", props["Attendees"].MultiSelect[49])
	})
}
