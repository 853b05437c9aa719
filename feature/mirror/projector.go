package mirror

import (
	"strings"
	"time"

	"notion-mirror/core/calendar"
	"notion-mirror/core/notion"
)

// PropertyNames maps the projected fields onto database property names.
type PropertyNames struct {
	Title       string
	Date        string
	Attendees   string
	Location    string
	Description string
	URL         string
	Calendar    string
	EventID     string
}

// DefaultPropertyNames returns the property names the mirror database is
// expected to carry.
func DefaultPropertyNames() PropertyNames {
	return PropertyNames{
		Title:       "Name",
		Date:        "Date",
		Attendees:   "Attendees",
		Location:    "Location",
		Description: "Description",
		URL:         "URL",
		Calendar:    "Calendar",
		EventID:     "EventId",
	}
}

const (
	// placeholderTitle stands in for events without a summary.
	placeholderTitle = "(no title)"
	// descriptionLimit bounds the projected description, in runes. Longer
	// text is cut and marked.
	descriptionLimit = 1900
	truncationMark   = "…"
	// attendeeLimit caps the projected attendee list.
	attendeeLimit = 50

	dateOnlyFormat  = "2006-01-02"
	utcMillisFormat = "2006-01-02T15:04:05.000Z"
)

// Projector turns calendar events into the property set of their mirror page.
type Projector struct {
	names PropertyNames
	tz    *time.Location
}

// NewProjector creates a projector. The timezone determines the calendar-local
// day a date-only event is written as.
func NewProjector(names PropertyNames, tz *time.Location) *Projector {
	if tz == nil {
		tz = time.UTC
	}
	return &Projector{names: names, tz: tz}
}

// Names returns the property names the projector writes.
func (p *Projector) Names() PropertyNames {
	return p.names
}

// Project maps one event onto the full property set of its page.
//
// The projection is total: degraded inputs are clamped or substituted, never
// rejected. Empty location, description and attendee values are projected as
// explicit empty values so stale remote content gets cleared on update.
func (p *Projector) Project(ev calendar.Event) notion.Properties {
	title := ev.Title
	if strings.TrimSpace(title) == "" {
		title = placeholderTitle
	}

	var date notion.DateValue
	if ev.AllDay {
		// Date-only events carry the calendar-local day with no end
		date = notion.DateValue{Start: ev.Start.In(p.tz).Format(dateOnlyFormat)}
	} else {
		date = notion.DateValue{
			Start: ev.Start.UTC().Format(utcMillisFormat),
			End:   ev.End.UTC().Format(utcMillisFormat),
		}
	}

	attendees := ev.Attendees
	if len(attendees) > attendeeLimit {
		attendees = attendees[:attendeeLimit]
	}

	description := ev.Description
	if runes := []rune(description); len(runes) > descriptionLimit {
		description = string(runes[:descriptionLimit]) + truncationMark
	}

	return notion.Properties{
		p.names.Title:       notion.Title(title),
		p.names.Date:        notion.Date(date),
		p.names.Attendees:   notion.MultiSelect(attendees...),
		p.names.Location:    notion.RichText(ev.Location),
		p.names.Description: notion.RichText(description),
		p.names.URL:         notion.URL(ev.HTMLLink),
		p.names.Calendar:    notion.Select(ev.Calendar),
		p.names.EventID:     notion.RichText(EventIdentity(ev)),
	}
}
