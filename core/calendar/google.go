package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleSource implements Source over the Google Calendar API.
type GoogleSource struct {
	service *gcal.Service
	tz      *time.Location
	log     *zap.Logger
}

var _ Source = (*GoogleSource)(nil)

// NewGoogleSource builds an authenticated calendar service from one of the
// configured credential modes. The timezone is used to anchor date-only
// events to an instant.
func NewGoogleSource(ctx context.Context, cfg Config, tz *time.Location, log *zap.Logger) (*GoogleSource, error) {
	var opts []option.ClientOption

	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts,
			option.WithCredentialsFile(cfg.CredentialsFile),
			option.WithScopes(gcal.CalendarReadonlyScope),
		)
	case cfg.TokenFile != "":
		token, err := tokenFromFile(cfg.TokenFile)
		if err != nil {
			return nil, fmt.Errorf("could not load calendar token from %s: %w", cfg.TokenFile, err)
		}
		oauthCfg := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gcal.CalendarReadonlyScope},
		}
		opts = append(opts, option.WithHTTPClient(oauthCfg.Client(ctx, token)))
	default:
		return nil, errors.New("no calendar credentials configured")
	}

	service, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &GoogleSource{service: service, tz: tz, log: log}, nil
}

// Calendars returns the calendars visible to the connected account.
func (s *GoogleSource) Calendars(ctx context.Context) ([]Info, error) {
	list, err := s.service.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	infos := make([]Info, 0, len(list.Items))
	for _, item := range list.Items {
		infos = append(infos, Info{ID: item.Id, Summary: item.Summary})
	}
	return infos, nil
}

// Events lists one calendar's events inside [from, to) with recurring events
// expanded, following NextPageToken until the listing is complete.
func (s *GoogleSource) Events(ctx context.Context, cal Info, from, to time.Time) ([]Event, error) {
	var events []Event
	pageToken := ""

	for {
		call := s.service.Events.List(cal.ID).
			ShowDeleted(false).
			SingleEvents(true).
			TimeMin(from.Format(time.RFC3339)).
			TimeMax(to.Format(time.RFC3339)).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list events for calendar %s: %w", cal.ID, err)
		}

		for _, item := range resp.Items {
			ev, ok := ConvertEvent(item, cal.Summary, s.tz)
			if !ok {
				s.log.Debug("Skipping event without usable start",
					zap.String("calendar", cal.ID),
					zap.String("event_id", item.Id),
				)
				continue
			}
			events = append(events, ev)
		}

		if resp.NextPageToken == "" {
			return events, nil
		}
		pageToken = resp.NextPageToken
	}
}

// ConvertEvent maps one API event onto the internal model. The second return
// is false when the event carries no usable start (cancelled occurrences and
// date-less entries) and has to be skipped.
func ConvertEvent(item *gcal.Event, origin string, tz *time.Location) (Event, bool) {
	if item == nil || item.Status == "cancelled" || item.Start == nil {
		return Event{}, false
	}

	ev := Event{
		ProviderID:  item.ICalUID,
		Title:       item.Summary,
		Description: item.Description,
		Location:    item.Location,
		Calendar:    origin,
		HTMLLink:    item.HtmlLink,
	}
	// Some entries (e.g. imported ones) come without an iCalendar UID
	if ev.ProviderID == "" {
		ev.ProviderID = item.Id
	}

	switch {
	case item.Start.DateTime != "":
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return Event{}, false
		}
		ev.Start = start
		if item.End != nil && item.End.DateTime != "" {
			if end, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil {
				ev.End = end
			}
		}
		if ev.End.IsZero() {
			ev.End = ev.Start
		}
	case item.Start.Date != "":
		start, err := time.ParseInLocation("2006-01-02", item.Start.Date, tz)
		if err != nil {
			return Event{}, false
		}
		ev.Start = start
		ev.End = start
		ev.AllDay = true
	default:
		return Event{}, false
	}

	for _, a := range item.Attendees {
		if a.Email != "" {
			ev.Attendees = append(ev.Attendees, a.Email)
		}
	}

	return ev, true
}

// tokenFromFile retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}
