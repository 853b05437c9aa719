package mirror

import (
	"context"
	"fmt"
	"strings"
	"time"

	"notion-mirror/core/calendar"
	"notion-mirror/core/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Settings carries the run parameters the service applies to every run.
type Settings struct {
	// Timezone anchors month boundaries and the rolling horizon.
	Timezone *time.Location
	// LookaheadDays bounds the rolling window's horizon.
	LookaheadDays int
	// Calendars restricts mirroring to the listed calendar IDs or names.
	// Empty mirrors every calendar visible to the account.
	Calendars []string
}

// Service owns the two reconciliation entry points. Each call performs one
// complete, self-contained run: both sides are queried live and nothing
// carries over to the next call.
type Service struct {
	source  calendar.Source
	rec     *Reconciler
	archive *ReportArchive // nil when report archiving is disabled
	set     Settings
	log     *zap.Logger
	now     func() time.Time
}

// NewService creates the reconciliation service.
func NewService(source calendar.Source, rec *Reconciler, archive *ReportArchive, set Settings, log *zap.Logger) *Service {
	if set.Timezone == nil {
		set.Timezone = time.UTC
	}
	if set.LookaheadDays <= 0 {
		set.LookaheadDays = 40
	}
	return &Service{
		source:  source,
		rec:     rec,
		archive: archive,
		set:     set,
		log:     log,
		now:     time.Now,
	}
}

// FullResync mirrors the current calendar month: the window spans from the
// first of the month to the first of the next month.
func (s *Service) FullResync(ctx context.Context) (*Report, error) {
	now := s.now().In(s.set.Timezone)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.set.Timezone)
	end := start.AddDate(0, 1, 0)
	return s.run(ctx, ModeFull, start, end)
}

// RollingSync mirrors the window from the first of the current month up to
// the lookahead horizon counted from the start of today.
func (s *Service) RollingSync(ctx context.Context) (*Report, error) {
	now := s.now().In(s.set.Timezone)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.set.Timezone)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.set.Timezone)
	end := today.AddDate(0, 0, s.set.LookaheadDays)
	return s.run(ctx, ModeRolling, start, end)
}

func (s *Service) run(ctx context.Context, mode Mode, start, end time.Time) (*Report, error) {
	runID := uuid.NewString()
	l := logger.WithRunID(s.log, runID)

	l.Info("Starting reconciliation run",
		zap.String("mode", string(mode)),
		zap.Time("window_start", start),
		zap.Time("window_end", end),
	)
	startedAt := s.now()

	events, err := s.collectEvents(ctx, l, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to collect calendar events: %w", err)
	}

	report, runErr := s.rec.Run(ctx, events, start, end)
	report.RunID = runID
	report.Mode = mode
	report.StartedAt = startedAt
	report.FinishedAt = s.now()

	l.Info("Reconciliation run finished",
		zap.Int("events", report.Events),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("archived", report.Archived),
		zap.Int("failed", report.Failed),
	)

	if s.archive != nil {
		// Archiving the report is best-effort; the run result stands either way
		if err := s.archive.Save(ctx, report); err != nil {
			l.Warn("Failed to archive run report", zap.Error(err))
		}
	}

	return report, runErr
}

// collectEvents gathers the events of every selected calendar for the window.
func (s *Service) collectEvents(ctx context.Context, l *zap.Logger, start, end time.Time) ([]calendar.Event, error) {
	infos, err := s.source.Calendars(ctx)
	if err != nil {
		return nil, err
	}

	var events []calendar.Event
	selected := 0
	for _, info := range infos {
		if !s.calendarSelected(info) {
			continue
		}
		selected++

		evs, err := s.source.Events(ctx, info, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to list events of calendar %s: %w", info.ID, err)
		}
		events = append(events, evs...)
	}

	l.Info("Collected calendar events",
		zap.Int("calendars", selected),
		zap.Int("events", len(events)),
	)
	return events, nil
}

func (s *Service) calendarSelected(info calendar.Info) bool {
	if len(s.set.Calendars) == 0 {
		return true
	}
	for _, want := range s.set.Calendars {
		if want == info.ID || strings.EqualFold(want, info.Summary) {
			return true
		}
	}
	return false
}
