package mirror

import (
	"context"
	"fmt"
	"time"

	"notion-mirror/core/calendar"
	"notion-mirror/core/notion"

	"go.uber.org/zap"
)

// Reconciler drives one reconciliation pass over a window: upsert a page for
// every event, then archive the in-range pages no event claims. The two
// phases run strictly in that order and only once per run; no state survives
// between runs.
type Reconciler struct {
	store     notion.Store
	projector *Projector
	log       *zap.Logger
}

// NewReconciler creates a reconciler writing through the given store.
func NewReconciler(store notion.Store, projector *Projector, log *zap.Logger) *Reconciler {
	return &Reconciler{
		store:     store,
		projector: projector,
		log:       log,
	}
}

// Run reconciles the event set against the pages of the window. Per-identity
// failures are collected into the report instead of aborting the batch; the
// returned error is non-nil when any of them failed, or when a whole phase
// could not run.
func (r *Reconciler) Run(ctx context.Context, events []calendar.Event, windowStart, windowEnd time.Time) (*Report, error) {
	report := &Report{
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Events:      len(events),
	}
	names := r.projector.Names()

	// The schema is fetched once per run; every projected record is pruned
	// against it so a remotely removed field cannot fail the writes.
	schema, err := r.store.SchemaFieldNames(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to load database schema: %w", err)
	}

	// Upsert phase
	r.log.Info("Upserting events", zap.Int("events", len(events)))

	live := make(map[string]struct{}, len(events))
	for _, ev := range events {
		identity := EventIdentity(ev)
		if _, dup := live[identity]; dup {
			// Two events collapsing onto one identity: either the weak
			// fallback identity collided or the provider delivered a
			// duplicate. The later event wins the page content.
			r.log.Warn("Identity collision inside one run",
				zap.String("identity", identity),
				zap.String("title", ev.Title),
			)
		}
		live[identity] = struct{}{}

		kind, err := r.upsert(ctx, ev, identity, names, schema)
		if err != nil {
			r.log.Error("Failed to upsert event",
				zap.String("identity", identity),
				zap.Error(err),
			)
			report.record(Outcome{Identity: identity, Kind: OutcomeFailed, Error: err.Error()})
			continue
		}
		report.record(Outcome{Identity: identity, Kind: kind})
	}

	// Archive phase: everything in the window that no current event claims
	r.log.Info("Archiving stale pages")

	pages, err := r.store.QueryByDateRange(ctx, names.Date, windowStart, windowEnd)
	if err != nil {
		return report, fmt.Errorf("failed to query window pages: %w", err)
	}

	for _, page := range pages {
		if page.Archived {
			continue
		}
		identity := page.Properties[names.EventID].PlainText()
		if identity != "" {
			if _, ok := live[identity]; ok {
				continue
			}
		}
		// Pages without a readable identity cannot belong to any current
		// event and are archived as well.
		if err := r.store.ArchivePage(ctx, page.ID); err != nil {
			r.log.Error("Failed to archive page",
				zap.String("page_id", page.ID),
				zap.Error(err),
			)
			report.record(Outcome{Identity: identity, Kind: OutcomeFailed, Error: err.Error()})
			continue
		}
		report.record(Outcome{Identity: identity, Kind: OutcomeArchived})
	}

	if report.Failed > 0 {
		return report, fmt.Errorf("%d of %d operations failed", report.Failed, len(report.Outcomes))
	}
	return report, nil
}

// upsert projects and writes a single event: update when a page already
// carries the identity, create otherwise.
func (r *Reconciler) upsert(ctx context.Context, ev calendar.Event, identity string, names PropertyNames, schema map[string]struct{}) (OutcomeKind, error) {
	props := PruneToSchema(r.projector.Project(ev), schema)

	page, err := r.store.FindByIdentity(ctx, names.EventID, identity)
	if err != nil {
		return "", err
	}

	if page != nil {
		if err := r.store.UpdatePage(ctx, page.ID, props); err != nil {
			return "", err
		}
		return OutcomeUpdated, nil
	}

	if err := r.store.CreatePage(ctx, props); err != nil {
		return "", err
	}
	return OutcomeCreated, nil
}
