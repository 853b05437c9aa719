package mirror_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"notion-mirror/core/calendar"
	"notion-mirror/core/notion"
	"notion-mirror/core/notion/mocks"
	"notion-mirror/feature/mirror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	windowStart = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
)

// defaultSchema mirrors a database that carries every projected property.
func defaultSchema() map[string]struct{} {
	names := mirror.DefaultPropertyNames()
	return map[string]struct{}{
		names.Title:       {},
		names.Date:        {},
		names.Attendees:   {},
		names.Location:    {},
		names.Description: {},
		names.URL:         {},
		names.Calendar:    {},
		names.EventID:     {},
	}
}

func newTestReconciler(store *mocks.Store) *mirror.Reconciler {
	projector := mirror.NewProjector(mirror.DefaultPropertyNames(), time.UTC)
	return mirror.NewReconciler(store, projector, zap.NewNop())
}

func timedEvent(uid, title string) calendar.Event {
	return calendar.Event{
		ProviderID: uid,
		Title:      title,
		Start:      time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC),
	}
}

func mirrorPage(id, identity string) notion.Page {
	return notion.Page{
		ID: id,
		Properties: notion.Properties{
			"EventId": notion.RichText(identity),
		},
	}
}

func hasIdentity(identity string) any {
	return mock.MatchedBy(func(p notion.Properties) bool {
		return p["EventId"].PlainText() == identity
	})
}

func TestReconciler_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesPageForNewEvent", func(t *testing.T) {
		mockStore := new(mocks.Store)
		mockStore.On("SchemaFieldNames", mock.Anything).Return(defaultSchema(), nil)
		mockStore.On("FindByIdentity", mock.Anything, "EventId", "abc123").Return(nil, nil)
		mockStore.On("CreatePage", mock.Anything, hasIdentity("abc123")).Return(nil)
		mockStore.On("QueryByDateRange", mock.Anything, "Date", windowStart, windowEnd).Return([]notion.Page{}, nil)

		events := []calendar.Event{timedEvent("abc123@google.com", "Team Sync")}
		report, err := newTestReconciler(mockStore).Run(ctx, events, windowStart, windowEnd)

		require.NoError(t, err)
		assert.Equal(t, 1, report.Created)
		assert.Equal(t, 0, report.Updated)
		assert.Equal(t, []mirror.Outcome{{Identity: "abc123", Kind: mirror.OutcomeCreated}}, report.Outcomes)
		mockStore.AssertExpectations(t)
	})

	t.Run("UpdatesPageForKnownEvent", func(t *testing.T) {
		existing := mirrorPage("page-1", "abc123")

		mockStore := new(mocks.Store)
		mockStore.On("SchemaFieldNames", mock.Anything).Return(defaultSchema(), nil)
		mockStore.On("FindByIdentity", mock.Anything, "EventId", "abc123").Return(&existing, nil)
		mockStore.On("UpdatePage", mock.Anything, "page-1", hasIdentity("abc123")).Return(nil)
		mockStore.On("QueryByDateRange", mock.Anything, "Date", windowStart, windowEnd).Return([]notion.Page{existing}, nil)

		events := []calendar.Event{timedEvent("abc123@google.com", "Team Sync")}
		report, err := newTestReconciler(mockStore).Run(ctx, events, windowStart, windowEnd)

		require.NoError(t, err)
		assert.Equal(t, 1, report.Updated)
		assert.Equal(t, 0, report.Created)
		assert.Equal(t, 0, report.Archived)
		mockStore.AssertNotCalled(t, "CreatePage", mock.Anything, mock.Anything)
	})

	t.Run("ArchivesUnclaimedPages", func(t *testing.T) {
		mockStore := new(mocks.Store)
		mockStore.On("SchemaFieldNames", mock.Anything).Return(defaultSchema(), nil)
		mockStore.On("FindByIdentity", mock.Anything, "EventId", "keep").Return(nil, nil)
		mockStore.On("CreatePage", mock.Anything, mock.Anything).Return(nil)

		pages := []notion.Page{
			mirrorPage("page-keep", "keep"),
			mirrorPage("page-stale", "gone"),
			{ID: "page-already", Archived: true, Properties: notion.Properties{"EventId": notion.RichText("old")}},
			{ID: "page-opaque", Properties: notion.Properties{}},
		}
		mockStore.On("QueryByDateRange", mock.Anything, "Date", windowStart, windowEnd).Return(pages, nil)
		mockStore.On("ArchivePage", mock.Anything, "page-stale").Return(nil)
		mockStore.On("ArchivePage", mock.Anything, "page-opaque").Return(nil)

		events := []calendar.Event{timedEvent("keep@google.com", "Kept")}
		report, err := newTestReconciler(mockStore).Run(ctx, events, windowStart, windowEnd)

		require.NoError(t, err)
		assert.Equal(t, 2, report.Archived)
		mockStore.AssertExpectations(t)
		mockStore.AssertNotCalled(t, "ArchivePage", mock.Anything, "page-keep")
		mockStore.AssertNotCalled(t, "ArchivePage", mock.Anything, "page-already")
	})

	t.Run("ContinuesPastFailures", func(t *testing.T) {
		mockStore := new(mocks.Store)
		mockStore.On("SchemaFieldNames", mock.Anything).Return(defaultSchema(), nil)
		mockStore.On("FindByIdentity", mock.Anything, "EventId", "boom").Return(nil, nil)
		mockStore.On("CreatePage", mock.Anything, hasIdentity("boom")).Return(errors.New("page write rejected"))
		mockStore.On("FindByIdentity", mock.Anything, "EventId", "ok").Return(nil, nil)
		mockStore.On("CreatePage", mock.Anything, hasIdentity("ok")).Return(nil)
		mockStore.On("QueryByDateRange", mock.Anything, "Date", windowStart, windowEnd).
			Return([]notion.Page{mirrorPage("page-stale", "gone")}, nil)
		mockStore.On("ArchivePage", mock.Anything, "page-stale").Return(nil)

		events := []calendar.Event{
			timedEvent("boom@google.com", "Failing"),
			timedEvent("ok@google.com", "Fine"),
		}
		report, err := newTestReconciler(mockStore).Run(ctx, events, windowStart, windowEnd)

		assert.EqualError(t, err, "1 of 3 operations failed")
		assert.Equal(t, 1, report.Failed)
		assert.Equal(t, 1, report.Created)
		assert.Equal(t, 1, report.Archived)
		require.Len(t, report.Outcomes, 3)
		assert.Equal(t, mirror.Outcome{
			Identity: "boom",
			Kind:     mirror.OutcomeFailed,
			Error:    "page write rejected",
		}, report.Outcomes[0])
	})

	t.Run("ArchiveFailureRecorded", func(t *testing.T) {
		mockStore := new(mocks.Store)
		mockStore.On("SchemaFieldNames", mock.Anything).Return(defaultSchema(), nil)
		mockStore.On("QueryByDateRange", mock.Anything, "Date", windowStart, windowEnd).
			Return([]notion.Page{mirrorPage("page-stale", "gone")}, nil)
		mockStore.On("ArchivePage", mock.Anything, "page-stale").Return(errors.New("rate limited"))

		report, err := newTestReconciler(mockStore).Run(ctx, nil, windowStart, windowEnd)

		assert.EqualError(t, err, "1 of 1 operations failed")
		assert.Equal(t, []mirror.Outcome{{
			Identity: "gone",
			Kind:     mirror.OutcomeFailed,
			Error:    "rate limited",
		}}, report.Outcomes)
	})

	t.Run("LaterDuplicateWins", func(t *testing.T) {
		created := mirrorPage("page-dup", "dup")

		mockStore := new(mocks.Store)
		mockStore.On("SchemaFieldNames", mock.Anything).Return(defaultSchema(), nil)
		mockStore.On("FindByIdentity", mock.Anything, "EventId", "dup").Return(nil, nil).Once()
		mockStore.On("CreatePage", mock.Anything, mock.Anything).Return(nil).Once()
		mockStore.On("FindByIdentity", mock.Anything, "EventId", "dup").Return(&created, nil).Once()
		mockStore.On("UpdatePage", mock.Anything, "page-dup", mock.MatchedBy(func(p notion.Properties) bool {
			return p["Name"].PlainText() == "Second"
		})).Return(nil)
		mockStore.On("QueryByDateRange", mock.Anything, "Date", windowStart, windowEnd).Return([]notion.Page{}, nil)

		events := []calendar.Event{
			timedEvent("dup@google.com", "First"),
			timedEvent("dup@google.com", "Second"),
		}
		report, err := newTestReconciler(mockStore).Run(ctx, events, windowStart, windowEnd)

		require.NoError(t, err)
		assert.Equal(t, 1, report.Created)
		assert.Equal(t, 1, report.Updated)
		mockStore.AssertExpectations(t)
	})

	t.Run("SchemaFailureAborts", func(t *testing.T) {
		mockStore := new(mocks.Store)
		mockStore.On("SchemaFieldNames", mock.Anything).Return(nil, errors.New("database not shared with integration"))

		events := []calendar.Event{timedEvent("abc123@google.com", "Team Sync")}
		report, err := newTestReconciler(mockStore).Run(ctx, events, windowStart, windowEnd)

		assert.ErrorContains(t, err, "failed to load database schema")
		assert.Empty(t, report.Outcomes)
		mockStore.AssertNotCalled(t, "FindByIdentity", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("WindowQueryFailureKeepsUpserts", func(t *testing.T) {
		mockStore := new(mocks.Store)
		mockStore.On("SchemaFieldNames", mock.Anything).Return(defaultSchema(), nil)
		mockStore.On("FindByIdentity", mock.Anything, "EventId", "abc123").Return(nil, nil)
		mockStore.On("CreatePage", mock.Anything, mock.Anything).Return(nil)
		mockStore.On("QueryByDateRange", mock.Anything, "Date", windowStart, windowEnd).
			Return(nil, errors.New("service unavailable"))

		events := []calendar.Event{timedEvent("abc123@google.com", "Team Sync")}
		report, err := newTestReconciler(mockStore).Run(ctx, events, windowStart, windowEnd)

		assert.ErrorContains(t, err, "failed to query window pages")
		assert.Equal(t, 1, report.Created)
		mockStore.AssertNotCalled(t, "ArchivePage", mock.Anything, mock.Anything)
	})

	t.Run("PrunesToRemoteSchema", func(t *testing.T) {
		mockStore := new(mocks.Store)
		mockStore.On("SchemaFieldNames", mock.Anything).Return(map[string]struct{}{
			"Name":    {},
			"Date":    {},
			"EventId": {},
		}, nil)
		mockStore.On("FindByIdentity", mock.Anything, "EventId", "abc123").Return(nil, nil)
		mockStore.On("CreatePage", mock.Anything, mock.MatchedBy(func(p notion.Properties) bool {
			_, hasURL := p["URL"]
			_, hasLocation := p["Location"]
			return len(p) == 3 && !hasURL && !hasLocation
		})).Return(nil)
		mockStore.On("QueryByDateRange", mock.Anything, "Date", windowStart, windowEnd).Return([]notion.Page{}, nil)

		events := []calendar.Event{timedEvent("abc123@google.com", "Team Sync")}
		_, err := newTestReconciler(mockStore).Run(ctx, events, windowStart, windowEnd)

		require.NoError(t, err)
		mockStore.AssertExpectations(t)
	})
}
