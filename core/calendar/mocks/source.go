package mocks

import (
	"context"
	"time"

	"notion-mirror/core/calendar"

	"github.com/stretchr/testify/mock"
)

// Source is a mock implementation of calendar.Source
type Source struct {
	mock.Mock
}

func (m *Source) Calendars(ctx context.Context) ([]calendar.Info, error) {
	args := m.Called(ctx)
	if infos, ok := args.Get(0).([]calendar.Info); ok {
		return infos, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Source) Events(ctx context.Context, cal calendar.Info, from, to time.Time) ([]calendar.Event, error) {
	args := m.Called(ctx, cal, from, to)
	if events, ok := args.Get(0).([]calendar.Event); ok {
		return events, args.Error(1)
	}
	return nil, args.Error(1)
}
