package mocks

import (
	"context"
	"time"

	"notion-mirror/core/notion"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of notion.Store
type Store struct {
	mock.Mock
}

func (m *Store) FindByIdentity(ctx context.Context, identityProp, identity string) (*notion.Page, error) {
	args := m.Called(ctx, identityProp, identity)
	if page, ok := args.Get(0).(*notion.Page); ok {
		return page, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) QueryByDateRange(ctx context.Context, dateProp string, start, end time.Time) ([]notion.Page, error) {
	args := m.Called(ctx, dateProp, start, end)
	if pages, ok := args.Get(0).([]notion.Page); ok {
		return pages, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) CreatePage(ctx context.Context, props notion.Properties) error {
	args := m.Called(ctx, props)
	return args.Error(0)
}

func (m *Store) UpdatePage(ctx context.Context, pageID string, props notion.Properties) error {
	args := m.Called(ctx, pageID, props)
	return args.Error(0)
}

func (m *Store) ArchivePage(ctx context.Context, pageID string) error {
	args := m.Called(ctx, pageID)
	return args.Error(0)
}

func (m *Store) SchemaFieldNames(ctx context.Context) (map[string]struct{}, error) {
	args := m.Called(ctx)
	if names, ok := args.Get(0).(map[string]struct{}); ok {
		return names, args.Error(1)
	}
	return nil, args.Error(1)
}
