package source

import (
	"context"
	"sync"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/normalize"
)

// MockSource is a SnapshotSource for tests and demos.
type MockSource struct {
	// FetchFn controls the result. The default returns Input.
	FetchFn func(ctx context.Context, period model.DateRange) (normalize.Input, error)
	Input   normalize.Input

	// Periods records every requested period.
	Periods []model.DateRange
	mu      sync.Mutex
}

// Ensure MockSource implements SnapshotSource.
var _ SnapshotSource = (*MockSource)(nil)

// Name implements SnapshotSource.
func (m *MockSource) Name() string {
	return "mock"
}

// Fetch implements SnapshotSource.
func (m *MockSource) Fetch(ctx context.Context, period model.DateRange) (normalize.Input, error) {
	m.mu.Lock()
	m.Periods = append(m.Periods, period)
	m.mu.Unlock()

	if m.FetchFn != nil {
		return m.FetchFn(ctx, period)
	}
	return m.Input, nil
}

// Calls returns how many times Fetch was called.
func (m *MockSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Periods)
}
