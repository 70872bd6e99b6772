// Package source loads account and transaction snapshots from external
// providers and files, ready for normalization.
package source

import (
	"context"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/normalize"
)

// SnapshotSource fetches the raw records for one report.
// This interface allows for easy mocking in tests and swapping data sources.
type SnapshotSource interface {
	// Fetch returns the accounts and transactions covering period. Sources
	// that carry their own statement period may report it in Input.DateRange.
	Fetch(ctx context.Context, period model.DateRange) (normalize.Input, error)
	// Name identifies the source in logs.
	Name() string
}
