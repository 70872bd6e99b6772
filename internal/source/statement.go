package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/normalize"
)

// DecodeStatement reads a statement payload. Numbers are kept as json.Number
// so the normalizer sees the exact decimal text.
func DecodeStatement(r io.Reader) (*normalize.Statement, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var st normalize.Statement
	if err := dec.Decode(&st); err != nil {
		return nil, fmt.Errorf("failed to decode statement: %w", err)
	}
	return &st, nil
}

// StatementFile is a JSON statement on disk.
type StatementFile struct {
	Path string
}

// Ensure StatementFile implements SnapshotSource.
var _ SnapshotSource = StatementFile{}

// Name implements SnapshotSource.
func (s StatementFile) Name() string {
	return "statement"
}

// Fetch implements SnapshotSource. The statement takes precedence over the
// requested period when it declares its own range.
func (s StatementFile) Fetch(_ context.Context, _ model.DateRange) (normalize.Input, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return normalize.Input{}, fmt.Errorf("failed to open statement: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close statement file", "path", s.Path, "error", closeErr)
		}
	}()

	st, err := DecodeStatement(f)
	if err != nil {
		return normalize.Input{}, err
	}

	slog.Debug("Loaded statement",
		"path", s.Path,
		"accounts", len(st.Accounts),
		"transactions", len(st.Transactions))

	return normalize.Input{Statement: st}, nil
}
