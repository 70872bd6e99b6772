package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/common"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/normalize"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/timeframe"
)

// Generate builds one user's report from in. Oracle failures never fail the
// report; they are logged and replaced with fallback prose. Errors are
// returned only for an empty snapshot or an inverted date range.
func (e *Engine) Generate(ctx context.Context, req Request, in normalize.Input) (*Report, error) {
	now := e.deps.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = e.deps.NewID()
	}

	tf := strings.TrimSpace(req.Timeframe)
	if tf == "" {
		tf = timeframe.Default
	}
	if _, ok := timeframe.Parse(tf); !ok {
		e.deps.Logger.Debug("Unrecognized timeframe, using default window",
			"timeframe", tf, "request_id", requestID)
		tf = timeframe.Default
	}
	resolved := timeframe.Resolve(tf, now)

	if req.Statement != nil && in.Statement == nil {
		in.Statement = req.Statement
	}

	snapshot, err := normalize.Normalize(in, normalize.Options{
		User:      req.UserID,
		Timeframe: tf,
		Period:    resolved,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to normalize data for %s: %w", req.UserID, err)
	}

	sigs := ExtractSignals(snapshot, req.IncludeDetailed)
	period := periodOf(snapshot)

	kinds := BaseSections()
	if req.IncludeDetailed {
		kinds = append(kinds, DetailedSections()...)
	}

	sections := e.narrate(ctx, requestID, req.UserID, kinds, sigs, period)

	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = FormatJSON
	}

	report := &Report{
		ID:        e.deps.NewID(),
		RequestID: requestID,
		UserID:    req.UserID,
		Generated: now,
		Title:     e.config.Title,
		Format:    format,
		Period:    period,
		Sections:  sections,
		Summary:   sigs.Summary(),
	}

	e.deps.Logger.Info("Report generated",
		"request_id", requestID,
		"user", req.UserID,
		"sections", len(sections),
		"fallback_sections", report.FallbackCount(),
		"transactions", len(snapshot.Transactions))

	return report, nil
}

func periodOf(s *model.Snapshot) Period {
	return Period{
		StartDate: s.DateRange.StartDate,
		EndDate:   s.DateRange.EndDate,
		Timeframe: s.Timeframe,
		Days:      s.DateRange.DaysInPeriod(),
	}
}

// narrate calls the oracle once per section, concurrently, and places each
// result at its section's fixed index.
func (e *Engine) narrate(ctx context.Context, requestID, userID string, kinds []SectionKind, sigs *Signals, period Period) []Section {
	sections := make([]Section, len(kinds))

	var g errgroup.Group
	g.SetLimit(e.config.MaxConcurrency)

	for i, kind := range kinds {
		g.Go(func() error {
			sections[i] = e.buildSection(ctx, requestID, userID, i, kind, sigs, period)
			return nil
		})
	}
	_ = g.Wait()

	return sections
}

func (e *Engine) buildSection(ctx context.Context, requestID, userID string, index int, kind SectionKind, sigs *Signals, period Period) Section {
	section := Section{
		ID:      kind,
		Order:   index + 1,
		Title:   kind.Title(),
		Metrics: sigs.Metrics(kind),
	}

	text, err := e.callOracle(ctx, requestID, userID, kind, sigs, period)
	if err != nil {
		e.deps.Logger.Warn("Oracle failed, using fallback content",
			"section", kind,
			"request_id", requestID,
			"error", err)
		section.Content = FallbackContent(kind, sigs)
		section.Fallback = true
		return section
	}

	section.Content = text
	return section
}

func (e *Engine) callOracle(ctx context.Context, requestID, userID string, kind SectionKind, sigs *Signals, period Period) (string, error) {
	if e.deps.Oracle == nil {
		return "", common.ErrOracleUnavailable
	}

	prompt, err := e.deps.PromptBuilder.BuildSectionPrompt(PromptData{
		Kind:    kind,
		Title:   kind.Title(),
		UserID:  userID,
		Period:  period,
		Signals: sigs,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, e.config.OracleTimeout)
	defer cancel()

	resp, err := e.generateSafely(callCtx, OracleRequest{
		Prompt:      prompt,
		RequestID:   requestID,
		SectionKind: kind,
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", common.ErrEmptyOracleResponse
	}
	return text, nil
}

// generateSafely calls the oracle, converting a panic into an error and
// giving up when ctx expires even if the oracle ignores it.
func (e *Engine) generateSafely(ctx context.Context, req OracleRequest) (OracleResponse, error) {
	type result struct {
		resp OracleResponse
		err  error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("oracle panicked: %v", r)}
			}
		}()
		resp, err := e.deps.Oracle.Generate(ctx, req)
		done <- result{resp: resp, err: err}
	}()

	select {
	case r := <-done:
		return r.resp, r.err
	case <-ctx.Done():
		err := ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			return OracleResponse{}, fmt.Errorf("oracle timed out after %s: %w", e.config.OracleTimeout.Round(time.Millisecond), err)
		}
		return OracleResponse{}, err
	}
}
