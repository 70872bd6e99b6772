package cli

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// BulkProgress tracks completed jobs of a bulk run on a progress bar.
type BulkProgress struct {
	bar       *progressbar.ProgressBar
	writer    io.Writer
	succeeded int
	failed    int
	mu        sync.Mutex
}

// NewBulkProgress creates a bar for total jobs writing to writer.
func NewBulkProgress(writer io.Writer, total int) *BulkProgress {
	p := &BulkProgress{writer: writer}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Generating reports...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[blue]=[reset]",
			SaucerHead:    "[blue]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return p
}

// Record counts one finished job.
func (p *BulkProgress) Record(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.failed++
	} else {
		p.succeeded++
	}
	if addErr := p.bar.Add(1); addErr != nil {
		slog.Warn("Failed to update progress bar", "error", addErr)
	}
}

// Counts returns the succeeded and failed totals so far.
func (p *BulkProgress) Counts() (succeeded, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.succeeded, p.failed
}

// Summary describes the run so far.
func (p *BulkProgress) Summary() string {
	succeeded, failed := p.Counts()
	return fmt.Sprintf("%d report(s) generated, %d failed", succeeded, failed)
}

// Finish closes the bar and prints the tally.
func (p *BulkProgress) Finish() {
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}

	succeeded, failed := p.Counts()
	line := FormatSuccess(p.Summary())
	if failed > 0 {
		line = FormatWarning(p.Summary())
	}
	if succeeded == 0 && failed > 0 {
		line = FormatError(p.Summary())
	}
	if _, err := fmt.Fprintln(p.writer, line); err != nil {
		slog.Warn("Failed to write bulk summary", "error", err)
	}
}
