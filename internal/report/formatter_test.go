package report

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/common"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/timeframe"
)

type stubPDF struct {
	data []byte
	err  error
}

func (s stubPDF) RenderPDF(context.Context, *Report) ([]byte, error) {
	return s.data, s.err
}

func sampleReport() *Report {
	return &Report{
		ID:        "rep-1",
		RequestID: "req-1",
		UserID:    "user-1",
		Title:     "Financial Intelligence Report",
		Format:    FormatJSON,
		Generated: fixedNow,
		Period: Period{
			StartDate: periodStart,
			EndDate:   periodStart.AddDate(0, 0, 90),
			Timeframe: "90d",
			Days:      90,
		},
		Sections: []Section{
			{ID: SectionAccountSummary, Title: "Account Summary", Order: 1, Content: "Line one.\nLine <two> & more."},
			{ID: SectionRisk, Title: "Liquidity & Risk", Order: 2, Content: "No risks.", Fallback: true},
		},
		Summary: Summary{Income: 7950.75},
	}
}

func TestFormatter_JSON(t *testing.T) {
	f := NewFormatter(nil)

	for _, format := range []string{"json", "", " JSON "} {
		data, err := f.Format(context.Background(), sampleReport(), format)
		require.NoError(t, err)

		var decoded Report
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "rep-1", decoded.ID)
		assert.False(t, decoded.IsPdfPending)
		assert.NotContains(t, string(data), "isPdfPending")
		require.Len(t, decoded.Sections, 2)
		assert.True(t, decoded.Sections[1].Fallback)
	}
}

func TestFormatter_HTML(t *testing.T) {
	data, err := NewFormatter(nil).Format(context.Background(), sampleReport(), FormatHTML)
	require.NoError(t, err)

	html := string(data)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<title>Financial Intelligence Report</title>")
	assert.Contains(t, html, "Apr 1, 2024 to Jun 30, 2024")
	assert.Contains(t, html, "Line one.<br>Line &lt;two&gt; &amp; more.")
	assert.Contains(t, html, "Liquidity &amp; Risk")
	assert.Contains(t, html, `class="section fallback"`)
	assert.NotContains(t, html, "<two>")
}

func TestFormatter_PDF(t *testing.T) {
	t.Run("pending without renderer", func(t *testing.T) {
		r := sampleReport()
		data, err := NewFormatter(nil).Format(context.Background(), r, FormatPDF)
		require.NoError(t, err)

		var decoded Report
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, decoded.IsPdfPending)
		assert.Equal(t, FormatPDF, decoded.Format)
		assert.False(t, r.IsPdfPending, "input report must not be mutated")
	})

	t.Run("renderer bytes", func(t *testing.T) {
		data, err := NewFormatter(stubPDF{data: []byte("%PDF-1.7")}).Format(context.Background(), sampleReport(), FormatPDF)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.7"), data)
	})

	t.Run("renderer error", func(t *testing.T) {
		_, err := NewFormatter(stubPDF{err: errors.New("no fonts")}).Format(context.Background(), sampleReport(), FormatPDF)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no fonts")
	})
}

func TestFormatter_Errors(t *testing.T) {
	f := NewFormatter(nil)

	_, err := f.Format(context.Background(), sampleReport(), "docx")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)

	_, err = f.Format(context.Background(), nil, FormatJSON)
	require.Error(t, err)
}

func TestFormatter_HTMLAllTime(t *testing.T) {
	r := sampleReport()
	r.Period = Period{
		StartDate: timeframe.Epoch,
		EndDate:   time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		Timeframe: "all",
		Days:      8948,
	}

	data, err := NewFormatter(nil).Format(context.Background(), r, FormatHTML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "All time")
	assert.NotContains(t, string(data), "Jan 1, 2000")
}

func TestGenerate_AllTimeframeRendersAsAllTime(t *testing.T) {
	engine := newTestEngine(t, echoOracle(), nil)

	in := householdInput()
	in.DateRange = nil

	r, err := engine.Generate(context.Background(), Request{UserID: "u", Timeframe: "all"}, in)
	require.NoError(t, err)
	require.True(t, r.Period.StartDate.Equal(timeframe.Epoch))
	assert.True(t, r.Period.IsAllTime())

	data, err := NewFormatter(nil).Format(context.Background(), r, FormatHTML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "All time")

	assert.Contains(t, TerminalFormatter{}.Render(r), "all time")
}

func TestPeriod_IsAllTime(t *testing.T) {
	end := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, Period{StartDate: timeframe.Epoch, EndDate: end, Timeframe: "all"}.IsAllTime())
	assert.True(t, Period{StartDate: timeframe.Epoch, EndDate: end, Timeframe: "9000d"}.IsAllTime())
	assert.True(t, Period{EndDate: end}.IsAllTime())
	assert.False(t, Period{StartDate: end.AddDate(0, 0, -30), EndDate: end, Timeframe: "30d"}.IsAllTime())
}
