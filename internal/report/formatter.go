package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/common"
)

// PDFRenderer turns a report into PDF bytes.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, r *Report) ([]byte, error)
}

// Formatter serializes reports into the supported output formats.
type Formatter struct {
	// PDFRenderer is optional. Without it, pdf requests yield the JSON
	// envelope marked as pending.
	PDFRenderer PDFRenderer
	html        *template.Template
}

// NewFormatter creates a formatter. pdf may be nil.
func NewFormatter(pdf PDFRenderer) *Formatter {
	return &Formatter{
		PDFRenderer: pdf,
		html:        template.Must(template.New("report").Funcs(htmlFuncs).Parse(htmlTemplate)),
	}
}

// Format renders r in the requested format.
func (f *Formatter) Format(ctx context.Context, r *Report, format string) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("cannot format nil report")
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		return f.formatJSON(r)
	case FormatHTML:
		return f.formatHTML(r)
	case FormatPDF:
		return f.formatPDF(ctx, r)
	default:
		return nil, fmt.Errorf("format %q: %w", format, common.ErrUnsupportedFormat)
	}
}

func (f *Formatter) formatJSON(r *Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return data, nil
}

func (f *Formatter) formatHTML(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.html.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("failed to render HTML report: %w", err)
	}
	return buf.Bytes(), nil
}

func (f *Formatter) formatPDF(ctx context.Context, r *Report) ([]byte, error) {
	if f.PDFRenderer != nil {
		data, err := f.PDFRenderer.RenderPDF(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("failed to render PDF report: %w", err)
		}
		return data, nil
	}

	pending := *r
	pending.Format = FormatPDF
	pending.IsPdfPending = true
	return f.formatJSON(&pending)
}

var htmlFuncs = template.FuncMap{
	// lines splits content so the template can escape each line and join with <br>.
	"lines": func(s string) []string {
		return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	},
	"date": func(p Period) string {
		if p.IsAllTime() {
			return "All time"
		}
		return p.StartDate.Format("Jan 2, 2006") + " to " + p.EndDate.Format("Jan 2, 2006")
	},
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; max-width: 48rem; margin: 2rem auto; color: #222; }
h1 { color: #c0392b; }
.period { color: #666; }
.section { margin-top: 1.5rem; }
.fallback { border-left: 3px solid #f1c40f; padding-left: .75rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="period">{{date .Period}} ({{.Period.Days}} days)</p>
{{- range .Sections}}
<div class="section{{if .Fallback}} fallback{{end}}" id="{{.ID}}">
<h2>{{.Title}}</h2>
<p>{{range $i, $line := lines .Content}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
</div>
{{- end}}
</body>
</html>
`
