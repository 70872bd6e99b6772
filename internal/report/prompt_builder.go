package report

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// PromptBuilder renders the oracle prompt for one section.
type PromptBuilder interface {
	BuildSectionPrompt(data PromptData) (string, error)
}

// PromptData is the input to a section prompt.
type PromptData struct {
	Signals *Signals
	Kind    SectionKind
	Title   string
	UserID  string
	Period  Period
}

// TemplatePromptBuilder renders prompts from the embedded templates, one per section kind.
type TemplatePromptBuilder struct {
	templates *template.Template
}

// Ensure TemplatePromptBuilder implements PromptBuilder.
var _ PromptBuilder = (*TemplatePromptBuilder)(nil)

// NewTemplatePromptBuilder parses the embedded templates.
func NewTemplatePromptBuilder() (*TemplatePromptBuilder, error) {
	funcMap := template.FuncMap{
		"formatAmount":  formatAmount,
		"formatDate":    formatDate,
		"formatPercent": formatPercent,
		"formatDays":    formatDays,
		"truncate":      truncate,
		"join":          strings.Join,
	}

	tmpl, err := template.New("prompts").Funcs(funcMap).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt templates: %w", err)
	}

	for _, kind := range append(BaseSections(), DetailedSections()...) {
		if tmpl.Lookup(templateName(kind)) == nil {
			return nil, fmt.Errorf("missing prompt template for section %s", kind)
		}
	}

	return &TemplatePromptBuilder{templates: tmpl}, nil
}

func templateName(kind SectionKind) string {
	return string(kind) + ".tmpl"
}

// BuildSectionPrompt renders the prompt for data.Kind.
func (pb *TemplatePromptBuilder) BuildSectionPrompt(data PromptData) (string, error) {
	if data.Signals == nil {
		return "", fmt.Errorf("no signals for section %s", data.Kind)
	}
	if data.Signals.Metrics(data.Kind) == nil {
		return "", fmt.Errorf("section %s was not computed", data.Kind)
	}

	var buf bytes.Buffer
	if err := pb.templates.ExecuteTemplate(&buf, templateName(data.Kind), data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", data.Kind, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Template helper functions

func formatAmount(amount float64) string {
	if amount < 0 {
		return fmt.Sprintf("-$%.2f", -amount)
	}
	return fmt.Sprintf("$%.2f", amount)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

func formatDays(d float64) string {
	return fmt.Sprintf("%.0f", d)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
