package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatePromptBuilder_AllSections(t *testing.T) {
	pb, err := NewTemplatePromptBuilder()
	require.NoError(t, err)

	sigs := ExtractSignals(mustSnapshot(t), true)
	period := Period{StartDate: periodStart, EndDate: periodStart.AddDate(0, 0, 90), Timeframe: "90d", Days: 90}

	for _, kind := range append(BaseSections(), DetailedSections()...) {
		t.Run(string(kind), func(t *testing.T) {
			prompt, err := pb.BuildSectionPrompt(PromptData{
				Signals: sigs,
				Kind:    kind,
				Title:   kind.Title(),
				UserID:  "user-1",
				Period:  period,
			})
			require.NoError(t, err)

			assert.Contains(t, prompt, `"`+kind.Title()+`"`)
			assert.Contains(t, prompt, "2024-04-01 to 2024-06-30 (90 days, timeframe 90d)")
			assert.Equal(t, strings.TrimSpace(prompt), prompt)
			assert.NotContains(t, prompt, "<no value>")
		})
	}
}

func TestTemplatePromptBuilder_Figures(t *testing.T) {
	pb, err := NewTemplatePromptBuilder()
	require.NoError(t, err)

	sigs := ExtractSignals(mustSnapshot(t), true)

	build := func(kind SectionKind) string {
		prompt, err := pb.BuildSectionPrompt(PromptData{Signals: sigs, Kind: kind, Title: kind.Title()})
		require.NoError(t, err)
		return prompt
	}

	assert.Contains(t, build(SectionAccountSummary), "$7950.75")
	assert.Contains(t, build(SectionBehavior), "- Housing: 1 transactions, $1950.00")
	assert.Contains(t, build(SectionRecurring), "NETFLIX.COM")
	assert.Contains(t, build(SectionBackendRules), "rewards")
}

func TestTemplatePromptBuilder_Errors(t *testing.T) {
	pb, err := NewTemplatePromptBuilder()
	require.NoError(t, err)

	_, err = pb.BuildSectionPrompt(PromptData{Kind: SectionRisk})
	require.Error(t, err)

	// Detailed sections were not computed.
	_, err = pb.BuildSectionPrompt(PromptData{Kind: SectionTravel, Signals: ExtractSignals(mustSnapshot(t), false)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not computed")
}

func TestTemplateHelpers(t *testing.T) {
	assert.Equal(t, "$12.50", formatAmount(12.5))
	assert.Equal(t, "-$3.10", formatAmount(-3.1))
	assert.Equal(t, "12.3%", formatPercent(12.34))
	assert.Equal(t, "161", formatDays(161.49))
	assert.Equal(t, "abc", truncate("abc", 5))
}
