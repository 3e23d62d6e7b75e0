package brief

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportClock = time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)

func TestRenderReportSections(t *testing.T) {
	r := NewRun("coral reefs", 5)
	r.Acquired = nItems(5)
	r.Filtered = nItems(3)
	r.Summary = "The reefs are declining."
	r.QualityScore = 0.83
	r.SearchRetries = 1
	r.SummaryRetries = 2
	r.Log("one")
	r.Log("two")

	report := renderReport(r, reportClock)

	assert.True(t, strings.HasPrefix(report, "# coral reefs — Research Brief\n"))
	assert.Contains(t, report, "**Generated**: 2026-08-29 15:04:05")
	assert.Contains(t, report, "**Sources**: 3 relevant results")
	assert.Contains(t, report, "**Quality score**: 0.83/1.00")
	assert.Contains(t, report, "## Summary\n\nThe reefs are declining.")
	assert.Contains(t, report, "## References")
	assert.Contains(t, report, "## Statistics")
	assert.Contains(t, report, "- Search results: 5")
	assert.Contains(t, report, "- Filtered results: 3")
	assert.Contains(t, report, "- Search retries: 1")
	assert.Contains(t, report, "- Summary regenerations: 2")
	assert.Contains(t, report, "- Logged events: 2")
}

func TestRenderReportEnumeratesReferencesInOrder(t *testing.T) {
	r := NewRun("topic", 3)
	r.Filtered = nItems(3)

	report := renderReport(r, reportClock)

	for i, item := range r.Filtered {
		entry := fmt.Sprintf("%d. **%s**", i+1, item.Title)
		assert.Contains(t, report, entry)
		assert.Contains(t, report, "URL: "+item.URL)
	}
	first := strings.Index(report, "1. **")
	second := strings.Index(report, "2. **")
	third := strings.Index(report, "3. **")
	assert.True(t, first < second && second < third)
}

func TestRenderReportPure(t *testing.T) {
	r := NewRun("topic", 3)
	r.Filtered = nItems(2)
	r.Summary = "summary"

	a := renderReport(r, reportClock)
	b := renderReport(r, reportClock)
	assert.Equal(t, a, b)
}

func TestRenderDegradedReport(t *testing.T) {
	r := NewRun("lost topic", 5)
	r.Acquired = nItems(5)
	r.SearchRetries = 3
	r.SetError("search failed: provider down")

	report := renderDegradedReport(r, reportClock)

	assert.True(t, strings.HasPrefix(report, "# lost topic — Processing Failed\n"))
	assert.Contains(t, report, "**Status**: failed")
	assert.Contains(t, report, "## Error\n\nsearch failed: provider down")
	assert.Contains(t, report, "- search: 5 results acquired")
	assert.Contains(t, report, "### First results")
	assert.NotContains(t, report, "4. ", "at most three items shown")
	assert.Contains(t, report, "- Search retries: 3/3")
	assert.Contains(t, report, "- Summary regenerations: 0/2")
	assert.Contains(t, report, "## Suggestions")
}

func TestRenderDegradedReportWithoutResults(t *testing.T) {
	r := NewRun("lost topic", 5)

	report := renderDegradedReport(r, reportClock)

	assert.Contains(t, report, "- search: no results acquired")
	assert.Contains(t, report, "unknown error")
	assert.NotContains(t, report, "- filter:")
}

func TestRenderDegradedReportShowsFilterProgress(t *testing.T) {
	r := NewRun("t", 5)
	r.Acquired = nItems(4)
	r.Filtered = nItems(2)
	r.SetError("later failure")

	report := renderDegradedReport(r, reportClock)
	require.Contains(t, report, "- filter: 2 relevant results")
}
