package brief

import (
	"fmt"
	"strings"
	"time"
)

const reportTimeLayout = "2006-01-02 15:04:05"

// renderReport assembles the final Markdown report from the run state:
// title, metadata, summary body, enumerated references and a statistics
// block. Pure: rendering the same run with the same timestamp yields the
// same document.
func renderReport(r *Run, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s — Research Brief\n\n", r.Topic)
	fmt.Fprintf(&b, "**Generated**: %s  \n", now.Format(reportTimeLayout))
	fmt.Fprintf(&b, "**Sources**: %d relevant results  \n", len(r.Filtered))
	fmt.Fprintf(&b, "**Quality score**: %.2f/1.00\n\n", r.QualityScore)
	b.WriteString("---\n\n## Summary\n\n")
	b.WriteString(r.Summary)
	b.WriteString("\n\n---\n\n## References\n\n")

	for i, item := range r.Filtered {
		fmt.Fprintf(&b, "%d. **%s**  \n", i+1, item.Title)
		fmt.Fprintf(&b, "   URL: %s  \n", item.URL)
		fmt.Fprintf(&b, "   Snippet: %s\n\n", item.Snippet)
	}

	b.WriteString("---\n\n## Statistics\n\n")
	fmt.Fprintf(&b, "- Search results: %d\n", len(r.Acquired))
	fmt.Fprintf(&b, "- Filtered results: %d\n", len(r.Filtered))
	fmt.Fprintf(&b, "- Search retries: %d\n", r.SearchRetries)
	fmt.Fprintf(&b, "- Summary regenerations: %d\n", r.SummaryRetries)
	fmt.Fprintf(&b, "- Logged events: %d\n", len(r.Events))

	return b.String()
}

// renderDegradedReport assembles the reduced failure report: a failure
// banner, the last error, up to the first three acquired items, and the
// retry counters.
func renderDegradedReport(r *Run, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s — Processing Failed\n\n", r.Topic)
	fmt.Fprintf(&b, "**Generated**: %s  \n", now.Format(reportTimeLayout))
	b.WriteString("**Status**: failed\n\n")

	b.WriteString("---\n\n## Error\n\n")
	if r.LastError != "" {
		b.WriteString(r.LastError)
	} else {
		b.WriteString("unknown error")
	}
	b.WriteString("\n\n---\n\n## Completed steps\n\n")

	if len(r.Acquired) > 0 {
		fmt.Fprintf(&b, "- search: %d results acquired\n\n", len(r.Acquired))
		b.WriteString("### First results\n\n")
		for i, item := range r.Acquired {
			if i >= 3 {
				break
			}
			fmt.Fprintf(&b, "%d. %s  \n   %s\n\n", i+1, item.Title, item.URL)
		}
	} else {
		b.WriteString("- search: no results acquired\n")
	}
	if len(r.Filtered) > 0 {
		fmt.Fprintf(&b, "- filter: %d relevant results\n", len(r.Filtered))
	}

	b.WriteString("\n---\n\n## Retry statistics\n\n")
	fmt.Fprintf(&b, "- Search retries: %d/%d\n", r.SearchRetries, maxSearchRetries)
	fmt.Fprintf(&b, "- Summary regenerations: %d/%d\n", r.SummaryRetries, maxSummaryRetries)

	b.WriteString("\n---\n\n## Suggestions\n\n")
	b.WriteString("1. Check the network connection.\n")
	b.WriteString("2. Try rephrasing the topic.\n")
	b.WriteString("3. Try again later.\n")

	return b.String()
}
