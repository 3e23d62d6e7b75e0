package brief

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// buildFilterPrompt lists every acquired item and asks the model to pick
// the ones relevant to the topic by 1-based index.
func buildFilterPrompt(topic string, items []Item) string {
	var b strings.Builder
	b.WriteString("You are an information filter. Decide which of the search results below are relevant to the topic \"")
	b.WriteString(topic)
	b.WriteString("\".\n\nSearch results:\n")
	for i, item := range items {
		b.WriteString(fmt.Sprintf("%d. Title: %s\n", i+1, strings.TrimSpace(item.Title)))
		b.WriteString(fmt.Sprintf("   Snippet: %s\n", strings.TrimSpace(item.Snippet)))
	}
	b.WriteString("\nReply with the relevant result numbers separated by commas, for example: 1,3,5\n")
	b.WriteString("If every result is relevant, reply exactly: all\n")
	b.WriteString("If no result is relevant, reply exactly: none\n")
	b.WriteString("Reply with the numbers only, no explanation.")
	return b.String()
}

// buildSummaryPrompt asks the model for a summary of the filtered items.
// Retry attempts demand a longer and more detailed summary with a stricter
// minimum length than the first attempt.
func buildSummaryPrompt(topic string, items []Item, retry int) string {
	var b strings.Builder
	if retry == 0 {
		b.WriteString("You are an information summarizer. Based on the sources below, write a thorough summary report on \"")
		b.WriteString(topic)
		b.WriteString("\".\n")
	} else {
		b.WriteString("You are an information summarizer. Based on the sources below, write a very detailed summary report on \"")
		b.WriteString(topic)
		b.WriteString("\".\n")
	}
	b.WriteString("\nSources:\n")
	for i, item := range items {
		b.WriteString(fmt.Sprintf("\n[Source %d]\n", i+1))
		b.WriteString(fmt.Sprintf("Title: %s\n", strings.TrimSpace(item.Title)))
		b.WriteString(fmt.Sprintf("URL: %s\n", strings.TrimSpace(item.URL)))
		b.WriteString(fmt.Sprintf("Content: %s\n", strings.TrimSpace(item.Snippet)))
	}
	if retry == 0 {
		b.WriteString("\nRequirements:\n")
		b.WriteString("1. Cover all key information from the sources.\n")
		b.WriteString("2. Use a clear paragraph structure.\n")
		b.WriteString("3. Write at least 200 words.\n")
		b.WriteString("4. Highlight the most important points.\n")
	} else {
		b.WriteString("\nStrict requirements:\n")
		b.WriteString("1. The summary MUST be at least 300 words.\n")
		b.WriteString("2. Organize it into paragraphs, each with a clear theme.\n")
		b.WriteString("3. Include concrete details: figures, dates, names.\n")
		b.WriteString("4. Analyze connections and trends across the sources.\n")
		b.WriteString("5. Keep the language precise and professional.\n")
	}
	b.WriteString("\nWrite the summary:")
	return b.String()
}

var (
	allRegex   = regexp.MustCompile(`(?i)\ball\b`)
	noneRegex  = regexp.MustCompile(`(?i)\bnone\b`)
	digitRegex = regexp.MustCompile(`\d+`)
)

// parseSelection reads the model's filter reply and returns 0-based indices
// into a slice of length n.
//
// The reply is heuristic free-form text, so the policy is explicit: an "all"
// marker selects everything and wins over anything else in the reply, a
// "none" marker selects nothing, and otherwise every integer in [1, n] is
// taken as a 1-based index. Markers match whole words only, duplicates keep
// their first occurrence, and out-of-range numbers are dropped.
func parseSelection(reply string, n int) []int {
	if allRegex.MatchString(reply) {
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}
	if noneRegex.MatchString(reply) {
		return nil
	}

	var indices []int
	seen := make(map[int]bool)
	for _, m := range digitRegex.FindAllString(reply, -1) {
		v, err := strconv.Atoi(m)
		if err != nil || v < 1 || v > n {
			continue
		}
		if seen[v-1] {
			continue
		}
		seen[v-1] = true
		indices = append(indices, v-1)
	}
	return indices
}
