package brief

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Fixed summaries used when there is nothing to summarize or the model
// call fails. Both carry a zero quality score.
const (
	noInformationPlaceholder  = "No relevant information was found."
	summaryFailurePlaceholder = "Summary generation failed."
)

// searchStep asks the search provider for items on the run's topic. A
// retried attempt waits 2^retries backoff units first. An error, a nil
// result and an empty result all count as a failed acquisition.
func (p *Pipeline) searchStep(ctx context.Context, r *Run) {
	r.Step = StepSearch
	r.Logf("searching for %q, up to %d results (attempt %d)", r.Topic, r.MaxResults, r.SearchRetries+1)

	if r.SearchRetries > 0 {
		wait := p.backoffUnit << r.SearchRetries
		r.Logf("waiting %s before retry", wait)
		if err := p.sleep(ctx, wait); err != nil {
			r.SearchStatus = SearchFailed
			r.SetError(fmt.Sprintf("search aborted while waiting: %v", err))
			return
		}
	}

	cctx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	items, err := p.searcher.Search(cctx, r.Topic, r.MaxResults)
	switch {
	case err != nil:
		r.SearchStatus = SearchFailed
		r.SetError(fmt.Sprintf("search failed: %v", err))
		p.logger.Warn("search failed", zap.String("run_id", r.ID), zap.Error(err))
	case len(items) == 0:
		r.SearchStatus = SearchFailed
		r.SetError("search returned no results")
	default:
		r.Acquired = items
		r.SearchStatus = SearchSuccess
		r.Logf("search succeeded with %d results", len(items))
	}
}

// filterStep asks the model which acquired items are relevant to the topic.
// A model fault fails open: discarding nothing beats discarding everything.
func (p *Pipeline) filterStep(ctx context.Context, r *Run) {
	r.Step = StepFilter

	if len(r.Acquired) == 0 {
		r.Filtered = nil
		r.Log("no search results, skipping filter")
		return
	}

	r.Logf("filtering %d results, threshold %.2f", len(r.Acquired), r.FilterThreshold)

	cctx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	reply, err := p.model.Complete(cctx, Completion{
		Prompt:      buildFilterPrompt(r.Topic, r.Acquired),
		Temperature: p.filterTemperature,
		MaxTokens:   p.filterMaxTokens,
	})
	if err != nil {
		r.Filtered = append([]Item(nil), r.Acquired...)
		r.Logf("filter model failed (%v), keeping all %d results", err, len(r.Acquired))
		p.logger.Warn("filter model failed", zap.String("run_id", r.ID), zap.Error(err))
		return
	}

	indices := parseSelection(reply, len(r.Acquired))
	filtered := make([]Item, 0, len(indices))
	for _, i := range indices {
		filtered = append(filtered, r.Acquired[i])
	}
	r.Filtered = filtered
	r.Logf("kept %d of %d results", len(r.Filtered), len(r.Acquired))
}

// summarizeStep asks the model for a summary of the filtered items and
// scores the result. Retry attempts use a stricter prompt.
func (p *Pipeline) summarizeStep(ctx context.Context, r *Run) {
	r.Step = StepSummarize

	if len(r.Filtered) == 0 {
		r.Summary = noInformationPlaceholder
		r.QualityScore = 0
		r.Log("no filtered results, nothing to summarize")
		return
	}

	r.Logf("summarizing %d results (attempt %d)", len(r.Filtered), r.SummaryRetries+1)

	cctx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	text, err := p.model.Complete(cctx, Completion{
		Prompt:      buildSummaryPrompt(r.Topic, r.Filtered, r.SummaryRetries),
		Temperature: p.summaryTemperature,
		MaxTokens:   p.summaryMaxTokens,
	})
	if err != nil {
		r.Summary = summaryFailurePlaceholder
		r.QualityScore = 0
		r.Logf("summary model failed: %v", err)
		p.logger.Warn("summary model failed", zap.String("run_id", r.ID), zap.Error(err))
		return
	}

	r.Summary = strings.TrimSpace(text)
	r.QualityScore = scoreSummary(r.Summary, r.Topic)
	r.Logf("summary has %d chars, quality %.2f", utf8.RuneCountInString(r.Summary), r.QualityScore)
}

// formatStep assembles the final Markdown report. Pure function of the run
// state and the clock; no external call.
func (p *Pipeline) formatStep(r *Run) {
	r.Step = StepFormat
	r.Report = renderReport(r, p.now())
	r.Logf("report generated, %d chars", len(r.Report))
}

// degradeStep assembles the reduced failure report. No external call.
func (p *Pipeline) degradeStep(r *Run) {
	r.Step = StepError
	r.Report = renderDegradedReport(r, p.now())
	r.Log("degraded report generated")
}

// scoreSummary grades a summary on length, paragraph structure and topic
// relevance. Partial scores sum and cap at 1.0.
func scoreSummary(summary, topic string) float64 {
	score := 0.0

	switch length := utf8.RuneCountInString(summary); {
	case length >= 300:
		score += 0.5
	case length >= 200:
		score += 0.3
	case length >= 100:
		score += 0.1
	}

	paragraphs := 0
	for _, line := range strings.Split(summary, "\n") {
		if strings.TrimSpace(line) != "" {
			paragraphs++
		}
	}
	switch {
	case paragraphs >= 3:
		score += 0.3
	case paragraphs >= 2:
		score += 0.2
	}

	if strings.Contains(summary, topic) {
		score += 0.2
	}

	return math.Min(score, 1.0)
}
