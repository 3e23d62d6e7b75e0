package brief

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedModel replays canned replies, routed on the prompt's role line the
// same way a real model sees it. Running out of script is a test bug and
// surfaces as an error from Complete.
type scriptedModel struct {
	filter  []reply
	summary []reply

	filterIdx  int
	summaryIdx int

	prompts []string
}

type reply struct {
	text string
	err  error
}

func (m *scriptedModel) Complete(_ context.Context, req Completion) (string, error) {
	m.prompts = append(m.prompts, req.Prompt)
	switch {
	case strings.HasPrefix(req.Prompt, "You are an information filter"):
		return m.next(m.filter, &m.filterIdx)
	case strings.HasPrefix(req.Prompt, "You are an information summarizer"):
		return m.next(m.summary, &m.summaryIdx)
	default:
		return "", errors.New("unrecognized prompt")
	}
}

func (m *scriptedModel) next(list []reply, idx *int) (string, error) {
	if *idx >= len(list) {
		return "", errors.New("no scripted reply available")
	}
	r := list[*idx]
	*idx = *idx + 1
	return r.text, r.err
}

// scriptedSearch replays one canned outcome per Search call and records what
// it was asked for.
type scriptedSearch struct {
	outcomes []searchOutcome
	idx      int

	queries    []string
	maxResults []int
}

type searchOutcome struct {
	items []Item
	err   error
}

func (s *scriptedSearch) Search(_ context.Context, query string, maxResults int) ([]Item, error) {
	s.queries = append(s.queries, query)
	s.maxResults = append(s.maxResults, maxResults)
	if s.idx >= len(s.outcomes) {
		return nil, errors.New("no scripted search outcome available")
	}
	out := s.outcomes[s.idx]
	s.idx++
	return out.items, out.err
}

func nItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			Title:   "Result " + string(rune('A'+i)),
			URL:     "https://example.com/" + string(rune('a'+i)),
			Snippet: "snippet " + string(rune('a'+i)),
		}
	}
	return items
}

// goodSummary scores 1.0 for the given topic: three paragraphs, over 300
// runes, topic mentioned.
func goodSummary(topic string) string {
	para := strings.Repeat("Detailed findings about "+topic+". ", 5)
	return para + "\n" + para + "\n" + para
}

// testPipeline wires the fakes with an instant sleep so retry tests do not
// actually wait. Extra options append after the defaults.
func testPipeline(searcher SearchProvider, model LanguageModel, opts ...Option) (*Pipeline, *[]time.Duration) {
	var waits []time.Duration
	base := []Option{
		WithSearchProvider(searcher),
		WithLanguageModel(model),
		WithBackoffUnit(time.Millisecond),
	}
	p := New(append(base, opts...)...)
	p.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return p, &waits
}

func TestExecuteHappyPath(t *testing.T) {
	searcher := &scriptedSearch{outcomes: []searchOutcome{{items: nItems(5)}}}
	model := &scriptedModel{
		filter:  []reply{{text: "1,2,4"}},
		summary: []reply{{text: goodSummary("quantum computing")}},
	}

	p, waits := testPipeline(searcher, model)

	r, err := p.Execute(context.Background(), "quantum computing", 5)
	require.NoError(t, err)

	assert.Equal(t, StepFormat, r.Step)
	assert.Equal(t, SearchSuccess, r.SearchStatus)
	assert.Len(t, r.Acquired, 5)
	assert.Len(t, r.Filtered, 3)
	assert.Equal(t, 0, r.SearchRetries)
	assert.Equal(t, 0, r.SummaryRetries)
	assert.InDelta(t, 1.0, r.QualityScore, 1e-9)
	assert.Contains(t, r.Report, "# quantum computing — Research Brief")
	assert.Empty(t, *waits, "no retry, no backoff wait")
}

func TestExecuteSearchRetriesThenSucceeds(t *testing.T) {
	searcher := &scriptedSearch{outcomes: []searchOutcome{
		{err: errors.New("network down")},
		{items: nil}, // empty counts as failure too
		{items: nItems(4)},
	}}
	model := &scriptedModel{
		filter:  []reply{{text: "all"}},
		summary: []reply{{text: goodSummary("go generics")}},
	}

	p, waits := testPipeline(searcher, model)

	r, err := p.Execute(context.Background(), "go generics", 4)
	require.NoError(t, err)

	assert.Equal(t, StepFormat, r.Step)
	assert.Equal(t, 2, r.SearchRetries)
	assert.Len(t, searcher.queries, 3)
	// 2^1 and 2^2 backoff units before the two retried attempts.
	require.Len(t, *waits, 2)
	assert.Equal(t, 2*time.Millisecond, (*waits)[0])
	assert.Equal(t, 4*time.Millisecond, (*waits)[1])
}

func TestExecuteSearchExhaustedDegrades(t *testing.T) {
	fail := searchOutcome{err: errors.New("provider down")}
	searcher := &scriptedSearch{outcomes: []searchOutcome{fail, fail, fail, fail}}
	model := &scriptedModel{}

	p, _ := testPipeline(searcher, model)

	r, err := p.Execute(context.Background(), "unreachable topic", 5)
	require.NoError(t, err, "acquisition failure degrades, it does not error")

	assert.Equal(t, StepError, r.Step)
	assert.Equal(t, maxSearchRetries, r.SearchRetries)
	assert.Len(t, searcher.queries, 4, "initial attempt plus three retries")
	assert.Contains(t, r.Report, "Processing Failed")
	assert.Contains(t, r.Report, "provider down")
	assert.Empty(t, model.prompts, "model never consulted without results")
}

func TestExecuteExpandsOnInsufficientFilter(t *testing.T) {
	searcher := &scriptedSearch{outcomes: []searchOutcome{
		{items: nItems(5)},
		{items: nItems(10)},
	}}
	model := &scriptedModel{
		filter:  []reply{{text: "1,2"}, {text: "1,2,3,4"}},
		summary: []reply{{text: goodSummary("rust async")}},
	}

	p, _ := testPipeline(searcher, model)

	r, err := p.Execute(context.Background(), "rust async", 5)
	require.NoError(t, err)

	assert.Equal(t, StepFormat, r.Step)
	assert.True(t, r.Expanded)
	assert.Equal(t, 10, r.MaxResults, "result count doubled once")
	require.Len(t, searcher.maxResults, 2)
	assert.Equal(t, 5, searcher.maxResults[0])
	assert.Equal(t, 10, searcher.maxResults[1])
	assert.Len(t, r.Filtered, 4)
	assert.False(t, r.FilterLowered)
}

func TestExecuteLowersThresholdAfterExpansion(t *testing.T) {
	searcher := &scriptedSearch{outcomes: []searchOutcome{
		{items: nItems(5)},
		{items: nItems(10)},
	}}
	model := &scriptedModel{
		// Still insufficient after expanding; the third filter pass, run
		// with the relaxed threshold, finally keeps enough.
		filter:  []reply{{text: "1"}, {text: "2"}, {text: "1,2,3"}},
		summary: []reply{{text: goodSummary("ocean currents")}},
	}

	p, _ := testPipeline(searcher, model)

	r, err := p.Execute(context.Background(), "ocean currents", 5)
	require.NoError(t, err)

	assert.Equal(t, StepFormat, r.Step)
	assert.True(t, r.Expanded)
	assert.True(t, r.FilterLowered)
	assert.InDelta(t, defaultFilterThreshold*0.8, r.FilterThreshold, 1e-9)
	assert.Len(t, r.Filtered, 3)
}

func TestExecuteRegeneratesLowQualitySummary(t *testing.T) {
	searcher := &scriptedSearch{outcomes: []searchOutcome{{items: nItems(4)}}}
	model := &scriptedModel{
		filter: []reply{{text: "all"}},
		summary: []reply{
			{text: "too short"},
			{text: "still too short"},
			{text: "final attempt, still thin"},
		},
	}

	p, _ := testPipeline(searcher, model)

	r, err := p.Execute(context.Background(), "dark matter", 4)
	require.NoError(t, err)

	assert.Equal(t, StepFormat, r.Step, "regeneration exhausts into format, never degrade")
	assert.Equal(t, maxSummaryRetries, r.SummaryRetries)
	assert.Equal(t, "final attempt, still thin", r.Summary)
	assert.Less(t, r.QualityScore, qualityThreshold)
	assert.Contains(t, r.Report, "Research Brief", "low quality still yields a full report")

	// The retry prompts are the strict variant.
	require.Len(t, model.prompts, 4)
	assert.Contains(t, model.prompts[1], "at least 200 words")
	assert.Contains(t, model.prompts[2], "MUST be at least 300 words")
	assert.Contains(t, model.prompts[3], "MUST be at least 300 words")
}

func TestExecuteFilterFailsOpen(t *testing.T) {
	searcher := &scriptedSearch{outcomes: []searchOutcome{{items: nItems(4)}}}
	model := &scriptedModel{
		filter:  []reply{{err: errors.New("model timeout")}},
		summary: []reply{{text: goodSummary("solar flares")}},
	}

	p, _ := testPipeline(searcher, model)

	r, err := p.Execute(context.Background(), "solar flares", 4)
	require.NoError(t, err)

	assert.Equal(t, StepFormat, r.Step)
	assert.Equal(t, r.Acquired, r.Filtered, "filter fault keeps everything")
	assert.Empty(t, r.LastError, "fail-open is not recorded as a run error")
}

func TestExecuteSummaryModelFailure(t *testing.T) {
	searcher := &scriptedSearch{outcomes: []searchOutcome{{items: nItems(3)}}}
	model := &scriptedModel{
		filter: []reply{{text: "all"}},
		summary: []reply{
			{err: errors.New("model down")},
			{err: errors.New("model down")},
			{err: errors.New("model down")},
		},
	}

	p, _ := testPipeline(searcher, model)

	r, err := p.Execute(context.Background(), "plate tectonics", 3)
	require.NoError(t, err)

	assert.Equal(t, StepFormat, r.Step)
	assert.Equal(t, summaryFailurePlaceholder, r.Summary)
	assert.Zero(t, r.QualityScore)
	assert.Equal(t, maxSummaryRetries, r.SummaryRetries)
}

func TestExecuteStepCeiling(t *testing.T) {
	// Once expanded, an always-insufficient filter ping-pongs between
	// lowering the threshold and filtering again until the ceiling.
	searcher := &scriptedSearch{outcomes: []searchOutcome{
		{items: nItems(5)},
		{items: nItems(10)},
	}}
	model := &scriptedModel{
		filter: []reply{
			{text: "1"}, {text: "1"}, {text: "1"}, {text: "1"},
			{text: "1"}, {text: "1"}, {text: "1"}, {text: "1"},
		},
	}

	p, _ := testPipeline(searcher, model, WithMaxSteps(6))

	r, err := p.Execute(context.Background(), "looping topic", 5)
	require.NoError(t, err, "hitting the ceiling is a soft failure")

	assert.Empty(t, r.Report, "no terminal step reached, so no report")
	assert.True(t, r.Expanded)
	assert.True(t, r.FilterLowered)

	last := r.Events[len(r.Events)-1]
	assert.Contains(t, last.Message, "step limit (6) reached")
}

func TestExecuteInputValidation(t *testing.T) {
	searcher := &scriptedSearch{}
	model := &scriptedModel{}
	p, _ := testPipeline(searcher, model)

	_, err := p.Execute(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, ErrEmptyTopic)

	_, err = p.Execute(context.Background(), "topic", 0)
	assert.ErrorIs(t, err, ErrInvalidCount)

	_, err = p.Execute(context.Background(), "topic", -1)
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestExecuteMisconfiguredPipeline(t *testing.T) {
	_, err := New(WithLanguageModel(&scriptedModel{})).Execute(context.Background(), "t", 1)
	assert.ErrorIs(t, err, ErrNoSearcher)

	_, err = New(WithSearchProvider(&scriptedSearch{})).Execute(context.Background(), "t", 1)
	assert.ErrorIs(t, err, ErrNoModel)
}

func TestExecuteTrimsTopic(t *testing.T) {
	searcher := &scriptedSearch{outcomes: []searchOutcome{{items: nItems(3)}}}
	model := &scriptedModel{
		filter:  []reply{{text: "all"}},
		summary: []reply{{text: goodSummary("tidal power")}},
	}

	p, _ := testPipeline(searcher, model)

	r, err := p.Execute(context.Background(), "  tidal power  ", 3)
	require.NoError(t, err)

	assert.Equal(t, "tidal power", r.Topic)
	assert.Equal(t, "tidal power", searcher.queries[0])
}

func TestExecuteAbortedBackoffDegrades(t *testing.T) {
	searcher := &scriptedSearch{outcomes: []searchOutcome{
		{err: errors.New("down")},
		{err: errors.New("down")},
		{err: errors.New("down")},
		{err: errors.New("down")},
	}}
	model := &scriptedModel{}

	p, _ := testPipeline(searcher, model)
	p.sleep = func(ctx context.Context, _ time.Duration) error {
		return context.Canceled
	}

	r, err := p.Execute(context.Background(), "topic", 3)
	require.NoError(t, err)

	assert.Equal(t, StepError, r.Step)
	assert.Contains(t, r.LastError, "aborted while waiting")
}
