package brief

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Step identifies a node of the pipeline state machine. The set is closed:
// the driver dispatches through an exhaustive switch and stops on anything
// it does not recognize.
type Step string

const (
	StepStart     Step = "start"
	StepSearch    Step = "search"
	StepFilter    Step = "filter"
	StepSummarize Step = "summarize"
	StepFormat    Step = "format"
	StepDegrade   Step = "degrade"
	// StepError is what a degraded run records as its current step.
	StepError Step = "error"

	stepEnd Step = "end"
)

// SearchStatus reports the outcome of the most recent search attempt.
type SearchStatus string

const (
	SearchPending SearchStatus = "pending"
	SearchSuccess SearchStatus = "success"
	SearchFailed  SearchStatus = "failed"
)

const (
	maxSearchRetries  = 3
	maxSummaryRetries = 2
	minFilteredItems  = 3
	qualityThreshold  = 0.7

	defaultFilterThreshold = 0.7
)

// Event is one timestamped entry in a run's event log. The log is pure
// data: rendering to a console or a logger happens elsewhere.
type Event struct {
	At      time.Time
	Message string
}

func (e Event) String() string {
	return fmt.Sprintf("[%s] %s", e.At.Format("15:04:05"), e.Message)
}

// Run holds the evolving state of a single pipeline execution. It is owned
// by exactly one Execute call and must not be shared between concurrent
// runs. All mutation goes through the helper methods below so the counter
// bounds and the append-only event log hold throughout the run.
type Run struct {
	ID    string
	Topic string

	// MaxResults is the requested result count; doubled once if the
	// pipeline widens its search.
	MaxResults int

	Step Step

	Acquired      []Item
	SearchStatus  SearchStatus
	SearchRetries int
	Expanded      bool

	Filtered        []Item
	FilterThreshold float64
	FilterLowered   bool

	Summary        string
	SummaryRetries int
	QualityScore   float64

	Report    string
	LastError string

	Events []Event

	now func() time.Time
}

// NewRun creates the state for one execution of the pipeline.
func NewRun(topic string, maxResults int) *Run {
	return &Run{
		ID:              uuid.NewString(),
		Topic:           strings.TrimSpace(topic),
		MaxResults:      maxResults,
		Step:            StepStart,
		SearchStatus:    SearchPending,
		FilterThreshold: defaultFilterThreshold,
		now:             time.Now,
	}
}

// Log appends a timestamped entry to the event log.
func (r *Run) Log(message string) {
	r.Events = append(r.Events, Event{At: r.timestamp(), Message: message})
}

// Logf appends a formatted entry to the event log.
func (r *Run) Logf(format string, args ...any) {
	r.Log(fmt.Sprintf(format, args...))
}

// IncrementSearchRetry advances the search retry counter. Past the bound it
// is a no-op and returns false; callers are expected to have consulted the
// retry guard first.
func (r *Run) IncrementSearchRetry() bool {
	if r.SearchRetries >= maxSearchRetries {
		return false
	}
	r.SearchRetries++
	r.Logf("search retry %d/%d", r.SearchRetries, maxSearchRetries)
	return true
}

// IncrementSummaryRetry advances the summary regeneration counter, capped
// at its bound.
func (r *Run) IncrementSummaryRetry() bool {
	if r.SummaryRetries >= maxSummaryRetries {
		return false
	}
	r.SummaryRetries++
	r.Logf("summary regeneration %d/%d", r.SummaryRetries, maxSummaryRetries)
	return true
}

// ExpandSearch doubles the requested result count and marks the run
// expanded. Only the first call has any effect.
func (r *Run) ExpandSearch() {
	if r.Expanded {
		return
	}
	r.MaxResults *= 2
	r.Expanded = true
	r.Logf("expanded search to %d results", r.MaxResults)
}

// LowerFilterThreshold relaxes the filter by multiplying the threshold by
// 0.8. The threshold only ever decreases.
func (r *Run) LowerFilterThreshold() {
	r.FilterThreshold *= 0.8
	r.FilterLowered = true
	r.Logf("lowered filter threshold to %.2f", r.FilterThreshold)
}

// SetError records the most recent failure and logs it.
func (r *Run) SetError(message string) {
	r.LastError = message
	r.Logf("error: %s", message)
}

func (r *Run) timestamp() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

// Snapshot is a compact view of a run's state for debugging and monitoring.
type Snapshot struct {
	ID            string
	Topic         string
	Step          Step
	SearchStatus  SearchStatus
	SearchRetries int
	AcquiredCount int
	FilteredCount int
	SummaryLength int
	QualityScore  float64
	HasError      bool
}

// Snapshot renders the compact state view.
func (r *Run) Snapshot() Snapshot {
	return Snapshot{
		ID:            r.ID,
		Topic:         r.Topic,
		Step:          r.Step,
		SearchStatus:  r.SearchStatus,
		SearchRetries: r.SearchRetries,
		AcquiredCount: len(r.Acquired),
		FilteredCount: len(r.Filtered),
		SummaryLength: len(r.Summary),
		QualityScore:  r.QualityScore,
		HasError:      r.LastError != "",
	}
}
