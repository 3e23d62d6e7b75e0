package brief

import (
	"time"

	"go.uber.org/zap"
)

const (
	defaultMaxSteps    = 50
	defaultCallTimeout = 30 * time.Second
	defaultBackoffUnit = time.Second

	defaultFilterTemperature  = 0.3
	defaultFilterMaxTokens    = 200
	defaultSummaryTemperature = 0.7
	defaultSummaryMaxTokens   = 1500
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSearchProvider sets the search implementation.
func WithSearchProvider(searcher SearchProvider) Option {
	return func(p *Pipeline) { p.searcher = searcher }
}

// WithLanguageModel sets the text generation implementation.
func WithLanguageModel(model LanguageModel) Option {
	return func(p *Pipeline) { p.model = model }
}

// WithLogger sets the structured logger. The default logger discards
// everything; the run's own event log is kept either way.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMaxSteps sets the driver's step ceiling. A run that has not reached a
// terminal step by then stops and returns its partial state.
func WithMaxSteps(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxSteps = n
		}
	}
}

// WithCallTimeout sets the deadline applied to each external search or
// model call. An exceeded deadline is treated like any other call failure.
func WithCallTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.callTimeout = d
		}
	}
}

// WithBackoffUnit sets the base unit of the exponential wait before a
// retried search. The nth retry waits 2^n units.
func WithBackoffUnit(d time.Duration) Option {
	return func(p *Pipeline) {
		if d >= 0 {
			p.backoffUnit = d
		}
	}
}

// WithFilterSampling sets the model parameters for the filtering call site.
func WithFilterSampling(temperature float64, maxTokens int) Option {
	return func(p *Pipeline) {
		p.filterTemperature = temperature
		if maxTokens > 0 {
			p.filterMaxTokens = maxTokens
		}
	}
}

// WithSummarySampling sets the model parameters for the summarization call
// site.
func WithSummarySampling(temperature float64, maxTokens int) Option {
	return func(p *Pipeline) {
		p.summaryTemperature = temperature
		if maxTokens > 0 {
			p.summaryMaxTokens = maxTokens
		}
	}
}

// WithClock overrides the time source used for event log entries and report
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}
