package brief

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Validation failures are the only hard errors Execute surfaces; every
// other fault degrades into the returned Run.
var (
	ErrEmptyTopic   = errors.New("topic is empty")
	ErrInvalidCount = errors.New("max results must be positive")
	ErrNoSearcher   = errors.New("search provider is not configured")
	ErrNoModel      = errors.New("language model is not configured")
)

// Pipeline coordinates the search, filter, summarize and format steps for
// research runs. Construct it once with New and reuse it; every Execute
// call owns its own Run.
type Pipeline struct {
	searcher SearchProvider
	model    LanguageModel
	logger   *zap.Logger

	maxSteps    int
	callTimeout time.Duration
	backoffUnit time.Duration

	filterTemperature  float64
	filterMaxTokens    int
	summaryTemperature float64
	summaryMaxTokens   int

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// New constructs a Pipeline with optional configuration.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:             zap.NewNop(),
		maxSteps:           defaultMaxSteps,
		callTimeout:        defaultCallTimeout,
		backoffUnit:        defaultBackoffUnit,
		filterTemperature:  defaultFilterTemperature,
		filterMaxTokens:    defaultFilterMaxTokens,
		summaryTemperature: defaultSummaryTemperature,
		summaryMaxTokens:   defaultSummaryMaxTokens,
		sleep:              sleepContext,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Execute runs the pipeline for a topic and returns the terminal run state.
// Callers inspect Report, QualityScore and Events on the result. The error
// is non-nil only for invalid input or a misconfigured pipeline; acquisition
// and generation faults degrade into the Run instead (an empty Report means
// the run hit the step ceiling before reaching a terminal step).
func (p *Pipeline) Execute(ctx context.Context, topic string, maxResults int) (*Run, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrEmptyTopic
	}
	if maxResults <= 0 {
		return nil, ErrInvalidCount
	}
	if p.searcher == nil {
		return nil, ErrNoSearcher
	}
	if p.model == nil {
		return nil, ErrNoModel
	}

	r := NewRun(topic, maxResults)
	r.now = p.now
	log := p.logger.With(zap.String("run_id", r.ID), zap.String("topic", r.Topic))

	r.Log("run started")
	log.Info("run started", zap.Int("max_results", maxResults))

	step := StepSearch
	for i := 1; i <= p.maxSteps; i++ {
		r.Logf("step %d: %s", i, step)
		log.Debug("executing step", zap.Int("iteration", i), zap.String("step", string(step)))

		switch step {
		case StepSearch:
			p.searchStep(ctx, r)
		case StepFilter:
			p.filterStep(ctx, r)
		case StepSummarize:
			p.summarizeStep(ctx, r)
		case StepFormat:
			p.formatStep(r)
		case StepDegrade:
			p.degradeStep(r)
		default:
			// A step outside the closed set means the transition table is
			// broken; stop rather than loop.
			r.Logf("unknown step %q, stopping", step)
			log.Error("unknown step", zap.String("step", string(step)))
			return r, nil
		}

		next := p.transition(r, step)
		if next == stepEnd {
			r.Log("run finished")
			log.Info("run finished",
				zap.String("terminal_step", string(step)),
				zap.Float64("quality_score", r.QualityScore),
				zap.Int("steps", i))
			return r, nil
		}
		step = next
	}

	// Soft failure: return whatever state exists rather than erroring.
	r.Logf("step limit (%d) reached, stopping with partial results", p.maxSteps)
	log.Warn("step limit reached", zap.Int("max_steps", p.maxSteps))
	return r, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
