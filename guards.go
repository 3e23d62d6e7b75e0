package brief

// The transition guards are pure functions of the run state. The state
// updates that accompany a branch (retry increment, search expansion,
// threshold lowering) are applied by the driver's transition function only
// when that branch is actually taken, which keeps every guard independently
// testable.

// guardAfterSearch routes a completed search attempt: filter on success,
// otherwise the retry guard decides.
func guardAfterSearch(r *Run) Step {
	if r.SearchStatus == SearchSuccess {
		return StepFilter
	}
	return guardRetry(r)
}

// guardRetry routes a failed search: degrade once the retry bound is
// exhausted, otherwise search again.
func guardRetry(r *Run) Step {
	if r.SearchRetries >= maxSearchRetries {
		return StepDegrade
	}
	return StepSearch
}

// guardAfterFilter routes a completed filter pass: summarize with enough
// relevant items, otherwise the expand guard decides.
func guardAfterFilter(r *Run) Step {
	if len(r.Filtered) >= minFilteredItems {
		return StepSummarize
	}
	return guardExpand(r)
}

// guardExpand handles an insufficiency episode: widen the search the first
// time, relax the filter threshold on every later episode.
func guardExpand(r *Run) Step {
	if !r.Expanded {
		return StepSearch
	}
	return StepFilter
}

// guardAfterSummarize routes a completed summary: format when the quality
// gate passes, otherwise the regenerate guard decides.
func guardAfterSummarize(r *Run) Step {
	if r.QualityScore >= qualityThreshold {
		return StepFormat
	}
	return guardRegenerate(r)
}

// guardRegenerate bounds summary regeneration. It always terminates at
// format: low quality is a cost tradeoff, never a fatal error.
func guardRegenerate(r *Run) Step {
	if r.SummaryRetries >= maxSummaryRetries {
		return StepFormat
	}
	return StepSummarize
}

// transition consults the guard for the step that just ran, applies the
// state update belonging to the chosen branch, and returns the next step.
// Format and degrade are absorbing: their only successor is the end state.
func (p *Pipeline) transition(r *Run, from Step) Step {
	switch from {
	case StepSearch:
		next := guardAfterSearch(r)
		if next == StepSearch {
			r.IncrementSearchRetry()
		}
		return next
	case StepFilter:
		next := guardAfterFilter(r)
		switch next {
		case StepSearch:
			r.ExpandSearch()
		case StepFilter:
			r.LowerFilterThreshold()
		}
		return next
	case StepSummarize:
		next := guardAfterSummarize(r)
		if next == StepSummarize {
			r.IncrementSummaryRetry()
		}
		return next
	case StepFormat, StepDegrade:
		return stepEnd
	default:
		return stepEnd
	}
}
