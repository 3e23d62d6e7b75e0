// Package brief generates Markdown research reports on a topic by driving
// a fixed pipeline: acquire search results, filter them for relevance,
// summarize them, and format the report.
//
// Unlike a straight-line pipeline, the driver is a small state machine that
// handles partial failure: failed searches are retried with exponential
// backoff, insufficient results escalate by widening the search and then
// relaxing the filter, and low-quality summaries are regenerated with a
// stricter prompt — each path bounded by its own counter, with a step
// ceiling as the final safety net.
//
// # Architecture
//
//	search → filter → summarize → format
//	   ↻ retry (≤3, backoff)        ↻ regenerate (≤2)
//	   ← expand (once) / relax threshold
//	   ↘ degrade (failure report)
//
// Each step mutates a Run, the single state record for one execution. Pure
// transition guards pick the next step; the driver applies the branch's
// counter or flag update when it takes the branch. Format and degrade are
// terminal: every run ends with a report, either the full brief or a
// degraded failure report carrying whatever was acquired.
//
// # Basic Usage
//
//	p := brief.New(
//	    brief.WithSearchProvider(search.NewDuckDuckGo()),
//	    brief.WithLanguageModel(myModel),
//	)
//
//	run, err := p.Execute(ctx, "AI agent funding rounds", 10)
//	if err != nil {
//	    // invalid input or misconfigured pipeline; nothing ran
//	}
//	fmt.Println(run.Report)
//	fmt.Printf("quality: %.2f\n", run.QualityScore)
//
// The error is non-nil only for input validation; acquisition and
// generation faults degrade gracefully into the returned Run. An empty
// Report means the run hit the step ceiling before reaching a terminal
// step — inspect run.Events for the trace.
//
// # Interfaces
//
// Implement SearchProvider to plug in any search backend (the search
// subpackage ships DuckDuckGo, Brave and Tavily):
//
//	type SearchProvider interface {
//	    Search(ctx context.Context, query string, maxResults int) ([]Item, error)
//	}
//
// Implement LanguageModel to connect any text generation client (the model
// subpackage ships an OpenAI-compatible one):
//
//	type LanguageModel interface {
//	    Complete(ctx context.Context, req Completion) (string, error)
//	}
//
// Every external call gets a deadline (WithCallTimeout); an exceeded
// deadline feeds the same failure path as an empty result.
package brief
