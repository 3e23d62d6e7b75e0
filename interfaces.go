package brief

import "context"

// Item is a single piece of acquired information: one search hit.
type Item struct {
	Title   string
	URL     string
	Snippet string
}

// SearchProvider executes a topic query and returns up to maxResults items.
//
// Implementations must be safe to call again with a doubled maxResults when
// the pipeline widens its search, and should treat maxResults as an upper
// bound rather than a promise.
type SearchProvider interface {
	Search(ctx context.Context, query string, maxResults int) ([]Item, error)
}

// Completion is a single language-model request. Temperature and MaxTokens
// are tuning knobs configured per call site (filtering uses a low
// temperature and a short budget, summarization a moderate temperature and
// a longer one).
type Completion struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// LanguageModel is implemented by user-supplied text generation clients.
type LanguageModel interface {
	Complete(ctx context.Context, req Completion) (string, error)
}
