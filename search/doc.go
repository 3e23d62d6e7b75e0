// Package search provides search provider implementations for the brief
// pipeline.
//
// Available providers:
//
//   - DuckDuckGo: Free, no API key required (uses HTML scraping of lite.duckduckgo.com)
//   - Brave: Requires API key via X-Subscription-Token header
//   - Tavily: Requires API key, supports basic/advanced depth modes
//
// Every provider treats maxResults as an upper bound and may be called
// again with a doubled maxResults when the pipeline widens its search.
//
// # DuckDuckGo Example
//
//	provider := search.NewDuckDuckGo()
//	items, err := provider.Search(ctx, "golang web frameworks", 10)
//
// # Brave Example
//
//	provider := search.NewBrave("your-api-key")
//	items, err := provider.Search(ctx, "best practices for API design", 10)
//
// # Tavily Example
//
//	provider := search.NewTavily("your-api-key", "advanced")
//	items, err := provider.Search(ctx, "climate change research 2024", 10)
//
// # Custom Providers
//
// Implement the brief.SearchProvider interface to add your own backend:
//
//	type SearchProvider interface {
//	    Search(ctx context.Context, query string, maxResults int) ([]brief.Item, error)
//	}
package search
