package tools

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// SearchInput is the model-facing input schema for the searchWeb tool.
type SearchInput struct {
	Query string `json:"query" jsonschema_description:"What to search the web for"`
}

// searxResponse mirrors the fields we use from SearXNG's JSON format.
type searxResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// SearchWeb queries a SearXNG instance and returns the top results as
// title/url/snippet triples.
func (h *Handler) SearchWeb(ctx context.Context, in SearchInput) Result {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return Failure(ErrCodeValidation, "A search query is required.", "")
	}
	if !h.search.Configured() {
		return Failure(ErrCodeAuth,
			"Web search is not configured. Set SEARXNG_BASE_URL to enable it.", "")
	}

	endpoint := fmt.Sprintf("%s/search?q=%s&format=json",
		strings.TrimSuffix(h.search.BaseURL, "/"),
		url.QueryEscape(query))

	var resp searxResponse
	if err := h.getJSON(ctx, endpoint, h.search.TimeoutMs, &resp); err != nil {
		h.logger.Warn("web search failed", "query", query, "error", err)
		return classifyFetchError(err, "web search",
			fmt.Sprintf("No results found for %q.", query))
	}

	if len(resp.Results) == 0 {
		return Success(fmt.Sprintf("No results found for %q.", query), nil)
	}

	limit := h.search.MaxResults
	if limit <= 0 || limit > len(resp.Results) {
		limit = len(resp.Results)
	}

	results := make([]map[string]any, 0, limit)
	var b strings.Builder
	fmt.Fprintf(&b, "Top results for %q:\n", query)
	for i, r := range resp.Results[:limit] {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, r.Title, r.URL)
		results = append(results, map[string]any{
			"title":   r.Title,
			"url":     r.URL,
			"snippet": r.Content,
		})
	}

	return Success(strings.TrimRight(b.String(), "\n"), map[string]any{
		"query":   query,
		"results": results,
	})
}
