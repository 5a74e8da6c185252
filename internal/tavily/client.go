// Package tavily is a thin client for the Tavily Search and Extract APIs,
// used as the listing-discovery collaborator. It covers exactly the surface
// the pipeline needs; failures are returned to the caller, never retried.
package tavily

import (
	"context"
	"net/http"

	"github.com/rotisserie/eris"

	"github.com/hikaru-dev/watchscout/internal/httputil"
	"github.com/hikaru-dev/watchscout/internal/models"
	"github.com/hikaru-dev/watchscout/internal/watch"
)

const defaultBaseURL = "https://api.tavily.com"

// Client calls the Tavily REST API. It is stateless apart from credentials
// and safe to reuse across rows.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient builds a Client. A nil httpClient falls back to the shared
// default client.
func NewClient(apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = httputil.NewHTTPClient(nil)
	}
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
	}
}

// WithBaseURL overrides the API endpoint; used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

type searchRequest struct {
	Query             string   `json:"query"`
	MaxResults        int      `json:"max_results"`
	SearchDepth       string   `json:"search_depth,omitempty"`
	IncludeRawContent bool     `json:"include_raw_content"`
	IncludeDomains    []string `json:"include_domains,omitempty"`
}

type searchResponse struct {
	Results []SearchResultItem `json:"results"`
}

// SearchResultItem is one raw search hit as returned by the API.
type SearchResultItem struct {
	URL        string `json:"url"`
	Content    string `json:"content"`
	RawContent string `json:"raw_content"`
}

// Search queries the marketplace item domain for listings matching query.
// Results are capped at maxResults by the API, filtered down to usable
// listings, and deduplicated by URL.
func (c *Client) Search(ctx context.Context, query string, maxResults int, advanced bool) ([]models.Listing, error) {
	req := searchRequest{
		Query:             query,
		MaxResults:        maxResults,
		IncludeRawContent: true,
		IncludeDomains:    []string{watch.ItemURLPrefix},
	}
	if advanced {
		req.SearchDepth = "advanced"
	}

	var resp searchResponse
	if err := httputil.PostJSON(ctx, c.httpClient, c.baseURL+"/search", c.apiKey, req, &resp); err != nil {
		return nil, eris.Wrap(err, "tavily: search")
	}
	return FilterResults(resp.Results), nil
}

// FilterResults converts raw search hits to listings, dropping entries
// missing a URL or raw content and collapsing duplicate URLs, first
// occurrence wins.
func FilterResults(items []SearchResultItem) []models.Listing {
	seen := make(map[string]struct{}, len(items))
	listings := make([]models.Listing, 0, len(items))
	for _, item := range items {
		if item.URL == "" || item.RawContent == "" {
			continue
		}
		if _, dup := seen[item.URL]; dup {
			continue
		}
		seen[item.URL] = struct{}{}
		listings = append(listings, models.Listing{URL: item.URL, Content: item.RawContent})
	}
	return listings
}

type extractRequest struct {
	URLs          []string `json:"urls"`
	ExtractDepth  string   `json:"extract_depth,omitempty"`
	IncludeImages bool     `json:"include_images"`
}

type extractResponse struct {
	Results []extractResultItem `json:"results"`
}

type extractResultItem struct {
	URL        string   `json:"url"`
	RawContent string   `json:"raw_content"`
	Images     []string `json:"images"`
}

// ExtractResult is the page content pulled for a single URL.
type ExtractResult struct {
	URL        string   `json:"url"`
	RawContent string   `json:"raw_content"`
	Images     []string `json:"images,omitempty"`
}

// Extract pulls the raw content (and optionally image URLs) of a single
// page. Returns nil when the API produced no result for the URL.
func (c *Client) Extract(ctx context.Context, pageURL string, advanced, includeImages bool) (*ExtractResult, error) {
	req := extractRequest{
		URLs:          []string{pageURL},
		IncludeImages: includeImages,
	}
	if advanced {
		req.ExtractDepth = "advanced"
	}

	var resp extractResponse
	if err := httputil.PostJSON(ctx, c.httpClient, c.baseURL+"/extract", c.apiKey, req, &resp); err != nil {
		return nil, eris.Wrap(err, "tavily: extract")
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	r := resp.Results[0]
	out := &ExtractResult{URL: r.URL, RawContent: r.RawContent}
	if includeImages {
		out.Images = r.Images
	}
	return out, nil
}
