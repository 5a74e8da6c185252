package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hikaru-dev/watchscout/internal/models"
	"github.com/hikaru-dev/watchscout/internal/pipeline"
	"github.com/hikaru-dev/watchscout/internal/query"
	"github.com/hikaru-dev/watchscout/internal/watch"
)

func registerTools(s *server.MCPServer, deps Deps) {
	// search_listings
	searchTool := mcp.NewTool("search_listings",
		mcp.WithDescription("Search secondhand watch listings on Rakuten by keyword"),
		mcp.WithString("keywords",
			mcp.Required(),
			mcp.Description("Search keywords, e.g. brand and model number"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max listings to return (default: 5)"),
		),
	)
	s.AddTool(searchTool, handleSearchListings(deps))

	// extract_listing
	extractTool := mcp.NewTool("extract_listing",
		mcp.WithDescription("Fetch a single listing page and extract a structured watch record from it"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Listing page URL"),
		),
	)
	s.AddTool(extractTool, handleExtractListing(deps))

	// research_watch
	researchTool := mcp.NewTool("research_watch",
		mcp.WithDescription("Run the full research flow for one watch: search listings, extract a record from each, return the aggregated row result"),
		mcp.WithString("brand",
			mcp.Description("Watch brand, e.g. ロレックス"),
		),
		mcp.WithString("model",
			mcp.Description("Model reference number, e.g. 126610LN"),
		),
		mcp.WithString("dial_color",
			mcp.Description("Dial color"),
		),
		mcp.WithString("bracelet_shape",
			mcp.Description("Bracelet shape"),
		),
	)
	s.AddTool(researchTool, handleResearchWatch(deps))
}

func handleSearchListings(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		keywords := strings.TrimSpace(request.GetString("keywords", ""))
		if keywords == "" {
			return mcp.NewToolResultError("keywords is required"), nil
		}
		if !strings.Contains(keywords, query.SecondhandMarker) {
			keywords = keywords + " " + query.SecondhandMarker
		}
		limit := request.GetInt("limit", deps.MaxListings)

		listings, err := deps.Searcher.Search(ctx, keywords, limit, deps.Advanced)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search error: %v", err)), nil
		}
		return jsonResult(listings)
	}
}

func handleExtractListing(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pageURL := request.GetString("url", "")
		if pageURL == "" {
			return mcp.NewToolResultError("url is required"), nil
		}

		page, err := deps.Searcher.Extract(ctx, pageURL, deps.Advanced, false)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("page fetch error: %v", err)), nil
		}
		if page == nil || page.RawContent == "" {
			return mcp.NewToolResultError("no content extracted from the page"), nil
		}

		rec, err := deps.Extractor.Extract(ctx, page.RawContent)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("extraction error: %v", err)), nil
		}
		if rec == nil {
			return mcp.NewToolResultError("model produced no record"), nil
		}
		watch.Normalize(rec)
		if rec.URL == nil {
			rec.URL = &pageURL
		}
		return jsonResult(rec)
	}
}

func handleResearchWatch(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rec := models.InputRecord{
			Brand:         request.GetString("brand", ""),
			Model:         request.GetString("model", ""),
			DialColor:     request.GetString("dial_color", ""),
			BraceletShape: request.GetString("bracelet_shape", ""),
		}
		if query.BuildKeywords(rec) == query.SecondhandMarker {
			return mcp.NewToolResultError("at least one of brand, model, dial_color, bracelet_shape is required"), nil
		}

		pipe := pipeline.New(deps.Searcher, deps.Extractor, pipeline.Options{
			MaxListings: deps.MaxListings,
			Advanced:    deps.Advanced,
			Delay:       deps.Delay,
		}, nil)

		results, err := pipe.Run(ctx, []models.InputRecord{rec}, nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("research error: %v", err)), nil
		}
		if len(results) == 0 {
			return mcp.NewToolResultError("research produced no result"), nil
		}
		return jsonResult(results[0])
	}
}

// jsonResult renders v with non-ASCII characters kept literal, which
// matters for the Japanese listing fields.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode error: %v", err)), nil
	}
	return mcp.NewToolResultText(strings.TrimRight(buf.String(), "\n")), nil
}
