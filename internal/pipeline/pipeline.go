// Package pipeline runs the row-by-row research flow: build keywords, search
// the marketplace, extract structured records from each listing, and collect
// per-row results with partial-failure isolation.
//
// Execution is strictly sequential: one row at a time, one listing at a
// time. A listing's failure degrades that one record; a search failure
// degrades that one row; nothing aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hikaru-dev/watchscout/internal/models"
	"github.com/hikaru-dev/watchscout/internal/query"
	"github.com/hikaru-dev/watchscout/internal/watch"
)

// Searcher is the listing-discovery collaborator boundary.
type Searcher interface {
	Search(ctx context.Context, q string, maxResults int, advanced bool) ([]models.Listing, error)
}

// Extractor is the structured-extraction collaborator boundary.
type Extractor interface {
	Extract(ctx context.Context, text string) (*models.WatchRecord, error)
}

// Sink persists the accumulated results. Save receives the full ordered
// collection after every completed row, so an interrupted run keeps every
// prior row on disk.
type Sink interface {
	Save(results []models.RowResult) error
}

// Options tune a Pipeline.
type Options struct {
	// MaxListings caps candidate listings requested per row.
	MaxListings int
	// Advanced selects the collaborator's deeper search mode.
	Advanced bool
	// Delay is the unconditional pacing between extraction calls. It is
	// rate-limit hygiene, not a backoff: it applies on success and failure
	// alike.
	Delay time.Duration
}

// Pipeline wires the two collaborators together. Collaborator clients are
// injected, never global, so tests substitute fakes freely.
type Pipeline struct {
	searcher  Searcher
	extractor Extractor
	pacer     *rate.Limiter
	opts      Options
	log       *zap.Logger
}

// New builds a Pipeline. A nil logger is replaced with a no-op one.
func New(searcher Searcher, extractor Extractor, opts Options, log *zap.Logger) *Pipeline {
	if opts.MaxListings <= 0 {
		opts.MaxListings = 5
	}
	if log == nil {
		log = zap.NewNop()
	}
	pacer := rate.NewLimiter(rate.Inf, 0)
	if opts.Delay > 0 {
		pacer = rate.NewLimiter(rate.Every(opts.Delay), 1)
	}
	return &Pipeline{
		searcher:  searcher,
		extractor: extractor,
		pacer:     pacer,
		opts:      opts,
		log:       log,
	}
}

// Run processes every record in order. Each completed row is appended to the
// result collection and, when a sink is given, the whole collection is
// re-persisted so prior rows survive an interruption. The returned slice
// always holds one RowResult per processed record, in input order.
func (p *Pipeline) Run(ctx context.Context, records []models.InputRecord, sink Sink) ([]models.RowResult, error) {
	results := make([]models.RowResult, 0, len(records))
	for i, rec := range records {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		keywords := query.BuildKeywords(rec)
		ReportProgress(ctx, fmt.Sprintf("(%d/%d) %s", i+1, len(records), keywords))
		p.log.Info("processing row",
			zap.Int("row", rec.Index),
			zap.String("keywords", keywords),
		)

		results = append(results, p.processRow(ctx, rec, keywords))

		if sink != nil {
			if err := sink.Save(results); err != nil {
				p.log.Warn("incremental save failed",
					zap.Int("row", rec.Index),
					zap.Error(err),
				)
			}
		}
	}
	return results, nil
}

// processRow runs search plus per-listing extraction for one record. A panic
// escaping the row unit is converted to a row error; results gathered before
// the failure are kept.
func (p *Pipeline) processRow(ctx context.Context, rec models.InputRecord, keywords string) (res models.RowResult) {
	res = models.RowResult{
		InputKeywords:    keywords,
		ExtractedResults: []models.WatchRecord{},
	}
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("row processing panicked",
				zap.Int("row", rec.Index),
				zap.Any("cause", r),
			)
			res.RowError = models.StrPtr(fmt.Sprintf("row processing failed: %v", r))
		}
	}()

	listings, err := p.searcher.Search(ctx, keywords, p.opts.MaxListings, p.opts.Advanced)
	if err != nil {
		p.log.Warn("search failed",
			zap.Int("row", rec.Index),
			zap.Error(err),
		)
		res.RowError = models.StrPtr("search failed: " + err.Error())
		return res
	}

	listings = usableListings(listings)
	p.log.Info("search results",
		zap.Int("row", rec.Index),
		zap.Int("listings", len(listings)),
	)

	for j, listing := range listings {
		ReportProgress(ctx, fmt.Sprintf("row %d: extracting listing %d/%d", rec.Index+1, j+1, len(listings)))
		res.ExtractedResults = append(res.ExtractedResults, p.extractListing(ctx, listing, rec.Index))
	}
	return res
}

// extractListing converts one listing into a WatchRecord. Failures degrade
// to a null-filled record carrying the listing URL and a diagnostic; the
// listing is never dropped.
func (p *Pipeline) extractListing(ctx context.Context, listing models.Listing, row int) models.WatchRecord {
	if err := p.pacer.Wait(ctx); err != nil {
		return watch.Failed(listing.URL, "canceled: "+err.Error())
	}

	rec, err := p.extractor.Extract(ctx, listing.Content)
	if err != nil {
		p.log.Warn("extraction failed",
			zap.Int("row", row),
			zap.String("url", listing.URL),
			zap.Error(err),
		)
		return watch.Failed(listing.URL, "extraction failed: "+err.Error())
	}
	if rec == nil {
		return watch.Failed(listing.URL, "extraction returned no data")
	}

	watch.Normalize(rec)
	if rec.URL == nil {
		rec.URL = models.StrPtr(listing.URL)
	}

	p.log.Info("extracted",
		zap.Int("row", row),
		zap.String("url", listing.URL),
		zap.Stringp("name", rec.Name),
	)
	return *rec
}

// usableListings drops entries missing a URL or content and collapses
// duplicate URLs, keeping the first occurrence. The search client already
// filters its own output; this guards the boundary for any Searcher.
func usableListings(listings []models.Listing) []models.Listing {
	seen := make(map[string]struct{}, len(listings))
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.URL == "" || l.Content == "" {
			continue
		}
		if _, dup := seen[l.URL]; dup {
			continue
		}
		seen[l.URL] = struct{}{}
		out = append(out, l)
	}
	return out
}
