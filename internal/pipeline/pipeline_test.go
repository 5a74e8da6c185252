package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikaru-dev/watchscout/internal/models"
	"github.com/hikaru-dev/watchscout/internal/watch"
)

type fakeSearcher struct {
	fn func(q string) ([]models.Listing, error)
}

func (f *fakeSearcher) Search(_ context.Context, q string, _ int, _ bool) ([]models.Listing, error) {
	return f.fn(q)
}

type fakeExtractor struct {
	fn func(text string) (*models.WatchRecord, error)
}

func (f *fakeExtractor) Extract(_ context.Context, text string) (*models.WatchRecord, error) {
	return f.fn(text)
}

type recordingSink struct {
	lens []int
}

func (s *recordingSink) Save(results []models.RowResult) error {
	s.lens = append(s.lens, len(results))
	return nil
}

func itemURL(slug string) string {
	return watch.ItemURLPrefix + slug + "/"
}

func listingFor(slug, content string) models.Listing {
	return models.Listing{URL: itemURL(slug), Content: content}
}

func goodRecord(name string) *models.WatchRecord {
	return &models.WatchRecord{
		Name:  models.StrPtr(name),
		Price: models.IntPtr(2_480_000),
	}
}

func inputRows(n int) []models.InputRecord {
	rows := make([]models.InputRecord, n)
	for i := range rows {
		rows[i] = models.InputRecord{Index: i, Brand: "ロレックス", Model: string(rune('A' + i))}
	}
	return rows
}

func TestRunKeepsRowOrderAndIsolatesSearchFailure(t *testing.T) {
	searcher := &fakeSearcher{fn: func(q string) ([]models.Listing, error) {
		if strings.Contains(q, "B") {
			return nil, errors.New("upstream 500")
		}
		return []models.Listing{listingFor("shop/"+q, "text for "+q)}, nil
	}}
	extractor := &fakeExtractor{fn: func(text string) (*models.WatchRecord, error) {
		return goodRecord("from " + text), nil
	}}

	pipe := New(searcher, extractor, Options{}, nil)
	results, err := pipe.Run(context.Background(), inputRows(3), nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Contains(t, results[0].InputKeywords, "A")
	assert.Contains(t, results[1].InputKeywords, "B")
	assert.Contains(t, results[2].InputKeywords, "C")

	assert.Nil(t, results[0].RowError)
	assert.Len(t, results[0].ExtractedResults, 1)

	require.NotNil(t, results[1].RowError)
	assert.Contains(t, *results[1].RowError, "search failed")
	assert.Empty(t, results[1].ExtractedResults)

	assert.Nil(t, results[2].RowError)
	assert.Len(t, results[2].ExtractedResults, 1)
}

func TestRunIsolatesListingFailure(t *testing.T) {
	searcher := &fakeSearcher{fn: func(string) ([]models.Listing, error) {
		return []models.Listing{
			listingFor("shop/a", "first"),
			listingFor("shop/b", "second"),
			listingFor("shop/c", "third"),
		}, nil
	}}
	extractor := &fakeExtractor{fn: func(text string) (*models.WatchRecord, error) {
		if text == "second" {
			return nil, errors.New("model timeout")
		}
		return goodRecord(text), nil
	}}

	pipe := New(searcher, extractor, Options{}, nil)
	results, err := pipe.Run(context.Background(), inputRows(1), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	row := results[0]
	assert.Nil(t, row.RowError)
	require.Len(t, row.ExtractedResults, 3)

	assert.Nil(t, row.ExtractedResults[0].Error)
	assert.Nil(t, row.ExtractedResults[2].Error)

	failed := row.ExtractedResults[1]
	require.NotNil(t, failed.Error)
	assert.Contains(t, *failed.Error, "extraction failed")
	require.NotNil(t, failed.URL)
	assert.Equal(t, itemURL("shop/b"), *failed.URL)
	assert.Nil(t, failed.Name)
}

func TestRunSkipsUnusableAndDuplicateListings(t *testing.T) {
	searcher := &fakeSearcher{fn: func(string) ([]models.Listing, error) {
		return []models.Listing{
			listingFor("shop/a", "first"),
			{URL: "", Content: "no url"},
			{URL: itemURL("shop/nocontent"), Content: ""},
			listingFor("shop/a", "duplicate of first"),
			listingFor("shop/b", "second"),
		}, nil
	}}

	var extracted []string
	extractor := &fakeExtractor{fn: func(text string) (*models.WatchRecord, error) {
		extracted = append(extracted, text)
		return goodRecord(text), nil
	}}

	pipe := New(searcher, extractor, Options{}, nil)
	results, err := pipe.Run(context.Background(), inputRows(1), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, extracted)
	assert.Len(t, results[0].ExtractedResults, 2)
}

func TestRunNilExtractorResultDegrades(t *testing.T) {
	searcher := &fakeSearcher{fn: func(string) ([]models.Listing, error) {
		return []models.Listing{listingFor("shop/a", "text")}, nil
	}}
	extractor := &fakeExtractor{fn: func(string) (*models.WatchRecord, error) {
		return nil, nil
	}}

	pipe := New(searcher, extractor, Options{}, nil)
	results, err := pipe.Run(context.Background(), inputRows(1), nil)
	require.NoError(t, err)

	require.Len(t, results[0].ExtractedResults, 1)
	rec := results[0].ExtractedResults[0]
	require.NotNil(t, rec.Error)
	assert.Contains(t, *rec.Error, "no data")
}

func TestRunNormalizesAndFallsBackToListingURL(t *testing.T) {
	searcher := &fakeSearcher{fn: func(string) ([]models.Listing, error) {
		return []models.Listing{listingFor("shop/real", "text")}, nil
	}}
	extractor := &fakeExtractor{fn: func(string) (*models.WatchRecord, error) {
		return &models.WatchRecord{
			Name:         models.StrPtr("some watch"),
			BraceletType: models.StrPtr("rubber strap thing"),
			Price:        models.IntPtr(5), // below plausible range
			URL:          models.StrPtr("https://example.com/not-an-item"),
		}, nil
	}}

	pipe := New(searcher, extractor, Options{}, nil)
	results, err := pipe.Run(context.Background(), inputRows(1), nil)
	require.NoError(t, err)

	rec := results[0].ExtractedResults[0]
	require.NotNil(t, rec.BraceletType)
	assert.Equal(t, watch.BraceletUnknown, *rec.BraceletType)
	assert.Nil(t, rec.Price)
	require.NotNil(t, rec.URL)
	assert.Equal(t, itemURL("shop/real"), *rec.URL, "non-item URL from the extractor falls back to the listing URL")
}

func TestRunRecoversRowPanic(t *testing.T) {
	searcher := &fakeSearcher{fn: func(q string) ([]models.Listing, error) {
		return []models.Listing{listingFor("shop/"+q, "text")}, nil
	}}
	calls := 0
	extractor := &fakeExtractor{fn: func(string) (*models.WatchRecord, error) {
		calls++
		if calls == 2 {
			panic("boom")
		}
		return goodRecord("ok"), nil
	}}

	pipe := New(searcher, extractor, Options{}, nil)
	results, err := pipe.Run(context.Background(), inputRows(3), nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Nil(t, results[0].RowError)
	require.NotNil(t, results[1].RowError)
	assert.Contains(t, *results[1].RowError, "row processing failed")
	assert.Nil(t, results[2].RowError, "a panicking row must not poison later rows")
	assert.Len(t, results[2].ExtractedResults, 1)
}

func TestRunSavesIncrementally(t *testing.T) {
	searcher := &fakeSearcher{fn: func(string) ([]models.Listing, error) {
		return nil, nil
	}}
	extractor := &fakeExtractor{fn: func(string) (*models.WatchRecord, error) {
		return goodRecord("unused"), nil
	}}

	sink := &recordingSink{}
	pipe := New(searcher, extractor, Options{}, nil)
	_, err := pipe.Run(context.Background(), inputRows(3), sink)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, sink.lens, "full collection re-saved after every row")
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	searcher := &fakeSearcher{fn: func(string) ([]models.Listing, error) {
		return nil, nil
	}}
	extractor := &fakeExtractor{fn: func(string) (*models.WatchRecord, error) {
		return nil, nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pipe := New(searcher, extractor, Options{}, nil)
	results, err := pipe.Run(ctx, inputRows(3), nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestRunEmptySearchYieldsEmptyRow(t *testing.T) {
	searcher := &fakeSearcher{fn: func(string) ([]models.Listing, error) {
		return []models.Listing{}, nil
	}}
	extractor := &fakeExtractor{fn: func(string) (*models.WatchRecord, error) {
		t.Fatal("extractor must not be called without listings")
		return nil, nil
	}}

	pipe := New(searcher, extractor, Options{}, nil)
	results, err := pipe.Run(context.Background(), inputRows(1), nil)
	require.NoError(t, err)

	row := results[0]
	assert.Nil(t, row.RowError)
	assert.NotNil(t, row.ExtractedResults)
	assert.Empty(t, row.ExtractedResults)
}
