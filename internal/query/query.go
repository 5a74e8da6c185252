// Package query builds search keywords and marketplace search URLs from
// input records. All functions are pure.
package query

import (
	"net/url"
	"strings"

	"github.com/hikaru-dev/watchscout/internal/models"
)

// SecondhandMarker is appended to every keyword string so the marketplace
// search targets used listings.
const SecondhandMarker = "中古"

// searchMallBase is the Rakuten mall keyword-search path. The keyword goes
// into the final path segment, percent-encoded.
const searchMallBase = "https://search.rakuten.co.jp/search/mall/"

// BuildKeywords joins the record fields and the secondhand marker into a
// single query string. Identical field values always produce identical
// keywords; empty fields collapse without leaving extra whitespace.
func BuildKeywords(rec models.InputRecord) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{rec.Brand, rec.Model, rec.DialColor, rec.BraceletShape, SecondhandMarker} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// SearchURL renders the mall search URL for a keyword string. The encoding
// is stable: decoding the final path segment recovers the keywords exactly.
func SearchURL(keywords string) string {
	return searchMallBase + url.PathEscape(keywords) + "/"
}

// KeywordsFromSearchURL decodes the keyword segment of a mall search URL.
// It is the inverse of SearchURL.
func KeywordsFromSearchURL(rawURL string) (string, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(rawURL, searchMallBase), "/")
	return url.PathUnescape(trimmed)
}
