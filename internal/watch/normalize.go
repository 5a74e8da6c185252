// Package watch validates and normalizes extracted watch records. The
// structured-extraction collaborator returns loosely-shaped JSON; everything
// here treats that output as input to be sanitized, never trusted directly.
package watch

import (
	"net/url"
	"strings"

	"github.com/hikaru-dev/watchscout/internal/models"
)

// Bracelet types form a closed set. Anything else coming back from the
// extractor is coerced to BraceletUnknown.
const (
	BraceletOyster      = "OysterBracelet"
	BraceletJubilee     = "JubileeBracelet"
	BraceletPresident   = "PresidentBracelet"
	BraceletOysterflex  = "OysterflexBracelet"
	BraceletPearlmaster = "PearlmasterBracelet"
	BraceletLeather     = "LeatherBracelet"
	BraceletOther       = "Other"
	BraceletUnknown     = "Unknown"
)

// Price bounds for a plausible used-watch listing, in yen. Values outside
// [MinPrice, MaxPrice) are discarded.
const (
	MinPrice int64 = 100_000
	MaxPrice int64 = 100_000_000
)

// ItemURLPrefix is the canonical Rakuten item page prefix. Extracted URLs
// that do not carry it are discarded.
const ItemURLPrefix = "https://item.rakuten.co.jp/"

// trackingSuffix is the tracking marker the search collaborator appends to
// item URLs. It is removed wherever it appears.
const trackingSuffix = "?utm_source=openai"

var braceletTypes = map[string]struct{}{
	BraceletOyster:      {},
	BraceletJubilee:     {},
	BraceletPresident:   {},
	BraceletOysterflex:  {},
	BraceletPearlmaster: {},
	BraceletLeather:     {},
	BraceletOther:       {},
	BraceletUnknown:     {},
}

// NormalizeBracelet clamps a bracelet type to the closed set. Nil stays nil;
// any unrecognized value becomes BraceletUnknown.
func NormalizeBracelet(v *string) *string {
	if v == nil {
		return nil
	}
	if _, ok := braceletTypes[*v]; ok {
		return v
	}
	return models.StrPtr(BraceletUnknown)
}

// NormalizePrice clamps a price to the plausible range, returning nil for
// anything outside it.
func NormalizePrice(v *int64) *int64 {
	if v == nil || *v < MinPrice || *v >= MaxPrice {
		return nil
	}
	return v
}

// NormalizeURL strips the tracking suffix wherever it appears, drops any
// remaining query string, and requires the canonical item-path prefix.
// URLs that do not qualify become nil.
func NormalizeURL(v *string) *string {
	if v == nil {
		return nil
	}
	cleaned := strings.ReplaceAll(*v, trackingSuffix, "")
	if u, err := url.Parse(cleaned); err == nil && u.RawQuery != "" {
		u.RawQuery = ""
		cleaned = u.String()
	}
	if !strings.HasPrefix(cleaned, ItemURLPrefix) {
		return nil
	}
	return models.StrPtr(cleaned)
}

// Normalize applies every clamp to an extracted record in place. Fields the
// extractor omitted are already nil after unmarshaling; the accessories
// object is always present by construction of models.WatchRecord.
func Normalize(rec *models.WatchRecord) {
	rec.BraceletType = NormalizeBracelet(rec.BraceletType)
	rec.Price = NormalizePrice(rec.Price)
	rec.URL = NormalizeURL(rec.URL)
}

// Failed builds the degraded record for a listing whose extraction failed:
// all descriptive fields null, the candidate URL retained, and a short
// diagnostic in Error.
func Failed(listingURL, reason string) models.WatchRecord {
	return models.WatchRecord{
		URL:   models.StrPtr(listingURL),
		Error: models.StrPtr(reason),
	}
}
