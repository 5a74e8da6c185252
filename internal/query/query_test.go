package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikaru-dev/watchscout/internal/models"
)

func TestBuildKeywords(t *testing.T) {
	tests := []struct {
		name string
		rec  models.InputRecord
		want string
	}{
		{
			name: "all fields",
			rec: models.InputRecord{
				Brand:         "ロレックス",
				Model:         "126610LN",
				DialColor:     "ブラック",
				BraceletShape: "オイスター",
			},
			want: "ロレックス 126610LN ブラック オイスター 中古",
		},
		{
			name: "empty fields collapse",
			rec:  models.InputRecord{Brand: "ロレックス", Model: "126610LN"},
			want: "ロレックス 126610LN 中古",
		},
		{
			name: "whitespace-only fields collapse",
			rec:  models.InputRecord{Brand: "  ロレックス ", Model: "\t", DialColor: " 白 "},
			want: "ロレックス 白 中古",
		},
		{
			name: "all empty yields marker alone",
			rec:  models.InputRecord{},
			want: "中古",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildKeywords(tt.rec))
		})
	}
}

func TestBuildKeywordsDeterministic(t *testing.T) {
	rec := models.InputRecord{Brand: "オメガ", Model: "310.30.42.50.01.001"}
	first := BuildKeywords(rec)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, BuildKeywords(rec))
	}
}

func TestSearchURLRoundTrip(t *testing.T) {
	tests := []string{
		"rolex 126610LN",
		"ロレックス 126610LN ブラック 中古",
		"a/b c?d",
	}
	for _, keywords := range tests {
		u := SearchURL(keywords)
		assert.Contains(t, u, "https://search.rakuten.co.jp/search/mall/")

		got, err := KeywordsFromSearchURL(u)
		require.NoError(t, err)
		assert.Equal(t, keywords, got)
	}
}
