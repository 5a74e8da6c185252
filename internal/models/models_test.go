package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchRecordJSONShape(t *testing.T) {
	data, err := json.Marshal(WatchRecord{Name: StrPtr("サブマリーナ")})
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &m))

	// Every descriptive field is present even when null, the accessories
	// object always exists, and error only appears when set.
	for _, key := range []string{
		"name", "model_number", "dial_color", "bracelet_type", "price",
		"url", "seller", "warranty_date", "accessories", "condition",
	} {
		assert.Contains(t, m, key)
	}
	assert.NotContains(t, m, "error")
	assert.JSONEq(t, `{"has_warranty_card":null,"has_box":null,"other_description":null}`, string(m["accessories"]))
}

func TestWatchRecordErrorSerialized(t *testing.T) {
	data, err := json.Marshal(WatchRecord{Error: StrPtr("extraction failed: boom")})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"error":"extraction failed: boom"`)
}

func TestRowResultRoundTrip(t *testing.T) {
	in := RowResult{
		InputKeywords:    "ロレックス 中古",
		ExtractedResults: []WatchRecord{{Price: IntPtr(2_480_000)}},
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out RowResult
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
	assert.Nil(t, out.RowError)
}
