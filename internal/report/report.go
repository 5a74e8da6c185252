// Package report aggregates row results and serializes them: an indented
// UTF-8 JSON document for lossless round-trips, and a flattened tabular
// sheet for spreadsheet consumers.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hikaru-dev/watchscout/internal/models"
)

// NoMatchSentinel fills the name column of a row whose search found nothing.
const NoMatchSentinel = "該当なし"

// Columns is the fixed tabular column order, matching the research sheet
// the tool replaces.
var Columns = []string{
	"検索キーワード",
	"商品名",
	"型番",
	"文字盤色",
	"ブレス形状",
	"価格",
	"販売店",
	"保証書日付",
	"保証書あり",
	"箱あり",
	"付属品詳細",
	"状態",
	"URL",
	"エラー",
}

// Flatten projects results into tabular rows in Columns order. Every
// extracted record becomes one row carrying its parent's keywords; a row
// with no results and no error becomes a single sentinel row; a row-level
// error becomes a single row with the message in the error column.
func Flatten(results []models.RowResult) [][]any {
	rows := make([][]any, 0, len(results))
	for _, res := range results {
		switch {
		case res.RowError != nil:
			row := blankRow()
			row[0] = res.InputKeywords
			row[13] = *res.RowError
			rows = append(rows, row)
		case len(res.ExtractedResults) == 0:
			row := blankRow()
			row[0] = res.InputKeywords
			row[1] = NoMatchSentinel
			rows = append(rows, row)
		default:
			for _, rec := range res.ExtractedResults {
				rows = append(rows, []any{
					res.InputKeywords,
					strOrBlank(rec.Name),
					strOrBlank(rec.ModelNumber),
					strOrBlank(rec.DialColor),
					strOrBlank(rec.BraceletType),
					FormatPrice(rec.Price),
					strOrBlank(rec.Seller),
					strOrBlank(rec.WarrantyDate),
					boolOrBlank(rec.Accessories.HasWarrantyCard),
					boolOrBlank(rec.Accessories.HasBox),
					strOrBlank(rec.Accessories.OtherDescription),
					strOrBlank(rec.Condition),
					strOrBlank(rec.URL),
					strOrBlank(rec.Error),
				})
			}
		}
	}
	return rows
}

// FormatPrice renders a price as "¥1,234,567", or "N/A" when unknown.
func FormatPrice(p *int64) string {
	if p == nil {
		return "N/A"
	}
	s := strconv.FormatInt(*p, 10)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, d := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	if neg {
		return "¥-" + string(out)
	}
	return "¥" + string(out)
}

// MarshalResults renders the full result collection as an indented JSON
// array. Non-ASCII characters are written literally. Deterministic: the
// same collection always yields the same bytes.
func MarshalResults(results []models.RowResult) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return nil, fmt.Errorf("encode results: %w", err)
	}
	return buf.Bytes(), nil
}

// JSONSink persists results as a JSON document, rewriting the whole file on
// every Save so completed rows survive an interrupted run.
type JSONSink struct {
	path string
}

// NewJSONSink creates a sink writing to path. Parent directories are
// created on first save.
func NewJSONSink(path string) *JSONSink {
	return &JSONSink{path: path}
}

// Save rewrites the output file with the full collection.
func (s *JSONSink) Save(results []models.RowResult) error {
	data, err := MarshalResults(results)
	if err != nil {
		return err
	}
	if err := ensureDir(s.path); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// Path returns the sink's output path.
func (s *JSONSink) Path() string { return s.path }

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}

func blankRow() []any {
	row := make([]any, len(Columns))
	for i := range row {
		row[i] = ""
	}
	return row
}

func strOrBlank(s *string) any {
	if s == nil {
		return ""
	}
	return *s
}

func boolOrBlank(b *bool) any {
	if b == nil {
		return ""
	}
	return *b
}
