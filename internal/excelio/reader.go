// Package excelio reads the research target spreadsheet: one row per watch
// to look up, identified by brand, model number, dial color, and bracelet
// shape columns.
package excelio

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/hikaru-dev/watchscout/internal/models"
)

// Header aliases accepted for each attribute column, lowercased. Sheets in
// the wild carry either Japanese or English headers.
var (
	brandHeaders    = []string{"ブランド", "brand", "メーカー"}
	modelHeaders    = []string{"型番", "model", "モデル", "リファレンス"}
	dialHeaders     = []string{"文字盤色", "文字盤", "dial color", "dial"}
	braceletHeaders = []string{"ブレス形状", "ブレスレット", "bracelet shape", "bracelet"}
)

// ReadTargets loads every data row from the first sheet of the workbook at
// path. The first row is treated as a header; attribute columns are located
// by name and may appear in any order. A missing column yields empty values
// for that attribute rather than an error. Rows with no non-empty attribute
// at all are skipped.
func ReadTargets(path string) ([]models.InputRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open workbook %s", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, eris.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, eris.Wrapf(err, "read sheet %q", sheets[0])
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := locateColumns(rows[0])
	records := make([]models.InputRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec := models.InputRecord{
			Index:         i,
			Brand:         cellAt(row, cols.brand),
			Model:         cellAt(row, cols.model),
			DialColor:     cellAt(row, cols.dial),
			BraceletShape: cellAt(row, cols.bracelet),
		}
		if rec.Brand == "" && rec.Model == "" && rec.DialColor == "" && rec.BraceletShape == "" {
			continue
		}
		rec.Index = len(records)
		records = append(records, rec)
	}
	return records, nil
}

type columnIndexes struct {
	brand, model, dial, bracelet int
}

func locateColumns(header []string) columnIndexes {
	return columnIndexes{
		brand:    findColumn(header, brandHeaders),
		model:    findColumn(header, modelHeaders),
		dial:     findColumn(header, dialHeaders),
		bracelet: findColumn(header, braceletHeaders),
	}
}

// findColumn returns the index of the first header cell matching any alias,
// or -1. Aliases are tried in order so an exact name wins over a loose one.
func findColumn(header []string, aliases []string) int {
	for _, alias := range aliases {
		for i, cell := range header {
			if strings.EqualFold(strings.TrimSpace(cell), alias) {
				return i
			}
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
