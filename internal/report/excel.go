package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hikaru-dev/watchscout/internal/models"
)

const sheetName = "Results"

// ExcelSink writes the flattened tabular view of the results to an .xlsx
// workbook. Unlike JSONSink it is a final-output writer, not an incremental
// one: call WriteFile once after the run completes.
type ExcelSink struct {
	path string
}

// NewExcelSink creates a sink writing the workbook to path.
func NewExcelSink(path string) *ExcelSink {
	return &ExcelSink{path: path}
}

// WriteFile renders results into a single-sheet workbook at the sink's path.
func (s *ExcelSink) WriteFile(results []models.RowResult) error {
	f, err := BuildWorkbook(results)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := ensureDir(s.path); err != nil {
		return err
	}
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", s.path, err)
	}
	return nil
}

// BuildWorkbook renders results into an in-memory workbook with a header
// row followed by one row per flattened record.
func BuildWorkbook(results []models.RowResult) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for i, h := range Columns {
		if err := setCell(f, i+1, 1, h); err != nil {
			f.Close()
			return nil, err
		}
	}
	for rowIdx, row := range Flatten(results) {
		for colIdx, v := range row {
			if err := setCell(f, colIdx+1, rowIdx+2, v); err != nil {
				f.Close()
				return nil, err
			}
		}
	}
	return f, nil
}

func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell coordinates (%d,%d): %w", col, row, err)
	}
	if err := f.SetCellValue(sheetName, cell, v); err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	return nil
}
