package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExcelSinkWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, NewExcelSink(path).WriteFile(sampleResults()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 5, "header plus four flattened rows")

	assert.Equal(t, Columns, rows[0][:len(Columns)])
	assert.Equal(t, "ロレックス 126610LN ブラック 中古", rows[1][0])
	assert.Equal(t, "¥2,480,000", rows[1][5])
	assert.Equal(t, NoMatchSentinel, rows[3][1])

	// The error row only carries keywords and the message; excelize trims
	// trailing empty cells, so locate the error by column index guardedly.
	errRow := rows[4]
	assert.Equal(t, "カルティエ タンク 中古", errRow[0])
	require.Len(t, errRow, len(Columns))
	assert.Equal(t, "search failed: upstream 500", errRow[13])
}

func TestBuildWorkbookEmptyResults(t *testing.T) {
	f, err := BuildWorkbook(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header row only")
}
