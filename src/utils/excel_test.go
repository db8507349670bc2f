package utils

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleSheets() []Sheet {
	return []Sheet{
		{
			Name:    "Overview",
			Headers: []string{"metric", "value"},
			Rows:    [][]any{{"total_flights", 120}, {"delay_percentage", 12.5}},
			Widths:  []float64{20, 12},
		},
		{
			Name:    "Top Airports",
			Headers: []string{"airport_name", "delay_count"},
			Rows:    [][]any{{"Guarulhos", 30}},
		},
	}
}

func TestSaveToExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, SaveToExcel(sampleSheets(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Overview", "Top Airports"}, f.GetSheetList())

	rows, err := f.GetRows("Overview")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"metric", "value"},
		{"total_flights", "120"},
		{"delay_percentage", "12.5"},
	}, rows)

	v, err := f.GetCellValue("Top Airports", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Guarulhos", v)

	styleID, err := f.GetCellStyle("Overview", "B1")
	require.NoError(t, err)
	assert.NotZero(t, styleID)
}

func TestWriteExcel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, sampleSheets()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 2)
}

func TestWriteExcelNoSheets(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteExcel(&buf, nil))
}

func TestSheetNamedSheet1(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, []Sheet{{Name: "Sheet1", Headers: []string{"a"}}}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())
}
