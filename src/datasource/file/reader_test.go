package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeWorkbook 用 excelize 生成测试用的 xlsx 文件
func writeWorkbook(t *testing.T, dir, name, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadDelimitedKeepsText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "codes.csv", "code;value\n0012;1.50\n0007;\n")

	df, err := ReadDelimited(path, ReadOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, df.Nrow())

	assert.Equal(t, series.String, df.Col("code").Type())
	assert.Equal(t, series.String, df.Col("value").Type())
	assert.Equal(t, []string{"0012", "0007"}, StringValues(df.Col("code")))
	assert.Equal(t, []string{"1.50", ""}, StringValues(df.Col("value")))
}

func TestReadDelimitedStripsBOM(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bom.csv", "\xef\xbb\xbfident,name\nSBGR,Guarulhos\n")

	df, err := ReadDelimited(path, ReadOptions{Delimiter: ','})
	require.NoError(t, err)
	assert.Equal(t, []string{"ident", "name"}, df.Names())
}

func TestReadDelimitedUnknownEncoding(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.csv", "a;b\n1;2\n")

	_, err := ReadDelimited(path, ReadOptions{Encoding: "no-such-charset"})
	assert.Error(t, err)
}

func TestReadDelimitedMissingFile(t *testing.T) {
	_, err := ReadDelimited(filepath.Join(t.TempDir(), "none.csv"), ReadOptions{})
	assert.Error(t, err)
}

func TestReadXLSX(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "flights.xlsx", "Dados", [][]any{
		{"ident", "name", ""},
		{"SBGR", "Guarulhos"},
		{},
		{"SBRJ", "Santos Dumont"},
	})

	df, err := ReadXLSX(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"ident", "name"}, df.Names())
	assert.Equal(t, []string{"SBGR", "SBRJ"}, StringValues(df.Col("ident")))

	df, err = ReadTable(path, ReadOptions{SheetName: "Dados"})
	require.NoError(t, err)
	assert.Equal(t, 2, df.Nrow())

	_, err = ReadXLSX(path, "Missing")
	assert.Error(t, err)
}

func TestExcelToTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"44927", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"44927.5", time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC), true},
		{"0", time.Time{}, false},
		{"abc", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := excelToTime(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.True(t, tt.want.Equal(got), "%s: got %s", tt.in, got)
		}
	}
}

func TestExcelTimeMapper(t *testing.T) {
	s := series.New([]string{"44927.75", "01/02/2023 08:30", ""}, series.String, "ts")
	got := s.Map(excelTimeMapper("02/01/2006 15:04"))

	assert.Equal(t, "01/01/2023 18:00", got.Elem(0).String())
	assert.Equal(t, "01/02/2023 08:30", got.Elem(1).String())
}
