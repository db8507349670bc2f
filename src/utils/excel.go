package utils

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

// Sheet 一个工作表：标题行加数据行
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
	Widths  []float64 // 可选，按列设置列宽
}

// NewWorkbook 按顺序生成工作簿，第一个工作表为活动工作表
func NewWorkbook(sheets []Sheet) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, eris.New("excel: no sheets")
	}

	f := excelize.NewFile()
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, eris.Wrap(err, "excel: header style")
	}

	for i, s := range sheets {
		if err := writeSheet(f, i, s, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}
	// 默认的 Sheet1 没被使用时删掉
	if sheets[0].Name != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			f.Close()
			return nil, eris.Wrap(err, "excel: delete default sheet")
		}
	}
	if idx, err := f.GetSheetIndex(sheets[0].Name); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func writeSheet(f *excelize.File, pos int, s Sheet, headerStyle int) error {
	if pos > 0 || s.Name != "Sheet1" {
		if _, err := f.NewSheet(s.Name); err != nil {
			return eris.Wrapf(err, "excel: new sheet %s", s.Name)
		}
	}

	for col, h := range s.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(s.Name, cell, h); err != nil {
			return eris.Wrapf(err, "excel: write header %s", cell)
		}
	}
	if len(s.Headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(s.Headers), 1)
		if err := f.SetCellStyle(s.Name, "A1", last, headerStyle); err != nil {
			return eris.Wrap(err, "excel: header style")
		}
	}

	for r, row := range s.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(s.Name, cell, &row); err != nil {
			return eris.Wrapf(err, "excel: write row %d", r+2)
		}
	}

	for col, w := range s.Widths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(s.Name, name, name, w); err != nil {
			return eris.Wrapf(err, "excel: width %s", name)
		}
	}
	return nil
}

// WriteExcel 生成工作簿写入 w
func WriteExcel(w io.Writer, sheets []Sheet) error {
	f, err := NewWorkbook(sheets)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "excel: write")
	}
	return nil
}

// SaveToExcel 生成工作簿保存到 filePath
func SaveToExcel(sheets []Sheet, filePath string) error {
	f, err := NewWorkbook(sheets)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return eris.Wrapf(err, "创建目录失败: %s", filepath.Dir(filePath))
	}
	if err := f.SaveAs(filePath); err != nil {
		return eris.Wrapf(err, "保存Excel文件失败: %s", filePath)
	}
	return nil
}
