// reader.go
package file

import (
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx"
)

// Number 匹配 Excel 序列日期（纯数字，可带小数）
const Number string = `^[0-9]+(\.[0-9]+)?$`

var numberRe = regexp.MustCompile(Number)

// 读入时视为缺失值的文本
var naValues = []string{"", "null", "NULL", "NA", "NaN"}

// ReadOptions 文本表格的读取选项
type ReadOptions struct {
	Delimiter rune   // 默认 ';'
	Encoding  string // 默认 utf-8
	SheetName string // 仅 xlsx 使用，空则取第一个工作表
}

// ReadTable 按扩展名读取 .xlsx 或分隔符文本文件，所有列均按文本读入
func ReadTable(path string, opts ReadOptions) (dataframe.DataFrame, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path, opts.SheetName)
	}
	return ReadDelimited(path, opts)
}

// ReadDelimited 读取分隔符文本文件为 DataFrame
// 关闭类型推断，避免 "0012" 这类代码被当作数字
func ReadDelimited(path string, opts ReadOptions) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, eris.Wrapf(err, "reader: open %s", path)
	}
	defer f.Close()

	r, err := decodeReader(f, opts.Encoding)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = ';'
	}

	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter(delimiter),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, eris.Wrapf(df.Err, "reader: parse %s", path)
	}
	return df, nil
}

// ReadXLSX 读取 xlsx 工作表为 DataFrame，第一行是标题行
func ReadXLSX(filePath, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.DataFrame{}, eris.Wrapf(err, "reader: open xlsx %s", filePath)
	}
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, eris.Errorf("reader: %s has no sheets", filePath)
	}

	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		s, ok := xlFile.Sheet[sheetName]
		if !ok {
			return dataframe.DataFrame{}, eris.Errorf("reader: sheet %q not found in %s", sheetName, filePath)
		}
		sheet = s
	}

	df := convertSheetToDataFrame(sheet)
	if df.Err != nil {
		return dataframe.DataFrame{}, eris.Wrapf(df.Err, "reader: convert sheet %s", sheet.Name)
	}
	return df, nil
}

// convertSheetToDataFrame 将xlsx.Sheet转换为dataframe.DataFrame
func convertSheetToDataFrame(sheet *xlsx.Sheet) dataframe.DataFrame {
	if len(sheet.Rows) == 0 {
		return dataframe.DataFrame{Err: eris.New("empty sheet")}
	}

	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, strings.TrimSpace(cell.Value))
	}
	// 去掉尾部的空标题列
	for len(headers) > 0 && headers[len(headers)-1] == "" {
		headers = headers[:len(headers)-1]
	}
	if len(headers) == 0 {
		return dataframe.DataFrame{Err: eris.New("empty header row")}
	}

	records := make([][]string, 0, len(sheet.Rows))
	records = append(records, headers)
	for _, row := range sheet.Rows[1:] {
		if row == nil {
			continue
		}
		// 行内单元格可能少于标题列数，缺的补空串
		values := make([]string, len(headers))
		empty := true
		for i, cell := range row.Cells {
			if i >= len(headers) {
				break
			}
			values[i] = cell.Value
			if strings.TrimSpace(cell.Value) != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		records = append(records, values)
	}

	return dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
}

// excelTimeMapper 返回一个把 Excel 序列日期转换成 layout 文本的 MapFunction
// 非数字的值原样保留，交给后续的时间解析处理
func excelTimeMapper(layout string) series.MapFunction {
	return func(v series.Element) series.Element {
		if v.IsNA() {
			return v
		}
		s := strings.TrimSpace(v.String())
		if !numberRe.MatchString(s) {
			return v
		}
		if t, ok := excelToTime(s); ok {
			v.Set(t.Format(layout))
		}
		return v
	}
}

// excelToTime Excel 序列日期转 time.Time（1900 日期系统，精确到秒）
func excelToTime(s string) (time.Time, bool) {
	excelDays, err := strconv.ParseFloat(s, 64)
	if err != nil || excelDays <= 0 {
		return time.Time{}, false
	}

	// 基准取 1899-12-30 已经吸收了 1900 年闰年的历史错误
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	days := math.Floor(excelDays)
	seconds := math.Round((excelDays - days) * 86400)

	return base.AddDate(0, 0, int(days)).Add(time.Duration(seconds) * time.Second), true
}
