package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"FlightDelayInsight/src/config"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ColYear 合并后表中的年份列，取自文件而不是时间戳
const ColYear = "year"

// FlightColumns 合并后航班表的标准列（不含年份列）
var FlightColumns = []string{
	config.RoleStatus,
	config.RoleOriginAirport,
	config.RoleDestinationAirport,
	config.RoleAirline,
	config.RoleFlightNumber,
	config.RoleScheduledDeparture,
	config.RoleActualDeparture,
	config.RoleScheduledArrival,
	config.RoleActualArrival,
	config.RoleJustification,
}

// RequiredFlightColumns 缺少任一列的文件视为格式错误
var RequiredFlightColumns = []string{
	config.RoleStatus,
	config.RoleOriginAirport,
	config.RoleAirline,
	config.RoleScheduledDeparture,
	config.RoleActualDeparture,
	config.RoleScheduledArrival,
	config.RoleActualArrival,
}

var timestampColumns = []string{
	config.RoleScheduledDeparture,
	config.RoleActualDeparture,
	config.RoleScheduledArrival,
	config.RoleActualArrival,
}

// FlightSource 描述年度航班文件及其解析规则
type FlightSource struct {
	Files       []config.YearFile
	Columns     map[string][]string
	Delimiter   rune
	Encoding    string
	SheetName   string
	Layout      string // xlsx 中的序列日期按此格式转成文本
	Concurrency int    // 并行读取的文件数，默认 4
}

// LoadFlightRecords 逐个读取年度文件，给每行打上年份后按年份顺序纵向合并
// 单个文件缺失或格式错误时记录日志并跳过；一个都没读到时返回空表而不是错误。
// 只有 ctx 被取消时才返回错误。
func LoadFlightRecords(ctx context.Context, src FlightSource, logger *zap.Logger) (dataframe.DataFrame, error) {
	frames := make([]*dataframe.DataFrame, len(src.Files))

	limit := src.Concurrency
	if limit <= 0 {
		limit = 4
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, yf := range src.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			log := logger.With(zap.Int("year", yf.Year), zap.String("path", yf.Path))

			df, err := loadYearFile(yf, src)
			if err != nil {
				log.Warn("航班文件跳过", zap.Error(err))
				return nil
			}
			log.Info("航班文件读取完成", zap.Int("rows", df.Nrow()))
			frames[i] = &df
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return emptyFlightFrame(), eris.Wrap(err, "loader: load flight files")
	}

	combined := emptyFlightFrame()
	loaded := 0
	for _, df := range frames {
		if df == nil {
			continue
		}
		if loaded == 0 {
			combined = *df
		} else {
			combined = combined.RBind(*df)
		}
		loaded++
	}
	if combined.Err != nil {
		logger.Error("航班数据合并失败", zap.Error(combined.Err))
		return emptyFlightFrame(), nil
	}

	if loaded == 0 {
		logger.Warn("没有读取到任何航班文件", zap.Int("configured", len(src.Files)))
	} else {
		logger.Info("航班数据合并完成", zap.Int("files", loaded), zap.Int("rows", combined.Nrow()))
	}
	return combined, nil
}

// loadYearFile 读取单个年度文件并整理成标准列
func loadYearFile(yf config.YearFile, src FlightSource) (dataframe.DataFrame, error) {
	if _, err := os.Stat(yf.Path); err != nil {
		return dataframe.DataFrame{}, eris.Wrap(err, "loader: stat flight file")
	}

	raw, err := ReadTable(yf.Path, ReadOptions{
		Delimiter: src.Delimiter,
		Encoding:  src.Encoding,
		SheetName: src.SheetName,
	})
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	df, err := canonicalize(raw, src.Columns, yf.Year)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	if strings.EqualFold(filepath.Ext(yf.Path), ".xlsx") && src.Layout != "" {
		for _, col := range timestampColumns {
			df = df.Mutate(df.Col(col).Map(excelTimeMapper(src.Layout)))
		}
		if df.Err != nil {
			return dataframe.DataFrame{}, eris.Wrap(df.Err, "loader: convert excel dates")
		}
	}
	return df, nil
}

// canonicalize 按列角色挑出需要的列并改成标准列名，缺少的可选列补空，再加上年份列
func canonicalize(raw dataframe.DataFrame, mapping map[string][]string, year int) (dataframe.DataFrame, error) {
	resolved := ResolveColumns(raw.Names(), mapping)
	if missing := missingRoles(resolved, RequiredFlightColumns); len(missing) > 0 {
		return dataframe.DataFrame{}, eris.Errorf("loader: missing required columns %v", missing)
	}

	n := raw.Nrow()
	columns := make([]series.Series, 0, len(FlightColumns)+1)
	for _, role := range FlightColumns {
		actual, ok := resolved[role]
		if !ok {
			columns = append(columns, series.New(make([]string, n), series.String, role))
			continue
		}
		// NA 统一成空串，否则 RBind 会把后续文件的空值写成 "NaN"
		columns = append(columns, series.New(StringValues(raw.Col(actual)), series.String, role))
	}

	years := make([]int, n)
	for i := range years {
		years[i] = year
	}
	columns = append(columns, series.New(years, series.Int, ColYear))

	df := dataframe.New(columns...)
	if df.Err != nil {
		return dataframe.DataFrame{}, eris.Wrap(df.Err, "loader: build frame")
	}
	return df, nil
}

// emptyFlightFrame 零行的标准航班表
func emptyFlightFrame() dataframe.DataFrame {
	columns := make([]series.Series, 0, len(FlightColumns)+1)
	for _, role := range FlightColumns {
		columns = append(columns, series.New([]string{}, series.String, role))
	}
	columns = append(columns, series.New([]int{}, series.Int, ColYear))
	return dataframe.New(columns...)
}
