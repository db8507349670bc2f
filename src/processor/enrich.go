package processor

import (
	"strings"

	"FlightDelayInsight/src/config"
	"FlightDelayInsight/src/datasource/file"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// 补全后新增的名称列
const (
	ColOriginAirportName = "origin_airport_name"
	ColAirlineName       = "airline_name"
)

// FilterCompleted 只保留状态为 status 的航班（去空白、忽略大小写）
func FilterCompleted(df dataframe.DataFrame, status string) dataframe.DataFrame {
	if df.Nrow() == 0 {
		return df
	}
	want := strings.TrimSpace(status)
	return df.Filter(dataframe.F{
		Colname:    config.RoleStatus,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return !el.IsNA() && strings.EqualFold(strings.TrimSpace(el.String()), want)
		},
	})
}

// Enrich 按机场代码和航空公司代码左连接参考表，追加名称列
// 参考表中找不到的代码直接用代码本身作为名称
func Enrich(df dataframe.DataFrame, airports, airlines map[string]string) dataframe.DataFrame {
	df = df.Mutate(lookupSeries(df.Col(config.RoleOriginAirport), airports, ColOriginAirportName))
	return df.Mutate(lookupSeries(df.Col(config.RoleAirline), airlines, ColAirlineName))
}

func lookupSeries(codes series.Series, refs map[string]string, name string) series.Series {
	values := file.StringValues(codes)
	names := make([]string, len(values))
	for i, code := range values {
		if n, ok := refs[code]; ok {
			names[i] = n
		} else {
			names[i] = code
		}
	}
	return series.New(names, series.String, name)
}
