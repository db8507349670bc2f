package processor

import (
	"time"

	"FlightDelayInsight/src/config"
	"FlightDelayInsight/src/datasource/file"

	"github.com/go-gota/gota/dataframe"
	"go.uber.org/zap"
)

// DeriveFeatures 解析四个时间列并计算延误特征，返回记录切片
// 任一时间无法解析的行直接丢弃，只在 debug 日志里记数量
func DeriveFeatures(df dataframe.DataFrame, layout string, logger *zap.Logger) []FlightRecord {
	if df.Nrow() == 0 {
		return []FlightRecord{}
	}

	col := func(name string) []string {
		if !file.HasColumn(df, name) {
			return make([]string, df.Nrow())
		}
		return file.StringValues(df.Col(name))
	}

	var (
		status        = col(config.RoleStatus)
		origin        = col(config.RoleOriginAirport)
		destination   = col(config.RoleDestinationAirport)
		airline       = col(config.RoleAirline)
		flightNumber  = col(config.RoleFlightNumber)
		justification = col(config.RoleJustification)
		originName    = col(ColOriginAirportName)
		airlineName   = col(ColAirlineName)
		schedDep      = col(config.RoleScheduledDeparture)
		actualDep     = col(config.RoleActualDeparture)
		schedArr      = col(config.RoleScheduledArrival)
		actualArr     = col(config.RoleActualArrival)
	)

	years, err := df.Col(file.ColYear).Int()
	if err != nil {
		logger.Error("年份列无法转换为整数", zap.Error(err))
		return []FlightRecord{}
	}

	records := make([]FlightRecord, 0, df.Nrow())
	dropped := 0
	for i := 0; i < df.Nrow(); i++ {
		times, ok := parseTimes(layout, schedDep[i], actualDep[i], schedArr[i], actualArr[i])
		if !ok {
			dropped++
			continue
		}

		r := FlightRecord{
			Year:                   years[i],
			FlightNumber:           flightNumber[i],
			AirlineCode:            airline[i],
			AirlineName:            fallback(airlineName[i], airline[i]),
			OriginAirportCode:      origin[i],
			OriginAirportName:      fallback(originName[i], origin[i]),
			DestinationAirportCode: destination[i],
			Status:                 status[i],
			JustificationCode:      justification[i],
			ScheduledDeparture:     times[0],
			ActualDeparture:        times[1],
			ScheduledArrival:       times[2],
			ActualArrival:          times[3],
		}
		r.DelayMinutes = r.ActualDeparture.Sub(r.ScheduledDeparture).Minutes()
		r.IsDelayed = r.DelayMinutes > DelayThresholdMinutes
		r.Weekday = WeekdayOf(r.ScheduledDeparture)
		r.DayPeriod = DayPeriodOf(r.ScheduledDeparture.Hour())
		records = append(records, r)
	}

	logger.Debug("延误特征计算完成",
		zap.Int("rows", df.Nrow()),
		zap.Int("records", len(records)),
		zap.Int("dropped", dropped),
	)
	return records
}

func parseTimes(layout string, values ...string) ([4]time.Time, bool) {
	var out [4]time.Time
	for i, v := range values {
		t, err := time.Parse(layout, v)
		if err != nil {
			return out, false
		}
		out[i] = t
	}
	return out, true
}

func fallback(name, code string) string {
	if name == "" {
		return code
	}
	return name
}
