package processor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"FlightDelayInsight/src/utils"
)

// ReportSheets 把各统计视图整理成导出用的工作表，每个视图一个
func (d *Dataset) ReportSheets(f Filter, topN int) []utils.Sheet {
	overview := d.Overview(f)
	formatted := overview.Format()

	sheets := []utils.Sheet{{
		Name:    "Overview",
		Headers: []string{"metric", "value", "formatted"},
		Rows: [][]any{
			{"total_flights", overview.TotalFlights, formatted.TotalFlights},
			{"total_delays", overview.TotalDelays, formatted.TotalDelays},
			{"delay_percentage", Round2(overview.DelayPercentage), formatted.DelayPercentage},
			{"years", joinInts(f.Years), ""},
			{"airlines", strings.Join(f.Airlines, ", "), ""},
			{"available_years", joinInts(overview.AvailableYears), ""},
		},
		Widths: []float64{20, 14, 16},
	}}

	airports := utils.Sheet{Name: "Top Airports", Headers: []string{"rank", "airport_name", "delay_count"}, Widths: []float64{8, 40, 14}}
	for i, a := range d.TopDelayedAirports(f, topN) {
		airports.Rows = append(airports.Rows, []any{i + 1, a.AirportName, a.DelayCount})
	}
	sheets = append(sheets, airports)

	b := d.DelayBreakdown(f)
	breakdown := utils.Sheet{Name: "Delay Breakdown", Headers: []string{"dimension", "bucket", "delay_count"}, Widths: []float64{14, 14, 14}}
	for _, w := range Weekdays {
		breakdown.Rows = append(breakdown.Rows, []any{"weekday", w.String(), b.ByWeekday[w]})
	}
	for _, p := range DayPeriods {
		breakdown.Rows = append(breakdown.Rows, []any{"day_period", p.String(), b.ByDayPeriod[p]})
	}
	sheets = append(sheets, breakdown)

	sheets = append(sheets, trendSheet(d.Trend(f)))

	rep := d.DelayReasons(f, topN, 0)
	reasons := utils.Sheet{Name: "Delay Reasons", Headers: []string{"code", "delay_count"}, Widths: []float64{16, 14}}
	for _, rc := range rep.Reasons {
		reasons.Rows = append(reasons.Rows, []any{rc.Code, rc.Count})
	}
	reasons.Rows = append(reasons.Rows,
		[]any{"unjustified", rep.Unjustified},
		[]any{fmt.Sprintf("over_%gh", rep.LongHours), rep.LongDelays},
	)
	sheets = append(sheets, reasons)

	airlines := utils.Sheet{Name: "Top Airlines", Headers: []string{"rank", "airline_name", "flights"}, Widths: []float64{8, 40, 14}}
	for i, a := range d.TopAirlinesByFlights(f, topN) {
		airlines.Rows = append(airlines.Rows, []any{i + 1, a.AirlineName, a.Flights})
	}
	sheets = append(sheets, airlines)

	monthly := utils.Sheet{Name: "Monthly", Headers: []string{"month", "flights", "delays"}, Widths: []float64{12, 12, 12}}
	for _, m := range d.MonthlyVolume(f) {
		monthly.Rows = append(monthly.Rows, []any{m.Month, m.Flights, m.Delays})
	}
	sheets = append(sheets, monthly)

	return sheets
}

func trendSheet(tr TrendReport) utils.Sheet {
	headers := []string{"trend", "airport_name", "year1", "year2", "year3", "variation"}
	if len(tr.Years) == 3 {
		headers = []string{"trend", "airport_name",
			strconv.Itoa(tr.Years[0]), strconv.Itoa(tr.Years[1]), strconv.Itoa(tr.Years[2]), "variation"}
	}
	sheet := utils.Sheet{Name: "Trends", Headers: headers, Widths: []float64{12, 40, 10, 10, 10, 12}}

	if tr.Insufficient {
		sheet.Rows = append(sheet.Rows, []any{"insufficient_data", "missing years: " + joinInts(tr.MissingYears)})
		return sheet
	}
	for _, e := range tr.Increase {
		sheet.Rows = append(sheet.Rows, []any{"increase", e.AirportName, e.Year1Count, e.Year2Count, e.Year3Count, e.Variation})
	}
	for _, e := range tr.Decrease {
		sheet.Rows = append(sheet.Rows, []any{"decrease", e.AirportName, e.Year1Count, e.Year2Count, e.Year3Count, e.Variation})
	}
	return sheet
}

// Round2 保留两位小数
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
