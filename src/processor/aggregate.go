package processor

import (
	"bytes"
	"fmt"
	"slices"
	"sort"
	"time"
)

// DefaultTopN 排行榜默认条数
const DefaultTopN = 10

// Overview 总览指标
type Overview struct {
	TotalFlights    int     `json:"total_flights"`
	TotalDelays     int     `json:"total_delays"`
	DelayPercentage float64 `json:"delay_percentage"`
	AvailableYears  []int   `json:"available_years"`
}

// AirportDelays 机场延误数
type AirportDelays struct {
	AirportName string `json:"airport_name"`
	DelayCount  int    `json:"delay_count"`
}

// AirlineFlights 航空公司航班量
type AirlineFlights struct {
	AirlineName string `json:"airline_name"`
	Flights     int    `json:"flights"`
}

// MonthVolume 某个月的航班量
type MonthVolume struct {
	Month   string `json:"month"` // 2006-01
	Flights int    `json:"flights"`
	Delays  int    `json:"delays"`
}

// Breakdown 按星期和时段统计的延误数，两组都是固定顺序且补零
type Breakdown struct {
	ByWeekday   [7]int
	ByDayPeriod [4]int
}

// MarshalJSON 按周一到周日、凌晨到夜间的顺序输出
func (b Breakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"by_weekday":{`)
	for i, w := range Weekdays {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%d", w.String(), b.ByWeekday[w])
	}
	buf.WriteString(`},"by_day_period":{`)
	for i, p := range DayPeriods {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%d", p.String(), b.ByDayPeriod[p])
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// TrendEntry 一个机场在三个参考年份的延误数
type TrendEntry struct {
	AirportName string `json:"airport_name"`
	Year1Count  int    `json:"year1_count"`
	Year2Count  int    `json:"year2_count"`
	Year3Count  int    `json:"year3_count"`
	Variation   int    `json:"-"` // year3 - year1，只用于排序
}

// TrendReport 三年趋势分类结果
// Insufficient 为 true 时不计算任何分类，MissingYears 列出过滤后缺少的参考年份
type TrendReport struct {
	Insufficient bool         `json:"insufficient_data"`
	Years        []int        `json:"years"`
	MissingYears []int        `json:"missing_years"`
	Increase     []TrendEntry `json:"increase"`
	Decrease     []TrendEntry `json:"decrease"`
}

// Overview 总览：航班数、延误数、延误率，以及全量数据中的年份
func (d *Dataset) Overview(f Filter) Overview {
	out := Overview{AvailableYears: d.Years()}
	for _, r := range d.slice(f) {
		out.TotalFlights++
		if r.IsDelayed {
			out.TotalDelays++
		}
	}
	if out.TotalFlights > 0 {
		out.DelayPercentage = float64(out.TotalDelays) / float64(out.TotalFlights) * 100
	}
	return out
}

// TopDelayedAirports 延误数最多的 n 个起飞机场
// 先按机场名排序再稳定降序，延误数相同的按名称先后
func (d *Dataset) TopDelayedAirports(f Filter, n int) []AirportDelays {
	if n <= 0 {
		n = DefaultTopN
	}

	counts := map[string]int{}
	for _, r := range d.slice(f) {
		c := counts[r.OriginAirportName]
		if r.IsDelayed {
			c++
		}
		counts[r.OriginAirportName] = c
	}

	out := make([]AirportDelays, 0, len(counts))
	for name, c := range counts {
		out = append(out, AirportDelays{AirportName: name, DelayCount: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AirportName < out[j].AirportName })
	sort.SliceStable(out, func(i, j int) bool { return out[i].DelayCount > out[j].DelayCount })

	if len(out) > n {
		out = out[:n]
	}
	return out
}

// DelayBreakdown 延误航班按星期和时段的分布
func (d *Dataset) DelayBreakdown(f Filter) Breakdown {
	var b Breakdown
	for _, r := range d.slice(f) {
		if !r.IsDelayed {
			continue
		}
		b.ByWeekday[r.Weekday]++
		b.ByDayPeriod[r.DayPeriod]++
	}
	return b
}

// Trend 三年趋势分类
// 过滤后的数据缺少任一参考年份时返回数据不足，不做部分计算
func (d *Dataset) Trend(f Filter) TrendReport {
	years := d.TrendYears()
	report := TrendReport{
		Years:        years,
		MissingYears: []int{},
		Increase:     []TrendEntry{},
		Decrease:     []TrendEntry{},
	}
	if len(years) != 3 {
		report.Insufficient = true
		return report
	}

	records := d.slice(f)
	present := map[int]bool{}
	for _, r := range records {
		present[r.Year] = true
	}
	for _, y := range years {
		if !present[y] {
			report.MissingYears = append(report.MissingYears, y)
		}
	}
	if len(report.MissingYears) > 0 {
		report.Insufficient = true
		return report
	}

	// 机场 x 年份 透视，缺失组合记 0
	pivot := map[string]*[3]int{}
	for _, r := range records {
		idx := slices.Index(years, r.Year)
		if idx < 0 {
			continue
		}
		counts, ok := pivot[r.OriginAirportName]
		if !ok {
			counts = &[3]int{}
			pivot[r.OriginAirportName] = counts
		}
		if r.IsDelayed {
			counts[idx]++
		}
	}

	names := make([]string, 0, len(pivot))
	for name := range pivot {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c := pivot[name]
		e := TrendEntry{
			AirportName: name,
			Year1Count:  c[0],
			Year2Count:  c[1],
			Year3Count:  c[2],
			Variation:   c[2] - c[0],
		}
		switch {
		case e.Year2Count >= e.Year1Count && e.Year3Count > e.Year2Count:
			report.Increase = append(report.Increase, e)
		case e.Year2Count <= e.Year1Count && e.Year3Count < e.Year2Count:
			report.Decrease = append(report.Decrease, e)
		}
	}

	sort.SliceStable(report.Increase, func(i, j int) bool {
		return report.Increase[i].Variation > report.Increase[j].Variation
	})
	sort.SliceStable(report.Decrease, func(i, j int) bool {
		return report.Decrease[i].Variation < report.Decrease[j].Variation
	})
	if len(report.Increase) > DefaultTopN {
		report.Increase = report.Increase[:DefaultTopN]
	}
	if len(report.Decrease) > DefaultTopN {
		report.Decrease = report.Decrease[:DefaultTopN]
	}
	return report
}

// TopAirlinesByFlights 航班量最多的 n 家航空公司
func (d *Dataset) TopAirlinesByFlights(f Filter, n int) []AirlineFlights {
	if n <= 0 {
		n = DefaultTopN
	}

	counts := map[string]int{}
	for _, r := range d.slice(f) {
		counts[r.AirlineName]++
	}

	out := make([]AirlineFlights, 0, len(counts))
	for name, c := range counts {
		out = append(out, AirlineFlights{AirlineName: name, Flights: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AirlineName < out[j].AirlineName })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Flights > out[j].Flights })

	if len(out) > n {
		out = out[:n]
	}
	return out
}

// MonthlyVolume 按计划起飞月份统计航班量和延误数
// 从最早到最晚的月份连续输出，没有航班的月份记 0
func (d *Dataset) MonthlyVolume(f Filter) []MonthVolume {
	records := d.slice(f)
	if len(records) == 0 {
		return []MonthVolume{}
	}

	type bucket struct{ flights, delays int }
	buckets := map[time.Time]*bucket{}
	var first, last time.Time
	for _, r := range records {
		m := monthOf(r.ScheduledDeparture)
		b, ok := buckets[m]
		if !ok {
			b = &bucket{}
			buckets[m] = b
		}
		b.flights++
		if r.IsDelayed {
			b.delays++
		}
		if first.IsZero() || m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
	}

	out := []MonthVolume{}
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		v := MonthVolume{Month: m.Format("2006-01")}
		if b, ok := buckets[m]; ok {
			v.Flights = b.flights
			v.Delays = b.delays
		}
		out = append(out, v)
	}
	return out
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
