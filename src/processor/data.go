// data.go
package processor

import (
	"slices"
	"sort"
)

// Dataset 构建完成后只读的航班记录集合，所有统计都基于它计算
// 过滤只会生成新的切片，不会修改基础数据
type Dataset struct {
	records    []FlightRecord
	years      []int
	airlines   []string
	trendYears []int
}

// DatasetOption 数据集选项
type DatasetOption func(*Dataset)

// WithTrendYears 指定趋势分析的三个参考年份，不指定时取数据中最近的三年
func WithTrendYears(years []int) DatasetOption {
	return func(d *Dataset) {
		if len(years) == 0 {
			return
		}
		ys := slices.Clone(years)
		sort.Ints(ys)
		ys = slices.Compact(ys)
		if len(ys) > 3 {
			ys = ys[len(ys)-3:]
		}
		d.trendYears = ys
	}
}

// NewDataset 用已派生特征的记录创建数据集
func NewDataset(records []FlightRecord, opts ...DatasetOption) *Dataset {
	d := &Dataset{records: slices.Clone(records)}
	if d.records == nil {
		d.records = []FlightRecord{}
	}

	yearSet := map[int]struct{}{}
	airlineSet := map[string]struct{}{}
	for i := range d.records {
		yearSet[d.records[i].Year] = struct{}{}
		airlineSet[d.records[i].AirlineName] = struct{}{}
	}

	d.years = make([]int, 0, len(yearSet))
	for y := range yearSet {
		d.years = append(d.years, y)
	}
	sort.Ints(d.years)

	d.airlines = make([]string, 0, len(airlineSet))
	for a := range airlineSet {
		d.airlines = append(d.airlines, a)
	}
	sort.Strings(d.airlines)

	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Len 记录总数
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records 返回记录的副本
func (d *Dataset) Records() []FlightRecord {
	return slices.Clone(d.records)
}

// Years 数据中出现过的年份（升序）
func (d *Dataset) Years() []int {
	return slices.Clone(d.years)
}

// Airlines 数据中出现过的航空公司名称（升序），用作过滤选项
func (d *Dataset) Airlines() []string {
	return slices.Clone(d.airlines)
}

// TrendYears 趋势分析的参考年份，数据不足三年且未指定时返回全部年份
func (d *Dataset) TrendYears() []int {
	if len(d.trendYears) > 0 {
		return slices.Clone(d.trendYears)
	}
	if len(d.years) <= 3 {
		return slices.Clone(d.years)
	}
	return slices.Clone(d.years[len(d.years)-3:])
}

// slice 返回满足过滤条件的记录，不复制记录本身
func (d *Dataset) slice(f Filter) []*FlightRecord {
	out := make([]*FlightRecord, 0, len(d.records))
	for i := range d.records {
		if f.Match(&d.records[i]) {
			out = append(out, &d.records[i])
		}
	}
	return out
}
