package processor

import "sort"

// UnjustifiedCode 延误航班没有填写原因代码时使用的分组
const UnjustifiedCode = "(none)"

// DefaultLongDelayHours 长延误的默认阈值
const DefaultLongDelayHours = 2.0

// ReasonCount 一个原因代码下的延误航班数
type ReasonCount struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// ReasonReport 延误原因统计
type ReasonReport struct {
	Delayed     int           `json:"delayed"`
	Unjustified int           `json:"unjustified"`
	LongDelays  int           `json:"long_delays"` // 延误超过 LongDelayHours 的航班
	LongHours   float64       `json:"long_delay_hours"`
	Reasons     []ReasonCount `json:"reasons"`
}

// DelayReasons 按原因代码统计延误航班
// 没有原因代码的延误记到 UnjustifiedCode 下，同时单独计数
func (d *Dataset) DelayReasons(f Filter, n int, longHours float64) ReasonReport {
	if n <= 0 {
		n = DefaultTopN
	}
	if longHours <= 0 {
		longHours = DefaultLongDelayHours
	}

	rep := ReasonReport{LongHours: longHours, Reasons: []ReasonCount{}}
	counts := map[string]int{}
	for _, r := range d.slice(f) {
		if !r.IsDelayed {
			continue
		}
		rep.Delayed++
		if r.DelayMinutes > longHours*60 {
			rep.LongDelays++
		}

		code := r.JustificationCode
		if code == "" {
			code = UnjustifiedCode
			rep.Unjustified++
		}
		counts[code]++
	}

	for code, c := range counts {
		rep.Reasons = append(rep.Reasons, ReasonCount{Code: code, Count: c})
	}
	sort.Slice(rep.Reasons, func(i, j int) bool { return rep.Reasons[i].Code < rep.Reasons[j].Code })
	sort.SliceStable(rep.Reasons, func(i, j int) bool { return rep.Reasons[i].Count > rep.Reasons[j].Count })

	if len(rep.Reasons) > n {
		rep.Reasons = rep.Reasons[:n]
	}
	return rep
}
