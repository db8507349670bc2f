package processor

import (
	"slices"
	"time"
)

// DelayThresholdMinutes 起飞延误超过该分钟数（严格大于）才算延误航班
const DelayThresholdMinutes = 15.0

// Weekday 星期，周一为 0
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Weekdays 周一到周日的固定顺序
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (w Weekday) String() string {
	if w < Monday || w > Sunday {
		return "Unknown"
	}
	return weekdayNames[w]
}

// WeekdayOf time.Weekday 以周日为 0，这里换成周一为 0
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// DayPeriod 一天中的时段，按计划起飞的小时划分
type DayPeriod int

const (
	Dawn      DayPeriod = iota // [0,6)
	Morning                    // [6,12)
	Afternoon                  // [12,18)
	Night                      // [18,24)
)

var dayPeriodNames = [...]string{"Dawn", "Morning", "Afternoon", "Night"}

// DayPeriods 时段的固定顺序
var DayPeriods = []DayPeriod{Dawn, Morning, Afternoon, Night}

func (p DayPeriod) String() string {
	if p < Dawn || p > Night {
		return "Unknown"
	}
	return dayPeriodNames[p]
}

// DayPeriodOf 小时 -> 时段
func DayPeriodOf(hour int) DayPeriod {
	switch {
	case hour < 6:
		return Dawn
	case hour < 12:
		return Morning
	case hour < 18:
		return Afternoon
	default:
		return Night
	}
}

// FlightRecord 一条已完成、已补全名称并派生了延误特征的航班
type FlightRecord struct {
	Year                   int // 来自文件，不从时间戳推算
	FlightNumber           string
	AirlineCode            string
	AirlineName            string
	OriginAirportCode      string
	OriginAirportName      string
	DestinationAirportCode string
	Status                 string
	JustificationCode      string

	ScheduledDeparture time.Time
	ActualDeparture    time.Time
	ScheduledArrival   time.Time
	ActualArrival      time.Time

	DelayMinutes float64
	IsDelayed    bool
	Weekday      Weekday
	DayPeriod    DayPeriod
}

// Filter 查询过滤条件，空集合表示不限制
type Filter struct {
	Years    []int
	Airlines []string
}

// Match 判断记录是否满足过滤条件
func (f Filter) Match(r *FlightRecord) bool {
	if len(f.Years) > 0 && !slices.Contains(f.Years, r.Year) {
		return false
	}
	if len(f.Airlines) > 0 && !slices.Contains(f.Airlines, r.AirlineName) {
		return false
	}
	return true
}
