package processor

import (
	"time"
)

// flight 构造一条测试记录，delay 为起飞延误分钟数
func flight(year int, airport, airline string, sched time.Time, delay float64) FlightRecord {
	actual := sched.Add(time.Duration(delay * float64(time.Minute)))
	return FlightRecord{
		Year:               year,
		AirlineCode:        airline,
		AirlineName:        airline,
		OriginAirportCode:  airport,
		OriginAirportName:  airport,
		Status:             "REALIZADO",
		ScheduledDeparture: sched,
		ActualDeparture:    actual,
		ScheduledArrival:   sched.Add(time.Hour),
		ActualArrival:      actual.Add(time.Hour),
		DelayMinutes:       delay,
		IsDelayed:          delay > DelayThresholdMinutes,
		Weekday:            WeekdayOf(sched),
		DayPeriod:          DayPeriodOf(sched.Hour()),
	}
}

// delayed 生成 n 条同一机场、同一年的延误记录
func delayed(n, year int, airport string) []FlightRecord {
	out := make([]FlightRecord, 0, n)
	sched := time.Date(year, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		out = append(out, flight(year, airport, "GOL", sched, 30))
	}
	return out
}
