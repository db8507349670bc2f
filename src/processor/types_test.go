package processor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekdayOf(t *testing.T) {
	// 2024-01-01 是周一
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	for i, want := range Weekdays {
		assert.Equal(t, want, WeekdayOf(start.AddDate(0, 0, i)))
	}
	assert.Equal(t, "Sunday", WeekdayOf(start.AddDate(0, 0, 6)).String())
	assert.Equal(t, "Unknown", Weekday(9).String())
}

func TestDayPeriodOf(t *testing.T) {
	tests := []struct {
		hour int
		want DayPeriod
	}{
		{0, Dawn}, {5, Dawn},
		{6, Morning}, {11, Morning},
		{12, Afternoon}, {17, Afternoon},
		{18, Night}, {23, Night},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DayPeriodOf(tt.hour), "hour %d", tt.hour)
	}
	assert.Equal(t, "Afternoon", Afternoon.String())
}

func TestFilterMatch(t *testing.T) {
	r := flight(2023, "SBGR", "GOL", time.Date(2023, 5, 1, 9, 0, 0, 0, time.UTC), 0)

	assert.True(t, Filter{}.Match(&r))
	assert.True(t, Filter{Years: []int{2022, 2023}}.Match(&r))
	assert.False(t, Filter{Years: []int{2022}}.Match(&r))
	assert.True(t, Filter{Airlines: []string{"AZUL", "GOL"}}.Match(&r))
	assert.False(t, Filter{Years: []int{2023}, Airlines: []string{"AZUL"}}.Match(&r))
}
