package handler

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"FlightDelayInsight/src/processor"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
)

// 查询参数错误
var (
	ErrInvalidYears = errors.New("参数 years 无效，应为逗号分隔的年份")
	ErrInvalidTopN  = errors.New("参数 n 无效，应为 1 到 100 之间的整数")
	ErrInvalidHours = errors.New("参数 hours 无效，应为正数")
)

const maxTopN = 100

// ParseYears 解析 "2022,2023"，空串表示不限制
func ParseYears(raw string) ([]int, error) {
	var years []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		y, err := strconv.Atoi(part)
		if err != nil || y <= 0 {
			return nil, eris.Wrapf(ErrInvalidYears, "year %q", part)
		}
		years = append(years, y)
	}
	return years, nil
}

// ParseAirlines 解析 "GOL,AZUL"，去掉空白项
func ParseAirlines(raw string) []string {
	var airlines []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			airlines = append(airlines, part)
		}
	}
	return airlines
}

// ParseFilter 从查询参数读取过滤条件，参数可重复出现也可逗号分隔
func ParseFilter(c *gin.Context) (processor.Filter, error) {
	years, err := ParseYears(strings.Join(c.QueryArray("years"), ","))
	if err != nil {
		return processor.Filter{}, err
	}
	return processor.Filter{
		Years:    years,
		Airlines: ParseAirlines(strings.Join(c.QueryArray("airlines"), ",")),
	}, nil
}

// parseTopN 读取 n，缺省时用 def
func parseTopN(c *gin.Context, def int) (int, error) {
	raw := strings.TrimSpace(c.Query("n"))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxTopN {
		return 0, eris.Wrapf(ErrInvalidTopN, "n %q", raw)
	}
	return n, nil
}

// parseHours 长延误阈值（小时），缺省为 0 交给 processor 取默认值
func parseHours(c *gin.Context) (float64, error) {
	raw := strings.TrimSpace(c.Query("hours"))
	if raw == "" {
		return 0, nil
	}
	h, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return 0, eris.Wrapf(ErrInvalidHours, "hours %q", raw)
	}
	return h, nil
}
