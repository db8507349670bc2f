package processor

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormattedOverview 面板展示用的总览文本（巴西葡语的千分位和小数点）
type FormattedOverview struct {
	TotalFlights    string `json:"total_flights"`
	TotalDelays     string `json:"total_delays"`
	DelayPercentage string `json:"delay_percentage"`
}

var ptBR = language.BrazilianPortuguese

// Format 按 pt-BR 习惯格式化，例如 1.234.567 和 12,50%
func (o Overview) Format() FormattedOverview {
	p := message.NewPrinter(ptBR)
	return FormattedOverview{
		TotalFlights:    p.Sprintf("%d", o.TotalFlights),
		TotalDelays:     p.Sprintf("%d", o.TotalDelays),
		DelayPercentage: p.Sprintf("%.2f%%", o.DelayPercentage),
	}
}

// FormatCount 按 pt-BR 千分位格式化整数
func FormatCount(n int) string {
	return message.NewPrinter(ptBR).Sprintf("%d", n)
}
