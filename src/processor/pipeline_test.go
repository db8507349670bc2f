package processor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"FlightDelayInsight/src/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const vraHeader = "ICAO Empresa Aérea;Número Voo;ICAO Aeródromo Origem;ICAO Aeródromo Destino;" +
	"Partida Prevista;Partida Real;Chegada Prevista;Chegada Real;Situação Voo;Código Justificativa\n"

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func pipelineConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	return &config.Config{
		Data: config.DataConfig{
			FlightFileMap: map[string]string{
				"2022": write(t, dir, "VRA2022.csv", vraHeader+
					"GLO;1;SBGR;SBRJ;03/01/2022 10:00;03/01/2022 10:30;03/01/2022 11:00;03/01/2022 11:30;REALIZADO;\n"+
					"GLO;2;SBGR;SBRJ;03/01/2022 11:00;03/01/2022 11:00;03/01/2022 12:00;03/01/2022 12:00;CANCELADO;\n"),
				"2023": write(t, dir, "VRA2023.csv", vraHeader+
					"GLO;1;SBGR;SBRJ;02/01/2023 10:00;02/01/2023 10:30;02/01/2023 11:00;02/01/2023 11:30;REALIZADO;\n"+
					"AZU;3;SBGR;SBKP;02/01/2023 20:00;02/01/2023 20:40;02/01/2023 21:00;02/01/2023 21:40;REALIZADO;0012\n"+
					"AZU;4;SBXX;SBKP;02/01/2023 20:00;;02/01/2023 21:00;;REALIZADO;\n"),
				"2024": filepath.Join(dir, "VRA2024.csv"),
			},
			AirportFile:       write(t, dir, "airports.csv", "ident;name;iso_country\nSBGR;Guarulhos;BR\nKJFK;JFK;US\n"),
			AirlineFile:       write(t, dir, "airlines.csv", "Sigla;Nome\nGLO;GOL\nAZU;AZUL\n"),
			Delimiter:         ";",
			FlightEncoding:    "utf-8",
			ReferenceEncoding: "utf-8",
			Country:           "BR",
			CompletedStatus:   "REALIZADO",
			TimestampLayout:   layout,
		},
	}
}

func TestPipelineBuild(t *testing.T) {
	dir := t.TempDir()
	cfg := pipelineConfig(t, dir)

	ds, err := NewPipeline(cfg, zaptest.NewLogger(t)).Build(context.Background())
	require.NoError(t, err)

	// 取消的航班被过滤，无法解析时间的航班被丢弃
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []int{2022, 2023}, ds.Years())
	assert.Equal(t, []string{"AZUL", "GOL"}, ds.Airlines())
	// 2024 文件缺失，但仍是趋势参考年份
	assert.Equal(t, []int{2022, 2023, 2024}, ds.TrendYears())

	o := ds.Overview(Filter{})
	assert.Equal(t, 3, o.TotalFlights)
	assert.Equal(t, 3, o.TotalDelays)

	assert.Equal(t, []AirportDelays{{"Guarulhos", 3}}, ds.TopDelayedAirports(Filter{}, 10))

	tr := ds.Trend(Filter{})
	assert.True(t, tr.Insufficient)
	assert.Equal(t, []int{2024}, tr.MissingYears)

	recs := ds.Records()
	assert.Equal(t, "0012", recs[2].JustificationCode)
	assert.Equal(t, "SBKP", recs[2].DestinationAirportCode)
}

func TestPipelineNoFiles(t *testing.T) {
	cfg := &config.Config{Data: config.DataConfig{TimestampLayout: layout, CompletedStatus: "REALIZADO"}}

	store := NewStore(NewPipeline(cfg, zaptest.NewLogger(t)))
	ds, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Zero(t, ds.Len())
	assert.Zero(t, ds.Overview(Filter{}).TotalFlights)
	assert.True(t, ds.Trend(Filter{}).Insufficient)
}

func TestPipelineBlankCodesInLaterYears(t *testing.T) {
	dir := t.TempDir()
	cfg := pipelineConfig(t, dir)

	ds, err := NewPipeline(cfg, zaptest.NewLogger(t)).Build(context.Background())
	require.NoError(t, err)

	// 第二个文件里的空原因代码不能变成 "NaN"
	for _, year := range []int{2022, 2023} {
		rep := ds.DelayReasons(Filter{Years: []int{year}}, 0, 0)
		assert.Equal(t, 1, rep.Unjustified, "year %d", year)
		for _, rc := range rep.Reasons {
			assert.NotEqual(t, "NaN", rc.Code, "year %d", year)
		}
	}
	assert.Equal(t, []ReasonCount{{Code: UnjustifiedCode, Count: 1}, {Code: "0012", Count: 1}},
		ds.DelayReasons(Filter{Years: []int{2023}}, 0, 0).Reasons)

	for _, r := range ds.Records() {
		assert.NotEqual(t, "NaN", r.OriginAirportName)
		assert.NotEqual(t, "NaN", r.AirlineName)
	}
}
