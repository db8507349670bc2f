package file

import (
	"path/filepath"
	"testing"

	"FlightDelayInsight/src/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func airportSource() ReferenceSource {
	return ReferenceSource{
		Table:     "airport",
		Columns:   config.DefaultAirportColumns(),
		Delimiter: ',',
		Country:   "BR",
	}
}

func TestLoadReferenceTableCountryFilter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "airports.csv",
		"ident,type,name,iso_country\n"+
			"SBGR,large_airport,Guarulhos,BR\n"+
			"KJFK,large_airport,John F Kennedy,US\n"+
			" SBRJ ,medium_airport, Santos Dumont ,br\n")

	refs := LoadReferenceTable(path, airportSource(), zaptest.NewLogger(t))
	assert.Equal(t, map[string]string{
		"SBGR": "Guarulhos",
		"SBRJ": "Santos Dumont",
	}, refs)
}

func TestLoadReferenceTableNoCountryColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "airports.csv", "ident,name\nSBGR,Guarulhos\nKJFK,John F Kennedy\n")

	refs := LoadReferenceTable(path, airportSource(), zaptest.NewLogger(t))
	assert.Len(t, refs, 2)
}

func TestLoadReferenceTablePositionalFallback(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "airlines.csv", "codigo;empresa;pais\nGLO;GOL Linhas Aéreas;BR\nAZU;Azul;BR\n")

	refs := LoadReferenceTable(path, ReferenceSource{
		Table:   "airline",
		Columns: config.DefaultAirlineColumns(),
	}, zaptest.NewLogger(t))
	assert.Equal(t, "GOL Linhas Aéreas", refs["GLO"])
	assert.Equal(t, "Azul", refs["AZU"])
}

func TestLoadReferenceTableFirstMatchWins(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "airlines.csv", "ICAO;Name\nGLO;GOL\nGLO;Gol Transportes\n;Sem codigo\nTAM;\n")

	refs := LoadReferenceTable(path, ReferenceSource{
		Table:   "airline",
		Columns: config.DefaultAirlineColumns(),
	}, zaptest.NewLogger(t))
	assert.Equal(t, map[string]string{"GLO": "GOL"}, refs)
}

func TestLoadReferenceTableLatin1(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "airports.csv", "ident;name;iso_country\nSBSP;S\xe3o Paulo/Congonhas;BR\n")

	src := airportSource()
	src.Delimiter = ';'
	src.Encoding = "latin1"
	refs := LoadReferenceTable(path, src, zaptest.NewLogger(t))
	assert.Equal(t, "São Paulo/Congonhas", refs["SBSP"])
}

func TestLoadReferenceTableMissing(t *testing.T) {
	logger := zaptest.NewLogger(t)

	assert.Empty(t, LoadReferenceTable(filepath.Join(t.TempDir(), "none.csv"), airportSource(), logger))
	assert.Empty(t, LoadReferenceTable("", airportSource(), logger))
}

func TestLoadReferenceTableSingleColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "one.csv", "only\nA\n")

	assert.Empty(t, LoadReferenceTable(path, airportSource(), zaptest.NewLogger(t)))
}
