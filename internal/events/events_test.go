package events

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// accidentsCSV is latin-1 encoded: \xe3 is "ã" and \xe7 is "ç"
var accidentsCSV = []byte("data;horario;tipo_de_acidente;tipo_de_ocorrencia;levemente_feridos;mortos\n" +
	"04/02/2014;04:08:09;Colis\xe3o traseira;com v\xedtima;2;0\n" +
	"01/02/2014;23:10:00;Capotamento;sem v\xedtima;0;1\n" +
	"31/13/2014;10:00:00;Atropelamento;com v\xedtima;1;0\n" +
	"15/03/2014;06:30:00;Choque;sem v\xedtima;;0\n" +
	";;Sem data;;0;0\n")

func TestLoad(t *testing.T) {
	events, rowErrs, err := Load(bytes.NewReader(accidentsCSV), DefaultLoadConfig())
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, time.Date(2014, time.February, 4, 4, 8, 9, 0, time.UTC), events[0].At)
	assert.Equal(t, "Colisão traseira", events[0].Fields["tipo_de_acidente"])
	assert.Equal(t, "com vítima", events[0].Fields["tipo_de_ocorrencia"])
	assert.Equal(t, 2, events[0].Line)

	assert.Equal(t, time.Date(2014, time.February, 1, 23, 10, 0, 0, time.UTC), events[1].At)
	assert.Equal(t, time.Date(2014, time.March, 15, 6, 30, 0, 0, time.UTC), events[2].At)

	require.Len(t, rowErrs, 2)
	assert.Equal(t, 4, rowErrs[0].Line)
	assert.Contains(t, rowErrs[0].Error(), "31/13/2014")
	assert.Equal(t, 6, rowErrs[1].Line)
}

func TestLoad_KeepColumnsAndLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	cfg := DefaultLoadConfig()
	cfg.Location = loc
	cfg.KeepColumns = []string{"MORTOS", "missing"}

	events, _, err := Load(bytes.NewReader(accidentsCSV), cfg)
	require.NoError(t, err)
	require.NotEmpty(t, events)

	assert.Equal(t, map[string]string{"mortos": "0"}, events[0].Fields)
	assert.Equal(t, time.Date(2014, time.February, 4, 7, 8, 9, 0, time.UTC), events[0].At.UTC())
}

func TestLoad_UTF8Comma(t *testing.T) {
	input := "\ufeffWhen,Note\n2017-12-31 15:19:13,réveillon\n"
	cfg := LoadConfig{Comma: ',', DateColumn: "when"}

	events, rowErrs, err := Load(strings.NewReader(input), cfg)
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, events, 1)
	assert.Equal(t, time.Date(2017, time.December, 31, 15, 19, 13, 0, time.UTC), events[0].At)
	assert.Equal(t, "réveillon", events[0].Fields["Note"])
}

func TestLoad_BOMWithLatin1(t *testing.T) {
	input := "\xef\xbb\xbfdata;horario;mortos\n09/11/2021;19:30:00;1\n"

	events, rowErrs, err := Load(strings.NewReader(input), DefaultLoadConfig())
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, events, 1)
	assert.Equal(t, time.Date(2021, time.November, 9, 19, 30, 0, 0, time.UTC), events[0].At)
}

func TestLoad_MissingDateColumn(t *testing.T) {
	_, _, err := Load(strings.NewReader("a;b\n1;2\n"), LoadConfig{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestLoad_Empty(t *testing.T) {
	events, rowErrs, err := Load(strings.NewReader(""), DefaultLoadConfig())
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Empty(t, rowErrs)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acidentes.csv")
	require.NoError(t, os.WriteFile(path, accidentsCSV, 0644))

	events, _, err := LoadFile(path, DefaultLoadConfig())
	require.NoError(t, err)
	assert.Len(t, events, 3)

	_, _, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"), DefaultLoadConfig())
	assert.Error(t, err)
}

func TestTimeline(t *testing.T) {
	events, _, err := Load(bytes.NewReader(accidentsCSV), DefaultLoadConfig())
	require.NoError(t, err)

	SortByTime(events)
	assert.Equal(t, 3, events[0].Line)
	assert.Equal(t, 2, events[1].Line)
	assert.Equal(t, 5, events[2].Line)

	gaps := Gaps(events)
	require.Len(t, gaps, 2)
	assert.Equal(t, 52*time.Hour+58*time.Minute+9*time.Second, gaps[0])

	longest, ok := Longest(events)
	require.True(t, ok)
	assert.Equal(t, 2, longest.From.Line)
	assert.Equal(t, 5, longest.To.Line)
	assert.Equal(t, gaps[1], longest.Duration)

	_, ok = Longest(events[:1])
	assert.False(t, ok)
	assert.Empty(t, Gaps(nil))
}

func TestSum(t *testing.T) {
	events, _, err := Load(bytes.NewReader(accidentsCSV), DefaultLoadConfig())
	require.NoError(t, err)

	totals, err := Sum(events, []string{"levemente_feridos", "mortos"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"levemente_feridos": 2, "mortos": 1}, totals)

	_, err = Sum(events, []string{"tipo_de_acidente"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
