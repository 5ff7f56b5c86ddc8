package plot

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSeriesReplacesWithoutHold(t *testing.T) {
	f := NewFigure(1)
	f.AddSeries(Series{Kind: KindLine, X: []float64{1}, Y: []float64{2}})
	f.AddSeries(Series{Kind: KindLine, X: []float64{3}, Y: []float64{4}})
	require.Len(t, f.Series, 1)
	assert.Equal(t, []float64{3}, f.Series[0].X)
}

func TestAddSeriesAppendsWithHold(t *testing.T) {
	f := NewFigure(1)
	f.Hold = true
	f.AddSeries(Series{Kind: KindLine})
	f.AddSeries(Series{Kind: KindScatter})
	require.Len(t, f.Series, 2)
	// Color cycle assigns distinct defaults.
	assert.NotEqual(t, f.Series[0].Color, f.Series[1].Color)
}

func TestSubplotRouting(t *testing.T) {
	f := NewFigure(1)
	f.Subplot = &Subplot{Rows: 2, Cols: 1, Active: 1}
	f.AddSeries(Series{Kind: KindLine})
	f.Subplot.Active = 2
	f.AddSeries(Series{Kind: KindLine})
	require.Len(t, f.Series, 2)
	assert.Equal(t, 1, f.Series[0].Axes)
	assert.Equal(t, 2, f.Series[1].Axes)

	// Replot into slot 2 only replaces slot 2.
	f.AddSeries(Series{Kind: KindBar})
	require.Len(t, f.Series, 2)
	assert.Equal(t, KindLine, f.Series[0].Kind)
	assert.Equal(t, KindBar, f.Series[1].Kind)
}

func TestCloneIsDeep(t *testing.T) {
	f := NewFigure(1)
	f.AddSeries(Series{Kind: KindLine, X: []float64{1, 2}})
	c := f.Clone()
	c.Series[0].Kind = KindBar
	c.Title = "changed"
	assert.Equal(t, KindLine, f.Series[0].Kind)
	assert.Empty(t, f.Title)
}

func TestEncodeWAVHeader(t *testing.T) {
	samples := []float64{0, 0.5, -0.5, 1, -1}
	wav := EncodeWAV(samples, 8000)

	require.Equal(t, 44+len(samples)*2, len(wav))
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]), "mono")
	assert.Equal(t, uint32(8000), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36]))

	// Full-scale samples map to ±32767.
	last := int16(binary.LittleEndian.Uint16(wav[44+8:]))
	assert.Equal(t, int16(-32767), last)
}

func TestWAVDataURL(t *testing.T) {
	url := WAVDataURL([]float64{0}, 44100)
	assert.True(t, strings.HasPrefix(url, "data:audio/wav;base64,"))
}
