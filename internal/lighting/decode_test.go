package lighting

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/enlighten/internal/strip"
)

func TestParseKind(t *testing.T) {
	good := map[string]Kind{
		"Christmas":      Christmas,
		"merica":         Merica,
		"SingleColor":    SingleColor,
		"single_color":   SingleColor,
		"alternate":      Alternate,
		"HYPERLOOP":      Hyperloop,
		"hyper-rainbow":  HyperRainbow,
		"static rainbow": StaticRainbow,
		"twinkle":        Twinkle,
	}
	for in, want := range good {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "disco", "rainbow"} {
		_, err := ParseKind(in)
		assert.ErrorIs(t, err, strip.ErrInvalidParameter, in)
	}
	assert.Len(t, Kinds(), 8)
	for _, k := range Kinds() {
		back, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, back)
	}
}

func TestDecodeDefaults(t *testing.T) {
	for _, k := range Kinds() {
		p, err := Decode(k, url.Values{})
		require.NoError(t, err, k.String())
		def, _ := Defaults(k)
		assert.Equal(t, def, p)
	}
}

func TestDecodeValues(t *testing.T) {
	p, err := Decode(Twinkle, url.Values{
		"color":  {"#102030"},
		"b":      {"99"},
		"delay":  {"0.25"},
		"cycles": {"3"},
		"width":  {"2"},
	})
	require.NoError(t, err)
	assert.Equal(t, TwinkleParams{
		Color:  strip.Color{R: 0x10, G: 0x20, B: 99},
		Delay:  250 * time.Millisecond,
		Cycles: 3,
		Width:  2,
	}, p)

	p, err = Decode(Alternate, Values{"color1": "0,255,0", "color2": "ff00ff", "delay": "1500ms"})
	require.NoError(t, err)
	assert.Equal(t, AlternateParams{First: Green, Second: Magenta, Delay: 1500 * time.Millisecond}, p)

	p, err = Decode(HyperRainbow, Values{"cycle_delay": "0"})
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), p.(HyperRainbowParams).CycleDelay)
}

func TestTwinkleChannelKeysFollowLabels(t *testing.T) {
	p, err := Decode(Twinkle, Values{"r": "1", "g": "2", "b": "3"})
	require.NoError(t, err)
	assert.Equal(t, strip.Color{R: 1, G: 2, B: 3}, p.(TwinkleParams).Color)
}

func TestDecodeRejects(t *testing.T) {
	cases := []struct {
		kind Kind
		v    Values
	}{
		{Christmas, Values{"width": "0"}},
		{Christmas, Values{"width": "wide"}},
		{Hyperloop, Values{"cycles": "-1"}},
		{Alternate, Values{"delay": "-2"}},
		{Alternate, Values{"delay": "soon"}},
		{Alternate, Values{"color1": "#zzzzzz"}},
		{SingleColor, Values{"r": "256"}},
		{Twinkle, Values{"delay": "NaN"}},
		{None, Values{}},
	}
	for _, c := range cases {
		p, err := Decode(c.kind, c.v)
		assert.ErrorIs(t, err, strip.ErrInvalidParameter, "%s %v", c.kind, c.v)
		assert.Nil(t, p)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		def, _ := Defaults(k)
		back, err := Decode(k, Encode(def))
		require.NoError(t, err, k.String())
		assert.Equal(t, def, back)
	}
	assert.Equal(t, "width=1", Encode(ChristmasParams{Width: 1}).String())
}
