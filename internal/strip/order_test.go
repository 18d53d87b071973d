package strip_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/coreman2200/enlighten/internal/strip"
)

func TestParseChannelOrder(t *testing.T) {
	for _, in := range []string{"rgb", "GRB", " bgr ", "Brg"} {
		_, err := ParseChannelOrder(in)
		assert.NoError(t, err, in)
	}
	for _, in := range []string{"", "RG", "RGBW", "RRB", "XYZ"} {
		_, err := ParseChannelOrder(in)
		assert.ErrorIs(t, err, ErrInvalidParameter, in)
	}
}

func TestEncode(t *testing.T) {
	rgb := []byte{1, 2, 3, 4, 5, 6}
	cases := map[ChannelOrder][]byte{
		RGB: {1, 2, 3, 4, 5, 6},
		GRB: {2, 1, 3, 5, 4, 6},
		BGR: {3, 2, 1, 6, 5, 4},
		BRG: {3, 1, 2, 6, 4, 5},
	}
	for o, want := range cases {
		dst := make([]byte, len(rgb))
		require.NoError(t, o.Encode(dst, rgb))
		assert.Equal(t, want, dst, string(o))
	}

	// in place
	buf := []byte{1, 2, 3}
	require.NoError(t, GRB.Encode(buf, buf))
	assert.Equal(t, []byte{2, 1, 3}, buf)

	assert.ErrorIs(t, RGB.Encode(make([]byte, 3), make([]byte, 6)), ErrInvalidParameter)
	assert.ErrorIs(t, RGB.Encode(make([]byte, 4), make([]byte, 4)), ErrInvalidParameter)
}
