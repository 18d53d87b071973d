package strip

import (
	"fmt"
	"strings"
)

// ChannelOrder names the order in which a pixel's slots go out on the wire,
// e.g. GRB for most WS2812 parts.
type ChannelOrder string

const (
	RGB ChannelOrder = "RGB"
	RBG ChannelOrder = "RBG"
	GRB ChannelOrder = "GRB"
	GBR ChannelOrder = "GBR"
	BRG ChannelOrder = "BRG"
	BGR ChannelOrder = "BGR"
)

// ParseChannelOrder accepts any case-insensitive permutation of "RGB".
func ParseChannelOrder(s string) (ChannelOrder, error) {
	o := ChannelOrder(strings.ToUpper(strings.TrimSpace(s)))
	if _, err := o.slots(); err != nil {
		return "", err
	}
	return o, nil
}

// slots returns, for each wire position, the logical slot it carries.
func (o ChannelOrder) slots() ([3]int, error) {
	var out [3]int
	if len(o) != 3 {
		return out, fmt.Errorf("%w: channel order %q", ErrInvalidParameter, string(o))
	}
	seen := 0
	for i := 0; i < 3; i++ {
		var s int
		switch o[i] {
		case 'R':
			s = 0
		case 'G':
			s = 1
		case 'B':
			s = 2
		default:
			return out, fmt.Errorf("%w: channel order %q", ErrInvalidParameter, string(o))
		}
		if seen&(1<<s) != 0 {
			return out, fmt.Errorf("%w: channel order %q repeats a channel", ErrInvalidParameter, string(o))
		}
		seen |= 1 << s
		out[i] = s
	}
	return out, nil
}

// Encode rewrites a logical RGB stream into wire order. dst and rgb must have
// the same length, a multiple of 3; they may alias.
func (o ChannelOrder) Encode(dst, rgb []byte) error {
	sl, err := o.slots()
	if err != nil {
		return err
	}
	if len(dst) != len(rgb) || len(rgb)%3 != 0 {
		return fmt.Errorf("%w: encode %d bytes into %d", ErrInvalidParameter, len(rgb), len(dst))
	}
	for i := 0; i < len(rgb); i += 3 {
		px := [3]byte{rgb[i], rgb[i+1], rgb[i+2]}
		dst[i+0] = px[sl[0]]
		dst[i+1] = px[sl[1]]
		dst[i+2] = px[sl[2]]
	}
	return nil
}
