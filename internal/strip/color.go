package strip

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	redShift   = 16
	greenShift = 8
	blueShift  = 0
)

// Color is one pixel value. The three slots are positional; which physical
// channel each slot lands on is decided by the strip's ChannelOrder.
type Color struct {
	R, G, B uint8
}

// Off is the all-dark color.
var Off = Color{}

// Uint32 packs the color as 0x00RRGGBB.
func (c Color) Uint32() uint32 {
	return uint32(c.R)<<redShift | uint32(c.G)<<greenShift | uint32(c.B)<<blueShift
}

// Scale multiplies every channel by s, truncating. s outside [0,1] is clamped.
func (c Color) Scale(s float64) Color {
	if s >= 1 {
		return c
	}
	if s <= 0 {
		return Off
	}
	return Color{
		R: uint8(float64(c.R) * s),
		G: uint8(float64(c.G) * s),
		B: uint8(float64(c.B) * s),
	}
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColor accepts hex ("#ff8800", "ff8800", "#f80") or a decimal triple
// ("255,136,0"). Channel values outside 0..255 are rejected.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Off, fmt.Errorf("%w: empty color", ErrInvalidParameter)
	}
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return Off, fmt.Errorf("%w: color %q needs three channels", ErrInvalidParameter, s)
		}
		var ch [3]uint8
		for i, p := range parts {
			v, err := ParseChannel(p)
			if err != nil {
				return Off, err
			}
			ch[i] = v
		}
		return Color{R: ch[0], G: ch[1], B: ch[2]}, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return Off, fmt.Errorf("%w: color %q is not #rgb or #rrggbb", ErrInvalidParameter, s)
	}
	cf, err := colorful.Hex(s)
	if err != nil {
		return Off, fmt.Errorf("%w: color %q: %v", ErrInvalidParameter, s, err)
	}
	r, g, b := cf.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// ParseChannel parses one decimal channel intensity in 0..255.
func ParseChannel(s string) (uint8, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: channel %q is not a number", ErrInvalidParameter, s)
	}
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("%w: channel %d outside 0..255", ErrInvalidParameter, v)
	}
	return uint8(v), nil
}
