package lighting

import (
	"fmt"
	"strings"

	"github.com/coreman2200/enlighten/internal/strip"
)

// Kind names one of the compiled-in effects.
type Kind int

const (
	None Kind = iota
	Christmas
	Merica
	SingleColor
	Alternate
	Hyperloop
	HyperRainbow
	StaticRainbow
	Twinkle
)

var kindNames = [...]string{
	None:          "",
	Christmas:     "christmas",
	Merica:        "merica",
	SingleColor:   "singlecolor",
	Alternate:     "alternate",
	Hyperloop:     "hyperloop",
	HyperRainbow:  "hyperrainbow",
	StaticRainbow: "staticrainbow",
	Twinkle:       "twinkle",
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the eight effects.
func (k Kind) Valid() bool { return k > None && int(k) < len(kindNames) }

// Kinds lists every effect in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames)-1)
	for k := Christmas; k.Valid(); k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind matches names case-insensitively, ignoring '-', '_' and spaces, so
// "StaticRainbow", "static_rainbow" and "static-rainbow" are the same effect.
func ParseKind(s string) (Kind, error) {
	norm := strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, strings.ToLower(s))
	for k := Christmas; k.Valid(); k++ {
		if kindNames[k] == norm {
			return k, nil
		}
	}
	return None, fmt.Errorf("%w: unknown effect %q", strip.ErrInvalidParameter, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %s", strip.ErrInvalidParameter, k)
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
