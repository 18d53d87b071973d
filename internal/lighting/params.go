package lighting

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/coreman2200/enlighten/internal/strip"
)

const (
	DefaultWidth      = 1
	DefaultCycles     = 10
	DefaultCycleDelay = time.Second
	DefaultAltDelay   = time.Second
	// DefaultTwinkleDelay is literally one hundred seconds per cycle.
	DefaultTwinkleDelay = 100 * time.Second
	// HyperloopInterval is the fixed hold between chase steps.
	HyperloopInterval = 10 * time.Millisecond
)

var (
	Red     = strip.Color{R: 255}
	Green   = strip.Color{G: 255}
	Blue    = strip.Color{B: 255}
	White   = strip.Color{R: 255, G: 255, B: 255}
	Magenta = strip.Color{R: 255, B: 255}
)

// Params configures one effect invocation. The set of implementations is
// closed: one struct per Kind.
type Params interface {
	Kind() Kind
	Validate() error
	sequence(n int, rng *rand.Rand) Sequence
}

type ChristmasParams struct {
	Width int
}

type MericaParams struct {
	Width int
}

type SingleColorParams struct {
	Color strip.Color
}

type AlternateParams struct {
	First  strip.Color
	Second strip.Color
	Delay  time.Duration
}

// HyperloopParams.Width is accepted and validated but does not change the
// chase.
type HyperloopParams struct {
	Width  int
	Cycles int
}

type HyperRainbowParams struct {
	Width      int
	Cycles     int
	CycleDelay time.Duration // per pixel
}

type StaticRainbowParams struct {
	Width      int
	Cycles     int
	CycleDelay time.Duration // accepted, never slept
}

type TwinkleParams struct {
	Color  strip.Color
	Delay  time.Duration
	Cycles int
	Width  int
}

func (ChristmasParams) Kind() Kind     { return Christmas }
func (MericaParams) Kind() Kind        { return Merica }
func (SingleColorParams) Kind() Kind   { return SingleColor }
func (AlternateParams) Kind() Kind     { return Alternate }
func (HyperloopParams) Kind() Kind     { return Hyperloop }
func (HyperRainbowParams) Kind() Kind  { return HyperRainbow }
func (StaticRainbowParams) Kind() Kind { return StaticRainbow }
func (TwinkleParams) Kind() Kind       { return Twinkle }

func (p ChristmasParams) Validate() error { return checkWidth(p.Width) }
func (p MericaParams) Validate() error    { return checkWidth(p.Width) }
func (SingleColorParams) Validate() error { return nil }
func (p AlternateParams) Validate() error { return checkDelay("delay", p.Delay) }

func (p HyperloopParams) Validate() error {
	return firstErr(checkWidth(p.Width), checkCycles(p.Cycles))
}

func (p HyperRainbowParams) Validate() error {
	return firstErr(checkWidth(p.Width), checkCycles(p.Cycles), checkDelay("cycle_delay", p.CycleDelay))
}

func (p StaticRainbowParams) Validate() error {
	return firstErr(checkWidth(p.Width), checkCycles(p.Cycles), checkDelay("cycle_delay", p.CycleDelay))
}

func (p TwinkleParams) Validate() error {
	return firstErr(checkWidth(p.Width), checkCycles(p.Cycles), checkDelay("delay", p.Delay))
}

// Defaults returns k's parameters with every field at its default.
func Defaults(k Kind) (Params, error) {
	switch k {
	case Christmas:
		return ChristmasParams{Width: DefaultWidth}, nil
	case Merica:
		return MericaParams{Width: DefaultWidth}, nil
	case SingleColor:
		return SingleColorParams{Color: strip.Off}, nil
	case Alternate:
		return AlternateParams{First: Red, Second: Blue, Delay: DefaultAltDelay}, nil
	case Hyperloop:
		return HyperloopParams{Width: DefaultWidth, Cycles: DefaultCycles}, nil
	case HyperRainbow:
		return HyperRainbowParams{Width: DefaultWidth, Cycles: DefaultCycles, CycleDelay: DefaultCycleDelay}, nil
	case StaticRainbow:
		return StaticRainbowParams{Width: DefaultWidth, Cycles: DefaultCycles, CycleDelay: DefaultCycleDelay}, nil
	case Twinkle:
		return TwinkleParams{Color: White, Delay: DefaultTwinkleDelay, Cycles: DefaultCycles, Width: DefaultWidth}, nil
	}
	return nil, fmt.Errorf("%w: unknown effect %s", strip.ErrInvalidParameter, k)
}

func checkWidth(w int) error {
	if w < 1 {
		return fmt.Errorf("%w: width %d < 1", strip.ErrInvalidParameter, w)
	}
	return nil
}

func checkCycles(c int) error {
	if c < 1 {
		return fmt.Errorf("%w: cycles %d < 1", strip.ErrInvalidParameter, c)
	}
	return nil
}

func checkDelay(name string, d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: %s %v < 0", strip.ErrInvalidParameter, name, d)
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
