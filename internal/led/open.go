// Package led holds the strip.Driver implementations: an in-memory simulator,
// SPI (periph nrzled), PWM (libws2811) and an ANSI console preview.
package led

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/enlighten/internal/strip"
)

// Driver names accepted by Open.
const (
	KindSim     = "sim"
	KindSPI     = "spi"
	KindPWM     = "pwm"
	KindConsole = "console"
)

// Options selects and configures a driver.
type Options struct {
	Driver  string
	Output  string // GPIO label for pwm, port name for spi
	Count   int
	Order   strip.ChannelOrder
	SPIFreq physic.Frequency
	// Fallback opens a Sim when the requested hardware cannot be opened.
	Fallback bool
	Log      zerolog.Logger
}

// Open returns the driver named by o.Driver. Hardware failures fall back to
// a Sim when o.Fallback is set, otherwise they are returned wrapped in
// strip.ErrDriverUnavailable.
func Open(o Options) (strip.Driver, error) {
	kind := strings.ToLower(strings.TrimSpace(o.Driver))
	if kind == "" {
		kind = KindSim
	}

	var (
		drv strip.Driver
		err error
	)
	switch kind {
	case KindSim:
		s := NewSim()
		s.Log = o.Log
		return s, nil
	case KindConsole:
		drv, err = NewConsole(o.Count)
	case KindSPI:
		drv, err = OpenSPI(o.Output, o.Count, o.Order, o.SPIFreq)
	case KindPWM:
		drv, err = NewPWM(o.Output, o.Count, o.Order)
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", strip.ErrInvalidParameter, o.Driver)
	}
	if err == nil {
		o.Log.Info().Str("driver", kind).Str("output", o.Output).Int("count", o.Count).Msg("LED driver ready")
		return drv, nil
	}
	if !o.Fallback {
		return nil, fmt.Errorf("%w: %s: %w", strip.ErrDriverUnavailable, kind, err)
	}
	o.Log.Warn().Err(err).Str("driver", kind).Str("output", o.Output).Msg("driver init failed; falling back to SIM")
	s := NewSim()
	s.Log = o.Log
	return s, nil
}
