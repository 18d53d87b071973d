// Package app wires a strip, its engine and the conductor together from the
// configuration, and serializes every job onto the strip.
package app

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/enlighten/internal/config"
	"github.com/coreman2200/enlighten/internal/led"
	"github.com/coreman2200/enlighten/internal/lighting"
	"github.com/coreman2200/enlighten/internal/strip"
)

// Core is everything needed to drive one strip.
type Core struct {
	Driver    strip.Driver
	Strip     *strip.Strip
	Engine    *lighting.Engine
	Conductor *Conductor
}

// InitCore opens the configured driver, clears the strip and starts an idle
// conductor. Extra engine options (e.g. a fixed random source) come last.
func InitCore(cfg *config.Config, log zerolog.Logger, opts ...lighting.Option) (*Core, error) {
	sc, err := cfg.StripConfig()
	if err != nil {
		return nil, err
	}
	policy, err := ParsePolicy(cfg.Dispatch.Policy)
	if err != nil {
		return nil, err
	}

	// 1) Output
	o := led.Options{
		Driver:   cfg.Strip.Driver,
		Output:   cfg.Strip.Output,
		Count:    sc.Count,
		Order:    sc.Order,
		SPIFreq:  physic.Frequency(cfg.SPI.SpeedHz) * physic.Hertz,
		Fallback: cfg.Strip.Fallback,
		Log:      log.With().Str("component", "led").Logger(),
	}
	if o.Driver == led.KindSPI {
		o.Output = cfg.SPI.Port
	}
	drv, err := led.Open(o)
	if err != nil {
		return nil, err
	}

	// 2) Strip, cleared and committed once
	s, err := strip.New(sc, drv)
	if err != nil {
		return nil, errors.Join(err, drv.Close())
	}

	// 3) Engine and conductor
	opts = append([]lighting.Option{lighting.WithLogger(log.With().Str("component", "lighting").Logger())}, opts...)
	eng := lighting.New(s, opts...)
	cond := NewConductor(eng, policy, log.With().Str("component", "conductor").Logger())

	log.Info().
		Str("driver", fmt.Sprintf("%T", drv)).
		Int("count", sc.Count).
		Float64("brightness", sc.Brightness).
		Str("order", string(sc.Order)).
		Str("policy", string(policy)).
		Msg("core ready")
	return &Core{Driver: drv, Strip: s, Engine: eng, Conductor: cond}, nil
}

// Close stops every job, turns the strip off and releases the driver.
func (c *Core) Close() error {
	c.Conductor.Close()
	return c.Strip.Close()
}

// Release stops every job and frees the driver, leaving the strip lit.
func (c *Core) Release() error {
	c.Conductor.Close()
	return c.Strip.Release()
}
