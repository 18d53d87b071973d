package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/enlighten/internal/lighting"
	"github.com/coreman2200/enlighten/internal/strip"
)

func TestParseArgs(t *testing.T) {
	k, p, err := parseArgs("christmas", []string{"width=3"})
	require.NoError(t, err)
	assert.Equal(t, lighting.Christmas, k)
	assert.Equal(t, lighting.ChristmasParams{Width: 3}, p)

	k, p, err = parseArgs("Alternate", []string{"color1=#00ff00", "delay=250ms"})
	require.NoError(t, err)
	assert.Equal(t, lighting.Alternate, k)
	ap := p.(lighting.AlternateParams)
	assert.Equal(t, lighting.Green, ap.First)
	assert.Equal(t, lighting.Blue, ap.Second)
	assert.Equal(t, 250*time.Millisecond, ap.Delay)
}

func TestParseArgsRejects(t *testing.T) {
	_, _, err := parseArgs("strobe", nil)
	assert.ErrorIs(t, err, strip.ErrInvalidParameter)

	_, _, err = parseArgs("merica", []string{"width"})
	assert.Error(t, err)

	_, _, err = parseArgs("merica", []string{"width=0"})
	assert.ErrorIs(t, err, strip.ErrInvalidParameter)
}

func TestConfigFor(t *testing.T) {
	cfg, err := configFor("spi", "", 60, 0.5, "GRB")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.SPI.Port)
	assert.Equal(t, 60, cfg.Strip.Count)

	cfg, err = configFor("spi", "SPI1.0", 60, 0.5, "GRB")
	require.NoError(t, err)
	assert.Equal(t, "SPI1.0", cfg.SPI.Port)

	cfg, err = configFor("pwm", "", 30, 1, "RGB")
	require.NoError(t, err)
	assert.Equal(t, "D18", cfg.Strip.Output)

	cfg, err = configFor("pwm", "GPIO12", 30, 1, "RGB")
	require.NoError(t, err)
	assert.Equal(t, "GPIO12", cfg.Strip.Output)

	_, err = configFor("console", "", 0, 1, "RGB")
	assert.Error(t, err)
}
