//go:build ws281x

package led

import (
	"fmt"
	"sync"

	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"

	"github.com/coreman2200/enlighten/internal/strip"
)

// PWM drives a strip from a PWM/PCM capable GPIO through libws2811.
type PWM struct {
	mu    sync.Mutex
	dev   *ws2811.WS2811
	count int
}

func stripType(o strip.ChannelOrder) (int, error) {
	switch o {
	case strip.RGB:
		return ws2811.WS2811StripRGB, nil
	case strip.RBG:
		return ws2811.WS2811StripRBG, nil
	case strip.GRB:
		return ws2811.WS2811StripGRB, nil
	case strip.GBR:
		return ws2811.WS2811StripGBR, nil
	case strip.BRG:
		return ws2811.WS2811StripBRG, nil
	case strip.BGR:
		return ws2811.WS2811StripBGR, nil
	}
	return 0, fmt.Errorf("%w: channel order %q", strip.ErrInvalidParameter, string(o))
}

// NewPWM opens the strip on pin (e.g. "D18"). Brightness is applied by the
// strip, so the library runs at full scale.
func NewPWM(pin string, count int, order strip.ChannelOrder) (*PWM, error) {
	gpio, err := ParseGPIO(pin)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	st, err := stripType(order)
	if err != nil {
		return nil, err
	}

	opt := ws2811.DefaultOptions
	opt.Channels = append([]ws2811.ChannelOption(nil), ws2811.DefaultOptions.Channels...)
	opt.Channels[0].GpioPin = gpio
	opt.Channels[0].LedCount = count
	opt.Channels[0].Brightness = 255
	opt.Channels[0].StripeType = st

	dev, err := ws2811.MakeWS2811(&opt)
	if err != nil {
		return nil, fmt.Errorf("ws2811: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("ws2811 init: %w", err)
	}
	return &PWM{dev: dev, count: count}, nil
}

func (p *PWM) Write(rgb []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dev == nil {
		return fmt.Errorf("PWM closed")
	}
	if len(rgb) != p.count*3 {
		return fmt.Errorf("rgb length %d does not match count %d", len(rgb), p.count)
	}
	leds := p.dev.Leds(0)
	for i := 0; i < p.count; i++ {
		leds[i] = strip.Color{R: rgb[i*3], G: rgb[i*3+1], B: rgb[i*3+2]}.Uint32()
	}
	if err := p.dev.Render(); err != nil {
		return fmt.Errorf("ws2811 render: %w", err)
	}
	return nil
}

func (p *PWM) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dev != nil {
		p.dev.Fini()
		p.dev = nil
	}
	return nil
}
