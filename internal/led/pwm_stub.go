//go:build !ws281x

package led

import (
	"errors"

	"github.com/coreman2200/enlighten/internal/strip"
)

var errNoPWM = errors.New("pwm driver not built; rebuild with -tags ws281x")

type PWM struct{}

func NewPWM(pin string, count int, order strip.ChannelOrder) (*PWM, error) {
	if _, err := ParseGPIO(pin); err != nil {
		return nil, err
	}
	return nil, errNoPWM
}

func (p *PWM) Write(rgb []byte) error { return errNoPWM }

func (p *PWM) Close() error { return nil }
