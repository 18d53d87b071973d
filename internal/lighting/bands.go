package lighting

import (
	"math/rand/v2"

	"github.com/coreman2200/enlighten/internal/strip"
)

// christmasColor maps band index b = (i+1)/width to red or blue.
func christmasColor(b int) strip.Color {
	if b%2 == 0 {
		return Red
	}
	return Blue
}

// mericaColor maps band index b = (i+1)/width onto three colors.
func mericaColor(b int) strip.Color {
	switch b % 3 {
	case 0:
		return Green
	case 2:
		return White
	default:
		return Red
	}
}

func bands(n, width int, color func(b int) strip.Color) Sequence {
	return steps(func(f *Frame) {
		for i := 0; i < n; i++ {
			f.set(i, color((i+1)/width))
		}
	})
}

func (p ChristmasParams) sequence(n int, _ *rand.Rand) Sequence {
	return bands(n, p.Width, christmasColor)
}

func (p MericaParams) sequence(n int, _ *rand.Rand) Sequence {
	return bands(n, p.Width, mericaColor)
}

func (p SingleColorParams) sequence(n int, _ *rand.Rand) Sequence {
	return steps(func(f *Frame) {
		f.fill(p.Color)
	})
}

// Alternate blinks odd pixels in First, clears, blinks even pixels in
// Second, clears.
func (p AlternateParams) sequence(n int, _ *rand.Rand) Sequence {
	every := func(parity int, c strip.Color) func(f *Frame) {
		return func(f *Frame) {
			for i := parity; i < n; i += 2 {
				f.set(i, c)
			}
			f.Hold = p.Delay
		}
	}
	off := func(f *Frame) { f.fill(strip.Off) }
	return steps(every(1, p.First), off, every(0, p.Second), off)
}
