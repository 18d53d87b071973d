package lighting

import (
	"math/rand/v2"
	"time"

	"github.com/coreman2200/enlighten/internal/strip"
)

// Hyperloop runs a single magenta pixel around the ring. The strip is not
// cleared first; each step extinguishes only the pixel behind the head.
func (p HyperloopParams) sequence(n int, _ *rand.Rand) Sequence {
	total, k := p.Cycles*n, 0
	return seqFunc(func(f *Frame) bool {
		if k >= total {
			return false
		}
		i := k % n
		f.set(i, Magenta)
		f.set(prev(i, n), strip.Off)
		f.Hold = HyperloopInterval
		k++
		return true
	})
}

// rainbow walks a color through three linear ramps, one per third of the
// strip, committing after every pixel.
type rainbow struct {
	n       int
	total   int
	chase   bool
	hold    time.Duration
	step    int
	stepF   float64
	k       int
	r, g, b int
}

func newRainbow(n, cycles int, chase bool, hold time.Duration) *rainbow {
	stepF := 255 / (float64(n) / 3)
	return &rainbow{
		n:     n,
		total: cycles * n,
		chase: chase,
		hold:  hold,
		step:  int(stepF),
		stepF: stepF,
	}
}

func (rb *rainbow) down(v int) int {
	if float64(v)-rb.stepF < 0 {
		return 0
	}
	return v - rb.step
}

func (rb *rainbow) up(v int) int {
	if float64(v)+rb.stepF > 255 {
		return 255
	}
	return v + rb.step
}

func (rb *rainbow) Next(f *Frame) bool {
	if rb.k >= rb.total {
		return false
	}
	i := rb.k % rb.n
	if i == 0 {
		rb.r, rb.g, rb.b = 255, 0, 0
	}
	f.set(i, strip.Color{R: uint8(rb.r), G: uint8(rb.g), B: uint8(rb.b)})

	switch {
	case i < rb.n/3:
		rb.r, rb.g = rb.down(rb.r), rb.up(rb.g)
	case i < rb.n*2/3:
		rb.g, rb.b = rb.down(rb.g), rb.up(rb.b)
	default:
		rb.b, rb.r = rb.down(rb.b), rb.up(rb.r)
	}

	if rb.chase {
		f.set(prev(i, rb.n), strip.Off)
		f.Hold = rb.hold
	}
	rb.k++
	return true
}

func (p HyperRainbowParams) sequence(n int, _ *rand.Rand) Sequence {
	return newRainbow(n, p.Cycles, true, p.CycleDelay)
}

func (p StaticRainbowParams) sequence(n int, _ *rand.Rand) Sequence {
	return newRainbow(n, p.Cycles, false, 0)
}
