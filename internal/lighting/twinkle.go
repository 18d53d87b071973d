package lighting

import (
	"math/rand/v2"

	"github.com/coreman2200/enlighten/internal/strip"
)

type twinkle struct {
	p       TwinkleParams
	n       int
	rng     *rand.Rand
	on      []int // onLights, in lighting order
	lit     map[int]bool
	started bool
	cycle   int
}

func (p TwinkleParams) sequence(n int, rng *rand.Rand) Sequence {
	return &twinkle{p: p, n: n, rng: rng, lit: make(map[int]bool, n)}
}

func (t *twinkle) light(f *Frame, i int) bool {
	if t.lit[i] {
		return false
	}
	t.lit[i] = true
	t.on = append(t.on, i)
	f.set(i, t.p.Color)
	return true
}

// OnLights returns the currently lit indices.
func (t *twinkle) OnLights() []int {
	return append([]int(nil), t.on...)
}

func (t *twinkle) Next(f *Frame) bool {
	floor := t.n / 3
	if !t.started {
		t.started = true
		f.fill(strip.Off)
		// seeding retries collisions so exactly floor pixels start lit
		for len(t.on) < floor {
			t.light(f, t.rng.IntN(t.n))
		}
		return true
	}
	if t.cycle >= t.p.Cycles {
		return false
	}
	for j := 0; j < t.p.Width; j++ {
		t.light(f, t.rng.IntN(t.n))
	}
	for j := 0; j < t.p.Width && len(t.on) > floor; j++ {
		k := t.rng.IntN(len(t.on))
		off := t.on[k]
		t.on = append(t.on[:k], t.on[k+1:]...)
		delete(t.lit, off)
		f.set(off, strip.Off)
	}
	f.Hold = t.p.Delay
	t.cycle++
	return true
}
