package lighting

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coreman2200/enlighten/internal/led"
	"github.com/coreman2200/enlighten/internal/strip"
)

// rig is an engine on a recording sim strip with holds captured instead of
// slept.
type rig struct {
	sim   *led.Sim
	strip *strip.Strip
	eng   *Engine
	holds []time.Duration
}

func newRig(t require.TestingT, n int, opts ...Option) *rig {
	r := &rig{sim: led.NewRecorder()}
	s, err := strip.New(strip.Config{Count: n, Brightness: 1, Order: strip.GRB}, r.sim)
	require.NoError(t, err)
	r.strip = s
	base := []Option{
		WithWait(func(ctx context.Context, d time.Duration) error {
			r.holds = append(r.holds, d)
			return ctx.Err()
		}),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	}
	r.eng = New(s, append(base, opts...)...)
	return r
}

// shows excludes the commit done by strip.New.
func (r *rig) shows() int { return r.sim.Writes() - 1 }

// frames returns the committed frames after construction as colors.
func (r *rig) frames() [][]strip.Color {
	raw := r.sim.Frames()[1:]
	out := make([][]strip.Color, len(raw))
	for k, b := range raw {
		px := make([]strip.Color, len(b)/3)
		for i := range px {
			px[i] = strip.Color{R: b[i*3], G: b[i*3+1], B: b[i*3+2]}
		}
		out[k] = px
	}
	return out
}

func lit(px []strip.Color) []int {
	var on []int
	for i, c := range px {
		if c != strip.Off {
			on = append(on, i)
		}
	}
	return on
}
