package lighting

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/enlighten/internal/strip"
)

func randFrom(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }

func TestRunRejectsBadInput(t *testing.T) {
	r := newRig(t, 10)
	cases := []struct {
		name string
		kind Kind
		p    Params
	}{
		{"unknown kind", None, nil},
		{"out of range kind", Kind(99), nil},
		{"mismatched params", Merica, ChristmasParams{Width: 1}},
		{"zero width", Christmas, ChristmasParams{Width: 0}},
		{"zero cycles", Hyperloop, HyperloopParams{Width: 1, Cycles: 0}},
		{"negative delay", Alternate, AlternateParams{Delay: -time.Second}},
		{"negative cycle delay", HyperRainbow, HyperRainbowParams{Width: 1, Cycles: 1, CycleDelay: -1}},
		{"twinkle width", Twinkle, TwinkleParams{Cycles: 1, Width: -2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := r.eng.Run(ctx, c.kind, c.p)
			assert.ErrorIs(t, err, strip.ErrInvalidParameter)
		})
	}
	assert.Equal(t, 0, r.shows())
}

func TestRunNilParamsUsesDefaults(t *testing.T) {
	r := newRig(t, 4)
	require.NoError(t, r.eng.Run(ctx, Christmas, nil))
	assert.Equal(t, []strip.Color{Blue, Red, Blue, Red}, r.strip.Pixels())
}

func TestDefaultsValidate(t *testing.T) {
	for _, k := range Kinds() {
		p, err := Defaults(k)
		require.NoError(t, err, k.String())
		assert.Equal(t, k, p.Kind())
		assert.NoError(t, p.Validate(), k.String())
	}
	_, err := Defaults(None)
	assert.ErrorIs(t, err, strip.ErrInvalidParameter)
}

func TestRunCancelledDuringHold(t *testing.T) {
	cctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	holds := 0
	r := newRig(t, 10, WithWait(func(ctx context.Context, d time.Duration) error {
		holds++
		if holds == 3 {
			cancel()
		}
		return ctx.Err()
	}))

	err := r.eng.Run(cctx, Hyperloop, HyperloopParams{Width: 1, Cycles: 10})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, r.shows())
	// last committed frame stays
	assert.Equal(t, []int{2}, lit(r.strip.Pixels()))
}

func TestRunCancelledBeforeStart(t *testing.T) {
	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := newRig(t, 5)
	assert.ErrorIs(t, r.eng.Run(cctx, SingleColor, SingleColorParams{Color: Red}), context.Canceled)
	assert.Equal(t, 0, r.shows())
}

func TestRunDriverFailureAborts(t *testing.T) {
	boom := errors.New("spi gone")
	r := newRig(t, 8)
	r.sim.FailAfter(1+2, boom)

	err := r.eng.Run(ctx, Hyperloop, HyperloopParams{Width: 1, Cycles: 1})
	assert.ErrorIs(t, err, strip.ErrDriverUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, r.shows())
	assert.Len(t, r.holds, 2)
}

func TestPlayerChecksIndices(t *testing.T) {
	r := newRig(t, 3)
	seq := steps(func(f *Frame) {
		f.set(0, Red)
		f.set(3, Red)
	})
	n, err := r.eng.player.Play(ctx, seq)
	assert.ErrorIs(t, err, strip.ErrIndexOutOfRange)
	assert.Equal(t, 0, n)
	assert.Empty(t, lit(r.strip.Pixels()))
}

func TestClear(t *testing.T) {
	r := newRig(t, 3)
	require.NoError(t, r.eng.Run(ctx, SingleColor, SingleColorParams{Color: Blue}))
	require.NoError(t, r.eng.Clear())
	assert.Empty(t, lit(r.strip.Pixels()))
	assert.Equal(t, 2, r.shows())
}

func TestSleep(t *testing.T) {
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))
	assert.NoError(t, Sleep(context.Background(), 0))

	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	assert.ErrorIs(t, Sleep(cctx, time.Hour), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
