// Package lighting computes the strip effects. Each effect is a lazy
// sequence of frames; Engine.Run validates parameters, builds the sequence
// and plays it onto the strip.
package lighting

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/enlighten/internal/strip"
)

type Engine struct {
	mu     sync.Mutex // one effect on the strip at a time
	strip  *strip.Strip
	player Player
	rng    *rand.Rand
	log    zerolog.Logger
}

type Option func(*Engine)

// WithRand fixes the random source (Twinkle).
func WithRand(r *rand.Rand) Option { return func(e *Engine) { e.rng = r } }

// WithWait replaces the real-time hold, e.g. with a no-op in tests.
func WithWait(w WaitFunc) Option { return func(e *Engine) { e.player.Wait = w } }

func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }

func New(s *strip.Strip, opts ...Option) *Engine {
	e := &Engine{
		strip:  s,
		player: Player{Strip: s, Wait: Sleep},
		log:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(e)
	}
	if e.rng == nil {
		now := uint64(time.Now().UnixNano())
		e.rng = rand.New(rand.NewPCG(now, now>>17|1))
	}
	return e
}

func (e *Engine) Strip() *strip.Strip { return e.strip }

// Hold waits d on the engine's clock, so pauses between effects follow the
// same WaitFunc as holds within them.
func (e *Engine) Hold(ctx context.Context, d time.Duration) error {
	return e.player.Wait(ctx, d)
}

// Run plays effect kind with p. A nil p selects the defaults. Invalid kinds
// or parameters fail before any pixel is written.
func (e *Engine) Run(ctx context.Context, kind Kind, p Params) error {
	p, err := Resolve(kind, p)
	if err != nil {
		return err
	}

	e.log.Debug().Stringer("effect", kind).Interface("params", p).Msg("effect start")
	return e.Play(ctx, kind.String(), p.sequence(e.strip.Len(), e.rng))
}

// Play runs any frame sequence on the strip under the engine's lock. name
// labels it in logs and errors.
func (e *Engine) Play(ctx context.Context, name string, seq Sequence) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	frames, err := e.player.Play(ctx, seq)
	ev := e.log.Info()
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		ev = e.log.Info().Str("result", "cancelled")
	case err != nil:
		ev = e.log.Error().Err(err)
	}
	ev.Str("effect", name).Int("frames", frames).Dur("took", time.Since(start)).Msg("effect done")
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Resolve returns the parameters Run would use: p, or kind's defaults when p
// is nil. Unknown kinds, mismatched or invalid parameters are
// ErrInvalidParameter.
func Resolve(kind Kind, p Params) (Params, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown effect %s", strip.ErrInvalidParameter, kind)
	}
	if p == nil {
		return Defaults(kind)
	}
	if p.Kind() != kind {
		return nil, fmt.Errorf("%w: %s parameters given for %s", strip.ErrInvalidParameter, p.Kind(), kind)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return p, nil
}

// Clear turns every pixel off with one commit.
func (e *Engine) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.strip.Fill(strip.Off)
	return e.strip.Show()
}
