package playlist

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/coreman2200/enlighten/internal/lighting"
)

// Player walks a Program through a Runner, one cue at a time.
type Player struct {
	Runner Runner
	Hooks  Hooks
	Wait   lighting.WaitFunc
	Log    zerolog.Logger
}

func NewPlayer(r Runner, h Hooks) *Player {
	return &Player{Runner: r, Hooks: h, Wait: lighting.Sleep, Log: zerolog.Nop()}
}

// Play runs prog until it ends, a cue fails or ctx is done. A looping program
// only ends through ctx.
func (p *Player) Play(ctx context.Context, prog Program) error {
	cues, err := prog.Cues()
	if err != nil {
		return err
	}
	wait := p.Wait
	if wait == nil {
		wait = lighting.Sleep
	}
	for pass := 0; ; pass++ {
		for i, c := range cues {
			if err := ctx.Err(); err != nil {
				return err
			}
			if p.Hooks.OnCue != nil {
				p.Hooks.OnCue(pass, i, c)
			}
			p.Log.Debug().Int("pass", pass).Int("cue", i).Str("name", c.Name).Stringer("effect", c.Kind).Msg("cue")
			if err := p.Runner.Run(ctx, c.Kind, c.Params); err != nil {
				return err
			}
			if c.Pause > 0 {
				if err := wait(ctx, c.Pause); err != nil {
					return err
				}
			}
		}
		if !prog.Loop {
			return nil
		}
	}
}

// Play is shorthand for a Player without hooks.
func Play(ctx context.Context, r Runner, prog Program) error {
	return NewPlayer(r, Hooks{}).Play(ctx, prog)
}
