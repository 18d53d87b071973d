// Package diag has wiring checks for a freshly installed strip: one lit
// pixel walking its length, and each channel in turn so a wrong color order
// shows up at once.
package diag

import (
	"fmt"
	"time"

	"github.com/coreman2200/enlighten/internal/lighting"
	"github.com/coreman2200/enlighten/internal/strip"
)

type Kind string

const (
	None        Kind = ""
	IndexSweep  Kind = "index_sweep"
	RGBChannels Kind = "rgb_channels"
)

// DefaultHold is how long each diagnostic frame stays up.
const DefaultHold = 250 * time.Millisecond

func Kinds() []Kind { return []Kind{IndexSweep, RGBChannels} }

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return None, fmt.Errorf("%w: unknown diagnostic %q", strip.ErrInvalidParameter, s)
}

type Plan struct {
	Kind Kind
	Hold time.Duration
}

// Sequence returns p's frames for a strip of n pixels. Every plan ends with
// the strip dark.
func (p Plan) Sequence(n int) (lighting.Sequence, error) {
	if _, err := ParseKind(string(p.Kind)); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: pixel count %d", strip.ErrInvalidParameter, n)
	}
	if p.Hold < 0 {
		return nil, fmt.Errorf("%w: hold %v < 0", strip.ErrInvalidParameter, p.Hold)
	}
	if p.Hold == 0 {
		p.Hold = DefaultHold
	}
	return &runner{plan: p, n: n}, nil
}

var channels = [3]strip.Color{{R: 255}, {G: 255}, {B: 255}}

// runner steps through a plan one frame at a time.
type runner struct {
	plan Plan
	n    int
	step int
	done bool
}

// Next fills f; returns false when complete.
func (r *runner) Next(f *lighting.Frame) bool {
	if r.done {
		return false
	}
	f.Writes = append(f.Writes, lighting.Write{All: true, Color: strip.Off})

	var steps int
	switch r.plan.Kind {
	case IndexSweep:
		steps = r.n
		if r.step < steps {
			f.Writes = append(f.Writes, lighting.Write{Index: r.step, Color: strip.Color{R: 255, G: 255, B: 255}})
		}
	case RGBChannels:
		steps = len(channels)
		if r.step < steps {
			f.Writes[0].Color = channels[r.step]
		}
	}
	if r.step == steps {
		// closing dark frame
		r.done = true
		return true
	}
	f.Hold = r.plan.Hold
	r.step++
	return true
}
