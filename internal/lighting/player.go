package lighting

import (
	"context"
	"fmt"
	"time"

	"github.com/coreman2200/enlighten/internal/strip"
)

// WaitFunc blocks for d or until ctx is done, returning ctx.Err() in the
// latter case.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real-time WaitFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Player commits a Sequence onto a strip: every frame's writes, one Show,
// then the frame's hold.
type Player struct {
	Strip *strip.Strip
	Wait  WaitFunc
}

// Play returns the number of frames shown. Cancellation is checked before
// each frame and during holds; the strip keeps its last committed frame.
// A failed Show aborts the remaining frames.
func (p *Player) Play(ctx context.Context, seq Sequence) (int, error) {
	wait := p.Wait
	if wait == nil {
		wait = Sleep
	}
	var (
		f     Frame
		shown int
	)
	for {
		if err := ctx.Err(); err != nil {
			return shown, err
		}
		f.reset()
		if !seq.Next(&f) {
			return shown, nil
		}
		if err := p.apply(&f); err != nil {
			return shown, err
		}
		if err := p.Strip.Show(); err != nil {
			return shown, err
		}
		shown++
		if f.Hold > 0 {
			if err := wait(ctx, f.Hold); err != nil {
				return shown, err
			}
		}
	}
}

// apply checks every index before touching the buffer.
func (p *Player) apply(f *Frame) error {
	n := p.Strip.Len()
	for _, w := range f.Writes {
		if !w.All && (w.Index < 0 || w.Index >= n) {
			return fmt.Errorf("%w: %d not in [0,%d)", strip.ErrIndexOutOfRange, w.Index, n)
		}
	}
	for _, w := range f.Writes {
		if w.All {
			p.Strip.Fill(w.Color)
			continue
		}
		if err := p.Strip.SetPixel(w.Index, w.Color); err != nil {
			return err
		}
	}
	return nil
}
