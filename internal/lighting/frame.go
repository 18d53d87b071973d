package lighting

import (
	"time"

	"github.com/coreman2200/enlighten/internal/strip"
)

// Write is one buffered change: a single pixel, or the whole strip when All
// is set.
type Write struct {
	Index int
	Color strip.Color
	All   bool
}

// Frame is a batch of writes committed by one Show, then held for Hold.
type Frame struct {
	Writes []Write
	Hold   time.Duration
}

func (f *Frame) reset() {
	f.Writes = f.Writes[:0]
	f.Hold = 0
}

func (f *Frame) set(i int, c strip.Color) {
	f.Writes = append(f.Writes, Write{Index: i, Color: c})
}

func (f *Frame) fill(c strip.Color) {
	f.Writes = append(f.Writes, Write{Color: c, All: true})
}

// Sequence yields frames lazily. Next fills f (which arrives empty) and
// returns false once the effect is finished.
type Sequence interface {
	Next(f *Frame) bool
}

type seqFunc func(f *Frame) bool

func (s seqFunc) Next(f *Frame) bool { return s(f) }

// steps yields one frame per builder, in order.
func steps(build ...func(f *Frame)) Sequence {
	i := 0
	return seqFunc(func(f *Frame) bool {
		if i >= len(build) {
			return false
		}
		build[i](f)
		i++
		return true
	})
}

// prev is the index before i on a ring of n pixels.
func prev(i, n int) int {
	if i == 0 {
		return n - 1
	}
	return i - 1
}
