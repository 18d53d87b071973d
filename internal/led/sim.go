package led

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

var errSimClosed = errors.New("sim closed")

// Sim is an in-memory driver. It keeps the last frame, a write count and,
// when History is set, every frame. Useful headless and in tests.
type Sim struct {
	History bool
	Log     zerolog.Logger

	mu        sync.Mutex
	count     int
	last      []byte
	frames    [][]byte
	failAfter int
	failErr   error
	closed    bool
}

func NewSim() *Sim { return &Sim{Log: zerolog.Nop()} }

// NewRecorder returns a Sim that keeps every frame.
func NewRecorder() *Sim { return &Sim{History: true, Log: zerolog.Nop()} }

func (d *Sim) Write(rgb []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errSimClosed
	}
	if d.failErr != nil && d.count >= d.failAfter {
		return d.failErr
	}
	d.count++
	d.last = append(d.last[:0], rgb...)
	if d.History {
		d.frames = append(d.frames, append([]byte(nil), rgb...))
	}

	if e := d.Log.Trace(); e.Enabled() {
		// simple average for the log line
		var r, g, b int
		for i := 0; i+2 < len(rgb); i += 3 {
			r += int(rgb[i])
			g += int(rgb[i+1])
			b += int(rgb[i+2])
		}
		n := len(rgb) / 3
		if n == 0 {
			n = 1
		}
		e.Int("frame", d.count).Ints("avg", []int{r / n, g / n, b / n}).Msg("sim frame")
	}
	return nil
}

func (d *Sim) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Writes returns the number of successful writes.
func (d *Sim) Writes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

// Last returns a copy of the most recent frame.
func (d *Sim) Last() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.last...)
}

// Frames returns the recorded history (History must be set).
func (d *Sim) Frames() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]byte, len(d.frames))
	copy(out, d.frames)
	return out
}

// FailAfter makes every write after the first n successful ones return err.
func (d *Sim) FailAfter(n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failAfter = n
	d.failErr = err
}
