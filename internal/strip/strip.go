// Package strip is the LED strip driver contract: a fixed-length pixel buffer
// committed to an output with Show.
package strip

import (
	"fmt"
	"sync/atomic"
)

const (
	DefaultCount      = 30
	DefaultBrightness = 0.5
	DefaultOrder      = GRB
)

// Driver abstracts an LED output sink.
type Driver interface {
	// Write pushes an RGB frame to hardware. len(rgb) must be 3*N and the
	// bytes are in logical slot order; the driver applies its wire order.
	Write(rgb []byte) error
	// Close releases resources.
	Close() error
}

// Releaser is implemented by drivers that can let go of the hardware
// without turning the LEDs off.
type Releaser interface {
	Release() error
}

// Observer is told about every committed frame, after the driver.
// The slice is owned by the observer.
type Observer interface {
	Frame(rgb []byte)
}

// Config is fixed for the strip's lifetime.
type Config struct {
	Output     string // pin or port the strip hangs off, e.g. "D18" or "SPI0.0"
	Count      int
	Brightness float64
	Order      ChannelOrder
	// MaxMilliamps caps the estimated draw of a frame; 0 means no cap.
	MaxMilliamps float64
}

func (c Config) Validate() error {
	if c.Count < 1 {
		return fmt.Errorf("%w: pixel count %d", ErrInvalidParameter, c.Count)
	}
	if c.Brightness < 0 || c.Brightness > 1 {
		return fmt.Errorf("%w: brightness %v outside [0,1]", ErrInvalidParameter, c.Brightness)
	}
	if c.MaxMilliamps < 0 {
		return fmt.Errorf("%w: max milliamps %v < 0", ErrInvalidParameter, c.MaxMilliamps)
	}
	if _, err := c.Order.slots(); err != nil {
		return err
	}
	return nil
}

// Strip buffers pixel writes until Show. It is not safe for concurrent
// writers; callers serialize access.
type Strip struct {
	cfg       Config
	buf       []Color
	out       []byte
	drv       Driver
	observers []Observer
	// read by the web health handler while an effect runs
	frames  atomic.Uint64
	limited atomic.Uint64
}

// New validates cfg, then clears the strip and commits once so every LED
// starts off.
func New(cfg Config, drv Driver) (*Strip, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if drv == nil {
		return nil, fmt.Errorf("%w: no driver", ErrDriverUnavailable)
	}
	s := &Strip{
		cfg: cfg,
		buf: make([]Color, cfg.Count),
		out: make([]byte, cfg.Count*3),
		drv: drv,
	}
	if err := s.Show(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Strip) Len() int { return len(s.buf) }

func (s *Strip) Config() Config { return s.cfg }

// Frames returns how many Show calls have been committed.
func (s *Strip) Frames() uint64 { return s.frames.Load() }

// Limited returns how many committed frames the current cap scaled down.
func (s *Strip) Limited() uint64 { return s.limited.Load() }

// Observe registers o. Register observers before the strip is in use.
func (s *Strip) Observe(o Observer) {
	if o != nil {
		s.observers = append(s.observers, o)
	}
}

// SetPixel buffers c at index i.
func (s *Strip) SetPixel(i int, c Color) error {
	if i < 0 || i >= len(s.buf) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, len(s.buf))
	}
	s.buf[i] = c
	return nil
}

// Pixel returns the buffered (unscaled) color at i.
func (s *Strip) Pixel(i int) (Color, error) {
	if i < 0 || i >= len(s.buf) {
		return Off, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, len(s.buf))
	}
	return s.buf[i], nil
}

// Pixels returns a copy of the buffer.
func (s *Strip) Pixels() []Color {
	out := make([]Color, len(s.buf))
	copy(out, s.buf)
	return out
}

// Fill buffers c at every index.
func (s *Strip) Fill(c Color) {
	for i := range s.buf {
		s.buf[i] = c
	}
}

// Show commits the buffer, scaled by brightness and then by the current cap,
// to the driver. All writes since the previous Show become visible together.
func (s *Strip) Show() error {
	for i, c := range s.buf {
		c = c.Scale(s.cfg.Brightness)
		s.out[i*3+0] = c.R
		s.out[i*3+1] = c.G
		s.out[i*3+2] = c.B
	}
	limited := limit(s.out, s.cfg.MaxMilliamps)
	if err := s.drv.Write(s.out); err != nil {
		return fmt.Errorf("%w: %w", ErrDriverUnavailable, err)
	}
	s.frames.Add(1)
	if limited {
		s.limited.Add(1)
	}
	for _, o := range s.observers {
		o.Frame(append([]byte(nil), s.out...))
	}
	return nil
}

// Close turns every LED off and releases the driver.
func (s *Strip) Close() error {
	s.Fill(Off)
	showErr := s.Show()
	if err := s.drv.Close(); err != nil {
		return err
	}
	return showErr
}

// Release frees the driver and leaves the last committed frame lit, the way a
// one-shot effect should end.
func (s *Strip) Release() error {
	if r, ok := s.drv.(Releaser); ok {
		return r.Release()
	}
	return s.drv.Close()
}
