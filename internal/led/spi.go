package led

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/coreman2200/enlighten/internal/strip"
)

// DefaultSPIFreq is the SPI clock nrzled needs: three SPI bits per NRZ bit
// at 800kHz, plus margin. nrzled accepts nothing else.
const DefaultSPIFreq = 2500 * physic.KiloHertz

// SPI drives a WS281x strip from an SPI MOSI line through periph's nrzled
// encoder.
type SPI struct {
	mu    sync.Mutex
	port  spi.PortCloser // set when OpenSPI opened the port
	dev   *nrzled.Dev
	count int
	order strip.ChannelOrder
	wire  []byte
}

// OpenSPI initializes the periph host drivers and opens the named SPI port
// ("" picks the first one available).
func OpenSPI(name string, count int, order strip.ChannelOrder, freq physic.Frequency) (*SPI, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", name, err)
	}
	s, err := NewSPI(p, count, order, freq)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	s.port = p
	return s, nil
}

// NewSPI wraps an already opened port. The caller keeps ownership of p.
func NewSPI(p spi.Port, count int, order strip.ChannelOrder, freq physic.Frequency) (*SPI, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	order, err := strip.ParseChannelOrder(string(order))
	if err != nil {
		return nil, err
	}
	if freq == 0 {
		freq = DefaultSPIFreq
	}
	if freq != DefaultSPIFreq {
		return nil, fmt.Errorf("%w: spi clock %s, need %s", strip.ErrInvalidParameter, freq, DefaultSPIFreq)
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      freq,
	})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return &SPI{
		dev:   d,
		count: count,
		order: order,
		wire:  make([]byte, count*3),
	}, nil
}

func (s *SPI) String() string {
	return fmt.Sprintf("spi(%d,%s)", s.count, s.order)
}

// Write takes len(rgb)==3*count.
func (s *SPI) Write(rgb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev == nil {
		return fmt.Errorf("SPI closed")
	}
	if len(rgb) != s.count*3 {
		return fmt.Errorf("rgb length %d does not match count %d", len(rgb), s.count)
	}
	if err := s.order.Encode(s.wire, rgb); err != nil {
		return err
	}
	// nrzled reads RGB and transmits G first; pre-swap so the wire carries
	// exactly s.order.
	for i := 0; i < len(s.wire); i += 3 {
		s.wire[i], s.wire[i+1] = s.wire[i+1], s.wire[i]
	}
	if _, err := s.dev.Write(s.wire); err != nil {
		return fmt.Errorf("spi write: %w", err)
	}
	return nil
}

func (s *SPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return nil
	}
	err := s.dev.Halt()
	s.dev = nil
	if s.port != nil {
		if cerr := s.port.Close(); err == nil {
			err = cerr
		}
		s.port = nil
	}
	return err
}

// Release closes the port without Halt, which would blank the strip.
func (s *SPI) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dev = nil
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}
