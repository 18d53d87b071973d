package led

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"periph.io/x/extra/devices/screen"
)

// Console prints the strip as a row of ANSI colored cells on stdout. It is
// the fallback when no LED hardware is attached.
type Console struct {
	mu    sync.Mutex
	dev   *screen.Dev
	img   *image.NRGBA
	count int
}

func NewConsole(count int) (*Console, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	return &Console{
		dev:   screen.New(count),
		img:   image.NewNRGBA(image.Rect(0, 0, count, 1)),
		count: count,
	}, nil
}

func (c *Console) Write(rgb []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(rgb) != c.count*3 {
		return fmt.Errorf("rgb length %d does not match count %d", len(rgb), c.count)
	}
	for x := 0; x < c.count; x++ {
		c.img.SetNRGBA(x, 0, color.NRGBA{R: rgb[x*3], G: rgb[x*3+1], B: rgb[x*3+2], A: 255})
	}
	if err := c.dev.Draw(c.dev.Bounds(), c.img, image.Point{}); err != nil {
		return err
	}
	fmt.Printf("\n")
	return nil
}

func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dev.Halt()
}
