package web

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/enlighten/internal/led"
	"github.com/coreman2200/enlighten/internal/lighting"
	"github.com/coreman2200/enlighten/internal/strip"
)

func newHubRig(t *testing.T, n int) (*Hub, *lighting.Engine, string) {
	t.Helper()
	s, err := strip.New(strip.Config{Count: n, Brightness: 1, Order: strip.GRB}, led.NewSim())
	require.NoError(t, err)
	h := NewHub(s.Config(), zerolog.Nop())
	s.Observe(h)
	ts := httptest.NewServer(h)
	t.Cleanup(func() {
		h.Close()
		ts.Close()
	})
	eng := lighting.New(s, lighting.WithWait(func(ctx context.Context, d time.Duration) error { return nil }))
	return h, eng, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestStalledClientDoesNotSlowEffects(t *testing.T) {
	h, eng, url := newHubRig(t, 150)
	// connected but never reads, so its socket fills up
	conn := dial(t, url)
	defer conn.Close()
	require.Eventually(t, func() bool { return h.Clients() == 1 }, 2*time.Second, 5*time.Millisecond)

	done := make(chan error, 1)
	go func() {
		// 150 * 40 frames of ~1.5KB each, far more than the socket buffers hold
		done <- eng.Run(context.Background(), lighting.StaticRainbow, lighting.StaticRainbowParams{Width: 1, Cycles: 40})
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("effect held up by a client that does not read")
	}
	_, id := h.Last()
	assert.Equal(t, uint64(150*40), id)
}

func TestClosedClientIsDropped(t *testing.T) {
	h, eng, url := newHubRig(t, 3)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return h.Clients() == 1 }, 2*time.Second, 5*time.Millisecond)

	var top topology
	require.NoError(t, conn.ReadJSON(&top))
	require.NoError(t, conn.Close())

	require.NoError(t, eng.Run(context.Background(), lighting.Hyperloop, lighting.HyperloopParams{Width: 1, Cycles: 5}))
	assert.Eventually(t, func() bool { return h.Clients() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestLateClientGetsLastFrame(t *testing.T) {
	_, eng, url := newHubRig(t, 2)
	require.NoError(t, eng.Run(context.Background(), lighting.SingleColor, lighting.SingleColorParams{Color: lighting.Red}))

	conn := dial(t, url)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var top topology
	require.NoError(t, conn.ReadJSON(&top))
	var fr frameMsg
	require.NoError(t, conn.ReadJSON(&fr))
	assert.Equal(t, "frame", fr.Type)
	assert.Equal(t, []int{255, 0, 0, 255, 0, 0}, fr.RGB)
}
