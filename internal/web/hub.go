package web

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/enlighten/internal/strip"
)

const (
	writeWait = time.Second
	// sendQueue frames may wait per client; beyond that frames are dropped.
	sendQueue = 16
)

// Hub streams every committed strip frame to websocket clients and accepts
// control messages from them. It is registered as a strip.Observer, so Frame
// runs inside Show and must never block on a client.
type Hub struct {
	log      zerolog.Logger
	cfg      strip.Config
	upgrader websocket.Upgrader

	// Control answers a client message; the reply is sent back as JSON.
	Control func(msg ControlMsg) any

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
	frameID uint64
	closed  bool
	wg      sync.WaitGroup
}

// ControlMsg is what clients send: an effect to start or a stop request.
type ControlMsg struct {
	Effect string         `json:"effect,omitempty"`
	Params map[string]any `json:"params,omitempty"`
	Stop   bool           `json:"stop,omitempty"`
}

// client owns one connection. Only its writer goroutine writes to conn.
type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

// offer queues b unless the client is behind.
func (c *client) offer(b []byte) bool {
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// push queues b, waiting for room unless the client is gone.
func (c *client) push(b []byte) {
	select {
	case c.send <- b:
	case <-c.done:
	}
}

type topology struct {
	Type       string  `json:"type"`
	Count      int     `json:"count"`
	Order      string  `json:"order"`
	Brightness float64 `json:"brightness"`
}

type frameMsg struct {
	Type    string `json:"type"`
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	RGB     []int  `json:"rgb"`
}

func NewHub(cfg strip.Config, log zerolog.Logger) *Hub {
	return &Hub{
		log:     log,
		cfg:     cfg,
		clients: map[*client]struct{}{},
	}
}

// Frame implements strip.Observer.
func (h *Hub) Frame(rgb []byte) {
	h.mu.Lock()
	h.frameID++
	h.last = rgb
	id := h.frameID
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.Unlock()
	if len(targets) == 0 {
		return
	}
	b, _ := json.Marshal(frameMsg{Type: "frame", T: time.Now().UnixNano(), FrameID: id, RGB: ints(rgb)})
	for _, c := range targets {
		if !c.offer(b) {
			h.log.Trace().Uint64("frame_id", id).Msg("client behind; frame dropped")
		}
	}
}

// Last returns the most recent frame and its id.
func (h *Hub) Last() ([]byte, uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]byte(nil), h.last...), h.frameID
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendQueue), done: make(chan struct{})}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	last, id := append([]byte(nil), h.last...), h.frameID
	h.wg.Add(2)
	h.mu.Unlock()

	go h.writer(c)
	h.pushJSON(c, topology{Type: "topology", Count: h.cfg.Count, Order: string(h.cfg.Order), Brightness: h.cfg.Brightness})
	if id > 0 {
		h.pushJSON(c, frameMsg{Type: "frame", T: time.Now().UnixNano(), FrameID: id, RGB: ints(last)})
	}
	go h.reader(c)
}

func (h *Hub) writer(c *client) {
	defer h.wg.Done()
	for {
		select {
		case b := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				h.log.Debug().Err(err).Msg("ws write failed; dropping client")
				h.drop(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

func (h *Hub) reader(c *client) {
	defer h.wg.Done()
	defer h.drop(c)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ControlMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			h.pushJSON(c, ErrorResponse{Error: "invalid_message", Message: err.Error()})
			continue
		}
		if h.Control != nil {
			h.pushJSON(c, h.Control(msg))
		}
	}
}

func (h *Hub) pushJSON(c *client, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.log.Error().Err(err).Msg("marshal ws message")
		return
	}
	c.push(b)
}

// drop disconnects c once; its writer and reader then exit.
func (h *Hub) drop(c *client) {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
	})
}

// Close disconnects every client and waits for their goroutines to exit.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	all := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		all = append(all, c)
	}
	h.mu.Unlock()
	for _, c := range all {
		h.drop(c)
	}
	h.wg.Wait()
}

// ints keeps the frame readable as a JSON array rather than base64.
func ints(b []byte) []int {
	out := make([]int, len(b))
	for i, v := range b {
		out[i] = int(v)
	}
	return out
}
