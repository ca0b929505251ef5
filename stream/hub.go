package stream

import (
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/engine"
	"github.com/lixenwraith/nbody/parameter"
)

var upgrader = websocket.Upgrader{
	// Viewers are served from anywhere; the stream carries no credentials
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client is one websocket connection with a bounded send queue
type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// Hub fans snapshots out to connected clients and feeds their commands to a Controller
// Slow clients drop frames instead of stalling the simulation
type Hub struct {
	sim        *engine.Simulation
	controller *Controller
	tickHz     int
	everyTicks uint64

	mu      sync.Mutex
	clients map[*client]struct{}
	snap    engine.Snapshot

	// Cached metric pointers
	statClients *atomic.Int64
	statDropped *atomic.Int64
}

// NewHub creates a hub over sim; reset backs the reset command and may be nil
func NewHub(sim *engine.Simulation, reset func() error, tickHz int) *Hub {
	reg := sim.Registry()
	return &Hub{
		sim:         sim,
		controller:  NewController(sim, reset),
		tickHz:      tickHz,
		everyTicks:  parameter.StreamEveryTicks,
		clients:     make(map[*client]struct{}),
		statClients: reg.Ints.Get("stream.clients"),
		statDropped: reg.Ints.Get("stream.dropped"),
	}
}

// SetEveryTicks sets the snapshot broadcast period
func (h *Hub) SetEveryTicks(n int) {
	if n < 1 {
		n = 1
	}
	h.mu.Lock()
	h.everyTicks = uint64(n)
	h.mu.Unlock()
}

// Clients returns the connected client count
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and runs the client until it disconnects
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, parameter.StreamSendQueueSize),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	every := int(h.everyTicks)
	h.mu.Unlock()
	welcome, err := Encode(MsgWelcome, Welcome{
		Version:    ProtocolVersion,
		TickHz:     h.tickHz,
		EveryTicks: every,
		Params:     h.sim.Params(),
	})
	if err == nil {
		c.send <- welcome
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.statClients.Store(int64(len(h.clients)))
	h.mu.Unlock()
	log.Printf("client connected: %s", conn.RemoteAddr())

	core.Go(func() { h.writePump(c) })
	h.readPump(c)

	h.mu.Lock()
	delete(h.clients, c)
	h.statClients.Store(int64(len(h.clients)))
	h.mu.Unlock()
	c.close()
	log.Printf("client disconnected: %s", conn.RemoteAddr())
}

// readPump decodes commands until the connection fails
func (h *Hub) readPump(c *client) {
	conn := c.conn
	conn.SetReadLimit(parameter.StreamReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(parameter.StreamReadTimeout))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(parameter.StreamReadTimeout))
		return nil
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Println("read:", err)
			}
			return
		}

		env, err := DecodeEnvelope(msg)
		if err == nil {
			err = h.controller.Apply(env)
		}
		if err != nil {
			reply, encErr := Encode(MsgError, Error{Command: env.T, Message: err.Error()})
			if encErr == nil {
				h.enqueue(c, reply)
			}
		}
	}
}

// writePump drains the send queue and keeps the connection alive with pings
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(parameter.StreamPingInterval)
	defer ticker.Stop()
	defer c.close()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(parameter.StreamWriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Println("write:", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(parameter.StreamWriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// enqueue sends without blocking; a full queue drops the frame
func (h *Hub) enqueue(c *client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.statDropped.Add(1)
	}
}

// Broadcast queues msg on every client
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.enqueue(c, msg)
	}
}

// OnTick is an engine.TickHandler: merges go out every tick, snapshots every N ticks
func (h *Hub) OnTick(tick uint64, events []engine.MergeEvent) {
	if h.Clients() == 0 {
		return
	}

	if len(events) > 0 {
		m := Merges{Tick: tick, Events: make([]MergeView, len(events))}
		for i, ev := range events {
			m.Events[i] = MergeView{A: ev.A, B: ev.B, Result: ev.Result, Mass: ev.Mass, Pos: ev.Pos}
		}
		if msg, err := Encode(MsgMerges, m); err == nil {
			h.Broadcast(msg)
		}
	}

	h.mu.Lock()
	every := h.everyTicks
	h.mu.Unlock()
	if tick%every == 0 {
		h.BroadcastState()
	}
}

// BroadcastState encodes the current snapshot once and queues it on every client
func (h *Hub) BroadcastState() {
	h.mu.Lock()
	h.sim.SnapshotInto(&h.snap)
	msg, err := Encode(MsgState, &h.snap)
	h.mu.Unlock()
	if err != nil {
		log.Println("encode state:", err)
		return
	}
	h.Broadcast(msg)
}
