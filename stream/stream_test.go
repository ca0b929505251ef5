package stream

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/engine"
	"github.com/lixenwraith/nbody/physics"
	"github.com/lixenwraith/nbody/vmath"
)

func newSim(t *testing.T) *engine.Simulation {
	t.Helper()
	sim, err := engine.NewSimulation(engine.DefaultParams(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return sim
}

func envelope(t *testing.T, typ string, payload any) Envelope {
	t.Helper()
	b, err := Encode(typ, payload)
	if err != nil {
		t.Fatal(err)
	}
	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatal(err)
	}
	return env
}

func TestEnvelopeCodec(t *testing.T) {
	b, err := Encode(CmdSpawn, Spawn{X: 1, Y: 2, Radius: 3})
	if err != nil {
		t.Fatal(err)
	}
	env, err := DecodeEnvelope(b)
	if err != nil || env.T != CmdSpawn {
		t.Fatalf("Expected spawn envelope, got %+v (%v)", env, err)
	}
	s, err := DecodePayload[Spawn](env)
	if err != nil || s.X != 1 || s.Radius != 3 {
		t.Errorf("Expected spawn payload, got %+v (%v)", s, err)
	}

	if _, err := Encode("", nil); err == nil {
		t.Error("Expected empty type rejected")
	}
	if _, err := DecodeEnvelope(nil); err == nil {
		t.Error("Expected empty frame rejected")
	}
	if _, err := DecodeEnvelope([]byte(`{"p":{}}`)); err == nil {
		t.Error("Expected missing type rejected")
	}
	if _, err := DecodePayload[Spawn](Envelope{T: CmdSpawn}); err == nil {
		t.Error("Expected empty payload rejected")
	}
}

func TestControllerCommands(t *testing.T) {
	sim := newSim(t)
	resets := 0
	c := NewController(sim, func() error { resets++; return nil })

	if err := c.Apply(envelope(t, CmdPause, nil)); err != nil || !sim.Paused() {
		t.Errorf("Expected paused, got %v", err)
	}
	if err := c.Apply(envelope(t, CmdResume, nil)); err != nil || sim.Paused() {
		t.Errorf("Expected resumed, got %v", err)
	}

	if err := c.Apply(envelope(t, CmdSpawn, Spawn{X: 10, Radius: 1, Density: 1})); err != nil {
		t.Fatalf("Expected spawn, got %v", err)
	}
	if sim.Len() != 1 {
		t.Fatalf("Expected 1 body, got %d", sim.Len())
	}
	h := sim.Snapshot().Bodies[0].Handle
	if b, _ := sim.Get(h); b.Color != core.RGBWhite {
		t.Errorf("Expected default white color, got %v", b.Color)
	}

	if err := c.Apply(envelope(t, CmdSpawn, Spawn{})); !errors.Is(err, engine.ErrInvalidBody) {
		t.Errorf("Expected ErrInvalidBody for massless spawn, got %v", err)
	}

	if err := c.Apply(envelope(t, CmdRemove, Remove{ID: h})); err != nil {
		t.Errorf("Expected remove, got %v", err)
	}
	if err := c.Apply(envelope(t, CmdRemove, Remove{ID: h})); err == nil {
		t.Error("Expected stale remove rejected")
	}

	if err := c.Apply(envelope(t, CmdReset, nil)); err != nil || resets != 1 {
		t.Errorf("Expected reset callback, got %v (resets=%d)", err, resets)
	}
	if err := c.Apply(envelope(t, CmdClear, nil)); err != nil {
		t.Error(err)
	}
	if err := c.Apply(envelope(t, "warp", nil)); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Expected ErrUnknownCommand, got %v", err)
	}
}

func TestControllerParams(t *testing.T) {
	sim := newSim(t)
	c := NewController(sim, nil)

	g, mode := 9.0, "bounce"
	if err := c.Apply(envelope(t, CmdParams, ParamsPatch{G: &g, Collision: &mode})); err != nil {
		t.Fatalf("Expected params applied, got %v", err)
	}
	p := sim.Params()
	if p.G != 9 || p.Collision != physics.CollideBounce {
		t.Errorf("Expected G=9 bounce, got %+v", p)
	}
	if p.TimeStep != engine.DefaultParams().TimeStep {
		t.Errorf("Expected untouched dt, got %v", p.TimeStep)
	}

	neg := -1.0
	if err := c.Apply(envelope(t, CmdParams, ParamsPatch{TimeStep: &neg})); !errors.Is(err, engine.ErrInvalidParams) {
		t.Errorf("Expected ErrInvalidParams, got %v", err)
	}
	bad := "sticky"
	if err := c.Apply(envelope(t, CmdParams, ParamsPatch{Collision: &bad})); !errors.Is(err, engine.ErrInvalidParams) {
		t.Errorf("Expected ErrInvalidParams for unknown mode, got %v", err)
	}
	if err := c.Apply(envelope(t, CmdReset, nil)); err == nil {
		t.Error("Expected reset without callback rejected")
	}
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	env, err := DecodeEnvelope(msg)
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	return env
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubStreamsAndCommands(t *testing.T) {
	sim := newSim(t)
	sim.Spawn(core.NewBody(vmath.Vec2{X: 50}, vmath.Vec2{}, 1, 1))
	hub := NewHub(sim, nil, 60)
	hub.SetEveryTicks(1)

	srv := httptest.NewServer(hub)
	defer srv.Close()
	conn := dial(t, srv)

	welcome := readEnvelope(t, conn)
	if welcome.T != MsgWelcome {
		t.Fatalf("Expected welcome first, got %q", welcome.T)
	}
	w, _ := DecodePayload[Welcome](welcome)
	if w.Version != ProtocolVersion || w.TickHz != 60 {
		t.Errorf("Expected version %d at 60Hz, got %+v", ProtocolVersion, w)
	}

	waitFor(t, "client registration", func() bool { return hub.Clients() == 1 })
	hub.OnTick(1, nil)

	state := readEnvelope(t, conn)
	if state.T != MsgState {
		t.Fatalf("Expected state, got %q", state.T)
	}
	var snap engine.Snapshot
	if err := json.Unmarshal(state.P, &snap); err != nil {
		t.Fatal(err)
	}
	if len(snap.Bodies) != 1 || snap.Bodies[0].Pos.X != 50 {
		t.Errorf("Expected one body at x=50, got %+v", snap.Bodies)
	}

	cmd, _ := Encode(CmdPause, nil)
	if err := conn.WriteMessage(websocket.TextMessage, cmd); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "pause", sim.Paused)

	bogus, _ := Encode("warp", nil)
	conn.WriteMessage(websocket.TextMessage, bogus)
	reply := readEnvelope(t, conn)
	if reply.T != MsgError {
		t.Fatalf("Expected error reply, got %q", reply.T)
	}
	e, _ := DecodePayload[Error](reply)
	if e.Command != "warp" {
		t.Errorf("Expected error for warp, got %+v", e)
	}

	conn.Close()
	waitFor(t, "client removal", func() bool { return hub.Clients() == 0 })
}

func TestHubMergeBroadcast(t *testing.T) {
	sim := newSim(t)
	hub := NewHub(sim, nil, 60)
	hub.SetEveryTicks(1000)

	srv := httptest.NewServer(hub)
	defer srv.Close()
	conn := dial(t, srv)
	readEnvelope(t, conn)
	waitFor(t, "client registration", func() bool { return hub.Clients() == 1 })

	ev := engine.MergeEvent{A: core.NewHandle(0, 1), B: core.NewHandle(1, 1), Result: core.NewHandle(2, 1), Mass: 4}
	hub.OnTick(3, []engine.MergeEvent{ev})

	env := readEnvelope(t, conn)
	if env.T != MsgMerges {
		t.Fatalf("Expected merges, got %q", env.T)
	}
	m, err := DecodePayload[Merges](env)
	if err != nil || m.Tick != 3 || len(m.Events) != 1 || m.Events[0].Result != ev.Result {
		t.Errorf("Expected merge of tick 3, got %+v (%v)", m, err)
	}
}

func TestHubNoClients(t *testing.T) {
	sim := newSim(t)
	hub := NewHub(sim, nil, 60)
	hub.OnTick(2, nil)
	hub.Broadcast([]byte("x"))
	if hub.Clients() != 0 {
		t.Error("Expected no clients")
	}
}
