package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/nbody/audio"
	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/engine"
	"github.com/lixenwraith/nbody/parameter"
	"github.com/lixenwraith/nbody/physics"
	"github.com/lixenwraith/nbody/render"
	"github.com/lixenwraith/nbody/scenario"
	"github.com/lixenwraith/nbody/vmath"
)

const (
	messageDuration = 2 * time.Second
	checkEveryTicks = 60
)

// viewer drives the simulation one step per frame and maps keys onto the control surface
type viewer struct {
	screen   tcell.Screen
	renderer *render.TerminalRenderer
	sim      *engine.Simulation
	settings scenario.Settings
	scenes   *scenario.Manager
	saveName string
	cues     *audio.Cues

	cam    *render.Camera
	traces *render.Traces
	snap   engine.Snapshot

	cursorX, cursorY int
	cursorSet        bool

	message      string
	messageUntil time.Time

	frames int
	fpsAt  time.Time
	fps    float64

	debug bool
}

func newViewer(screen tcell.Screen, sim *engine.Simulation, settings scenario.Settings, scenes *scenario.Manager, cues *audio.Cues) *viewer {
	return &viewer{
		screen:   screen,
		renderer: render.NewTerminalRenderer(screen),
		sim:      sim,
		settings: settings,
		scenes:   scenes,
		saveName: "quick",
		cues:     cues,
		cam:      render.NewCamera(),
		traces:   render.NewTraces(parameter.TraceCapacity, parameter.TraceEveryFrames),
		fpsAt:    time.Now(),
	}
}

// notify shows a transient status bar message and logs it
func (v *viewer) notify(format string, args ...any) {
	v.message = fmt.Sprintf(format, args...)
	v.messageUntil = time.Now().Add(messageDuration)
	log.Print(v.message)
}

// reset regenerates the configured scenario with the current G
func (v *viewer) reset() error {
	bodies, err := scenario.Generate(v.settings, v.sim.Params().G)
	if err != nil {
		return err
	}
	if err := v.sim.Reset(bodies); err != nil {
		return err
	}
	v.traces.Clear()
	log.Printf("scenario generated: %d bodies seed %d", len(bodies), v.settings.Seed)
	return nil
}

// cursorWorld returns the simulation point under the cursor, defaulting to the view centre
func (v *viewer) cursorWorld() vmath.Vec2 {
	w, h := v.renderer.Viewport()
	if !v.cursorSet {
		return v.cam.Center
	}
	return v.cam.CellToWorld(v.cursorX, v.cursorY, w, h)
}

func (v *viewer) spawnAtCursor() {
	b := core.NewBody(v.cursorWorld(), vmath.Vec2{}, parameter.SpawnRadius, parameter.SpawnDensity)
	h, err := v.sim.Spawn(b)
	if err != nil {
		v.notify("spawn failed: %v", err)
		return
	}
	v.notify("spawned %s", h)
}

func (v *viewer) updateParams(label string, fn func(*engine.Params)) {
	if err := v.sim.UpdateParams(fn); err != nil {
		v.notify("%s rejected: %v", label, err)
		return
	}
	p := v.sim.Params()
	v.notify("G %.2f dt %.4f collisions %s", p.G, p.TimeStep, p.Collision)
}

// nextCollisionMode cycles merge, bounce, none
func nextCollisionMode(m physics.CollisionMode) physics.CollisionMode {
	switch m {
	case physics.CollideMerge:
		return physics.CollideBounce
	case physics.CollideBounce:
		return physics.CollideNone
	}
	return physics.CollideMerge
}

// handleEvent applies one terminal event; false requests exit
func (v *viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		x, y := ev.Position()
		v.cursorX, v.cursorY, v.cursorSet = x, y, true
		if ev.Buttons()&tcell.Button1 != 0 {
			v.spawnAtCursor()
		}
	case *tcell.EventResize:
		v.renderer.Resize()
		v.screen.Sync()
	}
	return true
}

func (v *viewer) handleKey(ev *tcell.EventKey) bool {
	pan := parameter.CameraPanCells
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		v.cam.Pan(-pan, 0)
	case tcell.KeyRight:
		v.cam.Pan(pan, 0)
	case tcell.KeyUp:
		v.cam.Pan(0, -pan)
	case tcell.KeyDown:
		v.cam.Pan(0, pan)
	case tcell.KeyRune:
		return v.handleRune(ev.Rune())
	}
	return true
}

func (v *viewer) handleRune(r rune) bool {
	pan := parameter.CameraPanCells
	switch r {
	case 'q':
		return false
	case ' ':
		if v.sim.TogglePause() {
			v.notify("paused")
		} else {
			v.notify("running")
		}
	case 'r':
		if err := v.reset(); err != nil {
			v.notify("reset failed: %v", err)
		} else {
			v.notify("reset")
		}
	case 'x':
		v.sim.Clear()
		v.traces.Clear()
		v.notify("cleared")
	case 's':
		v.spawnAtCursor()
	case 'c':
		v.updateParams("collision mode", func(p *engine.Params) { p.Collision = nextCollisionMode(p.Collision) })
	case '+', '=':
		v.updateParams("G", func(p *engine.Params) { p.G = min(p.G+parameter.ParamGStep, parameter.ParamGMax) })
	case '-', '_':
		v.updateParams("G", func(p *engine.Params) { p.G = max(p.G-parameter.ParamGStep, parameter.ParamGMin) })
	case ']':
		v.updateParams("time step", func(p *engine.Params) {
			p.TimeStep = min(p.TimeStep*parameter.TimeStepFactor, parameter.TimeStepMax)
			p.MaxTimeStep = max(p.MaxTimeStep, p.TimeStep)
		})
	case '[':
		v.updateParams("time step", func(p *engine.Params) {
			p.TimeStep = max(p.TimeStep/parameter.TimeStepFactor, parameter.TimeStepMin)
		})
	case 'f':
		v.cam.Follow = !v.cam.Follow
		v.cam.Target = core.NoHandle
	case 't':
		v.traces.Enabled = !v.traces.Enabled
	case 'T':
		v.traces.Clear()
	case 'm':
		if v.cues != nil {
			v.cues.SetEnabled(!v.cues.Enabled())
		}
	case 'w':
		if err := v.scenes.Save(v.saveName, scenario.FromSimulation(v.sim)); err != nil {
			v.notify("save failed: %v", err)
		} else {
			v.notify("saved %s", v.scenes.FilePath(v.saveName))
		}
	case 'l':
		v.load(v.saveName)
	case 'a':
		v.cam.Pan(-pan, 0)
	case 'd':
		v.cam.Pan(pan, 0)
	case 'W':
		v.cam.Pan(0, -pan)
	case 'S':
		v.cam.Pan(0, pan)
	case 'z':
		v.cam.ZoomIn()
	case 'Z':
		v.cam.ZoomOut()
	case '0':
		v.cam.Reset()
	}
	return true
}

func (v *viewer) load(name string) {
	f, err := v.scenes.Load(name)
	if err != nil {
		v.notify("load failed: %v", err)
		return
	}
	if err := scenario.Apply(v.sim, f); err != nil {
		v.notify("load failed: %v", err)
		return
	}
	v.traces.Clear()
	v.notify("loaded %s (%d bodies)", name, len(f.Bodies))
}

// frame advances one step unless paused and draws the result
func (v *viewer) frame(now time.Time) {
	if !v.sim.Paused() {
		events := v.sim.Step()
		if v.cues != nil {
			v.cues.OnMerges(events)
		}
	}

	v.sim.SnapshotInto(&v.snap)

	if v.debug && v.snap.Tick%checkEveryTicks == 0 {
		if err := v.sim.Check(); err != nil {
			log.Printf("invariant: %v", err)
		}
	}

	if v.cam.Follow && !v.cam.Track(v.snap.Bodies) {
		v.cam.Target = v.snap.Largest
		v.cam.Track(v.snap.Bodies)
	}
	v.traces.Record(v.snap.Bodies)

	v.frames++
	if dt := now.Sub(v.fpsAt); dt >= time.Second {
		v.fps = float64(v.frames) / dt.Seconds()
		v.frames = 0
		v.fpsAt = now
	}

	msg := ""
	if now.Before(v.messageUntil) {
		msg = v.message
	}
	reg := v.sim.Registry()
	v.renderer.RenderFrame(&v.snap, v.cam, v.traces, render.Overlay{
		FPS:        v.fps,
		StepMicros: reg.Floats.Get("sim.step_us").Get(),
		Merges:     reg.Ints.Get("sim.merges").Load(),
		Message:    msg,
		Audio:      v.cues != nil && v.cues.Enabled(),
		CursorX:    v.cursorX,
		CursorY:    v.cursorY,
		ShowCursor: v.cursorSet,
	})
}

// run owns the frame loop until quit
func (v *viewer) run() {
	ticker := time.NewTicker(parameter.FrameUpdateInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	core.Go(func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	})

	for {
		select {
		case ev := <-eventChan:
			if !v.handleEvent(ev) {
				return
			}
		case now := <-ticker.C:
			v.frame(now)
		}
	}
}
