package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/impulse/internal/particle"
	"github.com/san-kum/impulse/internal/scene"
	"github.com/san-kum/impulse/internal/sim"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
	trailCapacity   = 90
	frameInterval   = time.Second / 60
)

// TickMsg drives the frame loop.
type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Snapshot is one recorded frame of the scrub history.
type Snapshot struct {
	Frame  sim.Frame
	Energy float64
}

type appState int

const (
	stateMenu appState = iota
	stateSim
)

// App is the interactive terminal front end: a scene menu and a live
// physics view with parameter tuning, replay and GIF recording.
type App struct {
	registry *scene.Registry
	names    []string
	descs    []string
	cursor   int
	state    appState

	sc       scene.Scene
	world    *particle.World
	resolver *particle.Resolver
	contacts []particle.Contact
	t, dt    float64
	stepErr  error

	canvas *Canvas
	camera *Camera
	wf     Wireframe
	trails map[particle.Handle][]particle.Vec3

	running       bool
	paramKeys     []string
	initialParams map[string]float64
	selected      int

	energyHist  []float64
	contactHist []float64
	history     []Snapshot
	playHead    int

	recording bool
	frames    []*image.Paletted

	showHelp bool
}

// NewApp builds the front end over the given scene registry.
func NewApp(registry *scene.Registry) App {
	names := registry.List()
	descs := make([]string, len(names))
	for i, name := range names {
		if sc, err := registry.Get(name); err == nil {
			descs[i] = sc.Description()
		}
	}
	return App{
		registry: registry,
		names:    names,
		descs:    descs,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		camera:   NewCamera(),
		dt:       1.0 / 60,
		playHead: -1,
	}
}

// Run starts the interactive terminal front end.
func Run(registry *scene.Registry) error {
	_, err := tea.NewProgram(NewApp(registry), tea.WithAltScreen()).Run()
	return err
}

// RunScene starts the terminal front end directly in the named scene,
// skipping the menu.
func RunScene(registry *scene.Registry, name string) error {
	a := NewApp(registry)
	if err := a.enterScene(name); err != nil {
		return err
	}
	a.state = stateSim
	_, err := tea.NewProgram(a, tea.WithAltScreen()).Run()
	return err
}

func (a App) Init() tea.Cmd { return tick() }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)
	case TickMsg:
		if a.state == stateSim {
			if a.running {
				if a.playHead < 0 {
					a.step()
				} else {
					a.advanceReplay()
				}
			}
			a.draw()
			if a.recording {
				a.capture()
			}
		}
		return a, tick()
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}
	if a.state == stateMenu {
		return a.menuKey(msg)
	}
	return a.simKey(msg)
}

func (a App) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.names)-1 {
			a.cursor++
		}
	case "enter", " ":
		if a.enterScene(a.names[a.cursor]) == nil {
			a.state = stateSim
		}
	}
	return a, nil
}

func (a App) simKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "esc":
		a.state = stateMenu
	case " ":
		a.running = !a.running
	case "r":
		a.restart()
	case "tab":
		a.cycleParam()
	case "up", "k":
		a.adjustParam(1.05)
	case "down", "j":
		a.adjustParam(0.95)
	case "[":
		a.scrub(-1)
	case "]":
		a.scrub(1)
	case "t":
		NextTheme()
	case "g":
		a.toggleRecording()
	case "?":
		a.showHelp = !a.showHelp
	case "f":
		a.fire()
	case "1", "2", "3", "4":
		a.selectAmmo(int(msg.String()[0] - '1'))
	case "left":
		a.camera.Orbit(-0.1, 0)
	case "right":
		a.camera.Orbit(0.1, 0)
	case "x":
		a.camera.Orbit(0, 0.1)
	case "X":
		a.camera.Orbit(0, -0.1)
	case "+", "=":
		a.camera.ZoomIn()
	case "-", "_":
		a.camera.ZoomOut()
	}
	return a, nil
}

func (a *App) enterScene(name string) error {
	sc, err := a.registry.Get(name)
	if err != nil {
		return err
	}
	a.sc = sc

	a.paramKeys = a.paramKeys[:0]
	a.initialParams = make(map[string]float64)
	if cfg, ok := sc.(scene.Configurable); ok {
		for k, v := range cfg.GetParams() {
			a.paramKeys = append(a.paramKeys, k)
			a.initialParams[k] = v
		}
		sort.Strings(a.paramKeys)
	}
	a.selected = 0
	return a.restart()
}

// restart rebuilds the world with the scene's current parameters and
// clears all recorded history.
func (a *App) restart() error {
	w := particle.NewWorld()
	if err := a.sc.Setup(w); err != nil {
		a.stepErr = err
		a.running = false
		return err
	}
	a.world = w
	a.resolver = particle.NewResolver(1)
	a.contacts = a.contacts[:0]
	a.t = 0
	a.stepErr = nil
	a.running = true
	a.playHead = -1
	a.trails = make(map[particle.Handle][]particle.Vec3)
	a.energyHist = a.energyHist[:0]
	a.contactHist = a.contactHist[:0]
	a.history = a.history[:0]
	a.frameCamera()
	return nil
}

// frameCamera picks a target and zoom that keep each scene's action on
// screen.
func (a *App) frameCamera() {
	a.camera = NewCamera()
	switch sc := a.sc.(type) {
	case *scene.Ballistic:
		a.camera.Target = particle.Vec3{0, 8, sc.MaxRange / 2}
		a.camera.Yaw = math.Pi / 2
		a.camera.Distance = 120
		a.camera.Zoom = 0.025
	case *scene.Bungee:
		a.camera.Target = particle.Vec3{0, 4, 0}
		a.camera.Zoom = 0.22
	case *scene.Bridge:
		a.camera.Target = particle.Vec3{0, 3.5, 0}
		a.camera.Zoom = 0.18
	case *scene.Fireworks:
		a.camera.Target = particle.Vec3{0, 12, 0}
		a.camera.Distance = 60
		a.camera.Zoom = 0.1
	case *scene.Flotsam:
		a.camera.Target = particle.Vec3{0, sc.WaterHeight, 0}
		a.camera.Zoom = 0.3
	default:
		a.camera.Target = particle.Vec3{0, -1, 0}
		a.camera.Zoom = 0.5
	}
}

// step advances the scene one frame: update, tick, collect contacts,
// resolve, then record history.
func (a *App) step() {
	a.sc.Update(a.world, a.t, a.dt)
	if err := a.world.Tick(a.dt); err != nil {
		a.stepErr = err
		a.running = false
		return
	}
	a.contacts = a.sc.Contacts(a.world, a.contacts[:0])
	if n := len(a.contacts); n > 0 {
		a.resolver.SetIterations(2 * n)
		a.resolver.ResolveContacts(a.contacts, a.dt, a.world.Bodies())
	}
	a.t += a.dt

	energy := 0.0
	frame := sim.Frame{Time: a.t, Bodies: make([]sim.BodyState, 0, a.world.BodyCount())}
	a.world.Bodies().Each(func(h particle.Handle, b *particle.Body) bool {
		energy += b.KineticEnergy()
		frame.Bodies = append(frame.Bodies, sim.BodyState{
			Handle:   h,
			Position: b.Position,
			Velocity: b.Velocity,
		})
		a.trails[h] = appendTrail(a.trails[h], b.Position)
		return true
	})
	for h := range a.trails {
		if !a.world.Bodies().Contains(h) {
			delete(a.trails, h)
		}
	}

	a.energyHist = appendCapped(a.energyHist, energy)
	a.contactHist = appendCapped(a.contactHist, float64(len(a.contacts)))
	a.history = append(a.history, Snapshot{Frame: frame, Energy: energy})
	if len(a.history) > historyCapacity {
		a.history = a.history[1:]
	}
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func appendTrail(tr []particle.Vec3, p particle.Vec3) []particle.Vec3 {
	tr = append(tr, p)
	if len(tr) > trailCapacity {
		tr = tr[1:]
	}
	return tr
}

func (a *App) advanceReplay() {
	a.playHead++
	if a.playHead >= len(a.history) {
		a.playHead = -1
	}
}

// scrub moves the playback position through recorded history; scrubbing
// from live view pauses at the newest frame first.
func (a *App) scrub(dir int) {
	if len(a.history) == 0 {
		return
	}
	if a.playHead < 0 {
		a.playHead = len(a.history) - 1
		a.running = false
	}
	a.playHead += dir
	if a.playHead < 0 {
		a.playHead = 0
	}
	if a.playHead >= len(a.history) {
		a.playHead = -1
	}
}

func (a *App) cycleParam() {
	if len(a.paramKeys) == 0 {
		return
	}
	a.selected = (a.selected + 1) % len(a.paramKeys)
}

func (a *App) adjustParam(factor float64) {
	cfg, ok := a.sc.(scene.Configurable)
	if !ok || len(a.paramKeys) == 0 {
		return
	}
	key := a.paramKeys[a.selected]
	val := cfg.GetParams()[key] * factor
	_ = cfg.SetParam(key, val)
}

func (a *App) fire() {
	if b, ok := a.sc.(*scene.Ballistic); ok && a.playHead < 0 {
		b.Fire(a.world, a.t)
	}
}

func (a *App) selectAmmo(i int) {
	if b, ok := a.sc.(*scene.Ballistic); ok {
		_ = b.SetParam("ammo", float64(i))
	}
}

// draw rebuilds the canvas from the live world, or from the replayed
// snapshot while scrubbing.
func (a *App) draw() {
	a.canvas.Clear()
	a.wf.Reset()

	var bodies []sim.BodyState
	lookup := a.livePosition
	if a.playHead >= 0 && a.playHead < len(a.history) {
		frame := a.history[a.playHead].Frame
		bodies = frame.Bodies
		byHandle := make(map[particle.Handle]particle.Vec3, len(bodies))
		for _, b := range bodies {
			byHandle[b.Handle] = b.Position
		}
		lookup = func(h particle.Handle) (particle.Vec3, bool) {
			p, ok := byHandle[h]
			return p, ok
		}
	} else {
		a.world.Bodies().Each(func(h particle.Handle, b *particle.Body) bool {
			bodies = append(bodies, sim.BodyState{Handle: h, Position: b.Position})
			return true
		})
	}

	a.sceneFurniture(lookup)
	for _, tr := range a.trails {
		for _, p := range tr {
			a.wf.Dot(p)
		}
	}
	for _, b := range bodies {
		a.wf.Mark(b.Position, 1)
	}
	Render(a.canvas, &a.wf, a.camera)
}

func (a *App) livePosition(h particle.Handle) (particle.Vec3, bool) {
	b, ok := a.world.Body(h)
	if !ok {
		return particle.Vec3{}, false
	}
	return b.Position, true
}

// sceneFurniture adds the static geometry each scene is drawn against:
// floors, water, the ballistic range and the bridge's links.
func (a *App) sceneFurniture(lookup func(particle.Handle) (particle.Vec3, bool)) {
	switch sc := a.sc.(type) {
	case *scene.Sandbox:
		a.wf.GridXZ(particle.Vec3{0, sc.FloorHeight, 0}, 4, 1)
	case *scene.Bungee:
		a.wf.GridXZ(particle.Vec3{0, sc.FloorHeight, 0}, 4, 1)
		anchor, okA := lookup(sc.Anchor())
		ball, okB := lookup(sc.Ball())
		if okA && okB {
			a.wf.Line(anchor, ball)
		}
	case *scene.Flotsam:
		a.wf.GridXZ(particle.Vec3{0, sc.WaterHeight, 0}, 5, 1)
	case *scene.Ballistic:
		for _, x := range []float64{-3, 3} {
			a.wf.Line(particle.Vec3{x, 0, 0}, particle.Vec3{x, 0, sc.MaxRange})
		}
		for z := 0.0; z <= sc.MaxRange+1e-9; z += sc.MaxRange / 10 {
			a.wf.Line(particle.Vec3{-3, 0, z}, particle.Vec3{3, 0, z})
		}
		a.wf.Mark(sc.Muzzle(), 2)
	case *scene.Fireworks:
		a.wf.GridXZ(particle.Vec3{}, 8, 2)
	case *scene.Bridge:
		a.wf.GridXZ(particle.Vec3{}, 8, 2)
		for _, src := range sc.Sources() {
			switch link := src.(type) {
			case *scene.Rod:
				a.linkLine(lookup, link.A, link.B)
			case *scene.Cable:
				a.linkLine(lookup, link.A, link.B)
			case *scene.CableAnchor:
				if p, ok := lookup(link.Body); ok {
					a.wf.Line(link.Anchor, p)
				}
			}
		}
	}
}

func (a *App) linkLine(lookup func(particle.Handle) (particle.Vec3, bool), h1, h2 particle.Handle) {
	p1, ok1 := lookup(h1)
	p2, ok2 := lookup(h2)
	if ok1 && ok2 {
		a.wf.Line(p1, p2)
	}
}

func (a App) View() string {
	if a.state == stateMenu {
		return a.viewMenu()
	}
	return a.viewSim()
}

func (a App) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle().Render("IMPULSE") + "\n")
	b.WriteString("    " + subtleStyle().Render("particle physics workbench") + "\n")
	b.WriteString("    " + subtleStyle().Render(strings.Repeat("─", 26)) + "\n\n")
	for i, name := range a.names {
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				accentStyle().Render("▸"),
				valueStyle().Bold(true).Render(fmt.Sprintf("%-12s", name)),
				accentStyle().Render(a.descs[i])))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n",
				subtleStyle().Render(fmt.Sprintf("%-12s", name)),
				subtleStyle().Render(a.descs[i])))
		}
	}
	b.WriteString("\n    " + activeStyle().Render("j/k") + subtleStyle().Render(" navigate  ") +
		activeStyle().Render("enter") + subtleStyle().Render(" select  ") +
		activeStyle().Render("q") + subtleStyle().Render(" quit") + "\n")
	return b.String()
}

func (a App) viewSim() string {
	canvasView := canvasPaneStyle().Render(a.canvas.String())

	var s strings.Builder
	s.WriteString(titleStyle().Render(strings.ToUpper(a.sc.Name())) + "\n")
	s.WriteString(a.statusLine() + "\n\n")

	if len(a.energyHist) > 1 {
		chart := asciigraph.Plot(a.energyHist,
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("kinetic energy"))
		s.WriteString(graphStyle().Render(chart) + "\n\n")
	}

	t, bodies := a.t, 0
	if a.world != nil {
		bodies = a.world.BodyCount()
	}
	if a.playHead >= 0 && a.playHead < len(a.history) {
		snap := a.history[a.playHead]
		t, bodies = snap.Frame.Time, len(snap.Frame.Bodies)
	}
	s.WriteString(labelStyle().Render("time") + valueStyle().Render(fmt.Sprintf("%.2fs", t)) + "\n")
	s.WriteString(labelStyle().Render("bodies") + valueStyle().Render(fmt.Sprintf("%d", bodies)) + "\n")
	s.WriteString(labelStyle().Render("contacts") + valueStyle().Render(fmt.Sprintf("%d", len(a.contacts))) + "\n")
	if len(a.energyHist) > 0 {
		s.WriteString(labelStyle().Render("energy") +
			valueStyle().Render(fmt.Sprintf("%.2f J", a.energyHist[len(a.energyHist)-1])) + "\n")
	}
	if b, ok := a.sc.(*scene.Ballistic); ok {
		s.WriteString(labelStyle().Render("ammo") + activeStyle().Render(b.Ammo.String()) + "\n")
		s.WriteString(labelStyle().Render("in flight") + valueStyle().Render(fmt.Sprintf("%d", b.Rounds())) + "\n")
	}
	if len(a.contactHist) > 1 {
		s.WriteString(labelStyle().Render("load") + Sparkline(a.contactHist, 28) + "\n")
	}
	if a.stepErr != nil {
		s.WriteString("\n" + errorStyle().Render(a.stepErr.Error()) + "\n")
	}

	s.WriteString("\n" + subtleStyle().Render("PARAMETERS") + "\n")
	a.writeParams(&s)

	s.WriteString(helpStyle().Render(strings.Join([]string{
		strings.Repeat("─", 24),
		"space pause · r restart · esc menu · q quit",
		"tab select · ↑↓ tune · [ ] replay · ? help",
	}, "\n")))

	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsPaneStyle().Render(s.String()))
	if a.showHelp {
		return helpOverlay + "\n" + main
	}
	return main
}

func (a App) writeParams(s *strings.Builder) {
	cfg, ok := a.sc.(scene.Configurable)
	if !ok || len(a.paramKeys) == 0 {
		s.WriteString(subtleStyle().Render("  (none)") + "\n")
		return
	}
	params := cfg.GetParams()
	for i, k := range a.paramKeys {
		val := params[k]
		line := fmt.Sprintf("%-15s %s %.2f", k, ParamBar(val, a.initialParams[k], 10), val)
		if i == a.selected {
			s.WriteString(activeStyle().Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + subtleStyle().Render(line) + "\n")
		}
	}
}

func (a App) statusLine() string {
	var status string
	switch {
	case a.stepErr != nil:
		status = errorStyle().Render("● FAULT")
	case a.playHead >= 0:
		behind := 0.0
		if len(a.history) > 0 {
			behind = a.history[len(a.history)-1].Frame.Time - a.history[a.playHead].Frame.Time
		}
		status = warnStyle().Render(fmt.Sprintf("◂ REPLAY -%.1fs", behind))
	case !a.running:
		status = warnStyle().Render("‖ PAUSED")
	default:
		status = okStyle().Render("▸ RUNNING")
	}
	if a.recording {
		status += "  " + errorStyle().Render("● REC")
	}
	return status
}

const helpOverlay = `
  ╭──────────────── CONTROLS ────────────────╮
  │  space      pause / resume               │
  │  r          restart with current params  │
  │  tab        select parameter             │
  │  up/down    tune parameter ±5%           │
  │  [ ]        scrub recorded history       │
  │  f          fire (ballistic)             │
  │  1-4        select ammo (ballistic)      │
  │  left/right orbit camera                 │
  │  x/X        tilt camera                  │
  │  +/-        zoom                         │
  │  t          cycle theme                  │
  │  g          toggle GIF recording         │
  │  esc        back to menu                 │
  ╰──────────────────────────────────────────╯`

func (a *App) toggleRecording() {
	if a.recording {
		a.saveGIF()
		a.recording = false
		a.frames = nil
		return
	}
	a.recording = true
	a.frames = a.frames[:0]
}

// capture rasterises the braille canvas into a 1-bit frame for the GIF.
func (a *App) capture() {
	const cellW, cellH = 8, 16
	dotW, dotH := cellW/2, cellH/4
	img := image.NewPaletted(
		image.Rect(0, 0, a.canvas.Width*cellW, a.canvas.Height*cellH),
		color.Palette{color.Black, color.White},
	)
	for row := 0; row < a.canvas.Height; row++ {
		for col := 0; col < a.canvas.Width; col++ {
			bits := a.canvas.Grid[row][col] - brailleBase
			if bits == 0 {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if bits&dotBits[dy][dx] == 0 {
						continue
					}
					baseX, baseY := col*cellW+dx*dotW, row*cellH+dy*dotH
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+px, baseY+py, 1)
						}
					}
				}
			}
		}
	}
	a.frames = append(a.frames, img)
}

func (a *App) saveGIF() {
	if len(a.frames) == 0 {
		return
	}
	anim := gif.GIF{}
	for _, frame := range a.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(a.sc.Name() + ".gif")
	if err != nil {
		return
	}
	defer f.Close()
	gif.EncodeAll(f, &anim)
}
