package gui

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/impulse/internal/audio"
	"github.com/san-kum/impulse/internal/compute"
	"github.com/san-kum/impulse/internal/particle"
	"github.com/san-kum/impulse/internal/scene"
)

// Theme colors (monochrome, matching the terminal front end's mono theme)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
)

const (
	screenWidth  = 1280
	screenHeight = 720

	// stormName is the compute-backend cloud view; it lives outside the
	// scene registry.
	stormName  = "storm"
	stormCount = 65536

	maxTrail     = 40
	maxTelemetry = 200
)

// App is the raylib front end: a scene menu, a parameter screen, and a
// live 3D view. Scenes run on the handle-based world; the storm view
// keeps its cloud on the GPU through the compute package.
type App struct {
	registry *scene.Registry
	names    []string
	descs    map[string]string

	sc        scene.Scene
	world     *particle.World
	resolver  *particle.Resolver
	contacts  []particle.Contact
	SceneName string
	Time      float64
	Dt        float64

	Camera       rl.Camera3D
	CamPosTarget rl.Vector3
	CamTgtTarget rl.Vector3

	// CursorViz holds the mouse's world point on the z=0 plane; z>0
	// means the attractor is live this frame.
	CursorViz rl.Vector3

	Running  bool
	InMenu   bool
	InConfig bool
	Selected int
	quit     bool
	loadErr  error

	Params    map[string]float64
	ParamKeys []string
	ParamSel  int

	trails      map[particle.Handle][]particle.Vec3
	Telemetry   []float64
	ShowVectors bool

	Font  rl.Font
	Audio *audio.Processor

	UseCompute bool
	GLBackend  *compute.OpenGLBackend
}

// initWindow opens the 1280x720 window at 60 FPS with the default exit
// key disabled, so escape can navigate states instead of quitting.
func initWindow() {
	rl.InitWindow(screenWidth, screenHeight, "impulse")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp builds the application. With interactive false the named scene
// starts immediately; otherwise the app opens on the menu. The window
// must already exist.
func NewApp(registry *scene.Registry, startScene string, interactive bool) *App {
	names := append(registry.List(), stormName)

	descs := make(map[string]string, len(names))
	for _, name := range names {
		if name == stormName {
			descs[name] = "gpu particle cloud on the compute backend"
			continue
		}
		if sc, err := registry.Get(name); err == nil {
			descs[name] = sc.Description()
		}
	}

	proc := audio.NewProcessor()
	// no sound device is not fatal; the app just runs silent
	_ = proc.Start()

	app := &App{
		registry:    registry,
		names:       names,
		descs:       descs,
		Selected:    0,
		Camera:      defaultCamera(),
		Params:      make(map[string]float64),
		Font:        loadFont(),
		InMenu:      interactive,
		ShowVectors: true,
		Dt:          1.0 / 60.0,
		trails:      make(map[particle.Handle][]particle.Vec3),
		Audio:       proc,
	}
	app.CamPosTarget = app.Camera.Position
	app.CamTgtTarget = app.Camera.Target

	if !interactive {
		if err := app.prepare(startScene); err == nil {
			app.start()
		} else {
			app.loadErr = err
			app.InMenu = true
		}
	}

	return app
}

func defaultCamera() rl.Camera3D {
	return rl.NewCamera3D(
		rl.NewVector3(0, 5, 25),
		rl.NewVector3(0, 0, 0),
		rl.NewVector3(0, 1, 0),
		45.0,
		rl.CameraPerspective,
	)
}

// RunInteractive opens the window and runs the menu-driven app until it
// is closed.
func RunInteractive(registry *scene.Registry) {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp(registry, "", true)
	app.RunLoop()
}

// Run opens the window straight into the named scene.
func Run(registry *scene.Registry, sceneName string) {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp(registry, sceneName, false)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
	a.shutdown()
}

func (a *App) shutdown() {
	if a.Audio != nil {
		a.Audio.Stop()
	}
	if a.GLBackend != nil {
		a.GLBackend.Cleanup()
		a.GLBackend = nil
	}
}

// prepare selects a view: it builds the scene instance and its parameter
// table but no world yet, so the config screen edits defaults before
// anything runs.
func (a *App) prepare(name string) error {
	a.loadErr = nil
	a.UseCompute = name == stormName
	a.SceneName = name

	if a.UseCompute {
		a.sc = nil
		a.Params = map[string]float64{"swirl": 60, "drag": 0.12}
	} else {
		sc, err := a.registry.Get(name)
		if err != nil {
			return err
		}
		a.sc = sc
		if cfg, ok := sc.(scene.Configurable); ok {
			a.Params = cfg.GetParams()
		} else {
			a.Params = make(map[string]float64)
		}
	}

	a.ParamKeys = make([]string, 0, len(a.Params))
	for k := range a.Params {
		a.ParamKeys = append(a.ParamKeys, k)
	}
	sort.Strings(a.ParamKeys)
	a.ParamSel = 0
	return nil
}

// start applies the edited parameters and builds a fresh run: a new
// world for scenes, a fresh GPU cloud for the storm. Reset reuses it.
func (a *App) start() {
	a.Time = 0
	a.Telemetry = a.Telemetry[:0]
	a.trails = make(map[particle.Handle][]particle.Vec3)
	a.loadErr = nil

	if a.UseCompute {
		a.startStorm()
	} else {
		a.startScene()
	}

	a.CamPosTarget = a.Camera.Position
	a.CamTgtTarget = a.Camera.Target
	a.InMenu = false
	a.InConfig = false
}

func (a *App) startScene() {
	if cfg, ok := a.sc.(scene.Configurable); ok {
		for k, v := range a.Params {
			// unknown keys cannot happen; the table came from GetParams
			_ = cfg.SetParam(k, v)
		}
	}

	a.world = particle.NewWorld()
	if err := a.sc.Setup(a.world); err != nil {
		a.loadErr = err
		a.Running = false
		a.InMenu = true
		return
	}
	a.resolver = particle.NewResolver(1)
	a.contacts = a.contacts[:0]
	a.frameCamera()
	a.Running = true
}

func (a *App) startStorm() {
	if a.GLBackend != nil {
		a.GLBackend.Cleanup()
	}
	a.GLBackend = compute.NewOpenGLBackend(stormCount)

	if err := a.GLBackend.Init("assets/shaders/storm.comp", stormCloud(stormCount)); err != nil {
		a.loadErr = fmt.Errorf("storm init: %w", err)
		a.GLBackend = nil
		a.Running = false
		a.InMenu = true
		return
	}
	if err := a.GLBackend.InitRender("assets/shaders/particle.vert", "assets/shaders/particle.frag"); err != nil {
		a.loadErr = fmt.Errorf("storm render: %w", err)
		a.GLBackend.Cleanup()
		a.GLBackend = nil
		a.Running = false
		a.InMenu = true
		return
	}

	a.Camera.Position = rl.NewVector3(0, 140, 320)
	a.Camera.Target = rl.NewVector3(0, 40, 0)
	a.Running = true
}

// stormCloud seeds the vortex: particles on a disc around the y axis
// with tangential velocity, packed as two vec4s each.
func stormCloud(n int) []float32 {
	data := make([]float32, n*8)
	for i := 0; i < n; i++ {
		r := 20.0 + rand.Float64()*120.0
		theta := rand.Float64() * 2 * math.Pi
		height := rand.Float64() * 80.0

		px := r * math.Cos(theta)
		pz := r * math.Sin(theta)

		speed := 12.0 + rand.Float64()*8.0
		vx := -speed * math.Sin(theta)
		vz := speed * math.Cos(theta)

		data[i*8+0] = float32(px)
		data[i*8+1] = float32(height)
		data[i*8+2] = float32(pz)
		data[i*8+3] = 1.0

		data[i*8+4] = float32(vx)
		data[i*8+5] = 0
		data[i*8+6] = float32(vz)
		data[i*8+7] = 0
	}
	return data
}

// frameCamera places the camera where each scene reads best.
func (a *App) frameCamera() {
	switch sc := a.sc.(type) {
	case *scene.Ballistic:
		mid := sc.MaxRange / 2
		a.Camera.Position = rl.NewVector3(120, 50, float32(mid))
		a.Camera.Target = rl.NewVector3(0, 10, float32(mid))
	case *scene.Bungee:
		a.Camera.Position = rl.NewVector3(8, 6, 16)
		a.Camera.Target = rl.NewVector3(0, 3, 0)
	case *scene.Bridge:
		a.Camera.Position = rl.NewVector3(10, 8, 16)
		a.Camera.Target = rl.NewVector3(0, 3, 0)
	case *scene.Fireworks:
		a.Camera.Position = rl.NewVector3(30, 22, 45)
		a.Camera.Target = rl.NewVector3(0, 12, 0)
	case *scene.Flotsam:
		a.Camera.Position = rl.NewVector3(12, 8, 20)
		a.Camera.Target = rl.NewVector3(0, float32(sc.WaterHeight), 0)
	default:
		a.Camera.Position = rl.NewVector3(6, 3, 14)
		a.Camera.Target = rl.NewVector3(0, -1, 0)
	}
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
		return
	}

	if a.InMenu {
		a.updateMenu()
		return
	}
	if a.InConfig {
		a.updateConfig()
		return
	}
	a.updateSim()
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected++
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected--
	}
	if a.Selected >= len(a.names) {
		a.Selected = 0
	}
	if a.Selected < 0 {
		a.Selected = len(a.names) - 1
	}

	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		if err := a.prepare(a.names[a.Selected]); err != nil {
			a.loadErr = err
			return
		}
		a.InMenu = false
		a.InConfig = true
		a.Running = false
	}
}

func (a *App) updateConfig() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		a.InConfig = false
		return
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		a.start()
		return
	}

	if len(a.ParamKeys) == 0 {
		return
	}

	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.ParamSel = (a.ParamSel + 1) % len(a.ParamKeys)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.ParamSel--
		if a.ParamSel < 0 {
			a.ParamSel = len(a.ParamKeys) - 1
		}
	}

	key := a.ParamKeys[a.ParamSel]
	step := 0.1
	if rl.IsKeyDown(rl.KeyLeftShift) {
		step = 1.0
	}
	if rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyL) {
		a.Params[key] += step
	}
	if rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyH) {
		a.Params[key] -= step
	}
}

func (a *App) updateSim() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		a.Running = false
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.start()
		return
	}
	if rl.IsKeyPressed(rl.KeyV) {
		a.ShowVectors = !a.ShowVectors
	}

	if b, ok := a.sc.(*scene.Ballistic); ok {
		if rl.IsKeyPressed(rl.KeyF) && a.Running {
			b.Fire(a.world, a.Time)
		}
		for i, k := range []int32{rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour} {
			if rl.IsKeyPressed(k) {
				_ = b.SetParam("ammo", float64(i))
			}
		}
	}

	worldX, worldY, strength := a.mouseAttractor()
	a.updateCamera()

	if a.UseCompute {
		a.stepStorm(worldX, worldY, strength)
		return
	}
	a.stepScene(worldX, worldY, strength)
}

// mouseAttractor casts the mouse ray onto the z=0 plane. Left button
// attracts, right repels.
func (a *App) mouseAttractor() (worldX, worldY, strength float64) {
	ray := rl.GetMouseRay(rl.GetMousePosition(), a.Camera)
	a.CursorViz.Z = 0

	if ray.Direction.Z == 0 {
		return 0, 0, 0
	}
	t := -ray.Position.Z / ray.Direction.Z
	if t <= 0 {
		return 0, 0, 0
	}

	worldX = float64(ray.Position.X + t*ray.Direction.X)
	worldY = float64(ray.Position.Y + t*ray.Direction.Y)

	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		strength = 50.0
	} else if rl.IsMouseButtonDown(rl.MouseRightButton) {
		strength = -50.0
	}

	if strength != 0 {
		a.CursorViz = rl.NewVector3(float32(worldX), float32(worldY), 1.0)
	}
	return worldX, worldY, strength
}

func (a *App) updateCamera() {
	if rl.IsKeyDown(rl.KeyW) {
		a.CamPosTarget.Y += 0.5
	}
	if rl.IsKeyDown(rl.KeyS) {
		a.CamPosTarget.Y -= 0.5
	}
	if rl.IsKeyDown(rl.KeyA) {
		a.CamPosTarget.X -= 0.5
	}
	if rl.IsKeyDown(rl.KeyD) {
		a.CamPosTarget.X += 0.5
	}

	// middle drag pans; right drag stays free for the repulsor
	if rl.IsMouseButtonDown(rl.MouseMiddleButton) {
		delta := rl.GetMouseDelta()
		a.CamPosTarget.X -= delta.X * 0.2
		a.CamPosTarget.Y += delta.Y * 0.2
	}

	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		zoom := float32(wheel) * 3.0
		diff := rl.Vector3Subtract(a.CamTgtTarget, a.CamPosTarget)
		dist := rl.Vector3Length(diff)
		if dist > 5.0 || zoom < 0 {
			dir := rl.Vector3Normalize(diff)
			a.CamPosTarget = rl.Vector3Add(a.CamPosTarget, rl.Vector3Scale(dir, zoom))
		}
	}

	// inertia: inputs move targets, the camera eases after them
	lerp := float32(5.0 * a.Dt)
	if lerp > 1.0 {
		lerp = 1.0
	}
	a.Camera.Position = rl.Vector3Lerp(a.Camera.Position, a.CamPosTarget, lerp)
	a.Camera.Target = rl.Vector3Lerp(a.Camera.Target, a.CamTgtTarget, lerp)
}

func (a *App) stepStorm(worldX, worldY, strength float64) {
	if !a.Running || a.GLBackend == nil {
		return
	}

	active := float32(0)
	if strength != 0 {
		active = 1
	}
	a.GLBackend.Step(
		float32(a.Dt),
		0.999,
		[3]float32{0, -9.8, 0},
		float32(a.Params["drag"]), 0.002,
		float32(a.Params["swirl"]),
		[4]float32{float32(worldX), float32(worldY), float32(strength), active},
	)
	a.Time += a.Dt

	// the cloud never comes back to the host, so feed the filter a
	// steady stand-in energy
	if a.Audio != nil && a.Audio.Active {
		a.Audio.UpdateEnergy(300)
	}
}

func (a *App) stepScene(worldX, worldY, strength float64) {
	if !a.Running {
		return
	}

	a.sc.Update(a.world, a.Time, a.Dt)

	if strength != 0 {
		a.applyMouseForce(worldX, worldY, strength)
	}

	if err := a.world.Tick(a.Dt); err != nil {
		a.loadErr = err
		a.Running = false
		return
	}

	a.contacts = a.sc.Contacts(a.world, a.contacts[:0])
	if len(a.contacts) > 0 {
		if a.Audio != nil && a.Audio.Active {
			for i := range a.contacts {
				if sv, ok := a.contacts[i].SeparatingVelocity(a.world.Bodies()); ok && sv < 0 {
					a.Audio.OnContact(-sv)
				}
			}
		}
		a.resolver.SetIterations(2 * len(a.contacts))
		a.resolver.ResolveContacts(a.contacts, a.Dt, a.world.Bodies())
	}

	a.Time += a.Dt
	a.recordFrame()
}

// applyMouseForce pulls every finite-mass body toward the cursor point
// with an inverse-square falloff, scaled by mass so everything feels the
// same acceleration.
func (a *App) applyMouseForce(worldX, worldY, strength float64) {
	target := particle.Vec3{worldX, worldY, 0}
	a.world.Bodies().Each(func(_ particle.Handle, b *particle.Body) bool {
		if !b.HasFiniteMass() {
			return true
		}
		d := target.Sub(b.Position)
		r2 := d.Dot(d) + 25.0
		b.AddForce(d.Mul(strength * b.Mass() / (r2 * math.Sqrt(r2))))
		return true
	})
}

// recordFrame updates trails, telemetry and the audio energy feed.
func (a *App) recordFrame() {
	energy := 0.0
	a.world.Bodies().Each(func(h particle.Handle, b *particle.Body) bool {
		energy += b.KineticEnergy()

		trail := append(a.trails[h], b.Position)
		if len(trail) > maxTrail {
			trail = trail[1:]
		}
		a.trails[h] = trail
		return true
	})

	for h := range a.trails {
		if !a.world.Bodies().Contains(h) {
			delete(a.trails, h)
		}
	}

	a.Telemetry = append(a.Telemetry, energy)
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}

	if a.Audio != nil && a.Audio.Active {
		a.Audio.UpdateEnergy(energy)
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else if a.InConfig {
		a.drawConfig()
	} else {
		a.drawSim()
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) drawSim() {
	if a.UseCompute {
		a.CustomGrid(30, 12.0, 0)
		if a.GLBackend != nil {
			a.GLBackend.Draw(a.viewProj())
		}
		return
	}

	rl.BeginMode3D(a.Camera)

	a.renderFurniture()
	a.renderTrails()
	a.renderBodies()

	if a.CursorViz.Z > 0 {
		pos := rl.NewVector3(a.CursorViz.X, a.CursorViz.Y, 0)
		rl.DrawCircle3D(pos, 2.0, rl.NewVector3(0, 0, 1), 0, rl.NewColor(255, 255, 255, 100))
		rl.DrawCircle3D(pos, 5.0, rl.NewVector3(0, 0, 1), 0, rl.NewColor(255, 255, 255, 50))
	}

	rl.EndMode3D()
}

// viewProj builds the column-major matrix the GPU cloud renders under,
// matching the raylib camera.
func (a *App) viewProj() [16]float32 {
	view := mgl32.LookAtV(
		mgl32.Vec3{a.Camera.Position.X, a.Camera.Position.Y, a.Camera.Position.Z},
		mgl32.Vec3{a.Camera.Target.X, a.Camera.Target.Y, a.Camera.Target.Z},
		mgl32.Vec3{0, 1, 0},
	)
	proj := mgl32.Perspective(mgl32.DegToRad(45), float32(screenWidth)/float32(screenHeight), 0.1, 4000)
	return [16]float32(proj.Mul4(view))
}

// CustomGrid draws grid lines on the y=height plane inside its own 3D
// block.
func (a *App) CustomGrid(slices int, spacing float32, height float32) {
	halfSize := float32(slices) * spacing / 2
	rl.BeginMode3D(a.Camera)
	for i := -slices / 2; i <= slices/2; i++ {
		pos := float32(i) * spacing
		rl.DrawLine3D(rl.NewVector3(pos, height, -halfSize), rl.NewVector3(pos, height, halfSize), ColGrid)
		rl.DrawLine3D(rl.NewVector3(-halfSize, height, pos), rl.NewVector3(halfSize, height, pos), ColGrid)
	}
	rl.EndMode3D()
}

func (a *App) DrawHUD() {
	a.drawText("impulse", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.SceneName), 150, 34, 16, ColText)

	a.DrawTelemetry()

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	a.drawText(status, 1150, 30, 16, col)

	if !a.UseCompute && a.world != nil {
		a.drawText(fmt.Sprintf("t %6.2fs   bodies %d   contacts %d", a.Time, a.world.BodyCount(), len(a.contacts)), 30, 60, 14, ColText)
	}
	if b, ok := a.sc.(*scene.Ballistic); ok {
		a.drawText(fmt.Sprintf("ammo [1-4]: %s   [F] fire   in flight %d", b.Ammo, b.Rounds()), 30, 80, 14, ColAccent)
	}
	if a.loadErr != nil {
		a.drawText(fmt.Sprintf("error: %v", a.loadErr), 30, 100, 14, rl.Red)
	}

	a.drawText("[SPACE] PAUSE  [R] RESET  [V] VECTORS  [LMB] PULL  [RMB] PUSH  [ESC] MENU  [Q] QUIT", 560, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, ColTextDim)

	if a.Audio != nil && a.Audio.Active {
		a.drawText("SND [ON]", 30, 650, 14, ColAccent)
	} else {
		a.drawText("SND [off]", 30, 650, 14, ColTextDim)
	}
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 600
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("E %.2f", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) drawMenu() {
	a.drawText("impulse", 50, 50, 40, ColSelect)
	a.drawText("Select Scene", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.names {
		if i == a.Selected {
			a.drawText(fmt.Sprintf("> %s", name), 50, y, 20, ColSelect)
			a.drawText(a.descs[name], 320, y+3, 14, ColText)
		} else {
			a.drawText(fmt.Sprintf("  %s", name), 50, y, 20, ColText)
		}
		y += 28
	}

	if a.loadErr != nil {
		a.drawText(fmt.Sprintf("error: %v", a.loadErr), 50, y+20, 14, rl.Red)
	}

	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 850, 680, 14, ColTextDim)
}

func (a *App) drawConfig() {
	a.drawText("impulse", 50, 50, 40, ColTextDim)
	a.drawText("configure", 230, 65, 20, ColSelect)
	a.drawText(fmt.Sprintf("Scene: %s", a.SceneName), 50, 110, 16, ColAccent)

	y := 180
	if len(a.ParamKeys) == 0 {
		a.drawText("No configurable parameters.", 50, y, 16, ColTextDim)
	} else {
		for i, key := range a.ParamKeys {
			val := a.Params[key]
			if i == a.ParamSel {
				a.drawText(fmt.Sprintf("> %-15s %.2f", key, val), 50, y, 20, ColSelect)
			} else {
				a.drawText(fmt.Sprintf("  %-15s %.2f", key, val), 50, y, 20, ColText)
			}
			y += 28
		}
	}

	a.drawText("ARROWS: ADJUST  ENTER: RUN  ESC: BACK", 880, 680, 14, ColTextDim)
}
