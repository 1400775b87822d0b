package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/impulse/internal/particle"
	"github.com/san-kum/impulse/internal/scene"
)

func rlVec(v particle.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v[0]), float32(v[1]), float32(v[2]))
}

// renderBodies draws every body as a grayscale sphere brightened by
// speed; immovable bodies are small fixed-gray markers.
func (a *App) renderBodies() {
	a.world.Bodies().Each(func(_ particle.Handle, b *particle.Body) bool {
		if !b.HasFiniteMass() {
			rl.DrawSphere(rlVec(b.Position), 0.25, rl.Gray)
			return true
		}

		speed := b.Velocity.Len()
		val := uint8(math.Min(100+speed*50, 255))
		rl.DrawSphere(rlVec(b.Position), 0.35, rl.NewColor(val, val, val, 255))

		if a.ShowVectors && speed > 0.01 {
			tip := b.Position.Add(b.Velocity.Mul(0.2))
			rl.DrawLine3D(rlVec(b.Position), rlVec(tip), rl.DarkGray)
		}
		return true
	})
}

func (a *App) renderTrails() {
	for _, trail := range a.trails {
		for i := 1; i < len(trail); i++ {
			alpha := float32(i) / float32(len(trail)) * 0.5
			rl.DrawLine3D(rlVec(trail[i-1]), rlVec(trail[i]), rl.Fade(ColAccent, alpha))
		}
	}
}

// renderFurniture draws the static dressing each scene needs to read:
// floors, anchors, water, link wireframes.
func (a *App) renderFurniture() {
	switch sc := a.sc.(type) {
	case *scene.Sandbox:
		a.groundGrid(10, 1.0, float32(sc.FloorHeight))
	case *scene.Ballistic:
		a.renderBallisticRange(sc)
	case *scene.Bungee:
		a.renderBungeeRig(sc)
	case *scene.Flotsam:
		a.renderWater(sc)
	case *scene.Bridge:
		a.renderBridgeLinks(sc)
	case *scene.Fireworks:
		a.groundGrid(16, 2.0, 0)
	default:
		a.groundGrid(10, 1.0, 0)
	}
}

// groundGrid is the in-Mode3D counterpart of CustomGrid.
func (a *App) groundGrid(slices int, spacing float32, height float32) {
	halfSize := float32(slices) * spacing / 2
	for i := -slices / 2; i <= slices/2; i++ {
		pos := float32(i) * spacing
		rl.DrawLine3D(rl.NewVector3(pos, height, -halfSize), rl.NewVector3(pos, height, halfSize), ColGrid)
		rl.DrawLine3D(rl.NewVector3(-halfSize, height, pos), rl.NewVector3(halfSize, height, pos), ColGrid)
	}
}

// renderBallisticRange marks the muzzle and rules the downrange strip
// out to the expiry distance.
func (a *App) renderBallisticRange(sc *scene.Ballistic) {
	muzzle := rlVec(sc.Muzzle())
	rl.DrawCube(muzzle, 0.6, 0.6, 1.2, rl.LightGray)
	rl.DrawLine3D(muzzle, rl.NewVector3(muzzle.X, 0, muzzle.Z), rl.Gray)

	far := float32(sc.MaxRange)
	for z := float32(0); z <= far; z += 20 {
		rl.DrawLine3D(rl.NewVector3(-4, 0, z), rl.NewVector3(4, 0, z), ColGrid)
	}
	rl.DrawLine3D(rl.NewVector3(-4, 0, 0), rl.NewVector3(-4, 0, far), ColGrid)
	rl.DrawLine3D(rl.NewVector3(4, 0, 0), rl.NewVector3(4, 0, far), ColGrid)
	rl.DrawLine3D(rl.NewVector3(-4, 0, far), rl.NewVector3(4, 0, far), rl.DarkGray)
}

func (a *App) renderBungeeRig(sc *scene.Bungee) {
	anchor, okA := a.world.Body(sc.Anchor())
	ball, okB := a.world.Body(sc.Ball())
	if okA && okB {
		rl.DrawCube(rlVec(anchor.Position), 0.8, 0.3, 0.8, rl.Gray)
		rl.DrawLine3D(rlVec(anchor.Position), rlVec(ball.Position), rl.LightGray)
	}
	a.groundGrid(10, 1.0, float32(sc.FloorHeight))
}

func (a *App) renderWater(sc *scene.Flotsam) {
	level := float32(sc.WaterHeight)
	rl.DrawPlane(rl.NewVector3(0, level, 0), rl.NewVector2(24, 24), rl.NewColor(40, 70, 110, 140))
	a.groundGrid(12, 2.0, level-3)
}

// renderBridgeLinks traces the deck's cables and rods between the bodies
// they join, and highlights the load.
func (a *App) renderBridgeLinks(sc *scene.Bridge) {
	bodies := a.world.Bodies()
	for _, src := range sc.Sources() {
		switch link := src.(type) {
		case *scene.Rod:
			pa, okA := bodies.Get(link.A)
			pb, okB := bodies.Get(link.B)
			if okA && okB {
				rl.DrawLine3D(rlVec(pa.Position), rlVec(pb.Position), rl.LightGray)
			}
		case *scene.Cable:
			pa, okA := bodies.Get(link.A)
			pb, okB := bodies.Get(link.B)
			if okA && okB {
				rl.DrawLine3D(rlVec(pa.Position), rlVec(pb.Position), rl.Gray)
			}
		case *scene.CableAnchor:
			pb, ok := bodies.Get(link.Body)
			if ok {
				rl.DrawSphere(rlVec(link.Anchor), 0.15, rl.Gray)
				rl.DrawLine3D(rlVec(link.Anchor), rlVec(pb.Position), rl.DarkGray)
			}
		}
	}

	if load, ok := bodies.Get(sc.Load()); ok {
		rl.DrawSphereWires(rlVec(load.Position), 0.5, 8, 8, rl.White)
	}

	a.groundGrid(12, 1.5, 0)
}
