package viz

import (
	"math"

	"github.com/san-kum/impulse/internal/particle"
)

// Camera orbits a target point and projects world space onto the canvas
// with a single perspective divide. Yaw spins around the world Y axis,
// pitch tilts toward a top-down view.
type Camera struct {
	Target   particle.Vec3
	Distance float64
	Yaw      float64
	Pitch    float64
	Zoom     float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 18, Pitch: 0.3, Zoom: 1.0}
}

// Orbit turns the camera around its target. Pitch is clamped short of the
// poles so the view never flips.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch += dPitch
	limit := math.Pi/2 - 0.05
	if c.Pitch > limit {
		c.Pitch = limit
	}
	if c.Pitch < -limit {
		c.Pitch = -limit
	}
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(8, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.02, c.Zoom/1.2) }

// view rotates a world point into camera space with the target at the
// origin.
func (c *Camera) view(p particle.Vec3) (x, y, z float64) {
	q := p.Sub(c.Target)
	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)
	x = q.X()*cy + q.Z()*sy
	z = -q.X()*sy + q.Z()*cy
	cp, sp := math.Cos(c.Pitch), math.Sin(c.Pitch)
	y = q.Y()*cp - z*sp
	z = q.Y()*sp + z*cp
	return x, y, z
}

// Project maps a world point to canvas dot coordinates. ok is false when
// the point sits at or behind the camera plane; points merely off screen
// stay ok and are clipped dot by dot while drawing.
func (c *Camera) Project(p particle.Vec3, pw, ph int) (sx, sy int, ok bool) {
	x, y, z := c.view(p)
	if z >= c.Distance-0.5 {
		return 0, 0, false
	}
	persp := c.Distance / (c.Distance - z)
	minDim := float64(ph)
	if float64(pw) < minDim {
		minDim = float64(pw)
	}
	unit := minDim / 3.0 * c.Zoom
	sx = pw/2 + int(x*persp*unit)
	sy = ph/2 - int(y*persp*unit)
	return sx, sy, true
}

type edge struct {
	a, b particle.Vec3
}

type marker struct {
	p particle.Vec3
	r int
}

// Wireframe accumulates one frame's worth of lines and body markers in
// world space. Reset and refill it every frame.
type Wireframe struct {
	edges   []edge
	markers []marker
}

func (w *Wireframe) Line(a, b particle.Vec3)  { w.edges = append(w.edges, edge{a, b}) }
func (w *Wireframe) Mark(p particle.Vec3, r int) {
	w.markers = append(w.markers, marker{p, r})
}
func (w *Wireframe) Dot(p particle.Vec3) { w.Mark(p, 0) }

func (w *Wireframe) Reset() {
	w.edges = w.edges[:0]
	w.markers = w.markers[:0]
}

// GridXZ adds a square reference grid in the horizontal plane, used for
// floors and water surfaces.
func (w *Wireframe) GridXZ(center particle.Vec3, half, step float64) {
	if step <= 0 || half <= 0 {
		return
	}
	y := center.Y()
	for d := -half; d <= half+1e-9; d += step {
		w.Line(
			particle.Vec3{center.X() - half, y, center.Z() + d},
			particle.Vec3{center.X() + half, y, center.Z() + d},
		)
		w.Line(
			particle.Vec3{center.X() + d, y, center.Z() - half},
			particle.Vec3{center.X() + d, y, center.Z() + half},
		)
	}
}

// Render projects the wireframe through cam and draws it. Lines with an
// endpoint behind the camera are skipped; endpoints far off screen are
// clamped so Bresenham stays bounded.
func Render(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	pw, ph := c.PixelWidth(), c.PixelHeight()
	for _, e := range w.edges {
		x1, y1, ok1 := cam.Project(e.a, pw, ph)
		x2, y2, ok2 := cam.Project(e.b, pw, ph)
		if !ok1 || !ok2 {
			continue
		}
		c.DrawLine(
			clampPixel(x1, pw), clampPixel(y1, ph),
			clampPixel(x2, pw), clampPixel(y2, ph),
		)
	}
	for _, m := range w.markers {
		x, y, ok := cam.Project(m.p, pw, ph)
		if !ok {
			continue
		}
		c.Blot(x, y, m.r)
	}
}

func clampPixel(v, dim int) int {
	if v < -dim {
		return -dim
	}
	if v > 2*dim {
		return 2 * dim
	}
	return v
}
