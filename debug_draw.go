package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 0.1
)

// camera maps y-up world units to screen pixels.
type camera struct {
	x, y   float64 // world position of the screen's bottom-left corner
	zoom   float64 // pixels per unit
	height float64 // screen height in pixels
}

func (c camera) toScreen(v cp.Vector) (float32, float32) {
	return float32((v.X - c.x) * c.zoom), float32(c.height - (v.Y-c.y)*c.zoom)
}

// follow centres the camera on target, clamped to bounds when the level is
// larger than the screen.
func (c *camera) follow(target cp.Vector, bounds cp.BB, width float64) {
	viewW, viewH := width/c.zoom, c.height/c.zoom
	c.x = clampView(target.X-viewW/2, bounds.L, bounds.R, viewW)
	c.y = clampView(target.Y-viewH/2, bounds.B, bounds.T, viewH)
}

func clampView(v, lo, hi, size float64) float64 {
	if hi-lo <= size {
		return lo - (size-(hi-lo))/2
	}
	return math.Max(lo, math.Min(v, hi-size))
}

// physicsDebugDrawer draws a cp space as outlines.
type physicsDebugDrawer struct {
	screen *ebiten.Image
	cam    camera
}

func drawPhysicsDebug(space *cp.Space, cam camera, screen *ebiten.Image) {
	if space == nil || screen == nil {
		return
	}
	cp.DrawSpace(space, &physicsDebugDrawer{screen: screen, cam: cam})
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	half := debugDotSize / 2
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape.Sensor() {
		return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
	}
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	strokeLine(d.screen, d.cam, a, b, toNRGBA(c))
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	strokePolygon(d.screen, d.cam, verts, toNRGBA(c))
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

func strokeLine(screen *ebiten.Image, cam camera, a, b cp.Vector, c color.Color) {
	x1, y1 := cam.toScreen(a)
	x2, y2 := cam.toScreen(b)
	vector.StrokeLine(screen, x1, y1, x2, y2, 1, c, true)
}

func strokePolygon(screen *ebiten.Image, cam camera, verts []cp.Vector, c color.Color) {
	for i := range verts {
		strokeLine(screen, cam, verts[i], verts[(i+1)%len(verts)], c)
	}
}

// fillBox draws a world-space box.
func fillBox(screen *ebiten.Image, cam camera, bb cp.BB, c color.Color) {
	x, y := cam.toScreen(cp.Vector{X: bb.L, Y: bb.T})
	w := float32((bb.R - bb.L) * cam.zoom)
	h := float32((bb.T - bb.B) * cam.zoom)
	vector.FillRect(screen, x, y, w, h, c, false)
}

// drawContactNormal marks the ground normal under a body.
func drawContactNormal(screen *ebiten.Image, cam camera, foot, normal cp.Vector) {
	strokeLine(screen, cam, foot, foot.Add(normal.Mult(0.5)), colornames.Yellow)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
