package main

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/ecs/entity"
	"github.com/milk9111/platformer/ecs/system"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/obj"
	"github.com/milk9111/platformer/prefabs"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	tileSize   = 40
)

type Game struct {
	frames int

	world    *ecs.World
	pipeline *system.Pipeline
	level    *obj.CollisionWorld
	player   ecs.Entity

	levelName  string
	scriptName string
	specName   string
	watcher    *prefabs.Watcher

	hud   *animationHUD
	cam   camera
	face  text.Face
	debug bool
}

func NewGame(levelName, scriptName, specName string, debug bool) (*Game, error) {
	lvl, err := levels.Load(levelName)
	if err != nil {
		return nil, err
	}
	spec, err := prefabs.LoadPlayerSpecFile(specName)
	if err != nil {
		return nil, err
	}
	source, err := loadInputSource(scriptName)
	if err != nil {
		return nil, err
	}

	g := &Game{
		world:      ecs.NewWorld(),
		level:      obj.NewCollisionWorld(lvl),
		levelName:  levelName,
		scriptName: scriptName,
		specName:   specName,
		hud:        &animationHUD{},
		cam:        camera{zoom: tileSize, height: baseHeight},
		face:       text.NewGoXFace(basicfont.Face7x13),
		debug:      debug,
	}

	g.player, err = entity.NewPlayerAt(g.world, spec, g.level)
	if err != nil {
		return nil, err
	}

	g.pipeline = system.NewPipeline(source, g.level, g.hud, common.FixedDelta)
	g.pipeline.Register(g.world)
	g.world.AddSystem(ecs.SystemFunc(g.logEvents))

	g.watcher = watchPrefabs()
	return g, nil
}

func loadInputSource(scriptName string) (system.InputSource, error) {
	if scriptName == "" {
		return KeyboardInput{}, nil
	}
	src, err := prefabs.LoadScript(scriptName)
	if err != nil {
		return nil, err
	}
	return system.NewScriptInputSource(scriptName, src, common.FixedDelta)
}

// watchPrefabs watches the on-disk prefab directories for hot reload. It
// returns nil when running from a directory without them.
func watchPrefabs() *prefabs.Watcher {
	var dirs []string
	for _, dir := range []string{"prefabs", filepath.Join("prefabs", "scripts")} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return nil
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		log.Printf("hot reload disabled: %v", err)
		return nil
	}
	return w
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		_ = ecs.Add(g.world, g.player, component.RespawnRequestComponent, component.RespawnRequest{Reason: "manual"})
	}

	g.pollReloads()
	g.world.Update()

	if body, ok := ecs.Get(g.world, g.player, component.KinematicBodyComponent); ok {
		g.cam.follow(body.Position, g.level.Bounds(), baseWidth)
	}
	return nil
}

func (g *Game) pollReloads() {
	for g.watcher != nil {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(path)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("hot reload: %v", err)
		default:
			return
		}
	}
}

func (g *Game) reload(path string) {
	switch {
	case prefabs.IsSpec(path, g.specName):
		spec, err := prefabs.LoadPlayerSpecFile(g.specName)
		if err != nil {
			log.Printf("reload %s: %v", path, err)
			return
		}
		if err := entity.ApplySpec(g.world, g.player, spec); err != nil {
			log.Printf("reload %s: %v", path, err)
			return
		}
		log.Printf("reloaded %s", path)
	case g.scriptName != "" && strings.TrimSuffix(filepath.Base(path), ".tengo") == filepath.Base(g.scriptName):
		source, err := loadInputSource(g.scriptName)
		if err != nil {
			log.Printf("reload %s: %v", path, err)
			return
		}
		g.pipeline.Input.SetSource(source)
		log.Printf("reloaded %s", path)
	}
}

func (g *Game) logEvents(w *ecs.World) {
	for _, evt := range w.Events().Drain() {
		if !g.debug {
			continue
		}
		switch e := evt.Data.(type) {
		case ecs.ContactEvent:
			log.Printf("tick %d: %v %s", e.Tick, e.Entity, e.Kind)
		case ecs.RespawnEvent:
			log.Printf("tick %d: %v respawned (%s)", e.Tick, e.Entity, e.Reason)
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	for _, solid := range g.level.Solids() {
		switch {
		case solid.Sensor:
			strokePolygon(screen, g.cam, solid.Verts, colornames.Crimson)
		case solid.Kind == levels.TileSolid && len(solid.Verts) == 4:
			fillBox(screen, g.cam, boxOf(solid.Verts), colornames.Slategray)
		default:
			strokePolygon(screen, g.cam, solid.Verts, colornames.Lightslategray)
		}
	}

	g.drawPlayer(screen)

	if g.debug {
		drawPhysicsDebug(g.level.Space(), g.cam, screen)
		g.drawDebugText(screen)
	}

	label := fmt.Sprintf("level: %s", g.levelName)
	if g.scriptName != "" {
		label += fmt.Sprintf("   script: %s", g.scriptName)
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(baseWidth-360, 10)
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, label, g.face, op)
}

func (g *Game) drawPlayer(screen *ebiten.Image) {
	body, ok := ecs.Get(g.world, g.player, component.KinematicBodyComponent)
	if !ok {
		return
	}
	shape, _ := ecs.Get(g.world, g.player, component.ColliderComponent)
	half := shape.HalfExtents()
	bb := cp.BB{L: body.Position.X - half.X, B: body.Position.Y - half.Y, R: body.Position.X + half.X, T: body.Position.Y + half.Y}

	signal := g.hud.last
	var fill color.Color = colornames.Crimson
	switch {
	case signal.Attack:
		fill = colornames.White
	case signal.Slide:
		fill = colornames.Orange
	case signal.Hang:
		fill = colornames.Lightskyblue
	}
	fillBox(screen, g.cam, bb, fill)

	// facing marker
	eye := cp.Vector{X: body.Position.X + half.X*0.5, Y: body.Position.Y + half.Y*0.5}
	if signal.FacingLeft {
		eye.X = body.Position.X - half.X*0.5
	}
	fillBox(screen, g.cam, cp.NewBBForExtents(eye, 0.08, 0.08), colornames.Black)

	if g.debug && body.Grounded {
		drawContactNormal(screen, g.cam, cp.Vector{X: body.Position.X, Y: body.Position.Y - half.Y}, body.GroundNormal)
	}
}

func (g *Game) drawDebugText(screen *ebiten.Image) {
	body, _ := ecs.Get(g.world, g.player, component.KinematicBodyComponent)
	state, _ := ecs.Get(g.world, g.player, component.ControlStateComponent)
	signal := g.hud.last

	msg := fmt.Sprintf(
		"FPS: %.1f  tick: %d\npos: (%.3f, %.3f)  vel: (%.3f, %.3f)\ngrounded: %v  wall: %s  normal: (%.2f, %.2f)\n"+
			"coyote: %.3f  buffer: %.3f  stick: %.3f  freeze: %.3f\nspeed: %.2f  hang: %v  slide: %v  attack: %v",
		ebiten.ActualFPS(), g.world.Tick(),
		body.Position.X, body.Position.Y, body.Velocity.X, body.Velocity.Y,
		body.Grounded, body.Wall, body.GroundNormal.X, body.GroundNormal.Y,
		state.CoyoteTimer, state.JumpBufferTimer, state.WallStickTimer, state.Freeze.Timer,
		signal.Speed, signal.Hang, signal.Slide, signal.Attack,
	)
	ebitenutil.DebugPrintAt(screen, msg, 10, 10)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// animationHUD keeps the latest animation signal for drawing.
type animationHUD struct {
	last component.AnimationSignal
}

func (h *animationHUD) ReceiveAnimation(id uint64, signal component.AnimationSignal) {
	h.last = signal
}

func boxOf(verts []cp.Vector) cp.BB {
	bb := cp.BB{L: verts[0].X, B: verts[0].Y, R: verts[0].X, T: verts[0].Y}
	for _, v := range verts[1:] {
		bb = bb.Expand(v)
	}
	return bb
}
