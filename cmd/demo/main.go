package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"shading-demo/core"
	"shading-demo/internal/opengl"
	"shading-demo/scene"
	"shading-demo/textures"
)

const (
	defaultFOV = 45.0
	minFOV     = 5.0
	maxFOV     = 179.0
	fovStep    = 5.0
	nearPlane  = 0.1
	farPlane   = 100.0

	normalSpeed = 5.0
	turboSpeed  = 50.0
)

// Runtime controls are keyboard-only; everything configurable lives here.
const (
	numCubes       = 10
	sceneSeed      = 0
	startupSamples = opengl.MSAASamples
	dataDir        = "data"
	cubeMeshFile   = "cube.glb" // optional, replaces the built-in cube when present
)

var (
	cameraEye    = mgl32.Vec3{-3, 3, -5}
	cameraTarget = mgl32.Vec3{0, 0, 0}
)

// mouseTracker turns absolute cursor positions into per-frame deltas
// while the right button is held.
type mouseTracker struct {
	prevX, prevY float64
	tracking     bool
}

func (m *mouseTracker) delta(x, y float64, active bool) mgl32.Vec2 {
	if !active {
		m.tracking = false
		return mgl32.Vec2{}
	}
	if !m.tracking {
		m.prevX, m.prevY = x, y
		m.tracking = true
		return mgl32.Vec2{}
	}
	d := mgl32.Vec2{float32(x - m.prevX), float32(y - m.prevY)}
	m.prevX, m.prevY = x, y
	return d
}

type app struct {
	window   *core.Window
	camera   *scene.Camera
	world    *scene.Scene
	renderer *opengl.Renderer
	texman   *textures.Manager

	floorMesh *scene.Mesh
	cubeMesh  *scene.Mesh

	fov       float32
	vsync     bool
	depthTest bool
	cullFace  bool
	wireframe bool
	tonemap   bool
	showStats bool

	mouse mouseTracker
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	window, err := core.NewWindow(core.DefaultWindowConfig())
	if err != nil {
		return err
	}
	defer window.Destroy()

	width, height := window.GetFramebufferSize()
	renderer, err := opengl.NewRenderer(width, height, startupSamples)
	if err != nil {
		return err
	}
	defer renderer.Destroy()

	world, err := scene.NewScene(numCubes, sceneSeed)
	if err != nil {
		return err
	}

	a := &app{
		window:    window,
		camera:    scene.NewCamera(),
		world:     world,
		renderer:  renderer,
		texman:    textures.NewManager(),
		floorMesh: scene.CreateQuad(),
		cubeMesh:  scene.CreateCube(),
		fov:       defaultFOV,
		vsync:     true,
		depthTest: true,
		cullFace:  true,
		tonemap:   true,
	}

	if path := filepath.Join(dataDir, cubeMeshFile); fileExists(path) {
		mesh, err := scene.LoadGLTF(path)
		if err != nil {
			return err
		}
		fmt.Printf("loaded mesh %q from %s\n", mesh.Name, path)
		a.cubeMesh = mesh
	}

	if err := a.loadTextures(); err != nil {
		return err
	}

	a.camera.SetTransformation(cameraEye, cameraTarget, mgl32.Vec3{0, 1, 0})
	a.updateProjection()

	window.SetKeyCallback(a.onKey)
	window.SetResizeCallback(func(w, h int) {
		a.renderer.Resize(w, h)
		a.updateProjection()
	})

	prevTime := core.Time()
	for !window.ShouldClose() {
		window.PollEvents()

		now := core.Time()
		dt := float32(now - prevTime)
		prevTime = now

		a.processInput(dt)

		a.renderer.RenderFrame(a.camera, a.world, a.floorMesh, a.cubeMesh, opengl.RenderState{
			DepthTest: a.depthTest,
			CullFace:  a.cullFace,
			Wireframe: a.wireframe,
			Tonemap:   a.tonemap,
		})

		dtMS := float64(dt) * 1000
		fps := 0.0
		if dt > 0 {
			fps = 1 / float64(dt)
		}
		if a.showStats {
			a.renderer.DrawStats(fmt.Sprintf("dt = %.2fms, FPS = %.1f\ncubes: %d\nmsaa: %v  tonemap: %v",
				dtMS, fps, len(a.world.CubePositions), a.renderer.Multisample(), a.tonemap))
		}
		window.SetTitle(fmt.Sprintf("dt = %.2fms, FPS = %.1f", dtMS, fps))

		window.SwapBuffers()
	}

	return nil
}

// loadTextures fills every material role. File-backed textures fall back
// to flat procedural stand-ins when the data directory is missing.
func (a *app) loadTextures() error {
	flat := map[textures.Role]*textures.Texture{
		textures.RoleWhite:        textures.SingleColor("white", 255, 255, 255),
		textures.RoleGrey:         textures.SingleColor("grey", 127, 127, 127),
		textures.RoleBlue:         textures.SingleColor("blue", 127, 127, 255),
		textures.RoleCheckerBoard: textures.CheckerBoard(64, 8),
	}
	for role, tex := range flat {
		if err := a.renderer.SetTexture(role, tex); err != nil {
			return err
		}
	}

	files := map[textures.Role]struct {
		name string
		srgb bool
	}{
		textures.RoleDiffuse:   {"Terracotta_Tiles_002_Base_Color.jpg", true},
		textures.RoleNormal:    {"Terracotta_Tiles_002_Normal.jpg", false},
		textures.RoleSpecular:  {"Terracotta_Tiles_002_Roughness.jpg", false},
		textures.RoleOcclusion: {"Terracotta_Tiles_002_ambientOcclusion.jpg", false},
	}
	fallback := map[textures.Role]*textures.Texture{
		textures.RoleDiffuse:   textures.SingleColor("diffuse fallback", 200, 100, 60),
		textures.RoleNormal:    textures.SingleColor("normal fallback", 127, 127, 255),
		textures.RoleSpecular:  textures.SingleColor("specular fallback", 127, 127, 127),
		textures.RoleOcclusion: flat[textures.RoleWhite],
	}
	for role, f := range files {
		tex, err := a.texman.Load(filepath.Join(dataDir, f.name), f.srgb)
		if err != nil {
			fmt.Printf("WARNING: %v, using flat %s\n", err, role)
			tex = fallback[role]
		}
		if err := a.renderer.SetTexture(role, tex); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) updateProjection() {
	w, h := a.window.GetFramebufferSize()
	if h == 0 {
		return
	}
	a.camera.SetProjection(a.fov, float32(w)/float32(h), nearPlane, farPlane)
}

func (a *app) setFOV(fov float32) {
	if fov < minFOV {
		fov = minFOV
	}
	if fov > maxFOV {
		fov = maxFOV
	}
	a.fov = fov
	a.updateProjection()
}

func (a *app) onKey(key int) {
	switch key {
	case core.KeyEscape:
		a.window.RequestClose()
	case core.KeyF1:
		a.renderer.SetMultisample(!a.renderer.Multisample())
	case core.KeyF2:
		a.wireframe = !a.wireframe
	case core.KeyF3:
		a.cullFace = !a.cullFace
	case core.KeyF4:
		a.depthTest = !a.depthTest
	case core.KeyF5:
		a.vsync = !a.vsync
		a.window.SetVSync(a.vsync)
	case core.KeyF6:
		a.tonemap = !a.tonemap
	case core.KeyF7:
		a.showStats = !a.showStats
	case core.KeyEqual, core.KeyKPAdd:
		a.setFOV(a.fov + fovStep)
	case core.KeyMinus, core.KeyKPSubtract:
		a.setFOV(a.fov - fovStep)
	case core.KeyBackspace:
		a.setFOV(defaultFOV)
	case core.KeyEnter:
		a.camera.SetTransformation(cameraEye, cameraTarget, mgl32.Vec3{0, 1, 0})
	}
}

// processInput polls the held-down movement keys and the mouse once per
// frame and feeds the camera.
func (a *app) processInput(dt float32) {
	dir := scene.MoveNone
	if a.window.IsKeyPressed(core.KeyW) {
		dir |= scene.MoveForward
	}
	if a.window.IsKeyPressed(core.KeyS) {
		dir |= scene.MoveBackward
	}
	if a.window.IsKeyPressed(core.KeyA) {
		dir |= scene.MoveLeft
	}
	if a.window.IsKeyPressed(core.KeyD) {
		dir |= scene.MoveRight
	}
	if a.window.IsKeyPressed(core.KeyR) {
		dir |= scene.MoveUp
	}
	if a.window.IsKeyPressed(core.KeyF) {
		dir |= scene.MoveDown
	}

	if a.window.IsKeyPressed(core.KeyLeftShift) {
		a.camera.SetMovementSpeed(turboSpeed)
	} else {
		a.camera.SetMovementSpeed(normalSpeed)
	}

	x, y := a.window.GetCursorPos()
	delta := a.mouse.delta(x, y, a.window.IsMouseButtonPressed(core.MouseButtonRight))

	a.camera.Move(dir, delta, dt)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
