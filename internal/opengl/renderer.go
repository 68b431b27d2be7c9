package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"shading-demo/core"
	"shading-demo/scene"
	"shading-demo/textures"
)

// expectedUBOSize is the minimum uniform block capacity the instancing
// buffer needs: a driver below this cannot hold the instance array.
const expectedUBOSize = 4096 * 4 * 4

// floorScale is the floor quad's model transform.
var floorScale = mgl32.Scale3D(30, 1, 30)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
}

// RenderState is the per-frame toggle set. The flags are independent and
// persist across frames; they change only on discrete user key events.
// Multisampling is the fourth toggle but lives on the renderer itself
// (SetMultisample), since flipping it reallocates the render target.
type RenderState struct {
	DepthTest bool
	CullFace  bool
	Wireframe bool
	Tonemap   bool
}

// Renderer owns every GL object of the demo and sequences one frame's
// draws. Single-threaded by construction: the goroutine that created the
// context is the only one allowed to call into it.
type Renderer struct {
	programs   *Programs
	fb         *Framebuffer
	transforms *TransformUBO
	instances  *InstanceBuffer
	samplers   *Samplers

	// General-purpose VAO for attributeless draws (light point,
	// fullscreen tonemap triangle).
	emptyVAO uint32

	width  int
	height int

	Exposure float32

	roleTex map[textures.Role]*textures.Texture
	meshes  map[*scene.Mesh]*GPUMesh

	// Cached uniform locations.
	defaultModelLoc   int32
	defaultLightLoc   int32
	defaultViewPosLoc int32
	instLightLoc      int32
	instViewPosLoc    int32
	pointPosLoc       int32
	pointColorLoc     int32
	toneSamplesLoc    int32
	toneExposureLoc   int32

	overlay     *Overlay
	overlayDead bool
}

// NewRenderer initialises OpenGL, compiles the fixed program set and
// allocates the frame resources. Must be called after the window context
// is made current. All failures here are fatal initialization errors;
// partially acquired resources are released before returning.
func NewRenderer(width, height, samples int) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	fmt.Printf("OpenGL version: %s\n", gl.GoStr(gl.GetString(gl.VERSION)))

	// Capability check: the instance array must fit in one uniform block.
	var maxUBOSize int32
	gl.GetIntegerv(gl.MAX_UNIFORM_BLOCK_SIZE, &maxUBOSize)
	if maxUBOSize < expectedUBOSize {
		return nil, fmt.Errorf("max uniform block size %d B is below the required %d B", maxUBOSize, expectedUBOSize)
	}

	programs, err := CompilePrograms()
	if err != nil {
		return nil, err
	}

	// The transform block layout is packed CPU-side; make sure the driver
	// placed the members where the packing assumes instead of trusting it.
	for _, sp := range []ShaderProgram{Default, Instancing, PointRendering} {
		if err := VerifyTransformBlockOffsets(programs.ID(sp)); err != nil {
			programs.Destroy()
			return nil, fmt.Errorf("%s program: %w", sp, err)
		}
	}

	fb, err := CreateFramebuffer(width, height, samples)
	if err != nil {
		programs.Destroy()
		return nil, err
	}

	transforms, err := NewTransformUBO(programs)
	if err != nil {
		fb.Destroy()
		programs.Destroy()
		return nil, err
	}

	instances, err := NewInstanceBuffer(programs.ID(Instancing))
	if err != nil {
		transforms.Destroy()
		fb.Destroy()
		programs.Destroy()
		return nil, err
	}

	r := &Renderer{
		programs:   programs,
		fb:         fb,
		transforms: transforms,
		instances:  instances,
		samplers:   CreateSamplers(),
		width:      width,
		height:     height,
		Exposure:   1.0,
		roleTex:    make(map[textures.Role]*textures.Texture),
		meshes:     make(map[*scene.Mesh]*GPUMesh),
	}
	gl.GenVertexArrays(1, &r.emptyVAO)

	r.cacheUniformLocations()

	// Fixed global state, matching the initial toggle values.
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.FRAMEBUFFER_SRGB)
	gl.Viewport(0, 0, int32(width), int32(height))

	return r, nil
}

func (r *Renderer) cacheUniformLocations() {
	defProg := r.programs.ID(Default)
	r.defaultModelLoc = gl.GetUniformLocation(defProg, gl.Str("modelToWorld\x00"))
	r.defaultLightLoc = gl.GetUniformLocation(defProg, gl.Str("lightPosWS\x00"))
	r.defaultViewPosLoc = gl.GetUniformLocation(defProg, gl.Str("viewPosWS\x00"))

	instProg := r.programs.ID(Instancing)
	r.instLightLoc = gl.GetUniformLocation(instProg, gl.Str("lightPosWS\x00"))
	r.instViewPosLoc = gl.GetUniformLocation(instProg, gl.Str("viewPosWS\x00"))

	pointProg := r.programs.ID(PointRendering)
	r.pointPosLoc = gl.GetUniformLocation(pointProg, gl.Str("position\x00"))
	r.pointColorLoc = gl.GetUniformLocation(pointProg, gl.Str("color\x00"))

	toneProg := r.programs.ID(Tonemapping)
	r.toneSamplesLoc = gl.GetUniformLocation(toneProg, gl.Str("sampleCount\x00"))
	r.toneExposureLoc = gl.GetUniformLocation(toneProg, gl.Str("exposure\x00"))

	// Texture units are fixed: material samplers 0-3, tonemap 0/1.
	gl.UseProgram(defProg)
	bindMaterialUnits(defProg)
	gl.UseProgram(instProg)
	bindMaterialUnits(instProg)
	gl.UseProgram(toneProg)
	gl.Uniform1i(gl.GetUniformLocation(toneProg, gl.Str("hdrTex\x00")), 0)
	gl.Uniform1i(gl.GetUniformLocation(toneProg, gl.Str("hdrTexMS\x00")), 1)
	gl.UseProgram(0)
}

func bindMaterialUnits(prog uint32) {
	gl.Uniform1i(gl.GetUniformLocation(prog, gl.Str("diffuseTex\x00")), 0)
	gl.Uniform1i(gl.GetUniformLocation(prog, gl.Str("normalTex\x00")), 1)
	gl.Uniform1i(gl.GetUniformLocation(prog, gl.Str("specularTex\x00")), 2)
	gl.Uniform1i(gl.GetUniformLocation(prog, gl.Str("occlusionTex\x00")), 3)
}

// ── Render target lifecycle ───────────────────────────────────────────────────

// Resize recreates the render target at the new window size, keeping the
// current sample count.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return // minimised
	}
	r.width = width
	r.height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	if err := r.fb.Recreate(width, height, int(r.fb.Samples)); err != nil {
		fmt.Printf("framebuffer resize: %v\n", err)
	}
}

// SetMultisample switches multisampling on or off, reallocating the
// render target when the sample count actually changes.
func (r *Renderer) SetMultisample(enabled bool) {
	samples := 1
	if enabled {
		samples = MSAASamples
	}
	if int32(samples) == r.fb.Samples {
		return
	}
	if err := r.fb.Recreate(r.width, r.height, samples); err != nil {
		fmt.Printf("framebuffer MSAA toggle: %v\n", err)
	}
}

// Multisample reports whether the render target is multisampled.
func (r *Renderer) Multisample() bool {
	return r.fb.Multisampled()
}

// FramebufferSize returns the offscreen target dimensions.
func (r *Renderer) FramebufferSize() (int, int) {
	return int(r.fb.Width), int(r.fb.Height)
}

// ── Textures and meshes ───────────────────────────────────────────────────────

// SetTexture uploads tex if needed and assigns it to a role slot.
func (r *Renderer) SetTexture(role textures.Role, tex *textures.Texture) error {
	if tex.GLID == 0 {
		if err := UploadTexture(tex); err != nil {
			return err
		}
	}
	r.roleTex[role] = tex
	return nil
}

// ensureUploaded uploads vertex/index data if not already done.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := r.meshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))
	gpu := &GPUMesh{IndexCount: mesh.IndexCount()}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v core.Vertex
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Position))))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Normal))))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Tangent))))
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 2, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.UV))))

	gl.GenBuffers(1, &gpu.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
		len(mesh.Indices)*4,
		gl.Ptr(mesh.Indices),
		gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	r.meshes[mesh] = gpu
	return gpu
}

// bindMaterial binds one texture per unit with the anisotropic sampler.
func (r *Renderer) bindMaterial(diffuse, normal, specular, occlusion textures.Role) {
	roles := [4]textures.Role{diffuse, normal, specular, occlusion}
	for unit, role := range roles {
		var id uint32
		if tex := r.roleTex[role]; tex != nil {
			id = tex.GLID
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(gl.TEXTURE_2D, id)
		gl.BindSampler(uint32(unit), r.samplers.ID(SamplerAnisotropic))
	}
}

// ── Frame ─────────────────────────────────────────────────────────────────────

// RenderFrame draws one complete frame: scene into the offscreen HDR
// target, then either a tonemapped fullscreen pass or a plain blit to the
// window surface.
func (r *Renderer) RenderFrame(cam *scene.Camera, sc *scene.Scene, floor, cube *scene.Mesh, st RenderState) {
	// 1. Shared transform block, unconditionally, before every draw
	// that consults it.
	r.transforms.Update(cam.WorldToView(), cam.Projection())

	// 2. Offscreen target and toggle states.
	gl.BindFramebuffer(gl.FRAMEBUFFER, r.fb.FBO)
	gl.Viewport(0, 0, r.fb.Width, r.fb.Height)

	if st.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LEQUAL)
		gl.DepthMask(true)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	if st.CullFace {
		gl.Enable(gl.CULL_FACE)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
	if r.fb.Multisampled() {
		gl.Enable(gl.MULTISAMPLE)
	} else {
		gl.Disable(gl.MULTISAMPLE)
	}
	if st.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	// 3. Clear.
	gl.ClearColor(0.1, 0.2, 0.4, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	viewPos := cam.ViewToWorld().Col(3)

	// 4. Floor.
	if gpu := r.ensureUploaded(floor); gpu != nil {
		gl.UseProgram(r.programs.ID(Default))
		gl.Uniform3f(r.defaultLightLoc, sc.LightPosition.X(), sc.LightPosition.Y(), sc.LightPosition.Z())
		gl.Uniform4f(r.defaultViewPosLoc, viewPos.X(), viewPos.Y(), viewPos.Z(), viewPos.W())

		model := mat4x3(floorScale)
		gl.UniformMatrix4x3fv(r.defaultModelLoc, 1, false, &model[0])

		r.bindMaterial(textures.RoleCheckerBoard, textures.RoleBlue, textures.RoleGrey, textures.RoleWhite)

		gl.BindVertexArray(gpu.VAO)
		gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	}

	// 5. Cube batch: one instanced draw regardless of sample count.
	if gpu := r.ensureUploaded(cube); gpu != nil {
		gl.UseProgram(r.programs.ID(Instancing))
		gl.Uniform3f(r.instLightLoc, sc.LightPosition.X(), sc.LightPosition.Y(), sc.LightPosition.Z())
		gl.Uniform4f(r.instViewPosLoc, viewPos.X(), viewPos.Y(), viewPos.Z(), viewPos.W())

		r.instances.Update(sc.CubePositions)
		r.bindMaterial(textures.RoleDiffuse, textures.RoleNormal, textures.RoleSpecular, textures.RoleOcclusion)

		gl.BindVertexArray(gpu.VAO)
		gl.DrawElementsInstanced(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil, int32(len(sc.CubePositions)))
		r.instances.Unbind()
	}

	// 6. Light marker.
	gl.UseProgram(r.programs.ID(PointRendering))
	gl.Uniform3f(r.pointPosLoc, sc.LightPosition.X(), sc.LightPosition.Y(), sc.LightPosition.Z())
	gl.Uniform3f(r.pointColorLoc, core.ColorWhite.R, core.ColorWhite.G, core.ColorWhite.B)
	gl.PointSize(10)
	gl.BindVertexArray(r.emptyVAO)
	gl.DrawArrays(gl.POINTS, 0, 1)

	gl.BindVertexArray(0)
	gl.UseProgram(0)

	// 7. Present: tonemap pass or plain blit. Either way the offscreen
	// contents are untouched; only the path to the window differs.
	if st.Tonemap {
		r.tonemapPass()
	} else {
		r.blitPass()
	}
}

// tonemapPass resolves and tonemaps the HDR target onto the window
// surface with a fullscreen triangle. Multisampled targets are resolved
// in-shader.
func (r *Renderer) tonemapPass() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(r.width), int32(r.height))

	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	gl.Disable(gl.MULTISAMPLE)
	gl.Disable(gl.DEPTH_TEST)

	gl.ClearColor(core.ColorBlack.R, core.ColorBlack.G, core.ColorBlack.B, core.ColorBlack.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(r.programs.ID(Tonemapping))
	gl.Uniform1i(r.toneSamplesLoc, r.fb.Samples)
	gl.Uniform1f(r.toneExposureLoc, r.Exposure)

	// texelFetch must see raw texels: explicitly unbind any sampler
	// object from the unit in use.
	if r.fb.Multisampled() {
		gl.ActiveTexture(gl.TEXTURE1)
		gl.BindTexture(gl.TEXTURE_2D_MULTISAMPLE, r.fb.ColorTex)
		gl.BindSampler(1, 0)
	} else {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.fb.ColorTex)
		gl.BindSampler(0, 0)
	}

	gl.BindVertexArray(r.emptyVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// blitPass copies the offscreen color target to the window surface with
// a filtered copy; a multisampled source resolves during the blit.
func (r *Renderer) blitPass() {
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.fb.FBO)
	gl.DrawBuffer(gl.BACK)
	gl.BlitFramebuffer(0, 0, r.fb.Width, r.fb.Height,
		0, 0, int32(r.width), int32(r.height),
		gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// DrawStats renders the overlay text on the window surface. Call after
// RenderFrame. The overlay is created lazily; a failed init prints once
// and disables it.
func (r *Renderer) DrawStats(text string) {
	if r.overlayDead {
		return
	}
	if r.overlay == nil {
		o, err := NewOverlay()
		if err != nil {
			fmt.Printf("overlay init: %v\n", err)
			r.overlayDead = true
			return
		}
		r.overlay = o
	}
	r.overlay.Draw(text, 8, 8, 2, r.width, r.height)
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for mesh, gpu := range r.meshes {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		gl.DeleteBuffers(1, &gpu.EBO)
		delete(r.meshes, mesh)
	}
	for role, tex := range r.roleTex {
		DeleteTexture(tex)
		delete(r.roleTex, role)
	}
	if r.overlay != nil {
		r.overlay.Destroy()
	}
	if r.emptyVAO != 0 {
		gl.DeleteVertexArrays(1, &r.emptyVAO)
	}
	r.samplers.Destroy()
	r.instances.Destroy()
	r.transforms.Destroy()
	r.fb.Destroy()
	r.programs.Destroy()
}

// mat4x3 extracts the upper three rows of a model matrix in the
// column-major order glUniformMatrix4x3 expects (4 columns of 3).
func mat4x3(m mgl32.Mat4) [12]float32 {
	var out [12]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 3; row++ {
			out[col*3+row] = m.At(row, col)
		}
	}
	return out
}
