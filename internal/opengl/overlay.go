package opengl

import (
	"fmt"
	"image"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	glyphFirst = ' '
	glyphLast  = '~'
	atlasCols  = 16
)

var overlayVertSrc = `#version 410 core

layout(location = 0) in vec4 inPosUV;

out vec2 uv;

void main() {
	gl_Position = vec4(inPosUV.xy, 0.0, 1.0);
	uv = inPosUV.zw;
}
` + "\x00"

var overlayFragSrc = `#version 410 core

in vec2 uv;

uniform sampler2D glyphTex;
uniform vec3 textColor;

out vec4 outColor;

void main() {
	float alpha = texture(glyphTex, uv).r;
	outColor = vec4(textColor, alpha);
}
` + "\x00"

// GlyphAtlas is a CPU-side bitmap of the printable ASCII range arranged
// in a fixed grid, one glyph per cell.
type GlyphAtlas struct {
	Img   *image.Alpha
	CellW int
	CellH int
	Cols  int
	Rows  int
}

// BuildGlyphAtlas rasterises the basicfont face into an alpha image.
func BuildGlyphAtlas() *GlyphAtlas {
	face := basicfont.Face7x13
	cellW := face.Advance
	cellH := face.Height
	glyphs := int(glyphLast-glyphFirst) + 1
	rows := (glyphs + atlasCols - 1) / atlasCols

	img := image.NewAlpha(image.Rect(0, 0, atlasCols*cellW, rows*cellH))
	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
	}
	for i := 0; i < glyphs; i++ {
		col := i % atlasCols
		row := i / atlasCols
		d.Dot = fixed.P(col*cellW, row*cellH+face.Ascent)
		d.DrawString(string(rune(glyphFirst + i)))
	}

	return &GlyphAtlas{Img: img, CellW: cellW, CellH: cellH, Cols: atlasCols, Rows: rows}
}

// CellUV returns the atlas texture rectangle for ch. Characters outside
// the printable range map to space.
func (a *GlyphAtlas) CellUV(ch byte) (u0, v0, u1, v1 float32) {
	if ch < glyphFirst || ch > glyphLast {
		ch = glyphFirst
	}
	i := int(ch - glyphFirst)
	col := i % a.Cols
	row := i / a.Cols
	w := float32(a.Img.Rect.Dx())
	h := float32(a.Img.Rect.Dy())
	u0 = float32(col*a.CellW) / w
	v0 = float32(row*a.CellH) / h
	u1 = float32((col+1)*a.CellW) / w
	v1 = float32((row+1)*a.CellH) / h
	return
}

// Overlay draws short runtime stats text directly on the window surface.
type Overlay struct {
	atlas   *GlyphAtlas
	program uint32
	vao     uint32
	vbo     uint32
	texture uint32

	colorLoc int32

	verts []float32
}

// NewOverlay builds the glyph atlas and the GL objects for text drawing.
func NewOverlay() (*Overlay, error) {
	program, err := newProgram(overlayVertSrc, overlayFragSrc)
	if err != nil {
		return nil, fmt.Errorf("overlay program: %w", err)
	}

	o := &Overlay{
		atlas:   BuildGlyphAtlas(),
		program: program,
	}
	o.colorLoc = gl.GetUniformLocation(program, gl.Str("textColor\x00"))
	gl.UseProgram(program)
	gl.Uniform1i(gl.GetUniformLocation(program, gl.Str("glyphTex\x00")), 0)
	gl.UseProgram(0)

	gl.GenTextures(1, &o.texture)
	gl.BindTexture(gl.TEXTURE_2D, o.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8,
		int32(o.atlas.Img.Rect.Dx()), int32(o.atlas.Img.Rect.Dy()),
		0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(o.atlas.Img.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenVertexArrays(1, &o.vao)
	gl.GenBuffers(1, &o.vbo)
	gl.BindVertexArray(o.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 4, gl.FLOAT, false, 16, nil)
	gl.BindVertexArray(0)

	return o, nil
}

// Draw renders text at pixel position (x, y) from the top-left corner of
// a screenW by screenH surface. Newlines start a fresh line at x.
func (o *Overlay) Draw(text string, x, y, scale, screenW, screenH int) {
	if len(text) == 0 || screenW <= 0 || screenH <= 0 {
		return
	}

	o.verts = o.verts[:0]
	penX, penY := x, y
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch == '\n' {
			penX = x
			penY += o.atlas.CellH * scale
			continue
		}
		o.appendGlyph(ch, penX, penY, scale, screenW, screenH)
		penX += o.atlas.CellW * scale
	}
	if len(o.verts) == 0 {
		return
	}

	gl.UseProgram(o.program)
	gl.Uniform3f(o.colorLoc, 1, 1, 1)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, o.texture)
	gl.BindSampler(0, 0)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	gl.BindVertexArray(o.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(o.verts)*4, gl.Ptr(o.verts), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(o.verts)/4))
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
	gl.UseProgram(0)
}

func (o *Overlay) appendGlyph(ch byte, px, py, scale, screenW, screenH int) {
	u0, v0, u1, v1 := o.atlas.CellUV(ch)

	// Pixel rectangle, top-left origin, converted to NDC. The atlas has
	// v growing downward, matching screen space before the Y flip.
	x0 := 2*float32(px)/float32(screenW) - 1
	x1 := 2*float32(px+o.atlas.CellW*scale)/float32(screenW) - 1
	y0 := 1 - 2*float32(py)/float32(screenH)
	y1 := 1 - 2*float32(py+o.atlas.CellH*scale)/float32(screenH)

	o.verts = append(o.verts,
		x0, y0, u0, v0,
		x0, y1, u0, v1,
		x1, y1, u1, v1,

		x0, y0, u0, v0,
		x1, y1, u1, v1,
		x1, y0, u1, v0,
	)
}

// Destroy releases the overlay's GL objects.
func (o *Overlay) Destroy() {
	gl.DeleteBuffers(1, &o.vbo)
	gl.DeleteVertexArrays(1, &o.vao)
	gl.DeleteTextures(1, &o.texture)
	gl.DeleteProgram(o.program)
}
