package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"shading-demo/textures"
)

// TEXTURE_MAX_ANISOTROPY is not in the 4.1 core constants; the extension
// value is universal.
const textureMaxAnisotropy = 0x84FE

// Sampler names one of the fixed sampler objects.
type Sampler int

const (
	SamplerAnisotropic Sampler = iota
	SamplerLinear
	numSamplers
)

// Samplers holds the demo's sampler objects. Material draws use the
// anisotropic sampler on every unit; the tonemap pass explicitly binds
// sampler 0 instead so texelFetch sees raw texels.
type Samplers struct {
	ids [numSamplers]uint32
}

func CreateSamplers() *Samplers {
	s := &Samplers{}
	gl.GenSamplers(int32(numSamplers), &s.ids[0])

	aniso := s.ids[SamplerAnisotropic]
	gl.SamplerParameteri(aniso, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.SamplerParameteri(aniso, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.SamplerParameteri(aniso, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.SamplerParameteri(aniso, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.SamplerParameterf(aniso, textureMaxAnisotropy, 8)

	linear := s.ids[SamplerLinear]
	gl.SamplerParameteri(linear, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.SamplerParameteri(linear, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.SamplerParameteri(linear, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.SamplerParameteri(linear, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	return s
}

func (s *Samplers) ID(sampler Sampler) uint32 {
	return s.ids[sampler]
}

func (s *Samplers) Destroy() {
	gl.DeleteSamplers(int32(numSamplers), &s.ids[0])
}

// UploadTexture uploads CPU pixel data to the GPU and records the handle
// in tex.GLID. Color textures marked sRGB get an sRGB internal format so
// sampling converts to linear; data textures (normal maps, masks) stay
// linear.
func UploadTexture(tex *textures.Texture) error {
	if tex == nil {
		return fmt.Errorf("nil texture")
	}
	if len(tex.Pixels) == 0 {
		return fmt.Errorf("texture %q has no pixel data", tex.Name)
	}

	internalFormat := int32(gl.RGBA8)
	if tex.SRGB {
		internalFormat = gl.SRGB8_ALPHA8
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		internalFormat,
		int32(tex.Width),
		int32(tex.Height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		unsafe.Pointer(&tex.Pixels[0]),
	)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	tex.GLID = id
	return nil
}

// DeleteTexture frees a previously uploaded GPU texture and zeroes its GLID.
func DeleteTexture(tex *textures.Texture) {
	if tex == nil || tex.GLID == 0 {
		return
	}
	gl.DeleteTextures(1, &tex.GLID)
	tex.GLID = 0
}
