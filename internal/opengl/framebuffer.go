package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// MSAASamples is the multisample level used when multisampling is on.
const MSAASamples = 4

// Framebuffer is the offscreen HDR render target: an RGB16F color
// attachment and a 32-bit float depth renderbuffer, both plain or
// multisampled depending on Samples. Attachments always match in
// dimensions and sample count; any change goes through Recreate, which
// reallocates both.
type Framebuffer struct {
	FBO      uint32
	ColorTex uint32
	DepthRBO uint32
	Width    int32
	Height   int32
	Samples  int32
}

// CreateFramebuffer allocates a new render target. Dimensions must be
// positive and samples must be 1 or MSAASamples. Construction leaves the
// default framebuffer bound; callers rebind what they need afterwards.
// An incomplete framebuffer is reported but not fatal: rendering
// continues with undefined output rather than aborting the session.
func CreateFramebuffer(width, height, samples int) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("framebuffer: invalid dimensions %dx%d", width, height)
	}
	if samples != 1 && samples != MSAASamples {
		return nil, fmt.Errorf("framebuffer: sample count must be 1 or %d, got %d", MSAASamples, samples)
	}

	f := &Framebuffer{}
	gl.GenFramebuffers(1, &f.FBO)
	f.alloc(int32(width), int32(height), int32(samples))
	return f, nil
}

// Recreate drops the current color and depth attachments and allocates a
// fresh pair at the new dimensions and sample count. The framebuffer
// object itself is reused; the attachments never are.
func (f *Framebuffer) Recreate(width, height, samples int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("framebuffer: invalid dimensions %dx%d", width, height)
	}
	if samples != 1 && samples != MSAASamples {
		return fmt.Errorf("framebuffer: sample count must be 1 or %d, got %d", MSAASamples, samples)
	}

	f.freeAttachments()
	f.alloc(int32(width), int32(height), int32(samples))
	return nil
}

// Multisampled reports whether the color attachment is a multisample texture.
func (f *Framebuffer) Multisampled() bool {
	return f.Samples > 1
}

// ColorTarget returns the texture target of the color attachment.
func (f *Framebuffer) ColorTarget() uint32 {
	if f.Multisampled() {
		return gl.TEXTURE_2D_MULTISAMPLE
	}
	return gl.TEXTURE_2D
}

func (f *Framebuffer) alloc(width, height, samples int32) {
	f.Width = width
	f.Height = height
	f.Samples = samples

	gl.BindFramebuffer(gl.FRAMEBUFFER, f.FBO)

	// Color: high dynamic range, multisampled when requested.
	gl.GenTextures(1, &f.ColorTex)
	if samples > 1 {
		gl.BindTexture(gl.TEXTURE_2D_MULTISAMPLE, f.ColorTex)
		gl.TexImage2DMultisample(gl.TEXTURE_2D_MULTISAMPLE, samples, gl.RGB16F,
			width, height, true)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0,
			gl.TEXTURE_2D_MULTISAMPLE, f.ColorTex, 0)
		gl.BindTexture(gl.TEXTURE_2D_MULTISAMPLE, 0)
	} else {
		gl.BindTexture(gl.TEXTURE_2D, f.ColorTex)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB16F,
			width, height, 0, gl.RGB, gl.FLOAT, nil)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0,
			gl.TEXTURE_2D, f.ColorTex, 0)
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}

	// Depth: float renderbuffer matching the color sample count.
	gl.GenRenderbuffers(1, &f.DepthRBO)
	gl.BindRenderbuffer(gl.RENDERBUFFER, f.DepthRBO)
	if samples > 1 {
		gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, samples,
			gl.DEPTH_COMPONENT32F, width, height)
	} else {
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT32F, width, height)
	}
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT,
		gl.RENDERBUFFER, f.DepthRBO)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	drawBuffers := []uint32{gl.COLOR_ATTACHMENT0}
	gl.DrawBuffers(1, &drawBuffers[0])

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		fmt.Printf("WARNING: framebuffer incomplete (0x%04X)\n", status)
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (f *Framebuffer) freeAttachments() {
	if f.ColorTex != 0 {
		gl.DeleteTextures(1, &f.ColorTex)
		f.ColorTex = 0
	}
	if f.DepthRBO != 0 {
		gl.DeleteRenderbuffers(1, &f.DepthRBO)
		f.DepthRBO = 0
	}
}

// Destroy releases the attachments and the framebuffer object. Safe to
// call more than once.
func (f *Framebuffer) Destroy() {
	f.freeAttachments()
	if f.FBO != 0 {
		gl.DeleteFramebuffers(1, &f.FBO)
		f.FBO = 0
	}
}
