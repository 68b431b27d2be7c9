package textures

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// Texture holds CPU-side RGBA pixel data. GLID is filled in by the
// renderer backend once the texture is uploaded.
type Texture struct {
	Name   string
	Path   string // empty for procedural textures
	Width  int
	Height int
	Pixels []byte // RGBA, row-major
	SRGB   bool   // sample through an sRGB internal format
	GLID   uint32
}

// Manager caches textures by file path so each image is decoded and
// uploaded once.
type Manager struct {
	textures map[string]*Texture
}

func NewManager() *Manager {
	return &Manager{textures: make(map[string]*Texture)}
}

// Load returns the texture at path, decoding it on first use. Subsequent
// calls with the same path return the cached texture.
func (m *Manager) Load(path string, srgb bool) (*Texture, error) {
	if tex, ok := m.textures[path]; ok {
		return tex, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture %q: decode: %w", path, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	tex := &Texture{
		Name:   path,
		Path:   path,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: rgba.Pix,
		SRGB:   srgb,
	}
	m.textures[path] = tex
	return tex, nil
}

// SingleColor builds a 1x1 texture of the given color.
func SingleColor(name string, r, g, b byte) *Texture {
	return &Texture{
		Name:   name,
		Width:  1,
		Height: 1,
		Pixels: []byte{r, g, b, 255},
	}
}

// CheckerBoard builds a size x size black-and-white checkerboard with
// tile x tile squares. Marked sRGB so the pattern survives the linear
// lighting pipeline the way an authored texture would.
func CheckerBoard(size, tile int) *Texture {
	pixels := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			var c byte
			if (x/tile+y/tile)%2 == 0 {
				c = 255
			}
			i := (y*size + x) * 4
			pixels[i+0] = c
			pixels[i+1] = c
			pixels[i+2] = c
			pixels[i+3] = 255
		}
	}
	return &Texture{
		Name:   "checkerboard",
		Width:  size,
		Height: size,
		Pixels: pixels,
		SRGB:   true,
	}
}

// Role names one of the fixed texture slots the demo uses. The renderer
// keeps a typed Role → handle mapping instead of a bare indexed array.
type Role int

const (
	RoleWhite Role = iota
	RoleGrey
	RoleBlue
	RoleCheckerBoard
	RoleDiffuse
	RoleNormal
	RoleSpecular
	RoleOcclusion
	NumRoles
)

func (r Role) String() string {
	switch r {
	case RoleWhite:
		return "white"
	case RoleGrey:
		return "grey"
	case RoleBlue:
		return "blue"
	case RoleCheckerBoard:
		return "checkerboard"
	case RoleDiffuse:
		return "diffuse"
	case RoleNormal:
		return "normal"
	case RoleSpecular:
		return "specular"
	case RoleOcclusion:
		return "occlusion"
	}
	return fmt.Sprintf("role(%d)", int(r))
}
