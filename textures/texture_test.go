package textures

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleColor(t *testing.T) {
	tex := SingleColor("red", 255, 0, 0)

	assert.Equal(t, 1, tex.Width)
	assert.Equal(t, 1, tex.Height)
	assert.Equal(t, []byte{255, 0, 0, 255}, tex.Pixels)
	assert.False(t, tex.SRGB)
}

func TestCheckerBoard(t *testing.T) {
	tex := CheckerBoard(8, 2)

	require.Equal(t, 8, tex.Width)
	require.Equal(t, 8, tex.Height)
	require.Len(t, tex.Pixels, 8*8*4)
	assert.True(t, tex.SRGB)

	at := func(x, y int) byte { return tex.Pixels[(y*8+x)*4] }

	// 2x2 tiles alternate starting white at the origin.
	assert.Equal(t, byte(255), at(0, 0))
	assert.Equal(t, byte(255), at(1, 1))
	assert.Equal(t, byte(0), at(2, 0))
	assert.Equal(t, byte(0), at(0, 2))
	assert.Equal(t, byte(255), at(2, 2))

	// Fully opaque everywhere.
	for i := 3; i < len(tex.Pixels); i += 4 {
		require.Equal(t, byte(255), tex.Pixels[i])
	}
}

func TestManagerLoadAndCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tex.png")
	writeTestPNG(t, path, 4, 2)

	m := NewManager()
	tex, err := m.Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, 4, tex.Width)
	assert.Equal(t, 2, tex.Height)
	assert.True(t, tex.SRGB)
	assert.Len(t, tex.Pixels, 4*2*4)
	// First pixel was written red.
	assert.Equal(t, []byte{255, 0, 0, 255}, tex.Pixels[:4])

	// Second load returns the cached texture, not a new decode.
	again, err := m.Load(path, true)
	require.NoError(t, err)
	assert.Same(t, tex, again)
}

func TestManagerLoadMissing(t *testing.T) {
	m := NewManager()
	_, err := m.Load("no/such/file.png", false)
	assert.Error(t, err)
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "diffuse", RoleDiffuse.String())
	assert.Equal(t, "checkerboard", RoleCheckerBoard.String())
	assert.Equal(t, "role(99)", Role(99).String())
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{0, 255, 0, 255})
		}
	}
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}
