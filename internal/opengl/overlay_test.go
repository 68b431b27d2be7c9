package opengl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGlyphAtlasDimensions(t *testing.T) {
	a := BuildGlyphAtlas()

	assert.Equal(t, 7, a.CellW)
	assert.Equal(t, 13, a.CellH)
	assert.Equal(t, 16, a.Cols)
	assert.Equal(t, 6, a.Rows) // 95 printable glyphs in 16 columns
	assert.Equal(t, a.Cols*a.CellW, a.Img.Rect.Dx())
	assert.Equal(t, a.Rows*a.CellH, a.Img.Rect.Dy())
}

func TestGlyphAtlasCoverage(t *testing.T) {
	a := BuildGlyphAtlas()

	// A visible glyph rasterises to at least one opaque pixel, space to
	// none.
	assert.True(t, cellHasInk(a, 'A'))
	assert.True(t, cellHasInk(a, '0'))
	assert.False(t, cellHasInk(a, ' '))
}

func TestGlyphAtlasCellUV(t *testing.T) {
	a := BuildGlyphAtlas()

	u0, v0, u1, v1 := a.CellUV(' ')
	assert.Equal(t, float32(0), u0)
	assert.Equal(t, float32(0), v0)
	assert.Greater(t, u1, u0)
	assert.Greater(t, v1, v0)

	// Every printable character maps inside the texture.
	for ch := byte(' '); ch <= '~'; ch++ {
		u0, v0, u1, v1 := a.CellUV(ch)
		require.GreaterOrEqual(t, u0, float32(0))
		require.GreaterOrEqual(t, v0, float32(0))
		require.LessOrEqual(t, u1, float32(1))
		require.LessOrEqual(t, v1, float32(1))
	}

	// Out-of-range bytes fall back to the space cell.
	bu0, bv0, _, _ := a.CellUV(0)
	su0, sv0, _, _ := a.CellUV(' ')
	assert.Equal(t, su0, bu0)
	assert.Equal(t, sv0, bv0)
}

func cellHasInk(a *GlyphAtlas, ch byte) bool {
	i := int(ch - glyphFirst)
	x0 := (i % a.Cols) * a.CellW
	y0 := (i / a.Cols) * a.CellH
	for y := y0; y < y0+a.CellH; y++ {
		for x := x0; x < x0+a.CellW; x++ {
			if a.Img.AlphaAt(x, y).A > 0 {
				return true
			}
		}
	}
	return false
}
