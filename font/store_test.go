package font

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestShapeAdvancesText(t *testing.T) {
	s := newTestStore(t)

	sh := s.Shape("hello", []string{FallbackFixed}, 16)
	require.NotEmpty(t, sh.Outputs)
	assert.Greater(t, sh.Advance(), float32(0))
}

func TestShapeEmptyString(t *testing.T) {
	s := newTestStore(t)
	sh := s.Shape("", []string{FallbackFixed}, 16)
	assert.Empty(t, sh.Outputs)
	assert.Equal(t, float32(0), sh.Advance())
}

func TestClusterXsBoundaries(t *testing.T) {
	s := newTestStore(t)

	text := "hello"
	sh := s.Shape(text, []string{FallbackFixed}, 16)
	xs := ClusterXs(sh, text)

	require.Len(t, xs, 6)
	assert.Equal(t, float32(0), xs[0])
	for i := 1; i < len(xs); i++ {
		assert.GreaterOrEqual(t, xs[i], xs[i-1])
	}
	assert.InDelta(t, sh.Advance(), xs[5], 0.01)
}

func TestClusterXsMonospaceCells(t *testing.T) {
	s := newTestStore(t)

	text := "iiWW"
	sh := s.Shape(text, []string{FallbackFixed}, 16)
	xs := ClusterXs(sh, text)

	require.Len(t, xs, 5)
	// On a monospace face every cell has the same width.
	cell := xs[1] - xs[0]
	for i := 1; i+1 < len(xs); i++ {
		assert.InDelta(t, cell, xs[i+1]-xs[i], 0.01)
	}
}

func TestMetrics(t *testing.T) {
	s := newTestStore(t)

	m := s.Metrics([]string{FallbackFixed}, 16)
	assert.Greater(t, m.Ascent, float32(0))
	assert.GreaterOrEqual(t, m.Descent, float32(0))
	assert.Greater(t, m.CellAdvance, float32(0))
	assert.Greater(t, m.LineHeight(), m.Ascent)
	assert.Greater(t, m.UnderlineThickness, float32(0))
}

func TestRasterizeProducesInk(t *testing.T) {
	s := newTestStore(t)

	sh := s.Shape("A", []string{FallbackFixed}, 24)
	require.NotEmpty(t, sh.Outputs)
	require.NotEmpty(t, sh.Outputs[0].Glyphs)

	out := sh.Outputs[0]
	mask := s.Rasterize(out.Face, out.Glyphs[0], 24)
	require.NotNil(t, mask)

	bounds := mask.Alpha.Bounds()
	assert.Greater(t, bounds.Dx(), 2)
	assert.Greater(t, bounds.Dy(), 2)

	ink := false
	for _, a := range mask.Alpha.Pix {
		if a > 0 {
			ink = true
			break
		}
	}
	assert.True(t, ink, "mask should contain coverage")
}

func TestRasterizeSpaceHasNoInk(t *testing.T) {
	s := newTestStore(t)

	sh := s.Shape(" ", []string{FallbackFixed}, 16)
	require.NotEmpty(t, sh.Outputs)
	require.NotEmpty(t, sh.Outputs[0].Glyphs)

	out := sh.Outputs[0]
	assert.Nil(t, s.Rasterize(out.Face, out.Glyphs[0], 16))
}

func TestRasterizeCachesMasks(t *testing.T) {
	s := newTestStore(t)

	sh := s.Shape("B", []string{FallbackFixed}, 16)
	require.NotEmpty(t, sh.Outputs)
	out := sh.Outputs[0]

	first := s.Rasterize(out.Face, out.Glyphs[0], 16)
	second := s.Rasterize(out.Face, out.Glyphs[0], 16)
	assert.Same(t, first, second)
}

func TestRuneClusterMap(t *testing.T) {
	// e plus combining accent is one cluster of two runes.
	m, n := runeClusterMap("éx")
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{0, 0, 1}, m)
}

func TestClusterAtX(t *testing.T) {
	xs := []float32{0, 10, 20, 30}
	assert.Equal(t, 0, ClusterAtX(xs, -5))
	assert.Equal(t, 0, ClusterAtX(xs, 5))
	assert.Equal(t, 1, ClusterAtX(xs, 10))
	assert.Equal(t, 2, ClusterAtX(xs, 29))
	// Past the end lands one past the last cluster.
	assert.Equal(t, 3, ClusterAtX(xs, 99))
}
