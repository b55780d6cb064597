// Package render batches quads and issues the GL draws for a frame.
// Everything works in window pixel coordinates with y growing down;
// the projection matrix does the flip once.
package render

// Rect is a pixel rectangle, origin at the top left.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether the point is inside the rect.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Inset shrinks the rect by d on every side.
func (r Rect) Inset(d float32) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Color is a straight alpha RGBA color with [0, 1] components, laid
// out the way vertex attributes expect.
type Color [4]float32

// RGBA builds a Color from normalized components.
func RGBA(r, g, b, a float32) Color {
	return Color{r, g, b, a}
}

// Ortho builds a column major orthographic projection mapping
// (0,0)..(w,h) with y down onto clip space.
func Ortho(w, h float32) [16]float32 {
	var m [16]float32
	m[0] = 2 / w
	m[5] = -2 / h
	m[10] = -1
	m[12] = -1
	m[13] = 1
	m[15] = 1
	return m
}

// quadIndices appends the two triangles for quad j, matching the
// vertex order top left, top right, bottom left, bottom right.
func quadIndices(dst []uint32, j uint32) []uint32 {
	base := 4 * j
	return append(dst,
		base, base+2, base+1,
		base+1, base+2, base+3,
	)
}
