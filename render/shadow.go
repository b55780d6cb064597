package render

import (
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/blur"

	"github.com/richinsley/vellum/opengl"
)

const (
	// shadowPad is how far the blur spills past the widget rect on
	// each side.
	shadowPad = 8
	// shadowBlurRadius is the box blur radius for the silhouette.
	shadowBlurRadius = 4
)

// buildShadowMask blurs a w x h silhouette into a single channel
// image sized (w+2*pad) x (h+2*pad).
func buildShadowMask(w, h int) *image.Gray {
	full := image.Rect(0, 0, w+2*shadowPad, h+2*shadowPad)
	src := image.NewRGBA(full)
	draw.Draw(src, image.Rect(shadowPad, shadowPad, shadowPad+w, shadowPad+h),
		image.White, image.Point{}, draw.Src)

	blurred := blur.Box(src, shadowBlurRadius)

	mask := image.NewGray(full)
	for y := 0; y < full.Dy(); y++ {
		for x := 0; x < full.Dx(); x++ {
			// The silhouette is white on black; any channel carries
			// the coverage.
			mask.Pix[y*mask.Stride+x] = blurred.Pix[y*blurred.Stride+x*4]
		}
	}
	return mask
}

// shadowCache keeps one mask texture per widget size. Overlay widgets
// resize rarely, so the cache stays tiny.
type shadowCache struct {
	masks map[[2]int]*opengl.Texture
}

func newShadowCache() *shadowCache {
	return &shadowCache{masks: make(map[[2]int]*opengl.Texture)}
}

// texture returns the blurred mask texture for a w x h widget.
func (sc *shadowCache) texture(w, h int) *opengl.Texture {
	key := [2]int{w, h}
	if t, ok := sc.masks[key]; ok {
		return t
	}
	mask := buildShadowMask(w, h)
	b := mask.Bounds()
	t := opengl.NewTexture(b.Dx(), b.Dy(), opengl.FormatRed)
	t.SubImage(0, 0, b.Dx(), b.Dy(), mask.Pix)
	sc.masks[key] = t
	return t
}

func (sc *shadowCache) destroy() {
	for _, t := range sc.masks {
		t.Destroy()
	}
	sc.masks = nil
}
