package font

import (
	"github.com/rivo/uniseg"
	"golang.org/x/image/math/fixed"
)

// ClusterXs returns the x offset in pixels of every grapheme cluster
// boundary of text as shaped, cluster count plus one entries in total.
// The final entry is the full advance. Views use it to place cursors
// and to hit test mouse clicks.
func ClusterXs(sh Shaped, text string) []float32 {
	runeToCluster, n := runeClusterMap(text)
	widths := make([]float32, n)

	type group struct {
		cluster int
		advance fixed.Int26_6
	}
	var groups []group
	for _, out := range sh.Outputs {
		for _, g := range out.Glyphs {
			c := 0
			if g.ClusterIndex < len(runeToCluster) {
				c = runeToCluster[g.ClusterIndex]
			} else if n > 0 {
				c = n - 1
			}
			if len(groups) > 0 && groups[len(groups)-1].cluster == c {
				groups[len(groups)-1].advance += g.XAdvance
				continue
			}
			groups = append(groups, group{cluster: c, advance: g.XAdvance})
		}
	}

	// A single glyph can span several clusters (a ligature); spread its
	// advance evenly so every boundary gets a distinct position.
	for i, gr := range groups {
		end := n
		if i+1 < len(groups) {
			end = groups[i+1].cluster
		}
		span := end - gr.cluster
		if span < 1 {
			span = 1
			end = gr.cluster + 1
		}
		per := FromFixed(gr.advance) / float32(span)
		for c := gr.cluster; c < end && c < n; c++ {
			widths[c] += per
		}
	}

	xs := make([]float32, n+1)
	for i, w := range widths {
		xs[i+1] = xs[i] + w
	}
	return xs
}

// runeClusterMap maps each rune index of text to its grapheme cluster
// ordinal and returns the cluster count.
func runeClusterMap(text string) ([]int, int) {
	var m []int
	cluster := 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		for range gr.Runes() {
			m = append(m, cluster)
		}
		cluster++
	}
	return m, cluster
}

// ClusterAtX returns the cluster index whose shaped cell contains x,
// clamping to the cluster count.
func ClusterAtX(xs []float32, x float32) int {
	for i := 0; i+1 < len(xs); i++ {
		if x < xs[i+1] {
			return i
		}
	}
	if len(xs) > 1 {
		return len(xs) - 1
	}
	return 0
}
