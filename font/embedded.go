package font

import (
	"bytes"
	"fmt"

	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmsans10regular"
	"github.com/go-text/typesetting/fontscan"
)

// FallbackFixed and FallbackVariable are the families of the embedded
// faces. Views append them to their query so a bare system always
// renders something.
const (
	FallbackFixed    = "Latin Modern Mono"
	FallbackVariable = "Latin Modern Sans"
)

var embeddedFaces = []struct {
	name string
	ttf  []byte
}{
	{"lmmono10regular.ttf", lmmono10regular.TTF},
	{"lmsans10regular.ttf", lmsans10regular.TTF},
	{"lmroman10regular.ttf", lmroman10regular.TTF},
}

// registerEmbedded adds the compiled in faces to the font map and
// returns how many were registered.
func registerEmbedded(m *fontscan.FontMap) (int, error) {
	for _, f := range embeddedFaces {
		if err := m.AddFont(bytes.NewReader(f.ttf), f.name, ""); err != nil {
			return 0, fmt.Errorf("failed to register embedded face %s: %w", f.name, err)
		}
	}
	return len(embeddedFaces), nil
}
