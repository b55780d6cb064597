// Package font finds system fonts, shapes text with harfbuzz and
// rasterizes glyph outlines into alpha masks for the atlas.
package font

import (
	"os"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/fontscan"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"go.uber.org/zap"
	"golang.org/x/image/math/fixed"
)

// Store owns the font map and the shaper. Not safe for concurrent
// use; the editor shapes on the main thread only.
type Store struct {
	fontMap  *fontscan.FontMap
	shaper   shaping.HarfbuzzShaper
	splitter shaping.Segmenter
	lang     language.Language
	masks    *maskCache
	logger   *zap.Logger
}

// Shaped is the result of shaping one string: a sequence of runs, one
// per face/script change.
type Shaped struct {
	Outputs []shaping.Output
}

// Advance returns the total horizontal advance in pixels.
func (s Shaped) Advance() float32 {
	var a fixed.Int26_6
	for _, out := range s.Outputs {
		a += out.Advance
	}
	return FromFixed(a)
}

// Metrics are scaled face metrics in pixels. Descent is positive,
// measured down from the baseline.
type Metrics struct {
	Ascent             float32
	Descent            float32
	LineGap            float32
	CellAdvance        float32
	UnderlinePos       float32
	UnderlineThickness float32
}

// LineHeight is the vertical distance between baselines.
func (m Metrics) LineHeight() float32 {
	return m.Ascent + m.Descent + m.LineGap
}

// NewStore scans system fonts, with the embedded Latin Modern faces
// registered so shaping always has a fallback.
func NewStore(logger *zap.Logger) (*Store, error) {
	s := &Store{
		lang:   language.DefaultLanguage(),
		masks:  newMaskCache(),
		logger: logger,
	}
	s.fontMap = fontscan.NewFontMap(zap.NewStdLog(logger.Named("fontscan")))

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		logger.Debug("no user cache dir for font index", zap.Error(err))
	}
	if err := s.fontMap.UseSystemFonts(cacheDir); err != nil {
		logger.Warn("failed to load system fonts, embedded faces only", zap.Error(err))
	}

	n, err := registerEmbedded(s.fontMap)
	if err != nil {
		return nil, err
	}
	s.shaper.SetFontCacheSize(32)

	logger.Info("font store ready", zap.Int("embedded_faces", n))
	return s, nil
}

// Shape lays out text in the first available family from families.
// Tabs must already be expanded; the shaper treats them as missing
// glyphs.
func (s *Store) Shape(text string, families []string, sizePx float32) Shaped {
	runes := []rune(text)
	if len(runes) == 0 {
		return Shaped{}
	}

	s.fontMap.SetQuery(fontscan.Query{
		Families: families,
		Aspect:   font.Aspect{Style: font.StyleNormal},
	})

	in := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Size:      ToFixed(sizePx),
		Script:    language.Latin,
		Language:  s.lang,
	}

	runs := s.splitter.Split(in, s.fontMap)
	outs := make([]shaping.Output, 0, len(runs))
	for _, run := range runs {
		if run.Face == nil {
			s.logger.Debug("no face for run", zap.Int("start", run.RunStart), zap.Int("end", run.RunEnd))
			continue
		}
		outs = append(outs, s.shaper.Shape(run))
	}
	return Shaped{Outputs: outs}
}

// Metrics measures the family at the given size. The cell advance is
// the advance of "M", which equals the cell width on monospace faces.
func (s *Store) Metrics(families []string, sizePx float32) Metrics {
	sh := s.Shape("M", families, sizePx)
	m := Metrics{
		Ascent:             sizePx,
		Descent:            sizePx * 0.25,
		CellAdvance:        sizePx * 0.6,
		UnderlineThickness: 1,
	}
	if len(sh.Outputs) == 0 {
		return m
	}
	lb := sh.Outputs[0].LineBounds
	m.Ascent = FromFixed(lb.Ascent)
	m.Descent = -FromFixed(lb.Descent)
	m.LineGap = FromFixed(lb.Gap)
	m.CellAdvance = FromFixed(sh.Outputs[0].Advance)
	m.UnderlinePos = m.Descent / 2
	if t := sizePx / 14; t > 1 {
		m.UnderlineThickness = t
	}
	return m
}

// ToFixed converts pixels to 26.6 fixed point.
func ToFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// FromFixed converts 26.6 fixed point to pixels.
func FromFixed(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
