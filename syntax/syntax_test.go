package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/richinsley/vellum/text"
)

func bufferWith(t *testing.T, content string) *text.Buffer {
	t.Helper()
	b := text.NewBuffer(8, zap.NewNop())
	c := &text.Cursor{}
	b.AttachCursor(c)
	b.InsertText(c, content)
	return b
}

func spanText(buf *text.Buffer, line int, s Span) string {
	return buf.Line(line)[s.Start:s.End]
}

func findKind(spans []Span, k Kind) *Span {
	for i := range spans {
		if spans[i].Kind == k {
			return &spans[i]
		}
	}
	return nil
}

func TestGoSourceKinds(t *testing.T) {
	buf := bufferWith(t, "// greet\nfunc greet() {\n\treturn \"hi\"\n}")
	h := New("main.go", zap.NewNop())

	comment := findKind(h.LineSpans(buf, 0), KindComment)
	require.NotNil(t, comment)
	assert.Equal(t, "// greet", spanText(buf, 0, *comment))

	decl := h.LineSpans(buf, 1)
	kw := findKind(decl, KindKeyword)
	require.NotNil(t, kw)
	assert.Equal(t, "func", spanText(buf, 1, *kw))
	fn := findKind(decl, KindFunction)
	require.NotNil(t, fn)
	assert.Equal(t, "greet", spanText(buf, 1, *fn))

	str := findKind(h.LineSpans(buf, 2), KindString)
	require.NotNil(t, str)
	assert.Equal(t, `"hi"`, spanText(buf, 2, *str))
}

func TestSpansAreOrderedAndDisjoint(t *testing.T) {
	buf := bufferWith(t, "x := product(31, 7) + 0.5")
	h := New("calc.go", zap.NewNop())

	spans := h.LineSpans(buf, 0)
	require.NotEmpty(t, spans)
	last := 0
	for _, s := range spans {
		assert.GreaterOrEqual(t, s.Start, last)
		assert.Greater(t, s.End, s.Start)
		last = s.End
	}
}

func TestPlainTextHasNoSpans(t *testing.T) {
	buf := bufferWith(t, "just some prose, nothing else")
	h := New("notes.txt", zap.NewNop())

	assert.Empty(t, h.LineSpans(buf, 0))
}

func TestUnknownExtensionFallsBack(t *testing.T) {
	h := New("data.zzz-unknown", zap.NewNop())
	assert.NotNil(t, h)

	buf := bufferWith(t, "anything")
	assert.Empty(t, h.LineSpans(buf, 0))
}

func TestRelexOnlyOnVersionChange(t *testing.T) {
	buf := bufferWith(t, "func a() {}")
	h := New("a.go", zap.NewNop())

	first := h.LineSpans(buf, 0)
	again := h.LineSpans(buf, 0)
	require.NotEmpty(t, first)
	// Same version, the cache line is handed back untouched.
	assert.Same(t, &first[0], &again[0])

	c := &text.Cursor{}
	buf.AttachCursor(c)
	buf.InsertText(c, "x")
	refreshed := h.LineSpans(buf, 0)
	assert.NotEmpty(t, refreshed)
}

func TestLineOutOfRange(t *testing.T) {
	buf := bufferWith(t, "short")
	h := New("s.go", zap.NewNop())
	assert.Nil(t, h.LineSpans(buf, 99))
}
