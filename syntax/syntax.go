// Package syntax colors buffer lines with chroma lexers. Tokens are
// re-lexed when the buffer version moves and cached per line.
package syntax

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"go.uber.org/zap"

	"github.com/richinsley/vellum/text"
)

// Kind is a token category the theme can color.
type Kind int

const (
	KindText Kind = iota
	KindKeyword
	KindDataType
	KindFunction
	KindString
	KindChar
	KindEscape
	KindNumber
	KindComment
	KindOperator
	KindSeparator
	KindEntityName
	KindEntityTag
)

// Span is a colored byte range within one line. Ranges never overlap
// and appear in order. Uncovered bytes take the default foreground.
type Span struct {
	Start int
	End   int
	Kind  Kind
}

// Highlighter lexes one buffer's content.
type Highlighter struct {
	lexer   chroma.Lexer
	name    string
	lines   [][]Span
	version uint64
	valid   bool
	logger  *zap.Logger
}

// New picks a lexer from the file name, falling back to plain text.
func New(path string, logger *zap.Logger) *Highlighter {
	lexer := lexers.Match(filepath.Base(path))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	name := lexer.Config().Name
	logger.Debug("selected lexer", zap.String("path", path), zap.String("lexer", name))
	return &Highlighter{
		lexer:  chroma.Coalesce(lexer),
		name:   name,
		logger: logger,
	}
}

// Name returns the active lexer's name.
func (h *Highlighter) Name() string { return h.name }

// LineSpans returns the spans for one line, relexing first if the
// buffer changed.
func (h *Highlighter) LineSpans(buf *text.Buffer, line int) []Span {
	if !h.valid || h.version != buf.Version() {
		h.relex(buf)
	}
	if line < len(h.lines) {
		return h.lines[line]
	}
	return nil
}

func (h *Highlighter) relex(buf *text.Buffer) {
	h.version = buf.Version()
	h.valid = true
	h.lines = nil

	var sb strings.Builder
	for i := 0; i < buf.LineCount(); i++ {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(buf.Line(i))
	}

	it, err := h.lexer.Tokenise(nil, sb.String())
	if err != nil {
		h.logger.Warn("tokenise failed", zap.String("lexer", h.name), zap.Error(err))
		return
	}

	tokenLines := chroma.SplitTokensIntoLines(it.Tokens())
	h.lines = make([][]Span, len(tokenLines))
	for li, toks := range tokenLines {
		off := 0
		for _, tok := range toks {
			v := strings.TrimSuffix(tok.Value, "\n")
			if v == "" {
				continue
			}
			end := off + len(v)
			if kind := kindOf(tok.Type); kind != KindText {
				h.lines[li] = append(h.lines[li], Span{Start: off, End: end, Kind: kind})
			}
			off = end
		}
	}
}

func kindOf(t chroma.TokenType) Kind {
	switch t {
	case chroma.KeywordType:
		return KindDataType
	case chroma.NameFunction:
		return KindFunction
	case chroma.NameClass, chroma.NameNamespace, chroma.NameException:
		return KindEntityName
	case chroma.NameTag:
		return KindEntityTag
	case chroma.LiteralStringChar:
		return KindChar
	case chroma.LiteralStringEscape:
		return KindEscape
	}
	switch {
	case t.InCategory(chroma.Keyword):
		return KindKeyword
	case t.InSubCategory(chroma.LiteralString):
		return KindString
	case t.InSubCategory(chroma.LiteralNumber):
		return KindNumber
	case t.InCategory(chroma.Comment):
		return KindComment
	case t.InCategory(chroma.Operator):
		return KindOperator
	case t.InCategory(chroma.Punctuation):
		return KindSeparator
	}
	return KindText
}
