// Package perror implements the error taxonomy from spec §7. Every value
// here is non-fatal and never returned from parsing: in the tree, errors
// appear only as Invalid nodes or an OprApp's MultipleOperatorError flag
// (spec I4), and no Error value is stored on a node. pkgs/validator
// returns these values for invariant violations. The shape — a typed
// Category plus a Rust/Clang-style code
// snippet — is generalized from the teacher's ParseError
// (pkgs/parser/errors.go: createCodeSnippet).
package perror

import (
	"fmt"
	"strings"

	"github.com/ensolang/parser/pkgs/source"
)

// Category groups the taxonomy named in spec §7.
type Category int

const (
	Lexical Category = iota
	Structural
	Operator
	NumberSyntax
)

func (c Category) String() string {
	switch c {
	case Lexical:
		return "lexical error"
	case Structural:
		return "structural error"
	case Operator:
		return "operator error"
	case NumberSyntax:
		return "number syntax error"
	default:
		return "error"
	}
}

// Error describes one categorized problem at a source span.
type Error struct {
	Category Category
	Message  string
	Span     source.Span
}

func (e Error) Error() string { return fmt.Sprintf("%s: %s", e.Category, e.Message) }

// Snippet renders a Rust/Clang-style pointer under the offending source,
// the same layout the teacher's ParseError.createCodeSnippet produces.
func (e Error) Snippet(code *source.Code) string {
	line, col := lineCol(code, e.Span.Start)
	lines := strings.Split(code.Text(), "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	content := lines[line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "  --> %d:%d\n", line, col)
	b.WriteString("   |\n")
	fmt.Fprintf(&b, "%2d | %s\n", line, content)
	b.WriteString("   | ")
	if col > 0 && col <= len(content)+1 {
		b.WriteString(strings.Repeat(" ", col-1) + "^")
	}
	return b.String()
}

// lineCol converts a UTF-16 code-unit offset into 1-based line/column,
// counting columns in UTF-16 units to match Span's unit.
func lineCol(code *source.Code, offset int) (line, col int) {
	text := code.Slice(0, offset)
	line = 1 + strings.Count(text, "\n")
	if idx := strings.LastIndexByte(text, '\n'); idx >= 0 {
		col = len([]rune(text[idx+1:])) + 1
	} else {
		col = len([]rune(text)) + 1
	}
	return
}

// New is a small convenience constructor.
func New(cat Category, span source.Span, format string, args ...interface{}) Error {
	return Error{Category: cat, Message: fmt.Sprintf(format, args...), Span: span}
}
