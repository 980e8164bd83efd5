// Package block groups a flat token stream into indented line-groups
// (spec §4.3). It knows nothing about macros or operators; it only knows
// indentation.
package block

import (
	"strings"

	"github.com/ensolang/parser/pkgs/diag"
	"github.com/ensolang/parser/pkgs/source"
	"github.com/ensolang/parser/pkgs/token"
)

// Line is one line of the source: a flat token run (Newline excluded) plus
// whatever block of more-indented lines follows it.
type Line struct {
	Indent int
	Tokens []token.Token
	Blank  bool
	Span   source.Span
	Block  []Line // nested block of lines indented strictly more than Indent
}

// Structure groups tokens into the top-level block of lines (the implicit
// body block enclosing the whole file, SPEC_FULL §5).
//
// The algorithm uses an explicit stack of "enclosing indent" frames rather
// than recursion (spec §9 "explicit work stack"), so a file with many
// thousands of same-depth lines cannot overflow the call stack. A line is
// absorbed into the current block (instead of popping out to an ancestor)
// whenever its indent is still greater than the *enclosing* line's indent,
// even if it is less than a previous sibling's indent — this is exactly
// the "bad_indents" absorption rule in spec §4.3.
func Structure(tokens []token.Token, log *diag.Logger) []Line {
	type frame struct {
		indent int
		lines  *[]Line
	}
	var root []Line
	stack := []frame{{indent: -1, lines: &root}}

	// Blank lines never open a block: they are held until the next
	// non-blank line decides which block they belong to, and trailing
	// blank lines go to the top-level block.
	var blanks []Line
	for _, line := range splitLines(tokens) {
		if line.Blank {
			blanks = append(blanks, line)
			continue
		}
		for len(stack) > 1 && line.Indent <= stack[len(stack)-1].indent {
			stack = stack[:len(stack)-1]
		}
		top := &stack[len(stack)-1]
		*top.lines = append(*top.lines, blanks...)
		blanks = nil
		*top.lines = append(*top.lines, line)
		newTop := &(*top.lines)[len(*top.lines)-1]
		stack = append(stack, frame{indent: line.Indent, lines: &newTop.Block})
	}
	root = append(root, blanks...)
	if log != nil {
		log.Block("top-level", -1, len(root))
	}
	return root
}

// splitLines breaks a flat token stream at Newline boundaries.
func splitLines(tokens []token.Token) []Line {
	var lines []Line
	var cur []token.Token
	lineStart := -1

	flush := func(end int) {
		if len(cur) == 0 {
			lines = append(lines, Line{Blank: true})
			return
		}
		lines = append(lines, Line{
			Indent: cur[0].IndentWidth,
			Tokens: cur,
			Span:   source.Span{Start: cur[0].Span.Start, End: end},
		})
		cur = nil
	}

	for _, tok := range tokens {
		if tok.Kind == token.Newline {
			end := tok.Span.Start
			if lineStart == -1 {
				end = tok.Span.Start
			}
			flush(end)
			lineStart = -1
			continue
		}
		if lineStart == -1 {
			lineStart = tok.Span.Start
		}
		cur = append(cur, tok)
	}
	if len(cur) > 0 {
		flush(cur[len(cur)-1].Span.End)
	}
	return lines
}

// docText reports whether l is a line consisting of a single doc comment,
// and its text with the leading "## " stripped.
func (l Line) docText(code *source.Code) (string, bool) {
	if len(l.Tokens) != 1 || l.Tokens[0].Kind != token.DocComment {
		return "", false
	}
	raw := l.Tokens[0].Text(code)
	return strings.TrimPrefix(strings.TrimPrefix(raw, "##"), " "), true
}

// ConsumeDocRun scans lines[i:] for a contiguous run of doc-comment lines
// immediately preceding a documented node (spec §4.4) and joins their text
// with newlines. Returns ok=false if lines[i] isn't itself a doc-comment
// line, leaving next == i.
func ConsumeDocRun(lines []Line, i int, code *source.Code) (text string, span source.Span, next int, ok bool) {
	start := i
	var texts []string
	for i < len(lines) {
		t, lineOK := lines[i].docText(code)
		if !lineOK {
			break
		}
		texts = append(texts, t)
		i++
	}
	if len(texts) == 0 {
		return "", source.Span{}, start, false
	}
	return strings.Join(texts, "\n"), source.Join(lines[start].Span, lines[i-1].Span), i, true
}
