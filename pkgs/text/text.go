// Package text implements the escape/splice engine from spec §4.7: it
// decomposes a lexer TextStart token's source slice into an ordered
// element list of Section/Escape/Splice/Newline pieces.
package text

import (
	"strconv"
	"strings"

	"github.com/ensolang/parser/pkgs/ast"
	"github.com/ensolang/parser/pkgs/source"
	"github.com/ensolang/parser/pkgs/token"
)

// ExprParser recursively invokes the expression pipeline (lexer -> block
// -> macro -> operator, spec §4.2-§4.5) for splice contents. Injected by
// pkgs/parser to avoid an import cycle between pkgs/text and pkgs/parser.
type ExprParser func(builder *ast.Builder, src string, baseOffset int) ast.NodeID

// Decompose turns a TextStart token into the TextLiteral's element list,
// per the real Enso convention this spec follows: single-quoted strings
// are interpolated (escapes and backtick splices are interpreted);
// double-quoted strings are raw (content is taken verbatim).
func Decompose(b *ast.Builder, tok token.Token, code *source.Code, parse ExprParser) []ast.TextElement {
	delimWidth := 1
	if tok.Triple {
		delimWidth = 3
	}
	bodyStart := tok.Span.Start + delimWidth
	bodyEnd := tok.Span.End
	if !tok.Unterminated {
		bodyEnd -= delimWidth
	}
	if bodyEnd < bodyStart {
		bodyEnd = bodyStart
	}
	body := code.Slice(bodyStart, bodyEnd)

	if tok.Triple {
		return decomposeBlock(b, body, bodyStart, tok.Quote == '\'', parse)
	}

	interpret := tok.Quote == '\''
	return decomposeLine(b, body, bodyStart, interpret, parse)
}

func decomposeLine(b *ast.Builder, body string, baseOffset int, interpret bool, parse ExprParser) []ast.TextElement {
	var elems []ast.TextElement
	runes := []rune(body)
	i := 0
	sectionStart := 0

	flushSection := func(end int) {
		if end > sectionStart {
			elems = append(elems, ast.TextElement{
				Kind: ast.TextElemSection,
				Span: u16Span(runes, sectionStart, end, baseOffset),
				Raw:  string(runes[sectionStart:end]),
			})
		}
	}

	for i < len(runes) {
		ch := runes[i]
		if interpret && ch == '\\' && i+1 < len(runes) {
			flushSection(i)
			cp, width := resolveEscape(runes[i:])
			elems = append(elems, ast.TextElement{
				Kind:      ast.TextElemEscape,
				Span:      u16Span(runes, i, i+width, baseOffset),
				Codepoint: cp,
			})
			i += width
			sectionStart = i
			continue
		}
		if interpret && ch == '`' {
			flushSection(i)
			start := i
			i++
			spliceStart := i
			for i < len(runes) && runes[i] != '`' {
				i++
			}
			spliceSrc := string(runes[spliceStart:i])
			if i < len(runes) {
				i++ // closing backtick
			}
			node := parse(b, spliceSrc, baseOffset+runeOffset(runes, spliceStart))
			elems = append(elems, ast.TextElement{
				Kind:   ast.TextElemSplice,
				Span:   u16Span(runes, start, i, baseOffset),
				Splice: node,
			})
			sectionStart = i
			continue
		}
		i++
	}
	flushSection(len(runes))
	return elems
}

func decomposeBlock(b *ast.Builder, body string, baseOffset int, interpret bool, parse ExprParser) []ast.TextElement {
	lines := strings.Split(body, "\n")
	minIndent := -1
	for _, ln := range lines[1:] {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		indent := len(ln) - len(strings.TrimLeft(ln, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent < 0 {
		minIndent = 0
	}

	var elems []ast.TextElement
	offset := baseOffset
	for li, ln := range lines {
		content := ln
		stripped := 0
		if li > 0 && len(ln) >= minIndent {
			content = ln[minIndent:]
			stripped = minIndent
		}
		lineOffset := offset + stripped
		sub := decomposeLine(b, content, lineOffset, interpret, parse)
		elems = append(elems, sub...)
		offset += len([]rune(ln))
		if li != len(lines)-1 {
			elems = append(elems, ast.TextElement{Kind: ast.TextElemNewline})
			offset++ // the '\n' itself
		}
	}
	return elems
}

// resolveEscape interprets one backslash escape starting at runes[0] == '\\'
// and returns its codepoint and its width in runes (spec §4.2: \n \t \'
// plus numeric \xHH \uHHHH \u{H...} \UHHHHHHHH). Malformed numeric escapes
// resolve to token.MalformedEscape.
func resolveEscape(runes []rune) (rune, int) {
	if len(runes) < 2 {
		return token.MalformedEscape, len(runes)
	}
	switch runes[1] {
	case 'n':
		return '\n', 2
	case 't':
		return '\t', 2
	case '\'':
		return '\'', 2
	case '\\':
		return '\\', 2
	case 'x':
		return parseHexEscape(runes, 2, 2)
	case 'u':
		if len(runes) > 2 && runes[2] == '{' {
			end := 3
			for end < len(runes) && runes[end] != '}' {
				end++
			}
			if end >= len(runes) {
				return token.MalformedEscape, len(runes)
			}
			hex := string(runes[3:end])
			v, err := strconv.ParseInt(hex, 16, 32)
			if err != nil {
				return token.MalformedEscape, end + 1
			}
			return rune(v), end + 1
		}
		return parseHexEscape(runes, 2, 4)
	case 'U':
		return parseHexEscape(runes, 2, 8)
	default:
		return token.MalformedEscape, 2
	}
}

func parseHexEscape(runes []rune, start, digits int) (rune, int) {
	end := start + digits
	if end > len(runes) {
		return token.MalformedEscape, len(runes)
	}
	hex := string(runes[start:end])
	v, err := strconv.ParseInt(hex, 16, 64)
	if err != nil {
		return token.MalformedEscape, end
	}
	return rune(v), end
}

func u16Span(runes []rune, from, to, baseOffset int) source.Span {
	return source.Span{
		Start: baseOffset + runeOffset(runes, from),
		End:   baseOffset + runeOffset(runes, to),
	}
}

// runeOffset converts a rune index within runes into a UTF-16 code-unit
// offset relative to the start of runes.
func runeOffset(runes []rune, idx int) int {
	n := 0
	for _, r := range runes[:idx] {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}
