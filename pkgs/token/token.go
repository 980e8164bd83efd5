// Package token defines the lexical token kinds produced by pkgs/lexer and
// consumed by pkgs/block, pkgs/macro, and pkgs/operator.
package token

import (
	"fmt"

	"github.com/ensolang/parser/pkgs/source"
)

// Kind enumerates the token categories from spec §3.1. The ordering
// mirrors the teacher's TokenType const block: special tokens first, then
// structural delimiters, then literal/content tokens, then keyword-like
// identifiers distinguished contextually by the macro resolver rather than
// by the lexer itself (the lexer only ever emits Ident for those — see
// IsKeywordText).
type Kind int

const (
	EOF Kind = iota
	Illegal

	Ident         // bare identifier
	OperatorIdent // run of operator characters
	Number        // optional base prefix, integer part, optional fraction
	Wildcard      // _
	AutoscopeMarker
	SuspendedArgs // ...

	TextStart
	TextSection
	TextEscape
	TextSpliceStart
	TextSpliceEnd
	TextEnd

	Newline
	BlankLine // a line containing only whitespace

	DocComment // a "## ..." line, attached to the following node via Documented

	OpenParen
	CloseParen
	OpenBrace
	CloseBrace
	OpenBracket
	CloseBracket

	PrivateKeyword
	ForeignKeyword
)

var kindNames = [...]string{
	EOF:             "EOF",
	Illegal:         "ILLEGAL",
	Ident:           "IDENT",
	OperatorIdent:   "OPERATOR",
	Number:          "NUMBER",
	Wildcard:        "WILDCARD",
	AutoscopeMarker: "AUTOSCOPE",
	SuspendedArgs:   "SUSPENDED_ARGS",
	TextStart:       "TEXT_START",
	TextSection:     "TEXT_SECTION",
	TextEscape:      "TEXT_ESCAPE",
	TextSpliceStart: "TEXT_SPLICE_START",
	TextSpliceEnd:   "TEXT_SPLICE_END",
	TextEnd:         "TEXT_END",
	Newline:         "NEWLINE",
	BlankLine:       "BLANK_LINE",
	DocComment:      "DOC_COMMENT",
	OpenParen:       "LPAREN",
	CloseParen:      "RPAREN",
	OpenBrace:       "LBRACE",
	CloseBrace:      "RBRACE",
	OpenBracket:     "LBRACKET",
	CloseBracket:    "RBRACKET",
	PrivateKeyword:  "PRIVATE",
	ForeignKeyword:  "FOREIGN",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// keywordTexts are the identifiers the macro resolver treats as segment
// keywords when they appear in macro-start position. The lexer itself
// always classifies them as Ident; distinguishing "if" the keyword from
// "if" used as a plain identifier is the macro resolver's job (spec §4.4),
// not the lexer's — mirrors the teacher's decision to keep token
// classification context-free and push context sensitivity into the
// resolvers that need it.
var keywordTexts = map[string]bool{
	"if": true, "then": true, "else": true,
	"case": true, "of": true,
	"type": true,
	"import": true, "export": true, "from": true, "as": true, "hiding": true, "all": true,
	"polyglot": true,
	"private":  true,
	"foreign":  true,
	"FREEZE":   true, "SKIP": true,
}

// IsKeywordText reports whether an Ident's text is one of the reserved
// macro-segment keywords.
func IsKeywordText(text string) bool { return keywordTexts[text] }

// Token is (kind, leading_whitespace_width, source_slice) per spec §3.1,
// plus the escape/splice payload fields needed by TextEscape/TextSplice
// elements (spec §4.7).
type Token struct {
	Kind Kind
	Span source.Span

	// LeadingWhitespace is the UTF-16 width of whitespace between the end
	// of the previous token and the start of this one. Trailing
	// whitespace for precedence-demotion purposes (spec §4.5, §9) is
	// simply the LeadingWhitespace of the *next* token — never stored
	// redundantly, so there is nothing to keep in sync.
	LeadingWhitespace int

	// IndentWidth is the whitespace width from the start of the current
	// line to this token, valid only on the first token of a line (used
	// by pkgs/block).
	IndentWidth int
	AtLineStart bool

	// NumberBase is set for Number tokens with a base prefix (0x/0o/0b);
	// zero value means decimal.
	NumberBase int
	// HasFraction records whether a Number token's lexeme included a
	// fractional part, since the fractional digits themselves are part of
	// the Span's source slice and need no separate storage.
	HasFraction bool

	// EscapeCodepoint is set for TextEscape tokens (spec §4.2): the
	// resolved codepoint, or 0xFFFFFFFF for a malformed numeric escape.
	EscapeCodepoint rune

	// Text-literal metadata, set on TextStart tokens so pkgs/text can
	// re-decompose the literal's body without re-deriving quote/triple
	// state from the raw slice.
	Quote       rune
	Triple      bool
	Unterminated bool
}

// Text extracts the token's raw source slice.
func (t Token) Text(code *source.Code) string { return code.SliceOf(t.Span) }

// MalformedEscape is the sentinel codepoint for an unparsable numeric
// escape sequence (spec §4.2): -1 as a rune, i.e. the bit pattern
// 0xFFFFFFFF when read as uint32.
const MalformedEscape rune = -1
