package lexer

import (
	"testing"

	"github.com/ensolang/parser/pkgs/source"
	"github.com/ensolang/parser/pkgs/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func texts(code *source.Code, toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Text(code)
	}
	return out
}

func kindsEqual(t *testing.T, got, want []token.Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", got, want)
		}
	}
}

func TestTokenizeApplication(t *testing.T) {
	code := source.New("a b c")
	toks := New(code).Tokenize()
	kindsEqual(t, kinds(toks), []token.Kind{token.Ident, token.Ident, token.Ident})
	wantTexts := []string{"a", "b", "c"}
	got := texts(code, toks)
	for i, w := range wantTexts {
		if got[i] != w {
			t.Errorf("token %d text = %q, want %q", i, got[i], w)
		}
	}
}

func TestTokenizeNumberWithFraction(t *testing.T) {
	code := source.New("0xFF 1.5")
	toks := New(code).Tokenize()
	kindsEqual(t, kinds(toks), []token.Kind{token.Number, token.Number})
	if toks[0].NumberBase != 16 {
		t.Errorf("NumberBase = %d, want 16", toks[0].NumberBase)
	}
	if !toks[1].HasFraction {
		t.Error("second number HasFraction = false, want true")
	}
}

func TestLexOperatorSplitsTrailingDash(t *testing.T) {
	// spec §4.2: "y+-z" splits into "+","-" touching the operand, but a
	// spaced run "y +- z" stays one token for the operator resolver to
	// flag.
	code := source.New("y+-z")
	toks := New(code).Tokenize()
	kindsEqual(t, kinds(toks), []token.Kind{token.Ident, token.OperatorIdent, token.OperatorIdent, token.Ident})
	got := texts(code, toks)
	if got[1] != "+" || got[2] != "-" {
		t.Errorf("operator split = %q, %q, want \"+\", \"-\"", got[1], got[2])
	}

	spaced := source.New("y +- z")
	spacedToks := New(spaced).Tokenize()
	kindsEqual(t, kinds(spacedToks), []token.Kind{token.Ident, token.OperatorIdent, token.Ident})
	if got := spacedToks[1].Text(spaced); got != "+-" {
		t.Errorf("spaced operator run = %q, want \"+-\"", got)
	}
}

func TestLexAutoscopeAndSuspendedArgs(t *testing.T) {
	code := source.New("..Foo ...")
	toks := New(code).Tokenize()
	kindsEqual(t, kinds(toks), []token.Kind{token.AutoscopeMarker, token.Ident, token.SuspendedArgs})
}

func TestLexWildcard(t *testing.T) {
	code := source.New("_ __ a")
	toks := New(code).Tokenize()
	kindsEqual(t, kinds(toks), []token.Kind{token.Wildcard, token.Wildcard, token.Ident})
}

func TestLexIndentMetadata(t *testing.T) {
	code := source.New("a\n  b")
	toks := New(code).Tokenize()
	// a, newline, b
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3: %v", len(toks), kinds(toks))
	}
	b := toks[2]
	if !b.AtLineStart {
		t.Error("b.AtLineStart = false, want true")
	}
	if b.IndentWidth != 2 {
		t.Errorf("b.IndentWidth = %d, want 2", b.IndentWidth)
	}
}

func TestLexCommentSkipped(t *testing.T) {
	code := source.New("a # trailing comment\nb")
	toks := New(code).Tokenize()
	kindsEqual(t, kinds(toks), []token.Kind{token.Ident, token.Newline, token.Ident})
}

func TestLexLambdaAndAnnotationMarkers(t *testing.T) {
	// "\" (lambda) and "@" (annotation) must lex as single-character
	// OperatorIdent tokens, not Illegal, so the macro resolver's
	// isMacroStartToken check can ever match them.
	code := source.New(`\x -> x`)
	toks := New(code).Tokenize()
	if toks[0].Kind != token.OperatorIdent || toks[0].Text(code) != `\` {
		t.Fatalf("first token = %v %q, want OperatorIdent \"\\\\\"", toks[0].Kind, toks[0].Text(code))
	}

	annCode := source.New("@Tail_Call")
	annToks := New(annCode).Tokenize()
	if annToks[0].Kind != token.OperatorIdent || annToks[0].Text(annCode) != "@" {
		t.Fatalf("first token = %v %q, want OperatorIdent \"@\"", annToks[0].Kind, annToks[0].Text(annCode))
	}
}

func TestLexUnterminatedSingleLineText(t *testing.T) {
	code := source.New("'abc")
	toks := New(code).Tokenize()
	if len(toks) != 1 || toks[0].Kind != token.TextStart {
		t.Fatalf("got %v, want single TextStart", kinds(toks))
	}
	if !toks[0].Unterminated {
		t.Error("Unterminated = false, want true")
	}
}
