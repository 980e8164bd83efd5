package text

import (
	"testing"

	"github.com/ensolang/parser/pkgs/ast"
	"github.com/ensolang/parser/pkgs/lexer"
	"github.com/ensolang/parser/pkgs/source"
	"github.com/ensolang/parser/pkgs/token"
)

func noopParse(b *ast.Builder, src string, baseOffset int) ast.NodeID {
	return b.Ident(token.Token{Span: source.Span{Start: baseOffset, End: baseOffset + len(src)}}, src)
}

func lexOneTextToken(t *testing.T, src string) (*source.Code, token.Token) {
	t.Helper()
	code := source.New(src)
	toks := lexer.New(code).Tokenize()
	if len(toks) != 1 || toks[0].Kind != token.TextStart {
		t.Fatalf("lexing %q produced %v, want a single TextStart", src, toks)
	}
	return code, toks[0]
}

func TestDecomposeSingleQuoteInterpolatesEscapes(t *testing.T) {
	code, tok := lexOneTextToken(t, `'a\nb'`)
	elems := Decompose(ast.NewBuilder(), tok, code, noopParse)

	if len(elems) != 3 {
		t.Fatalf("got %d elements, want 3: %+v", len(elems), elems)
	}
	if elems[0].Kind != ast.TextElemSection || elems[0].Raw != "a" {
		t.Errorf("elem 0 = %+v, want Section \"a\"", elems[0])
	}
	if elems[1].Kind != ast.TextElemEscape || elems[1].Codepoint != '\n' {
		t.Errorf("elem 1 = %+v, want Escape '\\n'", elems[1])
	}
	if elems[2].Kind != ast.TextElemSection || elems[2].Raw != "b" {
		t.Errorf("elem 2 = %+v, want Section \"b\"", elems[2])
	}
}

func TestDecomposeDoubleQuoteIsRaw(t *testing.T) {
	code, tok := lexOneTextToken(t, `"a\nb"`)
	elems := Decompose(ast.NewBuilder(), tok, code, noopParse)

	if len(elems) != 1 {
		t.Fatalf("got %d elements, want 1: %+v", len(elems), elems)
	}
	if elems[0].Kind != ast.TextElemSection || elems[0].Raw != `a\nb` {
		t.Errorf("elem 0 = %+v, want raw Section %q", elems[0], `a\nb`)
	}
}

func TestDecomposeSpliceInvokesParser(t *testing.T) {
	var gotSrc string
	var gotBase int
	parse := func(b *ast.Builder, src string, baseOffset int) ast.NodeID {
		gotSrc, gotBase = src, baseOffset
		return noopParse(b, src, baseOffset)
	}
	code, tok := lexOneTextToken(t, "'x`y`z'")
	elems := Decompose(ast.NewBuilder(), tok, code, parse)

	if len(elems) != 3 {
		t.Fatalf("got %d elements, want 3: %+v", len(elems), elems)
	}
	if elems[1].Kind != ast.TextElemSplice || elems[1].Splice == 0 {
		t.Fatalf("elem 1 = %+v, want a resolved Splice", elems[1])
	}
	if gotSrc != "y" {
		t.Errorf("splice source = %q, want \"y\"", gotSrc)
	}
	if got, want := code.SliceOf(source.Span{Start: gotBase, End: gotBase + 1}), "y"; got != want {
		t.Errorf("splice baseOffset pointed at %q, want %q", got, want)
	}
}

func TestDecomposeUnicodeEscapes(t *testing.T) {
	code, tok := lexOneTextToken(t, `'\x41\u{48}'`)
	elems := Decompose(ast.NewBuilder(), tok, code, noopParse)
	if len(elems) != 2 {
		t.Fatalf("got %d elements, want 2: %+v", len(elems), elems)
	}
	if elems[0].Codepoint != 'A' {
		t.Errorf("first escape = %q, want 'A'", elems[0].Codepoint)
	}
	if elems[1].Codepoint != 'H' {
		t.Errorf("second escape = %q, want 'H'", elems[1].Codepoint)
	}
}

func TestDecomposeTripleQuoteBlockStripsIndent(t *testing.T) {
	src := "'''\n  line one\n  line two'''"
	code, tok := lexOneTextToken(t, src)
	elems := Decompose(ast.NewBuilder(), tok, code, noopParse)

	var sections []string
	for _, e := range elems {
		if e.Kind == ast.TextElemSection {
			sections = append(sections, e.Raw)
		}
	}
	want := []string{"line one", "line two"}
	if len(sections) != len(want) {
		t.Fatalf("sections = %v, want %v", sections, want)
	}
	for i := range want {
		if sections[i] != want[i] {
			t.Errorf("section %d = %q, want %q", i, sections[i], want[i])
		}
	}
}
