package sexpr

import (
	"testing"

	"github.com/ensolang/parser/pkgs/ast"
	"github.com/ensolang/parser/pkgs/source"
	"github.com/ensolang/parser/pkgs/token"
)

func span(start, end int) source.Span { return source.Span{Start: start, End: end} }

func identTok(start, end int) token.Token {
	return token.Token{Kind: token.Ident, Span: span(start, end)}
}

func TestPrintEmptyTree(t *testing.T) {
	if got, want := Print(ast.NewTree()), "()"; got != want {
		t.Errorf("Print(empty) = %q, want %q", got, want)
	}
}

func TestPrintApp(t *testing.T) {
	b := ast.NewBuilder()
	f := b.Ident(identTok(0, 1), "f")
	x := b.Ident(identTok(2, 3), "x")
	app := b.App(span(0, 3), f, x)
	b.Tree.Root = app

	got := Print(b.Tree)
	want := "(App (Ident f) (Ident x))"
	if got != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}
}

func TestPrintMissingOperandOmitted(t *testing.T) {
	b := ast.NewBuilder()
	rhs := b.Number(span(1, 2), 0, "5", "", false)
	opr := b.OprApp(span(0, 2), 0, identTok(0, 1), "+", rhs, false)
	b.Tree.Root = opr

	got := Print(b.Tree)
	want := "(OprApp + (Number 5))"
	if got != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}
}
