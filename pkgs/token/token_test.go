package token

import (
	"testing"

	"github.com/ensolang/parser/pkgs/source"
)

func TestTokenText(t *testing.T) {
	code := source.New("hello world")
	tok := Token{Kind: Ident, Span: source.Span{Start: 0, End: 5}}
	if got, want := tok.Text(code), "hello"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestIsKeywordText(t *testing.T) {
	for _, kw := range []string{"if", "then", "else", "case", "of", "type", "import", "foreign"} {
		if !IsKeywordText(kw) {
			t.Errorf("IsKeywordText(%q) = false, want true", kw)
		}
	}
	for _, ident := range []string{"foo", "ifx", "Type", ""} {
		if IsKeywordText(ident) {
			t.Errorf("IsKeywordText(%q) = true, want false", ident)
		}
	}
}

func TestKindString(t *testing.T) {
	if got, want := Ident.String(), "IDENT"; got != want {
		t.Errorf("Ident.String() = %q, want %q", got, want)
	}
	if got := Kind(9999).String(); got != "Kind(9999)" {
		t.Errorf("out-of-range Kind.String() = %q, want %q", got, "Kind(9999)")
	}
}
