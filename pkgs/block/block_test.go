package block

import (
	"testing"

	"github.com/ensolang/parser/pkgs/lexer"
	"github.com/ensolang/parser/pkgs/source"
)

func tokenTexts(code *source.Code, lines []Line) [][]string {
	out := make([][]string, len(lines))
	for i, l := range lines {
		for _, tok := range l.Tokens {
			out[i] = append(out[i], tok.Text(code))
		}
	}
	return out
}

func TestStructureFlatLines(t *testing.T) {
	code := source.New("a\nb\nc")
	toks := lexer.New(code).Tokenize()
	lines := Structure(toks, nil)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	for i, want := range []string{"a", "b", "c"} {
		if len(lines[i].Tokens) != 1 || lines[i].Tokens[0].Text(code) != want {
			t.Errorf("line %d = %v, want [%s]", i, tokenTexts(code, lines[i:i+1]), want)
		}
		if len(lines[i].Block) != 0 {
			t.Errorf("line %d has nested block, want none", i)
		}
	}
}

func TestStructureNestedBlock(t *testing.T) {
	code := source.New("foo\n  bar\n  baz\nqux")
	toks := lexer.New(code).Tokenize()
	lines := Structure(toks, nil)
	if len(lines) != 2 {
		t.Fatalf("got %d top-level lines, want 2 (foo, qux): %v", len(lines), tokenTexts(code, lines))
	}
	if got := lines[0].Tokens[0].Text(code); got != "foo" {
		t.Fatalf("first line = %q, want foo", got)
	}
	if len(lines[0].Block) != 2 {
		t.Fatalf("foo's block has %d lines, want 2", len(lines[0].Block))
	}
	if got := lines[0].Block[0].Tokens[0].Text(code); got != "bar" {
		t.Errorf("nested line 0 = %q, want bar", got)
	}
	if got := lines[0].Block[1].Tokens[0].Text(code); got != "baz" {
		t.Errorf("nested line 1 = %q, want baz", got)
	}
	if got := lines[1].Tokens[0].Text(code); got != "qux" {
		t.Errorf("second top-level line = %q, want qux", got)
	}
}

func TestStructureBadIndentAbsorption(t *testing.T) {
	// A line indented less than its immediate sibling, but still more than
	// the enclosing line, stays absorbed into the same block (spec §4.3's
	// "bad_indents" rule) rather than popping out.
	code := source.New("foo\n    bar\n  baz\nqux")
	toks := lexer.New(code).Tokenize()
	lines := Structure(toks, nil)
	if len(lines) != 2 {
		t.Fatalf("got %d top-level lines, want 2: %v", len(lines), tokenTexts(code, lines))
	}
	if len(lines[0].Block) != 2 {
		t.Fatalf("foo's block has %d lines, want 2 (bar, baz both absorbed)", len(lines[0].Block))
	}
}

func TestStructureBlankLinePreserved(t *testing.T) {
	code := source.New("foo\n\nbar")
	toks := lexer.New(code).Tokenize()
	lines := Structure(toks, nil)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (foo, blank, bar)", len(lines))
	}
	if !lines[1].Blank {
		t.Error("middle line Blank = false, want true")
	}
}
