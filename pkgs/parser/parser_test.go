package parser

import (
	"testing"

	"github.com/ensolang/parser/pkgs/sexpr"
)

// TestParseGoldenExpressions checks the worked examples against their
// s-expression rendering, one case per documented scenario.
func TestParseGoldenExpressions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain application chain is left-associative",
			input: "a b c",
			want:  "(BodyBlock (App (App (Ident a) (Ident b)) (Ident c)))",
		},
		{
			name:  "multiplication binds tighter than addition",
			input: "x * y + z",
			want:  "(BodyBlock (OprApp + (OprApp * (Ident x) (Ident y)) (Ident z)))",
		},
		{
			name:  "arrows are right-associative",
			input: "x --> y ---> z",
			want:  "(BodyBlock (OprApp --> (Ident x) (OprApp ---> (Ident y) (Ident z))))",
		},
		{
			name:  "if/then/else is a multi-segment macro",
			input: "if True then True else False",
			want:  "(BodyBlock (MultiSegmentApp (Ident True) (Ident True) (Ident False)))",
		},
		{
			name:  "assignment to an invalid RHS",
			input: "foo = )",
			want:  "(BodyBlock (Assignment (Ident foo) (Invalid)))",
		},
		{
			name:  "unspaced trailing dash splits into binary plus unary",
			input: "y+-z",
			want:  "(BodyBlock (OprApp + (Ident y) (UnaryOprApp - (Ident z))))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := Parse(tt.input)
			if got := sexpr.Print(tree); got != tt.want {
				t.Errorf("Parse(%q) =\n  %s\nwant\n  %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSpacedTrailingDashIsInvalid(t *testing.T) {
	tree := Parse("y +- z")
	got := sexpr.Print(tree)
	if !containsTag(got, "Invalid") {
		t.Errorf("Parse(%q) = %s, want it to contain an Invalid node for the ambiguous spaced run", "y +- z", got)
	}
}

func TestParseTypeDefWithConstructors(t *testing.T) {
	src := "type Geo\n    Circle\n        radius\n    Point"
	tree := Parse(src)
	got := sexpr.Print(tree)
	want := "(BodyBlock (TypeDef Geo (ConstructorDefinition Circle (Ident radius)) (ConstructorDefinition Point)))"
	if got != want {
		t.Errorf("Parse(%q) =\n  %s\nwant\n  %s", src, got, want)
	}
}

func TestParseTemplateFunctionWildcards(t *testing.T) {
	// "_.map (_ + 2*3) _*7" builds nested template functions around each
	// wildcard's containing expression (spec §4.5).
	src := "_.map (_ + 2*3) _*7"
	tree := Parse(src)
	got := sexpr.Print(tree)
	if !containsTag(got, "TemplateFunction") {
		t.Fatalf("Parse(%q) = %s, want at least one TemplateFunction", src, got)
	}
	// Three independent wildcards each introduce their own TemplateFunction
	// wrapper: the receiver "_", the grouped "_ + 2*3", and "_*7".
	if n := countOccurrences(got, "TemplateFunction"); n < 3 {
		t.Errorf("Parse(%q) has %d TemplateFunction wrappers in %s, want at least 3", src, n, got)
	}
}

func containsTag(sexprText, tag string) bool {
	return countOccurrences(sexprText, tag) > 0
}

func countOccurrences(haystack, needle string) int {
	count := 0
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			count++
		}
	}
	return count
}

func TestParseEmptySource(t *testing.T) {
	tree := Parse("")
	if got, want := sexpr.Print(tree), "(BodyBlock)"; got != want {
		t.Errorf("Parse(\"\") = %q, want %q", got, want)
	}
}

func TestParseNestedArgumentBlock(t *testing.T) {
	src := "f\n    1\n    2"
	tree := Parse(src)
	got := sexpr.Print(tree)
	want := "(BodyBlock (ArgumentBlockApplication (Ident f) (Number 1) (Number 2)))"
	if got != want {
		t.Errorf("Parse(%q) =\n  %s\nwant\n  %s", src, got, want)
	}
}
