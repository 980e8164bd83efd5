package macro

import (
	"testing"

	"github.com/ensolang/parser/pkgs/ast"
	"github.com/ensolang/parser/pkgs/block"
	"github.com/ensolang/parser/pkgs/lexer"
	"github.com/ensolang/parser/pkgs/operator"
	"github.com/ensolang/parser/pkgs/sexpr"
	"github.com/ensolang/parser/pkgs/source"
	"github.com/ensolang/parser/pkgs/token"
)

// testHarness wires a minimal resolveExpr/resolveBlock pair around
// operator.Resolve, enough to exercise macro handlers without going
// through the full pkgs/parser orchestrator.
type testHarness struct {
	b    *ast.Builder
	code *source.Code
}

func newHarness(src string) (*testHarness, []token.Token) {
	code := source.New(src)
	b := ast.NewBuilder()
	h := &testHarness{b: b, code: code}
	return h, lexer.New(code).Tokenize()
}

func (h *testHarness) resolveExpr(toks []token.Token) ast.NodeID {
	if len(toks) == 0 {
		return 0
	}
	if node, ok := TryResolve(h.b, h.code, toks, nil, h.resolveExpr, h.resolveBlock, nil); ok {
		return node
	}
	return operator.Resolve(h.b, h.code, toks, nil, nil, func(toks []token.Token) (ast.NodeID, bool) {
		return TryResolve(h.b, h.code, toks, nil, h.resolveExpr, h.resolveBlock, nil)
	})
}

func (h *testHarness) resolveBlock(lines []block.Line) []ast.NodeID { return nil }

func TestTryResolveIfThenElse(t *testing.T) {
	h, toks := newHarness("if True then 1 else 2")
	node, ok := TryResolve(h.b, h.code, toks, nil, h.resolveExpr, nil, nil)
	if !ok {
		t.Fatal("TryResolve did not recognize if/then/else")
	}
	h.b.Tree.Root = node
	want := "(MultiSegmentApp (Ident True) (Number 1) (Number 2))"
	if got := sexpr.Print(h.b.Tree); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestTryResolveIfWithoutThenIsInvalid(t *testing.T) {
	h, toks := newHarness("if True")
	node, ok := TryResolve(h.b, h.code, toks, nil, h.resolveExpr, nil, nil)
	if !ok {
		t.Fatal("TryResolve should still recognize the if keyword and report Invalid")
	}
	if h.b.Tree.Get(node).Tag != ast.TagInvalid {
		t.Errorf("tag = %v, want TagInvalid", h.b.Tree.Get(node).Tag)
	}
}

func TestTryResolveLambda(t *testing.T) {
	h, toks := newHarness(`\x -> x`)
	node, ok := TryResolve(h.b, h.code, toks, nil, h.resolveExpr, nil, nil)
	if !ok {
		t.Fatal("TryResolve did not recognize a lambda")
	}
	if h.b.Tree.Get(node).Tag != ast.TagLambda {
		t.Errorf("tag = %v, want TagLambda", h.b.Tree.Get(node).Tag)
	}
}

func TestTryResolveNonMacroFallsThrough(t *testing.T) {
	h, toks := newHarness("a b c")
	_, ok := TryResolve(h.b, h.code, toks, nil, h.resolveExpr, nil, nil)
	if ok {
		t.Fatal("TryResolve should refuse a plain application run")
	}
}

func TestTryResolveAnnotation(t *testing.T) {
	h, toks := newHarness("@Tail_Call")
	node, ok := TryResolve(h.b, h.code, toks, nil, h.resolveExpr, h.resolveBlock, nil)
	if !ok {
		t.Fatal("TryResolve did not recognize a builtin annotation")
	}
	if h.b.Tree.Get(node).Tag != ast.TagAnnotatedBuiltin {
		t.Errorf("tag = %v, want TagAnnotatedBuiltin", h.b.Tree.Get(node).Tag)
	}
}
