// Package parser orchestrates the full pipeline (spec §2 control flow):
// lexer -> block structurer -> macro resolver -> operator resolver,
// producing one immutable ast.Tree per call. Validation is not run here;
// callers that want it call pkgs/validator on the result. A Parser value
// owns no state across calls (spec §5: "safe to create many instances in
// parallel"); New returns a fresh one cheaply.
package parser

import (
	"github.com/ensolang/parser/pkgs/ast"
	"github.com/ensolang/parser/pkgs/block"
	"github.com/ensolang/parser/pkgs/diag"
	"github.com/ensolang/parser/pkgs/lexer"
	"github.com/ensolang/parser/pkgs/macro"
	"github.com/ensolang/parser/pkgs/operator"
	"github.com/ensolang/parser/pkgs/source"
	"github.com/ensolang/parser/pkgs/token"
)

// Parser holds only an optional trace logger; Parse is otherwise
// stateless, matching the teacher's per-call Parser construction idiom.
type Parser struct {
	log *diag.Logger
}

// New returns a Parser with trace logging disabled.
func New() *Parser { return &Parser{log: diag.Noop()} }

// NewTrace returns a Parser that emits resolver-level trace logs, for the
// debug CLI and diagnostics-heavy tests.
func NewTrace() *Parser { return &Parser{log: diag.NewTrace()} }

// Parse is the primary entry point (spec §6 `parse(source) -> Tree`): it
// always returns a tree, never an error — syntax problems surface as
// Invalid nodes in place (spec I4, P3).
func (p *Parser) Parse(src string) *ast.Tree {
	code := source.New(src)
	b := ast.NewBuilder()
	c := &pctx{b: b, code: code, log: p.log}

	toks := lexer.New(code).Tokenize()
	lines := block.Structure(toks, p.log)
	stmts := c.resolveLines(lines)

	span := source.Span{Start: 0, End: code.Len()}
	root := b.BodyBlock(span, stmts)
	b.Tree.Root = root
	return b.Tree
}

// Parse is the package-level convenience form of (*Parser).Parse.
func Parse(src string) *ast.Tree { return New().Parse(src) }

// pctx threads the shared builder/code/logger through the mutually
// recursive resolveLines/resolveStatement/resolveExpr methods, and
// supplies the callbacks pkgs/macro and pkgs/operator need to call back
// into expression/block resolution without importing pkgs/parser
// themselves (breaks the macro<->operator<->parser import cycle).
type pctx struct {
	b    *ast.Builder
	code *source.Code
	log  *diag.Logger
}

// resolveLines implements macro.BlockResolve: one statement node per
// non-blank line, each leading doc-comment run (spec §4.4) wrapped around
// its statement via Documented. Blank lines are omitted from the result
// (spec §4.3's "empty line `()`" placeholder is not materialized as a tree
// node in this implementation — see DESIGN.md).
func (c *pctx) resolveLines(lines []block.Line) []ast.NodeID {
	var out []ast.NodeID
	i := 0
	for i < len(lines) {
		if lines[i].Blank {
			i++
			continue
		}
		if docText, docSpan, next, ok := block.ConsumeDocRun(lines, i, c.code); ok {
			doc := c.b.DocBlock(docSpan, docText)
			j := next
			for j < len(lines) && lines[j].Blank {
				j++
			}
			if j >= len(lines) {
				out = append(out, doc)
				i = j
				continue
			}
			stmt := c.resolveStatement(lines[j])
			out = append(out, c.b.Documented(source.Join(docSpan, lines[j].Span), doc, stmt))
			i = j + 1
			continue
		}
		out = append(out, c.resolveStatement(lines[i]))
		i++
	}
	return out
}

// resolveStatement resolves one line (plus its nested block, if any) into
// a single statement node: a recognized macro, an assignment, or a plain
// expression possibly continued by an argument/operator block.
func (c *pctx) resolveStatement(line block.Line) ast.NodeID {
	toks := line.Tokens
	if len(toks) == 0 {
		return c.b.Invalid(line.Span, 0)
	}
	if node, ok := macro.TryResolve(c.b, c.code, toks, line.Block, c.resolveExpr, c.resolveLines, c.log); ok {
		return node
	}

	if eqIdx := topLevelOperatorTok(toks, c.code, "="); eqIdx >= 0 {
		lhs := c.resolveExpr(toks[:eqIdx])
		rhsToks := toks[eqIdx+1:]
		var rhs ast.NodeID
		switch {
		case len(rhsToks) == 0 && len(line.Block) > 0:
			rhs = c.bodyBlockNode(line.Block, line.Span)
		case len(rhsToks) == 0:
			rhs = c.b.Invalid(toks[eqIdx].Span, 0)
		default:
			rhs = c.resolveExpr(rhsToks)
		}
		return c.b.Assignment(line.Span, lhs, rhs)
	}

	base := c.resolveExpr(toks)
	if len(line.Block) == 0 {
		return base
	}
	if isOperatorBlock(line.Block) {
		return c.b.OperatorBlockApplication(c.blockSpan(line.Span, line.Block), base, c.operatorBlockLines(line.Block))
	}
	return c.b.ArgumentBlockApplication(c.blockSpan(line.Span, line.Block), base, c.resolveLines(line.Block))
}

// resolveExpr implements macro.ExprResolve: give a macro construct first
// refusal (so `if`/`case`/`\` starting a sub-expression resolve before
// falling into operator precedence), then hand the run to pkgs/operator.
// Any leftover unparsed run surfaces as an explicit Invalid node rather
// than silently vanishing.
func (c *pctx) resolveExpr(toks []token.Token) ast.NodeID {
	if len(toks) == 0 {
		return 0
	}
	if node, ok := macro.TryResolve(c.b, c.code, toks, nil, c.resolveExpr, c.resolveLines, c.log); ok {
		return node
	}
	node := operator.Resolve(c.b, c.code, toks, c.log, c.spliceParser, c.resolveMacroGroup)
	if node == 0 {
		return c.b.Invalid(spanOfRun(toks), 0)
	}
	return node
}

// resolveMacroGroup is the operator resolver's group-content macro hook
// (see pkgs/operator's resolveMacro field).
func (c *pctx) resolveMacroGroup(toks []token.Token) (ast.NodeID, bool) {
	return macro.TryResolve(c.b, c.code, toks, nil, c.resolveExpr, c.resolveLines, c.log)
}

// spliceParser implements text.ExprParser for backtick splices inside
// text literals (spec §4.7): lexes the splice's source slice on its own,
// then shifts every resulting token span by baseOffset so the produced
// nodes carry spans in the outer source's coordinate system, before
// resolving it exactly like any other expression run.
func (c *pctx) spliceParser(_ *ast.Builder, src string, baseOffset int) ast.NodeID {
	littleCode := source.New(src)
	raw := lexer.New(littleCode).Tokenize()
	toks := make([]token.Token, 0, len(raw))
	for _, t := range raw {
		if t.Kind == token.Newline {
			continue
		}
		t.Span.Start += baseOffset
		t.Span.End += baseOffset
		toks = append(toks, t)
	}
	return c.resolveExpr(toks)
}

func (c *pctx) bodyBlockNode(lines []block.Line, fallback source.Span) ast.NodeID {
	stmts := c.resolveLines(lines)
	span := fallback
	if len(stmts) > 0 {
		span = source.Join(c.b.Tree.Get(stmts[0]).Span, c.b.Tree.Get(stmts[len(stmts)-1]).Span)
	}
	return c.b.BodyBlock(span, stmts)
}

func (c *pctx) blockSpan(lineSpan source.Span, nested []block.Line) source.Span {
	if len(nested) == 0 {
		return lineSpan
	}
	return source.Join(lineSpan, nested[len(nested)-1].Span)
}

// isOperatorBlock reports whether a nested block is an operator block
// (spec §4.3): its first non-blank line begins with an operator token.
func isOperatorBlock(lines []block.Line) bool {
	for _, l := range lines {
		if l.Blank {
			continue
		}
		return len(l.Tokens) > 0 && l.Tokens[0].Kind == token.OperatorIdent
	}
	return false
}

func (c *pctx) operatorBlockLines(lines []block.Line) []ast.OprRHS {
	var out []ast.OprRHS
	for _, l := range lines {
		if l.Blank || len(l.Tokens) == 0 {
			continue
		}
		opr := l.Tokens[0]
		rhs := c.resolveExpr(l.Tokens[1:])
		out = append(out, ast.OprRHS{Opr: opr, RHS: rhs})
	}
	return out
}

// topLevelOperatorTok returns the index of the first depth-0 OperatorIdent
// token matching text, or -1.
func topLevelOperatorTok(toks []token.Token, code *source.Code, text string) int {
	depth := 0
	for i, t := range toks {
		switch t.Kind {
		case token.OpenParen, token.OpenBracket, token.OpenBrace:
			depth++
		case token.CloseParen, token.CloseBracket, token.CloseBrace:
			depth--
		}
		if depth == 0 && t.Kind == token.OperatorIdent && t.Text(code) == text {
			return i
		}
	}
	return -1
}

func spanOfRun(toks []token.Token) source.Span {
	if len(toks) == 0 {
		return source.Span{}
	}
	return source.Join(toks[0].Span, toks[len(toks)-1].Span)
}
