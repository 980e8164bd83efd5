// Package macro recognizes the keyword-segmented constructs of spec §4.4
// (if/then/else, case/of, type, import/export/polyglot, foreign, lambda,
// FREEZE/SKIP, @annotation) by scanning a line's tokens for a registered
// segment keyword in macro-start position, before operator precedence
// resolution runs. Resolution never recurses on segment count: each
// handler loops over the segment list using the line's already-built
// Block (pkgs/block has no notion of recursion depth tied to input size).
package macro

import (
	"strings"

	"github.com/ensolang/parser/pkgs/ast"
	"github.com/ensolang/parser/pkgs/block"
	"github.com/ensolang/parser/pkgs/diag"
	"github.com/ensolang/parser/pkgs/perror"
	"github.com/ensolang/parser/pkgs/source"
	"github.com/ensolang/parser/pkgs/token"
)

// ExprResolve turns a flat (macro-free or macro-containing) token run into
// one expression node; injected by pkgs/parser so this package needn't
// import pkgs/operator (which in turn needs to call back into macro for
// parenthesized lambdas — the cycle is broken by routing both through the
// orchestrator).
type ExprResolve func(toks []token.Token) ast.NodeID

// BlockResolve turns a nested block's lines into one statement node per
// line; injected by pkgs/parser.
type BlockResolve func(lines []block.Line) []ast.NodeID

// builtinAnnotations is the fixed builtin annotation set that resolves to
// AnnotatedBuiltin instead of the generic Annotated node (spec §4.4).
var builtinAnnotations = map[string]bool{
	"Tail_Call":    true,
	"Builtin_Type": true,
}

// segmentKeywords is the static table of first-segment keywords this
// resolver recognizes (spec §9 "macro segment table"): no macro's shape is
// hard-coded into the dispatch itself, only into the per-macro handler its
// keyword maps to.
var segmentKeywords = map[string]func(ctx *ctx) (ast.NodeID, bool){}

func init() {
	segmentKeywords["if"] = (*ctx).resolveIf
	segmentKeywords["case"] = (*ctx).resolveCase
	segmentKeywords["type"] = (*ctx).resolveType
	segmentKeywords["import"] = (*ctx).resolveImport
	segmentKeywords["export"] = (*ctx).resolveExport
	segmentKeywords["from"] = (*ctx).resolveFrom
	segmentKeywords["polyglot"] = (*ctx).resolvePolyglot
	segmentKeywords["foreign"] = (*ctx).resolveForeign
	segmentKeywords["FREEZE"] = (*ctx).resolveFreezeSkip
	segmentKeywords["SKIP"] = (*ctx).resolveFreezeSkip
}

type ctx struct {
	b            *ast.Builder
	code         *source.Code
	toks         []token.Token
	nested       []block.Line
	resolveExpr  ExprResolve
	resolveBlock BlockResolve
	log          *diag.Logger
}

// TryResolve attempts to recognize a macro at the start of toks. nested is
// the line's following indented block, if any (nil for a sub-run that
// isn't a whole line, e.g. one side of a top-level "="). Returns the
// built node and true on recognition, or (0, false) if toks does not
// start with a registered macro keyword (the caller should fall back to
// plain expression/application resolution).
func TryResolve(b *ast.Builder, code *source.Code, toks []token.Token, nested []block.Line, resolveExpr ExprResolve, resolveBlock BlockResolve, log *diag.Logger) (ast.NodeID, bool) {
	if len(toks) == 0 {
		return 0, false
	}
	first := toks[0]
	text := first.Text(code)

	if first.Kind == token.OperatorIdent && text == "\\" {
		c := &ctx{b: b, code: code, toks: toks, nested: nested, resolveExpr: resolveExpr, resolveBlock: resolveBlock, log: log}
		return c.resolveLambda()
	}
	if first.Kind == token.OperatorIdent && text == "@" && len(toks) > 1 && toks[1].Kind == token.Ident && toks[1].LeadingWhitespace == 0 {
		c := &ctx{b: b, code: code, toks: toks, nested: nested, resolveExpr: resolveExpr, resolveBlock: resolveBlock, log: log}
		return c.resolveAnnotation()
	}
	if first.Kind != token.Ident || !token.IsKeywordText(text) {
		return 0, false
	}
	handler, ok := segmentKeywords[text]
	if !ok {
		return 0, false
	}
	c := &ctx{b: b, code: code, toks: toks, nested: nested, resolveExpr: resolveExpr, resolveBlock: resolveBlock, log: log}
	if log != nil {
		log.Segment(text, text, 0)
	}
	return handler(c)
}

// findKeyword returns the index of the next top-level occurrence (depth 0)
// of one of the given keyword texts at or after `from`, or -1.
func (c *ctx) findKeyword(from int, kws ...string) int {
	depth := 0
	for i := from; i < len(c.toks); i++ {
		t := c.toks[i]
		switch t.Kind {
		case token.OpenParen, token.OpenBracket, token.OpenBrace:
			depth++
		case token.CloseParen, token.CloseBracket, token.CloseBrace:
			depth--
		}
		if depth != 0 || t.Kind != token.Ident {
			continue
		}
		text := t.Text(c.code)
		for _, kw := range kws {
			if text == kw {
				return i
			}
		}
	}
	return -1
}

func (c *ctx) span(from, to int) source.Span {
	if from >= len(c.toks) {
		if to > 0 && to <= len(c.toks) {
			return c.toks[to-1].Span
		}
		return source.Span{}
	}
	end := to
	if end > len(c.toks) {
		end = len(c.toks)
	}
	if end <= from {
		return c.toks[from].Span
	}
	return source.Join(c.toks[from].Span, c.toks[end-1].Span)
}

func (c *ctx) fullSpan() source.Span { return c.span(0, len(c.toks)) }

// bodyBlockFromNested wraps the line's nested block (if non-empty) into a
// BodyBlock node, for use as a line-terminal macro segment's body.
func (c *ctx) bodyBlockFromNested() (ast.NodeID, bool) {
	if len(c.nested) == 0 {
		return 0, false
	}
	lines := c.resolveBlock(c.nested)
	span := c.fullSpan()
	if len(lines) > 0 {
		span = source.Join(c.b.Tree.Get(lines[0]).Span, c.b.Tree.Get(lines[len(lines)-1]).Span)
	}
	return c.b.BodyBlock(span, lines), true
}

// ---- if/then/else ----

func (c *ctx) resolveIf() (ast.NodeID, bool) {
	thenIdx := c.findKeyword(1, "then")
	if thenIdx < 0 {
		return c.invalid("if without then")
	}
	cond := c.resolveExpr(c.toks[1:thenIdx])

	elseIdx := c.findKeyword(thenIdx+1, "else")
	var thenBody, elseBody ast.NodeID
	var thenHasBody, elseHasBody = true, false
	if elseIdx < 0 {
		if thenIdx == len(c.toks)-1 {
			body, ok := c.bodyBlockFromNested()
			thenBody, thenHasBody = body, ok
		} else {
			thenBody = c.resolveExpr(c.toks[thenIdx+1:])
		}
	} else {
		thenBody = c.resolveExpr(c.toks[thenIdx+1 : elseIdx])
		if elseIdx == len(c.toks)-1 {
			body, ok := c.bodyBlockFromNested()
			elseBody, elseHasBody = body, ok
		} else {
			elseBody = c.resolveExpr(c.toks[elseIdx+1:])
			elseHasBody = true
		}
	}

	segs := []ast.Segment{
		{Keyword: c.toks[0], HasBody: true, Body: cond},
		{Keyword: c.toks[thenIdx], HasBody: thenHasBody, Body: thenBody},
	}
	if elseIdx >= 0 {
		segs = append(segs, ast.Segment{Keyword: c.toks[elseIdx], HasBody: elseHasBody, Body: elseBody})
	}
	return c.b.MultiSegmentApp(c.fullSpan(), segs), true
}

// ---- case EXPR of ----

func (c *ctx) resolveCase() (ast.NodeID, bool) {
	ofIdx := c.findKeyword(1, "of")
	if ofIdx < 0 {
		return c.invalid("case without of")
	}
	scrutinee := c.resolveExpr(c.toks[1:ofIdx])
	if ofIdx != len(c.toks)-1 {
		return c.invalid("case...of arms must be a block")
	}
	var arms []ast.CaseArm
	i := 0
	for i < len(c.nested) {
		if c.nested[i].Blank {
			i++
			continue
		}
		var doc ast.NodeID
		if docText, docSpan, next, ok := block.ConsumeDocRun(c.nested, i, c.code); ok {
			doc = c.b.DocBlock(docSpan, docText)
			i = next
			for i < len(c.nested) && c.nested[i].Blank {
				i++
			}
			if i >= len(c.nested) {
				arms = append(arms, ast.CaseArm{Doc: doc})
				break
			}
		}
		line := c.nested[i]
		arrowIdx := topLevelOperator(line.Tokens, c.code, "->")
		if arrowIdx < 0 {
			arms = append(arms, ast.CaseArm{Doc: doc, Pattern: c.resolveExpr(line.Tokens)})
			i++
			continue
		}
		pattern := c.resolveExpr(line.Tokens[:arrowIdx])
		body := c.resolveExpr(line.Tokens[arrowIdx+1:])
		arms = append(arms, ast.CaseArm{Doc: doc, Pattern: pattern, Body: body})
		i++
	}
	return c.b.CaseOf(c.fullSpan(), scrutinee, arms), true
}

// ---- type NAME PARAMS* [block] ----

func (c *ctx) resolveType() (ast.NodeID, bool) {
	if len(c.toks) < 2 || c.toks[1].Kind != token.Ident {
		return c.invalid("type without name")
	}
	name := c.toks[1].Text(c.code)
	paramToks := c.toks[2:]
	params := parseParams(paramToks, c.code, c.resolveExpr)

	var body []ast.NodeID
	i := 0
	for i < len(c.nested) {
		if c.nested[i].Blank {
			i++
			continue
		}
		if docText, docSpan, next, ok := block.ConsumeDocRun(c.nested, i, c.code); ok {
			doc := c.b.DocBlock(docSpan, docText)
			i = next
			for i < len(c.nested) && c.nested[i].Blank {
				i++
			}
			if i >= len(c.nested) {
				body = append(body, doc)
				break
			}
			member := c.resolveTypeMember(c.nested[i])
			body = append(body, c.b.Documented(source.Join(docSpan, c.nested[i].Span), doc, member))
			i++
			continue
		}
		body = append(body, c.resolveTypeMember(c.nested[i]))
		i++
	}
	return c.b.TypeDef(c.fullSpan(), name, params, body), true
}

func (c *ctx) resolveTypeMember(line block.Line) ast.NodeID {
	toks := line.Tokens
	if len(toks) == 0 {
		return c.b.Invalid(line.Span, 0)
	}
	if toks[0].Kind == token.Ident && toks[0].Text(c.code) == "private" {
		inner := c.resolveTypeMember(block.Line{Indent: line.Indent, Tokens: toks[1:], Span: line.Span, Block: line.Block})
		return c.b.Private(line.Span, inner)
	}
	if node, ok := TryResolve(c.b, c.code, toks, line.Block, c.resolveExpr, c.resolveBlock, c.log); ok {
		return node
	}
	colonIdx := topLevelOperator(toks, c.code, ":")
	eqIdx := topLevelOperator(toks, c.code, "=")
	if colonIdx >= 0 && (eqIdx < 0 || colonIdx < eqIdx) {
		subject := c.resolveExpr(toks[:colonIdx])
		typ := c.resolveExpr(toks[colonIdx+1:])
		return c.b.TypeSignature(line.Span, subject, typ)
	}
	if eqIdx >= 0 {
		name := toks[0].Text(c.code)
		params := parseParams(toks[1:eqIdx], c.code, c.resolveExpr)
		body := c.resolveExpr(toks[eqIdx+1:])
		return c.b.Function(line.Span, name, params, false, 0, body, true)
	}
	// A capitalized leading identifier names a constructor (real Enso
	// convention); its nested block, if any, lists field declarations
	// rather than a function body.
	name := toks[0].Text(c.code)
	if len(name) > 0 && strings.ToUpper(name[:1]) == name[:1] {
		params := parseParams(toks[1:], c.code, c.resolveExpr)
		params = append(params, c.constructorFields(line.Block)...)
		return c.b.ConstructorDefinition(line.Span, name, params)
	}
	if len(line.Block) > 0 {
		params := parseParams(toks[1:], c.code, c.resolveExpr)
		body, _ := c.bodyBlockFromNestedLines(line.Block)
		return c.b.Function(line.Span, name, params, false, 0, body, true)
	}
	return c.b.Invalid(line.Span, c.resolveExpr(toks))
}

// constructorFields turns a constructor's nested block into its field
// list: each non-blank line is one field declaration, parsed the same way
// a parameter list is ("Circle\n    radius" declares a field named
// radius).
func (c *ctx) constructorFields(lines []block.Line) []ast.Param {
	var out []ast.Param
	for _, line := range lines {
		if line.Blank || len(line.Tokens) == 0 {
			continue
		}
		out = append(out, parseParams(line.Tokens, c.code, c.resolveExpr)...)
	}
	return out
}

func (c *ctx) bodyBlockFromNestedLines(lines []block.Line) (ast.NodeID, bool) {
	save := c.nested
	c.nested = lines
	defer func() { c.nested = save }()
	return c.bodyBlockFromNested()
}

// ---- import / export / from ... import|export / polyglot ... import ----

func (c *ctx) resolveImport() (ast.NodeID, bool) {
	return c.resolveImportExportTail(1, "", false, true)
}

func (c *ctx) resolveExport() (ast.NodeID, bool) {
	node, ok := c.resolveImportExportTail(1, "", false, false)
	return node, ok
}

func (c *ctx) resolveFrom() (ast.NodeID, bool) {
	importIdx := c.findKeyword(1, "import")
	exportIdx := c.findKeyword(1, "export")
	kwIdx, isImport := importIdx, true
	if exportIdx >= 0 && (importIdx < 0 || exportIdx < importIdx) {
		kwIdx, isImport = exportIdx, false
	}
	if kwIdx < 0 {
		return c.invalid("from without import/export")
	}
	from := tokensText(c.toks[1:kwIdx], c.code)
	if isImport {
		return c.resolveImportExportTail(kwIdx+1, from, true, true)
	}
	return c.resolveImportExportTail(kwIdx+1, from, true, false)
}

func (c *ctx) resolvePolyglot() (ast.NodeID, bool) {
	if len(c.toks) < 2 {
		return c.invalid("polyglot without language")
	}
	lang := c.toks[1].Text(c.code)
	importIdx := c.findKeyword(2, "import")
	if importIdx < 0 {
		return c.invalid("polyglot without import")
	}
	node, ok := c.resolveImportExportTail(importIdx+1, "", false, true)
	if !ok {
		return node, ok
	}
	n := c.b.Tree.Get(node)
	n.Polyglot = lang
	n.HasPolygot = true
	return node, true
}

// resolveImportExportTail parses the shared PATH [as NAME] [hiding NAMES]
// tail shared by import/export/from.../polyglot... (spec §4.4).
func (c *ctx) resolveImportExportTail(start int, from string, hasFrom bool, isImport bool) (ast.NodeID, bool) {
	asIdx := c.findKeyword(start, "as")
	hidingIdx := c.findKeyword(start, "hiding")
	pathEnd := len(c.toks)
	if asIdx >= 0 && asIdx < pathEnd {
		pathEnd = asIdx
	}
	if hidingIdx >= 0 && hidingIdx < pathEnd {
		pathEnd = hidingIdx
	}
	path := tokensText(c.toks[start:pathEnd], c.code)
	all := false
	if strings.TrimSpace(path) == "all" {
		all = true
	}

	as, hasAs := "", false
	if asIdx >= 0 {
		end := len(c.toks)
		if hidingIdx >= 0 && hidingIdx > asIdx {
			end = hidingIdx
		}
		if asIdx+1 < end {
			as, hasAs = tokensText(c.toks[asIdx+1:end], c.code), true
		}
	}
	var hiding []string
	hasHiding := false
	if hidingIdx >= 0 {
		hasHiding = true
		for _, part := range strings.Split(tokensText(c.toks[hidingIdx+1:], c.code), ",") {
			p := strings.TrimSpace(part)
			if p != "" {
				hiding = append(hiding, p)
			}
		}
	}
	if isImport {
		return c.b.Import(c.fullSpan(), "", false, from, hasFrom, path, all, as, hasAs, hiding, hasHiding), true
	}
	return c.b.Export(c.fullSpan(), from, hasFrom, path, all, as, hasAs, hiding, hasHiding), true
}

// ---- foreign LANG NAME PARAMS* = TEXT_LITERAL ----

func (c *ctx) resolveForeign() (ast.NodeID, bool) {
	if len(c.toks) < 3 || c.toks[1].Kind != token.Ident || c.toks[2].Kind != token.Ident {
		return c.invalid("malformed foreign declaration")
	}
	lang := c.toks[1].Text(c.code)
	name := c.toks[2].Text(c.code)
	eqIdx := topLevelOperator(c.toks[3:], c.code, "=")
	if eqIdx < 0 {
		return c.invalid("foreign without body")
	}
	eqIdx += 3
	params := parseParams(c.toks[3:eqIdx], c.code, c.resolveExpr)
	bodyToks := c.toks[eqIdx+1:]
	if len(bodyToks) != 1 || bodyToks[0].Kind != token.TextStart {
		return c.invalid("foreign body must be a text literal")
	}
	body := c.resolveExpr(bodyToks)
	return c.b.ForeignFunction(c.fullSpan(), lang, name, params, body), true
}

// ---- \ PARAMS -> BODY ----

func (c *ctx) resolveLambda() (ast.NodeID, bool) {
	arrowIdx := topLevelOperator(c.toks[1:], c.code, "->")
	if arrowIdx < 0 {
		return c.invalid("lambda without ->")
	}
	arrowIdx += 1
	params := parseParams(c.toks[1:arrowIdx], c.code, c.resolveExpr)
	var body ast.NodeID
	hasBody := true
	if arrowIdx == len(c.toks)-1 {
		body, hasBody = c.bodyBlockFromNested()
	} else {
		body = c.resolveExpr(c.toks[arrowIdx+1:])
	}
	return c.b.Lambda(c.fullSpan(), params, body, hasBody), true
}

// ---- FREEZE EXPR / SKIP EXPR ----

func (c *ctx) resolveFreezeSkip() (ast.NodeID, bool) {
	body := c.resolveExpr(c.toks[1:])
	seg := ast.Segment{Keyword: c.toks[0], HasBody: true, Body: body}
	return c.b.MultiSegmentApp(c.fullSpan(), []ast.Segment{seg}), true
}

// ---- @NAME [EXPR] ----

func (c *ctx) resolveAnnotation() (ast.NodeID, bool) {
	name := c.toks[1].Text(c.code)
	var arg ast.NodeID
	hasArg := len(c.toks) > 2
	if hasArg {
		arg = c.resolveExpr(c.toks[2:])
	}
	var next ast.NodeID
	if len(c.nested) > 0 {
		lines := c.resolveBlock(c.nested)
		if len(lines) > 0 {
			next = lines[0]
		}
	}
	if builtinAnnotations[name] {
		return c.b.AnnotatedBuiltin(c.fullSpan(), name, next), true
	}
	return c.b.Annotated(c.fullSpan(), name, hasArg, arg, next), true
}

func (c *ctx) invalid(msg string) (ast.NodeID, bool) {
	span := c.fullSpan()
	if c.log != nil {
		c.log.Block("macro-invalid: "+msg, -1, 0)
	}
	_ = perror.New(perror.Structural, span, "%s", msg)
	return c.b.Invalid(span, 0), true
}

// topLevelOperator returns the index of the first depth-0 OperatorIdent
// token matching text, or -1.
func topLevelOperator(toks []token.Token, code *source.Code, text string) int {
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

func tokensText(toks []token.Token, code *source.Code) string {
	if len(toks) == 0 {
		return ""
	}
	span := source.Join(toks[0].Span, toks[len(toks)-1].Span)
	return code.SliceOf(span)
}

// parseParams splits a PARAMS* run into individual records (spec §3.3),
// each either a bare name, a "~"-suspended name, or a parenthesized
// "(pattern [: type] [= default])" group, using one flat pass over the
// token run rather than recursive descent.
func parseParams(toks []token.Token, code *source.Code, resolveExpr ExprResolve) []ast.Param {
	groups := splitParamGroups(toks, code)
	params := make([]ast.Param, 0, len(groups))
	for _, g := range groups {
		params = append(params, parseOneParam(g, code, resolveExpr))
	}
	return params
}

func splitParamGroups(toks []token.Token, code *source.Code) [][]token.Token {
	var groups [][]token.Token
	var cur []token.Token
	depth := 0
	isRunStart := func(t token.Token) bool {
		if t.Kind == token.Ident || t.Kind == token.Wildcard || t.Kind == token.OpenParen {
			return true
		}
		return t.Kind == token.OperatorIdent && t.Text(code) == "~"
	}
	for i, t := range toks {
		switch t.Kind {
		case token.OpenParen, token.OpenBracket, token.OpenBrace:
			depth++
		case token.CloseParen, token.CloseBracket, token.CloseBrace:
			depth--
		}
		if depth == 0 && i > 0 && isRunStart(t) && len(cur) > 0 {
			prev := cur[len(cur)-1]
			if !(prev.Kind == token.OperatorIdent && (prev.Text(code) == "=" || prev.Text(code) == ":")) {
				groups = append(groups, cur)
				cur = nil
			}
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}

func parseOneParam(toks []token.Token, code *source.Code, resolveExpr ExprResolve) ast.Param {
	var p ast.Param
	if len(toks) > 0 && toks[0].Kind == token.OperatorIdent && toks[0].Text(code) == "~" {
		p.PrefixMarker = "~"
		toks = toks[1:]
	}
	if len(toks) > 0 && toks[0].Kind == token.OpenParen && toks[len(toks)-1].Kind == token.CloseParen {
		toks = toks[1 : len(toks)-1]
	}
	eqIdx := topLevelOperator(toks, code, "=")
	colonIdx := topLevelOperator(toks, code, ":")
	patEnd := len(toks)
	if colonIdx >= 0 && (eqIdx < 0 || colonIdx < eqIdx) {
		patEnd = colonIdx
	} else if eqIdx >= 0 {
		patEnd = eqIdx
	}
	p.Pattern = resolveExpr(toks[:patEnd])
	if colonIdx >= 0 && (eqIdx < 0 || colonIdx < eqIdx) {
		typeEnd := len(toks)
		if eqIdx >= 0 {
			typeEnd = eqIdx
		}
		p.HasType = true
		p.Type = resolveExpr(toks[colonIdx+1 : typeEnd])
	}
	if eqIdx >= 0 {
		p.HasDefault = true
		p.Default = resolveExpr(toks[eqIdx+1:])
	}
	return p
}
