// Package operator shapes a flat run of primaries and operator tokens
// into an expression tree using spacing-sensitive precedence,
// associativity, unary/binary disambiguation, and section/template-
// function detection (spec §4.5).
package operator

import (
	"github.com/ensolang/parser/pkgs/ast"
	"github.com/ensolang/parser/pkgs/diag"
	"github.com/ensolang/parser/pkgs/source"
	"github.com/ensolang/parser/pkgs/text"
	"github.com/ensolang/parser/pkgs/token"
)

// Assoc records operator associativity.
type Assoc int

const (
	Left Assoc = iota
	Right
)

// applicationPrec is juxtaposition's binding strength (spec §4.5 item 2):
// tighter than any spaced operator, looser than an unspaced "." access.
const (
	dotUnspacedPrec = 90
	applicationPrec = 80
)

// classify returns an operator's precedence and associativity for the
// current spacing context. When left and right whitespace differ, demote
// caps the precedence just below applicationPrec; every class passed to it
// here already sits below that cap, so asymmetric spacing is acted on in
// parseApplicationChain instead (spec §4.5 "Spacing rule").
func classify(text string, leftSpace, rightSpace bool) (prec int, assoc Assoc) {
	switch {
	case text == ".":
		if !leftSpace && !rightSpace {
			return dotUnspacedPrec, Left
		}
		return demote(55, Left, leftSpace, rightSpace)
	case text == "*" || text == "/":
		return demote(70, Left, leftSpace, rightSpace)
	case text == "+" || text == "-":
		return demote(60, Left, leftSpace, rightSpace)
	case isArrow(text):
		return demote(40, Right, leftSpace, rightSpace)
	case text == "<|":
		return demote(30, Right, leftSpace, rightSpace)
	case text == "|>" || text == "<<|":
		return demote(30, Left, leftSpace, rightSpace)
	case text == ":":
		return demote(20, Left, leftSpace, rightSpace)
	case text == "=":
		return demote(9, Right, leftSpace, rightSpace)
	case text == ",":
		return demote(5, Left, leftSpace, rightSpace)
	default:
		// Comparison / bitwise operators at one shared character-class
		// precedence (spec §4.5 item 5).
		return demote(50, Left, leftSpace, rightSpace)
	}
}

func demote(prec int, assoc Assoc, leftSpace, rightSpace bool) (int, Assoc) {
	if leftSpace == rightSpace {
		return prec, assoc
	}
	if prec > applicationPrec-1 {
		return applicationPrec - 1, assoc
	}
	return prec, assoc
}

func isArrow(text string) bool {
	if len(text) < 2 || text[len(text)-1] != '>' {
		return false
	}
	for _, c := range text[:len(text)-1] {
		if c != '-' {
			return false
		}
	}
	return true
}

// sameClass reports whether two adjacent operator tokens belong to the
// same precedence class — the trigger for MultipleOperatorError (spec
// §4.5 "Multiple-operator error").
func sameClass(a, b string) bool {
	pa, _ := classify(a, false, false)
	pb, _ := classify(b, false, false)
	return pa == pb
}

// Resolver walks one flat token run (a macro-free expression context)
// building an expression tree.
type Resolver struct {
	b    *ast.Builder
	code *source.Code
	toks []token.Token
	pos  int
	log  *diag.Logger

	parseSplice text.ExprParser // recursive expr pipeline entry, for `` splices; nil-safe

	// resolveMacro lets a parenthesized group's contents start with a
	// macro construct (most commonly a `\` lambda passed as an inline
	// argument, e.g. `map (\x -> x * 2) xs`) despite the operator
	// resolver not importing pkgs/macro directly (avoids an import
	// cycle: pkgs/macro's lambda body callback needs to call back into
	// expression resolution). Injected by pkgs/parser. May be nil, in
	// which case group contents are always parsed as plain expressions.
	resolveMacro func(toks []token.Token) (ast.NodeID, bool)

	wildcards []ast.NodeID // value-position wildcards seen in current scope
}

// New constructs a Resolver over one token run. parseSplice may be nil if
// the run is known to contain no text literals with backtick splices.
func New(b *ast.Builder, code *source.Code, toks []token.Token, log *diag.Logger, parseSplice text.ExprParser) *Resolver {
	return &Resolver{b: b, code: code, toks: toks, log: log, parseSplice: parseSplice}
}

// WithMacroResolver attaches the group-content macro hook (see
// resolveMacro) and returns the Resolver for chaining.
func (r *Resolver) WithMacroResolver(fn func(toks []token.Token) (ast.NodeID, bool)) *Resolver {
	r.resolveMacro = fn
	return r
}

func (r *Resolver) eof() bool       { return r.pos >= len(r.toks) }
func (r *Resolver) peek() token.Token {
	if r.eof() {
		return token.Token{Kind: token.EOF}
	}
	return r.toks[r.pos]
}
func (r *Resolver) peekAt(n int) token.Token {
	if r.pos+n >= len(r.toks) {
		return token.Token{Kind: token.EOF}
	}
	return r.toks[r.pos+n]
}
func (r *Resolver) advance() token.Token { t := r.peek(); r.pos++; return t }

// startsPrimary reports whether a token can begin a primary expression.
func startsPrimary(t token.Token) bool {
	switch t.Kind {
	case token.Ident, token.Number, token.Wildcard, token.TextStart,
		token.OpenParen, token.OpenBracket, token.AutoscopeMarker, token.SuspendedArgs:
		return true
	default:
		return false
	}
}

// Resolve is the entry point: parses the whole token run as one expression
// (spec §4.5), wrapping the result in section/template-function markers
// as needed at the outermost boundary.
func Resolve(b *ast.Builder, code *source.Code, toks []token.Token, log *diag.Logger, parseSplice text.ExprParser, resolveMacro func(toks []token.Token) (ast.NodeID, bool)) ast.NodeID {
	if len(toks) == 0 {
		return 0
	}
	if span, bad := findAmbiguousSpacedDash(toks, code); bad {
		return b.Invalid(span, 0)
	}
	r := New(b, code, toks, log, parseSplice).WithMacroResolver(resolveMacro)
	expr := r.finish(r.parseExpr(0))
	if !r.eof() {
		// Tokens no rule could place (e.g. a stray closing delimiter) make
		// the whole run Invalid, keeping the partial parse as its child.
		return b.Invalid(source.Join(toks[0].Span, toks[len(toks)-1].Span), expr)
	}
	return expr
}

// findAmbiguousSpacedDash scans for an OperatorIdent run of two or more
// operator characters ending in "-" that the lexer left unsplit (spec
// §4.2: that only happens when the run is spaced away from its right
// operand, e.g. "y +- z") — the error policy (spec §7) flags the whole
// construction as Invalid rather than guessing which reading was meant.
func findAmbiguousSpacedDash(toks []token.Token, code *source.Code) (source.Span, bool) {
	depth := 0
	for _, t := range toks {
		switch t.Kind {
		case token.OpenParen, token.OpenBracket, token.OpenBrace:
			depth++
		case token.CloseParen, token.CloseBracket, token.CloseBrace:
			depth--
		case token.OperatorIdent:
			if depth == 0 {
				text := t.Text(code)
				if len(text) >= 2 && text[len(text)-1] == '-' && !isArrow(text) {
					return source.Join(toks[0].Span, toks[len(toks)-1].Span), true
				}
			}
		}
	}
	return source.Span{}, false
}

func (r *Resolver) finish(expr ast.NodeID) ast.NodeID {
	return r.wrapWildcards(expr, nil)
}

// pushWildcardScope starts a fresh wildcard-collection scope for a nested
// section/template-function boundary (spec §4.5: group entry, comma
// element, or a trailing application-chain member each wrap their own
// wildcards independently rather than pooling them with the enclosing
// run's). The caller restores the outer scope via wrapWildcards.
func (r *Resolver) pushWildcardScope() []ast.NodeID {
	saved := r.wildcards
	r.wildcards = nil
	return saved
}

// wrapWildcards closes the current wildcard scope: if any wildcards were
// collected since the matching pushWildcardScope, expr is wrapped in a
// TemplateFunction of that arity. Either way the outer scope is restored.
func (r *Resolver) wrapWildcards(expr ast.NodeID, outer []ast.NodeID) ast.NodeID {
	if expr == 0 || len(r.wildcards) == 0 {
		r.wildcards = outer
		return expr
	}
	span := r.b.Tree.Get(expr).Span
	wrapped := r.b.TemplateFunction(span, len(r.wildcards), expr)
	r.wildcards = outer
	return wrapped
}

// parseExpr parses a precedence-climbing expression with minimum binding
// power minPrec, returning 0 if no primary is available (a leading
// operator at this position — the caller wraps that in a section).
func (r *Resolver) parseExpr(minPrec int) ast.NodeID {
	left := r.parseApplicationChain()
	if left == 0 {
		return r.parseOperatorsWithMissingLHS(minPrec)
	}
	return r.parseOperatorTail(left, minPrec)
}

// parseOperatorsWithMissingLHS handles a run starting with a binary
// operator token: the result is a left section (spec §4.5 "Sections").
func (r *Resolver) parseOperatorsWithMissingLHS(minPrec int) ast.NodeID {
	if r.eof() || r.peek().Kind != token.OperatorIdent {
		return 0
	}
	oprTok := r.advance()
	oprText := oprTok.Text(r.code)
	multi := !r.eof() && r.peek().Kind == token.OperatorIdent && sameClass(oprText, r.peek().Text(r.code))
	rhs := r.parseExpr(minPrec)
	span := source.Join(oprTok.Span, r.spanOf(rhs))
	app := r.b.OprApp(span, 0, oprTok, oprText, rhs, multi)
	return r.b.SectionBoundary(span, 1, app)
}

// parseOperatorTail consumes a chain of binary operators following an
// already-parsed left operand, at or above minPrec.
func (r *Resolver) parseOperatorTail(left ast.NodeID, minPrec int) ast.NodeID {
	for {
		if r.eof() || r.peek().Kind != token.OperatorIdent {
			return left
		}
		oprTok := r.peek()
		oprText := oprTok.Text(r.code)
		leftSpace := oprTok.LeadingWhitespace > 0
		rightSpace := r.peekAt(1).Kind == token.EOF || r.peekAt(1).LeadingWhitespace > 0
		prec, assoc := classify(oprText, leftSpace, rightSpace)
		if r.log != nil {
			r.log.Precedence(oprText, prec, leftSpace != rightSpace)
		}
		if prec < minPrec {
			return left
		}
		r.advance()

		// A following "-"/"~" that parseUnary will take as a prefix operator
		// (as in "y+-z") is an operand, not a second binary operator.
		nextText := r.peek().Text(r.code)
		nextIsUnary := (nextText == "-" || nextText == "~") &&
			r.peekAt(1).LeadingWhitespace == 0 && startsPrimary(r.peekAt(1))
		multi := !r.eof() && r.peek().Kind == token.OperatorIdent &&
			sameClass(oprText, nextText) && !nextIsUnary

		var rhs ast.NodeID
		if r.eof() || !startsPrimary(r.peek()) && r.peek().Kind != token.OperatorIdent {
			rhs = 0
		} else {
			nextMin := prec + 1
			if assoc == Right {
				nextMin = prec
			}
			rhs = r.parseExpr(nextMin)
		}

		span := source.Join(r.spanOf(left), oprTok.Span, r.spanOf(rhs))
		// Expression-context ascription (spec §3.2 TypeAnnotated), distinct
		// from statement-context TypeSignature: only when both operands
		// are present, else it falls back to the generic section-boundary
		// handling below.
		if oprText == ":" && rhs != 0 {
			left = r.b.TypeAnnotated(span, left, rhs)
			continue
		}
		app := r.b.OprApp(span, left, oprTok, oprText, rhs, multi)
		if rhs == 0 {
			left = r.b.SectionBoundary(span, 1, app)
		} else {
			left = app
		}
	}
}

func (r *Resolver) spanOf(id ast.NodeID) source.Span {
	if id == 0 {
		return source.Span{}
	}
	return r.b.Tree.Get(id).Span
}

// parseApplicationChain parses a run of juxtaposed primaries (function
// application, spec §4.5 item 2), including the unspaced-dot-binds-
// tighter-than-application special case and the asymmetric-dot-section
// rule from the worked example in spec §4.5/§8 (`"1 .0"` is application of
// `1` to the section `.0`).
func (r *Resolver) parseApplicationChain() ast.NodeID {
	left := r.parseUnaryOrAtomWithDot()
	if left == 0 {
		return 0
	}
	for {
		if r.atSectionBoundary() {
			return left
		}
		if t := r.peek(); t.Kind == token.OperatorIdent {
			oprText := t.Text(r.code)
			leftSpace := t.LeadingWhitespace > 0
			rightSpace := r.peekAt(1).Kind == token.EOF || r.peekAt(1).LeadingWhitespace > 0
			if leftSpace && !rightSpace {
				// Asymmetric, space-before/touch-after: forms a right
				// section with the operator and its touching rhs, which
				// then juxtaposes onto the chain so far. The section wraps
				// its own wildcards independently (spec §4.5 "the trailing
				// chain"), not pooled with the rest of the run.
				r.advance()
				saved := r.pushWildcardScope()
				rhsAtom := r.parseUnaryOrAtomWithDot()
				span := source.Join(t.Span, r.spanOf(rhsAtom))
				sec := r.b.SectionBoundary(span, 1, r.b.OprApp(span, 0, t, oprText, rhsAtom, false))
				sec = r.wrapWildcards(sec, saved)
				appSpan := source.Join(r.spanOf(left), span)
				left = r.b.App(appSpan, left, sec)
				continue
			}
			return left
		}
		if !startsPrimary(r.peek()) {
			return left
		}
		// Named-argument application (spec §3.2 NamedApp): an unspaced
		// `name=value` trailing argument, e.g. `f x=1`.
		if t := r.peek(); t.Kind == token.Ident {
			eq := r.peekAt(1)
			val := r.peekAt(2)
			if eq.Kind == token.OperatorIdent && eq.Text(r.code) == "=" && eq.LeadingWhitespace == 0 &&
				startsPrimary(val) && val.LeadingWhitespace == 0 {
				nameTok := r.advance()
				r.advance() // consume "="
				saved := r.pushWildcardScope()
				value := r.parseUnaryOrAtomWithDot()
				value = r.wrapWildcards(value, saved)
				span := source.Join(r.spanOf(left), r.spanOf(value))
				left = r.b.NamedApp(span, left, nameTok.Text(r.code), value)
				continue
			}
		}
		saved := r.pushWildcardScope()
		right := r.parseUnaryOrAtomWithDot()
		right = r.wrapWildcards(right, saved)
		if right == 0 {
			return left
		}
		span := source.Join(r.spanOf(left), r.spanOf(right))
		left = r.b.App(span, left, right)
	}
}

// atSectionBoundary reports whether the cursor sits at one of the
// stopping points sections and template functions respect: end of run,
// comma, or a closing delimiter.
func (r *Resolver) atSectionBoundary() bool {
	if r.eof() {
		return true
	}
	t := r.peek()
	switch t.Kind {
	case token.CloseParen, token.CloseBracket, token.CloseBrace:
		return true
	}
	return t.Kind == token.OperatorIdent && t.Text(r.code) == ","
}

// parseUnaryOrAtomWithDot parses one atom, then folds in any immediately
// following unspaced "." member access (binds tighter than application).
func (r *Resolver) parseUnaryOrAtomWithDot() ast.NodeID {
	atom := r.parseUnary()
	if atom == 0 {
		return 0
	}
	for {
		t := r.peek()
		if t.Kind != token.OperatorIdent || t.Text(r.code) != "." {
			return atom
		}
		leftSpace := t.LeadingWhitespace > 0
		rightSpace := r.peekAt(1).Kind == token.EOF || r.peekAt(1).LeadingWhitespace > 0
		if leftSpace || rightSpace {
			return atom // spaced dot is a normal operator, not fused here
		}
		r.advance()
		rhs := r.parseUnary()
		span := source.Join(r.spanOf(atom), t.Span, r.spanOf(rhs))
		atom = r.b.OprApp(span, atom, t, ".", rhs, false)
	}
}

// parseUnary handles prefix "-" and "~" per the unary-vs-binary rule in
// spec §4.5: there is no primary to the left in the current run (always
// true here, since parseUnary is only called where a primary is expected),
// so the operator is unary iff the following primary touches it with no
// whitespace. The spacing before the operator is not consulted.
func (r *Resolver) parseUnary() ast.NodeID {
	t := r.peek()
	if t.Kind == token.OperatorIdent {
		text := t.Text(r.code)
		if text == "-" || text == "~" {
			rightSpace := r.peekAt(1).LeadingWhitespace > 0
			if !rightSpace && startsPrimary(r.peekAt(1)) {
				r.advance()
				operand := r.parseUnary()
				span := source.Join(t.Span, r.spanOf(operand))
				return r.b.UnaryOprApp(span, t, text, operand)
			}
		}
	}
	return r.parseAtom()
}

// parseAtom parses one primary token/group (spec GLOSSARY "Primary").
func (r *Resolver) parseAtom() ast.NodeID {
	t := r.peek()
	switch t.Kind {
	case token.Ident:
		r.advance()
		return r.b.Ident(t, t.Text(r.code))
	case token.Number:
		r.advance()
		return r.numberNode(t)
	case token.Wildcard:
		r.advance()
		id := r.b.Wildcard(t, 0)
		r.wildcards = append(r.wildcards, id)
		return id
	case token.AutoscopeMarker:
		r.advance()
		if startsPrimary(r.peek()) && r.peek().Kind == token.Ident {
			name := r.advance()
			span := source.Join(t.Span, name.Span)
			n := r.b.Ident(name, name.Text(r.code))
			return r.b.AutoscopedIdentifier(span, n)
		}
		return r.b.Ident(t, "..")
	case token.OpenParen:
		return r.parseParenGroup()
	case token.OpenBracket:
		return r.parseArray()
	case token.TextStart:
		r.advance()
		return r.textLiteralNode(t)
	case token.SuspendedArgs:
		r.advance()
		return r.b.Ident(t, "...")
	default:
		return 0
	}
}

func (r *Resolver) numberNode(t token.Token) ast.NodeID {
	text := t.Text(r.code)
	base := t.NumberBase
	integer, fraction := splitNumberText(text, base, t.HasFraction)
	return r.b.Number(t.Span, base, integer, fraction, t.HasFraction)
}

func splitNumberText(text string, base int, hasFraction bool) (integer, fraction string) {
	body := text
	switch base {
	case 16, 8, 2:
		if len(body) >= 2 {
			body = body[2:]
		}
	}
	if hasFraction {
		for i, c := range body {
			if c == '.' {
				return body[:i], body[i+1:]
			}
		}
	}
	return body, ""
}

// isMacroStartToken reports whether t could begin a macro construct (spec
// §4.4): a registered keyword, a `\` lambda, or an `@` annotation.
func isMacroStartToken(t token.Token, code *source.Code) bool {
	if t.Kind == token.Ident && token.IsKeywordText(t.Text(code)) {
		return true
	}
	if t.Kind == token.OperatorIdent {
		txt := t.Text(code)
		return txt == "\\" || txt == "@"
	}
	return false
}

// matchingBoundary returns the index (exclusive end) of the element
// starting at r.pos: the next depth-0 occurrence of closeKind or a
// depth-0 comma, or len(r.toks) if neither appears.
func (r *Resolver) matchingBoundary(closeKind token.Kind) int {
	depth := 0
	for i := r.pos; i < len(r.toks); i++ {
		t := r.toks[i]
		switch t.Kind {
		case token.OpenParen, token.OpenBracket, token.OpenBrace:
			depth++
		case token.CloseParen, token.CloseBracket, token.CloseBrace:
			if depth == 0 {
				return i
			}
			depth--
		}
		if depth == 0 && t.Kind == token.OperatorIdent && t.Text(r.code) == "," {
			return i
		}
	}
	return len(r.toks)
}

// parseElement parses one comma-list element, giving a macro construct
// (most commonly an inline `\` lambda argument) first refusal before
// falling back to plain expression resolution. Each element is its own
// template-function boundary (spec §4.5 "group entry, comma element"): its
// wildcards wrap independently of the enclosing run's.
func (r *Resolver) parseElement(closeKind token.Kind) ast.NodeID {
	if r.resolveMacro != nil && !r.eof() && isMacroStartToken(r.peek(), r.code) {
		end := r.matchingBoundary(closeKind)
		if node, ok := r.resolveMacro(r.toks[r.pos:end]); ok {
			r.pos = end
			return node
		}
	}
	saved := r.pushWildcardScope()
	// Parse above comma precedence so a "," ends the element and is left
	// for parseCommaList.
	commaPrec, _ := classify(",", false, true)
	expr := r.parseExpr(commaPrec + 1)
	return r.wrapWildcards(expr, saved)
}

func (r *Resolver) parseParenGroup() ast.NodeID {
	open := r.advance()
	inner, tail, closed := r.parseCommaList(token.CloseParen)
	var close token.Token
	if closed {
		close = r.advance()
	}
	span := source.Join(open.Span, close.Span)
	if len(tail) == 0 {
		return r.b.Group(span, inner)
	}
	return r.b.Tuple(span, inner, tail)
}

func (r *Resolver) parseArray() ast.NodeID {
	open := r.advance()
	first, tail, closed := r.parseCommaList(token.CloseBracket)
	var close token.Token
	if closed {
		close = r.advance()
	}
	span := source.Join(open.Span, close.Span)
	return r.b.Array(span, first, tail)
}

// parseCommaList parses a comma-separated element list up to (but not
// consuming) the closing delimiter, iteratively — the mechanism that
// keeps a 1000-element array literal (spec P5) off the call stack:
// each element is a full nested Resolve, but siblings are a flat loop.
func (r *Resolver) parseCommaList(closeKind token.Kind) (first ast.NodeID, tail []ast.CommaItem, closed bool) {
	if r.eof() || r.peek().Kind == closeKind {
		closed = !r.eof()
		return 0, nil, closed
	}
	first = r.parseElement(closeKind)
	for {
		if r.eof() {
			return first, tail, false
		}
		if r.peek().Kind == closeKind {
			return first, tail, true
		}
		if r.peek().Kind == token.OperatorIdent && r.peek().Text(r.code) == "," {
			comma := r.advance()
			var elem ast.NodeID
			if !r.eof() && r.peek().Kind != closeKind && !(r.peek().Kind == token.OperatorIdent && r.peek().Text(r.code) == ",") {
				elem = r.parseElement(closeKind)
			}
			tail = append(tail, ast.CommaItem{Comma: comma, Elem: elem})
			continue
		}
		// Unexpected token inside the list: stop, let the caller see the
		// rest as trailing content (surfaces as Invalid further up).
		return first, tail, false
	}
}

func (r *Resolver) textLiteralNode(t token.Token) ast.NodeID {
	elems := text.Decompose(r.b, t, r.code, r.parseSplice)
	return r.b.TextLiteral(t.Span, t, elems)
}
