package ast

import (
	"github.com/ensolang/parser/pkgs/source"
	"github.com/ensolang/parser/pkgs/token"
)

// Builder accumulates nodes into a Tree using short constructor methods,
// the same ergonomic idiom as the teacher's pkgs/ast/builder.go (Var, Cmd,
// Id, Str, Num...) adapted to return NodeIDs into an arena instead of
// building pointer trees directly.
type Builder struct {
	Tree *Tree
}

// NewBuilder wraps a fresh Tree.
func NewBuilder() *Builder {
	return &Builder{Tree: NewTree()}
}

func (b *Builder) add(n Node) NodeID { return b.Tree.Add(n) }

// Ident creates an Ident leaf node.
func (b *Builder) Ident(tok token.Token, name string) NodeID {
	return b.add(Node{Tag: TagIdent, Span: tok.Span, Tok: tok, Text: name})
}

// Wildcard creates a Wildcard leaf node. liftLevel is -1 in pattern
// position, 0 in template-function value position (spec §4.5).
func (b *Builder) Wildcard(tok token.Token, liftLevel int) NodeID {
	return b.add(Node{Tag: TagWildcard, Span: tok.Span, Tok: tok, Arity: liftLevel})
}

// Number creates a Number leaf node.
func (b *Builder) Number(span source.Span, base int, integer, fraction string, hasFraction bool) NodeID {
	return b.add(Node{
		Tag: TagNumber, Span: span,
		NumberBase: base, NumberInteger: integer, NumberFraction: fraction, HasFraction: hasFraction,
	})
}

// App creates an application node: func applied to arg.
func (b *Builder) App(span source.Span, fn, arg NodeID) NodeID {
	return b.add(Node{Tag: TagApp, Span: span, Children: []NodeID{fn, arg}})
}

// NamedApp creates a named-argument application: func(name = value).
func (b *Builder) NamedApp(span source.Span, fn NodeID, name string, value NodeID) NodeID {
	return b.add(Node{Tag: TagNamedApp, Span: span, Text: name, Children: []NodeID{fn, value}})
}

// OprApp creates a binary operator application. A zero lhs or rhs denotes
// a missing operand, to be wrapped in an OprSectionBoundary by the caller.
func (b *Builder) OprApp(span source.Span, lhs NodeID, opr token.Token, opText string, rhs NodeID, multiErr bool) NodeID {
	return b.add(Node{
		Tag: TagOprApp, Span: span, Tok: opr, Text: opText,
		Children: []NodeID{lhs, rhs}, MultipleOperatorError: multiErr,
	})
}

// UnaryOprApp creates a prefix unary operator application.
func (b *Builder) UnaryOprApp(span source.Span, opr token.Token, opText string, operand NodeID) NodeID {
	return b.add(Node{Tag: TagUnaryOprApp, Span: span, Tok: opr, Text: opText, Children: []NodeID{operand}})
}

// SectionBoundary wraps inner with the section-arity marker (spec §4.5).
func (b *Builder) SectionBoundary(span source.Span, arity int, inner NodeID) NodeID {
	return b.add(Node{Tag: TagOprSectionBoundary, Span: span, Arity: arity, Children: []NodeID{inner}})
}

// TemplateFunction wraps inner with the wildcard-arity marker (spec §4.5).
func (b *Builder) TemplateFunction(span source.Span, arity int, inner NodeID) NodeID {
	return b.add(Node{Tag: TagTemplateFunction, Span: span, Arity: arity, Children: []NodeID{inner}})
}

// Group creates a parenthesized group. inner is 0 for an empty "()".
func (b *Builder) Group(span source.Span, inner NodeID) NodeID {
	return b.add(Node{Tag: TagGroup, Span: span, Children: []NodeID{inner}})
}

// Array creates an array literal [first, tail...].
func (b *Builder) Array(span source.Span, first NodeID, tail []CommaItem) NodeID {
	return b.add(Node{Tag: TagArray, Span: span, First: first, Tail: tail})
}

// Tuple creates a tuple literal.
func (b *Builder) Tuple(span source.Span, first NodeID, tail []CommaItem) NodeID {
	return b.add(Node{Tag: TagTuple, Span: span, First: first, Tail: tail})
}

// Assignment creates a top-level binding: lhs = rhs.
func (b *Builder) Assignment(span source.Span, lhs, rhs NodeID) NodeID {
	return b.add(Node{Tag: TagAssignment, Span: span, Children: []NodeID{lhs, rhs}})
}

// Invalid wraps the best partial parse of a malformed construct (spec I4).
func (b *Builder) Invalid(span source.Span, inner NodeID) NodeID {
	return b.add(Node{Tag: TagInvalid, Span: span, Children: []NodeID{inner}})
}

// BodyBlock creates a block of statement lines. The root of every parse
// is a BodyBlock (spec §3.5).
func (b *Builder) BodyBlock(span source.Span, lines []NodeID) NodeID {
	return b.add(Node{Tag: TagBodyBlock, Span: span, Lines: lines})
}

// AutoscopedIdentifier creates a `..Name` autoscoped reference (spec §3.2).
func (b *Builder) AutoscopedIdentifier(span source.Span, name NodeID) NodeID {
	return b.add(Node{Tag: TagAutoscopedIdentifier, Span: span, Children: []NodeID{name}})
}

// TextLiteral creates a text literal from its decomposed element list
// (spec §4.7); tok is the originating TextStart token.
func (b *Builder) TextLiteral(span source.Span, tok token.Token, elements []TextElement) NodeID {
	return b.add(Node{Tag: TagTextLiteral, Span: span, Tok: tok, TextElements: elements})
}

// MultiSegmentApp creates a generic keyword-segmented macro node
// (if/then/else, FREEZE/SKIP, and similar single-or-multi-segment
// control-flow macros — spec §3.2/§4.4).
func (b *Builder) MultiSegmentApp(span source.Span, segments []Segment) NodeID {
	return b.add(Node{Tag: TagMultiSegmentApp, Span: span, Segments: segments})
}

// CaseOf creates a `case EXPR of` node.
func (b *Builder) CaseOf(span source.Span, scrutinee NodeID, arms []CaseArm) NodeID {
	return b.add(Node{Tag: TagCaseOf, Span: span, Scrutinee: scrutinee, Arms: arms})
}

// Lambda creates a `\ PARAMS -> BODY` node.
func (b *Builder) Lambda(span source.Span, params []Param, body NodeID, hasBody bool) NodeID {
	return b.add(Node{Tag: TagLambda, Span: span, Params: params, Body: body, HasBody: hasBody})
}

// Import creates an `import`/`from ... import` node.
func (b *Builder) Import(span source.Span, polyglot string, hasPolyglot bool, from string, hasFrom bool, path string, all bool, as string, hasAs bool, hiding []string, hasHiding bool) NodeID {
	return b.add(Node{
		Tag: TagImport, Span: span,
		Polyglot: polyglot, HasPolygot: hasPolyglot,
		FromPath: from, HasFrom: hasFrom,
		ImportPath: path, All: all,
		AsName: as, HasAs: hasAs,
		HidingList: hiding, HasHiding: hasHiding,
	})
}

// Export creates an `export`/`from ... export` node, same shape as Import.
func (b *Builder) Export(span source.Span, from string, hasFrom bool, path string, all bool, as string, hasAs bool, hiding []string, hasHiding bool) NodeID {
	return b.add(Node{
		Tag: TagExport, Span: span,
		FromPath: from, HasFrom: hasFrom,
		ImportPath: path, All: all,
		AsName: as, HasAs: hasAs,
		HidingList: hiding, HasHiding: hasHiding,
	})
}

// Annotated creates an `@name expr` node.
func (b *Builder) Annotated(span source.Span, name string, hasArg bool, arg NodeID, next NodeID) NodeID {
	return b.add(Node{Tag: TagAnnotated, Span: span, Name: name, HasBody: hasArg, Body: arg, Children: []NodeID{next}})
}

// AnnotatedBuiltin creates an `@Tail_Call`/`@Builtin_Type` node.
func (b *Builder) AnnotatedBuiltin(span source.Span, name string, next NodeID) NodeID {
	return b.add(Node{Tag: TagAnnotatedBuiltin, Span: span, Name: name, Children: []NodeID{next}})
}

// ForeignFunction creates a `foreign LANG NAME PARAMS* = TEXT` node.
func (b *Builder) ForeignFunction(span source.Span, language, name string, params []Param, body NodeID) NodeID {
	return b.add(Node{Tag: TagForeignFunction, Span: span, Language: language, Name: name, Params: params, Body: body, HasBody: true})
}

// TypeSignature creates a `NAME : TYPE` node.
func (b *Builder) TypeSignature(span source.Span, subject, typ NodeID) NodeID {
	return b.add(Node{Tag: TagTypeSignature, Span: span, Children: []NodeID{subject, typ}})
}

// TypeAnnotated creates a `value : TYPE` inline-ascription node.
func (b *Builder) TypeAnnotated(span source.Span, subject, typ NodeID) NodeID {
	return b.add(Node{Tag: TagTypeAnnotated, Span: span, Children: []NodeID{subject, typ}})
}

// Function creates a method/function definition node (spec §4.4 `type`
// body members, and top-level `name params = body` definitions).
func (b *Builder) Function(span source.Span, name string, params []Param, hasReturn bool, returnType NodeID, body NodeID, hasBody bool) NodeID {
	return b.add(Node{
		Tag: TagFunction, Span: span, Name: name, Params: params,
		HasReturn: hasReturn, ReturnType: returnType, Body: body, HasBody: hasBody,
	})
}

// ConstructorDefinition creates a `type` body constructor entry.
func (b *Builder) ConstructorDefinition(span source.Span, name string, params []Param) NodeID {
	return b.add(Node{Tag: TagConstructorDefinition, Span: span, Name: name, Params: params})
}

// TypeDef creates a `type NAME PARAMS* [block]` node.
func (b *Builder) TypeDef(span source.Span, name string, typeParams []Param, body []NodeID) NodeID {
	return b.add(Node{Tag: TagTypeDef, Span: span, Name: name, TypeParams: typeParams, TypeBody: body})
}

// Private wraps a `private`-prefixed member.
func (b *Builder) Private(span source.Span, inner NodeID) NodeID {
	return b.add(Node{Tag: TagPrivate, Span: span, Children: []NodeID{inner}})
}

// Documented attaches a leading documentation block to the next node.
func (b *Builder) Documented(span source.Span, docBlock, next NodeID) NodeID {
	return b.add(Node{Tag: TagDocumented, Span: span, Children: []NodeID{docBlock, next}})
}

// DocBlock creates the raw documentation-text leaf consumed by Documented
// (spec §4.4, "## " doc comments).
func (b *Builder) DocBlock(span source.Span, text string) NodeID {
	return b.add(Node{Tag: TagDocBlock, Span: span, Text: text})
}

// ArgumentBlockApplication creates the node for an argument-block (spec
// §3.2/§4.3): a function applied to each line of the following block as a
// positional argument.
func (b *Builder) ArgumentBlockApplication(span source.Span, fn NodeID, lines []NodeID) NodeID {
	return b.add(Node{Tag: TagArgumentBlockApplication, Span: span, Children: []NodeID{fn}, Lines: lines})
}

// OperatorBlockApplication creates the node for an operator-block (spec
// §4.3): a base expression continued by a block of `(opr, rhs)` lines.
func (b *Builder) OperatorBlockApplication(span source.Span, base NodeID, oprLines []OprRHS) NodeID {
	return b.add(Node{Tag: TagOperatorBlockApplication, Span: span, Children: []NodeID{base}, OprLines: oprLines})
}
