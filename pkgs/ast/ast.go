// Package ast defines the Enso syntax tree as an arena of tagged nodes
// (spec §3.2, §9 "recursive node graphs -> arenas"). Every variant owns
// its children by NodeID, not by pointer, so traversal and serialization
// are iterative rather than recursive — required for P5 (bounded stack on
// a 1000-element array literal).
package ast

import (
	"github.com/ensolang/parser/pkgs/source"
	"github.com/ensolang/parser/pkgs/token"
)

// NodeID addresses a node within a Tree's arena. The zero value NodeID(0)
// is never a valid node (the arena's slot 0 is a sentinel), so a missing
// optional child is represented as NodeID(0) instead of a separate bool.
type NodeID int

// Tag identifies which variant a Node holds — the single dispatch point
// visitors switch on (spec §9 "tagged unions everywhere... avoid
// inheritance or virtual dispatch").
type Tag int

const (
	TagInvalid Tag = iota
	TagIdent
	TagWildcard
	TagNumber
	TagTextLiteral
	TagAutoscopedIdentifier
	TagApp
	TagNamedApp
	TagArgumentBlockApplication
	TagOperatorBlockApplication
	TagOprApp
	TagUnaryOprApp
	TagOprSectionBoundary
	TagTemplateFunction
	TagGroup
	TagArray
	TagTuple
	TagAssignment
	TagFunction
	TagTypeSignature
	TagTypeAnnotated
	TagTypeDef
	TagConstructorDefinition
	TagPrivate
	TagMultiSegmentApp
	TagCaseOf
	TagLambda
	TagImport
	TagExport
	TagAnnotated
	TagAnnotatedBuiltin
	TagForeignFunction
	TagBodyBlock
	TagDocumented
	TagDocBlock
)

// Param is the parameter record from spec §3.3.
type Param struct {
	PrefixMarker string // "~" for suspended evaluation, "" otherwise
	Pattern      NodeID
	HasType      bool
	Type         NodeID
	HasDefault   bool
	Default      NodeID
}

// CaseArm is one arm of a CaseOf macro (spec §4.4: "case EXPR of").
type CaseArm struct {
	Doc     NodeID // optional leading documentation; 0 if absent
	Pattern NodeID
	Body    NodeID
}

// Segment is one keyword-introduced span of a multi-segment macro.
type Segment struct {
	Keyword token.Token
	HasBody bool
	Body    NodeID
}

// CommaItem is one (",", element) pair inside Array/Tuple tails.
type CommaItem struct {
	Comma token.Token
	Elem  NodeID
}

// Node is the tagged union every arena slot holds. Only the fields for
// the active Tag are meaningful; this mirrors a sum type the way a
// hand-written Go parser without generics typically fakes one (the
// teacher's CommandContent/BlockStatement interface union plays the same
// role via Go interfaces — here we use one struct because traversal code
// needs index-stable access into Children for iterative walks).
type Node struct {
	Tag  Tag
	Span source.Span

	// Token payloads, set depending on Tag.
	Tok  token.Token // Ident/Wildcard/OperatorIdent leaf token
	Tok2 token.Token // secondary token (e.g. ":" in TypeSignature)

	Text string // resolved text payload (identifier name, operator text...)

	// Generic children, meaning depends on Tag:
	//   App:                  [func, arg]
	//   NamedApp:              [func, value] + Text=name
	//   OprApp:                [lhs?, rhs?]   (0 = missing operand)
	//   UnaryOprApp:           [operand]
	//   OprSectionBoundary:    [inner]  + Arity
	//   TemplateFunction:      [inner]  + Arity
	//   Group:                 [inner?]
	//   Assignment:            [lhs, rhs]
	//   TypeSignature:         [subject, type]
	//   TypeAnnotated:         [subject, type]
	//   Private:               [inner]
	//   Documented:            [docBlock, next]
	//   DocBlock:              leaf, Text = joined comment body
	//   Invalid:               [inner?]
	Children []NodeID

	Arity int // OprSectionBoundary / TemplateFunction arity

	// Number payload.
	NumberBase     int
	NumberInteger  string
	NumberFraction string
	HasFraction    bool

	// TextLiteral payload.
	TextElements []TextElement

	// Array/Tuple payload.
	First NodeID // 0 if absent (leading element may be omitted, e.g. [, 1, 2])
	Tail  []CommaItem

	// Function / Lambda / ConstructorDefinition / ForeignFunction payload.
	Name       string
	Params     []Param
	HasReturn  bool
	ReturnType NodeID
	Body       NodeID
	HasBody    bool

	// TypeDef payload.
	TypeParams []Param
	TypeBody   []NodeID

	// MultiSegmentApp / Import / Export / annotation payload.
	Segments []Segment

	// CaseOf payload.
	Scrutinee NodeID
	Arms      []CaseArm

	// Import/Export payload (spec §3.2).
	Polyglot   string // language name, "" if absent
	HasPolygot bool
	FromPath   string
	HasFrom    bool
	ImportPath string
	All        bool
	AsName     string
	HasAs      bool
	HidingList []string
	HasHiding  bool

	// ForeignFunction payload.
	Language string

	// MultipleOperatorError marker: when true, the OprApp's operator slot
	// is Err(MultipleOperatorError) rather than a resolved operator (spec
	// §3.2, §4.5).
	MultipleOperatorError bool

	// Lines for Block* node kinds.
	Lines []NodeID
	// OperatorBlockApplication additionally needs (opr, rhs) pairs.
	OprLines []OprRHS
}

// OprRHS is one (opr, rhs) line of an OperatorBlockApplication (spec §3.2).
type OprRHS struct {
	Opr token.Token
	RHS NodeID
}

// TextElement is one element of a decomposed text literal (spec §4.7).
type TextElementKind int

const (
	TextElemSection TextElementKind = iota
	TextElemEscape
	TextElemSplice
	TextElemNewline
)

type TextElement struct {
	Kind      TextElementKind
	Span      source.Span
	Raw       string // TextElemSection
	Codepoint rune   // TextElemEscape
	Splice    NodeID // TextElemSplice
}
