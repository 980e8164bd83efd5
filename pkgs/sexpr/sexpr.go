// Package sexpr renders a tree as an s-expression for debugging and golden
// tests (spec §6 `to_s_expr`). It is display-only: not consumed by the
// parser, so a looser iterative traversal (matching ast.Tree.Walk's
// explicit-stack discipline, not recursion) is enough and keeps it
// exercisable against the same wide/deep trees the validator tolerates.
package sexpr

import (
	"strconv"
	"strings"

	"github.com/ensolang/parser/pkgs/ast"
)

var tagNames = [...]string{
	ast.TagInvalid:                  "Invalid",
	ast.TagIdent:                    "Ident",
	ast.TagWildcard:                 "Wildcard",
	ast.TagNumber:                   "Number",
	ast.TagTextLiteral:              "TextLiteral",
	ast.TagAutoscopedIdentifier:     "AutoscopedIdentifier",
	ast.TagApp:                      "App",
	ast.TagNamedApp:                 "NamedApp",
	ast.TagArgumentBlockApplication: "ArgumentBlockApplication",
	ast.TagOperatorBlockApplication: "OperatorBlockApplication",
	ast.TagOprApp:                   "OprApp",
	ast.TagUnaryOprApp:              "UnaryOprApp",
	ast.TagOprSectionBoundary:       "OprSectionBoundary",
	ast.TagTemplateFunction:         "TemplateFunction",
	ast.TagGroup:                    "Group",
	ast.TagArray:                    "Array",
	ast.TagTuple:                    "Tuple",
	ast.TagAssignment:               "Assignment",
	ast.TagFunction:                 "Function",
	ast.TagTypeSignature:            "TypeSignature",
	ast.TagTypeAnnotated:            "TypeAnnotated",
	ast.TagTypeDef:                  "TypeDef",
	ast.TagConstructorDefinition:    "ConstructorDefinition",
	ast.TagPrivate:                  "Private",
	ast.TagMultiSegmentApp:          "MultiSegmentApp",
	ast.TagCaseOf:                   "CaseOf",
	ast.TagLambda:                   "Lambda",
	ast.TagImport:                   "Import",
	ast.TagExport:                   "Export",
	ast.TagAnnotated:                "Annotated",
	ast.TagAnnotatedBuiltin:         "AnnotatedBuiltin",
	ast.TagForeignFunction:          "ForeignFunction",
	ast.TagBodyBlock:                "BodyBlock",
	ast.TagDocumented:               "Documented",
	ast.TagDocBlock:                 "DocBlock",
}

func tagName(t ast.Tag) string {
	if int(t) >= 0 && int(t) < len(tagNames) && tagNames[t] != "" {
		return tagNames[t]
	}
	return "Tag(" + strconv.Itoa(int(t)) + ")"
}

// Print renders tree as a single-line s-expression rooted at tree.Root.
// An empty tree renders as "()".
func Print(tree *ast.Tree) string {
	if tree == nil || tree.Root == 0 {
		return "()"
	}
	var buf strings.Builder
	printNode(tree, tree.Root, &buf)
	return buf.String()
}

// printNode walks depth-first with an explicit stack of open/close work
// items, rather than recursing per node, matching the no-unbounded-
// recursion discipline the rest of the tree-walking code follows.
func printNode(tree *ast.Tree, root ast.NodeID, buf *strings.Builder) {
	type item struct {
		id    ast.NodeID
		close bool
	}
	stack := []item{{id: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.close {
			buf.WriteByte(')')
			continue
		}
		if buf.Len() > 0 {
			last := buf.String()[buf.Len()-1]
			if last != '(' {
				buf.WriteByte(' ')
			}
		}
		if top.id == 0 {
			buf.WriteString("Nothing")
			continue
		}
		n := tree.Get(top.id)
		buf.WriteByte('(')
		buf.WriteString(tagName(n.Tag))
		writePayload(n, buf)

		kids := tree.ChildrenOf(top.id)
		stack = append(stack, item{close: true})
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, item{id: kids[i]})
		}
	}
}

// writePayload appends the scalar fields that distinguish a node beyond
// its tag and children (name text, operator text, literal value).
func writePayload(n *ast.Node, buf *strings.Builder) {
	switch n.Tag {
	case ast.TagIdent, ast.TagNamedApp, ast.TagFunction, ast.TagConstructorDefinition,
		ast.TagForeignFunction, ast.TagLambda, ast.TagTypeDef:
		if n.Name != "" {
			buf.WriteByte(' ')
			buf.WriteString(n.Name)
		} else if n.Text != "" {
			buf.WriteByte(' ')
			buf.WriteString(n.Text)
		}
	case ast.TagOprApp, ast.TagUnaryOprApp, ast.TagDocBlock:
		buf.WriteByte(' ')
		buf.WriteString(n.Text)
	case ast.TagNumber:
		buf.WriteByte(' ')
		if n.NumberInteger != "" {
			buf.WriteString(n.NumberInteger)
		}
		if n.HasFraction {
			buf.WriteByte('.')
			buf.WriteString(n.NumberFraction)
		}
	}
}
