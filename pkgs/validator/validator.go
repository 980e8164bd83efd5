// Package validator implements the post-resolution checks of spec §4.6:
// every node's span lies within the expected input range, no child span
// exceeds its parent's, and no node is referenced from more than one
// parent (I2, I5). It walks the tree with an explicit stack rather
// than recursion, the same discipline pkgs/ast.Tree.Walk uses, so a
// pathologically wide tree (P5) cannot overflow the call stack.
package validator

import (
	"github.com/ensolang/parser/pkgs/ast"
	"github.com/ensolang/parser/pkgs/perror"
	"github.com/ensolang/parser/pkgs/source"
)

// ValidateSpans walks tree and returns every invariant violation found;
// an empty (nil) result means I2/I5 hold over the reachable tree
// (spec §6 `validate_spans`). I1 is approximated separately by
// Concatenation.
func ValidateSpans(tree *ast.Tree, expected source.Span) []perror.Error {
	if tree == nil || tree.Root == 0 {
		return nil
	}

	type frame struct {
		id         ast.NodeID
		parentSpan source.Span
		hasParent  bool
	}

	var errs []perror.Error
	seen := make(map[ast.NodeID]bool)
	stack := []frame{{id: tree.Root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.id == 0 {
			continue
		}
		if seen[f.id] {
			n := tree.Get(f.id)
			errs = append(errs, perror.New(perror.Structural, n.Span, "node is reachable from more than one parent"))
			continue
		}
		seen[f.id] = true

		n := tree.Get(f.id)
		if !expected.Contains(n.Span) {
			errs = append(errs, perror.New(perror.Structural, n.Span, "node span [%d,%d) escapes expected range [%d,%d)",
				n.Span.Start, n.Span.End, expected.Start, expected.End))
		}
		if f.hasParent && !f.parentSpan.Contains(n.Span) {
			errs = append(errs, perror.New(perror.Structural, n.Span, "child span [%d,%d) exceeds parent span [%d,%d)",
				n.Span.Start, n.Span.End, f.parentSpan.Start, f.parentSpan.End))
		}

		for _, child := range tree.ChildrenOf(f.id) {
			if child == 0 {
				continue
			}
			stack = append(stack, frame{id: child, parentSpan: n.Span, hasParent: true})
		}
	}
	return errs
}

// Concatenation approximates I1 over the statement-producing part of the
// tree: read in left-to-right tree order, no non-empty leaf span may start
// before the previous leaf span ended, so leaves appear in source order
// without overlapping. Leaf text is not compared against code, and full
// byte-exact reconstruction including the whitespace and newlines the
// tree doesn't retain as nodes is not checked (see DESIGN.md).
func Concatenation(tree *ast.Tree, code *source.Code) []perror.Error {
	if tree == nil || tree.Root == 0 {
		return nil
	}
	var errs []perror.Error
	var prevEnd int
	type frame struct {
		id       ast.NodeID
		childIdx int
	}
	stack := []frame{{id: tree.Root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		kids := tree.ChildrenOf(top.id)
		if top.childIdx == 0 {
			n := tree.Get(top.id)
			if len(kids) == 0 && !n.Span.Empty() {
				if n.Span.Start < prevEnd {
					errs = append(errs, perror.New(perror.Structural, n.Span, "leaf span overlaps a previous leaf"))
				}
				prevEnd = n.Span.End
			}
		}
		if top.childIdx < len(kids) {
			child := kids[top.childIdx]
			top.childIdx++
			if child != 0 {
				stack = append(stack, frame{id: child})
			}
			continue
		}
		stack = stack[:len(stack)-1]
	}
	return errs
}
