// Package serialize implements the binary bijection from spec §6:
// Encode/Decode must round-trip any well-formed tree exactly (I3, P2).
// The exact byte layout is internal and may change between builds — the
// spec only requires stability within one build, which a direct gob
// encoding of the arena satisfies without a hand-rolled wire format.
package serialize

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/ensolang/parser/pkgs/ast"
)

// Encode serializes a tree to bytes.
func Encode(tree *ast.Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(tree); err != nil {
		return nil, fmt.Errorf("serialize: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode deserializes bytes produced by Encode back into a tree.
func Decode(data []byte) (*ast.Tree, error) {
	var tree ast.Tree
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&tree); err != nil {
		return nil, fmt.Errorf("serialize: decode: %w", err)
	}
	return &tree, nil
}
