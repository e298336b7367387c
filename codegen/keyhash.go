package codegen

import (
	"github.com/tidwall/btree"

	"github.com/weliveindetail/protog/graph"
	"github.com/weliveindetail/protog/protogrt"
)

// keyEntry is one field key of an InsideMessage node, hashed at generation
// time with the exact function the emitted dispatch code calls at runtime.
type keyEntry struct {
	Hash  uint64
	Key   string
	Child *graph.Node
}

// buildKeyTable hashes every direct child of node and returns the entries
// ordered by hash, using a btree.Map the way the teacher's internal/interval
// package orders interval endpoints, so two generator runs over the same
// schema always emit identical switch statements. It fails with
// KeyHashCollisionError if two distinct field names hash identically,
// rather than silently falling back to a string comparison.
func buildKeyTable(node *graph.Node) ([]keyEntry, error) {
	var tree btree.Map[uint64, keyEntry]

	for _, child := range node.Children {
		h := protogrt.KeyHash(child.Name)
		if existing, ok := tree.Get(h); ok {
			return nil, &KeyHashCollisionError{
				Message: descriptorName(node),
				KeyA:    existing.Key,
				KeyB:    child.Name,
				Hash:    h,
			}
		}
		tree.Set(h, keyEntry{Hash: h, Key: child.Name, Child: child})
	}

	var out []keyEntry
	tree.Scan(func(_ uint64, e keyEntry) bool {
		out = append(out, e)
		return true
	})
	return out, nil
}

func descriptorName(n *graph.Node) string {
	if n.Owner != nil {
		return string(n.Owner.FullName())
	}
	return n.FullName
}
