package org

// Visible returns the nodes that are drawn, in depth-first preorder.
//
// A node is always emitted; its children are visited only when it is expanded.
// Nodes below a collapsed ancestor are never emitted, whatever their own
// IsExpanded value. An empty forest yields an empty, non-nil slice.
func Visible(forest []*Node) []*Node {
	out := make([]*Node, 0, len(forest))
	var visit func(n *Node)
	visit = func(n *Node) {
		out = append(out, n)
		if !n.IsExpanded {
			return
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	for _, root := range forest {
		visit(root)
	}
	return out
}

// VisibleCount returns len(Visible(forest)) without allocating the list.
func VisibleCount(forest []*Node) int {
	count := 0
	for _, n := range forest {
		count++
		if n.IsExpanded {
			count += VisibleCount(n.Children)
		}
	}
	return count
}

// HiddenCount returns how many descendants of n are currently not drawn
// because n or one of its descendants is collapsed. It is what the
// renderers show on a collapsed card's badge.
func HiddenCount(n *Node) int {
	return CountDescendants(n) - (VisibleCount([]*Node{n}) - 1)
}
