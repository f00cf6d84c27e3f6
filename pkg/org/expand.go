package org

// Toggle flips the IsExpanded flag of the node with the given id.
//
// The input forest is never modified. Nodes on the path from a root to the
// target are rebuilt; every other subtree is shared by pointer with the input.
// When id is not present, Toggle returns forest itself.
func Toggle(forest []*Node, id string) []*Node {
	return rewrite(forest, id, func(n *Node) *Node {
		c := n.shallowCopy()
		c.IsExpanded = !n.IsExpanded
		return c
	})
}

// SetExpanded sets the IsExpanded flag of the node with the given id.
// Like [Toggle] it rebuilds only the path to the target, and returns forest
// itself if the id is unknown or the flag already has the requested value.
func SetExpanded(forest []*Node, id string, expanded bool) []*Node {
	return rewrite(forest, id, func(n *Node) *Node {
		if n.IsExpanded == expanded {
			return n
		}
		c := n.shallowCopy()
		c.IsExpanded = expanded
		return c
	})
}

// ExpandAll returns a copy of forest in which every node is expanded.
func ExpandAll(forest []*Node) []*Node {
	return setAll(forest, true)
}

// CollapseAll returns a copy of forest in which every node is collapsed.
// Roots stay in the forest; only their descendants become hidden.
func CollapseAll(forest []*Node) []*Node {
	return setAll(forest, false)
}

// ExpandToDepth returns a copy of forest in which nodes at depth <= depth are
// expanded and deeper nodes are collapsed. Depth is counted from the roots
// (root = 0), independent of any stored Level.
func ExpandToDepth(forest []*Node, depth int) []*Node {
	var rec func(nodes []*Node, d int) []*Node
	rec = func(nodes []*Node, d int) []*Node {
		if nodes == nil {
			return nil
		}
		out := make([]*Node, len(nodes))
		for i, n := range nodes {
			c := n.shallowCopy()
			c.IsExpanded = d <= depth
			c.Children = rec(n.Children, d+1)
			out[i] = c
		}
		return out
	}
	return rec(forest, 0)
}

func setAll(forest []*Node, expanded bool) []*Node {
	if forest == nil {
		return nil
	}
	out := make([]*Node, len(forest))
	for i, n := range forest {
		c := n.shallowCopy()
		c.IsExpanded = expanded
		c.Children = setAll(n.Children, expanded)
		out[i] = c
	}
	return out
}

// rewrite replaces the node with the given id by fn(node) and rebuilds its
// ancestors. If fn returns its argument unchanged, or id is absent, the input
// slice is returned.
func rewrite(forest []*Node, id string, fn func(*Node) *Node) []*Node {
	out, _ := rewriteSlice(forest, id, fn)
	return out
}

func rewriteSlice(nodes []*Node, id string, fn func(*Node) *Node) ([]*Node, bool) {
	for i, n := range nodes {
		replaced, changed := rewriteNode(n, id, fn)
		if !changed {
			continue
		}
		out := make([]*Node, len(nodes))
		copy(out, nodes)
		out[i] = replaced
		return out, true
	}
	return nodes, false
}

func rewriteNode(n *Node, id string, fn func(*Node) *Node) (*Node, bool) {
	if n.ID == id {
		r := fn(n)
		return r, r != n
	}
	children, changed := rewriteSlice(n.Children, id, fn)
	if !changed {
		return n, false
	}
	c := n.shallowCopy()
	c.Children = children
	return c, true
}
