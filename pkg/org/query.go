package org

// Find returns the node with the given id, searching hidden subtrees too.
func Find(forest []*Node, id string) (*Node, bool) {
	var found *Node
	Walk(forest, func(n *Node, _ int) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// FindByHierarchyID returns the first node in preorder whose HierarchyID
// matches. Empty ids never match.
func FindByHierarchyID(forest []*Node, hierarchyID string) (*Node, bool) {
	if hierarchyID == "" {
		return nil, false
	}
	var found *Node
	Walk(forest, func(n *Node, _ int) bool {
		if n.HierarchyID == hierarchyID {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// PathTo returns the chain of nodes from a root down to the node with the
// given id, both ends included. It returns nil if the id is unknown.
func PathTo(forest []*Node, id string) []*Node {
	var path []*Node
	var search func(nodes []*Node) bool
	search = func(nodes []*Node) bool {
		for _, n := range nodes {
			path = append(path, n)
			if n.ID == id || search(n.Children) {
				return true
			}
			path = path[:len(path)-1]
		}
		return false
	}
	if !search(forest) {
		return nil
	}
	return path
}

// Walk visits every node in depth-first preorder, hidden ones included,
// passing each node's depth below its root. Returning false from fn stops
// the walk.
func Walk(forest []*Node, fn func(n *Node, depth int) bool) {
	var visit func(nodes []*Node, depth int) bool
	visit = func(nodes []*Node, depth int) bool {
		for _, n := range nodes {
			if !fn(n, depth) || !visit(n.Children, depth+1) {
				return false
			}
		}
		return true
	}
	visit(forest, 0)
}

// CountDescendants returns the number of nodes below n, hidden ones included.
func CountDescendants(n *Node) int {
	if n == nil {
		return 0
	}
	count := 0
	for _, c := range n.Children {
		count += 1 + CountDescendants(c)
	}
	return count
}

// Count returns the total number of nodes in forest.
func Count(forest []*Node) int {
	count := 0
	for _, n := range forest {
		count += 1 + CountDescendants(n)
	}
	return count
}
