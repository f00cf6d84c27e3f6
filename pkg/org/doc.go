// Package org defines the uniform tree entity used by every stage of the
// org chart: the [Node].
//
// A Node is either a department or an employee. Both variants share the
// positioning fields (X, Y, Width, Height, Level), the expansion flag and the
// ordered, exclusively owned Children list; the variant-specific content lives
// in the Department or Employee payload selected by [Node.Type].
//
// # Forest operations
//
// A forest is a []*Node of roots. The functions in this package treat forests
// as immutable values:
//
//   - [Toggle], [SetExpanded], [ExpandAll] and [CollapseAll] rebuild only the
//     nodes on the path to a change and share untouched subtrees by pointer.
//   - [Visible] flattens a forest into the depth-first list of nodes that are
//     drawn: children of collapsed nodes are skipped.
//   - [Find], [FindByHierarchyID], [PathTo], [Walk] and [CountDescendants]
//     are read-only queries.
//
// Nothing here fails: an unknown id is a no-op and an empty forest yields an
// empty result.
//
// # Example
//
//	forest = org.Toggle(forest, "dept:eng")
//	for _, n := range org.Visible(forest) {
//	    fmt.Println(n.Level, n.Label)
//	}
package org
