// Package layout positions an org chart forest.
//
// The engine is a recursive subtree-width layout. Every node reserves the
// horizontal space its visible subtree needs:
//
//	width(n) = n.Width                                     if n is collapsed or a leaf
//	width(n) = max(n.Width, Σ width(child) + gap*(k-1))     otherwise
//
// A node is centered on the x it is given; its children are laid left to
// right starting at centerX - width(n)/2, each one vertical spacing below
// its parent. Because each sibling reserves its full subtree width, uneven
// fanout never produces overlapping subtrees.
//
// Collapsed nodes stop the recursion: their children are kept, with
// whatever coordinates they had before, and are simply not drawn.
//
// [Layout] is pure: it copies the forest and annotates the copy, so the same
// input always yields bit-identical coordinates.
package layout
