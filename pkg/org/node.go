package org

import "slices"

// =============================================================================
// Constants
// =============================================================================

// NodeType discriminates the two content variants of a Node.
type NodeType string

// Node types.
const (
	TypeDepartment NodeType = "department"
	TypeEmployee   NodeType = "employee"
)

// Default card dimensions in pixels.
const (
	DefaultWidth  = 280.0
	DefaultHeight = 140.0
)

// =============================================================================
// Node - Uniform Tree Entity
// =============================================================================

// Node is one box of the org chart.
//
// Width and Height are assigned at construction and never changed by layout.
// X, Y and Level are layout output and only meaningful after a layout pass.
// HierarchyPath lists the hierarchy ids of the node's ancestors and is fixed
// once built.
type Node struct {
	ID            string
	Type          NodeType
	Label         string
	Subtitle      string
	Color         string
	HierarchyID   string
	HierarchyPath []string

	Department *Department
	Employee   *Employee

	Children   []*Node
	IsExpanded bool

	X, Y          float64
	Width, Height float64
	Level         int
}

// Department is the content payload of a department node.
type Department struct {
	SourceID    string
	Description string
	ManagerID   string
	Headcount   int
}

// Employee is the content payload of an employee node.
type Employee struct {
	SourceID     string
	Position     string
	Email        string
	IsManager    bool
	DepartmentID string
}

// IsDepartment reports whether n is a department node.
func (n *Node) IsDepartment() bool { return n.Type == TypeDepartment }

// IsEmployee reports whether n is an employee node.
func (n *Node) IsEmployee() bool { return n.Type == TypeEmployee }

// HasChildren reports whether n owns at least one child, visible or not.
func (n *Node) HasChildren() bool { return len(n.Children) > 0 }

// ShowsChildren reports whether n's children are drawn.
func (n *Node) ShowsChildren() bool { return n.IsExpanded && len(n.Children) > 0 }

// CenterX returns the horizontal center of the node's box.
func (n *Node) CenterX() float64 { return n.X + n.Width/2 }

// Bottom returns the y coordinate of the node's bottom edge.
func (n *Node) Bottom() float64 { return n.Y + n.Height }

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// shallowCopy returns a copy of n that shares Children, payloads and
// HierarchyPath with n.
func (n *Node) shallowCopy() *Node {
	c := *n
	return &c
}

// Clone returns a deep copy of n and its whole subtree, hidden descendants
// included. Payloads and HierarchyPath are copied too, so the clone can be
// mutated freely.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := n.shallowCopy()
	c.HierarchyPath = slices.Clone(n.HierarchyPath)
	if n.Department != nil {
		d := *n.Department
		c.Department = &d
	}
	if n.Employee != nil {
		e := *n.Employee
		c.Employee = &e
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// CloneForest deep-copies every root of forest.
func CloneForest(forest []*Node) []*Node {
	if forest == nil {
		return nil
	}
	out := make([]*Node, len(forest))
	for i, n := range forest {
		out[i] = n.Clone()
	}
	return out
}
