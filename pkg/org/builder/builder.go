// Package builder normalizes the three hierarchy payload shapes into one
// forest of [org.Node].
//
// The builder trusts its input: payloads are validated by
// [hierarchy.Validate] before they get here, so Build never fails.
//
// Children of a department are ordered as nested departments, then the
// manager, then every listed employee not already shown as the manager or
// as someone's subordinate. Node ids are prefixed ("dept:", "emp:") so
// department and employee ids from the payload cannot collide; an employee
// that appears in more than one department gets a "#n" suffix on its second
// and later appearances.
package builder

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/org"
)

// Node id prefixes.
const (
	DepartmentPrefix = "dept:"
	EmployeePrefix   = "emp:"
)

// Builder turns payloads into forests. A Builder is not safe for concurrent
// use; it is cheap, so build one per call when in doubt.
type Builder struct {
	opts Options
	ids  map[string]int
}

// New returns a Builder with the given options. Zero sizes are defaulted.
func New(opts Options) *Builder {
	opts.SetDefaults()
	return &Builder{opts: opts}
}

// Build converts p into a forest.
func Build(p *hierarchy.Payload, opts Options) []*org.Node {
	return New(opts).Build(p)
}

// Build converts p into a forest. Each call starts a fresh id space.
func (b *Builder) Build(p *hierarchy.Payload) []*org.Node {
	b.ids = make(map[string]int)
	switch p.Kind {
	case hierarchy.KindFlat:
		return []*org.Node{b.flat(p)}
	case hierarchy.KindDepartments:
		out := make([]*org.Node, 0, len(p.Tree))
		for i := range p.Tree {
			out = append(out, b.departmentNode(&p.Tree[i], scope{}))
		}
		return out
	case hierarchy.KindHierarchy:
		out := make([]*org.Node, 0, len(p.Units))
		for i := range p.Units {
			out = append(out, b.unit(&p.Units[i], scope{}))
		}
		return out
	default:
		return nil
	}
}

// BuildBranch builds only the subtree of the department or unit whose
// hierarchy id matches. The branch root gets level 0 and its hierarchy path
// keeps the ancestors it has in the full payload.
func (b *Builder) BuildBranch(p *hierarchy.Payload, hierarchyID string) ([]*org.Node, error) {
	b.ids = make(map[string]int)
	switch p.Kind {
	case hierarchy.KindFlat:
		for i := range p.Departments {
			if d := &p.Departments[i]; d.HierarchyID == hierarchyID {
				return []*org.Node{b.flatDepartment(d, scope{})}, nil
			}
		}
	case hierarchy.KindDepartments:
		if d, sc, ok := findDepartmentNode(p.Tree, hierarchyID, scope{}); ok {
			return []*org.Node{b.departmentNode(d, sc)}, nil
		}
	case hierarchy.KindHierarchy:
		if u, sc, ok := findUnit(p.Units, hierarchyID, scope{}); ok {
			return []*org.Node{b.unit(u, sc)}, nil
		}
	}
	return nil, errors.New(errors.ErrCodeBranchNotFound, "no branch with hierarchy id %q", hierarchyID)
}

// scope is what a node inherits from its ancestors.
type scope struct {
	level int
	color string   // nearest explicit department color
	path  []string // non-empty ancestor hierarchy ids
	dept  string   // source id of the enclosing department
}

func (s scope) child(hierarchyID, color, dept string) scope {
	next := scope{level: s.level + 1, color: s.color, path: s.path, dept: s.dept}
	if color != "" {
		next.color = color
	}
	if dept != "" {
		next.dept = dept
	}
	if hierarchyID != "" {
		next.path = append(append(make([]string, 0, len(s.path)+1), s.path...), hierarchyID)
	}
	return next
}

// =============================================================================
// Shapes
// =============================================================================

func (b *Builder) flat(p *hierarchy.Payload) *org.Node {
	root := b.employeeCard(p.Chief, scope{}, false)
	inner := scope{}.child("", "", "")
	placed := map[string]bool{p.Chief.ID: true}
	for i := range p.Departments {
		d := &p.Departments[i]
		root.Children = append(root.Children, b.flatDepartment(d, inner))
		if d.Manager != nil {
			markSeen(d.Manager, placed)
		}
		for j := range d.Employees {
			markSeen(&d.Employees[j], placed)
		}
	}
	// Direct reports already placed in a department are not repeated.
	for i := range p.Chief.Subordinates {
		s := &p.Chief.Subordinates[i]
		if placed[s.ID] {
			continue
		}
		root.Children = append(root.Children, b.employee(s, inner, false))
		markSeen(s, placed)
	}
	return root
}

func (b *Builder) flatDepartment(d *hierarchy.Department, sc scope) *org.Node {
	n := b.department(d.ID, d.Name, d.Description, d.Color, d.HierarchyID, sc)
	inner := sc.child(d.HierarchyID, d.Color, d.ID)
	n.Children, n.Department.Headcount = b.people(d.Manager, d.Employees, inner)
	if d.Manager != nil {
		n.Department.ManagerID = d.Manager.ID
	}
	return n
}

func (b *Builder) departmentNode(d *hierarchy.DepartmentNode, sc scope) *org.Node {
	n := b.department(d.ID, d.Name, d.Description, d.Color, d.HierarchyID, sc)
	n.Department.Headcount = d.Headcount
	if n.Subtitle == "" && d.Headcount > 0 {
		n.Subtitle = strconv.Itoa(d.Headcount) + " people"
	}
	inner := sc.child(d.HierarchyID, d.Color, d.ID)
	for i := range d.Children {
		n.Children = append(n.Children, b.departmentNode(&d.Children[i], inner))
	}
	return n
}

func (b *Builder) unit(u *hierarchy.Unit, sc scope) *org.Node {
	n := b.department(u.ID, u.Name, u.Description, u.Color, u.HierarchyID, sc)
	inner := sc.child(u.HierarchyID, u.Color, u.ID)
	for i := range u.Children {
		n.Children = append(n.Children, b.unit(&u.Children[i], inner))
	}
	people, headcount := b.people(u.Manager, u.Employees, inner)
	n.Children = append(n.Children, people...)
	n.Department.Headcount = headcount
	if u.Manager != nil {
		n.Department.ManagerID = u.Manager.ID
	}
	return n
}

// people emits the manager (with their subordinates) followed by every
// listed employee not already shown, and returns the distinct headcount.
func (b *Builder) people(manager *hierarchy.Employee, employees []hierarchy.Employee, sc scope) ([]*org.Node, int) {
	seen := make(map[string]bool)
	var out []*org.Node
	if manager != nil {
		out = append(out, b.employee(manager, sc, true))
		markSeen(manager, seen)
	}
	for i := range employees {
		e := &employees[i]
		if seen[e.ID] {
			continue
		}
		out = append(out, b.employee(e, sc, false))
		markSeen(e, seen)
	}
	return out, len(seen)
}

func markSeen(e *hierarchy.Employee, seen map[string]bool) {
	seen[e.ID] = true
	for i := range e.Subordinates {
		markSeen(&e.Subordinates[i], seen)
	}
}

// =============================================================================
// Node constructors
// =============================================================================

func (b *Builder) department(id, name, description, color, hierarchyID string, sc scope) *org.Node {
	if color == "" {
		color = b.color(sc)
	}
	return &org.Node{
		ID:            b.uniqueID(DepartmentPrefix + id),
		Type:          org.TypeDepartment,
		Label:         name,
		Subtitle:      description,
		Color:         color,
		HierarchyID:   hierarchyID,
		HierarchyPath: sc.path,
		Department: &org.Department{
			SourceID:    id,
			Description: description,
		},
		IsExpanded: sc.level <= b.opts.ExpandDepth,
		Width:      b.opts.DepartmentSize.Width,
		Height:     b.opts.DepartmentSize.Height,
		Level:      sc.level,
	}
}

func (b *Builder) employee(e *hierarchy.Employee, sc scope, isManager bool) *org.Node {
	n := b.employeeCard(e, sc, isManager)
	inner := sc.child("", "", "")
	for i := range e.Subordinates {
		n.Children = append(n.Children, b.employee(&e.Subordinates[i], inner, false))
	}
	return n
}

// employeeCard builds the node for e alone, without subordinates.
func (b *Builder) employeeCard(e *hierarchy.Employee, sc scope, isManager bool) *org.Node {
	return &org.Node{
		ID:            b.uniqueID(EmployeePrefix + e.ID),
		Type:          org.TypeEmployee,
		Label:         e.Name,
		Subtitle:      e.Position,
		Color:         b.color(sc),
		HierarchyPath: sc.path,
		Employee: &org.Employee{
			SourceID:     e.ID,
			Position:     e.Position,
			Email:        e.Email,
			IsManager:    isManager,
			DepartmentID: sc.dept,
		},
		IsExpanded: sc.level <= b.opts.ExpandDepth,
		Width:      b.opts.EmployeeSize.Width,
		Height:     b.opts.EmployeeSize.Height,
		Level:      sc.level,
	}
}

func (b *Builder) color(sc scope) string {
	if sc.color != "" {
		return sc.color
	}
	return b.opts.LevelColor(sc.level)
}

// uniqueID returns id, or id#n with the smallest n >= 2 that has not been
// handed out yet. Every returned id is recorded, so a payload id that already
// looks like a suffixed one cannot collide with a generated id.
func (b *Builder) uniqueID(id string) string {
	cand := id
	for n := 1; b.ids[cand] > 0; {
		n++
		cand = fmt.Sprintf("%s#%d", id, n)
	}
	b.ids[cand]++
	return cand
}

// =============================================================================
// Branch lookup
// =============================================================================

func findDepartmentNode(nodes []hierarchy.DepartmentNode, hierarchyID string, sc scope) (*hierarchy.DepartmentNode, scope, bool) {
	for i := range nodes {
		d := &nodes[i]
		if d.HierarchyID == hierarchyID {
			return d, scope{color: sc.color, path: sc.path}, true
		}
		if found, fsc, ok := findDepartmentNode(d.Children, hierarchyID, sc.child(d.HierarchyID, d.Color, d.ID)); ok {
			return found, fsc, true
		}
	}
	return nil, scope{}, false
}

func findUnit(units []hierarchy.Unit, hierarchyID string, sc scope) (*hierarchy.Unit, scope, bool) {
	for i := range units {
		u := &units[i]
		if u.HierarchyID == hierarchyID {
			return u, scope{color: sc.color, path: sc.path}, true
		}
		if found, fsc, ok := findUnit(u.Children, hierarchyID, sc.child(u.HierarchyID, u.Color, u.ID)); ok {
			return found, fsc, true
		}
	}
	return nil, scope{}, false
}
