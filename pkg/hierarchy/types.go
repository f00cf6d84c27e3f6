package hierarchy

// Kind selects which of the three payload shapes a document carries.
type Kind string

// Payload kinds.
const (
	KindFlat        Kind = "flat"
	KindDepartments Kind = "departments"
	KindHierarchy   Kind = "hierarchy"
)

// Kinds lists every supported kind in documentation order.
var Kinds = []Kind{KindFlat, KindDepartments, KindHierarchy}

// Payload is one decoded hierarchy document. Exactly one of the shape-specific
// field groups is populated, according to Kind:
//
//	flat         Chief, Departments
//	departments  Tree
//	hierarchy    Units
type Payload struct {
	Kind Kind `json:"kind" yaml:"kind" validate:"required,oneof=flat departments hierarchy"`

	Chief       *Employee    `json:"chief,omitempty" yaml:"chief,omitempty" validate:"required_if=Kind flat"`
	Departments []Department `json:"departments,omitempty" yaml:"departments,omitempty" validate:"dive"`

	Tree []DepartmentNode `json:"tree,omitempty" yaml:"tree,omitempty" validate:"required_if=Kind departments,dive"`

	Units []Unit `json:"units,omitempty" yaml:"units,omitempty" validate:"required_if=Kind hierarchy,dive"`
}

// Employee is a person and, recursively, the people reporting to them.
type Employee struct {
	ID           string     `json:"id" yaml:"id" validate:"required"`
	Name         string     `json:"name" yaml:"name" validate:"required"`
	Position     string     `json:"position,omitempty" yaml:"position,omitempty"`
	Email        string     `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	Subordinates []Employee `json:"subordinates,omitempty" yaml:"subordinates,omitempty" validate:"dive"`
}

// Department is one entry of a flat hierarchy.
type Department struct {
	ID          string     `json:"id" yaml:"id" validate:"required"`
	Name        string     `json:"name" yaml:"name" validate:"required"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Color       string     `json:"color,omitempty" yaml:"color,omitempty" validate:"omitempty,hexcolor"`
	HierarchyID string     `json:"hierarchy_id,omitempty" yaml:"hierarchy_id,omitempty"`
	Manager     *Employee  `json:"manager,omitempty" yaml:"manager,omitempty"`
	Employees   []Employee `json:"employees,omitempty" yaml:"employees,omitempty" validate:"dive"`
}

// DepartmentNode is one node of a department-only tree.
type DepartmentNode struct {
	ID          string           `json:"id" yaml:"id" validate:"required"`
	Name        string           `json:"name" yaml:"name" validate:"required"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Color       string           `json:"color,omitempty" yaml:"color,omitempty" validate:"omitempty,hexcolor"`
	HierarchyID string           `json:"hierarchy_id,omitempty" yaml:"hierarchy_id,omitempty"`
	Headcount   int              `json:"headcount,omitempty" yaml:"headcount,omitempty" validate:"gte=0"`
	Children    []DepartmentNode `json:"children,omitempty" yaml:"children,omitempty" validate:"dive"`
}

// Unit is one node of a hierarchy tree with embedded people.
type Unit struct {
	ID          string     `json:"id" yaml:"id" validate:"required"`
	Name        string     `json:"name" yaml:"name" validate:"required"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Color       string     `json:"color,omitempty" yaml:"color,omitempty" validate:"omitempty,hexcolor"`
	HierarchyID string     `json:"hierarchy_id,omitempty" yaml:"hierarchy_id,omitempty"`
	Manager     *Employee  `json:"manager,omitempty" yaml:"manager,omitempty"`
	Employees   []Employee `json:"employees,omitempty" yaml:"employees,omitempty" validate:"dive"`
	Children    []Unit     `json:"children,omitempty" yaml:"children,omitempty" validate:"dive"`
}
