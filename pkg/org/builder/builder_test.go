package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/org"
)

func load(t *testing.T, name string) *hierarchy.Payload {
	t.Helper()
	path := filepath.Join("..", "..", "hierarchy", "testdata", name)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	p, err := hierarchy.Decode(data, hierarchy.FormatFromPath(path))
	require.NoError(t, err)
	return p
}

func preorder(forest []*org.Node) []string {
	var ids []string
	org.Walk(forest, func(n *org.Node, _ int) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}

func TestBuildFlat(t *testing.T) {
	forest := Build(load(t, "flat.json"), DefaultOptions())
	require.Len(t, forest, 1)

	assert.Equal(t, []string{
		"emp:e1",
		"dept:d1", "emp:e2", "emp:e3", "emp:e4",
		"dept:d2", "emp:e5",
		"emp:e9",
	}, preorder(forest))

	root := forest[0]
	assert.Equal(t, org.TypeEmployee, root.Type)
	assert.Equal(t, "Grace Hopper", root.Label)
	assert.Equal(t, "Chief Executive Officer", root.Subtitle)

	eng, ok := org.Find(forest, "dept:d1")
	require.True(t, ok)
	assert.Equal(t, org.TypeDepartment, eng.Type)
	assert.Equal(t, "H-ENG", eng.HierarchyID)
	assert.Equal(t, "e2", eng.Department.ManagerID)
	assert.Equal(t, 3, eng.Department.Headcount)

	mgr, _ := org.Find(forest, "emp:e2")
	assert.True(t, mgr.Employee.IsManager)
	assert.Equal(t, "d1", mgr.Employee.DepartmentID)
	assert.Equal(t, []string{"H-ENG"}, mgr.HierarchyPath)
	require.Len(t, mgr.Children, 1, "manager keeps their subordinates")
	assert.Equal(t, "emp:e3", mgr.Children[0].ID)
}

func TestBuildHierarchyOrdering(t *testing.T) {
	forest := Build(load(t, "hierarchy.yaml"), DefaultOptions())

	assert.Equal(t, []string{
		"dept:u-root",
		"dept:u-eng", "dept:u-platform", "emp:p4", "emp:p2", "emp:p3",
		"dept:u-sales", "emp:p5",
		"emp:p1",
	}, preorder(forest))

	p4, _ := org.Find(forest, "emp:p4")
	assert.Equal(t, []string{"H-0", "H-1", "H-1-1"}, p4.HierarchyPath)
	assert.Equal(t, 3, p4.Level)

	root := forest[0]
	assert.Empty(t, root.HierarchyPath)
	assert.Equal(t, "p1", root.Department.ManagerID)
}

func TestBuildDepartmentTree(t *testing.T) {
	forest := Build(load(t, "departments.yaml"), DefaultOptions())
	assert.Equal(t, []string{"dept:root", "dept:eng", "dept:platform", "dept:apps", "dept:ops"}, preorder(forest))

	eng, _ := org.Find(forest, "dept:eng")
	assert.Equal(t, "42 people", eng.Subtitle)
	org.Walk(forest, func(n *org.Node, _ int) bool {
		assert.Equal(t, org.TypeDepartment, n.Type, n.ID)
		return true
	})
}

func TestExpandDepth(t *testing.T) {
	p := load(t, "hierarchy.yaml")
	tests := []struct {
		depth   int
		visible int
	}{
		{-1, 1},
		{0, 4}, // root + u-eng, u-sales, p1
		{1, 8},
		{10, 9},
	}
	for _, tt := range tests {
		opts := DefaultOptions()
		opts.ExpandDepth = tt.depth
		forest := Build(p, opts)
		assert.Equal(t, tt.visible, org.VisibleCount(forest), "depth %d", tt.depth)
	}
}

func TestColors(t *testing.T) {
	forest := Build(load(t, "flat.json"), DefaultOptions())

	tests := []struct {
		id   string
		want string
	}{
		{"emp:e1", DefaultPalette[0]},
		{"dept:d1", "#1f77b4"},
		{"emp:e4", "#1f77b4"}, // inherited
		{"emp:e3", "#1f77b4"}, // inherited through the manager
		{"dept:d2", DefaultPalette[1]},
		{"emp:e5", DefaultPalette[2]},
	}
	for _, tt := range tests {
		n, ok := org.Find(forest, tt.id)
		require.True(t, ok, tt.id)
		assert.Equal(t, tt.want, n.Color, tt.id)
	}

	opts := DefaultOptions()
	opts.Palette = nil
	opts.FallbackColor = "#000000"
	forest = Build(load(t, "departments.yaml"), opts)
	ops, _ := org.Find(forest, "dept:ops")
	root, _ := org.Find(forest, "dept:root")
	assert.Equal(t, "#2ca02c", ops.Color)
	assert.Equal(t, "#000000", root.Color)
}

func TestLevelColorFallback(t *testing.T) {
	opts := Options{Palette: []string{"a", "b"}, FallbackColor: "z"}
	assert.Equal(t, "a", opts.LevelColor(0))
	assert.Equal(t, "b", opts.LevelColor(1))
	assert.Equal(t, "z", opts.LevelColor(2))
	assert.Equal(t, "z", opts.LevelColor(-1))
}

func TestDuplicateEmployeeAcrossDepartments(t *testing.T) {
	p := &hierarchy.Payload{
		Kind:  hierarchy.KindFlat,
		Chief: &hierarchy.Employee{ID: "c", Name: "Chief"},
		Departments: []hierarchy.Department{
			{ID: "a", Name: "A", Employees: []hierarchy.Employee{{ID: "x", Name: "X"}}},
			{ID: "b", Name: "B", Employees: []hierarchy.Employee{{ID: "x", Name: "X"}}},
		},
	}
	forest := Build(p, DefaultOptions())
	assert.Equal(t, []string{"emp:c", "dept:a", "emp:x", "dept:b", "emp:x#2"}, preorder(forest))

	second, _ := org.Find(forest, "emp:x#2")
	assert.Equal(t, "x", second.Employee.SourceID)

	// A payload id shaped like a generated one still gets its own node id.
	p = &hierarchy.Payload{
		Kind: hierarchy.KindHierarchy,
		Units: []hierarchy.Unit{
			{ID: "a", Name: "A", HierarchyID: "H-A", Employees: []hierarchy.Employee{{ID: "5", Name: "Five"}}},
			{ID: "b", Name: "B", HierarchyID: "H-B", Employees: []hierarchy.Employee{
				{ID: "5", Name: "Five"},
				{ID: "5#2", Name: "Five Two"},
			}},
		},
	}
	require.NoError(t, hierarchy.Validate(p))
	forest = Build(p, DefaultOptions())

	seen := map[string]int{}
	org.Walk(forest, func(n *org.Node, _ int) bool {
		seen[n.ID]++
		return true
	})
	for id, n := range seen {
		assert.Equal(t, 1, n, "id %q used by %d nodes", id, n)
	}
	literal, ok := org.Find(forest, "emp:5#2#2")
	require.True(t, ok)
	assert.Equal(t, "5#2", literal.Employee.SourceID)
}

func TestChiefReportsNotRepeated(t *testing.T) {
	p := &hierarchy.Payload{
		Kind: hierarchy.KindFlat,
		Chief: &hierarchy.Employee{ID: "c", Name: "Chief", Subordinates: []hierarchy.Employee{
			{ID: "m", Name: "Manager"},
			{ID: "s", Name: "Staff"},
		}},
		Departments: []hierarchy.Department{
			{ID: "d", Name: "D", Manager: &hierarchy.Employee{ID: "m", Name: "Manager"}},
		},
	}
	forest := Build(p, DefaultOptions())
	assert.Equal(t, []string{"emp:c", "dept:d", "emp:m", "emp:s"}, preorder(forest))
}

func TestSizes(t *testing.T) {
	opts := DefaultOptions()
	opts.EmployeeSize = Size{Width: 200, Height: 100}
	forest := Build(load(t, "hierarchy.yaml"), opts)
	org.Walk(forest, func(n *org.Node, _ int) bool {
		if n.IsEmployee() {
			assert.Equal(t, 200.0, n.Width)
			assert.Equal(t, 100.0, n.Height)
		} else {
			assert.Equal(t, org.DefaultWidth, n.Width)
			assert.Equal(t, org.DefaultHeight, n.Height)
		}
		return true
	})
}

func TestBuildBranch(t *testing.T) {
	p := load(t, "hierarchy.yaml")
	forest, err := New(DefaultOptions()).BuildBranch(p, "H-1")
	require.NoError(t, err)
	require.Len(t, forest, 1)

	root := forest[0]
	assert.Equal(t, "dept:u-eng", root.ID)
	assert.Equal(t, 0, root.Level)
	assert.Equal(t, []string{"H-0"}, root.HierarchyPath)
	assert.Equal(t, []string{"dept:u-eng", "dept:u-platform", "emp:p4", "emp:p2", "emp:p3"}, preorder(forest))

	p4, _ := org.Find(forest, "emp:p4")
	assert.Equal(t, []string{"H-0", "H-1", "H-1-1"}, p4.HierarchyPath)
	assert.Equal(t, 2, p4.Level)
}

func TestBuildBranchOtherShapes(t *testing.T) {
	forest, err := New(DefaultOptions()).BuildBranch(load(t, "departments.yaml"), "H-1-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"dept:apps"}, preorder(forest))
	assert.Equal(t, []string{"H-0", "H-1"}, forest[0].HierarchyPath)

	forest, err = New(DefaultOptions()).BuildBranch(load(t, "flat.json"), "H-ENG")
	require.NoError(t, err)
	assert.Equal(t, "dept:d1", forest[0].ID)
	assert.Equal(t, "#1f77b4", forest[0].Color)
}

func TestBuildBranchNotFound(t *testing.T) {
	_, err := New(DefaultOptions()).BuildBranch(load(t, "hierarchy.yaml"), "H-404")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeBranchNotFound))
}
