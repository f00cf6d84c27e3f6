package chart

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/orgchart/pkg/connector"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/viewport"
)

func testForest() []*org.Node {
	return layout.Layout([]*org.Node{{
		ID: "dept:root", Type: org.TypeDepartment, Label: "Acme",
		Width: 280, Height: 140, IsExpanded: true,
		Children: []*org.Node{
			{
				ID: "emp:1", Type: org.TypeEmployee, Label: "Ada",
				Width: 280, Height: 140,
				Employee: &org.Employee{Email: "ada@example.com", IsManager: true},
				Children: []*org.Node{
					{ID: "emp:2", Type: org.TypeEmployee, Label: "Bob", Width: 280, Height: 140},
					{ID: "emp:3", Type: org.TypeEmployee, Width: 280, Height: 140},
				},
			},
			{ID: "emp:4", Type: org.TypeEmployee, Label: "Dan", Width: 280, Height: 140},
		},
	}}, 0, 0)
}

func TestNew(t *testing.T) {
	vp := viewport.State{Zoom: 0.8, Position: viewport.Point{X: 10, Y: 20}}
	c := New(testForest(), vp)

	if got := len(c.Cards); got != 3 {
		t.Fatalf("len(Cards) = %d, want 3", got)
	}
	if got := len(c.Connectors); got != 2 {
		t.Errorf("len(Connectors) = %d, want 2", got)
	}
	if c.Viewport != vp {
		t.Errorf("Viewport = %+v, want %+v", c.Viewport, vp)
	}
	if c.Bounds != (layout.Bounds{MinX: -290, MinY: 0, MaxX: 290, MaxY: 440}) {
		t.Errorf("Bounds = %+v", c.Bounds)
	}

	ada, ok := c.Card("emp:1")
	if !ok {
		t.Fatal("emp:1 missing")
	}
	if ada.ParentID != "dept:root" || ada.HiddenCount != 2 || ada.ChildCount != 2 || !ada.Collapsible() {
		t.Errorf("emp:1 = %+v", ada)
	}
	if ada.Email != "ada@example.com" || !ada.IsManager {
		t.Errorf("employee fields not copied: %+v", ada)
	}
	if got := c.NodeCount(); got != 5 {
		t.Errorf("NodeCount = %d, want 5", got)
	}
	if _, ok := c.Card("emp:2"); ok {
		t.Error("hidden node emp:2 became a card")
	}
}

func TestNewEmpty(t *testing.T) {
	c := New(nil, viewport.State{Zoom: 1})
	if !c.IsEmpty() || c.Cards == nil || c.Connectors == nil {
		t.Errorf("New(nil) = %+v, want empty non-nil slices", c)
	}
	data, err := Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Unmarshal(data); err != nil {
		t.Errorf("Unmarshal(empty) error = %v", err)
	}
}

func TestLabelFallsBackToID(t *testing.T) {
	c := New(org.ExpandAll(testForest()), viewport.State{})
	card, _ := c.Card("emp:3")
	if card.Label != "emp:3" {
		t.Errorf("Label = %q, want emp:3", card.Label)
	}
}

func TestUnmarshalRejectsDanglingConnector(t *testing.T) {
	c := Chart{
		Cards:      []Card{{ID: "a"}},
		Connectors: []connector.Connector{{FromID: "a", ToID: "ghost"}},
	}
	data, err := Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Unmarshal(data); err == nil {
		t.Error("Unmarshal() should reject a connector to an unknown card")
	}
	if _, err := Unmarshal([]byte("{")); err == nil {
		t.Error("Unmarshal() should reject invalid JSON")
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.json")
	want := New(testForest(), viewport.State{Zoom: 1})
	if err := WriteFile(want, path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Cards) != len(want.Cards) || got.Cards[1].X != want.Cards[1].X {
		t.Errorf("ReadFile() = %+v, want %+v", got, want)
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ReadFile(missing) should fail")
	}
}
