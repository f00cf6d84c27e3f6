package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/orgchart/pkg/chart"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/viewport"
)

func sampleChart() chart.Chart {
	forest := layout.Layout([]*org.Node{{
		ID: "dept:eng", Type: org.TypeDepartment, Label: "Engineering", HierarchyID: "H-1",
		Color: "#1f77b4", Width: 280, Height: 140, IsExpanded: true,
		Children: []*org.Node{
			{ID: "emp:1", Type: org.TypeEmployee, Label: "Ada", Subtitle: "Engineer", Width: 280, Height: 140},
			{
				ID: "emp:2", Type: org.TypeEmployee, Label: "Bob", Width: 280, Height: 140,
				Children: []*org.Node{{ID: "emp:3", Width: 280, Height: 140}},
			},
		},
	}}, 0, 0)
	return chart.New(forest, viewport.State{Zoom: 1})
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleChart(), Options{})

	for _, want := range []string{
		"digraph G {",
		"splines=ortho;",
		`"dept:eng" [label="Engineering", color="#1f77b4", penwidth=2];`,
		`"emp:1" [label="Ada\nEngineer"];`,
		`"dept:eng" -> "emp:1";`,
		`"dept:eng" -> "emp:2";`,
		`style="rounded,filled,dashed"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "emp:3") {
		t.Error("hidden node emp:3 should not be exported")
	}
	if strings.Contains(dot, "layout=neato") || strings.Contains(dot, "pos=") {
		t.Error("unpinned DOT should leave layout to Graphviz")
	}
}

func TestToDOTDetailedAndPinned(t *testing.T) {
	dot := ToDOT(sampleChart(), Options{Detailed: true, Pinned: true})

	if !strings.Contains(dot, `level: 0\nhierarchy: H-1`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if !strings.Contains(dot, "layout=neato;") {
		t.Error("pinned DOT should select neato")
	}
	// Root card center is (0, 70): 0in, -0.9722in.
	if !strings.Contains(dot, `pos="0.0000,-0.9722!"`) {
		t.Errorf("root position missing:\n%s", dot)
	}
	if !strings.Contains(dot, "width=3.8889") {
		t.Error("card width not converted to inches")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sampleChart(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("SVG header not normalized: %.200s", svg)
	}
}
