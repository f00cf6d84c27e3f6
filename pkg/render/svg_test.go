package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/orgchart/pkg/chart"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/viewport"
)

func sampleChart() chart.Chart {
	forest := layout.Layout([]*org.Node{{
		ID: "dept:r&d", Type: org.TypeDepartment, Label: "R&D <Labs>", Color: "#4C78A8",
		Width: 280, Height: 140, IsExpanded: true,
		Children: []*org.Node{
			{ID: "emp:1", Type: org.TypeEmployee, Label: "Ada", Subtitle: "Engineer", Width: 280, Height: 140},
			{
				ID: "emp:2", Type: org.TypeEmployee, Label: "Bob", Width: 280, Height: 140,
				Children: []*org.Node{{ID: "emp:3", Width: 280, Height: 140}},
			},
		},
	}}, 0, 0)
	c := chart.New(forest, viewport.State{Zoom: 0.5, Position: viewport.Point{X: 100, Y: 50}})
	c.Title = "Acme"
	return c
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(sampleChart()))

	checks := []struct {
		name, want string
		count      int
	}{
		{"cards", `class="card"`, 3},
		{"connectors", `class="connector"`, 2},
		{"color band", `fill="#4C78A8"`, 1},
		{"subtitle", `>Engineer<`, 1},
		{"badge", `>+1<`, 1},
		{"escaped label", `R&amp;D &lt;Labs&gt;`, 1},
		{"framed transform", `transform="translate(330 40) scale(1)"`, 1},
	}
	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			if got := strings.Count(svg, c.want); got != c.count {
				t.Errorf("count(%q) = %d, want %d", c.want, got, c.count)
			}
		})
	}

	// Bounds 580x440 plus 40px padding on each side.
	if !strings.Contains(svg, `viewBox="0 0 660 520"`) {
		t.Errorf("unexpected viewBox in %s", svg[:200])
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not closed")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	c := sampleChart()
	svg := string(RenderSVG(c, WithViewport(800, 600), WithoutBadges(), WithBackground("#fafafa"), WithTitle()))

	if !strings.Contains(svg, `transform="translate(100 50) scale(0.5)"`) {
		t.Error("viewport transform not applied")
	}
	if !strings.Contains(svg, `viewBox="0 0 800 600"`) {
		t.Error("surface size not used")
	}
	if strings.Contains(svg, `class="badge"`) {
		t.Error("badges should be hidden")
	}
	if !strings.Contains(svg, `fill="#fafafa"`) || !strings.Contains(svg, ">Acme<") {
		t.Error("background or title missing")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	svg := string(RenderSVG(chart.New(nil, viewport.State{})))
	if strings.Contains(svg, `class="card"`) {
		t.Error("empty chart should draw no cards")
	}
	if !strings.Contains(svg, "<svg") {
		t.Error("empty chart should still produce a canvas")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ada", "Ada"},
		{"Bartholomew Fitzgerald-Montgomery the Third", "Bartholomew Fitz.."},
		{"ünïcødé ünïcødé ünïcødé", "ünïcødé ünïcødé .."},
	}
	for _, tt := range tests {
		// 10px font: 5.5px per char, 100px fits 18 chars.
		if got := truncate(tt.in, 100, 10); got != tt.want {
			t.Errorf("truncate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"svg", "PNG", " pdf ", "json", "dot"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", s, err)
		}
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Error("ParseFormat(gif) should fail")
	}
	if FormatSVG.ContentType() != "image/svg+xml" || FormatDOT.Extension() != ".gv" {
		t.Error("unexpected format metadata")
	}
}
