package layout

import (
	"math/rand"
	"testing"

	"github.com/matzehuels/orgchart/pkg/org"
)

func card(id string, expanded bool, children ...*org.Node) *org.Node {
	return &org.Node{
		ID:         id,
		Width:      org.DefaultWidth,
		Height:     org.DefaultHeight,
		IsExpanded: expanded,
		Children:   children,
	}
}

func find(t *testing.T, forest []*org.Node, id string) *org.Node {
	t.Helper()
	n, ok := org.Find(forest, id)
	if !ok {
		t.Fatalf("node %q not found", id)
	}
	return n
}

func TestTwoChildCentering(t *testing.T) {
	forest := []*org.Node{card("root", true, card("c1", false), card("c2", false))}
	cfg := DefaultConfig()

	if got := cfg.SubtreeWidth(forest[0]); got != 580 {
		t.Fatalf("SubtreeWidth(root) = %v, want 580", got)
	}

	// Root centered on x=0.
	out := cfg.Layout(forest, 0, 0)
	root := find(t, out, "root")
	if root.X != -140 || root.Y != 0 {
		t.Errorf("root = (%v, %v), want (-140, 0)", root.X, root.Y)
	}

	tests := []struct {
		id   string
		x, y float64
	}{
		{"c1", -290, 300},
		{"c2", 10, 300},
	}
	for _, tt := range tests {
		n := find(t, out, tt.id)
		if n.X != tt.x || n.Y != tt.y {
			t.Errorf("%s = (%v, %v), want (%v, %v)", tt.id, n.X, n.Y, tt.x, tt.y)
		}
		if n.Level != 1 {
			t.Errorf("%s level = %d, want 1", tt.id, n.Level)
		}
	}
}

func TestSubtreeWidth(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name string
		node *org.Node
		want float64
	}{
		{"Leaf", card("a", true), 280},
		{"Collapsed", card("a", false, card("b", true), card("c", true), card("d", true)), 280},
		{"SingleChild", card("a", true, card("b", true)), 280},
		{"ThreeChildren", card("a", true, card("b", true), card("c", true), card("d", true)), 3*280 + 2*20},
		{
			name: "Nested",
			node: card("a", true,
				card("b", true, card("b1", true), card("b2", true)),
				card("c", false, card("c1", true)),
			),
			want: 580 + 20 + 280,
		},
		{
			name: "WideParent",
			node: &org.Node{ID: "a", Width: 1000, IsExpanded: true, Children: []*org.Node{card("b", true)}},
			want: 1000,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.SubtreeWidth(tt.node); got != tt.want {
				t.Errorf("SubtreeWidth() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollapseInvariance(t *testing.T) {
	cfg := DefaultConfig()
	for fanout := 0; fanout < 6; fanout++ {
		n := card("n", false)
		for i := 0; i < fanout; i++ {
			n.Children = append(n.Children, card("c", true, card("g", true), card("g", true)))
		}
		if got := cfg.SubtreeWidth(n); got != n.Width {
			t.Errorf("fanout %d: collapsed width = %v, want %v", fanout, got, n.Width)
		}
	}
}

func TestLayoutDoesNotMutateInput(t *testing.T) {
	forest := []*org.Node{card("root", true, card("a", true), card("b", true))}
	out := Layout(forest, 500, 40)
	if forest[0].X != 0 || forest[0].Children[0].X != 0 {
		t.Error("input forest was mutated")
	}
	if out[0] == forest[0] {
		t.Error("Layout should return new nodes")
	}
	if out[0].Width != forest[0].Width || out[0].Height != forest[0].Height {
		t.Error("Layout changed node dimensions")
	}
}

func TestCollapsedChildrenKeepStaleCoordinates(t *testing.T) {
	hidden := card("hidden", true)
	hidden.X, hidden.Y = 12345, 678
	forest := []*org.Node{card("root", false, hidden)}

	out := Layout(forest, 0, 0)
	got := find(t, out, "hidden")
	if got.X != 12345 || got.Y != 678 {
		t.Errorf("hidden child moved to (%v, %v)", got.X, got.Y)
	}
	if len(out[0].Children) != 1 {
		t.Error("collapsed node lost its children")
	}
}

func TestSingleChildCentered(t *testing.T) {
	forest := []*org.Node{card("root", true, card("only", true))}
	out := Layout(forest, 100, 0)
	root, child := out[0], out[0].Children[0]
	if root.CenterX() != child.CenterX() {
		t.Errorf("child center %v, parent center %v", child.CenterX(), root.CenterX())
	}
	if child.Y != root.Y+DefaultVerticalSpacing {
		t.Errorf("child.Y = %v, want %v", child.Y, root.Y+DefaultVerticalSpacing)
	}
}

func TestWideParentCentersChildRow(t *testing.T) {
	root := card("root", true, card("c1", false), card("c2", false))
	root.Width = 800
	cfg := DefaultConfig()

	if got := cfg.SubtreeWidth(root); got != 800 {
		t.Fatalf("SubtreeWidth(root) = %v, want 800", got)
	}

	// The 580px row is centered under the parent, not started at its left
	// edge (-400).
	out := cfg.Layout([]*org.Node{root}, 0, 0)
	tests := []struct {
		id string
		x  float64
	}{
		{"root", -400},
		{"c1", -290},
		{"c2", 10},
	}
	for _, tt := range tests {
		if n := find(t, out, tt.id); n.X != tt.x {
			t.Errorf("%s.X = %v, want %v", tt.id, n.X, tt.x)
		}
	}
}

func TestMultipleRoots(t *testing.T) {
	forest := []*org.Node{card("r1", false), card("r2", false), card("r3", false)}
	out := Layout(forest, 0, 50)
	// Row width 3*280 + 2*20 = 880, so the first root starts at -440.
	want := []float64{-440, -140, 160}
	for i, n := range out {
		if n.X != want[i] || n.Y != 50 || n.Level != 0 {
			t.Errorf("%s = (%v, %v, level %d), want (%v, 50, level 0)", n.ID, n.X, n.Y, n.Level, want[i])
		}
	}
}

func TestEmptyForest(t *testing.T) {
	if out := Layout(nil, 0, 0); len(out) != 0 {
		t.Errorf("Layout(nil) = %v, want empty", out)
	}
	if b := BoundsOf(nil); b != (Bounds{}) {
		t.Errorf("BoundsOf(nil) = %+v, want zero", b)
	}
}

// randomForest builds a forest with random fanout, widths and expansion.
func randomForest(rng *rand.Rand, depth int) []*org.Node {
	var build func(d int) *org.Node
	id := 0
	build = func(d int) *org.Node {
		id++
		n := &org.Node{
			ID:         string(rune('a'+id%26)) + string(rune('0'+id%10)),
			Width:      float64(100 + rng.Intn(300)),
			Height:     org.DefaultHeight,
			IsExpanded: rng.Intn(4) != 0,
		}
		if d < depth {
			for i := rng.Intn(4); i > 0; i-- {
				n.Children = append(n.Children, build(d+1))
			}
		}
		return n
	}
	roots := make([]*org.Node, 1+rng.Intn(3))
	for i := range roots {
		roots[i] = build(0)
	}
	return roots
}

func TestLayoutProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cfg := DefaultConfig()

	for iter := 0; iter < 200; iter++ {
		forest := randomForest(rng, 4)
		out := cfg.Layout(forest, 0, 0)

		// Determinism.
		again := cfg.Layout(forest, 0, 0)
		a, b := org.Visible(out), org.Visible(again)
		for i := range a {
			if a[i].X != b[i].X || a[i].Y != b[i].Y {
				t.Fatalf("iter %d: layout not deterministic at %s", iter, a[i].ID)
			}
		}

		for _, n := range org.Visible(out) {
			if !n.IsExpanded {
				continue
			}
			for i, c := range n.Children {
				if c.Y != n.Y+cfg.VerticalSpacing {
					t.Fatalf("iter %d: child y = %v, parent y = %v", iter, c.Y, n.Y)
				}
				if i == 0 {
					continue
				}
				// Sibling subtrees never overlap.
				prev := n.Children[i-1]
				minDist := cfg.SubtreeWidth(prev)/2 + cfg.HorizontalSpacing + cfg.SubtreeWidth(c)/2
				if dist := c.CenterX() - prev.CenterX(); dist < minDist-1e-9 {
					t.Fatalf("iter %d: siblings %s,%s centers %v apart, want >= %v", iter, prev.ID, c.ID, dist, minDist)
				}
			}
		}
	}
}

func TestBoundsOf(t *testing.T) {
	out := Layout([]*org.Node{card("root", true, card("c1", true), card("c2", true))}, 0, 0)
	b := BoundsOf(org.Visible(out))
	want := Bounds{MinX: -290, MinY: 0, MaxX: 290, MaxY: 440}
	if b != want {
		t.Errorf("BoundsOf() = %+v, want %+v", b, want)
	}
	if b.Width() != 580 || b.Height() != 440 || b.CenterX() != 0 {
		t.Errorf("derived values wrong: w=%v h=%v cx=%v", b.Width(), b.Height(), b.CenterX())
	}
	if p := b.Pad(10); p.MinX != -300 || p.MaxY != 450 {
		t.Errorf("Pad(10) = %+v", p)
	}
}
