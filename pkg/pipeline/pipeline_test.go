package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/chart"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/org/builder"
	"github.com/matzehuels/orgchart/pkg/render"
)

func testdata(name string) string {
	return filepath.Join("..", "hierarchy", "testdata", name)
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"defaults", func(*Options) {}, false},
		{"all formats", func(o *Options) { o.Formats = render.Formats }, false},
		{"unknown format", func(o *Options) { o.Formats = []render.Format{"gif"} }, true},
		{"unknown renderer", func(o *Options) { o.Renderer = "tower" }, true},
		{"expand and collapse", func(o *Options) { o.ExpandAll, o.CollapseAll = true, true }, true},
		{"bad toggle", func(o *Options) { o.Toggles = []string{"a/b"} }, true},
		{"bad branch", func(o *Options) { o.Branch = "x\n" }, true},
		{"negative spacing", func(o *Options) { o.Layout.VerticalSpacing = -1 }, true},
		{"negative padding", func(o *Options) { o.Padding = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := opts.ValidateAndSetDefaults()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, 400, errors.HTTPStatus(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	var opts Options
	opts.SetDefaults()

	assert.Equal(t, []render.Format{render.FormatSVG}, opts.Formats)
	assert.Equal(t, RendererCards, opts.Renderer)
	assert.Equal(t, DefaultPadding, opts.Padding)
	assert.Equal(t, 1.0, opts.Viewport.Zoom)
	assert.Equal(t, builder.DefaultPalette, opts.Build.Palette)
	assert.Equal(t, org.DefaultWidth, opts.Build.EmployeeSize.Width)
	assert.NotNil(t, opts.Logger)

	empty := Options{Build: builder.Options{Palette: []string{}}}
	empty.SetDefaults()
	assert.Empty(t, empty.Build.Palette, "an explicit empty palette is kept")
}

func TestValidateForLoad(t *testing.T) {
	opts := DefaultOptions()
	assert.True(t, errors.Is(opts.ValidateForLoad(), errors.ErrCodeInvalidInput))
	opts.Source = "org.json"
	assert.NoError(t, opts.ValidateForLoad())
}

func TestBuildForest(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := DefaultOptions()
	opts.Source = testdata("flat.json")
	p, err := r.Load(context.Background(), opts)
	require.NoError(t, err)

	forest, err := BuildForest(p, opts)
	require.NoError(t, err)
	assert.Equal(t, 8, org.Count(forest))
	assert.Equal(t, 7, org.VisibleCount(forest))

	opts.Toggles = []string{"emp:e2", "emp:missing"}
	forest, err = BuildForest(p, opts)
	require.NoError(t, err)
	assert.Equal(t, 8, org.VisibleCount(forest))

	opts.Toggles = nil
	opts.CollapseAll = true
	forest, err = BuildForest(p, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, org.VisibleCount(forest))

	opts.CollapseAll = false
	opts.Branch = "H-ENG"
	forest, err = BuildForest(p, opts)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, "dept:d1", forest[0].ID)
	assert.Equal(t, 0, forest[0].Level)

	opts.Branch = "H-404"
	_, err = BuildForest(p, opts)
	assert.True(t, errors.Is(err, errors.ErrCodeBranchNotFound))
}

func TestExecute(t *testing.T) {
	r := NewRunner(cache.NewMemoryCache(), nil, nil)
	opts := DefaultOptions()
	opts.Source = testdata("hierarchy.yaml")
	opts.Title = "Acme"
	opts.Formats = []render.Format{render.FormatSVG, render.FormatJSON, render.FormatDOT}

	result, err := r.Execute(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 9, result.Stats.NodeCount)
	assert.Equal(t, 8, result.Stats.VisibleCount)
	assert.NotNil(t, result.Forest)
	assert.NotEmpty(t, result.ChartHash)
	assert.False(t, result.CacheInfo.ChartHit)
	assert.False(t, result.CacheInfo.RenderHit)

	svg := string(result.Artifacts[render.FormatSVG])
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, "Acme")
	assert.Contains(t, string(result.Artifacts[render.FormatDOT]), "digraph G {")

	parsed, err := chart.Unmarshal(result.Artifacts[render.FormatJSON])
	require.NoError(t, err)
	assert.Len(t, parsed.Cards, 8)
	assert.Equal(t, "Acme", parsed.Title)
}

func TestExecuteUsesCache(t *testing.T) {
	c := cache.NewMemoryCache()
	r := NewRunner(c, nil, nil)
	opts := DefaultOptions()
	opts.Source = testdata("departments.yaml")
	opts.Formats = []render.Format{render.FormatSVG}

	first, err := r.Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len(), "one chart and one artifact")

	second, err := r.Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, second.CacheInfo.ChartHit)
	assert.True(t, second.CacheInfo.RenderHit)
	assert.Nil(t, second.Forest)
	assert.Equal(t, first.ChartHash, second.ChartHash)
	assert.Equal(t, first.Artifacts, second.Artifacts)
	assert.Equal(t, first.Stats.NodeCount, second.Stats.NodeCount)

	opts.Toggles = []string{"dept:eng"}
	third, err := r.Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, third.CacheInfo.ChartHit, "toggles are part of the chart key")

	opts.Toggles = nil
	opts.Refresh = true
	fourth, err := r.Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, fourth.CacheInfo.ChartHit, "refresh bypasses the chart cache")
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	opts := DefaultOptions()
	opts.Source = testdata("missing.yaml")
	_, err := r.Execute(context.Background(), opts)
	assert.True(t, errors.Is(err, errors.ErrCodeSourceNotFound), "got %v", err)

	opts = DefaultOptions()
	_, err = r.Execute(context.Background(), opts)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)

	opts = DefaultOptions()
	opts.Source = testdata("flat.json")
	opts.Branch = "H-404"
	_, err = r.Execute(context.Background(), opts)
	assert.True(t, errors.Is(err, errors.ErrCodeBranchNotFound), "got %v", err)
}

func TestRenderNodelinkSVG(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := DefaultOptions()
	opts.Source = testdata("departments.yaml")
	opts.Renderer = RendererNodelink

	result, err := r.Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.Contains(t, string(result.Artifacts[render.FormatSVG]), "<svg")
}
