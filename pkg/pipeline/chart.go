package pipeline

import (
	"github.com/matzehuels/orgchart/pkg/chart"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/org/builder"
)

// BuildForest converts p into a forest and applies the expansion options in
// order: branch selection, expand/collapse all, then each toggle. Unknown
// toggle ids are ignored.
func BuildForest(p *hierarchy.Payload, opts Options) ([]*org.Node, error) {
	b := builder.New(opts.Build)

	var forest []*org.Node
	if opts.Branch != "" {
		var err error
		if forest, err = b.BuildBranch(p, opts.Branch); err != nil {
			return nil, err
		}
	} else {
		forest = b.Build(p)
	}

	switch {
	case opts.ExpandAll:
		forest = org.ExpandAll(forest)
	case opts.CollapseAll:
		forest = org.CollapseAll(forest)
	}
	for _, id := range opts.Toggles {
		forest = org.Toggle(forest, id)
	}
	return forest, nil
}

// Position lays out forest with the configured spacing, rooted at the origin.
func Position(forest []*org.Node, cfg layout.Config) []*org.Node {
	return cfg.Layout(forest, 0, 0)
}

// NewChart cuts the visible chart out of a positioned forest.
func NewChart(positioned []*org.Node, opts Options) chart.Chart {
	c := chart.New(positioned, opts.Viewport)
	c.Title = opts.Title
	return c
}
