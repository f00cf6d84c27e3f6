package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/pipeline"
)

func (c *CLI) viewCommand() *cobra.Command {
	var flags chartFlags
	var pick bool

	cmd := &cobra.Command{
		Use:   "view <source>",
		Short: "Browse an org chart in the terminal",
		Long: `View opens an interactive chart viewer.

Keys:
  enter/space   expand or collapse the selected card
  arrows        move the selection (←/→ preorder, ↑ parent, ↓ first child)
  e / c         expand all / collapse all
  h j k l       pan, or drag with the mouse
  + / -         zoom buttons; alt+= alt+- alt+0 and ctrl+wheel also zoom
  f / F / r     fit to view / frame the whole chart / reset
  q             quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			flags.apply(&opts, args[0])
			return c.runView(cmd.Context(), opts, flags.noCache, pick)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&pick, "pick", "p", false, "pick the branch to view from a list")
	return cmd
}

func (c *CLI) runView(ctx context.Context, opts pipeline.Options, noCache, pick bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	p, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}

	if pick {
		full := opts
		full.Branch = ""
		forest, err := pipeline.BuildForest(p, full)
		if err != nil {
			return err
		}
		final, err := tea.NewProgram(NewBranchListModel(branchesOf(forest)), tea.WithContext(ctx)).Run()
		if err != nil {
			return err
		}
		sel := final.(BranchListModel).Selected
		if sel == nil {
			return nil
		}
		opts.Branch = sel.HierarchyID
	}

	forest, err := pipeline.BuildForest(p, opts)
	if err != nil {
		return err
	}
	c.Logger.Debug("opening viewer", "nodes", org.Count(forest), "visible", org.VisibleCount(forest))

	m := newViewerModel(forest, opts.Layout, c.Config.Viewport, opts.Title, nil)
	defer m.close()
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}
