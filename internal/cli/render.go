package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/chart"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/pipeline"
	"github.com/matzehuels/orgchart/pkg/render"
)

// chartFlags are the flags shared by every command that builds a chart
// from a hierarchy source.
type chartFlags struct {
	inputFormat string
	branch      string
	depth       int
	expandAll   bool
	collapseAll bool
	toggles     []string
	title       string
	noCache     bool
	refresh     bool
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.inputFormat, "input-format", "", "payload format: json or yaml (default: from extension or content)")
	cmd.Flags().StringVarP(&f.branch, "branch", "b", "", "only chart the unit with this hierarchy id")
	cmd.Flags().IntVarP(&f.depth, "depth", "d", -1, "initial expansion depth (default from config)")
	cmd.Flags().BoolVar(&f.expandAll, "expand-all", false, "expand every node")
	cmd.Flags().BoolVar(&f.collapseAll, "collapse-all", false, "collapse every node")
	cmd.Flags().StringSliceVarP(&f.toggles, "toggle", "t", nil, "node ids to toggle after the initial expansion (repeatable)")
	cmd.Flags().StringVar(&f.title, "title", "", "chart title")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "refetch remote sources even if cached")
}

// apply copies the flags into opts. depth < 0 keeps the configured depth.
func (f *chartFlags) apply(opts *pipeline.Options, source string) {
	opts.Source = source
	opts.InputFormat = hierarchy.Format(f.inputFormat)
	opts.Branch = f.branch
	if f.depth >= 0 {
		opts.Build.ExpandDepth = f.depth
	}
	opts.ExpandAll = f.expandAll
	opts.CollapseAll = f.collapseAll
	opts.Toggles = f.toggles
	opts.Title = f.title
	opts.Refresh = f.refresh
}

// =============================================================================
// build
// =============================================================================

func (c *CLI) buildCommand() *cobra.Command {
	var flags chartFlags
	var output string

	cmd := &cobra.Command{
		Use:   "build <source>",
		Short: "Lay out a hierarchy and write the positioned chart as JSON",
		Long: `Build loads a hierarchy payload (file, URL or - for stdin), builds the
org tree, lays out the visible nodes and writes the chart document: cards,
connector routes, bounds and the initial viewport.`,
		Example: `  orgchart build company.yaml
  orgchart build https://hr.example.com/api/org.json -o org.chart.json
  cat company.json | orgchart build - --expand-all -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			flags.apply(&opts, args[0])
			opts.Formats = []render.Format{render.FormatJSON}
			return c.runBuild(cmd.Context(), cmd.OutOrStdout(), opts, flags.noCache, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <source>.chart.json)")
	return cmd
}

func (c *CLI) runBuild(ctx context.Context, out io.Writer, opts pipeline.Options, noCache bool, output string) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done("Built chart", "nodes", result.Stats.NodeCount, "visible", result.Stats.VisibleCount)

	data := result.Artifacts[render.FormatJSON]
	if output == "-" {
		_, err := out.Write(data)
		return err
	}
	if output == "" {
		output = basePath("", opts.Source) + ".chart.json"
	}
	if err := writeOutput(output, data); err != nil {
		return err
	}

	p := newPrinter(out)
	p.success("Chart built")
	p.stats(result.Stats.NodeCount, result.Stats.VisibleCount, result.CacheInfo.ChartHit)
	p.file(output)
	p.nextStep("Render it", fmt.Sprintf("%s render --chart %s -f svg,png", appName, output))
	return nil
}

// =============================================================================
// render
// =============================================================================

type renderFlags struct {
	chartFlags
	output    string
	formats   string
	renderer  string
	padding   float64
	noBadges  bool
	detailed  bool
	scale     float64
	fromChart bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render <source>",
		Short: "Render an org chart to SVG, PNG, PDF, JSON or DOT",
		Long: `Render builds the chart like "build" and writes it in one or more formats.

With --chart the argument is a chart document written by "build" and is
rendered as is, so expansion and viewport state survive between runs.`,
		Example: `  orgchart render company.yaml
  orgchart render company.yaml -f svg,pdf -o out/company
  orgchart render company.yaml --renderer nodelink -f svg,dot
  orgchart render --chart company.chart.json -f png --scale 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(flags.formats)
			if err != nil {
				return err
			}
			opts := c.baseOptions()
			flags.apply(&opts, args[0])
			opts.Formats = formats
			opts.Renderer = flags.renderer
			opts.Padding = flags.padding
			opts.NoBadges = flags.noBadges
			opts.Detailed = flags.detailed
			opts.Scale = flags.scale
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), opts, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVar(&flags.renderer, "renderer", pipeline.DefaultRenderer, "renderer: cards or nodelink (graphviz)")
	cmd.Flags().Float64Var(&flags.padding, "padding", pipeline.DefaultPadding, "padding around the chart in pixels")
	cmd.Flags().BoolVar(&flags.noBadges, "no-badges", false, "hide the hidden-count badges on collapsed cards")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "show emails and hierarchy ids (nodelink)")
	cmd.Flags().Float64Var(&flags.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&flags.fromChart, "chart", false, "the argument is a chart document written by build")
	return cmd
}

func (c *CLI) runRender(ctx context.Context, out io.Writer, opts pipeline.Options, flags *renderFlags) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spinner *Spinner
	if slices.Contains(opts.Formats, render.FormatPNG) || slices.Contains(opts.Formats, render.FormatPDF) {
		spinner = newSpinnerWithContext(ctx, "Rendering...")
		spinner.Start()
	}
	stop := func() {
		if spinner != nil {
			spinner.Stop()
		}
	}

	p := newPrinter(out)
	var (
		artifacts map[render.Format][]byte
		stats     func()
		empty     bool
	)
	if flags.fromChart {
		var ch chart.Chart
		ch, err = chart.ReadFile(opts.Source)
		if err == nil {
			empty = ch.IsEmpty()
			artifacts, err = runner.Render(ctx, ch, opts)
			stats = func() { p.stats(ch.NodeCount(), len(ch.Cards), false) }
		}
	} else {
		var result *pipeline.Result
		result, err = runner.Execute(ctx, opts)
		if err == nil {
			artifacts = result.Artifacts
			stats = func() {
				p.stats(result.Stats.NodeCount, result.Stats.VisibleCount, result.CacheInfo.ChartHit && result.CacheInfo.RenderHit)
			}
		}
	}
	stop()
	if err != nil {
		return err
	}
	if empty {
		p.warning("Chart %s has no cards", opts.Source)
	}

	paths := outputPaths(flags.output, opts.Source, opts.Formats)
	for _, f := range opts.Formats {
		if err := writeOutput(paths[f], artifacts[f]); err != nil {
			return err
		}
		c.Logger.Debug("wrote artifact", "format", f, "bytes", len(artifacts[f]), "path", paths[f])
	}

	p.success("Rendered %s", joinFormats(opts.Formats))
	stats()
	for _, f := range opts.Formats {
		p.file(paths[f])
	}
	return nil
}

// =============================================================================
// Output paths
// =============================================================================

// basePath derives the base output path from the output and input paths.
// If output is empty, the input's directory and name without extension are
// used; remote and stdin sources fall back to "orgchart". A known format
// extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" || strings.Contains(input, "://") {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil || ext == ".gv" {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to its file. A single format written to an
// explicit output uses that path unchanged.
func outputPaths(output, input string, formats []render.Format) map[render.Format]string {
	paths := make(map[render.Format]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	if output == "" && slices.Contains(formats, render.FormatJSON) && strings.HasSuffix(input, ".json") {
		base += ".chart"
	}
	for _, f := range formats {
		paths[f] = base + f.Extension()
	}
	return paths
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func joinFormats(formats []render.Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
