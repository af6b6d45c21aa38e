package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/dataset"
	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/pipeline"
	"github.com/matzehuels/vizbind/pkg/spec"
)

// inputFlags are the flags shared by every command that reads a spec and
// datasets.
type inputFlags struct {
	frames   []string
	width    float64
	height   float64
	duration time.Duration
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.frames, "frames", nil, "additional dataset files applied in order after the first")
	cmd.Flags().Float64Var(&f.width, "width", 0, "chart width (overrides the spec)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "chart height (overrides the spec)")
	cmd.Flags().DurationVar(&f.duration, "duration", -1, "transition duration (overrides the spec)")
}

// options reads the spec and every dataset file into pipeline options.
// Datasets are merged into a single frames document.
func (f *inputFlags) options(specPath string, datasets []string) (pipeline.Options, error) {
	data, err := os.ReadFile(specPath)
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeNotFound, err, "read spec %s", specPath)
	}
	frames, err := loadFrames(append(datasets, f.frames...))
	if err != nil {
		return pipeline.Options{}, err
	}
	doc, err := json.Marshal(map[string]any{"frames": frames})
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInternal, err, "encode frames")
	}
	opts := pipeline.Options{
		Spec:          data,
		SpecFormat:    spec.FormatOf(specPath),
		Dataset:       doc,
		DatasetFormat: dataset.FormatJSON,
		Width:         f.width,
		Height:        f.height,
	}
	if f.duration >= 0 {
		d := f.duration
		opts.Duration = &d
	}
	return opts, nil
}

func loadFrames(paths []string) ([][]accessor.Datum, error) {
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "at least one dataset is required")
	}
	var frames [][]accessor.Datum
	for _, p := range paths {
		fs, err := dataset.LoadFrames(p)
		if err != nil {
			return nil, err
		}
		frames = append(frames, fs...)
	}
	return frames, nil
}

type renderOpts struct {
	inputFlags
	output     string
	formats    []string
	interval   time.Duration
	elapsed    time.Duration
	background string
	title      string
	noCache    bool
	refresh    bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var formats string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <spec> <dataset> [dataset...]",
		Short: "Render a chart after applying every dataset frame",
		Long: `Render applies each dataset frame to the chart in order, runs the
transitions between them and writes the final picture.

A dataset file holds one frame (an array of records) or several (an array
of arrays, or {"frames": [...]}).`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formats)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], args[1:], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path; - writes to stdout")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), json, commands (comma-separated)")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "clock time between frames (default: the transition duration)")
	cmd.Flags().DurationVar(&opts.elapsed, "elapsed", 0, "clock time after the last frame (default: until transitions finish)")
	cmd.Flags().StringVar(&opts.background, "background", "", "background color")
	cmd.Flags().StringVar(&opts.title, "title", "", "chart title (overrides the spec)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, specPath string, datasets []string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	po, err := opts.options(specPath, datasets)
	if err != nil {
		return err
	}
	po.Formats = opts.formats
	po.Interval = opts.interval
	po.Elapsed = opts.elapsed
	po.Background = opts.background
	po.Title = opts.title
	po.Refresh = opts.refresh

	runner, err := c.newRunner(logger, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinner(ctx, os.Stderr, "Rendering...")
	if logger.GetLevel() > LogDebug {
		spin.start()
	}
	res, err := runner.Execute(ctx, po)
	spin.stop()
	if err != nil {
		return err
	}

	for _, d := range res.Diagnostics {
		printWarning("%s: %s", d.Code, d.Message)
	}
	paths, err := writeArtifacts(res.Artifacts, opts.formats, opts.output, specPath)
	if err != nil {
		return err
	}
	if opts.output == "-" {
		return nil
	}
	printSuccess("Rendered %s", filepath.Base(specPath))
	printStats(res)
	for _, p := range paths {
		printFile(p)
	}
	prog.done(fmt.Sprintf("Rendered %d frames", res.Stats.Frames))
	return nil
}

// writeArtifacts writes each format. A single format goes to output as
// given; several formats use output (or the spec's base name) plus the
// format extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, specPath string) ([]string, error) {
	if output == "-" {
		if len(formats) != 1 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "stdout output needs exactly one format")
		}
		_, err := os.Stdout.Write(artifacts[formats[0]])
		return nil, err
	}
	base := strings.TrimSuffix(output, filepath.Ext(output))
	if output == "" {
		base = strings.TrimSuffix(specPath, filepath.Ext(specPath))
	}
	var paths []string
	for _, f := range formats {
		path := base + "." + extension(f)
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func extension(format string) string {
	if format == pipeline.FormatCommands {
		return "commands.json"
	}
	return format
}
