package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/render/nodelink"
)

type layoutOpts struct {
	inputFlags
	output    string
	component string
	noCache   bool
}

func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts
	cmd := &cobra.Command{
		Use:   "layout <spec> <dataset> [dataset...]",
		Short: "Dump the chord layout of the last dataset frame as JSON",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], args[1:], opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.component, "component", "c", "", "chord component id (default: the first chord)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	return cmd
}

func (c *CLI) runLayout(ctx context.Context, specPath string, datasets []string, opts layoutOpts) error {
	logger := loggerFromContext(ctx)
	po, err := opts.options(specPath, datasets)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(logger, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	data, err := runner.Layout(ctx, po, opts.component)
	if err != nil {
		return err
	}
	return writeOutput(opts.output, data)
}

type treeOpts struct {
	inputFlags
	output      string
	component   string
	format      string
	detailed    bool
	leftToRight bool
}

func (c *CLI) treeCommand() *cobra.Command {
	opts := treeOpts{format: "dot"}
	cmd := &cobra.Command{
		Use:   "tree <spec> <dataset> [dataset...]",
		Short: "Draw the hierarchy of a chord component as a node-link diagram",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "dot" && opts.format != "svg" {
				return errors.New(errors.ErrCodeConfiguration, "invalid tree format %q (must be dot or svg)", opts.format)
			}
			po, err := opts.options(args[0], args[1:])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(loggerFromContext(cmd.Context()), true)
			if err != nil {
				return err
			}
			defer runner.Close()

			data, err := runner.Tree(po, opts.component, nodelink.Options{
				Detailed:    opts.detailed,
				LeftToRight: opts.leftToRight,
			}, opts.format == "svg")
			if err != nil {
				return err
			}
			return writeOutput(opts.output, data)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.component, "component", "c", "", "chord component id (default: the first chord)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "add depth, height and value to node labels")
	cmd.Flags().BoolVar(&opts.leftToRight, "lr", false, "lay the tree out left to right")
	return cmd
}

// writeOutput writes data to path, or to stdout when path is empty or "-".
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	printFile(path)
	return nil
}
