package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cmsispack/condition"
	"github.com/cmsispack/condition/attrs"
)

type evalOptions struct {
	*rootOptions
	attrs   []string
	target  string
	trace   bool
	workers int
}

func newEvalCmd(root *rootOptions) *cobra.Command {
	opts := &evalOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "eval [condition or check IDs...]",
		Short: "Evaluate conditions and checks against targets",
		Long: `Evaluate conditions and checks against the targets in the file, or against
the attributes given with --attr. Each target is evaluated in a fresh pass.

Examples:
  # All items, all targets
  condeval eval -f conditions.yaml

  # One target from the file
  condeval eval -f conditions.yaml --target f407-gcc

  # Ad hoc attributes with an evaluation trace
  condeval eval -f conditions.yaml --attr Dcore=Cortex-M4 --attr Tcompiler=GCC --trace CM4_GCC`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.attrs, "attr", "a", nil, "target attribute as key=value (repeatable)")
	cmd.Flags().StringVarP(&opts.target, "target", "t", "", "evaluate only the named target from the file")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "print the evaluation trace of every target")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 1, "number of targets evaluated concurrently")
	return cmd
}

func (o *evalOptions) run(cmd *cobra.Command, ids []string) error {
	log, err := o.logger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	f, lib, err := o.load()
	if err != nil {
		return err
	}
	if err := lib.Validate(); err != nil {
		log.Warn("condition file has problems", zap.String("file", o.file), zap.Error(err))
	}

	items, err := f.Items(ids...)
	if err != nil {
		return err
	}

	targets, err := o.targets(f.Targets)
	if err != nil {
		return err
	}

	log.Debug("evaluating",
		zap.Int("items", len(items)),
		zap.Int("targets", len(targets)),
		zap.Int("workers", o.workers),
	)
	r := condition.NewReport(items, targets,
		condition.WithResolver(lib),
		condition.WithLogger(log),
		condition.CollectTrace(o.trace),
		condition.Workers(o.workers),
	)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, r)
	for _, tr := range r.Traces {
		fmt.Fprintln(out, tr.Report())
	}
	return nil
}

// targets returns the targets to evaluate: the --attr target if attributes
// were given, otherwise the file's targets filtered by --target.
func (o *evalOptions) targets(fileTargets []condition.Target) ([]condition.Target, error) {
	if len(o.attrs) > 0 {
		a, err := attrs.Parse(o.attrs)
		if err != nil {
			return nil, err
		}
		return []condition.Target{{Name: "attributes", Attributes: a}}, nil
	}

	if o.target != "" {
		for _, t := range fileTargets {
			if t.Name == o.target {
				return []condition.Target{t}, nil
			}
		}
		return nil, errors.Errorf("target %q not found in %s", o.target, o.file)
	}

	if len(fileTargets) == 0 {
		return nil, errors.Errorf("%s has no targets; specify attributes with --attr", o.file)
	}
	return fileTargets, nil
}
