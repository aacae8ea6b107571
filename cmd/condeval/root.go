package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cmsispack/condition"
	"github.com/cmsispack/condition/packfile"
)

// options shared by all commands.
type rootOptions struct {
	file    string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "condeval",
		Short: "Evaluate package conditions against target configurations",
		Long: `condeval loads conditions, checks and targets from a YAML file and
evaluates them the way a pack manager decides whether a software component
fits a device and toolchain configuration.

Results are graded from FAILED to FULFILLED. ERROR means the result could not
be determined: a cyclic or dangling condition reference, an expression with
mixed or unknown attributes, or nesting that is too deep.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "condition file (YAML)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "development logging at debug level")

	cmd.AddCommand(
		newEvalCmd(opts),
		newTreeCmd(opts),
		newValidateCmd(opts),
	)
	return cmd
}

// logger builds the command logger. Production logging only reports
// warnings, such as cycles and dangling references found during evaluation.
func (o *rootOptions) logger() (*zap.Logger, error) {
	if o.verbose {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return config.Build()
}

// load reads the condition file and builds its library.
func (o *rootOptions) load() (*packfile.File, *condition.Library, error) {
	if o.file == "" {
		return nil, nil, errors.New("a condition file must be specified with --file")
	}
	f, err := packfile.LoadFile(o.file)
	if err != nil {
		return nil, nil, err
	}
	lib, err := f.Library()
	if err != nil {
		return nil, nil, errors.Wrap(err, o.file)
	}
	return f, lib, nil
}
