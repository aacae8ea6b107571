package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cmsispack/condition"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a condition file for dangling references, unknown domains and cycles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, lib, err := root.load()
			if err != nil {
				return err
			}

			var problems []string
			var verr *condition.ValidationError
			if err := lib.Validate(); errors.As(err, &verr) {
				problems = append(problems, verr.Problems...)
			} else if err != nil {
				return err
			}
			for _, cycle := range lib.Cycles() {
				problems = append(problems, "reference cycle: "+strings.Join(cycle, " -> "))
			}

			out := cmd.OutOrStdout()
			for _, p := range problems {
				fmt.Fprintln(out, p)
			}
			if len(problems) > 0 {
				return errors.Errorf("%s: %s %s", root.file,
					humanize.Comma(int64(len(problems))), plural(len(problems), "problem"))
			}
			fmt.Fprintf(out, "%s: %s conditions, no problems\n", root.file, humanize.Comma(int64(lib.Len())))
			return nil
		},
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
