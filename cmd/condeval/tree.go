package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cmsispack/condition"
)

func newTreeCmd(root *rootOptions) *cobra.Command {
	var table bool
	cmd := &cobra.Command{
		Use:   "tree <condition ID>",
		Short: "Show a condition and the conditions it references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, lib, err := root.load()
			if err != nil {
				return err
			}
			c, ok := lib.Condition(args[0])
			if !ok {
				return errors.Wrapf(condition.ErrConditionNotFound, "%q", args[0])
			}
			if table {
				fmt.Fprintln(cmd.OutOrStdout(), c)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), c.Tree(lib))
			return nil
		},
	}
	cmd.Flags().BoolVar(&table, "table", false, "show the condition's expressions as a table")
	return cmd
}
