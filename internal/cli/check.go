package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chen-qa/dynamic-choice/pkg/param"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate definition fields",
	}
	cmd.AddCommand(
		newCheckFieldCmd("url", "Check a parameter URL", param.CheckURL),
		newCheckFieldCmd("path", "Check a path expression", param.CheckPath),
		newCheckFieldCmd("filter", "Check a filter regex", param.CheckFilter),
	)
	return cmd
}

func newCheckFieldCmd(use, short string, check func(string) param.Check) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [value]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := ""
			if len(args) == 1 {
				v = args[0]
			}
			res := check(v)
			if !res.OK {
				return errors.New(res.Message)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return err
		},
	}
}
