package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newParamsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Inspect parameters defined in the parameters file",
	}
	cmd.AddCommand(
		newParamsListCmd(root),
		newParamsChoicesCmd(root),
		newParamsEnvCmd(root),
	)
	return cmd
}

func newParamsListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List parameter definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := root.registry()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "NAME\tURL\tPATH\tFILTER\tDESCRIPTION")
			for _, d := range reg.List() {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.Name, d.URL, d.JSONPath, dash(d.Filter), dash(d.Description))
			}
			return tw.Flush()
		},
	}
}

type paramsChoicesOptions struct {
	asJSON bool
}

func newParamsChoicesCmd(root *rootOptions) *cobra.Command {
	opts := paramsChoicesOptions{}
	cmd := &cobra.Command{
		Use:   "choices <name>",
		Short: "Resolve the choices of a defined parameter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := root.registry()
			if err != nil {
				return err
			}
			d, err := reg.Get(args[0])
			if err != nil {
				return err
			}
			q, err := d.Query()
			if err != nil {
				return err
			}
			res, _, err := root.resolver(cmd)
			if err != nil {
				return err
			}
			return printChoices(cmd.OutOrStdout(), res.Resolve(cmd.Context(), q), opts.asJSON)
		},
	}
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the choice list as a JSON array")
	return cmd
}

func newParamsEnvCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "env <name> [value]",
		Short: "Print the environment entry a chosen value produces",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := root.registry()
			if err != nil {
				return err
			}
			d, err := reg.Get(args[0])
			if err != nil {
				return err
			}
			v := d.DefaultValue()
			if len(args) == 2 {
				v = d.ValueOf(args[1])
			}
			env := map[string]string{}
			v.BuildEnvironment(env)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", d.Name, env[d.Name])
			return err
		},
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
