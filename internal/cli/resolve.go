package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chen-qa/dynamic-choice/pkg/choices"
	"github.com/chen-qa/dynamic-choice/pkg/resolver"
)

type resolveOptions struct {
	url    string
	path   string
	filter string
	asJSON bool
}

func newResolveCmd(root *rootOptions) *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Fetch a URL and print the resolved choices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := resolver.NewQuery(opts.url, opts.path, opts.filter)
			if err != nil {
				return err
			}
			res, _, err := root.resolver(cmd)
			if err != nil {
				return err
			}
			list := res.Resolve(cmd.Context(), q)
			return printChoices(cmd.OutOrStdout(), list, opts.asJSON)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.url, "url", "u", "", "resource URL")
	fs.StringVarP(&opts.path, "path", "p", "", "path expression, e.g. data.versions or data.items[].version")
	fs.StringVarP(&opts.filter, "filter", "f", "", "regex every choice must fully match")
	fs.BoolVar(&opts.asJSON, "json", false, "print the choice list as a JSON array")
	return cmd
}

// printChoices writes one option per line, or the boundary JSON array. A
// failed list is also returned as an error so the exit status reflects it.
func printChoices(w io.Writer, list choices.ChoiceList, asJSON bool) error {
	if asJSON {
		b, err := json.Marshal(list)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(b)); err != nil {
			return err
		}
	} else if !list.IsErr() {
		if opts := list.Options(); len(opts) > 0 {
			if _, err := fmt.Fprintln(w, strings.Join(opts, "\n")); err != nil {
				return err
			}
		}
	}
	if list.IsErr() {
		return errors.New(list.Message())
	}
	return nil
}
