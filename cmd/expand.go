package cmd

import (
	"github.com/spf13/cobra"

	"github.com/delegen/delegen/pkg/action/expand"
	"github.com/delegen/delegen/pkg/expander"
)

func init() {
	rootCmd.AddCommand(NewExpandCommand())
}

// NewExpandCommand builds the expansion stage command: it completes
// every generated-macro invocation into a full impl block.
func NewExpandCommand() *cobra.Command {
	var options expander.Options

	expandCmd := &cobra.Command{
		Use:   "expand",
		Short: "expand macro invocations",
		Long:  "Expand name! { @[field: Type] impl ... } invocations into completed impl blocks",
		RunE: func(c *cobra.Command, args []string) error {
			return expand.Generate(traitOptions(&options)...)
		},
	}
	addCommonFlags(expandCmd, &options)
	return expandCmd
}
