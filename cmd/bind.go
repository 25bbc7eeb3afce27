package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/delegen/delegen/pkg/action/bind"
	"github.com/delegen/delegen/pkg/action/verify"
	"github.com/delegen/delegen/pkg/expander"
)

func init() {
	rootCmd.AddCommand(NewBindCommand())
	rootCmd.AddCommand(NewVerifyCommand())
}

// NewBindCommand builds the Go binding generation command.
func NewBindCommand() *cobra.Command {
	var options expander.Options

	bindCmd := &cobra.Command{
		Use:   "bind",
		Short: "generate Go bindings",
		Long:  "Generate Go interface stubs mirroring annotated traits",
		RunE: func(c *cobra.Command, args []string) error {
			return bind.Generate(traitOptions(&options)...)
		},
	}
	addCommonFlags(bindCmd, &options)
	bindCmd.PersistentFlags().StringVarP(&options.BindPackage, "package", "p", "bindings", "package name for generated Go bindings")
	bindCmd.PersistentFlags().StringVarP(&options.BindFile, "output-file", "f", "bindings_gen.go", "output file for generated Go bindings")
	return bindCmd
}

// NewVerifyCommand builds the drift check command.
func NewVerifyCommand() *cobra.Command {
	var options expander.Options

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "check generated macros for drift",
		Long:  "Re-annotate traits into a scratch directory and diff the captures against the recorded ones",
		RunE: func(c *cobra.Command, args []string) error {
			diff, err := verify.Run(traitOptions(&options)...)
			if err != nil {
				return err
			}
			if diff != "" {
				return fmt.Errorf("generated macros are stale:\n%s", diff)
			}
			return nil
		},
	}
	addCommonFlags(verifyCmd, &options)
	return verifyCmd
}
