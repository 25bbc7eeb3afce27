package cmd

import (
	"github.com/spf13/cobra"

	"github.com/delegen/delegen/pkg/action/annotate"
	"github.com/delegen/delegen/pkg/expander"
)

func init() {
	rootCmd.AddCommand(NewTraitCommand())
}

// NewTraitCommand builds the annotation stage command: it cleans traits
// and generates their delegation macros.
func NewTraitCommand() *cobra.Command {
	var options expander.Options

	traitCmd := &cobra.Command{
		Use:   "trait",
		Short: "annotate traits",
		Long:  "Process #[trait_deref] traits: emit cleaned traits and generated delegation macros",
		RunE: func(c *cobra.Command, args []string) error {
			return annotate.Generate(traitOptions(&options)...)
		},
	}
	addCommonFlags(traitCmd, &options)
	return traitCmd
}

func addCommonFlags(c *cobra.Command, options *expander.Options) {
	c.PersistentFlags().StringVarP(&options.InDir, "input-directory", "i", ".", "directory to scan for .trait files")
	c.PersistentFlags().StringVarP(&options.OutDir, "output-directory", "o", "gen", "directory to write generated files")
	c.PersistentFlags().StringVarP(&options.ManifestPath, "manifest", "m", "", "macro manifest path (default <output-directory>/delegen.yaml)")
	c.PersistentFlags().StringVar(&options.CrateName, "crate-name", "", "override the defining-unit name used for $crate resolution")
}

func traitOptions(options *expander.Options) []expander.Option {
	return []expander.Option{
		expander.WithInDir(options.InDir),
		expander.WithOutDir(options.OutDir),
		expander.WithManifest(options.ManifestPath),
		expander.WithCrateName(options.CrateName),
		expander.WithBindPackage(options.BindPackage),
		expander.WithBindFile(options.BindFile),
	}
}
