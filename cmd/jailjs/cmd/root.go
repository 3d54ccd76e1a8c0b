package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "jailjs",
	Short: "jailjs AST evaluator demo host",
	Long: `jailjs is an embeddable ES5 tree-walking evaluator.

This CLI is a demo host, not the module's contract: it decodes a
pre-parsed AST from JSON and evaluates it against a small built-in
capability table, the same integration shape a real embedder performs in
Go directly via pkg/jailjs.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
