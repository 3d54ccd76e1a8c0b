package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/badlogic/jailjs/ast"
	jailjserrors "github.com/badlogic/jailjs/internal/errors"
	"github.com/badlogic/jailjs/pkg/jailjs"
	"github.com/spf13/cobra"
)

var (
	maxOps     int
	configPath string
)

var runCmd = &cobra.Command{
	Use:   "run [ast.json]",
	Short: "Evaluate a pre-parsed AST from a JSON file",
	Long: `Decode a JSON-encoded AST (the shape a JS parser's ESTree-like output
would take) and evaluate it.

Example:
  jailjs run program.ast.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAST,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVar(&maxOps, "max-ops", 0, "operation-count ceiling (0 = no limit)")
	runCmd.Flags().StringVar(&configPath, "config", "", "path to a TOML runtime config file")
}

func runAST(_ *cobra.Command, args []string) error {
	filename := args[0]
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("%s is not valid JSON", filename)
	}

	program, err := ast.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode AST from %s: %w", filename, err)
	}

	opts := []jailjs.Option{}
	if configPath != "" {
		cfg, err := jailjs.LoadRuntimeConfigTOML(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config %s: %w", configPath, err)
		}
		opts = append(opts, cfg.Options()...)
	}
	if maxOps != 0 {
		opts = append(opts, jailjs.WithMaxOps(maxOps))
	}

	engine, err := jailjs.New(demoGlobals(), opts...)
	if err != nil {
		return fmt.Errorf("failed to construct engine: %w", err)
	}

	result, err := engine.Eval(program)
	if err != nil {
		diag := jailjserrors.NewDiagnostic(filename, program.Pos(), err)
		return diag
	}

	if result.Value != nil {
		fmt.Printf("%v\n", result.Value)
	}
	return nil
}

// demoGlobals is the capability table exposed to the CLI demo host; a real
// embedder builds this from their own application's domain, not from a
// fixed built-in set.
func demoGlobals() map[string]any {
	return map[string]any{
		"print": func(args ...any) {
			for idx, a := range args {
				if idx > 0 {
					fmt.Print(" ")
				}
				fmt.Print(a)
			}
			fmt.Println()
		},
	}
}
