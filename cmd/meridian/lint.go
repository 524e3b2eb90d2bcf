package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"decisionhq/meridian/pkg/cli"
	"decisionhq/meridian/pkg/dgl"
	dglerrors "decisionhq/meridian/pkg/dgl/errors"
)

var lintFlags struct {
	file   string
	dir    string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate rule files",
	Long: `Validate decision graph documents for syntax and structural errors.

The lint command parses rule files and performs comprehensive validation:
  - JSON syntax validation
  - Node content validation (tables, functions, bindings)
  - Structural validation (edge references, reachability)
  - Cycle detection

Examples:
  # Lint single file
  meridian lint --file rules/kyc/pan_eligibility_v1.json

  # Lint directory
  meridian lint --dir rules/

  # JSON output for CI/CD
  meridian lint --dir rules/ --format json`,
	RunE: lintRules,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "rule file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of rule files")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// LintResult is the validation outcome for a single rule file.
type LintResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Graph    string   `json:"graph,omitempty"`
	Version  string   `json:"version,omitempty"`
	Nodes    int      `json:"nodes,omitempty"`
	Problems []string `json:"problems,omitempty"`
}

func lintRules(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string
	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}
	if lintFlags.dir != "" {
		found, err := collectRuleFiles(lintFlags.dir)
		if err != nil {
			return fmt.Errorf("failed to list rule files: %w", err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no rule files found")
	}

	results := make([]LintResult, 0, len(files))
	failed := 0
	for _, file := range files {
		result := lintRuleFile(file)
		if !result.Valid {
			failed++
		}
		results = append(results, result)
	}

	if lintFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		if err := formatter.FormatTo(os.Stdout, results); err != nil {
			return err
		}
	} else {
		for _, result := range results {
			if result.Valid {
				fmt.Printf("✓ %s (%s v%s, %d nodes)\n", result.File, result.Graph, result.Version, result.Nodes)
				continue
			}
			fmt.Printf("✗ %s\n", result.File)
			for _, problem := range result.Problems {
				fmt.Printf("    %s\n", problem)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files invalid", failed, len(files))
	}
	return nil
}

func lintRuleFile(path string) LintResult {
	result := LintResult{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Problems = []string{err.Error()}
		return result
	}

	graph, _, err := dgl.ParseAndValidate(data, path)
	if err != nil {
		var parseErr *dglerrors.ParseError
		if errors.As(err, &parseErr) && len(parseErr.Problems) > 0 {
			result.Problems = parseErr.Problems
		} else {
			result.Problems = []string{err.Error()}
		}
		return result
	}

	result.Valid = true
	result.Graph = graph.Name
	result.Version = graph.Version
	result.Nodes = graph.NodeCount()
	return result
}

func collectRuleFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".json" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
