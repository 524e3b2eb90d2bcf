package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"decisionhq/meridian/pkg/cli"
	"decisionhq/meridian/pkg/rules/cache"
	"decisionhq/meridian/pkg/rules/engine"
	"decisionhq/meridian/pkg/rules/source"
)

var evalFlags struct {
	rulePath string
	factFile string
	rulesDir string
	trace    bool
	format   string
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a rule once",
	Long: `Evaluate a rule graph against a facts file and print the decision.

The facts file is a JSON object of fact names to values. Use "-" to read
facts from stdin.

Examples:
  # Evaluate with facts from a file
  meridian eval --rule kyc/pan_eligibility_v1 --facts facts.json

  # Evaluate with facts from stdin, including the trace
  echo '{"cibil_score": 720}' | meridian eval --rule kyc/pan_eligibility_v1 --facts - --trace`,
	RunE: evalRule,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVarP(&evalFlags.rulePath, "rule", "r", "", "rule path relative to the rules directory")
	evalCmd.Flags().StringVar(&evalFlags.factFile, "facts", "", "JSON facts file, or - for stdin")
	evalCmd.Flags().StringVar(&evalFlags.rulesDir, "rules-dir", "rules", "rules directory")
	evalCmd.Flags().BoolVar(&evalFlags.trace, "trace", false, "include the node-by-node trace")
	evalCmd.Flags().StringVar(&evalFlags.format, "format", "json", "output format: text, json")
	_ = evalCmd.MarkFlagRequired("rule")
	_ = evalCmd.MarkFlagRequired("facts")
}

func evalRule(cmd *cobra.Command, args []string) error {
	facts, err := readFacts(evalFlags.factFile)
	if err != nil {
		return err
	}

	eng, err := newLocalEngine(evalFlags.rulesDir)
	if err != nil {
		return err
	}

	decision, err := eng.Evaluate(context.Background(), evalFlags.rulePath, facts)
	if err != nil {
		return cli.NewCommandError("eval", err)
	}

	out := map[string]interface{}{
		"result":           decision.Result,
		"rule_path":        decision.RulePath,
		"rule_fingerprint": decision.Fingerprint,
		"performance_ms":   float64(decision.Duration.Microseconds()) / 1000.0,
	}
	if evalFlags.trace {
		out["trace"] = decision.Trace
	}

	formatter := cli.NewFormatter(cli.OutputFormat(evalFlags.format))
	return formatter.FormatTo(os.Stdout, out)
}

// newLocalEngine builds a file-backed engine for one-shot CLI commands.
func newLocalEngine(rulesDir string) (*engine.Engine, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	src, err := source.NewFileSource(rulesDir, logger)
	if err != nil {
		return nil, cli.NewConfigError("rules-dir", err.Error())
	}
	return engine.New(nil, cache.New(src, logger), logger)
}

func readFacts(path string) (map[string]interface{}, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read facts: %w", err)
	}

	var facts map[string]interface{}
	if err := json.Unmarshal(data, &facts); err != nil {
		return nil, fmt.Errorf("facts must be a JSON object: %w", err)
	}
	return facts, nil
}
