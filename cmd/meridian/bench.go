package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"decisionhq/meridian/pkg/cli"
)

var benchFlags struct {
	rulePath   string
	factFile   string
	rulesDir   string
	iterations int
	warmup     int
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark rule evaluation latency",
	Long: `Evaluate a rule graph repeatedly in-process and report latency
percentiles. This measures engine latency only, with no HTTP overhead.

Examples:
  # Benchmark with 10000 iterations
  meridian bench --rule kyc/pan_eligibility_v1 --facts facts.json -n 10000

  # Longer warmup for JIT-sensitive comparisons
  meridian bench --rule kyc/pan_eligibility_v1 --facts facts.json --warmup 1000`,
	RunE: runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().StringVarP(&benchFlags.rulePath, "rule", "r", "", "rule path relative to the rules directory")
	benchCmd.Flags().StringVar(&benchFlags.factFile, "facts", "", "JSON facts file, or - for stdin")
	benchCmd.Flags().StringVar(&benchFlags.rulesDir, "rules-dir", "rules", "rules directory")
	benchCmd.Flags().IntVarP(&benchFlags.iterations, "iterations", "n", 10000, "number of evaluations")
	benchCmd.Flags().IntVar(&benchFlags.warmup, "warmup", 100, "warmup evaluations before measuring")
	_ = benchCmd.MarkFlagRequired("rule")
	_ = benchCmd.MarkFlagRequired("facts")
}

func runBench(cmd *cobra.Command, args []string) error {
	facts, err := readFacts(benchFlags.factFile)
	if err != nil {
		return err
	}

	eng, err := newLocalEngine(benchFlags.rulesDir)
	if err != nil {
		return err
	}

	ctx := context.Background()

	fmt.Println("Meridian Benchmark")
	fmt.Println("==================")
	fmt.Printf("Rule:       %s\n", benchFlags.rulePath)
	fmt.Printf("Iterations: %d (warmup %d)\n", benchFlags.iterations, benchFlags.warmup)
	fmt.Println()

	// Warmup loads the rule into the cache and settles the allocator.
	for i := 0; i < benchFlags.warmup; i++ {
		if _, err := eng.Evaluate(ctx, benchFlags.rulePath, facts); err != nil {
			return cli.NewCommandError("bench", err)
		}
	}

	latencies := make([]time.Duration, 0, benchFlags.iterations)
	progress := cli.NewProgressReporter(nil)
	progress.Start(int64(benchFlags.iterations))

	start := time.Now()
	for i := 0; i < benchFlags.iterations; i++ {
		evalStart := time.Now()
		if _, err := eng.Evaluate(ctx, benchFlags.rulePath, facts); err != nil {
			progress.Error(err)
			return cli.NewCommandError("bench", err)
		}
		latencies = append(latencies, time.Since(evalStart))

		if (i+1)%100 == 0 || i+1 == benchFlags.iterations {
			progress.Update(int64(i + 1))
		}
	}
	progress.Finish()
	total := time.Since(start)

	displayBenchResults(latencies, total)
	return nil
}

func displayBenchResults(latencies []time.Duration, total time.Duration) {
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	percentile := func(p float64) time.Duration {
		idx := int(float64(len(latencies)-1) * p)
		return latencies[idx]
	}
	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	mean := sum / time.Duration(len(latencies))

	fmt.Println()
	fmt.Println("Results:")
	fmt.Println("--------")
	fmt.Printf("Evaluations: %d in %.2fs (%.0f eval/s)\n",
		len(latencies), total.Seconds(), float64(len(latencies))/total.Seconds())
	fmt.Println()
	fmt.Println("Latency:")
	fmt.Printf("  Min:     %s\n", latencies[0])
	fmt.Printf("  Mean:    %s\n", mean)
	fmt.Printf("  Median:  %s\n", percentile(0.50))
	fmt.Printf("  p95:     %s\n", percentile(0.95))
	fmt.Printf("  p99:     %s\n", percentile(0.99))
	fmt.Printf("  Max:     %s\n", latencies[len(latencies)-1])
}
