package main

import (
	"fmt"
	"strings"

	"qcirc/internal/circuit"
	"qcirc/internal/pipeline"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	benchRuns  int
	benchStore bool
)

func init() {
	benchCmd.Flags().StringVar(&couplingFlag, "coupling", "", "Route onto this coupling map (config name or pairs); decompose only when empty")
	_ = benchCmd.RegisterFlagCompletionFunc("coupling", completeCoupling)
	benchCmd.Flags().StringVarP(&basisFlag, "basis", "b", "", "Target gate names; defaults to the config")
	benchCmd.Flags().IntVarP(&levelFlag, "level", "l", -1, "Optimisation level 0..3; defaults to the config")
	benchCmd.Flags().IntVar(&benchRuns, "runs", 5, "Timing repetitions per circuit")
	benchCmd.Flags().BoolVar(&benchStore, "store", false, "Record the benchmark circuits in the catalog database")
}

var benchCmd = &cobra.Command{
	Use:   "bench [dir]",
	Short: "Decompose or route every .qasm benchmark under a directory and report metrics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		basis, level := basisAndLevel()
		opts := pipeline.Options{
			Basis:      basis,
			Level:      level,
			Workers:    cfg.Routing.Workers,
			TimingRuns: benchRuns,
		}
		b := pipeline.NewBench(args[0], opts)
		b.Out = cmd.OutOrStdout()
		b.Logger = logger

		if couplingFlag != "" {
			coupling, err := cfg.Coupling(couplingFlag)
			if err != nil {
				return err
			}
			ro, err := routingOptions()
			if err != nil {
				return err
			}
			b.Options.Coupling = coupling
			b.Options.Routing = ro
			b.CouplingName = couplingFlag
		}
		if benchStore {
			b.DBPath = cfg.Storage.Path
		}

		results, err := b.Run(cmd.Context())
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return nil
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Circuit", "Qubits", "Depth", "Size", "Non-local", "Swaps", "Ops", "Mean", "Std"})
		for _, r := range results {
			table.Append([]string{
				r.Name,
				fmt.Sprint(r.After.NumQubits),
				fmt.Sprintf("%d → %d", r.Before.Depth, r.After.Depth),
				fmt.Sprintf("%d → %d", r.Before.Size, r.After.Size),
				fmt.Sprintf("%d → %d", r.Before.NonLocal, r.After.NonLocal),
				fmt.Sprint(r.Swaps),
				formatOps(r.After.GateCounts),
				r.Timing.Mean.String(),
				r.Timing.Std.String(),
			})
		}
		table.Render()
		fmt.Fprintln(cmd.OutOrStdout(), "🎉 Benchmark complete!")
		return nil
	},
}

// formatOps renders gate counts as "cx:2 u:5" in name order.
func formatOps(counts map[string]int) string {
	parts := make([]string, 0, len(counts))
	for _, name := range circuit.SortedOps(counts) {
		parts = append(parts, fmt.Sprintf("%s:%d", name, counts[name]))
	}
	return strings.Join(parts, " ")
}
