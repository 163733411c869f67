package main

import (
	"fmt"
	"strings"

	"qcirc/internal/analysis"
	"qcirc/internal/config"
	"qcirc/internal/graph"
	"qcirc/internal/routing"
	"qcirc/internal/transpile"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	basisFlag    string
	levelFlag    int
	outFlag      string
	couplingFlag string
	layoutFlag   string
	seedFlag     uint64
)

func init() {
	for _, c := range []*cobra.Command{transpileCmd, routeCmd} {
		c.Flags().StringVarP(&basisFlag, "basis", "b", "", `Target gate names, e.g. "cx,u" or "cz,rz,ry"; defaults to the config`)
		c.Flags().IntVarP(&levelFlag, "level", "l", -1, "Optimisation level 0..3; defaults to the config")
		c.Flags().StringVarP(&outFlag, "out", "o", "", "Output file (.qasm or .json); prints OpenQASM when empty")
	}
	routeCmd.Flags().StringVar(&couplingFlag, "coupling", "", couplingUsage())
	routeCmd.Flags().StringVar(&layoutFlag, "layout", "", "Initial layout: trivial, dense or random; defaults to the config")
	routeCmd.Flags().Uint64Var(&seedFlag, "seed", 0, "Seed for random layouts; defaults to the config")
	_ = routeCmd.MarkFlagRequired("coupling")
	_ = routeCmd.RegisterFlagCompletionFunc("coupling", completeCoupling)
}

func couplingUsage() string {
	return fmt.Sprintf(`Coupling map name from the config (built in: %s) or pairs, e.g. "0-1,1-2"`,
		strings.Join(config.Default().CouplingNames(), ", "))
}

// completeCoupling offers the coupling maps of the selected config file.
func completeCoupling(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	c, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, n := range c.CouplingNames() {
		if strings.HasPrefix(n, toComplete) {
			names = append(names, n)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// basisAndLevel applies the command line over the config.
func basisAndLevel() ([]string, int) {
	basis := cfg.Transpile.Basis
	if basisFlag != "" {
		basis = nil
		for _, f := range strings.Split(basisFlag, ",") {
			if f = strings.TrimSpace(f); f != "" {
				basis = append(basis, f)
			}
		}
	}
	level := cfg.Transpile.Level
	if levelFlag >= 0 {
		level = levelFlag
	}
	return basis, level
}

var transpileCmd = &cobra.Command{
	Use:   "transpile [file]",
	Short: "Rewrite a circuit into a target basis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := readCircuit(args[0])
		if err != nil {
			return err
		}
		basis, level := basisAndLevel()
		d, err := transpile.New(basis, level, logger)
		if err != nil {
			return err
		}
		out, err := d.Run(c)
		if err != nil {
			return err
		}
		if outFlag != "" {
			printComparison(cmd, analysis.Compare(c, out))
		}
		return writeCircuit(cmd.OutOrStdout(), out, outFlag)
	},
}

var routeCmd = &cobra.Command{
	Use:   "route [file]",
	Short: "Lay out and route a circuit onto a coupling map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := readCircuit(args[0])
		if err != nil {
			return err
		}
		coupling, err := cfg.Coupling(couplingFlag)
		if err != nil {
			return err
		}
		opts, err := routingOptions()
		if err != nil {
			return err
		}
		r, err := routing.NewRouter(opts, logger)
		if err != nil {
			return err
		}

		res, err := r.OptimizeLayout(cmd.Context(), c, coupling)
		if err != nil {
			return err
		}
		if outFlag != "" {
			printComparison(cmd, analysis.Compare(c, res.Circuit))
			fmt.Fprintf(cmd.OutOrStdout(), "🔀 Swaps=%d initial layout %v final layout %v\n", res.Swaps, res.InitialLayout, res.FinalLayout)
			printCoupling(cmd, couplingFlag, coupling)
		}
		return writeCircuit(cmd.OutOrStdout(), res.Circuit, outFlag)
	},
}

func routingOptions() (routing.Options, error) {
	basis, level := basisAndLevel()
	opts := routing.DefaultOptions()
	opts.Basis = basis
	opts.Level = level
	opts.Seed = cfg.Routing.Seed
	if seedFlag != 0 {
		opts.Seed = seedFlag
	}
	opts.Iterations = cfg.Routing.Iterations
	if cfg.Routing.MaxSteps > 0 {
		opts.MaxSteps = cfg.Routing.MaxSteps
	}
	opts.Timeout = cfg.Routing.Timeout

	method := cfg.Routing.Layout
	if layoutFlag != "" {
		method = layoutFlag
	}
	m, err := routing.ParseLayoutMethod(method)
	if err != nil {
		return routing.Options{}, err
	}
	opts.Layout = m
	return opts, nil
}

func printCoupling(cmd *cobra.Command, name string, g *graph.Graph) {
	ds := g.DegreeStats()
	fmt.Fprintf(cmd.OutOrStdout(), "🗺️  Coupling %s: %d qubits, %d edges, degree %d..%d (mean %.2f), diameter %d\n",
		name, g.N, len(g.Edges), ds.Min, ds.Max, ds.Mean, g.Diameter())
}

func printComparison(cmd *cobra.Command, cmp analysis.Comparison) {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Metric", cmp.Base.Name, "Output", "Diff", "Ratio"})
	for _, d := range cmp.Deltas {
		table.Append([]string{d.Field, fmt.Sprint(d.Base), fmt.Sprint(d.Other), fmt.Sprintf("%+d", d.Diff), fmt.Sprintf("%.3f", d.Ratio)})
	}
	table.Render()
}
