package main

import (
	"fmt"

	"qcirc/internal/circuit"
	"qcirc/internal/qasm"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the SQLite circuit and coupling-map catalog",
}

func init() {
	storeCmd.AddCommand(storeAddCmd)
	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeShowCmd)
	storeCmd.AddCommand(storeRemoveCmd)
	storeCmd.AddCommand(storeCouplingCmd)

	storeShowCmd.Flags().BoolVar(&showOps, "ops", false, "Print gate counts instead of OpenQASM")
}

var showOps bool

var storeAddCmd = &cobra.Command{
	Use:   "add [files...]",
	Short: "Add circuits (.qasm or .json) to the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := initStore()
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer store.Close()

		for _, path := range args {
			c, err := readCircuit(path)
			if err != nil {
				return err
			}
			id, err := store.SaveCircuit(cmd.Context(), c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "💾 %s saved as %s\n", c.Name, id)
		}
		return nil
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored circuits",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := initStore()
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer store.Close()

		infos, err := store.ListCircuits(cmd.Context())
		if err != nil {
			return err
		}
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"ID", "Name", "Qubits", "Clbits", "Size", "Depth"})
		for _, info := range infos {
			table.Append([]string{info.ID, info.Name, fmt.Sprint(info.NumQubits), fmt.Sprint(info.NumClbits), fmt.Sprint(info.Size), fmt.Sprint(info.Depth)})
		}
		table.Render()
		return nil
	},
}

var storeShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print a stored circuit as OpenQASM, or its gate counts with --ops",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := initStore()
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer store.Close()

		c, err := store.GetCircuitByName(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !showOps {
			return qasm.Write(cmd.OutOrStdout(), c)
		}
		counts := c.CountOps()
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Op", "Count"})
		for _, name := range circuit.SortedOps(counts) {
			table.Append([]string{name, fmt.Sprint(counts[name])})
		}
		table.SetFooter([]string{"size", fmt.Sprint(c.Size())})
		table.Render()
		return nil
	},
}

var storeRemoveCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a stored circuit by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := initStore()
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer store.Close()

		if err := store.DeleteCircuit(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted %s\n", args[0])
		return nil
	},
}

var storeCouplingCmd = &cobra.Command{
	Use:   "coupling [name] [pairs]",
	Short: "Save a coupling map, or list saved maps when called without arguments",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := initStore()
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer store.Close()

		switch len(args) {
		case 0:
			names, err := store.ListCouplingMaps(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		case 1:
			g, err := store.GetCouplingMap(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d qubits, %v\n", args[0], g.N, g.Pairs())
			return nil
		}

		g, err := cfg.Coupling(args[1])
		if err != nil {
			return err
		}
		if err := store.SaveCouplingMap(cmd.Context(), args[0], g); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "💾 Coupling map %s saved (%d qubits).\n", args[0], g.N)
		return nil
	},
}
