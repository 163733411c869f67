package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"qcirc/internal/circuit"
	"qcirc/internal/config"
	"qcirc/internal/logging"
	"qcirc/internal/qasm"
	"qcirc/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	rootCmd = &cobra.Command{
		Use:               "qcirc",
		Short:             "Quantum circuit toolkit: error correction, QAOA, basis decomposition and routing",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: teardown,
	}
	configPath string
	dbPath     string
	debug      bool

	cfg       *config.Config
	logger    *zap.Logger
	logCloser io.Closer
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "qcirc.yaml", "Path to the YAML configuration")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the circuit catalog database (SQLite); overrides the config")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(qecCmd)
	rootCmd.AddCommand(qaoaCmd)
	rootCmd.AddCommand(transpileCmd)
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(storeCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	if debug {
		cfg.Log.Debug = true
	}
	logger, logCloser, err = logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if logger != nil {
		_ = logger.Sync()
	}
	if logCloser != nil {
		_ = logCloser.Close()
	}
}

// initStore opens the configured circuit catalog.
func initStore() (*storage.SQLiteStore, error) {
	return storage.NewSQLiteStore(cfg.Storage.Path)
}

// readCircuit loads a .json circuit or an OpenQASM file.
func readCircuit(path string) (*circuit.Circuit, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var c circuit.Circuit
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return &c, nil
	}
	return qasm.ParseFile(path)
}

// writeCircuit prints c as OpenQASM when path is empty, otherwise writes JSON or OpenQASM by
// extension.
func writeCircuit(w io.Writer, c *circuit.Circuit, path string) error {
	switch {
	case path == "":
		return qasm.Write(w, c)
	case strings.EqualFold(filepath.Ext(path), ".json"):
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
	default:
		if err := qasm.WriteFile(path, c); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "💾 Wrote %s (%d gates, depth %d).\n", path, c.Size(), c.Depth())
	return nil
}
