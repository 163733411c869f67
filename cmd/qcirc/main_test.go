package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"qcirc/internal/qasm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestCLI_QEC(t *testing.T) {
	t.Chdir(t.TempDir())

	out := execute(t, "qec", "build", "encoder")
	c, err := qasm.ParseString(out, "encoder")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"cx": 2}, c.CountOps())

	out = execute(t, "qec", "analyze", "double")
	assert.Contains(t, out, "2 of 16 patterns corrected")
}

func TestCLI_QAOAAndTranspile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out := execute(t, "qaoa", "maxcut", "--edges", "0-1,1-2,2-3")
	assert.Contains(t, out, "partition 0101")

	counts := filepath.Join(dir, "counts.json")
	require.NoError(t, os.WriteFile(counts, []byte(`{"0101": 600, "0110": 400}`), 0o644))
	out = execute(t, "qaoa", "expect", "--edges", "0-1,1-2,2-3", "--counts", counts)
	assert.Contains(t, out, "Expectation over 1000 shots: 2.6")

	ansatz := filepath.Join(dir, "ansatz.qasm")
	execute(t, "qaoa", "build", "--edges", "0-1,1-2", "--out", ansatz)

	routed := filepath.Join(dir, "routed.json")
	out = execute(t, "route", ansatz, "--coupling", "line5", "--level", "1", "--out", routed)
	assert.Contains(t, out, "Swaps=")
	assert.Contains(t, out, "Coupling line5: 5 qubits, 4 edges, degree 1..2 (mean 1.60), diameter 4")

	c, err := readCircuit(routed)
	require.NoError(t, err)
	assert.Equal(t, 5, c.NumQubits)
}

const bellQASM = `OPENQASM 2.0;
include "qelib1.inc";
qreg q[2];
creg c[2];
h q[0];
cx q[0],q[1];
measure q -> c;
`

func TestCLI_StoreAndBench(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	bench := filepath.Join(dir, "bench")
	require.NoError(t, os.MkdirAll(bench, 0o755))
	bell := filepath.Join(bench, "bell.qasm")
	require.NoError(t, os.WriteFile(bell, []byte(bellQASM), 0o644))
	db := filepath.Join(dir, "catalog.db")

	out := execute(t, "--db", db, "store", "add", bell)
	assert.Contains(t, out, "bell saved as")

	out = execute(t, "--db", db, "store", "show", "bell", "--ops")
	assert.Regexp(t, `cx\s*\|\s*1\s`, out)
	assert.Regexp(t, `h\s*\|\s*1\s`, out)
	assert.Regexp(t, `measure\s*\|\s*2\s`, out)

	out = execute(t, "bench", bench, "--coupling", "", "--basis", "cx,u", "--level", "1", "--runs", "1")
	assert.Contains(t, out, "cx:1 measure:2 u:1")
}

func TestCLI_CouplingCompletion(t *testing.T) {
	t.Chdir(t.TempDir())

	out := execute(t, "__complete", "route", "bell.qasm", "--coupling", "ri")
	assert.Contains(t, out, "ring6")
	assert.NotContains(t, out, "line5")

	assert.Contains(t, routeCmd.Flag("coupling").Usage, "line5, ring6")
}
