package qasm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"qcirc/internal/circuit"

	"github.com/pkg/errors"
)

// Write renders c as OpenQASM 2.0 with a single quantum register q and classical register c.
func Write(w io.Writer, c *circuit.Circuit) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "OPENQASM 2.0;")
	fmt.Fprintln(bw, `include "qelib1.inc";`)
	if c.NumQubits > 0 {
		fmt.Fprintf(bw, "qreg q[%d];\n", c.NumQubits)
	}
	if c.NumClbits > 0 {
		fmt.Fprintf(bw, "creg c[%d];\n", c.NumClbits)
	}
	for i, g := range c.Gates {
		line, err := formatGate(g)
		if err != nil {
			return errors.Wrapf(err, "gate %d", i)
		}
		fmt.Fprintln(bw, line)
	}
	return errors.Wrap(bw.Flush(), "write qasm")
}

// WriteFile writes c to path, replacing any existing file.
func WriteFile(path string, c *circuit.Circuit) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create qasm file")
	}
	if err := Write(f, c); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close qasm file")
}

// String renders c to a string.
func String(c *circuit.Circuit) (string, error) {
	var sb strings.Builder
	if err := Write(&sb, c); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func formatGate(g circuit.Gate) (string, error) {
	qubits := make([]string, len(g.Qubits))
	for i, q := range g.Qubits {
		qubits[i] = fmt.Sprintf("q[%d]", q)
	}
	switch g.Kind {
	case circuit.KindMeasure:
		return fmt.Sprintf("measure %s -> c[%d];", qubits[0], g.Clbit), nil
	case circuit.KindBarrier:
		return fmt.Sprintf("barrier %s;", strings.Join(qubits, ",")), nil
	case circuit.KindSingle, circuit.KindControlled, circuit.KindSwap, circuit.KindToffoli:
		var sb strings.Builder
		sb.WriteString(g.Name)
		if len(g.Params) > 0 {
			params := make([]string, len(g.Params))
			for i, p := range g.Params {
				params[i] = strconv.FormatFloat(p, 'g', -1, 64)
			}
			sb.WriteString("(" + strings.Join(params, ",") + ")")
		}
		sb.WriteString(" " + strings.Join(qubits, ",") + ";")
		return sb.String(), nil
	default:
		return "", errors.Wrapf(circuit.ErrUnknownGate, "kind %s", g.Kind)
	}
}
