package qasm

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"qcirc/internal/circuit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile_Bell(t *testing.T) {
	c, err := ParseFile(filepath.Join("testdata", "bell.qasm"))
	require.NoError(t, err)

	want := circuit.New(2, 2, "bell").MustAppend(
		circuit.H(0),
		circuit.CX(0, 1),
		circuit.Measure(0, 0),
		circuit.Measure(1, 1),
	)
	assert.True(t, want.Equal(c), "got %v", c.Gates)
}

func TestParseFile_RegistersAndAliases(t *testing.T) {
	c, err := ParseFile(filepath.Join("testdata", "ghz_mixed.qasm"))
	require.NoError(t, err)

	assert.Equal(t, "ghz_mixed", c.Name)
	assert.Equal(t, 3, c.NumQubits)
	assert.Equal(t, 3, c.NumClbits)

	want := []circuit.Gate{
		circuit.H(0),
		circuit.H(1),
		circuit.U(math.Pi/2, 0, math.Pi, 2),
		circuit.P(math.Pi/4, 1),
		circuit.U(math.Pi/2, -math.Pi/4, 2*math.Pi, 2),
		circuit.CX(0, 2),
		circuit.CP(-math.Pi/2, 1, 2),
		circuit.RZ(-0.75, 0),
		circuit.CCX(0, 1, 2),
		circuit.Barrier(0, 1, 2),
		circuit.Measure(0, 0),
		circuit.Measure(1, 1),
		circuit.Measure(2, 2),
	}
	require.Len(t, c.Gates, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(c.Gates[i]), "gate %d: want %s got %s", i, want[i], c.Gates[i])
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	c := circuit.New(3, 2, "roundtrip").MustAppend(
		circuit.U(0.1, -2.5e-7, math.Pi, 0),
		circuit.CU(0.3, 0.2, 0.1, -0.4, 2, 1),
		circuit.Swap(0, 2),
		circuit.SX(1),
		circuit.Barrier(0, 1),
		circuit.Measure(2, 1),
	)
	src, err := String(c)
	require.NoError(t, err)

	back, err := ParseString(src, "roundtrip")
	require.NoError(t, err)
	assert.True(t, c.Equal(back), "source:\n%s", src)

	path := filepath.Join(t.TempDir(), "rt.v1.qasm")
	require.NoError(t, WriteFile(path, c))
	fromFile, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "rt", fromFile.Name)
	assert.Equal(t, c.Gates, fromFile.Gates)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{name: "missing semicolon", src: "qreg q[1];\nh q[0]", line: 2},
		{name: "unknown gate", src: "qreg q[1];\nfoo q[0];", line: 2},
		{name: "undeclared register", src: "qreg q[1];\n\nh r[0];", line: 3},
		{name: "index out of range", src: "qreg q[2];\ncx q[0],q[2];", line: 2},
		{name: "bad expression", src: "qreg q[1];\nrz(pi +) q[0];", line: 2},
		{name: "wrong parameter count", src: "qreg q[1];\nrz q[0];", line: 2},
		{name: "gate definition", src: "OPENQASM 2.0;\ngate foo a { x a; }", line: 2},
		{name: "version", src: "OPENQASM 3.0;", line: 1},
		{name: "measure size", src: "qreg q[2];\ncreg c[1];\nmeasure q -> c;", line: 3},
		{name: "repeated operand", src: "qreg q[2];\ncx q[1],q[1];", line: 2},
		{name: "duplicate register", src: "qreg q[2];\ncreg q[2];", line: 2},
		{name: "broadcast mismatch", src: "qreg a[2];\nqreg b[3];\ncx a,b;", line: 3},
		{name: "negative qubit index", src: "qreg q[2];\nh q[-1];", line: 2},
		{name: "negative clbit index", src: "qreg q[1];\ncreg c[1];\nmeasure q[0] -> c[-7];", line: 3},
		{name: "negative register size", src: "qreg q[-2];", line: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseString(tt.src, "bad")
			assert.Nil(t, c)
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, tt.line, pe.Line, pe.Error())
		})
	}
}

func TestLoadDir(t *testing.T) {
	circuits, err := LoadDir("testdata")
	require.NoError(t, err)
	assert.Len(t, circuits, 2)
	assert.Contains(t, circuits, "bell")
	assert.Contains(t, circuits, "ghz_mixed")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.qasm"), []byte("qreg q[1];\nx q[0];\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zz_broken.qasm"), []byte("qreg q[1];\nx q[5];\n"), 0o644))
	_, err = LoadDir(dir)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, filepath.Join(dir, "zz_broken.qasm"), pe.File)

	dup := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dup, "ghz.qasm"), []byte("qreg q[1];\nx q[0];\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dup, "ghz.v2.qasm"), []byte("qreg q[2];\nh q[0];\n"), 0o644))
	_, err = LoadDir(dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate circuit "ghz"`)
}

func TestEvalExpr(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"pi/2", math.Pi / 2},
		{"-pi", -math.Pi},
		{"2*pi - 1.5e1", 2*math.Pi - 15},
		{"2^3^2", 512},
		{"sqrt(4) + ln(exp(1))", 3},
		{"cos(0)*(1+2)", 3},
		{".5", 0.5},
	}
	for _, tt := range tests {
		got, err := evalExpr(tt.src)
		require.NoError(t, err, tt.src)
		assert.InDelta(t, tt.want, got, 1e-12, tt.src)
	}
	for _, bad := range []string{"", "1/0", "tau", "sqrt 2", "(1", "1 2", "sqrt(-1)", "true", `"pi"`} {
		_, err := evalExpr(bad)
		assert.Error(t, err, bad)
	}
}
