// Package qasm reads and writes the OpenQASM 2.0 subset used for benchmark circuits: register
// declarations, the standard gate library, measure and barrier.
package qasm

import (
	"bufio"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"qcirc/internal/circuit"

	"github.com/pkg/errors"
)

// register is a named slice of the flat qubit or clbit index space.
type register struct {
	offset int
	size   int
}

type parser struct {
	file  string
	qregs map[string]register
	cregs map[string]register
	qn    int
	cn    int
	// statements are buffered until the register sizes are known.
	ops []op
}

type op struct {
	line   int
	name   string
	params []float64
	args   [][]int
	clbits []int
}

type statement struct {
	text string
	line int
}

// Parse reads one circuit from r. name becomes the circuit name.
func Parse(r io.Reader, name string) (*circuit.Circuit, error) {
	return parse(r, name, "")
}

// ParseString is Parse over an in-memory source.
func ParseString(src, name string) (*circuit.Circuit, error) {
	return parse(strings.NewReader(src), name, "")
}

// ParseFile parses path and names the circuit after the file stem.
func ParseFile(path string) (*circuit.Circuit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open qasm file")
	}
	defer f.Close()
	return parse(f, Stem(path), path)
}

// Stem is the file name up to its first dot.
func Stem(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i > 0 {
		return base[:i]
	}
	return base
}

// LoadDir parses every *.qasm file directly inside dir, keyed by stem. The first malformed
// file aborts the load, and so do two files sharing a stem.
func LoadDir(dir string) (map[string]*circuit.Circuit, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.qasm"))
	if err != nil {
		return nil, errors.Wrap(err, "list qasm files")
	}
	sort.Strings(paths)
	out := make(map[string]*circuit.Circuit, len(paths))
	for _, p := range paths {
		c, err := ParseFile(p)
		if err != nil {
			return nil, err
		}
		if _, dup := out[c.Name]; dup {
			return nil, errors.Errorf("duplicate circuit %q in %s", c.Name, p)
		}
		out[c.Name] = c
	}
	return out, nil
}

func parse(r io.Reader, name, file string) (*circuit.Circuit, error) {
	p := &parser{file: file, qregs: map[string]register{}, cregs: map[string]register{}}
	stmts, err := p.split(r)
	if err != nil {
		return nil, err
	}
	for i, st := range stmts {
		if err := p.statement(i, st); err != nil {
			return nil, err
		}
	}

	c := circuit.New(p.qn, p.cn, name)
	for _, o := range p.ops {
		if err := p.emit(c, o); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// split strips comments and cuts the source into ';'-terminated statements, each tagged with the
// line it starts on.
func (p *parser) split(r io.Reader) ([]statement, error) {
	var out []statement
	var cur strings.Builder
	start := 0
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.Index(text, "//"); i >= 0 {
			text = text[:i]
		}
		for {
			semi := strings.IndexByte(text, ';')
			chunk := text
			if semi >= 0 {
				chunk = text[:semi]
			}
			if strings.TrimSpace(chunk) != "" && strings.TrimSpace(cur.String()) == "" {
				start = line
			}
			cur.WriteString(chunk)
			cur.WriteByte(' ')
			if semi < 0 {
				break
			}
			if s := strings.TrimSpace(cur.String()); s != "" {
				out = append(out, statement{text: s, line: start})
			}
			cur.Reset()
			text = text[semi+1:]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read qasm")
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		return nil, p.errorf(start, "missing ';' after %q", rest)
	}
	return out, nil
}

func (p *parser) statement(idx int, st statement) error {
	keyword, rest := cutKeyword(st.text)
	switch keyword {
	case "OPENQASM":
		if idx != 0 {
			return p.errorf(st.line, "OPENQASM header must come first")
		}
		if v := strings.TrimSpace(rest); v != "2.0" && v != "2" {
			return p.errorf(st.line, "unsupported OpenQASM version %q", v)
		}
		return nil
	case "include":
		return nil
	case "qreg", "creg":
		return p.declare(keyword, rest, st.line)
	case "measure":
		return p.measure(rest, st.line)
	case "gate", "opaque", "if", "reset":
		return p.errorf(st.line, "%s statements are not supported", keyword)
	}
	return p.gate(st)
}

func cutKeyword(s string) (string, string) {
	i := strings.IndexFunc(s, func(r rune) bool { return r == ' ' || r == '(' || r == '\t' })
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

func (p *parser) declare(kind, rest string, line int) error {
	name, size, bare, err := parseIndexed(strings.TrimSpace(rest))
	if err != nil || bare || size <= 0 {
		return p.errorf(line, "bad %s declaration %q", kind, strings.TrimSpace(rest))
	}
	if _, dup := p.qregs[name]; dup {
		return p.errorf(line, "register %q already declared", name)
	}
	if _, dup := p.cregs[name]; dup {
		return p.errorf(line, "register %q already declared", name)
	}
	if kind == "qreg" {
		p.qregs[name] = register{offset: p.qn, size: size}
		p.qn += size
	} else {
		p.cregs[name] = register{offset: p.cn, size: size}
		p.cn += size
	}
	return nil
}

// parseIndexed splits "name[k]" into name and k. A bare name reports bare and no index.
func parseIndexed(s string) (name string, k int, bare bool, err error) {
	open := strings.IndexByte(s, '[')
	if open < 0 {
		if !validIdent(s) {
			return "", 0, false, errors.Errorf("bad identifier %q", s)
		}
		return s, 0, true, nil
	}
	if !strings.HasSuffix(s, "]") {
		return "", 0, false, errors.Errorf("missing ] in %q", s)
	}
	name = strings.TrimSpace(s[:open])
	if !validIdent(name) {
		return "", 0, false, errors.Errorf("bad identifier %q", name)
	}
	k, err = strconv.Atoi(strings.TrimSpace(s[open+1 : len(s)-1]))
	if err != nil {
		return "", 0, false, errors.Wrapf(err, "bad index in %q", s)
	}
	if k < 0 {
		return "", 0, false, errors.Errorf("negative index in %q", s)
	}
	return name, k, false, nil
}

func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// operand resolves "q[1]" to [offset+1] and a bare "q" to the whole register.
func (p *parser) operand(s string, regs map[string]register, line int) ([]int, error) {
	name, k, bare, err := parseIndexed(strings.TrimSpace(s))
	if err != nil {
		return nil, p.errorf(line, "%v", err)
	}
	reg, ok := regs[name]
	if !ok {
		return nil, p.errorf(line, "undeclared register %q", name)
	}
	if bare {
		out := make([]int, reg.size)
		for i := range out {
			out[i] = reg.offset + i
		}
		return out, nil
	}
	if k >= reg.size {
		return nil, p.errorf(line, "index %d out of range for %s[%d]", k, name, reg.size)
	}
	return []int{reg.offset + k}, nil
}

func (p *parser) measure(rest string, line int) error {
	src, dst, ok := strings.Cut(rest, "->")
	if !ok {
		return p.errorf(line, "measure needs '->'")
	}
	qs, err := p.operand(src, p.qregs, line)
	if err != nil {
		return err
	}
	cs, err := p.operand(dst, p.cregs, line)
	if err != nil {
		return err
	}
	if len(qs) != len(cs) {
		return p.errorf(line, "measure size mismatch: %d qubits into %d bits", len(qs), len(cs))
	}
	p.ops = append(p.ops, op{line: line, name: "measure", args: [][]int{qs}, clbits: cs})
	return nil
}

func (p *parser) gate(st statement) error {
	text := st.text
	name := text
	var params []float64
	argText := ""

	if i := strings.IndexAny(text, "( \t"); i >= 0 {
		name = text[:i]
		rest := strings.TrimSpace(text[i:])
		if strings.HasPrefix(rest, "(") {
			closing := matchParen(rest)
			if closing < 0 {
				return p.errorf(st.line, "unbalanced parentheses in %q", text)
			}
			for _, expr := range splitTopLevel(rest[1:closing]) {
				v, err := evalExpr(expr)
				if err != nil {
					return p.errorf(st.line, "%v", err)
				}
				params = append(params, v)
			}
			rest = rest[closing+1:]
		}
		argText = strings.TrimSpace(rest)
	}
	if !validIdent(name) {
		return p.errorf(st.line, "unrecognised statement %q", text)
	}
	if argText == "" {
		return p.errorf(st.line, "%s has no operands", name)
	}

	var args [][]int
	for _, a := range strings.Split(argText, ",") {
		qs, err := p.operand(a, p.qregs, st.line)
		if err != nil {
			return err
		}
		args = append(args, qs)
	}
	p.ops = append(p.ops, op{line: st.line, name: name, params: params, args: args})
	return nil
}

func matchParen(s string) int {
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func splitTopLevel(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	if strings.TrimSpace(s) != "" {
		out = append(out, s[start:])
	}
	return out
}

// aliases maps qelib1 names onto the circuit model's gate names and parameter order.
var aliases = map[string]func(params []float64) (string, []float64){
	"U":   func(p []float64) (string, []float64) { return "u", p },
	"u3":  func(p []float64) (string, []float64) { return "u", p },
	"u1":  func(p []float64) (string, []float64) { return "p", p },
	"cu1": func(p []float64) (string, []float64) { return "cp", p },
	"CX":  func(p []float64) (string, []float64) { return "cx", p },
	"u2": func(p []float64) (string, []float64) {
		if len(p) != 2 {
			return "u2", p
		}
		return "u", []float64{math.Pi / 2, p[0], p[1]}
	},
	"u0": func(p []float64) (string, []float64) { return "id", nil },
	"cu3": func(p []float64) (string, []float64) {
		if len(p) != 3 {
			return "cu3", p
		}
		return "cu", []float64{p[0], p[1], p[2], 0}
	},
}

// emit expands register broadcasts and appends the resulting gates.
func (p *parser) emit(c *circuit.Circuit, o op) error {
	if o.name == "measure" {
		for i, q := range o.args[0] {
			if err := c.Append(circuit.Measure(q, o.clbits[i])); err != nil {
				return p.errorf(o.line, "%v", err)
			}
		}
		return nil
	}
	if o.name == "barrier" {
		var qs []int
		for _, a := range o.args {
			qs = append(qs, a...)
		}
		if err := c.Append(circuit.Barrier(qs...)); err != nil {
			return p.errorf(o.line, "%v", err)
		}
		return nil
	}

	name, params := o.name, o.params
	if alias, ok := aliases[name]; ok {
		name, params = alias(params)
	}

	width := 1
	for _, a := range o.args {
		if len(a) > 1 {
			if width > 1 && len(a) != width {
				return p.errorf(o.line, "%s: register operands differ in size", o.name)
			}
			width = len(a)
		}
	}
	for k := 0; k < width; k++ {
		qubits := make([]int, len(o.args))
		for i, a := range o.args {
			if len(a) == 1 {
				qubits[i] = a[0]
			} else {
				qubits[i] = a[k]
			}
		}
		g, err := circuit.NewGate(name, params, qubits...)
		if err != nil {
			return p.errorf(o.line, "%s: %v", o.name, err)
		}
		if err := c.Append(g); err != nil {
			return p.errorf(o.line, "%v", err)
		}
	}
	return nil
}
