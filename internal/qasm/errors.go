package qasm

import "fmt"

// ParseError reports malformed OpenQASM input. No circuit is returned alongside it.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("qasm parse error %s:%d: %s", file, e.Line, e.Msg)
}

func (p *parser) errorf(line int, format string, args ...any) error {
	return &ParseError{File: p.file, Line: line, Msg: fmt.Sprintf(format, args...)}
}
