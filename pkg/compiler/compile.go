package compiler

import (
	"fmt"
	"strings"
)

// Compile runs the whole front end over one compilation unit: scan, parse,
// analyze. On success the returned Program is fully annotated and ready for
// code generation. A syntax error halts before analysis; semantic failure
// halts after every error has been collected, and the returned error joins
// the full list.
func Compile(src string) (*Program, error) {
	tokens := Lex(src)

	prog, err := Parse(tokens, src)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	sema := NewAnalyzer()
	if !sema.Analyze(prog) {
		return nil, fmt.Errorf("semantic analysis failed:\n  %s", strings.Join(sema.Errors(), "\n  "))
	}

	return prog, nil
}
