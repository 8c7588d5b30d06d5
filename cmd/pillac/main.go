package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sanity-io/litter"

	"pillac/pkg/codegen"
	"pillac/pkg/compiler"
	"pillac/pkg/utils"
)

func main() {
	dumpTokens := flag.Bool("dump-tokens", false, "print the token stream")
	dumpAST := flag.Bool("dump-ast", false, "dump the syntax tree after parsing")
	out := flag.String("o", "", "write LLVM IR to this file instead of stdout")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: pillac [flags] <source-file>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	src, err := utils.ReadSource(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "read error:", err)
		os.Exit(1)
	}

	// Lex
	tokens := compiler.Lex(src)
	if *dumpTokens {
		fmt.Printf("Tokens (%d)\n", len(tokens))
		for _, tok := range tokens {
			fmt.Println(" ", tok)
		}
		fmt.Println()
	}

	// Parse
	prog, err := compiler.Parse(tokens, src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse error:", err)
		os.Exit(1)
	}
	if *dumpAST {
		litter.Dump(prog)
	}

	// Analyze
	sema := compiler.NewAnalyzer()
	if !sema.Analyze(prog) {
		for _, msg := range sema.Errors() {
			fmt.Fprintln(os.Stderr, "[Semantic Error]", msg)
		}
		os.Exit(1)
	}

	// Code generation
	module, err := codegen.Emit(prog)
	if err != nil {
		fmt.Fprintln(os.Stderr, "codegen error:", err)
		os.Exit(1)
	}

	if *out != "" {
		if err := codegen.WriteIRFile(module, *out); err != nil {
			fmt.Fprintln(os.Stderr, "write error:", err)
			os.Exit(1)
		}
		return
	}
	fmt.Print(module.String())
}
