package compiler

import (
	"strings"
	"testing"
)

func TestCompile(t *testing.T) {
	src := `
int fib(int n) {
	if (n < 2) {
		return n;
	}
	return fib(n - 1) + fib(n - 2);
}

void show(int limit) {
	for (int i = 0; i < limit; i = i + 1) {
		printf("fib(%d) = %d\n", i, fib(i));
	}
}

int main() {
	show(10);
	return 0;
}
`
	prog, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(prog.Functions) != 3 {
		t.Fatalf("Compile() produced %d functions, want 3", len(prog.Functions))
	}

	// The tree must come back fully annotated.
	ret := prog.Functions[2].Body[1].(*ReturnStmt)
	if ret.Expr.Annot().Type != TypeInt {
		t.Errorf("annotation missing on return expression, got %s", ret.Expr.Annot().Type)
	}
}

func TestCompileSyntaxError(t *testing.T) {
	_, err := Compile("int main() { return 0 }")
	if err == nil {
		t.Fatal("Compile() succeeded, want parse error")
	}
	if !strings.Contains(err.Error(), "parse error") {
		t.Errorf("Compile() error = %q, want it to mention the parse stage", err)
	}
}

func TestCompileSemanticErrors(t *testing.T) {
	prog, err := Compile("int main() { int a = x; return g(); }")
	if err == nil {
		t.Fatal("Compile() succeeded, want semantic errors")
	}
	if prog != nil {
		t.Errorf("Compile() returned a program alongside the error")
	}
	msg := err.Error()
	for _, want := range []string{
		"semantic analysis failed",
		"Undefined variable: x",
		"Undefined function: g",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Compile() error = %q, want it to contain %q", msg, want)
		}
	}
}
