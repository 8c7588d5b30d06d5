package codegen

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"pillac/pkg/compiler"
)

// emitIR compiles src through the front end and returns the textual IR.
func emitIR(t *testing.T, src string) string {
	t.Helper()
	prog, err := compiler.Compile(src)
	be.Err(t, err, nil)
	m, err := Emit(prog)
	be.Err(t, err, nil)
	return m.String()
}

func TestEmitMinimal(t *testing.T) {
	ir := emitIR(t, "int main() { return 0; }")
	be.True(t, strings.Contains(ir, "define i64 @main()"))
	be.True(t, strings.Contains(ir, "ret i64 0"))
}

func TestEmitArithmetic(t *testing.T) {
	ir := emitIR(t, "int main() { int x = 4; return x * 3 - 1; }")
	be.True(t, strings.Contains(ir, "mul i64"))
	be.True(t, strings.Contains(ir, "sub i64"))
}

func TestEmitFloatPromotion(t *testing.T) {
	ir := emitIR(t, "double f() { return 1.5 + 2; }")
	be.True(t, strings.Contains(ir, "sitofp"))
	be.True(t, strings.Contains(ir, "fadd double"))
}

func TestEmitParametersAreSpilled(t *testing.T) {
	ir := emitIR(t, "int add(int a, int b) { a = a + b; return a; }")
	be.True(t, strings.Contains(ir, "define i64 @add(i64 %a, i64 %b)"))
	be.True(t, strings.Contains(ir, "alloca i64"))
	be.True(t, strings.Contains(ir, "store i64 %a"))
}

func TestEmitControlFlow(t *testing.T) {
	src := `
int main() {
	int n = 0;
	while (n < 10) {
		if (n == 5) {
			n = n + 2;
		} else {
			n = n + 1;
		}
	}
	return n;
}
`
	ir := emitIR(t, src)
	be.True(t, strings.Contains(ir, "br i1"))
	be.True(t, strings.Contains(ir, "icmp slt i64"))
	be.True(t, strings.Contains(ir, "icmp eq i64"))
}

func TestEmitForLoop(t *testing.T) {
	src := `
int main() {
	int total = 0;
	for (int i = 0; i < 5; i = i + 1) {
		total = total + i;
	}
	return total;
}
`
	ir := emitIR(t, src)
	be.True(t, strings.Contains(ir, "br i1"))
	be.True(t, strings.Contains(ir, "add i64"))
}

func TestEmitPrintf(t *testing.T) {
	ir := emitIR(t, `int main() { printf("n=%d\n", 7); return 0; }`)
	be.True(t, strings.Contains(ir, "declare i32 @printf(i8* %format, ...)"))
	be.True(t, strings.Contains(ir, "@.str.0"))
	be.True(t, strings.Contains(ir, "call i32"))
}

func TestEmitStringGlobalsAreInterned(t *testing.T) {
	ir := emitIR(t, `int main() { printf("a"); printf("b"); return 0; }`)
	be.True(t, strings.Contains(ir, "@.str.0"))
	be.True(t, strings.Contains(ir, "@.str.1"))
}

func TestEmitVoidDefaultReturn(t *testing.T) {
	ir := emitIR(t, "void f() { }")
	be.True(t, strings.Contains(ir, "define void @f()"))
	be.True(t, strings.Contains(ir, "ret void"))
}

func TestEmitMissingReturnSynthesised(t *testing.T) {
	ir := emitIR(t, "int f() { int x = 1; }")
	be.True(t, strings.Contains(ir, "ret i64 0"))
}

func TestEmitCharWidening(t *testing.T) {
	ir := emitIR(t, "int main() { char c = 'a'; return c + 1; }")
	be.True(t, strings.Contains(ir, "alloca i8"))
	be.True(t, strings.Contains(ir, "sext i8"))
}

func TestEmitInvalidAssignmentTarget(t *testing.T) {
	prog, err := compiler.Compile("int main() { 1 = 2; return 0; }")
	be.Err(t, err, nil)
	_, err = Emit(prog)
	be.Err(t, err)
	be.True(t, strings.Contains(err.Error(), "invalid assignment target"))
}
