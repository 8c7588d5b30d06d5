package compiler

import (
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *Program
	}{
		{
			name:  "Minimal Program",
			input: "int main() { return 0; }",
			expected: &Program{Functions: []*FunctionDecl{
				{
					ReturnType: "int",
					Name:       "main",
					Body: []Stmt{
						&ReturnStmt{Expr: &NumberLit{Value: 0}},
					},
				},
			}},
		},
		{
			name:  "Parameters",
			input: "int add(int a, float b) { return a; }",
			expected: &Program{Functions: []*FunctionDecl{
				{
					ReturnType: "int",
					Name:       "add",
					Params: []Param{
						{TypeName: "int", Name: "a"},
						{TypeName: "float", Name: "b"},
					},
					Body: []Stmt{
						&ReturnStmt{Expr: &VarRef{Name: "a"}},
					},
				},
			}},
		},
		{
			name:  "Multiplication Binds Tighter Than Addition",
			input: "int main() { return 1 + 2 * 3; }",
			expected: &Program{Functions: []*FunctionDecl{
				{
					ReturnType: "int",
					Name:       "main",
					Body: []Stmt{
						&ReturnStmt{Expr: &BinaryExpr{
							Op:   PLUS,
							Left: &NumberLit{Value: 1},
							Right: &BinaryExpr{
								Op:    MULTIPLY,
								Left:  &NumberLit{Value: 2},
								Right: &NumberLit{Value: 3},
							},
						}},
					},
				},
			}},
		},
		{
			name:  "Subtraction Is Left Associative",
			input: "int main() { return 1 - 2 - 3; }",
			expected: &Program{Functions: []*FunctionDecl{
				{
					ReturnType: "int",
					Name:       "main",
					Body: []Stmt{
						&ReturnStmt{Expr: &BinaryExpr{
							Op: MINUS,
							Left: &BinaryExpr{
								Op:    MINUS,
								Left:  &NumberLit{Value: 1},
								Right: &NumberLit{Value: 2},
							},
							Right: &NumberLit{Value: 3},
						}},
					},
				},
			}},
		},
		{
			name:  "Comparison Binds Looser Than Addition",
			input: "int main() { return 1 + 2 < 3; }",
			expected: &Program{Functions: []*FunctionDecl{
				{
					ReturnType: "int",
					Name:       "main",
					Body: []Stmt{
						&ReturnStmt{Expr: &BinaryExpr{
							Op: LESS_THAN,
							Left: &BinaryExpr{
								Op:    PLUS,
								Left:  &NumberLit{Value: 1},
								Right: &NumberLit{Value: 2},
							},
							Right: &NumberLit{Value: 3},
						}},
					},
				},
			}},
		},
		{
			name:  "Assignment Binds Loosest",
			input: "void main() { x = y + 1; }",
			expected: &Program{Functions: []*FunctionDecl{
				{
					ReturnType: "void",
					Name:       "main",
					Body: []Stmt{
						&ExprStmt{Expr: &BinaryExpr{
							Op:   ASSIGN,
							Left: &VarRef{Name: "x"},
							Right: &BinaryExpr{
								Op:    PLUS,
								Left:  &VarRef{Name: "y"},
								Right: &NumberLit{Value: 1},
							},
						}},
					},
				},
			}},
		},
		{
			name:  "Call With Arguments",
			input: "void main() { printf(\"n=%d\", 42); }",
			expected: &Program{Functions: []*FunctionDecl{
				{
					ReturnType: "void",
					Name:       "main",
					Body: []Stmt{
						&ExprStmt{Expr: &CallExpr{
							Callee: "printf",
							Args: []Expr{
								&StringLit{Value: "n=%d"},
								&NumberLit{Value: 42},
							},
						}},
					},
				},
			}},
		},
		{
			name:  "Call Without Arguments",
			input: "int main() { return f(); }",
			expected: &Program{Functions: []*FunctionDecl{
				{
					ReturnType: "int",
					Name:       "main",
					Body: []Stmt{
						&ReturnStmt{Expr: &CallExpr{Callee: "f"}},
					},
				},
			}},
		},
		{
			name:  "Variable Declarations",
			input: "void main() { int x = 5; float y; char c = 'a'; }",
			expected: &Program{Functions: []*FunctionDecl{
				{
					ReturnType: "void",
					Name:       "main",
					Body: []Stmt{
						&VariableDecl{TypeName: "int", Name: "x", Init: &NumberLit{Value: 5}},
						&VariableDecl{TypeName: "float", Name: "y"},
						&VariableDecl{TypeName: "char", Name: "c", Init: &CharLit{Value: 'a'}},
					},
				},
			}},
		},
		{
			name:  "If Else",
			input: "void main() { if (x == 1) { f(); } else { g(); } }",
			expected: &Program{Functions: []*FunctionDecl{
				{
					ReturnType: "void",
					Name:       "main",
					Body: []Stmt{
						&IfStmt{
							Condition: &BinaryExpr{
								Op:    EQUAL_EQUAL,
								Left:  &VarRef{Name: "x"},
								Right: &NumberLit{Value: 1},
							},
							Then: []Stmt{&ExprStmt{Expr: &CallExpr{Callee: "f"}}},
							Else: []Stmt{&ExprStmt{Expr: &CallExpr{Callee: "g"}}},
						},
					},
				},
			}},
		},
		{
			name:  "While",
			input: "void main() { while (x < 10) { x = x + 1; } }",
			expected: &Program{Functions: []*FunctionDecl{
				{
					ReturnType: "void",
					Name:       "main",
					Body: []Stmt{
						&WhileStmt{
							Condition: &BinaryExpr{
								Op:    LESS_THAN,
								Left:  &VarRef{Name: "x"},
								Right: &NumberLit{Value: 10},
							},
							Body: []Stmt{
								&ExprStmt{Expr: &BinaryExpr{
									Op:   ASSIGN,
									Left: &VarRef{Name: "x"},
									Right: &BinaryExpr{
										Op:    PLUS,
										Left:  &VarRef{Name: "x"},
										Right: &NumberLit{Value: 1},
									},
								}},
							},
						},
					},
				},
			}},
		},
		{
			name:  "For With All Clauses",
			input: "void main() { for (int i = 0; i < 3; i = i + 1) { f(); } }",
			expected: &Program{Functions: []*FunctionDecl{
				{
					ReturnType: "void",
					Name:       "main",
					Body: []Stmt{
						&ForStmt{
							Init: &VariableDecl{TypeName: "int", Name: "i", Init: &NumberLit{Value: 0}},
							Cond: &BinaryExpr{
								Op:    LESS_THAN,
								Left:  &VarRef{Name: "i"},
								Right: &NumberLit{Value: 3},
							},
							Post: &BinaryExpr{
								Op:   ASSIGN,
								Left: &VarRef{Name: "i"},
								Right: &BinaryExpr{
									Op:    PLUS,
									Left:  &VarRef{Name: "i"},
									Right: &NumberLit{Value: 1},
								},
							},
							Body: []Stmt{&ExprStmt{Expr: &CallExpr{Callee: "f"}}},
						},
					},
				},
			}},
		},
		{
			name:  "For With Empty Clauses",
			input: "void main() { for (;;) { } }",
			expected: &Program{Functions: []*FunctionDecl{
				{
					ReturnType: "void",
					Name:       "main",
					Body: []Stmt{
						&ForStmt{},
					},
				},
			}},
		},
		{
			name:  "Bare Return",
			input: "void f() { return; }",
			expected: &Program{Functions: []*FunctionDecl{
				{
					ReturnType: "void",
					Name:       "f",
					Body: []Stmt{
						&ReturnStmt{},
					},
				},
			}},
		},
		{
			name:  "Float Literal",
			input: "double f() { return 3.14; }",
			expected: &Program{Functions: []*FunctionDecl{
				{
					ReturnType: "double",
					Name:       "f",
					Body: []Stmt{
						&ReturnStmt{Expr: &FloatLit{Value: 3.14}},
					},
				},
			}},
		},
		{
			name:  "Multiple Functions",
			input: "int a() { return 1; } int b() { return 2; }",
			expected: &Program{Functions: []*FunctionDecl{
				{
					ReturnType: "int",
					Name:       "a",
					Body:       []Stmt{&ReturnStmt{Expr: &NumberLit{Value: 1}}},
				},
				{
					ReturnType: "int",
					Name:       "b",
					Body:       []Stmt{&ReturnStmt{Expr: &NumberLit{Value: 2}}},
				},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(Lex(tt.input), tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Parse() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "Missing Semicolon",
			input:   "int main() { return 0 }",
			wantErr: "expected SEMICOLON",
		},
		{
			name:    "Top Level Statement",
			input:   "int x = 5;",
			wantErr: "expected LPAR",
		},
		{
			name:    "Missing Closing Brace",
			input:   "int main() { return 0;",
			wantErr: "expected RBRACE",
		},
		{
			name:    "Unknown Token In Expression",
			input:   "int main() { return $; }",
			wantErr: "expected expression",
		},
		{
			name:    "Unterminated String Reaches Parser",
			input:   "void main() { printf(\"oops); }",
			wantErr: "expected expression",
		},
		{
			name:    "Parenthesised Expression Is Not A Primary",
			input:   "int main() { return (1 + 2); }",
			wantErr: "expected expression",
		},
		{
			name:    "Integer Literal Overflow",
			input:   "int main() { return 99999999999999999999; }",
			wantErr: "out of 64-bit range",
		},
		{
			name:    "Empty Character Literal",
			input:   "void main() { char c = ''; }",
			wantErr: "expected expression",
		},
		{
			name:    "Missing Parameter Name",
			input:   "int f(int) { return 0; }",
			wantErr: "expected IDENTIFIER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(Lex(tt.input), tt.input)
			if err == nil {
				t.Fatalf("Parse() succeeded, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

// TestParseErrorSnippet checks that a parse error carries the offending
// source line.
func TestParseErrorSnippet(t *testing.T) {
	src := "int main() {\n\treturn 0\n}\n"
	_, err := Parse(Lex(src), src)
	if err == nil {
		t.Fatal("Parse() succeeded, want error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "line 3") {
		t.Errorf("error %q does not name line 3", msg)
	}
	if !strings.Contains(msg, "|> }") {
		t.Errorf("error %q does not quote the offending line", msg)
	}
}
