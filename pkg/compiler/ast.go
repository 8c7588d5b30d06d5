package compiler

import "fmt"

// Type is the scalar type attached to expression nodes by semantic analysis.
// The zero value is TypeInvalid so freshly parsed nodes start unannotated.
type Type int

const (
	TypeInvalid Type = iota
	TypeInt
	TypeFloat
	TypeDouble
	TypeChar
	TypeString
	TypeVoid
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeInt:     "int",
	TypeFloat:   "float",
	TypeDouble:  "double",
	TypeChar:    "char",
	TypeString:  "string",
	TypeVoid:    "void",
}

func (t Type) String() string {
	if int(t) >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// TypeFromName maps a declared type name to its Type.
func TypeFromName(name string) Type {
	switch name {
	case "int":
		return TypeInt
	case "float":
		return TypeFloat
	case "double":
		return TypeDouble
	case "char":
		return TypeChar
	case "string":
		return TypeString
	case "void":
		return TypeVoid
	}
	return TypeInvalid
}

// TypeAnnotation carries the results of semantic analysis on an expression
// node. Const is non-nil only when the subtree folds to an integer constant.
type TypeAnnotation struct {
	Type  Type
	Const *int64
}

//  Expression nodes

// Expr is implemented by every node that produces a value.
type Expr interface {
	exprNode()
	// Annot exposes the node's mutable annotation fields. The parser leaves
	// them zeroed; the semantic analyzer fills them in place.
	Annot() *TypeAnnotation
	String() string
}

// NumberLit is a compile-time integer constant.
//
//	int x = 10;
//	         ^^  NumberLit{Value: 10}
type NumberLit struct {
	Value int64
	TypeAnnotation
}

func (*NumberLit) exprNode()                {}
func (n *NumberLit) Annot() *TypeAnnotation { return &n.TypeAnnotation }
func (n *NumberLit) String() string         { return fmt.Sprintf("%d", n.Value) }

// FloatLit is a floating constant, e.g. 3.14
type FloatLit struct {
	Value float64
	TypeAnnotation
}

func (*FloatLit) exprNode()                {}
func (f *FloatLit) Annot() *TypeAnnotation { return &f.TypeAnnotation }
func (f *FloatLit) String() string         { return fmt.Sprintf("%g", f.Value) }

// StringLit is a string constant "..."
type StringLit struct {
	Value string
	TypeAnnotation
}

func (*StringLit) exprNode()                {}
func (s *StringLit) Annot() *TypeAnnotation { return &s.TypeAnnotation }
func (s *StringLit) String() string         { return fmt.Sprintf("%q", s.Value) }

// CharLit is a character constant 'c' with the escape already resolved.
type CharLit struct {
	Value byte
	TypeAnnotation
}

func (*CharLit) exprNode()                {}
func (c *CharLit) Annot() *TypeAnnotation { return &c.TypeAnnotation }
func (c *CharLit) String() string         { return fmt.Sprintf("%q", rune(c.Value)) }

// VarRef is a read of a named variable.
//
//	return x;
//	       ^  VarRef{Name: "x"}
type VarRef struct {
	Name string
	TypeAnnotation
}

func (*VarRef) exprNode()                {}
func (v *VarRef) Annot() *TypeAnnotation { return &v.TypeAnnotation }
func (v *VarRef) String() string         { return v.Name }

// CallExpr represents callee(args). A bare identifier followed by '(' is
// always a call, never a variable reference.
type CallExpr struct {
	Callee string
	Args   []Expr
	TypeAnnotation
}

func (*CallExpr) exprNode()                {}
func (c *CallExpr) Annot() *TypeAnnotation { return &c.TypeAnnotation }
func (c *CallExpr) String() string {
	return fmt.Sprintf("CallExpr(%s, args=%v)", c.Callee, c.Args)
}

// BinaryExpr represents Left Op Right. Assignment is a BinaryExpr with
// Op == ASSIGN; the parser does not restrict the target's shape, code
// generation does.
type BinaryExpr struct {
	Op    TokenType
	Left  Expr
	Right Expr
	TypeAnnotation
}

func (*BinaryExpr) exprNode()                {}
func (b *BinaryExpr) Annot() *TypeAnnotation { return &b.TypeAnnotation }
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

//  Statement nodes

// Stmt is implemented by every node that does not produce a value.
type Stmt interface {
	stmtNode()
	String() string
}

// VariableDecl represents  int name = expr;  The initializer may be nil.
type VariableDecl struct {
	TypeName string // canonical type name: "int", "float", ...
	Name     string
	Init     Expr
}

func (*VariableDecl) stmtNode() {}
func (d *VariableDecl) String() string {
	if d.Init == nil {
		return fmt.Sprintf("VariableDecl(%s %s)", d.TypeName, d.Name)
	}
	return fmt.Sprintf("VariableDecl(%s %s = %s)", d.TypeName, d.Name, d.Init)
}

// ReturnStmt represents  return expr;  Expr is nil for a bare "return;".
type ReturnStmt struct {
	Expr Expr
}

func (*ReturnStmt) stmtNode() {}
func (r *ReturnStmt) String() string {
	if r.Expr == nil {
		return "ReturnStmt()"
	}
	return fmt.Sprintf("ReturnStmt(%s)", r.Expr)
}

// ExprStmt represents an expression evaluated for its side effects
// (a call, or a bare assignment).
type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) stmtNode()        {}
func (e *ExprStmt) String() string { return fmt.Sprintf("ExprStmt(%s)", e.Expr) }

// IfStmt represents if (cond) { then } [else { else }]
type IfStmt struct {
	Condition Expr
	Then      []Stmt
	Else      []Stmt // nil when there is no else branch
}

func (*IfStmt) stmtNode() {}
func (i *IfStmt) String() string {
	if i.Else != nil {
		return fmt.Sprintf("IfStmt(if %s then %d stmts else %d stmts)", i.Condition, len(i.Then), len(i.Else))
	}
	return fmt.Sprintf("IfStmt(if %s then %d stmts)", i.Condition, len(i.Then))
}

// WhileStmt represents while (cond) { body }
type WhileStmt struct {
	Condition Expr
	Body      []Stmt
}

func (*WhileStmt) stmtNode() {}
func (w *WhileStmt) String() string {
	return fmt.Sprintf("WhileStmt(while %s do %d stmts)", w.Condition, len(w.Body))
}

// ForStmt represents for (init; cond; post) { body }. All three clauses are
// independently optional; a missing clause is nil, never a placeholder node.
type ForStmt struct {
	Init Stmt // VariableDecl or ExprStmt, or nil
	Cond Expr
	Post Expr
	Body []Stmt
}

func (*ForStmt) stmtNode() {}
func (f *ForStmt) String() string {
	return fmt.Sprintf("ForStmt(init=%v, cond=%v, post=%v, body=%d stmts)", f.Init, f.Cond, f.Post, len(f.Body))
}

// Param is one typed function parameter.
type Param struct {
	TypeName string
	Name     string
}

func (p Param) String() string { return p.TypeName + " " + p.Name }

// FunctionDecl represents  type name(params) { body }
type FunctionDecl struct {
	ReturnType string
	Name       string
	Params     []Param
	Body       []Stmt
}

func (f *FunctionDecl) String() string {
	return fmt.Sprintf("FunctionDecl(%s %s, params=%v, body=%d stmts)", f.ReturnType, f.Name, f.Params, len(f.Body))
}

// Program is the root of the syntax tree: every function in declaration
// order. Order is irrelevant to analysis but preserved for deterministic
// code generation.
type Program struct {
	Functions []*FunctionDecl
}

func (p *Program) String() string {
	return fmt.Sprintf("Program(%d functions)", len(p.Functions))
}
