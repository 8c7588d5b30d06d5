package compiler

import "fmt"

// FuncInfo is one entry in the per-program function table.
type FuncInfo struct {
	Name       string
	ReturnType Type
	ParamTypes []Type
	Variadic   bool // true only for the printf builtin
}

// varEntry is one declaration in a scope frame. Frames keep declaration
// order; lookup scans in reverse so the last declaration of a name wins.
type varEntry struct {
	name string
	typ  Type
}

// Analyzer walks a parsed Program, resolves names, infers expression types,
// and folds simple integer constants. Unlike the parser it never aborts:
// every error is accumulated and the whole tree is always visited, so the
// caller gets a complete diagnostic list and a fully annotated tree.
//
// Scoping is deliberately flat: one frame per function, none for if/while/for
// bodies. A variable declared inside an if body is visible for the rest of
// the function. This mirrors the language definition, not an oversight.
type Analyzer struct {
	scopes [][]varEntry
	funcs  []FuncInfo
	errors []string
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Errors returns the accumulated messages in the order they were detected.
func (a *Analyzer) Errors() []string {
	return a.errors
}

func (a *Analyzer) errorf(format string, args ...any) {
	a.errors = append(a.errors, fmt.Sprintf(format, args...))
}

// Analyze runs both passes over prog and reports whether it is error-free.
// All internal state is reset first, so analyzing the same tree twice yields
// identical annotations.
func (a *Analyzer) Analyze(prog *Program) bool {
	a.scopes = nil
	a.funcs = nil
	a.errors = nil

	// The formatted-output intrinsic takes a format string plus any number
	// of further arguments.
	a.declareFunction(FuncInfo{
		Name:       "printf",
		ReturnType: TypeInt,
		ParamTypes: []Type{TypeString},
		Variadic:   true,
	})

	// Pass 1: declare every function signature before looking at any body,
	// so forward references and mutual recursion resolve.
	for _, fn := range prog.Functions {
		paramTypes := make([]Type, 0, len(fn.Params))
		for _, param := range fn.Params {
			paramTypes = append(paramTypes, TypeFromName(param.TypeName))
		}
		a.declareFunction(FuncInfo{
			Name:       fn.Name,
			ReturnType: TypeFromName(fn.ReturnType),
			ParamTypes: paramTypes,
		})
	}

	// Pass 2: check each body in declaration order.
	for _, fn := range prog.Functions {
		a.checkFunction(fn)
	}

	return len(a.errors) == 0
}

func (a *Analyzer) checkFunction(fn *FunctionDecl) {
	a.enterScope()
	for _, param := range fn.Params {
		a.declareVariable(param.Name, TypeFromName(param.TypeName))
	}
	for _, stmt := range fn.Body {
		a.checkStmt(stmt)
	}
	a.exitScope()
}

func (a *Analyzer) checkStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *VariableDecl:
		if s.Init != nil {
			a.checkExpr(s.Init)
		}
		// The declared type wins even when it disagrees with the
		// initializer. An int initializer for a float variable widens
		// silently; other mismatches are tolerated too, matching the
		// language definition.
		a.declareVariable(s.Name, TypeFromName(s.TypeName))

	case *ReturnStmt:
		if s.Expr != nil {
			a.checkExpr(s.Expr)
		}

	case *ExprStmt:
		a.checkExpr(s.Expr)

	case *IfStmt:
		a.checkExpr(s.Condition)
		for _, stmt := range s.Then {
			a.checkStmt(stmt)
		}
		for _, stmt := range s.Else {
			a.checkStmt(stmt)
		}

	case *WhileStmt:
		a.checkExpr(s.Condition)
		for _, stmt := range s.Body {
			a.checkStmt(stmt)
		}

	case *ForStmt:
		if s.Init != nil {
			a.checkStmt(s.Init)
		}
		if s.Cond != nil {
			a.checkExpr(s.Cond)
		}
		if s.Post != nil {
			a.checkExpr(s.Post)
		}
		for _, stmt := range s.Body {
			a.checkStmt(stmt)
		}
	}
}

func (a *Analyzer) checkExpr(expr Expr) {
	switch e := expr.(type) {
	case *NumberLit:
		e.Type = TypeInt
		val := e.Value
		e.Const = &val

	case *FloatLit:
		e.Type = TypeFloat
		e.Const = nil

	case *StringLit:
		e.Type = TypeString
		e.Const = nil

	case *CharLit:
		e.Type = TypeChar
		e.Const = nil

	case *VarRef:
		typ, ok := a.lookupVariable(e.Name)
		if !ok {
			a.errorf("Undefined variable: %s", e.Name)
			// Keep walking with an Invalid annotation; downstream uses do
			// not cascade further errors.
		}
		e.Type = typ
		e.Const = nil

	case *CallExpr:
		fn, ok := a.lookupFunction(e.Callee)
		if !ok {
			a.errorf("Undefined function: %s", e.Callee)
			e.Type = TypeInvalid
			e.Const = nil
			return
		}

		if fn.Variadic {
			if len(e.Args) < len(fn.ParamTypes) {
				a.errorf("Incorrect number of arguments for function %s", e.Callee)
			}
		} else if len(e.Args) != len(fn.ParamTypes) {
			a.errorf("Incorrect number of arguments for function %s", e.Callee)
		}

		// Arguments are visited even on a count mismatch so the subtrees
		// are fully annotated.
		for _, arg := range e.Args {
			a.checkExpr(arg)
		}

		e.Type = fn.ReturnType
		e.Const = nil

	case *BinaryExpr:
		a.checkExpr(e.Left)
		a.checkExpr(e.Right)

		if e.Left.Annot().Type == TypeFloat || e.Right.Annot().Type == TypeFloat {
			e.Type = TypeFloat
		} else {
			e.Type = TypeInt
		}

		// Folding covers addition of two integer constants and nothing
		// else; every other operator resets the constant annotation.
		e.Const = nil
		if e.Op == PLUS {
			lc, rc := e.Left.Annot().Const, e.Right.Annot().Const
			if lc != nil && rc != nil && e.Left.Annot().Type == TypeInt && e.Right.Annot().Type == TypeInt {
				sum := *lc + *rc
				e.Const = &sum
			}
		}
	}
}

// Scope and function table helpers

func (a *Analyzer) enterScope() {
	a.scopes = append(a.scopes, nil)
}

func (a *Analyzer) exitScope() {
	if len(a.scopes) > 0 {
		a.scopes = a.scopes[:len(a.scopes)-1]
	}
}

func (a *Analyzer) declareVariable(name string, typ Type) {
	if len(a.scopes) == 0 {
		return
	}
	top := len(a.scopes) - 1
	a.scopes[top] = append(a.scopes[top], varEntry{name: name, typ: typ})
}

// lookupVariable searches frames innermost-first, and within a frame from
// the most recent declaration backwards.
func (a *Analyzer) lookupVariable(name string) (Type, bool) {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		frame := a.scopes[i]
		for j := len(frame) - 1; j >= 0; j-- {
			if frame[j].name == name {
				return frame[j].typ, true
			}
		}
	}
	return TypeInvalid, false
}

func (a *Analyzer) declareFunction(info FuncInfo) {
	a.funcs = append(a.funcs, info)
}

// lookupFunction scans the table linearly; the first match wins.
func (a *Analyzer) lookupFunction(name string) (FuncInfo, bool) {
	for _, fn := range a.funcs {
		if fn.Name == name {
			return fn, true
		}
	}
	return FuncInfo{}, false
}
