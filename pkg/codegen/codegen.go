// Package codegen lowers a validated, annotated compiler.Program to LLVM IR.
//
// The front end owns all language rules; this package only translates. The
// one check that lives here is the shape of assignment targets, which the
// parser deliberately leaves unrestricted.
package codegen

import (
	"fmt"
	"os"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"pillac/pkg/compiler"
)

// slot is one stack-allocated local: the alloca plus the type it holds.
type slot struct {
	alloca *ir.InstAlloca
	typ    types.Type
}

// Emitter walks one Program and builds one ir.Module.
type Emitter struct {
	m      *ir.Module
	fns    map[string]*ir.Func
	printf *ir.Func

	fn    *ir.Func
	block *ir.Block
	vars  map[string]slot

	strCount int
}

// Emit lowers prog to a fresh LLVM module.
func Emit(prog *compiler.Program) (*ir.Module, error) {
	e := &Emitter{
		m:   ir.NewModule(),
		fns: make(map[string]*ir.Func),
	}

	// Declare every function first so calls resolve regardless of
	// declaration order.
	for _, fn := range prog.Functions {
		params := make([]*ir.Param, 0, len(fn.Params))
		for _, p := range fn.Params {
			params = append(params, ir.NewParam(p.Name, irType(p.TypeName)))
		}
		e.fns[fn.Name] = e.m.NewFunc(fn.Name, irType(fn.ReturnType), params...)
	}

	for _, fn := range prog.Functions {
		if err := e.emitFunction(fn); err != nil {
			return nil, err
		}
	}

	return e.m, nil
}

// WriteIRFile writes the module's textual IR to path.
func WriteIRFile(m *ir.Module, path string) error {
	return os.WriteFile(path, []byte(m.String()), 0o644)
}

// irType maps a Pilla type name to its LLVM lowering. float is lowered to
// double; there is no 32-bit float in the language runtime.
func irType(name string) types.Type {
	switch name {
	case "int":
		return types.I64
	case "float", "double":
		return types.Double
	case "char":
		return types.I8
	case "string":
		return types.I8Ptr
	case "void":
		return types.Void
	}
	return types.I64
}

func (e *Emitter) emitFunction(fn *compiler.FunctionDecl) error {
	f := e.fns[fn.Name]
	e.fn = f
	e.block = f.NewBlock("entry")
	e.vars = make(map[string]slot)

	// Spill every parameter to a stack slot so assignment to parameters
	// works like assignment to locals.
	for _, p := range f.Params {
		al := e.block.NewAlloca(p.Type())
		e.block.NewStore(p, al)
		e.vars[p.Name()] = slot{alloca: al, typ: p.Type()}
	}

	for _, stmt := range fn.Body {
		if err := e.emitStmt(stmt); err != nil {
			return err
		}
	}

	// Fall off the end of the body: synthesize a return so every block is
	// terminated.
	if e.block.Term == nil {
		switch rt := f.Sig.RetType; {
		case rt.Equal(types.Void):
			e.block.NewRet(nil)
		case rt.Equal(types.Double):
			e.block.NewRet(constant.NewFloat(types.Double, 0))
		case rt.Equal(types.I8Ptr):
			e.block.NewRet(constant.NewNull(types.I8Ptr))
		default:
			e.block.NewRet(constant.NewInt(rt.(*types.IntType), 0))
		}
	}
	return nil
}

func (e *Emitter) emitStmt(stmt compiler.Stmt) error {
	switch s := stmt.(type) {
	case *compiler.VariableDecl:
		typ := irType(s.TypeName)
		al := e.block.NewAlloca(typ)
		e.vars[s.Name] = slot{alloca: al, typ: typ}
		if s.Init != nil {
			v, err := e.emitExpr(s.Init)
			if err != nil {
				return err
			}
			e.block.NewStore(e.cast(v, typ), al)
		}
		return nil

	case *compiler.ReturnStmt:
		if s.Expr == nil {
			e.block.NewRet(nil)
		} else {
			v, err := e.emitExpr(s.Expr)
			if err != nil {
				return err
			}
			e.block.NewRet(e.cast(v, e.fn.Sig.RetType))
		}
		// Anything after the return in this statement list is dead but
		// still has to be emitted somewhere.
		e.block = e.fn.NewBlock("")
		return nil

	case *compiler.ExprStmt:
		_, err := e.emitExpr(s.Expr)
		return err

	case *compiler.IfStmt:
		cond, err := e.emitCond(s.Condition)
		if err != nil {
			return err
		}
		thenB := e.fn.NewBlock("")
		endB := e.fn.NewBlock("")
		elseB := endB
		if len(s.Else) > 0 {
			elseB = e.fn.NewBlock("")
		}
		e.block.NewCondBr(cond, thenB, elseB)

		e.block = thenB
		for _, stmt := range s.Then {
			if err := e.emitStmt(stmt); err != nil {
				return err
			}
		}
		if e.block.Term == nil {
			e.block.NewBr(endB)
		}

		if len(s.Else) > 0 {
			e.block = elseB
			for _, stmt := range s.Else {
				if err := e.emitStmt(stmt); err != nil {
					return err
				}
			}
			if e.block.Term == nil {
				e.block.NewBr(endB)
			}
		}

		e.block = endB
		return nil

	case *compiler.WhileStmt:
		condB := e.fn.NewBlock("")
		bodyB := e.fn.NewBlock("")
		endB := e.fn.NewBlock("")
		e.block.NewBr(condB)

		e.block = condB
		cond, err := e.emitCond(s.Condition)
		if err != nil {
			return err
		}
		e.block.NewCondBr(cond, bodyB, endB)

		e.block = bodyB
		for _, stmt := range s.Body {
			if err := e.emitStmt(stmt); err != nil {
				return err
			}
		}
		if e.block.Term == nil {
			e.block.NewBr(condB)
		}

		e.block = endB
		return nil

	case *compiler.ForStmt:
		if s.Init != nil {
			if err := e.emitStmt(s.Init); err != nil {
				return err
			}
		}
		condB := e.fn.NewBlock("")
		bodyB := e.fn.NewBlock("")
		endB := e.fn.NewBlock("")
		e.block.NewBr(condB)

		e.block = condB
		if s.Cond != nil {
			cond, err := e.emitCond(s.Cond)
			if err != nil {
				return err
			}
			e.block.NewCondBr(cond, bodyB, endB)
		} else {
			// An absent condition loops forever.
			e.block.NewBr(bodyB)
		}

		e.block = bodyB
		for _, stmt := range s.Body {
			if err := e.emitStmt(stmt); err != nil {
				return err
			}
		}
		if s.Post != nil {
			if _, err := e.emitExpr(s.Post); err != nil {
				return err
			}
		}
		if e.block.Term == nil {
			e.block.NewBr(condB)
		}

		e.block = endB
		return nil
	}

	return fmt.Errorf("codegen: unsupported statement %T", stmt)
}

// emitCond lowers an expression used as a branch condition to an i1 by
// comparing against zero.
func (e *Emitter) emitCond(expr compiler.Expr) (value.Value, error) {
	v, err := e.emitExpr(expr)
	if err != nil {
		return nil, err
	}
	if v.Type().Equal(types.I1) {
		return v, nil
	}
	if v.Type().Equal(types.Double) {
		return e.block.NewFCmp(enum.FPredONE, v, constant.NewFloat(types.Double, 0)), nil
	}
	it, ok := v.Type().(*types.IntType)
	if !ok {
		return nil, fmt.Errorf("codegen: condition of type %v is not truthy", v.Type())
	}
	return e.block.NewICmp(enum.IPredNE, v, constant.NewInt(it, 0)), nil
}

func (e *Emitter) emitExpr(expr compiler.Expr) (value.Value, error) {
	switch x := expr.(type) {
	case *compiler.NumberLit:
		return constant.NewInt(types.I64, x.Value), nil

	case *compiler.FloatLit:
		return constant.NewFloat(types.Double, x.Value), nil

	case *compiler.CharLit:
		return constant.NewInt(types.I8, int64(x.Value)), nil

	case *compiler.StringLit:
		return e.globalString(x.Value), nil

	case *compiler.VarRef:
		sl, ok := e.vars[x.Name]
		if !ok {
			return nil, fmt.Errorf("codegen: unknown variable name %q", x.Name)
		}
		return e.block.NewLoad(sl.typ, sl.alloca), nil

	case *compiler.CallExpr:
		return e.emitCall(x)

	case *compiler.BinaryExpr:
		if x.Op == compiler.ASSIGN {
			return e.emitAssign(x)
		}
		return e.emitBinary(x)
	}

	return nil, fmt.Errorf("codegen: unsupported expression %T", expr)
}

// emitAssign stores the right-hand value into the target variable. This is
// where the language finally requires the target to be a plain variable.
func (e *Emitter) emitAssign(x *compiler.BinaryExpr) (value.Value, error) {
	ref, ok := x.Left.(*compiler.VarRef)
	if !ok {
		return nil, fmt.Errorf("codegen: invalid assignment target %s", x.Left)
	}
	sl, ok := e.vars[ref.Name]
	if !ok {
		return nil, fmt.Errorf("codegen: unknown variable name %q", ref.Name)
	}
	v, err := e.emitExpr(x.Right)
	if err != nil {
		return nil, err
	}
	v = e.cast(v, sl.typ)
	e.block.NewStore(v, sl.alloca)
	return v, nil
}

func (e *Emitter) emitBinary(x *compiler.BinaryExpr) (value.Value, error) {
	l, err := e.emitExpr(x.Left)
	if err != nil {
		return nil, err
	}
	r, err := e.emitExpr(x.Right)
	if err != nil {
		return nil, err
	}

	if l.Type().Equal(types.Double) || r.Type().Equal(types.Double) {
		l = e.cast(l, types.Double)
		r = e.cast(r, types.Double)
		switch x.Op {
		case compiler.PLUS:
			return e.block.NewFAdd(l, r), nil
		case compiler.MINUS:
			return e.block.NewFSub(l, r), nil
		case compiler.MULTIPLY:
			return e.block.NewFMul(l, r), nil
		case compiler.DIVIDE:
			return e.block.NewFDiv(l, r), nil
		case compiler.MODULO:
			return e.block.NewFRem(l, r), nil
		case compiler.EQUAL_EQUAL:
			return e.zext(e.block.NewFCmp(enum.FPredOEQ, l, r)), nil
		case compiler.NOT_EQUAL:
			return e.zext(e.block.NewFCmp(enum.FPredONE, l, r)), nil
		case compiler.LESS_THAN:
			return e.zext(e.block.NewFCmp(enum.FPredOLT, l, r)), nil
		case compiler.GREATER_THAN:
			return e.zext(e.block.NewFCmp(enum.FPredOGT, l, r)), nil
		case compiler.LESS_EQUAL:
			return e.zext(e.block.NewFCmp(enum.FPredOLE, l, r)), nil
		case compiler.GREATER_EQUAL:
			return e.zext(e.block.NewFCmp(enum.FPredOGE, l, r)), nil
		}
		return nil, fmt.Errorf("codegen: invalid binary operator %s", x.Op)
	}

	l = e.cast(l, types.I64)
	r = e.cast(r, types.I64)
	switch x.Op {
	case compiler.PLUS:
		return e.block.NewAdd(l, r), nil
	case compiler.MINUS:
		return e.block.NewSub(l, r), nil
	case compiler.MULTIPLY:
		return e.block.NewMul(l, r), nil
	case compiler.DIVIDE:
		return e.block.NewSDiv(l, r), nil
	case compiler.MODULO:
		return e.block.NewSRem(l, r), nil
	case compiler.EQUAL_EQUAL:
		return e.zext(e.block.NewICmp(enum.IPredEQ, l, r)), nil
	case compiler.NOT_EQUAL:
		return e.zext(e.block.NewICmp(enum.IPredNE, l, r)), nil
	case compiler.LESS_THAN:
		return e.zext(e.block.NewICmp(enum.IPredSLT, l, r)), nil
	case compiler.GREATER_THAN:
		return e.zext(e.block.NewICmp(enum.IPredSGT, l, r)), nil
	case compiler.LESS_EQUAL:
		return e.zext(e.block.NewICmp(enum.IPredSLE, l, r)), nil
	case compiler.GREATER_EQUAL:
		return e.zext(e.block.NewICmp(enum.IPredSGE, l, r)), nil
	}
	return nil, fmt.Errorf("codegen: invalid binary operator %s", x.Op)
}

func (e *Emitter) emitCall(x *compiler.CallExpr) (value.Value, error) {
	callee, ok := e.fns[x.Callee]
	if !ok {
		// printf is not declared by programs; declare it on first use.
		if x.Callee == "printf" {
			callee = e.declarePrintf()
		} else {
			return nil, fmt.Errorf("codegen: unknown function %q referenced", x.Callee)
		}
	}

	args := make([]value.Value, 0, len(x.Args))
	for i, arg := range x.Args {
		v, err := e.emitExpr(arg)
		if err != nil {
			return nil, err
		}
		// Fixed parameters are cast to their declared type; variadic tail
		// arguments are passed as-is.
		if i < len(callee.Params) {
			v = e.cast(v, callee.Params[i].Type())
		}
		args = append(args, v)
	}

	return e.block.NewCall(callee, args...), nil
}

func (e *Emitter) declarePrintf() *ir.Func {
	if e.printf == nil {
		f := e.m.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
		f.Sig.Variadic = true
		e.printf = f
		e.fns["printf"] = f
	}
	return e.printf
}

// globalString interns a NUL-terminated global and returns a pointer to its
// first byte.
func (e *Emitter) globalString(s string) value.Value {
	name := fmt.Sprintf(".str.%d", e.strCount)
	e.strCount++
	g := e.m.NewGlobalDef(name, constant.NewCharArrayFromString(s+"\x00"))
	g.Immutable = true
	zero := constant.NewInt(types.I64, 0)
	return constant.NewGetElementPtr(g.ContentType, g, zero, zero)
}

func (e *Emitter) zext(v value.Value) value.Value {
	return e.block.NewZExt(v, types.I64)
}

// cast bridges the few scalar conversions the language needs: int to double
// at mixed-type operators, char widening, and the reverse narrowings when a
// declared type wins over an initializer.
func (e *Emitter) cast(v value.Value, to types.Type) value.Value {
	from := v.Type()
	if from.Equal(to) {
		return v
	}

	fromInt, fromIsInt := from.(*types.IntType)
	toInt, toIsInt := to.(*types.IntType)

	switch {
	case fromIsInt && to.Equal(types.Double):
		return e.block.NewSIToFP(v, types.Double)
	case from.Equal(types.Double) && toIsInt:
		return e.block.NewFPToSI(v, toInt)
	case fromIsInt && toIsInt && fromInt.BitSize < toInt.BitSize:
		return e.block.NewSExt(v, toInt)
	case fromIsInt && toIsInt && fromInt.BitSize > toInt.BitSize:
		return e.block.NewTrunc(v, toInt)
	}
	return v
}
