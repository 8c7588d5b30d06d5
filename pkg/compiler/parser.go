package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser consumes the flat token slice produced by the Lexer and builds a
// Program. The first structural error aborts the whole parse; there is no
// recovery pass.
//
// Grammar:
//
//	program    = functionDecl* EOF
//	functionDecl = type IDENTIFIER "(" paramList? ")" "{" statement* "}"
//	paramList  = type IDENTIFIER ("," type IDENTIFIER)*
//	type       = "void" | "int" | "float" | "double" | "char" | "string"
//	statement  = varDecl | returnStmt | ifStmt | whileStmt | forStmt | exprStmt
//	varDecl    = type IDENTIFIER ("=" expression)? ";"
//	returnStmt = "return" expression? ";"
//	ifStmt     = "if" "(" expression ")" "{" statement* "}" ("else" "{" statement* "}")?
//	whileStmt  = "while" "(" expression ")" "{" statement* "}"
//	forStmt    = "for" "(" (varDecl | expression ";" | ";") expression? ";" expression? ")" "{" statement* "}"
//	exprStmt   = expression ";"
//	expression = binary(1)
//	binary(n)  = primary (op[prec>=n] binary(prec+1))*     assignment(1) < comparison(2) < additive(3) < multiplicative(4)
//	primary    = NUMBER | FLOAT_LITERAL | STRING_LITERAL | CHAR_LITERAL | IDENTIFIER ("(" args? ")")?
type Parser struct {
	tokens      []Token
	pos         int
	sourceLines []string
}

func NewParser(tokens []Token, rawSource string) *Parser {
	return &Parser{tokens: tokens, sourceLines: strings.Split(rawSource, "\n")}
}

// fmtError wraps an error message with the source line where the token appears.
func (p *Parser) fmtError(tok Token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	lineIdx := tok.Line - 1 // Lines are 1-based

	snippet := "<source unavailable>"
	if lineIdx >= 0 && lineIdx < len(p.sourceLines) {
		snippet = strings.TrimSpace(p.sourceLines[lineIdx])
	}

	return fmt.Errorf("line %d: %s\n  |> %s", tok.Line, msg, snippet)
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise returns an error.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.advance()
	if tok.Type != tt {
		return tok, p.fmtError(tok, "expected %s, got %s (%q)", tt, tok.Type, tok.Lexeme)
	}
	return tok, nil
}

// isTypeKeyword reports whether tt names one of the scalar types.
func isTypeKeyword(tt TokenType) bool {
	switch tt {
	case KW_VOID, KW_INT, KW_FLOAT, KW_DOUBLE, KW_CHAR, KW_STRING:
		return true
	}
	return false
}

// parseType consumes a type keyword and returns its canonical name.
func (p *Parser) parseType() (string, error) {
	tok := p.peek()
	if !isTypeKeyword(tok.Type) {
		return "", p.fmtError(tok, "expected type (void, int, float, double, char, or string), got %s (%q)", tok.Type, tok.Lexeme)
	}
	p.advance()
	return tok.Lexeme, nil
}

// binaryPrec returns the precedence of tt as a binary operator, or 0 when tt
// is not a binary operator.
func binaryPrec(tt TokenType) int {
	switch tt {
	case ASSIGN:
		return 1
	case EQUAL_EQUAL, NOT_EQUAL, LESS_THAN, GREATER_THAN, LESS_EQUAL, GREATER_EQUAL:
		return 2
	case PLUS, MINUS:
		return 3
	case MULTIPLY, DIVIDE, MODULO:
		return 4
	}
	return 0
}

// parseExpression is the entry point for expression parsing.
func (p *Parser) parseExpression() (Expr, error) {
	return p.parseBinary(1)
}

// parseBinary climbs operator precedence: it keeps extending the left operand
// while the next operator binds at least as tightly as minPrec. The right
// operand is parsed with prec+1, which makes every level left-associative.
func (p *Parser) parseBinary(minPrec int) (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		prec := binaryPrec(p.peek().Type)
		if prec < minPrec || prec == 0 {
			break
		}
		op := p.advance().Type
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}

	return left, nil
}

// parsePrimary handles literals, variable references, and calls.
func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case NUMBER:
		p.advance()
		val, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			// Overflow policy: reject rather than wrap or saturate.
			return nil, p.fmtError(tok, "integer literal %q out of 64-bit range", tok.Lexeme)
		}
		return &NumberLit{Value: val}, nil

	case FLOAT_LITERAL:
		p.advance()
		val, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.fmtError(tok, "malformed floating literal %q", tok.Lexeme)
		}
		return &FloatLit{Value: val}, nil

	case STRING_LITERAL:
		p.advance()
		return &StringLit{Value: tok.Lexeme}, nil

	case CHAR_LITERAL:
		p.advance()
		return &CharLit{Value: tok.Lexeme[0]}, nil

	case IDENTIFIER:
		p.advance()
		if p.peek().Type == LPAR {
			p.advance() // (
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			return &CallExpr{Callee: tok.Lexeme, Args: args}, nil
		}
		return &VarRef{Name: tok.Lexeme}, nil

	default:
		return nil, p.fmtError(tok, "expected expression, got %s (%q)", tok.Type, tok.Lexeme)
	}
}

// parseCallArgs parses the argument list after the opening '(' of a call.
func (p *Parser) parseCallArgs() ([]Expr, error) {
	var args []Expr
	if p.peek().Type != RPAR {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.peek().Type != COMMA {
				break
			}
			p.advance()
		}
	}

	if _, err := p.expect(RPAR); err != nil {
		return nil, err
	}
	return args, nil
}

// parseVarDecl parses  type name (= expr)? ;
func (p *Parser) parseVarDecl() (Stmt, error) {
	typeName, err := p.parseType()
	if err != nil {
		return nil, err
	}

	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}

	decl := &VariableDecl{TypeName: typeName, Name: nameTok.Lexeme}
	if p.peek().Type == ASSIGN {
		p.advance()
		init, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}

	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseReturn parses  return expr? ;
// The leading KW_RETURN token has already been consumed by parseStatement.
func (p *Parser) parseReturn() (Stmt, error) {
	if p.peek().Type == SEMICOLON {
		p.advance()
		return &ReturnStmt{}, nil
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &ReturnStmt{Expr: expr}, nil
}

// parseBlock parses { stmt* } and returns the statement list.
func (p *Parser) parseBlock() ([]Stmt, error) {
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	var stmts []Stmt
	for p.peek().Type != RBRACE && p.peek().Type != EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	return stmts, nil
}

// parseIf parses if ( cond ) { then } [ else { else } ]
// The leading KW_IF token has already been consumed by parseStatement.
func (p *Parser) parseIf() (Stmt, error) {
	if _, err := p.expect(LPAR); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAR); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elseBody []Stmt
	if p.peek().Type == KW_ELSE {
		p.advance()
		elseBody, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	return &IfStmt{Condition: cond, Then: then, Else: elseBody}, nil
}

// parseWhile parses while ( cond ) { body }
// The leading KW_WHILE token has already been consumed by parseStatement.
func (p *Parser) parseWhile() (Stmt, error) {
	if _, err := p.expect(LPAR); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAR); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Condition: cond, Body: body}, nil
}

// parseFor parses for ( init; cond; post ) { body }. Each clause is
// independently optional; a missing clause stays nil.
// The leading KW_FOR token has already been consumed by parseStatement.
func (p *Parser) parseFor() (Stmt, error) {
	if _, err := p.expect(LPAR); err != nil {
		return nil, err
	}

	var init Stmt
	if p.peek().Type == SEMICOLON {
		p.advance()
	} else if isTypeKeyword(p.peek().Type) {
		// parseVarDecl consumes the trailing ';'
		var err error
		init, err = p.parseVarDecl()
		if err != nil {
			return nil, err
		}
	} else {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		init = &ExprStmt{Expr: expr}
	}

	var cond Expr
	if p.peek().Type != SEMICOLON {
		var err error
		cond, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}

	var post Expr
	if p.peek().Type != RPAR {
		var err error
		post, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(RPAR); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ForStmt{Init: init, Cond: cond, Post: post, Body: body}, nil
}

// parseStatement dispatches to the correct sub-parser based on the leading
// token. An expression statement is the fallback.
func (p *Parser) parseStatement() (Stmt, error) {
	tok := p.peek()
	switch {
	case isTypeKeyword(tok.Type):
		return p.parseVarDecl()

	case tok.Type == KW_RETURN:
		p.advance()
		return p.parseReturn()

	case tok.Type == KW_IF:
		p.advance()
		return p.parseIf()

	case tok.Type == KW_WHILE:
		p.advance()
		return p.parseWhile()

	case tok.Type == KW_FOR:
		p.advance()
		return p.parseFor()

	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		return &ExprStmt{Expr: expr}, nil
	}
}

// parseFunction parses  type name ( params ) { body }
func (p *Parser) parseFunction() (*FunctionDecl, error) {
	retType, err := p.parseType()
	if err != nil {
		return nil, err
	}

	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAR); err != nil {
		return nil, err
	}

	var params []Param
	if p.peek().Type != RPAR {
		for {
			typeName, err := p.parseType()
			if err != nil {
				return nil, err
			}
			paramName, err := p.expect(IDENTIFIER)
			if err != nil {
				return nil, err
			}
			params = append(params, Param{TypeName: typeName, Name: paramName.Lexeme})

			if p.peek().Type != COMMA {
				break
			}
			p.advance()
		}
	}

	if _, err := p.expect(RPAR); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &FunctionDecl{ReturnType: retType, Name: nameTok.Lexeme, Params: params, Body: body}, nil
}

// Parse builds the Program from tokens. Only function declarations are
// allowed at the top level; the first error aborts and no partial tree is
// returned.
func Parse(tokens []Token, rawSource string) (*Program, error) {
	p := NewParser(tokens, rawSource)
	prog := &Program{}
	for p.peek().Type != EOF {
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		prog.Functions = append(prog.Functions, fn)
	}
	return prog, nil
}
