package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	IDENTIFIER     // variable / function name
	NUMBER         // decimal integer literal
	FLOAT_LITERAL  // floating literal with a '.' and at least one digit after it
	CHAR_LITERAL   // character literal '...'
	STRING_LITERAL // string literal "..."

	// Keywords
	KW_INT    // "int"
	KW_FLOAT  // "float"
	KW_DOUBLE // "double"
	KW_CHAR   // "char"
	KW_STRING // "string"
	KW_VOID   // "void"
	KW_RETURN // "return"
	KW_IF     // "if"
	KW_ELSE   // "else"
	KW_WHILE  // "while"
	KW_FOR    // "for"

	// Paired delimiters
	LBRACE // {
	RBRACE // }
	LPAR   // (
	RPAR   // )

	// Punctuation
	SEMICOLON // ;
	COMMA     // ,
	POUND     // #

	// Operators  (order matters: ASSIGN before EQUAL_EQUAL)
	PLUS         // +
	MINUS        // -
	MULTIPLY     // *
	DIVIDE       // / (when not starting a comment)
	MODULO       // %
	ASSIGN       // =
	LESS_THAN    // <
	GREATER_THAN // >

	EQUAL_EQUAL   // ==
	NOT_EQUAL     // !=
	LESS_EQUAL    // <=
	GREATER_EQUAL // >=

	// UNKNOWN marks input the scanner could not classify: unterminated
	// string/char literals, an empty char literal, a lone '!', or any
	// character outside the language. The lexeme carries the diagnostic.
	UNKNOWN
)

// tokenNames is indexed by TokenType.
var tokenNames = [...]string{
	EOF:            "EOF",
	IDENTIFIER:     "IDENTIFIER",
	NUMBER:         "NUMBER",
	FLOAT_LITERAL:  "FLOAT_LITERAL",
	CHAR_LITERAL:   "CHAR_LITERAL",
	STRING_LITERAL: "STRING_LITERAL",
	KW_INT:         "KW_INT",
	KW_FLOAT:       "KW_FLOAT",
	KW_DOUBLE:      "KW_DOUBLE",
	KW_CHAR:        "KW_CHAR",
	KW_STRING:      "KW_STRING",
	KW_VOID:        "KW_VOID",
	KW_RETURN:      "KW_RETURN",
	KW_IF:          "KW_IF",
	KW_ELSE:        "KW_ELSE",
	KW_WHILE:       "KW_WHILE",
	KW_FOR:         "KW_FOR",
	LBRACE:         "LBRACE",
	RBRACE:         "RBRACE",
	LPAR:           "LPAR",
	RPAR:           "RPAR",
	SEMICOLON:      "SEMICOLON",
	COMMA:          "COMMA",
	POUND:          "POUND",
	PLUS:           "PLUS",
	MINUS:          "MINUS",
	MULTIPLY:       "MULTIPLY",
	DIVIDE:         "DIVIDE",
	MODULO:         "MODULO",
	ASSIGN:         "ASSIGN",
	LESS_THAN:      "LESS_THAN",
	GREATER_THAN:   "GREATER_THAN",
	EQUAL_EQUAL:    "EQUAL_EQUAL",
	NOT_EQUAL:      "NOT_EQUAL",
	LESS_EQUAL:     "LESS_EQUAL",
	GREATER_EQUAL:  "GREATER_EQUAL",
	UNKNOWN:        "UNKNOWN",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Lexer. Line and Column mark
// the first character of the lexeme, both 1-based.
type Token struct {
	Type   TokenType
	Lexeme string // the exact source text that was matched
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%-14s %-14q  %d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}
