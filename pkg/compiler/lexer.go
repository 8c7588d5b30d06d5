package compiler

import (
	"fmt"
	"unicode"
)

// keywords maps source text to its keyword TokenType.
var keywords = map[string]TokenType{
	"int":    KW_INT,
	"float":  KW_FLOAT,
	"double": KW_DOUBLE,
	"char":   KW_CHAR,
	"string": KW_STRING,
	"void":   KW_VOID,
	"return": KW_RETURN,
	"if":     KW_IF,
	"else":   KW_ELSE,
	"while":  KW_WHILE,
	"for":    KW_FOR,
}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
	col  int // current 1-based source column
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), pos: 0, line: 1, col: 1}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the rune one position ahead of the current position.
func (l *Lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

// advance consumes one rune and returns it. A newline bumps the line counter
// and resets the column.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipLineComment discards everything from the current position to end-of-line.
// The opening "//" must already have been consumed.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

// skipBlockComment discards everything up to and including the closing "*/".
// The opening "/*" must already have been consumed. An unterminated block
// comment simply consumes the rest of the input.
func (l *Lexer) skipBlockComment() {
	for l.pos < len(l.src) {
		if l.peek() == '*' && l.peek2() == '/' {
			l.advance() // *
			l.advance() // /
			return
		}
		l.advance()
	}
}

// scanIdent collects a full identifier or keyword token.
// The first character (letter or '_') must still be at l.peek().
func (l *Lexer) scanIdent() Token {
	line, col := l.line, l.col
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	tt := IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Line: line, Column: col}
}

// scanNumber collects a decimal integer literal, continuing as a floating
// literal when a '.' with at least one digit follows. A bare trailing '.' is
// left for the next token.
func (l *Lexer) scanNumber() Token {
	line, col := l.line, l.col
	start := l.pos
	for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && unicode.IsDigit(l.peek2()) {
		l.advance() // consume '.'
		for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
			l.advance()
		}
		return Token{Type: FLOAT_LITERAL, Lexeme: string(l.src[start:l.pos]), Line: line, Column: col}
	}

	return Token{Type: NUMBER, Lexeme: string(l.src[start:l.pos]), Line: line, Column: col}
}

// escapeChar resolves a single backslash escape.
func escapeChar(r rune) (rune, bool) {
	switch r {
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	case '0':
		return 0, true
	case '\\':
		return '\\', true
	case '\'':
		return '\'', true
	case '"':
		return '"', true
	}
	return 0, false
}

// scanChar collects a character literal 'c'. Malformed forms become UNKNOWN
// tokens whose lexeme explains what went wrong; scanning never fails.
func (l *Lexer) scanChar() Token {
	line, col := l.line, l.col
	l.advance() // consume opening '

	if l.pos >= len(l.src) {
		return Token{Type: UNKNOWN, Lexeme: "unterminated character literal", Line: line, Column: col}
	}
	if l.peek() == '\'' {
		l.advance()
		return Token{Type: UNKNOWN, Lexeme: "empty character literal", Line: line, Column: col}
	}

	var val rune
	if l.peek() == '\\' {
		l.advance() // consume backslash
		esc, ok := escapeChar(l.peek())
		if !ok {
			bad := l.peek()
			l.advance()
			return Token{Type: UNKNOWN, Lexeme: fmt.Sprintf("unknown escape sequence \\%c in character literal", bad), Line: line, Column: col}
		}
		val = esc
		l.advance()
	} else {
		val = l.advance()
	}

	if l.peek() != '\'' {
		return Token{Type: UNKNOWN, Lexeme: "unterminated character literal", Line: line, Column: col}
	}
	l.advance() // consume closing '

	return Token{Type: CHAR_LITERAL, Lexeme: string(val), Line: line, Column: col}
}

// scanString collects a string literal "...". The literal may span newlines;
// line tracking keeps running. An unterminated literal becomes an UNKNOWN
// token instead of an error.
func (l *Lexer) scanString() Token {
	line, col := l.line, l.col
	l.advance() // consume opening "
	var val []rune

	for l.pos < len(l.src) {
		r := l.peek()
		if r == '"' {
			l.advance() // consume closing "
			return Token{Type: STRING_LITERAL, Lexeme: string(val), Line: line, Column: col}
		}
		if r == '\\' {
			l.advance() // consume backslash
			esc, ok := escapeChar(l.peek())
			if !ok {
				bad := l.peek()
				l.advance()
				return Token{Type: UNKNOWN, Lexeme: fmt.Sprintf("unknown escape sequence \\%c in string literal", bad), Line: line, Column: col}
			}
			val = append(val, esc)
			l.advance()
			continue
		}
		val = append(val, l.advance())
	}

	return Token{Type: UNKNOWN, Lexeme: "unterminated string literal", Line: line, Column: col}
}

// nextToken skips whitespace/comments and returns the next Token.
func (l *Lexer) nextToken() Token {
	// Skip whitespace and both comment styles in a loop so that
	// a comment followed immediately by more whitespace is handled.
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return Token{Type: EOF, Lexeme: "", Line: l.line, Column: l.col}
		}
		if l.peek() == '/' && l.peek2() == '/' {
			l.advance()
			l.advance()
			l.skipLineComment()
			continue
		}
		if l.peek() == '/' && l.peek2() == '*' {
			l.advance()
			l.advance()
			l.skipBlockComment()
			continue
		}
		break
	}

	ch := l.peek()
	line, col := l.line, l.col

	if unicode.IsLetter(ch) || ch == '_' {
		return l.scanIdent()
	}
	if unicode.IsDigit(ch) {
		return l.scanNumber()
	}
	if ch == '"' {
		return l.scanString()
	}
	if ch == '\'' {
		return l.scanChar()
	}

	l.advance() // consume the character before the switch
	switch ch {
	case '(':
		return Token{LPAR, "(", line, col}
	case ')':
		return Token{RPAR, ")", line, col}
	case '{':
		return Token{LBRACE, "{", line, col}
	case '}':
		return Token{RBRACE, "}", line, col}
	case ';':
		return Token{SEMICOLON, ";", line, col}
	case ',':
		return Token{COMMA, ",", line, col}
	case '#':
		return Token{POUND, "#", line, col}
	case '+':
		return Token{PLUS, "+", line, col}
	case '-':
		return Token{MINUS, "-", line, col}
	case '*':
		return Token{MULTIPLY, "*", line, col}
	case '/':
		return Token{DIVIDE, "/", line, col}
	case '%':
		return Token{MODULO, "%", line, col}
	case '<':
		if l.peek() == '=' {
			l.advance()
			return Token{LESS_EQUAL, "<=", line, col}
		}
		return Token{LESS_THAN, "<", line, col}
	case '>':
		if l.peek() == '=' {
			l.advance()
			return Token{GREATER_EQUAL, ">=", line, col}
		}
		return Token{GREATER_THAN, ">", line, col}
	case '=':
		if l.peek() == '=' { // lookahead: distinguish = vs ==
			l.advance()
			return Token{EQUAL_EQUAL, "==", line, col}
		}
		return Token{ASSIGN, "=", line, col}
	case '!':
		if l.peek() == '=' {
			l.advance()
			return Token{NOT_EQUAL, "!=", line, col}
		}
		return Token{UNKNOWN, "!", line, col}
	default:
		return Token{UNKNOWN, string(ch), line, col}
	}
}

// Lex tokenises src and returns all tokens including the final EOF token.
// Scanning is total: malformed input surfaces as UNKNOWN tokens and is
// rejected later by the parser, never here.
func Lex(src string) []Token {
	l := newLexer(src)
	var tokens []Token
	for {
		tok := l.nextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}
