// Package lexer turns Lazuli source text into a token stream.
package lexer

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/lazuli-lang/lazuli/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	startLine, startCol := l.line, l.column

	var tok token.Token
	switch l.ch {
	case ':':
		tok = newToken(token.COLON, l.ch, startLine, startCol)
	case ',':
		tok = newToken(token.COMMA, l.ch, startLine, startCol)
	case '.':
		tok = newToken(token.DOT, l.ch, startLine, startCol)
	case '(':
		tok = newToken(token.LPAREN, l.ch, startLine, startCol)
	case ')':
		tok = newToken(token.RPAREN, l.ch, startLine, startCol)
	case '{':
		tok = newToken(token.LBRACE, l.ch, startLine, startCol)
	case '}':
		tok = newToken(token.RBRACE, l.ch, startLine, startCol)
	case '[':
		tok = newToken(token.LBRACKET, l.ch, startLine, startCol)
	case ']':
		tok = newToken(token.RBRACKET, l.ch, startLine, startCol)
	case '+':
		tok = newToken(token.PLUS, l.ch, startLine, startCol)
	case '-':
		tok = newToken(token.MINUS, l.ch, startLine, startCol)
	case '*':
		tok = newToken(token.STAR, l.ch, startLine, startCol)
	case '/':
		tok = newToken(token.SLASH, l.ch, startLine, startCol)
	case '%':
		tok = newToken(token.PERCENT, l.ch, startLine, startCol)
	case '=':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = token.Token{Type: token.EQ, Lexeme: "==", Literal: "==", Line: startLine, Column: startCol}
		case '>':
			l.readChar()
			tok = token.Token{Type: token.ARROW, Lexeme: "=>", Literal: "=>", Line: startLine, Column: startCol}
		default:
			tok = newToken(token.ILLEGAL, l.ch, startLine, startCol)
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.NOTEQ, Lexeme: "!=", Literal: "!=", Line: startLine, Column: startCol}
		} else {
			tok = newToken(token.ILLEGAL, l.ch, startLine, startCol)
		}
	case '"':
		return l.readString(startLine, startCol)
	case 0:
		tok = token.Token{Type: token.EOF, Lexeme: "", Literal: "", Line: startLine, Column: startCol}
	default:
		if isLetter(l.ch) {
			return l.readIdentifier(startLine, startCol)
		}
		if isDigit(l.ch) {
			return l.readNumber(startLine, startCol)
		}
		tok = newToken(token.ILLEGAL, l.ch, startLine, startCol)
	}

	l.readChar()
	return tok
}

func (l *Lexer) readIdentifier(startLine, startCol int) token.Token {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	lexeme := l.input[start:l.position]
	return token.Token{
		Type:    token.LookupIdent(lexeme),
		Lexeme:  lexeme,
		Literal: lexeme,
		Line:    startLine,
		Column:  startCol,
	}
}

func (l *Lexer) readNumber(startLine, startCol int) token.Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	lexeme := l.input[start:l.position]
	val, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: "malformed number", Line: startLine, Column: startCol}
	}
	return token.Token{Type: token.NUMBER, Lexeme: lexeme, Literal: val, Line: startLine, Column: startCol}
}

func (l *Lexer) readString(startLine, startCol int) token.Token {
	l.readChar() // opening quote
	var out []rune
	for l.ch != '"' {
		if l.ch == 0 || l.ch == '\n' {
			return token.Token{Type: token.ILLEGAL, Lexeme: string(out), Literal: "unterminated string", Line: startLine, Column: startCol}
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '\\':
				out = append(out, '\\')
			case '"':
				out = append(out, '"')
			default:
				return token.Token{Type: token.ILLEGAL, Lexeme: string(out), Literal: "unknown escape", Line: startLine, Column: startCol}
			}
			l.readChar()
			continue
		}
		out = append(out, l.ch)
		l.readChar()
	}
	l.readChar() // closing quote
	s := string(out)
	return token.Token{Type: token.STRING, Lexeme: s, Literal: s, Line: startLine, Column: startCol}
}

func (l *Lexer) skipWhitespace() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		// Comments
		if l.ch == '/' {
			if l.peekChar() == '/' {
				for l.ch != '\n' && l.ch != 0 {
					l.readChar()
				}
				continue
			}
			if l.peekChar() == '*' {
				l.readChar()
				l.readChar()
				for l.ch != 0 {
					if l.ch == '*' && l.peekChar() == '/' {
						l.readChar()
						l.readChar()
						break
					}
					l.readChar()
				}
				continue
			}
		}
		break
	}
}

func newToken(tokenType token.TokenType, ch rune, line, col int) token.Token {
	literal := string(ch)
	return token.Token{Type: tokenType, Lexeme: literal, Literal: literal, Line: line, Column: col}
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

// Tokenize runs the lexer over the whole input, stopping after EOF or the
// first illegal token.
func Tokenize(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF || tok.Type == token.ILLEGAL {
			return toks
		}
	}
}
