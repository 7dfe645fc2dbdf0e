package token

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	NUMBER = "NUMBER"
	STRING = "STRING"
	IDENT  = "IDENT"

	COLON    = ":"
	COMMA    = ","
	DOT      = "."
	LPAREN   = "("
	RPAREN   = ")"
	LBRACE   = "{"
	RBRACE   = "}"
	LBRACKET = "["
	RBRACKET = "]"

	PLUS    = "+"
	MINUS   = "-"
	STAR    = "*"
	SLASH   = "/"
	PERCENT = "%"

	EQ    = "=="
	NOTEQ = "!="
	ARROW = "=>"

	IF   = "IF"
	THEN = "THEN"
	ELSE = "ELSE"
)

// Token is a single lexeme with its source position.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{} // float64 for NUMBER, decoded string for STRING
	Line    int
	Column  int
}

var keywords = map[string]TokenType{
	"if":   IF,
	"then": THEN,
	"else": ELSE,
}

// LookupIdent returns the keyword type for an identifier, or IDENT.
func LookupIdent(ident string) TokenType {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}
