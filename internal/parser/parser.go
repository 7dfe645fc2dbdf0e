// Package parser builds the AST from a token stream. It is a plain
// recursive-descent parser; precedence lives in the grammar, not in a table.
package parser

import (
	"github.com/lazuli-lang/lazuli/internal/ast"
	"github.com/lazuli-lang/lazuli/internal/diagnostics"
	"github.com/lazuli-lang/lazuli/internal/token"
)

type Parser struct {
	tokens []token.Token
	pos    int
}

func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes the whole stream as one statement.
func (p *Parser) Parse() (*ast.Statement, error) {
	stmt, err := p.parseStatement(token.EOF)
	if err != nil {
		return nil, err
	}
	if p.cur().Type != token.EOF {
		return nil, p.errorf("unexpected %q after expression", p.cur().Lexeme)
	}
	return stmt, nil
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() token.Token {
	tok := p.cur()
	p.pos++
	return tok
}

func (p *Parser) expect(t token.TokenType) (token.Token, error) {
	if p.cur().Type != t {
		return token.Token{}, p.errorf("expected %q, got %q", string(t), p.cur().Lexeme)
	}
	return p.advance(), nil
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	tok := p.cur()
	return diagnostics.NewError(diagnostics.ErrP001, tok.Line, tok.Column, format, args...)
}

// parseStatement reads `name: expr, ...` definitions followed by a trailing
// expression, up to (not consuming) the terminator.
func (p *Parser) parseStatement(terminator token.TokenType) (*ast.Statement, error) {
	stmt := &ast.Statement{}
	for p.cur().Type == token.IDENT && p.peek().Type == token.COLON {
		nameTok := p.advance()
		p.advance() // colon
		body, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Definitions = append(stmt.Definitions, ast.Definition{
			Name: nameTok.Lexeme,
			Tok:  nameTok,
			Body: body,
		})
		if _, err := p.expect(token.COMMA); err != nil {
			return nil, err
		}
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	if p.cur().Type != terminator {
		return nil, p.errorf("expected %q, got %q", string(terminator), p.cur().Lexeme)
	}
	return stmt, nil
}

func (p *Parser) parseExpression() (ast.Expression, error) {
	if p.cur().Type == token.IF {
		p.advance()
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.THEN); err != nil {
			return nil, err
		}
		cons, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.ELSE); err != nil {
			return nil, err
		}
		alt, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.If{Cond: cond, Cons: cons, Alt: alt}, nil
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() (*ast.Comparison, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	comp := &ast.Comparison{Left: *left}
	for p.cur().Type == token.EQ || p.cur().Type == token.NOTEQ {
		op := ast.CompEqual
		if p.advance().Type == token.NOTEQ {
			op = ast.CompNotEqual
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		comp.Rights = append(comp.Rights, ast.ComparisonRight{Op: op, Value: *right})
	}
	return comp, nil
}

func (p *Parser) parseAdditive() (*ast.Additive, error) {
	left, err := p.parseMultitive()
	if err != nil {
		return nil, err
	}
	add := &ast.Additive{Left: *left}
	for p.cur().Type == token.PLUS || p.cur().Type == token.MINUS {
		op := ast.AddAdd
		if p.advance().Type == token.MINUS {
			op = ast.AddSub
		}
		right, err := p.parseMultitive()
		if err != nil {
			return nil, err
		}
		add.Rights = append(add.Rights, ast.AdditiveRight{Op: op, Value: *right})
	}
	return add, nil
}

func (p *Parser) parseMultitive() (*ast.Multitive, error) {
	left, err := p.parseOperation()
	if err != nil {
		return nil, err
	}
	mul := &ast.Multitive{Left: *left}
	for {
		var op ast.MulOp
		switch p.cur().Type {
		case token.STAR:
			op = ast.MulMul
		case token.SLASH:
			op = ast.MulDiv
		case token.PERCENT:
			op = ast.MulSurplus
		default:
			return mul, nil
		}
		p.advance()
		right, err := p.parseOperation()
		if err != nil {
			return nil, err
		}
		mul.Rights = append(mul.Rights, ast.MultitiveRight{Op: op, Value: *right})
	}
}

func (p *Parser) parseOperation() (*ast.Operation, error) {
	primary, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	op := &ast.Operation{Left: primary}
	for {
		switch p.cur().Type {
		case token.DOT:
			p.advance()
			nameTok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			op.Rights = append(op.Rights, &ast.Access{Name: nameTok.Lexeme, Tok: nameTok})
		case token.LPAREN:
			p.advance()
			call := &ast.Call{}
			for p.cur().Type != token.RPAREN {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, arg)
				if p.cur().Type != token.COMMA {
					break
				}
				p.advance()
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			op.Rights = append(op.Rights, call)
		case token.LBRACKET:
			p.advance()
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			op.Rights = append(op.Rights, &ast.Index{Arg: arg})
		default:
			return op, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Primary, error) {
	switch p.cur().Type {
	case token.NUMBER:
		tok := p.advance()
		return &ast.Number{Value: tok.Literal.(float64)}, nil
	case token.MINUS:
		if p.peek().Type == token.NUMBER {
			p.advance()
			tok := p.advance()
			return &ast.Number{Value: -tok.Literal.(float64)}, nil
		}
		return nil, p.errorf("unexpected %q", p.cur().Lexeme)
	case token.STRING:
		tok := p.advance()
		return &ast.String{Value: tok.Literal.(string)}, nil
	case token.IDENT:
		tok := p.advance()
		return &ast.Variable{Name: tok.Lexeme, Tok: tok}, nil
	case token.LPAREN:
		if p.aheadIsFunction() {
			return p.parseFunction()
		}
		p.advance()
		stmt, err := p.parseStatement(token.RPAREN)
		if err != nil {
			return nil, err
		}
		p.advance() // closing paren
		return &ast.Block{Statement: stmt}, nil
	case token.LBRACE:
		return p.parseStruct()
	case token.LBRACKET:
		return p.parseArray()
	default:
		return nil, p.errorf("unexpected %q", p.cur().Lexeme)
	}
}

// aheadIsFunction distinguishes `(a, b) => e` from a parenthesized block by
// scanning the parameter list without consuming anything.
func (p *Parser) aheadIsFunction() bool {
	i := p.pos + 1
	at := func(j int) token.TokenType {
		if j >= len(p.tokens) {
			return token.EOF
		}
		return p.tokens[j].Type
	}
	for at(i) == token.IDENT {
		i++
		if at(i) != token.COMMA {
			break
		}
		i++
	}
	return at(i) == token.RPAREN && at(i+1) == token.ARROW
}

func (p *Parser) parseFunction() (ast.Primary, error) {
	start := p.advance() // opening paren
	fn := &ast.Function{Tok: start}
	seen := make(map[string]bool)
	for p.cur().Type == token.IDENT {
		name := p.advance().Lexeme
		if seen[name] {
			// Report here rather than at compile time: the emitter would
			// otherwise silently shadow the first parameter.
			return nil, diagnostics.NewError(diagnostics.ErrC002, start.Line, start.Column,
				"duplicate parameter %q", name)
		}
		seen[name] = true
		fn.Params = append(fn.Params, name)
		if p.cur().Type != token.COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ARROW); err != nil {
		return nil, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

func (p *Parser) parseStruct() (ast.Primary, error) {
	p.advance() // opening brace
	st := &ast.Struct{}
	for p.cur().Type != token.RBRACE {
		var nameTok token.Token
		switch p.cur().Type {
		case token.IDENT, token.STRING:
			nameTok = p.advance()
		default:
			return nil, p.errorf("expected field name, got %q", p.cur().Lexeme)
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		body, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		st.Definitions = append(st.Definitions, ast.Definition{
			Name: nameTok.Lexeme,
			Tok:  nameTok,
			Body: body,
		})
		if p.cur().Type != token.COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return st, nil
}

func (p *Parser) parseArray() (ast.Primary, error) {
	p.advance() // opening bracket
	arr := &ast.Array{}
	for p.cur().Type != token.RBRACKET {
		item, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, item)
		if p.cur().Type != token.COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return arr, nil
}
