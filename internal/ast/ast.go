// Package ast defines the syntax tree shared by the compiler and the
// tree-walking evaluator. Operator precedence is structural: a Statement
// holds definitions and a trailing Expression, expressions descend through
// Comparison, Additive, Multitive and Operation down to Primary.
package ast

import "github.com/lazuli-lang/lazuli/internal/token"

// Statement is a block body: zero or more named definitions followed by the
// expression the block evaluates to.
type Statement struct {
	Definitions []Definition
	Body        Expression
}

// Definition is one lazily-bound name in a block or struct.
type Definition struct {
	Name string
	Tok  token.Token
	Body Expression
}

// Expression is either a Comparison chain or a conditional.
type Expression interface {
	exprNode()
}

type If struct {
	Cond Expression
	Cons Expression
	Alt  Expression
}

func (*If) exprNode()         {}
func (*Comparison) exprNode() {}

type CompOp string

const (
	CompEqual    CompOp = "=="
	CompNotEqual CompOp = "!="
)

type Comparison struct {
	Left   Additive
	Rights []ComparisonRight
}

type ComparisonRight struct {
	Op    CompOp
	Value Additive
}

type AddOp string

const (
	AddAdd AddOp = "+"
	AddSub AddOp = "-"
)

type Additive struct {
	Left   Multitive
	Rights []AdditiveRight
}

type AdditiveRight struct {
	Op    AddOp
	Value Multitive
}

type MulOp string

const (
	MulMul     MulOp = "*"
	MulDiv     MulOp = "/"
	MulSurplus MulOp = "%"
)

type Multitive struct {
	Left   Operation
	Rights []MultitiveRight
}

type MultitiveRight struct {
	Op    MulOp
	Value Operation
}

// Operation is a primary with its postfix chain: property access, calls and
// indexing, applied left to right.
type Operation struct {
	Left   Primary
	Rights []Postfix
}

type Postfix interface {
	postfixNode()
}

type Access struct {
	Name string
	Tok  token.Token
}

type Call struct {
	Args []Expression
}

type Index struct {
	Arg Expression
}

func (*Access) postfixNode() {}
func (*Call) postfixNode()   {}
func (*Index) postfixNode()  {}

// Primary is a leaf or bracketed form.
type Primary interface {
	primaryNode()
}

type Number struct {
	Value float64
}

type String struct {
	Value string
}

type Variable struct {
	Name string
	Tok  token.Token
}

// Block is a parenthesized statement: `(x: 1, x + 1)`.
type Block struct {
	Statement *Statement
}

// Function is a closure literal: `(a, b) => body`.
type Function struct {
	Params []string
	Tok    token.Token
	Body   Expression
}

// Struct is a brace literal of lazily-bound fields: `{ a: 1, "b": 2 }`.
type Struct struct {
	Definitions []Definition
}

// Array is a bracket literal; elements are call-by-need thunks.
type Array struct {
	Items []Expression
}

func (*Number) primaryNode()   {}
func (*String) primaryNode()   {}
func (*Variable) primaryNode() {}
func (*Block) primaryNode()    {}
func (*Function) primaryNode() {}
func (*Struct) primaryNode()   {}
func (*Array) primaryNode()    {}

// Comp wraps a bare primary into the Expression shape, for synthesized nodes.
func Comp(p Primary) *Comparison {
	return &Comparison{Left: Additive{Left: Multitive{Left: Operation{Left: p}}}}
}
