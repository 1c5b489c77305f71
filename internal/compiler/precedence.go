package compiler

import "github.com/skyfish4tb/wisp/internal/token"

// Precedence is a total order over binding power. Expressions are parsed by
// repeatedly consuming infix operators whose precedence is at least the
// level requested by the caller (precedence climbing / Pratt parsing).
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

// rule records, per token kind, whether it has a prefix parse rule, whether
// it has an infix parse rule, and the precedence of its infix use. The
// actual parsing logic lives in a single prefix/infix dispatch (see
// expressions.go): this table is intentionally data-only, per the
// dispatch-table design note this front end follows — a match on token
// kind optimizes better than a table of function values and keeps this
// table free of behavior.
type rule struct {
	hasPrefix  bool
	hasInfix   bool
	precedence Precedence
}

var rules = map[token.Kind]rule{
	token.LEFTPAREN:    {hasPrefix: true, hasInfix: true, precedence: PrecCall},
	token.MINUS:        {hasPrefix: true, hasInfix: true, precedence: PrecTerm},
	token.PLUS:         {hasInfix: true, precedence: PrecTerm},
	token.SLASH:        {hasInfix: true, precedence: PrecFactor},
	token.STAR:         {hasInfix: true, precedence: PrecFactor},
	token.BANG:         {hasPrefix: true},
	token.BANGEQUAL:    {hasInfix: true, precedence: PrecEquality},
	token.EQUALEQUAL:   {hasInfix: true, precedence: PrecEquality},
	token.GREATER:      {hasInfix: true, precedence: PrecComparison},
	token.GREATEREQUAL: {hasInfix: true, precedence: PrecComparison},
	token.LESS:         {hasInfix: true, precedence: PrecComparison},
	token.LESSEQUAL:    {hasInfix: true, precedence: PrecComparison},
	token.IDENT:        {hasPrefix: true},
	token.STRING:       {hasPrefix: true},
	token.NUMBER:       {hasPrefix: true},
	token.INTEGER:      {hasPrefix: true},
	token.HEXADECIMAL:  {hasPrefix: true},
	token.AND:          {hasInfix: true, precedence: PrecAnd},
	token.FALSE:        {hasPrefix: true},
	token.NULL:         {hasPrefix: true},
	token.TRUE:         {hasPrefix: true},
	token.FUN:          {hasPrefix: true},
	token.OR:           {hasInfix: true, precedence: PrecOr},
}

func ruleFor(k token.Kind) rule { return rules[k] }
