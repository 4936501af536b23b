// Package token defines the lexical vocabulary of tuplet programs.
package token

import (
	"fmt"
	"log/slog"
)

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	Illegal Kind = iota
	EOF

	Ident
	Int
	String

	// Operators.
	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Eq         // ==
	NotEq      // !=
	Less       // <
	LessEq     // <=
	Greater    // >
	GreaterEq  // >=
	AndAnd     // &&
	OrOr       // ||
	Not        // !
	Assign     // =
	PlusEq     // +=
	MinusEq    // -=
	StarEq     // *=
	SlashEq    // /=
	PercentEq  // %=
	AndAndEq   // &&=
	OrOrEq     // ||=
	Inc        // ++
	Dec        // --
	Arrow      // ->
	Shl        // <<
	Amp        // &
	LBrace     // {
	RBrace     // }
	LParen     // (
	RParen     // )
	Comma      // ,
	Semicolon  // ;

	keywordBegin
	KwInt       // int
	KwBool      // bool
	KwString    // string
	KwVoid      // void
	KwList      // list
	KwTuple     // tuple
	KwIf        // if
	KwElse      // else
	KwWhile     // while
	KwFor       // for
	KwReturn    // return
	KwBreak     // break
	KwContinue  // continue
	KwTrue      // true
	KwFalse     // false
	KwCout      // cout
	KwMakeTuple // make_tuple
	KwTie       // tie
	KwGet       // get
	keywordEnd
)

var names = [...]string{
	Illegal: "illegal",
	EOF:     "end of file",
	Ident:   "identifier",
	Int:     "integer",
	String:  "string literal",

	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Percent:   "%",
	Eq:        "==",
	NotEq:     "!=",
	Less:      "<",
	LessEq:    "<=",
	Greater:   ">",
	GreaterEq: ">=",
	AndAnd:    "&&",
	OrOr:      "||",
	Not:       "!",
	Assign:    "=",
	PlusEq:    "+=",
	MinusEq:   "-=",
	StarEq:    "*=",
	SlashEq:   "/=",
	PercentEq: "%=",
	AndAndEq:  "&&=",
	OrOrEq:    "||=",
	Inc:       "++",
	Dec:       "--",
	Arrow:     "->",
	Shl:       "<<",
	Amp:       "&",
	LBrace:    "{",
	RBrace:    "}",
	LParen:    "(",
	RParen:    ")",
	Comma:     ",",
	Semicolon: ";",

	KwInt:       "int",
	KwBool:      "bool",
	KwString:    "string",
	KwVoid:      "void",
	KwList:      "list",
	KwTuple:     "tuple",
	KwIf:        "if",
	KwElse:      "else",
	KwWhile:     "while",
	KwFor:       "for",
	KwReturn:    "return",
	KwBreak:     "break",
	KwContinue:  "continue",
	KwTrue:      "true",
	KwFalse:     "false",
	KwCout:      "cout",
	KwMakeTuple: "make_tuple",
	KwTie:       "tie",
	KwGet:       "get",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(names) && names[k] != "" {
		return names[k]
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k > keywordBegin && k < keywordEnd }

// keywords maps reserved words to their kinds.
var keywords = func() map[string]Kind {
	m := make(map[string]Kind, keywordEnd-keywordBegin)
	for k := keywordBegin + 1; k < keywordEnd; k++ {
		m[names[k]] = k
	}

	return m
}()

// Lookup returns the keyword kind of ident, or [Ident] if it is not reserved.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}

	return Ident
}

// Keywords returns every reserved word in declaration order.
func Keywords() []string {
	out := make([]string, 0, keywordEnd-keywordBegin-1)
	for k := keywordBegin + 1; k < keywordEnd; k++ {
		out = append(out, names[k])
	}

	return out
}

// Position is a location in source text. Line and Column are 1-based; a zero
// Line means the position is unknown.
type Position struct {
	Offset int
	Line   int
	Column int
}

// IsValid reports whether p refers to a real source location.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}

	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// LogValue implements [slog.LogValuer].
func (p Position) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
	)
}

// Token is a single lexical unit.
type Token struct {
	Kind Kind
	Text string // literal source text; unquoted contents for String
	Pos  Position
}

func (t Token) String() string {
	switch t.Kind {
	case Ident, Int:
		return t.Text
	case String:
		return fmt.Sprintf("%q", t.Text)
	default:
		return t.Kind.String()
	}
}

// CompoundOp returns the binary operator applied by a compound assignment
// kind, and false if k is not a compound assignment.
func CompoundOp(k Kind) (Kind, bool) {
	switch k {
	case PlusEq:
		return Plus, true
	case MinusEq:
		return Minus, true
	case StarEq:
		return Star, true
	case SlashEq:
		return Slash, true
	case PercentEq:
		return Percent, true
	case AndAndEq:
		return AndAnd, true
	case OrOrEq:
		return OrOr, true
	}

	return Illegal, false
}
