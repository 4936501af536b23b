// Package lexer converts tuplet source text into a token stream.
package lexer

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/tuplet/lang/diag"
	"github.com/ardnew/tuplet/lang/token"
)

// Tokenize scans src and returns its tokens terminated by a single
// [token.EOF]. The first malformed lexeme stops scanning with a
// [diag.ErrLex] error.
func Tokenize(src string) ([]token.Token, error) {
	lx := lexer{src: src, line: 1, col: 1}

	var toks []token.Token

	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)

		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func (lx *lexer) position() token.Position {
	return token.Position{Offset: lx.off, Line: lx.line, Column: lx.col}
}

// peek returns the rune n runes ahead of the cursor, or -1 at end of input.
func (lx *lexer) peek(n int) rune {
	off := lx.off
	for ; n > 0 && off < len(lx.src); n-- {
		_, size := utf8.DecodeRuneInString(lx.src[off:])
		off += size
	}

	if off >= len(lx.src) {
		return -1
	}

	r, _ := utf8.DecodeRuneInString(lx.src[off:])

	return r
}

func (lx *lexer) advance() rune {
	if lx.off >= len(lx.src) {
		return -1
	}

	r, size := utf8.DecodeRuneInString(lx.src[lx.off:])
	lx.off += size

	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}

	return r
}

func (lx *lexer) skipWhitespaceAndComments() error {
	for {
		switch r := lx.peek(0); {
		case r == -1:
			return nil

		case unicode.IsSpace(r):
			lx.advance()

		case r == '/' && lx.peek(1) == '/':
			for r := lx.peek(0); r != -1 && r != '\n'; r = lx.peek(0) {
				lx.advance()
			}

		case r == '/' && lx.peek(1) == '*':
			start := lx.position()

			lx.advance()
			lx.advance()

			for {
				if lx.peek(0) == -1 {
					return diag.ErrLex.At(start).Errorf("unterminated block comment")
				}

				if lx.peek(0) == '*' && lx.peek(1) == '/' {
					lx.advance()
					lx.advance()

					break
				}

				lx.advance()
			}

		default:
			return nil
		}
	}
}

// operators lists punctuation longest first so the first prefix match wins.
var operators = []struct {
	text string
	kind token.Kind
}{
	{"&&=", token.AndAndEq},
	{"||=", token.OrOrEq},
	{"==", token.Eq},
	{"!=", token.NotEq},
	{"<=", token.LessEq},
	{">=", token.GreaterEq},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"+=", token.PlusEq},
	{"-=", token.MinusEq},
	{"*=", token.StarEq},
	{"/=", token.SlashEq},
	{"%=", token.PercentEq},
	{"++", token.Inc},
	{"--", token.Dec},
	{"->", token.Arrow},
	{"<<", token.Shl},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Star},
	{"/", token.Slash},
	{"%", token.Percent},
	{"<", token.Less},
	{">", token.Greater},
	{"!", token.Not},
	{"=", token.Assign},
	{"&", token.Amp},
	{"{", token.LBrace},
	{"}", token.RBrace},
	{"(", token.LParen},
	{")", token.RParen},
	{",", token.Comma},
	{";", token.Semicolon},
}

func (lx *lexer) next() (token.Token, error) {
	err := lx.skipWhitespaceAndComments()
	if err != nil {
		return token.Token{}, err
	}

	pos := lx.position()
	r := lx.peek(0)

	switch {
	case r == -1:
		return token.Token{Kind: token.EOF, Pos: pos}, nil

	case isIdentStart(r):
		start := lx.off
		for isIdentPart(lx.peek(0)) {
			lx.advance()
		}

		text := lx.src[start:lx.off]

		return token.Token{Kind: token.Lookup(text), Text: text, Pos: pos}, nil

	case r >= '0' && r <= '9':
		start := lx.off
		for c := lx.peek(0); c >= '0' && c <= '9'; c = lx.peek(0) {
			lx.advance()
		}

		text := lx.src[start:lx.off]

		if isIdentStart(lx.peek(0)) {
			return token.Token{}, diag.ErrLex.At(pos).
				With(slog.String("literal", text)).
				Errorf("malformed integer literal %q", text+string(lx.peek(0)))
		}

		_, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return token.Token{}, diag.ErrLex.At(pos).
				Errorf("integer literal %s out of range", text)
		}

		return token.Token{Kind: token.Int, Text: text, Pos: pos}, nil

	case r == '"':
		return lx.scanString(pos)
	}

	rest := lx.src[lx.off:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op.text) {
			for range op.text {
				lx.advance()
			}

			return token.Token{Kind: op.kind, Text: op.text, Pos: pos}, nil
		}
	}

	return token.Token{}, diag.ErrLex.At(pos).
		With(slog.String("char", string(r))).
		Errorf("unrecognized character %q", r)
}

func (lx *lexer) scanString(pos token.Position) (token.Token, error) {
	start := lx.off

	lx.advance() // opening quote

	for {
		switch lx.peek(0) {
		case -1, '\n':
			return token.Token{}, diag.ErrLex.At(pos).Errorf("unterminated string literal")

		case '\\':
			lx.advance()

			if lx.peek(0) == -1 {
				return token.Token{}, diag.ErrLex.At(pos).Errorf("unterminated string literal")
			}

			lx.advance()

		case '"':
			lx.advance()

			raw := lx.src[start:lx.off]

			text, err := strconv.Unquote(raw)
			if err != nil {
				return token.Token{}, diag.ErrLex.At(pos).
					Wrap(err).
					Errorf("invalid string literal %s", raw)
			}

			return token.Token{Kind: token.String, Text: text, Pos: pos}, nil

		default:
			lx.advance()
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || ('0' <= r && r <= '9')
}
