package repl

import (
	"bytes"
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/tuplet/lang"
	"github.com/ardnew/tuplet/lang/ast"
	"github.com/ardnew/tuplet/lang/check"
	"github.com/ardnew/tuplet/lang/format"
	"github.com/ardnew/tuplet/lang/parser"
	"github.com/ardnew/tuplet/log"
)

// Kind classifies a submission.
type Kind int

const (
	KindNone Kind = iota
	KindDecl      // top-level function or variable declarations
	KindStmt      // statements appended to the body of main
	KindExpr      // bare expression, printed and discarded
)

func (k Kind) String() string {
	switch k {
	case KindDecl:
		return "decl"
	case KindStmt:
		return "stmt"
	case KindExpr:
		return "expr"
	}

	return "none"
}

// Reply is the result of one submission.
type Reply struct {
	Kind   Kind
	Output string // output not shown by earlier submissions
	Return int    // value returned by main
}

// Session holds the declarations and statements accepted so far. Every
// submission is compiled together with them inside a synthetic main function
// and run from the start; only output beyond what was already shown is
// reported.
type Session struct {
	decls   []string
	stmts   []string
	printed int
	prog    *lang.Program
	logger  log.Logger
	opts    []lang.Option
	extra   []lang.Option
}

// NewSession returns an empty session. The options are passed to every
// compilation and run.
func NewSession(logger log.Logger, opts ...lang.Option) *Session {
	return &Session{
		logger: logger,
		opts:   append([]lang.Option{lang.WithLogger(logger), lang.WithoutCache()}, opts...),
		extra:  opts,
	}
}

// fresh returns an empty session configured like s.
func (s *Session) fresh() *Session { return NewSession(s.logger, s.extra...) }

// Source returns the program formed by the accepted entries in canonical
// form.
func (s *Session) Source() string {
	src := compose(s.decls, s.stmts)

	tree, err := lang.Parse(src)
	if err != nil {
		return src
	}

	var b strings.Builder
	if err := format.Source(context.Background(), &b, tree, format.DefaultIndent); err != nil {
		return src
	}

	return b.String()
}

// Entries returns the accepted declarations followed by the accepted
// statements.
func (s *Session) Entries() []string {
	return slices.Concat(s.decls, s.stmts)
}

// Reset discards every accepted entry.
func (s *Session) Reset() {
	s.decls, s.stmts, s.printed, s.prog = nil, nil, 0, nil
}

// Submit compiles and runs input with the accepted entries. Declarations and
// statements that run without error are accepted; a bare expression is only
// printed.
func (s *Session) Submit(ctx context.Context, input string) (Reply, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Reply{}, nil
	}

	kind := classify(input)

	decls, stmts := s.decls, s.stmts

	switch kind {
	case KindExpr:
		stmts = append(slices.Clone(stmts), `cout << (`+input+`) << "\n";`)
	case KindDecl:
		decls = append(slices.Clone(decls), input)
	default:
		stmts = append(slices.Clone(stmts), input)
	}

	reply, prog, err := s.try(ctx, decls, stmts)
	reply.Kind = kind

	s.logger.TraceContext(ctx, "repl submit",
		slog.String("kind", kind.String()),
		slog.Bool("accepted", err == nil && kind != KindExpr),
	)

	if err != nil || kind == KindExpr {
		return reply, err
	}

	s.decls, s.stmts, s.prog = decls, stmts, prog
	s.printed += len(reply.Output)

	return reply, nil
}

// Load replaces the session with the program src. The body of its main
// function becomes the accepted statements; the remaining declarations are
// accepted as they are. A trailing "return 0;" in main is dropped.
func (s *Session) Load(ctx context.Context, src string) (Reply, error) {
	tree, err := lang.Parse(src)
	if err != nil {
		return Reply{}, err
	}

	var decls, stmts []string

	for _, d := range tree.Decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok || fn.Name != check.EntryPoint || len(fn.Params) != 0 {
			decls = append(decls, formatStmt(ctx, d))

			continue
		}

		body := fn.Body.Stmts
		if n := len(body); n > 0 && isReturnZero(body[n-1]) {
			body = body[:n-1]
		}

		for _, st := range body {
			stmts = append(stmts, formatStmt(ctx, st))
		}
	}

	printed := s.printed
	s.printed = 0

	reply, prog, err := s.try(ctx, decls, stmts)
	if err != nil {
		s.printed = printed

		return reply, err
	}

	s.Reset()
	s.decls, s.stmts, s.prog = decls, stmts, prog
	s.printed = len(reply.Output)

	return reply, nil
}

// Names returns the functions and variables declared by accepted entries.
func (s *Session) Names() []string {
	if s.prog == nil {
		return nil
	}

	var names []string

	ast.Inspect(s.prog.AST, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FuncDecl:
			if n.Name != check.EntryPoint {
				names = append(names, n.Name)
			}
		case *ast.VarSpec:
			names = append(names, n.Name)
		case *ast.Param:
			names = append(names, n.Name)
		}

		return true
	})

	slices.Sort(names)

	return slices.Compact(names)
}

// Func returns the accepted function declared with name.
func (s *Session) Func(name string) (*ast.FuncDecl, bool) {
	if s.prog == nil {
		return nil, false
	}

	var found *ast.FuncDecl

	ast.Inspect(s.prog.AST, func(n ast.Node) bool {
		if fn, ok := n.(*ast.FuncDecl); ok && fn.Name == name && found == nil {
			found = fn
		}

		return found == nil
	})

	return found, found != nil
}

func (s *Session) try(ctx context.Context, decls, stmts []string) (Reply, *lang.Program, error) {
	prog, err := lang.Compile(ctx, compose(decls, stmts), s.opts...)
	if err != nil {
		return Reply{}, nil, err
	}

	var buf bytes.Buffer

	res, err := prog.Run(ctx, &buf, s.opts...)

	reply := Reply{Return: res.Return}
	if out := buf.String(); len(out) > s.printed {
		reply.Output = out[s.printed:]
	}

	return reply, prog, err
}

// classify decides how input joins the session.
func classify(input string) Kind {
	if !strings.HasSuffix(input, ";") && !strings.HasSuffix(input, "}") {
		if _, err := parser.ParseExpr(input); err == nil {
			return KindExpr
		}
	}

	tree, err := parser.ParseString(input)
	if err != nil || len(tree.Decls) == 0 {
		return KindStmt
	}

	for _, d := range tree.Decls {
		switch d.(type) {
		case *ast.FuncDecl, *ast.VarDecl:
		default:
			return KindStmt
		}
	}

	return KindDecl
}

func compose(decls, stmts []string) string {
	var b strings.Builder

	for _, d := range decls {
		b.WriteString(d)
		b.WriteByte('\n')
	}

	b.WriteString("int " + check.EntryPoint + "() {\n")

	for _, st := range stmts {
		b.WriteString(st)
		b.WriteByte('\n')
	}

	b.WriteString("return 0;\n}\n")

	return b.String()
}

func formatStmt(ctx context.Context, s ast.Stmt) string {
	var b strings.Builder

	_ = format.Source(ctx, &b, &ast.Program{Decls: []ast.Stmt{s}}, format.DefaultIndent)

	return strings.TrimRight(b.String(), "\n")
}

func isReturnZero(s ast.Stmt) bool {
	ret, ok := s.(*ast.Return)
	if !ok {
		return false
	}

	lit, ok := ret.Value.(*ast.IntLit)

	return ok && lit.Value == 0
}
