package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/tuplet/lang/check"
)

type builtinSignature struct {
	signature string
	params    []string
}

// builtinSignatures describes the calls with built-in syntax.
var builtinSignatures = map[string]builtinSignature{
	"make_tuple": {"make_tuple(a, b, ...more)", []string{"a", "b", "...more"}},
	"tie":        {"tie(a, b, ...more)", []string{"a", "b", "...more"}},
	"get":        {"get<N>(t)", []string{"t"}},
}

// methodSignatures describes the container operations.
var methodSignatures = map[string]builtinSignature{
	check.OpPushBack:  {"push_back(v)", []string{"v"}},
	check.OpPushFront: {"push_front(v)", []string{"v"}},
	check.OpPopBack:   {"pop_back()", nil},
	check.OpPopFront:  {"pop_front()", nil},
	check.OpFront:     {"front()", nil},
	check.OpBack:      {"back()", nil},
	check.OpEmpty:     {"empty()", nil},
}

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall is the call whose argument list contains the cursor.
type functionCall struct {
	name     string
	method   bool // name follows "->"
	argIndex int  // 0-based
	inCall   bool
}

// detectFunctionCall finds the innermost unclosed call before cursor.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	open := -1
	depth := 0

scan:
	for i := cursor - 1; i >= 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i

				break scan
			}

			depth--
		}
	}

	if open == -1 {
		return functionCall{}
	}

	nameEnd := open

	// get<N>(
	if nameEnd > 0 && input[nameEnd-1] == '>' {
		if lt := strings.LastIndexByte(input[:nameEnd], '<'); lt >= 0 {
			nameEnd = lt
		}
	}

	nameStart := nameEnd

	for nameStart > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:nameStart])
		if !isWordRune(r) {
			break
		}

		nameStart -= size
	}

	name := input[nameStart:nameEnd]
	if name == "" {
		return functionCall{}
	}

	argIndex := 0
	depth = 0

	for i := open + 1; i < cursor; i++ {
		switch input[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{
		name:     name,
		method:   strings.HasSuffix(input[:nameStart], "->"),
		argIndex: argIndex,
		inCall:   true,
	}
}

// getSignature returns the signature of the called function and the names
// of its parameters, or "" if the function is unknown.
func getSignature(s *Session, call functionCall) (signature string, params []string) {
	if call.method {
		sig, ok := methodSignatures[call.name]
		if !ok {
			return "", nil
		}

		return sig.signature, sig.params
	}

	if sig, ok := builtinSignatures[call.name]; ok {
		return sig.signature, sig.params
	}

	if s == nil {
		return "", nil
	}

	fn, ok := s.Func(call.name)
	if !ok {
		return "", nil
	}

	params = make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Type.String() + " "
		if p.Ref {
			params[i] += "&"
		}

		params[i] += p.Name
	}

	return fn.Result.String() + " " + fn.Name + "(" + strings.Join(params, ", ") + ")", params
}

// renderSignatureHint renders signature with the parameter at argIndex
// highlighted. A variadic parameter stays highlighted past its position.
func renderSignatureHint(signature string, params []string, argIndex int) string {
	open := strings.Index(signature, "(")
	if open == -1 {
		return signatureStyle.Render(signature)
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(signature[:open]))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")

		if argIndex == i || (variadic && argIndex > i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
