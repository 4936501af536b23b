package value

import (
	"io"
	"strconv"
	"strings"
)

// Format renders v in its output form: integers in decimal, booleans as
// true or false, strings verbatim, lists as [a, b] and tuples as (a, b).
func Format(v Value) string {
	var b strings.Builder

	_, _ = Fprint(&b, v)

	return b.String()
}

// Fprint writes the output form of v to w.
func Fprint(w io.Writer, v Value) (int, error) {
	var buf []byte

	buf = appendValue(buf, v)

	return w.Write(buf)
}

func appendValue(buf []byte, v Value) []byte {
	switch v := v.(type) {
	case Int:
		return strconv.AppendInt(buf, int64(v), 10)

	case Bool:
		return strconv.AppendBool(buf, bool(v))

	case String:
		return append(buf, v...)

	case Tuple:
		return appendSeq(buf, '(', ')', v)

	case *List:
		return appendSeq(buf, '[', ']', v.All())
	}

	return append(buf, "<nil>"...)
}

func appendSeq(buf []byte, open, closing byte, elems []Value) []byte {
	buf = append(buf, open)

	for i, e := range elems {
		if i > 0 {
			buf = append(buf, ", "...)
		}

		buf = appendValue(buf, e)
	}

	return append(buf, closing)
}
