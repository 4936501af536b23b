package repl

import (
	"slices"
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantMethod bool
		wantInCall bool
	}{
		{
			name:   "no function call",
			input:  "x + 1",
			cursor: 5,
		},
		{
			name:       "first arg",
			input:      "sq(",
			cursor:     3,
			wantName:   "sq",
			wantInCall: true,
		},
		{
			name:       "second arg",
			input:      "add(1, ",
			cursor:     7,
			wantName:   "add",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "container operation",
			input:      "l->push_back(",
			cursor:     13,
			wantName:   "push_back",
			wantMethod: true,
			wantInCall: true,
		},
		{
			name:       "get with index",
			input:      "get<1>(",
			cursor:     7,
			wantName:   "get",
			wantInCall: true,
		},
		{
			name:       "nested call closed",
			input:      "make_tuple(sq(2), ",
			cursor:     18,
			wantName:   "make_tuple",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "commas inside nested call",
			input:      "sq(make_tuple(1, 2)",
			cursor:     19,
			wantName:   "sq",
			wantInCall: true,
		},
		{
			name:       "cursor inside nested call",
			input:      "add(sq(2), 4)",
			cursor:     7,
			wantName:   "sq",
			wantInCall: true,
		},
		{
			name:   "call already closed",
			input:  "sq(1)",
			cursor: 5,
		},
		{
			name:   "parenthesized expression",
			input:  "(1 + ",
			cursor: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)

			if got.name != tt.wantName {
				t.Errorf("name = %q, want %q", got.name, tt.wantName)
			}

			if got.argIndex != tt.wantIndex {
				t.Errorf("argIndex = %d, want %d", got.argIndex, tt.wantIndex)
			}

			if got.method != tt.wantMethod {
				t.Errorf("method = %t, want %t", got.method, tt.wantMethod)
			}

			if got.inCall != tt.wantInCall {
				t.Errorf("inCall = %t, want %t", got.inCall, tt.wantInCall)
			}
		})
	}
}

func TestGetSignature(t *testing.T) {
	session := testSession(t)
	submit(t, session, "int sq(int n) { return n * n; }")
	submit(t, session, "void inc(int &x, list<int> log) { x++; }")

	tests := []struct {
		name          string
		call          functionCall
		wantSignature string
		wantParams    []string
	}{
		{
			name:          "session function",
			call:          functionCall{name: "sq"},
			wantSignature: "int sq(int n)",
			wantParams:    []string{"int n"},
		},
		{
			name:          "reference parameter",
			call:          functionCall{name: "inc"},
			wantSignature: "void inc(int &x, list<int> log)",
			wantParams:    []string{"int &x", "list<int> log"},
		},
		{
			name:          "builtin make_tuple",
			call:          functionCall{name: "make_tuple"},
			wantSignature: "make_tuple(a, b, ...more)",
			wantParams:    []string{"a", "b", "...more"},
		},
		{
			name:          "builtin get",
			call:          functionCall{name: "get"},
			wantSignature: "get<N>(t)",
			wantParams:    []string{"t"},
		},
		{
			name:          "container operation",
			call:          functionCall{name: "push_front", method: true},
			wantSignature: "push_front(v)",
			wantParams:    []string{"v"},
		},
		{
			name:          "operation without arguments",
			call:          functionCall{name: "empty", method: true},
			wantSignature: "empty()",
		},
		{
			name: "unknown operation",
			call: functionCall{name: "sq", method: true},
		},
		{
			name: "nonexistent function",
			call: functionCall{name: "doesnotexist"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSig, gotParams := getSignature(session, tt.call)

			if gotSig != tt.wantSignature {
				t.Errorf("getSignature().signature = %q, want %q", gotSig, tt.wantSignature)
			}

			if !slices.Equal(gotParams, tt.wantParams) {
				t.Errorf("getSignature().params = %q, want %q", gotParams, tt.wantParams)
			}
		})
	}

	if sig, _ := getSignature(nil, functionCall{name: "sq"}); sig != "" {
		t.Errorf("getSignature(nil session) = %q, want empty", sig)
	}
}

func TestRenderSignatureHint(t *testing.T) {
	tests := []struct {
		name       string
		signature  string
		params     []string
		currentArg int
	}{
		{"no params", "front()", nil, 0},
		{"first param highlighted", "int add(int a, int b)", []string{"int a", "int b"}, 0},
		{"second param highlighted", "int add(int a, int b)", []string{"int a", "int b"}, 1},
		{"variadic past its position", "make_tuple(a, b, ...more)", []string{"a", "b", "...more"}, 4},
		{"no parenthesis", "get", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderSignatureHint(tt.signature, tt.params, tt.currentArg)

			// Styling depends on the terminal, so only the text is checked.
			for _, p := range tt.params {
				if !strings.Contains(got, p) {
					t.Errorf("renderSignatureHint() = %q, missing parameter %q", got, p)
				}
			}

			if got == "" {
				t.Errorf("renderSignatureHint() returned empty string for signature %q", tt.signature)
			}
		})
	}
}
