package format_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tuplet/lang/format"
	"github.com/ardnew/tuplet/lang/parser"
)

func source(t *testing.T, src string, indent int) string {
	t.Helper()

	prog, err := parser.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	var buf bytes.Buffer
	if err := format.Source(t.Context(), &buf, prog, indent); err != nil {
		t.Fatalf("Source() error = %v", err)
	}

	return buf.String()
}

func TestSource(t *testing.T) {
	src := `int g=1,h;
void p(int &a,list<int> l){a++;l->push_back(a);}
int main(){
for(int i=0;i<3;i+=1)cout<<i;
while(false){}
if(g>0)g--;else{g=0;}
if(true){}else if(false){;}
tie(g,h)=make_tuple(1,2);
return 0;}`

	want := `int g = 1, h;

void p(int &a, list<int> l) {
  a++;
  l->push_back(a);
}

int main() {
  for (int i = 0; i < 3; i += 1)
    cout << i;
  while (false) {}
  if (g > 0)
    g--;
  else {
    g = 0;
  }
  if (true) {} else if (false) {
    ;
  }
  tie(g, h) = make_tuple(1, 2);
  return 0;
}
`

	if got := source(t, src, 2); got != want {
		t.Errorf("Source() =\n%s\nwant\n%s", got, want)
	}
}

func TestSource_TabIndent(t *testing.T) {
	got := source(t, "void main() { { cout << 1; } }", 0)
	want := "void main() {\n\t{\n\t\tcout << 1;\n\t}\n}\n"

	if got != want {
		t.Errorf("Source(indent 0) = %q, want %q", got, want)
	}
}

func TestSource_Idempotent(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "testdata", "corpus", "*.tpl"))
	if err != nil {
		t.Fatal(err)
	}

	if len(paths) == 0 {
		t.Fatal("no corpus programs found")
	}

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}

			once := source(t, string(data), 4)
			twice := source(t, once, 4)

			if once != twice {
				t.Errorf("formatting is not idempotent:\nfirst\n%s\nsecond\n%s", once, twice)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(a+b)*c", "(a + b) * c"},
		{"a-(b-c)", "a - (b - c)"},
		{"(a-b)-c", "a - b - c"},
		{"a*(b/c)", "a * (b / c)"},
		{"-(-x)", "-(-x)"},
		{"!(a&&b)", "!(a && b)"},
		{"-(a+b)", "-(a + b)"},
		{"!l->empty()", "!l->empty()"},
		{"(l)->front()", "l->front()"},
		{"a||b&&c", "a || b && c"},
		{"(a||b)&&c", "(a || b) && c"},
		{`f(1,"x\n",true)`, `f(1, "x\n", true)`},
		{"get<0>(make_tuple(1,2))", "get<0>(make_tuple(1, 2))"},
		{"list<list<int>>{list<int>{}}", "list<list<int>> {list<int> {}}"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			x, err := parser.ParseExpr(tt.src)
			if err != nil {
				t.Fatalf("ParseExpr() error = %v", err)
			}

			got := format.String(x)
			if got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}

			y, err := parser.ParseExpr(got)
			if err != nil {
				t.Fatalf("ParseExpr(%q) error = %v", got, err)
			}

			if again := format.String(y); again != got {
				t.Errorf("String() of reparsed output = %q, want %q", again, got)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	prog, err := parser.ParseString("int main() { return 0; }")
	if err != nil {
		t.Fatal(err)
	}

	for _, indent := range []int{0, 2} {
		var buf bytes.Buffer
		if err := format.JSON(t.Context(), &buf, prog, indent); err != nil {
			t.Fatalf("JSON(indent %d) error = %v", indent, err)
		}

		if indent > 0 && !strings.Contains(buf.String(), "\n  ") {
			t.Errorf("JSON(indent %d) is not indented:\n%s", indent, buf.String())
		}

		var doc struct {
			Node  string `json:"node"`
			Decls []struct {
				Node string `json:"node"`
				Name string `json:"name"`
				Pos  string `json:"pos"`
			} `json:"decls"`
		}

		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("JSON output does not decode: %v", err)
		}

		if doc.Node != "program" || len(doc.Decls) != 1 {
			t.Fatalf("JSON document = %+v, want a program with one declaration", doc)
		}

		if d := doc.Decls[0]; d.Node != "func" || d.Name != "main" || d.Pos != "1:1" {
			t.Errorf("declaration = %+v, want func main at 1:1", d)
		}
	}
}

func TestYAML(t *testing.T) {
	prog, err := parser.ParseString("int x = 1 + 2;")
	if err != nil {
		t.Fatal(err)
	}

	for _, indent := range []int{0, 4} {
		var buf bytes.Buffer
		if err := format.YAML(t.Context(), &buf, prog, indent); err != nil {
			t.Fatalf("YAML(indent %d) error = %v", indent, err)
		}

		var doc map[string]any
		if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("YAML output does not decode: %v\n%s", err, buf.String())
		}

		if doc["node"] != "program" {
			t.Errorf("node = %v, want program", doc["node"])
		}

		decls, ok := doc["decls"].([]any)
		if !ok || len(decls) != 1 {
			t.Fatalf("decls = %#v, want one declaration", doc["decls"])
		}

		if decl, _ := decls[0].(map[string]any); decl["type"] != "int" {
			t.Errorf("declaration type = %v, want int", decl["type"])
		}
	}
}
