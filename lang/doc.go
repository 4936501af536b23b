// Package lang compiles and runs tuplet programs.
//
// tuplet is a small teaching language with C++-like surface syntax:
//
//	bool contains(list<int> l, int x) {
//	  while (!l->empty()) {
//	    if (l->front() == x) return true;
//	    l->pop_front();
//	  }
//	  return false;
//	}
//
//	int main() {
//	  list<int> l = list<int> {1, 2, 3};
//	  cout << contains(l, 2) << " " << l << "\n";
//	  return 0;
//	}
//
// Its semantics differ from the syntax it borrows:
//
//   - A list<T> value is a handle to shared storage. Assigning or passing
//     a list copies the handle, so every alias observes mutations.
//     The program above prints "true [2, 3]".
//   - A tuple<T1, T2, ...> is an immutable value built with make_tuple,
//     read with get<N>(t) and destructured with tie(a, b) = t.
//   - Equality on lists and tuples is structural.
//   - Functions may be declared inside blocks and are visible from their
//     declaration to the end of the block.
//   - Parameters declared as T &name alias the caller's variable.
//
// # Pipeline
//
// Source text passes through [lexer.Tokenize], [parser.Parse] and
// [check.Program] before [eval.Run] executes it. [Compile] performs the
// static stages and [Program.Run] the dynamic one. Failures are classified
// by [StatusOf]: static failures (lex, parse, type) map to [StatusStatic],
// runtime failures to [StatusRuntime].
package lang
