package parser

import (
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/gengjiawen/c-parser/pkg/cabs"
	"github.com/gengjiawen/c-parser/pkg/ctypes"
	"github.com/gengjiawen/c-parser/pkg/diag"
	"github.com/gengjiawen/c-parser/pkg/lexer"
)

func parseSource(t *testing.T, src string) (*cabs.Program, []diag.Diagnostic) {
	t.Helper()
	p := NewFromSource(src)
	prog := p.ParseTranslationUnit()
	return prog, p.Errors()
}

func mustParse(t *testing.T, src string) *cabs.Program {
	t.Helper()
	prog, errs := parseSource(t, src)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return prog
}

func countKind(errs []diag.Diagnostic, kind diag.Kind) int {
	n := 0
	for _, e := range errs {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func hasKind(errs []diag.Diagnostic, kind diag.Kind) bool {
	return countKind(errs, kind) > 0
}

// firstDecl returns the only declaration of a source snippet.
func firstDecl(t *testing.T, src string) *cabs.Decl {
	t.Helper()
	prog := mustParse(t, src)
	if len(prog.Decls) == 0 {
		t.Fatalf("no declarations parsed from %q", src)
	}
	d, ok := prog.Decls[0].(*cabs.Decl)
	if !ok {
		t.Fatalf("expected *cabs.Decl, got %T", prog.Decls[0])
	}
	return d
}

// TestSpec is one case from parse.yaml.
type TestSpec struct {
	Name   string     `yaml:"name"`
	Input  string     `yaml:"input"`
	Decls  []DeclSpec `yaml:"decls,omitempty"`
	Errors []string   `yaml:"errors,omitempty"`
}

// DeclSpec is the expected shape of one declaration: the canonical
// declarator form, plus optional storage, initializer and body checks.
type DeclSpec struct {
	Decl    string `yaml:"decl,omitempty"`
	Storage string `yaml:"storage,omitempty"`
	Init    string `yaml:"init,omitempty"`
	FunDef  bool   `yaml:"fundef,omitempty"`
}

// TestFile is the parse.yaml file structure.
type TestFile struct {
	Tests []TestSpec `yaml:"tests"`
}

func TestParseYAML(t *testing.T) {
	data, err := os.ReadFile("../../testdata/parse.yaml")
	if err != nil {
		t.Fatalf("failed to read parse.yaml: %v", err)
	}

	var testFile TestFile
	if err := yaml.Unmarshal(data, &testFile); err != nil {
		t.Fatalf("failed to parse parse.yaml: %v", err)
	}

	for _, tc := range testFile.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			prog, errs := parseSource(t, tc.Input)

			if len(tc.Errors) > 0 {
				for _, want := range tc.Errors {
					found := false
					for _, e := range errs {
						if e.Kind.String() == want {
							found = true
							break
						}
					}
					if !found {
						t.Errorf("expected a %s diagnostic, got %v", want, errs)
					}
				}
				return
			}

			if len(errs) > 0 {
				t.Fatalf("unexpected parse errors: %v", errs)
			}
			if len(tc.Decls) != len(prog.Decls) {
				t.Fatalf("expected %d declarations, got %d", len(tc.Decls), len(prog.Decls))
			}
			for i, spec := range tc.Decls {
				d, ok := prog.Decls[i].(*cabs.Decl)
				if !ok {
					t.Fatalf("decls[%d]: expected *cabs.Decl, got %T", i, prog.Decls[i])
				}
				if got := ctypes.Declare(d.Type, d.Name); got != spec.Decl {
					t.Errorf("decls[%d]: expected %q, got %q", i, spec.Decl, got)
				}
				if spec.Storage != "" && d.Storage.String() != spec.Storage {
					t.Errorf("decls[%d]: storage expected %q, got %q", i, spec.Storage, d.Storage)
				}
				if spec.Init != "" {
					if d.Init == nil {
						t.Errorf("decls[%d]: expected initializer %q, got none", i, spec.Init)
					} else if got := d.Init.String(); got != spec.Init {
						t.Errorf("decls[%d]: initializer expected %q, got %q", i, spec.Init, got)
					}
				}
				if spec.FunDef != (d.Body != nil) {
					t.Errorf("decls[%d]: fundef expected %v, got %v", i, spec.FunDef, d.Body != nil)
				}
			}
		})
	}
}

// A bad declaration must not take down the rest of the file: the parser
// resumes at the next declaration boundary and keeps collecting errors.
func TestErrorRecovery(t *testing.T) {
	src := `
foo bad1;
int good1;
int bad2 = ;
int good2 = 7;
`
	prog, errs := parseSource(t, src)
	if len(errs) == 0 {
		t.Fatal("expected parse errors")
	}
	if !hasKind(errs, diag.UnknownTypeName) {
		t.Errorf("expected UnknownTypeName, got %v", errs)
	}

	var names []string
	for _, d := range prog.Decls {
		if decl, ok := d.(*cabs.Decl); ok && decl.Name != "" {
			names = append(names, decl.Name)
		}
	}
	joined := strings.Join(names, ",")
	for _, want := range []string{"good1", "good2"} {
		if !strings.Contains(joined, want) {
			t.Errorf("declaration %q lost during recovery (got %s)", want, joined)
		}
	}
}

// Diagnostics come out ordered by source position regardless of the order
// they were recorded in.
func TestErrorsOrdered(t *testing.T) {
	src := "int a = 42xyz;\nfoo y;\nstruct s { int m; int m; };\n"
	_, errs := parseSource(t, src)
	if len(errs) < 2 {
		t.Fatalf("expected several errors, got %v", errs)
	}
	for i := 1; i < len(errs); i++ {
		prev, cur := errs[i-1].Pos, errs[i].Pos
		if cur.Line < prev.Line || (cur.Line == prev.Line && cur.Column < prev.Column) {
			t.Errorf("errors out of order: %v before %v", prev, cur)
		}
	}
	if !hasKind(errs, diag.InvalidNumericLiteral) {
		t.Errorf("missing lexical diagnostic in %v", errs)
	}
	if !hasKind(errs, diag.DuplicateMember) {
		t.Errorf("missing DuplicateMember in %v", errs)
	}
}

func TestLexErrorsSurfaceThroughParser(t *testing.T) {
	_, errs := parseSource(t, "char *s = \"unterminated;\n")
	if !hasKind(errs, diag.UnterminatedString) {
		t.Fatalf("expected UnterminatedString, got %v", errs)
	}
	for _, e := range errs {
		if e.Kind == diag.UnterminatedString && e.Kind.Class() != "LexError" {
			t.Errorf("UnterminatedString should classify as LexError, got %s", e.Kind.Class())
		}
	}
}

func TestNestingTooDeepExpressions(t *testing.T) {
	depth := DefaultMaxDepth + 50
	src := "int x = " + strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth) + ";\n"
	_, errs := parseSource(t, src)
	if got := countKind(errs, diag.NestingTooDeep); got != 1 {
		t.Fatalf("expected exactly one NestingTooDeep, got %d (%v)", got, errs)
	}
}

func TestNestingTooDeepConfigurable(t *testing.T) {
	src := "void f(void) " + strings.Repeat("{", 40) + strings.Repeat("}", 40) + "\n"
	p := NewWithOptions(lexer.New(src), Options{MaxDepth: 16})
	p.ParseTranslationUnit()
	if !hasKind(p.Errors(), diag.NestingTooDeep) {
		t.Fatalf("expected NestingTooDeep with MaxDepth 16, got %v", p.Errors())
	}

	p = NewWithOptions(lexer.New(src), Options{MaxDepth: 1000})
	p.ParseTranslationUnit()
	if hasKind(p.Errors(), diag.NestingTooDeep) {
		t.Fatalf("unexpected NestingTooDeep with MaxDepth 1000: %v", p.Errors())
	}
}

// Parsers share no state, so independent inputs can parse concurrently.
func TestConcurrentParsers(t *testing.T) {
	srcs := []string{
		"int a;\n",
		"typedef int myint; myint b;\n",
		"int add(int x, int y) { return x + y; }\n",
		"struct point { int x; int y; };\n",
	}
	done := make(chan error, len(srcs))
	for _, src := range srcs {
		go func(src string) {
			p := NewFromSource(src)
			p.ParseTranslationUnit()
			if errs := p.Errors(); len(errs) > 0 {
				done <- errs[0]
				return
			}
			done <- nil
		}(src)
	}
	for range srcs {
		if err := <-done; err != nil {
			t.Errorf("concurrent parse failed: %v", err)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	prog := mustParse(t, "")
	if len(prog.Decls) != 0 {
		t.Errorf("expected no declarations, got %d", len(prog.Decls))
	}
	prog = mustParse(t, "   /* just a comment */\n")
	if len(prog.Decls) != 0 {
		t.Errorf("expected no declarations, got %d", len(prog.Decls))
	}
}

func TestStrayTopLevelToken(t *testing.T) {
	prog, errs := parseSource(t, "+\nint ok;\n")
	if !hasKind(errs, diag.UnexpectedToken) {
		t.Fatalf("expected UnexpectedToken, got %v", errs)
	}
	if len(prog.Decls) != 1 {
		t.Fatalf("expected recovery to keep 1 declaration, got %d", len(prog.Decls))
	}
}
