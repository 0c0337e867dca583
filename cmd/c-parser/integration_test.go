package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fixtureDir = "../../testdata/fixtures"

// copyFixture places a fixture in a temp dir so dump output files land
// outside the repository tree.
func copyFixture(t *testing.T, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(fixtureDir, name))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	dst := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(dst, content, 0644); err != nil {
		t.Fatalf("failed to copy fixture: %v", err)
	}
	return dst
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// Every fixture parses clean and produces a dump mentioning each of
// its expected markers.
func TestFixturesParse(t *testing.T) {
	tests := []struct {
		fixture string
		markers []string
	}{
		{
			fixture: "types.c",
			markers: []string{
				"Typedef size_t",
				"TagDecl struct node",
				"Enumerator RED = 0",
				"Enumerator GREEN = 5",
				"Enumerator BLUE = 6",
				"Typedef complex_t",
			},
		},
		{
			fixture: "declarators.c",
			markers: []string{
				"Decl signal",
				"Decl fn_arr",
				"Typedef callback_t",
				"TagDecl struct ops",
			},
		},
		{
			fixture: "control-flow.c",
			markers: []string{
				"FunDef iabs",
				"FunDef classify",
				"Labels: case 0, case 1, case 2, default",
				"DoWhile",
			},
		},
		{
			fixture: "c11.c",
			markers: []string{
				"StaticAssert",
				"Typedef atomic_int_t",
				"Decl tls_counter",
				"FunDef c11_sum",
			},
		},
		{
			fixture: "gnu.c",
			markers: []string{
				"Typedef s64",
				"FunDef stmt_expr_example",
				"FunDef computed_goto",
				"TagDecl struct packed_struct",
				"Attr: packed",
			},
		},
		{
			fixture: "hashmap.c",
			markers: []string{
				"TagDecl struct hashmap",
				"FunDef hash",
				"FunDef hashmap_get",
				"FunDef hashmap_foreach",
			},
		},
		{
			fixture: "expressions.c",
			markers: []string{
				"Decl greeting",
				"FunDef arith",
				"FunDef bits",
				"Decl compound",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.fixture, func(t *testing.T) {
			testFile := copyFixture(t, tc.fixture)
			out, errOut, err := runCommand(t, "--dparse", testFile)
			if err != nil {
				t.Fatalf("expected %s to parse, got %v\nStderr: %s", tc.fixture, err, errOut)
			}

			for _, marker := range tc.markers {
				if !strings.Contains(out, marker) {
					t.Errorf("expected dump of %s to contain %q, got:\n%s", tc.fixture, marker, out)
				}
			}

			fileContent, err := os.ReadFile(replaceExt(testFile, ".parsed.c"))
			if err != nil {
				t.Fatalf("dump file not created: %v", err)
			}
			if out != string(fileContent) {
				t.Errorf("dump file content doesn't match stdout for %s", tc.fixture)
			}
		})
	}
}

// Every fixture serializes to a JSON document with a Program root and
// stable output across runs.
func TestFixturesJSON(t *testing.T) {
	entries, err := os.ReadDir(fixtureDir)
	if err != nil {
		t.Fatalf("failed to read fixture dir: %v", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".c") {
			continue
		}
		t.Run(name, func(t *testing.T) {
			testFile := copyFixture(t, name)
			out, errOut, err := runCommand(t, "--djson", testFile)
			if err != nil {
				t.Fatalf("expected %s to serialize, got %v\nStderr: %s", name, err, errOut)
			}

			data, err := os.ReadFile(replaceExt(testFile, ".ast.json"))
			if err != nil {
				t.Fatalf("JSON file not created: %v", err)
			}
			if out != string(data) {
				t.Errorf("JSON file content doesn't match stdout for %s", name)
			}

			var root map[string]interface{}
			if err := json.Unmarshal(data, &root); err != nil {
				t.Fatalf("invalid JSON for %s: %v", name, err)
			}
			if root["kind"] != "Program" {
				t.Errorf("expected root kind Program for %s, got %v", name, root["kind"])
			}

			out2, _, err := runCommand(t, "--djson", testFile)
			if err != nil {
				t.Fatalf("second run failed: %v", err)
			}
			if out != out2 {
				t.Errorf("JSON output for %s differs between runs", name)
			}
		})
	}
}

func TestFixtureTokenDump(t *testing.T) {
	testFile := copyFixture(t, "types.c")
	out, errOut, err := runCommand(t, "--dtokens", testFile)
	if err != nil {
		t.Fatalf("expected no error, got %v\nStderr: %s", err, errOut)
	}

	for _, lexeme := range []string{"typedef", "struct", "union", "enum", "GREEN", "complex_t"} {
		if !strings.Contains(out, lexeme) {
			t.Errorf("expected token dump to contain %q", lexeme)
		}
	}
}

// Strict mode accepts the C11 fixture but rejects the GNU one.
func TestFixturesStrictMode(t *testing.T) {
	c11File := copyFixture(t, "c11.c")
	if _, errOut, err := runCommand(t, "--fstrict", c11File); err != nil {
		t.Fatalf("c11.c should pass strict mode, got %v\nStderr: %s", err, errOut)
	}

	gnuFile := copyFixture(t, "gnu.c")
	_, errOut, err := runCommand(t, "--fstrict", gnuFile)
	if err == nil {
		t.Fatal("gnu.c should fail strict mode")
	}
	if !strings.Contains(errOut, "ExtensionUsed") {
		t.Errorf("expected ExtensionUsed diagnostics, got:\n%s", errOut)
	}
	if strings.Count(errOut, "ExtensionUsed") < 4 {
		t.Errorf("expected several extension diagnostics, got:\n%s", errOut)
	}
}

// Parsing succeeds with neither dump flag and reports a per-file summary.
func TestFixturesDefaultMode(t *testing.T) {
	testFile := copyFixture(t, "hashmap.c")
	_, errOut, err := runCommand(t, testFile)
	if err != nil {
		t.Fatalf("expected no error, got %v\nStderr: %s", err, errOut)
	}
	if !strings.Contains(errOut, "parsed") || !strings.Contains(errOut, "declarations") {
		t.Errorf("expected summary line, got:\n%s", errOut)
	}
}
