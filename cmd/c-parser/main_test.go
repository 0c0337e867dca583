package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gengjiawen/c-parser/pkg/parser"
)

func resetFlags() {
	dTokens = false
	dParse = false
	dJSON = false
	fStrict = false
	maxDepth = parser.DefaultMaxDepth
}

func TestVersion(t *testing.T) {
	if version == "" {
		t.Error("version should not be empty")
	}
}

func TestFlagsExist(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)

	expectedFlags := []string{"dtokens", "dparse", "djson", "fstrict", "max-depth"}
	for _, flagName := range expectedFlags {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag --%s to exist", flagName)
		}
	}
}

func TestNormalizeFlags(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "single-dash dparse",
			input:    []string{"-dparse", "test.c"},
			expected: []string{"--dparse", "test.c"},
		},
		{
			name:     "double-dash dparse unchanged",
			input:    []string{"--dparse", "test.c"},
			expected: []string{"--dparse", "test.c"},
		},
		{
			name:     "mixed flags",
			input:    []string{"test.c", "-dtokens", "-fstrict"},
			expected: []string{"test.c", "--dtokens", "--fstrict"},
		},
		{
			name:     "all dump flags",
			input:    []string{"-dtokens", "-dparse", "-djson", "-fstrict"},
			expected: []string{"--dtokens", "--dparse", "--djson", "--fstrict"},
		},
		{
			name:     "no flags",
			input:    []string{"test.c"},
			expected: []string{"test.c"},
		},
		{
			name:     "other flags unchanged",
			input:    []string{"--max-depth", "64", "test.c"},
			expected: []string{"--max-depth", "64", "test.c"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := normalizeFlags(tc.input)
			if len(result) != len(tc.expected) {
				t.Fatalf("normalizeFlags(%v) = %v, want %v", tc.input, result, tc.expected)
			}
			for i := range result {
				if result[i] != tc.expected[i] {
					t.Errorf("normalizeFlags(%v) = %v, want %v", tc.input, result, tc.expected)
					return
				}
			}
		})
	}
}

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		input    string
		suffix   string
		expected string
	}{
		{"test.c", ".parsed.c", "test.parsed.c"},
		{"path/to/file.c", ".parsed.c", "path/to/file.parsed.c"},
		{"/absolute/path.c", ".ast.json", "/absolute/path.ast.json"},
		{"no_extension", ".parsed.c", "no_extension.parsed.c"},
		{"multiple.dots.c", ".ast.json", "multiple.dots.ast.json"},
	}

	for _, tc := range tests {
		if got := replaceExt(tc.input, tc.suffix); got != tc.expected {
			t.Errorf("replaceExt(%q, %q) = %q, want %q", tc.input, tc.suffix, got, tc.expected)
		}
	}
}

func TestNoArgsShowsHelp(t *testing.T) {
	resetFlags()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error without arguments, got %v", err)
	}
	if !strings.Contains(out.String(), "c-parser") {
		t.Errorf("expected help text, got %q", out.String())
	}
}

func TestFileNotFound(t *testing.T) {
	resetFlags()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"nonexistent.c"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error for nonexistent file, got nil")
	}
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestDParseCreatesOutputFile(t *testing.T) {
	testFile := writeTestFile(t, "test.c", "int main(void) { return 42; }")

	resetFlags()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--dparse", testFile})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error for -dparse, got %v\nStderr: %s", err, errOut.String())
	}

	expectedOutputFile := replaceExt(testFile, ".parsed.c")
	fileContent, err := os.ReadFile(expectedOutputFile)
	if err != nil {
		t.Fatalf("output file not created: %v", err)
	}
	if out.String() != string(fileContent) {
		t.Errorf("output file content doesn't match stdout\nStdout:\n%s\nFile:\n%s", out.String(), fileContent)
	}

	output := out.String()
	if !strings.Contains(output, "FunDef main") {
		t.Errorf("expected output to contain 'FunDef main', got:\n%s", output)
	}
	if !strings.Contains(output, "Return") || !strings.Contains(output, "42") {
		t.Errorf("expected output to contain the return statement, got:\n%s", output)
	}
}

func TestDJSONCreatesOutputFile(t *testing.T) {
	testFile := writeTestFile(t, "test.c", "int x = 1 + 2;")

	resetFlags()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--djson", testFile})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error for -djson, got %v\nStderr: %s", err, errOut.String())
	}

	data, err := os.ReadFile(replaceExt(testFile, ".ast.json"))
	if err != nil {
		t.Fatalf("JSON output file not created: %v", err)
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["kind"] != "Program" {
		t.Errorf("expected root kind Program, got %v", parsed["kind"])
	}
}

func TestDTokens(t *testing.T) {
	testFile := writeTestFile(t, "test.c", "int x = 42;")

	resetFlags()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--dtokens", testFile})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error for -dtokens, got %v\nStderr: %s", err, errOut.String())
	}

	output := out.String()
	for _, lexeme := range []string{"int", "x", "=", "42", ";"} {
		if !strings.Contains(output, lexeme) {
			t.Errorf("expected token dump to contain %q, got:\n%s", lexeme, output)
		}
	}
	if !strings.HasPrefix(output, "1:1") {
		t.Errorf("expected dump to start at position 1:1, got:\n%s", output)
	}
}

func TestParseErrorsReported(t *testing.T) {
	testFile := writeTestFile(t, "bad.c", "foo x;\n")

	resetFlags()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{testFile})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for invalid input, got nil")
	}

	errText := errOut.String()
	if !strings.Contains(errText, "UnknownTypeName") {
		t.Errorf("expected UnknownTypeName in stderr, got:\n%s", errText)
	}
	if !strings.Contains(errText, "bad.c") {
		t.Errorf("expected filename in stderr, got:\n%s", errText)
	}
}

func TestStrictModeFlagsExtensions(t *testing.T) {
	src := "struct __attribute__((packed)) s { char c; int i; };\n"
	testFile := writeTestFile(t, "ext.c", src)

	// Accepted by default.
	resetFlags()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{testFile})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("GNU extension should parse without -fstrict, got %v\nStderr: %s", err, errOut.String())
	}

	// Rejected under -fstrict.
	resetFlags()
	out.Reset()
	errOut.Reset()
	cmd = newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--fstrict", testFile})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error under -fstrict, got nil")
	}
	if !strings.Contains(errOut.String(), "ExtensionUsed") {
		t.Errorf("expected ExtensionUsed in stderr, got:\n%s", errOut.String())
	}
}

func TestMaxDepthFlag(t *testing.T) {
	src := "int x = " + strings.Repeat("(", 64) + "1" + strings.Repeat(")", 64) + ";\n"
	testFile := writeTestFile(t, "deep.c", src)

	resetFlags()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--max-depth", "16", testFile})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error with --max-depth 16, got nil")
	}
	if !strings.Contains(errOut.String(), "NestingTooDeep") {
		t.Errorf("expected NestingTooDeep in stderr, got:\n%s", errOut.String())
	}
}

// Several input files report in argument order even though they parse
// concurrently.
func TestMultipleFilesOrdered(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"a.c", "b.c", "c.c"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("int "+strings.TrimSuffix(name, ".c")+"_var;\n"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
		files = append(files, path)
	}

	resetFlags()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(append([]string{"--dparse"}, files...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error, got %v\nStderr: %s", err, errOut.String())
	}

	output := out.String()
	ia := strings.Index(output, "a_var")
	ib := strings.Index(output, "b_var")
	ic := strings.Index(output, "c_var")
	if ia == -1 || ib == -1 || ic == -1 {
		t.Fatalf("missing declarations in output:\n%s", output)
	}
	if !(ia < ib && ib < ic) {
		t.Errorf("output not in argument order: a=%d b=%d c=%d\n%s", ia, ib, ic, output)
	}
}
