package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/gengjiawen/c-parser/pkg/cabs"
	"github.com/gengjiawen/c-parser/pkg/lexer"
	"github.com/gengjiawen/c-parser/pkg/parser"
)

var version = "0.1.0"

// Dump and mode flags
var (
	dTokens  bool // -dtokens: dump the token stream
	dParse   bool // -dparse: dump the AST in textual form
	dJSON    bool // -djson: dump the AST as JSON
	fStrict  bool // -fstrict: diagnose GNU extensions
	maxDepth int
)

// singleDashFlags lists the flags that accept gcc-style single-dash
// spelling (-dparse as well as --dparse).
var singleDashFlags = []string{"dtokens", "dparse", "djson", "fstrict"}

// normalizeFlags converts single-dash spellings like -dparse to --dparse
// for pflag compatibility.
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		for _, name := range singleDashFlags {
			if arg == "-"+name {
				result[i] = "--" + name
				break
			}
		}
		if result[i] == "" {
			result[i] = arg
		}
	}
	return result
}

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "c-parser [files]",
		Short: "c-parser is a C11 front end that dumps tokens and syntax trees",
		Long: `c-parser lexes and parses C11 source (with the common GNU
extensions) and dumps the token stream or the abstract syntax tree in
textual or JSON form. It expects preprocessed input: no #include or
macro expansion is performed.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				return nil
			}
			return processFiles(args, out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVar(&dTokens, "dtokens", false, "Dump the token stream")
	rootCmd.Flags().BoolVar(&dParse, "dparse", false, "Dump the AST after parsing (writes <file>.parsed.c)")
	rootCmd.Flags().BoolVar(&dJSON, "djson", false, "Dump the AST as JSON (writes <file>.ast.json)")
	rootCmd.Flags().BoolVar(&fStrict, "fstrict", false, "Diagnose GNU extensions as errors")
	rootCmd.Flags().IntVar(&maxDepth, "max-depth", parser.DefaultMaxDepth, "Maximum nesting depth before the parse is abandoned")

	return rootCmd
}

// fileResult is the outcome of one file's parse; output is buffered so
// concurrent parses still print in argument order.
type fileResult struct {
	filename string
	output   strings.Builder
	errors   strings.Builder
	failed   bool
}

// processFiles parses every file, each in its own parser instance, and
// reports in argument order. An error in any file fails the run after all
// files have been processed.
func processFiles(filenames []string, out, errOut io.Writer) error {
	results := make([]*fileResult, len(filenames))
	var wg sync.WaitGroup
	for i, filename := range filenames {
		results[i] = &fileResult{filename: filename}
		wg.Add(1)
		go func(res *fileResult) {
			defer wg.Done()
			processFile(res)
		}(results[i])
	}
	wg.Wait()

	failed := 0
	for _, res := range results {
		io.WriteString(out, res.output.String())
		io.WriteString(errOut, res.errors.String())
		if res.failed {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(filenames))
	}
	return nil
}

func processFile(res *fileResult) {
	content, err := os.ReadFile(res.filename)
	if err != nil {
		fmt.Fprintf(&res.errors, "c-parser: error reading %s: %v\n", res.filename, err)
		res.failed = true
		return
	}

	if dTokens {
		dumpTokens(res, string(content))
		return
	}

	l := lexer.New(string(content))
	p := parser.NewWithOptions(l, parser.Options{MaxDepth: maxDepth})
	program := p.ParseTranslationUnit()

	diags := p.Errors()
	if fStrict {
		diags = append(diags, cabs.CheckStrict(program)...)
	}
	for _, d := range diags {
		fmt.Fprintf(&res.errors, "%s:%s\n", res.filename, d.Error())
	}
	if len(diags) > 0 {
		res.failed = true
	}

	if dParse {
		if err := dumpParsed(res, program); err != nil {
			res.failed = true
		}
	}
	if dJSON {
		if err := dumpJSON(res, program); err != nil {
			res.failed = true
		}
	}
	if !dParse && !dJSON {
		fmt.Fprintf(&res.errors, "c-parser: parsed %s (%d declarations)\n", res.filename, len(program.Decls))
	}
}

func dumpTokens(res *fileResult, content string) {
	toks, diags := lexer.Tokenize(content)
	for _, tok := range toks {
		fmt.Fprintf(&res.output, "%d:%d\t%s\t%s\n", tok.Line, tok.Column, tok.Type, tok.Literal)
	}
	for _, d := range diags {
		fmt.Fprintf(&res.errors, "%s:%s\n", res.filename, d.Error())
	}
	if len(diags) > 0 {
		res.failed = true
	}
}

// dumpParsed writes the textual AST dump to <file>.parsed.c and to stdout.
func dumpParsed(res *fileResult, program *cabs.Program) error {
	outputFilename := replaceExt(res.filename, ".parsed.c")
	outFile, err := os.Create(outputFilename)
	if err != nil {
		fmt.Fprintf(&res.errors, "c-parser: error creating %s: %v\n", outputFilename, err)
		return err
	}
	defer outFile.Close()

	printer := cabs.NewPrinter(outFile)
	printer.PrintProgram(program)

	printer = cabs.NewPrinter(&res.output)
	printer.PrintProgram(program)
	return nil
}

// dumpJSON writes the JSON AST dump to <file>.ast.json and to stdout.
func dumpJSON(res *fileResult, program *cabs.Program) error {
	data, err := cabs.MarshalProgram(program)
	if err != nil {
		fmt.Fprintf(&res.errors, "c-parser: error serializing %s: %v\n", res.filename, err)
		return err
	}

	outputFilename := replaceExt(res.filename, ".ast.json")
	if err := os.WriteFile(outputFilename, append(data, '\n'), 0o644); err != nil {
		fmt.Fprintf(&res.errors, "c-parser: error creating %s: %v\n", outputFilename, err)
		return err
	}

	res.output.Write(data)
	res.output.WriteByte('\n')
	return nil
}

// replaceExt swaps a trailing .c extension for the given suffix, or appends
// the suffix when the file has a different extension.
func replaceExt(filename, suffix string) string {
	ext := ".c"
	if strings.HasSuffix(filename, ext) {
		return filename[:len(filename)-len(ext)] + suffix
	}
	return filename + suffix
}
