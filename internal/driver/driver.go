// Package driver wires the lexer, parser, semantic analyzer, and IR
// generator into the end-to-end pipeline the CLI commands drive: read
// source, resolve imports against the filesystem, parse, type-check, and
// emit LLVM IR.
package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/plc-lang/plc/internal/ast"
	"github.com/plc-lang/plc/internal/codegen"
	"github.com/plc-lang/plc/internal/errors"
	"github.com/plc-lang/plc/internal/lexer"
	"github.com/plc-lang/plc/internal/parser"
	"github.com/plc-lang/plc/internal/semantic"
)

// Result carries every artifact produced by a successful Compile, so callers
// can inspect intermediate stages without re-running the pipeline. (The
// CLI's --tree/--pretty/--typecheck_print flags use ParseOnly and
// AnalyzeOnly instead.)
type Result struct {
	Program  *ast.Program
	Analyzer *semantic.Analyzer
	IR       string
}

// fileResolver implements parser.ImportResolver by reading `<name>.pl`
// siblings of the entry file's directory.
func fileResolver(dir string) parser.ImportResolver {
	return func(name string) (string, error) {
		path := filepath.Join(dir, name+".pl")
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("import %q: %w", name, err)
		}
		return string(data), nil
	}
}

// contextLines is how many source lines FormatWithContext shows around a
// verbose diagnostic, on each side of the offending line.
const contextLines = 2

// Compile runs the full pipeline over the file at path: parse (with import
// splicing resolved relative to the file's directory), semantic analysis,
// then IR generation. Semantic errors abort before codegen runs; a program
// with unchecked violations never reaches the IR generator. When verbose is
// true, reported errors show surrounding source lines instead of just the
// offending one.
func Compile(path string, verbose bool) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	source := string(src)

	p := parser.New(source, fileResolver(filepath.Dir(path)), lexer.WithFile(path))
	prog, err := p.Parse()
	if err != nil {
		return nil, formatParseError(err, source, path, verbose)
	}

	analyzer := semantic.Analyze(prog)
	if len(analyzer.Errors) > 0 {
		compilerErrors := errors.FromStringErrors(analyzer.Errors, source, path)
		return nil, fmt.Errorf("%s\nsemantic analysis failed with %d error(s)", formatCompilerErrors(compilerErrors, verbose), len(analyzer.Errors))
	}

	gen := codegen.New()
	ir, err := gen.Generate(prog)
	if err != nil {
		return nil, fmt.Errorf("code generation failed: %w", err)
	}

	return &Result{Program: prog, Analyzer: analyzer, IR: ir}, nil
}

// ParseOnly parses source (the already-read contents of path) without
// running semantic analysis or codegen, for the `compile --tree`/`--pretty`
// flags.
func ParseOnly(path, source string) (*ast.Program, error) {
	p := parser.New(source, fileResolver(filepath.Dir(path)), lexer.WithFile(path))
	prog, err := p.Parse()
	if err != nil {
		return nil, formatParseError(err, source, path, false)
	}
	return prog, nil
}

// AnalyzeOnly parses and type-checks source without running codegen, for
// the `compile --typecheck_print` flag. Unlike Compile, it returns
// successfully even when the analyzer accumulated errors, so callers can
// print them.
func AnalyzeOnly(path, source string) (*ast.Program, *semantic.Analyzer, error) {
	prog, err := ParseOnly(path, source)
	if err != nil {
		return nil, nil, err
	}
	return prog, semantic.Analyze(prog), nil
}

// formatParseError renders a *parser.ParseError with source context when
// possible, falling back to its bare message for any other error shape
// (e.g. an import resolver's os.ReadFile failure).
func formatParseError(err error, source, path string, verbose bool) error {
	pe, ok := err.(*parser.ParseError)
	if !ok {
		return fmt.Errorf("parsing failed: %w", err)
	}
	ce := errors.NewCompilerError(lexer.Position{Line: pe.Line}, pe.Message, source, path)
	if verbose {
		return fmt.Errorf("%s\nparsing failed", ce.FormatWithContext(contextLines, true))
	}
	return fmt.Errorf("%s\nparsing failed", ce.Format(true))
}

// formatCompilerErrors renders a batch of accumulated errors, showing
// surrounding source lines per error when verbose is true.
func formatCompilerErrors(errs []*errors.CompilerError, verbose bool) string {
	if verbose {
		return errors.FormatErrorsWithContext(errs, contextLines, true)
	}
	return errors.FormatErrors(errs, true)
}
