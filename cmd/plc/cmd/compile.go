package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/plc-lang/plc/internal/driver"
	"github.com/spf13/cobra"
)

var (
	treeFlag           bool
	prettyFlag         bool
	typecheckPrintFlag bool
	compileOutputFile  string
	compileVerbose     bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a source file to LLVM IR",
	Long: `Compile a program to LLVM textual intermediate representation (.ll) and
write it alongside the input file.

Examples:
  # Compile a program, writing program.ll
  plc compile program.pl

  # Compile with a custom output path
  plc compile program.pl -o out.ll

  # Print the parsed AST as JSON instead of compiling
  plc compile --tree program.pl

  # Print a human-readable AST dump
  plc compile --pretty program.pl

  # Print semantic errors and inferred expression types
  plc compile --typecheck_print program.pl`,
	Args: cobra.ExactArgs(1),
	RunE: compileFile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileOutputFile, "output", "o", "", "output file (default: <input>.ll)")
	compileCmd.Flags().BoolVar(&treeFlag, "tree", false, "print the parsed AST as JSON instead of compiling")
	compileCmd.Flags().BoolVar(&prettyFlag, "pretty", false, "print a human-readable AST dump instead of compiling")
	compileCmd.Flags().BoolVar(&typecheckPrintFlag, "typecheck_print", false, "print semantic errors and inferred types instead of compiling")
	compileCmd.Flags().BoolVarP(&compileVerbose, "verbose", "v", false, "verbose output")
}

func compileFile(_ *cobra.Command, args []string) error {
	filename := args[0]

	if treeFlag || prettyFlag {
		return printAST(filename)
	}
	if typecheckPrintFlag {
		return printTypecheck(filename)
	}

	result, err := driver.Compile(filename, compileVerbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return fmt.Errorf("compilation failed")
	}

	outFile := compileOutputFile
	if outFile == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			outFile = strings.TrimSuffix(filename, ext) + ".ll"
		} else {
			outFile = filename + ".ll"
		}
	}

	if err := os.WriteFile(outFile, []byte(result.IR), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outFile, err)
	}

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "IR written to %s (%d bytes)\n", outFile, len(result.IR))
	} else {
		fmt.Printf("%s\n", outFile)
	}
	return nil
}

// printAST parses (but does not type-check or compile) filename and prints
// its AST in the requested form. Syntax errors are reported the same way a
// full compile would report them.
func printAST(filename string) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	prog, err := driver.ParseOnly(filename, string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return fmt.Errorf("parsing failed")
	}

	if treeFlag {
		out, err := driver.DumpTreeJSON(prog)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	driver.DumpTreePretty(os.Stdout, prog)
	return nil
}

func printTypecheck(filename string) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	prog, analyzer, err := driver.AnalyzeOnly(filename, string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return fmt.Errorf("parsing failed")
	}

	driver.PrintTypecheck(os.Stdout, prog, analyzer)
	return nil
}
