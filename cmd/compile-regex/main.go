// Command compile-regex compiles a pattern to a bytecode program and
// writes its textual assembly form, mirroring the compiled-artifact format
// from §6.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/teris-io/cli"

	"github.com/hexvm/rex/bytecode"
	"github.com/hexvm/rex/codegen"
	"github.com/hexvm/rex/parser"
)

var description = strings.ReplaceAll(`
compile-regex parses a regular expression, lowers it to bytecode, and
writes the resulting program as textual assembly. The output file argument
is required; pass '-' to write the listing to stdout.
`, "\n", " ")

var CompileRegex = cli.New(description).
	WithArg(cli.NewArg("pattern", "The regular expression to compile")).
	WithArg(cli.NewArg("output", "Output file for the assembly listing, or '-' for stdout")).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	pattern, output := args[0], args[1]

	root, anchored, err := parser.Parse(pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: unable to parse pattern: %s\n", err)
		return -1
	}

	prog, err := codegen.Compile(root, anchored, codegen.DefaultOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: unable to compile pattern: %s\n", err)
		return -1
	}

	asm := bytecode.Assembly{Source: pattern, Program: prog}
	text := asm.String() + "\n"

	if output == "-" {
		fmt.Print(text)
		return 0
	}

	if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: unable to write output file: %s\n", err)
		return -1
	}
	return 0
}

func main() { os.Exit(CompileRegex.Run(os.Args, os.Stdout)) }
