// Command rex-grep prints the lines of a file that match a pattern,
// reusing the package driver line scanner.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/teris-io/cli"

	"github.com/hexvm/rex"
	"github.com/hexvm/rex/driver"
)

var description = strings.ReplaceAll(`
rex-grep prints every line of a file that matches a regular expression,
one per line, to stdout.
`, "\n", " ")

var RexGrep = cli.New(description).
	WithArg(cli.NewArg("pattern", "The regular expression to match")).
	WithArg(cli.NewArg("file", "The file to scan")).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	pattern, path := args[0], args[1]

	re, err := rex.Compile(pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: unable to compile pattern: %s\n", err)
		return -1
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: unable to open input file: %s\n", err)
		return -1
	}
	defer f.Close()

	n, err := driver.MatchFile(re, f, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: scan failed after %d matches: %s\n", n, err)
		return -1
	}
	if n == 0 {
		return 1
	}
	return 0
}

func main() { os.Exit(RexGrep.Run(os.Args, os.Stdout)) }
