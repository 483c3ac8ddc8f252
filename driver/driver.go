// Package driver implements the line-oriented grep-style front end: run a
// compiled pattern against every line of a stream, writing the matching
// lines through.
package driver

import (
	"bufio"
	"fmt"
	"io"

	"github.com/hexvm/rex"
)

// MatchFile scans r line by line, writing to w every line re matches, and
// returns the number of matching lines written.
func MatchFile(re *rex.Regex, r io.Reader, w io.Writer) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	count := 0
	for scanner.Scan() {
		line := scanner.Text()
		if re.MatchString(line) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return count, err
			}
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return count, err
	}
	return count, nil
}
