package script

import (
	"fmt"

	"github.com/mattn/go-shellwords"
)

// Split breaks a line into words with shell quoting rules. Environment and
// backtick expansion stay off, and an unquoted operator such as ';' or '|'
// is an error rather than the end of the line.
func Split(line string) ([]string, error) {
	p := shellwords.NewParser()
	args, err := p.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", line, err)
	}
	if p.Position >= 0 {
		op := []rune(line)[p.Position]
		return nil, fmt.Errorf("%q: unquoted %q at column %d", line, op, p.Position+1)
	}
	return args, nil
}
