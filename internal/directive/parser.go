package directive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrUnknownOperation = errors.New("invalid operation")
	ErrArity            = errors.New("incorrect number of colons")
)

// SyntaxError reports a rejected line.
type SyntaxError struct {
	Line   int
	Text   string
	Op     string
	Colons int
	Err    error
}

func (e *SyntaxError) Error() string {
	if errors.Is(e.Err, ErrArity) {
		return fmt.Sprintf("There is an error on line %d, %d is an %s for %s", e.Line, e.Colons, e.Err, e.Op)
	}
	return fmt.Sprintf("There is an error on line %d: %s is an %s", e.Line, e.Op, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

const maxLineSize = 1 << 20

// Parse reads every line of r. Accepted directives come back in file
// order; rejected lines come back as syntax errors. The error return is
// reserved for failures reading r.
func Parse(r io.Reader) ([]Directive, []*SyntaxError, error) {
	var (
		directives []Directive
		rejected   []*SyntaxError
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	n := 0
	for sc.Scan() {
		n++
		d, err := ParseLine(n, sc.Text())
		if err != nil {
			var se *SyntaxError
			if errors.As(err, &se) {
				rejected = append(rejected, se)
				continue
			}
			return nil, nil, err
		}
		if d != nil {
			directives = append(directives, *d)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read operations: %w", err)
	}
	return directives, rejected, nil
}

// ParseLine validates a single line. Blank lines yield (nil, nil).
func ParseLine(n int, raw string) (*Directive, error) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return nil, nil
	}
	parts := strings.Split(line, ":")
	op := Op(parts[0])
	want, ok := Arity(op)
	if !ok {
		return nil, &SyntaxError{Line: n, Text: line, Op: parts[0], Colons: len(parts) - 1, Err: ErrUnknownOperation}
	}
	if len(parts)-1 != want {
		return nil, &SyntaxError{Line: n, Text: line, Op: parts[0], Colons: len(parts) - 1, Err: ErrArity}
	}
	return &Directive{Op: op, Args: parts[1:], Line: n, Text: line}, nil
}
