package networth

import (
	"bufio"
	"io"
)

// linescanner reads a ledger line by line, remembering where it is so that
// errors can point at the offending line. A single line can be pushed back.
type linescanner struct {
	name    string
	scanner *bufio.Scanner
	line    string
	lineNum int
	unread  bool
}

func newLineScanner(name string, r io.Reader) *linescanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &linescanner{name: name, scanner: s}
}

// Scan advances to the next line.
func (s *linescanner) Scan() bool {
	if s.unread {
		s.unread = false
		return true
	}
	if !s.scanner.Scan() {
		return false
	}
	s.line = s.scanner.Text()
	s.lineNum++
	return true
}

// Unscan makes the next Scan return the current line again.
func (s *linescanner) Unscan() { s.unread = true }

func (s *linescanner) Text() string    { return s.line }
func (s *linescanner) Name() string    { return s.name }
func (s *linescanner) LineNumber() int { return s.lineNum }
func (s *linescanner) Err() error      { return s.scanner.Err() }
