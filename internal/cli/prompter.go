package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter reads validated input from sequential text prompts. Invalid
// input is rejected with a message and reprompted; it never aborts the
// running operation.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
	eof bool
}

// NewPrompter wraps a reader and writer as a prompter.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(r), out: w}
}

// Line prints the prompt and returns the next line, trimmed. After end
// of input it returns the empty string.
func (p *Prompter) Line(prompt string) string {
	if p.eof {
		return ""
	}
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		p.eof = true
		return ""
	}
	return strings.TrimSpace(p.in.Text())
}

// Int reprompts until the input is an integer within [min, max].
func (p *Prompter) Int(prompt string, min, max int) int {
	for {
		raw := p.Line(prompt)
		if p.eof {
			return min
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Fprintln(p.out, "Numbers only!")
			continue
		}
		if n < min || n > max {
			fmt.Fprintf(p.out, "Please enter %d-%d\n", min, max)
			continue
		}
		return n
	}
}

// YesNo reprompts until the answer is y or n.
func (p *Prompter) YesNo(prompt string) bool {
	for {
		switch strings.ToLower(p.Line(prompt)) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		if p.eof {
			return false
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

// Done reports whether the underlying input has ended.
func (p *Prompter) Done() bool {
	return p.eof
}
