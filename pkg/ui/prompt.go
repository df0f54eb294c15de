package ui

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter asks questions on an input stream
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a prompter reading answers from in
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// WaitForEnter blocks until the user presses Enter
func (p *Prompter) WaitForEnter(msg string) error {
	fmt.Fprintf(p.out, "\n%s", msg)
	_, err := p.readLine()
	return err
}

// Ask returns the answer, or def when the answer is empty
func (p *Prompter) Ask(question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s (default: %s): ", question, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}

	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskInt returns a positive integer answer; empty, invalid or non-positive input gives def
func (p *Prompter) AskInt(question string, def int) (int, error) {
	answer, err := p.Ask(question, strconv.Itoa(def))
	if err != nil {
		return def, err
	}
	n, convErr := strconv.Atoi(answer)
	if convErr != nil || n <= 0 {
		return def, nil
	}
	return n, nil
}
