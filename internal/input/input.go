// Package input collects configuration interactively from a terminal.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/junsooki/RegionWatch/internal/capture"
)

// ErrNoInput is returned when the input stream ends before a value is read.
var ErrNoInput = errors.New("input closed before a value was entered")

// Prompts shown for each collected value.
const (
	PromptWebhook = "Enter the webhook URL: "
	PromptMessage = "Enter the message you would like to send: "
	PromptLeft    = "Enter the X-coordinate of the top-left corner of the region of interest: "
	PromptTop     = "Enter the Y-coordinate of the top-left corner of the region of interest: "
	PromptRight   = "Enter the X-coordinate of the bottom-right corner of the region of interest: "
	PromptBottom  = "Enter the Y-coordinate of the bottom-right corner of the region of interest: "

	retryInteger = "Invalid input. Please enter an integer: "
)

// Prompter reads answers line by line from in and writes prompts to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a prompter over the given streams.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// String prints prompt and returns the first non-blank line entered.
func (p *Prompter) String(prompt string) (string, error) {
	for {
		fmt.Fprintln(p.out, prompt)
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		if s := strings.TrimSpace(line); s != "" {
			return s, nil
		}
	}
}

// Int prints prompt and reads until a line starts with an integer.
// Anything after the integer on the same line is discarded. Blank lines
// are skipped; any other line is rejected and the user asked again, with
// no limit on attempts.
func (p *Prompter) Int(prompt string) (int, error) {
	fmt.Fprintln(p.out, prompt)
	for {
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			fmt.Fprint(p.out, retryInteger)
			continue
		}
		return n, nil
	}
}

// Region asks for the four corner coordinates. The rectangle is not
// validated; a degenerate region is returned as entered.
func (p *Prompter) Region() (capture.Region, error) {
	var r capture.Region
	fields := []struct {
		prompt string
		dst    *int
	}{
		{PromptLeft, &r.Left},
		{PromptTop, &r.Top},
		{PromptRight, &r.Right},
		{PromptBottom, &r.Bottom},
	}
	for _, f := range fields {
		v, err := p.Int(f.prompt)
		if err != nil {
			return capture.Region{}, err
		}
		*f.dst = v
	}
	return r, nil
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return line, nil
}
