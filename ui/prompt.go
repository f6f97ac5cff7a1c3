// Package ui asks report questions on a terminal.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/nonsonwune/ncaafb_db/dataset"
	"github.com/nonsonwune/ncaafb_db/reports"
)

// maxListed is how many options are numbered before the list is cut short.
// Longer lists still accept any option typed by name or #position.
const maxListed = 30

// Prompter reads answers line by line. It implements reports.Chooser.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// ReadLine prints label and returns the trimmed line typed. It fails with
// io.EOF once input is exhausted.
func (p *Prompter) ReadLine(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Choose lists the options, if any, and reads an answer. An empty line
// takes the default. An answer naming an option, ignoring case, picks it;
// otherwise a number, or #number, picks by position. Options that are
// themselves numbers are matched by name first, so "#n" is the only way
// to pick them by position. Invalid answers are asked again.
func (p *Prompter) Choose(pr reports.Prompt) (string, error) {
	if pr.Options == nil {
		label := pr.Label
		if pr.Default != "" {
			label += fmt.Sprintf(" [%s]", pr.Default)
		}
		line, err := p.ReadLine(label + ": ")
		if err != nil {
			return "", err
		}
		if line == "" {
			return pr.Default, nil
		}
		return line, nil
	}

	if len(pr.Options) == 0 {
		return "", dataset.SpecErr("prompt has no options", map[string]any{"prompt": pr.Key})
	}

	color.New(color.FgCyan).Fprintf(p.out, "\n%s\n", pr.Label)
	for i, opt := range pr.Options {
		if i == maxListed {
			fmt.Fprintf(p.out, "... %d more, type a name\n", len(pr.Options)-maxListed)
			break
		}
		fmt.Fprintf(p.out, "%d. %s\n", i+1, opt)
	}

	for {
		line, err := p.ReadLine(fmt.Sprintf("Enter your choice (1-%d) [%s]: ", len(pr.Options), pr.Default))
		if err != nil {
			return "", err
		}
		if line == "" {
			return pr.Default, nil
		}
		if opt, ok := pickOption(pr.Options, line); ok {
			return opt, nil
		}
		color.New(color.FgRed).Fprintln(p.out, "Invalid choice. Please try again.")
	}
}

func pickOption(options []string, line string) (string, bool) {
	if pos, ok := strings.CutPrefix(line, "#"); ok {
		return optionAt(options, pos)
	}
	for _, opt := range options {
		if strings.EqualFold(opt, line) {
			return opt, true
		}
	}
	return optionAt(options, line)
}

func optionAt(options []string, s string) (string, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > len(options) {
		return "", false
	}
	return options[n-1], true
}
