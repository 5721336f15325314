package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

func (k statusKind) label() string {
	switch k {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (k statusKind) color() string {
	switch k {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	default:
		return ansiBlue
	}
}

// statusPrinter writes aligned label/value and check lines, coloring them
// when the destination is a terminal.
type statusPrinter struct {
	out      io.Writer
	colorize bool
}

const statusLabelWidth = 16

func newStatusPrinter(out io.Writer) *statusPrinter {
	return &statusPrinter{out: out, colorize: shouldColorize(out)}
}

func (p *statusPrinter) section(title string) {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if p.colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	fmt.Fprintln(p.out, line)
	fmt.Fprintln(p.out, rule)
}

func (p *statusPrinter) blank() {
	fmt.Fprintln(p.out)
}

func (p *statusPrinter) field(label, value string) {
	fmt.Fprintf(p.out, "  %-*s %s\n", statusLabelWidth, label+":", value)
}

func (p *statusPrinter) check(label string, kind statusKind, message string) {
	text := "[" + kind.label() + "]"
	if message != "" {
		text += " " + message
	}
	line := fmt.Sprintf("  %-*s %s", statusLabelWidth, label+":", text)
	if p.colorize {
		line = kind.color() + line + ansiReset
	}
	fmt.Fprintln(p.out, line)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
