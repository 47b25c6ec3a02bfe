package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// printer writes answers, rendering markdown and colour only when out is a terminal.
type printer struct {
	out      io.Writer
	tty      bool
	profile  termenv.Profile
	markdown *glamour.TermRenderer
}

func newPrinter(out *os.File) *printer {
	p := &printer{
		out:     out,
		tty:     term.IsTerminal(int(out.Fd())),
		profile: termenv.Ascii,
	}
	if !p.tty {
		return p
	}
	p.profile = termenv.ColorProfile()
	if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100)); err == nil {
		p.markdown = r
	}
	return p
}

func (p *printer) color(s, hex string) string {
	return termenv.String(s).Foreground(p.profile.Color(hex)).String()
}

// Answer prints the model's answer.
func (p *printer) Answer(text string) {
	if p.markdown != nil {
		if rendered, err := p.markdown.Render(text); err == nil {
			fmt.Fprint(p.out, rendered)
			return
		}
	}
	fmt.Fprintln(p.out, strings.TrimSpace(text))
}

// Error prints a failure line.
func (p *printer) Error(format string, args ...any) {
	fmt.Fprintln(p.out, p.color(fmt.Sprintf(format, args...), "#f87171"))
}

// Note prints a dimmed status line.
func (p *printer) Note(format string, args ...any) {
	fmt.Fprintln(p.out, p.color(fmt.Sprintf(format, args...), "#94a3b8"))
}

// Prompt returns the coloured REPL prompt.
func (p *printer) Prompt() string {
	return p.color("You: ", "#818cf8")
}
