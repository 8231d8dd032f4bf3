// Package ui renders CLI output. Color goes through lipgloss and is
// dropped automatically for pipes, NO_COLOR, and CI.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/snipstash/snipstash/internal/store"
)

// Printer writes formatted snippet output.
type Printer struct {
	out    io.Writer
	styles Styles
}

// NewPrinter creates a printer for out. Color is enabled only when out
// is an interactive terminal and nothing asks for plain output.
func NewPrinter(out io.Writer) *Printer {
	noColor := !IsTTY(out) || DetectNoColor() || DetectCI()
	return &Printer{out: out, styles: GetStyles(noColor)}
}

// NewPlainPrinter creates a printer that never emits color.
func NewPlainPrinter(out io.Writer) *Printer {
	return &Printer{out: out, styles: PlainStyles()}
}

// Success prints a success line.
// Errors from writing are intentionally ignored for console output.
func (p *Printer) Success(msg string) {
	_, _ = fmt.Fprintln(p.out, p.styles.Success.Render(msg))
}

// Successf prints a formatted success line.
func (p *Printer) Successf(format string, args ...any) {
	p.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning line.
func (p *Printer) Warning(msg string) {
	_, _ = fmt.Fprintln(p.out, p.styles.Warning.Render("warning: "+msg))
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	_, _ = fmt.Fprintln(p.out, p.styles.Error.Render("error: "+msg))
}

// Line prints an unstyled line.
func (p *Printer) Line(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

// SnippetRow prints a one-line listing entry: id, title, language,
// favorite marker, usage.
func (p *Printer) SnippetRow(sn *store.Snippet, tags []*store.Tag) {
	marker := " "
	if sn.Favorite {
		marker = p.styles.Favorite.Render("*")
	}

	line := fmt.Sprintf("%s %s %s %s",
		p.styles.Meta.Render(fmt.Sprintf("#%d", sn.ID)),
		marker,
		p.styles.Title.Render(sn.Title),
		p.styles.Language.Render("["+sn.Language+"]"))

	if len(tags) > 0 {
		names := make([]string, len(tags))
		for i, tag := range tags {
			names[i] = tag.Name
		}
		line += " " + p.styles.Tag.Render(strings.Join(names, ","))
	}
	if sn.UsageCount > 0 {
		line += " " + p.styles.Meta.Render(fmt.Sprintf("(%dx)", sn.UsageCount))
	}

	_, _ = fmt.Fprintln(p.out, line)
}

// Snippet prints the full snippet detail: header, metadata, body.
func (p *Printer) Snippet(sn *store.Snippet, tags []*store.Tag) {
	p.SnippetRow(sn, tags)
	_, _ = fmt.Fprintln(p.out, p.styles.Meta.Render(
		"created "+sn.CreatedAt.Local().Format(time.DateTime)+
			"  updated "+sn.UpdatedAt.Local().Format(time.DateTime)))
	_, _ = fmt.Fprintln(p.out, p.styles.Dim.Render(strings.Repeat("-", 40)))
	_, _ = fmt.Fprintln(p.out, sn.Content)
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor checks if the NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks if running in a CI environment.
func DetectCI() bool {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"}
	for _, v := range ciVars {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}
