package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/rxdbg/internal/domain"
)

// Renderer prints analyses. Colors are only emitted when out is a terminal.
type Renderer struct {
	out       io.Writer
	heading   lipgloss.Style
	highlight lipgloss.Style
	dim       lipgloss.Style
	errStyle  lipgloss.Style
}

// NewRenderer builds a renderer for out.
func NewRenderer(out io.Writer) *Renderer {
	r := lipgloss.NewRenderer(out)
	return &Renderer{
		out:       out,
		heading:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		highlight: r.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")),
		dim:       r.NewStyle().Foreground(lipgloss.Color("8")),
		errStyle:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

// RenderAnalysis prints the match list, the highlighted sample and the
// explanation of one test run.
func (r *Renderer) RenderAnalysis(a domain.Analysis, engine string) {
	fmt.Fprintf(r.out, "%s %s %s\n", r.heading.Render("Pattern:"), a.Pattern, r.dim.Render("("+engine+")"))

	if a.Result.Failed() {
		fmt.Fprintf(r.out, "%s %s\n", r.errStyle.Render("Error:"), a.Result.Error)
	} else {
		r.renderMatches(a)
	}

	fmt.Fprintln(r.out)
	fmt.Fprint(r.out, a.Explanation)

	if a.Entry != nil {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, r.dim.Render(fmt.Sprintf("Saved to history as #%d", a.Entry.ID)))
	}
}

func (r *Renderer) renderMatches(a domain.Analysis) {
	matches := a.Result.Matches
	if len(matches) == 0 {
		fmt.Fprintln(r.out, r.heading.Render("Matches:")+" none")
		return
	}

	fmt.Fprintf(r.out, "%s %s\n", r.heading.Render("Sample:"), Highlight(a.TestString, matches, r.highlight.Render))
	fmt.Fprintf(r.out, "%s %d\n", r.heading.Render("Matches:"), len(matches))
	for i, m := range matches {
		fmt.Fprintf(r.out, "  %d. %q at index %d\n", i+1, m.Text, m.Index)
		for g := range m.Groups {
			if text, ok := m.Group(g + 1); ok {
				fmt.Fprintf(r.out, "     group %d: %q\n", g+1, text)
			} else {
				fmt.Fprintf(r.out, "     group %d: %s\n", g+1, r.dim.Render("<unmatched>"))
			}
		}
	}
}

// Highlight wraps every non-empty match of sample with mark. Match indices
// count characters.
func Highlight(sample string, matches []domain.Match, mark func(...string) string) string {
	runes := []rune(sample)
	var b strings.Builder
	pos := 0
	for _, m := range matches {
		length := len([]rune(m.Text))
		if length == 0 || m.Index < pos || m.Index+length > len(runes) {
			continue
		}
		b.WriteString(string(runes[pos:m.Index]))
		b.WriteString(mark(string(runes[m.Index : m.Index+length])))
		pos = m.Index + length
	}
	b.WriteString(string(runes[pos:]))
	return b.String()
}

// RenderError prints a short error line.
func (r *Renderer) RenderError(err error) {
	fmt.Fprintf(r.out, "%s %v\n", r.errStyle.Render("Error:"), err)
}
