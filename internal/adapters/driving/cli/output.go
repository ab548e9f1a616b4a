package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/postprocessors/clip"
)

// defaultWidth is used when the output is not a terminal.
const defaultWidth = 80

// Palette.
var (
	colourPrimary   = lipgloss.Color("#7C3AED")
	colourSecondary = lipgloss.Color("#06B6D4")
	colourMuted     = lipgloss.Color("#6C7086")
	colourSuccess   = lipgloss.Color("#A6E3A1")
	colourWarning   = lipgloss.Color("#F9E2AF")
)

// printer renders runs and search results for humans.
type printer struct {
	w     io.Writer
	width int

	title   lipgloss.Style
	heading lipgloss.Style
	link    lipgloss.Style
	muted   lipgloss.Style
	ok      lipgloss.Style
	warning lipgloss.Style
}

// newPrinter creates a printer whose colour profile and width follow w.
// Non-terminal writers get plain text.
func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:       w,
		width:   outputWidth(w),
		title:   r.NewStyle().Bold(true).Foreground(colourPrimary),
		heading: r.NewStyle().Bold(true),
		link:    r.NewStyle().Foreground(colourSecondary),
		muted:   r.NewStyle().Foreground(colourMuted),
		ok:      r.NewStyle().Foreground(colourSuccess),
		warning: r.NewStyle().Foreground(colourWarning),
	}
}

func outputWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

func (p *printer) println(s string) {
	fmt.Fprintln(p.w, s)
}

// snippet flattens whitespace and cuts s to fit the terminal after indent.
func (p *printer) snippet(s string, indent int) string {
	s = strings.Join(strings.Fields(s), " ")
	limit := p.width - indent
	if limit < 20 {
		limit = 20
	}
	if clip.RuneCount(s) <= limit {
		return s
	}
	return clip.Truncate(s, limit-3) + "..."
}

// run prints the videos and papers of a run followed by any warnings.
func (p *printer) run(result domain.RunResult) {
	p.println(p.title.Render(fmt.Sprintf("Learning: %s", result.Topic)))
	p.println("")
	p.section("Videos", result.Videos)
	p.section("Papers", result.Papers)
	p.warnings(result.Diagnostics.Messages())
}

func (p *printer) section(name string, resources []domain.Resource) {
	p.println(p.heading.Render(fmt.Sprintf("%s (%d)", name, len(resources))))
	if len(resources) == 0 {
		p.println(p.muted.Render("  None found."))
		p.println("")
		return
	}
	for i := range resources {
		p.resource(i+1, &resources[i])
	}
}

func (p *printer) resource(n int, r *domain.Resource) {
	title := r.Title
	if r.Year != nil {
		title = fmt.Sprintf("%s (%d)", title, *r.Year)
	}
	p.println(fmt.Sprintf("  [%d] %s", n, title))

	var meta []string
	if by := r.AuthorsOrChannel(); by != "" {
		meta = append(meta, by)
	}
	if r.Kind == domain.ResourceKindVideo {
		meta = append(meta, fmt.Sprintf("%d views", r.Popularity))
	} else {
		meta = append(meta, fmt.Sprintf("%d citations", r.Popularity))
	}
	meta = append(meta, r.Provider)
	p.println("      " + p.muted.Render(strings.Join(meta, " | ")))

	if r.URL != "" {
		p.println("      " + p.link.Render(r.URL))
	}
	if r.Description != "" {
		p.println("      " + p.snippet(r.Description, 6))
	}
	p.println("")
}

// search prints semantic search hits.
func (p *printer) search(resp domain.SearchResponse) {
	if len(resp.Results) == 0 {
		p.println("No results found.")
		p.warnings(resp.Diagnostics.Messages())
		return
	}

	p.println(p.title.Render(fmt.Sprintf("Results for: %s", resp.Query)))
	p.println("")
	for i, hit := range resp.Results {
		title := hit.Metadata[domain.MetaTitle]
		if title == "" {
			title = hit.ID
		}
		p.println(fmt.Sprintf("  [%d] %s (%.2f)", i+1, title, hit.Distance))
		if kind := hit.Metadata[domain.MetaKind]; kind != "" {
			p.println("      " + p.muted.Render(kind))
		}
		if u := hit.Metadata[domain.MetaURL]; u != "" {
			p.println("      " + p.link.Render(u))
		}
		if hit.Document != "" {
			p.println("      " + p.snippet(hit.Document, 6))
		}
		p.println("")
	}
	p.warnings(resp.Diagnostics.Messages())
}

func (p *printer) warnings(msgs []string) {
	if len(msgs) == 0 {
		return
	}
	p.println(p.warning.Render("Warnings:"))
	for _, m := range msgs {
		p.println("  ! " + m)
	}
}

// check prints a status line marked ok or not.
func (p *printer) check(ok bool, label, detail string) {
	mark := p.ok.Render("ok")
	if !ok {
		mark = p.warning.Render("--")
	}
	line := fmt.Sprintf("  [%s] %s", mark, label)
	if detail != "" {
		line += ": " + detail
	}
	p.println(line)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
