// Package printer handles output formatting and display
package printer

import (
	"fmt"
	"io"
	"os"

	"github.com/bethropolis/richexif/internal/display"
	"github.com/bethropolis/richexif/internal/metadata"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

// highlight is the accent color for paths, groups and field names.
const highlight = lipgloss.Color("4")

// ellipsis marks values cut by the max width setting.
const ellipsis = "…"

// Printer renders tables and trees to the configured output destination
type Printer struct {
	output    io.Writer
	useColors bool
	maxWidth  int
}

// New creates a new Printer with default settings
func New() *Printer {
	return &Printer{
		output:    os.Stdout,
		useColors: true,
	}
}

// WithOutput sets the output destination
func (p *Printer) WithOutput(w io.Writer) *Printer {
	p.output = w
	return p
}

// WithColors enables or disables colored output
func (p *Printer) WithColors(enabled bool) *Printer {
	p.useColors = enabled
	return p
}

// WithMaxWidth truncates values wider than n terminal cells. Zero disables
// truncation.
func (p *Printer) WithMaxWidth(n int) *Printer {
	if n >= 0 {
		p.maxWidth = n
	}
	return p
}

// Print renders md for path in the given display mode
func (p *Printer) Print(mode display.Mode, path string, md metadata.Metadata) error {
	switch mode {
	case display.ModeTable:
		return p.PrintTable(display.BuildTable(md))
	case display.ModeTree:
		return p.PrintTree(display.BuildTree(path, md))
	default:
		return fmt.Errorf("printer: %w %q", display.ErrInvalidMode, mode)
	}
}

// PrintTable writes t as a rounded Field/Value table
func (p *Printer) PrintTable(t display.Table) error {
	r := p.renderer()
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)

	lt := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.NewStyle()).
		Headers(t.Header()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, row := range t.Rows {
		lt.Row(row.Field, p.truncate(row.Value))
	}

	_, err := fmt.Fprintln(p.output, lt.Render())
	return err
}

// PrintTree writes the tree rooted at root
func (p *Printer) PrintTree(root *display.Node) error {
	r := p.renderer()
	st := styles{
		accent: r.NewStyle().Foreground(highlight),
		plain:  r.NewStyle(),
	}

	lt := tree.Root(p.label(root, st)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(r.NewStyle().Faint(true).PaddingRight(1)).
		ItemStyle(st.plain).
		RootStyle(st.plain)
	for _, c := range root.Children {
		lt.Child(p.subtree(c, st))
	}

	_, err := fmt.Fprintln(p.output, lt.String())
	return err
}

type styles struct {
	accent lipgloss.Style
	plain  lipgloss.Style
}

func (p *Printer) subtree(n *display.Node, st styles) any {
	label := p.label(n, st)
	if len(n.Children) == 0 {
		return label
	}
	t := tree.Root(label)
	for _, c := range n.Children {
		t.Child(p.subtree(c, st))
	}
	return t
}

func (p *Printer) label(n *display.Node, st styles) string {
	switch n.Kind {
	case display.KindRoot, display.KindGroup:
		return st.accent.Render(n.Label)
	case display.KindField:
		return st.accent.Render(n.Label+":") + " " + p.truncate(n.Value)
	default:
		return p.truncate(n.Text())
	}
}

func (p *Printer) truncate(s string) string {
	if p.maxWidth <= 0 || runewidth.StringWidth(s) <= p.maxWidth {
		return s
	}
	return runewidth.Truncate(s, p.maxWidth, ellipsis)
}

// renderer returns a lipgloss renderer bound to the output. Without colors
// the profile is forced to plain ASCII so no escape codes are written.
func (p *Printer) renderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(p.output)
	if !p.useColors {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}
