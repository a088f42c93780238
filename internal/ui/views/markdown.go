package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"fractureid/internal/domain"
)

// FractureMarkdown renders a fracture record as a markdown document
func FractureMarkdown(region *domain.Region, f domain.FractureRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", f.Name)
	if region != nil {
		fmt.Fprintf(&b, "*%s %s*\n\n", region.Icon, region.Title)
	}
	fmt.Fprintf(&b, "**Classification:** %s\n\n", f.Classification)

	if len(f.ClassDetails) > 0 {
		b.WriteString("| Grade | Description |\n|---|---|\n")
		for _, c := range f.ClassDetails {
			fmt.Fprintf(&b, "| %s | %s |\n", cell(c.Grade), cell(c.Desc))
		}
		b.WriteString("\n")
	}

	bullets(&b, "Key Findings", f.KeyFindings)

	b.WriteString("## Management\n\n")
	for _, slot := range managementSlots(f.Management) {
		fmt.Fprintf(&b, "**%s:** %s\n\n", slot.label, slot.text)
	}

	bullets(&b, "Clinical Pearls", f.Pearls)
	return b.String()
}

// TopicMarkdown renders a quick-reference topic as a markdown document
func TopicMarkdown(t domain.QuickReferenceTopic) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s %s\n\n", t.Icon, t.Title)
	b.WriteString("| | |\n|---|---|\n")
	for _, row := range t.Content {
		fmt.Fprintf(&b, "| **%s** | %s |\n", cell(row.Label), cell(row.Value))
	}
	return b.String()
}

// FracturePlainText is the clipboard form of a fracture record
func FracturePlainText(region *domain.Region, f domain.FractureRecord) string {
	var b strings.Builder

	b.WriteString(f.Name + "\n")
	if region != nil {
		b.WriteString(region.Title + "\n")
	}
	fmt.Fprintf(&b, "Classification: %s\n", f.Classification)
	for _, c := range f.ClassDetails {
		fmt.Fprintf(&b, "  %s: %s\n", c.Grade, c.Desc)
	}
	if len(f.KeyFindings) > 0 {
		b.WriteString("Key findings:\n")
		for _, k := range f.KeyFindings {
			fmt.Fprintf(&b, "  - %s\n", k)
		}
	}
	b.WriteString("Management:\n")
	for _, slot := range managementSlots(f.Management) {
		fmt.Fprintf(&b, "  %s: %s\n", slot.label, slot.text)
	}
	if len(f.Pearls) > 0 {
		b.WriteString("Pearls:\n")
		for _, p := range f.Pearls {
			fmt.Fprintf(&b, "  - %s\n", p)
		}
	}
	return b.String()
}

// TopicPlainText is the clipboard form of a quick-reference topic
func TopicPlainText(t domain.QuickReferenceTopic) string {
	var b strings.Builder
	b.WriteString(t.Title + "\n")
	for _, row := range t.Content {
		fmt.Fprintf(&b, "  %s: %s\n", row.Label, row.Value)
	}
	return b.String()
}

type slot struct {
	label string
	text  string
}

// managementSlots lists the non-empty management slots in display order
func managementSlots(m domain.Management) []slot {
	all := []slot{
		{"Non-operative", m.NonOp},
		{"Operative", m.Operative},
		{"Emergency", m.Emergency},
	}
	out := all[:0]
	for _, s := range all {
		if strings.TrimSpace(s.text) != "" {
			out = append(out, s)
		}
	}
	return out
}

func bullets(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// MarkdownRenderer turns markdown into styled terminal text with glamour.
// Renderers are cached per wrap width.
type MarkdownRenderer struct {
	style     string
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer. style is "auto" or the name of a
// glamour standard style such as "dark", "light" or "notty".
func NewMarkdownRenderer(style string) *MarkdownRenderer {
	if style == "" {
		style = "auto"
	}
	return &MarkdownRenderer{
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// Render renders md wrapped at width cells
func (r *MarkdownRenderer) Render(md string, width int) (string, error) {
	if width < 20 {
		width = 20
	}
	tr, ok := r.renderers[width]
	if !ok {
		styleOpt := glamour.WithStandardStyle(r.style)
		if r.style == "auto" {
			styleOpt = glamour.WithAutoStyle()
		}
		var err error
		tr, err = glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
		if err != nil {
			return "", fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		r.renderers[width] = tr
	}
	return tr.Render(md)
}
