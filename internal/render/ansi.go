package render

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5CF6"))
	strongStyle  = lipgloss.NewStyle().Bold(true)
	emStyle      = lipgloss.NewStyle().Italic(true)
	strikeStyle  = lipgloss.NewStyle().Strikethrough(true)
	linkStyle    = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("#14B8A6"))
	codeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316"))
	mathStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#22C55E"))
	quoteStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94A3B8")).
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color("#334155")).
			PaddingLeft(1)
	plainBlockStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 1)
)

// ANSI formats nodes for a terminal. Paragraphs wrap at width when width
// is positive.
func ANSI(nodes []Node, width int) string {
	blocks := make([]string, 0, len(nodes))
	for _, n := range nodes {
		blocks = append(blocks, ansiBlock(n, width))
	}
	return strings.Join(blocks, "\n\n")
}

func ansiBlock(n Node, width int) string {
	switch n.Kind {
	case KindParagraph:
		return wrap(ansiInlines(n.Children), width)
	case KindHeading:
		return headingStyle.Render(strings.Repeat("#", max(n.Level, 1)) + " " + ansiInlines(n.Children))
	case KindList:
		return ansiList(n, width)
	case KindBlockQuote:
		inner := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			inner = append(inner, ansiBlock(c, max(width-2, 0)))
		}
		return quoteStyle.Render(strings.Join(inner, "\n"))
	case KindTable:
		return ansiTable(n)
	case KindThematicBreak:
		return strings.Repeat("─", max(min(width, 40), 10))
	case KindCodeBlock:
		out, err := Highlight(n.Literal, n.Language, n.Theme, FormatANSI)
		if err != nil {
			return plainBlockStyle.Render(n.Literal)
		}
		return strings.TrimRight(out, "\n")
	case KindPlainCodeBlock:
		return plainBlockStyle.Render(n.Literal)
	case KindBlockMath:
		return mathStyle.Render("  " + n.Literal)
	case KindRawMarkup:
		return n.Literal
	default:
		return ansiInlines([]Node{n})
	}
}

func ansiList(n Node, width int) string {
	var lines []string
	for i, item := range n.Children {
		marker := "• "
		if n.Ordered {
			marker = fmt.Sprintf("%d. ", max(n.Start, 1)+i)
		}
		body := make([]string, 0, len(item.Children))
		for _, c := range item.Children {
			body = append(body, ansiBlock(c, max(width-len(marker), 0)))
		}
		text := strings.Join(body, "\n")
		indent := strings.Repeat(" ", len(marker))
		text = strings.ReplaceAll(text, "\n", "\n"+indent)
		lines = append(lines, marker+text)
	}
	return strings.Join(lines, "\n")
}

func ansiTable(n Node) string {
	t := table.New().Border(lipgloss.NormalBorder())
	for _, row := range n.Children {
		cells := make([]string, 0, len(row.Children))
		for _, c := range row.Children {
			cells = append(cells, ansiInlines(c.Children))
		}
		if row.Header {
			t = t.Headers(cells...)
		} else {
			t = t.Row(cells...)
		}
	}
	return t.String()
}

func ansiInlines(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		switch n.Kind {
		case KindText:
			b.WriteString(n.Literal)
		case KindLineBreak:
			b.WriteByte('\n')
		case KindEmphasis:
			b.WriteString(emStyle.Render(ansiInlines(n.Children)))
		case KindStrong:
			b.WriteString(strongStyle.Render(ansiInlines(n.Children)))
		case KindStrikethrough:
			b.WriteString(strikeStyle.Render(ansiInlines(n.Children)))
		case KindLink:
			label := ansiInlines(n.Children)
			if n.Dest != "" && n.Dest != label {
				label += " (" + n.Dest + ")"
			}
			b.WriteString(linkStyle.Render(label))
		case KindCheckBox:
			if n.Checked {
				b.WriteString("[x] ")
			} else {
				b.WriteString("[ ] ")
			}
		case KindCode:
			b.WriteString(codeStyle.Render(n.Literal))
		case KindInlineMath:
			b.WriteString(mathStyle.Render(n.Literal))
		case KindBlockMath:
			b.WriteString(mathStyle.Render(n.Literal))
		case KindRawMarkup:
			b.WriteString(n.Literal)
		default:
			b.WriteString(ansiInlines(n.Children))
		}
	}
	return b.String()
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
