// Package render turns server-provided text (markdown prose, TeX math and
// fenced source code) into a structured node tree and formats that tree
// for a terminal or as sanitized HTML.
package render

import (
	"fmt"
	"strings"
)

// Theme selects the code highlighting palette.
type Theme int

const (
	ThemeLight Theme = iota
	ThemeDark
)

func (t Theme) String() string {
	if t == ThemeDark {
		return "dark"
	}
	return "light"
}

// ParseTheme accepts "light" or "dark".
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	default:
		return ThemeLight, fmt.Errorf("unknown theme %q (want light or dark)", s)
	}
}

// Kind tags a Node variant.
type Kind int

const (
	KindParagraph Kind = iota
	KindHeading
	KindList
	KindListItem
	KindBlockQuote
	KindTable
	KindTableRow
	KindTableCell
	KindThematicBreak
	KindText
	KindLineBreak
	KindEmphasis
	KindStrong
	KindStrikethrough
	KindLink
	KindCheckBox
	// KindCode is inline monospace text. Never highlighted.
	KindCode
	// KindCodeBlock is a fenced block with a language tag; it is highlighted.
	KindCodeBlock
	// KindPlainCodeBlock is an untagged or indented block shown in monospace.
	KindPlainCodeBlock
	KindInlineMath
	KindBlockMath
	// KindRawMarkup is markup found in the input. Targets always escape it.
	KindRawMarkup
)

var kindNames = [...]string{
	"Paragraph", "Heading", "List", "ListItem", "BlockQuote", "Table", "TableRow",
	"TableCell", "ThematicBreak", "Text", "LineBreak", "Emphasis", "Strong",
	"Strikethrough", "Link", "CheckBox", "Code", "CodeBlock", "PlainCodeBlock",
	"InlineMath", "BlockMath", "RawMarkup",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is one element of a rendered document. Which fields are meaningful
// depends on Kind.
type Node struct {
	Kind Kind

	// Literal is the leaf content: text, code, TeX source or raw markup.
	Literal string

	// Heading.
	Level int

	// List.
	Ordered bool
	Start   int

	// CheckBox.
	Checked bool

	// Link.
	Dest  string
	Title string

	// CodeBlock.
	Language  string
	Highlight bool
	Theme     Theme

	// TableRow / TableCell.
	Header bool
	Align  string

	Children []Node
}

// PlainText concatenates the literal text below n.
func (n Node) PlainText() string {
	var b strings.Builder
	n.writePlain(&b)
	return b.String()
}

func (n Node) writePlain(b *strings.Builder) {
	if n.Kind == KindLineBreak {
		b.WriteByte('\n')
		return
	}
	b.WriteString(n.Literal)
	for _, c := range n.Children {
		c.writePlain(b)
	}
}
