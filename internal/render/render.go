package render

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, mathExtension{}),
)

// languagePattern matches the language name at the start of a fence info
// string, e.g. "python", "c++", "objective-c".
var languagePattern = regexp.MustCompile(`^[A-Za-z0-9_+#-]+`)

// Render parses input and returns its block-level nodes. Fenced code blocks
// that name a language become KindCodeBlock nodes highlighted with theme;
// everything else that looks like code stays plain monospace. Render never
// executes or interprets code and returns a fresh tree on every call.
func Render(input string, theme Theme) []Node {
	source := []byte(input)
	doc := markdown.Parser().Parse(text.NewReader(source))
	c := converter{source: source, theme: theme}
	return c.blocks(doc)
}

// LanguageOf extracts the language tag from a fence info string. A
// "language-" class prefix is accepted. It returns "" when none is present.
func LanguageOf(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	word := strings.TrimPrefix(fields[0], "language-")
	return languagePattern.FindString(word)
}

// StripTrailingNewline removes exactly one trailing newline.
func StripTrailingNewline(s string) string {
	return strings.TrimSuffix(s, "\n")
}

type converter struct {
	source []byte
	theme  Theme
}

func (c *converter) blocks(parent ast.Node) []Node {
	var out []Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch n.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			out = append(out, c.paragraph(n)...)
		default:
			out = append(out, c.block(n))
		}
	}
	return out
}

func (c *converter) block(n ast.Node) Node {
	switch n := n.(type) {
	case *ast.Heading:
		return Node{Kind: KindHeading, Level: n.Level, Children: c.inlines(n)}
	case *ast.List:
		start := 0
		if n.IsOrdered() {
			start = n.Start
		}
		return Node{Kind: KindList, Ordered: n.IsOrdered(), Start: start, Children: c.blocks(n)}
	case *ast.ListItem:
		return Node{Kind: KindListItem, Children: c.blocks(n)}
	case *ast.Blockquote:
		return Node{Kind: KindBlockQuote, Children: c.blocks(n)}
	case *ast.FencedCodeBlock:
		return c.fencedCode(n)
	case *ast.CodeBlock:
		return Node{Kind: KindPlainCodeBlock, Literal: StripTrailingNewline(c.lines(n))}
	case *ast.ThematicBreak:
		return Node{Kind: KindThematicBreak}
	case *ast.HTMLBlock:
		raw := c.lines(n)
		if n.HasClosure() {
			raw += string(n.ClosureLine.Value(c.source))
		}
		return Node{Kind: KindRawMarkup, Literal: StripTrailingNewline(raw)}
	case *east.Table:
		return c.table(n)
	default:
		return Node{Kind: KindParagraph, Children: c.inlines(n)}
	}
}

// paragraph splits a paragraph around its display math, so BlockMath is
// always a sibling of the surrounding paragraphs.
func (c *converter) paragraph(n ast.Node) []Node {
	var out, run []Node
	flush := func() {
		if run = trimEdges(run); len(run) > 0 {
			out = append(out, Node{Kind: KindParagraph, Children: run})
		}
		run = nil
	}
	for _, child := range c.inlines(n) {
		if child.Kind == KindBlockMath {
			flush()
			out = append(out, child)
			continue
		}
		run = append(run, child)
	}
	flush()
	if len(out) == 0 {
		return []Node{{Kind: KindParagraph}}
	}
	return out
}

// trimEdges drops the line breaks and blank text left at either end of a
// paragraph fragment.
func trimEdges(nodes []Node) []Node {
	for len(nodes) > 0 {
		first := &nodes[0]
		if first.Kind == KindText {
			first.Literal = strings.TrimLeft(first.Literal, " \t\r\n")
		}
		if first.Kind == KindLineBreak || (first.Kind == KindText && first.Literal == "") {
			nodes = nodes[1:]
			continue
		}
		break
	}
	for len(nodes) > 0 {
		last := &nodes[len(nodes)-1]
		if last.Kind == KindText {
			last.Literal = strings.TrimRight(last.Literal, " \t\r\n")
		}
		if last.Kind == KindLineBreak || (last.Kind == KindText && last.Literal == "") {
			nodes = nodes[:len(nodes)-1]
			continue
		}
		break
	}
	return nodes
}

func (c *converter) fencedCode(n *ast.FencedCodeBlock) Node {
	literal := StripTrailingNewline(c.lines(n))

	var lang string
	if n.Info != nil {
		lang = LanguageOf(string(n.Info.Segment.Value(c.source)))
	}
	if lang == "" {
		return Node{Kind: KindPlainCodeBlock, Literal: literal}
	}
	return Node{
		Kind:      KindCodeBlock,
		Language:  lang,
		Literal:   literal,
		Highlight: true,
		Theme:     c.theme,
	}
}

func (c *converter) table(n *east.Table) Node {
	tbl := Node{Kind: KindTable}
	for r := n.FirstChild(); r != nil; r = r.NextSibling() {
		_, header := r.(*east.TableHeader)
		row := Node{Kind: KindTableRow, Header: header}
		for cell := r.FirstChild(); cell != nil; cell = cell.NextSibling() {
			align := ""
			if tc, ok := cell.(*east.TableCell); ok && tc.Alignment != east.AlignNone {
				align = tc.Alignment.String()
			}
			row.Children = append(row.Children, Node{
				Kind:     KindTableCell,
				Header:   header,
				Align:    align,
				Children: c.inlines(cell),
			})
		}
		tbl.Children = append(tbl.Children, row)
	}
	return tbl
}

func (c *converter) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(c.source))
	}
	return buf.String()
}

func (c *converter) inlines(parent ast.Node) []Node {
	var out []Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = c.appendInline(out, n)
	}
	return mergeText(out)
}

func (c *converter) appendInline(out []Node, n ast.Node) []Node {
	switch n := n.(type) {
	case *ast.Text:
		out = append(out, Node{Kind: KindText, Literal: string(n.Segment.Value(c.source))})
		switch {
		case n.HardLineBreak():
			out = append(out, Node{Kind: KindLineBreak})
		case n.SoftLineBreak():
			out = append(out, Node{Kind: KindText, Literal: "\n"})
		}
	case *ast.String:
		out = append(out, Node{Kind: KindText, Literal: string(n.Value)})
	case *ast.CodeSpan:
		out = append(out, Node{Kind: KindCode, Literal: c.rawText(n)})
	case *ast.Emphasis:
		kind := KindEmphasis
		if n.Level >= 2 {
			kind = KindStrong
		}
		out = append(out, Node{Kind: kind, Children: c.inlines(n)})
	case *ast.Link:
		out = append(out, Node{
			Kind:     KindLink,
			Dest:     SafeURL(string(n.Destination)),
			Title:    string(n.Title),
			Children: c.inlines(n),
		})
	case *ast.AutoLink:
		out = append(out, Node{
			Kind:     KindLink,
			Dest:     SafeURL(string(n.URL(c.source))),
			Children: []Node{{Kind: KindText, Literal: string(n.Label(c.source))}},
		})
	case *ast.Image:
		out = append(out, Node{
			Kind:     KindLink,
			Dest:     SafeURL(string(n.Destination)),
			Title:    string(n.Title),
			Children: c.inlines(n),
		})
	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(c.source))
		}
		out = append(out, Node{Kind: KindRawMarkup, Literal: buf.String()})
	case *mathNode:
		kind := KindInlineMath
		if n.display {
			kind = KindBlockMath
		}
		out = append(out, Node{Kind: kind, Literal: string(n.literal)})
	case *east.Strikethrough:
		out = append(out, Node{Kind: KindStrikethrough, Children: c.inlines(n)})
	case *east.TaskCheckBox:
		out = append(out, Node{Kind: KindCheckBox, Checked: n.IsChecked})
	default:
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			out = c.appendInline(out, child)
		}
	}
	return out
}

func (c *converter) rawText(n ast.Node) string {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch t := child.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(c.source))
		case *ast.String:
			buf.Write(t.Value)
		}
	}
	return buf.String()
}

// mergeText joins adjacent text nodes.
func mergeText(nodes []Node) []Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n.Kind == KindText && len(out) > 0 && out[len(out)-1].Kind == KindText {
			out[len(out)-1].Literal += n.Literal
			continue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var unsafeSchemes = map[string]bool{
	"javascript": true,
	"vbscript":   true,
	"data":       true,
	"file":       true,
}

// SafeURL returns dest unless it uses a scheme that can execute code or
// cannot be parsed, in which case it returns "".
func SafeURL(dest string) string {
	trimmed := strings.TrimSpace(dest)
	u, err := url.Parse(trimmed)
	if err != nil {
		return ""
	}
	if unsafeSchemes[strings.ToLower(u.Scheme)] {
		return ""
	}
	return trimmed
}
