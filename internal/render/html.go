package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var classPattern = regexp.MustCompile(`^[A-Za-z0-9 _+#-]+$`)

// htmlPolicy admits exactly the elements and attributes HTML emits.
var htmlPolicy = newHTMLPolicy()

func newHTMLPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "blockquote", "hr", "br",
		"table", "thead", "tbody", "tr", "th", "td",
		"em", "strong", "del", "code", "pre", "span", "div",
	)
	p.AllowAttrs("start").Matching(bluemonday.Integer).OnElements("ol")
	p.AllowAttrs("class").Matching(classPattern).OnElements("pre", "code", "span", "div", "th", "td", "li")
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(true)
	return p
}

// HTML formats nodes as sanitized HTML. Highlighted code uses chroma CSS
// classes; see StyleSheet.
func HTML(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		writeHTML(&b, n)
	}
	return htmlPolicy.Sanitize(b.String())
}

func writeHTML(b *strings.Builder, n Node) {
	esc := html.EscapeString

	switch n.Kind {
	case KindParagraph:
		b.WriteString("<p>")
		writeHTMLChildren(b, n)
		b.WriteString("</p>\n")
	case KindHeading:
		level := min(max(n.Level, 1), 6)
		fmt.Fprintf(b, "<h%d>", level)
		writeHTMLChildren(b, n)
		fmt.Fprintf(b, "</h%d>\n", level)
	case KindList:
		tag := "ul"
		if n.Ordered {
			tag = "ol"
		}
		if n.Ordered && n.Start > 1 {
			fmt.Fprintf(b, "<ol start=\"%d\">\n", n.Start)
		} else {
			fmt.Fprintf(b, "<%s>\n", tag)
		}
		writeHTMLChildren(b, n)
		fmt.Fprintf(b, "</%s>\n", tag)
	case KindListItem:
		b.WriteString("<li>")
		writeHTMLChildren(b, n)
		b.WriteString("</li>\n")
	case KindBlockQuote:
		b.WriteString("<blockquote>\n")
		writeHTMLChildren(b, n)
		b.WriteString("</blockquote>\n")
	case KindTable:
		b.WriteString("<table>\n")
		writeHTMLChildren(b, n)
		b.WriteString("</table>\n")
	case KindTableRow:
		b.WriteString("<tr>")
		writeHTMLChildren(b, n)
		b.WriteString("</tr>\n")
	case KindTableCell:
		tag := "td"
		if n.Header {
			tag = "th"
		}
		if n.Align != "" {
			fmt.Fprintf(b, "<%s class=\"align-%s\">", tag, esc(n.Align))
		} else {
			fmt.Fprintf(b, "<%s>", tag)
		}
		writeHTMLChildren(b, n)
		fmt.Fprintf(b, "</%s>", tag)
	case KindThematicBreak:
		b.WriteString("<hr>\n")
	case KindText:
		b.WriteString(esc(n.Literal))
	case KindLineBreak:
		b.WriteString("<br>\n")
	case KindEmphasis:
		b.WriteString("<em>")
		writeHTMLChildren(b, n)
		b.WriteString("</em>")
	case KindStrong:
		b.WriteString("<strong>")
		writeHTMLChildren(b, n)
		b.WriteString("</strong>")
	case KindStrikethrough:
		b.WriteString("<del>")
		writeHTMLChildren(b, n)
		b.WriteString("</del>")
	case KindLink:
		if n.Dest == "" {
			writeHTMLChildren(b, n)
			return
		}
		fmt.Fprintf(b, "<a href=\"%s\"", esc(n.Dest))
		if n.Title != "" {
			fmt.Fprintf(b, " title=\"%s\"", esc(n.Title))
		}
		b.WriteString(">")
		writeHTMLChildren(b, n)
		b.WriteString("</a>")
	case KindCheckBox:
		if n.Checked {
			b.WriteString("☑ ")
		} else {
			b.WriteString("☐ ")
		}
	case KindCode:
		b.WriteString("<code>")
		b.WriteString(esc(n.Literal))
		b.WriteString("</code>")
	case KindCodeBlock:
		fmt.Fprintf(b, "<div class=\"codeblock language-%s theme-%s\">", esc(n.Language), n.Theme)
		out, err := Highlight(n.Literal, n.Language, n.Theme, FormatHTML)
		if err != nil {
			b.WriteString("<pre><code>" + esc(n.Literal) + "</code></pre>")
		} else {
			b.WriteString(out)
		}
		b.WriteString("</div>\n")
	case KindPlainCodeBlock:
		b.WriteString("<pre><code>")
		b.WriteString(esc(n.Literal))
		b.WriteString("</code></pre>\n")
	case KindInlineMath:
		b.WriteString("<span class=\"math inline\">")
		b.WriteString(esc(n.Literal))
		b.WriteString("</span>")
	case KindBlockMath:
		b.WriteString("<div class=\"math display\">")
		b.WriteString(esc(n.Literal))
		b.WriteString("</div>\n")
	case KindRawMarkup:
		b.WriteString(esc(n.Literal))
	}
}

func writeHTMLChildren(b *strings.Builder, n Node) {
	for _, c := range n.Children {
		writeHTML(b, c)
	}
}
