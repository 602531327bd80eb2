package render

import (
	"bytes"
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// kindMath is the goldmark node kind for $...$ and $$...$$ spans.
var kindMath = ast.NewNodeKind("Math")

type mathNode struct {
	ast.BaseInline
	literal []byte
	display bool
}

func (n *mathNode) Kind() ast.NodeKind { return kindMath }

func (n *mathNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Literal": string(n.literal),
		"Display": strconv.FormatBool(n.display),
	}, nil)
}

// mathParser recognizes TeX delimited by $ (inline, single line) and $$
// (may span lines within a paragraph). $$ is display math only when it
// opens a paragraph line; elsewhere it is inline. An inline opener followed
// by a space, a closer preceded by a space or followed by a digit, and an
// unterminated delimiter all leave the dollar sign as literal text.
type mathParser struct{}

func (mathParser) Trigger() []byte { return []byte{'$'} }

func (mathParser) Parse(parent ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, seg := block.PeekLine()
	if len(line) >= 2 && line[1] == '$' {
		return parseDoubleDollar(block, opensLine(parent, block.Source(), seg.Start))
	}
	return parseInlineMath(block, line)
}

// opensLine reports whether offset is the first non-blank byte of one of
// the lines of a paragraph.
func opensLine(parent ast.Node, source []byte, offset int) bool {
	switch parent.(type) {
	case *ast.Paragraph, *ast.TextBlock:
	default:
		return false
	}
	lines := parent.Lines()
	for i := 0; i < lines.Len(); i++ {
		start := lines.At(i).Start
		for start < offset && (source[start] == ' ' || source[start] == '\t') {
			start++
		}
		if start == offset {
			return true
		}
	}
	return false
}

func parseInlineMath(block text.Reader, line []byte) ast.Node {
	if len(line) < 3 || isSpace(line[1]) {
		return nil
	}
	for i := 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '\n', '\r':
			return nil
		case '$':
			if isSpace(line[i-1]) {
				continue
			}
			if i+1 < len(line) && line[i+1] >= '0' && line[i+1] <= '9' {
				continue
			}
			node := &mathNode{literal: bytes.Clone(line[1:i])}
			block.Advance(i + 1)
			return node
		}
	}
	return nil
}

func parseDoubleDollar(block text.Reader, display bool) ast.Node {
	savedLine, savedPos := block.Position()
	block.Advance(2)

	var buf []byte
	for {
		line, _ := block.PeekLine()
		if line == nil {
			block.SetPosition(savedLine, savedPos)
			return nil
		}
		if idx := bytes.Index(line, []byte("$$")); idx >= 0 {
			buf = append(buf, line[:idx]...)
			block.Advance(idx + 2)
			return &mathNode{literal: bytes.TrimSpace(buf), display: display}
		}
		buf = append(buf, line...)
		block.AdvanceLine()
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// mathExtension registers mathParser with a goldmark instance.
type mathExtension struct{}

func (mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(mathParser{}, 150),
	))
}
