package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// Format selects a highlighting output format.
type Format int

const (
	FormatANSI Format = iota
	FormatHTML
)

// StyleName returns the chroma style used for theme.
func StyleName(theme Theme) string {
	if theme == ThemeDark {
		return "monokai"
	}
	return "vs"
}

// Highlight applies syntax highlighting to code. Unknown languages fall
// back to plain text with the theme's base colors.
func Highlight(code, language string, theme Theme, format Format) (string, error) {
	lexer := lexers.Get(strings.ToLower(language))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(StyleName(theme))
	if style == nil {
		style = chromaStyles.Fallback
	}

	var formatter chroma.Formatter
	switch format {
	case FormatHTML:
		formatter = chromahtml.New(chromahtml.WithClasses(true))
	default:
		formatter = formatters.Get("terminal256")
		if formatter == nil {
			formatter = formatters.Fallback
		}
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", language, err)
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", fmt.Errorf("format %s: %w", language, err)
	}
	return buf.String(), nil
}

// StyleSheet returns the CSS for highlighted HTML output in theme.
func StyleSheet(theme Theme) (string, error) {
	style := chromaStyles.Get(StyleName(theme))
	if style == nil {
		style = chromaStyles.Fallback
	}
	var buf bytes.Buffer
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&buf, style); err != nil {
		return "", fmt.Errorf("write css: %w", err)
	}
	return buf.String(), nil
}
