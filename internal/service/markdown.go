package service

import "github.com/russross/blackfriday/v2"

// renderMarkdown converts LLM output to HTML for the frontend. Hard line
// breaks are kept because models format lists and paragraphs with single
// newlines.
func renderMarkdown(text string) string {
	if text == "" {
		return ""
	}
	html := blackfriday.Run([]byte(text),
		blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.HardLineBreak))
	return string(html)
}
