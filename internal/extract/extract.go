package extract

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Document is a simplified representation of extracted page content.
type Document struct {
	Title string
	Text  string
}

// FromHTML extracts readable text from HTML, preferring <main> or <article>,
// falling back to <body>. It preserves headings, paragraphs, list items,
// and pre/code blocks, while skipping obvious boilerplate like <nav> and <footer>.
func FromHTML(input []byte) (Document, error) {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil {
		return Document{}, fmt.Errorf("parse html: %w", err)
	}

	title := strings.TrimSpace(findTitle(node))
	content := findFirst(node, "main")
	if content == nil {
		content = findFirst(node, "article")
	}
	if content == nil {
		content = findFirst(node, "body")
	}
	var tc textCollector
	if content != nil {
		tc.walk(content, false)
	}
	return Document{Title: title, Text: normalizeWhitespace(tc.b.String())}, nil
}

func findTitle(n *html.Node) string {
	head := findFirst(n, "head")
	if head == nil {
		return ""
	}
	t := findFirst(head, "title")
	if t == nil || t.FirstChild == nil {
		return ""
	}
	return t.FirstChild.Data
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if res := findFirst(c, tag); res != nil {
			return res
		}
	}
	return nil
}

// skipped elements never contribute text, including their subtree.
var skipped = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"nav": true, "header": true, "footer": true, "aside": true,
	"iframe": true, "form": true, "svg": true, "button": true,
}

var spaceReplacer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

type textCollector struct {
	b strings.Builder
}

// breakTo ensures the collected text ends with at least n newlines. Nothing is
// written before the first text.
func (tc *textCollector) breakTo(n int) {
	s := tc.b.String()
	if s == "" {
		return
	}
	have := len(s) - len(strings.TrimRight(s, "\n"))
	for ; have < n; have++ {
		tc.b.WriteByte('\n')
	}
}

func (tc *textCollector) walk(n *html.Node, inPre bool) {
	switch n.Type {
	case html.TextNode:
		data := n.Data
		if !inPre {
			data = spaceReplacer.Replace(data)
			// source indentation between blocks
			if strings.TrimSpace(data) == "" {
				s := tc.b.String()
				if s == "" || strings.HasSuffix(s, "\n") || strings.HasSuffix(s, " ") {
					return
				}
				data = " "
			}
		}
		tc.b.WriteString(data)
		return
	case html.ElementNode:
		if isBoilerplateContainer(n) {
			return
		}
	}

	name := ""
	if n.Type == html.ElementNode {
		name = strings.ToLower(n.Data)
		if skipped[name] {
			return
		}
		switch name {
		case "br", "hr":
			tc.b.WriteByte('\n')
		case "pre":
			inPre = true
			tc.breakTo(1)
		case "code":
			inPre = true
		case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "ul", "ol", "tr", "dt", "dd", "blockquote", "div", "section":
			tc.breakTo(1)
		case "td", "th":
			tc.b.WriteByte(' ')
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		tc.walk(c, inPre)
	}

	switch name {
	case "p", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote":
		tc.breakTo(2)
	case "li", "tr", "dd", "dt", "pre", "div", "section":
		tc.breakTo(1)
	}
}

// isBoilerplateContainer returns true if the element looks like a cookie/consent banner.
func isBoilerplateContainer(n *html.Node) bool {
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		if key != "id" && key != "class" && !strings.HasPrefix(key, "data-") && key != "aria-label" && key != "role" {
			continue
		}
		val := strings.ToLower(attr.Val)
		if key == "role" && (val == "navigation" || val == "banner" || val == "contentinfo") {
			return true
		}
		if containsAny(val, "cookie", "consent", "gdpr") {
			return true
		}
	}
	return false
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// normalizeWhitespace collapses runs of spaces within lines and keeps at most
// one blank line between blocks.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		collapsed := strings.Join(strings.Fields(line), " ")
		if collapsed == "" {
			if len(out) == 0 || out[len(out)-1] == "" {
				continue
			}
			out = append(out, "")
			continue
		}
		out = append(out, collapsed)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
