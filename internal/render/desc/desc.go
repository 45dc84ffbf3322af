// Package desc turns untrusted episode description HTML into safe,
// collapsible display blocks for the terminal. Sanitization strips
// executable and styling markup; presentation flattens the remaining
// fragment into wrapped text lines.
package desc

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	nethtml "golang.org/x/net/html"
)

// Placeholder is shown when an episode has no description at all.
const Placeholder = "No description available"

// collapsedLeadLines is how much of a collapsed block stays visible.
const collapsedLeadLines = 3

// displayPolicy keeps ordinary content markup and drops script, style
// and event handlers. Everything a feed is likely to put in a
// description (paragraphs, emphasis, links, lists, images) survives.
var displayPolicy = buildDisplayPolicy()

func buildDisplayPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowImages()
	p.AllowAttrs("alt").OnElements("img")
	return p
}

// Sanitize strips unsafe markup from an HTML fragment while keeping
// the remaining structure. It never fails: malformed input degrades to
// whatever the parser salvages, empty input yields empty output.
func Sanitize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return displayPolicy.Sanitize(raw)
}

// Block is a sanitized description ready for display: text lines plus
// collapse state with a single toggle.
type Block struct {
	lines       []string
	collapsible bool
	collapsed   bool
}

// Present sanitizes and flattens a description. The block starts
// collapsed when the raw, pre-sanitization input is longer than
// collapseThreshold; thresholds are per call site, not global. Width
// is the wrapping width for the terminal column.
func Present(raw string, collapseThreshold, width int) Block {
	lines := Lines(raw, width)
	if len(lines) == 0 {
		return Block{lines: []string{Placeholder}}
	}
	collapse := len(raw) > collapseThreshold && len(lines) > collapsedLeadLines
	return Block{lines: lines, collapsible: collapse, collapsed: collapse}
}

// Lines sanitizes raw HTML and renders it to wrapped display lines.
func Lines(raw string, width int) []string {
	return fragmentLines(Sanitize(raw), width)
}

// Toggle flips between collapsed and expanded. It changes nothing else
// and does nothing on a block that never collapses.
func (b *Block) Toggle() {
	if b.collapsible {
		b.collapsed = !b.collapsed
	}
}

func (b Block) Collapsible() bool { return b.collapsible }
func (b Block) Collapsed() bool   { return b.collapsed }

// VisibleLines returns what should currently be shown: every line when
// expanded, the lead lines when collapsed.
func (b Block) VisibleLines() []string {
	if b.collapsed && len(b.lines) > collapsedLeadLines {
		return b.lines[:collapsedLeadLines]
	}
	return b.lines
}

// HiddenLineCount is how many lines the collapsed state is hiding.
func (b Block) HiddenLineCount() int {
	if !b.collapsed {
		return 0
	}
	return len(b.lines) - collapsedLeadLines
}

func fragmentLines(fragment string, width int) []string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil
	}
	if width < 1 {
		width = 80
	}
	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + fragment + "</body></html>"))
	if err != nil {
		return wrapText(fragment, width)
	}
	body := findBody(doc)
	if body == nil {
		return wrapText(fragment, width)
	}
	return trimBlankLines(renderNodes(elementChildren(body), width))
}

func renderNodes(nodes []*nethtml.Node, width int) []string {
	lines := make([]string, 0, len(nodes)*2)
	inline := make([]string, 0, 4)
	flush := func() {
		text := collapseSpace(strings.Join(inline, " "))
		inline = inline[:0]
		if text == "" {
			return
		}
		if len(lines) > 0 && lines[len(lines)-1] != "" {
			lines = append(lines, "")
		}
		lines = append(lines, wrapText(text, width)...)
	}

	for _, node := range nodes {
		switch node.Type {
		case nethtml.TextNode:
			inline = append(inline, node.Data)
		case nethtml.ElementNode:
			if !isBlockElement(node.Data) {
				inline = append(inline, inlineText(node))
				continue
			}
			flush()
			block := renderBlock(node, width)
			if len(block) == 0 {
				continue
			}
			if len(lines) > 0 && lines[len(lines)-1] != "" {
				lines = append(lines, "")
			}
			lines = append(lines, block...)
		}
	}
	flush()
	return lines
}

func renderBlock(node *nethtml.Node, width int) []string {
	switch strings.ToLower(node.Data) {
	case "ul", "ol":
		out := make([]string, 0, 4)
		for _, child := range elementChildren(node) {
			if child.Type != nethtml.ElementNode || !strings.EqualFold(child.Data, "li") {
				continue
			}
			text := collapseSpace(inlineText(child))
			if text == "" {
				continue
			}
			item := wrapText(text, width-2)
			for i, line := range item {
				if i == 0 {
					out = append(out, "- "+line)
				} else {
					out = append(out, "  "+line)
				}
			}
		}
		return out
	case "br", "hr":
		return nil
	case "img":
		if alt := attrValue(node, "alt"); alt != "" {
			return []string{"[image: " + alt + "]"}
		}
		return []string{"[image]"}
	default:
		text := collapseSpace(inlineText(node))
		if text != "" {
			return wrapText(text, width)
		}
		return renderNodes(elementChildren(node), width)
	}
}

// inlineText flattens an element and its descendants to plain text.
func inlineText(node *nethtml.Node) string {
	if node.Type == nethtml.TextNode {
		return node.Data
	}
	if node.Type == nethtml.ElementNode {
		switch strings.ToLower(node.Data) {
		case "br":
			return "\n"
		case "img":
			if alt := attrValue(node, "alt"); alt != "" {
				return "[image: " + alt + "]"
			}
			return ""
		}
	}
	var sb strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		sb.WriteString(inlineText(child))
	}
	return sb.String()
}

func isBlockElement(tag string) bool {
	switch strings.ToLower(tag) {
	case "p", "div", "section", "article", "blockquote", "ul", "ol", "li",
		"h1", "h2", "h3", "h4", "h5", "h6", "pre", "table", "figure", "img", "hr":
		return true
	}
	return false
}

func findBody(node *nethtml.Node) *nethtml.Node {
	if node == nil {
		return nil
	}
	if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "body") {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findBody(child); found != nil {
			return found
		}
	}
	return nil
}

func elementChildren(node *nethtml.Node) []*nethtml.Node {
	children := make([]*nethtml.Node, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.TextNode && strings.TrimSpace(child.Data) == "" {
			continue
		}
		children = append(children, child)
	}
	return children
}

func attrValue(node *nethtml.Node, name string) string {
	for _, attr := range node.Attr {
		if strings.EqualFold(attr.Key, name) {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func trimBlankLines(lines []string) []string {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines) - 1
	for end >= start && strings.TrimSpace(lines[end]) == "" {
		end--
	}
	if end < start {
		return nil
	}
	return lines[start : end+1]
}

func wrapText(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}
	paragraphs := strings.Split(text, "\n")
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		words := strings.Fields(p)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		for _, word := range words {
			for len(word) > width {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				out = append(out, word[:width])
				word = word[width:]
			}
			if line == "" {
				line = word
				continue
			}
			if len(line)+1+len(word) <= width {
				line += " " + word
				continue
			}
			out = append(out, line)
			line = word
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
