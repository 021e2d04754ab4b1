package layout

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// HTMLSource reads pdfminer-style HTML, where every text box is an
// absolutely positioned div carrying "left:Npx; top:Npx" in its style.
type HTMLSource struct{}

// Format returns the source name.
func (HTMLSource) Format() string { return "html" }

// Extensions returns the file extensions this source reads.
func (HTMLSource) Extensions() []string { return []string{".html", ".htm"} }

// Read parses the markup and returns one fragment per positioned div.
func (HTMLSource) Read(r io.Reader) ([]Fragment, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	var frags []Fragment
	collectDivs(doc, &frags)
	return frags, nil
}

func collectDivs(n *html.Node, frags *[]Fragment) {
	if n.Type == html.ElementNode && n.Data == "div" {
		if x, y, ok := divOffsets(n); ok {
			if text := normalizeLines(textContent(n)); text != "" {
				*frags = append(*frags, Fragment{Text: text, X: x, Y: y})
			}
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectDivs(c, frags)
	}
}

// divOffsets reads left and top from the style attribute. Both must be present.
func divOffsets(n *html.Node) (x, y int, ok bool) {
	var style string
	for _, attr := range n.Attr {
		if attr.Key == "style" {
			style = attr.Val
			break
		}
	}
	if style == "" {
		return 0, 0, false
	}
	var hasX, hasY bool
	for _, decl := range strings.Split(style, ";") {
		key, val, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		px, err := parsePixels(val)
		if err != nil {
			continue
		}
		switch strings.TrimSpace(strings.ToLower(key)) {
		case "left":
			x, hasX = px, true
		case "top":
			y, hasY = px, true
		}
	}
	return x, y, hasX && hasY
}

func parsePixels(val string) (int, error) {
	val = strings.TrimSuffix(strings.TrimSpace(val), "px")
	return strconv.Atoi(val)
}

// textContent concatenates descendant text, turning <br> into newlines.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			sb.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// normalizeLines trims every line and drops empty ones.
func normalizeLines(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
