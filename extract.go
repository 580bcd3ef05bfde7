package main

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// inlineMathRe matches $...$ spans in running text.
var inlineMathRe = regexp.MustCompile(`\$([^$]+)\$`)

// ExtractFormulas pulls LaTeX formula sources out of an HTML or XHTML
// document, in this order: <script type="math/tex"> bodies (MathJax),
// MathML <annotation encoding="application/x-tex"> bodies, alt text of
// images classed as math, and $...$ spans in the remaining text. If the
// document cannot be parsed at all the input degrades to a plain $...$
// scan; malformed markup never causes a failure.
func ExtractFormulas(doc string) ([]string, error) {
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return scanInlineMath(doc), nil
	}

	var formulas []string
	add := func(f string) {
		if f = strings.TrimSpace(f); f != "" {
			formulas = append(formulas, f)
		}
	}

	parsed.Find(`script[type^="math/tex"]`).Each(func(i int, s *goquery.Selection) {
		add(s.Text())
	})

	parsed.Find(`annotation[encoding="application/x-tex"]`).Each(func(i int, s *goquery.Selection) {
		add(s.Text())
	})

	parsed.Find("img[alt]").Each(func(i int, s *goquery.Selection) {
		if isMathImage(s.Get(0)) {
			add(s.AttrOr("alt", ""))
		}
	})

	for _, root := range parsed.Nodes {
		collectInlineMath(root, add)
	}

	return formulas, nil
}

// collectInlineMath walks text nodes looking for $...$ spans, skipping
// script and annotation subtrees whose bodies were already harvested.
func collectInlineMath(n *html.Node, add func(string)) {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "annotation") {
		return
	}
	if n.Type == html.TextNode {
		for _, m := range inlineMathRe.FindAllStringSubmatch(n.Data, -1) {
			add(m[1])
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectInlineMath(c, add)
	}
}

// isMathImage reports whether an image node is classed as rendered math.
func isMathImage(n *html.Node) bool {
	if n == nil {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == "class" {
			class := strings.ToLower(a.Val)
			return strings.Contains(class, "math") || strings.Contains(class, "latex")
		}
	}
	return false
}

// scanInlineMath is the parse-failure fallback: a raw $...$ scan.
func scanInlineMath(text string) []string {
	var formulas []string
	for _, m := range inlineMathRe.FindAllStringSubmatch(text, -1) {
		if f := strings.TrimSpace(m[1]); f != "" {
			formulas = append(formulas, f)
		}
	}
	return formulas
}
