package wiki

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hyperjump/wikitime/pkg/utils"
	"golang.org/x/net/html"
)

// Elements that carry no article prose.
const noiseSelector = "script, style, sup.reference, .mw-editsection, .navbox, .reflist"

// Elements whose boundaries separate words.
var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true, "dl": true, "dd": true, "dt": true,
	"table": true, "tr": true, "td": true, "th": true, "caption": true, "br": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "figure": true, "figcaption": true, "section": true,
}

// PlainText strips markup from an HTML fragment for indexing and snippets. Unparseable
// input is returned with whitespace collapsed.
func PlainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return utils.CollapseSpace(fragment)
	}
	doc.Find(noiseSelector).Remove()

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte(' ')
		}
	}
	for _, n := range doc.Find("body").Nodes {
		walk(n)
	}
	return utils.CollapseSpace(b.String())
}

// DocumentTitle returns the page title of a saved HTML article: the <title> element, else
// the first h1 (MediaWiki's firstHeading). Empty when neither exists.
func DocumentTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		// Saved Wikipedia pages carry "Title - Wikipedia".
		return utils.CollapseSpace(strings.TrimSuffix(t, " - Wikipedia"))
	}
	return utils.CollapseSpace(doc.Find("h1").First().Text())
}
