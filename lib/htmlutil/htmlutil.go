package htmlutil

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// CellText returns the trimmed text content of a selection.
func CellText(sel *goquery.Selection) string {
	var out strings.Builder
	for _, node := range sel.Nodes {
		out.WriteString(GetText(node))
	}
	return strings.TrimSpace(out.String())
}

// TablesById indexes every table carrying an id attribute, whether it
// appears directly in the document or inside an HTML comment node.
// Reference sites serve data tables inside comments to logged-out
// clients, so each comment is re-parsed as its own document and scanned
// for tables too. When the same id appears both ways the visible table
// wins.
func TablesById(doc *goquery.Document) map[string]*goquery.Selection {
	tables := map[string]*goquery.Selection{}
	collectTables(doc.Selection, tables)

	for _, root := range doc.Nodes {
		collectCommentTables(root, tables)
	}
	return tables
}

func collectTables(sel *goquery.Selection, out map[string]*goquery.Selection) {
	sel.Find("table[id]").Each(func(_ int, table *goquery.Selection) {
		id := table.AttrOr("id", "")
		if id == "" {
			return
		}
		if _, taken := out[id]; taken {
			return
		}
		out[id] = table
	})
}

func collectCommentTables(node *html.Node, out map[string]*goquery.Selection) {
	if node.Type == html.CommentNode {
		if !strings.Contains(node.Data, "<table") {
			return
		}
		inner, err := goquery.NewDocumentFromReader(strings.NewReader(node.Data))
		if err != nil {
			return
		}
		collectTables(inner.Selection, out)
		return
	}

	child := node.FirstChild
	for child != nil {
		collectCommentTables(child, out)
		child = child.NextSibling
	}
}
