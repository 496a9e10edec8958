package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const statTable = `
<table id="team_stats">
  <thead><tr><th data-stat="team">Tm</th><th data-stat="points">PF</th></tr></thead>
  <tbody>
    <tr><td data-stat="team">Buffalo Bills</td><td data-stat="points">451</td></tr>
    <tr><td data-stat="team">Detroit Lions</td><td data-stat="points">461</td></tr>
  </tbody>
</table>`

func parseDoc(t *testing.T, body string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		"<html><body>" + body + "</body></html>",
	))
	require.NoError(t, err)
	return doc
}

func tableCells(t *testing.T, table *goquery.Selection) []string {
	var cells []string
	table.Find("td").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, CellText(cell))
	})
	return cells
}

func TestCellTextNestedMarkup(t *testing.T) {
	doc := parseDoc(t, `<table id="t"><tbody><tr>
<td data-stat="team"><a href="/teams/rai/2023.htm"><strong>Las Vegas</strong> Raiders</a></td>
</tr></tbody></table>`)

	cell := doc.Find(`td[data-stat="team"]`)
	require.Equal(t, "Las Vegas Raiders", CellText(cell))
}

func TestGetText(t *testing.T) {
	doc := parseDoc(t, `<p id="p">a <em>b</em> c</p>`)
	sel := doc.Find("#p")
	require.Len(t, sel.Nodes, 1)
	require.Equal(t, "a b c", GetText(sel.Nodes[0]))
}

func TestCommentedTableEqualsDirectTable(t *testing.T) {
	direct := parseDoc(t, statTable)
	commented := parseDoc(t, "<div><!--\n"+statTable+"\n--></div>")

	directTables := TablesById(direct)
	commentedTables := TablesById(commented)

	require.Contains(t, directTables, "team_stats")
	require.Contains(t, commentedTables, "team_stats")
	require.Equal(
		t,
		tableCells(t, directTables["team_stats"]),
		tableCells(t, commentedTables["team_stats"]),
	)
}

func TestVisibleTableTakesPriority(t *testing.T) {
	doc := parseDoc(t, `
<table id="games"><tbody><tr><td>visible</td></tr></tbody></table>
<!-- <table id="games"><tbody><tr><td>hidden</td></tr></tbody></table> -->`)

	tables := TablesById(doc)
	require.Contains(t, tables, "games")
	require.Equal(t, []string{"visible"}, tableCells(t, tables["games"]))
}

func TestTablesWithoutIdIgnored(t *testing.T) {
	doc := parseDoc(t, `<table><tbody><tr><td>anonymous</td></tr></tbody></table>`)
	require.Empty(t, TablesById(doc))
}

func TestMultipleCommentTables(t *testing.T) {
	doc := parseDoc(t, `
<!-- <table id="one"><tbody><tr><td>1</td></tr></tbody></table> -->
<p>interlude</p>
<!-- <table id="two"><tbody><tr><td>2</td></tr></tbody></table> -->`)

	tables := TablesById(doc)
	require.Len(t, tables, 2)
	require.Contains(t, tables, "one")
	require.Contains(t, tables, "two")
}
