package pfr

import (
	"strconv"
	"strings"

	"pfstats-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// columns lifted straight off the season offense table, keyed by the
// site's data-stat attribute
var scrapedStats = []string{
	"g",
	"points",
	"total_yards",
	"plays_offense",
	"yds_per_play_offense",
	"turnovers",
	"fumbles_lost",
	"first_down",
	"pass_cmp",
	"pass_att",
	"pass_yds",
	"pass_td",
	"pass_int",
	"pass_net_yds_per_att",
	"pass_fd",
	"rush_att",
	"rush_yds",
	"rush_td",
	"rush_yds_per_att",
	"rush_fd",
	"penalties",
	"penalties_yds",
	"pen_fd",
	"score_pct",
	"turnover_pct",
	"exp_pts_tot",
}

// per-game ratios computed at parse time from the scraped columns
var derivedStats = []string{
	"points_per_game",
	"yards_per_game",
	"turnovers_per_game",
}

// TrackedStats is the full statistic schema: every enriched game row
// gets a home, away and differential column per entry.
var TrackedStats = append(append([]string{}, scrapedStats...), derivedStats...)

// rowCells indexes a table row's cells by their data-stat attribute.
func rowCells(tr *goquery.Selection) map[string]*goquery.Selection {
	cells := map[string]*goquery.Selection{}
	tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
		stat := cell.AttrOr("data-stat", "")
		if stat != "" {
			cells[stat] = cell
		}
	})
	return cells
}

// cellFloat parses a numeric cell. ok is false for absent or non-numeric
// cells, the stat is then simply left out of the row.
func cellFloat(cells map[string]*goquery.Selection, stat string) (float64, bool) {
	cell, ok := cells[stat]
	if !ok {
		return 0, false
	}
	text := strings.ReplaceAll(htmlutil.CellText(cell), ",", "")
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func cellInt(cells map[string]*goquery.Selection, stat string) (int, bool) {
	v, ok := cellFloat(cells, stat)
	return int(v), ok
}

// teamCodeFromHref extracts the franchise code from a team link such as
// /teams/sdg/2023.htm
func teamCodeFromHref(href string) string {
	parts := strings.Split(strings.Trim(href, "/"), "/")
	if len(parts) < 2 || parts[0] != "teams" {
		return ""
	}
	return parts[1]
}

func scrapeStatRow(cells map[string]*goquery.Selection) map[string]float64 {
	stats := map[string]float64{}
	for _, stat := range scrapedStats {
		v, ok := cellFloat(cells, stat)
		if !ok {
			continue
		}
		stats[stat] = v
	}

	games, ok := stats["g"]
	if !ok || games <= 0 {
		return stats
	}
	if points, ok := stats["points"]; ok {
		stats["points_per_game"] = points / games
	}
	if yards, ok := stats["total_yards"]; ok {
		stats["yards_per_game"] = yards / games
	}
	if turnovers, ok := stats["turnovers"]; ok {
		stats["turnovers_per_game"] = turnovers / games
	}
	return stats
}
