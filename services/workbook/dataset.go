package workbook

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// SourceRow is one game from the read-only input dataset. Columns
// beyond the required four are carried through to the output untouched.
type SourceRow struct {
	Season   int
	Week     int
	HomeTeam string
	AwayTeam string
	Extras   map[string]string
}

var requiredColumns = []string{"season", "week", "home_team", "away_team"}

// LoadDataset reads the source game dataset from a csv file. The input
// is never written to.
func LoadDataset(path string) ([]SourceRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read %s: no header row", path)
	}

	header := records[0]
	columns := map[string]int{}
	for idx, name := range header {
		columns[name] = idx
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("read %s: missing required column %q", path, name)
		}
	}

	var rows []SourceRow
	for lineNo, record := range records[1:] {
		season, err := strconv.Atoi(record[columns["season"]])
		if err != nil {
			return nil, fmt.Errorf("read %s row %d: bad season: %w", path, lineNo+2, err)
		}
		week, err := strconv.Atoi(record[columns["week"]])
		if err != nil {
			return nil, fmt.Errorf("read %s row %d: bad week: %w", path, lineNo+2, err)
		}

		row := SourceRow{
			Season:   season,
			Week:     week,
			HomeTeam: record[columns["home_team"]],
			AwayTeam: record[columns["away_team"]],
			Extras:   map[string]string{},
		}
		for idx, name := range header {
			switch name {
			case "season", "week", "home_team", "away_team":
				continue
			}
			if idx < len(record) {
				row.Extras[name] = record[idx]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
