package workbook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempCsv(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "games.csv")
	err := os.WriteFile(path, []byte(contents), 0600)
	require.NoError(t, err)
	return path
}

func TestLoadDataset(t *testing.T) {
	path := writeTempCsv(t, `season,week,home_team,away_team,spread,total
2023,1,KC,DET,-4.5,53
2023,1,NYG,DAL,3.5,45.5
`)

	rows, err := LoadDataset(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, SourceRow{
		Season:   2023,
		Week:     1,
		HomeTeam: "KC",
		AwayTeam: "DET",
		Extras:   map[string]string{"spread": "-4.5", "total": "53"},
	}, rows[0])
	require.Equal(t, "DAL", rows[1].AwayTeam)
}

func TestLoadDatasetMissingColumn(t *testing.T) {
	path := writeTempCsv(t, `season,week,home_team
2023,1,KC
`)

	_, err := LoadDataset(path)
	require.ErrorContains(t, err, "away_team")
}

func TestLoadDatasetBadWeek(t *testing.T) {
	path := writeTempCsv(t, `season,week,home_team,away_team
2023,first,KC,DET
`)

	_, err := LoadDataset(path)
	require.ErrorContains(t, err, "bad week")
}
