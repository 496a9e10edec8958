package pfr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pfstats-backend/lib/ratelimit"
	"pfstats-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

const seasonPage = `<html><body>
<h1>2023 NFL Standings</h1>
<div id="all_team_stats">
<!--
<table id="team_stats">
<thead><tr><th data-stat="ranker">Rk</th><th data-stat="team">Tm</th></tr></thead>
<tbody>
<tr>
  <th data-stat="ranker">1</th>
  <td data-stat="team"><a href="/teams/sdg/2023.htm">Los Angeles Chargers</a></td>
  <td data-stat="g">17</td>
  <td data-stat="points">346</td>
  <td data-stat="total_yards">5602</td>
  <td data-stat="plays_offense">1028</td>
  <td data-stat="turnovers">17</td>
  <td data-stat="pass_yds">3958</td>
  <td data-stat="rush_yds">1644</td>
</tr>
<tr>
  <th data-stat="ranker">2</th>
  <td data-stat="team"><a href="/teams/rai/2023.htm">Las Vegas Raiders</a></td>
  <td data-stat="g">17</td>
  <td data-stat="points">332</td>
  <td data-stat="total_yards">5055</td>
  <td data-stat="plays_offense">1009</td>
  <td data-stat="turnovers">21</td>
  <td data-stat="pass_yds">3424</td>
  <td data-stat="rush_yds">1631</td>
</tr>
<tr class="thead"><td data-stat="team">Tm</td></tr>
<tr>
  <th data-stat="ranker"></th>
  <td data-stat="team">Avg Team</td>
  <td data-stat="points">364.8</td>
</tr>
</tbody>
</table>
-->
</div>
</body></html>`

const gamesPage = `<html><body>
<table id="games">
<tbody>
<tr>
  <th data-stat="week_num">1</th>
  <td data-stat="winner"><a href="/teams/rai/2023.htm">Las Vegas Raiders</a></td>
  <td data-stat="game_location">@</td>
  <td data-stat="loser"><a href="/teams/den/2023.htm">Denver Broncos</a></td>
  <td data-stat="boxscore_word"><a href="/boxscores/202309100den.htm">boxscore</a></td>
  <td data-stat="pts_win">17</td>
  <td data-stat="pts_lose">16</td>
</tr>
<tr>
  <th data-stat="week_num">2</th>
  <td data-stat="winner"><a href="/teams/sdg/2023.htm">Los Angeles Chargers</a></td>
  <td data-stat="game_location"></td>
  <td data-stat="loser"><a href="/teams/oti/2023.htm">Tennessee Titans</a></td>
  <td data-stat="boxscore_word"><a href="/boxscores/202309170sdg.htm">boxscore</a></td>
  <td data-stat="pts_win">27</td>
  <td data-stat="pts_lose">24</td>
</tr>
<tr>
  <th data-stat="week_num">WildCard</th>
  <td data-stat="winner"><a href="/teams/kan/2023.htm">Kansas City Chiefs</a></td>
  <td data-stat="game_location"></td>
  <td data-stat="loser"><a href="/teams/mia/2023.htm">Miami Dolphins</a></td>
  <td data-stat="pts_win">26</td>
  <td data-stat="pts_lose">7</td>
</tr>
</tbody>
</table>
</body></html>`

const gameLogPage = `<html><body>
<!--
<table id="gamelog2023">
<tbody>
<tr>
  <th data-stat="week_num">1</th>
  <td data-stat="game_location">@</td>
  <td data-stat="opp"><a href="/teams/den/2023.htm">Denver Broncos</a></td>
  <td data-stat="points">17</td>
  <td data-stat="pass_yds">200</td>
  <td data-stat="rush_yds">138</td>
</tr>
<tr>
  <th data-stat="week_num">2</th>
  <td data-stat="game_location"></td>
  <td data-stat="opp"><a href="/teams/buf/2023.htm">Buffalo Bills</a></td>
  <td data-stat="points">10</td>
  <td data-stat="pass_yds">185</td>
  <td data-stat="rush_yds">101</td>
</tr>
</tbody>
</table>
-->
</body></html>`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Cleanup(telemetry.SetupForTesting("test:scrapers/pfr"))

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{
		BaseUrl: server.URL,
		Limiter: ratelimit.NewLimiter(ratelimit.Options{
			MaxRequests: 1000,
			Window:      time.Minute,
		}),
	})
	require.NoError(t, err)
	return client
}

func fixtureHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/years/2023/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, seasonPage)
	})
	mux.HandleFunc("/years/2023/games.htm", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, gamesPage)
	})
	mux.HandleFunc("/teams/rai/2023/gamelog/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, gameLogPage)
	})
	return mux
}

func TestTeamStats(t *testing.T) {
	client := newTestClient(t, fixtureHandler())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	stats, err := client.TeamStats(ctx, 2023)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	chargers := stats[0]
	require.Equal(t, "LAC", chargers.Team)
	require.Equal(t, 2023, chargers.Season)
	require.Equal(t, float64(346), chargers.Stats["points"])
	require.Equal(t, float64(5602), chargers.Stats["total_yards"])
	require.InDelta(t, 346.0/17.0, chargers.Stats["points_per_game"], 1e-9)
	require.InDelta(t, 5602.0/17.0, chargers.Stats["yards_per_game"], 1e-9)

	raiders := stats[1]
	require.Equal(t, "LV", raiders.Team)
	require.InDelta(t, 21.0/17.0, raiders.Stats["turnovers_per_game"], 1e-9)

	require.Equal(t, int64(1), client.Requests())
}

func TestTeamStatsTableMissing(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><p>nothing here</p></body></html>")
	}))

	_, err := client.TeamStats(context.Background(), 2023)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "team_stats", parseErr.Table)
}

func TestTeamStatsFetchFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))

	_, err := client.TeamStats(context.Background(), 2023)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, http.StatusTooManyRequests, fetchErr.StatusCode)

	var parseErr *ParseError
	require.False(t, errors.As(err, &parseErr))
}

func TestGameScores(t *testing.T) {
	client := newTestClient(t, fixtureHandler())

	scores, err := client.GameScores(context.Background(), 2023, 0)
	require.NoError(t, err)
	// the WildCard row has a non-numeric week and is skipped
	require.Len(t, scores, 2)

	// winner was away, so home and away flip
	require.Equal(t, GameScore{
		Season:      2023,
		Week:        1,
		HomeTeam:    "DEN",
		AwayTeam:    "LV",
		HomeScore:   16,
		AwayScore:   17,
		BoxscoreURL: "/boxscores/202309100den.htm",
	}, scores[0])

	require.Equal(t, "LAC", scores[1].HomeTeam)
	require.Equal(t, "TEN", scores[1].AwayTeam)
	require.Equal(t, 27, scores[1].HomeScore)
}

func TestGameScoresWeekFilter(t *testing.T) {
	client := newTestClient(t, fixtureHandler())

	scores, err := client.GameScores(context.Background(), 2023, 2)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	require.Equal(t, 2, scores[0].Week)
}

func TestTeamGameLog(t *testing.T) {
	client := newTestClient(t, fixtureHandler())

	log, err := client.TeamGameLog(context.Background(), "LV", 2023)
	require.NoError(t, err)
	require.Equal(t, "LV", log.Team)
	require.Len(t, log.Games, 2)

	require.Equal(t, 1, log.Games[0].Week)
	require.Equal(t, "DEN", log.Games[0].Opponent)
	require.False(t, log.Games[0].Home)
	require.Equal(t, float64(200), log.Games[0].Stats["pass_yds"])

	require.True(t, log.Games[1].Home)
	require.Equal(t, "BUF", log.Games[1].Opponent)

	// one rate-limited request per call
	require.Equal(t, int64(1), client.Requests())
}

func TestTeamGameLogUnknownTeam(t *testing.T) {
	client := newTestClient(t, fixtureHandler())

	_, err := client.TeamGameLog(context.Background(), "SD", 2023)
	require.ErrorIs(t, err, ErrUnknownTeamCode)
	require.Equal(t, int64(0), client.Requests())
}
