package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// DeleteSeason clears every section for a season so a re-run always
// writes fresh data.
func (q *Queries) DeleteSeason(ctx context.Context, season int64) error {
	statements := []string{
		`DELETE FROM game_features WHERE game_id IN (SELECT id FROM games WHERE season = ?)`,
		`DELETE FROM games WHERE season = ?`,
		`DELETE FROM team_season_stats WHERE season = ?`,
		`DELETE FROM game_scores WHERE season = ?`,
		`DELETE FROM team_game_logs WHERE season = ?`,
	}
	for _, statement := range statements {
		_, err := q.db.ExecContext(ctx, statement, season)
		if err != nil {
			return err
		}
	}
	return nil
}

type CreateGameParams struct {
	Season   int64
	Week     int64
	HomeTeam string
	AwayTeam string
	Extras   string
}

func (q *Queries) CreateGame(ctx context.Context, params CreateGameParams) (int64, error) {
	result, err := q.db.ExecContext(
		ctx,
		`INSERT INTO games (season, week, home_team, away_team, extras) VALUES (?, ?, ?, ?, ?)`,
		params.Season, params.Week, params.HomeTeam, params.AwayTeam, params.Extras,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

type CreateGameFeatureParams struct {
	GameID int64
	Stat   string
	Home   sql.NullFloat64
	Away   sql.NullFloat64
	Diff   sql.NullFloat64
}

func (q *Queries) CreateGameFeature(ctx context.Context, params CreateGameFeatureParams) error {
	_, err := q.db.ExecContext(
		ctx,
		`INSERT INTO game_features (game_id, stat, home, away, diff) VALUES (?, ?, ?, ?, ?)`,
		params.GameID, params.Stat, params.Home, params.Away, params.Diff,
	)
	return err
}

type CreateTeamSeasonStatParams struct {
	Season int64
	Team   string
	Stat   string
	Value  float64
}

func (q *Queries) CreateTeamSeasonStat(ctx context.Context, params CreateTeamSeasonStatParams) error {
	_, err := q.db.ExecContext(
		ctx,
		`INSERT INTO team_season_stats (season, team, stat, value) VALUES (?, ?, ?, ?)`,
		params.Season, params.Team, params.Stat, params.Value,
	)
	return err
}

type CreateGameScoreParams struct {
	Season      int64
	Week        int64
	HomeTeam    string
	AwayTeam    string
	HomeScore   int64
	AwayScore   int64
	BoxscoreUrl string
}

func (q *Queries) CreateGameScore(ctx context.Context, params CreateGameScoreParams) error {
	_, err := q.db.ExecContext(
		ctx,
		`INSERT INTO game_scores (season, week, home_team, away_team, home_score, away_score, boxscore_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		params.Season, params.Week, params.HomeTeam, params.AwayTeam,
		params.HomeScore, params.AwayScore, params.BoxscoreUrl,
	)
	return err
}

type CreateTeamGameLogRowParams struct {
	Season   int64
	Team     string
	GameIdx  int64
	Week     int64
	Opponent string
	Home     bool
	Stat     string
	Value    float64
}

func (q *Queries) CreateTeamGameLogRow(ctx context.Context, params CreateTeamGameLogRowParams) error {
	_, err := q.db.ExecContext(
		ctx,
		`INSERT INTO team_game_logs (season, team, game_idx, week, opponent, home, stat, value)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		params.Season, params.Team, params.GameIdx, params.Week,
		params.Opponent, params.Home, params.Stat, params.Value,
	)
	return err
}

type Game struct {
	ID       int64
	Season   int64
	Week     int64
	HomeTeam string
	AwayTeam string
	Extras   string
}

func (q *Queries) GetGames(ctx context.Context, season int64) ([]Game, error) {
	rows, err := q.db.QueryContext(
		ctx,
		`SELECT id, season, week, home_team, away_team, extras FROM games WHERE season = ? ORDER BY id`,
		season,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		var g Game
		err := rows.Scan(&g.ID, &g.Season, &g.Week, &g.HomeTeam, &g.AwayTeam, &g.Extras)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

type GameFeature struct {
	GameID int64
	Stat   string
	Home   sql.NullFloat64
	Away   sql.NullFloat64
	Diff   sql.NullFloat64
}

func (q *Queries) GetGameFeatures(ctx context.Context, gameID int64) ([]GameFeature, error) {
	rows, err := q.db.QueryContext(
		ctx,
		`SELECT game_id, stat, home, away, diff FROM game_features WHERE game_id = ? ORDER BY stat`,
		gameID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var features []GameFeature
	for rows.Next() {
		var f GameFeature
		err := rows.Scan(&f.GameID, &f.Stat, &f.Home, &f.Away, &f.Diff)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

type TeamSeasonStatRow struct {
	Season int64
	Team   string
	Stat   string
	Value  float64
}

func (q *Queries) GetTeamSeasonStats(ctx context.Context, season int64) ([]TeamSeasonStatRow, error) {
	rows, err := q.db.QueryContext(
		ctx,
		`SELECT season, team, stat, value FROM team_season_stats WHERE season = ? ORDER BY team, stat`,
		season,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []TeamSeasonStatRow
	for rows.Next() {
		var s TeamSeasonStatRow
		err := rows.Scan(&s.Season, &s.Team, &s.Stat, &s.Value)
		if err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

type GameScoreRow struct {
	Season      int64
	Week        int64
	HomeTeam    string
	AwayTeam    string
	HomeScore   int64
	AwayScore   int64
	BoxscoreUrl string
}

func (q *Queries) GetGameScores(ctx context.Context, season int64) ([]GameScoreRow, error) {
	rows, err := q.db.QueryContext(
		ctx,
		`SELECT season, week, home_team, away_team, home_score, away_score, boxscore_url
		 FROM game_scores WHERE season = ? ORDER BY week, home_team`,
		season,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []GameScoreRow
	for rows.Next() {
		var s GameScoreRow
		err := rows.Scan(&s.Season, &s.Week, &s.HomeTeam, &s.AwayTeam, &s.HomeScore, &s.AwayScore, &s.BoxscoreUrl)
		if err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

func (q *Queries) CountTeamGameLogRows(ctx context.Context, season int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM team_game_logs WHERE season = ?`,
		season,
	).Scan(&count)
	return count, err
}
