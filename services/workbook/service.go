package workbook

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"pfstats-backend/lib/scrapers/pfr"
	"pfstats-backend/services/workbook/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("pfstats.services.workbook")

// StatsSource is the slice of the scraper the integrator needs; tests
// substitute fixture data for the live site.
type StatsSource interface {
	TeamStats(ctx context.Context, season int) ([]pfr.TeamSeasonStats, error)
	GameScores(ctx context.Context, season int, week int) ([]pfr.GameScore, error)
	TeamGameLog(ctx context.Context, team string, season int) (pfr.TeamGameLog, error)
	Requests() int64
}

type Service struct {
	source StatsSource
	db     *sql.DB
	qry    *db.Queries
}

func NewService(source StatsSource, database *sql.DB) Service {
	return Service{
		source: source,
		db:     database,
		qry:    db.New(database),
	}
}

type EnrichOptions struct {
	Season         int
	ScrapeGameLogs bool
	// SampleLimit > 0 restricts the run to the first N source rows,
	// used by the CLI's test mode.
	SampleLimit int
}

// Summary is the end-of-run report. Failures that did not abort the run
// are collected here rather than silently dropped.
type Summary struct {
	Season          int
	Games           int
	FeatureColumns  int
	Requests        int64
	TeamsResolved   int
	TeamsMissing    []string
	MissingCells    int
	GameLogsScraped int
	Failures        []string
}

// Enrich runs one full integration pass: scrape season stats, join them
// onto every source game row as home/away/differential columns, and
// persist all sections to the output database. The source rows are
// never mutated. A failed season-stats scrape aborts the run since
// nothing can be enriched without it; a failed game-log or scores
// scrape is recorded in the summary and the run continues.
func (s Service) Enrich(ctx context.Context, rows []SourceRow, opts EnrichOptions) (Summary, error) {
	ctx, span := tracer.Start(ctx, "service:Enrich")
	defer span.End()

	summary := Summary{
		Season:         opts.Season,
		FeatureColumns: 3 * len(pfr.TrackedStats),
	}

	// rows from another season would join against the wrong stats and
	// survive the season-scoped cleanup on re-runs
	matched := make([]SourceRow, 0, len(rows))
	for _, row := range rows {
		if row.Season != opts.Season {
			slog.WarnContext(ctx, "skipping source row from another season", "row_season", row.Season, "week", row.Week)
			summary.Failures = append(summary.Failures, fmt.Sprintf("week %d row has season %d, not %d, skipped", row.Week, row.Season, opts.Season))
			continue
		}
		matched = append(matched, row)
	}
	rows = matched

	if opts.SampleLimit > 0 && len(rows) > opts.SampleLimit {
		slog.InfoContext(ctx, "sampling source dataset", "limit", opts.SampleLimit, "total", len(rows))
		rows = rows[:opts.SampleLimit]
	}

	stats, err := s.source.TeamStats(ctx, opts.Season)
	if err != nil {
		span.SetStatus(codes.Error, "season stats scrape failed")
		return summary, fmt.Errorf("scrape season stats: %w", err)
	}
	statsByTeam := map[string]pfr.TeamSeasonStats{}
	for _, team := range stats {
		statsByTeam[team.Team] = team
	}

	scores, err := s.source.GameScores(ctx, opts.Season, 0)
	if err != nil {
		// auxiliary section, the enrichment itself can still proceed
		slog.WarnContext(ctx, "failed to scrape game scores", "err", err)
		summary.Failures = append(summary.Failures, fmt.Sprintf("game scores: %s", err))
	}

	var gameLogs []pfr.TeamGameLog
	if opts.ScrapeGameLogs {
		for _, team := range sortedTeams(rows) {
			log, err := s.source.TeamGameLog(ctx, team, opts.Season)
			if err != nil {
				// one team failing should not cost us the other 31
				slog.WarnContext(ctx, "failed to scrape team gamelog", "team", team, "err", err)
				summary.Failures = append(summary.Failures, fmt.Sprintf("gamelog %s: %s", team, err))
				continue
			}
			gameLogs = append(gameLogs, log)
		}
		summary.GameLogsScraped = len(gameLogs)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, err
	}
	defer tx.Rollback()
	qry := s.qry.WithTx(tx)

	err = qry.DeleteSeason(ctx, int64(opts.Season))
	if err != nil {
		return summary, err
	}

	err = s.writeTeamSeasonStats(ctx, qry, stats)
	if err != nil {
		return summary, err
	}

	missingTeams := map[string]bool{}
	resolvedTeams := map[string]bool{}
	for _, row := range rows {
		err := s.writeEnrichedGame(ctx, qry, row, statsByTeam, &summary, missingTeams, resolvedTeams)
		if err != nil {
			return summary, err
		}
	}
	summary.Games = len(rows)
	summary.TeamsResolved = len(resolvedTeams)
	for team := range missingTeams {
		summary.TeamsMissing = append(summary.TeamsMissing, team)
	}
	sort.Strings(summary.TeamsMissing)

	err = s.writeGameScores(ctx, qry, scores)
	if err != nil {
		return summary, err
	}
	err = s.writeGameLogs(ctx, qry, gameLogs)
	if err != nil {
		return summary, err
	}

	err = tx.Commit()
	if err != nil {
		return summary, err
	}

	summary.Requests = s.source.Requests()
	slog.InfoContext(
		ctx, "enrichment complete",
		"season", opts.Season,
		"games", summary.Games,
		"teams_missing", len(summary.TeamsMissing),
		"missing_cells", summary.MissingCells,
		"requests", summary.Requests,
	)
	return summary, nil
}

// distinct teams across both sides of the source rows, sorted so runs
// are deterministic
func sortedTeams(rows []SourceRow) []string {
	seen := map[string]bool{}
	var teams []string
	for _, row := range rows {
		for _, team := range []string{row.HomeTeam, row.AwayTeam} {
			if !seen[team] {
				seen[team] = true
				teams = append(teams, team)
			}
		}
	}
	sort.Strings(teams)
	return teams
}

func (s Service) writeTeamSeasonStats(ctx context.Context, qry *db.Queries, stats []pfr.TeamSeasonStats) error {
	for _, team := range stats {
		for _, stat := range pfr.TrackedStats {
			value, ok := team.Stats[stat]
			if !ok {
				continue
			}
			err := qry.CreateTeamSeasonStat(ctx, db.CreateTeamSeasonStatParams{
				Season: int64(team.Season),
				Team:   team.Team,
				Stat:   stat,
				Value:  value,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (s Service) writeEnrichedGame(
	ctx context.Context,
	qry *db.Queries,
	row SourceRow,
	statsByTeam map[string]pfr.TeamSeasonStats,
	summary *Summary,
	missingTeams map[string]bool,
	resolvedTeams map[string]bool,
) error {
	extras, err := json.Marshal(row.Extras)
	if err != nil {
		return err
	}
	gameId, err := qry.CreateGame(ctx, db.CreateGameParams{
		Season:   int64(row.Season),
		Week:     int64(row.Week),
		HomeTeam: row.HomeTeam,
		AwayTeam: row.AwayTeam,
		Extras:   string(extras),
	})
	if err != nil {
		return err
	}

	homeStats, homeOk := statsByTeam[row.HomeTeam]
	awayStats, awayOk := statsByTeam[row.AwayTeam]
	if homeOk {
		resolvedTeams[row.HomeTeam] = true
	} else {
		missingTeams[row.HomeTeam] = true
	}
	if awayOk {
		resolvedTeams[row.AwayTeam] = true
	} else {
		missingTeams[row.AwayTeam] = true
	}

	for _, stat := range pfr.TrackedStats {
		home := statCell(homeStats, homeOk, stat)
		away := statCell(awayStats, awayOk, stat)
		diff := Diff(home, away)

		for _, cell := range []Cell{home, away, diff} {
			if !cell.Valid {
				summary.MissingCells++
			}
		}

		err := qry.CreateGameFeature(ctx, db.CreateGameFeatureParams{
			GameID: gameId,
			Stat:   stat,
			Home:   home.NullFloat64(),
			Away:   away.NullFloat64(),
			Diff:   diff.NullFloat64(),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func statCell(team pfr.TeamSeasonStats, ok bool, stat string) Cell {
	if !ok {
		return Cell{}
	}
	value, ok := team.Stats[stat]
	if !ok {
		return Cell{}
	}
	return Number(value)
}

func (s Service) writeGameScores(ctx context.Context, qry *db.Queries, scores []pfr.GameScore) error {
	for _, score := range scores {
		err := qry.CreateGameScore(ctx, db.CreateGameScoreParams{
			Season:      int64(score.Season),
			Week:        int64(score.Week),
			HomeTeam:    score.HomeTeam,
			AwayTeam:    score.AwayTeam,
			HomeScore:   int64(score.HomeScore),
			AwayScore:   int64(score.AwayScore),
			BoxscoreUrl: score.BoxscoreURL,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s Service) writeGameLogs(ctx context.Context, qry *db.Queries, logs []pfr.TeamGameLog) error {
	for _, log := range logs {
		for idx, game := range log.Games {
			for _, stat := range pfr.TrackedStats {
				value, ok := game.Stats[stat]
				if !ok {
					continue
				}
				err := qry.CreateTeamGameLogRow(ctx, db.CreateTeamGameLogRowParams{
					Season:   int64(log.Season),
					Team:     log.Team,
					GameIdx:  int64(idx),
					Week:     int64(game.Week),
					Opponent: game.Opponent,
					Home:     game.Home,
					Stat:     stat,
					Value:    value,
				})
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}
