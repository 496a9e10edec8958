package pfr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync/atomic"
	"time"

	"pfstats-backend/lib/htmlutil"
	"pfstats-backend/lib/ratelimit"
	"pfstats-backend/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("pfstats.scrapers.pfr")

const DefaultBaseUrl = "https://www.pro-football-reference.com"

const (
	teamStatsTable  = "team_stats"
	gameScoresTable = "games"
)

// gamelog table ids the site has used over the years, tried in order
var gameLogTables = []string{"gamelog", "tgl_basic"}

// TeamSeasonStats is one team's aggregated offense for a season. Stats
// is keyed by entries of TrackedStats, a stat the site did not publish
// is simply absent.
type TeamSeasonStats struct {
	Season int
	Team   string
	Stats  map[string]float64
}

type GameScore struct {
	Season      int
	Week        int
	HomeTeam    string
	AwayTeam    string
	HomeScore   int
	AwayScore   int
	BoxscoreURL string
}

type GameLogRow struct {
	Week     int
	Opponent string
	Home     bool
	Stats    map[string]float64
}

type TeamGameLog struct {
	Season int
	Team   string
	Games  []GameLogRow
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// defaults to 10 requests per minute, 6s apart
	Limiter *ratelimit.Limiter
	// optional raw request/response dump for debugging
	Dump restyutil.InstrumentOutput
}

// Client scrapes the stats site. Every page fetch goes through the rate
// limiter first; the site bans clients that ignore its request budget.
type Client struct {
	baseUrl  *url.URL
	http     *resty.Client
	limiter  *ratelimit.Limiter
	requests atomic.Int64
}

func NewClient(opts ClientOptions) (*Client, error) {
	rawUrl := opts.BaseUrl
	if rawUrl == "" {
		rawUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(rawUrl)
	if err != nil {
		return nil, err
	}

	limiter := opts.Limiter
	if limiter == nil {
		limiter = ratelimit.NewLimiter(ratelimit.Options{
			MaxRequests: 10,
			Window:      time.Minute,
			MinInterval: time.Second * 6,
		})
	}

	client := resty.New()
	client.SetBaseURL(rawUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	restyutil.InstrumentClient(client, "pfstats.scrapers.pfr.http", opts.Dump)

	return &Client{
		baseUrl: baseUrl,
		http:    client,
		limiter: limiter,
	}, nil
}

// Requests reports how many page fetches this client has made.
func (c *Client) Requests() int64 {
	return c.requests.Load()
}

func (c *Client) document(ctx context.Context, path string) (*goquery.Document, string, error) {
	c.limiter.Acquire(ctx)
	c.requests.Add(1)

	pageUrl := c.baseUrl.JoinPath(path).String()

	res, err := c.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, pageUrl, &FetchError{URL: pageUrl, Err: err}
	}
	if res.StatusCode() != http.StatusOK {
		return nil, pageUrl, &FetchError{URL: pageUrl, StatusCode: res.StatusCode()}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, pageUrl, &ParseError{URL: pageUrl, Reason: fmt.Sprintf("invalid html: %s", err)}
	}
	return doc, pageUrl, nil
}

// TeamStats scrapes the aggregated offense table for every team in a
// season. The table is served inside an HTML comment for logged-out
// clients.
func (c *Client) TeamStats(ctx context.Context, season int) ([]TeamSeasonStats, error) {
	ctx, span := tracer.Start(ctx, "client:TeamStats")
	defer span.End()

	doc, pageUrl, err := c.document(ctx, fmt.Sprintf("/years/%d/", season))
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch season page")
		return nil, err
	}

	table, ok := htmlutil.TablesById(doc)[teamStatsTable]
	if !ok {
		span.SetStatus(codes.Error, "team stats table missing")
		return nil, &ParseError{URL: pageUrl, Table: teamStatsTable, Reason: "table not found"}
	}

	var out []TeamSeasonStats
	var rowErr error
	table.Find("tbody tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		if tr.HasClass("thead") {
			return true
		}
		cells := rowCells(tr)
		teamCell, ok := cells["team"]
		if !ok {
			return true
		}
		href := teamCell.Find("a").AttrOr("href", "")
		if href == "" {
			// league average / total rows have no team link
			return true
		}

		internal, err := InternalCode(teamCodeFromHref(href))
		if err != nil {
			rowErr = &ParseError{URL: pageUrl, Table: teamStatsTable, Reason: err.Error()}
			return false
		}

		out = append(out, TeamSeasonStats{
			Season: season,
			Team:   internal,
			Stats:  scrapeStatRow(cells),
		})
		return true
	})
	if rowErr != nil {
		span.SetStatus(codes.Error, rowErr.Error())
		return nil, rowErr
	}
	if len(out) == 0 {
		span.SetStatus(codes.Error, "no team rows")
		return nil, &ParseError{URL: pageUrl, Table: teamStatsTable, Reason: "no team rows"}
	}

	slog.InfoContext(ctx, "scraped team stats", "season", season, "teams", len(out))
	return out, nil
}

// GameScores scrapes the season schedule/results table. Pass week <= 0
// for every week. Rows for games not yet played are skipped.
func (c *Client) GameScores(ctx context.Context, season int, week int) ([]GameScore, error) {
	ctx, span := tracer.Start(ctx, "client:GameScores")
	defer span.End()

	doc, pageUrl, err := c.document(ctx, fmt.Sprintf("/years/%d/games.htm", season))
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch games page")
		return nil, err
	}

	table, ok := htmlutil.TablesById(doc)[gameScoresTable]
	if !ok {
		span.SetStatus(codes.Error, "games table missing")
		return nil, &ParseError{URL: pageUrl, Table: gameScoresTable, Reason: "table not found"}
	}

	var out []GameScore
	var rowErr error
	table.Find("tbody tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := rowCells(tr)

		// playoff rounds and repeated header rows have non-numeric
		// week cells
		rowWeek, ok := cellInt(cells, "week_num")
		if !ok {
			return true
		}
		if week > 0 && rowWeek != week {
			return true
		}

		winnerCell, haveWinner := cells["winner"]
		loserCell, haveLoser := cells["loser"]
		if !haveWinner || !haveLoser {
			rowErr = &ParseError{URL: pageUrl, Table: gameScoresTable, Reason: "winner/loser columns missing"}
			return false
		}

		winnerHref := winnerCell.Find("a").AttrOr("href", "")
		loserHref := loserCell.Find("a").AttrOr("href", "")
		if winnerHref == "" || loserHref == "" {
			// future games have no result yet
			return true
		}

		winner, err := InternalCode(teamCodeFromHref(winnerHref))
		if err != nil {
			rowErr = &ParseError{URL: pageUrl, Table: gameScoresTable, Reason: err.Error()}
			return false
		}
		loser, err := InternalCode(teamCodeFromHref(loserHref))
		if err != nil {
			rowErr = &ParseError{URL: pageUrl, Table: gameScoresTable, Reason: err.Error()}
			return false
		}

		winnerPts, _ := cellInt(cells, "pts_win")
		loserPts, _ := cellInt(cells, "pts_lose")

		score := GameScore{
			Season:    season,
			Week:      rowWeek,
			HomeTeam:  winner,
			AwayTeam:  loser,
			HomeScore: winnerPts,
			AwayScore: loserPts,
		}
		// an @ in the location column means the winner played away
		if location, ok := cells["game_location"]; ok && htmlutil.CellText(location) == "@" {
			score.HomeTeam, score.AwayTeam = loser, winner
			score.HomeScore, score.AwayScore = loserPts, winnerPts
		}
		if boxscore, ok := cells["boxscore_word"]; ok {
			score.BoxscoreURL = boxscore.Find("a").AttrOr("href", "")
		}

		out = append(out, score)
		return true
	})
	if rowErr != nil {
		span.SetStatus(codes.Error, rowErr.Error())
		return nil, rowErr
	}

	slog.InfoContext(ctx, "scraped game scores", "season", season, "week", week, "games", len(out))
	return out, nil
}

// TeamGameLog scrapes one team's per-game offense rows for a season.
// Costs exactly one rate-limited request.
func (c *Client) TeamGameLog(ctx context.Context, team string, season int) (TeamGameLog, error) {
	ctx, span := tracer.Start(ctx, "client:TeamGameLog")
	defer span.End()

	franchise, err := FranchiseCode(team)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return TeamGameLog{}, err
	}

	doc, pageUrl, err := c.document(ctx, fmt.Sprintf("/teams/%s/%d/gamelog/", franchise, season))
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch gamelog page")
		return TeamGameLog{}, err
	}

	tables := htmlutil.TablesById(doc)
	var table *goquery.Selection
	for _, id := range append([]string{fmt.Sprintf("gamelog%d", season)}, gameLogTables...) {
		if found, ok := tables[id]; ok {
			table = found
			break
		}
	}
	if table == nil {
		span.SetStatus(codes.Error, "gamelog table missing")
		return TeamGameLog{}, &ParseError{URL: pageUrl, Table: gameLogTables[0], Reason: "table not found"}
	}

	log := TeamGameLog{Season: season, Team: team}
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := rowCells(tr)
		week, ok := cellInt(cells, "week_num")
		if !ok {
			return
		}

		oppCell, ok := cells["opp"]
		if !ok {
			return
		}

		oppHref := oppCell.Find("a").AttrOr("href", "")
		opponent, err := InternalCode(teamCodeFromHref(oppHref))
		if err != nil {
			slog.WarnContext(ctx, "skipping gamelog row with unmapped opponent", "href", oppHref, "week", week)
			return
		}

		home := true
		if location, ok := cells["game_location"]; ok && htmlutil.CellText(location) == "@" {
			home = false
		}

		log.Games = append(log.Games, GameLogRow{
			Week:     week,
			Opponent: opponent,
			Home:     home,
			Stats:    scrapeStatRow(cells),
		})
	})
	if len(log.Games) == 0 {
		span.SetStatus(codes.Error, "no gamelog rows")
		return TeamGameLog{}, &ParseError{URL: pageUrl, Table: gameLogTables[0], Reason: "no gamelog rows"}
	}

	slog.InfoContext(ctx, "scraped team gamelog", "season", season, "team", team, "games", len(log.Games))
	return log, nil
}
