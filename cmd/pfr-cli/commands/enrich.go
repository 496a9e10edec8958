package commands

import (
	"fmt"
	"strings"

	"pfstats-backend/lib/serviceutil"
	"pfstats-backend/lib/sqliteutil"
	"pfstats-backend/services/workbook"
	"pfstats-backend/services/workbook/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	enrichSeason   int
	enrichSource   string
	enrichOutput   string
	enrichGameLogs bool
	enrichSample   int
	enrichDump     string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Scrape season stats and write the enriched game dataset.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()

		output := enrichOutput
		if output == "" {
			output = cfg.Output
		}
		if output == "" {
			output = "enriched.db"
			if enrichSample > 0 {
				output = "enriched.sample.db"
			}
		}

		rows, err := workbook.LoadDataset(enrichSource)
		if err != nil {
			serviceutil.Fatal("failed to load source dataset", err)
		}

		database, err := sqliteutil.OpenDB(db.Schema, output)
		if err != nil {
			serviceutil.Fatal("failed to open output database", err)
		}
		defer database.Close()

		service := workbook.NewService(cfg.newClient(enrichDump), database)
		summary, err := service.Enrich(ctx, rows, workbook.EnrichOptions{
			Season:         enrichSeason,
			ScrapeGameLogs: enrichGameLogs,
			SampleLimit:    enrichSample,
		})
		if err != nil {
			serviceutil.Fatal("enrichment failed", err)
		}

		t := newTable()
		t.AppendRows([]table.Row{
			{"season", summary.Season},
			{"games", summary.Games},
			{"feature columns", summary.FeatureColumns},
			{"requests", summary.Requests},
			{"teams resolved", summary.TeamsResolved},
			{"teams missing", strings.Join(summary.TeamsMissing, ", ")},
			{"missing cells", summary.MissingCells},
			{"game logs scraped", summary.GameLogsScraped},
			{"output", output},
		})
		t.Render()

		for _, failure := range summary.Failures {
			fmt.Println("warning:", failure)
		}
	},
}

func init() {
	enrichCmd.Flags().IntVar(&enrichSeason, "season", 0, "season to scrape, e.g. 2023")
	enrichCmd.Flags().StringVar(&enrichSource, "source", "", "csv of games to enrich (season,week,home_team,away_team,...)")
	enrichCmd.Flags().StringVar(&enrichOutput, "output", "", "output sqlite database path")
	enrichCmd.Flags().BoolVar(&enrichGameLogs, "game-logs", false, "also scrape per-game logs for every team in the dataset")
	enrichCmd.Flags().IntVar(&enrichSample, "sample", 0, "only enrich the first N rows, for dry runs")
	enrichCmd.Flags().StringVar(&enrichDump, "dump", "", "directory to dump raw http messages into")
	enrichCmd.MarkFlagRequired("season")
	enrichCmd.MarkFlagRequired("source")
	rootCmd.AddCommand(enrichCmd)
}
