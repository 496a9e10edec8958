package commands

import (
	"fmt"

	"pfstats-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	scoresSeason int
	scoresWeek   int
	scoresDump   string
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Scrape and print final scores for a season.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()

		client := cfg.newClient(scoresDump)
		scores, err := client.GameScores(ctx, scoresSeason, scoresWeek)
		if err != nil {
			serviceutil.Fatal("failed to scrape game scores", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"week", "away", "", "home", ""})
		for _, score := range scores {
			t.AppendRow(table.Row{
				score.Week,
				score.AwayTeam, score.AwayScore,
				score.HomeTeam, score.HomeScore,
			})
		}
		t.Render()
		fmt.Println("games:", len(scores))
	},
}

func init() {
	scoresCmd.Flags().IntVar(&scoresSeason, "season", 0, "season to scrape, e.g. 2023")
	scoresCmd.Flags().IntVar(&scoresWeek, "week", 0, "only print a single week, 0 for the full season")
	scoresCmd.Flags().StringVar(&scoresDump, "dump", "", "directory to dump raw http messages into")
	scoresCmd.MarkFlagRequired("season")
	rootCmd.AddCommand(scoresCmd)
}
