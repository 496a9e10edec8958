package commands

import (
	"sort"

	"pfstats-backend/lib/scrapers/pfr"
	"pfstats-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List every team code and the franchise code used in site urls.",
	Run: func(cmd *cobra.Command, args []string) {
		codes := pfr.InternalCodes()
		sort.Strings(codes)

		t := newTable()
		t.AppendHeader(table.Row{"team", "franchise code"})
		for _, code := range codes {
			franchise, err := pfr.FranchiseCode(code)
			if err != nil {
				serviceutil.Fatal("failed to resolve franchise code", err)
			}
			t.AppendRow(table.Row{code, franchise})
		}
		t.Render()
	},
}

func init() {
	rootCmd.AddCommand(teamsCmd)
}
