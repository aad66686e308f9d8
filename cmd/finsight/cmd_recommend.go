package main

import (
	"fmt"

	"finsight/cmd/finsight/ui"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Show today's beginner-friendly stock pick",
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := client.Recommendation(cmd.Context())
		if err != nil {
			return err
		}

		styles := ui.DefaultStyles()
		fmt.Printf("%s (%s)  %s  %s\n",
			styles.Bold.Render(rec.StockName),
			rec.TickerSymbol,
			fmt.Sprintf("%.2f", rec.CurrentPrice),
			styles.Movement(rec.PriceChangePercent24h),
		)
		fmt.Println(rec.RecommendationReason)
		fmt.Println(styles.Muted.Render("sector: " + rec.Sector))
		fmt.Println(styles.Muted.Render("risk: " + rec.RiskLabel + " · " + rec.RiskReasoning))
		return nil
	},
}
