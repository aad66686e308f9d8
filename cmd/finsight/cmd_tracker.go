package main

import (
	"fmt"
	"strings"
	"sync"

	"finsight/cmd/finsight/ui"
	"finsight/internal/api"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var trackerCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Manage your tracked assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return trackerListCmd.RunE(cmd, args)
	},
}

var trackerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		assets, err := client.Assets(cmd.Context())
		if err != nil {
			return err
		}
		if len(assets) == 0 {
			fmt.Println("No tracked assets yet. Add one with \"finsight tracker add SYMBOL\".")
			return nil
		}

		styles := ui.DefaultStyles()
		table := ui.NewSimpleTable("Tracked Assets", []string{"Symbol", "Name", "Price", "Movement", "Sector"})
		for _, a := range assets {
			table.AddRow(
				a.Symbol,
				a.Name,
				fmt.Sprintf("%.2f", a.Price),
				styles.Movement(a.Movement),
				a.Sector,
			)
		}
		fmt.Print(table.View(styles))
		return nil
	},
}

var flagAssetName string

var trackerAddCmd = &cobra.Command{
	Use:   "add [symbol]",
	Short: "Start tracking an asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := strings.ToUpper(args[0])
		asset, err := client.CreateAsset(cmd.Context(), symbol, flagAssetName)
		if err != nil {
			return err
		}
		fmt.Printf("Now tracking %s (%s).\n", asset.Symbol, asset.Name)
		return nil
	},
}

var trackerRemoveCmd = &cobra.Command{
	Use:   "remove [symbol]",
	Short: "Stop tracking an asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := strings.ToUpper(args[0])

		// The delete endpoint takes the asset id, so resolve it first.
		assets, err := client.Assets(cmd.Context())
		if err != nil {
			return err
		}
		for _, a := range assets {
			if a.Symbol == symbol {
				if err := client.DeleteAsset(cmd.Context(), a.ID); err != nil {
					return err
				}
				fmt.Printf("Stopped tracking %s.\n", symbol)
				return nil
			}
		}
		return fmt.Errorf("%s is not in your tracker", symbol)
	},
}

var trackerRiskCmd = &cobra.Command{
	Use:   "risk [symbol...]",
	Short: "Run risk analysis on tracked assets",
	Long: `Analyzes volatility, sector trend and news sentiment for the given
symbols, or for every tracked asset when none are given. Analyses run
concurrently; one failing symbol does not stop the rest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		symbols := make([]string, 0, len(args))
		for _, s := range args {
			symbols = append(symbols, strings.ToUpper(s))
		}
		if len(symbols) == 0 {
			assets, err := client.Assets(cmd.Context())
			if err != nil {
				return err
			}
			for _, a := range assets {
				symbols = append(symbols, a.Symbol)
			}
		}
		if len(symbols) == 0 {
			fmt.Println("Nothing to analyze.")
			return nil
		}

		var mu sync.Mutex
		results := make(map[string]*api.RiskAnalysis, len(symbols))
		failures := make(map[string]error)

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(4)
		for _, symbol := range symbols {
			g.Go(func() error {
				analysis, err := client.AnalyzeRisk(ctx, symbol)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failures[symbol] = err
					return nil
				}
				results[symbol] = analysis
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		styles := ui.DefaultStyles()
		for _, symbol := range symbols {
			if err, ok := failures[symbol]; ok {
				fmt.Println(styles.Error.Render(symbol+": analysis failed"), "-", err)
				continue
			}
			printRisk(styles, results[symbol])
		}
		return nil
	},
}

func printRisk(styles ui.Styles, risk *api.RiskAnalysis) {
	if risk == nil {
		return
	}
	level := styles.Info.Render(risk.RiskLevel)
	switch risk.RiskLevel {
	case "High":
		level = styles.Error.Render(risk.RiskLevel)
	case "Low":
		level = styles.Success.Render(risk.RiskLevel)
	}
	fmt.Printf("%s (%s): %s risk, confidence %.0f%%\n",
		styles.Bold.Render(risk.AssetSymbol), risk.AssetName, level, risk.Confidence*100)
	fmt.Println("  " + risk.Recommendation)
	fmt.Println(styles.Muted.Render(fmt.Sprintf(
		"  volatility %.2f · sector trend %.2f · dips last month %d · sentiment %s",
		risk.Factors.VolatilityScore,
		risk.Factors.SectorTrendScore,
		risk.Factors.DipCountLastMonth,
		risk.Factors.SentimentClass,
	)))
	fmt.Println()
}

func init() {
	trackerAddCmd.Flags().StringVar(&flagAssetName, "name", "", "display name for the asset")

	trackerCmd.AddCommand(trackerListCmd)
	trackerCmd.AddCommand(trackerAddCmd)
	trackerCmd.AddCommand(trackerRemoveCmd)
	trackerCmd.AddCommand(trackerRiskCmd)
}
