package main

import (
	"fmt"

	"finsight/cmd/finsight/ui"

	"github.com/spf13/cobra"
)

var (
	flagTopics      string
	flagForceReload bool
)

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Show the aggregated financial news digest",
	Long: `Fetches the personalized news digest: headlines with a plain-language
"effect on you" line, plus impact notes for assets you track.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		digest, err := client.News(cmd.Context(), flagTopics, flagForceReload)
		if err != nil {
			return err
		}

		styles := ui.DefaultStyles()
		if len(digest.NewsItems) == 0 {
			fmt.Println("No news right now.")
			return nil
		}

		for _, item := range digest.NewsItems {
			fmt.Println(styles.Bold.Render(item.Title))
			fmt.Println(item.Summary)
			if item.EffectOnYou != "" {
				fmt.Println(styles.Info.Render("Effect on you: " + item.EffectOnYou))
			}
			if item.AffectedAssetSymbol != "" {
				fmt.Println(styles.Warning.Render(item.AffectedAssetSymbol + ": " + item.ImpactOnAsset))
			}
			meta := item.Source
			if item.PublishedDate != "" {
				meta += " · " + item.PublishedDate
			}
			fmt.Println(styles.Muted.Render(meta))
			fmt.Println()
		}
		if digest.LastUpdated != "" {
			suffix := ""
			if digest.FromCache {
				suffix = " (cached)"
			}
			fmt.Println(styles.Muted.Render("updated " + digest.LastUpdated + suffix))
		}
		return nil
	},
}

func init() {
	newsCmd.Flags().StringVar(&flagTopics, "topics", "", "comma-separated topics to focus on")
	newsCmd.Flags().BoolVar(&flagForceReload, "force-reload", false, "bypass the server-side cache")
}
