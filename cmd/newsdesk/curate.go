package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hoanghai1803/newsdesk/internal/models"
)

var (
	topicsFlag   string
	regionFlag   string
	countryFlag  string
	countFlag    int
	excludedFlag string
)

var curateCmd = &cobra.Command{
	Use:   "curate",
	Short: "Run one curation and print the articles as JSON",
	Example: `  newsdesk curate --topics ai,science --region international --count 10
  newsdesk curate --topics football --region uk --exclude "The Guardian"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		resp, err := a.curator.Curate(cmd.Context(), models.CurationRequest{
			Region:          regionFlag,
			Country:         countryFlag,
			Topics:          splitFlag(topicsFlag),
			ArticleCount:    countFlag,
			ExcludedSources: splitFlag(excludedFlag),
		})
		if err != nil {
			return err
		}
		return printJSON(cmd, resp)
	},
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Select news sources for topics and print them as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		topics := splitFlag(topicsFlag)
		if len(topics) == 0 {
			return fmt.Errorf("--topics is required")
		}

		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		res := a.selector.Select(cmd.Context(), topics, regionFlag, splitFlag(excludedFlag))
		return printJSON(cmd, map[string]any{
			"sources":  res.Providers,
			"fallback": res.Fallback,
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{curateCmd, sourcesCmd} {
		c.Flags().StringVar(&topicsFlag, "topics", "", "Comma-separated topics")
		c.Flags().StringVar(&regionFlag, "region", "international", "Region of interest")
		c.Flags().StringVar(&excludedFlag, "exclude", "", "Comma-separated source names to exclude")
	}
	curateCmd.Flags().StringVar(&countryFlag, "country", "", "Two-letter country code")
	curateCmd.Flags().IntVar(&countFlag, "count", 10, fmt.Sprintf("Number of articles (%d-%d)", models.MinArticleCount, models.MaxArticleCount))
	_ = curateCmd.MarkFlagRequired("topics")
}

func splitFlag(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
