package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gridmend/gridmend/internal/model"
	"github.com/gridmend/gridmend/internal/recommend"
	"github.com/gridmend/gridmend/internal/session"
	"github.com/spf13/cobra"
)

var (
	clnChunkSize  int
	clnOutput     string
	clnAcceptAll  bool
	clnSkipTypes  []string
	clnNoAI       bool
	clnReportFmt  string
	clnReportPath string
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Analyze a spreadsheet and apply recommended fixes",
	Long: `Clean runs the full pipeline: it scans the file for quality issues, asks for
fix recommendations (AI first when an API key is configured, falling back to a
simplified prompt and finally to built-in rules), applies the fixes you accept
chunk by chunk, and writes the repaired file plus a transformation report.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		p, err := session.New(data, path, pipelineOptions(clnChunkSize))
		if err != nil {
			return err
		}

		issues, err := p.Analyze(cmd.Context())
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
		if len(issues) == 0 {
			fmt.Println("✓ No quality issues found; nothing to clean")
			return nil
		}
		fmt.Printf("Found %d issue(s)\n", len(issues))

		recs, err := p.Recommend(cmd.Context(), buildChain())
		if err != nil {
			return fmt.Errorf("recommend: %w", err)
		}
		if len(recs) == 0 {
			fmt.Println("No applicable fixes recommended")
			return nil
		}

		decisions := decide(recs)
		for i, rec := range recs {
			if err := p.Apply(cmd.Context(), rec, decisions[i]); err != nil {
				// Keep going: the failure is recorded in the report, and
				// remaining fixes may still apply cleanly.
				fmt.Fprintf(os.Stderr, "⚠ Warning: %s: %v\n", rec.Title, err)
			}
		}

		if debug {
			pr := p.Progress()
			fmt.Fprintf(os.Stderr, "processed %d/%d chunks (%.0f%%)\n", pr.ProcessedChunks, pr.TotalChunks, pr.Percentage)
		}

		out, report, err := p.Export()
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		outPath := clnOutput
		if outPath == "" {
			outPath = cleanedName(path)
		}
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Printf("✓ Wrote cleaned file to %s\n", outPath)

		rendered := report.Text()
		if clnReportFmt == "html" {
			rendered = report.HTML()
		}
		if clnReportPath != "" {
			if err := os.WriteFile(clnReportPath, []byte(rendered), 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Printf("✓ Wrote report to %s\n", clnReportPath)
		} else {
			fmt.Println()
			fmt.Print(rendered)
		}
		return nil
	},
}

// buildChain assembles the recommendation fallback chain from the effective
// config: full AI prompt, then the simplified prompt, then built-in rules.
// Without an API key (or with --no-ai) only the rule tier runs.
func buildChain() *recommend.Chain {
	c := effectiveConfig()
	if clnNoAI || c.APIKey == "" {
		return recommend.NewChain(recommend.RuleBased{})
	}
	client := recommend.NewClientWithOptions(
		c.APIKey,
		time.Duration(c.HTTPTimeoutSec)*time.Second,
		c.RetryMaxAttempts,
		time.Duration(c.RetryBaseDelayMs)*time.Millisecond,
		time.Duration(c.RetryMaxDelayMs)*time.Millisecond,
		"",
	)
	return recommend.NewChain(
		recommend.NewAIGenerator(client, c.DefaultModel),
		recommend.NewSimplifiedGenerator(client, c.DefaultModel),
		recommend.RuleBased{},
	)
}

// decide resolves accept/skip per recommendation: --skip-types always skips,
// --accept-all accepts the rest, otherwise the user is prompted one by one.
func decide(recs []model.Recommendation) []bool {
	skip := make(map[string]bool, len(clnSkipTypes))
	for _, t := range clnSkipTypes {
		skip[strings.TrimSpace(strings.ToLower(t))] = true
	}
	decisions := make([]bool, len(recs))
	reader := bufio.NewReader(os.Stdin)
	acceptRest := clnAcceptAll
	for i, rec := range recs {
		if rec.Transformation != nil && skip[rec.Transformation.Type()] {
			continue
		}
		if acceptRest {
			decisions[i] = true
			continue
		}
		fmt.Printf("\n%s\n", rec.Title)
		if rec.Rationale != "" {
			fmt.Printf("  %s\n", rec.Rationale)
		}
		fmt.Print("Apply? [y/n/a(ll)/q(uit)]: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			// EOF on stdin (e.g. piped input exhausted): skip the rest.
			return decisions
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			decisions[i] = true
		case "a", "all":
			decisions[i] = true
			acceptRest = true
		case "q", "quit":
			return decisions
		}
	}
	return decisions
}

// cleanedName derives the default output path: data.csv -> data-cleaned.csv.
func cleanedName(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-cleaned" + ext
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().IntVar(&clnChunkSize, "chunk-size", 0, "rows per chunk (overrides config)")
	cleanCmd.Flags().StringVarP(&clnOutput, "output", "o", "", "output path (default <name>-cleaned.<ext>)")
	cleanCmd.Flags().BoolVarP(&clnAcceptAll, "accept-all", "y", false, "accept every recommendation without prompting")
	cleanCmd.Flags().StringSliceVar(&clnSkipTypes, "skip-types", nil, "transformation types to skip (e.g. remove_duplicates,fill_missing)")
	cleanCmd.Flags().BoolVar(&clnNoAI, "no-ai", false, "use only built-in rules, never the AI service")
	cleanCmd.Flags().StringVar(&clnReportFmt, "report", "text", "report format: text | html")
	cleanCmd.Flags().StringVar(&clnReportPath, "report-file", "", "write the report to a file instead of stdout")
}
