package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gridmend/gridmend/internal/model"
	"github.com/gridmend/gridmend/internal/recommend"
	"github.com/gridmend/gridmend/internal/session"
	"github.com/spf13/cobra"
)

var (
	anaChunkSize int
	anaJSON      bool
	anaSuggest   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Scan a spreadsheet for quality issues",
	Long:  `Analyze partitions the file into chunks, scans each chunk for missing values, duplicates, type mismatches, whitespace problems, multi-value cells and inconsistent formats, and prints an aggregated summary. Chunks already scanned are evicted from memory so large files stay cheap.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		p, err := session.New(data, path, pipelineOptions(anaChunkSize))
		if err != nil {
			return err
		}
		issues, err := p.Analyze(cmd.Context())
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}

		if anaJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(issues)
		}

		if len(issues) == 0 {
			fmt.Println("✓ No quality issues found")
			return nil
		}
		fmt.Printf("Found %d issue(s):\n\n", len(issues))
		for _, is := range issues {
			printIssue(is)
		}

		if anaSuggest {
			recs, err := p.Recommend(cmd.Context(), recommend.RuleBased{})
			if err != nil {
				return fmt.Errorf("suggest: %w", err)
			}
			if len(recs) > 0 {
				fmt.Println("Suggested fixes (run 'gridmend clean' to apply):")
				for _, r := range recs {
					fmt.Printf("  - %s\n", r.Title)
				}
			}
		}
		return nil
	},
}

func printIssue(is model.Issue) {
	target := is.Sheet
	if is.Column != "" {
		target += "." + is.Column
	}
	fmt.Printf("[%s] %s (%s, %d occurrence(s))\n", strings.ToUpper(is.Severity.String()), is.Description, target, is.Count)
	if debug && len(is.Examples) > 0 {
		fmt.Printf("    examples: %s\n", strings.Join(is.Examples, ", "))
	}
	fmt.Println()
}

// pipelineOptions maps the effective config (plus per-command flags) onto
// session options. Zero values fall back to the session defaults.
func pipelineOptions(chunkSize int) session.Options {
	c := effectiveConfig()
	opts := session.Options{
		ChunkSize:       c.ChunkSize,
		BatchSize:       c.BatchSize,
		EvictLagBatches: c.EvictLagBatches,
	}
	if chunkSize > 0 {
		opts.ChunkSize = chunkSize
	}
	return opts
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().IntVar(&anaChunkSize, "chunk-size", 0, "rows per chunk (overrides config)")
	analyzeCmd.Flags().BoolVar(&anaJSON, "json", false, "emit issues as JSON")
	analyzeCmd.Flags().BoolVar(&anaSuggest, "suggest", true, "print rule-based fix suggestions after the issue list")
}
