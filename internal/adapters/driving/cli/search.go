package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dealsense/ragengine/internal/core/domain"
)

var (
	searchTopK     int
	searchScope    string
	searchJSON     bool
	searchNoExpand bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the indexed collection",
	Long: `Performs hybrid search across the indexed collection.
Combines keyword (BM25) and semantic (vector) scoring, with optional
reranking and deal scoping.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().StringVar(&searchScope, "scope", "", "prefer results from this deal or tenant scope")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchNoExpand, "no-expand", false, "skip hypothetical-answer query expansion")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := domain.SearchOptions{
		TopK:             searchTopK,
		ScopeID:          searchScope,
		DisableExpansion: searchNoExpand,
	}

	results, err := searchService.Search(context.Background(), collectionID, query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.ScoredChunk) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.ScoredChunk) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		heading := r.Chunk.SectionHeading
		if heading == "" {
			heading = r.Chunk.SourceName
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, heading, r.Score)
		cmd.Printf("      Source: %s\n", r.Chunk.SourcePath)
		if r.Chunk.PageNumber > 0 {
			cmd.Printf("      Page: %d\n", r.Chunk.PageNumber)
		}
		if r.OutOfScope {
			cmd.Println("      Note: outside the requested scope")
		}
		cmd.Printf("      %s\n", snippet(r.Chunk.Content))
		cmd.Println()
	}
	return nil
}

// snippet trims a chunk body to one display line.
func snippet(content string) string {
	const maxLen = 160
	content = strings.Join(strings.Fields(content), " ")
	if len(content) <= maxLen {
		return content
	}
	return content[:maxLen] + "..."
}
