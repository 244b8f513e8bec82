package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var indexForce bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or refresh the collection index",
	Long: `Indexes the collection's documents. Unchanged files are detected by
content hash and keep their existing chunks and embeddings; only new,
changed and deleted files cost work.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "rebuild from scratch, ignoring the cached index")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexer == nil {
		return errors.New("indexer not configured")
	}

	cmd.Printf("Indexing collection %s...\n", collectionID)

	result, err := indexer.IndexCollection(context.Background(), collectionID, indexForce)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	if result.FromCache {
		cmd.Printf("No changes: %d chunks across %d files (cached).\n",
			result.ChunkCount, result.FileCount)
		return nil
	}

	cmd.Printf("Indexed %d chunks across %d files.\n", result.ChunkCount, result.FileCount)
	return nil
}
