// Package cli implements the command-line surface of the retrieval
// engine. Commands talk to the core exclusively through the driving
// ports; the host wires concrete services in with SetServices before
// calling Execute.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/dealsense/ragengine/internal/core/ports/driving"
	"github.com/dealsense/ragengine/internal/logger"
)

var version = "dev"

var (
	indexer       driving.Indexer
	searchService driving.SearchService
)

var (
	collectionID string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "ragengine",
	Short: "Local retrieval engine for document collections",
	Long: `ragengine indexes a folder of documents and answers relevance
queries with hybrid keyword and semantic search.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&collectionID, "collection", "c", "default",
		"collection to operate on")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose diagnostics")
}

// SetServices injects the driving ports used by the commands.
func SetServices(ix driving.Indexer, search driving.SearchService) {
	indexer = ix
	searchService = search
}

// SetVersion overrides the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
