// Command ragengine indexes a local folder of documents and serves
// hybrid keyword+semantic search over it.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dealsense/ragengine/internal/adapters/driven/config/file"
	"github.com/dealsense/ragengine/internal/adapters/driven/embedding/openai"
	"github.com/dealsense/ragengine/internal/adapters/driven/extract"
	"github.com/dealsense/ragengine/internal/adapters/driven/extract/docx"
	"github.com/dealsense/ragengine/internal/adapters/driven/extract/markdown"
	"github.com/dealsense/ragengine/internal/adapters/driven/extract/plaintext"
	"github.com/dealsense/ragengine/internal/adapters/driven/filesystem"
	"github.com/dealsense/ragengine/internal/adapters/driven/rerank/cohere"
	"github.com/dealsense/ragengine/internal/adapters/driven/storage/memory"
	"github.com/dealsense/ragengine/internal/adapters/driven/storage/sqlite"
	"github.com/dealsense/ragengine/internal/adapters/driving/cli"
	"github.com/dealsense/ragengine/internal/core/ports/driven"
	"github.com/dealsense/ragengine/internal/core/services"
	"github.com/dealsense/ragengine/internal/logger"

	llm "github.com/dealsense/ragengine/internal/adapters/driven/llm/openai"
	filestore "github.com/dealsense/ragengine/internal/adapters/driven/storage/file"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	root := config.GetString("indexing.root")
	if root == "" {
		root = "."
	}

	lister := filesystem.NewLister(root)
	if exts := config.GetStringSlice("indexing.extensions"); len(exts) > 0 {
		lister = filesystem.NewLister(root, filesystem.WithExtensions(exts...))
	}

	extractors := extract.NewRegistry(plaintext.New())
	extractors.Register(".md", markdown.New())
	extractors.Register(".docx", docx.New())

	snapshots, closeSnapshots, err := buildSnapshotStore(config)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer closeSnapshots()

	embedder, err := buildEmbedder(config)
	if err != nil {
		return err
	}
	defer embedder.Close()

	completion := buildCompletion(config)
	if completion != nil {
		defer completion.Close()
	}
	reranker := buildReranker(config)
	if reranker != nil {
		defer reranker.Close()
	}

	scopes := memory.NewScopeStore()
	stores := services.NewStoreManager()

	indexer := services.NewIndexer(stores, snapshots, lister, extractors, embedder, nil)
	search := services.NewSearchService(stores, snapshots, embedder, completion, reranker, scopes)

	if v := config.GetFloat("search.vector_weight"); v > 0 {
		if err := search.SetWeights(v, 1-v); err != nil {
			return fmt.Errorf("apply search weights: %w", err)
		}
	}

	if config.GetBool("indexing.watch") {
		collection := config.GetString("indexing.collection")
		if collection == "" {
			collection = "default"
		}
		watcher, err := filesystem.NewWatcher(root, watchDebounce(config), func() {
			if _, err := indexer.IndexCollection(context.Background(), collection, false); err != nil {
				logger.Warn("Re-index after change failed: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer watcher.Close()
	}

	cli.SetVersion(version)
	cli.SetServices(indexer, search)
	return cli.Execute()
}

// buildSnapshotStore selects the persistence backend. The sqlite store
// is the default; storage.backend = "file" swaps in one JSON snapshot
// file per collection instead.
func buildSnapshotStore(config *file.ConfigStore) (driven.SnapshotStore, func() error, error) {
	dataDir := config.GetString("storage.data_dir")
	if config.GetString("storage.backend") == "file" {
		store, err := filestore.NewSnapshotStore(dataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	}
	store, err := sqlite.NewSnapshotStore(dataDir)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func buildEmbedder(config *file.ConfigStore) (driven.EmbeddingService, error) {
	key := config.Secret("openai.api_key")
	if key == "" {
		return nil, fmt.Errorf("no OpenAI API key configured (set OPENAI_API_KEY)")
	}
	return openai.NewEmbeddingService(openai.Config{
		APIKey: key,
		Model:  config.GetString("embedding.model"),
	})
}

// buildCompletion and buildReranker degrade to nil when unconfigured;
// the search service treats both as optional.
func buildCompletion(config *file.ConfigStore) driven.CompletionService {
	key := config.Secret("openai.api_key")
	if key == "" {
		return nil
	}
	svc, err := llm.NewCompletionService(llm.Config{
		APIKey: key,
		Model:  config.GetString("completion.model"),
	})
	if err != nil {
		logger.Warn("Completion service unavailable: %v", err)
		return nil
	}
	return svc
}

func buildReranker(config *file.ConfigStore) driven.RerankService {
	key := config.Secret("cohere.api_key")
	if key == "" {
		return nil
	}
	svc, err := cohere.NewRerankService(cohere.Config{
		APIKey: key,
		Model:  config.GetString("rerank.model"),
	})
	if err != nil {
		logger.Warn("Rerank service unavailable: %v", err)
		return nil
	}
	return svc
}

func watchDebounce(config *file.ConfigStore) time.Duration {
	if secs := config.GetInt("indexing.watch_debounce_seconds"); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return filesystem.DefaultDebounce
}
