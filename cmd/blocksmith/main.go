package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"blocksmith/internal/assembly"
	"blocksmith/internal/config"
	"blocksmith/internal/discovery"
	"blocksmith/internal/knowledge"
	"blocksmith/internal/outline"
	"blocksmith/internal/pipeline"
	"blocksmith/internal/registry"
	"blocksmith/internal/resolver"
	"blocksmith/internal/storage"
)

var (
	rootCmd = &cobra.Command{
		Use:   "blocksmith",
		Short: "AI-assisted page composition engine",
	}
	configPath   string
	dbPath       string
	manifestPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the config file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the local database (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "", "Path to the site plugin/block manifest (overrides config)")

	composeCmd.Flags().StringVar(&sectionsPath, "sections", "", "Path to a JSON or YAML file with sections to assemble")
	composeCmd.Flags().StringVar(&briefText, "brief", "", "Content brief to expand into an outline")
	composeCmd.Flags().StringVar(&briefTitle, "title", "", "Page title for the brief")
	composeCmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the assembled result to a file instead of stdout")
	composeCmd.Flags().IntVar(&workers, "workers", 0, "Resolve sections concurrently with this many workers")

	indexCmd.Flags().StringVar(&chunksPath, "content", "", "Path to a YAML file with content chunks to index")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 10, "Number of runs to show")

	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(adviseCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(runsCmd)
}

var (
	sectionsPath string
	briefText    string
	briefTitle   string
	outPath      string
	workers      int
	chunksPath   string
	runsLimit    int
)

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if dbPath != "" {
		cfg.Site.Database = dbPath
	}
	if manifestPath != "" {
		cfg.Site.Manifest = manifestPath
	}
	return cfg
}

func initDetector(cfg *config.Config) registry.Detector {
	return registry.NewCachedDetector(discovery.NewManifestDetector(cfg.Site.Manifest), cfg.CatalogTTL())
}

func initStore(cfg *config.Config) *storage.SQLiteStore {
	store, err := storage.NewSQLiteStore(cfg.Site.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	return store
}

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Assemble a page from sections or a content brief",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()

		in := pipeline.Input{
			Options: assembly.Options{
				OptimizeImages: cfg.Assembly.OptimizeImages,
				MaxWorkers:     cfg.Assembly.MaxWorkers,
			},
		}
		if workers > 0 {
			in.Options.MaxWorkers = workers
		}

		switch {
		case sectionsPath != "":
			sections, err := loadSections(sectionsPath)
			if err != nil {
				log.Fatalf("Failed to load sections: %v", err)
			}
			in.Sections = sections
		case briefText != "" || briefTitle != "":
			in.Brief = &outline.Brief{Title: briefTitle, Goal: briefText}
		default:
			log.Fatal("Provide --sections or --brief")
		}

		store := initStore(cfg)
		defer store.Close()

		opts := []pipeline.Option{pipeline.WithStore(store)}
		if cfg.AI.APIKey != "" {
			llm, err := knowledge.NewGeminiGenerator(ctx, cfg.AI.APIKey, cfg.AI.GenerationModel)
			if err != nil {
				log.Fatalf("Failed to create generator: %v", err)
			}
			opts = append(opts, pipeline.WithOutliner(outline.NewBuilder(llm)))

			embedder, err := newEmbedder(ctx, cfg)
			if err != nil {
				log.Fatalf("Failed to create embedder: %v", err)
			}
			opts = append(opts, pipeline.WithRetriever(knowledge.NewEngine(embedder, store)))
		}

		composer := pipeline.NewComposer(initDetector(cfg), opts...)

		fmt.Println("🧩 Assembling page...")
		out, err := composer.Compose(ctx, in)
		if err != nil {
			log.Fatalf("Compose failed: %v", err)
		}

		payload, err := json.MarshalIndent(out.Result, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode result: %v", err)
		}
		if outPath != "" {
			if err := os.WriteFile(outPath, payload, 0644); err != nil {
				log.Fatalf("Failed to write result: %v", err)
			}
			fmt.Printf("✅ Wrote %d blocks to %s\n", len(out.Result.Blocks), outPath)
		} else {
			fmt.Println(string(payload))
		}

		meta := out.Result.Metadata
		fmt.Printf("📊 %d blocks, %d fallbacks, accessibility %d, est. load %.2fs\n",
			len(out.Result.Blocks), meta.FallbacksApplied, meta.AccessibilityScore, meta.EstimatedLoadTimeSeconds)
		for _, w := range meta.ValidationWarnings {
			fmt.Printf("⚠️  %s\n", w)
		}
		if out.RunID != "" {
			fmt.Printf("📝 Governance run: %s\n", out.RunID)
		}
	},
}

var adviseCmd = &cobra.Command{
	Use:   "advise [content-type]",
	Short: "Recommend the best available block for a content type",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		snap, err := initDetector(cfg).Detect(context.Background())
		if err != nil {
			log.Fatalf("Plugin detection failed: %v", err)
		}

		rec := resolver.NewAdvisor(snap).Recommend(args[0])
		payload, _ := json.MarshalIndent(rec, "", "  ")
		fmt.Println(string(payload))
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the detected plugins and their registered blocks",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		snap, err := initDetector(cfg).Detect(context.Background())
		if err != nil {
			log.Fatalf("Plugin detection failed: %v", err)
		}

		for _, plugin := range snap.ListActive() {
			blocks := snap.BlocksFor(plugin.Key)
			fmt.Printf("🔌 %s (%s, priority %d): %d blocks\n", plugin.Name, plugin.Key, plugin.Priority, len(blocks))
			for _, b := range blocks {
				fmt.Printf("   - %s\n", b.FullName)
			}
		}
		for _, w := range snap.Warnings() {
			fmt.Printf("⚠️  %s\n", w)
		}
		fmt.Printf("Known content types: %s\n", strings.Join(resolver.ContentTypes(), ", "))
	},
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed site content chunks into the local vector store",
	Run: func(cmd *cobra.Command, args []string) {
		if chunksPath == "" {
			log.Fatal("Provide --content")
		}
		ctx := context.Background()
		cfg := loadConfig()
		if cfg.AI.APIKey == "" && cfg.AI.Provider != "ollama" {
			log.Fatal("AI API key is required for indexing (set BLOCKSMITH_API_KEY or config.yaml)")
		}

		raw, err := os.ReadFile(chunksPath)
		if err != nil {
			log.Fatalf("Failed to read content file: %v", err)
		}
		var chunks []knowledge.ContentChunk
		if err := yaml.Unmarshal(raw, &chunks); err != nil {
			log.Fatalf("Failed to parse content file: %v", err)
		}

		store := initStore(cfg)
		defer store.Close()

		embedder, err := newEmbedder(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to create embedder: %v", err)
		}

		fmt.Printf("🧠 Indexing %d content chunks with %s...\n", len(chunks), cfg.AI.Provider)
		if err := knowledge.NewEngine(embedder, store).IndexChunks(ctx, chunks); err != nil {
			log.Fatalf("Indexing failed: %v", err)
		}
		fmt.Println("✅ Index updated.")
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded governance runs",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store := initStore(cfg)
		defer store.Close()

		runs, err := store.ListRuns(context.Background(), runsLimit)
		if err != nil {
			log.Fatalf("Failed to list runs: %v", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return
		}
		for _, r := range runs {
			fmt.Printf("%s  %s  blocks=%d fallbacks=%d accessibility=%d warnings=%d\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.BlockCount,
				r.FallbacksApplied, r.AccessibilityScore, len(r.Warnings))
		}
	},
}

func newEmbedder(ctx context.Context, cfg *config.Config) (knowledge.Embedder, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	switch provider {
	case "", "gemini":
		return knowledge.NewGeminiEmbedder(ctx, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Dimension)
	case "ollama":
		return knowledge.NewOllamaEmbedder(cfg.AI.Model, cfg.AI.Dimension, cfg.AI.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported embedder provider: %s", cfg.AI.Provider)
	}
}

// loadSections accepts either a JSON or YAML list of sections.
func loadSections(path string) ([]assembly.SectionRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sections []assembly.SectionRequest
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		err = json.Unmarshal(raw, &sections)
	} else {
		err = yaml.Unmarshal(raw, &sections)
	}
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("sections file %s is empty", path)
	}
	return sections, nil
}
