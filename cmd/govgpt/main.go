// Package main is the GovGPT CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/govgpt/govgpt/internal/classify"
	"github.com/govgpt/govgpt/internal/cli"
	"github.com/govgpt/govgpt/internal/config"
	"github.com/govgpt/govgpt/internal/keywords"
	"github.com/govgpt/govgpt/internal/llm"
	"github.com/govgpt/govgpt/internal/models"
	"github.com/govgpt/govgpt/internal/pipeline"
	"github.com/govgpt/govgpt/internal/retrieval"
	"github.com/govgpt/govgpt/internal/server"
	"github.com/govgpt/govgpt/internal/sources"
	"github.com/govgpt/govgpt/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/govgpt/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "govgpt server" from the project dir uses the project's config (including debug).
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "report":
		runReport()
	case "index":
		runIndex()
	case "delete":
		runDelete()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("govgpt version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (context gathering, classification, indexing)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if len(cfg.Ingest.Directories) > 0 {
		watch := retrieval.NewWatcher(cfg.Ingest.Directories, cfg.Ingest.Extensions, components.Retriever, logger)
		if err := watch.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start document watcher", zap.Error(err))
		}
	}

	srv := server.NewServer(components.Router, components.Retriever, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildQuestion joins all positional args with spaces so multi-word questions
// work the same with or without shell quoting.
func buildQuestion(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = run the pipeline in-process)")
	includeNews := fs.Bool("news", true, "include news context")
	includeSentiment := fs.Bool("sentiment", true, "include public sentiment context")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	question := buildQuestion(fs.Args())
	if question == "" {
		fmt.Println("Usage: govgpt ask [flags] <question>")
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	req := &models.ChatRequest{
		Message:          question,
		IncludeNews:      *includeNews,
		IncludeSentiment: *includeSentiment,
	}

	var response *models.ChatResponse
	if *serverURL != "" {
		resp, err := askViaHTTP(*serverURL, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
		response = resp
	} else {
		components, cleanup := mustInitialize(*configPath)
		defer cleanup()
		response = components.Router.Message(context.Background(), question, pipeline.Options{
			IncludeNews:      *includeNews,
			IncludeSentiment: *includeSentiment,
		})
	}

	if err := cli.WriteChatResponse(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func askViaHTTP(serverURL string, req *models.ChatRequest) (*models.ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/chat/message", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runReport() {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = run the pipeline in-process)")
	includeNews := fs.Bool("news", true, "include news context")
	includeSentiment := fs.Bool("sentiment", true, "include public sentiment context")
	_ = fs.Parse(os.Args[2:])

	question := buildQuestion(fs.Args())
	if question == "" {
		fmt.Println("Usage: govgpt report [flags] <question>")
		os.Exit(1)
	}

	var report *models.DecisionReport
	if *serverURL != "" {
		req := &models.ChatRequest{
			Message:          question,
			IncludeNews:      *includeNews,
			IncludeSentiment: *includeSentiment,
		}
		res, err := reportViaHTTP(*serverURL, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Report failed: %v\n", err)
			os.Exit(1)
		}
		report = res
	} else {
		components, cleanup := mustInitialize(*configPath)
		defer cleanup()
		res, err := components.Router.Report(context.Background(), question, pipeline.Options{
			IncludeNews:      *includeNews,
			IncludeSentiment: *includeSentiment,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Report failed: %v\n", err)
			os.Exit(1)
		}
		report = res
	}

	if err := cli.WriteReport(os.Stdout, report); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func reportViaHTTP(serverURL string, req *models.ChatRequest) (*models.DecisionReport, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/chat/report", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var report models.DecisionReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &report, nil
}

func runIndex() {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: govgpt index [flags] <file-or-directory>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	components, cleanup := mustInitialize(*configPath)
	defer cleanup()

	ctx := context.Background()
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Failed to stat path: %v\n", err)
		os.Exit(1)
	}
	if info.IsDir() {
		n, err := components.Retriever.IndexDirectory(ctx, path, components.Config.Ingest.Extensions)
		if err != nil {
			fmt.Printf("Indexing directory failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Indexed %d file(s) from %s\n", n, path)
		return
	}
	// Single file: no extension filter
	if err := components.Retriever.IndexFile(ctx, path, nil); err != nil {
		fmt.Printf("Indexing failed: %v\n", err)
		os.Exit(1)
	}
	absPath, _ := filepath.Abs(path)
	fmt.Printf("Document indexed successfully: %s\n", retrieval.FileDocID(absPath))
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: govgpt delete [flags] <document-id>")
		os.Exit(1)
	}
	docID := fs.Arg(0)

	components, cleanup := mustInitialize(*configPath)
	defer cleanup()

	if err := components.Retriever.DeleteDocument(context.Background(), docID); err != nil {
		fmt.Printf("Deletion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Document deleted: %s\n", docID)
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Documents int64                  `json:"documents"`
	Chunks    int64                  `json:"chunks"`
	Config    map[string]interface{} `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		components, cleanup := mustInitialize(*configPath)
		defer cleanup()
		docs, chunks, err := components.Retriever.Counts(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Counts failed: %v\n", err)
			os.Exit(1)
		}
		cfg := components.Config
		status = statusResponse{
			Documents: docs,
			Chunks:    chunks,
			Config: map[string]interface{}{
				"topic_anchor":     cfg.Topic.Anchor,
				"llm_model":        cfg.LLM.Model,
				"llm_configured":   cfg.LLM.APIKey() != "",
				"database_path":    cfg.Storage.DatabasePath,
				"bleve_index_path": cfg.Storage.BleveIndexPath,
			},
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("documents:  %d   # count of indexed documents\n", status.Documents)
		fmt.Printf("chunks:     %d   # count of text chunks\n", status.Chunks)
		if status.Config != nil {
			fmt.Println()
			fmt.Println("# configuration")
			for _, key := range []string{"topic_anchor", "llm_model", "llm_configured", "database_path", "bleve_index_path"} {
				if v, ok := status.Config[key]; ok {
					fmt.Printf("%-18s %v\n", key+":", v)
				}
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// Components holds initialized services.
type Components struct {
	Config    *config.Config
	Store     *retrieval.Store
	Index     *retrieval.ChunkIndex
	Retriever *retrieval.Retriever
	Router    *pipeline.Router
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Index != nil {
		_ = c.Index.Close()
	}
}

// mustInitialize loads config, builds a logger, and initializes components,
// exiting on any failure. Used by the one-shot subcommands.
func mustInitialize(configPath string) (*Components, func()) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(context.Background(), cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return components, func() {
		components.Close()
		_ = logger.Sync()
	}
}

func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := retrieval.NewStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	index, err := retrieval.NewChunkIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}
	retriever := retrieval.NewRetriever(store, index, cfg.Retrieval.ChunkSize, cfg.Retrieval.ChunkOverlap, logger)

	var news sources.NewsRetriever
	if !cfg.News.Disabled {
		news = sources.NewGDELTClient(cfg.News.BaseURL, cfg.Topic.Anchor)
	}

	var videos sources.VideoRetriever
	if !cfg.Videos.Disabled {
		yt, err := sources.NewYouTubeClient("", cfg.Videos.APIKey(), cfg.Videos.RegionCode)
		if err != nil {
			logger.Warn("video search disabled", zap.Error(err))
		} else {
			videos = yt
		}
	}

	var social sources.SentimentFetcher
	if !cfg.Social.Disabled {
		mastodon := sources.NewMastodonClient(cfg.Social.InstanceURL, cfg.Social.Token())
		social = sources.NewSocialAggregator(mastodon, cfg.Social.MaxPosts)
	}

	var model llm.Client
	if key := cfg.LLM.APIKey(); key != "" {
		gemini, err := llm.NewGeminiClient(ctx, key, cfg.LLM.Model, cfg.LLM.Temperature, cfg.LLM.MaxTokens)
		if err != nil {
			_ = index.Close()
			_ = store.Close()
			return nil, fmt.Errorf("failed to initialize language model: %w", err)
		}
		model = gemini
	} else {
		logger.Warn("no language model API key configured, answer generation disabled",
			zap.String("env", cfg.LLM.APIKeyEnv))
	}

	aggregator := pipeline.NewAggregator(retriever, news, videos, social, pipeline.AggregatorConfig{
		DocumentLimit: cfg.Retrieval.Limit,
		LookbackDays:  cfg.News.LookbackDays,
		MaxNews:       cfg.News.MaxResults,
		MaxVideos:     cfg.Videos.MaxResults,
	}, logger)

	router := pipeline.NewRouter(
		keywords.NewExtractor(cfg.Topic.Anchor),
		classify.New(),
		aggregator,
		model,
		logger,
	)

	return &Components{
		Config:    cfg,
		Store:     store,
		Index:     index,
		Retriever: retriever,
		Router:    router,
	}, nil
}

func printUsage() {
	fmt.Println(`govgpt - Policy question answering over documents, news, and public sentiment

Usage:
  govgpt server [flags]             Start the HTTP server
  govgpt ask [flags] <question>     Ask a question (narrative answer)
  govgpt report [flags] <question>  Generate a structured decision report
  govgpt index [flags] <path>       Index a document file or directory
  govgpt delete [flags] <id>        Delete a document
  govgpt status [flags]             Show storage and configuration status
  govgpt version                    Show version
  govgpt help                       Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/govgpt/config.yaml)
  --debug            Enable debug logging (context gathering, classification, indexing)

Ask / Report Flags:
  --config string    Config file path (for in-process mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to run in-process.
  --news             Include news context (default: true)
  --sentiment        Include public sentiment context (default: true)
  --output string    Output format for ask: text or json (default: text)

Index Flags:
  --config string    Config file path

Status Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --output string    Output format: text or json (default: text)

Examples:
  govgpt server
  govgpt ask "What is the current education budget allocation?"
  govgpt report "Should we reallocate 10% of the budget to irrigation?"
  govgpt ask --news=false --output json "Explain the health coverage rollout"
  govgpt index ./policies
  govgpt delete doc-123
  govgpt status --output json`)
}
