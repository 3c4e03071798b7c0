// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/askit"
	"github.com/poiesic/askit/ai"
	"github.com/poiesic/askit/ingestion"
	"github.com/poiesic/askit/reindex"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "askit",
		Usage: "Document question answering over a local lexical index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Data directory holding the index snapshot and registry",
				Value:   "./askit_data",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest documents into the index",
				ArgsUsage: "<file-or-url> [<file-or-url>...]",
				Action:    ingestCommand,
			},
			{
				Name:      "query",
				Usage:     "Answer a question from the ingested documents",
				ArgsUsage: "<question>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of context chunks to retrieve",
						Value:   askit.DefaultTopK,
					},
					&cli.StringFlag{
						Name:    "ai-host",
						Usage:   "Answer generation service host URL",
						EnvVars: []string{"ASKIT_AI_HOST"},
					},
					&cli.StringFlag{
						Name:    "ai-model",
						Usage:   "Answer generation model name",
						EnvVars: []string{"ASKIT_AI_MODEL"},
					},
					&cli.StringFlag{
						Name:    "ai-token",
						Usage:   "Answer generation API key",
						EnvVars: []string{"ASKIT_AI_TOKEN"},
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show index statistics and document registry",
				Action: statsCommand,
			},
			{
				Name:   "history",
				Usage:  "Show recently answered queries",
				Action: historyCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Number of queries to show",
						Value:   10,
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Rebuild derived chunk fields after rule updates",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "batch-size",
						Aliases: []string{"b"},
						Usage:   "Number of chunks to process per batch",
						Value:   100,
					},
				},
			},
			{
				Name:   "clear",
				Usage:  "Remove all indexed chunks and registry entries",
				Action: clearCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openSystem builds a System from the global and command flags.
func openSystem(c *cli.Context) (*askit.System, error) {
	var opts []askit.SystemOption

	cfgOpts := []ai.ConfigOption{}
	if host := c.String("ai-host"); host != "" {
		cfgOpts = append(cfgOpts, ai.WithHost(host))
	}
	if model := c.String("ai-model"); model != "" {
		cfgOpts = append(cfgOpts, ai.WithModel(model))
	}
	if token := c.String("ai-token"); token != "" {
		cfgOpts = append(cfgOpts, ai.WithToken(token))
	}
	if len(cfgOpts) > 0 {
		opts = append(opts, askit.WithAIConfig(ai.NewConfig(cfgOpts...)))
	}

	return askit.New(c.String("data"), opts...)
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file or URL is required")
	}

	system, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open system: %w", err)
	}
	defer system.Close()

	pipeline, err := system.NewIngestionPipeline()
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, arg := range c.Args().Slice() {
		var result *ingestion.IngestResult
		if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
			result, err = pipeline.IngestURL(ctx, arg)
		} else {
			result, err = pipeline.IngestFile(ctx, arg, "")
		}
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", arg, err)
		}
		fmt.Printf("%s: %d chunks (%d total in index)\n",
			result.DocumentName, result.ChunksCreated, result.TotalChunks)
	}
	return nil
}

func queryCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("a question is required")
	}
	question := strings.Join(c.Args().Slice(), " ")

	system, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open system: %w", err)
	}
	defer system.Close()

	result, err := system.Query(context.Background(), question, c.Int("top-k"))
	if err != nil {
		return err
	}

	fmt.Println(result.Answer.Text)
	fmt.Printf("\nConfidence: %.2f (context quality %.3f, %d chunks, %s)\n",
		result.Answer.Confidence, result.Answer.ContextQuality,
		result.ChunksUsed, result.ProcessingTime.Round(1e6))
	if len(result.Answer.Sources) > 0 {
		fmt.Println("Sources:")
		for _, source := range result.Answer.Sources {
			fmt.Printf("  %s [%.3f]\n", source.Source, source.SimilarityScore)
		}
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	system, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open system: %w", err)
	}
	defer system.Close()

	status := system.Status()
	fmt.Printf("Ready: %v\n", status.SystemReady)
	fmt.Printf("Chunks: %d\n", status.IndexStats.TotalChunks)
	fmt.Printf("Sources: %d\n", status.IndexStats.UniqueSources)
	for category, count := range status.IndexStats.ContentCategories {
		fmt.Printf("  %s: %d\n", category, count)
	}

	records, err := system.DocumentRepository().ListDocuments(context.Background())
	if err != nil {
		return err
	}
	if len(records) > 0 {
		fmt.Println("Documents:")
		for _, record := range records {
			fmt.Printf("  %s (%s, %d chunks)\n", record.Filename, record.Status, record.ChunkCount)
		}
	}
	return nil
}

func historyCommand(c *cli.Context) error {
	system, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open system: %w", err)
	}
	defer system.Close()

	records, err := system.QueryLogRepository().GetRecentQueryRecords(context.Background(), c.Int("limit"))
	if err != nil {
		return err
	}

	for _, record := range records {
		fmt.Printf("[%s] %q -> %.2f (%d chunks)\n",
			record.Timestamp.Format("2006-01-02 15:04:05"),
			record.Query, record.Confidence, record.ChunksUsed)
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	system, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open system: %w", err)
	}
	defer system.Close()

	config := reindex.DefaultConfig()
	config.BatchSize = c.Int("batch-size")

	reindexer, err := system.NewReindexer(config, os.Stderr)
	if err != nil {
		return err
	}
	return reindexer.Run(context.Background())
}

func clearCommand(c *cli.Context) error {
	system, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open system: %w", err)
	}
	defer system.Close()

	if err := system.Clear(context.Background()); err != nil {
		return err
	}
	fmt.Println("Cleared index and document registry.")
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
