package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"aivideogen/internal/adapters/export"
	"aivideogen/internal/adapters/generation"
	"aivideogen/internal/adapters/history"
	"aivideogen/internal/adapters/kvstore"
	"aivideogen/internal/config"
	"aivideogen/internal/quota"
	"aivideogen/internal/service"
)

func main() {
	cfg := config.Load()

	// Parse flags
	prompt := flag.String("prompt", "", "Text prompt to generate a video from")
	download := flag.Bool("download", false, "Download the generated video")
	share := flag.Bool("share", false, "Copy the media URL to the clipboard")
	showHistory := flag.Bool("history", false, "Print the generation history and exit")
	clearHistory := flag.Bool("clear", false, "Clear the generation history and exit")
	flag.Parse()

	if *prompt == "" && !*showHistory && !*clearHistory {
		fmt.Println("Usage: aivideo-cli -prompt <text> [-download] [-share]")
		fmt.Println("       aivideo-cli -history | -clear")
		fmt.Println("\nExample:")
		fmt.Println("  aivideo-cli -prompt \"a cat in space\" -download")
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize adapters
	if err := os.MkdirAll(filepath.Dir(cfg.HistoryDBPath), 0755); err != nil {
		logger.Fatal("could not create data directory", zap.Error(err))
	}
	kv, err := kvstore.NewSQLiteStore(cfg.HistoryDBPath)
	if err != nil {
		logger.Fatal("could not open history storage", zap.Error(err))
	}
	defer kv.Close()

	store := history.NewStore(kv, logger)
	client := generation.NewClient(cfg.GenerationBaseURL, logger)
	resolver := export.NewResolver(cfg.DownloadDir, logger)
	counter := quota.NewCounter(cfg.DailyLimit)
	orchestrator := service.NewOrchestrator(client, store, counter, logger)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received interrupt signal, cancelling")
		cancel()
	}()

	if *clearHistory {
		if _, err := store.Clear(ctx); err != nil {
			logger.Fatal("could not clear history", zap.Error(err))
		}
		fmt.Println("History cleared.")
		return
	}
	if *showHistory {
		printHistory(ctx, store)
		return
	}

	result, err := orchestrator.Generate(ctx, *prompt)
	if err != nil {
		logger.Error("generation failed", zap.Error(err))
		os.Exit(1)
	}

	// Print summary
	fmt.Println("\n=== Generation Summary ===")
	fmt.Printf("Prompt:       %s\n", result.PromptText)
	fmt.Printf("Media URL:    %s\n", result.MediaURL)
	fmt.Printf("Completed At: %s\n", time.UnixMilli(result.CreatedAt).Format(time.RFC3339))

	if *download {
		exported := resolver.Resolve(ctx, result.MediaURL)
		switch {
		case exported.LocalPath != "":
			fmt.Printf("Downloaded:   %s\n", exported.LocalPath)
		default:
			fmt.Printf("Save manually from: %s\n", exported.MediaURL)
		}
	}
	if *share {
		if err := resolver.Share(result.MediaURL); err != nil {
			logger.Warn("could not copy to clipboard", zap.Error(err))
		} else {
			fmt.Println("Link copied to clipboard.")
		}
	}
}

func printHistory(ctx context.Context, store *history.Store) {
	entries := store.Load(ctx)
	if len(entries) == 0 {
		fmt.Println("No history yet.")
		return
	}
	fmt.Println("=== Generation History ===")
	for _, e := range entries {
		fmt.Printf("%s  %s\n    %s\n",
			time.UnixMilli(e.Timestamp).Format("2006-01-02 15:04:05"),
			e.Prompt, e.URL)
	}
}
