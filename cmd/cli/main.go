// Package main provides the landmark-finder CLI.
// It runs the same pipeline as the web UI from a terminal and reads the
// classification audit log.
//
// Run with: go run ./cmd/cli search "a castle on a hill"
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleveque/landmark-finder/internal/config"
	"github.com/fleveque/landmark-finder/internal/intent"
	"github.com/fleveque/landmark-finder/internal/llm"
	"github.com/fleveque/landmark-finder/internal/provider"
	"github.com/fleveque/landmark-finder/internal/service"
	"github.com/fleveque/landmark-finder/internal/storage"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCmd builds the command tree:
// landmark-cli search <prompt...>
// landmark-cli classify <prompt...>
// landmark-cli stats
func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "landmark-cli",
		Short: "Landmark finder CLI tools",
	}

	root.AddCommand(searchCmd(), classifyCmd(), statsCmd())
	return root
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <prompt...>",
		Short: "Classify a prompt and print the image URLs or message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				for _, line := range a.landmarks.ClassifyAndFetch(ctx, strings.Join(args, " ")) {
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			})
		},
	}
}

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <prompt...>",
		Short: "Print the strategy the LLM picks for a prompt without searching",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				c, err := a.landmarks.Classify(ctx, strings.Join(args, " "))
				if err != nil {
					return fmt.Errorf("classifying: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "strategy: %s\nsubject:  %s\n", c.Strategy(), c.Subject())
				return nil
			})
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the classification audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				if a.callRepo == nil {
					return errors.New("storage.database_path is not set; the audit log is disabled")
				}

				total, err := a.callRepo.Count(ctx)
				if err != nil {
					return fmt.Errorf("counting calls: %w", err)
				}
				rows, err := a.callRepo.CountByStrategy(ctx)
				if err != nil {
					return fmt.Errorf("counting by strategy: %w", err)
				}
				sort.Slice(rows, func(i, j int) bool { return rows[i].Strategy < rows[j].Strategy })

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "total: %d\n", total)
				for _, row := range rows {
					name := row.Strategy
					if name == "" {
						name = "unclassified"
					}
					fmt.Fprintf(out, "%s: %d\n", name, row.Count)
				}
				return nil
			})
		},
	}
}

// app holds what the subcommands share.
type app struct {
	landmarks *service.LandmarkService
	callRepo  storage.ClassificationRepository
}

// withApp loads config, wires the pipeline and runs fn with a context
// that is cancelled on Ctrl+C.
func withApp(fn func(ctx context.Context, a *app) error) error {
	cfg, err := config.Load(os.Getenv("LANDMARK_CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Development logger on stderr keeps stdout clean for results.
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	if cfg.Storage.DatabasePath != "" {
		db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
		a.callRepo = storage.NewClassificationRepository(db)
	}

	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}
	clients, err := llm.NewClients(cfg.LLM, httpClient)
	if err != nil && !errors.Is(err, llm.ErrNoClients) {
		return fmt.Errorf("creating LLM clients: %w", err)
	}

	places := provider.NewPlacesProvider(cfg.Places, httpClient, logger)
	images, err := provider.NewCustomSearchProvider(ctx, cfg.CustomSearch, httpClient, logger)
	if err != nil {
		return fmt.Errorf("creating custom search provider: %w", err)
	}

	classifier := intent.NewClassifier(clients, a.callRepo, logger)
	a.landmarks = service.NewLandmarkService(classifier, places, images, logger)

	return fn(ctx, a)
}
