package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"newslens/internal/app"
	"newslens/internal/config"
	"newslens/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := run(ctx, application, os.Args[1:]); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, application *app.Application, args []string) error {
	if len(args) == 0 {
		return application.Run(ctx)
	}

	switch args[0] {
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: newslens add <url> [title] [category]")
		}
		var title, category string
		if len(args) > 2 {
			title = args[2]
		}
		if len(args) > 3 {
			category = args[3]
		}
		feed, err := application.AddFeed(ctx, args[1], title, category)
		if err != nil {
			return err
		}
		fmt.Printf("added feed %s (%s)\n", feed.Title, feed.ID)
		return nil
	case "refresh":
		results, err := application.RefreshAll(ctx)
		if err != nil {
			return err
		}
		for _, r := range results {
			if r.Success {
				fmt.Printf("ok   %-40s new=%d\n", r.FeedTitle, r.NewArticles)
			} else {
				fmt.Printf("fail %-40s %s\n", r.FeedTitle, r.Err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}
