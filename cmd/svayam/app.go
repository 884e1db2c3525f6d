package main

import (
	"fmt"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/config"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/conversation"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/db"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/directory"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/notify"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/notify/discord"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/notify/slack"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/reply"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/stats"
	"github.com/spf13/cobra"
)

// replyKinds resolves reply.kind from the config. Register additional
// generators here before commands run.
var replyKinds = reply.NewRegistry()

// newNotifier builds the webhook notifiers named in the config.
var newNotifier = buildNotifier

// app is the wired set of components shared by every command.
type app struct {
	cfg   *config.Config
	store *conversation.Store
	dir   *directory.Directory
	stats *stats.Aggregator
	gen   reply.Generator
}

// loadConfig reads path, or returns the defaults when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newApp opens the in-memory database, seeds it and builds the components.
func newApp(cfg *config.Config) (*app, error) {
	gormDB, err := db.Open(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.SeedEnabled() {
		sd, err := db.LoadSeed(cfg.Seed.Path)
		if err != nil {
			return nil, err
		}
		if err := db.Seed(gormDB, sd); err != nil {
			return nil, err
		}
	}

	store, err := conversation.NewStore(conversation.StoreOpts{DB: gormDB})
	if err != nil {
		return nil, err
	}
	dir, err := directory.New(gormDB)
	if err != nil {
		return nil, err
	}
	gen, err := replyKinds.New(cfg.Reply)
	if err != nil {
		return nil, fmt.Errorf("config: reply.kind: %w", err)
	}
	return &app{
		cfg:   cfg,
		store: store,
		dir:   dir,
		stats: stats.NewAggregator(store, cfg.Stats.AIUnitCost),
		gen:   gen,
	}, nil
}

// appFromFlags loads the config named by --config and builds the app.
func appFromFlags(configPath string) (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return newApp(cfg)
}

// buildNotifier returns the configured webhook notifiers, or nil if none.
func buildNotifier(cfg config.NotifyConfig) (notify.Notifier, error) {
	var multi notify.Multi
	if cfg.SlackWebhookURL != "" {
		n, err := slack.New(cfg.SlackWebhookURL)
		if err != nil {
			return nil, err
		}
		multi = append(multi, n)
	}
	if cfg.DiscordWebhookID != "" {
		n, err := discord.New(cfg.DiscordWebhookID, cfg.DiscordWebhookToken)
		if err != nil {
			return nil, err
		}
		multi = append(multi, n)
	}
	if len(multi) == 0 {
		return nil, nil
	}
	return multi, nil
}

func addConfigFlag(cmd *cobra.Command, configPath *string) {
	cmd.Flags().StringVarP(configPath, "config", "c", "", "path to Svayam config file (defaults apply when empty)")
}
