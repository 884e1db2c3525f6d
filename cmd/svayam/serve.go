package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/dashboard"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/digest"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/notify"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the admin dashboard API",
		Long:  "Serves the admin dashboard API, forwards resolutions to the configured webhooks and runs the stats digest.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	a, err := appFromFlags(configPath)
	if err != nil {
		return err
	}
	if port == 0 {
		port = a.cfg.Dashboard.Port
	}
	out := cmd.OutOrStdout()

	notifier, err := newNotifier(a.cfg.Notify)
	if err != nil {
		return err
	}

	var sched *digest.Scheduler
	if a.cfg.Digest.Cron != "" {
		sched, err = digest.New(digest.Opts{
			Cron:     a.cfg.Digest.Cron,
			Stats:    a.stats,
			Out:      out,
			Notifier: notifier,
		})
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(out, "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	var wg sync.WaitGroup
	if notifier != nil {
		fmt.Fprintf(out, "Forwarding resolutions to %s\n", notifier.Name())
		forwarded := notify.StartForward(ctx, a.store, notifier)
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-forwarded
		}()
	}
	if sched != nil {
		fmt.Fprintf(out, "Digest scheduled (%s), next in %s\n", a.cfg.Digest.Cron, sched.Until().Round(time.Second))
		wg.Add(1)
		go func() {
			defer wg.Done()
			sched.Run(ctx)
		}()
	}

	err = dashboard.Start(ctx, dashboard.StartOpts{
		Store:     a.store,
		Directory: a.dir,
		Stats:     a.stats,
		Port:      port,
		Out:       out,
	})
	cancel()
	wg.Wait()
	return err
}
