package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/notify"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/session"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/shell"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newShellCmd() *cobra.Command {
	var (
		configPath string
		owner      string
	)

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Long:  "Opens the chat view for the configured owner. Use `role admin` to switch to the admin dashboard.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, configPath, owner)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&owner, "owner", "", "display name for new chats (overrides config)")
	return cmd
}

func runShell(cmd *cobra.Command, configPath, owner string) error {
	a, err := appFromFlags(configPath)
	if err != nil {
		return err
	}
	if owner == "" {
		owner = a.cfg.Owner
	}

	notifier, err := newNotifier(a.cfg.Notify)
	if err != nil {
		return err
	}
	if notifier != nil {
		// Runs until the session has closed, so every resolution made in
		// the shell is delivered before exit.
		fwdCtx, stopForward := context.WithCancel(context.Background())
		forwarded := notify.StartForward(fwdCtx, a.store, notifier)
		defer func() {
			stopForward()
			<-forwarded
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in, out, restore, err := shellIO(cmd)
	if err != nil {
		return err
	}
	defer restore()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	var sh *shell.Shell
	sess, err := session.New(ctx, session.Opts{
		Store:     a.store,
		Directory: a.dir,
		Generator: a.gen,
		Owner:     owner,
		Policy:    a.cfg.Selection.Policy,
		OnReply:   func(r session.ReplyResult) { sh.PrintReply(r) },
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	sh, err = shell.New(shell.Opts{Session: sess, Stats: a.stats, Out: out})
	if err != nil {
		return err
	}
	return sh.Run(ctx, in)
}

// shellIO uses a raw-mode line editor when stdin is a terminal and plain
// line scanning otherwise.
func shellIO(cmd *cobra.Command) (shell.LineReader, io.Writer, func(), error) {
	stdin := cmd.InOrStdin()
	stdout := cmd.OutOrStdout()

	f, ok := stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return shell.NewScanReader(stdin), stdout, func() {}, nil
	}

	state, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("shell: raw mode: %w", err)
	}
	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{f, stdout}, "")
	logOut := log.Writer()
	log.SetOutput(t)
	return t, t, func() {
		log.SetOutput(logOut)
		term.Restore(int(f.Fd()), state)
	}, nil
}
