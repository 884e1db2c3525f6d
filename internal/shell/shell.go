// Package shell is the interactive command loop over a session.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/conversation"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/directory"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/session"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/stats"
)

// LineReader yields one input line per call. *term.Terminal satisfies it.
type LineReader interface {
	ReadLine() (string, error)
}

// prompter is implemented by readers that draw their own prompt.
type prompter interface {
	SetPrompt(string)
}

// Opts holds parameters for creating a Shell.
type Opts struct {
	Session *session.Session
	Stats   *stats.Aggregator
	Out     io.Writer
}

// Shell parses command lines and drives a Session.
type Shell struct {
	sess  *session.Session
	stats *stats.Aggregator

	mu  sync.Mutex // serialises writes to out
	out io.Writer
}

// New creates a Shell.
func New(opts Opts) (*Shell, error) {
	if opts.Session == nil {
		return nil, fmt.Errorf("shell: session is required")
	}
	if opts.Stats == nil {
		return nil, fmt.Errorf("shell: stats aggregator is required")
	}
	if opts.Out == nil {
		return nil, fmt.Errorf("shell: output writer is required")
	}
	return &Shell{sess: opts.Session, stats: opts.Stats, out: opts.Out}, nil
}

// Prompt describes the current view, e.g. "user:CONV001> " or "admin> ".
func (sh *Shell) Prompt() string {
	if sh.sess.Role() == session.RoleAdmin {
		if id := sh.sess.AdminSelectedID(); id != "" {
			return "admin:" + id + "> "
		}
		return "admin> "
	}
	if id := sh.sess.ActiveConversationID(); id != "" {
		return "user:" + id + "> "
	}
	return "user> "
}

// Run reads lines until EOF, quit, or ctx is cancelled.
func (sh *Shell) Run(ctx context.Context, in LineReader) error {
	sh.println("Type `help` for commands.")
	for {
		if p, ok := in.(prompter); ok {
			p.SetPrompt(sh.Prompt())
		} else {
			sh.print(sh.Prompt())
		}
		line, err := in.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("shell: read: %w", err)
		}
		if ctx.Err() != nil {
			return nil
		}
		resp, quit := sh.Execute(ctx, line)
		if resp != "" {
			sh.println(resp)
		}
		if quit {
			return nil
		}
	}
}

// PrintReply writes a landed background reply. It is meant to be passed
// as the session's OnReply hook.
func (sh *Shell) PrintReply(r session.ReplyResult) {
	sh.println(formatReply(r))
}

func (sh *Shell) print(s string) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	fmt.Fprint(sh.out, s)
}

func (sh *Shell) println(s string) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	fmt.Fprintln(sh.out, strings.TrimRight(s, "\n"))
}

// Execute runs one command line and returns the response text, and whether
// the shell should exit. In the chat view a line is a message unless it is
// shaped like a command; a leading "/" always marks a command.
func (sh *Shell) Execute(ctx context.Context, line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	forced := strings.HasPrefix(line, "/")
	if forced {
		line = strings.TrimSpace(line[1:])
		if line == "" {
			return helpText(), false
		}
	}
	name, rest := splitCommand(line)

	if !forced && sh.sess.Role() == session.RoleUser && !commandShaped(name, rest) {
		return sh.cmdSend(ctx, line), false
	}

	switch name {
	case "help", "?":
		return helpText(), false
	case "quit", "exit":
		return "Bye.", true
	case "role":
		return sh.cmdRole(ctx, rest), false
	case "new":
		return sh.cmdNew(ctx), false
	case "open":
		return sh.cmdOpen(ctx, rest), false
	case "send":
		return sh.cmdSend(ctx, rest), false
	case "resolve":
		return sh.cmdResolve(ctx, rest), false
	case "feedback":
		return sh.cmdFeedback(ctx), false
	case "select":
		return sh.cmdSelect(ctx, rest), false
	case "back":
		return errText(sh.sess.Back(), "Back to the conversation list."), false
	case "list", "ls":
		return sh.cmdList(ctx, rest), false
	case "show":
		return sh.cmdShow(ctx), false
	case "stats":
		return sh.cmdStats(ctx), false
	case "users":
		return sh.cmdUsers(ctx), false
	case "user":
		return sh.cmdUser(ctx, rest), false
	case "wait":
		sh.sess.Wait()
		return "", false
	default:
		return fmt.Sprintf("Unknown command: `%s`\n\n%s", name, helpText()), false
	}
}

// commandShaped reports whether an unprefixed chat-view line is a command.
// Words like "new" or "exit" only count on their own, so a message such as
// "new laptop will not boot" is sent as typed.
func commandShaped(name, rest string) bool {
	switch name {
	case "help", "?", "quit", "exit", "new", "show", "stats", "back", "wait", "feedback", "users":
		return rest == ""
	case "role":
		r := strings.ToLower(rest)
		return r == session.RoleUser || r == session.RoleAdmin
	case "open", "select":
		return rest != "" && !strings.ContainsAny(rest, " \t")
	case "list", "ls":
		return rest == "" || strings.HasPrefix(rest, "--")
	case "user":
		sub, _, _ := strings.Cut(rest, " ")
		switch sub {
		case "add", "update", "rm", "remove":
			return true
		}
	case "resolve":
		return true
	}
	return false
}

// splitCommand returns the first word and the untouched remainder.
func splitCommand(line string) (string, string) {
	name, rest, _ := strings.Cut(line, " ")
	return strings.ToLower(name), strings.TrimSpace(rest)
}

func errText(err error, ok string) string {
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return ok
}

func (sh *Shell) cmdRole(ctx context.Context, rest string) string {
	role := strings.ToLower(rest)
	if role != session.RoleUser && role != session.RoleAdmin {
		return "Usage: `role user|admin`"
	}
	if err := sh.sess.SwitchRole(ctx, role); err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	if role == session.RoleAdmin {
		return "Switched to the admin dashboard."
	}
	if id := sh.sess.ActiveConversationID(); id != "" {
		return fmt.Sprintf("Switched to chat. Active conversation: %s", id)
	}
	return "Switched to chat. No open conversation; use `new` to start one."
}

func (sh *Shell) cmdNew(ctx context.Context) string {
	conv, err := sh.sess.NewChat(ctx)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return formatConversationDetail(conv)
}

func (sh *Shell) cmdOpen(ctx context.Context, rest string) string {
	if rest == "" {
		return "Usage: `open <conversation-id>`"
	}
	if err := sh.sess.OpenConversation(ctx, rest); err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return sh.cmdShow(ctx)
}

func (sh *Shell) cmdSelect(ctx context.Context, rest string) string {
	if rest == "" {
		return "Usage: `select <conversation-id>`"
	}
	if err := sh.sess.SelectForAdmin(ctx, rest); err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return sh.cmdShow(ctx)
}

func (sh *Shell) cmdSend(ctx context.Context, text string) string {
	if text == "" {
		return "Usage: `send <text>`"
	}
	msg, err := sh.sess.Send(ctx, text)
	if err != nil {
		if errors.Is(err, session.ErrReplyPending) {
			return "The assistant is still typing..."
		}
		return fmt.Sprintf("Error: %v", err)
	}
	return fmt.Sprintf("You: %s\n(assistant is typing...)", msg.Text)
}

func (sh *Shell) cmdResolve(ctx context.Context, notes string) string {
	id, changed, err := sh.sess.Resolve(ctx, notes)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	if !changed {
		return fmt.Sprintf("%s is already resolved.", id)
	}
	return fmt.Sprintf("%s resolved.", id)
}

func (sh *Shell) cmdFeedback(ctx context.Context) string {
	return errText(sh.sess.Feedback(ctx), "Thanks for your feedback!")
}

func (sh *Shell) cmdList(ctx context.Context, rest string) string {
	filters := conversation.ListFilters{}
	args := splitArgs(rest)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--mine":
			filters.Owner = sh.sess.Owner()
		case "--status", "--q":
			if i+1 >= len(args) {
				return "Usage: `list [--status open|resolved] [--q <term>] [--mine]`"
			}
			if args[i] == "--status" {
				filters.Status = args[i+1]
			} else {
				filters.Search = args[i+1]
			}
			i++
		default:
			return "Usage: `list [--status open|resolved] [--q <term>] [--mine]`"
		}
	}
	convs, err := sh.sess.Conversations(ctx, filters)
	if err != nil {
		return fmt.Sprintf("Error listing conversations: %v", err)
	}
	if len(convs) == 0 {
		return "No conversations found."
	}
	return formatConversationTable(convs, sh.focusID())
}

func (sh *Shell) focusID() string {
	if sh.sess.Role() == session.RoleAdmin {
		return sh.sess.AdminSelectedID()
	}
	return sh.sess.ActiveConversationID()
}

func (sh *Shell) cmdShow(ctx context.Context) string {
	conv, err := sh.sess.Current(ctx)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	if conv == nil {
		return "No conversation selected."
	}
	out := formatConversationDetail(conv)
	if sh.sess.Pending(conv.ID) {
		out += "\n(assistant is typing...)"
	}
	return out
}

func (sh *Shell) cmdStats(ctx context.Context) string {
	st, err := sh.stats.Current(ctx)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return formatStats(st)
}

func (sh *Shell) cmdUsers(ctx context.Context) string {
	users, err := sh.sess.Users(ctx)
	if err != nil {
		return fmt.Sprintf("Error listing users: %v", err)
	}
	if len(users) == 0 {
		return "No users."
	}
	return formatUserTable(users)
}

const userUsage = "Usage: `user add <name> <email> <role>`, " +
	"`user update <id> [--name X] [--email X] [--role X] [--last-login X]` or `user rm <id>`"

// cmdUser handles "user" subcommands. Quote values containing spaces.
func (sh *Shell) cmdUser(ctx context.Context, rest string) string {
	args := splitArgs(rest)
	if len(args) == 0 {
		return userUsage
	}
	switch args[0] {
	case "add":
		if len(args) != 4 {
			return "Usage: `user add <name> <email> <role>`"
		}
		u, err := sh.sess.AddUser(ctx, directory.AddOpts{Name: args[1], Email: args[2], Role: args[3]})
		if err != nil {
			return fmt.Sprintf("Error: %v", err)
		}
		return fmt.Sprintf("Added %s (%s).", u.ID, u.Name)
	case "update":
		if len(args) < 2 || len(args)%2 != 0 {
			return userUsage
		}
		var opts directory.UpdateOpts
		for i := 2; i < len(args); i += 2 {
			v := args[i+1]
			switch args[i] {
			case "--name":
				opts.Name = &v
			case "--email":
				opts.Email = &v
			case "--role":
				opts.Role = &v
			case "--last-login":
				opts.LastLogin = &v
			default:
				return userUsage
			}
		}
		u, err := sh.sess.UpdateUser(ctx, args[1], opts)
		if err != nil {
			return fmt.Sprintf("Error: %v", err)
		}
		return fmt.Sprintf("Updated %s.", u.ID)
	case "rm", "remove":
		if len(args) != 2 {
			return "Usage: `user rm <id>`"
		}
		return errText(sh.sess.RemoveUser(ctx, args[1]), fmt.Sprintf("Removed %s.", args[1]))
	default:
		return fmt.Sprintf("Unknown user subcommand: `%s`\n%s", args[0], userUsage)
	}
}

// splitArgs splits on whitespace, keeping double-quoted runs together.
func splitArgs(s string) []string {
	var (
		args  []string
		cur   strings.Builder
		quote bool
		have  bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quote = !quote
			have = true
		case !quote && (r == ' ' || r == '\t'):
			if have {
				args = append(args, cur.String())
				cur.Reset()
				have = false
			}
		default:
			cur.WriteRune(r)
			have = true
		}
	}
	if have {
		args = append(args, cur.String())
	}
	return args
}

func helpText() string {
	return "**Svayam Commands**\n" +
		"`role user|admin` switch view\n" +
		"`list [--status X] [--q X] [--mine]` list conversations\n" +
		"`show` show the conversation in focus\n" +
		"`stats` dashboard statistics\n" +
		"\nChat view:\n" +
		"`new` start a chat\n" +
		"`open <id>` make a conversation active\n" +
		"just type to send a message (`/send <text>` sends text that looks like a command)\n" +
		"`resolve [notes]` mark the active conversation resolved\n" +
		"`feedback` rate a resolved conversation\n" +
		"`wait` wait for pending replies\n" +
		"\nAdmin view:\n" +
		"`select <id>` open a conversation\n" +
		"`back` return to the list\n" +
		"`resolve [notes]` resolve the selected conversation\n" +
		"`users`, `user add|update|rm` manage the directory\n" +
		"\nPrefix any command with `/` to force it, e.g. `/new`.\n" +
		"`quit` exit"
}
