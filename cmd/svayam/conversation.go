package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/conversation"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/models"
	"github.com/spf13/cobra"
)

func newConversationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversation",
		Aliases: []string{"conv"},
		Short:   "Inspect conversations",
	}

	cmd.AddCommand(newConversationListCmd())
	cmd.AddCommand(newConversationShowCmd())
	return cmd
}

func newConversationListCmd() *cobra.Command {
	var (
		configPath string
		filters    conversation.ListFilters
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromFlags(configPath)
			if err != nil {
				return err
			}
			convs, err := a.store.List(context.Background(), filters)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(convs) == 0 {
				fmt.Fprintln(out, "No conversations found.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tSTARTED\tUSER\tMSGS\tTOPIC")
			for _, c := range convs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", c.ID, c.Status(), c.StartDate, c.UserName, len(c.Messages), c.Topic)
			}
			return w.Flush()
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&filters.Status, "status", "", "filter by status (open, resolved)")
	cmd.Flags().StringVar(&filters.Owner, "user", "", "filter by conversation owner")
	cmd.Flags().StringVarP(&filters.Search, "query", "q", "", "search id, topic and owner")
	return cmd
}

func newConversationShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <conversation-id>",
		Short: "Show a conversation with its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromFlags(configPath)
			if err != nil {
				return err
			}
			c, err := a.store.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s\n", c.ID, c.Topic)
			fmt.Fprintf(out, "Status: %s  User: %s  Started: %s\n", c.Status(), c.UserName, c.StartDate)
			if c.ResolvedDate != nil {
				fmt.Fprintf(out, "Resolved: %s\n", *c.ResolvedDate)
			}
			if c.ResolutionNotes != nil {
				fmt.Fprintf(out, "Notes: %s\n", *c.ResolutionNotes)
			}
			fmt.Fprintln(out)
			for _, m := range c.Messages {
				who := "user"
				if m.Sender == models.SenderAI {
					who = "ai"
				}
				fmt.Fprintf(out, "[%d] %s: %s\n", m.Sequence, who, m.Text)
			}
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}
