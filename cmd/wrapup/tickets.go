package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oronculzac/wrapup/internal/linear"
	"github.com/oronculzac/wrapup/internal/output"
	"github.com/oronculzac/wrapup/internal/session"
)

// newTicketsCmd creates the tickets command.
func newTicketsCmd() *cobra.Command {
	var (
		sinceHours int
		id         string
		search     string
		create     string
		body       string
	)
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "List, search, or create Linear tickets",
		Long: `Work with the Linear tickets that feed the session pipeline.

By default lists tickets in progress or completed within the window that
a wrap run would see. Requires LINEAR_API_KEY.

Examples:
  wrapup tickets                        # Session-relevant tickets
  wrapup tickets --since 48             # Widen the window to 48 hours
  wrapup tickets --id ENG-123           # Show one ticket
  wrapup tickets --search "spark"       # Full-text search
  wrapup tickets --create "Fix ingest" --body "Pipeline drops rows"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTickets(cmd, sinceHours, id, search, create, body)
		},
	}
	cmd.Flags().IntVar(&sinceHours, "since", 24, "How many hours back to look for completed tickets")
	cmd.Flags().StringVar(&id, "id", "", "Show a single ticket by identifier")
	cmd.Flags().StringVar(&search, "search", "", "Search tickets by text instead of listing")
	cmd.Flags().StringVar(&create, "create", "", "Create a ticket with this title")
	cmd.Flags().StringVar(&body, "body", "", "Description for --create")
	return cmd
}

// runTickets executes the tickets command.
func runTickets(cmd *cobra.Command, sinceHours int, id, search, create, body string) error {
	printer := newPrinter(cmd)
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		printer.Error(err)
		return err
	}

	client, err := linear.New(cfg.Linear.APIKey)
	if err != nil {
		printer.Error(err)
		return err
	}

	if create != "" {
		ticket, err := client.CreateIssue(ctx, create, body, cfg.Linear.TeamID)
		if err != nil {
			printer.Error(err)
			return err
		}
		return printer.Success(map[string]any{
			"message":    fmt.Sprintf("Created %s: %s", ticket.Identifier, ticket.Title),
			"identifier": ticket.Identifier,
		})
	}

	var tickets []session.Ticket
	if id != "" {
		ticket, err := client.IssueByID(ctx, id)
		if err != nil {
			printer.Error(err)
			return err
		}
		if ticket == nil {
			notFound := output.NewUserError("no ticket found with identifier " + id)
			printer.Error(notFound)
			return notFound
		}
		tickets = []session.Ticket{*ticket}
	} else if search != "" {
		tickets, err = client.SearchIssues(ctx, search)
	} else {
		tickets, err = client.SessionTickets(ctx, sinceHours)
	}
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{"tickets": tickets, "count": len(tickets)})
	}

	printTickets(printer, tickets)
	return nil
}

// printTickets renders a ticket table.
func printTickets(printer *output.Printer, tickets []session.Ticket) {
	if len(tickets) == 0 {
		printer.Println("No tickets found")
		return
	}
	rows := make([][]string, 0, len(tickets))
	for _, t := range tickets {
		rows = append(rows, []string{t.Identifier, t.State, t.Title, t.Project})
	}
	printer.Table([]string{"ID", "State", "Title", "Project"}, rows)
}
