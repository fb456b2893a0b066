package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/doeshing/rxdbg/internal/app"
	"github.com/doeshing/rxdbg/internal/domain"
	"github.com/doeshing/rxdbg/internal/infrastructure/cli/helpers"
	"github.com/doeshing/rxdbg/internal/ports"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded test runs",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryShowCommand(container),
		newHistorySearchCommand(container),
		newHistoryDeleteCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
		newHistoryStatsCommand(container),
	)

	return historyCmd
}

func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = container.Config.History.ListLimit
			}
			return listHistoryEntries(cmd.OutOrStdout(), container, "", limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max entries to show (default from config, 0 for all)")
	return cmd
}

func newHistoryShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one history entry in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(container)
			if err != nil {
				return err
			}
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			entry, ok := store.Find(id)
			if !ok {
				return fmt.Errorf("history entry %d not found", id)
			}
			displayHistoryEntry(cmd.OutOrStdout(), entry, container.Config.TimestampLayout())
			return nil
		},
	}
}

func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var query string
	var searchLimit int

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search history by pattern or test string",
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return errors.New(ErrQueryRequired)
			}
			return listHistoryEntries(cmd.OutOrStdout(), container, query, searchLimit)
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Search keyword")
	cmd.Flags().IntVar(&searchLimit, "limit", DefaultHistorySearchLimit, "Limit search results")
	return cmd
}

func newHistoryDeleteCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one history entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(container)
			if err != nil {
				return err
			}
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			if _, ok := store.Find(id); !ok {
				return fmt.Errorf("history entry %d not found", id)
			}
			if err := store.RemoveEntry(id); err != nil {
				return fmt.Errorf("failed to delete history entry: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted history entry %d.\n", id)
			return nil
		},
	}
}

func newHistoryClearCommand(container *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every history entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(container)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !yes && !helpers.PromptForConfirmation(out, bufio.NewReader(cmd.InOrStdin()), "Clear all history?") {
				fmt.Fprintln(out, MsgClearCancelled)
				return nil
			}
			if err := store.ClearHistory(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintln(out, MsgHistoryCleared)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history as a JSON array (use - for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportHistory(cmd.OutOrStdout(), container, args[0])
		},
	}
}

func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show match rate and most tested patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(container)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			entries := store.GetHistory()
			if len(entries) == 0 {
				fmt.Fprintln(out, MsgNoHistoryRecorded)
				return nil
			}
			displayHistoryStatistics(out, helpers.AnalyzeHistory(entries, DefaultTopPatterns))
			return nil
		},
	}
}

func historyStore(container *app.Container) (ports.HistoryRepository, error) {
	if container.HistoryStore == nil {
		return nil, errors.New(ErrHistoryStoreUnavailable)
	}
	return container.HistoryStore, nil
}

func parseEntryID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid history id %q", raw)
	}
	return id, nil
}

// listHistoryEntries prints matching entries, newest last, as a table.
func listHistoryEntries(out io.Writer, container *app.Container, query string, limit int) error {
	store, err := historyStore(container)
	if err != nil {
		return err
	}

	entries := store.Search(query, limit)
	if len(entries) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	layout := container.Config.TimestampLayout()
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "When", "Pattern", "Test string", "Matches"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, e := range entries {
		table.Append([]string{
			strconv.FormatInt(e.ID, 10),
			relativeTime(e.Timestamp, layout),
			e.Pattern,
			truncate(e.TestString, MaxTableCellWidth),
			humanize.Comma(int64(len(e.Matches))),
		})
	}
	table.Render()

	total := len(store.GetHistory())
	fmt.Fprintf(out, "Showing %s of %s entries\n", humanize.Comma(int64(len(entries))), humanize.Comma(int64(total)))
	return nil
}

func displayHistoryEntry(out io.Writer, e domain.HistoryEntry, layout string) {
	fmt.Fprintf(out, "ID: %d\n", e.ID)
	fmt.Fprintf(out, "Recorded: %s (%s)\n", e.Timestamp, relativeTime(e.Timestamp, layout))
	fmt.Fprintf(out, "Pattern: %s\n", e.Pattern)
	fmt.Fprintf(out, "Test string: %s\n", e.TestString)
	fmt.Fprintf(out, "Matches: %d\n", len(e.Matches))
	for i, m := range e.Matches {
		fmt.Fprintf(out, "  %d. %q at index %d\n", i+1, m.Text, m.Index)
	}
	if e.Explanation != "" {
		fmt.Fprintln(out)
		fmt.Fprint(out, e.Explanation)
	}
}

func exportHistory(out io.Writer, container *app.Container, path string) error {
	store, err := historyStore(container)
	if err != nil {
		return err
	}

	if path == "-" {
		return store.Export(out)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.SecureFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := store.Export(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to export history to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Exported %s entries to %s\n", humanize.Comma(int64(len(store.GetHistory()))), path)
	return nil
}

func displayHistoryStatistics(out io.Writer, stats helpers.HistoryStatistics) {
	fmt.Fprintf(out, "Entries: %s\nWith matches: %s\nMatch rate: %.1f%%\nTotal matches: %s\n",
		humanize.Comma(int64(stats.Entries)),
		humanize.Comma(int64(stats.WithMatches)),
		stats.MatchRate(),
		humanize.Comma(int64(stats.TotalMatches)))

	fmt.Fprintln(out, "Top patterns:")
	for _, stat := range stats.TopPatterns {
		fmt.Fprintf(out, "  %s (%d)\n", stat.Pattern, stat.Count)
	}
}

// relativeTime renders a stored timestamp as "3 minutes ago". Timestamps that
// do not parse with layout are returned unchanged.
func relativeTime(timestamp, layout string) string {
	t, err := time.ParseInLocation(layout, timestamp, time.Local)
	if err != nil {
		return timestamp
	}
	return humanize.Time(t)
}

func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", `\n`)
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
