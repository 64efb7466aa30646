// Package cli wires configuration, stores and the terminal UI behind the
// pomotrackr command line.
package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/sadopc/pomotrackr/internal/config"
	"github.com/sadopc/pomotrackr/internal/journal"
)

var (
	errInvalidDateRange = errors.New("--to must not be before --from")
	errUnknownFormat    = errors.New("--format must be csv or json")
)

type options struct {
	configPath string
}

func (o *options) load() (config.Config, error) {
	return config.Load(o.configPath)
}

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "pomotrackr [database-id]",
		Short: "Pomodoro timer and time analytics for a Notion project database",
		Long: `pomotrackr loads projects and tags from a Notion database, times focused
sessions against a project and charts where the time went.

The database id comes from the argument or notion.database_id in the config.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts, args)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"config file (default "+config.DefaultPath()+")")

	root.AddCommand(newHistoryCommand(opts))
	root.AddCommand(newExportCommand(opts))
	return root
}

// Execute runs the root command and reports any error on stderr.
func Execute(version string) error {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

// parseRange turns --from/--to/--database values into a journal filter.
// Empty values leave that bound open.
func parseRange(from, to, database string) (journal.Filter, error) {
	f := journal.Filter{DatabaseID: database}

	if from != "" {
		t, err := dateparse.ParseLocal(from)
		if err != nil {
			return f, fmt.Errorf("parse --from: %w", err)
		}
		f.From = &t
	}
	if to != "" {
		t, err := dateparse.ParseLocal(to)
		if err != nil {
			return f, fmt.Errorf("parse --to: %w", err)
		}
		f.To = &t
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, errInvalidDateRange
	}
	return f, nil
}

func addRangeFlags(cmd *cobra.Command, from, to, database *string) {
	cmd.Flags().StringVar(from, "from", "", "only sessions on or after this date")
	cmd.Flags().StringVar(to, "to", "", "only sessions before this date")
	cmd.Flags().StringVar(database, "database", "", "only sessions from this Notion database")
}

func formatTotal(secs int64) string {
	return (time.Duration(secs) * time.Second).String()
}
