package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/maruel/natural"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sadopc/pomotrackr/internal/config"
	"github.com/sadopc/pomotrackr/internal/journal"
)

func newHistoryCommand(opts *options) *cobra.Command {
	var from, to, database string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show time logged per project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			f, err := parseRange(from, to, database)
			if err != nil {
				return err
			}
			return runHistory(cmd.OutOrStdout(), cfg, f)
		},
	}
	addRangeFlags(cmd, &from, &to, &database)
	return cmd
}

func runHistory(w io.Writer, cfg config.Config, f journal.Filter) error {
	j, err := journal.New(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer j.Close()

	totals, err := j.Totals(f)
	if err != nil {
		return err
	}
	if len(totals) == 0 {
		fmt.Fprintln(w, "No sessions recorded.")
		return nil
	}

	sort.SliceStable(totals, func(i, k int) bool {
		return natural.Less(totalName(totals[i]), totalName(totals[k]))
	})

	data := pterm.TableData{{"Project", "Sessions", "Time"}}
	var sum int64
	var sessions int
	for _, t := range totals {
		data = append(data, []string{totalName(t), strconv.Itoa(t.Sessions), formatTotal(t.Seconds)})
		sum += t.Seconds
		sessions += t.Sessions
	}
	data = append(data, []string{"Total", strconv.Itoa(sessions), formatTotal(sum)})

	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("render history: %w", err)
	}
	fmt.Fprintln(w, table)
	return nil
}

func totalName(t journal.Total) string {
	if t.ProjectName == "" {
		return t.ProjectID
	}
	return t.ProjectName
}
