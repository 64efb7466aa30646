package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/pomotrackr/internal/analytics"
	"github.com/sadopc/pomotrackr/internal/config"
	"github.com/sadopc/pomotrackr/internal/export"
	"github.com/sadopc/pomotrackr/internal/journal"
)

func newExportCommand(opts *options) *cobra.Command {
	var format, out, from, to, database string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write journaled sessions to a CSV or JSON file",
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
			return runExport(cmd.OutOrStdout(), cfg, f, format, out)
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	_ = cmd.MarkFlagRequired("out")
	addRangeFlags(cmd, &from, &to, &database)
	return cmd
}

func runExport(w io.Writer, cfg config.Config, f journal.Filter, format, path string) error {
	write := export.ToCSV
	switch strings.ToLower(format) {
	case "csv":
	case "json":
		write = export.ToJSON
	default:
		return errUnknownFormat
	}

	j, err := journal.New(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer j.Close()

	rows, err := j.List(f)
	if err != nil {
		return err
	}

	sheets := make([]analytics.FilteredTimesheet, len(rows))
	for i, r := range rows {
		sheets[i] = analytics.FilteredTimesheet{TimesheetEntry: r.TimesheetEntry, ProjectName: r.ProjectName}
	}
	if err := write(sheets, path); err != nil {
		return err
	}
	fmt.Fprintf(w, "Exported %d sessions to %s\n", len(sheets), path)
	return nil
}
