package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sadopc/pomotrackr/internal/config"
	"github.com/sadopc/pomotrackr/internal/journal"
	"github.com/sadopc/pomotrackr/internal/logging"
	"github.com/sadopc/pomotrackr/internal/notion"
	"github.com/sadopc/pomotrackr/internal/store"
	"github.com/sadopc/pomotrackr/internal/tui"
)

var errNotTerminal = errors.New("stdout is not a terminal; use the history or export commands instead")

// isTerminal is replaced in tests.
var isTerminal = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func notify(title, message string) error {
	return beeep.Notify(title, message, "")
}

func runTUI(cmd *cobra.Command, opts *options, args []string) error {
	if !isTerminal(os.Stdout.Fd()) {
		return errNotTerminal
	}

	cfg, err := opts.load()
	if err != nil {
		return err
	}
	databaseID := cfg.Notion.DatabaseID
	if len(args) == 1 {
		databaseID = args[0]
	}

	log, closer, err := logging.New(logging.Config{
		Path:       cfg.Log.Path,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	st, cleanup, err := newStores(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	client := notion.NewClient(notion.Config{
		BaseURL: cfg.Notion.BaseURL,
		Token:   cfg.Notion.Token,
		Version: cfg.Notion.Version,
		Timeout: cfg.Notion.Timeout,
	}, log)

	exportDir, err := os.UserHomeDir()
	if err != nil {
		exportDir = "."
	}

	app := tui.NewApp(cmd.Context(), tui.Options{
		Projects:   st.projects,
		Pomodoro:   st.pomodoro,
		User:       st.user,
		Source:     notion.NewSource(client, cfg.Notion.TagsProperty),
		DatabaseID: databaseID,
		ExportDir:  exportDir,
		Notify:     notify,
		Log:        log,
	})

	log.Info("starting", "database", databaseID, "journal", cfg.Journal.Enabled)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

type stores struct {
	projects *store.ProjectStore
	pomodoro *store.PomodoroStore
	user     *store.UserStore
}

// newStores builds the stores for one run. Completed sessions go to the
// project store and, when enabled, the journal.
func newStores(cfg config.Config, log *slog.Logger) (stores, func(), error) {
	ps := store.NewProjectStore(log)
	sinks := store.EntrySinks{ps}
	cleanup := func() {}

	if cfg.Journal.Enabled {
		j, err := journal.New(cfg.Journal.Path)
		if err != nil {
			return stores{}, nil, err
		}
		sinks = append(sinks, journal.Sink{Journal: j, Projects: ps})
		cleanup = func() { j.Close() }
	}

	user := store.NewUserStore(store.UserState{
		Preferences: store.Preferences{
			WorkDuration: cfg.WorkDuration(),
			TickInterval: cfg.Pomodoro.TickInterval,
			AutoComplete: cfg.Pomodoro.AutoComplete,
			Notify:       cfg.Notify,
		},
	})
	if cfg.User.Name != "" || cfg.User.Email != "" {
		_ = user.Dispatch(store.SignIn{Name: cfg.User.Name, Email: cfg.User.Email})
	}

	return stores{
		projects: ps,
		pomodoro: store.NewPomodoroStore(sinks, store.WithPomodoroLogger(log)),
		user:     user,
	}, cleanup, nil
}
