// Command gridtui browses and edits a JSON grid file in the terminal.
//
// Usage: gridtui <file.json>
//
// The file holds {"name", "lang", "columns", "records", "styles"}. Sort and
// filter state is kept in the SQLite store named by SQLITE_PATH, so it
// survives restarts per grid name.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/datagrid/internal/application"
	"github.com/JonMunkholm/datagrid/internal/config"
	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/i18n"
	"github.com/JonMunkholm/datagrid/internal/logging"
	"github.com/JonMunkholm/datagrid/internal/render"
	"github.com/JonMunkholm/datagrid/internal/render/termview"
	"github.com/JonMunkholm/datagrid/internal/statestore"
)

// gridFile is the on-disk document. Records stay generic so saving keeps
// fields the columns do not show.
type gridFile struct {
	Name    string            `json:"name"`
	Lang    string            `json:"lang,omitempty"`
	Columns []grid.Column     `json:"columns"`
	Records []grid.Record     `json:"records"`
	Styles  map[string]string `json:"styles,omitempty"`
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: gridtui <file.json>")
		os.Exit(2)
	}
	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, "gridtui:", err)
		os.Exit(1)
	}
}

func run(path string) error {
	// .env is optional here
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile("gridtui.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	log := logging.New(logFile, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)

	doc, err := readGridFile(path)
	if err != nil {
		return err
	}
	styles, err := grid.NewStyles(doc.Styles)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := statestore.OpenSQLite(ctx, cfg.Store.SQLitePath)
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer store.Close()

	tr := i18n.DefaultCatalog().Translator(doc.Lang, os.Getenv("LANG"))
	view := termview.New(tr)

	// prog is assigned before Run, and debounced filters only fire after
	// the program started.
	var prog *tea.Program
	g := grid.New(grid.Options{
		Name:           doc.Name,
		Presenter:      view,
		Store:          store,
		AutoSave:       cfg.Grid.AutoSave,
		StoreTimeout:   cfg.Grid.StoreTimeout,
		FilterDebounce: cfg.Grid.FilterDebounce,
		Logger:         log.With("grid", doc.Name),
		Translator:     tr,
		Styles:         &styles,
		Dispatch: func(fn func()) {
			prog.Send(application.DispatchMsg(fn))
		},
	})
	defer g.Close()

	view.DetailContent = func(id string) string {
		rec, ok := g.Item(id)
		if !ok {
			return ""
		}
		return render.Summary(rec, g.Columns())
	}
	g.SetColumns(doc.Columns)
	g.SetRecords(doc.Records)

	model := application.New(application.Options{
		Grid: g,
		View: view,
		Save: func(records []grid.Record) error {
			doc.Records = records
			return writeGridFile(path, doc)
		},
	})

	prog = tea.NewProgram(model, tea.WithAltScreen())
	slog.Info("gridtui started", "file", path, "records", g.Len())
	if _, err := prog.Run(); err != nil {
		return err
	}
	if model.Dirty() {
		fmt.Fprintln(os.Stderr, "gridtui: unsaved edits discarded")
	}
	return nil
}

func readGridFile(path string) (*gridFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc gridFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &doc, nil
}

// writeGridFile replaces path atomically.
func writeGridFile(path string, doc *gridFile) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
