package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/pgaccess/internal/admin"
	"github.com/imgajeed76/pgaccess/internal/config"
	"github.com/imgajeed76/pgaccess/internal/db"
	"github.com/imgajeed76/pgaccess/internal/memstore"
	"github.com/imgajeed76/pgaccess/internal/query"
	"github.com/imgajeed76/pgaccess/internal/sqlitedb"
	"github.com/imgajeed76/pgaccess/internal/ui"
	"github.com/imgajeed76/pgaccess/internal/ui/styles"
	"github.com/imgajeed76/pgaccess/internal/ui/table"
	"github.com/imgajeed76/pgaccess/internal/util"
	"github.com/imgajeed76/pgaccess/internal/view"
)

// loadConfig reads the config file and applies the --backend flag. UI
// settings from the file take effect immediately.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, util.NewError("Invalid configuration").
			WithContext(config.Path()).
			WithSuggestion("pgaccess config list").
			Wrap(err)
	}
	if kind, _ := cmd.Flags().GetString("backend"); kind != "" {
		cfg.Backend.Kind = kind
		if err := cfg.Validate(); err != nil {
			return nil, util.UnknownBackendError(kind)
		}
	}
	if cfg.UI.NoColor {
		styles.SetNoColor(true)
	}
	if cfg.UI.Accessible {
		styles.SetAccessible(true)
	}
	return cfg, nil
}

// openBackend connects to the configured backend. Caller must Close it.
func openBackend(ctx context.Context, cfg *config.Config) (admin.Backend, error) {
	switch cfg.Backend.Kind {
	case config.BackendMemory:
		return memstore.NewSeeded(memstore.WithLogger(log)), nil

	case config.BackendSQLite:
		path := sqlitePath(cfg)
		s, err := sqlitedb.Open(ctx, path, log)
		if err != nil {
			return nil, util.DatabaseConnectionError(path, err)
		}
		return s, nil

	case config.BackendPostgres:
		if cfg.Backend.URL == "" {
			return nil, util.NoDatabaseURLError()
		}
		d, err := db.Connect(ctx, cfg.Backend.URL, log)
		if err != nil {
			return nil, util.DatabaseConnectionError(redactURL(cfg.Backend.URL), err)
		}
		return d, nil

	default:
		return nil, util.UnknownBackendError(cfg.Backend.Kind)
	}
}

func sqlitePath(cfg *config.Config) string {
	if cfg.Backend.Path != "" {
		return cfg.Backend.Path
	}
	return sqlitedb.DefaultPath()
}

// redactURL hides the password of a connection url for display.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}

// describeBackend is a one-line summary for status output.
func describeBackend(cfg *config.Config) string {
	switch cfg.Backend.Kind {
	case config.BackendSQLite:
		return fmt.Sprintf("sqlite (%s)", sqlitePath(cfg))
	case config.BackendPostgres:
		return fmt.Sprintf("postgres (%s)", redactURL(cfg.Backend.URL))
	default:
		return cfg.Backend.Kind
	}
}

// screens builds both screens over b with a shared query cache, so the
// accounts screen sees role renames.
func screens(b admin.Backend, cfg *config.Config) (*admin.AccountsScreen, *admin.RolesScreen) {
	q := query.New(log)
	return admin.NewAccountsScreen(b, q, log, cfg.View.PageSize), admin.NewRolesScreen(b, q, log)
}

// refresh fetches s with a spinner on stderr.
func refresh(ctx context.Context, s admin.Screen) error {
	sp := ui.NewSpinner(fmt.Sprintf("Loading %s...", strings.ToLower(s.Title())))
	sp.Start()
	err := s.Refresh(ctx)
	sp.Stop()
	return err
}

// ═══════════════════════════════════════════════════════════════════════════
// List flags
// ═══════════════════════════════════════════════════════════════════════════

type listFlags struct {
	search  string
	sort    string
	page    int
	ids     bool
	json    bool
	raw     bool
	noPager bool
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("search", "s", "", "Filter rows by text")
	cmd.Flags().String("sort", "", "Sort by column: <id>[:asc|desc]")
	cmd.Flags().IntP("page", "p", 1, "Page to show")
	cmd.Flags().Bool("ids", false, "Show entity ids")
	cmd.Flags().Bool("json", false, "Output the page as JSON")
	cmd.Flags().Bool("raw", false, "Output raw values without formatting (for piping)")
	cmd.Flags().Bool("no-pager", false, "Disable the interactive browser")
}

func getListFlags(cmd *cobra.Command) listFlags {
	var f listFlags
	f.search, _ = cmd.Flags().GetString("search")
	f.sort, _ = cmd.Flags().GetString("sort")
	f.page, _ = cmd.Flags().GetInt("page")
	f.ids, _ = cmd.Flags().GetBool("ids")
	f.json, _ = cmd.Flags().GetBool("json")
	f.raw, _ = cmd.Flags().GetBool("raw")
	f.noPager, _ = cmd.Flags().GetBool("no-pager")
	return f
}

// interactive reports whether the list should open the browser instead of
// printing a table.
func (f listFlags) interactive() bool {
	return !f.json && !f.raw && !f.noPager && ui.Interactive(os.Stdout)
}

// parseSort splits "<column>[:asc|desc]".
func parseSort(spec string) (string, view.Direction, error) {
	id, dir, _ := strings.Cut(strings.TrimSpace(spec), ":")
	if id == "" {
		return "", view.Ascending, fmt.Errorf("%w: %q", util.ErrInvalidSortSpec, spec)
	}
	switch strings.ToLower(dir) {
	case "", "asc":
		return id, view.Ascending, nil
	case "desc":
		return id, view.Descending, nil
	default:
		return "", view.Ascending, fmt.Errorf("%w: %q", util.ErrInvalidSortSpec, spec)
	}
}

// applySort toggles column id of s until it is sorted in dir.
func applySort(s admin.Screen, id string, dir view.Direction) error {
	g := s.Grid()
	col := -1
	for i, cid := range g.IDs {
		if cid == id && g.Sortable[i] {
			col = i
		}
	}
	if col < 0 {
		var valid []string
		for i, cid := range g.IDs {
			if g.Sortable[i] {
				valid = append(valid, cid)
			}
		}
		return util.NewError(fmt.Sprintf("Cannot sort by '%s'", id)).
			WithMessage("Sortable columns: " + strings.Join(valid, ", ")).
			Wrap(util.ErrInvalidSortSpec)
	}

	s.ToggleSort(id)
	if dir == view.Descending {
		s.ToggleSort(id)
	}
	return nil
}

// list fetches s, applies the list flags and shows the result.
func list(cmd *cobra.Command, s admin.Screen) error {
	ctx := cmd.Context()
	f := getListFlags(cmd)

	var sortID string
	var sortDir view.Direction
	if f.sort != "" {
		var err error
		if sortID, sortDir, err = parseSort(f.sort); err != nil {
			return err
		}
	}

	if f.search != "" {
		s.Search(f.search)
	}
	if err := refresh(ctx, s); err != nil {
		log.Debugw("fetch failed", "screen", s.Title(), "error", err)
	}
	if sortID != "" {
		if err := applySort(s, sortID, sortDir); err != nil {
			return err
		}
	}
	if f.page > 1 {
		s.GoToPage(f.page)
		if s.Stale() {
			if err := refresh(ctx, s); err != nil {
				log.Debugw("fetch failed", "screen", s.Title(), "page", f.page, "error", err)
			}
		}
	}

	if f.interactive() {
		return table.Browse(ctx, []admin.Screen{s}, log)
	}

	g := s.Grid()
	if err := table.DisplayResults(os.Stdout, g, table.DisplayOptions{
		Title:   s.Title(),
		JSON:    f.json,
		Raw:     f.raw,
		ShowIDs: f.ids,
	}); err != nil {
		return err
	}
	if g.Err != nil && !f.json && !f.raw {
		return reportedError{g.Err}
	}
	return nil
}

// withBackend loads config, opens the backend and runs fn with it.
func withBackend(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, b admin.Backend) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.Warnw("failed to close backend", "error", err)
		}
	}()
	return fn(ctx, cfg, b)
}
