package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/pgaccess/internal/admin"
	"github.com/imgajeed76/pgaccess/internal/config"
	"github.com/imgajeed76/pgaccess/internal/ui"
	"github.com/imgajeed76/pgaccess/internal/ui/table"
	"github.com/imgajeed76/pgaccess/internal/util"
)

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [accounts|roles]",
		Short: "Open the interactive browser",
		Long: `Open the accounts and roles tables in an interactive browser.

Keys:
  ↑↓←→     move between rows and columns
  s        sort by the selected column (ascending, descending, off)
  /        search
  n / p    next / previous page
  enter    delete the selected account or rename the selected role
  y / Y    copy cell / row, i copies the id
  tab      switch between accounts and roles
  q        quit`,
		ValidArgs: []string{"accounts", "roles"},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE:      runBrowse,
	}
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !ui.Interactive(os.Stdout) {
		return util.NewError("The browser needs an interactive terminal").
			WithSuggestions(
				"pgaccess accounts list --no-pager",
				"pgaccess roles list --no-pager",
			).
			Wrap(util.ErrNotInteractive)
	}

	first := "accounts"
	if len(args) == 1 {
		first = args[0]
	}

	return withBackend(cmd, func(ctx context.Context, cfg *config.Config, b admin.Backend) error {
		accounts, roles := screens(b, cfg)
		var order []admin.Screen
		switch first {
		case "accounts":
			order = []admin.Screen{accounts, roles}
		case "roles":
			order = []admin.Screen{roles, accounts}
		default:
			return fmt.Errorf("%w: %s", util.ErrUnknownScreen, first)
		}
		return table.Browse(ctx, order, log)
	})
}
