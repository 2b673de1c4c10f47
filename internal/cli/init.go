package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/pgaccess/internal/admin"
	"github.com/imgajeed76/pgaccess/internal/config"
	"github.com/imgajeed76/pgaccess/internal/memstore"
	"github.com/imgajeed76/pgaccess/internal/ui"
	"github.com/imgajeed76/pgaccess/internal/ui/styles"
	"github.com/imgajeed76/pgaccess/internal/util"
)

// schemaStore is a backend with a schema to create, inspect, drop and fill.
type schemaStore interface {
	InitSchema(ctx context.Context) error
	MissingTables(ctx context.Context) ([]string, error)
	DropSchema(ctx context.Context) error
	Seed(ctx context.Context, f memstore.Fixture) error
}

// missingTables reports the tables b still needs. ok is false for
// backends without a schema.
func missingTables(ctx context.Context, b admin.Backend) (missing []string, ok bool, err error) {
	store, ok := b.(schemaStore)
	if !ok {
		return nil, false, nil
	}
	missing, err = store.MissingTables(ctx)
	return missing, true, err
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the accounts and roles schema",
		Long: `Create the accounts and roles tables in the configured backend.

With --seed the tables are filled with sample roles and accounts,
replacing anything already stored. With --reset the tables are dropped
and created again first. The memory backend is always seeded and needs
no setup.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
	cmd.Flags().Bool("seed", false, "Fill the tables with sample data (replaces existing rows)")
	cmd.Flags().Bool("reset", false, "Drop the tables before creating them (deletes all rows)")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	seed, _ := cmd.Flags().GetBool("seed")
	reset, _ := cmd.Flags().GetBool("reset")

	return withBackend(cmd, func(ctx context.Context, cfg *config.Config, b admin.Backend) error {
		store, ok := b.(schemaStore)
		if !ok {
			fmt.Println(styles.WarningMsg(fmt.Sprintf("The %s backend needs no setup", cfg.Backend.Kind)))
			return nil
		}

		if reset {
			sp := ui.NewSpinner("Dropping schema...")
			sp.Start()
			if err := store.DropSchema(ctx); err != nil {
				sp.Error("Failed to drop schema")
				return util.NewError("Failed to drop schema").
					WithContext(describeBackend(cfg)).
					Wrap(err)
			}
			sp.Stop()
		}

		sp := ui.NewSpinner("Creating schema...")
		sp.Start()
		if err := store.InitSchema(ctx); err != nil {
			sp.Error("Failed to create schema")
			return util.NewError("Failed to create schema").
				WithContext(describeBackend(cfg)).
				Wrap(err)
		}
		sp.Success(fmt.Sprintf("Schema ready in %s", describeBackend(cfg)))

		if !seed {
			return nil
		}
		f := memstore.Fixtures()
		sp = ui.NewSpinner("Seeding sample data...")
		sp.Start()
		if err := store.Seed(ctx, f); err != nil {
			sp.Error("Failed to seed sample data")
			return err
		}
		sp.Success(fmt.Sprintf("Seeded %d roles and %d accounts", len(f.Roles), len(f.Accounts)))
		return nil
	})
}
