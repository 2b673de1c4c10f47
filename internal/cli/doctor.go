package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/pgaccess/internal/admin"
	"github.com/imgajeed76/pgaccess/internal/config"
	"github.com/imgajeed76/pgaccess/internal/ui"
	"github.com/imgajeed76/pgaccess/internal/ui/styles"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and backend health",
		Long: `Run diagnostics to check if pgaccess is properly configured.

This command checks:
  - Config file
  - Backend connectivity
  - Schema tables exist
  - Accounts and roles can be fetched
  - Terminal capabilities`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println(styles.Boldf("pgaccess doctor"))
	fmt.Println()

	allOK := true

	fmt.Print("Checking config... ")
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Println(styles.Errorf("INVALID"))
		fmt.Printf("  %s\n", config.Path())
		fmt.Printf("  Error: %v\n", err)
		return nil
	}
	if _, statErr := os.Stat(config.Path()); statErr != nil {
		fmt.Println(styles.Mute("DEFAULTS") + fmt.Sprintf(" (no file at %s)", config.Path()))
	} else {
		fmt.Println(styles.Successf("OK") + fmt.Sprintf(" (%s)", config.Path()))
	}

	fmt.Print("Checking backend... ")
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		fmt.Println(styles.Errorf("FAILED"))
		fmt.Printf("  Error: %v\n", err)
		allOK = false
	} else {
		defer b.Close()
		fmt.Println(styles.Successf("OK") + fmt.Sprintf(" (%s)", describeBackend(cfg)))

		schemaOK := true
		if missing, ok, err := missingTables(ctx, b); ok {
			fmt.Print("Checking schema... ")
			switch {
			case err != nil:
				fmt.Println(styles.Errorf("FAILED"))
				fmt.Printf("  Error: %v\n", err)
				schemaOK = false
			case len(missing) > 0:
				fmt.Println(styles.Errorf("MISSING") + fmt.Sprintf(" (%s)", strings.Join(missing, ", ")))
				fmt.Println("  Run 'pgaccess init' to create it")
				schemaOK = false
			default:
				fmt.Println(styles.Successf("OK"))
			}
		}
		allOK = allOK && schemaOK

		accounts, roles := screens(b, cfg)
		checks := []admin.Screen{accounts, roles}
		if !schemaOK {
			checks = nil
		}
		for _, s := range checks {
			fmt.Printf("Checking %s... ", s.Title())
			_ = s.Refresh(ctx)
			g := s.Grid()
			switch {
			case g.Err != nil:
				fmt.Println(styles.Errorf("FAILED"))
				fmt.Printf("  %v\n", g.Err)
				allOK = false
			case g.Empty():
				fmt.Println(styles.Warningf("EMPTY"))
				fmt.Println("  Run 'pgaccess init --seed' to load sample data")
			default:
				fmt.Println(styles.Successf("OK") + fmt.Sprintf(" (%d pages)", g.TotalPages))
			}
		}
	}

	fmt.Print("Checking terminal... ")
	switch {
	case styles.IsAccessible():
		fmt.Println(styles.Mute("ACCESSIBLE") + " (plain tables, no animations)")
	case ui.Interactive(os.Stdout):
		fmt.Println(styles.Successf("INTERACTIVE"))
	default:
		fmt.Println(styles.Mute("NOT A TTY") + " (plain tables)")
	}

	fmt.Println()
	if allOK {
		fmt.Println(styles.Successf("All checks passed!"))
	} else {
		fmt.Println(styles.Warningf("Some issues were found. See above for details."))
	}

	return nil
}
