package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/imgajeed76/pgaccess/internal/config"
	"github.com/imgajeed76/pgaccess/internal/logging"
	"github.com/imgajeed76/pgaccess/internal/ui/styles"
	"github.com/imgajeed76/pgaccess/internal/util"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// log is set up by the root pre-run from --verbose.
var log = zap.NewNop().Sugar()

var rootCmd = &cobra.Command{
	Use:   "pgaccess",
	Short: "Browse and administer user accounts and roles",
	Long: `pgaccess is an admin tool for user accounts and their roles.

Accounts and roles are shown as tables that can be searched, sorted and
paged. Accounts can be deleted and roles renamed, either from the
interactive browser or with one-shot commands.

Data lives in a local SQLite file by default. Point it at PostgreSQL with
PGACCESS_DATABASE_URL or 'pgaccess config set backend.url <url>'.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	Version:           Version,
	PersistentPreRunE: setup,
}

// reportedError is an error already shown to the user, for example as the
// error panel in place of a table. Execute only sets the exit status.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx as every command's context.
func ExecuteContext(ctx context.Context) error {
	defer func() { _ = log.Sync() }()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var reported reportedError
		var adminErr *util.AdminError
		switch {
		case errors.As(err, &reported):
		case errors.As(err, &adminErr):
			fmt.Fprintln(os.Stderr, adminErr.Format())
		default:
			// Simple error - still format nicely
			fmt.Fprintln(os.Stderr, styles.ErrorMsg(err.Error()))
		}
		return err
	}
	return nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("backend", "", "Backend to use: memory, sqlite or postgres (overrides config)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: $XDG_CONFIG_HOME/pgaccess/config.toml)")

	// Version flag template to show more info
	rootCmd.SetVersionTemplate(fmt.Sprintf("pgaccess version %s\n  commit: %s\n  built:  %s\n", Version, CommitSHA, BuildDate))

	rootCmd.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newConfigCmd(),
		newDoctorCmd(),
		newAccountsCmd(),
		newRolesCmd(),
		newBrowseCmd(),
		newCompletionCmd(),
	)
}

// setup handles the global flags before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	l, err := logging.New(verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	log = l

	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		styles.SetNoColor(true)
	}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := os.Setenv(config.EnvConfig, path); err != nil {
			return err
		}
	}
	log.Debugw("starting", "command", cmd.CommandPath(), "config", config.Path())
	return nil
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for pgaccess.

To load completions:

Bash:
  $ source <(pgaccess completion bash)

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ pgaccess completion zsh > "${fpath[1]}/_pgaccess"

Fish:
  $ pgaccess completion fish | source

PowerShell:
  PS> pgaccess completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pgaccess version %s\n", Version)
			fmt.Printf("  commit: %s\n", CommitSHA)
			fmt.Printf("  built:  %s\n", BuildDate)
		},
	}
}
