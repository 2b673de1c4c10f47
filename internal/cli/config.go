package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/pgaccess/internal/config"
	"github.com/imgajeed76/pgaccess/internal/ui/styles"
	"github.com/imgajeed76/pgaccess/internal/util"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get and set options",
		Long: `Get and set pgaccess options.

Options:
` + config.GenerateHelpText() + `

Examples:
  pgaccess config get backend.kind
  pgaccess config set backend.kind postgres
  pgaccess config set view.page_size 25
  pgaccess config list`,
	}

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value of an option",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			value, ok := cfg.GetValue(args[0])
			if !ok {
				return unknownKeyError(args[0])
			}
			fmt.Println(value)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set an option and save the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// An invalid file can still be repaired, so start from what parses.
			cfg, err := config.Load()
			if err != nil {
				log.Warnw("config file is invalid, starting from defaults", "error", err)
				cfg = config.DefaultConfig()
			}
			if err := cfg.SetValue(args[0], args[1]); err != nil {
				if _, ok := cfg.GetValue(args[0]); !ok {
					return unknownKeyError(args[0])
				}
				return util.NewError(fmt.Sprintf("Invalid value for %s", args[0])).
					WithMessage(err.Error()).
					Wrap(err)
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Println(styles.SuccessMsg(fmt.Sprintf("%s = %s", args[0], args[1])))
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every option",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			for _, key := range config.ListKeys() {
				value, _ := cfg.GetValue(key)
				fmt.Printf("%s=%s\n", key, value)
			}
			return nil
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.Path())
		},
	}

	cmd.AddCommand(get, set, listCmd, path)
	return cmd
}

func unknownKeyError(key string) error {
	return util.NewError(fmt.Sprintf("Unknown config key '%s'", key)).
		WithSuggestion("pgaccess config list").
		Wrap(util.ErrUnknownConfigKey)
}
