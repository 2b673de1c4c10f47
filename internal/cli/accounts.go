package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/pgaccess/internal/admin"
	"github.com/imgajeed76/pgaccess/internal/config"
	"github.com/imgajeed76/pgaccess/internal/ui/styles"
	"github.com/imgajeed76/pgaccess/internal/util"
)

func newAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"users"},
		Short:   "List and delete user accounts",
		Long: `List and delete user accounts.

Without a subcommand the accounts are listed. On a terminal the list opens
in the interactive browser; use --no-pager for a plain table.

Search matches the user name only.`,
		Args: cobra.NoArgs,
		RunE: runAccountsList,
	}
	addListFlags(cmd)

	list := &cobra.Command{
		Use:   "list",
		Short: "List user accounts",
		Long: `List user accounts with their role and join date.

Examples:
  pgaccess accounts list --search ali
  pgaccess accounts list --sort joined:desc --page 2
  pgaccess accounts list --ids --raw | cut -f1`,
		Args: cobra.NoArgs,
		RunE: runAccountsList,
	}
	addListFlags(list)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user account",
		Long: `Delete a user account permanently.

The account id is shown by 'pgaccess accounts list --ids'. The delete is
refused unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: runAccountsDelete,
	}
	del.Flags().BoolP("force", "f", false, "Delete without asking")

	cmd.AddCommand(list, del)
	return cmd
}

func runAccountsList(cmd *cobra.Command, args []string) error {
	return withBackend(cmd, func(ctx context.Context, cfg *config.Config, b admin.Backend) error {
		accounts, _ := screens(b, cfg)
		return list(cmd, accounts)
	})
}

func runAccountsDelete(cmd *cobra.Command, args []string) error {
	id := args[0]
	force, _ := cmd.Flags().GetBool("force")

	return withBackend(cmd, func(ctx context.Context, cfg *config.Config, b admin.Backend) error {
		accounts, _ := screens(b, cfg)
		if err := refresh(ctx, accounts); err != nil {
			return err
		}
		if err := accounts.RequestDelete(ctx, id); err != nil {
			return util.NewError(fmt.Sprintf("Account '%s' not found", id)).
				WithSuggestion("pgaccess accounts list --ids").
				Wrap(err)
		}

		d := accounts.Dialog()
		if !force {
			accounts.CancelDialog()
			fmt.Println(styles.WarningMsg(d.Message))
			return util.ConfirmDeleteError(id)
		}

		if err := accounts.ConfirmDelete(ctx); err != nil {
			return util.NewError("Failed to delete user").
				WithMessage(accounts.Alert()).
				Wrap(err)
		}
		fmt.Println(styles.SuccessMsg(accounts.TakeToast()))
		return nil
	})
}
