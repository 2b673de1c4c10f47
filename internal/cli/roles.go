package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/pgaccess/internal/admin"
	"github.com/imgajeed76/pgaccess/internal/config"
	"github.com/imgajeed76/pgaccess/internal/ui/styles"
	"github.com/imgajeed76/pgaccess/internal/util"
)

func newRolesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "List and rename roles",
		Long: `List and rename roles.

Without a subcommand the roles are listed. Roles are paged and searched by
the backend, ten per page; search matches name and description.`,
		Args: cobra.NoArgs,
		RunE: runRolesList,
	}
	addListFlags(cmd)

	list := &cobra.Command{
		Use:   "list",
		Short: "List roles",
		Long: `List roles with their description and creation date.

Examples:
  pgaccess roles list --search access
  pgaccess roles list --page 2 --json`,
		Args: cobra.NoArgs,
		RunE: runRolesList,
	}
	addListFlags(list)

	rename := &cobra.Command{
		Use:   "rename <id>",
		Short: "Rename a role",
		Long: `Change the name and description of a role.

The change is shown as an inline diff before it is saved. A blank
description leaves the current one unchanged.

Examples:
  pgaccess roles rename 01HQ... --name "Senior Editor"
  pgaccess roles rename 01HQ... --description "Can publish" --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: runRolesRename,
	}
	rename.Flags().String("name", "", "New role name")
	rename.Flags().String("description", "", "New role description")
	rename.Flags().Bool("dry-run", false, "Show the change without saving it")

	cmd.AddCommand(list, rename)
	return cmd
}

func runRolesList(cmd *cobra.Command, args []string) error {
	return withBackend(cmd, func(ctx context.Context, cfg *config.Config, b admin.Backend) error {
		_, roles := screens(b, cfg)
		return list(cmd, roles)
	})
}

func runRolesRename(cmd *cobra.Command, args []string) error {
	id := args[0]
	if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("description") {
		return util.NewError("Nothing to rename").
			WithMessage("Give a new --name, a new --description, or both").
			WithSuggestion(fmt.Sprintf("pgaccess roles rename %s --name \"New name\"", id))
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	return withBackend(cmd, func(ctx context.Context, cfg *config.Config, b admin.Backend) error {
		_, roles := screens(b, cfg)
		if err := roles.RequestRename(ctx, id); err != nil {
			return util.NewError(fmt.Sprintf("Role '%s' not found", id)).
				WithSuggestion("pgaccess roles list --ids").
				Wrap(err)
		}

		d := roles.Dialog()
		name, description := d.Name, d.Description
		if cmd.Flags().Changed("name") {
			name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("description") {
			description, _ = cmd.Flags().GetString("description")
		}

		newDescription := strings.TrimSpace(description)
		if newDescription == "" {
			newDescription = d.Description
		}
		nameDiff := util.InlineDiff(d.Name, strings.TrimSpace(name))
		descDiff := util.InlineDiff(d.Description, newDescription)
		fmt.Println(styles.SectionHeader(d.Title))
		fmt.Printf("  Name:        %s\n", styles.Diff(nameDiff))
		if newDescription != "" {
			fmt.Printf("  Description: %s\n", styles.Diff(descDiff))
		}

		if !util.Changed(nameDiff) && !util.Changed(descDiff) {
			roles.CancelDialog()
			fmt.Println(styles.MutedMsg("No changes."))
			return nil
		}
		if dryRun {
			roles.CancelDialog()
			fmt.Println(styles.MutedMsg("Dry run, nothing saved."))
			return nil
		}

		if err := roles.SubmitRename(ctx, name, description); err != nil {
			if msg := roles.Dialog().Err; msg != "" {
				roles.CancelDialog()
				return util.NewError("Invalid role").WithMessage(msg).Wrap(err)
			}
			return util.NewError("Failed to rename role").
				WithMessage(roles.Alert()).
				Wrap(err)
		}
		fmt.Println(styles.SuccessMsg(roles.TakeToast()))
		return nil
	})
}
