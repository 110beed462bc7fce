package cmd

import (
	"fmt"

	"uhc/internal/cli/output"
	"uhc/internal/logger"

	"github.com/spf13/cobra"
)

var permsCmd = &cobra.Command{
	Use:     "perms",
	Aliases: []string{"permissions"},
	Short:   "View and change staff permissions",
}

var permsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List permission holders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		set, err := s.client.Permissions(ctx)
		if err != nil {
			return err
		}

		out := Output()
		if out.Format() != output.FormatTable {
			return out.Write(set)
		}
		return out.Write(output.PermissionTable(set))
	},
}

var permsLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the permission change log",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		entries, err := s.client.PermissionLog(ctx)
		if err != nil {
			return err
		}

		out := Output()
		if out.Format() != output.FormatTable {
			return out.Write(entries)
		}
		return out.Write(output.PermissionLogTable(entries, displayLocation(ctx, s.kv)))
	},
}

var permsAddCmd = &cobra.Command{
	Use:   "add <username> <permission>",
	Short: "Grant a permission",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changePermission(args[0], args[1], true)
	},
}

var permsRemoveCmd = &cobra.Command{
	Use:   "remove <username> <permission>",
	Short: "Revoke a permission",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changePermission(args[0], args[1], false)
	},
}

func changePermission(username, permission string, add bool) error {
	ctx := Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.requireLogin(); err != nil {
		return err
	}

	action := logger.AuditActionPermissionDrop
	verb := "revoked from"
	if add {
		action = logger.AuditActionPermissionAdd
		verb = "granted to"
		err = s.client.AddPermission(ctx, username, permission)
	} else {
		err = s.client.RemovePermission(ctx, username, permission)
	}
	auditModeration(ctx, s, action, "user/"+username, err, map[string]any{
		"permission": permission,
	})
	if err != nil {
		return err
	}
	Output().Success(fmt.Sprintf("%s %s %s", permission, verb, username))
	return nil
}

func init() {
	permsCmd.AddCommand(permsListCmd)
	permsCmd.AddCommand(permsLogCmd)
	permsCmd.AddCommand(permsAddCmd)
	permsCmd.AddCommand(permsRemoveCmd)
	rootCmd.AddCommand(permsCmd)
}
