package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"uhc/internal/api"
	"uhc/internal/cli/output"
	"uhc/internal/domain"
	"uhc/internal/logger"
	"uhc/internal/seed"

	"github.com/spf13/cobra"
)

var ublCmd = &cobra.Command{
	Use:   "ubl",
	Short: "Browse and maintain the universal ban list",
}

var ublListCmd = &cobra.Command{
	Use:   "list",
	Short: "List current bans",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		bans, err := s.client.CurrentBans(ctx)
		if err != nil {
			return err
		}
		return writeBans(s, bans)
	},
}

var ublSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search bans by name or uuid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		bans, err := s.client.SearchBans(ctx, args[0])
		if err != nil {
			return err
		}
		return writeBans(s, bans)
	},
}

var ublPlayerCmd = &cobra.Command{
	Use:     "player <uuid>",
	Aliases: []string{"get"},
	Short:   "List every ban on record for one player",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		id, err := domain.NormalizeUUID(args[0])
		if err != nil {
			return fmt.Errorf("invalid player uuid %q", args[0])
		}

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		bans, err := s.client.BansForPlayer(ctx, id)
		if err != nil {
			return err
		}
		return writeBans(s, bans)
	},
}

func writeBans(s *session, bans []domain.BanEntry) error {
	out := Output()
	if out.Format() != output.FormatTable {
		return out.Write(bans)
	}
	return out.Write(output.BanTable(bans, displayLocation(Context(), s.kv)))
}

var (
	banIGN       string
	banUUID      string
	banReason    string
	banLink      string
	banExpires   string
	banPermanent bool
)

// parseBanExpiry resolves the --expires/--permanent pair. Permanent
// bans use the list's sentinel far-future date.
func parseBanExpiry() (time.Time, error) {
	if banPermanent {
		return time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC), nil
	}
	if banExpires == "" {
		return time.Time{}, fmt.Errorf("either --expires or --permanent is required")
	}
	t, err := time.Parse("2006-01-02", banExpires)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid expiry %q, want YYYY-MM-DD", banExpires)
	}
	return t, nil
}

func buildBanRequest() (*api.BanRequest, error) {
	id, err := domain.NormalizeUUID(banUUID)
	if err != nil {
		return nil, fmt.Errorf("invalid player uuid %q", banUUID)
	}
	if strings.TrimSpace(banReason) == "" {
		return nil, fmt.Errorf("a ban reason is required")
	}
	expires, err := parseBanExpiry()
	if err != nil {
		return nil, err
	}
	return &api.BanRequest{
		IGN:     banIGN,
		UUID:    id,
		Reason:  banReason,
		Link:    banLink,
		Expires: expires,
	}, nil
}

var ublBanCmd = &cobra.Command{
	Use:     "ban",
	Aliases: []string{"add"},
	Short:   "File a new ban entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		req, err := buildBanRequest()
		if err != nil {
			return err
		}

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.requireLogin(); err != nil {
			return err
		}

		ban, err := s.client.CreateBan(ctx, *req)
		auditModeration(ctx, s, logger.AuditActionBanCreate, "ubl/"+req.IGN, err, map[string]any{
			"reason": req.Reason,
		})
		if err != nil {
			return err
		}
		Output().Success(fmt.Sprintf("ban %d filed for %s", ban.ID, ban.IGN))
		return nil
	},
}

var ublEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Replace an existing ban entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ban id %q", args[0])
		}
		req, err := buildBanRequest()
		if err != nil {
			return err
		}

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.requireLogin(); err != nil {
			return err
		}

		_, err = s.client.EditBan(ctx, id, *req)
		auditModeration(ctx, s, logger.AuditActionBanEdit, fmt.Sprintf("ubl/%d", id), err, map[string]any{
			"reason": req.Reason,
		})
		if err != nil {
			return err
		}
		Output().Success(fmt.Sprintf("ban %d updated", id))
		return nil
	},
}

var ublUnbanCmd = &cobra.Command{
	Use:     "unban <id>",
	Aliases: []string{"remove", "delete"},
	Short:   "Delete a ban entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ban id %q", args[0])
		}

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.requireLogin(); err != nil {
			return err
		}

		err = s.client.DeleteBan(ctx, id)
		auditModeration(ctx, s, logger.AuditActionBanDelete, fmt.Sprintf("ubl/%d", id), err, nil)
		if err != nil {
			return err
		}
		Output().Success(fmt.Sprintf("ban %d deleted", id))
		return nil
	},
}

var (
	exportOut      string
	exportCompress string
)

var ublExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current ban list to an archive file",
	Long: `Export writes the current ban list as a JSON archive, optionally
compressed. The archive round-trips through 'uhc admin seed-ubl' style
tooling and is suitable for server-side allowlist plugins.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		bans, err := s.client.CurrentBans(ctx)
		if err != nil {
			return err
		}

		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create archive: %w", err)
		}
		defer f.Close()

		if err := seed.WriteArchive(f, exportCompress, bans); err != nil {
			return fmt.Errorf("failed to write archive: %w", err)
		}
		Output().Success(fmt.Sprintf("exported %d bans to %s", len(bans), exportOut))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{ublBanCmd, ublEditCmd} {
		f := c.Flags()
		f.StringVar(&banIGN, "ign", "", "player in-game name (required)")
		f.StringVar(&banUUID, "uuid", "", "player uuid, dashed or dashless (required)")
		f.StringVar(&banReason, "reason", "", "public ban reason (required)")
		f.StringVar(&banLink, "link", "", "courtroom or evidence link")
		f.StringVar(&banExpires, "expires", "", "expiry date YYYY-MM-DD")
		f.BoolVar(&banPermanent, "permanent", false, "never expires")
		c.MarkFlagRequired("ign")
		c.MarkFlagRequired("uuid")
		c.MarkFlagRequired("reason")
	}

	ublExportCmd.Flags().StringVarP(&exportOut, "out", "f", "ubl-export.json.zst", "output file")
	ublExportCmd.Flags().StringVar(&exportCompress, "compress", "zstd", "compression (zstd, gzip, none)")

	ublCmd.AddCommand(ublListCmd)
	ublCmd.AddCommand(ublSearchCmd)
	ublCmd.AddCommand(ublPlayerCmd)
	ublCmd.AddCommand(ublBanCmd)
	ublCmd.AddCommand(ublEditCmd)
	ublCmd.AddCommand(ublUnbanCmd)
	ublCmd.AddCommand(ublExportCmd)
	rootCmd.AddCommand(ublCmd)
}
