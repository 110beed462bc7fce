package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"uhc/internal/alerts"
	"uhc/internal/api"
	"uhc/internal/cli/output"
	"uhc/internal/domain"
	"uhc/internal/logger"

	"github.com/spf13/cobra"
)

// opensLayout accepts local-style timestamps on the command line; full
// RFC3339 also parses for scripted use.
const opensLayout = "2006-01-02 15:04"

var matchesCmd = &cobra.Command{
	Use:     "matches",
	Aliases: []string{"match", "m"},
	Short:   "Browse and moderate match listings",
}

var (
	matchesAll    bool
	matchesAlerts bool
)

var matchesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List upcoming matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		matches, err := s.client.UpcomingMatches(ctx)
		if err != nil {
			return err
		}
		if !matchesAll {
			kept := matches[:0]
			for _, m := range matches {
				if !m.Removed {
					kept = append(kept, m)
				}
			}
			matches = kept
		}

		loc := displayLocation(ctx, s.kv)
		out := Output()
		if out.Format() != output.FormatTable {
			return out.Write(matches)
		}
		if err := out.Write(output.MatchTable(matches, loc)); err != nil {
			return err
		}
		if matchesAlerts {
			printAlertHits(ctx, s, matches, out)
		}
		return nil
	},
}

// printAlertHits annotates the listing with alert rule hits. Rules are
// a moderator endpoint; anyone else just gets the plain listing.
func printAlertHits(ctx context.Context, s *session, matches []domain.Match, out *output.Writer) {
	rules, err := s.client.AlertRules(ctx)
	if err != nil {
		log.Debug("skipping alert annotations", "error", err)
		return
	}
	detector, err := alerts.NewDetector(rules)
	if err != nil {
		log.Warn("failed to compile alert rules", "error", err)
		return
	}
	hits := detector.CheckAll(matches)
	for _, m := range matches {
		for _, hit := range hits[m.ID] {
			out.Warn(fmt.Sprintf("match %d: %s %q matches rule %d", m.ID, hit.Field, hit.Value, hit.Rule.ID))
		}
	}
}

var matchesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one match in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid match id %q", args[0])
		}

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		m, err := s.client.Match(ctx, id)
		if err != nil {
			return err
		}

		out := Output()
		if out.Format() != output.FormatTable {
			return out.Write(m)
		}
		return out.Write(output.MatchDetail(m, displayLocation(ctx, s.kv)))
	},
}

var (
	createOpens       string
	createRegion      string
	createIP          string
	createAddress     string
	createScenarios   []string
	createTags        []string
	createTeams       string
	createSize        int
	createCustomStyle string
	createCount       int
	createSlots       int
	createLength      int
	createMapSize     int
	createPVP         int
	createVersion     string
	createLocation    string
	createHostingName string
	createTournament  bool
	createContent     string
	createForce       bool
)

var matchesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a match listing",
	Long: `Create submits a new match listing. The opening time is checked
against existing listings in the same region first; overlapping
non-tournament matches block the submission unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.requireLogin(); err != nil {
			return err
		}

		req, err := buildCreateRequest()
		if err != nil {
			return err
		}

		if !createForce {
			conflicts, err := s.client.MatchConflicts(ctx, req.Region, req.Opens)
			if err != nil {
				return fmt.Errorf("conflict check failed: %w", err)
			}
			candidate := domain.Match{Opens: req.Opens, Tournament: req.Tournament}
			blocking := conflicts[:0]
			for _, c := range conflicts {
				if candidate.ConflictsWith(&c) {
					blocking = append(blocking, c)
				}
			}
			if len(blocking) > 0 {
				out := Output()
				out.Errorf("conflicting listings in %s:\n", req.Region)
				for _, c := range blocking {
					out.Errorf("  #%d %s at %s\n", c.ID, c.DisplayName(), c.Opens.Format(time.RFC3339))
				}
				return fmt.Errorf("%d conflicting listing(s); use --force to submit anyway", len(blocking))
			}
		}

		err = s.client.CreateMatch(ctx, *req)
		auditModeration(ctx, s, logger.AuditActionMatchCreate, "match", err, map[string]any{
			"opens":  req.Opens.Format(time.RFC3339),
			"region": req.Region,
		})
		if err != nil {
			return err
		}
		Output().Success("match submitted")
		return nil
	},
}

func buildCreateRequest() (*api.CreateMatchRequest, error) {
	opens, err := parseOpens(createOpens)
	if err != nil {
		return nil, err
	}
	teams := domain.TeamStyle(createTeams)
	if !teams.IsValid() {
		return nil, fmt.Errorf("invalid team style %q", createTeams)
	}

	req := &api.CreateMatchRequest{
		Opens:        opens,
		IP:           createIP,
		Scenarios:    createScenarios,
		Tags:         createTags,
		Teams:        teams,
		Count:        createCount,
		Content:      createContent,
		Region:       strings.ToUpper(createRegion),
		Location:     createLocation,
		Version:      createVersion,
		Slots:        createSlots,
		Length:       createLength,
		MapSize:      createMapSize,
		PVPEnabledAt: createPVP,
		Tournament:   createTournament,
	}
	if createAddress != "" {
		req.Address = &createAddress
	}
	if teams.RequiresSize() {
		if createSize <= 0 {
			return nil, fmt.Errorf("team style %q requires --size", createTeams)
		}
		req.Size = &createSize
	}
	if teams == domain.TeamStyleCustom {
		if createCustomStyle == "" {
			return nil, fmt.Errorf("team style custom requires --custom-style")
		}
		req.CustomStyle = &createCustomStyle
	}
	if createHostingName != "" {
		req.HostingName = &createHostingName
	}
	return req, nil
}

func parseOpens(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(opensLayout, raw, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid opening time %q, want %q or RFC3339", raw, opensLayout)
}

var removeReason string

var matchesRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a listing with a reason",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid match id %q", args[0])
		}
		if strings.TrimSpace(removeReason) == "" {
			return fmt.Errorf("a removal reason is required")
		}

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.requireLogin(); err != nil {
			return err
		}

		err = s.client.RemoveMatch(ctx, id, removeReason)
		auditModeration(ctx, s, logger.AuditActionMatchRemove, fmt.Sprintf("match/%d", id), err, map[string]any{
			"reason": removeReason,
		})
		if err != nil {
			return err
		}
		Output().Success(fmt.Sprintf("match %d removed", id))
		return nil
	},
}

var matchesApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid match id %q", args[0])
		}

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.requireLogin(); err != nil {
			return err
		}

		_, err = s.client.ApproveMatch(ctx, id)
		auditModeration(ctx, s, logger.AuditActionMatchApprove, fmt.Sprintf("match/%d", id), err, nil)
		if err != nil {
			return err
		}
		Output().Success(fmt.Sprintf("match %d approved", id))
		return nil
	},
}

var historyBefore int64

var matchesHistoryCmd = &cobra.Command{
	Use:   "history <host>",
	Short: "List a host's past matches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		matches, err := s.client.HostMatches(ctx, args[0], historyBefore)
		if err != nil {
			return err
		}

		out := Output()
		if out.Format() != output.FormatTable {
			return out.Write(matches)
		}
		return out.Write(output.MatchTable(matches, displayLocation(ctx, s.kv)))
	},
}

func init() {
	matchesListCmd.Flags().BoolVar(&matchesAll, "all", false, "include removed listings")
	matchesListCmd.Flags().BoolVar(&matchesAlerts, "alerts", false, "annotate listings that trip alert rules (moderators)")

	f := matchesCreateCmd.Flags()
	f.StringVar(&createOpens, "opens", "", "opening time, e.g. \"2026-04-01 19:00\" (required)")
	f.StringVar(&createRegion, "region", "", "hosting region, e.g. EU or NA (required)")
	f.StringVar(&createIP, "ip", "", "server ip:port")
	f.StringVar(&createAddress, "address", "", "server domain address")
	f.StringSliceVar(&createScenarios, "scenario", []string{"Vanilla+"}, "scenario, repeatable")
	f.StringSliceVar(&createTags, "tag", nil, "tag, repeatable")
	f.StringVar(&createTeams, "teams", "ffa", "team style (ffa, chosen, random, captains, mystery, rvb, custom)")
	f.IntVar(&createSize, "size", 0, "team size for sized styles")
	f.StringVar(&createCustomStyle, "custom-style", "", "description for the custom team style")
	f.IntVar(&createCount, "count", 1, "match number for this host")
	f.IntVar(&createSlots, "slots", 80, "player slots")
	f.IntVar(&createLength, "length", 90, "match length in minutes")
	f.IntVar(&createMapSize, "map-size", 1500, "map radius in blocks")
	f.IntVar(&createPVP, "pvp", 20, "minutes until pvp enables")
	f.StringVar(&createVersion, "version", "1.8.9", "server version")
	f.StringVar(&createLocation, "location", "", "server datacenter location")
	f.StringVar(&createHostingName, "hosting-name", "", "display name overriding your username")
	f.BoolVar(&createTournament, "tournament", false, "tournament listing, exempt from conflict blocking")
	f.StringVar(&createContent, "content", "", "listing body text")
	f.BoolVar(&createForce, "force", false, "submit despite conflicting listings")
	matchesCreateCmd.MarkFlagRequired("opens")
	matchesCreateCmd.MarkFlagRequired("region")

	matchesRemoveCmd.Flags().StringVarP(&removeReason, "reason", "r", "", "removal reason shown on the listing (required)")
	matchesRemoveCmd.MarkFlagRequired("reason")

	matchesHistoryCmd.Flags().Int64Var(&historyBefore, "before", 0, "only matches with an id below this")

	matchesCmd.AddCommand(matchesListCmd)
	matchesCmd.AddCommand(matchesGetCmd)
	matchesCmd.AddCommand(matchesCreateCmd)
	matchesCmd.AddCommand(matchesRemoveCmd)
	matchesCmd.AddCommand(matchesApproveCmd)
	matchesCmd.AddCommand(matchesHistoryCmd)
	rootCmd.AddCommand(matchesCmd)
}
