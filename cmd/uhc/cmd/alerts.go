package cmd

import (
	"fmt"
	"strconv"

	"uhc/internal/alerts"
	"uhc/internal/api"
	"uhc/internal/cli/output"
	"uhc/internal/domain"
	"uhc/internal/logger"

	"github.com/spf13/cobra"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Maintain listing alert rules",
	Long: `Alert rules flag suspicious match listings. Each rule watches one
listing field for a value, either as a substring or an exact match.`,
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List alert rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		rules, err := s.client.AlertRules(ctx)
		if err != nil {
			return err
		}

		out := Output()
		if out.Format() != output.FormatTable {
			return out.Write(rules)
		}
		return out.Write(output.AlertRuleTable(rules))
	},
}

var (
	alertField string
	alertOn    string
	alertExact bool
)

var alertsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an alert rule",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		field := domain.AlertField(alertField)
		if !field.IsValid() {
			return fmt.Errorf("invalid alert field %q", alertField)
		}

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.requireLogin(); err != nil {
			return err
		}

		rule, err := s.client.CreateAlertRule(ctx, api.AlertRuleRequest{
			Field:   field,
			AlertOn: alertOn,
			Exact:   alertExact,
		})
		auditModeration(ctx, s, logger.AuditActionAlertCreate, "alert/"+alertField, err, map[string]any{
			"alertOn": alertOn,
			"exact":   alertExact,
		})
		if err != nil {
			return err
		}
		Output().Success(fmt.Sprintf("alert rule %d created", rule.ID))
		return nil
	},
}

var alertsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete an alert rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid rule id %q", args[0])
		}

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.requireLogin(); err != nil {
			return err
		}

		err = s.client.DeleteAlertRule(ctx, id)
		auditModeration(ctx, s, logger.AuditActionAlertDelete, fmt.Sprintf("alert/%d", id), err, nil)
		if err != nil {
			return err
		}
		Output().Success(fmt.Sprintf("alert rule %d deleted", id))
		return nil
	},
}

var alertsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Run every rule against the upcoming listings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		rules, err := s.client.AlertRules(ctx)
		if err != nil {
			return err
		}
		matches, err := s.client.UpcomingMatches(ctx)
		if err != nil {
			return err
		}

		detector, err := alerts.NewDetector(rules)
		if err != nil {
			return fmt.Errorf("failed to compile alert rules: %w", err)
		}

		hits := detector.CheckAll(matches)
		out := Output()
		total := 0
		t := output.NewTable("match", "host", "field", "value", "rule")
		for _, m := range matches {
			for _, hit := range hits[m.ID] {
				total++
				t.AddRow(
					strconv.FormatInt(m.ID, 10),
					m.DisplayName(),
					string(hit.Field),
					hit.Value,
					strconv.FormatInt(hit.Rule.ID, 10),
				)
			}
		}
		if total == 0 {
			out.Info("no listings trip any rule")
			return nil
		}
		return out.Write(t)
	},
}

func init() {
	alertsAddCmd.Flags().StringVar(&alertField, "field", "", "listing field to watch (required)")
	alertsAddCmd.Flags().StringVar(&alertOn, "on", "", "value to alert on (required)")
	alertsAddCmd.Flags().BoolVar(&alertExact, "exact", false, "require an exact match instead of substring")
	alertsAddCmd.MarkFlagRequired("field")
	alertsAddCmd.MarkFlagRequired("on")

	alertsCmd.AddCommand(alertsListCmd)
	alertsCmd.AddCommand(alertsAddCmd)
	alertsCmd.AddCommand(alertsRemoveCmd)
	alertsCmd.AddCommand(alertsCheckCmd)
	rootCmd.AddCommand(alertsCmd)
}
