package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"uhc/internal/cli/output"
	"uhc/internal/logger"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "View and edit the hosting rules document",
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the rules document",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		doc, err := s.client.Rules(ctx)
		if err != nil {
			return err
		}

		out := Output()
		if out.Format() != output.FormatTable {
			return out.Write(doc)
		}
		out.Printf("last modified by %s at %s\n\n", doc.ModifiedBy,
			doc.LastModified.In(displayLocation(ctx, s.kv)).Format("2006-01-02 15:04 MST"))
		out.Println(doc.Content)
		return nil
	},
}

var rulesFile string

var rulesEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Replace the rules document",
	Long: `Edit replaces the whole rules document with the contents of --file,
or standard input when --file is "-". The previous revision is only
recoverable server-side, so pull the current text with 'uhc rules show'
before editing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()

		var content []byte
		var err error
		if rulesFile == "-" {
			content, err = io.ReadAll(os.Stdin)
		} else {
			content, err = os.ReadFile(rulesFile)
		}
		if err != nil {
			return fmt.Errorf("failed to read rules content: %w", err)
		}
		if strings.TrimSpace(string(content)) == "" {
			return fmt.Errorf("refusing to save an empty rules document")
		}

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.requireLogin(); err != nil {
			return err
		}

		err = s.client.SaveRules(ctx, string(content))
		auditModeration(ctx, s, logger.AuditActionRulesSave, "rules", err, map[string]any{
			"bytes": len(content),
		})
		if err != nil {
			return err
		}
		Output().Success("rules saved")
		return nil
	},
}

func init() {
	rulesEditCmd.Flags().StringVarP(&rulesFile, "file", "f", "-", "file with the new document, or - for stdin")

	rulesCmd.AddCommand(rulesShowCmd)
	rulesCmd.AddCommand(rulesEditCmd)
	rootCmd.AddCommand(rulesCmd)
}
