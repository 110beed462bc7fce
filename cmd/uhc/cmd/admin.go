package cmd

import (
	"fmt"
	"os"

	"uhc/internal/seed"

	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:    "admin",
	Short:  "Server-side maintenance commands",
	Hidden: true,
}

var seedDryRun bool

// seedUBLCmd loads a spreadsheet export of the historical ban list
// straight into the service database. It is the one command that
// bypasses the API; it needs database.url configured and network reach
// to PostgreSQL.
var seedUBLCmd = &cobra.Command{
	Use:   "seed-ubl <csv-file>",
	Short: "Import a ban list CSV export into the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open csv: %w", err)
		}
		defer f.Close()

		result, err := seed.ParseCSV(f)
		if err != nil {
			return err
		}

		out := Output()
		for _, re := range result.Skipped {
			out.Warn(fmt.Sprintf("line %d skipped: %v", re.Line, re.Err))
		}
		out.Printf("parsed %d entries, %d skipped\n", len(result.Entries), len(result.Skipped))

		if seedDryRun {
			out.Info("dry run, nothing imported")
			return nil
		}
		if cfg.Database.URL == "" {
			return fmt.Errorf("database.url is not configured")
		}

		importer, err := seed.NewImporter(ctx, cfg.Database.URL, log)
		if err != nil {
			return err
		}
		defer importer.Close()

		n, err := importer.Import(ctx, result.Entries)
		if err != nil {
			return fmt.Errorf("import failed after %d rows: %w", n, err)
		}
		out.Success(fmt.Sprintf("imported %d ban entries", n))
		return nil
	},
}

func init() {
	seedUBLCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "parse and validate without touching the database")

	adminCmd.AddCommand(seedUBLCmd)
	rootCmd.AddCommand(adminCmd)
}
