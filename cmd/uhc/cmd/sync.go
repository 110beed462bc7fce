package cmd

import (
	"time"

	"uhc/internal/cli/output"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Show the offset between local and server clocks",
	Long: `Sync asks the server for its current time and reports the clock
offset. Opening times are announced in server time; a large offset here
means your machine's clock will mislead you about when a match opens.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		before := time.Now()
		serverTime, err := s.client.ServerTime(ctx)
		if err != nil {
			return err
		}
		rtt := time.Since(before)
		offset := serverTime.Add(rtt / 2).Sub(time.Now())

		out := Output()
		if out.Format() == output.FormatJSON || out.Format() == output.FormatYAML {
			return out.Write(map[string]any{
				"server_time": serverTime,
				"offset_ms":   offset.Milliseconds(),
				"rtt_ms":      rtt.Milliseconds(),
			})
		}
		out.Printf("server time: %s\n", serverTime.Format(time.RFC3339))
		out.Printf("offset:      %s (rtt %s)\n", offset.Round(time.Millisecond), rtt.Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
