package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/BuddyApator/Energie-Buddy/internal/ledger"
)

var (
	recordUser  string
	recordValue float64
	recordDate  string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a meter reading by hand",
	Long:  `Appends one absolute meter reading to a user's ledger without going through the web dashboard.`,
	RunE:  runRecord,
}

func init() {
	recordCmd.Flags().StringVar(&recordUser, "user", "", "user the reading belongs to (required)")
	recordCmd.Flags().Float64Var(&recordValue, "value", 0, "absolute meter value in kWh (required)")
	recordCmd.Flags().StringVar(&recordDate, "date", "", "reading timestamp (YYYY-MM-DD or RFC 3339, default: now)")
	_ = recordCmd.MarkFlagRequired("user")
	_ = recordCmd.MarkFlagRequired("value")
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	recordedAt := time.Now().UTC()
	if recordDate != "" {
		parsed, err := parseTimestamp(recordDate)
		if err != nil {
			return fmt.Errorf("parsing --date: %w", err)
		}
		recordedAt = parsed
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	reading, err := ledger.NewService(db).Append(cmd.Context(), recordUser, recordedAt, recordValue)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Recorded %.2f kWh for %s at %s\n",
		reading.Value, reading.UserID, reading.RecordedAt.Format("2006-01-02 15:04"))
	return nil
}

// parseTimestamp accepts a bare date or a full RFC 3339 timestamp
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp: %s (use YYYY-MM-DD or RFC 3339)", s)
}
