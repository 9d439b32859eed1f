package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BuddyApator/Energie-Buddy/internal/ledger"
)

var listUser string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored meter readings",
	Long:  `Displays a user's full reading ledger in timestamp order.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listUser, "user", "", "user whose readings to list (required)")
	_ = listCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	readings, err := ledger.NewService(db).History(cmd.Context(), listUser)
	if err != nil {
		return fmt.Errorf("listing readings for %s: %w", listUser, err)
	}

	if len(readings) == 0 {
		fmt.Printf("No readings found for %s\n", listUser)
		return nil
	}

	fmt.Printf("\nReadings for %s:\n", listUser)
	fmt.Println("----------------------------------------")
	fmt.Printf("%-17s  %12s\n", "Recorded", "Meter (kWh)")
	fmt.Println("----------------------------------------")

	for _, r := range readings {
		fmt.Printf("%-17s  %12.2f\n", r.RecordedAt.Format("2006-01-02 15:04"), r.Value)
	}

	fmt.Println("----------------------------------------")
	fmt.Printf("%d readings\n", len(readings))
	return nil
}
