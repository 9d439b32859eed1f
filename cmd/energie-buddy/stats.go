package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BuddyApator/Energie-Buddy/internal/consumption"
	"github.com/BuddyApator/Energie-Buddy/internal/ledger"
	"github.com/BuddyApator/Energie-Buddy/internal/settings"
)

var statsUser string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show consumption, cost, and budget figures",
	Long: `Derives per-period consumption from a user's reading ledger and prices it
with the unit rate and daily budget from the settings file.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsUser, "user", "", "user whose consumption to report (required)")
	_ = statsCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	stored, err := settings.NewStore(cfg.GetSettingsPath()).Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ordered, err := ledger.NewService(db).History(cmd.Context(), statsUser)
	if err != nil {
		return fmt.Errorf("loading readings for %s: %w", statsUser, err)
	}

	points := consumption.PeriodConsumption(ordered)
	if len(points) == 0 {
		fmt.Printf("Not enough data for %s yet (need at least two readings)\n", statsUser)
		return nil
	}

	fmt.Printf("\nConsumption for %s (rate %s per kWh):\n", statsUser, consumption.FormatMoney(stored.UnitPrice))
	fmt.Println("------------------------------------------------------")
	fmt.Printf("%-17s  %10s  %10s\n", "Period end", "kWh", "Cost")
	fmt.Println("------------------------------------------------------")

	var totalKWh, totalCost float64
	for _, p := range points {
		cost := consumption.Cost(p.Delta, stored.UnitPrice)
		marker := ""
		if p.Delta < 0 {
			marker = "  (meter reset?)"
		}
		fmt.Printf("%-17s  %10.2f  %10s%s\n",
			p.PeriodStart.Format("2006-01-02 15:04"), p.Delta, consumption.FormatMoney(cost), marker)
		totalKWh += p.Delta
		totalCost += cost
	}

	fmt.Println("------------------------------------------------------")
	fmt.Printf("Total: %.2f kWh, %s\n", totalKWh, consumption.FormatMoney(totalCost))

	latestCost := consumption.Cost(points[len(points)-1].Delta, stored.UnitPrice)
	progress, err := consumption.BudgetProgress(latestCost, stored.DailyBudget)
	if err != nil {
		return err
	}
	fmt.Printf("Latest period: %s of %s daily budget (%.0f%%)\n",
		consumption.FormatMoney(latestCost), consumption.FormatMoney(stored.DailyBudget), progress*100)

	return nil
}
