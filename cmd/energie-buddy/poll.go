package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/BuddyApator/Energie-Buddy/internal/ledger"
	"github.com/BuddyApator/Energie-Buddy/internal/meter"
	"github.com/BuddyApator/Energie-Buddy/internal/settings"
)

var (
	pollUser    string
	pollAddress string
)

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Poll the meter relay and record the reading",
	Long: `Reads the current cumulative meter value from the relay device and appends
it to a user's ledger. The device address comes from --address, the settings
file, or a one-shot mDNS discovery, in that order.`,
	RunE: runPoll,
}

func init() {
	pollCmd.Flags().StringVar(&pollUser, "user", "", "user the reading belongs to (required)")
	pollCmd.Flags().StringVar(&pollAddress, "address", "", "relay device address (host:port)")
	_ = pollCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(pollCmd)
}

func runPoll(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	address := pollAddress
	if address == "" {
		stored, err := settings.NewStore(cfg.GetSettingsPath()).Load()
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}
		address = stored.DeviceAddress
	}
	if address == "" {
		fmt.Println("No configured address, trying discovery...")
		address, err = meter.Discover(cmd.Context(), cfg.GetDiscoveryTimeout())
		if err != nil {
			return fmt.Errorf("discovery failed: %w", err)
		}
		if address == "" {
			return fmt.Errorf("no relay device found on the network")
		}
		fmt.Printf("Found device at %s\n", address)
	}

	sample, err := meter.NewClient(cfg.GetPollTimeout()).Read(address)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	reading, err := ledger.NewService(db).Append(cmd.Context(), pollUser, time.Now().UTC(), sample.TotalKWh)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Recorded %.2f kWh for %s", reading.Value, reading.UserID)
	if sample.PowerWatt > 0 {
		fmt.Printf(" (current draw: %.0f W)", sample.PowerWatt)
	}
	fmt.Println()
	return nil
}
