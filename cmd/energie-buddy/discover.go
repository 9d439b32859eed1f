package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BuddyApator/Energie-Buddy/internal/meter"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find the meter relay on the local network",
	Long: `Browses the local network for a relay advertisement via mDNS. The browse
window is time-boxed (discovery_timeout_seconds in config) and resolves as
soon as the first device answers.`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Printf("Searching for relay device (%s window)...\n", cfg.GetDiscoveryTimeout())

	address, err := meter.Discover(cmd.Context(), cfg.GetDiscoveryTimeout())
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if address == "" {
		fmt.Println("No device found")
		return nil
	}

	fmt.Printf("✓ Found device at %s\n", address)
	return nil
}
