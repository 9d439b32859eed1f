package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/BuddyApator/Energie-Buddy/internal/publisher"
	"github.com/BuddyApator/Energie-Buddy/pkg/models"
)

var (
	publishUser  string
	publishAll   bool
	publishLimit int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish readings to Home Assistant / MQTT",
	Long:  `Reads stored meter readings from the database and pushes them to the configured MQTT broker and/or Home Assistant backfill API.`,
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishUser, "user", "", "user whose readings to publish (required)")
	publishCmd.Flags().BoolVar(&publishAll, "all", false, "force republish all records (ignore published flag)")
	publishCmd.Flags().IntVar(&publishLimit, "limit", 0, "limit number of records to publish (0 = no limit)")
	_ = publishCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if !cfg.MQTT.Enabled && !cfg.HomeAssistant.Enabled {
		return fmt.Errorf("neither MQTT nor Home Assistant is enabled in config")
	}

	pub, err := publisher.New(cfg.MQTT, cfg.HomeAssistant)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var data []models.Reading
	if publishAll {
		data, err = db.ListReadings(cmd.Context(), publishUser)
	} else {
		data, err = db.ListUnpublishedReadings(cmd.Context(), publishUser)
	}
	if err != nil {
		return fmt.Errorf("listing readings for %s: %w", publishUser, err)
	}

	if len(data) == 0 {
		if publishAll {
			fmt.Printf("No readings found for %s\n", publishUser)
		} else {
			fmt.Printf("No unpublished readings found for %s\n", publishUser)
		}
		return nil
	}

	if publishLimit > 0 && len(data) > publishLimit {
		data = data[:publishLimit]
		fmt.Printf("Limiting to %d records (--limit flag)\n", publishLimit)
	}

	fmt.Printf("Publishing %d records for %s...\n", len(data), publishUser)
	published := 0
	for i, record := range data {
		fmt.Printf("[%d/%d] Publishing %s (%.2f kWh)... ", i+1, len(data), record.RecordedAt.Format("2006-01-02"), record.Value)
		if err := pub.Publish(record); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			continue
		}

		if err := db.MarkPublished(cmd.Context(), record.ID); err != nil {
			fmt.Printf("✓ (warning: failed to mark as published: %v)\n", err)
		} else {
			fmt.Printf("✓\n")
		}
		published++
	}

	fmt.Printf("\nSuccessfully published %d/%d records for %s\n", published, len(data), publishUser)
	return nil
}
