package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BuddyApator/Energie-Buddy/internal/auth"
)

var (
	registerPassword string
	registerName     string
)

var registerCmd = &cobra.Command{
	Use:   "register [identifier]",
	Short: "Create a household user",
	Long:  `Creates a user account directly in the store, bypassing the web registration form. The identifier is matched exactly, case-sensitively, at login.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRegister,
}

func init() {
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "login password (required)")
	registerCmd.Flags().StringVar(&registerName, "name", "", "display name shown on the dashboard")
	_ = registerCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	id := args[0]

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	name := registerName
	if name == "" {
		name = id
	}

	user, err := auth.NewService(db).Register(cmd.Context(), id, registerPassword, name)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Registered %s (%s)\n", user.ID, user.DisplayName)
	return nil
}
