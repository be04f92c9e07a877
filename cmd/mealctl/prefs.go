package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/whatshouldieat/backend/internal/models"
)

func newPrefsCmd(c *cli) *cobra.Command {
	prefsCmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage meal preferences",
		Long:  `Show, replace or clear the dietary, location and cuisine preferences used to generate meals.`,
	}

	var (
		prefs models.UserPreferences
		date  string
	)
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the preferences and regenerate a day",
		Long:  `Saves the given preferences and immediately generates a fresh set of meals for --date (today by default).`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = models.Today()
			}
			if _, err := models.ParseDate(date); err != nil {
				return err
			}

			meals, err := c.service(cmd)
			if err != nil {
				return err
			}
			if err := meals.SavePreferences(cmd.Context(), prefs); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Preferences saved.")

			generated, err := meals.Refresh(cmd.Context(), date, prefs)
			if err != nil {
				return fmt.Errorf("failed to generate meals: %w", err)
			}
			printMeals(cmd.OutOrStdout(), date, generated)
			return nil
		},
	}
	setCmd.Flags().StringVar(&prefs.DietaryPreferences, "diet", "", "dietary preferences, e.g. \"vegetarian, no nuts\"")
	setCmd.Flags().StringVar(&prefs.Location, "location", "", "where you are, e.g. \"Lisbon, Portugal\"")
	setCmd.Flags().StringVar(&prefs.CuisinePreferences, "cuisine", "", "cuisines you enjoy")
	setCmd.Flags().StringVar(&date, "date", "", "day to generate (YYYY-MM-DD, default today)")
	_ = setCmd.MarkFlagRequired("diet")
	_ = setCmd.MarkFlagRequired("location")
	_ = setCmd.MarkFlagRequired("cuisine")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			meals, err := c.service(cmd)
			if err != nil {
				return err
			}
			stored, ok := meals.Preferences(cmd.Context())
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No preferences saved.")
				return nil
			}
			printPreferences(cmd.OutOrStdout(), stored)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			meals, err := c.service(cmd)
			if err != nil {
				return err
			}
			meals.ClearPreferences(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Preferences cleared.")
			return nil
		},
	}

	prefsCmd.AddCommand(setCmd, showCmd, clearCmd)
	return prefsCmd
}

func newClearCmd(c *cli) *cobra.Command {
	var confirmed bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the preferences and every stored day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("refusing to delete all data without --yes")
			}
			meals, err := c.service(cmd)
			if err != nil {
				return err
			}
			if err := meals.ClearAll(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear data: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data cleared.")
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&confirmed, "yes", false, "confirm deleting all data")
	return clearCmd
}
