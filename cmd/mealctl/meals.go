package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/whatshouldieat/backend/internal/models"
	"github.com/whatshouldieat/backend/internal/service"
)

// dateArg returns the optional date argument, defaulting to today
func dateArg(args []string) (string, error) {
	if len(args) == 0 {
		return models.Today(), nil
	}
	if _, err := models.ParseDate(args[0]); err != nil {
		return "", err
	}
	return args[0], nil
}

func newMealsCmd(c *cli) *cobra.Command {
	mealsCmd := &cobra.Command{
		Use:   "meals",
		Short: "Browse, regenerate and rate meals",
		Long:  `Show the meals stored for a day, generate new ones, move between days and record ratings and notes.`,
	}

	showCmd := &cobra.Command{
		Use:   "show [date]",
		Short: "Show a day's meals, generating them on first visit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateArg(args)
			if err != nil {
				return err
			}
			meals, err := c.service(cmd)
			if err != nil {
				return err
			}

			var prefsPtr *models.UserPreferences
			if prefs, ok := meals.Preferences(cmd.Context()); ok {
				prefsPtr = &prefs
			}
			loaded, err := meals.LoadOrGenerate(cmd.Context(), date, prefsPtr)
			if errors.Is(err, service.ErrPreferencesRequired) {
				fmt.Fprintf(cmd.OutOrStdout(), "No meals for %s. Run \"mealctl prefs set\" to get suggestions.\n", date)
				return nil
			}
			if err != nil {
				return err
			}
			printMeals(cmd.OutOrStdout(), date, loaded)
			return nil
		},
	}

	refreshCmd := &cobra.Command{
		Use:   "refresh [date]",
		Short: "Replace a day's meals with a fresh set",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateArg(args)
			if err != nil {
				return err
			}
			meals, err := c.service(cmd)
			if err != nil {
				return err
			}
			prefs, ok := meals.Preferences(cmd.Context())
			if !ok {
				return service.ErrPreferencesRequired
			}
			generated, err := meals.Refresh(cmd.Context(), date, prefs)
			if err != nil {
				return err
			}
			printMeals(cmd.OutOrStdout(), date, generated)
			return nil
		},
	}

	mealsCmd.AddCommand(showCmd, refreshCmd,
		newNavigateCmd(c, service.Next, "Show the following day"),
		newNavigateCmd(c, service.Previous, "Show the previous day"),
		newRateCmd(c),
		newNoteCmd(c),
	)
	return mealsCmd
}

func newNavigateCmd(c *cli, dir service.Direction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(dir) + " [date]",
		Short: short,
		Long:  short + ` relative to [date] (today by default), generating it when preferences are stored.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateArg(args)
			if err != nil {
				return err
			}
			meals, err := c.service(cmd)
			if err != nil {
				return err
			}
			target, loaded, err := meals.Navigate(cmd.Context(), date, dir)
			if err != nil {
				return err
			}
			printMeals(cmd.OutOrStdout(), target, loaded)
			return nil
		},
	}
}

func newRateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <date> <meal-id> <rating>",
		Short: "Rate a meal from 0 (unrated) to 5",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid rating %q: %w", args[2], models.ErrInvalidRating)
			}
			return applyEdit(c, cmd, models.MealEdit{Date: args[0], ID: args[1], Rating: &rating})
		},
	}
}

func newNoteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "note <date> <meal-id> [notes...]",
		Short: "Replace a meal's notes; no notes clears them",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes := strings.Join(args[2:], " ")
			return applyEdit(c, cmd, models.MealEdit{Date: args[0], ID: args[1], Notes: &notes})
		},
	}
}

func applyEdit(c *cli, cmd *cobra.Command, edit models.MealEdit) error {
	meals, err := c.service(cmd)
	if err != nil {
		return err
	}
	updated, err := meals.ApplyEdit(cmd.Context(), edit)
	if err != nil {
		return err
	}
	printMeals(cmd.OutOrStdout(), edit.Date, updated)
	return nil
}
