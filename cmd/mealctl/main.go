package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/whatshouldieat/backend/config"
	"github.com/whatshouldieat/backend/internal/api"
	"github.com/whatshouldieat/backend/internal/app"
)

// openFunc connects to the configured store and returns the meal service
// with a publisher writing to out, plus a cleanup function
type openFunc func(ctx context.Context, out io.Writer) (api.MealService, func(), error)

func openFromConfig(ctx context.Context, out io.Writer) (api.MealService, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	a, err := app.New(ctx, cfg, newConsolePublisher(out))
	if err != nil {
		return nil, nil, err
	}
	return a.Meals, a.Close, nil
}

// cli opens the meal service on first use so help and completion work
// without a configured store
type cli struct {
	open    openFunc
	meals   api.MealService
	cleanup func()
}

func (c *cli) service(cmd *cobra.Command) (api.MealService, error) {
	if c.meals != nil {
		return c.meals, nil
	}
	meals, cleanup, err := c.open(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	c.meals, c.cleanup = meals, cleanup
	return meals, nil
}

func (c *cli) close() {
	if c.cleanup != nil {
		c.cleanup()
		c.cleanup = nil
	}
}

func newRootCmd(open openFunc) (*cobra.Command, *cli) {
	c := &cli{open: open}

	rootCmd := &cobra.Command{
		Use:   "mealctl",
		Short: "Daily meal suggestions from the command line",
		Long: `mealctl generates, browses and rates the meal suggestions stored for each day.

Storage and AI providers are configured through the same environment variables
as the API server (STORE_BACKEND, TEXT_PROVIDER, IMAGE_PROVIDER, ...).`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newPrefsCmd(c))
	rootCmd.AddCommand(newMealsCmd(c))
	rootCmd.AddCommand(newClearCmd(c))
	return rootCmd, c
}

func main() {
	rootCmd, c := newRootCmd(openFromConfig)
	err := rootCmd.ExecuteContext(context.Background())
	c.close()
	if err != nil {
		os.Exit(1)
	}
}
