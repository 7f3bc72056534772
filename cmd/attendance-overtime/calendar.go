package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/attendance-overtime/internal/config"
	"github.com/username/attendance-overtime/pkg/dateutil"
)

func calendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Inspect or update the holiday calendar",
	}

	cmd.AddCommand(calendarRefreshCmd())
	cmd.AddCommand(calendarShowCmd())

	return cmd
}

func calendarRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Download holiday data for the previous, current and next year",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			oracle, closeStore, err := initializeOracle(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx, cancel := context.WithTimeout(context.Background(), 3*cfg.Calendar.GetTimeout())
			defer cancel()

			report, err := oracle.Refresh(ctx)
			if report != nil {
				for _, year := range report.Updated {
					fmt.Fprintf(out, "✅ %d updated\n", year)
				}
				failed := make([]int, 0, len(report.Failed))
				for year := range report.Failed {
					failed = append(failed, year)
				}
				sort.Ints(failed)
				for _, year := range failed {
					fmt.Fprintf(out, "❌ %d kept previous data: %v\n", year, report.Failed[year])
				}
				for year, perr := range report.PersistFailed {
					fmt.Fprintf(out, "⚠️  %d loaded but not saved: %v\n", year, perr)
				}
			}
			return err
		},
	}
}

func calendarShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <YYYY-MM-DD>...",
		Short: "Show how dates are classified",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			oracle, closeStore, err := initializeOracle(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			fmt.Fprintf(out, "Calendar data for years: %v\n", oracle.LoadedYears())
			for _, arg := range args {
				date, err := time.ParseInLocation(dateutil.DateLayout, arg, time.Local)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", arg, err)
				}

				day := oracle.Day(date)
				workday := "non-working"
				if day.IsWorkday() {
					workday = "working"
				}
				fmt.Fprintf(out, "  %s %s  %-20s %-11s %s\n",
					dateutil.Key(date), date.Format("Mon"), day.Type, workday, day.Note)
			}
			return nil
		},
	}
}
