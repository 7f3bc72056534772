package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/username/attendance-overtime/internal/attendance"
	"github.com/username/attendance-overtime/internal/config"
	"github.com/username/attendance-overtime/internal/punchsheet"
	"github.com/username/attendance-overtime/internal/report"
	"github.com/username/attendance-overtime/pkg/dateutil"
	"go.uber.org/zap"
)

func analyzeCmd() *cobra.Command {
	var detailed bool
	var exportPath string
	var name string
	var month string

	cmd := &cobra.Command{
		Use:   "analyze <export.xlsx>",
		Short: "Compute overtime, lateness and missing punches for one export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			rules, err := cfg.TimeRules.Rules()
			if err != nil {
				return err
			}

			oracle, closeStore, err := initializeOracle(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			reader := punchsheet.NewReader(cfg.Sheet.Layout(), logger)
			sheet, err := reader.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read export: %w", err)
			}
			if name == "" {
				name = sheet.Name
			}
			if month == "" {
				month = sheet.Month
			}

			analyzer := attendance.NewAnalyzer(oracle, rules, cfg.Labels.AttendanceLabels(), dateutil.SystemClock{}, logger)
			result, err := analyzer.Analyze(sheet.Rows, name, month)
			if err != nil {
				return fmt.Errorf("analysis of %s failed: %w", args[0], err)
			}

			if err := report.Render(out, result, detailed); err != nil {
				return fmt.Errorf("failed to print report: %w", err)
			}

			if exportPath != "" {
				if err := report.WriteXLSX(exportPath, result); err != nil {
					return err
				}
				logger.Info("Report exported", zap.String("file", exportPath))
				fmt.Fprintf(out, "\n📝 Report saved to %s\n", exportPath)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&detailed, "detail", false, "Print the per-day breakdown")
	cmd.Flags().StringVar(&exportPath, "export", "", "Write the report to an .xlsx file")
	cmd.Flags().StringVar(&name, "name", "", "Override the subject name read from the export")
	cmd.Flags().StringVar(&month, "month", "", "Override the reporting month read from the export")

	return cmd
}
