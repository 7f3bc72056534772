package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/username/attendance-overtime/internal/calendar"
	"github.com/username/attendance-overtime/internal/config"
	"github.com/username/attendance-overtime/internal/daemon"
	"github.com/username/attendance-overtime/pkg/dateutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	logger     *zap.Logger
	out        io.Writer = os.Stdout
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "attendance-overtime",
		Short: "Monthly overtime and attendance report",
		Long:  "Compute overtime, lateness and missing punches from a punch-clock export using the public holiday calendar",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger() // Fallback to console
				}
			} else {
				initLogger() // Default console logger
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: search ., $HOME/.attendance-overtime, /etc/attendance-overtime)")

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(calendarCmd())
	rootCmd.AddCommand(daemonCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func daemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Refresh the holiday calendar once a day",
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

			hour, minute := cfg.Daemon.GetDailyTime()
			d := daemon.NewScheduledDaemon(oracle, hour, minute, cfg.Daemon.JitterPercent, dateutil.SystemClock{}, logger)
			return d.Start()
		},
	}
}

// initializeOracle builds the workday oracle and loads the cached calendar.
// The returned func closes the underlying store.
func initializeOracle(cfg *config.Config) (*calendar.Oracle, func(), error) {
	closeStore := func() {}

	if err := os.MkdirAll(cfg.Calendar.GetDataDir(), 0o755); err != nil {
		logger.Warn("Failed to create data dir", zap.String("dir", cfg.Calendar.GetDataDir()), zap.Error(err))
	}

	var store calendar.Store
	sqliteStore, err := calendar.NewSQLiteStore(cfg.Calendar.DBPath(), logger)
	if err != nil {
		logger.Error("Failed to open calendar database, using in-memory store",
			zap.String("db", cfg.Calendar.DBPath()),
			zap.Error(err))
		store = calendar.NewMemoryStore()
	} else {
		store = sqliteStore
		closeStore = func() {
			if err := sqliteStore.Close(); err != nil {
				logger.Warn("Failed to close calendar database", zap.Error(err))
			}
		}
	}

	source := calendar.NewTimorSource(cfg.Calendar.APIURL, cfg.Calendar.GetTimeout(), logger)
	cache := calendar.NewFileCache(cfg.Calendar.CachePath(), logger)

	oracle := calendar.NewOracle(source, store, cache, dateutil.SystemClock{}, logger)
	oracle.Load(context.Background())

	return oracle, closeStore, nil
}

func initLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
