package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/username/attendance-overtime/internal/attendance"
	"github.com/username/attendance-overtime/internal/punchsheet"
	"github.com/username/attendance-overtime/pkg/dateutil"
)

// Config represents application configuration
type Config struct {
	Calendar  CalendarConfig  `mapstructure:"calendar"`
	TimeRules TimeRulesConfig `mapstructure:"time_rules"`
	Labels    LabelsConfig    `mapstructure:"labels"`
	Sheet     SheetConfig     `mapstructure:"sheet"`
	Daemon    DaemonConfig    `mapstructure:"daemon"`
	Log       LogConfig       `mapstructure:"log"`
}

// CalendarConfig represents holiday calendar configuration
type CalendarConfig struct {
	APIURL   string `mapstructure:"api_url"` // must contain {year}
	Timeout  string `mapstructure:"timeout"`
	DataDir  string `mapstructure:"data_dir"`
	DBFile   string `mapstructure:"db_file"`
	CacheDir string `mapstructure:"cache_dir"`
}

// TimeRulesConfig represents working-time thresholds (HH:MM)
type TimeRulesConfig struct {
	WorkStart       string `mapstructure:"work_start"`
	LateThreshold   string `mapstructure:"late_threshold"`
	WorkEnd         string `mapstructure:"work_end"`
	DinnerGraceEnd  string `mapstructure:"dinner_grace_end"`
	StandardMinutes int    `mapstructure:"standard_minutes"`
	ExtendedMinutes int    `mapstructure:"extended_minutes"`
	NextDayMarker   string `mapstructure:"next_day_marker"`
}

// LabelsConfig represents the exact labels of the punch-clock export
type LabelsConfig struct {
	TwoPunches   []string `mapstructure:"two_punches"`
	NormalStatus []string `mapstructure:"normal_status"`
}

// SheetConfig represents the spreadsheet layout (zero-based columns)
type SheetConfig struct {
	HeaderRows    int `mapstructure:"header_rows"`
	NameColumn    int `mapstructure:"name_column"`
	DateColumn    int `mapstructure:"date_column"`
	FirstPunchCol int `mapstructure:"first_punch_column"`
	LastPunchCol  int `mapstructure:"last_punch_column"`
	PunchCountCol int `mapstructure:"punch_count_column"`
	StatusColumn  int `mapstructure:"status_column"`
}

// DaemonConfig represents daemon mode configuration
type DaemonConfig struct {
	DailyTime     string  `mapstructure:"daily_time"` // HH:MM local time of the calendar refresh
	JitterPercent float64 `mapstructure:"jitter_percent"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("calendar.api_url", "http://timor.tech/api/holiday/year/{year}")
	v.SetDefault("calendar.timeout", "5s")
	v.SetDefault("calendar.data_dir", "")
	v.SetDefault("calendar.db_file", "holidays.db")
	v.SetDefault("calendar.cache_dir", "holiday_cache")

	v.SetDefault("time_rules.work_start", "08:30")
	v.SetDefault("time_rules.late_threshold", "09:30")
	v.SetDefault("time_rules.work_end", "18:00")
	v.SetDefault("time_rules.dinner_grace_end", "18:30")
	v.SetDefault("time_rules.standard_minutes", 570)
	v.SetDefault("time_rules.extended_minutes", 600)
	v.SetDefault("time_rules.next_day_marker", dateutil.NextDayMarker)

	v.SetDefault("labels.two_punches", []string{"2次", "两次"})
	v.SetDefault("labels.normal_status", []string{"正常"})

	layout := punchsheet.DefaultLayout()
	v.SetDefault("sheet.header_rows", layout.HeaderRows)
	v.SetDefault("sheet.name_column", layout.NameColumn)
	v.SetDefault("sheet.date_column", layout.DateColumn)
	v.SetDefault("sheet.first_punch_column", layout.FirstPunchCol)
	v.SetDefault("sheet.last_punch_column", layout.LastPunchCol)
	v.SetDefault("sheet.punch_count_column", layout.PunchCountCol)
	v.SetDefault("sheet.status_column", layout.StatusColumn)

	v.SetDefault("daemon.daily_time", "03:00")
	v.SetDefault("daemon.jitter_percent", 10.0)

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Load loads configuration from file. A missing config file is not an error:
// every key has a default.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.attendance-overtime")
		v.AddConfigPath("/etc/attendance-overtime")
	}

	// Read environment variables, e.g. ATTENDANCE_CALENDAR_API_URL.
	// A .env file in the working directory is optional.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	v.SetEnvPrefix("attendance")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(configPath != "" && os.IsNotExist(err)) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !strings.Contains(c.Calendar.APIURL, "{year}") {
		return fmt.Errorf("calendar.api_url must contain {year}")
	}

	rules, err := c.TimeRules.Rules()
	if err != nil {
		return err
	}
	if err := rules.Validate(); err != nil {
		return fmt.Errorf("time_rules: %w", err)
	}

	if len(c.Labels.TwoPunches) == 0 {
		return fmt.Errorf("labels.two_punches must not be empty")
	}
	if len(c.Labels.NormalStatus) == 0 {
		return fmt.Errorf("labels.normal_status must not be empty")
	}

	if c.Sheet.HeaderRows < 0 {
		return fmt.Errorf("sheet.header_rows must not be negative")
	}
	for name, col := range map[string]int{
		"name_column":        c.Sheet.NameColumn,
		"date_column":        c.Sheet.DateColumn,
		"first_punch_column": c.Sheet.FirstPunchCol,
		"last_punch_column":  c.Sheet.LastPunchCol,
		"punch_count_column": c.Sheet.PunchCountCol,
		"status_column":      c.Sheet.StatusColumn,
	} {
		if col < 0 {
			return fmt.Errorf("sheet.%s must not be negative", name)
		}
	}

	if _, ok := dateutil.ParseClockTime(c.Daemon.DailyTime); !ok {
		return fmt.Errorf("daemon.daily_time must be HH:MM, got %q", c.Daemon.DailyTime)
	}
	if c.Daemon.JitterPercent < 0 || c.Daemon.JitterPercent > 100 {
		return fmt.Errorf("daemon.jitter_percent must be between 0 and 100")
	}

	return nil
}

// Rules converts the configured thresholds
func (c *TimeRulesConfig) Rules() (attendance.Rules, error) {
	parse := func(key, value string) (dateutil.ClockTime, error) {
		t, ok := dateutil.ParseClockTime(value)
		if !ok {
			return dateutil.ClockTime{}, fmt.Errorf("time_rules.%s must be HH:MM, got %q", key, value)
		}
		return t, nil
	}

	var rules attendance.Rules
	var err error
	if rules.WorkStart, err = parse("work_start", c.WorkStart); err != nil {
		return rules, err
	}
	if rules.LateThreshold, err = parse("late_threshold", c.LateThreshold); err != nil {
		return rules, err
	}
	if rules.WorkEnd, err = parse("work_end", c.WorkEnd); err != nil {
		return rules, err
	}
	if rules.DinnerGraceEnd, err = parse("dinner_grace_end", c.DinnerGraceEnd); err != nil {
		return rules, err
	}
	rules.StandardMinutes = c.StandardMinutes
	rules.ExtendedMinutes = c.ExtendedMinutes
	rules.NextDayMarker = c.NextDayMarker

	return rules, nil
}

// AttendanceLabels converts the configured labels
func (c *LabelsConfig) AttendanceLabels() attendance.Labels {
	return attendance.Labels{
		TwoPunches:   c.TwoPunches,
		NormalStatus: c.NormalStatus,
	}
}

// Layout converts the configured sheet layout
func (c *SheetConfig) Layout() punchsheet.Layout {
	return punchsheet.Layout{
		HeaderRows:    c.HeaderRows,
		NameColumn:    c.NameColumn,
		DateColumn:    c.DateColumn,
		FirstPunchCol: c.FirstPunchCol,
		LastPunchCol:  c.LastPunchCol,
		PunchCountCol: c.PunchCountCol,
		StatusColumn:  c.StatusColumn,
	}
}

// GetTimeout returns the calendar HTTP timeout
func (c *CalendarConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 5 * time.Second
	}
	duration, err := time.ParseDuration(c.Timeout)
	if err != nil || duration <= 0 {
		return 5 * time.Second
	}
	return duration
}

// GetDataDir returns the directory holding the database and the cache,
// defaulting to <user cache dir>/AttendanceSystem
func (c *CalendarConfig) GetDataDir() string {
	if c.DataDir != "" {
		return os.ExpandEnv(c.DataDir)
	}
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "AttendanceSystem")
}

// DBPath returns the SQLite database path
func (c *CalendarConfig) DBPath() string {
	if filepath.IsAbs(c.DBFile) {
		return c.DBFile
	}
	return filepath.Join(c.GetDataDir(), c.DBFile)
}

// CachePath returns the holiday cache directory
func (c *CalendarConfig) CachePath() string {
	if filepath.IsAbs(c.CacheDir) {
		return c.CacheDir
	}
	return filepath.Join(c.GetDataDir(), c.CacheDir)
}

// GetDailyTime returns the configured daily refresh time.
// Returns hour and minute (0-23, 0-59). Default: 03:00
func (c *DaemonConfig) GetDailyTime() (hour, minute int) {
	t, ok := dateutil.ParseClockTime(c.DailyTime)
	if !ok {
		return 3, 0
	}
	return t.Hour, t.Minute
}
