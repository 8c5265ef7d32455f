// Package config reads the run configuration from .env, the environment and command line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
)

type Config struct {
	Year              int
	StorageURL        string
	BaseURL           string
	GeocoderURL       string
	UserAgent         string
	RequestDelay      time.Duration
	ScheduleOut       string
	LogFile           string
	LogLevel          string
	DiscordWebhookURL string
	TimezoneOverrides map[string]string // event slug -> IANA zone
	DryRun            bool
}

// Defaults fills whatever neither the environment nor the flags set.
func Defaults() Config {
	return Config{
		Year:         time.Now().Year(),
		StorageURL:   "_db",
		BaseURL:      "https://www.formula1.com",
		GeocoderURL:  "https://nominatim.openstreetmap.org",
		UserAgent:    "F1 calendar scraping script",
		RequestDelay: 2 * time.Second,
		ScheduleOut:  "schedule.txt",
		LogLevel:     "info",
	}
}

// Parse builds the configuration. Flags win over the environment, which wins over .env, which
// wins over Defaults. A missing .env file is not an error.
func Parse(name string, args []string) (Config, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	envFile := flags.String("env", ".env", "dotenv file to load")
	year := flags.Int("year", 0, "season year")
	storage := flags.String("storage", "", "storage directory or postgres url")
	out := flags.String("out", "", "schedule report file")
	logFile := flags.String("log", "", "log file (stderr when empty)")
	logLevel := flags.String("log-level", "", "debug, info, warn or error")
	dryRun := flags.Bool("dry-run", false, "compute and report without persisting")
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadDotenv(*envFile); err != nil {
		return Config{}, err
	}
	cfg, err := fromEnv()
	if err != nil {
		return Config{}, err
	}

	if *year != 0 {
		cfg.Year = *year
	}
	if *storage != "" {
		cfg.StorageURL = *storage
	}
	if *out != "" {
		cfg.ScheduleOut = *out
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *dryRun {
		cfg.DryRun = true
	}

	if err := mergo.Merge(&cfg, Defaults()); err != nil {
		return Config{}, fmt.Errorf("config defaults: %w", err)
	}
	return cfg, nil
}

func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func fromEnv() (Config, error) {
	overrides, err := ParseOverrides(getString("TIMEZONE_OVERRIDES", ""))
	if err != nil {
		return Config{}, err
	}
	dryRun, err := getBool("DRY_RUN")
	if err != nil {
		return Config{}, err
	}
	return Config{
		Year:              getInt("SEASON_YEAR", 0),
		StorageURL:        getString("STORAGE_URL", ""),
		BaseURL:           getString("F1_BASE_URL", ""),
		GeocoderURL:       getString("GEOCODER_URL", ""),
		UserAgent:         getString("USER_AGENT", ""),
		RequestDelay:      time.Duration(getInt("REQUEST_DELAY_MS", 0)) * time.Millisecond,
		ScheduleOut:       getString("SCHEDULE_OUT", ""),
		LogFile:           getString("LOG_FILE", ""),
		LogLevel:          getString("LOG_LEVEL", ""),
		DiscordWebhookURL: getString("DISCORD_WEBHOOK_URL", ""),
		TimezoneOverrides: overrides,
		DryRun:            dryRun,
	}, nil
}

// ParseOverrides reads "slug=Area/City" pairs separated by commas.
func ParseOverrides(csv string) (map[string]string, error) {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return nil, nil
	}
	m := make(map[string]string)
	for _, pair := range strings.Split(csv, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		slug, zone, ok := strings.Cut(pair, "=")
		slug, zone = strings.TrimSpace(slug), strings.TrimSpace(zone)
		if !ok || slug == "" || zone == "" {
			return nil, fmt.Errorf("timezone override %q: expected slug=Area/City", pair)
		}
		m[slug] = zone
	}
	return m, nil
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(key string) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
