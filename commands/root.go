package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-log-pager/internal/core/paging"
	"github.com/penwyp/go-log-pager/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string

	// cfg holds flag, environment and config file values.
	cfg = viper.New()

	rootCmd = &cobra.Command{
		Use:   "logpager",
		Short: "Page through large log files without loading them",
		Long: `logpager reads a large log file one page at a time, forward or backward,
holding only one chunk and one page in memory.

Each line has the form "<C> <timestamp> <content>" where C is one of
L, W, E, I, C or P. The position in the file is remembered between
invocations per file and filter.

Examples:
  logpager gen --lines 100000 -f test.log      # Write sample data
  logpager next -f test.log                    # First page, then the next ones
  logpager prev -f test.log                    # Back one page
  logpager next -f test.log --filter E,W       # Only errors and warnings
  logpager next -f test.log -o json            # Page as JSON
  logpager browse -f test.log                  # Interactive pager
  logpager reset -f test.log --all             # Forget every position`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
)

const (
	defaultLogFile  = "~/.logpager/logs/app.log"
	defaultStateDir = "~/.logpager/state"
	defaultFile     = "test.log"
)

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "",
		"Config file (default: $HOME/.logpager.yaml)")

	// Input
	flags.StringP("file", "f", defaultFile,
		"Log file to page through")
	flags.String("filter", "all",
		"Categories to show (e.g. E,W or all)")

	// Paging
	flags.Int("chunk-size", paging.DefaultChunkSize,
		"Bytes read per chunk")
	flags.Int("page-size", paging.DefaultPageSize,
		"Entries per page")
	flags.Bool("drop-boundary-lines", false,
		"Drop lines cut by a chunk boundary instead of re-reading them")

	// Output
	flags.StringP("output", "o", "table",
		"Output format (table, json, csv, summary)")
	flags.String("timezone", "Local",
		"Timezone for zone-less timestamps and display (e.g., Asia/Shanghai, UTC)")
	flags.Bool("no-color", false,
		"Disable colored output")

	// State and logging
	flags.String("state-dir", defaultStateDir,
		"Directory holding page positions between invocations")
	flags.String("log-file", defaultLogFile,
		"Application log file")
	flags.Bool("debug", false,
		"Enable debug mode")

	for _, name := range []string{
		"file", "filter", "chunk-size", "page-size", "drop-boundary-lines",
		"output", "timezone", "no-color", "state-dir", "log-file", "debug",
	} {
		if err := cfg.BindPFlag(configKey(name), flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// configKey maps a flag name to its config file key.
func configKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

func initConfig() {
	if cfgFile != "" {
		cfg.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		cfg.AddConfigPath(home)
		cfg.AddConfigPath(".")
		cfg.SetConfigName(".logpager")
		cfg.SetConfigType("yaml")
	}

	cfg.SetEnvPrefix("LOGPAGER")
	cfg.AutomaticEnv()

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: failed to read config: %v\n", err)
		}
	}
}

// settings is the resolved configuration of one invocation.
type settings struct {
	File              string
	Filter            string
	ChunkSize         int
	PageSize          int
	DropBoundaryLines bool
	Output            string
	Timezone          string
	NoColor           bool
	StateDir          string
	LogFile           string
	Debug             bool
}

func loadSettings(v *viper.Viper) *settings {
	return &settings{
		File:              expandPath(v.GetString("file")),
		Filter:            v.GetString("filter"),
		ChunkSize:         v.GetInt("chunk_size"),
		PageSize:          v.GetInt("page_size"),
		DropBoundaryLines: v.GetBool("drop_boundary_lines"),
		Output:            v.GetString("output"),
		Timezone:          v.GetString("timezone"),
		NoColor:           v.GetBool("no_color"),
		StateDir:          expandPath(v.GetString("state_dir")),
		LogFile:           expandPath(v.GetString("log_file")),
		Debug:             v.GetBool("debug"),
	}
}

// setup initializes logging and the time provider before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	s := loadSettings(cfg)

	logLevel := "info"
	if s.Debug {
		logLevel = "debug"
	}

	if err := ensureDir(filepath.Dir(s.LogFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(util.LoggerOptions{
		Level:          logLevel,
		File:           s.LogFile,
		DebugToConsole: s.Debug,
	}); err != nil {
		return err
	}

	if err := util.InitializeTimeProvider(s.Timezone); err != nil {
		return err
	}

	util.LogDebugf("Running %s with file=%s filter=%s chunk=%d page=%d",
		cmd.Name(), s.File, s.Filter, s.ChunkSize, s.PageSize)
	return nil
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if path == "" {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
