package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-log-pager/internal/core/paging"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(string) string
	}{
		{
			name:  "home directory expansion",
			input: "~/test/path",
			expected: func(home string) string {
				return filepath.Join(home, "test/path")
			},
		},
		{
			name:  "absolute path unchanged",
			input: "/absolute/path",
			expected: func(home string) string {
				return "/absolute/path"
			},
		},
		{
			name:  "relative path converted to absolute",
			input: "relative/path",
			expected: func(home string) string {
				abs, _ := filepath.Abs("relative/path")
				return abs
			},
		},
	}

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			expected := tt.expected(home)
			assert.Equal(t, expected, result)
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test", "nested", "dir")

	err := ensureDir(testDir)
	assert.NoError(t, err)

	// Verify directory was created
	info, err := os.Stat(testDir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())

	// Test idempotency
	err = ensureDir(testDir)
	assert.NoError(t, err)
}


func TestConfigKey(t *testing.T) {
	assert.Equal(t, "chunk_size", configKey("chunk-size"))
	assert.Equal(t, "drop_boundary_lines", configKey("drop-boundary-lines"))
	assert.Equal(t, "file", configKey("file"))
}

func TestRootCommandFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"file", "f", defaultFile},
		{"filter", "", "all"},
		{"chunk-size", "", strconv.Itoa(paging.DefaultChunkSize)},
		{"page-size", "", strconv.Itoa(paging.DefaultPageSize)},
		{"drop-boundary-lines", "", "false"},
		{"output", "o", "table"},
		{"timezone", "", "Local"},
		{"no-color", "", "false"},
		{"state-dir", "", defaultStateDir},
		{"log-file", "", defaultLogFile},
		{"debug", "", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := flags.Lookup(tt.name)
			require.NotNil(t, flag, "flag %s should exist", tt.name)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"next", "prev", "show", "reset", "browse", "gen", "replay"} {
		assert.True(t, names[name], "missing subcommand %s", name)
	}
	assert.True(t, replayCmd.Hidden)
}

func TestLoadSettings(t *testing.T) {
	v := viper.New()
	v.Set("file", "~/logs/app.log")
	v.Set("filter", "E,W")
	v.Set("chunk_size", 4096)
	v.Set("page_size", 25)
	v.Set("drop_boundary_lines", true)
	v.Set("output", "json")
	v.Set("timezone", "UTC")
	v.Set("state_dir", "/tmp/state")

	s := loadSettings(v)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs/app.log"), s.File)
	assert.Equal(t, "E,W", s.Filter)
	assert.Equal(t, 4096, s.ChunkSize)
	assert.Equal(t, 25, s.PageSize)
	assert.True(t, s.DropBoundaryLines)
	assert.Equal(t, "json", s.Output)
	assert.Equal(t, "UTC", s.Timezone)
	assert.Equal(t, "/tmp/state", s.StateDir)
	assert.Empty(t, s.LogFile)
	assert.False(t, s.Debug)
}

func TestLoadSettingsFromEnvironment(t *testing.T) {
	t.Setenv("LOGPAGER_PAGE_SIZE", "42")
	t.Setenv("LOGPAGER_FILTER", "P")

	v := viper.New()
	v.SetEnvPrefix("LOGPAGER")
	v.AutomaticEnv()

	s := loadSettings(v)

	assert.Equal(t, 42, s.PageSize)
	assert.Equal(t, "P", s.Filter)
}

func TestExecuteGenNextReset(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.log")
	common := []string{
		"--file", file,
		"--filter", "all",
		"--chunk-size", "4096",
		"--page-size", "10",
		"--timezone", "UTC",
		"--state-dir", filepath.Join(dir, "state"),
		"--log-file", filepath.Join(dir, "logs", "logpager.log"),
	}
	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(append(args, common...))
		require.NoError(t, Execute(), out.String())
		return out.String()
	}
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	out := run("gen", "--lines", "35", "--seed", "7")
	assert.Contains(t, out, "Wrote 35 entries")
	assert.FileExists(t, file)

	var doc struct {
		Count     int  `json:"count"`
		FirstPage bool `json:"first_page"`
	}
	require.NoError(t, sonic.UnmarshalString(run("next", "-o", "json"), &doc))
	assert.Equal(t, 10, doc.Count)
	assert.True(t, doc.FirstPage)

	require.NoError(t, sonic.UnmarshalString(run("next", "-o", "json"), &doc))
	assert.Equal(t, 10, doc.Count)
	assert.False(t, doc.FirstPage)

	assert.Contains(t, run("reset", "-o", "table"), "Page position cleared")
	assert.Contains(t, run("show", "-o", "table"), "No page loaded")
}
