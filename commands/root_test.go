package commands

import (
	"os"
	"path/filepath"
	"testing"

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

func TestRootCommandFlags(t *testing.T) {
	rootCmd := NewRootCmd()

	tests := []struct {
		flag         string
		defaultValue string
		shorthand    string
	}{
		{"catalog", "", ""},
		{"entries", defaultEntriesPath, ""},
		{"user", "default", ""},
		{"look-back", "24h0m0s", ""},
		{"look-ahead", "6h0m0s", ""},
		{"output", "auto", "o"},
		{"format", "", ""},
		{"timezone", "Local", ""},
		{"debug", "false", ""},
		{"log-file", defaultLogFile, ""},
		{"cache-dir", defaultCacheDir, ""},
		{"reset", "false", "r"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(tt.flag)
			require.NotNil(t, flag)
			assert.Equal(t, tt.defaultValue, flag.DefValue)
			if tt.shorthand != "" {
				assert.Equal(t, tt.shorthand, flag.Shorthand)
			}
		})
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	rootCmd := NewRootCmd()

	for _, name := range []string{"timeline", "consumption", "limits", "catalog", "top", "serve"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	top, _, err := rootCmd.Find([]string{"top"})
	require.NoError(t, err)
	assert.NotNil(t, top.Flags().Lookup("time-format"))
	assert.NotNil(t, top.Flags().Lookup("tick"))
	assert.NotNil(t, top.Flags().Lookup("debounce"))
}
