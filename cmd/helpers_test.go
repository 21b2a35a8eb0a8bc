package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/event-contexts/internal"
	"github.com/iksnae/event-contexts/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// executeCommand runs the root command with args in a throwaway home
// directory and returns what it wrote to stdout
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCommandWithInput(t, nil, args...)
}

func executeCommandWithInput(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", testutil.CreateTempDir(t))
	resetFlags(rootCmd)

	var logs bytes.Buffer
	internal.SetLogOutput(&logs)
	t.Cleanup(func() {
		internal.SetLogOutput(os.Stderr)
		internal.SetVerbose(false)
	})

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags puts every flag back to its default; flag variables are
// package globals and would otherwise leak between tests
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// sqliteStore creates a SQLite fixture and returns its path
func sqliteStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(testutil.CreateTempDir(t), "events.db")
	testutil.CreateSQLiteFixture(t, path)
	return path
}
