package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/event-contexts/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	storagePath string
	configPath  string
	orgSlug     string
	projectSlug string
	features    []string
	cacheDir    string
	workers     int
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "event-contexts",
	Short: "Classify and format the contexts attached to monitoring events",
	Long: `Turn the context blobs attached to monitoring events (device, os, runtime,
browser, gpu, user, trace, profile and more) into titled, iconified cards of
key/value entries with one-line summaries.

Events are read from a JSON file, a JSONL file or a SQLite database with an
"events" table. Built reports are cached and can be exported as JSON, JSONL,
YAML or Markdown.

Quick Start:
  event-contexts --storage events.db list        # List events and their contexts
  event-contexts --storage events.db show <id>   # Render the cards of one event
  event-contexts --storage events.db export -f md
  echo '{"name":"iOS","version":"17.2"}' | event-contexts classify --alias os -`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		internal.PrintError(err.Error())
		os.Exit(1)
	}
}

// loadConfig reads the config file and layers the persistent flags on top
func loadConfig() (*internal.Config, error) {
	path := configPath
	if path == "" {
		var err error
		if path, err = internal.DefaultConfigPath(); err != nil {
			return nil, err
		}
	}

	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	cfg.Apply(internal.Overrides{
		Storage:  storagePath,
		CacheDir: cacheDir,
		Org:      orgSlug,
		Project:  projectSlug,
		Features: features,
		Workers:  workers,
	})
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Event storage (.json, .jsonl or SQLite .db file)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.event-contexts.yaml)")
	rootCmd.PersistentFlags().StringVar(&orgSlug, "org", "", "Organization slug used in links")
	rootCmd.PersistentFlags().StringVar(&projectSlug, "project", "", "Project slug; also filters SQLite storage")
	rootCmd.PersistentFlags().StringSliceVar(&features, "feature", nil, "Organization feature flag (repeatable)")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Report cache directory (default ~/.event-contexts-cache)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Concurrent report builders (default from config, else 4)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
