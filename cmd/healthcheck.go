package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/iksnae/event-contexts/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckDetails bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that event storage, config and cache are usable",
	Long: `Check the health of event-contexts by verifying:
  • The config file parses and validates
  • The event storage exists and can be opened
  • Events can be read and carry contexts
  • The cache directory is writable

This command is useful for debugging storage issues, especially in CI/CD environments.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, sectionStyle.Render("🔍 Event Contexts Health Check"))
		_, _ = fmt.Fprintln(out)

		// Step 1: Config
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 1: Loading config..."))
		cfg, err := loadConfig()
		if err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Config is invalid:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		if _, statErr := os.Stat(cfg.Path()); statErr == nil {
			_, _ = fmt.Fprintln(out, successStyle.Render("✅ Config loaded"))
		} else {
			_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  No config file, using defaults"))
		}
		if healthcheckDetails {
			_, _ = fmt.Fprintf(out, "   Config: %s\n", cfg.Path())
			_, _ = fmt.Fprintf(out, "   Organization: %s\n", orDash(cfg.Organization.Slug))
			_, _ = fmt.Fprintf(out, "   Project: %s\n", orDash(cfg.Project.Slug))
			_, _ = fmt.Fprintf(out, "   Extra icons: %d\n", len(cfg.Icons))
		}
		_, _ = fmt.Fprintln(out)

		// Step 2: Storage
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 2: Opening event storage..."))
		source, err := internal.NewEventSource(cfg.Storage, cfg.Project.Slug)
		if err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to open storage:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		defer func() { _ = source.Close() }()
		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Storage opened"))
		if healthcheckDetails {
			_, _ = fmt.Fprintf(out, "   Path: %s\n", source.Path())
			if info, err := os.Stat(source.Path()); err == nil {
				_, _ = fmt.Fprintf(out, "   Size: %s\n", humanize.IBytes(uint64(info.Size())))
			}
			describeSource(out, source)
		}
		_, _ = fmt.Fprintln(out)

		// Step 3: Events
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 3: Loading events..."))
		events, err := source.LoadEvents()
		if err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to load events:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		usage := countContexts(events)
		if len(events) > 0 {
			_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d event(s) with %d distinct context(s)", len(events), len(usage))))
			if healthcheckDetails {
				for i, u := range usage {
					if i == 5 {
						_, _ = fmt.Fprintf(out, "   ... and %d more\n", len(usage)-5)
						break
					}
					_, _ = fmt.Fprintf(out, "   [%d] %s (%s) in %d event(s)\n", i+1, u.Alias, u.Type, u.Count)
				}
			}
		} else {
			_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  No events found"))
			_, _ = fmt.Fprintln(out, "   This could mean:")
			_, _ = fmt.Fprintln(out, "   • The storage is empty")
			_, _ = fmt.Fprintln(out, "   • --project filters out every stored event")
			if internal.IsCIEnvironment() {
				_, _ = fmt.Fprintln(out, "   • In CI: the fixture or export step may not have run yet")
			}
		}
		_, _ = fmt.Fprintln(out)

		// Step 4: Cache
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 4: Checking cache directory..."))
		cacheOK := checkCache(out, cfg, source.Path())
		_, _ = fmt.Fprintln(out)

		// Summary
		_, _ = fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		_, _ = fmt.Fprintln(out)

		switch {
		case len(events) > 0 && cacheOK:
			_, _ = fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
			_, _ = fmt.Fprintln(out, successStyle.Render("   • Storage: Available"))
			_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Events: %d found", len(events))))
			return nil
		case cacheOK:
			_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  Storage available but no events found"))
			return nil
		default:
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
			_, _ = fmt.Fprintln(out, "   • Cache directory is not writable")
			return fmt.Errorf("health check failed: cache directory unusable")
		}
	},
}

func describeSource(out io.Writer, source internal.EventSource) {
	switch s := source.(type) {
	case *internal.SQLiteSource:
		_, _ = fmt.Fprintln(out, "   Type: SQLite event store")
		if n, err := internal.CountRows(s.DB(), "events"); err == nil {
			_, _ = fmt.Fprintf(out, "   Rows: %d\n", n)
		}
	case *internal.FileSource:
		_, _ = fmt.Fprintln(out, "   Type: event file")
	default:
		_, _ = fmt.Fprintf(out, "   Type: %T\n", source)
	}
}

func checkCache(out io.Writer, cfg *internal.Config, sourcePath string) bool {
	dir, err := cfg.ResolvedCacheDir()
	if err != nil {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Cannot resolve cache directory:"), err)
		return false
	}
	cm := internal.NewCacheManager(dir)
	if err := cm.EnsureCacheDir(); err != nil {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Cannot create cache directory:"), err)
		return false
	}

	probe, err := os.CreateTemp(dir, ".healthcheck-*")
	if err != nil {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Cache directory is not writable:"), err)
		return false
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())

	_, _ = fmt.Fprintln(out, successStyle.Render("✅ Cache directory is writable"))
	if healthcheckDetails {
		_, _ = fmt.Fprintf(out, "   Directory: %s\n", dir)
		fresh, _ := cm.IsCacheValid(sourcePath, cfg.NewNormalizer().Fingerprint())
		if fresh {
			_, _ = fmt.Fprintln(out, "   Cached reports are up to date")
		} else {
			_, _ = fmt.Fprintln(out, "   Cached reports will be rebuilt on next use")
		}
	}
	return true
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVar(&healthcheckDetails, "details", false, "Show detailed diagnostic information")
}
