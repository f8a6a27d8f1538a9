package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quiverhq/quiver/internal/config"
	"github.com/quiverhq/quiver/pkg/discover"
	"github.com/quiverhq/quiver/pkg/domain"
	"github.com/quiverhq/quiver/pkg/report"
	"github.com/quiverhq/quiver/pkg/run"
)

var version = "dev"

// flags collects command-line overrides. Anything left at its zero
// value defers to quiver.yml, the environment, or the defaults.
type flags struct {
	reporter string
	quiet    bool
	verbose  bool
	workers  int
	exclude  []string
}

func main() {
	report.Version = version

	var f flags

	rootCmd := &cobra.Command{
		Use:     "quiver",
		Short:   "Test discovery and reporting for Python test suites",
		Long:    `Quiver statically discovers tests defined with the @test marker and the expect() assertion style, and reports results through pluggable backends.`,
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&f.reporter, "reporter", "r", "", "output backend: text, json, dot or junit")
	rootCmd.PersistentFlags().BoolVarP(&f.quiet, "quiet", "q", false, "only print failures and the summary")
	rootCmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "print expected assertions for every test")
	rootCmd.PersistentFlags().IntVarP(&f.workers, "workers", "p", 0, "concurrent analysis workers (0 = one per CPU)")
	rootCmd.PersistentFlags().StringSliceVar(&f.exclude, "exclude", nil, "glob patterns to skip during discovery")

	rootCmd.AddCommand(newDiscoverCommand(&f))
	rootCmd.AddCommand(newTestCommand(&f))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newDiscoverCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "discover [path]",
		Short: "Find tests without running them",
		Long:  "Walk the project tree, analyze every source file and list the tests it defines.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, err := loadConfig(f, args)
			if err != nil {
				return err
			}

			result, err := discoverTests(cmd, root, cfg)
			if err != nil {
				return err
			}

			reporter, err := newReporter(cmd, cfg)
			if err != nil {
				return err
			}
			run.NewDriver(reporter).Collect(result.Tests())
			return nil
		},
	}
}

func newTestCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "test [path]",
		Short: "Discover and run tests",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, err := loadConfig(f, args)
			if err != nil {
				return err
			}

			result, err := discoverTests(cmd, root, cfg)
			if err != nil {
				return err
			}
			if n := result.CountTests(); n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d tests discovered.\n", n)
			}

			// Execution lives outside this tool: embedders wire their
			// runtime through run.Executor. The CLI can only collect.
			return fmt.Errorf("no execution backend is available; use %q to list tests", "quiver discover")
		},
	}
}

// loadConfig resolves the project root from the optional path argument
// and layers file, environment and flag settings.
func loadConfig(f *flags, args []string) (string, *config.Config, error) {
	start := "."
	if len(args) == 1 {
		start = args[0]
	}

	root, ok := discover.FindProjectRoot(start)
	if !ok {
		root = start
	}

	cfg, err := config.Load(root)
	if err != nil {
		return "", nil, err
	}

	if f.reporter != "" {
		cfg.Reporter = f.reporter
	}
	if f.quiet {
		cfg.Verbosity = int(report.VerbosityQuiet)
	}
	if f.verbose {
		cfg.Verbosity = int(report.VerbosityVerbose)
	}
	if f.workers > 0 {
		cfg.Workers = f.workers
	}
	if len(f.exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, f.exclude...)
	}

	if err := cfg.Validate(); err != nil {
		return "", nil, err
	}
	return root, cfg, nil
}

func discoverTests(cmd *cobra.Command, root string, cfg *config.Config) (*domain.DiscoveryResult, error) {
	opts := []discover.ScanOption{
		discover.WithWorkers(cfg.Workers),
		discover.WithExcludePatterns(cfg.Exclude),
		discover.WithPatterns(cfg.Patterns),
	}

	result, err := discover.Discover(cmd.Context(), root, opts...)
	if err != nil {
		return nil, err
	}

	// File-level problems degrade: report them and keep going with
	// whatever was discovered.
	for _, derr := range result.Errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", derr.Error())
	}
	return result, nil
}

func newReporter(cmd *cobra.Command, cfg *config.Config) (report.Reporter, error) {
	return report.New(report.Format(cfg.Reporter), cmd.OutOrStdout(), report.Verbosity(cfg.Verbosity))
}
