package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/adapta-compat/internal/config"
)

var (
	rootFlag    string
	cfgFile     string
	outputFlag  string
	quietFlag   bool
	verboseFlag bool
)

// errReported marks a failure whose message has already been printed.
var errReported = errors.New("reported")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "adapta-compat",
	Short: "Generate the libadwaita compatibility header for libadapta",
	Long: `adapta-compat scans the headers of a library renamed from libadwaita to
libadapta and writes src/adw-compat.h, a header of #define aliases mapping every
old Adw/ADW_/adw_ name to its new Adap/ADAP_/adap_ name, so code written
against the old names keeps compiling.

Running adapta-compat without a subcommand is the same as "adapta-compat generate".`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	RunE:              runGenerate,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".", "root directory of the library sources")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <root>/.adapta/config.yml)")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "compat header path relative to the root (overrides paths.output)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "only print warnings and errors")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output")
	rootCmd.MarkFlagsMutuallyExclusive("quiet", "verbose")

	addGenerateFlags(rootCmd)
}

// setupLogging configures the global zerolog logger on stderr.
func setupLogging(cmd *cobra.Command, args []string) error {
	log.Logger = newLogger(cmd.ErrOrStderr(), quietFlag, verboseFlag)
	return nil
}

func newLogger(w io.Writer, quiet, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case verbose:
		level = zerolog.DebugLevel
	case quiet:
		level = zerolog.WarnLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// loadConfig resolves the root directory and loads its configuration, applying
// the --output override.
func loadConfig() (string, *config.Config, error) {
	rootDir, err := filepath.Abs(rootFlag)
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}

	var loader config.Loader
	if cfgFile != "" {
		loader = config.NewFileLoader(rootDir, cfgFile)
	} else {
		loader = config.NewLoader(rootDir)
	}

	cfg, err := loader.Load()
	if err != nil {
		return "", nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if outputFlag != "" {
		cfg.Paths.Output = outputFlag
		if err := config.Validate(cfg); err != nil {
			return "", nil, fmt.Errorf("invalid --output: %w", err)
		}
	}

	log.Debug().Str("root", rootDir).Str("output", cfg.Paths.Output).Msg("Configuration loaded")
	return rootDir, cfg, nil
}
