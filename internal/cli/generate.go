package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/adapta-compat/internal/classify"
	"github.com/mvp-joe/adapta-compat/internal/config"
	"github.com/mvp-joe/adapta-compat/internal/pipeline"
	"github.com/mvp-joe/adapta-compat/internal/symbols"
	"github.com/mvp-joe/adapta-compat/internal/watch"
)

var (
	watchFlag   bool
	explainFlag bool
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the compatibility header",
	Long: `Generate scans every header under the root, extracts the symbols introduced
by the renamed library and writes the compatibility header.

Examples:
  # Generate src/adw-compat.h for the current directory
  adapta-compat generate

  # Regenerate whenever a header changes
  adapta-compat generate --watch

  # Show why each macro was classified as casting or constant
  adapta-compat generate --explain
`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addGenerateFlags(generateCmd)
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch headers and regenerate on change")
	cmd.Flags().BoolVar(&explainFlag, "explain", false, "Print the classification evidence of every macro")
}

type generateOptions struct {
	watch   bool
	explain bool
	quiet   bool
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootDir, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return executeGenerate(ctx, cmd.OutOrStdout(), rootDir, cfg, generateOptions{
		watch:   watchFlag,
		explain: explainFlag,
		quiet:   quietFlag,
	})
}

// executeGenerate runs one generation, or the watch loop, printing results to out.
func executeGenerate(ctx context.Context, out io.Writer, rootDir string, cfg *config.Config, opts generateOptions) error {
	progress := newProgressReporter(opts.quiet || opts.watch)
	p, err := pipeline.New(cfg.ToPipelineConfig(rootDir), progress)
	if err != nil {
		return err
	}

	if opts.watch {
		return runWatch(ctx, out, rootDir, p, opts)
	}

	result, err := p.Generate(ctx)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoHeaders) {
			fmt.Fprintln(out, "No header files found")
			return fmt.Errorf("%w: %w", errReported, err)
		}
		return err
	}

	printResult(out, rootDir, cfg.SymbolNaming(), result, opts.explain)
	return nil
}

func runWatch(ctx context.Context, out io.Writer, rootDir string, p *pipeline.Pipeline, opts generateOptions) error {
	cache, err := symbols.NewCache(symbols.DefaultCacheCapacity)
	if err != nil {
		return err
	}
	defer cache.Close()
	p.WithCache(cache)

	w, err := watch.NewHeaderWatcher(p.Scanner(), watch.DefaultDebounce)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", rootDir, err)
	}

	naming := p.Naming()
	loop := watch.NewLoop(w, p, func(result *pipeline.Result, err error) {
		if err != nil {
			if errors.Is(err, pipeline.ErrNoHeaders) {
				fmt.Fprintln(out, "No header files found")
			}
			return
		}
		printResult(out, rootDir, naming, result, opts.explain)
		log.Debug().Int64("cache_hits", cache.Hits()).Int("cached", cache.Len()).Msg("Extraction cache")
	})

	log.Info().Str("root", rootDir).Msg("Watching headers, press Ctrl+C to stop")
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printResult(out io.Writer, rootDir string, naming symbols.Naming, result *pipeline.Result, explain bool) {
	if explain {
		printExplanation(out, naming, result.Symbols)
	}

	fmt.Fprintf(out, "Generated compatibility header: %s\n", displayPath(rootDir, result.OutputPath))
	fmt.Fprintln(out, result.Summary.String())
}

// printExplanation lists every new macro with the rule that classified it.
func printExplanation(out io.Writer, naming symbols.Naming, syms *classify.Classified) {
	for _, section := range [][]string{syms.CastingMacros, syms.ConstantMacros} {
		for _, macro := range section {
			evidence := syms.Evidence[macro]
			kind := "constant"
			if evidence.Casting() {
				kind = "casting"
			}
			fmt.Fprintf(out, "%-8s %-40s %s (%s)\n", kind, macro, naming.OldMacroName(macro), evidence)
		}
	}
}

func displayPath(rootDir, path string) string {
	if rel, err := filepath.Rel(rootDir, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
