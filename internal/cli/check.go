package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/adapta-compat/internal/compat"
	"github.com/mvp-joe/adapta-compat/internal/config"
	"github.com/mvp-joe/adapta-compat/internal/pipeline"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the compatibility header is up to date",
	Long: `Check regenerates the compatibility header in memory and compares it with the
file on disk. It prints a unified diff and exits non-zero when the file is stale,
which makes it suitable for CI.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootDir, cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return executeCheck(ctx, cmd.OutOrStdout(), rootDir, cfg)
}

func executeCheck(ctx context.Context, out io.Writer, rootDir string, cfg *config.Config) error {
	p, err := pipeline.New(cfg.ToPipelineConfig(rootDir), nil)
	if err != nil {
		return err
	}

	diff, err := p.Check(ctx)
	switch {
	case errors.Is(err, compat.ErrStale):
		fmt.Fprint(out, diff)
		return fmt.Errorf("%s: %w", displayPath(rootDir, p.OutputPath()), err)
	case errors.Is(err, pipeline.ErrNoHeaders):
		fmt.Fprintln(out, "No header files found")
		return fmt.Errorf("%w: %w", errReported, err)
	case err != nil:
		return err
	}

	fmt.Fprintf(out, "Compatibility header is up to date: %s\n", displayPath(rootDir, p.OutputPath()))
	return nil
}
