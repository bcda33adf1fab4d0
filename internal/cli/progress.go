package cli

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/adapta-compat/internal/pipeline"
)

// CLIProgressReporter implements progress reporting with a progress bar.
type CLIProgressReporter struct {
	out     io.Writer
	bar     *progressbar.ProgressBar
	headers int
}

// NewCLIProgressReporter creates a reporter drawing on out.
func NewCLIProgressReporter(out io.Writer) *CLIProgressReporter {
	return &CLIProgressReporter{out: out}
}

// newProgressReporter picks the bar only for an interactive stderr; piped output
// and --quiet get no progress at all.
func newProgressReporter(quiet bool) pipeline.ProgressReporter {
	if quiet || !isTerminal(os.Stderr) {
		return &pipeline.NoOpProgressReporter{}
	}
	return NewCLIProgressReporter(os.Stderr)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *CLIProgressReporter) OnDiscoveryComplete(headers int) {
	c.headers = headers
	log.Debug().Int("headers", headers).Msg("Discovered headers")

	c.bar = progressbar.NewOptions(headers,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Extracting symbols"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("headers/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (c *CLIProgressReporter) OnHeaderProcessed(path string) {
	if c.bar != nil {
		c.bar.Add(1)
	}
}

func (c *CLIProgressReporter) OnExtractionComplete() {
	if c.bar != nil {
		c.bar.Finish()
		c.bar = nil
	}
}
