package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"codegraph/internal/builder"
)

// CLIProgressReporter implements progress reporting with progress bars.
type CLIProgressReporter struct {
	quiet     bool
	fileBar   *progressbar.ProgressBar
	startTime time.Time
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet:     quiet,
		startTime: time.Now(),
	}
}

func (c *CLIProgressReporter) OnDiscoveryStart() {
	if c.quiet {
		return
	}
	log.Println("Discovering source files...")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(sourceFiles int) {
	if c.quiet {
		return
	}
	log.Printf("Found %d source files\n", sourceFiles)
}

func (c *CLIProgressReporter) OnGraphBuildingStart(totalFiles int) {
	if c.quiet {
		return
	}
	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetDescription("Parsing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (c *CLIProgressReporter) OnGraphFileProcessed(processedFiles, totalFiles int, fileName string) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnResolutionStart() {
	if c.quiet {
		return
	}
	log.Println("Resolving overrides and calls...")
}

func (c *CLIProgressReporter) OnComplete(stats *builder.Stats) {
	if c.quiet {
		return
	}
	fmt.Printf("Graph built: %d nodes, %d edges (%d overrides, %d resolved calls) in %.2fs\n",
		stats.Nodes, stats.Edges, stats.Overrides, stats.ResolvedCalls,
		stats.Duration.Seconds())
	if stats.FilesFailed > 0 {
		fmt.Printf("Warning: %d of %d files failed to parse and were recorded as degraded file nodes\n",
			stats.FilesFailed, stats.FilesDiscovered)
	}
}
