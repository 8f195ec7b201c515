package builder

import "time"

// ProgressReporter provides callbacks for reporting build progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnDiscoveryStart is called when file discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called when file discovery finishes.
	OnDiscoveryComplete(sourceFiles int)

	// OnGraphBuildingStart is called before parsing the discovered files.
	OnGraphBuildingStart(totalFiles int)

	// OnGraphFileProcessed is called after each file is parsed.
	OnGraphFileProcessed(processedFiles, totalFiles int, fileName string)

	// OnResolutionStart is called before the whole-graph passes run.
	OnResolutionStart()

	// OnComplete is called when the build finishes successfully.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryStart()                  {}
func (n *NoOpProgressReporter) OnDiscoveryComplete(sourceFiles int) {}
func (n *NoOpProgressReporter) OnGraphBuildingStart(totalFiles int) {}
func (n *NoOpProgressReporter) OnGraphFileProcessed(processedFiles, totalFiles int, fileName string) {
}
func (n *NoOpProgressReporter) OnResolutionStart()    {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats) {}

// Stats summarizes one build.
type Stats struct {
	FilesDiscovered int
	FilesParsed     int
	FilesFailed     int
	Nodes           int
	Edges           int
	Overrides       int
	ResolvedCalls   int
	Duration        time.Duration
}
