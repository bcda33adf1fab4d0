package pipeline

// ProgressReporter provides callbacks for reporting generation progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnDiscoveryComplete is called once the header files are known.
	OnDiscoveryComplete(headers int)

	// OnHeaderProcessed is called after each header is extracted.
	OnHeaderProcessed(path string)

	// OnExtractionComplete is called when every header has been extracted.
	OnExtractionComplete()
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryComplete(headers int) {}
func (n *NoOpProgressReporter) OnHeaderProcessed(path string)   {}
func (n *NoOpProgressReporter) OnExtractionComplete()           {}
