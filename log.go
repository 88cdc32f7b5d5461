package examsift

import "github.com/sijun-lee/examsift/internal/vlog"

// SetVerbose sets the global verbose mode. When enabled, every pipeline
// phase logs progress through the standard logger.
func SetVerbose(verbose bool) {
	vlog.SetVerbose(verbose)
}
