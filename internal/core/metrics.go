package core

// Quote submission outcomes reported to the MetricsRecorder.
const (
	OutcomeCreated  = "created"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// MetricsRecorder receives business events worth counting.
type MetricsRecorder interface {
	QuoteSubmitted(outcome string)
	ContentWritten()
	RoleDenied()
}

type noopMetrics struct{}

func (noopMetrics) QuoteSubmitted(string) {}
func (noopMetrics) ContentWritten()       {}
func (noopMetrics) RoleDenied()           {}

// NoopMetrics discards every event.
var NoopMetrics MetricsRecorder = noopMetrics{}
