// Package metrics defines the minimal observability surface the audit tool
// emits through. The core depends only on Backend; concrete backends live in
// subpackages so vendor SDKs never leak into the audit code.
package metrics

// Labels are free-form metric dimensions ("stage", "status", "kind").
type Labels map[string]string

// Backend receives counters and histogram samples from the audit run.
//
// Implementations must be safe for concurrent use; emit paths may run from
// multiple goroutines.
type Backend interface {
	// IncCounter adds delta to a named counter.
	IncCounter(name string, delta float64, labels Labels)

	// ObserveHistogram records one sample of a named distribution.
	ObserveHistogram(name string, value float64, labels Labels)

	// Flush submits buffered metrics to the sink.
	Flush() error

	// Close stops background work and performs one final Flush.
	Close() error
}

// Noop discards all metrics. Used when no sink is configured, so call sites
// never need nil checks.
type Noop struct{}

func (Noop) IncCounter(string, float64, Labels)       {}
func (Noop) ObserveHistogram(string, float64, Labels) {}
func (Noop) Flush() error                             { return nil }
func (Noop) Close() error                             { return nil }

var _ Backend = Noop{}
