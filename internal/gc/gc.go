// Package gc models the tracing-collector collaborator the module
// subsystem assumes but does not implement: allocation, write barriers and
// rootedness assertions. Real embedders supply a Collector backed by their
// own heap; the default NopCollector is a safe no-op for hosts (and tests)
// that manage memory some other way, such as relying on the Go runtime's own
// collector for the Binding cells themselves.
package gc

// Collector is the interface the module subsystem expects from its host's
// memory manager. CheckedAssignment calls WriteBarrier after publishing a
// new value into a binding. AssertRooted (the rootedness promise for a
// freshly allocated cell) is part of the interface, but no operation of
// the module subsystem calls it.
type Collector interface {
	// WriteBarrier notifies the collector that child is now reachable
	// from parent, immediately after a pointer store.
	WriteBarrier(parent, child any)
	// AssertRooted promises the collector that obj is already reachable
	// from a root, so it is safe to publish into shared structures
	// without an intervening scan.
	AssertRooted(obj any)
}

// NopCollector implements Collector with no-ops, for embedders that do not
// need barrier notifications (e.g. because Go's own collector already
// tracks every pointer the module subsystem stores).
type NopCollector struct{}

// WriteBarrier implements Collector.
func (NopCollector) WriteBarrier(_, _ any) {}

// AssertRooted implements Collector.
func (NopCollector) AssertRooted(_ any) {}
