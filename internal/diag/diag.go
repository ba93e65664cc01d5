// Package diag is the module subsystem's diagnostic sink, backed by
// logrus. Warnings (ambiguous using, conflicting imports, deprecation
// notices) are logged without locking: the standard-error sink is a
// shared resource where interleaving across goroutines is acceptable.
package diag

import (
	log "github.com/sirupsen/logrus"
)

// DepMode is the tri-state deprecation mode: silent, warn-on-stderr, or
// raise-after-printing.
type DepMode uint8

const (
	// DepOff silently allows use of deprecated bindings.
	DepOff DepMode = iota
	// DepWarn logs a warning and allows the use to proceed.
	DepWarn
	// DepError logs a warning and then the caller raises
	// DeprecatedBindingUse.
	DepError
)

// Sink collects the warnings this subsystem never escalates to errors, plus
// deprecation notices under whatever DepMode is configured.
type Sink struct {
	mode DepMode
}

// NewSink constructs a Sink with the given deprecation mode.
func NewSink(mode DepMode) *Sink {
	return &Sink{mode: mode}
}

// Mode returns the sink's configured deprecation mode.
func (s *Sink) Mode() DepMode {
	if s == nil {
		return DepOff
	}

	return s.mode
}

// Ambiguous logs the "must be qualified" warning for an ambiguous using
// resolution.
func (s *Sink) Ambiguous(module, name string) {
	log.Warnf("%q is ambiguous in module %q; must be qualified", name, module)
}

// ConflictingImport logs an import that aliases a different foreign owner
// than one already installed under the same name.
func (s *Sink) ConflictingImport(module, name, from string) {
	log.Warnf("import of %q from %q conflicts with existing import in %q", name, from, module)
}

// ConflictingIdentifier logs an import that collides with a self-owned,
// already-valued binding.
func (s *Sink) ConflictingIdentifier(module, name string) {
	log.Warnf("import of %q into %q conflicts with existing identifier", name, module)
}

// CouldNotImport logs a failed import of an unresolvable name.
func (s *Sink) CouldNotImport(from, name string) {
	log.Warnf("could not import %q from %q: not found", name, from)
}

// UsingConflict logs a using edge whose target exports a name that already
// resolves differently in the importing module.
func (s *Sink) UsingConflict(to, from, name string) {
	log.Warnf("using %q in %q: %q conflicts with an existing identifier", from, to, name)
}

// RedefinitionWarning logs the non-fatal "unsafe" redefinition of a simple
// constant to a different, equal-typed value.
func (s *Sink) RedefinitionWarning(module, name string) {
	log.Warnf("redefining constant %q in %q", name, module)
}

// Deprecated logs a deprecation notice for a binding, honoring the
// configured mode. It returns true if the caller should raise
// DeprecatedBindingUse after logging.
func (s *Sink) Deprecated(module, name, message string) (shouldRaise bool) {
	switch s.Mode() {
	case DepOff:
		return false
	case DepWarn, DepError:
		log.Warnf("%q in %q is deprecated%s", name, module, message)

		return s.Mode() == DepError
	default:
		return false
	}
}
