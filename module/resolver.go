package module

import (
	"fmt"

	"github.com/glyphlang/glyph/internal/symbol"
)

// frame is one (module, name) link in the cycle-detection stack carried
// down resolver recursion. It is a plain linked list rather than a slice
// so that pushing a frame costs no allocation beyond the frame itself and
// sibling branches of the recursion never see each other's frames.
type frame struct {
	mod  *Module
	name symbol.Name
	up   *frame
}

func (f *frame) contains(mod *Module, name symbol.Name) bool {
	for ; f != nil; f = f.up {
		if f.mod == mod && f.name == name {
			return true
		}
	}

	return false
}

// GetBindingWR resolves M.v for assignment, creating the cell if absent
// and alloc is true. It fails with CannotAssignImported if a local cell
// already exists whose owner is a foreign binding.
func (m *Module) GetBindingWR(name string, alloc bool) (*Binding, error) {
	n := m.opts.Interner.Intern(name)

	m.lock.Lock()
	defer m.lock.Unlock()

	i := m.table.Slot(n)
	b, live := m.table.At(i)

	if !live {
		if !alloc {
			return nil, nil
		}

		b = newBinding(n)
		b.claimOwnership()
		m.table.SetAt(i, b)

		return b, nil
	}

	if b.IsPlaceholder() {
		b.claimOwnership()
		return b, nil
	}

	if !b.IsSelfOwned() {
		return nil, newError(CannotAssignImported, m.name.Text(), name,
			"cannot assign a name that is a foreign import; re-declare it explicitly")
	}

	return b, nil
}

// GetBindingForMethodDef resolves M.v for extending a generic function. A
// local cell aliasing a foreign owner is permitted only when the cell was
// produced by an explicit import, or when the owner is a constant bound to
// a type (constructor-extension is allowed implicitly); otherwise it fails
// with MustExplicitlyImport.
func (m *Module) GetBindingForMethodDef(name string) (*Binding, error) {
	n := m.opts.Interner.Intern(name)

	m.lock.Lock()
	defer m.lock.Unlock()

	i := m.table.Slot(n)
	b, live := m.table.At(i)

	if !live {
		b = newBinding(n)
		b.claimOwnership()
		m.table.SetAt(i, b)

		return b, nil
	}

	if b.IsSelfOwned() || b.IsPlaceholder() {
		if b.IsPlaceholder() {
			b.claimOwnership()
		}

		return b, nil
	}

	owner := b.resolveCanonical()
	if b.Imported() {
		return owner, nil
	}

	if owner.Constp() && owner.Value().IsTypeValue() {
		return owner, nil
	}

	return owner, newError(MustExplicitlyImport, m.name.Text(), name,
		"must explicitly import this name before extending it")
}

// GetBinding resolves M.v for reading: the canonical binding, or nil.
// Follows one owner hop in the own table, then, if still unresolved,
// searches usings. A name resolved via using is materialized as a local
// alias so later `using` calls cannot change the resolution.
func (m *Module) GetBinding(name string) *Binding {
	n := m.opts.Interner.Intern(name)
	return m.getBinding(n, nil)
}

func (m *Module) getBinding(n symbol.Name, stack *frame) *Binding {
	if stack.contains(m, n) {
		return nil
	}

	m.lock.Lock()

	if b, live := m.table.Get(n); live {
		if b.IsSelfOwned() {
			m.lock.Unlock()
			return b
		}

		if !b.IsPlaceholder() {
			owner := b.resolveCanonical()
			m.lock.Unlock()

			return owner
		}

		if b.IsAmbiguityGuard() {
			// Already reported once; stay silent on every later
			// lookup instead of re-running the using search.
			m.lock.Unlock()
			return nil
		}
		// Ordinary export/reservation placeholder: fall through to
		// the using search below, but keep the slot so
		// materialization overwrites it in place.
	}

	usings := append([]*Module(nil), m.usings...)
	m.lock.Unlock()

	self := &frame{mod: m, name: n, up: stack}

	found, ambiguous := usingSearch(usings, n, self)

	m.lock.Lock()
	defer m.lock.Unlock()

	if ambiguous {
		m.opts.diagnostic().Ambiguous(m.name.Text(), n.Text())
		m.materializeAmbiguityGuard(n)

		return nil
	}

	if found == nil {
		return nil
	}

	m.materializeAlias(n, found)

	return found
}

// usingSearch implements the using-search algorithm: iterate usings from
// last to first, following each exported cell at most one owner hop to its
// canonical binding, preferring the non-deprecated candidate and detecting
// ambiguity between two non-eq, non-deprecated candidates. An exported
// cell that is still a placeholder (no owner) is skipped; it is not
// resolved through that module's own usings.
func usingSearch(usings []*Module, n symbol.Name, stack *frame) (found *Binding, ambiguous bool) {
	var (
		candidate    *Binding
		candidateDep bool
	)

	for i := len(usings) - 1; i >= 0; i-- {
		f := usings[i]

		f.lock.Lock()
		fb, live := f.table.Get(n)
		f.lock.Unlock()

		if !live || !fb.Exportp() {
			continue
		}

		owner := fb.resolveCanonical()
		if owner.IsPlaceholder() {
			continue
		}

		var resolved *Binding
		if owner.IsSelfOwned() {
			resolved = owner
		} else {
			resolved = f.getBinding(n, stack)
		}

		if resolved == nil {
			continue
		}

		dep := resolved.Deprecated() != depNone

		if candidate == nil {
			candidate, candidateDep = resolved, dep

			continue
		}

		if eqBindings(candidate, resolved) {
			continue
		}

		switch {
		case candidateDep && !dep:
			// Prefer the non-deprecated candidate.
			candidate, candidateDep = resolved, dep
		case !candidateDep && dep:
			// Keep the existing non-deprecated candidate.
		case !candidateDep && !dep:
			return nil, true
		default:
			// Both deprecated and distinct: original treats this
			// as ambiguous too, there being no preference rule
			// for it.
			return nil, true
		}
	}

	return candidate, false
}

// materializeAmbiguityGuard installs (or converts an existing placeholder
// into) an ambiguity guard cell for n, so later lookups short-circuit to
// nil without re-running the using search or re-warning.
func (m *Module) materializeAmbiguityGuard(n symbol.Name) {
	i := m.table.Slot(n)

	b, live := m.table.At(i)
	if !live {
		b = newBinding(n)
		m.table.SetAt(i, b)
	}

	b.markAmbiguityGuard()
}

func (m *Module) materializeAlias(n symbol.Name, owner *Binding) {
	i := m.table.Slot(n)

	existing, live := m.table.At(i)
	if live && existing.resolveCanonical() == owner {
		return
	}

	nb := newBinding(n)
	nb.setAlias(owner)
	nb.deprecated.Store(owner.Deprecated())
	m.table.SetAt(i, nb)
}

// GetBindingIfBound is GetBinding without a usings search and without
// materialization.
func (m *Module) GetBindingIfBound(name string) *Binding {
	n := m.opts.Interner.Intern(name)

	m.lock.Lock()
	defer m.lock.Unlock()

	b, live := m.table.Get(n)
	if !live || b.IsPlaceholder() {
		return nil
	}

	return b.resolveCanonical()
}

// BindingOwner is a best-effort snapshot of the current likely owner,
// without materializing a using-search result.
func (m *Module) BindingOwner(name string) *Binding {
	n := m.opts.Interner.Intern(name)

	m.lock.Lock()
	b, live := m.table.Get(n)
	m.lock.Unlock()

	if !live {
		return nil
	}

	return b.resolveCanonical()
}

// GetBindingType returns the owner's declared type, or nil (the
// bottom/"nothing" sentinel) if unresolved.
func (m *Module) GetBindingType(name string) Type {
	b := m.GetBindingIfBound(name)
	if b == nil {
		return nil
	}

	return b.DeclaredType()
}

// GetBindingOrError resolves M.v for reading, raising UndefinedVarError if
// it cannot be resolved, or DeprecatedBindingUse if it resolves but is
// deprecated and the configured mode is DepError. This mirrors the
// original's jl_get_binding_or_error and jl_get_global, which both run the
// deprecation check against the querying module rather than the binding's
// defining module.
func (m *Module) GetBindingOrError(name string) (*Binding, error) {
	b := m.GetBinding(name)
	if b == nil {
		return nil, newError(UndefinedVarError, m.name.Text(), name,
			fmt.Sprintf("%s not defined", name))
	}

	n := m.opts.Interner.Intern(name)
	if err := m.checkDeprecatedUse(m, b, n); err != nil {
		return nil, err
	}

	return b, nil
}
