package module

import (
	"github.com/glyphlang/glyph/internal/symbol"
)

// Import is the unified backend for `import M.sym`, `import M.sym as
// asname`, and their implicit counterparts. explicit distinguishes an
// explicit import (sets Binding.Imported) from the implicit caching a
// using-search materialization performs. It returns DeprecatedBindingUse
// if sym is deprecated and the configured mode is DepError.
func (to *Module) Import(from *Module, sym, asname string, explicit bool) error {
	symN := to.opts.Interner.Intern(sym)
	asN := to.opts.Interner.Intern(asname)

	b := from.GetBinding(sym)
	if b == nil {
		to.opts.diagnostic().CouldNotImport(from.name.Text(), sym)
		return nil
	}

	if err := to.checkDeprecatedUse(from, b, symN); err != nil {
		return err
	}

	to.lock.Lock()
	defer to.lock.Unlock()

	i := to.table.Slot(asN)
	existing, live := to.table.At(i)

	switch {
	case !live:
		nb := newBinding(asN)
		nb.setAlias(b)
		nb.imported.Store(explicit)
		nb.deprecated.Store(b.Deprecated())
		to.table.SetAt(i, nb)

	case existing.resolveCanonical() == b:
		if explicit {
			existing.imported.Store(true)
		}

	case eqBindings(existing, b):
		if explicit {
			existing.imported.Store(true)
		}

	case !existing.IsSelfOwned() && !existing.IsPlaceholder():
		to.opts.diagnostic().ConflictingImport(to.name.Text(), asname, from.name.Text())

	case existing.IsSelfOwned() && existing.Value().IsBound():
		to.opts.diagnostic().ConflictingIdentifier(to.name.Text(), asname)

	case existing.IsSelfOwned() && existing.Constp():
		to.opts.diagnostic().ConflictingIdentifier(to.name.Text(), asname)

	default:
		// A placeholder with no owner yet — from a prior export with
		// no definition, or a suppressed ambiguity guard: claim it as
		// an alias, which also resolves away any ambiguity guard.
		existing.setAlias(b)
		existing.imported.Store(explicit)
	}

	return nil
}

// Using installs a `using` edge from to to from: from's exports become
// resolvable (but not assignable) in to.
func (to *Module) Using(from *Module) {
	if from == to {
		return
	}

	to.lock.Lock()
	if to.usingOf[from] {
		to.lock.Unlock()
		return
	}
	to.lock.Unlock()

	to.moduleUsingLocked(from)
}

// moduleUsingLocked performs the conflict scan and append, used both by
// Using and by module construction's default `using core` install. It
// re-checks the "already using" condition under to's lock, so concurrent
// callers never append from twice.
func (to *Module) moduleUsingLocked(from *Module) {
	from.lock.Lock()

	type exported struct {
		name symbol.Name
		b    *Binding
	}

	var exports []exported

	from.table.Range(func(name symbol.Name, b *Binding) {
		if b.Exportp() && (b.IsSelfOwned() || b.Imported()) {
			exports = append(exports, exported{name, b})
		}
	})
	from.lock.Unlock()

	to.lock.Lock()
	defer to.lock.Unlock()

	if to.usingOf == nil {
		to.usingOf = make(map[*Module]bool)
	}

	if to.usingOf[from] {
		return
	}

	for _, e := range exports {
		if e.name == to.name {
			continue
		}

		existing, live := to.table.Get(e.name)
		if live && !eqBindings(existing, e.b) && (existing.IsSelfOwned() || existing.Imported()) {
			to.opts.diagnostic().UsingConflict(to.name.Text(), from.name.Text(), e.name.Text())
		}
	}

	to.usings = append(to.usings, from)
	to.usingOf[from] = true
}

// Export ensures a cell exists for sym (creating an unresolved placeholder
// if absent) and marks it for export.
func (m *Module) Export(sym string) {
	n := m.opts.Interner.Intern(sym)

	m.lock.Lock()
	defer m.lock.Unlock()

	i := m.table.Slot(n)
	b, live := m.table.At(i)

	if !live {
		b = newBinding(n)
		m.table.SetAt(i, b)
	}

	b.exportp.Store(true)
}
