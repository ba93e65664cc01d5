package module

import (
	"sort"
	"sync"

	"github.com/glyphlang/glyph/internal/symbol"
	"github.com/glyphlang/glyph/internal/util"
)

// Names returns an ordered sequence of the names bound in m. A name is
// included when it is exported, OR imported is true and the cell is
// marked imported, OR the cell is self-owned, not imported, and (all is
// true, or m is the process root). Hidden (`#`-prefixed) and deprecated
// names are excluded unless all is true.
func (m *Module) Names(all, imported bool) []string {
	m.lock.Lock()
	defer m.lock.Unlock()

	var names []string

	m.table.Range(func(n symbol.Name, b *Binding) {
		if !all && n.IsHidden() {
			return
		}

		if !all && b.Deprecated() != depNone {
			return
		}

		include := b.Exportp() ||
			(imported && b.Imported()) ||
			(b.IsSelfOwned() && !b.Imported() && (all || m == m.opts.Root))

		if include {
			names = append(names, n.Text())
		}
	})

	sort.Strings(names)

	return names
}

// UsingSet returns a defensive shallow copy of m's membership set of
// `using`-ed modules, keyed by module name, so callers (e.g. a debugger
// front-end) can inspect it without risk of mutating or racing m's
// internal bookkeeping.
func (m *Module) UsingSet() map[string]bool {
	m.lock.Lock()
	clone := util.ShallowCloneMap(m.usingOf)
	m.lock.Unlock()

	byName := make(map[string]bool, len(clone))
	for u := range clone {
		byName[u.name.Text()] = true
	}

	return byName
}

// Usings returns m's using list reversed (most-recently-added first).
func (m *Module) Usings() []*Module {
	m.lock.Lock()
	defer m.lock.Unlock()

	out := make([]*Module, len(m.usings))
	for i, u := range m.usings {
		out[len(m.usings)-1-i] = u
	}

	return out
}

// Boundp reports whether name resolves to any binding (own table or via
// using), without requiring it to hold a value.
func (m *Module) Boundp(name string) bool {
	return m.GetBinding(name) != nil
}

// DefinesOrExportsP reports whether m's own table has a live cell for name
// that is either exported or self-owned.
func (m *Module) DefinesOrExportsP(name string) bool {
	n := m.opts.Interner.Intern(name)

	m.lock.Lock()
	defer m.lock.Unlock()

	b, live := m.table.Get(n)

	return live && (b.Exportp() || b.IsSelfOwned())
}

// ExportsP reports whether name is marked exported in m's own table.
func (m *Module) ExportsP(name string) bool {
	n := m.opts.Interner.Intern(name)

	m.lock.Lock()
	defer m.lock.Unlock()

	b, live := m.table.Get(n)

	return live && b.Exportp()
}

// BindingResolvedP reports whether name has a live, non-placeholder cell
// in m's own table (regardless of whether it has a value).
func (m *Module) BindingResolvedP(name string) bool {
	n := m.opts.Interner.Intern(name)

	m.lock.Lock()
	defer m.lock.Unlock()

	b, live := m.table.Get(n)

	return live && !b.IsPlaceholder()
}

// IsImported reports whether name's local cell was produced by an
// explicit import.
func (m *Module) IsImported(name string) bool {
	n := m.opts.Interner.Intern(name)

	m.lock.Lock()
	defer m.lock.Unlock()

	b, live := m.table.Get(n)

	return live && b.Imported()
}

// IsConst reports whether name resolves to a constant binding.
func (m *Module) IsConst(name string) bool {
	b := m.GetBindingIfBound(name)
	return b != nil && b.Constp()
}

// GlobalRef materializes (if necessary) and returns the stable (module,
// name, binding) triple for name, even before it is otherwise bound —
// used by the evaluator to pre-intern call sites.
func (m *Module) GlobalRef(name string) *GlobalRef {
	n := m.opts.Interner.Intern(name)

	m.lock.Lock()
	i := m.table.Slot(n)
	b, live := m.table.At(i)

	if !live {
		b = newBinding(n)
		m.table.SetAt(i, b)
	}
	m.lock.Unlock()

	return b.GlobalRefOf(m)
}

// ClearImplicitImports removes every cell in m's table that is neither
// self-owned nor explicitly imported. Intended for shrinking the root
// module before image serialization.
func (m *Module) ClearImplicitImports() {
	m.lock.Lock()
	defer m.lock.Unlock()

	var drop []symbol.Name

	m.table.Range(func(n symbol.Name, b *Binding) {
		if !b.IsSelfOwned() && !b.Imported() {
			drop = append(drop, n)
		}
	})

	for _, n := range drop {
		m.table.Delete(n)
	}
}

// deferredInit is the process-wide queue consulted by InitRestoredModules
// in image-generation mode.
var deferredInit struct {
	mu      sync.Mutex
	modules []*Module
}

// InitRestoredModules consumes modules post-load: in normal mode it runs
// each module's initializer immediately; in image-generation mode it
// enqueues them on the process-wide deferred-init list instead.
func InitRestoredModules(modules []*Module, imageGeneration bool, initFn func(*Module)) {
	if !imageGeneration {
		for _, m := range modules {
			if initFn != nil {
				initFn(m)
			}
		}

		return
	}

	deferredInit.mu.Lock()
	defer deferredInit.mu.Unlock()

	deferredInit.modules = append(deferredInit.modules, modules...)
}

// DrainDeferredInits runs and clears the process-wide deferred-init queue,
// used once image generation completes.
func DrainDeferredInits(initFn func(*Module)) {
	deferredInit.mu.Lock()
	pending := deferredInit.modules
	deferredInit.modules = nil
	deferredInit.mu.Unlock()

	for _, m := range pending {
		if initFn != nil {
			initFn(m)
		}
	}
}
