package module

import (
	"sync/atomic"

	uatomic "go.uber.org/atomic"

	"github.com/glyphlang/glyph/internal/symbol"
)

// depState is the three-valued deprecation marker: not deprecated, renamed
// (prints a message), or moved (never warns, per the original's asymmetry
// preserved by SPEC_FULL).
type depState = uint32

const (
	depNone    depState = 0
	depRenamed depState = 1
	depMoved   depState = 2
)

// GlobalRef is the small (module, name, binding) tuple handed to the
// evaluator so compiled code can re-resolve a binding after an owner
// change without a hash lookup.
type GlobalRef struct {
	Module  *Module
	Name    symbol.Name
	Binding *Binding
}

// Binding is the per-name cell described by the data model: a mutable
// record whose scalar fields are accessed atomically, with `owner` and the
// flag fields additionally serialized by the owning module's lock for
// multi-step mutations.
//
// value, declaredType and owner are boxed behind stdlib atomic.Pointer so
// that checked_assignment and set_const can publish with a true
// compare-and-swap; go.uber.org/atomic's Value type does not expose a safe
// CAS over an arbitrary boxed struct, so this one corner is stdlib — see
// DESIGN.md.
type Binding struct {
	name symbol.Name

	value        atomic.Pointer[Value]
	declaredType atomic.Pointer[Type]
	owner        atomic.Pointer[Binding]
	globalref    atomic.Pointer[GlobalRef]

	constp     uatomic.Bool
	exportp    uatomic.Bool
	imported   uatomic.Bool
	deprecated uatomic.Uint32
	ambiguous  uatomic.Bool
}

// newBinding allocates a fresh, unresolved binding cell for name, owned by
// nobody yet (owner == nil means "unresolved": the cell exists because the
// name was exported or reserved, but no definition has been found). The
// value pointer is left nil, representing "unset" so that checked
// assignment can compare-and-swap it from nil to a first value.
func newBinding(name symbol.Name) *Binding {
	return &Binding{name: name}
}

// Name returns the interned name this cell is filed under.
func (b *Binding) Name() symbol.Name {
	return b.name
}

// Value loads the binding's current value with relaxed-acquire semantics.
func (b *Binding) Value() Value {
	if v := b.value.Load(); v != nil {
		return *v
	}

	return Unset()
}

// DeclaredType loads the binding's declared type, or nil if never
// published.
func (b *Binding) DeclaredType() Type {
	if t := b.declaredType.Load(); t != nil {
		return *t
	}

	return nil
}

// Owner returns the binding this cell currently points at (b itself for a
// canonical cell, a foreign binding for an alias), or nil if the cell is
// still unresolved (see IsPlaceholder).
func (b *Binding) Owner() *Binding {
	if o := b.owner.Load(); o != nil {
		return o
	}

	return nil
}

// IsSelfOwned reports whether this cell is canonical: owner points back at
// b itself. A freshly-materialized export placeholder (owner == nil, the
// "unresolved" state) is not self-owned until assignment or import claims
// it.
func (b *Binding) IsSelfOwned() bool {
	return b.owner.Load() == b
}

// IsPlaceholder reports whether this cell has no owner at all yet — the
// "unresolved" state: it exists only because the name was exported or
// reserved, with no definition found.
func (b *Binding) IsPlaceholder() bool {
	return b.owner.Load() == nil
}

// IsAmbiguityGuard reports whether this placeholder cell was materialized
// to record a previously-detected ambiguous using-search resolution, as
// opposed to an ordinary export/reservation placeholder. A guard cell
// short-circuits future resolution of the same name with a silent nil,
// instead of re-running the using search and re-warning.
func (b *Binding) IsAmbiguityGuard() bool {
	return b.ambiguous.Load()
}

// markAmbiguityGuard converts this placeholder into an ambiguity guard.
// Must be called under the owning module's lock, on a freshly-materialized
// placeholder cell.
func (b *Binding) markAmbiguityGuard() {
	b.ambiguous.Store(true)
}

// Constp reports whether this binding is declared constant.
func (b *Binding) Constp() bool { return b.constp.Load() }

// Exportp reports whether this binding is marked for export.
func (b *Binding) Exportp() bool { return b.exportp.Load() }

// Imported reports whether this cell was produced by an explicit import.
func (b *Binding) Imported() bool { return b.imported.Load() }

// Deprecated returns 0 (not deprecated), 1 (renamed) or 2 (moved).
func (b *Binding) Deprecated() uint32 { return b.deprecated.Load() }

// GlobalRefOf returns this binding's back-reference, materializing one on
// first use.
func (b *Binding) GlobalRefOf(mod *Module) *GlobalRef {
	if g := b.globalref.Load(); g != nil {
		return g
	}

	g := &GlobalRef{Module: mod, Name: b.name, Binding: b}
	if b.globalref.CompareAndSwap(nil, g) {
		return g
	}

	return b.globalref.Load()
}

// claimOwnership sets owner = self, used when assignment claims a
// placeholder cell. Must be called under the owning module's lock.
func (b *Binding) claimOwnership() {
	b.owner.Store(b)
}

// setAlias points this cell at canonical, used by the import engine. Must
// be called under the owning module's lock. canonical must itself be
// self-owned (owner chains are one hop, invariant 2).
func (b *Binding) setAlias(canonical *Binding) {
	b.owner.Store(canonical)
}

// resolveCanonical walks at most one owner hop to find the binding that
// actually holds the value, per "owner chains are one hop".
func (b *Binding) resolveCanonical() *Binding {
	if o := b.owner.Load(); o != nil && o != b {
		return o
	}

	return b
}

// eqBindings holds when a and b are the same binding, share an owner, or
// are both constant with structurally equal values — the rule that
// collapses genuine re-exports so they are not reported as ambiguous.
func eqBindings(a, b *Binding) bool {
	if a == b {
		return true
	}

	if a == nil || b == nil {
		return false
	}

	if a.resolveCanonical() == b.resolveCanonical() {
		return true
	}

	if a.Constp() && b.Constp() {
		av, bv := a.Value(), b.Value()

		return av.IsBound() && bv.IsBound() && Equal(av, bv)
	}

	return false
}
