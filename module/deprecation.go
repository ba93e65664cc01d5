package module

import (
	"fmt"

	"github.com/glyphlang/glyph/internal/diag"
	"github.com/glyphlang/glyph/internal/symbol"
)

// DeprecateBinding marks the binding for sym in m deprecated with the given
// flag: 1 (renamed, warns) or 2 (moved, silent per the original's
// asymmetry).
func (m *Module) DeprecateBinding(sym string, flag uint32) {
	n := m.opts.Interner.Intern(sym)

	m.lock.Lock()
	defer m.lock.Unlock()

	b, live := m.table.Get(n)
	if !live {
		return
	}

	b.deprecated.Store(flag)
}

// IsBindingDeprecated reports whether sym's binding in m is deprecated.
func (m *Module) IsBindingDeprecated(sym string) bool {
	b := m.GetBindingIfBound(sym)
	return b != nil && b.Deprecated() != depNone
}

// checkDeprecatedUse logs (and, in DepError mode, raises) a deprecation
// notice for using's use of owner's binding b under sym, following the
// original's asymmetry: only a "renamed" deprecation (flag 1) ever warns
// or raises, a "moved" one (flag 2) is always silent. using is the module
// making the use — the module passed to diag.Sink.Deprecated and exempted
// from the notice when it is Root or Core, matching both of the original's
// deprecation-warning call sites, which key the check off the querying
// module rather than the binding's defining module.
func (using *Module) checkDeprecatedUse(owner *Module, b *Binding, sym symbol.Name) error {
	dep := b.Deprecated()
	if dep == depNone || dep == depMoved {
		return nil
	}

	if !b.Value().IsBound() {
		return nil
	}

	if using == using.opts.Root || using == using.opts.Core {
		return nil
	}

	sink := using.opts.diagnostic()
	if sink.Mode() == diag.DepOff {
		return nil
	}

	msg := depMessage(using.opts, owner, b, sym)
	if !sink.Deprecated(using.name.Text(), sym.Text(), msg) {
		return nil
	}

	return newError(DeprecatedBindingUse, using.name.Text(), sym.Text(),
		fmt.Sprintf("use of deprecated variable: %s.%s", owner.name.Text(), sym.Text()))
}

// depMessage composes the message printed (or raised) alongside a
// deprecation notice: a custom `_dep_message_<name>` binding in owner if
// one exists, else a message synthesized from the deprecated binding's
// value.
func depMessage(opts *Options, owner *Module, b *Binding, sym symbol.Name) string {
	if owner != nil {
		depName := symbol.DepMessageName(opts.Interner, sym)

		owner.lock.Lock()
		custom, live := owner.table.Get(depName)
		owner.lock.Unlock()

		if live {
			v := custom.Value()
			if v.IsBound() {
				if s, ok := v.Data().(string); ok {
					return ": " + s
				}

				return ": " + v.String()
			}
		}
	}

	v := b.Value()
	if !v.IsBound() {
		return ""
	}

	if v.IsModuleValue() || v.IsTypeValue() {
		return "; use " + v.String() + " instead."
	}

	return ""
}
