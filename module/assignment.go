package module

// CheckedAssignment implements the assignment gate's core operation: store
// rhs into b, which must be the canonical binding for M.v (callers obtain
// it via GetBindingWR). Publishes the top type on first assignment,
// enforces the declared-type subtype check, and applies the
// constant-redefinition rules before storing and invoking the GC write
// barrier.
func (m *Module) CheckedAssignment(b *Binding, name string, rhs Value) error {
	if b.declaredType.Load() == nil {
		top := Top
		b.declaredType.CompareAndSwap(nil, &top)
	} else if dt := b.DeclaredType(); dt != nil && !dt.Accepts(rhs) {
		return newError(TypeMismatch, m.name.Text(), name,
			"value is not a subtype of the declared type")
	}

	if b.Constp() {
		if b.value.CompareAndSwap(nil, valuePtr(rhs)) {
			m.opts.collector().WriteBarrier(m, rhs.Data())
			return nil
		}

		cur := b.value.Load()

		if cur != nil && Equal(*cur, rhs) {
			// Idempotent redefinition: silently succeed.
			return nil
		}

		if cur != nil && cur.IsBound() && (rhs.IsTypeValue() || cur.IsTypeValue() || cur.IsModuleValue() || rhs.IsModuleValue()) {
			return newError(ConstantRedefinition, m.name.Text(), name,
				"cannot redefine a constant bound to a type or module")
		}

		if cur != nil && cur.IsBound() && cur.typ != nil && rhs.typ != nil && cur.typ.Name() != rhs.typ.Name() {
			return newError(ConstantRedefinition, m.name.Text(), name,
				"cannot redefine a constant with a value of a different type")
		}

		m.opts.diagnostic().RedefinitionWarning(m.name.Text(), name)
	}

	v := rhs
	b.value.Store(&v)
	m.opts.collector().WriteBarrier(m, rhs.Data())

	return nil
}

func valuePtr(v Value) *Value {
	return &v
}

// DeclareConstant marks b constant. Legal only if b is self-owned and
// either unvalued or already constant; otherwise fails with
// ConstantRedeclaration.
func (m *Module) DeclareConstant(b *Binding, name string) error {
	if !b.IsSelfOwned() {
		return newError(ConstantRedeclaration, m.name.Text(), name,
			"cannot declare a non-self-owned binding constant")
	}

	if b.Constp() {
		return nil
	}

	if b.Value().IsBound() {
		return newError(ConstantRedeclaration, m.name.Text(), name,
			"cannot declare an already-valued binding constant")
	}

	b.constp.Store(true)

	return nil
}

// SetConst is the bootstrap convenience combining GetBindingWR(alloc=true)
// with declaration and an initial store. Races are tolerated by failing
// with ConstantRedefinition rather than deadlocking or corrupting state.
func (m *Module) SetConst(name string, val Value) error {
	b, err := m.GetBindingWR(name, true)
	if err != nil {
		return err
	}

	if !b.Constp() {
		if err := m.DeclareConstant(b, name); err != nil {
			if !b.Constp() {
				return err
			}
		}
	}

	return m.CheckedAssignment(b, name, val)
}
