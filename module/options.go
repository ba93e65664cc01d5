package module

// Each scalar option getter walks the parent chain until it finds a
// non-negative value or reaches a root (parent == self) or the configured
// core module, matching the design's inheritance rule.

// OptLevel returns m's effective optimization level.
func (m *Module) OptLevel() int32 { return inherit(m, (*Module).rawOptLevel) }

// SetOptLevel sets m's own optlevel field (-1 means "inherit").
func (m *Module) SetOptLevel(v int32) { m.optlevel.Store(v) }

func (m *Module) rawOptLevel() int32 { return m.optlevel.Load() }

// Compile returns m's effective compile setting.
func (m *Module) Compile() int32 { return inherit(m, (*Module).rawCompile) }

// SetCompile sets m's own compile field.
func (m *Module) SetCompile(v int32) { m.compile.Store(v) }

func (m *Module) rawCompile() int32 { return m.compile.Load() }

// Infer returns m's effective infer setting.
func (m *Module) Infer() int32 { return inherit(m, (*Module).rawInfer) }

// SetInfer sets m's own infer field. Setting it to zero also forces
// nospecialize to -1 on the same module, the cross-field invariant the
// design calls out.
func (m *Module) SetInfer(v int32) {
	m.infer.Store(v)

	if v == 0 {
		m.nospecialize.Store(-1)
	}
}

func (m *Module) rawInfer() int32 { return m.infer.Load() }

// MaxMethods returns m's effective max-methods setting.
func (m *Module) MaxMethods() int32 { return inherit(m, (*Module).rawMaxMethods) }

// SetMaxMethods sets m's own max_methods field.
func (m *Module) SetMaxMethods(v int32) { m.maxMethods.Store(v) }

func (m *Module) rawMaxMethods() int32 { return m.maxMethods.Load() }

// NoSpecialize returns m's own nospecialize field directly (it is not
// itself inherited; SetInfer(0) is what forces it, per the cross-field
// invariant).
func (m *Module) NoSpecialize() int32 { return m.nospecialize.Load() }

// SetNoSpecialize sets m's own nospecialize field.
func (m *Module) SetNoSpecialize(v int32) { m.nospecialize.Store(v) }

func inherit(m *Module, raw func(*Module) int32) int32 {
	for {
		if v := raw(m); v >= 0 {
			return v
		}

		if m.parent == m || (m.opts != nil && m.opts.Core == m) {
			return -1
		}

		m = m.parent
	}
}
