// Package module implements the module and global-binding subsystem of a
// small dynamic-language runtime: modules as named namespaces of bindings,
// resolved through an ordered, cycle-tolerant `using` search, with an
// explicit import engine and an assignment gate enforcing type and
// constness invariants.
package module

import (
	"sync"
	"sync/atomic"

	uatomic "go.uber.org/atomic"

	"github.com/glyphlang/glyph/internal/clock"
	"github.com/glyphlang/glyph/internal/diag"
	"github.com/glyphlang/glyph/internal/gc"
	"github.com/glyphlang/glyph/internal/symbol"
	"github.com/glyphlang/glyph/module/table"
)

// BuildID is the 128-bit module identity described by the data model: the
// low half is derived from a monotonic clock (never zero); the high half
// starts as all-ones, marking "not yet finalized" by serialization.
type BuildID struct {
	Lo uint64
	Hi uint64
}

// unfinalizedHi is the "not yet finalized" marker for BuildID.Hi.
const unfinalizedHi = ^uint64(0)

// Options configures the process-wide handles the module subsystem shares:
// the language core module (installed as a default `using` edge by new
// top-level modules), the root module (the deprecation-warning boundary),
// the interner, a diagnostic sink and a GC collaborator.
type Options struct {
	Interner   *symbol.Interner
	Core       *Module
	Root       *Module
	Diagnostic *diag.Sink
	Collector  gc.Collector
	// StdImports, when set, is invoked by NewTopLevelModule to install
	// whatever a host considers "standard" default imports — the
	// original's `jl_add_standard_imports` hook, deliberately left to
	// the caller rather than hard-coded here.
	StdImports func(*Module)
}

func (o *Options) collector() gc.Collector {
	if o == nil || o.Collector == nil {
		return gc.NopCollector{}
	}

	return o.Collector
}

func (o *Options) diagnostic() *diag.Sink {
	if o == nil || o.Diagnostic == nil {
		return diag.NewSink(diag.DepOff)
	}

	return o.Diagnostic
}

// Module is the per-namespace record: a name, a parent link, a binding
// table, an ordered `using` list, scalar inheritable options, and the
// mutex serializing mutation of the table and the using list.
type Module struct {
	name   symbol.Name
	parent *Module

	opts *Options

	lock    sync.Mutex
	table   *table.Table[*Binding]
	usings  []*Module
	usingOf map[*Module]bool

	counter  uatomic.Uint32
	buildID  BuildID
	uuid     [16]byte
	istopmod atomic.Bool

	// -1 means "inherit from parent".
	optlevel     atomic.Int32
	compile      atomic.Int32
	infer        atomic.Int32
	maxMethods   atomic.Int32
	nospecialize atomic.Int32

	// PrimaryWorld is carried for forward compatibility with the
	// method-table/world-age subsystem, which is out of scope here; no
	// operation in this package reads or writes it beyond
	// zero-initializing it.
	PrimaryWorld uint64
}

// NewModule constructs a module named name with the given parent (pass nil
// for a root). When installDefaults is true and opts.Core is set, the new
// module gets a default `using core` edge and its own name is published as
// a self-constant; its name is also exported, matching the original
// constructor.
func NewModule(opts *Options, name string, parent *Module, installDefaults bool) *Module {
	n := opts.Interner.Intern(name)

	m := &Module{
		name:   n,
		parent: parent,
		opts:   opts,
		table:  table.New[*Binding](),
	}
	m.counter.Store(1)
	m.optlevel.Store(-1)
	m.compile.Store(-1)
	m.infer.Store(-1)
	m.maxMethods.Store(-1)
	m.nospecialize.Store(-1)

	if parent == nil {
		m.parent = m
	}

	lo := clock.NextBuildIDLo()
	m.buildID = BuildID{Lo: lo, Hi: unfinalizedHi}

	if installDefaults && opts != nil && opts.Core != nil && opts.Core != m {
		m.moduleUsingLocked(opts.Core)
	}

	if installDefaults {
		self := newBinding(n)
		self.claimOwnership()
		v := NewValue(m, nil)
		self.value.Store(&v)
		self.constp.Store(true)
		self.exportp.Store(true)
		m.table.Insert(n, self)
	}

	return m
}

// NewTopLevelModule mirrors `jl_f_new_module`'s "parent module is a lie":
// it takes no parent argument, and the constructed module's parent is
// always opts.Root (the module is its own parent when opts.Root is nil).
// Callers needing a genuine parent link use NewModule directly. When
// installStd is true, opts.StdImports (if set) runs after construction.
func NewTopLevelModule(opts *Options, name string, installDefaults, installStd bool) *Module {
	root := opts.Root
	m := NewModule(opts, name, root, installDefaults)

	if installStd && opts.StdImports != nil {
		opts.StdImports(m)
	}

	return m
}

// Name returns the module's interned name.
func (m *Module) Name() symbol.Name { return m.name }

// Parent returns the module's parent (itself, for a root).
func (m *Module) Parent() *Module { return m.parent }

// BuildID returns the module's 128-bit identity.
func (m *Module) BuildID() BuildID { return m.buildID }

// FinalizeBuildID sets the high half of the build id, called once a
// serialization image assigns it a concrete value.
func (m *Module) FinalizeBuildID(hi uint64) {
	m.buildID.Hi = hi
}

// UUID returns the module's externally assigned identity.
func (m *Module) UUID() [16]byte { return m.uuid }

// SetUUID assigns the module's externally assigned identity.
func (m *Module) SetUUID(id [16]byte) { m.uuid = id }

// IsTopMod reports whether this module has been marked a top-level module.
func (m *Module) IsTopMod() bool { return m.istopmod.Load() }

// SetIsTopMod marks or unmarks this module as a top-level module.
func (m *Module) SetIsTopMod(v bool) { m.istopmod.Store(v) }

// NextCounter atomically increments and returns the module's symbol
// uniquification counter.
func (m *Module) NextCounter() uint32 { return m.counter.Add(1) }

// IsSubmodule reports whether c is p itself, a direct child of p, or
// transitively descended from p by walking parent links.
func IsSubmodule(c, p *Module) bool {
	for {
		if c == p {
			return true
		}

		if c.parent == c {
			return false
		}

		c = c.parent
	}
}
