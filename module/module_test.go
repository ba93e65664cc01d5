package module

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/glyphlang/glyph/internal/assert"
	"github.com/glyphlang/glyph/internal/symbol"
)

func newTestOptions() *Options {
	return &Options{Interner: symbol.NewInterner()}
}

func TestModule_GetBinding_OwnerIsSelf(t *testing.T) {
	opts := newTestOptions()
	m := NewModule(opts, "M", nil, false)

	assert.Equal(t, error(nil), m.SetConst("x", NewValue(1, nil)))

	b := m.GetBinding("x")
	assert.True(t, b != nil, "expected binding")
	assert.True(t, b.IsSelfOwned(), "resolved binding must be self-owned")
}

func TestModule_GetBinding_StableAcrossCalls(t *testing.T) {
	opts := newTestOptions()
	m := NewModule(opts, "M", nil, false)
	assert.Equal(t, error(nil), m.SetConst("x", NewValue(1, nil)))

	b1 := m.GetBinding("x")
	b2 := m.GetBinding("x")
	assert.True(t, b1 == b2, "two resolutions without mutation must return the identical binding")
}

func TestModule_Using_Idempotent(t *testing.T) {
	opts := newTestOptions()
	a := NewModule(opts, "A", nil, false)
	u := NewModule(opts, "U", nil, false)

	u.Using(a)
	u.Using(a)

	assert.Equal(t, 1, len(u.Usings()))
}

func TestModule_DeclareConstant_Monotonic(t *testing.T) {
	opts := newTestOptions()
	m := NewModule(opts, "M", nil, false)

	b, err := m.GetBindingWR("x", true)
	assert.Equal(t, error(nil), err)
	assert.Equal(t, error(nil), m.DeclareConstant(b, "x"))
	assert.True(t, b.Constp(), "expected constp")
	assert.Equal(t, error(nil), m.DeclareConstant(b, "x"))
	assert.True(t, b.Constp(), "constp must remain true")
}

func TestModule_UsingSearch_LastAddedWins(t *testing.T) {
	opts := newTestOptions()
	a := NewModule(opts, "A", nil, false)
	bMod := NewModule(opts, "B", nil, false)
	u := NewModule(opts, "U", nil, false)

	assert.Equal(t, error(nil), a.SetConst("x", NewValue(1, nil)))
	a.Export("x")

	u.Using(a)
	assert.Equal(t, 1, u.GetBinding("x").Value().Data().(int))

	// Only B exports v, so U.v resolves to B.v.
	assert.Equal(t, error(nil), bMod.SetConst("v", NewValue(2, nil)))
	bMod.Export("v")
	u.Using(bMod)

	got := u.GetBinding("v")
	assert.True(t, got != nil, "expected v to resolve via B")
	assert.Equal(t, 2, got.Value().Data().(int))
}

func TestModule_UsingSearch_Ambiguous(t *testing.T) {
	opts := newTestOptions()
	a := NewModule(opts, "A", nil, false)
	bMod := NewModule(opts, "B", nil, false)
	u := NewModule(opts, "U", nil, false)

	assert.Equal(t, error(nil), a.SetConst("x", NewValue(1, nil)))
	a.Export("x")
	assert.Equal(t, error(nil), bMod.SetConst("x", NewValue(2, nil)))
	bMod.Export("x")

	u.Using(a)
	u.Using(bMod)

	var buf bytes.Buffer
	prevOut := log.StandardLogger().Out
	log.SetOutput(&buf)
	defer log.SetOutput(prevOut)

	assert.True(t, u.GetBinding("x") == nil, "ambiguous lookup must return nil")
	assert.Equal(t, 1, strings.Count(buf.String(), "is ambiguous"))

	buf.Reset()

	// Second lookup must be silent (materialized ambiguity guard), still
	// nil and with no repeat warning.
	assert.True(t, u.GetBinding("x") == nil, "second ambiguous lookup must still return nil")
	assert.Equal(t, 0, strings.Count(buf.String(), "is ambiguous"))
}

func TestModule_ReExport_Collapses(t *testing.T) {
	opts := newTestOptions()
	a := NewModule(opts, "A", nil, false)

	assert.Equal(t, error(nil), a.SetConst("x", NewValue(42, nil)))
	a.Export("x")

	bMod := NewModule(opts, "B", nil, false)
	bMod.Using(a)
	bMod.Import(a, "x", "x", true)
	bMod.Export("x")

	u := NewModule(opts, "U", nil, false)
	u.Using(a)
	u.Using(bMod)

	got := u.GetBinding("x")
	assert.True(t, got != nil, "expected x to resolve")
	assert.Equal(t, 42, got.Value().Data().(int))
}

func TestModule_CycleTolerance(t *testing.T) {
	opts := newTestOptions()
	a := NewModule(opts, "A", nil, false)
	bMod := NewModule(opts, "B", nil, false)

	a.Using(bMod)
	bMod.Using(a)

	done := make(chan *Binding, 1)
	go func() { done <- a.GetBinding("nonexistent") }()

	select {
	case got := <-done:
		assert.True(t, got == nil, "expected nil resolution through a using cycle")
	case <-time.After(2 * time.Second):
		t.Fatal("resolution did not terminate")
	}
}

func TestModule_ClearImplicitImports_PreservesOwnedAndImported(t *testing.T) {
	opts := newTestOptions()
	a := NewModule(opts, "A", nil, false)
	assert.Equal(t, error(nil), a.SetConst("x", NewValue(1, nil)))
	a.Export("x")

	u := NewModule(opts, "U", nil, false)
	assert.Equal(t, error(nil), u.SetConst("own", NewValue(2, nil)))
	u.Import(a, "x", "x", true)
	u.Using(a)
	// Trigger implicit materialization of a different name via using.
	assert.Equal(t, error(nil), a.SetConst("y", NewValue(3, nil)))
	a.Export("y")
	u.GetBinding("y")

	u.ClearImplicitImports()

	assert.True(t, u.BindingResolvedP("own"), "self-owned cell must survive")
	assert.True(t, u.IsImported("x"), "explicitly imported cell must survive")
	assert.True(t, u.GetBindingIfBound("y") == nil, "implicitly materialized cell must be cleared")
}

func TestModule_IsSubmodule_ReflexiveTransitive(t *testing.T) {
	opts := newTestOptions()
	root := NewModule(opts, "Root", nil, false)
	child := NewModule(opts, "Child", root, false)
	grandchild := NewModule(opts, "Grandchild", child, false)

	assert.True(t, IsSubmodule(root, root), "reflexive")
	assert.True(t, IsSubmodule(grandchild, root), "transitive")
	assert.True(t, !IsSubmodule(root, grandchild), "must not hold in reverse")
}

func TestModule_BuildID_NeverZero(t *testing.T) {
	opts := newTestOptions()

	var wg sync.WaitGroup

	ids := make([]uint64, 64)

	for i := range ids {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			m := NewModule(opts, "M", nil, false)
			ids[i] = m.BuildID().Lo
		}(i)
	}

	wg.Wait()

	seen := make(map[uint64]bool, len(ids))

	for _, id := range ids {
		assert.True(t, id != 0, "build_id.lo must never be zero")
		assert.True(t, !seen[id], "build_id.lo must be unique across modules built concurrently")
		seen[id] = true
	}
}

func TestModule_ImportThenAssign_Fails(t *testing.T) {
	opts := newTestOptions()
	f := NewModule(opts, "F", nil, false)
	assert.Equal(t, error(nil), f.SetConst("v", NewValue(1, nil)))
	f.Export("v")

	u := NewModule(opts, "U", nil, false)
	u.Import(f, "v", "v", true)

	b, err := u.GetBindingWR("v", true)
	assert.True(t, b == nil, "expected no binding returned on a failed assignment resolution")
	assert.True(t, err != nil, "expected CannotAssignImported")
	assert.True(t, IsKind(err, CannotAssignImported), "expected CannotAssignImported kind")
}

func TestModule_OptionInheritance(t *testing.T) {
	opts := newTestOptions()
	p := NewModule(opts, "P", nil, false)
	p.SetOptLevel(3)

	c := NewModule(opts, "C", p, false)
	assert.Equal(t, int32(3), c.OptLevel())

	c.SetOptLevel(1)
	assert.Equal(t, int32(1), c.OptLevel())

	c.SetOptLevel(-1)
	assert.Equal(t, int32(3), c.OptLevel())
}
