package module

import (
	"testing"

	"github.com/glyphlang/glyph/internal/assert"
	"github.com/glyphlang/glyph/internal/diag"
	"github.com/glyphlang/glyph/internal/symbol"
)

func newDepModeOptions(mode diag.DepMode) *Options {
	return &Options{Interner: symbol.NewInterner(), Diagnostic: diag.NewSink(mode)}
}

func TestImport_DeprecatedRenamed_DepError_Raises(t *testing.T) {
	opts := newDepModeOptions(diag.DepError)
	f := NewModule(opts, "F", nil, false)
	assert.Equal(t, error(nil), f.SetConst("old", NewValue(1, nil)))
	f.Export("old")
	f.DeprecateBinding("old", 1)

	u := NewModule(opts, "U", nil, false)

	err := u.Import(f, "old", "old", true)
	assert.True(t, err != nil, "expected DeprecatedBindingUse")
	assert.True(t, IsKind(err, DeprecatedBindingUse), "expected DeprecatedBindingUse kind")
}

func TestImport_DeprecatedMoved_NeverRaises(t *testing.T) {
	opts := newDepModeOptions(diag.DepError)
	f := NewModule(opts, "F", nil, false)
	assert.Equal(t, error(nil), f.SetConst("old", NewValue(1, nil)))
	f.Export("old")
	f.DeprecateBinding("old", 2)

	u := NewModule(opts, "U", nil, false)

	assert.Equal(t, error(nil), u.Import(f, "old", "old", true))
}

func TestImport_Deprecated_DepWarn_DoesNotRaise(t *testing.T) {
	opts := newDepModeOptions(diag.DepWarn)
	f := NewModule(opts, "F", nil, false)
	assert.Equal(t, error(nil), f.SetConst("old", NewValue(1, nil)))
	f.Export("old")
	f.DeprecateBinding("old", 1)

	u := NewModule(opts, "U", nil, false)

	assert.Equal(t, error(nil), u.Import(f, "old", "old", true))
}

func TestGetBindingOrError_DeprecatedRenamed_DepError_Raises(t *testing.T) {
	opts := newDepModeOptions(diag.DepError)
	m := NewModule(opts, "M", nil, false)
	assert.Equal(t, error(nil), m.SetConst("old", NewValue(1, nil)))
	m.DeprecateBinding("old", 1)

	b, err := m.GetBindingOrError("old")
	assert.True(t, b == nil, "expected no binding returned when deprecation raises")
	assert.True(t, err != nil, "expected DeprecatedBindingUse")
	assert.True(t, IsKind(err, DeprecatedBindingUse), "expected DeprecatedBindingUse kind")
}

func TestGetBindingOrError_RootExempt(t *testing.T) {
	opts := newDepModeOptions(diag.DepError)
	root := NewModule(opts, "Root", nil, false)
	opts.Root = root

	assert.Equal(t, error(nil), root.SetConst("old", NewValue(1, nil)))
	root.DeprecateBinding("old", 1)

	b, err := root.GetBindingOrError("old")
	assert.True(t, b != nil, "root must be exempt from its own deprecation notices")
	assert.Equal(t, error(nil), err)
}
