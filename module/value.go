package module

import (
	"reflect"

	"github.com/glyphlang/glyph/internal/util"
)

// Type is the nominal-subtype collaborator the assignment gate consults.
// The module subsystem never inspects a host type beyond asking whether a
// candidate value is acceptable for a declared type; everything else about
// the host's type lattice is out of scope.
type Type interface {
	// Name returns a printable name, used in diagnostics.
	Name() string
	// Accepts reports whether v is a legal value for a binding declared
	// with this type.
	Accepts(v Value) bool
}

// topType is the type every binding without an explicit declaration is
// promoted to: it accepts anything, matching "when unset, an assignment
// promotes it to the top type."
type topType struct{}

func (topType) Name() string       { return "Any" }
func (topType) Accepts(Value) bool { return true }

// Top is the singleton top type.
var Top Type = topType{}

// Value is an opaque reference to a host-language object, plus the two
// facts the module subsystem is allowed to ask about it: its declared
// type, and whether it denotes a type or a module (used only for
// diagnostics and constant-redefinition rules, never interpreted further).
type Value struct {
	data util.Option[any]
	typ  Type
}

// Unset returns the "no value" sentinel.
func Unset() Value {
	return Value{data: util.None[any]()}
}

// NewValue wraps data with its type as a bound Value.
func NewValue(data any, typ Type) Value {
	return Value{data: util.Some[any](data), typ: typ}
}

// IsBound reports whether this Value actually holds something, as opposed
// to being the Unset sentinel.
func (v Value) IsBound() bool {
	return v.data.HasValue()
}

// Data returns the underlying host object. Callers must check IsBound
// first; an unbound Value's Data is nil.
func (v Value) Data() any {
	if v.data.IsEmpty() {
		return nil
	}

	return v.data.Unwrap()
}

// Type returns the value's runtime type, or nil if unbound.
func (v Value) Type() Type {
	return v.typ
}

// IsTypeValue reports whether this value itself denotes a type (as opposed
// to an instance of one) — relevant to constant-redefinition and
// deprecation-message rules, which special-case values that are types or
// modules.
func (v Value) IsTypeValue() bool {
	if v.data.IsEmpty() {
		return false
	}

	_, ok := v.data.Unwrap().(Type)

	return ok
}

// IsModuleValue reports whether this value is itself a *Module.
func (v Value) IsModuleValue() bool {
	if v.data.IsEmpty() {
		return false
	}

	_, ok := v.data.Unwrap().(*Module)

	return ok
}

// String renders a structural representation of the value, used when a
// deprecation message must fall back to printing a non-string dep-message
// binding's content.
func (v Value) String() string {
	if v.data.IsEmpty() {
		return "#unset"
	}

	data := v.data.Unwrap()

	if m, ok := data.(*Module); ok {
		return m.Name().Text()
	}

	if t, ok := data.(Type); ok {
		return t.Name()
	}

	return stringify(data)
}

func stringify(data any) string {
	if s, ok := data.(interface{ String() string }); ok {
		return s.String()
	}

	return reflectString(data)
}

func reflectString(data any) string {
	return reflect.TypeOf(data).String()
}

// Equal implements the "structurally equal" test used by idempotent
// constant redefinition: same boundness, and (if bound) deeply equal data.
func Equal(a, b Value) bool {
	if a.data.HasValue() != b.data.HasValue() {
		return false
	}

	if a.data.IsEmpty() {
		return true
	}

	return reflect.DeepEqual(a.data.Unwrap(), b.data.Unwrap())
}
