package module

import "testing"

func TestGetBindingForMethodDef_ForeignNonImportedNonType(t *testing.T) {
	opts := newTestOptions()
	f := NewModule(opts, "F", nil, false)

	if err := f.SetConst("widget", NewValue(42, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.Export("widget")

	u := NewModule(opts, "U", nil, false)
	u.Using(f)

	// A plain resolve materializes a local alias without the imported flag.
	if b := u.GetBinding("widget"); b == nil {
		t.Fatal("expected using-search to resolve widget")
	}

	_, err := u.GetBindingForMethodDef("widget")
	if err == nil || !IsKind(err, MustExplicitlyImport) {
		t.Fatalf("expected MustExplicitlyImport extending a foreign, non-imported, non-type owner, got %v", err)
	}
}

func TestGetBindingForMethodDef_ExplicitImportPermitted(t *testing.T) {
	opts := newTestOptions()
	f := NewModule(opts, "F", nil, false)

	if err := f.SetConst("widget", NewValue(42, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.Export("widget")

	u := NewModule(opts, "U", nil, false)
	u.Import(f, "widget", "widget", true)

	if _, err := u.GetBindingForMethodDef("widget"); err != nil {
		t.Fatalf("expected explicit import to permit method-def extension, got %v", err)
	}
}

func TestGetBindingForMethodDef_ConstructorExtensionImplicitlyPermitted(t *testing.T) {
	opts := newTestOptions()
	f := NewModule(opts, "F", nil, false)

	if err := f.SetConst("Widget", NewValue(intType{"Widget"}, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.Export("Widget")

	u := NewModule(opts, "U", nil, false)
	u.Using(f)

	if b := u.GetBinding("Widget"); b == nil {
		t.Fatal("expected using-search to resolve Widget")
	}

	// Not explicitly imported, but the owner is a constant bound to a
	// type, so constructor-extension is permitted implicitly.
	if _, err := u.GetBindingForMethodDef("Widget"); err != nil {
		t.Fatalf("expected type-constant owner to permit implicit extension, got %v", err)
	}
}

func TestGetBindingForMethodDef_FreshNameClaimsOwnership(t *testing.T) {
	opts := newTestOptions()
	m := NewModule(opts, "M", nil, false)

	b, err := m.GetBindingForMethodDef("fn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !b.IsSelfOwned() {
		t.Error("expected a fresh name to claim self-ownership")
	}
}
