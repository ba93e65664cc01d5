package symbol

import "testing"

func TestInterner_SameTextSameName(t *testing.T) {
	in := NewInterner()

	a := in.Intern("foo")
	b := in.Intern("foo")

	if a != b {
		t.Fatal("expected interning the same text twice to return the identical Name")
	}

	if a.Hash() != b.Hash() {
		t.Error("expected identical names to share a hash")
	}
}

func TestInterner_DistinctText(t *testing.T) {
	in := NewInterner()

	a := in.Intern("foo")
	b := in.Intern("bar")

	if a == b {
		t.Fatal("expected distinct text to intern to distinct names")
	}
}

func TestName_IsHidden(t *testing.T) {
	in := NewInterner()

	if !in.Intern("#generated").IsHidden() {
		t.Error("expected #-prefixed name to be hidden")
	}

	if in.Intern("visible").IsHidden() {
		t.Error("expected plain name to not be hidden")
	}
}

func TestDepMessageName(t *testing.T) {
	in := NewInterner()
	n := in.Intern("oldfn")

	got := DepMessageName(in, n)
	if got.Text() != "_dep_message_oldfn" {
		t.Errorf("expected _dep_message_oldfn, got %s", got.Text())
	}
}
