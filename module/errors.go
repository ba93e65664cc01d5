package module

import "fmt"

// Kind identifies one of the error conditions the module subsystem raises
// synchronously: a single struct type carrying a discriminant, rather than
// a forest of sentinel error values.
type Kind uint8

const (
	// CannotAssignImported is raised writing to a name whose local cell
	// is a foreign alias.
	CannotAssignImported Kind = iota
	// MustExplicitlyImport is raised extending a method on a foreign,
	// non-imported, non-type owner.
	MustExplicitlyImport
	// ConstantRedefinition is raised changing the value or type of a
	// constant in a disallowed way.
	ConstantRedefinition
	// ConstantRedeclaration is raised declaring a constant over a
	// non-self-owned or already-valued non-const cell.
	ConstantRedeclaration
	// TypeMismatch is raised storing a value whose type is not a subtype
	// of the binding's declared type.
	TypeMismatch
	// UndefinedVarError is raised resolving an unresolvable name via
	// GetBindingOrError.
	UndefinedVarError
	// DeprecatedBindingUse is raised when the deprecation mode is Error
	// and a deprecated binding was used.
	DeprecatedBindingUse
)

func (k Kind) String() string {
	switch k {
	case CannotAssignImported:
		return "CannotAssignImported"
	case MustExplicitlyImport:
		return "MustExplicitlyImport"
	case ConstantRedefinition:
		return "ConstantRedefinition"
	case ConstantRedeclaration:
		return "ConstantRedeclaration"
	case TypeMismatch:
		return "TypeMismatch"
	case UndefinedVarError:
		return "UndefinedVarError"
	case DeprecatedBindingUse:
		return "DeprecatedBindingUse"
	default:
		return "UnknownError"
	}
}

// Error is the single error type the module subsystem raises. Module and
// Name are empty when not applicable.
type Error struct {
	Kind    Kind
	Module  string
	Name    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Module == "" && e.Name == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}

	return fmt.Sprintf("%s: %s.%s: %s", e.Kind, e.Module, e.Name, e.Message)
}

// IsKind reports whether err is a *Error of the given Kind; callers use
// this in place of a forest of sentinel error values, and errors.As(err,
// &moduleErr) for the full detail.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)

	return ok && e.Kind == kind
}

func newError(kind Kind, mod, name, message string) *Error {
	return &Error{Kind: kind, Module: mod, Name: name, Message: message}
}
