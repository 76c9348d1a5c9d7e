// Package fault carries the typed failures the booking/trip/maintenance
// operations return. Handlers translate a Fault's kind into an HTTP status;
// everything else bubbles up as an internal error.
package fault

import "fmt"

type Kind string

const (
	// KindValidation - malformed or missing input (negative odometer, end before start).
	KindValidation Kind = "validation"
	// KindConflict - an overlapping active booking holds the vehicle for the window.
	KindConflict Kind = "conflict"
	// KindState - the operation is not valid for the entity's current status.
	KindState Kind = "state"
	// KindAuthorization - the actor may not perform this transition.
	KindAuthorization Kind = "authorization"
	// KindNotFound - the referenced entity does not exist.
	KindNotFound Kind = "not_found"
)

type Fault struct {
	Kind    Kind
	Message string
}

func (f *Fault) Error() string {
	return string(f.Kind) + ": " + f.Message
}

func Validation(format string, args ...any) *Fault {
	return &Fault{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Fault {
	return &Fault{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func State(format string, args ...any) *Fault {
	return &Fault{Kind: KindState, Message: fmt.Sprintf(format, args...)}
}

func Authorization(format string, args ...any) *Fault {
	return &Fault{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Fault {
	return &Fault{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}
