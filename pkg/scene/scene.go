// Package scene defines the read-only query surface the exporter uses to talk
// to a host scene graph, plus a JSON document implementation of it for hosts
// that have none.
package scene

import (
	"errors"

	"github.com/minin64/objexport/pkg/mathx"
)

// ObjectRef is an opaque handle to an object in the host scene graph.
type ObjectRef string

// ErrObjectNotFound is returned when a reference does not resolve to an
// object in the scene.
var ErrObjectNotFound = errors.New("scene: object not found")

// Scene is the narrow query interface onto the host scene graph. Implementations
// are read-only apart from the current-frame pointer, which SetFrame moves.
type Scene interface {
	// WorldMatrix returns the object's world transform at the current frame.
	WorldMatrix(ref ObjectRef) (mathx.Mat4, error)

	// Parent returns the object's parent reference, if it has one.
	Parent(ref ObjectRef) (ObjectRef, bool, error)

	// SetFrame moves the host's current-frame pointer and re-evaluates
	// animation state.
	SetFrame(n int) error

	// Frame returns the current frame.
	Frame() int

	// Objects returns all object references in scene order.
	Objects() []ObjectRef
}
