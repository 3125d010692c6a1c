// Package sampler reads object transforms out of a scene at its current
// evaluation state.
package sampler

import (
	"fmt"

	"github.com/minin64/objexport/pkg/mathx"
	"github.com/minin64/objexport/pkg/scene"
)

// Transform is one object's decomposed transform: translation, rotation as a
// proper rotation matrix, and per-axis scale.
type Transform struct {
	Translation mathx.Vec3
	Rotation    mathx.Mat3
	Scale       mathx.Vec3
}

// Sample reads the object's transform at the scene's current evaluation state.
// With parentRelative set and a parent present, the transform is re-expressed
// in the parent's local frame: inverse(parent_world) · object_world. Scale is
// taken per axis from the relative basis vectors, an accepted approximation
// under non-uniform parent scale and shear.
func Sample(sc scene.Scene, ref scene.ObjectRef, parentRelative bool) (Transform, error) {
	world, err := sc.WorldMatrix(ref)
	if err != nil {
		return Transform{}, fmt.Errorf("sample %q: %w", ref, err)
	}

	m := world
	if parentRelative {
		parent, ok, err := sc.Parent(ref)
		if err != nil {
			return Transform{}, fmt.Errorf("sample %q: %w", ref, err)
		}
		if ok {
			parentWorld, err := sc.WorldMatrix(parent)
			if err != nil {
				return Transform{}, fmt.Errorf("sample %q: parent %q: %w", ref, parent, err)
			}
			m = mathx.Mat4Mul(parentWorld.AffineInverse(), world)
		}
	}

	t, r, s := m.Decompose()
	return Transform{Translation: t, Rotation: r, Scale: s}, nil
}
