package export

import (
	"fmt"

	"github.com/minin64/objexport/internal/sampler"
	"github.com/minin64/objexport/pkg/mathx"
)

// AxisConvention selects an optional basis change between the scene's axes
// and the target runtime's.
type AxisConvention int

const (
	// AxisNone exports transforms in the scene's own basis.
	AxisNone AxisConvention = iota

	// AxisZUpToYUp converts a Z-up scene (Blender convention) to the
	// runtime's Y-up basis: (x, y, z) → (x, z, -y).
	AxisZUpToYUp
)

// ParseAxisConvention maps a config string to an AxisConvention.
func ParseAxisConvention(s string) (AxisConvention, error) {
	switch s {
	case "", "none":
		return AxisNone, nil
	case "z-up-to-y-up":
		return AxisZUpToYUp, nil
	}
	return AxisNone, fmt.Errorf("export: unknown axis convention %q", s)
}

// zUpToYUp maps (x, y, z) to (x, z, -y).
var zUpToYUp = mathx.Mat3{
	1, 0, 0,
	0, 0, 1,
	0, -1, 0,
}

// Apply re-expresses a sampled transform in the target basis. Translation is
// rotated into it, rotation is conjugated (B·R·Bᵀ), and scale components are
// permuted with signs dropped since scale is per-axis magnitude.
func (c AxisConvention) Apply(tr sampler.Transform) sampler.Transform {
	if c == AxisNone {
		return tr
	}

	b := zUpToYUp
	tr.Translation = b.MulVec3(tr.Translation)
	tr.Rotation = mathx.Mat3Mul(b, mathx.Mat3Mul(tr.Rotation, b.Transpose()))
	tr.Scale = mathx.Vec3{tr.Scale[0], tr.Scale[2], tr.Scale[1]}
	return tr
}
