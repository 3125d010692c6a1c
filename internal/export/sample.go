package export

import (
	"github.com/minin64/objexport/internal/cdata"
	"github.com/minin64/objexport/internal/encode"
	"github.com/minin64/objexport/internal/sampler"
	"github.com/minin64/objexport/pkg/mathx"
	"github.com/minin64/objexport/pkg/scene"
)

// Sample is one object's export-ready transform state: world-scaled
// translation, rotation in s16 angle units, and per-axis scale. Immutable
// once produced.
type Sample struct {
	Translation mathx.Vec3
	Rotation    encode.S16Angles
	Scale       mathx.Vec3
}

// takeSample reads one object at the scene's current evaluation state and
// runs it through axis conversion, world scaling, and rotation encoding.
func (c *Config) takeSample(sc scene.Scene, ref scene.ObjectRef, parentRelative bool) (Sample, error) {
	tr, err := sampler.Sample(sc, ref, parentRelative)
	if err != nil {
		return Sample{}, err
	}
	tr = c.Axis.Apply(tr)

	rot, err := encode.Rotation(tr.Rotation)
	if err != nil {
		return Sample{}, err
	}

	return Sample{
		Translation: tr.Translation.Scale(c.worldScale()),
		Rotation:    rot,
		Scale:       tr.Scale,
	}, nil
}

// vecValue converts a 3-vector channel into a typed literal list.
func vecValue(v mathx.Vec3, d cdata.DataType) (cdata.List, error) {
	out := make(cdata.List, 3)
	for i, f := range v {
		val, err := cdata.Number(f, d)
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}

// rotValue converts the encoded rotation triple into a literal list.
func rotValue(r encode.S16Angles) cdata.List {
	return cdata.List{cdata.RotAngle(r[0]), cdata.RotAngle(r[1]), cdata.RotAngle(r[2])}
}

// channelValues returns the selected channels of a sample in fixed order:
// translation, rotation, scale.
func (c *Config) channelValues(s Sample, ch Channels) (cdata.List, error) {
	var out cdata.List
	if ch.Translation {
		v, err := vecValue(s.Translation, c.TranslationType)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if ch.Rotation {
		out = append(out, rotValue(s.Rotation))
	}
	if ch.Scale {
		v, err := vecValue(s.Scale, c.ScaleType)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// reduce collapses single-element levels so one object or one frame does not
// add an array dimension.
func reduce(l cdata.List) cdata.Value {
	if len(l) == 1 {
		return l[0]
	}
	return l
}
