package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/minin64/objexport/pkg/mathx"
)

// Interpolation modes for keyframe tracks.
const (
	InterpLinear = "linear"
	InterpStep   = "step"
)

// Key is one keyframe of an object's local transform. Omitted channels fall
// back to the object's base value.
type Key struct {
	Frame       int         `json:"frame"`
	Translation *mathx.Vec3 `json:"translation,omitempty"`
	Rotation    *mathx.Vec3 `json:"rotation,omitempty"` // Euler XYZ, radians
	Scale       *mathx.Vec3 `json:"scale,omitempty"`
}

// Object is one node of a scene document. Transform values are local to the
// parent. Rotation is Euler XYZ in radians.
type Object struct {
	Name          string     `json:"name"`
	Parent        string     `json:"parent,omitempty"`
	Translation   mathx.Vec3 `json:"translation"`
	Rotation      mathx.Vec3 `json:"rotation"`
	Scale         mathx.Vec3 `json:"scale"`
	Interpolation string     `json:"interpolation,omitempty"`
	Keys          []Key      `json:"keys,omitempty"`
}

// Document is an in-memory scene graph loaded from JSON. It implements Scene
// and stands in for a live host: the CLI and tests evaluate against it.
type Document struct {
	FrameStart int      `json:"frameStart"`
	FrameEnd   int      `json:"frameEnd"`
	Nodes      []Object `json:"objects"`

	frame int
	index map[ObjectRef]*Object
}

// LoadDocument reads and validates a scene document file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	return doc, nil
}

// ParseDocument parses and validates scene document JSON.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if err := doc.init(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// init normalizes defaults, builds the name index, and validates references.
func (d *Document) init() error {
	d.index = make(map[ObjectRef]*Object, len(d.Nodes))
	d.frame = d.FrameStart

	for i := range d.Nodes {
		obj := &d.Nodes[i]
		if obj.Name == "" {
			return fmt.Errorf("object %d has no name", i)
		}
		if _, dup := d.index[ObjectRef(obj.Name)]; dup {
			return fmt.Errorf("duplicate object name %q", obj.Name)
		}
		if obj.Scale == (mathx.Vec3{}) {
			obj.Scale = mathx.Vec3{1, 1, 1}
		}
		switch obj.Interpolation {
		case "":
			obj.Interpolation = InterpLinear
		case InterpLinear, InterpStep:
		default:
			return fmt.Errorf("object %q: unknown interpolation %q", obj.Name, obj.Interpolation)
		}
		sort.SliceStable(obj.Keys, func(a, b int) bool {
			return obj.Keys[a].Frame < obj.Keys[b].Frame
		})
		d.index[ObjectRef(obj.Name)] = obj
	}

	// Parents must resolve, and chains must terminate.
	for i := range d.Nodes {
		obj := &d.Nodes[i]
		if obj.Parent == "" {
			continue
		}
		seen := map[string]bool{obj.Name: true}
		for cur := obj; cur.Parent != ""; {
			next, ok := d.index[ObjectRef(cur.Parent)]
			if !ok {
				return fmt.Errorf("object %q: parent %q not in scene", cur.Name, cur.Parent)
			}
			if seen[next.Name] {
				return fmt.Errorf("object %q: parent cycle through %q", obj.Name, next.Name)
			}
			seen[next.Name] = true
			cur = next
		}
	}
	return nil
}

// SetFrame moves the document's current frame. Any frame is valid; tracks
// clamp to their first and last keys.
func (d *Document) SetFrame(n int) error {
	d.frame = n
	return nil
}

// Frame returns the current frame.
func (d *Document) Frame() int {
	return d.frame
}

// Objects returns all object references in document order.
func (d *Document) Objects() []ObjectRef {
	refs := make([]ObjectRef, len(d.Nodes))
	for i := range d.Nodes {
		refs[i] = ObjectRef(d.Nodes[i].Name)
	}
	return refs
}

// Parent returns the object's parent reference, if any.
func (d *Document) Parent(ref ObjectRef) (ObjectRef, bool, error) {
	obj, ok := d.index[ref]
	if !ok {
		return "", false, fmt.Errorf("%w: %q", ErrObjectNotFound, ref)
	}
	if obj.Parent == "" {
		return "", false, nil
	}
	return ObjectRef(obj.Parent), true, nil
}

// WorldMatrix evaluates the object's local track at the current frame and
// chains parent transforms up to the root.
func (d *Document) WorldMatrix(ref ObjectRef) (mathx.Mat4, error) {
	obj, ok := d.index[ref]
	if !ok {
		return mathx.Mat4Identity(), fmt.Errorf("%w: %q", ErrObjectNotFound, ref)
	}

	world := d.localMatrix(obj)
	for obj.Parent != "" {
		obj = d.index[ObjectRef(obj.Parent)] // validated at load
		world = mathx.Mat4Mul(d.localMatrix(obj), world)
	}
	return world, nil
}

func (d *Document) localMatrix(obj *Object) mathx.Mat4 {
	t, r, s := d.localAt(obj, d.frame)
	rot := mathx.QuatToMat3(mathx.EulerToQuat(r[0], r[1], r[2]))
	return mathx.ComposeTRS(t, rot, s)
}

// localAt samples the object's keyframe track at the given frame. Frames
// outside the track hold the first or last key.
func (d *Document) localAt(obj *Object, frame int) (t, r, s mathx.Vec3) {
	t, r, s = obj.Translation, obj.Rotation, obj.Scale
	if len(obj.Keys) == 0 {
		return t, r, s
	}

	keys := obj.Keys
	apply := func(k Key) {
		if k.Translation != nil {
			t = *k.Translation
		}
		if k.Rotation != nil {
			r = *k.Rotation
		}
		if k.Scale != nil {
			s = *k.Scale
		}
	}

	switch {
	case frame <= keys[0].Frame:
		apply(keys[0])
		return t, r, s
	case frame >= keys[len(keys)-1].Frame:
		apply(keys[len(keys)-1])
		return t, r, s
	}

	// Find the bracketing pair.
	hi := sort.Search(len(keys), func(i int) bool { return keys[i].Frame > frame })
	lo := hi - 1
	apply(keys[lo])
	if obj.Interpolation == InterpStep || keys[lo].Frame == frame {
		return t, r, s
	}

	t2, r2, s2 := t, r, s
	next := keys[hi]
	if next.Translation != nil {
		t2 = *next.Translation
	}
	if next.Rotation != nil {
		r2 = *next.Rotation
	}
	if next.Scale != nil {
		s2 = *next.Scale
	}

	f := float64(frame-keys[lo].Frame) / float64(next.Frame-keys[lo].Frame)
	t = t.Lerp(t2, f)
	s = s.Lerp(s2, f)
	r = slerpEuler(r, r2, f)
	return t, r, s
}

// slerpEuler interpolates two Euler XYZ rotations through quaternion space and
// converts the result back to Euler. Going through quaternions avoids the
// component-wise artifacts of lerping angles directly.
func slerpEuler(a, b mathx.Vec3, f float64) mathx.Vec3 {
	qa := mathx.EulerToQuat(a[0], a[1], a[2])
	qb := mathx.EulerToQuat(b[0], b[1], b[2])
	q := mathx.Slerp(qa, qb, f)
	return mathx.EulerXYZFromMat3(mathx.QuatToMat3(q))
}
