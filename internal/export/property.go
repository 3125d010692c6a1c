package export

import (
	"fmt"

	"github.com/minin64/objexport/internal/cdata"
	"github.com/minin64/objexport/internal/util"
	"github.com/minin64/objexport/pkg/scene"
)

// Property exports the current transform state of each configured object as
// one C declaration per object (or per channel kind when arrays are
// separated). The scene is read at its current evaluation state.
func Property(sc scene.Scene, cfg *Config) (Rendered, error) {
	if err := cfg.validate(); err != nil {
		return Rendered{}, err
	}

	var decls, externs []string
	for i := range cfg.Objects {
		obj := &cfg.Objects[i]
		vars, err := cfg.propertyVars(sc, obj)
		if err != nil {
			return Rendered{}, err
		}
		for _, v := range vars {
			decls = append(decls, v.Decl())
			externs = append(externs, v.ExternDecl())
		}
	}

	return Rendered{Source: joinDecls(decls), Header: joinDecls(externs)}, nil
}

// propertyVars builds the declaration(s) for one configured object.
func (c *Config) propertyVars(sc scene.Scene, obj *ObjectConfig) ([]*cdata.Var, error) {
	ch := c.channelsFor(obj)
	if ch.None() {
		return nil, fmt.Errorf("%w: object %q selects no channels", ErrConfig, obj.Object)
	}
	if len(obj.Extras) > 0 && !obj.Struct {
		return nil, fmt.Errorf("%w: object %q declares extra fields without struct mode", ErrConfig, obj.Object)
	}
	if obj.Struct && obj.StructTypedef == "" {
		return nil, fmt.Errorf("%w: object %q enables struct mode without a typedef", ErrConfig, obj.Object)
	}
	if !obj.Struct {
		if err := c.validateFlat(ch); err != nil {
			return nil, fmt.Errorf("object %q: %w", obj.Object, err)
		}
	}

	sample, err := c.takeSample(sc, scene.ObjectRef(obj.Object), obj.ParentRelative)
	if err != nil {
		return nil, err
	}

	name := obj.VarName
	if name == "" {
		name = util.SanitizeIdentifier(obj.Object)
	}

	if obj.Struct {
		fields, err := c.channelValues(sample, ch)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", obj.Object, err)
		}
		for _, extra := range obj.Extras {
			fields = append(fields, cdata.Literal(extra.Value))
		}
		return []*cdata.Var{{
			Name:  name,
			Type:  obj.StructTypedef,
			Hex:   c.Hex,
			Value: cdata.Struct{Typedef: obj.StructTypedef, Fields: fields},
		}}, nil
	}

	if c.SeparateArrays {
		return c.separatedVars(name, ch, func(kind channelKind) (cdata.Value, error) {
			return c.kindValue(sample, kind)
		})
	}

	vals, err := c.channelValues(sample, ch)
	if err != nil {
		return nil, fmt.Errorf("object %q: %w", obj.Object, err)
	}
	return []*cdata.Var{{
		Name:  name,
		Type:  c.flatType(ch).CName(),
		Hex:   c.Hex,
		Value: reduce(vals),
	}}, nil
}

// channelKind identifies one transform channel for separated-array naming.
type channelKind int

const (
	kindTranslation channelKind = iota
	kindRotation
	kindScale
)

func (k channelKind) suffix() string {
	switch k {
	case kindTranslation:
		return "_pos"
	case kindRotation:
		return "_rot"
	default:
		return "_scale"
	}
}

func (c *Config) kindType(k channelKind) cdata.DataType {
	switch k {
	case kindTranslation:
		return c.TranslationType
	case kindRotation:
		return cdata.S16
	default:
		return c.ScaleType
	}
}

// kindValue extracts one channel of a sample as a literal vector.
func (c *Config) kindValue(s Sample, k channelKind) (cdata.Value, error) {
	switch k {
	case kindTranslation:
		return vecValue(s.Translation, c.TranslationType)
	case kindRotation:
		return rotValue(s.Rotation), nil
	default:
		return vecValue(s.Scale, c.ScaleType)
	}
}

// selectedKinds returns the enabled channel kinds in fixed order.
func selectedKinds(ch Channels) []channelKind {
	var kinds []channelKind
	if ch.Translation {
		kinds = append(kinds, kindTranslation)
	}
	if ch.Rotation {
		kinds = append(kinds, kindRotation)
	}
	if ch.Scale {
		kinds = append(kinds, kindScale)
	}
	return kinds
}

// separatedVars builds one variable per enabled channel kind.
func (c *Config) separatedVars(base string, ch Channels, value func(channelKind) (cdata.Value, error)) ([]*cdata.Var, error) {
	kinds := selectedKinds(ch)
	vars := make([]*cdata.Var, 0, len(kinds))
	for _, k := range kinds {
		val, err := value(k)
		if err != nil {
			return nil, err
		}
		vars = append(vars, &cdata.Var{
			Name:  base + k.suffix(),
			Type:  c.kindType(k).CName(),
			Hex:   c.Hex,
			Value: val,
		})
	}
	return vars, nil
}
