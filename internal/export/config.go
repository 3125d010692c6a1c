// Package export orchestrates the property and animation export pipelines:
// sampling transforms out of a scene, encoding rotations, and rendering the
// result as C literal text.
package export

import (
	"errors"
	"fmt"

	"github.com/minin64/objexport/internal/cdata"
)

// ErrConfig is returned for configurations the renderer cannot express, such
// as rotation packed next to a non-s16 channel in one flat array.
var ErrConfig = errors.New("export: invalid configuration")

// ErrInvalidRange is returned when an animation range ends before it starts.
var ErrInvalidRange = errors.New("export: invalid frame range")

// Channels selects which transform channels an export includes.
type Channels struct {
	Translation bool `json:"translation" mapstructure:"translation"`
	Rotation    bool `json:"rotation" mapstructure:"rotation"`
	Scale       bool `json:"scale" mapstructure:"scale"`
}

// None reports whether no channel is selected.
func (c Channels) None() bool {
	return !c.Translation && !c.Rotation && !c.Scale
}

// count returns the number of selected channels.
func (c Channels) count() int {
	n := 0
	for _, on := range []bool{c.Translation, c.Rotation, c.Scale} {
		if on {
			n++
		}
	}
	return n
}

// ExtraField is a user-declared struct field appended after the transform
// channels. Value is emitted verbatim; Name and Type are documentation.
type ExtraField struct {
	Name  string `json:"name" mapstructure:"name"`
	Type  string `json:"type" mapstructure:"type"`
	Value string `json:"value" mapstructure:"value"`
}

// ObjectConfig configures one exported object on the property path.
type ObjectConfig struct {
	Object         string       `json:"object" mapstructure:"object"`
	VarName        string       `json:"varName" mapstructure:"varName"`
	ParentRelative bool         `json:"parentRelative" mapstructure:"parentRelative"`
	Struct         bool         `json:"struct" mapstructure:"struct"`
	StructTypedef  string       `json:"structTypedef" mapstructure:"structTypedef"`
	Extras         []ExtraField `json:"extras,omitempty" mapstructure:"extras"`

	// Channels overrides the config-level selection when set.
	Channels *Channels `json:"channels,omitempty" mapstructure:"channels"`
}

// Config is one fully resolved export invocation. It is read-only to the
// pipelines.
type Config struct {
	// Variable names the exported C variable on the animation path and is the
	// fallback prefix on the property path.
	Variable string

	// Per-channel storage types. Rotation is always s16 angle units.
	TranslationType cdata.DataType
	ScaleType       cdata.DataType

	Channels Channels
	Objects  []ObjectConfig

	// SeparateArrays emits one array per channel kind (_pos/_rot/_scale
	// suffixes) instead of one combined array.
	SeparateArrays bool

	// Hex renders integer channels as hexadecimal. Rotation is hex regardless.
	Hex bool

	// ParentRelative applies to the animation path; the property path uses
	// the per-object flag.
	ParentRelative bool

	// Inclusive animation frame range.
	FrameStart int
	FrameEnd   int

	// WorldScale multiplies translations (scene units to runtime units).
	// Zero means 1.
	WorldScale float64

	Axis AxisConvention
}

func (c *Config) worldScale() float64 {
	if c.WorldScale == 0 {
		return 1
	}
	return c.WorldScale
}

// channelsFor resolves the effective channel selection for one object.
func (c *Config) channelsFor(obj *ObjectConfig) Channels {
	if obj.Channels != nil && !obj.Channels.None() {
		return *obj.Channels
	}
	return c.Channels
}

// validate checks the parts shared by both pipelines.
func (c *Config) validate() error {
	if len(c.Objects) == 0 {
		return fmt.Errorf("%w: no objects set for export", ErrConfig)
	}
	if c.Channels.None() {
		hasOverride := false
		for i := range c.Objects {
			if c.Objects[i].Channels != nil && !c.Objects[i].Channels.None() {
				hasOverride = true
				break
			}
		}
		if !hasOverride {
			return fmt.Errorf("%w: no channels selected between translation, rotation, and scale", ErrConfig)
		}
	}
	return nil
}

// validateFlat enforces the flat-array packing rules for one channel
// selection: a combined array needs a single element type, so rotation (s16)
// may share it only with s16 channels, and differently typed channels may
// never share one.
func (c *Config) validateFlat(ch Channels) error {
	if c.SeparateArrays || ch.count() < 2 {
		return nil
	}
	if ch.Rotation {
		if ch.Translation && c.TranslationType != cdata.S16 {
			return fmt.Errorf("%w: rotation cannot share a flat array with %s translation; use s16, separate arrays, or struct mode",
				ErrConfig, c.TranslationType)
		}
		if ch.Scale && c.ScaleType != cdata.S16 {
			return fmt.Errorf("%w: rotation cannot share a flat array with %s scale; use s16, separate arrays, or struct mode",
				ErrConfig, c.ScaleType)
		}
	}
	if ch.Translation && ch.Scale && c.TranslationType != c.ScaleType {
		return fmt.Errorf("%w: translation (%s) and scale (%s) cannot share a flat array",
			ErrConfig, c.TranslationType, c.ScaleType)
	}
	return nil
}

// flatType returns the element typedef of a combined flat array.
func (c *Config) flatType(ch Channels) cdata.DataType {
	switch {
	case ch.Rotation && ch.count() > 1:
		return cdata.S16
	case ch.Translation:
		return c.TranslationType
	case ch.Rotation:
		return cdata.S16
	default:
		return c.ScaleType
	}
}
