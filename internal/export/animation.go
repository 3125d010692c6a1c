package export

import (
	"fmt"

	"github.com/minin64/objexport/internal/cdata"
	"github.com/minin64/objexport/pkg/scene"
)

// Animation samples every configured object over the inclusive frame range
// [FrameStart, FrameEnd] and renders the accumulated state as one 2D literal
// per export (or per channel kind when arrays are separated). The host's
// current frame is restored whether sampling completes or aborts.
func Animation(sc scene.Scene, cfg *Config) (Rendered, error) {
	if err := cfg.validate(); err != nil {
		return Rendered{}, err
	}
	if cfg.Variable == "" {
		return Rendered{}, fmt.Errorf("%w: no variable name supplied", ErrConfig)
	}
	if cfg.Channels.None() {
		return Rendered{}, fmt.Errorf("%w: no channels selected between translation, rotation, and scale", ErrConfig)
	}
	if cfg.FrameEnd < cfg.FrameStart {
		return Rendered{}, fmt.Errorf("%w: end frame %d before start frame %d",
			ErrInvalidRange, cfg.FrameEnd, cfg.FrameStart)
	}
	if !cfg.SeparateArrays {
		if err := cfg.validateFlat(cfg.Channels); err != nil {
			return Rendered{}, err
		}
	}

	frames, err := cfg.sampleFrames(sc)
	if err != nil {
		return Rendered{}, err
	}

	vars, err := cfg.animationVars(frames)
	if err != nil {
		return Rendered{}, err
	}

	decls := make([]string, 0, len(vars))
	externs := make([]string, 0, len(vars))
	for _, v := range vars {
		decls = append(decls, v.Decl())
		externs = append(externs, v.ExternDecl())
	}
	return Rendered{Source: joinDecls(decls), Header: joinDecls(externs)}, nil
}

// sampleFrames walks the frame range and samples every object at each frame.
// The host's current frame is saved up front and restored on every exit path;
// a failed restore surfaces as the call's error when sampling itself succeeded.
func (c *Config) sampleFrames(sc scene.Scene) (frames [][]Sample, err error) {
	orig := sc.Frame()
	defer func() {
		if rerr := sc.SetFrame(orig); rerr != nil && err == nil {
			frames = nil
			err = fmt.Errorf("restore frame %d: %w", orig, rerr)
		}
	}()

	frames = make([][]Sample, 0, c.FrameEnd-c.FrameStart+1)
	for f := c.FrameStart; f <= c.FrameEnd; f++ {
		if err = sc.SetFrame(f); err != nil {
			return nil, fmt.Errorf("set frame %d: %w", f, err)
		}
		row := make([]Sample, 0, len(c.Objects))
		for i := range c.Objects {
			s, serr := c.takeSample(sc, scene.ObjectRef(c.Objects[i].Object), c.ParentRelative)
			if serr != nil {
				err = fmt.Errorf("frame %d: %w", f, serr)
				return nil, err
			}
			row = append(row, s)
		}
		frames = append(frames, row)
	}
	return frames, nil
}

// animationVars renders the accumulated per-frame sample sets. Outer index is
// the frame, inner index the object; single-element levels collapse.
func (c *Config) animationVars(frames [][]Sample) ([]*cdata.Var, error) {
	if c.SeparateArrays {
		return c.separatedVars(c.Variable, c.Channels, func(k channelKind) (cdata.Value, error) {
			outer := make(cdata.List, 0, len(frames))
			for _, row := range frames {
				inner := make(cdata.List, 0, len(row))
				for _, s := range row {
					v, err := c.kindValue(s, k)
					if err != nil {
						return nil, err
					}
					inner = append(inner, v)
				}
				outer = append(outer, reduce(inner))
			}
			return reduce(outer), nil
		})
	}

	outer := make(cdata.List, 0, len(frames))
	for _, row := range frames {
		inner := make(cdata.List, 0, len(row))
		for _, s := range row {
			vals, err := c.channelValues(s, c.Channels)
			if err != nil {
				return nil, err
			}
			inner = append(inner, reduce(vals))
		}
		outer = append(outer, reduce(inner))
	}

	return []*cdata.Var{{
		Name:  c.Variable,
		Type:  c.flatType(c.Channels).CName(),
		Hex:   c.Hex,
		Value: reduce(outer),
	}}, nil
}
