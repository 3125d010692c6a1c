// Package cdata renders numeric value trees as C array and struct literal
// source text.
package cdata

import (
	"errors"
	"fmt"
	"math"
)

// ErrS16Range is returned when a value quantized to s16 falls outside
// [-32768, 32767].
var ErrS16Range = errors.New("cdata: value out of s16 range")

// DataType is the C storage type of one exported channel.
type DataType int

const (
	F32 DataType = iota
	S32
	S16
)

// ParseDataType maps a config string to a DataType.
func ParseDataType(s string) (DataType, error) {
	switch s {
	case "f32":
		return F32, nil
	case "s32":
		return S32, nil
	case "s16":
		return S16, nil
	}
	return F32, fmt.Errorf("cdata: unknown data type %q", s)
}

// CName returns the C typedef name.
func (d DataType) CName() string {
	switch d {
	case S32:
		return "s32"
	case S16:
		return "s16"
	default:
		return "f32"
	}
}

func (d DataType) String() string { return d.CName() }

// Value is one node of a literal tree.
type Value interface{ isValue() }

// Float is an f32 element.
type Float float64

// Int is an s32/s16 element, rendered decimal or hex per Var.
type Int int64

// RotAngle is an encoded s16 rotation element, always rendered hex.
type RotAngle int16

// Literal is raw C text emitted verbatim (extra struct fields).
type Literal string

// List is one array nesting level.
type List []Value

// Struct is a fixed-order composite literal with a configured typedef.
type Struct struct {
	Typedef string
	Fields  []Value
}

func (Float) isValue()    {}
func (Int) isValue()      {}
func (RotAngle) isValue() {}
func (Literal) isValue()  {}
func (List) isValue()     {}
func (Struct) isValue()   {}

// Number converts a sampled float to a typed element, rounding for the
// integer types and range-checking s16.
func Number(v float64, d DataType) (Value, error) {
	switch d {
	case F32:
		return Float(v), nil
	case S16:
		n := int64(math.Round(v))
		if n < math.MinInt16 || n > math.MaxInt16 {
			return nil, fmt.Errorf("%w: %v", ErrS16Range, v)
		}
		return Int(n), nil
	default:
		return Int(int64(math.Round(v))), nil
	}
}

// formatFloat renders an f32 element: fixed 10-decimal precision, enough to
// round-trip any float32, padded like the rest of the column.
func formatFloat(v float64) string {
	return fmt.Sprintf("%16.10ff", v)
}

// formatInt renders an integer element. Hex values get 0x and four digits,
// widening to eight when the magnitude outgrows 16 bits.
func formatInt(v int64, hex bool) string {
	if hex {
		width := 6
		if v > 0x8000 || v < -0x8000 {
			width += 4
		}
		return fmt.Sprintf("%#0*x", width, v)
	}
	return fmt.Sprintf("%8d", v)
}
