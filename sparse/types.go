// SPDX-License-Identifier: MIT

// Package sparse: domain types shared by every representation.
// This file contains ONLY type-level declarations: element-type constraints,
// the runtime tags that name an instantiation (Kind), level annotations and
// the Field selector used by swap operations.
package sparse

import (
	"fmt"
	"strings"
)

// Overhead is the closed set of unsigned integer types usable for
// pointers and indices.
type Overhead interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Value is the closed set of numeric element types.
type Value interface {
	~float64 | ~float32 | ~int64 | ~int32 | ~int16 | ~int8
}

// DimLevelType annotates one storage dimension.
type DimLevelType uint8

const (
	// LevelDense stores every coordinate of the dimension implicitly.
	LevelDense DimLevelType = iota
	// LevelCompressed stores a pointers/indices pair for the dimension.
	LevelCompressed
	// LevelSingleton is recognized for interchange but not supported.
	LevelSingleton
)

// String implements fmt.Stringer.
func (l DimLevelType) String() string {
	switch l {
	case LevelDense:
		return "dense"
	case LevelCompressed:
		return "compressed"
	case LevelSingleton:
		return "singleton"
	default:
		return fmt.Sprintf("level(%d)", uint8(l))
	}
}

// ParseLevels parses a comma separated list such as "dense,compressed".
// The abbreviations "d" and "c" are accepted.
func ParseLevels(s string) ([]DimLevelType, error) {
	parts := strings.Split(s, ",")
	out := make([]DimLevelType, 0, len(parts))
	for _, p := range parts {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "dense", "d":
			out = append(out, LevelDense)
		case "compressed", "c", "sparse", "s":
			out = append(out, LevelCompressed)
		case "singleton":
			out = append(out, LevelSingleton)
		default:
			return nil, errorf("ParseLevels", ErrUnsupportedLevel, "%q", p)
		}
	}

	return out, nil
}

// OverheadType tags the bit-width of a pointer or index array.
type OverheadType uint8

const (
	// OverheadIndex is the platform index type; it is treated as OverheadU64.
	OverheadIndex OverheadType = iota
	OverheadU64
	OverheadU32
	OverheadU16
	OverheadU8
)

// Normalize rewrites OverheadIndex to OverheadU64.
func (t OverheadType) Normalize() OverheadType {
	if t == OverheadIndex {
		return OverheadU64
	}

	return t
}

// Bits returns the bit-width (64 for OverheadIndex).
func (t OverheadType) Bits() int {
	switch t.Normalize() {
	case OverheadU64:
		return 64
	case OverheadU32:
		return 32
	case OverheadU16:
		return 16
	case OverheadU8:
		return 8
	default:
		return 0
	}
}

// String implements fmt.Stringer.
func (t OverheadType) String() string {
	if t == OverheadIndex {
		return "index"
	}
	if b := t.Bits(); b > 0 {
		return fmt.Sprintf("u%d", b)
	}

	return fmt.Sprintf("overhead(%d)", uint8(t))
}

// ParseOverheadType parses "8", "16", "32", "64", "u32", "index", ...
func ParseOverheadType(s string) (OverheadType, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "u") {
	case "64":
		return OverheadU64, nil
	case "32":
		return OverheadU32, nil
	case "16":
		return OverheadU16, nil
	case "8":
		return OverheadU8, nil
	case "index", "":
		return OverheadIndex, nil
	default:
		return 0, errorf("ParseOverheadType", ErrUnsupportedKind, "%q", s)
	}
}

// PrimaryType tags the value element type.
type PrimaryType uint8

const (
	PrimaryF64 PrimaryType = iota
	PrimaryF32
	PrimaryI64
	PrimaryI32
	PrimaryI16
	PrimaryI8
)

var primaryNames = [...]string{"f64", "f32", "i64", "i32", "i16", "i8"}

// String implements fmt.Stringer.
func (t PrimaryType) String() string {
	if int(t) < len(primaryNames) {
		return primaryNames[t]
	}

	return fmt.Sprintf("primary(%d)", uint8(t))
}

// IsFloat reports whether the value type is a floating-point type.
func (t PrimaryType) IsFloat() bool { return t == PrimaryF64 || t == PrimaryF32 }

// ParsePrimaryType parses "f64", "float32", "i16", ...
func ParsePrimaryType(s string) (PrimaryType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f64", "float64", "double", "":
		return PrimaryF64, nil
	case "f32", "float32", "float":
		return PrimaryF32, nil
	case "i64", "int64":
		return PrimaryI64, nil
	case "i32", "int32":
		return PrimaryI32, nil
	case "i16", "int16":
		return PrimaryI16, nil
	case "i8", "int8":
		return PrimaryI8, nil
	default:
		return 0, errorf("ParsePrimaryType", ErrUnsupportedKind, "%q", s)
	}
}

// Kind names one (pointer, index, value) instantiation of Storage.
type Kind struct {
	Pointer OverheadType `cbor:"1,keyasint"`
	Index   OverheadType `cbor:"2,keyasint"`
	Value   PrimaryType  `cbor:"3,keyasint"`
}

// Normalize rewrites OverheadIndex to OverheadU64 in both overhead slots.
func (k Kind) Normalize() Kind {
	return Kind{Pointer: k.Pointer.Normalize(), Index: k.Index.Normalize(), Value: k.Value}
}

// String implements fmt.Stringer, e.g. "p64i32f64".
func (k Kind) String() string {
	n := k.Normalize()
	return fmt.Sprintf("p%di%d%s", n.Pointer.Bits(), n.Index.Bits(), n.Value)
}

// Supported reports whether k is one of the instantiations offered by the
// engine: floating values with any pair of overhead widths; integral values
// with equal pointer/index widths, as listed below.
//
//	i64:          u64
//	i32/i16/i8:   u64, u32, u16, u8
func Supported(k Kind) bool {
	n := k.Normalize()
	if n.Pointer.Bits() == 0 || n.Index.Bits() == 0 {
		return false
	}
	switch n.Value {
	case PrimaryF64, PrimaryF32:
		return true
	case PrimaryI64:
		return n.Pointer == OverheadU64 && n.Index == OverheadU64
	case PrimaryI32, PrimaryI16, PrimaryI8:
		return n.Pointer == n.Index
	default:
		return false
	}
}

// Field selects one owned array for swap operations.
type Field uint8

const (
	FieldRev Field = iota
	FieldSizes
	FieldPointers
	FieldIndices
	FieldValues
)

// String implements fmt.Stringer.
func (f Field) String() string {
	switch f {
	case FieldRev:
		return "rev"
	case FieldSizes:
		return "sizes"
	case FieldPointers:
		return "pointers"
	case FieldIndices:
		return "indices"
	case FieldValues:
		return "values"
	default:
		return fmt.Sprintf("field(%d)", uint8(f))
	}
}

// overheadTypeOf returns the runtime tag of an Overhead instantiation.
func overheadTypeOf[T Overhead]() OverheadType {
	var z T
	switch any(z).(type) {
	case uint64:
		return OverheadU64
	case uint32:
		return OverheadU32
	case uint16:
		return OverheadU16
	case uint8:
		return OverheadU8
	}
	// Named types with a ~uint underlying: classify by width.
	switch bitsOf(^z) {
	case 64:
		return OverheadU64
	case 32:
		return OverheadU32
	case 16:
		return OverheadU16
	default:
		return OverheadU8
	}
}

// bitsOf counts the set bits of an all-ones overhead value.
func bitsOf[T Overhead](all T) int {
	n := 0
	for v := uint64(all); v != 0; v >>= 1 {
		n++
	}

	return n
}

// primaryTypeOf returns the runtime tag of a Value instantiation.
func primaryTypeOf[V Value]() PrimaryType {
	var z V
	switch any(z).(type) {
	case float64:
		return PrimaryF64
	case float32:
		return PrimaryF32
	case int64:
		return PrimaryI64
	case int32:
		return PrimaryI32
	case int16:
		return PrimaryI16
	case int8:
		return PrimaryI8
	}

	return PrimaryF64
}

// KindOf returns the Kind tag of the instantiation Storage[P, I, V].
func KindOf[P, I Overhead, V Value]() Kind {
	return Kind{Pointer: overheadTypeOf[P](), Index: overheadTypeOf[I](), Value: primaryTypeOf[V]()}
}
