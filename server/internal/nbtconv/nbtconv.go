// Package nbtconv implements reading and writing of the compound (map[string]any) form in which entities,
// tiles and item stacks are persisted. Values read from a decoded compound may have been widened or narrowed
// by the encoding, so every numeric reader accepts any numeric type stored under the key.
package nbtconv

import (
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/constraints"
)

type number interface {
	constraints.Integer | constraints.Float
}

// Number reads a numeric field of any stored numeric type and converts it to T. If the field is absent or
// not numeric, def is returned.
func Number[T number](m map[string]any, key string, def T) T {
	switch v := m[key].(type) {
	case uint8:
		return T(v)
	case int8:
		return T(v)
	case int16:
		return T(v)
	case uint16:
		return T(v)
	case int32:
		return T(v)
	case uint32:
		return T(v)
	case int64:
		return T(v)
	case uint64:
		return T(v)
	case int:
		return T(v)
	case float32:
		return T(v)
	case float64:
		return T(v)
	}
	return def
}

// Field reads a field of type T from the compound, returning def if the field is absent or of another type.
func Field[T any](m map[string]any, key string, def T) T {
	if v, ok := m[key].(T); ok {
		return v
	}
	return def
}

// Uint8 reads a uint8 field from a map at key k.
func Uint8(m map[string]any, k string) uint8 {
	return Number[uint8](m, k, 0)
}

// Int16 reads an int16 field from a map at key k.
func Int16(m map[string]any, k string) int16 {
	return Number[int16](m, k, 0)
}

// Int32 reads an int32 field from a map at key k.
func Int32(m map[string]any, k string) int32 {
	return Number[int32](m, k, 0)
}

// Int64 reads an int64 field from a map at key k.
func Int64(m map[string]any, k string) int64 {
	return Number[int64](m, k, 0)
}

// String reads a string field from a map at key k.
func String(m map[string]any, k string) string {
	return Field(m, k, "")
}

// Map reads a compound field from a map at key k. Nil is returned if the field is absent.
func Map(m map[string]any, k string) map[string]any {
	return Field[map[string]any](m, k, nil)
}

// Slice reads a list field from a map at key k. Lists of compounds written as []map[string]any are
// converted to []any.
func Slice(m map[string]any, k string) []any {
	switch v := m[k].(type) {
	case []any:
		return v
	case []map[string]any:
		s := make([]any, len(v))
		for i, e := range v {
			s[i] = e
		}
		return s
	case []float32:
		s := make([]any, len(v))
		for i, e := range v {
			s[i] = e
		}
		return s
	case []string:
		s := make([]any, len(v))
		for i, e := range v {
			s[i] = e
		}
		return s
	}
	return nil
}

// Vec3 converts x, y and z values in an NBT list to an mgl64.Vec3.
func Vec3(x map[string]any, k string) mgl64.Vec3 {
	if l := Slice(x, k); len(l) == 3 {
		var vec mgl64.Vec3
		for i, v := range l {
			switch f := v.(type) {
			case float32:
				vec[i] = float64(f)
			case float64:
				vec[i] = f
			}
		}
		return vec
	}
	return mgl64.Vec3{}
}

// Vec3ToFloat32Slice converts an mgl64.Vec3 to a []float32 with 3 elements.
func Vec3ToFloat32Slice(x mgl64.Vec3) []float32 {
	return []float32{float32(x[0]), float32(x[1]), float32(x[2])}
}

// Pos reads a block position stored as three int32 fields "x", "y" and "z".
func Pos(m map[string]any) [3]int {
	return [3]int{int(Int32(m, "x")), int(Int32(m, "y")), int(Int32(m, "z"))}
}

// WritePos writes a block position as three int32 fields "x", "y" and "z".
func WritePos(m map[string]any, pos [3]int) {
	m["x"], m["y"], m["z"] = int32(pos[0]), int32(pos[1]), int32(pos[2])
}
