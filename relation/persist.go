package relation

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"unsafe"

	"golang.org/x/exp/constraints"

	"github.com/CogitatorTech/zodd"
)

const (
	magic        = "ZODDREL"
	formatVersion byte = 1
)

// Save writes r to w using a versioned binary layout: a 7-byte magic, a
// 1-byte version, an 8-byte little-endian length, then one fixed-width
// record per tuple, field by field in declaration order.
//
// Save rejects tuple types whose schema contains a pointer, interface,
// slice, map, string, channel, function, or complex field with
// ErrUnsupportedType — none of those have a stable byte layout. Integers
// must be one of the fixed-width kinds (int8/16/32/64, uint8/16/32/64);
// plain int/uint are also rejected, since their width is platform-
// dependent and would break the format's bit-exact guarantee across hosts.
func Save[T Tuple[T]](w io.Writer, r Relation[T]) error {
	var zero T
	if err := validateType(reflect.TypeOf(zero)); err != nil {
		return err
	}

	if _, err := io.WriteString(w, magic); err != nil {
		return fmt.Errorf("zodd: write magic: %w", err)
	}
	if _, err := w.Write([]byte{formatVersion}); err != nil {
		return fmt.Errorf("zodd: write version: %w", err)
	}

	var lenBuf [8]byte
	putLE(lenBuf[:], uint64(r.Len()), 8)
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("zodd: write length: %w", err)
	}

	var buf []byte
	for _, t := range r.Elements() {
		buf = buf[:0]
		buf = encodeValue(buf, reflect.ValueOf(t))
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("zodd: write record: %w", err)
		}
	}
	return nil
}

// Load reads a Relation persisted by Save. It validates the magic and
// version, then re-sorts and re-deduplicates the loaded tuples: the
// producer's on-disk ordering is never trusted.
func Load[T Tuple[T]](ctx *zodd.Context, r io.Reader) (Relation[T], error) {
	return load[T](ctx, r, -1)
}

// LoadWithLimit is Load with an additional cap on the declared element
// count: a length greater than maxLen is rejected with ErrTooLarge before
// any record is read, so a corrupt or hostile length field can't drive an
// unbounded read.
func LoadWithLimit[T Tuple[T]](ctx *zodd.Context, r io.Reader, maxLen int) (Relation[T], error) {
	return load[T](ctx, r, maxLen)
}

func load[T Tuple[T]](ctx *zodd.Context, r io.Reader, maxLen int) (Relation[T], error) {
	var zero T
	if err := validateType(reflect.TypeOf(zero)); err != nil {
		return Relation[T]{}, err
	}

	var header [16]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Relation[T]{}, fmt.Errorf("zodd: read header: %w", err)
	}
	if string(header[:7]) != magic {
		return Relation[T]{}, zodd.ErrInvalidFormat
	}
	if header[7] != formatVersion {
		return Relation[T]{}, zodd.ErrUnsupportedVersion
	}

	length64 := getLE(header[8:16], 8)
	n := int(length64)
	if n < 0 || uint64(n) != length64 {
		return Relation[T]{}, zodd.ErrInvalidFormat
	}
	if maxLen >= 0 && n > maxLen {
		return Relation[T]{}, zodd.ErrTooLarge
	}
	if err := ctx.CheckBudget(n); err != nil {
		return Relation[T]{}, err
	}

	xs := make([]T, n)
	for i := 0; i < n; i++ {
		v := reflect.ValueOf(&xs[i]).Elem()
		if err := decodeValue(r, v); err != nil {
			return Relation[T]{}, fmt.Errorf("zodd: read record %d: %w", i, err)
		}
	}

	return FromSequence(ctx, xs)
}

// validateType recursively rejects any kind that has no stable byte
// layout. It is called once per Save/Load, not once per element.
func validateType(t reflect.Type) error {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil
	case reflect.Array:
		return validateType(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if err := validateType(t.Field(i).Type); err != nil {
				return err
			}
		}
		return nil
	default:
		return zodd.ErrUnsupportedType
	}
}

func encodeValue(buf []byte, v reflect.Value) []byte {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return append(buf, 1)
		}
		return append(buf, 0)
	case reflect.Int8:
		return writeSigned[int8](buf, v.Int())
	case reflect.Int16:
		return writeSigned[int16](buf, v.Int())
	case reflect.Int32:
		return writeSigned[int32](buf, v.Int())
	case reflect.Int64:
		return writeSigned[int64](buf, v.Int())
	case reflect.Uint8:
		return writeUnsigned[uint8](buf, v.Uint())
	case reflect.Uint16:
		return writeUnsigned[uint16](buf, v.Uint())
	case reflect.Uint32:
		return writeUnsigned[uint32](buf, v.Uint())
	case reflect.Uint64:
		return writeUnsigned[uint64](buf, v.Uint())
	case reflect.Float32:
		return writeFloat[float32](buf, v.Float())
	case reflect.Float64:
		return writeFloat[float64](buf, v.Float())
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			buf = encodeValue(buf, v.Index(i))
		}
		return buf
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			buf = encodeValue(buf, v.Field(i))
		}
		return buf
	default:
		// Unreachable: validateType already rejected every other kind.
		return buf
	}
}

func decodeValue(r io.Reader, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		v.SetBool(b[0] != 0)
		return nil
	case reflect.Int8:
		x, err := readSigned[int8](r)
		if err != nil {
			return err
		}
		v.SetInt(int64(x))
		return nil
	case reflect.Int16:
		x, err := readSigned[int16](r)
		if err != nil {
			return err
		}
		v.SetInt(int64(x))
		return nil
	case reflect.Int32:
		x, err := readSigned[int32](r)
		if err != nil {
			return err
		}
		v.SetInt(int64(x))
		return nil
	case reflect.Int64:
		x, err := readSigned[int64](r)
		if err != nil {
			return err
		}
		v.SetInt(x)
		return nil
	case reflect.Uint8:
		x, err := readUnsigned[uint8](r)
		if err != nil {
			return err
		}
		v.SetUint(uint64(x))
		return nil
	case reflect.Uint16:
		x, err := readUnsigned[uint16](r)
		if err != nil {
			return err
		}
		v.SetUint(uint64(x))
		return nil
	case reflect.Uint32:
		x, err := readUnsigned[uint32](r)
		if err != nil {
			return err
		}
		v.SetUint(uint64(x))
		return nil
	case reflect.Uint64:
		x, err := readUnsigned[uint64](r)
		if err != nil {
			return err
		}
		v.SetUint(x)
		return nil
	case reflect.Float32:
		x, err := readFloat[float32](r)
		if err != nil {
			return err
		}
		v.SetFloat(float64(x))
		return nil
	case reflect.Float64:
		x, err := readFloat[float64](r)
		if err != nil {
			return err
		}
		v.SetFloat(x)
		return nil
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := decodeValue(r, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if err := decodeValue(r, v.Field(i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

// writeSigned, writeUnsigned, and writeFloat are generalized once across
// every fixed-width integer and float kind via golang.org/x/exp/constraints
// rather than duplicated by hand per width: the byte width is derived from
// unsafe.Sizeof the instantiated type, so one function body serves
// int8/16/32/64 (or uint8/16/32/64, or float32/64) alike.

func writeSigned[I constraints.Signed](buf []byte, v int64) []byte {
	var x I = I(v)
	width := int(unsafe.Sizeof(x))
	return appendLE(buf, uint64(x), width)
}

func writeUnsigned[I constraints.Unsigned](buf []byte, v uint64) []byte {
	var x I = I(v)
	width := int(unsafe.Sizeof(x))
	return appendLE(buf, uint64(x), width)
}

func writeFloat[F constraints.Float](buf []byte, v float64) []byte {
	switch any(F(0)).(type) {
	case float32:
		return appendLE(buf, uint64(math.Float32bits(float32(v))), 4)
	default:
		return appendLE(buf, math.Float64bits(v), 8)
	}
}

func readSigned[I constraints.Signed](r io.Reader) (I, error) {
	var zero I
	width := int(unsafe.Sizeof(zero))
	u, err := readLE(r, width)
	if err != nil {
		return 0, err
	}
	return signExtend[I](u, width), nil
}

func readUnsigned[I constraints.Unsigned](r io.Reader) (I, error) {
	var zero I
	width := int(unsafe.Sizeof(zero))
	u, err := readLE(r, width)
	if err != nil {
		return 0, err
	}
	return I(u), nil
}

func readFloat[F constraints.Float](r io.Reader) (F, error) {
	switch any(F(0)).(type) {
	case float32:
		u, err := readLE(r, 4)
		if err != nil {
			return 0, err
		}
		return F(math.Float32frombits(uint32(u))), nil
	default:
		u, err := readLE(r, 8)
		if err != nil {
			return 0, err
		}
		return F(math.Float64frombits(u)), nil
	}
}

// signExtend reinterprets the low width bytes of u as a two's-complement
// signed value of the requested type.
func signExtend[I constraints.Signed](u uint64, width int) I {
	shift := 64 - width*8
	return I(int64(u<<shift) >> shift)
}

func appendLE(buf []byte, u uint64, width int) []byte {
	for i := 0; i < width; i++ {
		buf = append(buf, byte(u>>(8*i)))
	}
	return buf
}

func putLE(dst []byte, u uint64, width int) {
	for i := 0; i < width; i++ {
		dst[i] = byte(u >> (8 * i))
	}
}

func getLE(src []byte, width int) uint64 {
	var u uint64
	for i := 0; i < width; i++ {
		u |= uint64(src[i]) << (8 * i)
	}
	return u
}

func readLE(r io.Reader, width int) (uint64, error) {
	var tmp [8]byte
	if _, err := io.ReadFull(r, tmp[:width]); err != nil {
		return 0, err
	}
	return getLE(tmp[:width], width), nil
}
