// internal/decode/decode.go
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrLengthMismatch is matched (errors.Is) by every *LengthMismatchError.
var ErrLengthMismatch = errors.New("decode: register block length mismatch")

// ErrUnknownType is returned for a DataType or WordOrder outside the enums.
var ErrUnknownType = errors.New("decode: unknown type")

// LengthMismatchError reports a block whose length does not match its DataType.
type LengthMismatchError struct {
	Type DataType
	Want int
	Got  int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("decode: %s needs %d register(s), got %d", e.Type, e.Want, e.Got)
}

func (e *LengthMismatchError) Is(target error) bool { return target == ErrLengthMismatch }

// Value is a decoded register block: the reassembled bit pattern and how to read it.
// 16-bit types keep their pattern in the low half of Bits.
type Value struct {
	Type DataType
	Bits uint32
}

// Float64 returns the numeric interpretation of the pattern.
// NaN and Inf patterns are returned as-is.
func (v Value) Float64() float64 {
	switch v.Type {
	case Uint16:
		return float64(uint16(v.Bits))
	case Int16:
		return float64(int16(uint16(v.Bits)))
	case Uint32:
		return float64(v.Bits)
	case Int32:
		return float64(int32(v.Bits))
	case Float32:
		return float64(math.Float32frombits(v.Bits))
	}
	return 0
}

// Int64 returns the integer interpretation; ok is false for float types.
func (v Value) Int64() (n int64, ok bool) {
	switch v.Type {
	case Uint16:
		return int64(uint16(v.Bits)), true
	case Int16:
		return int64(int16(uint16(v.Bits))), true
	case Uint32:
		return int64(v.Bits), true
	case Int32:
		return int64(int32(v.Bits)), true
	}
	return 0, false
}

// FromFloat32 builds a Float32 value from f, bit exact.
func FromFloat32(f float32) Value {
	return Value{Type: Float32, Bits: math.Float32bits(f)}
}

// Decode converts an ordered register block into a typed value.
// Pure: no I/O, no state. Scaling is not applied here.
func Decode(words []uint16, order WordOrder, dtype DataType) (Value, error) {
	want := dtype.Words()
	if want == 0 {
		return Value{}, fmt.Errorf("%w: %s", ErrUnknownType, dtype)
	}
	if len(words) != want {
		return Value{}, &LengthMismatchError{Type: dtype, Want: want, Got: len(words)}
	}

	var bits uint32
	var err error
	if want == 1 {
		bits, err = reassemble16(words[0], order)
	} else {
		bits, err = reassemble32(words[0], words[1], order)
	}
	if err != nil {
		return Value{}, err
	}
	return Value{Type: dtype, Bits: bits}, nil
}

func reassemble16(w uint16, order WordOrder) (uint32, error) {
	switch order {
	case MSBFirst, LSBFirst, WordSwapped:
		return uint32(w), nil
	case ByteSwapped, WordSwappedByteSwapped:
		return uint32(w<<8 | w>>8), nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownType, order)
}

func reassemble32(w0, w1 uint16, order WordOrder) (uint32, error) {
	switch order {
	case MSBFirst:
		return uint32(w0)<<16 | uint32(w1), nil

	case LSBFirst:
		return uint32(w1)<<16 | uint32(w0), nil

	case WordSwapped:
		var b [4]byte
		binary.BigEndian.PutUint16(b[0:2], w1)
		binary.BigEndian.PutUint16(b[2:4], w0)
		return binary.BigEndian.Uint32(b[:]), nil

	case ByteSwapped:
		var b [4]byte
		binary.LittleEndian.PutUint16(b[0:2], w0)
		binary.LittleEndian.PutUint16(b[2:4], w1)
		return binary.BigEndian.Uint32(b[:]), nil

	case WordSwappedByteSwapped:
		var b [4]byte
		binary.BigEndian.PutUint16(b[0:2], w0)
		binary.BigEndian.PutUint16(b[2:4], w1)
		return binary.LittleEndian.Uint32(b[:]), nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownType, order)
}

// Encode is the inverse of Decode: it lays v out as registers in the given order.
func Encode(v Value, order WordOrder) ([]uint16, error) {
	switch v.Type.Words() {
	case 1:
		w := uint16(v.Bits)
		switch order {
		case MSBFirst, LSBFirst, WordSwapped:
			return []uint16{w}, nil
		case ByteSwapped, WordSwappedByteSwapped:
			return []uint16{w<<8 | w>>8}, nil
		}

	case 2:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], v.Bits)
		hi := binary.BigEndian.Uint16(b[0:2])
		lo := binary.BigEndian.Uint16(b[2:4])
		switch order {
		case MSBFirst:
			return []uint16{hi, lo}, nil
		case LSBFirst, WordSwapped:
			return []uint16{lo, hi}, nil
		case ByteSwapped:
			return []uint16{
				binary.LittleEndian.Uint16(b[0:2]),
				binary.LittleEndian.Uint16(b[2:4]),
			}, nil
		case WordSwappedByteSwapped:
			return []uint16{
				binary.LittleEndian.Uint16(b[2:4]),
				binary.LittleEndian.Uint16(b[0:2]),
			}, nil
		}

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, v.Type)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, order)
}
