// internal/decode/types.go
package decode

import (
	"fmt"
	"strings"
)

// WordOrder describes how a register block is reassembled into one bit pattern.
// It is supplied per target; it is never inferred.
type WordOrder uint8

const (
	MSBFirst               WordOrder = iota // ABCD
	LSBFirst                                // (w1<<16)|w0
	WordSwapped                             // pack [w1, w0], read big-endian
	ByteSwapped                             // BADC
	WordSwappedByteSwapped                  // DCBA
)

var wordOrderNames = map[WordOrder]string{
	MSBFirst:               "msb_first",
	LSBFirst:               "lsb_first",
	WordSwapped:            "word_swapped",
	ByteSwapped:            "byte_swapped",
	WordSwappedByteSwapped: "word_swapped_byte_swapped",
}

func (o WordOrder) String() string {
	if s, ok := wordOrderNames[o]; ok {
		return s
	}
	return fmt.Sprintf("word_order(%d)", uint8(o))
}

// ParseWordOrder accepts the config spelling (case-insensitive).
// Empty input means msb_first.
func ParseWordOrder(s string) (WordOrder, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return MSBFirst, nil
	}
	for o, name := range wordOrderNames {
		if name == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("decode: unknown word order %q", s)
}

// DataType determines bit width and interpretation of the reassembled pattern.
type DataType uint8

const (
	Uint16 DataType = iota + 1
	Int16
	Uint32
	Int32
	Float32
)

var dataTypeNames = map[DataType]string{
	Uint16:  "uint16",
	Int16:   "int16",
	Uint32:  "uint32",
	Int32:   "int32",
	Float32: "float32",
}

func (t DataType) String() string {
	if s, ok := dataTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("data_type(%d)", uint8(t))
}

// Words is the exact register count a block of this type must have.
// Unknown types report 0.
func (t DataType) Words() int {
	switch t {
	case Uint16, Int16:
		return 1
	case Uint32, Int32, Float32:
		return 2
	}
	return 0
}

// Signed reports whether the pattern is read as two's complement.
func (t DataType) Signed() bool { return t == Int16 || t == Int32 }

// Integer reports whether the type is a plain integer type.
func (t DataType) Integer() bool { return t != Float32 && t.Words() > 0 }

func ParseDataType(s string) (DataType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	// spellings used by the gauge backend
	switch s {
	case "unsigned_int":
		return Uint32, nil
	case "signed_int":
		return Int32, nil
	case "float":
		return Float32, nil
	}
	for t, name := range dataTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("decode: unknown data type %q", s)
}
