// internal/decode/decode_test.go
package decode

import (
	"errors"
	"math"
	"testing"
)

func TestDecode_MSBFirstUint32(t *testing.T) {
	v, err := Decode([]uint16{0x0001, 0x0002}, MSBFirst, Uint32)
	if err != nil {
		t.Fatalf("Decode err=%v", err)
	}
	if v.Bits != 0x00010002 || v.Float64() != 65538 {
		t.Fatalf("got bits=0x%08X value=%v, want 65538", v.Bits, v.Float64())
	}
}

func TestDecode_WordSwappedFloatOne(t *testing.T) {
	v, err := Decode([]uint16{0x0000, 0x3F80}, WordSwapped, Float32)
	if err != nil {
		t.Fatalf("Decode err=%v", err)
	}
	if v.Float64() != 1.0 {
		t.Fatalf("got %v, want 1.0", v.Float64())
	}
}

func TestDecode_IntegerIdentities(t *testing.T) {
	samples := []uint16{0, 1, 2, 0x00FF, 0x7FFF, 0x8000, 0xABCD, 0xFFFE, 0xFFFF}

	for _, a := range samples {
		for _, b := range samples {
			msb, err := Decode([]uint16{a, b}, MSBFirst, Uint32)
			if err != nil {
				t.Fatalf("msb err=%v", err)
			}
			if want := uint32(a)<<16 | uint32(b); msb.Bits != want {
				t.Fatalf("msb [%04X %04X]: got %08X want %08X", a, b, msb.Bits, want)
			}

			lsb, err := Decode([]uint16{a, b}, LSBFirst, Uint32)
			if err != nil {
				t.Fatalf("lsb err=%v", err)
			}
			if want := uint32(b)<<16 | uint32(a); lsb.Bits != want {
				t.Fatalf("lsb [%04X %04X]: got %08X want %08X", a, b, lsb.Bits, want)
			}
		}
	}
}

func TestDecode_SignedTwosComplement(t *testing.T) {
	v, err := Decode([]uint16{0xFFFF, 0xFFFE}, MSBFirst, Int32)
	if err != nil {
		t.Fatalf("Decode err=%v", err)
	}
	if n, ok := v.Int64(); !ok || n != -2 {
		t.Fatalf("got %d ok=%v, want -2", n, ok)
	}

	v, err = Decode([]uint16{0x8000}, MSBFirst, Int16)
	if err != nil {
		t.Fatalf("Decode err=%v", err)
	}
	if v.Float64() != -32768 {
		t.Fatalf("got %v, want -32768", v.Float64())
	}
}

func TestDecode_ByteOrders(t *testing.T) {
	// 0x11223344 laid out four ways
	cases := []struct {
		order WordOrder
		words []uint16
	}{
		{MSBFirst, []uint16{0x1122, 0x3344}},
		{LSBFirst, []uint16{0x3344, 0x1122}},
		{WordSwapped, []uint16{0x3344, 0x1122}},
		{ByteSwapped, []uint16{0x2211, 0x4433}},
		{WordSwappedByteSwapped, []uint16{0x4433, 0x2211}},
	}

	for _, c := range cases {
		v, err := Decode(c.words, c.order, Uint32)
		if err != nil {
			t.Fatalf("%s: err=%v", c.order, err)
		}
		if v.Bits != 0x11223344 {
			t.Fatalf("%s: got %08X want 11223344", c.order, v.Bits)
		}

		back, err := Encode(v, c.order)
		if err != nil {
			t.Fatalf("%s: encode err=%v", c.order, err)
		}
		if back[0] != c.words[0] || back[1] != c.words[1] {
			t.Fatalf("%s: encode got %04X want %04X", c.order, back, c.words)
		}
	}
}

func TestDecode_Float32RoundTripWordSwapped(t *testing.T) {
	for _, f := range []float32{0, 1, -1, 3.1415927, 1e-38, 6.02e23, -123456.78, math.MaxFloat32} {
		regs, err := Encode(FromFloat32(f), WordSwapped)
		if err != nil {
			t.Fatalf("encode err=%v", err)
		}
		v, err := Decode(regs, WordSwapped, Float32)
		if err != nil {
			t.Fatalf("decode err=%v", err)
		}
		if v.Bits != math.Float32bits(f) {
			t.Fatalf("round trip %v: got bits %08X want %08X", f, v.Bits, math.Float32bits(f))
		}
	}
}

func TestDecode_NaNAndInfPassThrough(t *testing.T) {
	v, err := Decode([]uint16{0x7FC0, 0x0000}, MSBFirst, Float32)
	if err != nil {
		t.Fatalf("NaN pattern should decode, err=%v", err)
	}
	if !math.IsNaN(v.Float64()) {
		t.Fatalf("expected NaN, got %v", v.Float64())
	}

	v, err = Decode([]uint16{0xFF80, 0x0000}, MSBFirst, Float32)
	if err != nil {
		t.Fatalf("Inf pattern should decode, err=%v", err)
	}
	if !math.IsInf(v.Float64(), -1) {
		t.Fatalf("expected -Inf, got %v", v.Float64())
	}
}

func TestDecode_AllZero(t *testing.T) {
	for _, dt := range []DataType{Uint16, Int16, Uint32, Int32, Float32} {
		v, err := Decode(make([]uint16, dt.Words()), MSBFirst, dt)
		if err != nil {
			t.Fatalf("%s: err=%v", dt, err)
		}
		if v.Float64() != 0 {
			t.Fatalf("%s: got %v want 0", dt, v.Float64())
		}
	}
}

func TestDecode_LengthMismatch(t *testing.T) {
	for _, dt := range []DataType{Uint16, Int16, Uint32, Int32, Float32} {
		for n := 0; n <= 4; n++ {
			if n == dt.Words() {
				continue
			}
			_, err := Decode(make([]uint16, n), MSBFirst, dt)
			if !errors.Is(err, ErrLengthMismatch) {
				t.Fatalf("%s len=%d: expected ErrLengthMismatch, got %v", dt, n, err)
			}
			var lm *LengthMismatchError
			if !errors.As(err, &lm) || lm.Got != n || lm.Want != dt.Words() {
				t.Fatalf("%s len=%d: bad mismatch detail %v", dt, n, err)
			}
		}
	}

	if _, err := Decode(nil, MSBFirst, Float32); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("nil block: expected ErrLengthMismatch, got %v", err)
	}
}

func TestDecode_Idempotent(t *testing.T) {
	words := []uint16{0x4049, 0x0FDB}
	a, errA := Decode(words, MSBFirst, Float32)
	b, errB := Decode(words, MSBFirst, Float32)
	if a != b || errA != errB {
		t.Fatalf("decode not idempotent: %v/%v vs %v/%v", a, errA, b, errB)
	}
	if words[0] != 0x4049 || words[1] != 0x0FDB {
		t.Fatalf("input mutated: %04X", words)
	}
}

func TestDecode_SixteenBitByteSwap(t *testing.T) {
	v, err := Decode([]uint16{0x3412}, ByteSwapped, Uint16)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if v.Float64() != 0x1234 {
		t.Fatalf("got %v want %v", v.Float64(), 0x1234)
	}
}

func TestDecode_UnknownType(t *testing.T) {
	if _, err := Decode([]uint16{1, 2}, MSBFirst, DataType(99)); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if _, err := Decode([]uint16{1, 2}, WordOrder(99), Uint32); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}
