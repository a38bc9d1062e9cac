// internal/decode/address_test.go
package decode

import "testing"

func TestWireAddress(t *testing.T) {
	cases := []struct {
		class RegisterClass
		user  uint32
		want  uint16
	}{
		{Holding, 40001, 0},
		{Holding, 43269, 3268},
		{Input, 30001, 0},
		{Input, 30010, 9},
	}
	for _, c := range cases {
		got, err := WireAddress(c.class, c.user, 2)
		if err != nil {
			t.Fatalf("%s %d: err=%v", c.class, c.user, err)
		}
		if got != c.want {
			t.Fatalf("%s %d: got %d want %d", c.class, c.user, got, c.want)
		}
	}
}

func TestWireAddress_BelowBase(t *testing.T) {
	if _, err := WireAddress(Holding, 40000, 2); err == nil {
		t.Fatalf("expected error for address below base")
	}
}

func TestWireAddress_Overflow(t *testing.T) {
	if _, err := WireAddress(Holding, 40001+65535, 2); err == nil {
		t.Fatalf("expected error for block past register space")
	}
}

func TestParseEnums(t *testing.T) {
	if o, err := ParseWordOrder("WORD_SWAPPED"); err != nil || o != WordSwapped {
		t.Fatalf("ParseWordOrder got %v %v", o, err)
	}
	if dt, err := ParseDataType("unsigned_int"); err != nil || dt != Uint32 {
		t.Fatalf("ParseDataType got %v %v", dt, err)
	}
	if c, err := ParseRegisterClass("readInputRegisters"); err != nil || c != Input {
		t.Fatalf("ParseRegisterClass got %v %v", c, err)
	}
	if _, err := ParseWordOrder("middle_out"); err == nil {
		t.Fatalf("expected error for unknown word order")
	}
}
