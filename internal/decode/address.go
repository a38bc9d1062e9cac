// internal/decode/address.go
package decode

import (
	"fmt"
	"strings"
)

// RegisterClass selects the register table (and read function code).
type RegisterClass uint8

const (
	Holding RegisterClass = iota // 4xxxx, FC 3
	Input                        // 3xxxx, FC 4
)

func (c RegisterClass) String() string {
	switch c {
	case Holding:
		return "holding"
	case Input:
		return "input"
	}
	return fmt.Sprintf("register_class(%d)", uint8(c))
}

// Base is the first user-facing address of the class.
func (c RegisterClass) Base() uint32 {
	if c == Input {
		return 30001
	}
	return 40001
}

// FunctionCode is the Modbus read function for the class.
func (c RegisterClass) FunctionCode() uint8 {
	if c == Input {
		return 4
	}
	return 3
}

// ParseRegisterClass also accepts the readHoldingRegisters/readInputRegisters spellings.
func ParseRegisterClass(s string) (RegisterClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "holding", "readholdingregisters":
		return Holding, nil
	case "input", "readinputregisters":
		return Input, nil
	}
	return 0, fmt.Errorf("decode: unknown register class %q", s)
}

// WireAddress converts a 1-based user address (e.g. 40001) into the 0-based
// protocol address: wire = user - base. The whole block must fit in 0..65535.
func WireAddress(class RegisterClass, user uint32, count uint16) (uint16, error) {
	base := class.Base()
	if user < base {
		return 0, fmt.Errorf("decode: %s address %d below %d", class, user, base)
	}
	wire := user - base
	if wire+uint32(count) > 0x10000 {
		return 0, fmt.Errorf("decode: %s address %d with count %d exceeds register space", class, user, count)
	}
	return uint16(wire), nil
}
