// Package card extracts application-level fields from decoded Wiegand
// payloads. The protocol core always delivers one opaque, right-aligned
// bit buffer; the layouts here are the common HID ones layered on top.
package card

import "fmt"

// Card is a decoded access card.
type Card struct {
	Facility uint16
	Number   uint16
}

func (c Card) String() string {
	return fmt.Sprintf("%d:%d", c.Facility, c.Number)
}

// Parse extracts the facility code and card number from a payload as
// delivered by the data callback.
//
// Supported payload widths: 24 bits (a 26-bit H10301 frame after parity
// stripping: 8-bit facility, 16-bit number) and 32 bits (a 34-bit frame:
// 16-bit facility, 16-bit number).
func Parse(data []byte, bits int) (Card, error) {
	switch bits {
	case 24:
		if len(data) < 3 {
			return Card{}, fmt.Errorf("payload too short: got %d bytes, want 3", len(data))
		}
		return Card{
			Facility: uint16(data[0]),
			Number:   uint16(data[1])<<8 | uint16(data[2]),
		}, nil
	case 32:
		if len(data) < 4 {
			return Card{}, fmt.Errorf("payload too short: got %d bytes, want 4", len(data))
		}
		return Card{
			Facility: uint16(data[0])<<8 | uint16(data[1]),
			Number:   uint16(data[2])<<8 | uint16(data[3]),
		}, nil
	}
	return Card{}, fmt.Errorf("no facility/number layout for a %d bit payload", bits)
}

// Key maps a 4-bit keypad payload to the pressed key: '0'-'9', '*' (escape)
// or '#' (enter).
func Key(data []byte, bits int) (byte, error) {
	if bits != 4 || len(data) == 0 {
		return 0, fmt.Errorf("not a keypad payload: %d bits", bits)
	}
	value := data[0] & 0x0F
	switch {
	case value <= 9:
		return '0' + value, nil
	case value == 0x0A:
		return '*', nil
	case value == 0x0B:
		return '#', nil
	}
	return 0, fmt.Errorf("unknown keypad code %#x", value)
}
