// Package sim synthesizes Wiegand pulse trains. It is the inverse of the
// decoder: cards are framed with the documented parity layout and replayed
// into a pin sink, which makes loopback testing possible without a reader.
package sim

import (
	"fmt"

	"github.com/mazen160/go-random"
	"github.com/mbalug7/go-wiegand/pkg/card"
	"github.com/mbalug7/go-wiegand/pkg/hal"
)

// Frame is one complete transmission, parity bits included, in wire order.
type Frame struct {
	Bits []bool
}

// Sink is the device surface Replay drives. FlushNow is needed to settle
// the connection baseline before the first pulse.
type Sink interface {
	hal.PinSink
	FlushNow()
}

// Encode frames a card as a 26 or 34 bit transmission: a leading bit
// carrying even parity over the left half, the facility/number payload,
// and a trailing bit carrying odd parity over the right half.
func Encode(c card.Card, bits int) (Frame, error) {
	var facilityWidth int
	switch bits {
	case 26:
		facilityWidth = 8
	case 34:
		facilityWidth = 16
	default:
		return Frame{}, fmt.Errorf("cannot encode a %d bit frame", bits)
	}
	if int(c.Facility) >= 1<<facilityWidth {
		return Frame{}, fmt.Errorf("facility code %d does not fit in %d bits", c.Facility, facilityWidth)
	}

	frame := make([]bool, bits)
	width := bits - 2
	value := uint64(c.Facility)<<16 | uint64(c.Number)
	for i := 0; i < width; i++ {
		frame[1+i] = value>>(width-1-i)&1 == 1
	}

	var left, right bool
	for i := 1; i < (bits+1)/2; i++ {
		left = left != frame[i]
	}
	for i := bits / 2; i < bits-1; i++ {
		right = right != frame[i]
	}
	frame[0] = left
	frame[bits-1] = !right
	return Frame{Bits: frame}, nil
}

// RandomCard draws a card with a random facility code and number fitting
// the given frame length.
func RandomCard(bits int) (card.Card, error) {
	facilityMax := 1 << 8
	switch bits {
	case 26:
	case 34:
		facilityMax = 1 << 16
	default:
		return card.Card{}, fmt.Errorf("cannot draw a card for a %d bit frame", bits)
	}
	facility, err := random.IntRange(0, facilityMax)
	if err != nil {
		return card.Card{}, fmt.Errorf("failed to draw facility code: %w", err)
	}
	number, err := random.IntRange(0, 1<<16)
	if err != nil {
		return card.Card{}, fmt.Errorf("failed to draw card number: %w", err)
	}
	return card.Card{Facility: uint16(facility), Number: uint16(number)}, nil
}

// Replay drives sink with the pulse train for frame: both lines idle high,
// a momentary low pulse on D0 for a zero bit and on D1 for a one bit.
// Auto-length frames are not terminated; the caller decides whether to
// wait out the timeout or force completion with FlushNow.
func Replay(sink Sink, frame Frame) {
	sink.SetData0(true)
	sink.SetData1(true)
	// let the lines settle so the transmission marker is cleared
	sink.FlushNow()
	for _, bit := range frame.Bits {
		if bit {
			sink.SetData1(false)
			sink.SetData1(true)
		} else {
			sink.SetData0(false)
			sink.SetData0(true)
		}
	}
}
