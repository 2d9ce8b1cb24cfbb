//go:build pico

package pico

import (
	"machine"

	"github.com/mbalug7/go-wiegand/pkg/hal"
)

// Monitor feeds D0/D1 edges from machine pins into a PinSink on TinyGo
// targets. Pin interrupts deliver the edges; the main loop has to call
// Poll frequently to drive the sink's inactivity check.
//
// Interrupt handlers preempt the main loop, so Poll masks the pin
// interrupts while the sink runs.
type Monitor struct {
	d0Pin machine.Pin
	d1Pin machine.Pin
	sink  hal.PinSink
}

// NewMonitor configures d0Pin and d1Pin as inputs with pull-downs (so a
// detached reader reads as both lines low) and attaches the edge handlers.
func NewMonitor(d0Pin machine.Pin, d1Pin machine.Pin, sink hal.PinSink) (*Monitor, error) {
	m := &Monitor{
		d0Pin: d0Pin,
		d1Pin: d1Pin,
		sink:  sink,
	}
	d0Pin.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	d1Pin.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})

	err := d0Pin.SetInterrupt(machine.PinRising|machine.PinFalling, func(p machine.Pin) {
		m.sink.SetData0(p.Get())
	})
	if err != nil {
		return nil, err
	}
	err = d1Pin.SetInterrupt(machine.PinRising|machine.PinFalling, func(p machine.Pin) {
		m.sink.SetData1(p.Get())
	})
	if err != nil {
		return nil, err
	}

	// push the levels observed at startup so the sink can detect an
	// already connected reader
	m.sink.SetData0(d0Pin.Get())
	m.sink.SetData1(d1Pin.Get())
	return m, nil
}

// Poll runs the sink's inactivity check with the pin interrupts masked.
// Call it from the main loop, more often than the sink's frame timeout.
func (obj *Monitor) Poll() {
	obj.d0Pin.SetInterrupt(machine.PinRising|machine.PinFalling, nil)
	obj.d1Pin.SetInterrupt(machine.PinRising|machine.PinFalling, nil)
	obj.sink.Flush()
	obj.d0Pin.SetInterrupt(machine.PinRising|machine.PinFalling, func(p machine.Pin) {
		obj.sink.SetData0(p.Get())
	})
	obj.d1Pin.SetInterrupt(machine.PinRising|machine.PinFalling, func(p machine.Pin) {
		obj.sink.SetData1(p.Get())
	})
}

// Close detaches the interrupt handlers.
func (obj *Monitor) Close() error {
	err := obj.d0Pin.SetInterrupt(machine.PinRising|machine.PinFalling, nil)
	if err != nil {
		return err
	}
	return obj.d1Pin.SetInterrupt(machine.PinRising|machine.PinFalling, nil)
}
