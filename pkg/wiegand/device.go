// Package wiegand decodes the two-wire bit-serial pulses emitted by
// Wiegand access-control readers into framed messages.
//
// The package holds no locks and never enters the system scheduler: every
// call is synchronous and bounded, and the bit buffer has a fixed capacity
// chosen at construction. Pin updates and the Flush polling call must not
// run concurrently; the hal package provides a monitor that takes care of
// that on Linux GPIO character devices.
package wiegand

import (
	"fmt"
	"time"
)

const (
	// LengthAny configures automatic frame length detection. The end of a
	// frame is inferred from inactivity, so Flush must be called
	// frequently from the caller's loop.
	LengthAny uint8 = 0xFF

	// MaxBits is the hard capacity of the bit buffer.
	MaxBits = 64

	maxBytes = MaxBits / 8

	// DefaultTimeout is the inactivity threshold, in milliseconds, after
	// which the pending frame is considered complete.
	DefaultTimeout uint32 = 25
)

// DataCb receives a decoded frame. The slice aliases the device buffer and
// is only valid for the duration of the call.
type DataCb func(data []byte, bits int)

// DataErrorCb receives a frame that could not be decoded, along with the
// raw right-aligned buffer it arrived in.
type DataErrorCb func(kind DataError, raw []byte, bits int)

// StateCb receives reader connection transitions.
type StateCb func(connected bool)

// Device is the per-reader protocol state machine. It consumes pin level
// changes on the D0/D1 lines, accumulates pulses into a bit buffer and
// dispatches complete frames through the registered callbacks, always
// within the call stack of SetPinState, Flush or FlushNow.
type Device struct {
	expectedBits uint8
	decode       bool
	maxBits      int
	timeout      uint32
	now          func() uint32

	pin0        bool
	pin1        bool
	connected   bool
	initialized bool

	errTransmission bool
	errOverflow     bool

	bits      int
	data      [maxBytes]byte
	timestamp uint32

	dataCb  DataCb
	errorCb DataErrorCb
	stateCb StateCb
}

// Option configures a Device before use.
type Option func(*Device)

// WithTimeout sets the inactivity threshold, in milliseconds, used to
// detect the end of an auto-length frame.
func WithTimeout(ms uint32) Option {
	return func(d *Device) {
		d.timeout = ms
	}
}

// WithMaxBits caps the bit buffer at n bits. Values outside [1, MaxBits]
// keep the default capacity.
func WithMaxBits(n int) Option {
	return func(d *Device) {
		if n >= 1 && n <= MaxBits {
			d.maxBits = n
		}
	}
}

// WithClock replaces the millisecond clock, mostly useful in tests. The
// clock must be monotonic; wrapping around zero is tolerated.
func WithClock(clock func() uint32) Option {
	return func(d *Device) {
		d.now = clock
	}
}

// NewDevice constructs an idle device. Begin must be called before any
// pin activity is accepted.
func NewDevice(opts ...Option) *Device {
	start := time.Now()
	d := &Device{
		maxBits: MaxBits,
		timeout: DefaultTimeout,
		now: func() uint32 {
			return uint32(time.Since(start).Milliseconds())
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RegisterDataCb attaches the handler called whenever a message has been
// received without errors. Only one handler can be registered.
func (obj *Device) RegisterDataCb(cb DataCb) error {
	if obj.dataCb != nil {
		return fmt.Errorf("data callback already registered")
	}
	obj.dataCb = cb
	return nil
}

// RegisterDataErrorCb attaches the handler called when a frame is
// discarded. Only one handler can be registered.
func (obj *Device) RegisterDataErrorCb(cb DataErrorCb) error {
	if obj.errorCb != nil {
		return fmt.Errorf("data error callback already registered")
	}
	obj.errorCb = cb
	return nil
}

// RegisterStateCb attaches the handler called when a reader is attached or
// detached. Detachable readers need pull-down resistors on both data
// lines, otherwise noise produces bogus notifications. Only one handler
// can be registered.
func (obj *Device) RegisterStateCb(cb StateCb) error {
	if obj.stateCb != nil {
		return fmt.Errorf("state callback already registered")
	}
	obj.stateCb = cb
	return nil
}

// Begin (re)initializes the device and starts accepting pin activity.
//
// If expectedBits is a fixed frame length (usually 4, 8, 26 or 34), the
// data callback fires immediately after the last bit. With LengthAny the
// end of a frame is detected by inactivity instead, and Flush has to be
// called frequently from the caller's loop.
//
// If decodeMessages is set, parity bits are checked and stripped before
// dispatch, otherwise the raw frame is delivered unchanged.
//
// The current connection state is reported once through the state
// callback, so callers start from a known baseline.
func (obj *Device) Begin(expectedBits uint8, decodeMessages bool) {
	obj.expectedBits = expectedBits
	obj.decode = decodeMessages

	// bits can only be accepted after a few quiet millis in the ready
	// state, so start with the transmission marker set
	obj.bits = 0
	obj.timestamp = obj.now()
	obj.initialized = true
	obj.errOverflow = false
	obj.errTransmission = true

	if obj.stateCb != nil {
		obj.stateCb(obj.connected)
	}
}

// End deactivates the device. Pin updates are ignored until Begin is
// called again. The stored line levels survive, so reconnection detection
// keeps working across Begin/End cycles.
func (obj *Device) End() {
	obj.expectedBits = 0
	obj.bits = 0
	obj.timestamp = obj.now()
	obj.initialized = false
	obj.errTransmission = false
	obj.errOverflow = false
}

// Reset discards the accumulated bits and error flags without touching the
// configuration. A transmission must start with both lines high; if they
// are not, the transmission marker stays set so a partial frame is flagged.
func (obj *Device) Reset() {
	obj.bits = 0
	obj.errOverflow = false
	obj.errTransmission = !(obj.pin0 && obj.pin1)
}

// IsActive reports whether the device has been started with Begin and a
// reader is currently connected.
func (obj *Device) IsActive() bool {
	return obj.initialized && obj.connected
}

// SetPinState notifies the device that data line pin (0 or 1) changed to
// level. Repeated reads of an unchanged level are ignored.
func (obj *Device) SetPinState(pin uint8, level bool) {
	// drain a stale pending frame before processing new activity
	obj.Flush()

	stored := &obj.pin0
	if pin != 0 {
		stored = &obj.pin1
	}
	if *stored == level {
		return
	}
	*stored = level
	obj.timestamp = obj.now()

	switch {
	case obj.pin0 && obj.pin1:
		if obj.connected {
			// both lines back high: end of a pulse, and the line that
			// pulsed is the bit value
			obj.addBit(pin != 0)
			return
		}
		// reader attached right now: connected, but unstable until the
		// lines settle
		obj.connected = true
		obj.errOverflow = false
		obj.errTransmission = true
		if obj.stateCb != nil {
			obj.stateCb(true)
		}

	case !obj.pin0 && !obj.pin1:
		if !obj.connected {
			return
		}
		// reader detached: flush the truncated frame, then report
		obj.errTransmission = true
		obj.FlushNow()
		obj.connected = false
		obj.errTransmission = false
		obj.errOverflow = false
		if obj.stateCb != nil {
			obj.stateCb(false)
		}
	}
}

// SetData0 notifies the device that the D0 line changed to level.
func (obj *Device) SetData0(level bool) {
	obj.SetPinState(0, level)
}

// SetData1 notifies the device that the D1 line changed to level.
func (obj *Device) SetData1(level bool) {
	obj.SetPinState(1, level)
}

// Flush completes the pending frame once the inactivity timeout has
// expired, dispatching it to the callbacks and resetting the accumulator.
// It has to be called frequently from the caller's loop when using
// LengthAny; fixed-length formats complete on their own. Without a
// connected reader this is a no-op.
func (obj *Device) Flush() {
	if !obj.connected {
		return
	}
	// unsigned subtraction keeps this correct across timer wraparound
	elapsed := obj.now() - obj.timestamp
	if elapsed > obj.timeout {
		obj.flushData()
		obj.Reset()
	}
}

// FlushNow unconditionally completes the pending frame and resets the
// accumulator, without waiting for the timeout.
func (obj *Device) FlushNow() {
	obj.flushData()
	obj.Reset()
}

// addBit appends one bit to the frame.
func (obj *Device) addBit(value bool) {
	if !obj.initialized || !obj.connected {
		return
	}
	if obj.bits >= obj.maxBits {
		obj.errOverflow = true
	} else {
		writeBit(obj.data[:], obj.bits, value)
		obj.bits++
	}

	// with a fixed frame length there is no need to wait for the timeout
	if obj.expectedBits > 0 && obj.expectedBits != LengthAny && obj.bits == int(obj.expectedBits) {
		obj.flushData()
		obj.Reset()
	}
}
