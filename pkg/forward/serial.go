// Package forward pushes decoded frames to downstream consumers, the way
// Wiegand to RS232 converter boxes do.
package forward

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/mbalug7/go-wiegand/pkg/wiegand"
	"github.com/tarm/serial"
)

// Serial forwards decoded frames over a serial port, one text line per
// event so downstream controllers can parse them with a line reader.
type Serial struct {
	port io.WriteCloser
}

// NewSerial opens the forwarding port.
func NewSerial(ttyName string, baud int) (*Serial, error) {
	config := &serial.Config{
		Name:        ttyName,
		Baud:        baud,
		Size:        8,
		ReadTimeout: 2 * time.Second,
	}
	port, err := serial.OpenPort(config)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port, err: %w", err)
	}
	return &Serial{port: port}, nil
}

// Data writes a decoded frame as "DATA <bits>:<hex payload>".
func (obj *Serial) Data(data []byte, bits int) error {
	_, err := fmt.Fprintf(obj.port, "DATA %d:%s\r\n", bits, hex.EncodeToString(data))
	if err != nil {
		return fmt.Errorf("failed to forward frame: %w", err)
	}
	return nil
}

// DataError writes a discarded frame as "ERR <kind>:<bits>:<hex raw>".
func (obj *Serial) DataError(kind wiegand.DataError, raw []byte, bits int) error {
	_, err := fmt.Fprintf(obj.port, "ERR %s:%d:%s\r\n", kind, bits, hex.EncodeToString(raw))
	if err != nil {
		return fmt.Errorf("failed to forward frame error: %w", err)
	}
	return nil
}

// State writes reader connection transitions as "STATE <connected>".
func (obj *Serial) State(connected bool) error {
	_, err := fmt.Fprintf(obj.port, "STATE %t\r\n", connected)
	if err != nil {
		return fmt.Errorf("failed to forward state change: %w", err)
	}
	return nil
}

// Close closes the forwarding port.
func (obj *Serial) Close() error {
	err := obj.port.Close()
	if err != nil {
		return fmt.Errorf("failed to close serial stream: %w", err)
	}
	return nil
}
