package hal

import (
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/gpiod"
)

// DefaultPollInterval is how often the monitor runs the sink's inactivity
// check. It has to stay well below the sink's frame timeout, otherwise
// auto-length frames are delivered late.
const DefaultPollInterval = 5 * time.Millisecond

// Monitor watches the D0 and D1 GPIO lines of a reader and feeds every
// edge into a PinSink. Edge events arrive on the gpiod event goroutine
// while the flush loop runs on its own ticker goroutine; the monitor owns
// the mutual exclusion between the two, so the sink needs no locking of
// its own.
type Monitor struct {
	chip   *gpiod.Chip
	d0Line *gpiod.Line
	d1Line *gpiod.Line
	sink   PinSink
	mu     sync.Mutex // serializes edge events against the flush ticker
	done   chan struct{}
}

// NewMonitor requests the d0Pin and d1Pin lines on the named GPIO chip and
// starts feeding sink. The levels observed at startup are pushed first so
// the sink can detect an already connected reader.
func NewMonitor(gpioChip string, d0Pin int, d1Pin int, sink PinSink) (*Monitor, error) {
	m := &Monitor{
		sink: sink,
		done: make(chan struct{}),
	}
	c, err := gpiod.NewChip(gpioChip, gpiod.WithConsumer("wiegand-reader"))
	if err != nil {
		return nil, fmt.Errorf("failed to create GPIO chip: %w", err)
	}
	m.chip = c

	m.d0Line, err = c.RequestLine(d0Pin, gpiod.WithEventHandler(m.onData0Event), gpiod.WithBothEdges)
	if err != nil {
		return nil, fmt.Errorf("failed to request D0 GPIO line: %w", err)
	}
	m.d1Line, err = c.RequestLine(d1Pin, gpiod.WithEventHandler(m.onData1Event), gpiod.WithBothEdges)
	if err != nil {
		return nil, fmt.Errorf("failed to request D1 GPIO line: %w", err)
	}

	d0Val, err := m.d0Line.Value()
	if err != nil {
		return nil, fmt.Errorf("failed to read initial D0 line value: %w", err)
	}
	d1Val, err := m.d1Line.Value()
	if err != nil {
		return nil, fmt.Errorf("failed to read initial D1 line value: %w", err)
	}
	m.mu.Lock()
	m.sink.SetData0(d0Val == 1)
	m.sink.SetData1(d1Val == 1)
	m.mu.Unlock()

	go m.pollFlush(DefaultPollInterval)
	return m, nil
}

func (obj *Monitor) onData0Event(evt gpiod.LineEvent) {
	obj.mu.Lock()
	obj.sink.SetData0(evt.Type == gpiod.LineEventRisingEdge)
	obj.mu.Unlock()
}

func (obj *Monitor) onData1Event(evt gpiod.LineEvent) {
	obj.mu.Lock()
	obj.sink.SetData1(evt.Type == gpiod.LineEventRisingEdge)
	obj.mu.Unlock()
}

func (obj *Monitor) pollFlush(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-obj.done:
			return
		case <-ticker.C:
			obj.mu.Lock()
			obj.sink.Flush()
			obj.mu.Unlock()
		}
	}
}

// Close stops the flush loop and releases the GPIO lines.
func (obj *Monitor) Close() error {
	close(obj.done)
	err := obj.d0Line.Close()
	if err != nil {
		return fmt.Errorf("failed to close D0 line: %w", err)
	}
	err = obj.d1Line.Close()
	if err != nil {
		return fmt.Errorf("failed to close D1 line: %w", err)
	}
	err = obj.chip.Close()
	if err != nil {
		return fmt.Errorf("failed to close GPIO chip: %w", err)
	}
	return nil
}
