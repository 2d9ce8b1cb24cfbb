package hal

// PinSink consumes data line level changes and periodic flush ticks.
// *wiegand.Device implements it; a sink is expected to tolerate repeated
// reads of an unchanged level.
type PinSink interface {
	// SetData0 reports a level change on the D0 line.
	SetData0(level bool)
	// SetData1 reports a level change on the D1 line.
	SetData1(level bool)
	// Flush runs the sink's inactivity check. Called periodically.
	Flush()
}
