package wiegand

// DataError classifies why a received frame could not be delivered to the
// data callback. Every error event carries the raw, right-aligned bit
// buffer for diagnostics.
type DataError uint8

const (
	// Communication signals that the data lines behaved inconsistently,
	// usually a reader unplugged in the middle of a frame.
	Communication DataError = iota
	// SizeTooBig signals that more bits arrived than the buffer can hold.
	SizeTooBig
	// SizeUnexpected signals that a frame completed with a length that
	// does not match the configured expected length.
	SizeUnexpected
	// DecodeFailed signals that the frame length is not one of the
	// decodable formats (4, 8, 26 or 34 bits).
	DecodeFailed
	// VerificationFailed signals that the frame length is recognized but
	// its parity or nibble check failed.
	VerificationFailed
)

func (e DataError) Error() string {
	switch e {
	case Communication:
		return "communication error"
	case SizeTooBig:
		return "message size too big"
	case SizeUnexpected:
		return "message size unexpected"
	case DecodeFailed:
		return "unsupported message format"
	case VerificationFailed:
		return "message verification failed"
	}
	return "unknown error"
}
