package wiegand

// writeBit sets the i-th bit of data. Bit 0 is the most significant bit of
// data[0], matching the order bits arrive on the wire.
func writeBit(data []byte, i int, value bool) {
	if value {
		data[i>>3] |= 0x80 >> (i & 7)
	} else {
		data[i>>3] &^= 0x80 >> (i & 7)
	}
}

// readBit returns the i-th bit of data.
func readBit(data []byte, i int) bool {
	return data[i>>3]&(0x80>>(i&7)) != 0
}

// alignData shrinks data to the [start, end) bit range and right-aligns it
// in place, left-padding with zero bits to the nearest byte boundary. The
// first bit of the range becomes the most significant meaningful bit.
// Aligning a range that is already right-aligned leaves the bits unchanged.
//
// It returns the number of bits in the range.
func alignData(data []byte, start, end int) int {
	var aligned [maxBytes]byte

	bits := end - start
	nbytes := (bits + 7) / 8
	offset := 8*nbytes - bits

	for i := 0; i < bits; i++ {
		writeBit(aligned[:], i+offset, readBit(data, i+start))
	}
	copy(data, aligned[:nbytes])
	return bits
}
