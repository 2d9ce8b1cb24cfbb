package wiegand

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadBit(t *testing.T) {
	var data [2]byte

	writeBit(data[:], 0, true)
	require.Equal(t, byte(0x80), data[0])
	writeBit(data[:], 7, true)
	require.Equal(t, byte(0x81), data[0])
	writeBit(data[:], 8, true)
	require.Equal(t, byte(0x80), data[1])

	require.True(t, readBit(data[:], 0))
	require.False(t, readBit(data[:], 1))
	require.True(t, readBit(data[:], 7))
	require.True(t, readBit(data[:], 8))
	require.False(t, readBit(data[:], 15))

	writeBit(data[:], 0, false)
	require.False(t, readBit(data[:], 0))
	require.Equal(t, byte(0x01), data[0])
}

func TestAlignData(t *testing.T) {
	testCases := []struct {
		name     string
		in       []byte
		start    int
		end      int
		want     []byte
		wantBits int
	}{
		{
			name:  "full bytes are identity",
			in:    []byte{0xAB, 0xCD},
			start: 0, end: 16,
			want: []byte{0xAB, 0xCD}, wantBits: 16,
		},
		{
			name:  "left-packed nibble moves right",
			in:    []byte{0xB0},
			start: 0, end: 4,
			want: []byte{0x0B}, wantBits: 4,
		},
		{
			name:  "already right-aligned range is unchanged",
			in:    []byte{0x0B},
			start: 4, end: 8,
			want: []byte{0x0B}, wantBits: 4,
		},
		{
			name:  "strip one bit from each side",
			in:    []byte{0b10101010, 0b01010101},
			start: 1, end: 15,
			want: []byte{0x15, 0x2A}, wantBits: 14,
		},
		{
			name:  "cross byte range",
			in:    []byte{0xFF, 0x00},
			start: 4, end: 12,
			want: []byte{0xF0}, wantBits: 8,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := make([]byte, maxBytes)
			copy(data, tc.in)
			bits := alignData(data, tc.start, tc.end)
			require.Equal(t, tc.wantBits, bits)
			require.Equal(t, tc.want, data[:len(tc.want)])
		})
	}
}

func TestAlignDataIdempotent(t *testing.T) {
	// aligning the output of alignData again is the identity operation
	data := make([]byte, maxBytes)
	copy(data, []byte{0b11011010, 0b10000000})
	bits := alignData(data, 0, 9)
	require.Equal(t, 9, bits)

	first := append([]byte(nil), data[:2]...)
	offset := 16 - bits
	bits = alignData(data, offset, 16)
	require.Equal(t, 9, bits)
	require.Equal(t, first, data[:2])
}
