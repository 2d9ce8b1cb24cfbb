package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mbalug7/go-wiegand/pkg/card"
	"github.com/mbalug7/go-wiegand/pkg/wiegand"
)

func bitsOf(s string) []bool {
	var out []bool
	for _, c := range s {
		switch c {
		case '0':
			out = append(out, false)
		case '1':
			out = append(out, true)
		}
	}
	return out
}

func TestEncodeKnownFrames(t *testing.T) {
	frame, err := Encode(card.Card{Facility: 15, Number: 0x1234}, 26)
	require.NoError(t, err)
	require.Equal(t, bitsOf("1 000011110001 001000110100 1"), frame.Bits)

	frame, err = Encode(card.Card{Facility: 0xBEEF, Number: 0x1234}, 34)
	require.NoError(t, err)
	require.Equal(t, bitsOf("1 1011111011101111 0001001000110100 0"), frame.Bits)
}

func TestEncodeRejectsInvalidInput(t *testing.T) {
	_, err := Encode(card.Card{}, 12)
	require.Error(t, err)

	// facility code over 8 bits does not fit a 26-bit frame
	_, err = Encode(card.Card{Facility: 256}, 26)
	require.Error(t, err)
}

func TestReplayLoopback(t *testing.T) {
	testCases := []struct {
		bits int
		c    card.Card
	}{
		{26, card.Card{Facility: 15, Number: 4660}},
		{26, card.Card{Facility: 255, Number: 65535}},
		{26, card.Card{}},
		{34, card.Card{Facility: 0xBEEF, Number: 4660}},
	}

	for _, tc := range testCases {
		d := wiegand.NewDevice(wiegand.WithClock(func() uint32 { return 0 }))
		var got []card.Card
		require.NoError(t, d.RegisterDataCb(func(data []byte, bits int) {
			c, err := card.Parse(data, bits)
			require.NoError(t, err)
			got = append(got, c)
		}))
		require.NoError(t, d.RegisterDataErrorCb(func(kind wiegand.DataError, raw []byte, bits int) {
			t.Fatalf("unexpected %s for %v", kind, tc.c)
		}))

		d.Begin(uint8(tc.bits), true)
		frame, err := Encode(tc.c, tc.bits)
		require.NoError(t, err)
		Replay(d, frame)

		require.Equal(t, []card.Card{tc.c}, got)
	}
}

func TestRandomCardFitsFrame(t *testing.T) {
	for i := 0; i < 20; i++ {
		c, err := RandomCard(26)
		require.NoError(t, err)
		require.Less(t, int(c.Facility), 256)

		_, err = Encode(c, 26)
		require.NoError(t, err)
	}

	_, err := RandomCard(12)
	require.Error(t, err)
}
