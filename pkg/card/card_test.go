package card

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		data    []byte
		bits    int
		want    Card
		wantErr bool
	}{
		{
			name: "26-bit payload",
			data: []byte{0x0F, 0x12, 0x34},
			bits: 24,
			want: Card{Facility: 15, Number: 0x1234},
		},
		{
			name: "34-bit payload",
			data: []byte{0xBE, 0xEF, 0x12, 0x34},
			bits: 32,
			want: Card{Facility: 0xBEEF, Number: 0x1234},
		},
		{
			name:    "short slice",
			data:    []byte{0x0F},
			bits:    24,
			wantErr: true,
		},
		{
			name:    "unsupported width",
			data:    []byte{0xFF},
			bits:    8,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.data, tc.bits)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestCardString(t *testing.T) {
	require.Equal(t, "15:4660", Card{Facility: 15, Number: 4660}.String())
}

func TestKey(t *testing.T) {
	for digit := byte(0); digit <= 9; digit++ {
		key, err := Key([]byte{digit}, 4)
		require.NoError(t, err)
		require.Equal(t, '0'+digit, key)
	}

	key, err := Key([]byte{0x0A}, 4)
	require.NoError(t, err)
	require.Equal(t, byte('*'), key)

	key, err = Key([]byte{0x0B}, 4)
	require.NoError(t, err)
	require.Equal(t, byte('#'), key)

	_, err = Key([]byte{0x0C}, 4)
	require.Error(t, err)
	_, err = Key([]byte{0x05}, 8)
	require.Error(t, err)
	_, err = Key(nil, 4)
	require.Error(t, err)
}
