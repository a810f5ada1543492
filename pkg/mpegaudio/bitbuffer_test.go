package mpegaudio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitBufferBit(t *testing.T) {
	b := NewBitBuffer([]byte{0b1010_0000, 0b0000_0001})

	require.Equal(t, 16, b.Len())
	require.Equal(t, uint8(1), b.Bit(0))
	require.Equal(t, uint8(0), b.Bit(1))
	require.Equal(t, uint8(1), b.Bit(2))
	require.Equal(t, uint8(0), b.Bit(14))
	require.Equal(t, uint8(1), b.Bit(15))
}

func TestBitBufferBits(t *testing.T) {
	b := NewBitBuffer([]byte{0x12, 0x34, 0x56, 0x78, 0x9a})

	cases := []struct {
		name string
		off  int
		n    int
		want uint32
		ok   bool
	}{
		{name: "empty", off: 3, n: 0, want: 0, ok: true},
		{name: "first nibble", off: 0, n: 4, want: 0x1, ok: true},
		{name: "aligned byte", off: 8, n: 8, want: 0x34, ok: true},
		{name: "straddles bytes", off: 4, n: 8, want: 0x23, ok: true},
		{name: "unaligned 32", off: 4, n: 32, want: 0x23456789, ok: true},
		{name: "last bit", off: 39, n: 1, want: 0, ok: true},
		{name: "overrun", off: 36, n: 5, ok: false},
		{name: "too wide", off: 0, n: 33, ok: false},
		{name: "negative", off: -1, n: 4, ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := b.Bits(tc.off, tc.n)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestBitBufferNextRun(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		from int
		want int
	}{
		{name: "empty", data: nil, want: -1},
		{name: "aligned", data: []byte{0xff, 0xe0}, want: 0},
		{name: "unaligned", data: []byte{0x1f, 0xfc}, want: 3},
		{name: "after zero bytes", data: []byte{0x00, 0x00, 0xff, 0xe0}, want: 16},
		{name: "too short", data: []byte{0xff, 0xc0}, want: -1},
		{name: "from skips match", data: []byte{0xff, 0xff, 0xff}, from: 2, want: 2},
		{name: "interrupted run", data: []byte{0xff, 0x7f, 0xf0}, want: 9},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, NewBitBuffer(tc.data).nextRun(tc.from, SyncBits))
		})
	}
}
