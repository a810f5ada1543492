package mpegaudio

import (
	"bytes"
	"slices"
	"testing"

	"github.com/icza/bitio"
	"github.com/stretchr/testify/require"
)

func offsets(seq []Candidate) []int {
	out := make([]int, 0, len(seq))
	for _, c := range seq {
		out = append(out, c.Offset)
	}
	return out
}

func TestLocateSkipsHeaderSpan(t *testing.T) {
	buf := NewBitBuffer(bytes.Repeat([]byte{0xff}, 8))

	// 64 set bits: matches at 0 and 26, then fewer than 26 bits remain.
	got := slices.Collect(Locate(buf))
	require.Equal(t, []int{0, 26}, offsets(got))
}

func TestLocateRestartable(t *testing.T) {
	buf := NewBitBuffer(stream(t, mpeg1Layer3, 417, 2048))

	first := slices.Collect(Locate(buf))
	second := slices.Collect(Locate(buf))
	require.Equal(t, first, second)
	require.Equal(t, []int{0, 417 * 8, 834 * 8, 1251 * 8, 1668 * 8}, offsets(first))

	// Stopping early does not disturb later scans.
	for c := range Locate(buf) {
		require.Equal(t, 0, c.Offset)
		break
	}
	require.Equal(t, first, slices.Collect(Locate(buf)))
}

func TestLocateSkipsReservedVersion(t *testing.T) {
	bad := mpeg1Layer3
	bad.version = 0b01

	data := append(header(t, bad), header(t, mpeg1Layer3)...)

	got := slices.Collect(Locate(NewBitBuffer(data)))
	require.Equal(t, []int{32}, offsets(got))
}

func TestLocateUnaligned(t *testing.T) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	require.NoError(t, w.WriteBits(0, 3))
	writeHeader(t, w, mpeg1Layer3)
	require.NoError(t, w.Close())

	got := slices.Collect(Locate(NewBitBuffer(buf.Bytes())))
	require.Equal(t, []int{3}, offsets(got))
}

func TestLocateBoundary(t *testing.T) {
	h := header(t, mpeg1Layer3)

	// The header fills the last 32 bits; its window still fits.
	data := append(make([]byte, 4), h...)
	require.Equal(t, []int{32}, offsets(slices.Collect(Locate(NewBitBuffer(data)))))

	// Truncated to 24 bits the window overruns and nothing is reported.
	data = append(make([]byte, 4), h[:3]...)
	require.Empty(t, slices.Collect(Locate(NewBitBuffer(data))))

	require.Empty(t, slices.Collect(Locate(NewBitBuffer(nil))))
	require.Empty(t, slices.Collect(Locate(NewBitBuffer([]byte{0xff, 0xff, 0xff}))))
}

func TestLocateNoSync(t *testing.T) {
	data := bytes.Repeat([]byte{0xff, 0x00}, 512)
	require.Empty(t, slices.Collect(Locate(NewBitBuffer(data))))
}
