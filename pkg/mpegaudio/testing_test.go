package mpegaudio

import (
	"bytes"
	"testing"

	"github.com/icza/bitio"
	"github.com/stretchr/testify/require"
)

// fields holds the raw codes of a header, in header order.
type fields struct {
	version    uint64
	layer      uint64
	protection uint64
	bitrate    uint64
	sampling   uint64
	padding    uint64
	private    uint64
	mode       uint64
}

// mpeg1Layer3 is a typical 128kbps 44.1kHz joint stereo MP3 header.
var mpeg1Layer3 = fields{
	version:    0b11,
	layer:      0b01,
	protection: 1,
	bitrate:    0b1001,
	sampling:   0b00,
	mode:       0b01,
}

// writeHeader writes a full 32 bit header, with the trailing mode extension,
// copyright, original and emphasis bits cleared.
func writeHeader(t testing.TB, w *bitio.Writer, f fields) {
	t.Helper()

	for _, field := range []struct {
		v uint64
		n uint8
	}{
		{0x7ff, 11},
		{f.version, 2},
		{f.layer, 2},
		{f.protection, 1},
		{f.bitrate, 4},
		{f.sampling, 2},
		{f.padding, 1},
		{f.private, 1},
		{f.mode, 2},
		{0, 6},
	} {
		require.NoError(t, w.WriteBits(field.v, field.n))
	}
}

// header returns the four header bytes for f.
func header(t testing.TB, f fields) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	writeHeader(t, w, f)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

// stream returns size bytes holding back to back frames of frameSize bytes,
// each starting with the header for f and followed by silence.
func stream(t testing.TB, f fields, frameSize, size int) []byte {
	t.Helper()

	h := header(t, f)
	out := make([]byte, size)
	for off := 0; off+len(h) <= size; off += frameSize {
		copy(out[off:], h)
	}

	return out
}
