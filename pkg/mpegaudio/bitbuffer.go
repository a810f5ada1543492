package mpegaudio

// BitBuffer is a read-only view over a byte slice, addressable at bit
// granularity. Bit 0 is the most significant bit of byte 0.
type BitBuffer struct {
	data []byte
}

// NewBitBuffer wraps data. The slice is never modified.
func NewBitBuffer(data []byte) BitBuffer {
	return BitBuffer{data: data}
}

// Len returns the number of addressable bits.
func (b BitBuffer) Len() int {
	return len(b.data) * 8
}

// Bit returns the bit at off. off must be in [0, Len()).
func (b BitBuffer) Bit(off int) uint8 {
	return (b.data[off>>3] >> (7 - uint(off&7))) & 1
}

// Bits returns n bits starting at off, most significant first, as the low
// bits of the result. n must be at most 32. ok is false when the requested
// range does not fit in the buffer.
func (b BitBuffer) Bits(off, n int) (v uint32, ok bool) {
	if off < 0 || n < 0 || n > 32 || off+n > b.Len() {
		return 0, false
	}
	if n == 0 {
		return 0, true
	}

	first := off >> 3
	last := (off + n - 1) >> 3

	// At most five bytes are touched for n <= 32.
	var acc uint64
	for i := first; i <= last; i++ {
		acc = acc<<8 | uint64(b.data[i])
	}
	trailing := uint((last+1)*8 - (off + n))

	return uint32((acc >> trailing) & (1<<uint(n) - 1)), true
}

// nextRun returns the position of the first run of n set bits starting at or
// after from, or -1 when there is none.
func (b BitBuffer) nextRun(from, n int) int {
	if from < 0 {
		from = 0
	}

	run := 0
	for i := from; i < b.Len(); i++ {
		if run == 0 && i&7 == 0 && b.data[i>>3] == 0x00 {
			i += 7
			continue
		}
		if b.Bit(i) == 0 {
			run = 0
			continue
		}
		run++
		if run == n {
			return i - n + 1
		}
	}

	return -1
}
