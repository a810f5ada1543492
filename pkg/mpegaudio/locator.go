package mpegaudio

import "iter"

const (
	// SyncBits is the length of the frame sync word, eleven set bits.
	SyncBits = 11

	// HeaderBits is the span of a candidate window: sync word through the
	// channel mode field.
	HeaderBits = 26

	versionReservedCode = uint32(VersionReserved)
)

// Candidate is a position where a frame sync word was found.
type Candidate struct {
	// Offset is the bit offset of the first sync bit.
	Offset int
}

// Locate yields the candidates in buf in ascending order. The sequence is
// lazy and restarts from the beginning of buf on every range.
//
// After each match the search resumes HeaderBits past the start of the
// match, so a sync pattern inside an examined window is never reported.
// Matches whose version bits hold the reserved code are skipped.
//
// Known limitation: a sync word starting within the final HeaderBits of buf
// ends the scan, because its window would overrun the buffer. A header
// sitting right at the end of a truncated buffer is therefore missed; pass
// enough trailing bytes (DefaultWindow is usual) to cover the frames you
// care about.
func Locate(buf BitBuffer) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		from := 0
		for buf.Len()-from >= HeaderBits {
			m := buf.nextRun(from, SyncBits)
			if m < 0 || m+HeaderBits > buf.Len() {
				return
			}

			if v, _ := buf.Bits(m+SyncBits, 2); v != versionReservedCode {
				if !yield(Candidate{Offset: m}) {
					return
				}
			}

			from = m + HeaderBits
		}
	}
}
