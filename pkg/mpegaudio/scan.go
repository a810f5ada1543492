package mpegaudio

import (
	"iter"
	"slices"
)

// DefaultWindow is the number of leading bytes a caller is expected to
// supply. It is large enough to hold several frame headers.
const DefaultWindow = 8192

// Stats summarises a scan.
type Stats struct {
	Candidates int
	Accepted   int
	Rejected   map[Reason]int
}

// Headers yields the valid headers in buf in ascending offset order.
func Headers(buf []byte) iter.Seq[Header] {
	bb := NewBitBuffer(buf)
	return func(yield func(Header) bool) {
		for c := range Locate(bb) {
			if h, ok := Decode(bb, c); ok {
				if !yield(h) {
					return
				}
			}
		}
	}
}

// ScanHeaders returns the valid headers in buf in ascending offset order.
// A buffer without any valid header, including an empty one, yields an
// empty result.
func ScanHeaders(buf []byte) []Header {
	return slices.Collect(Headers(buf))
}

// Scan is ScanHeaders that also counts candidates and rejections.
func Scan(buf []byte) ([]Header, Stats) {
	var (
		bb      = NewBitBuffer(buf)
		headers []Header
		stats   = Stats{Rejected: map[Reason]int{}}
	)

	for c := range Locate(bb) {
		stats.Candidates++
		h, r := Inspect(bb, c)
		if r != Accepted {
			stats.Rejected[r]++
			continue
		}
		headers = append(headers, h)
	}
	stats.Accepted = len(headers)

	return headers, stats
}
