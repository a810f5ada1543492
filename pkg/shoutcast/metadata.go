package shoutcast

import (
	"strings"
)

// Metadata is the content of an ICY metadata block.
type Metadata struct {
	StreamTitle string
	StreamURL   string
}

// NewMetadata parses a metadata block such as
// "StreamTitle='Artist - Title';StreamUrl='';" padded with NUL bytes.
func NewMetadata(b []byte) *Metadata {
	m := &Metadata{}

	s := strings.TrimRight(string(b), "\x00")
	for _, field := range strings.Split(s, "';") {
		key, value, found := strings.Cut(field, "='")
		if !found {
			continue
		}
		switch strings.TrimSpace(key) {
		case "StreamTitle":
			m.StreamTitle = value
		case "StreamUrl":
			m.StreamURL = value
		}
	}

	return m
}

// Equals reports whether m and other carry the same values. A nil Metadata
// only equals another nil.
func (m *Metadata) Equals(other *Metadata) bool {
	if m == nil || other == nil {
		return m == other
	}
	return *m == *other
}
