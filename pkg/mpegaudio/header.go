package mpegaudio

import (
	"fmt"
	"strconv"
)

// Version is the MPEG audio version ID. The values are the raw two bit codes
// found in the header.
type Version uint8

const (
	Version25       Version = 0b00
	VersionReserved Version = 0b01
	Version2        Version = 0b10
	Version1        Version = 0b11
)

func (v Version) String() string {
	switch v {
	case Version1:
		return "1"
	case Version2:
		return "2"
	case Version25:
		return "2.5"
	}
	return "reserved"
}

// Layer is the MPEG audio layer. The values are the raw two bit codes found
// in the header, so Layer3 < Layer1.
type Layer uint8

const (
	LayerReserved Layer = 0b00
	Layer3        Layer = 0b01
	Layer2        Layer = 0b10
	Layer1        Layer = 0b11
)

// Number returns 1, 2 or 3, or 0 for the reserved layer.
func (l Layer) Number() int {
	if l == LayerReserved {
		return 0
	}
	return 4 - int(l)
}

func (l Layer) String() string {
	switch l {
	case Layer1:
		return "I"
	case Layer2:
		return "II"
	case Layer3:
		return "III"
	}
	return "reserved"
}

// ChannelMode is the channel mode of a frame. Every two bit code is valid.
type ChannelMode uint8

const (
	Stereo      ChannelMode = 0b00
	JointStereo ChannelMode = 0b01
	DualMono    ChannelMode = 0b10
	Mono        ChannelMode = 0b11
)

func (m ChannelMode) String() string {
	switch m {
	case Stereo:
		return "stereo"
	case JointStereo:
		return "joint stereo"
	case DualMono:
		return "dual mono"
	case Mono:
		return "mono"
	}
	return "unknown"
}

type bitrateKind uint8

const (
	bitrateReserved bitrateKind = iota
	bitrateFree
	bitrateFixed
)

// Bitrate is the outcome of a bitrate index lookup: a fixed rate in kbps,
// FreeFormat, or reserved. The zero value is reserved.
type Bitrate struct {
	kind bitrateKind
	kbps int
}

// FreeFormat is a constant bitrate chosen by the encoder that the header
// cannot express.
var FreeFormat = Bitrate{kind: bitrateFree}

// Kbps returns a fixed bitrate.
func Kbps(kbps int) Bitrate {
	return Bitrate{kind: bitrateFixed, kbps: kbps}
}

// Value returns the rate in kbps. ok is false for free format and reserved.
func (b Bitrate) Value() (kbps int, ok bool) {
	return b.kbps, b.kind == bitrateFixed
}

func (b Bitrate) IsFree() bool     { return b.kind == bitrateFree }
func (b Bitrate) IsReserved() bool { return b.kind == bitrateReserved }

func (b Bitrate) String() string {
	switch b.kind {
	case bitrateFree:
		return "free"
	case bitrateFixed:
		return strconv.Itoa(b.kbps) + "kbps"
	}
	return "reserved"
}

// Header is a validated MPEG audio frame header. It is only built when every
// field holds a non reserved value, and it keeps no reference to the buffer
// it was decoded from.
type Header struct {
	// Offset is the bit offset of the sync word in the scanned buffer.
	Offset int

	Version      Version
	Layer        Layer
	Protected    bool
	Bitrate      Bitrate
	SamplingRate int
	Padding      bool
	Private      bool
	ChannelMode  ChannelMode
}

// ByteOffset returns the index of the byte holding the first sync bit.
func (h Header) ByteOffset() int {
	return h.Offset / 8
}

// Aligned reports whether the sync word starts on a byte boundary, which is
// where real frames start.
func (h Header) Aligned() bool {
	return h.Offset%8 == 0
}

// Channels returns 1 for mono and 2 otherwise.
func (h Header) Channels() int {
	if h.ChannelMode == Mono {
		return 1
	}
	return 2
}

// SamplesPerFrame returns the number of PCM samples per channel in a frame.
func (h Header) SamplesPerFrame() int {
	switch h.Layer {
	case Layer1:
		return 384
	case Layer2:
		return 1152
	}
	if h.Version == Version1 {
		return 1152
	}
	return 576
}

// FrameSize returns the length of the frame in bytes, header included.
// ok is false for free format streams, where the size is not derivable from
// the header.
func (h Header) FrameSize() (size int, ok bool) {
	kbps, ok := h.Bitrate.Value()
	if !ok || h.SamplingRate == 0 {
		return 0, false
	}

	padding := 0
	if h.Padding {
		padding = 1
	}

	if h.Layer == Layer1 {
		// Layer I counts in four byte slots.
		return (12*kbps*1000/h.SamplingRate + padding) * 4, true
	}
	return h.SamplesPerFrame()/8*kbps*1000/h.SamplingRate + padding, true
}

func (h Header) String() string {
	return fmt.Sprintf("MPEG-%s layer %s %s %dHz %s", h.Version, h.Layer, h.Bitrate, h.SamplingRate, h.ChannelMode)
}

// MarshalYAML renders the header with human readable field values.
func (h Header) MarshalYAML() (interface{}, error) {
	type view struct {
		Offset       int    `yaml:"offset"`
		Version      string `yaml:"version"`
		Layer        int    `yaml:"layer"`
		Protected    bool   `yaml:"protected"`
		Bitrate      string `yaml:"bitrate"`
		SamplingRate int    `yaml:"sampling_rate_hz"`
		Padding      bool   `yaml:"padding"`
		Private      bool   `yaml:"private"`
		ChannelMode  string `yaml:"channel_mode"`
	}

	return view{
		Offset:       h.Offset,
		Version:      h.Version.String(),
		Layer:        h.Layer.Number(),
		Protected:    h.Protected,
		Bitrate:      h.Bitrate.String(),
		SamplingRate: h.SamplingRate,
		Padding:      h.Padding,
		Private:      h.Private,
		ChannelMode:  h.ChannelMode.String(),
	}, nil
}
