package mpegaudio

// Reason records why a candidate was accepted or rejected.
type Reason uint8

const (
	Accepted Reason = iota
	ShortWindow
	MissingSync
	ReservedVersion
	ReservedLayer
	ReservedBitrate
	ReservedSamplingRate
	LayerIIChannelMode
)

// Reasons lists every rejection reason.
var Reasons = []Reason{
	ShortWindow,
	MissingSync,
	ReservedVersion,
	ReservedLayer,
	ReservedBitrate,
	ReservedSamplingRate,
	LayerIIChannelMode,
}

func (r Reason) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case ShortWindow:
		return "short_window"
	case MissingSync:
		return "missing_sync"
	case ReservedVersion:
		return "reserved_version"
	case ReservedLayer:
		return "reserved_layer"
	case ReservedBitrate:
		return "reserved_bitrate"
	case ReservedSamplingRate:
		return "reserved_sampling_rate"
	case LayerIIChannelMode:
		return "layer2_channel_mode"
	}
	return "unknown"
}

const syncWord = 1<<SyncBits - 1

// Decode decodes the header at c. ok is false when any field is reserved or
// the fields do not form a legal combination.
func Decode(buf BitBuffer, c Candidate) (h Header, ok bool) {
	h, r := Inspect(buf, c)
	return h, r == Accepted
}

// Inspect is Decode with the reason for a rejection. The Header is only
// meaningful when the reason is Accepted.
func Inspect(buf BitBuffer, c Candidate) (Header, Reason) {
	w, ok := buf.Bits(c.Offset, HeaderBits)
	if !ok {
		return Header{}, ShortWindow
	}
	return decodeWord(c.Offset, w)
}

// decodeWord decodes the HeaderBits low bits of w. Bit 0 of the window is
// bit 25 of w.
func decodeWord(offset int, w uint32) (Header, Reason) {
	if w>>(HeaderBits-SyncBits) != syncWord {
		return Header{}, MissingSync
	}

	version := Version(w >> 13 & 0b11)
	if version == VersionReserved {
		return Header{}, ReservedVersion
	}

	layer := Layer(w >> 11 & 0b11)
	if layer == LayerReserved {
		return Header{}, ReservedLayer
	}

	mode := ChannelMode(w & 0b11)

	bitrate := LookupBitrate(version, layer, uint8(w>>6&0x0f))
	if bitrate.IsReserved() {
		return Header{}, ReservedBitrate
	}
	if layer == Layer2 && !layerIIAllows(bitrate, mode) {
		return Header{}, LayerIIChannelMode
	}

	rate, ok := LookupSamplingRate(version, uint8(w>>4&0b11))
	if !ok {
		return Header{}, ReservedSamplingRate
	}

	return Header{
		Offset:       offset,
		Version:      version,
		Layer:        layer,
		Protected:    w>>10&1 == 1,
		Bitrate:      bitrate,
		SamplingRate: rate,
		Padding:      w>>3&1 == 1,
		Private:      w>>2&1 == 1,
		ChannelMode:  mode,
	}, Accepted
}
