package mpegaudio

// reserved is the bitrate for index 0b1111 in every table.
var reserved = Bitrate{}

var (
	mpeg1Layer1 = [16]Bitrate{
		FreeFormat, Kbps(32), Kbps(64), Kbps(96), Kbps(128), Kbps(160), Kbps(192), Kbps(224),
		Kbps(256), Kbps(288), Kbps(320), Kbps(352), Kbps(384), Kbps(416), Kbps(448), reserved,
	}
	mpeg1Layer2 = [16]Bitrate{
		FreeFormat, Kbps(32), Kbps(48), Kbps(56), Kbps(64), Kbps(80), Kbps(96), Kbps(112),
		Kbps(128), Kbps(160), Kbps(192), Kbps(224), Kbps(256), Kbps(320), Kbps(384), reserved,
	}
	mpeg1Layer3 = [16]Bitrate{
		FreeFormat, Kbps(32), Kbps(40), Kbps(48), Kbps(56), Kbps(64), Kbps(80), Kbps(96),
		Kbps(112), Kbps(128), Kbps(160), Kbps(192), Kbps(224), Kbps(256), Kbps(320), reserved,
	}
	// MPEG-2 and MPEG-2.5 share their tables.
	mpeg2Layer1 = [16]Bitrate{
		FreeFormat, Kbps(32), Kbps(48), Kbps(56), Kbps(64), Kbps(80), Kbps(96), Kbps(112),
		Kbps(128), Kbps(144), Kbps(160), Kbps(176), Kbps(192), Kbps(224), Kbps(256), reserved,
	}
	mpeg2Layer23 = [16]Bitrate{
		FreeFormat, Kbps(8), Kbps(16), Kbps(24), Kbps(32), Kbps(40), Kbps(48), Kbps(56),
		Kbps(64), Kbps(80), Kbps(96), Kbps(112), Kbps(128), Kbps(144), Kbps(160), reserved,
	}
)

// bitrateTables is indexed by [Version][Layer]. Reserved versions and layers
// have no table.
var bitrateTables = [4][4]*[16]Bitrate{
	Version1: {
		Layer1: &mpeg1Layer1,
		Layer2: &mpeg1Layer2,
		Layer3: &mpeg1Layer3,
	},
	Version2: {
		Layer1: &mpeg2Layer1,
		Layer2: &mpeg2Layer23,
		Layer3: &mpeg2Layer23,
	},
	Version25: {
		Layer1: &mpeg2Layer1,
		Layer2: &mpeg2Layer23,
		Layer3: &mpeg2Layer23,
	},
}

// reservedSamplingIndex is reserved for every version.
const reservedSamplingIndex = 0b11

// samplingRates is indexed by [Version][index] for index < reservedSamplingIndex.
var samplingRates = [4]*[3]int{
	Version1:  {44100, 48000, 32000},
	Version2:  {22050, 24000, 16000},
	Version25: {11025, 12000, 8000},
}

// LookupBitrate returns the bitrate for a four bit index. Reserved versions,
// layers and indexes yield a reserved Bitrate.
func LookupBitrate(v Version, l Layer, index uint8) Bitrate {
	t := bitrateTables[v&0b11][l&0b11]
	if t == nil {
		return reserved
	}
	return t[index&0x0f]
}

// LookupSamplingRate returns the sampling rate in Hz for a two bit index.
func LookupSamplingRate(v Version, index uint8) (hz int, ok bool) {
	t := samplingRates[v&0b11]
	index &= 0b11
	if t == nil || index == reservedSamplingIndex {
		return 0, false
	}
	return t[index], true
}

// layerIIAllows reports whether a Layer II bitrate may be used with mode.
// The lowest rates only make sense for a single channel and the highest ones
// only for two.
func layerIIAllows(b Bitrate, mode ChannelMode) bool {
	kbps, ok := b.Value()
	if !ok {
		return true
	}

	switch kbps {
	case 32, 48, 56, 80:
		return mode == Mono
	case 224, 256, 320, 384:
		return mode != Mono
	}
	return true
}
