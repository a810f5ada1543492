// Package mpegaudio locates and decodes MPEG audio frame headers in the leading
// bytes of a stream.
//
// A scan works in two steps:
//   - Locate walks a BitBuffer looking for the 11-bit frame sync word and
//     yields candidate positions whose version bits are not reserved.
//   - Decode reads the 26 bits of each candidate, maps every field through the
//     version and layer dependent tables and rejects reserved values and
//     Layer II bitrate/channel mode combinations that MPEG forbids.
//
// Invalid candidates are an ordinary outcome and are dropped from the result.
// Nothing here performs I/O; callers hand over a buffer, usually the first
// 8 KiB of the stream.
package mpegaudio
