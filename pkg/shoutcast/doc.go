// Package shoutcast opens HTTP audio streams, including ICY/Shoutcast ones,
// and returns only the audio bytes.
//
// It is a fork of github.com/romantomjak/shoutcast, reworked for probing:
//   - Playlist resolution: .pls and .m3u responses are followed to the actual stream URL
//   - Correct metadata stripping: ICY metadata blocks are read and skipped so only audio bytes are returned
//   - Plain HTTP audio without icy-metaint is passed through untouched
//   - Requests are bound to a context so a probe can be abandoned
package shoutcast
