package shoutcast

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

// maxRedirects bounds how many playlists are followed before giving up.
const maxRedirects = 3

const userAgent = "iTunes/12.9.2 (Macintosh; OS X 10.14.3) AppleWebKit/606.4.5"

// MetadataCallbackFunc is the type of the function called when the stream metadata changes
type MetadataCallbackFunc func(m *Metadata)

// Stream represents an open HTTP audio stream.
type Stream struct {
	// The name of the server
	Name string

	// What category the server falls under
	Genre string

	// The description of the stream
	Description string

	// Homepage of the server
	URL string

	// Bitrate advertised by the server, in kbps
	Bitrate int

	// Optional function to be executed when stream metadata changes
	MetadataCallbackFunc MetadataCallbackFunc

	// Amount of audio bytes between metadata blocks, 0 when the server sends none
	metaint int

	// Stream metadata
	metadata *Metadata

	// The number of audio bytes read since last metadata block
	pos int

	// The underlying data stream
	rc io.ReadCloser

	logger *slog.Logger
}

// client has a connect timeout but no overall timeout, so a stream can be
// read for as long as the caller's context allows.
var client = &http.Client{
	Transport: &http.Transport{
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		ResponseHeaderTimeout: 10 * time.Second,
	},
}

// Open establishes a connection to a remote server.
// Playlist responses (.pls, .m3u) are resolved and the stream they name is opened instead.
func Open(ctx context.Context, url string, logger *slog.Logger) (*Stream, error) {
	logger = logger.With("url", url)
	logger.Info("opening stream")

	resp, err := get(ctx, url)
	if err != nil {
		return nil, err
	}

	for redirects := 0; ; redirects++ {
		kind := classify(url, resp)
		if kind == notPlaylist {
			break
		}

		streamURL, err := resolvePlaylist(kind, resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve playlist URL: %w", err)
		}
		if redirects == maxRedirects {
			return nil, fmt.Errorf("too many nested playlists at %s", streamURL)
		}

		logger.Info("resolved playlist to stream URL", "stream", streamURL)
		url = streamURL

		resp, err = get(ctx, url)
		if err != nil {
			return nil, err
		}
	}

	for k, v := range resp.Header {
		logger.Debug("HTTP header", "key", k, "value", v[0])
	}

	s := &Stream{
		Name:        resp.Header.Get("icy-name"),
		Genre:       resp.Header.Get("icy-genre"),
		Description: resp.Header.Get("icy-description"),
		URL:         resp.Header.Get("icy-url"),
		rc:          resp.Body,
		logger:      logger,
	}

	if rawBitrate := resp.Header.Get("icy-br"); rawBitrate != "" {
		// Some servers send "128,128".
		if s.Bitrate, err = strconv.Atoi(rawBitrate); err != nil {
			logger.Debug("ignoring unparsable bitrate", "icy-br", rawBitrate)
		}
	}

	if rawMetaint := resp.Header.Get("icy-metaint"); rawMetaint != "" {
		s.metaint, err = strconv.Atoi(rawMetaint)
		if err != nil || s.metaint < 0 {
			resp.Body.Close()
			return nil, fmt.Errorf("cannot parse metaint %q: %v", rawMetaint, err)
		}
	}

	return s, nil
}

func get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("accept", "*/*")
	req.Header.Add("user-agent", userAgent)
	req.Header.Add("icy-metadata", "1")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status fetching %s: %s", url, resp.Status)
	}

	return resp, nil
}

// Read implements the standard Read interface. Metadata blocks are consumed
// and never returned; a Read stops short at a metadata boundary.
func (s *Stream) Read(buf []byte) (int, error) {
	if s.metaint == 0 {
		return s.rc.Read(buf)
	}

	if s.pos == s.metaint {
		if err := s.readMetadata(); err != nil {
			return 0, err
		}
		s.pos = 0
	}

	if remaining := s.metaint - s.pos; len(buf) > remaining {
		buf = buf[:remaining]
	}

	n, err := s.rc.Read(buf)
	s.pos += n

	return n, err
}

// readMetadata reads one length prefixed metadata block and reports a change
// to MetadataCallbackFunc.
func (s *Stream) readMetadata() error {
	var metaLenByte [1]byte
	if _, err := io.ReadFull(s.rc, metaLenByte[:]); err != nil {
		return err
	}

	metaBlockLen := int(metaLenByte[0]) * 16
	if metaBlockLen == 0 {
		return nil
	}

	metaBuf := make([]byte, metaBlockLen)
	if _, err := io.ReadFull(s.rc, metaBuf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return err
	}

	if m := NewMetadata(metaBuf); !m.Equals(s.metadata) {
		s.metadata = m
		s.logger.Debug("stream metadata changed", "title", m.StreamTitle)
		if s.MetadataCallbackFunc != nil {
			s.MetadataCallbackFunc(m)
		}
	}

	return nil
}

// Close closes the stream
func (s *Stream) Close() error {
	s.logger.Debug("closing stream")
	return s.rc.Close()
}
