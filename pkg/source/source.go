// Package source acquires the leading bytes of an audio resource, either a
// local file or an HTTP stream.
package source

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/zachfi/mpegprobe/pkg/shoutcast"
)

// AcquisitionError reports that the bytes of a location could not be
// obtained. It is never returned for content that merely fails to parse.
type AcquisitionError struct {
	Location string
	Err      error
}

func (e *AcquisitionError) Error() string {
	return "acquiring " + e.Location + ": " + e.Err.Error()
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// Cause lets errors.Cause reach the underlying failure.
func (e *AcquisitionError) Cause() error { return e.Err }

// MetadataFunc is called with stream metadata seen while reading location.
type MetadataFunc func(location string, m *shoutcast.Metadata)

// Fetcher reads a fixed number of leading bytes from a location.
type Fetcher struct {
	size       int
	logger     *slog.Logger
	onMetadata MetadataFunc
}

// New returns a Fetcher reading up to size bytes. onMetadata may be nil.
func New(size int, logger slog.Logger, onMetadata MetadataFunc) *Fetcher {
	return &Fetcher{
		size:       size,
		logger:     logger.With("component", "source"),
		onMetadata: onMetadata,
	}
}

// Fetch opens location, reads up to the configured size and closes it
// again. A resource shorter than the size yields a shorter buffer. Every
// failure is an *AcquisitionError.
func (f *Fetcher) Fetch(ctx context.Context, location string) (buf []byte, err error) {
	if err := ctx.Err(); err != nil {
		return nil, &AcquisitionError{Location: location, Err: err}
	}

	rc, err := f.open(ctx, location)
	if err != nil {
		return nil, &AcquisitionError{Location: location, Err: err}
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			buf, err = nil, &AcquisitionError{Location: location, Err: errors.Wrap(closeErr, "close")}
		}
	}()

	buf = make([]byte, f.size)
	n, err := io.ReadFull(rc, buf)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		f.logger.Debug("resource shorter than window", "location", location, "read", n, "window", f.size)
		err = nil
	default:
		return nil, &AcquisitionError{Location: location, Err: errors.Wrap(err, "read")}
	}

	return buf[:n], nil
}

func (f *Fetcher) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !strings.Contains(location, "://") {
		file, err := os.Open(location)
		return file, errors.Wrap(err, "open file")
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, errors.Wrap(err, "parse location")
	}

	switch u.Scheme {
	case "file":
		file, err := os.Open(u.Path)
		return file, errors.Wrap(err, "open file")
	case "http", "https":
		s, err := shoutcast.Open(ctx, location, f.logger)
		if err != nil {
			return nil, errors.Wrap(err, "open stream")
		}
		if f.onMetadata != nil {
			s.MetadataCallbackFunc = func(m *shoutcast.Metadata) {
				f.onMetadata(location, m)
			}
		}
		return s, nil
	}

	return nil, errors.Errorf("unsupported scheme %q", u.Scheme)
}
