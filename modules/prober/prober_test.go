package prober

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grafana/dskit/services"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/zachfi/mpegprobe/pkg/mpegaudio"
	"github.com/zachfi/mpegprobe/pkg/source"
)

var logger = *slog.New(slog.DiscardHandler)

// mp3File writes 8 KiB of 128kbps 44.1kHz MPEG-1 Layer III frames and
// returns the path.
func mp3File(t *testing.T) string {
	t.Helper()

	data := make([]byte, mpegaudio.DefaultWindow)
	for off := 0; off+4 <= len(data); off += 417 {
		copy(data[off:], []byte{0xff, 0xfb, 0x90, 0x40})
	}

	path := filepath.Join(t.TempDir(), "frames.mp3")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func newProber(t *testing.T, targets ...string) *Prober {
	t.Helper()

	p, err := New(Config{
		Targets:  targets,
		Interval: time.Hour,
	}, logger, prometheus.NewRegistry())
	require.NoError(t, err)
	return p
}

func TestProberLifecycle(t *testing.T) {
	good := mp3File(t)
	missing := filepath.Join(t.TempDir(), "missing.mp3")

	p := newProber(t, good, missing)
	require.NoError(t, services.StartAndAwaitRunning(context.Background(), p))
	defer func() {
		require.NoError(t, services.StopAndAwaitTerminated(context.Background(), p))
	}()

	results := p.Results()
	require.Len(t, results, 2)

	byLocation := map[string]*Result{}
	for _, r := range results {
		byLocation[r.Location] = r
	}

	ok := byLocation[good]
	require.NotNil(t, ok)
	require.NoError(t, ok.Err())
	require.Equal(t, mpegaudio.DefaultWindow, ok.Bytes)
	require.Len(t, ok.Headers, 20)
	require.Equal(t, mpegaudio.Kbps(128), ok.Headers[0].Bitrate)

	failed := byLocation[missing]
	require.NotNil(t, failed)
	var acqErr *source.AcquisitionError
	require.True(t, errors.As(failed.Err(), &acqErr))
	require.NotEmpty(t, failed.Error)
	require.Empty(t, failed.Headers)

	require.Equal(t, 20.0, testutil.ToFloat64(p.metrics.headers))
	require.Equal(t, 20.0, testutil.ToFloat64(p.metrics.candidates))
	require.Equal(t, 1.0, testutil.ToFloat64(p.metrics.probes.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(p.metrics.probes.WithLabelValues("acquisition_failed")))
}

func TestProbeRecordsRejections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ones.bin")
	ones := make([]byte, 64)
	for i := range ones {
		ones[i] = 0xff
	}
	require.NoError(t, os.WriteFile(path, ones, 0o600))

	p := newProber(t)
	res := p.Probe(context.Background(), path)
	require.NoError(t, res.Err())
	require.Empty(t, res.Headers)
	require.Positive(t, res.Rejected[mpegaudio.ReservedBitrate.String()])
	require.Equal(t, float64(res.Rejected["reserved_bitrate"]),
		testutil.ToFloat64(p.metrics.rejected.WithLabelValues("reserved_bitrate")))
}

func TestServeHTTP(t *testing.T) {
	good := mp3File(t)
	p := newProber(t)

	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe?location="+url.QueryEscape(good), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var single struct {
		Location string `yaml:"location"`
		Bytes    int    `yaml:"bytes"`
		Headers  []struct {
			Version string `yaml:"version"`
			Layer   int    `yaml:"layer"`
			Bitrate string `yaml:"bitrate"`
		} `yaml:"headers"`
	}
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &single))
	require.Equal(t, good, single.Location)
	require.Len(t, single.Headers, 20)
	require.Equal(t, "1", single.Headers[0].Version)
	require.Equal(t, 3, single.Headers[0].Layer)
	require.Equal(t, "128kbps", single.Headers[0].Bitrate)

	rec = httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var all []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 1)
	require.Equal(t, good, all[0]["location"])

	rec = httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/probe", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNewAppliesDefaults(t *testing.T) {
	p, err := New(Config{}, logger, prometheus.NewRegistry())
	require.NoError(t, err)
	require.Equal(t, mpegaudio.DefaultWindow, p.cfg.BufferSize)
	require.Equal(t, defaultInterval, p.cfg.Interval)
	require.Equal(t, defaultTimeout, p.cfg.Timeout)
}
