package prober

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/grafana/dskit/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/zachfi/zkit/pkg/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zachfi/mpegprobe/pkg/mpegaudio"
	"github.com/zachfi/mpegprobe/pkg/shoutcast"
	"github.com/zachfi/mpegprobe/pkg/source"
)

var module = "prober"

// Result is the outcome of probing one location.
type Result struct {
	Location string             `yaml:"location"`
	Time     time.Time          `yaml:"time"`
	Duration time.Duration      `yaml:"duration"`
	Error    string             `yaml:"error,omitempty"`
	Bytes    int                `yaml:"bytes"`
	Rejected map[string]int     `yaml:"rejected,omitempty"`
	Headers  []mpegaudio.Header `yaml:"headers"`

	err   error
	stats mpegaudio.Stats
}

// Err returns the acquisition failure, if any.
func (r *Result) Err() error {
	return r.err
}

type Prober struct {
	services.Service
	cfg     *Config
	logger  *slog.Logger
	fetcher *source.Fetcher
	metrics *metrics
	tracer  trace.Tracer

	mtx     sync.RWMutex
	results map[string]*Result
}

// New creates and returns a new Prober.
func New(cfg Config, logger slog.Logger, reg prometheus.Registerer) (*Prober, error) {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = mpegaudio.DefaultWindow
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	p := &Prober{
		cfg:     &cfg,
		logger:  logger.With("module", module),
		metrics: newMetrics(reg),
		tracer:  otel.Tracer(module),
		results: make(map[string]*Result),
	}
	p.fetcher = source.New(cfg.BufferSize, *p.logger, p.onMetadata)

	p.Service = services.NewTimerService(cfg.Interval, p.starting, p.iteration, p.stopping)

	return p, nil
}

func (p *Prober) starting(ctx context.Context) error {
	p.logger.Info("starting", "targets", len(p.cfg.Targets), "interval", p.cfg.Interval)
	p.probeTargets(ctx)
	return nil
}

func (p *Prober) iteration(ctx context.Context) error {
	p.probeTargets(ctx)
	return nil
}

func (p *Prober) stopping(_ error) error {
	p.logger.Info("stopping")
	return nil
}

func (p *Prober) probeTargets(ctx context.Context) {
	for _, target := range p.cfg.Targets {
		if ctx.Err() != nil {
			return
		}
		p.Probe(ctx, target)
	}
}

// Probe acquires the leading bytes of location, scans them and caches the
// result. Acquisition failures are recorded in the Result rather than
// returned.
func (p *Prober) Probe(ctx context.Context, location string) *Result {
	ctx, span := p.tracer.Start(ctx, "Prober.Probe", trace.WithAttributes(attribute.String("location", location)))

	res := p.probe(ctx, location)
	if res.err == nil {
		span.SetAttributes(
			attribute.Int("bytes", res.Bytes),
			attribute.Int("candidates", res.stats.Candidates),
			attribute.Int("headers", len(res.Headers)),
		)
	}
	_ = tracing.ErrHandler(span, res.err, "probe failed", p.logger)

	p.metrics.observe(res)

	p.mtx.Lock()
	p.results[location] = res
	p.mtx.Unlock()

	if res.err == nil {
		p.logger.Debug("probed", "location", location, "headers", len(res.Headers), "candidates", res.stats.Candidates)
		if len(res.Headers) > 0 {
			p.logger.Info("first frame", "location", location, "header", res.Headers[0].String())
		}
	}

	return res
}

func (p *Prober) probe(ctx context.Context, location string) *Result {
	start := time.Now()
	res := &Result{Location: location, Time: start}

	fetchCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	buf, err := p.fetcher.Fetch(fetchCtx, location)
	if err != nil {
		res.err = err
		res.Error = err.Error()
		res.Duration = time.Since(start)
		return res
	}

	res.Bytes = len(buf)
	res.Headers, res.stats = mpegaudio.Scan(buf)
	if len(res.stats.Rejected) > 0 {
		res.Rejected = make(map[string]int, len(res.stats.Rejected))
		for r, n := range res.stats.Rejected {
			res.Rejected[r.String()] = n
		}
	}
	res.Duration = time.Since(start)

	return res
}

// Results returns the latest result for every probed location, ordered by
// location.
func (p *Prober) Results() []*Result {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	out := make([]*Result, 0, len(p.results))
	for _, r := range p.results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Location < out[j].Location })

	return out
}

func (p *Prober) onMetadata(location string, m *shoutcast.Metadata) {
	p.logger.Info("now playing", "location", location, "title", m.StreamTitle)
}

func (r *Result) String() string {
	if r.err != nil {
		return fmt.Sprintf("%s: %v", r.Location, r.err)
	}
	return fmt.Sprintf("%s: %d headers in %d bytes", r.Location, len(r.Headers), r.Bytes)
}
