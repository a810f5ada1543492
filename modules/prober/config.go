package prober

import (
	"flag"
	"time"

	"github.com/grafana/dskit/flagext"
	"github.com/zachfi/zkit/pkg/util"

	"github.com/zachfi/mpegprobe/pkg/mpegaudio"
)

const (
	defaultInterval = time.Minute
	defaultTimeout  = 10 * time.Second
)

type Config struct {
	Targets    flagext.StringSliceCSV `yaml:"targets,omitempty"`
	Interval   time.Duration          `yaml:"interval,omitempty"`    // time between probes of every target
	BufferSize int                    `yaml:"buffer-size,omitempty"` // leading bytes read from each target
	Timeout    time.Duration          `yaml:"timeout,omitempty"`     // limit on acquiring one target
}

func (cfg *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	f.Var(&cfg.Targets, util.PrefixConfig(prefix, "targets"), "Comma separated files or URLs to probe")
	f.DurationVar(&cfg.Interval, util.PrefixConfig(prefix, "interval"), defaultInterval, "How often every target is probed")
	f.IntVar(&cfg.BufferSize, util.PrefixConfig(prefix, "buffer-size"), mpegaudio.DefaultWindow,
		"Leading bytes read from each target. Headers starting in the last few bytes are not reported, so keep several frames of slack.")
	f.DurationVar(&cfg.Timeout, util.PrefixConfig(prefix, "timeout"), defaultTimeout, "Time limit for acquiring the bytes of one target")
}
