package config

import (
	goflag "flag"
	"time"

	flag "github.com/spf13/pflag"
)

type ViewerConfig struct {
	Backend Backend
	Viewer  Viewer
}

// Backend points to the capture process feeding the overlay.
type Backend struct {
	Address        string
	Endpoint       string
	Secure         bool
	RequestTimeout time.Duration
}

type Viewer struct {
	Debug      bool
	Tag        string
	LockFile   string
	Snapshots  string
	Monitoring Monitoring
	Window     Window
}

type Window struct {
	Title       string
	Width       int
	Height      int
	AlwaysOnTop bool
	Opacity     float32
}

type Monitoring struct {
	Port             int
	URLPrefix        string
	MetricEnabled    bool `fig:"metric_enabled"`
	ProfilingEnabled bool `fig:"profiling_enabled"`
}

func (c *Monitoring) IsEnabled() bool { return c.MetricEnabled || c.ProfilingEnabled }

var (
	configPath  = goflag.String("conf", "", "directory searched for "+File)
	debug       = goflag.Bool("debug", false, "debug logging")
	backendAddr = goflag.String("backend", "", "capture backend address (host:port)")
	monPort     = goflag.Int("monitoring.port", 0, "monitoring server port")
)

// ParseFlags merges the stdlib flag set into pflag and parses the
// command line. Must run before NewConfig.
func ParseFlags() {
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	flag.Parse()
}

// Path returns the custom config directory, empty when the default
// search dirs were used.
func Path() string { return *configPath }

// NewConfig loads the config file and applies flag overrides on top.
func NewConfig() (conf ViewerConfig) {
	if err := LoadConfig(&conf, *configPath); err != nil {
		panic(err)
	}
	conf.override()
	return
}

func (c *ViewerConfig) override() {
	if *debug {
		c.Viewer.Debug = true
	}
	if *backendAddr != "" {
		c.Backend.Address = *backendAddr
	}
	if *monPort != 0 {
		c.Viewer.Monitoring.Port = *monPort
	}
}
