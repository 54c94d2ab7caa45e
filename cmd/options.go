package cmd

// Options holds the shared command-line options for the crumbwatch CLI.
type Options struct {
	Format     string
	Repos      []string
	Verbosity  int
	Interval   string
	ListenAddr string
	Benchmark  float64 // completion probability alert threshold, 0-100
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any
// provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		Benchmark: -1,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the output format (table, json, markdown).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithRepos sets the repositories to scan.
func WithRepos(repos []string) Option {
	return func(o *Options) {
		o.Repos = repos
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithBenchmark sets the completion probability alert threshold.
func WithBenchmark(v float64) Option {
	return func(o *Options) {
		o.Benchmark = v
	}
}
