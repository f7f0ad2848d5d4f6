package reconstructor

// Options holds the engine settings.
type Options struct {
	// Validate checks book consistency after every applied event. Slow; meant for debugging feeds.
	Validate bool
}

// DefaultOptions returns the default engine options.
func DefaultOptions() *Options {
	return &Options{
		Validate: false,
	}
}
