package tagstat

// Option configures behavior when opening files.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	file, err := tagstat.Open("song.mp3",
//	    tagstat.WithLenientParsing(),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening files.
type openOptions struct {
	lenient        bool // Treat a malformed tag as absent
	ignoreWarnings bool // Suppress all warnings
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{
		lenient:        false,
		ignoreWarnings: false,
	}
}

// WithLenientParsing treats a malformed tag as absent instead of failing.
//
// By default, a file that starts with "ID3" but whose tag cannot be parsed
// makes Open return the parse error. With this option Open succeeds with an
// empty tag, records the parse error in File.Warnings, and considers the
// whole file to be audio. Saving then writes a fresh tag in front of the
// old bytes.
//
// Example:
//
//	file, err := tagstat.Open("damaged.mp3", tagstat.WithLenientParsing())
//	if err != nil {
//		return err
//	}
//	for _, w := range file.Warnings {
//		log.Println(w)
//	}
func WithLenientParsing() Option {
	return func(o *openOptions) {
		o.lenient = true
	}
}

// WithIgnoreWarnings suppresses all non-fatal warnings.
func WithIgnoreWarnings() Option {
	return func(o *openOptions) {
		o.ignoreWarnings = true
	}
}
