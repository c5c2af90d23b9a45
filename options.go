package pdfredact

// Options configures RedactDocument's behavior across pages.
type Options struct {
	// StopOnError aborts RedactDocument on the first page whose RedactPage
	// call returns an error (its content fails to parse, or its output
	// fails to re-parse for verification), instead of continuing with the
	// remaining pages. A page whose verification finds a term still
	// extractable returns no error and does not stop the run.
	// Default: false.
	StopOnError bool
}

// DefaultOptions returns the default document-level redaction options.
func DefaultOptions() *Options {
	return &Options{StopOnError: false}
}

// WithStopOnError sets whether RedactDocument aborts on the first
// page-level failure.
func (o *Options) WithStopOnError(stop bool) *Options {
	o.StopOnError = stop
	return o
}
