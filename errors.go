package pdfredact

import "errors"

// Sentinel errors for the job-loading and CLI layers built on top of the
// core redaction API. The core itself reports failures through
// *RedactionError (see pdfredact.go). jobconfig.Load and the pdfredact CLI
// report job-file problems with their own wrapped messages and do not
// return these sentinels.
var (
	// ErrInvalidJob identifies a redaction job file that is malformed or
	// missing required fields (no pages, no output path, ...).
	ErrInvalidJob = errors.New("pdfredact: invalid job file")

	// ErrNoPages identifies a job file that names zero pages to redact.
	ErrNoPages = errors.New("pdfredact: job has no pages")

	// ErrUnsupportedFeature identifies a job file field the CLI cannot
	// translate into a core redaction request.
	ErrUnsupportedFeature = errors.New("pdfredact: unsupported job feature")
)

// IsInvalidJob reports whether err indicates a malformed job file.
func IsInvalidJob(err error) bool {
	return errors.Is(err, ErrInvalidJob)
}
