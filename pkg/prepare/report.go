package prepare

import (
	"fmt"
	"strings"
)

// ParseFailure records one annotation file that could not be decoded.
type ParseFailure struct {
	Path string
	Err  error
}

// Report summarizes one preparation run.
type Report struct {
	// Valid counts annotations that parsed successfully.
	Valid int
	// Failures lists annotation files that could not be parsed, with cause.
	Failures []ParseFailure
	// Ignored counts examples dropped at encode time (unreadable image,
	// unsupported format, unknown label).
	Ignored int
	// Labels is the number of distinct object labels found.
	Labels int
	// Files lists every output file written, label map included.
	Files []string
}

// Total returns the number of annotation files encountered.
func (r *Report) Total() int {
	return r.Valid + len(r.Failures)
}

// String renders a human-readable run summary.
func (r *Report) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Done, %d file(s) were written, found %d example(s).\n", len(r.Files), r.Total())
	for _, f := range r.Files {
		fmt.Fprintf(&sb, "   - %s\n", f)
	}
	if r.Ignored > 0 {
		fmt.Fprintf(&sb, "%d example(s) were ignored.\n", r.Ignored)
	}
	if len(r.Failures) > 0 {
		fmt.Fprintf(&sb, "%d example(s) could not be processed:\n", len(r.Failures))
		for _, f := range r.Failures {
			fmt.Fprintf(&sb, "   - In %s - %v\n", f.Path, f.Err)
		}
	}

	return sb.String()
}
