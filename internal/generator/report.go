package generator

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jo-hoe/appicon/internal/sizetable"
)

// Result is the outcome of a single size table entry.
type Result struct {
	Entry    sizetable.Entry
	Path     string
	Bytes    int
	Duration time.Duration
	Err      error
}

// OK reports whether the asset was written.
func (r Result) OK() bool {
	return r.Err == nil
}

// Report lists one result per entry in table order.
type Report struct {
	Source  string
	BaseDir string
	Results []Result
}

// Succeeded returns the number of written assets.
func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of failed entries.
func (r *Report) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// Failures returns the failed results only.
func (r *Report) Failures() []Result {
	var failures []Result
	for _, res := range r.Results {
		if !res.OK() {
			failures = append(failures, res)
		}
	}
	return failures
}

// Err joins the entry errors, or returns nil when every entry succeeded.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Failures() {
		errs = append(errs, fmt.Errorf("%s (%dx%d): %w", res.Entry.ID, res.Entry.Size, res.Entry.Size, res.Err))
	}
	return errors.Join(errs...)
}

// Merge appends the results of other to r.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Results = append(r.Results, other.Results...)
}

// Write prints one line per entry and a summary.
func (r *Report) Write(w io.Writer) error {
	for _, res := range r.Results {
		var err error
		if res.OK() {
			_, err = fmt.Fprintf(w, "ok    %dx%d  %s\n", res.Entry.Size, res.Entry.Size, res.Path)
		} else {
			_, err = fmt.Fprintf(w, "fail  %dx%d  %s: %v\n", res.Entry.Size, res.Entry.Size, res.Entry.ID, res.Err)
		}
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d generated, %d failed\n", r.Succeeded(), r.Failed())
	return err
}
